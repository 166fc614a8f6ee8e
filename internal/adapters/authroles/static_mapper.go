package authroles

import (
	domainauth "github.com/target/crewboard/internal/domain/auth"
)

// StaticRoleMapper maps upstream groups by simple string membership rules.
// Admin membership wins over manager membership; everyone else is an employee.
type StaticRoleMapper struct {
	AdminGroup   string
	ManagerGroup string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	for _, g := range groups {
		if m.ManagerGroup != "" && g == m.ManagerGroup {
			return domainauth.RoleManager
		}
	}
	return domainauth.RoleEmployee
}
