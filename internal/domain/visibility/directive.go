// Package visibility maps view preferences to the set of role-scoped page
// regions that should be shown, and applies that mapping to a document.
package visibility

import (
	domainauth "github.com/target/crewboard/internal/domain/auth"
	"github.com/target/crewboard/internal/domain/prefs"
)

// Region identifies a group of role-scoped elements on a page.
type Region string

const (
	RegionAdminFields            Region = "adminFields"
	RegionAccountManagerFields   Region = "accountManagerFields"
	RegionAdminDropdown          Region = "adminDropdown"
	RegionAccountManagerDropdown Region = "accountManagerDropdown"
)

var allRegions = []Region{
	RegionAdminFields,
	RegionAccountManagerFields,
	RegionAdminDropdown,
	RegionAccountManagerDropdown,
}

var selectors = map[Region]string{
	RegionAdminFields:            ".admin-field",
	RegionAccountManagerFields:   ".account-manager-field",
	RegionAdminDropdown:          ".admin-dropdown",
	RegionAccountManagerDropdown: ".account-manager-dropdown",
}

// Regions returns every region in a stable order.
func Regions() []Region {
	out := make([]Region, len(allRegions))
	copy(out, allRegions)
	return out
}

// Selector returns the class selector matching the region's elements.
func (r Region) Selector() string { return selectors[r] }

// admin reports whether the region carries admin-only affordances.
func (r Region) admin() bool {
	return r == RegionAdminFields || r == RegionAdminDropdown
}

// Directive maps each region to its visible flag.
type Directive map[Region]bool

// Visible reports whether the region is shown. Unknown regions are hidden.
func (d Directive) Visible(r Region) bool { return d[r] }

// Regions returns the directive's regions in stable order.
func (d Directive) Regions() []Region {
	out := make([]Region, 0, len(d))
	for _, r := range allRegions {
		if _, ok := d[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Compute derives the directive for a preference.
//
//	employee view: every region hidden
//	manager view:  admin regions hidden, account-manager regions shown
//	no simulation: every region shown
//
// The preference is normalized first, so a record with both flags set is
// treated as the employee view.
func Compute(p prefs.ViewPreference) Directive {
	p = p.Normalize()
	d := make(Directive, len(allRegions))
	for _, r := range allRegions {
		switch {
		case p.ViewAsEmployee:
			d[r] = false
		case p.ViewAsManager:
			d[r] = !r.admin()
		default:
			d[r] = true
		}
	}
	return d
}

// ForRole intersects the preference directive with what the user's real role
// may see at all. Server-rendered pages use it so that a simulated view can only
// ever narrow what the role grants.
func ForRole(role domainauth.Role, p prefs.ViewPreference) Directive {
	d := Compute(p)
	for _, r := range allRegions {
		switch role {
		case domainauth.RoleAdmin:
		case domainauth.RoleManager:
			if r.admin() {
				d[r] = false
			}
		default:
			d[r] = false
		}
	}
	return d
}
