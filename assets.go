// Package crewboard provides the embedded page templates.
package crewboard

import "embed"

// TemplateFS holds the server-rendered page templates.
//
//go:embed all:frontend/templates
var TemplateFS embed.FS
