// Package web holds embedded static assets and templates for the
// recommendation front-end.
package web

import "embed"

// TemplateFS contains all HTML templates.
//
//go:embed templates
var TemplateFS embed.FS

// StaticFS contains the stylesheet and the browser script.
//
//go:embed static
var StaticFS embed.FS
