// Package ojweb provides embedded assets for production builds.
package ojweb

import "embed"

// TemplateFS holds the page templates. In dev mode (IsDev=true) they are
// read from disk instead.
//
//go:embed all:web/templates
var TemplateFS embed.FS
