// Package kb embeds the default knowledge base shipped with the service.
package kb

import "embed"

// FS holds every markdown document of the default knowledge base.
//
//go:embed *.md
var FS embed.FS
