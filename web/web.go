// Package web embeds the browser UI served at the site root.
package web

import "embed"

// Assets holds templates/index.html and everything under static/.
//
//go:embed templates static
var Assets embed.FS
