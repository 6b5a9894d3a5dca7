// Package web holds the browser UI shipped inside the server binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var content embed.FS

// Static returns the UI files rooted at the static directory.
func Static() (fs.FS, error) {
	return fs.Sub(content, "static")
}
