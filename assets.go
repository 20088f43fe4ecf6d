package twennie

import (
	"io/fs"

	"github.com/goliatone/go-twennie/internal/site"
)

// EmbeddedTemplates exposes the built-in page templates so callers can copy
// them as a starting point for site.templates_dir.
func EmbeddedTemplates() fs.FS {
	return site.TemplatesFS()
}

// StaticAssetsFS exposes the site stylesheet and script.
//
// Typical mount:
//
//	mux.Handle("/static/",
//	  http.StripPrefix("/static/",
//	    http.FileServerFS(twennie.StaticAssetsFS()),
//	  ),
//	)
func StaticAssetsFS() fs.FS {
	return site.StaticFS()
}
