package web

import (
	"embed"
	"io/fs"

	"github.com/spf13/afero"
)

// FS holds the stylesheet and images served under /static.
//
//go:embed static/*
var FS embed.FS

// Assets returns the tree served under /static. With dir set the files are
// read from disk, so edits show up without a rebuild.
func Assets(dir string) afero.Fs {
	if dir != "" {
		return afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
	}
	// "static" is always a valid path, so Sub cannot fail.
	sub, _ := fs.Sub(FS, "static")
	return afero.FromIOFS{FS: sub}
}
