package seeddb

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed seed.sql
var embeddedFS embed.FS

const defaultScriptName = "seed.sql"

// Script locates a seed script inside a filesystem.
//
// The zero value means "use the bundled script", see DefaultScript.
type Script struct {
	// FS is the filesystem holding the script.
	FS fs.FS
	// Name is the script path inside FS.
	Name string
	// Path is the original on-disk path when built with ScriptFromFile,
	// only used to describe the script in errors and logs.
	Path string
}

// DefaultScript returns the seed script compiled into the binary.
func DefaultScript() Script {
	return Script{
		FS:   embeddedFS,
		Name: defaultScriptName,
	}
}

// ScriptFromFile returns a Script that reads the file at path from disk
// each time it is read.
func ScriptFromFile(path string) Script {
	return Script{
		FS:   os.DirFS(filepath.Dir(path)),
		Name: filepath.Base(path),
		Path: path,
	}
}

// IsZero reports whether s was left unset.
func (s Script) IsZero() bool {
	return s.FS == nil && s.Name == ""
}

// String describes where the script comes from.
func (s Script) String() string {
	if s.Path != "" {
		return s.Path
	}
	return "embedded:" + s.Name
}

// Read returns the full contents of the script.
func (s Script) Read() (string, error) {
	if s.FS == nil {
		return "", &ScriptNotFoundError{Script: s.String(), Err: fs.ErrNotExist}
	}

	b, err := fs.ReadFile(s.FS, s.Name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", &ScriptNotFoundError{Script: s.String(), Err: err}
	}
	if err != nil {
		return "", fmt.Errorf("failed to read seed script %s: %w", s, err)
	}

	return string(b), nil
}
