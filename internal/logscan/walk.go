package logscan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// File is a discovered log file.
type File struct {
	Path   string
	Format Format
	// Agent is set for legacy files only.
	Agent string
}

var skipDirs = map[string]bool{
	"target":       true,
	".git":         true,
	"node_modules": true,
}

// FindLogFiles walks root and returns every stream log in lexical path
// order. Build output and VCS directories are skipped. A missing root
// yields no files.
func FindLogFiles(root string) ([]File, error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if format, agent, ok := DetectFormat(d.Name()); ok {
			files = append(files, File{Path: path, Format: format, Agent: agent})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
