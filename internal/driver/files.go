package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExt is the extension of checked files.
const SourceExt = ".rs"

// listSourceFiles returns the sorted *.rs files under dir.
func listSourceFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ResolveTargets expands path into the files to check and the base
// directory used for relative paths.
func ResolveTargets(path string) (files []string, baseDir string, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, filepath.Dir(path), nil
	}
	files, err = listSourceFiles(path)
	if err != nil {
		return nil, "", fmt.Errorf("walk %s: %w", path, err)
	}
	return files, path, nil
}
