package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Discover lists the PDF files to process under root. Files directly in
// root come first, followed by those of each sub-folder (typically one per
// publication year) when yearFolders is set. Within a folder, and across
// folders, names are sorted in reverse order when reverse is set so the
// newest issues are processed first.
func Discover(root string, yearFolders, reverse bool) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}

	docs := pdfsIn(root, entries, reverse)
	if !yearFolders {
		return docs, nil
	}

	var folders []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			folders = append(folders, e.Name())
		}
	}
	sortNames(folders, reverse)

	for _, name := range folders {
		dir := filepath.Join(root, name)
		sub, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", dir, err)
		}
		docs = append(docs, pdfsIn(dir, sub, reverse)...)
	}
	return docs, nil
}

func pdfsIn(dir string, entries []os.DirEntry, reverse bool) []string {
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			names = append(names, e.Name())
		}
	}
	sortNames(names, reverse)

	paths := make([]string, len(names))
	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
	}
	return paths
}

func sortNames(names []string, reverse bool) {
	slices.Sort(names)
	if reverse {
		slices.Reverse(names)
	}
}
