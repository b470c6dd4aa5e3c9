package issue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// manifestExtensions are tried in order next to the document.
var manifestExtensions = []string{".yaml", ".yml", ".json"}

// ManifestPath returns the sidecar manifest for a document, or ErrNoManifest.
// A layout dump is never its own manifest.
func ManifestPath(docPath string) (string, error) {
	stem := strings.TrimSuffix(docPath, filepath.Ext(docPath))
	for _, ext := range manifestExtensions {
		p := stem + ext
		if p == docPath {
			continue
		}
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w for %s", ErrNoManifest, filepath.Base(docPath))
}

// LoadManifest reads the sidecar manifest of a document. See ReadManifest.
func LoadManifest(docPath string) (*Issue, error) {
	path, err := ManifestPath(docPath)
	if err != nil {
		return nil, err
	}
	return ReadManifest(path, docPath)
}

// ReadManifest reads the manifest at path and fills the fields that can be
// derived: the issue number from the document's file name and each
// article's author list from its raw author line.
func ReadManifest(path, docPath string) (*Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	iss, err := ParseManifest(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", filepath.Base(path), err)
	}
	if iss.Number == nil {
		if n, ok := NumberFromFilename(docPath); ok {
			iss.Number = &n
		}
	}
	return iss, nil
}

// ParseManifest decodes a manifest in YAML or JSON, chosen by extension.
func ParseManifest(data []byte, ext string) (*Issue, error) {
	var iss Issue
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&iss); err != nil {
			return nil, err
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&iss); err != nil {
			return nil, err
		}
	}

	for i := range iss.Articles {
		a := &iss.Articles[i]
		if len(a.Authors) == 0 && a.Author != "" {
			a.Authors = SplitAuthors(a.Author)
		}
	}
	return &iss, nil
}

// NumberFromFilename parses the numeric prefix of names like "305_BMS.pdf".
func NumberFromFilename(path string) (int, bool) {
	base := filepath.Base(path)
	prefix, _, _ := strings.Cut(base, "_")
	prefix = strings.TrimSuffix(prefix, filepath.Ext(prefix))
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, false
	}
	return n, true
}
