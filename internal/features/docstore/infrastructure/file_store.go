package infrastructure

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"confbot/internal/features/docstore/domain"
)

// DocumentReader returns a stored JSON document by application name.
type DocumentReader interface {
	Read(app string) (json.RawMessage, error)
}

// fileStore serves documents from a directory, read fresh on every call.
type fileStore struct {
	dir  string
	kind domain.Kind
}

// NewFileStore creates a DocumentReader over dir for kind.
func NewFileStore(dir string, kind domain.Kind) DocumentReader {
	return &fileStore{dir: dir, kind: kind}
}

// Read loads <dir>/<app>.<suffix>. Missing files and names that would escape
// the directory yield domain.ErrDocumentNotFound.
func (s *fileStore) Read(app string) (json.RawMessage, error) {
	if app == "" || app == "." || strings.Contains(app, "..") || strings.ContainsAny(app, `/\`) {
		return nil, domain.ErrDocumentNotFound
	}

	path := filepath.Join(s.dir, s.kind.FileName(app))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}
