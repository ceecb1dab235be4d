package infrastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confbot/internal/features/docstore/domain"
)

func seedDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestFileStore_Read(t *testing.T) {
	dir := seedDir(t, map[string]string{
		"chat.schema.json":       `{"type": "object"}`,
		"chat.value.json":        `{"replicas": 2}`,
		"broken.schema.json":     `{"type": `,
		"tournament.schema.json": `[1, 2, 3]`,
	})

	schemas := NewFileStore(dir, domain.KindSchema)
	values := NewFileStore(dir, domain.KindValues)

	doc, err := schemas.Read("chat")
	require.NoError(t, err)
	assert.JSONEq(t, `{"type": "object"}`, string(doc))

	doc, err = values.Read("chat")
	require.NoError(t, err)
	assert.JSONEq(t, `{"replicas": 2}`, string(doc))

	doc, err = schemas.Read("tournament")
	require.NoError(t, err)
	assert.JSONEq(t, `[1, 2, 3]`, string(doc))

	_, err = values.Read("tournament")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	_, err = schemas.Read("broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestFileStore_RejectsEscapingNames(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "schemas")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.schema.json"), []byte(`{}`), 0o644))

	store := NewFileStore(dir, domain.KindSchema)
	for _, name := range []string{"", ".", "..", "../secret", `..\secret`, "a/b"} {
		_, err := store.Read(name)
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound, name)
	}
}
