package artifact_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glimpse/internal/artifact"
)

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     string
	}{
		{"png", "image/png", "abc_t001_p00.png"},
		{"jpeg", "image/jpeg", "abc_t001_p00.jpg"},
		{"webp", "image/webp", "abc_t001_p00.webp"},
		{"unknown mime falls back", "application/x-something", "abc_t001_p00.img"},
		{"empty mime falls back", "", "abc_t001_p00.img"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, artifact.Name("abc", 1, 0, tt.mimeType))
		})
	}

	// Turn and index keep concurrent sessions collision-free.
	assert.Equal(t, "abc_t012_p03.png", artifact.Name("abc", 12, 3, "image/png"))
	assert.NotEqual(t,
		artifact.Name("abc", 1, 0, "image/png"),
		artifact.Name("def", 1, 0, "image/png"))
}

func TestStore_Save(t *testing.T) {
	// The target directory does not exist yet; Save must create it.
	dir := filepath.Join(t.TempDir(), "nested", "artifacts")
	store := artifact.NewStore(dir)

	path, err := store.Save("a_t001_p00.png", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a_t001_p00.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	// Overwrite is allowed.
	_, err = store.Save("a_t001_p00.png", []byte{9})
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, data)
}
