package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store writes binary blobs (uploaded and generated images) to a content
// directory. It is a pure side-effecting helper: naming and collision
// resistance are the caller's responsibility.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes the blob under the given name, creating the directory if
// needed and overwriting any existing file. Returns the full path.
func (s *Store) Save(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return "", fmt.Errorf("could not create artifact directory: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0640); err != nil {
		return "", fmt.Errorf("could not write artifact: %w", err)
	}
	return path, nil
}

// extensions maps the image MIME types we expect from uploads and from the
// model to file extensions.
var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Name derives a collision-resistant artifact name from the session id, the
// turn the blob belongs to, and its index within that turn. Unrecognized
// MIME types fall back to a generic image extension.
func Name(sessionID string, turn, index int, mimeType string) string {
	ext, ok := extensions[mimeType]
	if !ok {
		ext = ".img"
	}
	return fmt.Sprintf("%s_t%03d_p%02d%s", sessionID, turn, index, ext)
}
