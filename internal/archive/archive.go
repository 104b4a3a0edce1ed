package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/newsradar-io/newsradar/internal/model"
)

// Writer keeps a local copy of each rendered digest, one HTML and one
// text file per run, stamped with the generation time. The archive is
// what you grep when a reader asks why an item did or did not appear.
type Writer struct {
	dir string
}

// NewWriter creates an archive writer rooted at dir. The directory is
// created lazily on first save.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Save writes both digest bodies and returns their paths.
func (w *Writer) Save(digest *model.Digest) (string, string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", "", fmt.Errorf("create archive dir: %w", err)
	}

	stamp := digest.GeneratedAt.Format("20060102-150405")
	htmlPath := filepath.Join(w.dir, fmt.Sprintf("digest-%s.html", stamp))
	textPath := filepath.Join(w.dir, fmt.Sprintf("digest-%s.txt", stamp))

	if err := os.WriteFile(htmlPath, []byte(digest.HTML), 0644); err != nil {
		return "", "", fmt.Errorf("write html archive: %w", err)
	}
	if err := os.WriteFile(textPath, []byte(digest.Text), 0644); err != nil {
		return "", "", fmt.Errorf("write text archive: %w", err)
	}

	return htmlPath, textPath, nil
}
