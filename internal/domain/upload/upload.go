// Package upload stores client files (documents, images, audio) on disk and
// records their metadata.
package upload

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mercurylabs/mercury/internal/infra/eventbus"
)

// Kinds accepted by the service. Must match the upload table's CHECK.
const (
	KindDocument = "document"
	KindImage    = "image"
	KindAudio    = "audio"
)

// ErrUnsupportedKind rejects kinds outside the known set.
type ErrUnsupportedKind struct {
	Kind string
}

func (e *ErrUnsupportedKind) Error() string {
	return fmt.Sprintf("unsupported upload kind %q", e.Kind)
}

// Stored describes one persisted upload, in the shape the API returns.
type Stored struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	Path         string `json:"path"`
}

// Service writes upload bytes to the uploads directory and the metadata row
// to SQLite.
type Service struct {
	dir string
	db  *sql.DB
	bus eventbus.EventBus // may be nil
}

// NewService wires a Service. The uploads directory is created on first use.
func NewService(dir string, db *sql.DB, bus eventbus.EventBus) *Service {
	return &Service{dir: dir, db: db, bus: bus}
}

// Store saves the file under a timestamped name that keeps the original
// extension, then records the metadata row. The original client name is kept
// only as metadata, never as a disk path.
func (s *Service) Store(ctx context.Context, kind, originalName, contentType string, r io.Reader) (Stored, error) {
	switch kind {
	case KindDocument, KindImage, KindAudio:
	default:
		return Stored{}, &ErrUnsupportedKind{Kind: kind}
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Stored{}, fmt.Errorf("create uploads dir: %w", err)
	}

	filename := fmt.Sprintf("%d%s", time.Now().UnixMilli(), safeExt(originalName))
	path := filepath.Join(s.dir, filename)

	size, err := writeFile(path, r)
	if err != nil {
		return Stored{}, err
	}

	stored := Stored{
		ID:           uuid.NewString(),
		Filename:     filename,
		OriginalName: originalName,
		Size:         size,
		Path:         path,
	}

	const q = `INSERT INTO upload (id, kind, filename, original_name, size_bytes, storage_path, content_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, q,
		stored.ID, kind, stored.Filename, stored.OriginalName, stored.Size,
		stored.Path, contentType, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		// Keep disk and metadata consistent.
		os.Remove(path)
		return Stored{}, fmt.Errorf("record upload: %w", err)
	}

	if s.bus != nil {
		s.bus.Publish(eventbus.TopicUploadStored, map[string]string{
			"id":   stored.ID,
			"kind": kind,
			"name": originalName,
		})
	}
	return stored, nil
}

func writeFile(path string, r io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create upload file: %w", err)
	}
	size, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return 0, fmt.Errorf("write upload file: %w", err)
	}
	return size, nil
}

// safeExt returns the original file's extension, stripped of anything that
// could escape the uploads directory.
func safeExt(name string) string {
	ext := filepath.Ext(filepath.Base(name))
	if strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
