package upload

import (
	"context"
	"fmt"
	"io"
	"log"
)

// Service is the facade that tries object storage first and falls back to
// local disk.
type Service struct {
	object Storage
	local  Storage
}

// NewService creates an upload service. object may be nil when object
// storage is not configured.
func NewService(object, local Storage) *Service {
	return &Service{object: object, local: local}
}

// Save stores one upload. The body must be seekable so a failed object-store
// attempt can be rewound before the local fallback; multipart form files are.
func (s *Service) Save(ctx context.Context, filename string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	if s.object != nil {
		path, err := s.object.Save(ctx, filename, body, size, contentType)
		if err == nil {
			return path, nil
		}
		log.Printf("upload: object storage error, falling back to local: %v", err)
		if _, err := body.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("rewind upload body: %w", err)
		}
	}
	return s.local.Save(ctx, filename, body, size, contentType)
}
