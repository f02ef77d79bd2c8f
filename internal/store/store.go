// Package store persists the site content document. The document is the
// whole database: reads return it in full and writes replace it in full.
package store

import (
	"context"

	"hearth/api/internal/content"
)

// Store owns the persisted content document. There is no locking around it;
// when two writers race, the last write wins at whole-document granularity.
type Store interface {
	// Read loads and parses the persisted document. Parse and I/O failures
	// surface as errors; a default document is never substituted.
	Read(ctx context.Context) (content.Document, error)
	// Write replaces the persisted document. From the caller's point of view
	// either the whole new document is stored or the old one remains.
	Write(ctx context.Context, doc content.Document) error
	Ping(ctx context.Context) error
	Close() error
}
