// Package editor holds per-session working copies of the content document
// and the state machine around editing and saving them.
package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"hearth/api/internal/content"
	"hearth/api/internal/store"
)

// Session states. A session starts unloaded, becomes loaded when a document
// is pulled in, dirty on any edit, and settles back to loaded only after a
// successful save (the sent document is the new clean baseline).
const (
	StateUnloaded   = "unloaded"
	StateLoaded     = "loaded"
	StateDirty      = "dirty"
	StateSaving     = "saving"
	StateSaveFailed = "save_failed"
)

var (
	ErrNotLoaded   = errors.New("no document loaded")
	ErrInvalidJSON = errors.New("invalid JSON")
)

// Session is one admin editing session: a working copy of the document,
// mutated freely and never persisted until an explicit save.
type Session struct {
	mu         sync.Mutex
	ID         string
	doc        content.Document
	state      string
	raw        string
	CreatedAt  time.Time
	LastAccess time.Time
}

// Load replaces the working copy wholesale and normalizes its collections.
// Any unsaved edits are discarded, matching a reload in the admin panel.
func (sess *Session) Load(doc content.Document) error {
	copied, err := content.Clone(doc)
	if err != nil {
		return fmt.Errorf("copy document: %w", err)
	}
	content.EnsureCollections(copied)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.doc = copied
	sess.state = StateLoaded
	sess.refreshRaw()
	sess.touch()
	return nil
}

// SetField binds one form value into the working copy at a dot path.
// Numeric fields are coerced before the write.
func (sess *Session) SetField(path string, value any, numeric bool) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.doc == nil {
		return ErrNotLoaded
	}
	content.Set(sess.doc, path, content.CoerceNumber(value, numeric))
	sess.state = StateDirty
	sess.touch()
	return nil
}

// SetItemField writes one field of a collection element. Gallery tallness
// arrives as "true"/"false" text from the form but is stored as a real
// boolean.
func (sess *Session) SetItemField(c content.Collection, index int, field string, value any) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.doc == nil {
		return ErrNotLoaded
	}
	if err := content.SetItem(sess.doc, c, index, field, value); err != nil {
		return err
	}
	sess.state = StateDirty
	sess.touch()
	return nil
}

// AppendItem pushes the collection's default record and returns the new
// length.
func (sess *Session) AppendItem(c content.Collection) (int, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.doc == nil {
		return 0, ErrNotLoaded
	}
	n := content.AppendDefault(sess.doc, c)
	sess.state = StateDirty
	sess.touch()
	return n, nil
}

// RemoveItem deletes the element at index; later elements shift down, so the
// caller rebuilds its bindings for the whole collection.
func (sess *Session) RemoveItem(c content.Collection, index int) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.doc == nil {
		return ErrNotLoaded
	}
	if err := content.RemoveAt(sess.doc, c, index); err != nil {
		return err
	}
	sess.state = StateDirty
	sess.touch()
	return nil
}

// SyncRaw replaces the working copy from user-supplied JSON text. Invalid
// JSON is rejected and the prior state is left untouched.
func (sess *Session) SyncRaw(text string) error {
	var parsed content.Document
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if parsed == nil {
		parsed = content.Document{}
	}
	content.EnsureCollections(parsed)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.doc = parsed
	sess.state = StateDirty
	sess.refreshRaw()
	sess.touch()
	return nil
}

// Save pushes the whole working copy to the store. It fails fast when no
// document was ever loaded; a store failure leaves the session in
// save_failed with the edits intact, a success makes the sent document the
// new clean baseline.
func (sess *Session) Save(ctx context.Context, st store.Store) error {
	sess.mu.Lock()
	if sess.doc == nil {
		sess.mu.Unlock()
		return ErrNotLoaded
	}
	sess.state = StateSaving
	// The store marshals outside the lock, so it must get its own copy;
	// concurrent field edits keep mutating the live document.
	doc, err := content.Clone(sess.doc)
	if err != nil {
		sess.state = StateSaveFailed
		sess.touch()
		sess.mu.Unlock()
		return fmt.Errorf("save content: %w", err)
	}
	sess.mu.Unlock()

	err = st.Write(ctx, doc)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err != nil {
		sess.state = StateSaveFailed
		sess.touch()
		return fmt.Errorf("save content: %w", err)
	}
	sess.state = StateLoaded
	sess.refreshRaw()
	sess.touch()
	return nil
}

// State returns the session's current lifecycle state.
func (sess *Session) State() string {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state
}

// Content returns a copy of the working document safe to serialize outside
// the lock.
func (sess *Session) Content() (content.Document, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.doc == nil {
		return nil, ErrNotLoaded
	}
	return content.Clone(sess.doc)
}

// Raw returns the derived raw-JSON reflection of the working document. It is
// refreshed after every load and successful save, not on field edits.
func (sess *Session) Raw() string {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.raw
}

func (sess *Session) refreshRaw() {
	encoded, err := json.MarshalIndent(sess.doc, "", "  ")
	if err != nil {
		return
	}
	sess.raw = string(encoded)
}

func (sess *Session) touch() {
	sess.LastAccess = time.Now()
}
