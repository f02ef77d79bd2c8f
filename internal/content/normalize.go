package content

import (
	"fmt"
	"strings"
)

// Collection names the five array-shaped regions the editor manages.
type Collection string

const (
	CollectionFeatures   Collection = "features"
	CollectionMenu       Collection = "menu"
	CollectionGallery    Collection = "gallery"
	CollectionSocial     Collection = "social"
	CollectionHeroImages Collection = "heroImages"
)

// collectionPaths maps each collection to its location in the document.
var collectionPaths = map[Collection]string{
	CollectionFeatures:   "about.features",
	CollectionMenu:       "menu",
	CollectionGallery:    "gallery",
	CollectionSocial:     "social",
	CollectionHeroImages: "hero.images",
}

// Collections lists every managed collection in a stable order.
func Collections() []Collection {
	return []Collection{
		CollectionFeatures,
		CollectionMenu,
		CollectionGallery,
		CollectionSocial,
		CollectionHeroImages,
	}
}

// ParseCollection resolves a route segment to a known collection.
func ParseCollection(name string) (Collection, error) {
	c := Collection(name)
	if _, ok := collectionPaths[c]; !ok {
		return "", fmt.Errorf("unknown collection %q", name)
	}
	return c, nil
}

// defaultItem returns the schema-appropriate empty record pushed on append.
// Hero images hold bare path strings; every other collection holds objects.
func defaultItem(c Collection) any {
	switch c {
	case CollectionFeatures:
		return map[string]any{"icon": "", "title": "", "description": ""}
	case CollectionMenu:
		return map[string]any{"label": "", "title": "", "description": "", "price": "", "image": ""}
	case CollectionGallery:
		return map[string]any{"image": "", "alt": "", "tall": false}
	case CollectionSocial:
		return map[string]any{"platform": "", "url": ""}
	case CollectionHeroImages:
		return ""
	}
	return nil
}

// EnsureCollections upgrades an older document in place: every managed
// collection's parent objects are created where absent and a final value that
// is not an array is replaced with an empty one. Idempotent, and a value that
// already is an array (even empty) is never touched.
func EnsureCollections(d Document) {
	for _, c := range Collections() {
		ensureCollection(d, c)
	}
}

func ensureCollection(d Document, c Collection) []any {
	if d == nil {
		return nil
	}
	path := collectionPaths[c]
	if current, ok := Get(d, path); ok {
		if items, isArray := current.([]any); isArray {
			return items
		}
	}
	items := []any{}
	Set(d, path, items)
	return items
}

// AppendDefault pushes the collection's empty record and returns the new
// length.
func AppendDefault(d Document, c Collection) int {
	items := append(ensureCollection(d, c), defaultItem(c))
	Set(d, collectionPaths[c], items)
	return len(items)
}

// RemoveAt deletes the element at index, shifting later elements down one.
// Callers rebinding UI must rebuild the whole collection afterward because
// indices shift.
func RemoveAt(d Document, c Collection, index int) error {
	items := ensureCollection(d, c)
	if index < 0 || index >= len(items) {
		return fmt.Errorf("index %d out of range for %s (len %d)", index, c, len(items))
	}
	items = append(items[:index], items[index+1:]...)
	Set(d, collectionPaths[c], items)
	return nil
}

// SetItem writes one field of the element at index. Collection elements are
// addressed by index, not by dot path: the path accessor deliberately knows
// nothing about arrays, so item edits go through here, the way the editor's
// per-row bindings do.
func SetItem(d Document, c Collection, index int, field string, value any) error {
	items := ensureCollection(d, c)
	if index < 0 || index >= len(items) {
		return fmt.Errorf("index %d out of range for %s (len %d)", index, c, len(items))
	}
	if c == CollectionHeroImages {
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("hero image must be a path string, got %T", value)
		}
		items[index] = text
		return nil
	}
	item, ok := items[index].(map[string]any)
	if !ok {
		item = map[string]any{}
		items[index] = item
	}
	if c == CollectionGallery && field == "tall" {
		value = NormalizeGalleryTall(value)
	}
	item[field] = value
	return nil
}

// Items returns the collection's current elements, normalizing it first.
func Items(d Document, c Collection) []any {
	return ensureCollection(d, c)
}

// PathOf exposes the document location of a collection.
func PathOf(c Collection) string {
	return collectionPaths[c]
}

// NormalizeGalleryTall folds the editor's "true"/"false" text representation
// of gallery tallness back into a real boolean.
func NormalizeGalleryTall(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) == "true"
	}
	return false
}
