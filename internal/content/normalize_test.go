package content

import (
	"reflect"
	"testing"
)

func TestEnsureCollectionsCreatesMissingArrays(t *testing.T) {
	doc := Document{}
	EnsureCollections(doc)
	for _, c := range Collections() {
		value, ok := Get(doc, PathOf(c))
		if !ok {
			t.Fatalf("expected %s to exist after ensure", c)
		}
		items, isArray := value.([]any)
		if !isArray {
			t.Fatalf("expected %s to be an array, got %T", c, value)
		}
		if len(items) != 0 {
			t.Fatalf("expected %s to start empty, got %d items", c, len(items))
		}
	}
}

func TestEnsureCollectionsIsIdempotent(t *testing.T) {
	doc := Document{
		"menu": []any{
			map[string]any{"title": "Simit", "price": "15"},
		},
	}
	EnsureCollections(doc)
	once, err := Clone(doc)
	if err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	EnsureCollections(doc)
	if !reflect.DeepEqual(doc, once) {
		t.Fatalf("second ensure changed the document:\n%v\nvs\n%v", doc, once)
	}
}

func TestEnsureCollectionsNeverDiscardsValidArray(t *testing.T) {
	doc := Document{
		"gallery": []any{map[string]any{"image": "a.jpg"}},
		"social":  []any{},
	}
	EnsureCollections(doc)
	gallery, _ := Get(doc, "gallery")
	if len(gallery.([]any)) != 1 {
		t.Fatal("ensure discarded gallery contents")
	}
	social, _ := Get(doc, "social")
	if items, ok := social.([]any); !ok || len(items) != 0 {
		t.Fatal("ensure replaced an already-empty array")
	}
}

func TestEnsureCollectionsReplacesNonArrayValue(t *testing.T) {
	doc := Document{"menu": "not a list", "hero": map[string]any{"images": map[string]any{}}}
	EnsureCollections(doc)
	menu, _ := Get(doc, "menu")
	if _, ok := menu.([]any); !ok {
		t.Fatalf("expected menu replaced with array, got %T", menu)
	}
	images, _ := Get(doc, "hero.images")
	if _, ok := images.([]any); !ok {
		t.Fatalf("expected hero.images replaced with array, got %T", images)
	}
}

func TestAppendDefaultItems(t *testing.T) {
	doc := Document{}
	cases := []struct {
		collection Collection
		want       any
	}{
		{CollectionFeatures, map[string]any{"icon": "", "title": "", "description": ""}},
		{CollectionMenu, map[string]any{"label": "", "title": "", "description": "", "price": "", "image": ""}},
		{CollectionGallery, map[string]any{"image": "", "alt": "", "tall": false}},
		{CollectionSocial, map[string]any{"platform": "", "url": ""}},
		{CollectionHeroImages, ""},
	}
	for _, tc := range cases {
		if n := AppendDefault(doc, tc.collection); n != 1 {
			t.Fatalf("AppendDefault(%s) length = %d, want 1", tc.collection, n)
		}
		items := Items(doc, tc.collection)
		if !reflect.DeepEqual(items[0], tc.want) {
			t.Fatalf("default %s item = %v, want %v", tc.collection, items[0], tc.want)
		}
	}
}

func TestRemoveAtShiftsAndPreservesOrder(t *testing.T) {
	doc := Document{
		"menu": []any{
			map[string]any{"title": "a"},
			map[string]any{"title": "b"},
			map[string]any{"title": "c"},
		},
	}
	if err := RemoveAt(doc, CollectionMenu, 1); err != nil {
		t.Fatalf("RemoveAt() error = %v", err)
	}
	items := Items(doc, CollectionMenu)
	if len(items) != 2 {
		t.Fatalf("length = %d, want 2", len(items))
	}
	first := items[0].(map[string]any)["title"]
	second := items[1].(map[string]any)["title"]
	if first != "a" || second != "c" {
		t.Fatalf("order after remove = %v,%v, want a,c", first, second)
	}
}

func TestRemoveAtRejectsOutOfRange(t *testing.T) {
	doc := Document{"social": []any{map[string]any{"platform": "instagram"}}}
	if err := RemoveAt(doc, CollectionSocial, 1); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if err := RemoveAt(doc, CollectionSocial, -1); err == nil {
		t.Fatal("expected negative-index error")
	}
	if len(Items(doc, CollectionSocial)) != 1 {
		t.Fatal("failed remove must not change the collection")
	}
}

func TestGalleryAppendThenRemoveScenario(t *testing.T) {
	doc := Document{
		"gallery": []any{
			map[string]any{"image": "a.jpg", "alt": "A", "tall": false},
		},
	}
	if n := AppendDefault(doc, CollectionGallery); n != 2 {
		t.Fatalf("length after append = %d, want 2", n)
	}
	items := Items(doc, CollectionGallery)
	want := map[string]any{"image": "", "alt": "", "tall": false}
	if !reflect.DeepEqual(items[1], want) {
		t.Fatalf("appended item = %v, want %v", items[1], want)
	}
	if err := RemoveAt(doc, CollectionGallery, 0); err != nil {
		t.Fatalf("RemoveAt() error = %v", err)
	}
	items = Items(doc, CollectionGallery)
	if len(items) != 1 || !reflect.DeepEqual(items[0], want) {
		t.Fatalf("remaining item = %v, want the appended default", items)
	}
}

func TestSetItemWritesField(t *testing.T) {
	doc := Document{"menu": []any{map[string]any{"title": "old"}}}
	if err := SetItem(doc, CollectionMenu, 0, "title", "new"); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}
	item := Items(doc, CollectionMenu)[0].(map[string]any)
	if item["title"] != "new" {
		t.Fatalf("title = %v, want new", item["title"])
	}
}

func TestSetItemNormalizesGalleryTall(t *testing.T) {
	doc := Document{"gallery": []any{map[string]any{"image": "a.jpg", "tall": false}}}
	if err := SetItem(doc, CollectionGallery, 0, "tall", "true"); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}
	item := Items(doc, CollectionGallery)[0].(map[string]any)
	if item["tall"] != true {
		t.Fatalf("tall = %v (%T), want true boolean", item["tall"], item["tall"])
	}
}

func TestSetItemHeroImageIsBareString(t *testing.T) {
	doc := Document{"hero": map[string]any{"images": []any{"old.jpg"}}}
	if err := SetItem(doc, CollectionHeroImages, 0, "", "new.jpg"); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}
	if got := Items(doc, CollectionHeroImages)[0]; got != "new.jpg" {
		t.Fatalf("hero image = %v, want new.jpg", got)
	}
	if err := SetItem(doc, CollectionHeroImages, 0, "", 42); err == nil {
		t.Fatal("expected non-string hero image to be rejected")
	}
}

func TestSetItemRejectsOutOfRange(t *testing.T) {
	doc := Document{}
	if err := SetItem(doc, CollectionMenu, 0, "title", "x"); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestParseCollection(t *testing.T) {
	if _, err := ParseCollection("menu"); err != nil {
		t.Fatalf("ParseCollection(menu) error = %v", err)
	}
	if _, err := ParseCollection("desserts"); err == nil {
		t.Fatal("expected unknown collection error")
	}
}

func TestNormalizeGalleryTall(t *testing.T) {
	if !NormalizeGalleryTall("true") || !NormalizeGalleryTall(true) {
		t.Fatal("expected true for boolean and text representations")
	}
	if NormalizeGalleryTall("false") || NormalizeGalleryTall("") || NormalizeGalleryTall(nil) {
		t.Fatal("expected false for everything else")
	}
}
