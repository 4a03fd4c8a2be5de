package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wisatago/tourcms/internal/catalog"
)

func TestMemoryStore_ItemLifecycle(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()

	pkg := &catalog.TravelPackage{
		ID:       uuid.New(),
		Slug:     "paket-bromo-2d1n",
		Title:    "Paket Bromo 2 Hari 1 Malam",
		Location: "Jawa Timur",
		Price:    1500000,
	}

	if _, err := store.SaveItem(ctx, pkg); err != nil {
		t.Fatalf("save item: %v", err)
	}

	got, err := store.GetItem(ctx, catalog.KindPackage, pkg.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got.ItemSlug() != "paket-bromo-2d1n" {
		t.Fatalf("expected slug paket-bromo-2d1n, got %q", got.ItemSlug())
	}

	bySlug, err := store.GetItemBySlug(ctx, catalog.KindPackage, "paket-bromo-2d1n")
	if err != nil {
		t.Fatalf("get item by slug: %v", err)
	}
	if bySlug.ItemID() != pkg.ID {
		t.Fatalf("expected id %s, got %s", pkg.ID, bySlug.ItemID())
	}

	// Stored copy must not alias the caller's struct.
	pkg.Title = "mutated"
	fresh, err := store.GetItem(ctx, catalog.KindPackage, pkg.ID)
	if err != nil {
		t.Fatalf("get item after mutation: %v", err)
	}
	if fresh.(*catalog.TravelPackage).Title != "Paket Bromo 2 Hari 1 Malam" {
		t.Fatal("stored item aliased the caller's struct")
	}
}

func TestMemoryStore_GetItemBySlugUsesSectionKey(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()

	section := &catalog.Section{
		ID:    uuid.New(),
		Key:   "hero",
		Title: "Jelajahi Nusantara",
	}
	if _, err := store.SaveItem(ctx, section); err != nil {
		t.Fatalf("save section: %v", err)
	}

	got, err := store.GetItemBySlug(ctx, catalog.KindSection, "hero")
	if err != nil {
		t.Fatalf("get section by key: %v", err)
	}
	if got.ItemID() != section.ID {
		t.Fatalf("expected section %s, got %s", section.ID, got.ItemID())
	}
}

func TestMemoryStore_GetItemNotFound(t *testing.T) {
	store := catalog.NewMemoryStore()

	_, err := store.GetItem(context.Background(), catalog.KindBlog, uuid.New())
	if err == nil {
		t.Fatal("expected not found error")
	}
	if !catalog.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestMemoryStore_InvalidKindRejected(t *testing.T) {
	store := catalog.NewMemoryStore()

	if _, err := store.GetItem(context.Background(), catalog.Kind("page"), uuid.New()); !errors.Is(err, catalog.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
	if _, err := store.ListItems(context.Background(), catalog.Kind("")); !errors.Is(err, catalog.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestMemoryStore_TranslationUpsertIsIdempotentPerLanguage(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := base
	store := catalog.NewMemoryStore().WithClock(func() time.Time { return clock })

	entityID := uuid.New()

	first, err := store.UpsertTranslation(ctx, &catalog.TranslationRecord{
		Kind:             catalog.KindPackage,
		EntityID:         entityID,
		Language:         "en",
		Fields:           map[string]string{"title": "Bromo Package"},
		IsAutoTranslated: true,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	clock = base.Add(time.Hour)
	second, err := store.UpsertTranslation(ctx, &catalog.TranslationRecord{
		Kind:     catalog.KindPackage,
		EntityID: entityID,
		Language: "en",
		Fields:   map[string]string{"title": "Bromo Package", "description": "Two days"},
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same record id, got %s and %s", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at must survive upserts: %v vs %v", first.CreatedAt, second.CreatedAt)
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("updated_at must advance: %v vs %v", first.UpdatedAt, second.UpdatedAt)
	}

	count, err := store.CountTranslations(ctx, catalog.KindPackage, entityID)
	if err != nil {
		t.Fatalf("count translations: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single record per language, got %d", count)
	}
}

func TestMemoryStore_ListTranslationsOrdersByLanguage(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	entityID := uuid.New()

	for _, lang := range []string{"zh", "de", "en"} {
		if _, err := store.UpsertTranslation(ctx, &catalog.TranslationRecord{
			Kind:     catalog.KindBlog,
			EntityID: entityID,
			Language: lang,
			Fields:   map[string]string{"title": "t"},
		}); err != nil {
			t.Fatalf("upsert %s: %v", lang, err)
		}
	}

	records, err := store.ListTranslations(ctx, catalog.KindBlog, entityID)
	if err != nil {
		t.Fatalf("list translations: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i, want := range []string{"de", "en", "zh"} {
		if records[i].Language != want {
			t.Fatalf("record %d: expected %s, got %s", i, want, records[i].Language)
		}
	}
}

func TestMemoryStore_DeleteItemCascades(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()

	post := &catalog.BlogPost{ID: uuid.New(), Slug: "gunung-bromo", Title: "Mendaki Gunung Bromo"}
	if _, err := store.SaveItem(ctx, post); err != nil {
		t.Fatalf("save item: %v", err)
	}
	if _, err := store.UpsertTranslation(ctx, &catalog.TranslationRecord{
		Kind:     catalog.KindBlog,
		EntityID: post.ID,
		Language: "en",
		Fields:   map[string]string{"title": "Hiking Mount Bromo"},
	}); err != nil {
		t.Fatalf("upsert translation: %v", err)
	}
	if _, err := store.UpsertLocalizedPath(ctx, &catalog.LocalizedPath{
		Kind:     catalog.KindBlog,
		EntityID: post.ID,
		Language: "en",
		Path:     "/en/blog/gunung-bromo",
	}); err != nil {
		t.Fatalf("upsert path: %v", err)
	}

	if err := store.DeleteItem(ctx, catalog.KindBlog, post.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}

	if _, err := store.GetItem(ctx, catalog.KindBlog, post.ID); !catalog.IsNotFound(err) {
		t.Fatalf("expected item gone, got %v", err)
	}
	count, err := store.CountTranslations(ctx, catalog.KindBlog, post.ID)
	if err != nil {
		t.Fatalf("count translations: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected translations removed, got %d", count)
	}
	paths, err := store.ListLocalizedPaths(ctx, catalog.KindBlog, post.ID)
	if err != nil {
		t.Fatalf("list paths: %v", err)
	}
	if len(paths) != 0 {
		t.Fatalf("expected paths removed, got %d", len(paths))
	}
}

func TestMemoryStore_URLSettingUpsert(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()

	if _, err := store.GetURLSetting(ctx, catalog.KindPackage); !catalog.IsNotFound(err) {
		t.Fatalf("expected not found before upsert, got %v", err)
	}

	saved, err := store.UpsertURLSetting(ctx, &catalog.URLSetting{
		Kind:         catalog.KindPackage,
		AutoGenerate: true,
		Segments:     map[string]string{"en": "packages", "de": "pakete"},
	})
	if err != nil {
		t.Fatalf("upsert url setting: %v", err)
	}
	if saved.ID == uuid.Nil {
		t.Fatal("expected deterministic id assigned")
	}

	again, err := store.UpsertURLSetting(ctx, &catalog.URLSetting{
		Kind:         catalog.KindPackage,
		AutoGenerate: false,
		Patterns:     map[string]string{"en": "/tours/{slug}"},
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if again.ID != saved.ID {
		t.Fatalf("settings id must be stable per kind: %s vs %s", saved.ID, again.ID)
	}

	got, err := store.GetURLSetting(ctx, catalog.KindPackage)
	if err != nil {
		t.Fatalf("get url setting: %v", err)
	}
	if got.AutoGenerate {
		t.Fatal("expected auto_generate disabled after second upsert")
	}
	if got.Patterns["en"] != "/tours/{slug}" {
		t.Fatalf("expected pattern persisted, got %v", got.Patterns)
	}
}
