package markdown_test

import (
	"context"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"

	"github.com/wisatago/tourcms/internal/catalog"
	"github.com/wisatago/tourcms/internal/fieldmap"
	"github.com/wisatago/tourcms/internal/markdown"
	"github.com/wisatago/tourcms/internal/settings"
	"github.com/wisatago/tourcms/internal/translate"
)

const blogDoc = `---
type: blog
title: Sunrise di Kawah Ijen
slug: sunrise-kawah-ijen
excerpt: Pendakian dini hari menuju api biru.
tags:
  - ijen
  - pendakian
author: Tim Wisata
date: 2026-03-10T00:00:00Z
---
# Sunrise di Kawah Ijen

Perjalanan dimulai pukul satu pagi dari Banyuwangi.
`

const packageDoc = `---
type: package
title: Paket Bromo 2D1N
slug: paket-bromo-2d1n
location: Jawa Timur
duration: 2 hari 1 malam
price: 1500000
features:
  - title: Jeep sunrise
    description: Antar jemput ke Penanjakan
itinerary:
  - day: 1
    title: Perjalanan malam
    activities:
      - Kumpul di meeting point
faqs:
  - question: Apakah termasuk makan?
    answer: Ya, dua kali makan.
---
Nikmati matahari terbit di Gunung Bromo.
`

const draftDoc = `---
type: blog
title: Draf Artikel
slug: draf-artikel
draft: true
---
Belum siap terbit.
`

type recordingTranslator struct {
	requests []translate.EnsureRequest
}

func (r *recordingTranslator) EnsureTranslations(ctx context.Context, req translate.EnsureRequest) (map[string]translate.Outcome, error) {
	r.requests = append(r.requests, req)
	return map[string]translate.Outcome{"en": {Status: translate.StatusTranslated}}, nil
}

func testFS() fstest.MapFS {
	mod := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	return fstest.MapFS{
		"content/blog/sunrise-kawah-ijen.md": &fstest.MapFile{Data: []byte(blogDoc), ModTime: mod},
		"content/packages/paket-bromo.md":    &fstest.MapFile{Data: []byte(packageDoc), ModTime: mod},
		"content/blog/draf-artikel.md":       &fstest.MapFile{Data: []byte(draftDoc), ModTime: mod},
		"content/blog/notes.txt":             &fstest.MapFile{Data: []byte("ignore me"), ModTime: mod},
	}
}

func newImporter(t *testing.T, store catalog.Store, repo settings.Repository, translator markdown.TranslationService) *markdown.Importer {
	t.Helper()
	imp, err := markdown.NewImporter(markdown.ImporterConfig{
		Store:      store,
		Settings:   repo,
		Translator: translator,
		Clock:      func() time.Time { return time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("NewImporter: %v", err)
	}
	return imp
}

func TestLoadDirectoryParsesFrontmatter(t *testing.T) {
	loader := markdown.NewLoader(testFS(), markdown.LoaderConfig{})

	docs, err := loader.LoadDirectory(context.Background(), "content")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 markdown documents, got %d", len(docs))
	}

	var pkg *markdown.Document
	for _, doc := range docs {
		if doc.FrontMatter.Type == markdown.TypePackage {
			pkg = doc
		}
	}
	if pkg == nil {
		t.Fatal("expected a package document")
	}
	if pkg.FrontMatter.Title != "Paket Bromo 2D1N" {
		t.Fatalf("unexpected title %q", pkg.FrontMatter.Title)
	}
	if pkg.FrontMatter.Price != 1500000 {
		t.Fatalf("unexpected price %d", pkg.FrontMatter.Price)
	}
	if len(pkg.FrontMatter.Itinerary) != 1 || pkg.FrontMatter.Itinerary[0].Day != 1 {
		t.Fatalf("unexpected itinerary %+v", pkg.FrontMatter.Itinerary)
	}
	if len(pkg.Checksum) == 0 {
		t.Fatal("expected checksum to be populated")
	}
}

func TestImportDocumentsCreatesCatalogItems(t *testing.T) {
	store := catalog.NewMemoryStore()
	imp := newImporter(t, store, nil, nil)
	loader := markdown.NewLoader(testFS(), markdown.LoaderConfig{})

	docs, err := loader.LoadDirectory(context.Background(), "content")
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	result, err := imp.ImportDocuments(context.Background(), docs)
	if err != nil {
		t.Fatalf("ImportDocuments: %v", err)
	}
	if len(result.CreatedIDs) != 2 {
		t.Fatalf("expected 2 created items, got %d", len(result.CreatedIDs))
	}
	if len(result.SkippedIDs) != 1 {
		t.Fatalf("expected 1 skipped draft, got %d", len(result.SkippedIDs))
	}

	item, err := store.GetItemBySlug(context.Background(), catalog.KindPackage, "paket-bromo-2d1n")
	if err != nil {
		t.Fatalf("GetItemBySlug: %v", err)
	}
	pkg := item.(*catalog.TravelPackage)
	if pkg.Location != "Jawa Timur" {
		t.Fatalf("unexpected location %q", pkg.Location)
	}
	features := fieldmap.DecodeFeatures(pkg.Features)
	if len(features) != 1 || features[0].Title != "Jeep sunrise" {
		t.Fatalf("unexpected features %+v", features)
	}

	blog, err := store.GetItemBySlug(context.Background(), catalog.KindBlog, "sunrise-kawah-ijen")
	if err != nil {
		t.Fatalf("GetItemBySlug blog: %v", err)
	}
	post := blog.(*catalog.BlogPost)
	if post.PublishedAt == nil {
		t.Fatal("expected published_at from frontmatter date")
	}
	tags := fieldmap.DecodeTags(post.Tags)
	if len(tags) != 2 || tags[0] != "ijen" {
		t.Fatalf("unexpected tags %v", tags)
	}
}

func TestImportIsIdempotentAndPreservesCreatedAt(t *testing.T) {
	store := catalog.NewMemoryStore()
	imp := newImporter(t, store, nil, nil)
	loader := markdown.NewLoader(testFS(), markdown.LoaderConfig{})

	docs, _ := loader.LoadDirectory(context.Background(), "content/blog")
	first, err := imp.ImportDocuments(context.Background(), docs)
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	second, err := imp.ImportDocuments(context.Background(), docs)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(second.CreatedIDs) != 0 {
		t.Fatalf("expected no creations on re-import, got %d", len(second.CreatedIDs))
	}
	if len(second.UpdatedIDs) != len(first.CreatedIDs) {
		t.Fatalf("expected %d updates, got %d", len(first.CreatedIDs), len(second.UpdatedIDs))
	}
	if second.UpdatedIDs[0] != first.CreatedIDs[0] {
		t.Fatal("expected deterministic item id across imports")
	}
}

func TestImportTriggersTranslationWhenEnabled(t *testing.T) {
	store := catalog.NewMemoryStore()
	repo := settings.NewMemoryRepository()
	if _, err := repo.Upsert(context.Background(), settings.Settings{
		AutoTranslateEnabled: true,
		TranslateOnImport:    true,
		TargetLanguages:      []string{"en"},
	}); err != nil {
		t.Fatalf("Upsert settings: %v", err)
	}
	translator := &recordingTranslator{}
	imp := newImporter(t, store, repo, translator)
	loader := markdown.NewLoader(testFS(), markdown.LoaderConfig{})

	doc, err := loader.LoadFile(context.Background(), "content/packages/paket-bromo.md")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if _, err := imp.ImportDocument(context.Background(), doc); err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if len(translator.requests) != 1 {
		t.Fatalf("expected one translation pass, got %d", len(translator.requests))
	}
	req := translator.requests[0]
	if req.Kind != catalog.KindPackage {
		t.Fatalf("unexpected kind %q", req.Kind)
	}
	if len(req.Languages) != 1 || req.Languages[0] != "en" {
		t.Fatalf("unexpected languages %v", req.Languages)
	}
}

func TestImportSkipsTranslationWhenDisabled(t *testing.T) {
	store := catalog.NewMemoryStore()
	repo := settings.NewMemoryRepository()
	if _, err := repo.Upsert(context.Background(), settings.Settings{
		AutoTranslateEnabled: true,
		TranslateOnImport:    false,
	}); err != nil {
		t.Fatalf("Upsert settings: %v", err)
	}
	translator := &recordingTranslator{}
	imp := newImporter(t, store, repo, translator)
	loader := markdown.NewLoader(testFS(), markdown.LoaderConfig{})

	doc, _ := loader.LoadFile(context.Background(), "content/blog/sunrise-kawah-ijen.md")
	if _, err := imp.ImportDocument(context.Background(), doc); err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if len(translator.requests) != 0 {
		t.Fatalf("expected no translation passes, got %d", len(translator.requests))
	}
}

func TestImportRejectsMissingSlugAndTitle(t *testing.T) {
	store := catalog.NewMemoryStore()
	imp := newImporter(t, store, nil, nil)

	doc := &markdown.Document{
		FilePath:    "content/blog/bad.md",
		FrontMatter: markdown.FrontMatter{Type: markdown.TypeBlog},
		Body:        []byte("tanpa judul"),
	}
	result, err := imp.ImportDocument(context.Background(), doc)
	if err == nil {
		t.Fatal("expected error for missing slug and title")
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one accumulated error, got %d", len(result.Errors))
	}
}

func TestImportSlugFallsBackToTitle(t *testing.T) {
	store := catalog.NewMemoryStore()
	imp := newImporter(t, store, nil, nil)

	doc := &markdown.Document{
		FilePath: "content/blog/tips.md",
		FrontMatter: markdown.FrontMatter{
			Type:  markdown.TypeBlog,
			Title: "Tips Packing Ringan",
		},
		Body: []byte("Bawa secukupnya."),
	}
	result, err := imp.ImportDocument(context.Background(), doc)
	if err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}
	if len(result.CreatedIDs) != 1 || result.CreatedIDs[0] == uuid.Nil {
		t.Fatalf("expected one created item, got %+v", result.CreatedIDs)
	}
	if _, err := store.GetItemBySlug(context.Background(), catalog.KindBlog, "tips-packing-ringan"); err != nil {
		t.Fatalf("expected slugified title lookup to succeed: %v", err)
	}
}
