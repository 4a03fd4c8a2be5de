package urls_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/wisatago/tourcms/internal/catalog"
	"github.com/wisatago/tourcms/internal/i18n"
	"github.com/wisatago/tourcms/internal/urls"
)

const siteURL = "https://wisatago.example"

func newResolver(t *testing.T, store catalog.Store) *urls.Resolver {
	t.Helper()
	resolver, err := urls.NewResolver(store, siteURL)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return resolver
}

func TestResolve_AutoGeneratedPaths(t *testing.T) {
	ctx := context.Background()
	resolver := newResolver(t, catalog.NewMemoryStore())

	got, err := resolver.Resolve(ctx, "id", "package", "paket-bromo-2d1n")
	if err != nil {
		t.Fatalf("resolve source: %v", err)
	}
	if got != siteURL+"/packages/paket-bromo-2d1n" {
		t.Fatalf("source url = %q", got)
	}

	got, err = resolver.Resolve(ctx, "de", "package", "paket-bromo-2d1n")
	if err != nil {
		t.Fatalf("resolve de: %v", err)
	}
	if got != siteURL+"/de/packages/paket-bromo-2d1n" {
		t.Fatalf("de url = %q", got)
	}
}

func TestResolve_UsesConfiguredSegments(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	if _, err := store.UpsertURLSetting(ctx, &catalog.URLSetting{
		Kind:         catalog.KindPackage,
		AutoGenerate: true,
		Segments: map[string]string{
			"id": "paket",
			"de": "pakete",
		},
	}); err != nil {
		t.Fatalf("seed setting: %v", err)
	}
	resolver := newResolver(t, store)

	got, err := resolver.Resolve(ctx, "de", "package", "paket-bromo-2d1n")
	if err != nil {
		t.Fatalf("resolve de: %v", err)
	}
	if got != siteURL+"/de/pakete/paket-bromo-2d1n" {
		t.Fatalf("de url = %q", got)
	}

	got, err = resolver.Resolve(ctx, "id", "package", "paket-bromo-2d1n")
	if err != nil {
		t.Fatalf("resolve id: %v", err)
	}
	if got != siteURL+"/paket/paket-bromo-2d1n" {
		t.Fatalf("id url = %q", got)
	}

	// Languages without an override keep the default segment.
	got, err = resolver.Resolve(ctx, "en", "package", "paket-bromo-2d1n")
	if err != nil {
		t.Fatalf("resolve en: %v", err)
	}
	if got != siteURL+"/en/packages/paket-bromo-2d1n" {
		t.Fatalf("en url = %q", got)
	}
}

func TestResolve_CustomPatternWins(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	if _, err := store.UpsertURLSetting(ctx, &catalog.URLSetting{
		Kind:         catalog.KindBlog,
		AutoGenerate: true,
		Patterns: map[string]string{
			"zh": "/{lang}/lvyou/{slug}",
		},
	}); err != nil {
		t.Fatalf("seed setting: %v", err)
	}
	resolver := newResolver(t, store)

	got, err := resolver.Resolve(ctx, "zh", "blog", "gunung-bromo")
	if err != nil {
		t.Fatalf("resolve zh: %v", err)
	}
	if got != siteURL+"/zh/lvyou/gunung-bromo" {
		t.Fatalf("zh url = %q", got)
	}

	// Other languages fall through to auto-generation.
	got, err = resolver.Resolve(ctx, "en", "blog", "gunung-bromo")
	if err != nil {
		t.Fatalf("resolve en: %v", err)
	}
	if got != siteURL+"/en/blog/gunung-bromo" {
		t.Fatalf("en url = %q", got)
	}
}

func TestResolve_NormalizesSlug(t *testing.T) {
	resolver := newResolver(t, catalog.NewMemoryStore())

	got, err := resolver.Resolve(context.Background(), "en", "blog", "Mendaki Gunung Bromo!")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if strings.Contains(got, " ") || strings.Contains(got, "!") {
		t.Fatalf("slug not normalized: %q", got)
	}
}

func TestResolve_Rejections(t *testing.T) {
	resolver := newResolver(t, catalog.NewMemoryStore())
	ctx := context.Background()

	if _, err := resolver.Resolve(ctx, "fr", "blog", "x"); !errors.Is(err, i18n.ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
	if _, err := resolver.Resolve(ctx, "en", "page", "x"); !errors.Is(err, catalog.ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestHreflangSet_CompleteAndOrdered(t *testing.T) {
	resolver := newResolver(t, catalog.NewMemoryStore())

	alternates, err := resolver.HreflangSet(context.Background(), "package", "paket-bromo-2d1n")
	if err != nil {
		t.Fatalf("hreflang set: %v", err)
	}

	want := []string{"id", "en", "de", "nl", "zh", urls.XDefaultLang}
	if len(alternates) != len(want) {
		t.Fatalf("expected %d alternates, got %d", len(want), len(alternates))
	}
	for i, lang := range want {
		if alternates[i].Lang != lang {
			t.Fatalf("alternate %d: expected %s, got %s", i, lang, alternates[i].Lang)
		}
	}
	if alternates[len(alternates)-1].URL != alternates[0].URL {
		t.Fatal("x-default must point at the source-language URL")
	}
	for _, alt := range alternates {
		if !strings.HasPrefix(alt.URL, siteURL) {
			t.Fatalf("expected absolute url, got %q", alt.URL)
		}
	}
}

func TestRegenerateAll_IdempotentUpserts(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	pkg := &catalog.TravelPackage{ID: uuid.New(), Slug: "paket-bromo-2d1n", Title: "Paket Bromo"}
	section := &catalog.Section{ID: uuid.New(), Key: "hero", Title: "Hero"}
	if _, err := store.SaveItem(ctx, pkg); err != nil {
		t.Fatalf("seed package: %v", err)
	}
	if _, err := store.SaveItem(ctx, section); err != nil {
		t.Fatalf("seed section: %v", err)
	}
	resolver := newResolver(t, store)

	written, err := resolver.RegenerateAll(ctx, catalog.KindPackage)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if written != len(i18n.Supported()) {
		t.Fatalf("expected %d paths, got %d", len(i18n.Supported()), written)
	}

	// Second run rewrites the same rows.
	if _, err := resolver.RegenerateAll(ctx, catalog.KindPackage); err != nil {
		t.Fatalf("second regenerate: %v", err)
	}
	paths, err := store.ListLocalizedPaths(ctx, catalog.KindPackage, pkg.ID)
	if err != nil {
		t.Fatalf("list paths: %v", err)
	}
	if len(paths) != len(i18n.Supported()) {
		t.Fatalf("expected %d rows after rerun, got %d", len(i18n.Supported()), len(paths))
	}

	// Slugless kinds write nothing.
	written, err = resolver.RegenerateAll(ctx, catalog.KindSection)
	if err != nil {
		t.Fatalf("regenerate sections: %v", err)
	}
	if written != 0 {
		t.Fatalf("expected 0 section paths, got %d", written)
	}
}

func TestInvalidate_PicksUpSettingsChange(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore()
	resolver := newResolver(t, store)

	before, err := resolver.Resolve(ctx, "en", "package", "paket-bromo-2d1n")
	if err != nil {
		t.Fatalf("resolve before: %v", err)
	}
	if before != siteURL+"/en/packages/paket-bromo-2d1n" {
		t.Fatalf("before = %q", before)
	}

	if _, err := store.UpsertURLSetting(ctx, &catalog.URLSetting{
		Kind:         catalog.KindPackage,
		AutoGenerate: true,
		Segments:     map[string]string{"en": "tours"},
	}); err != nil {
		t.Fatalf("upsert setting: %v", err)
	}

	// Stale until invalidated.
	stale, err := resolver.Resolve(ctx, "en", "package", "paket-bromo-2d1n")
	if err != nil {
		t.Fatalf("resolve stale: %v", err)
	}
	if stale != before {
		t.Fatalf("expected cached routes, got %q", stale)
	}

	resolver.Invalidate()
	after, err := resolver.Resolve(ctx, "en", "package", "paket-bromo-2d1n")
	if err != nil {
		t.Fatalf("resolve after: %v", err)
	}
	if after != siteURL+"/en/tours/paket-bromo-2d1n" {
		t.Fatalf("after = %q", after)
	}
}
