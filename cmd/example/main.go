package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/wisatago/tourcms"
	"github.com/wisatago/tourcms/internal/catalog"
	"github.com/wisatago/tourcms/internal/fieldmap"
	"github.com/wisatago/tourcms/internal/settings"
)

func main() {
	ctx := context.Background()

	cfg := tourcms.DefaultConfig()
	cfg.SiteURL = "https://wisatago.example"

	module, err := tourcms.New(cfg)
	if err != nil {
		log.Fatalf("initialise module: %v", err)
	}
	if err := module.WatchSettings(ctx); err != nil {
		log.Fatalf("watch settings: %v", err)
	}

	if _, err := module.Settings().Upsert(ctx, settings.Settings{
		AutoTranslateEnabled: true,
		TranslateOnImport:    true,
	}); err != nil {
		log.Fatalf("store settings: %v", err)
	}

	pkg := seedCatalog(ctx, module)

	outcomes, err := module.TriggerTranslation(ctx, tourcms.KindPackage, pkg.ID, nil, false)
	if err != nil {
		log.Fatalf("trigger translation: %v", err)
	}
	fmt.Println("translation outcomes:")
	for lang, outcome := range outcomes {
		fmt.Printf("  %s: %s\n", lang, outcome.Status)
	}

	status, err := module.CheckStatus(ctx, tourcms.KindPackage, pkg.ID)
	if err != nil {
		log.Fatalf("check status: %v", err)
	}
	fmt.Println("stored translations:")
	for lang, entry := range status {
		fmt.Printf("  %s: exists=%t fields=%d auto=%t\n", lang, entry.Exists, entry.FieldCount, entry.IsAutoTranslated)
	}

	reports, err := module.CheckCoverage(ctx, "", nil, true)
	if err != nil {
		log.Fatalf("check coverage: %v", err)
	}
	fmt.Printf("items still needing translation: %d\n", len(reports))

	for _, lang := range module.SupportedLanguages() {
		url, err := module.ResolveLocalizedURL(ctx, lang, tourcms.KindPackage, pkg.Slug)
		if err != nil {
			log.Fatalf("resolve %s url: %v", lang, err)
		}
		fmt.Printf("  %s -> %s\n", lang, url)
	}

	written, err := module.RegenerateURLs(ctx, "")
	if err != nil {
		log.Fatalf("regenerate urls: %v", err)
	}
	fmt.Printf("localized paths written: %d\n", written)

	payload, err := module.Sitemap(ctx)
	if err != nil {
		log.Fatalf("sitemap: %v", err)
	}
	fmt.Println(string(payload))
}

func seedCatalog(ctx context.Context, module *tourcms.Module) *catalog.TravelPackage {
	store := module.Catalog()

	pkg := &catalog.TravelPackage{
		ID:       uuid.New(),
		Slug:     "paket-bromo-2d1n",
		Title:    "Paket Bromo 2D1N",
		Location: "Jawa Timur",
		Duration: "2 hari 1 malam",
		Price:    1500000,
		Features: fieldmap.EncodeFeatures([]fieldmap.Feature{
			{Title: "Jeep sunrise", Description: "Antar jemput ke Penanjakan"},
		}),
		Itinerary: fieldmap.EncodeItinerary([]fieldmap.ItineraryDay{
			{Day: 1, Title: "Perjalanan malam", Activities: []string{"Kumpul di meeting point"}},
			{Day: 2, Title: "Sunrise dan kawah", Activities: []string{"Naik jeep", "Trekking ke kawah"}},
		}),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := store.SaveItem(ctx, pkg); err != nil {
		log.Fatalf("save package: %v", err)
	}

	published := time.Now().UTC()
	post := &catalog.BlogPost{
		ID:          uuid.New(),
		Slug:        "sunrise-kawah-ijen",
		Title:       "Sunrise di Kawah Ijen",
		Excerpt:     "Pendakian dini hari menuju api biru.",
		Content:     "# Sunrise di Kawah Ijen\n\nPerjalanan dimulai pukul satu pagi.",
		Tags:        fieldmap.EncodeTags([]string{"ijen", "pendakian"}),
		Author:      "Tim Wisata",
		PublishedAt: &published,
		UpdatedAt:   time.Now().UTC(),
	}
	if _, err := store.SaveItem(ctx, post); err != nil {
		log.Fatalf("save blog post: %v", err)
	}

	return pkg
}
