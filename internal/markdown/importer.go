package markdown

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goslug "github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/wisatago/tourcms/internal/catalog"
	"github.com/wisatago/tourcms/internal/fieldmap"
	"github.com/wisatago/tourcms/internal/identity"
	"github.com/wisatago/tourcms/internal/logging"
	"github.com/wisatago/tourcms/internal/settings"
	"github.com/wisatago/tourcms/internal/translate"
	"github.com/wisatago/tourcms/pkg/interfaces"
)

var (
	ErrStoreRequired   = errors.New("markdown importer: catalog store is required")
	ErrSlugMissing     = errors.New("markdown importer: frontmatter slug is required")
	ErrTitleMissing    = errors.New("markdown importer: frontmatter title is required")
	ErrUnknownDocument = errors.New("markdown importer: unknown document type")
)

// TranslationService triggers translation passes for freshly imported items.
type TranslationService interface {
	EnsureTranslations(ctx context.Context, req translate.EnsureRequest) (map[string]translate.Outcome, error)
}

// ImporterConfig encapsulates dependencies required to persist markdown documents.
type ImporterConfig struct {
	Store      catalog.Store
	Settings   settings.Repository
	Translator TranslationService
	Logger     interfaces.Logger
	Clock      func() time.Time
}

// ImportResult summarises one import run. A document that fails to convert is
// recorded in Errors and does not abort the rest of the run.
type ImportResult struct {
	CreatedIDs []uuid.UUID
	UpdatedIDs []uuid.UUID
	SkippedIDs []uuid.UUID
	Errors     []error
}

// Importer converts markdown documents into catalog items. When the settings
// repository reports translate-on-import, each imported item gets a
// translation pass before the run completes.
type Importer struct {
	store      catalog.Store
	settings   settings.Repository
	translator TranslationService
	logger     interfaces.Logger
	now        func() time.Time
}

// NewImporter builds an Importer from the supplied configuration.
func NewImporter(cfg ImporterConfig) (*Importer, error) {
	if cfg.Store == nil {
		return nil, ErrStoreRequired
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &Importer{
		store:      cfg.Store,
		settings:   cfg.Settings,
		translator: cfg.Translator,
		logger:     logger,
		now:        now,
	}, nil
}

// ImportDocument imports a single markdown document.
func (i *Importer) ImportDocument(ctx context.Context, doc *Document) (*ImportResult, error) {
	return i.ImportDocuments(ctx, []*Document{doc})
}

// ImportDocuments imports the supplied documents one by one, accumulating
// per-document failures instead of aborting the whole run.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*Document) (*ImportResult, error) {
	result := &ImportResult{}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		id, created, err := i.importOne(ctx, doc, result)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", doc.FilePath, err))
			continue
		}
		if id == uuid.Nil {
			continue
		}
		if created {
			result.CreatedIDs = append(result.CreatedIDs, id)
		} else {
			result.UpdatedIDs = append(result.UpdatedIDs, id)
		}
	}

	if len(result.Errors) > 0 {
		return result, result.Errors[0]
	}
	return result, nil
}

func (i *Importer) importOne(ctx context.Context, doc *Document, result *ImportResult) (uuid.UUID, bool, error) {
	meta := doc.FrontMatter

	slug, err := normalizeSlug(meta)
	if err != nil {
		return uuid.Nil, false, err
	}
	if strings.TrimSpace(meta.Title) == "" {
		return uuid.Nil, false, ErrTitleMissing
	}

	var kind catalog.Kind
	switch meta.Type {
	case TypeBlog:
		kind = catalog.KindBlog
	case TypePackage:
		kind = catalog.KindPackage
	default:
		return uuid.Nil, false, fmt.Errorf("%w: %q", ErrUnknownDocument, meta.Type)
	}

	id := identity.ItemUUID(string(kind), slug)

	if meta.Draft {
		result.SkippedIDs = append(result.SkippedIDs, id)
		i.logger.Debug("markdown.import.skip_draft", "path", doc.FilePath, "slug", slug)
		return uuid.Nil, false, nil
	}

	existing, err := i.store.GetItem(ctx, kind, id)
	if err != nil && !catalog.IsNotFound(err) {
		return uuid.Nil, false, err
	}
	created := existing == nil

	item := i.buildItem(kind, id, slug, doc, existing)
	if _, err := i.store.SaveItem(ctx, item); err != nil {
		return uuid.Nil, false, err
	}

	i.logger.Info("markdown.import.saved",
		"path", doc.FilePath,
		"kind", string(kind),
		"slug", slug,
		"created", created,
	)

	if err := i.maybeTranslate(ctx, kind, id); err != nil {
		return uuid.Nil, false, err
	}
	return id, created, nil
}

func (i *Importer) buildItem(kind catalog.Kind, id uuid.UUID, slug string, doc *Document, existing catalog.Item) catalog.Item {
	meta := doc.FrontMatter
	now := i.now().UTC()
	body := strings.TrimSpace(string(doc.Body))

	switch kind {
	case catalog.KindPackage:
		pkg := &catalog.TravelPackage{
			ID:          id,
			Slug:        slug,
			Title:       meta.Title,
			Description: body,
			Location:    meta.Location,
			Duration:    meta.Duration,
			Price:       meta.Price,
			Features:    fieldmap.EncodeFeatures(meta.Features),
			Itinerary:   fieldmap.EncodeItinerary(meta.Itinerary),
			FAQs:        fieldmap.EncodeFAQs(meta.FAQs),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if prev, ok := existing.(*catalog.TravelPackage); ok {
			pkg.CreatedAt = prev.CreatedAt
		}
		return pkg
	default:
		post := &catalog.BlogPost{
			ID:        id,
			Slug:      slug,
			Title:     meta.Title,
			Excerpt:   meta.Excerpt,
			Content:   body,
			Tags:      fieldmap.EncodeTags(meta.Tags),
			Author:    meta.Author,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if !meta.Date.IsZero() {
			published := meta.Date
			post.PublishedAt = &published
		}
		if prev, ok := existing.(*catalog.BlogPost); ok {
			post.CreatedAt = prev.CreatedAt
		}
		return post
	}
}

// maybeTranslate runs a translation pass when the persisted settings enable
// auto translation on import. Absent settings mean no pass.
func (i *Importer) maybeTranslate(ctx context.Context, kind catalog.Kind, id uuid.UUID) error {
	if i.translator == nil || i.settings == nil {
		return nil
	}

	cfg, err := i.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsNotFound) {
			return nil
		}
		return err
	}
	if !cfg.AutoTranslateEnabled || !cfg.TranslateOnImport {
		return nil
	}

	outcomes, err := i.translator.EnsureTranslations(ctx, translate.EnsureRequest{
		Kind:      kind,
		ID:        id,
		Languages: cfg.TargetLanguages,
	})
	if err != nil {
		return fmt.Errorf("translate after import: %w", err)
	}
	for lang, outcome := range outcomes {
		if outcome.Status == translate.StatusFailed {
			i.logger.Warn("markdown.import.translate_failed", "language", lang, "error", outcome.Err)
		}
	}
	return nil
}

func normalizeSlug(meta FrontMatter) (string, error) {
	raw := strings.TrimSpace(meta.Slug)
	if raw == "" {
		raw = strings.TrimSpace(meta.Title)
	}
	if raw == "" {
		return "", ErrSlugMissing
	}
	if goslug.IsValid(raw) {
		return raw, nil
	}
	normalized, err := goslug.Normalize(raw)
	if err != nil || normalized == "" {
		return "", fmt.Errorf("%w: %q", ErrSlugMissing, raw)
	}
	return normalized, nil
}
