// Package merge overlays translated fields onto source content at read
// time. Fallback is applied per field: a partially-translated record still
// yields a fully-populated view, mixing languages field by field.
package merge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/wisatago/tourcms/internal/catalog"
	"github.com/wisatago/tourcms/internal/fieldmap"
	"github.com/wisatago/tourcms/internal/i18n"
	"github.com/wisatago/tourcms/internal/logging"
	"github.com/wisatago/tourcms/pkg/interfaces"
)

// ErrItemRequired rejects merges without an item.
var ErrItemRequired = errors.New("merge: item is required")

// SectionView is the presentation form of a section.
type SectionView struct {
	ID       uuid.UUID
	Key      string
	Title    string
	Subtitle string
	Content  string
	Language string
	// AutoTranslated is set when any shown field came from a
	// machine-generated record, for UI disclosure.
	AutoTranslated bool
}

// PackageView is the presentation form of a travel package with structured
// fields decoded.
type PackageView struct {
	ID             uuid.UUID
	Slug           string
	Title          string
	Description    string
	Location       string
	Duration       string
	Price          int64
	Features       []fieldmap.Feature
	Itinerary      []fieldmap.ItineraryDay
	FAQs           []fieldmap.FAQ
	Language       string
	AutoTranslated bool
}

// BlogView is the presentation form of a blog post. Content stays markdown;
// ContentHTML carries the rendered body.
type BlogView struct {
	ID             uuid.UUID
	Slug           string
	Title          string
	Excerpt        string
	Content        string
	ContentHTML    string
	Tags           []string
	Author         string
	PublishedAt    *time.Time
	Language       string
	AutoTranslated bool
}

// TestimonialView is the presentation form of a testimonial.
type TestimonialView struct {
	ID             uuid.UUID
	Name           string
	Role           string
	Message        string
	Rating         int
	Language       string
	AutoTranslated bool
}

// GalleryView is the presentation form of a gallery entry.
type GalleryView struct {
	ID             uuid.UUID
	Title          string
	Caption        string
	Category       string
	ImageURL       string
	Language       string
	AutoTranslated bool
}

// Merger builds localized views from the store.
type Merger struct {
	store    catalog.Store
	logger   interfaces.Logger
	markdown goldmark.Markdown
}

// Option configures the merger.
type Option func(*Merger)

// WithLogger overrides the no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(m *Merger) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMerger constructs a merger.
func NewMerger(store catalog.Store, opts ...Option) (*Merger, error) {
	if store == nil {
		return nil, errors.New("merge: store is required")
	}
	merger := &Merger{
		store:  store,
		logger: logging.MergeLogger(nil),
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
	for _, opt := range opts {
		opt(merger)
	}
	return merger, nil
}

// localized resolves the item copy to present for the language: the source
// itself for the source language, otherwise the source overlaid per field
// with whatever the translation record holds.
func (m *Merger) localized(ctx context.Context, item catalog.Item, language string) (catalog.Item, bool, error) {
	if item == nil {
		return nil, false, ErrItemRequired
	}
	lang, err := i18n.Normalize(language)
	if err != nil {
		return nil, false, err
	}
	if lang == i18n.Source() {
		return item, false, nil
	}

	record, err := m.store.GetTranslation(ctx, item.ItemKind(), item.ItemID(), string(lang))
	if err != nil {
		if catalog.IsNotFound(err) {
			// No record at all: the view is the source, field by field.
			return item, false, nil
		}
		return nil, false, fmt.Errorf("merge: load translation: %w", err)
	}
	return fieldmap.TranslatedItem(item, record.Fields), record.IsAutoTranslated, nil
}

// Section merges a section for the language.
func (m *Merger) Section(ctx context.Context, section *catalog.Section, language string) (*SectionView, error) {
	merged, auto, err := m.localized(ctx, section, language)
	if err != nil {
		return nil, err
	}
	view := merged.(*catalog.Section)
	return &SectionView{
		ID:             view.ID,
		Key:            view.Key,
		Title:          view.Title,
		Subtitle:       view.Subtitle,
		Content:        view.Content,
		Language:       language,
		AutoTranslated: auto,
	}, nil
}

// Package merges a travel package for the language.
func (m *Merger) Package(ctx context.Context, pkg *catalog.TravelPackage, language string) (*PackageView, error) {
	merged, auto, err := m.localized(ctx, pkg, language)
	if err != nil {
		return nil, err
	}
	view := merged.(*catalog.TravelPackage)
	return &PackageView{
		ID:             view.ID,
		Slug:           view.Slug,
		Title:          view.Title,
		Description:    view.Description,
		Location:       view.Location,
		Duration:       view.Duration,
		Price:          view.Price,
		Features:       fieldmap.DecodeFeatures(view.Features),
		Itinerary:      fieldmap.DecodeItinerary(view.Itinerary),
		FAQs:           fieldmap.DecodeFAQs(view.FAQs),
		Language:       language,
		AutoTranslated: auto,
	}, nil
}

// Blog merges a blog post for the language and renders its body to HTML.
func (m *Merger) Blog(ctx context.Context, post *catalog.BlogPost, language string) (*BlogView, error) {
	merged, auto, err := m.localized(ctx, post, language)
	if err != nil {
		return nil, err
	}
	view := merged.(*catalog.BlogPost)

	var rendered bytes.Buffer
	if view.Content != "" {
		if err := m.markdown.Convert([]byte(view.Content), &rendered); err != nil {
			// A rendering failure downgrades to raw markdown, never an error.
			m.logger.Warn("markdown rendering failed",
				"id", view.ID.String(),
				"language", language,
				"error", err,
			)
			rendered.Reset()
			rendered.WriteString(view.Content)
		}
	}

	return &BlogView{
		ID:             view.ID,
		Slug:           view.Slug,
		Title:          view.Title,
		Excerpt:        view.Excerpt,
		Content:        view.Content,
		ContentHTML:    rendered.String(),
		Tags:           fieldmap.DecodeTags(view.Tags),
		Author:         view.Author,
		PublishedAt:    view.PublishedAt,
		Language:       language,
		AutoTranslated: auto,
	}, nil
}

// Testimonial merges a testimonial for the language.
func (m *Merger) Testimonial(ctx context.Context, review *catalog.Testimonial, language string) (*TestimonialView, error) {
	merged, auto, err := m.localized(ctx, review, language)
	if err != nil {
		return nil, err
	}
	view := merged.(*catalog.Testimonial)
	return &TestimonialView{
		ID:             view.ID,
		Name:           view.Name,
		Role:           view.Role,
		Message:        view.Message,
		Rating:         view.Rating,
		Language:       language,
		AutoTranslated: auto,
	}, nil
}

// Gallery merges a gallery entry for the language.
func (m *Merger) Gallery(ctx context.Context, item *catalog.GalleryItem, language string) (*GalleryView, error) {
	merged, auto, err := m.localized(ctx, item, language)
	if err != nil {
		return nil, err
	}
	view := merged.(*catalog.GalleryItem)
	return &GalleryView{
		ID:             view.ID,
		Title:          view.Title,
		Caption:        view.Caption,
		Category:       view.Category,
		ImageURL:       view.ImageURL,
		Language:       language,
		AutoTranslated: auto,
	}, nil
}

// Item merges any catalog item for the language, returning the matching
// typed view.
func (m *Merger) Item(ctx context.Context, item catalog.Item, language string) (any, error) {
	switch typed := item.(type) {
	case *catalog.Section:
		return m.Section(ctx, typed, language)
	case *catalog.TravelPackage:
		return m.Package(ctx, typed, language)
	case *catalog.BlogPost:
		return m.Blog(ctx, typed, language)
	case *catalog.Testimonial:
		return m.Testimonial(ctx, typed, language)
	case *catalog.GalleryItem:
		return m.Gallery(ctx, typed, language)
	default:
		return nil, ErrItemRequired
	}
}
