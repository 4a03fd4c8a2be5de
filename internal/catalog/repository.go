package catalog

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ItemStore provides kind-generic read/write access to source-language items.
type ItemStore interface {
	GetItem(ctx context.Context, kind Kind, id uuid.UUID) (Item, error)
	GetItemBySlug(ctx context.Context, kind Kind, slug string) (Item, error)
	ListItems(ctx context.Context, kind Kind) ([]Item, error)
	SaveItem(ctx context.Context, item Item) (Item, error)
	DeleteItem(ctx context.Context, kind Kind, id uuid.UUID) error
}

// TranslationStore provides access to per-language translation records.
type TranslationStore interface {
	GetTranslation(ctx context.Context, kind Kind, entityID uuid.UUID, language string) (*TranslationRecord, error)
	ListTranslations(ctx context.Context, kind Kind, entityID uuid.UUID) ([]*TranslationRecord, error)
	UpsertTranslation(ctx context.Context, record *TranslationRecord) (*TranslationRecord, error)
	CountTranslations(ctx context.Context, kind Kind, entityID uuid.UUID) (int, error)
	DeleteTranslations(ctx context.Context, kind Kind, entityID uuid.UUID) error
}

// URLSettingStore provides access to per-kind localized URL settings.
type URLSettingStore interface {
	GetURLSetting(ctx context.Context, kind Kind) (*URLSetting, error)
	UpsertURLSetting(ctx context.Context, setting *URLSetting) (*URLSetting, error)
}

// LocalizedPathStore persists resolved localized paths.
type LocalizedPathStore interface {
	UpsertLocalizedPath(ctx context.Context, path *LocalizedPath) (*LocalizedPath, error)
	ListLocalizedPaths(ctx context.Context, kind Kind, entityID uuid.UUID) ([]*LocalizedPath, error)
	DeleteLocalizedPaths(ctx context.Context, kind Kind, entityID uuid.UUID) error
}

// Store is the complete content store contract consumed by the translation
// subsystem. Implementations: BunStore (persistent) and MemoryStore (tests,
// store-less embedding).
type Store interface {
	ItemStore
	TranslationStore
	URLSettingStore
	LocalizedPathStore
}

func NewSectionRepository(db *bun.DB) repository.Repository[*Section] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Section]{
		NewRecord: func() *Section { return &Section{} },
		GetID: func(s *Section) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Section, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "key"
		},
		GetIdentifierValue: func(s *Section) string {
			return s.Key
		},
	})
}

func NewTravelPackageRepository(db *bun.DB) repository.Repository[*TravelPackage] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*TravelPackage]{
		NewRecord: func() *TravelPackage { return &TravelPackage{} },
		GetID: func(p *TravelPackage) uuid.UUID {
			return p.ID
		},
		SetID: func(p *TravelPackage, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *TravelPackage) string {
			return p.Slug
		},
	})
}

func NewBlogPostRepository(db *bun.DB) repository.Repository[*BlogPost] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*BlogPost]{
		NewRecord: func() *BlogPost { return &BlogPost{} },
		GetID: func(b *BlogPost) uuid.UUID {
			return b.ID
		},
		SetID: func(b *BlogPost, id uuid.UUID) {
			b.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(b *BlogPost) string {
			return b.Slug
		},
	})
}

func NewTestimonialRepository(db *bun.DB) repository.Repository[*Testimonial] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Testimonial]{
		NewRecord: func() *Testimonial { return &Testimonial{} },
		GetID: func(t *Testimonial) uuid.UUID {
			return t.ID
		},
		SetID: func(t *Testimonial, id uuid.UUID) {
			t.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(t *Testimonial) string {
			if t == nil {
				return ""
			}
			return t.ID.String()
		},
	})
}

func NewGalleryItemRepository(db *bun.DB) repository.Repository[*GalleryItem] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*GalleryItem]{
		NewRecord: func() *GalleryItem { return &GalleryItem{} },
		GetID: func(g *GalleryItem) uuid.UUID {
			return g.ID
		},
		SetID: func(g *GalleryItem, id uuid.UUID) {
			g.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(g *GalleryItem) string {
			if g == nil {
				return ""
			}
			return g.ID.String()
		},
	})
}
