package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Kind identifies one of the five content variants.
type Kind string

const (
	KindSection     Kind = "section"
	KindPackage     Kind = "package"
	KindBlog        Kind = "blog"
	KindTestimonial Kind = "testimonial"
	KindGallery     Kind = "gallery"
)

// Kinds returns every content kind in a fixed order.
func Kinds() []Kind {
	return []Kind{KindSection, KindPackage, KindBlog, KindTestimonial, KindGallery}
}

// IsValidKind reports whether the kind belongs to the known set.
func IsValidKind(kind Kind) bool {
	switch kind {
	case KindSection, KindPackage, KindBlog, KindTestimonial, KindGallery:
		return true
	}
	return false
}

// Item is the common surface of the five content variants. Source-language
// fields live on the concrete structs; the translation subsystem never
// mutates them.
type Item interface {
	ItemKind() Kind
	ItemID() uuid.UUID
	ItemSlug() string
	ItemUpdatedAt() time.Time
}

// Section is a named page section (hero, about, contact intro).
type Section struct {
	bun.BaseModel `bun:"table:sections,alias:s"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Key       string    `bun:"key,notnull" json:"key"`
	Title     string    `bun:"title,notnull" json:"title"`
	Subtitle  string    `bun:"subtitle" json:"subtitle"`
	Content   string    `bun:"content" json:"content"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (s *Section) ItemKind() Kind           { return KindSection }
func (s *Section) ItemID() uuid.UUID        { return s.ID }
func (s *Section) ItemSlug() string         { return "" }
func (s *Section) ItemUpdatedAt() time.Time { return s.UpdatedAt }

// TravelPackage is a bookable tour offering. Features, Itinerary, and FAQs
// are stored as JSON-encoded text and decoded through the field mapper.
type TravelPackage struct {
	bun.BaseModel `bun:"table:packages,alias:p"`

	ID          uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Slug        string    `bun:"slug,notnull" json:"slug"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description" json:"description"`
	Location    string    `bun:"location" json:"location"`
	Duration    string    `bun:"duration" json:"duration"`
	Price       int64     `bun:"price,notnull,default:0" json:"price"`
	Features    string    `bun:"features" json:"features"`
	Itinerary   string    `bun:"itinerary" json:"itinerary"`
	FAQs        string    `bun:"faqs" json:"faqs"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (p *TravelPackage) ItemKind() Kind           { return KindPackage }
func (p *TravelPackage) ItemID() uuid.UUID        { return p.ID }
func (p *TravelPackage) ItemSlug() string         { return p.Slug }
func (p *TravelPackage) ItemUpdatedAt() time.Time { return p.UpdatedAt }

// BlogPost is an editorial article. Content holds markdown; Tags is a
// JSON-encoded string array.
type BlogPost struct {
	bun.BaseModel `bun:"table:blog_posts,alias:b"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug        string     `bun:"slug,notnull" json:"slug"`
	Title       string     `bun:"title,notnull" json:"title"`
	Excerpt     string     `bun:"excerpt" json:"excerpt"`
	Content     string     `bun:"content" json:"content"`
	Tags        string     `bun:"tags" json:"tags"`
	Author      string     `bun:"author" json:"author"`
	PublishedAt *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (b *BlogPost) ItemKind() Kind           { return KindBlog }
func (b *BlogPost) ItemID() uuid.UUID        { return b.ID }
func (b *BlogPost) ItemSlug() string         { return b.Slug }
func (b *BlogPost) ItemUpdatedAt() time.Time { return b.UpdatedAt }

// Testimonial is a visitor review. Name and Rating are not translatable.
type Testimonial struct {
	bun.BaseModel `bun:"table:testimonials,alias:t"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Role      string    `bun:"role" json:"role"`
	Message   string    `bun:"message" json:"message"`
	Rating    int       `bun:"rating,notnull,default:5" json:"rating"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (t *Testimonial) ItemKind() Kind           { return KindTestimonial }
func (t *Testimonial) ItemID() uuid.UUID        { return t.ID }
func (t *Testimonial) ItemSlug() string         { return "" }
func (t *Testimonial) ItemUpdatedAt() time.Time { return t.UpdatedAt }

// GalleryItem is a captioned photo entry. ImageURL is not translatable.
type GalleryItem struct {
	bun.BaseModel `bun:"table:gallery_items,alias:g"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Title     string    `bun:"title" json:"title"`
	Caption   string    `bun:"caption" json:"caption"`
	Category  string    `bun:"category" json:"category"`
	ImageURL  string    `bun:"image_url,notnull" json:"image_url"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (g *GalleryItem) ItemKind() Kind           { return KindGallery }
func (g *GalleryItem) ItemID() uuid.UUID        { return g.ID }
func (g *GalleryItem) ItemSlug() string         { return "" }
func (g *GalleryItem) ItemUpdatedAt() time.Time { return g.UpdatedAt }

// TranslationRecord holds the localized copy of an item's translatable
// fields for one target language. Fields maps field name to translated
// value; an absent key means the field was never produced. The primary key
// is derived deterministically from (kind, entity, language), so at most one
// record can exist per pair.
type TranslationRecord struct {
	bun.BaseModel `bun:"table:content_translations,alias:tr"`

	ID               uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	Kind             Kind              `bun:"kind,notnull" json:"kind"`
	EntityID         uuid.UUID         `bun:"entity_id,notnull,type:uuid" json:"entity_id"`
	Language         string            `bun:"language,notnull" json:"language"`
	Fields           map[string]string `bun:"fields,type:jsonb,notnull" json:"fields"`
	IsAutoTranslated bool              `bun:"is_auto_translated,notnull,default:false" json:"is_auto_translated"`
	CreatedAt        time.Time         `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// URLSetting configures localized URL generation for one content kind.
// Segments maps language code to the path segment used when AutoGenerate is
// set; Patterns maps language code to a custom template with {lang} and
// {slug} tokens.
type URLSetting struct {
	bun.BaseModel `bun:"table:url_settings,alias:us"`

	ID           uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	Kind         Kind              `bun:"kind,notnull" json:"kind"`
	AutoGenerate bool              `bun:"auto_generate,notnull,default:true" json:"auto_generate"`
	Segments     map[string]string `bun:"segments,type:jsonb" json:"segments,omitempty"`
	Patterns     map[string]string `bun:"patterns,type:jsonb" json:"patterns,omitempty"`
	UpdatedAt    time.Time         `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// LocalizedPath is the persisted output of a URL regeneration pass: the
// resolved path for one (kind, entity, language) triple.
type LocalizedPath struct {
	bun.BaseModel `bun:"table:localized_paths,alias:lp"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Kind      Kind      `bun:"kind,notnull" json:"kind"`
	EntityID  uuid.UUID `bun:"entity_id,notnull,type:uuid" json:"entity_id"`
	Language  string    `bun:"language,notnull" json:"language"`
	Path      string    `bun:"path,notnull" json:"path"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}
