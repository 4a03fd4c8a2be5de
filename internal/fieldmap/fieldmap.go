// Package fieldmap declares, per content kind, which fields are translatable
// and how structured fields are encoded at rest. It is the single place that
// knows the shape of features, itinerary days, FAQ pairs, and tags.
package fieldmap

import (
	"github.com/wisatago/tourcms/internal/catalog"
)

// FieldKind distinguishes plain text fields from encoded structures.
type FieldKind string

const (
	// ScalarText is a plain translatable string column.
	ScalarText FieldKind = "scalar-text"
	// EncodedStructure is a JSON-encoded array of typed records.
	EncodedStructure FieldKind = "encoded-structure"
)

// FieldSpec names one translatable field of a content kind.
type FieldSpec struct {
	Name string
	Kind FieldKind
}

var specsByKind = map[catalog.Kind][]FieldSpec{
	catalog.KindSection: {
		{Name: "title", Kind: ScalarText},
		{Name: "subtitle", Kind: ScalarText},
		{Name: "content", Kind: ScalarText},
	},
	catalog.KindPackage: {
		{Name: "title", Kind: ScalarText},
		{Name: "description", Kind: ScalarText},
		{Name: "location", Kind: ScalarText},
		{Name: "duration", Kind: ScalarText},
		{Name: "features", Kind: EncodedStructure},
		{Name: "itinerary", Kind: EncodedStructure},
		{Name: "faqs", Kind: EncodedStructure},
	},
	catalog.KindBlog: {
		{Name: "title", Kind: ScalarText},
		{Name: "excerpt", Kind: ScalarText},
		{Name: "content", Kind: ScalarText},
		{Name: "tags", Kind: EncodedStructure},
	},
	catalog.KindTestimonial: {
		{Name: "role", Kind: ScalarText},
		{Name: "message", Kind: ScalarText},
	},
	catalog.KindGallery: {
		{Name: "title", Kind: ScalarText},
		{Name: "caption", Kind: ScalarText},
		{Name: "category", Kind: ScalarText},
	},
}

// Fields returns the ordered translatable field specs for a kind. Unknown
// kinds yield nil.
func Fields(kind catalog.Kind) []FieldSpec {
	specs, ok := specsByKind[kind]
	if !ok {
		return nil
	}
	out := make([]FieldSpec, len(specs))
	copy(out, specs)
	return out
}

// SourceFields extracts the raw source-language values of every translatable
// field, keyed by field name. Structured fields carry their encoded text as
// stored; decoding happens at the call sites that need element access.
func SourceFields(item catalog.Item) map[string]string {
	switch typed := item.(type) {
	case *catalog.Section:
		return map[string]string{
			"title":    typed.Title,
			"subtitle": typed.Subtitle,
			"content":  typed.Content,
		}
	case *catalog.TravelPackage:
		return map[string]string{
			"title":       typed.Title,
			"description": typed.Description,
			"location":    typed.Location,
			"duration":    typed.Duration,
			"features":    typed.Features,
			"itinerary":   typed.Itinerary,
			"faqs":        typed.FAQs,
		}
	case *catalog.BlogPost:
		return map[string]string{
			"title":   typed.Title,
			"excerpt": typed.Excerpt,
			"content": typed.Content,
			"tags":    typed.Tags,
		}
	case *catalog.Testimonial:
		return map[string]string{
			"role":    typed.Role,
			"message": typed.Message,
		}
	case *catalog.GalleryItem:
		return map[string]string{
			"title":    typed.Title,
			"caption":  typed.Caption,
			"category": typed.Category,
		}
	default:
		return nil
	}
}

// TranslatedItem returns a copy of the item with translatable fields
// replaced by the values in fields. Absent or empty values keep the source
// value, field by field. Non-translatable fields (ids, slugs, prices,
// ratings, image URLs) always come from the source.
func TranslatedItem(item catalog.Item, fields map[string]string) catalog.Item {
	pick := func(name, source string) string {
		if value, ok := fields[name]; ok && value != "" {
			return value
		}
		return source
	}

	switch typed := item.(type) {
	case *catalog.Section:
		copied := *typed
		copied.Title = pick("title", typed.Title)
		copied.Subtitle = pick("subtitle", typed.Subtitle)
		copied.Content = pick("content", typed.Content)
		return &copied
	case *catalog.TravelPackage:
		copied := *typed
		copied.Title = pick("title", typed.Title)
		copied.Description = pick("description", typed.Description)
		copied.Location = pick("location", typed.Location)
		copied.Duration = pick("duration", typed.Duration)
		copied.Features = pick("features", typed.Features)
		copied.Itinerary = pick("itinerary", typed.Itinerary)
		copied.FAQs = pick("faqs", typed.FAQs)
		return &copied
	case *catalog.BlogPost:
		copied := *typed
		copied.Title = pick("title", typed.Title)
		copied.Excerpt = pick("excerpt", typed.Excerpt)
		copied.Content = pick("content", typed.Content)
		copied.Tags = pick("tags", typed.Tags)
		return &copied
	case *catalog.Testimonial:
		copied := *typed
		copied.Role = pick("role", typed.Role)
		copied.Message = pick("message", typed.Message)
		return &copied
	case *catalog.GalleryItem:
		copied := *typed
		copied.Title = pick("title", typed.Title)
		copied.Caption = pick("caption", typed.Caption)
		copied.Category = pick("category", typed.Category)
		return &copied
	default:
		return item
	}
}
