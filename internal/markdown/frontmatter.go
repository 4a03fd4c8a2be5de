package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/wisatago/tourcms/internal/fieldmap"
)

// DocumentType selects which catalog entity a markdown file maps onto.
type DocumentType string

const (
	TypeBlog    DocumentType = "blog"
	TypePackage DocumentType = "package"
)

// FrontMatter is the YAML metadata block accepted at the top of an imported
// markdown file. Blog posts use Title/Slug/Excerpt/Tags/Author/Date; tour
// packages additionally carry pricing and the structured itinerary blocks.
type FrontMatter struct {
	Type     DocumentType `yaml:"type"`
	Title    string       `yaml:"title"`
	Slug     string       `yaml:"slug"`
	Excerpt  string       `yaml:"excerpt"`
	Tags     []string     `yaml:"tags"`
	Author   string       `yaml:"author"`
	Date     time.Time    `yaml:"date"`
	Draft    bool         `yaml:"draft"`
	Location string       `yaml:"location"`
	Duration string       `yaml:"duration"`
	Price    int64        `yaml:"price"`

	Features  []fieldmap.Feature      `yaml:"features"`
	Itinerary []fieldmap.ItineraryDay `yaml:"itinerary"`
	FAQs      []fieldmap.FAQ          `yaml:"faqs"`
}

// ParseFrontMatter extracts metadata and the markdown body from the provided
// source bytes. The returned body has the frontmatter delimiters stripped.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Type == "" {
		meta.Type = TypeBlog
	}

	return meta, body, nil
}
