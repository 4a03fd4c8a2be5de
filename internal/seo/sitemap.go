// Package seo builds the XML sitemap with per-language hreflang alternate
// links derived from the URL resolver.
package seo

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/wisatago/tourcms/internal/catalog"
	"github.com/wisatago/tourcms/internal/urls"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// XHTMLNamespace is the namespace for hreflang alternate links.
const XHTMLNamespace = "http://www.w3.org/1999/xhtml"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// AlternateLink is one xhtml:link alternate entry on a sitemap URL.
type AlternateLink struct {
	Rel      string `xml:"rel,attr"`
	Hreflang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string          `xml:"loc"`
	LastMod    string          `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq      `xml:"changefreq,omitempty"`
	Priority   string          `xml:"priority,omitempty"`
	Alternates []AlternateLink `xml:"xhtml:link"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	XHTMLNS string       `xml:"xmlns:xhtml,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapBuilder assembles the document. Every added entry carries the full
// hreflang alternate set so search engines can associate language variants.
type SitemapBuilder struct {
	resolver *urls.Resolver
	siteURL  string
	urls     []SitemapURL
}

// NewSitemapBuilder creates a builder over the URL resolver.
func NewSitemapBuilder(resolver *urls.Resolver, siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		resolver: resolver,
		siteURL:  siteURL,
		urls:     make([]SitemapURL, 0),
	}
}

// AddHomepage adds the landing page with its language alternates.
func (b *SitemapBuilder) AddHomepage(ctx context.Context) error {
	alternates, err := b.resolver.HreflangSet(ctx, string(catalog.KindSection), "")
	if err != nil {
		return fmt.Errorf("seo: homepage alternates: %w", err)
	}
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL,
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
		Alternates: toLinks(alternates),
	})
	return nil
}

// AddItem adds one sluggable catalog item with its language alternates.
func (b *SitemapBuilder) AddItem(ctx context.Context, item catalog.Item) error {
	slug := item.ItemSlug()
	if slug == "" {
		return nil
	}
	alternates, err := b.resolver.HreflangSet(ctx, string(item.ItemKind()), slug)
	if err != nil {
		return fmt.Errorf("seo: %s alternates: %w", item.ItemKind(), err)
	}

	loc := ""
	for _, alt := range alternates {
		if alt.Lang == urls.XDefaultLang {
			loc = alt.URL
			break
		}
	}

	entry := SitemapURL{
		Loc:        loc,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.8",
		Alternates: toLinks(alternates),
	}
	if updated := item.ItemUpdatedAt(); !updated.IsZero() {
		entry.LastMod = updated.Format(time.RFC3339)
	}
	b.urls = append(b.urls, entry)
	return nil
}

// AddItems adds every sluggable item of the slice.
func (b *SitemapBuilder) AddItems(ctx context.Context, items []catalog.Item) error {
	for _, item := range items {
		if err := b.AddItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS:   XMLNamespace,
		XHTMLNS: XHTMLNamespace,
		URLs:    b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(output, xmlBytes...), nil
}

// GenerateSitemap builds a sitemap covering the homepage and every sluggable
// item in the store.
func GenerateSitemap(ctx context.Context, store catalog.Store, resolver *urls.Resolver, siteURL string) ([]byte, error) {
	builder := NewSitemapBuilder(resolver, siteURL)
	if err := builder.AddHomepage(ctx); err != nil {
		return nil, err
	}
	for _, kind := range []catalog.Kind{catalog.KindPackage, catalog.KindBlog} {
		items, err := store.ListItems(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("seo: list %s items: %w", kind, err)
		}
		if err := builder.AddItems(ctx, items); err != nil {
			return nil, err
		}
	}
	return builder.Build()
}

func toLinks(alternates []urls.Alternate) []AlternateLink {
	links := make([]AlternateLink, 0, len(alternates))
	for _, alt := range alternates {
		links = append(links, AlternateLink{
			Rel:      "alternate",
			Hreflang: alt.Lang,
			Href:     alt.URL,
		})
	}
	return links
}
