// Package urls resolves localized public URLs for catalog content and keeps
// persisted localized paths and hreflang alternates consistent with the
// per-kind URL settings.
package urls

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	goslug "github.com/goliatone/go-slug"
	urlkit "github.com/goliatone/go-urlkit"

	"github.com/wisatago/tourcms/internal/catalog"
	"github.com/wisatago/tourcms/internal/i18n"
	"github.com/wisatago/tourcms/internal/identity"
	"github.com/wisatago/tourcms/internal/logging"
	"github.com/wisatago/tourcms/pkg/interfaces"
)

var (
	ErrSiteURLRequired = errors.New("urls: site url is required")
	ErrStoreRequired   = errors.New("urls: store is required")
)

// XDefaultLang labels the hreflang fallback entry.
const XDefaultLang = "x-default"

// Alternate is one hreflang entry: a language code (or x-default) and the
// absolute URL serving that language.
type Alternate struct {
	Lang string
	URL  string
}

// defaultSegments is the auto-generated path segment per kind when no URL
// setting overrides it. Sections live on the landing page.
var defaultSegments = map[catalog.Kind]string{
	catalog.KindSection:     "",
	catalog.KindPackage:     "packages",
	catalog.KindBlog:        "blog",
	catalog.KindTestimonial: "testimonials",
	catalog.KindGallery:     "gallery",
}

// Resolver builds localized URLs from per-kind settings through a urlkit
// route manager. The manager is compiled lazily from the persisted settings
// and cached until Invalidate.
type Resolver struct {
	store   catalog.Store
	siteURL string
	logger  interfaces.Logger

	mu         sync.RWMutex
	manager    *urlkit.RouteManager
	groupCache map[string]*urlkit.Group
	patterns   map[catalog.Kind]map[string]string
}

// Option configures the resolver.
type Option func(*Resolver)

// WithLogger overrides the no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver constructs a resolver rooted at siteURL.
func NewResolver(store catalog.Store, siteURL string, opts ...Option) (*Resolver, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	siteURL = strings.TrimRight(strings.TrimSpace(siteURL), "/")
	if siteURL == "" {
		return nil, ErrSiteURLRequired
	}
	resolver := &Resolver{
		store:   store,
		siteURL: siteURL,
		logger:  logging.URLsLogger(nil),
	}
	for _, opt := range opts {
		opt(resolver)
	}
	return resolver, nil
}

// Invalidate discards the compiled route manager. The next resolution
// rebuilds it from the current URL settings.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.manager = nil
	r.groupCache = nil
	r.patterns = nil
	r.mu.Unlock()
}

// Resolve returns the absolute URL serving the item in the language. Kinds
// without slugs resolve to their listing path; an empty slug does the same
// for sluggable kinds.
func (r *Resolver) Resolve(ctx context.Context, language, kind, slug string) (string, error) {
	lang, err := i18n.Normalize(language)
	if err != nil {
		return "", err
	}
	contentKind := catalog.Kind(kind)
	if !catalog.IsValidKind(contentKind) {
		return "", catalog.ErrInvalidKind
	}
	slug, err = normalizeSlug(slug)
	if err != nil {
		return "", err
	}

	if err := r.ensureManager(ctx); err != nil {
		return "", err
	}

	if pattern := r.patternFor(contentKind, string(lang)); pattern != "" {
		return r.siteURL + expandPattern(pattern, string(lang), slug), nil
	}

	group, err := r.groupFor(lang)
	if err != nil {
		return "", err
	}
	route := string(contentKind)
	if slug == "" {
		route += "_index"
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	if slug != "" {
		builder.WithParam("slug", slug)
	}
	url, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("urls: build %s url: %w", contentKind, err)
	}
	return url, nil
}

// HreflangSet returns one alternate per supported language in canonical
// order, followed by an x-default entry pointing at the source-language URL.
func (r *Resolver) HreflangSet(ctx context.Context, kind, slug string) ([]Alternate, error) {
	supported := i18n.Supported()
	out := make([]Alternate, 0, len(supported)+1)
	for _, lang := range supported {
		url, err := r.Resolve(ctx, string(lang), kind, slug)
		if err != nil {
			return nil, err
		}
		out = append(out, Alternate{Lang: string(lang), URL: url})
	}
	sourceURL, err := r.Resolve(ctx, string(i18n.Source()), kind, slug)
	if err != nil {
		return nil, err
	}
	return append(out, Alternate{Lang: XDefaultLang, URL: sourceURL}), nil
}

// RegenerateAll recomputes and persists localized paths for every sluggable
// item of the kind, one row per language. Rows are keyed deterministically,
// so repeated runs converge instead of accumulating. Returns the number of
// paths written.
func (r *Resolver) RegenerateAll(ctx context.Context, kind catalog.Kind) (int, error) {
	items, err := r.store.ListItems(ctx, kind)
	if err != nil {
		return 0, fmt.Errorf("urls: list %s items: %w", kind, err)
	}

	written := 0
	for _, item := range items {
		slug := item.ItemSlug()
		if slug == "" {
			continue
		}
		for _, lang := range i18n.Supported() {
			url, err := r.Resolve(ctx, string(lang), string(kind), slug)
			if err != nil {
				return written, err
			}
			path := strings.TrimPrefix(url, r.siteURL)
			if _, err := r.store.UpsertLocalizedPath(ctx, &catalog.LocalizedPath{
				ID:       identity.LocalizedPathUUID(string(kind), item.ItemID(), string(lang)),
				Kind:     kind,
				EntityID: item.ItemID(),
				Language: string(lang),
				Path:     path,
			}); err != nil {
				return written, fmt.Errorf("urls: persist path: %w", err)
			}
			written++
		}
	}
	r.logger.Info("regenerated localized paths",
		"kind", string(kind),
		"paths", written,
	)
	return written, nil
}

// ensureManager compiles the urlkit route manager from persisted settings.
func (r *Resolver) ensureManager(ctx context.Context) error {
	r.mu.RLock()
	ready := r.manager != nil
	r.mu.RUnlock()
	if ready {
		return nil
	}

	segments := make(map[catalog.Kind]map[string]string)
	patterns := make(map[catalog.Kind]map[string]string)
	for _, kind := range catalog.Kinds() {
		setting, err := r.store.GetURLSetting(ctx, kind)
		switch {
		case err == nil:
			if setting.AutoGenerate {
				segments[kind] = setting.Segments
			}
			patterns[kind] = setting.Patterns
		case catalog.IsNotFound(err):
		default:
			return fmt.Errorf("urls: load %s settings: %w", kind, err)
		}
	}

	root := urlkit.GroupConfig{
		Name:    "site",
		BaseURL: r.siteURL,
		Paths:   routePaths(segments, string(i18n.Source())),
	}
	for _, lang := range i18n.Targets() {
		root.Groups = append(root.Groups, urlkit.GroupConfig{
			Name:  string(lang),
			Path:  "/" + string(lang),
			Paths: routePaths(segments, string(lang)),
		})
	}
	manager := urlkit.NewRouteManager(&urlkit.Config{Groups: []urlkit.GroupConfig{root}})

	r.mu.Lock()
	r.manager = manager
	r.groupCache = make(map[string]*urlkit.Group)
	r.patterns = patterns
	r.mu.Unlock()
	return nil
}

// routePaths declares, per kind, a detail route with a :slug param and an
// index route without one.
func routePaths(segments map[catalog.Kind]map[string]string, lang string) map[string]string {
	paths := make(map[string]string, len(defaultSegments)*2)
	for kind, fallback := range defaultSegments {
		segment := fallback
		if overrides, ok := segments[kind]; ok {
			if override, ok := overrides[lang]; ok && strings.TrimSpace(override) != "" {
				segment = strings.Trim(override, "/")
			}
		}
		base := "/"
		if segment != "" {
			base = "/" + segment
		}
		paths[string(kind)+"_index"] = base
		if base == "/" {
			paths[string(kind)] = "/:slug"
		} else {
			paths[string(kind)] = base + "/:slug"
		}
	}
	return paths
}

func (r *Resolver) patternFor(kind catalog.Kind, lang string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if overrides, ok := r.patterns[kind]; ok {
		return strings.TrimSpace(overrides[lang])
	}
	return ""
}

// expandPattern substitutes {lang} and {slug} tokens into a custom pattern.
func expandPattern(pattern, lang, slug string) string {
	expanded := strings.ReplaceAll(pattern, "{lang}", lang)
	expanded = strings.ReplaceAll(expanded, "{slug}", slug)
	if !strings.HasPrefix(expanded, "/") {
		expanded = "/" + expanded
	}
	return strings.TrimRight(expanded, "/")
}

func (r *Resolver) groupFor(lang i18n.Language) (*urlkit.Group, error) {
	path := "site"
	if lang != i18n.Source() {
		path = "site." + string(lang)
	}

	r.mu.RLock()
	group, ok := r.groupCache[path]
	manager := r.manager
	r.mu.RUnlock()
	if ok {
		return group, nil
	}

	parts := strings.Split(path, ".")
	current, err := lookupGroup(manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}

	r.mu.Lock()
	r.groupCache[path] = current
	r.mu.Unlock()
	return current, nil
}

// normalizeSlug applies the shared slug rules; an already-valid slug passes
// through untouched.
func normalizeSlug(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	if goslug.IsValid(trimmed) {
		return trimmed, nil
	}
	normalized, err := goslug.Normalize(trimmed)
	if err != nil {
		return "", fmt.Errorf("urls: normalize slug %q: %w", raw, err)
	}
	return normalized, nil
}

// urlkit panics on unknown groups and routes; convert to errors.
func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, errors.New("urls: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("urls: route %q not found: %v", route, rec)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, errors.New("urls: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("urls: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, errors.New("urls: parent group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("urls: child group %q not found", name)
		}
	}()
	group = parent.Group(name)
	return group, err
}
