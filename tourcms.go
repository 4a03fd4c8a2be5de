package tourcms

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	repocache "github.com/goliatone/go-repository-cache/cache"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/wisatago/tourcms/internal/catalog"
	"github.com/wisatago/tourcms/internal/commands/translatecmd"
	"github.com/wisatago/tourcms/internal/coverage"
	"github.com/wisatago/tourcms/internal/i18n"
	"github.com/wisatago/tourcms/internal/logging"
	"github.com/wisatago/tourcms/internal/logging/gologger"
	"github.com/wisatago/tourcms/internal/markdown"
	"github.com/wisatago/tourcms/internal/merge"
	"github.com/wisatago/tourcms/internal/seo"
	"github.com/wisatago/tourcms/internal/settings"
	"github.com/wisatago/tourcms/internal/translate"
	"github.com/wisatago/tourcms/internal/translate/libretranslate"
	"github.com/wisatago/tourcms/internal/urls"
	"github.com/wisatago/tourcms/pkg/interfaces"
)

// Kind exports the catalog kind enumeration for consumers of the module.
type Kind = catalog.Kind

// Exported kind constants.
const (
	KindSection     = catalog.KindSection
	KindPackage     = catalog.KindPackage
	KindBlog        = catalog.KindBlog
	KindTestimonial = catalog.KindTestimonial
	KindGallery     = catalog.KindGallery
)

// Store exports the catalog persistence contract.
type Store = catalog.Store

// TranslationOutcome exports the per-language translation report.
type TranslationOutcome = translate.Outcome

// CoverageReport exports the per-item coverage report.
type CoverageReport = coverage.ItemReport

// CoverageSnapshot exports the per-language coverage snapshot.
type CoverageSnapshot = coverage.Snapshot

// Alternate exports one hreflang link entry.
type Alternate = urls.Alternate

// ImportResult exports the markdown import summary.
type ImportResult = markdown.ImportResult

// ErrMarkdownDisabled is returned by ImportMarkdown when the feature is off.
var ErrMarkdownDisabled = errors.New("tourcms: markdown import is not enabled")

// LanguageStatus describes the stored translation for one target language.
type LanguageStatus struct {
	Exists           bool       `json:"exists"`
	IsAutoTranslated bool       `json:"is_auto_translated"`
	FieldCount       int        `json:"field_count"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// Commands bundles the command handlers exposed for dispatcher registration.
type Commands struct {
	TriggerTranslation *translatecmd.TriggerTranslationHandler
	RegenerateURLs     *translatecmd.RegenerateURLsHandler
}

// Module is the top level runtime facade: it owns the catalog store, the
// translation orchestrator, the coverage checker, the URL resolver, and the
// localized merge views.
type Module struct {
	cfg      Config
	store    catalog.Store
	settings settings.Repository
	provider translate.Provider

	translator *translate.Service
	checker    *coverage.Checker
	resolver   *urls.Resolver
	merger     *merge.Merger
	commands   Commands

	logProvider interfaces.LoggerProvider
	clock       func() time.Time
}

// Option overrides a dependency during construction.
type Option func(*Module)

// WithStore injects a catalog store, bypassing DB construction.
func WithStore(store catalog.Store) Option {
	return func(m *Module) { m.store = store }
}

// WithDB injects a bun handle; the module builds its store on top of it.
func WithDB(db *bun.DB) Option {
	return func(m *Module) {
		if db == nil {
			return
		}
		m.store = catalog.NewBunStore(db)
	}
}

// WithSettingsRepository injects the translation settings repository.
func WithSettingsRepository(repo settings.Repository) Option {
	return func(m *Module) { m.settings = repo }
}

// WithProvider injects the translation backend, bypassing config-driven selection.
func WithProvider(provider translate.Provider) Option {
	return func(m *Module) { m.provider = provider }
}

// WithLoggerProvider injects the logger provider used for all scoped loggers.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) { m.logProvider = provider }
}

// WithClock overrides time.Now for deterministic timestamps.
func WithClock(clock func() time.Time) Option {
	return func(m *Module) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// New constructs the module from configuration plus optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{
		cfg:   cfg,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.logProvider == nil && cfg.Features.Logger {
		provider, err := newLogProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		if provider != nil {
			m.logProvider = provider
		}
	}

	if m.store == nil {
		m.store = catalog.NewMemoryStore()
	}
	if m.settings == nil {
		m.settings = settings.NewMemoryRepository()
	}

	if m.provider == nil {
		provider, err := buildProvider(cfg)
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}

	translator, err := translate.NewService(m.store, m.provider,
		translate.WithLogger(logging.TranslateLogger(m.logProvider)),
		translate.WithSettings(m.settings),
		translate.WithConcurrency(cfg.Translation.Concurrency),
		translate.WithClock(m.clock),
	)
	if err != nil {
		return nil, err
	}
	m.translator = translator

	checker, err := coverage.NewChecker(m.store,
		coverage.WithLogger(logging.CoverageLogger(m.logProvider)),
	)
	if err != nil {
		return nil, err
	}
	m.checker = checker

	resolver, err := urls.NewResolver(m.store, cfg.SiteURL,
		urls.WithLogger(logging.URLsLogger(m.logProvider)),
	)
	if err != nil {
		return nil, err
	}
	m.resolver = resolver

	merger, err := merge.NewMerger(m.store,
		merge.WithLogger(logging.MergeLogger(m.logProvider)),
	)
	if err != nil {
		return nil, err
	}
	m.merger = merger

	commandLogger := logging.ModuleLogger(m.logProvider, "tourcms.commands")
	m.commands = Commands{
		TriggerTranslation: translatecmd.NewTriggerTranslationHandler(translator, commandLogger),
		RegenerateURLs:     translatecmd.NewRegenerateURLsHandler(resolver, commandLogger),
	}

	return m, nil
}

// newLogProvider maps the configured logging provider onto go-logger. The
// "console" value is shorthand for go-logger with console output. Names not
// listed here are rejected by Validate before construction reaches this point.
func newLogProvider(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name != "gologger" && name != "console" {
		return nil, nil
	}
	format := cfg.Format
	if name == "console" && strings.TrimSpace(format) == "" {
		format = "console"
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     cfg.Level,
		Format:    format,
		AddSource: cfg.AddSource,
		Focus:     cfg.Focus,
	})
	if err != nil {
		return nil, err
	}
	return provider, nil
}

func buildProvider(cfg Config) (translate.Provider, error) {
	reliability := translate.DefaultReliabilityConfig()
	if cfg.Translation.CallTimeout > 0 {
		reliability.CallTimeout = cfg.Translation.CallTimeout
	}
	if cfg.Translation.MaxAttempts > 0 {
		reliability.MaxAttempts = cfg.Translation.MaxAttempts
	}
	if cfg.Translation.Backoff > 0 {
		reliability.Backoff = cfg.Translation.Backoff
	}
	if cfg.Translation.BreakerTimeout > 0 {
		reliability.Breaker.Timeout = cfg.Translation.BreakerTimeout
	}
	if threshold := cfg.Translation.BreakerThreshold; threshold > 0 {
		reliability.Breaker.ReadyToTrip = func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		}
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Translation.Provider)) {
	case "", "static":
		return translate.NewStaticProvider(), nil
	case "libretranslate":
		client, err := libretranslate.New(libretranslate.Config{
			BaseURL: cfg.Translation.Endpoint,
			APIKey:  cfg.Translation.APIKey,
		})
		if err != nil {
			return nil, err
		}
		return translate.NewReliableProvider(client, reliability), nil
	default:
		return nil, ErrProviderEndpointRequired
	}
}

// Catalog returns the content store used by the module.
func (m *Module) Catalog() Store {
	return m.store
}

// Settings returns the translation settings repository.
func (m *Module) Settings() settings.Repository {
	return m.settings
}

// Translator returns the configured translation service.
func (m *Module) Translator() *translate.Service {
	return m.translator
}

// WatchSettings keeps the translator current with settings changes for the
// lifetime of ctx. Long-running hosts call this once after construction;
// without it the translator reads settings from the repository on each pass.
func (m *Module) WatchSettings(ctx context.Context) error {
	return m.translator.WatchSettings(ctx)
}

// Coverage returns the configured coverage checker.
func (m *Module) Coverage() *coverage.Checker {
	return m.checker
}

// URLs returns the configured URL resolver.
func (m *Module) URLs() *urls.Resolver {
	return m.resolver
}

// Merge returns the localized view merger.
func (m *Module) Merge() *merge.Merger {
	return m.merger
}

// Commands returns the command handlers for dispatcher registration.
func (m *Module) Commands() Commands {
	return m.commands
}

// SourceLanguage returns the module's source language code.
func (m *Module) SourceLanguage() string {
	return string(i18n.Source())
}

// SupportedLanguages returns every language code in canonical order.
func (m *Module) SupportedLanguages() []string {
	supported := i18n.Supported()
	out := make([]string, len(supported))
	for idx, lang := range supported {
		out[idx] = string(lang)
	}
	return out
}

// TriggerTranslation runs one translation pass over the item and reports the
// outcome per target language. Empty languages means every configured target.
func (m *Module) TriggerTranslation(ctx context.Context, kind Kind, id uuid.UUID, languages []string, force bool) (map[string]TranslationOutcome, error) {
	return m.translator.EnsureTranslations(ctx, translate.EnsureRequest{
		Kind:      kind,
		ID:        id,
		Languages: languages,
		Force:     force,
	})
}

// CheckCoverage reports translation coverage for every item of the kind, or
// for all kinds when kind is empty. With onlyMissing set, items whose every
// language is covered are dropped from the report.
func (m *Module) CheckCoverage(ctx context.Context, kind Kind, languages []string, onlyMissing bool) ([]CoverageReport, error) {
	if onlyMissing {
		reports, err := m.checker.ItemsNeedingTranslation(ctx, languages)
		if err != nil {
			return nil, err
		}
		if kind == "" {
			return reports, nil
		}
		filtered := reports[:0]
		for _, report := range reports {
			if report.Kind == kind {
				filtered = append(filtered, report)
			}
		}
		return filtered, nil
	}

	kinds := catalog.Kinds()
	if kind != "" {
		kinds = []Kind{kind}
	}

	var reports []CoverageReport
	for _, k := range kinds {
		batch, err := m.checker.CheckBatch(ctx, k, languages)
		if err != nil {
			return nil, err
		}
		reports = append(reports, batch...)
	}
	return reports, nil
}

// CheckStatus reports, for each target language, whether a stored translation
// exists, how many fields it carries, when it changed, and whether it was
// machine generated.
func (m *Module) CheckStatus(ctx context.Context, kind Kind, id uuid.UUID) (map[string]LanguageStatus, error) {
	if !catalog.IsValidKind(kind) {
		return nil, catalog.ErrInvalidKind
	}

	records, err := m.store.ListTranslations(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	status := make(map[string]LanguageStatus, len(i18n.Targets()))
	for _, lang := range i18n.Targets() {
		status[string(lang)] = LanguageStatus{}
	}
	for _, record := range records {
		updated := record.UpdatedAt
		status[record.Language] = LanguageStatus{
			Exists:           true,
			IsAutoTranslated: record.IsAutoTranslated,
			FieldCount:       len(record.Fields),
			UpdatedAt:        &updated,
		}
	}
	return status, nil
}

// ResolveLocalizedURL returns the absolute URL for the item in the language.
func (m *Module) ResolveLocalizedURL(ctx context.Context, language string, kind Kind, slug string) (string, error) {
	return m.resolver.Resolve(ctx, language, string(kind), slug)
}

// GenerateHreflangAlternates returns the full alternate set for the item,
// every supported language plus the x-default entry.
func (m *Module) GenerateHreflangAlternates(ctx context.Context, kind Kind, slug string) ([]Alternate, error) {
	return m.resolver.HreflangSet(ctx, string(kind), slug)
}

// RegenerateURLs rebuilds persisted localized paths for the kind, or for all
// kinds when kind is empty. It returns the number of paths written. The
// resolver's compiled routes are discarded first so URL settings changed
// since the last resolution take effect.
func (m *Module) RegenerateURLs(ctx context.Context, kind Kind) (int, error) {
	m.resolver.Invalidate()
	kinds := catalog.Kinds()
	if kind != "" {
		kinds = []Kind{kind}
	}
	total := 0
	for _, k := range kinds {
		written, err := m.resolver.RegenerateAll(ctx, k)
		if err != nil {
			return total, err
		}
		total += written
	}
	return total, nil
}

// Sitemap renders the XML sitemap with hreflang alternates for the site's
// packages and blog posts.
func (m *Module) Sitemap(ctx context.Context) ([]byte, error) {
	return seo.GenerateSitemap(ctx, m.store, m.resolver, m.cfg.SiteURL)
}

// ImportMarkdown loads markdown documents under dir in the filesystem and
// imports them into the catalog, honouring the translate-on-import setting.
func (m *Module) ImportMarkdown(ctx context.Context, fsys fs.FS, dir string) (*ImportResult, error) {
	if !m.cfg.Features.Markdown {
		return nil, ErrMarkdownDisabled
	}

	loader := markdown.NewLoader(fsys, markdown.LoaderConfig{Pattern: m.cfg.Markdown.Pattern})
	docs, err := loader.LoadDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}

	importer, err := markdown.NewImporter(markdown.ImporterConfig{
		Store:      m.store,
		Settings:   m.settings,
		Translator: m.translator,
		Logger:     logging.ImportLogger(m.logProvider),
		Clock:      m.clock,
	})
	if err != nil {
		return nil, err
	}
	return importer.ImportDocuments(ctx, docs)
}

// NewCachedBunStore builds a bun-backed store whose repositories share one
// in-process cache layer. Hosts that manage their own cache can use
// catalog.NewBunStoreWithCache directly.
func NewCachedBunStore(db *bun.DB, ttl time.Duration) (Store, error) {
	cacheCfg := repocache.DefaultConfig()
	if ttl > 0 {
		cacheCfg.TTL = ttl
	}
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		return nil, err
	}
	return catalog.NewBunStoreWithCache(db, cacheService, repocache.NewDefaultKeySerializer()), nil
}
