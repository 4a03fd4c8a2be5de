// Package translate drives the translation provider to fill per-language
// gaps in the catalog without duplicating work. Failures are isolated per
// field and per language; a partial pass always leaves a readable record.
package translate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wisatago/tourcms/internal/catalog"
	"github.com/wisatago/tourcms/internal/fieldmap"
	"github.com/wisatago/tourcms/internal/i18n"
	"github.com/wisatago/tourcms/internal/logging"
	"github.com/wisatago/tourcms/internal/settings"
	"github.com/wisatago/tourcms/pkg/interfaces"
)

var (
	ErrProviderRequired = errors.New("translate: provider is required")
	ErrStoreRequired    = errors.New("translate: store is required")
	ErrItemRequired     = errors.New("translate: item id is required")
	ErrSettingsRequired = errors.New("translate: settings repository is required")
)

// Status classifies the per-language result of an orchestration pass.
type Status string

const (
	// StatusTranslated means a record was written, possibly with some
	// fields falling back to the source value.
	StatusTranslated Status = "translated"
	// StatusSkipped means a record already existed and Force was not set.
	StatusSkipped Status = "skipped-existing"
	// StatusFailed means the provider produced no usable translation for the
	// language, or the record could not be written. A source-fallback record
	// may still exist.
	StatusFailed Status = "failed"
)

// Outcome is the per-language report returned to the caller. Partial
// provider failure still counts as StatusTranslated; the failed fields are
// listed and carry the source value in the record. When every attempted
// field fails the language as a whole is StatusFailed.
type Outcome struct {
	Status       Status
	FailedFields []string
	Err          error
}

// EnsureRequest asks for translations of one item into target languages.
// Empty Languages means every configured target.
type EnsureRequest struct {
	Kind      catalog.Kind
	ID        uuid.UUID
	Languages []string
	Force     bool
}

// Service orchestrates translation passes over the catalog.
type Service struct {
	store       catalog.Store
	provider    Provider
	settings    settings.Repository
	logger      interfaces.Logger
	now         func() time.Time
	concurrency int
	fetchWait   time.Duration

	snapMu   sync.RWMutex
	snapshot *settings.Settings
	watching bool
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*Service)

// WithLogger overrides the no-op logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithConcurrency bounds how many languages translate in parallel.
// Values below 1 mean sequential.
func WithConcurrency(workers int) ServiceOption {
	return func(s *Service) {
		if workers > 0 {
			s.concurrency = workers
		}
	}
}

// WithSettings consults persisted settings for the default target set and
// the global enable toggle.
func WithSettings(repo settings.Repository) ServiceOption {
	return func(s *Service) {
		s.settings = repo
	}
}

// WithItemFetchTimeout bounds the initial item read.
func WithItemFetchTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.fetchWait = d
		}
	}
}

// NewService constructs the orchestrator.
func NewService(store catalog.Store, provider Provider, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	svc := &Service{
		store:       store,
		provider:    provider,
		logger:      logging.TranslateLogger(nil),
		now:         time.Now,
		concurrency: 1,
		fetchWait:   10 * time.Second,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// EnsureTranslations runs one orchestration pass for the item. It returns a
// per-language outcome map; partial failure never surfaces as a hard error.
// Hard errors are reserved for a missing item, invalid languages, and
// request malformation.
func (s *Service) EnsureTranslations(ctx context.Context, req EnsureRequest) (map[string]Outcome, error) {
	if !catalog.IsValidKind(req.Kind) {
		return nil, catalog.ErrInvalidKind
	}
	if req.ID == uuid.Nil {
		return nil, ErrItemRequired
	}

	languages, err := s.targetLanguages(ctx, req.Languages)
	if err != nil {
		return nil, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchWait)
	item, err := s.store.GetItem(fetchCtx, req.Kind, req.ID)
	cancel()
	if err != nil {
		return nil, err
	}

	source := fieldmap.SourceFields(item)
	specs := fieldmap.Fields(req.Kind)

	outcomes := make(map[string]Outcome, len(languages))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.concurrency)

	for _, language := range languages {
		wg.Add(1)
		go func(lang i18n.Language) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcome := s.translateLanguage(ctx, item, specs, source, string(lang), req.Force)
			mu.Lock()
			outcomes[string(lang)] = outcome
			mu.Unlock()
		}(language)
	}
	wg.Wait()

	s.logger.Info("translation pass finished",
		"kind", string(req.Kind),
		"id", req.ID.String(),
		"languages", len(languages),
	)
	return outcomes, nil
}

// WatchSettings subscribes to settings change events and keeps a snapshot
// that target-language resolution reads instead of hitting the repository on
// every pass. It returns once the subscription is live; updates apply in the
// background until ctx is cancelled.
func (s *Service) WatchSettings(ctx context.Context) error {
	if s.settings == nil {
		return ErrSettingsRequired
	}
	events, err := s.settings.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("translate: subscribe settings: %w", err)
	}

	stored, err := s.settings.Get(ctx)
	switch {
	case err == nil:
		s.storeSnapshot(&stored)
	case errors.Is(err, settings.ErrSettingsNotFound):
		s.storeSnapshot(nil)
	default:
		return fmt.Errorf("translate: load settings: %w", err)
	}
	s.snapMu.Lock()
	s.watching = true
	s.snapMu.Unlock()

	go func() {
		for evt := range events {
			if evt.Type == settings.ChangeDeleted {
				s.storeSnapshot(nil)
			} else {
				snap := evt.Settings
				s.storeSnapshot(&snap)
			}
			s.logger.Debug("settings snapshot refreshed", "change", string(evt.Type))
		}
	}()
	return nil
}

func (s *Service) storeSnapshot(snap *settings.Settings) {
	s.snapMu.Lock()
	s.snapshot = snap
	s.snapMu.Unlock()
}

func (s *Service) targetLanguages(ctx context.Context, requested []string) ([]i18n.Language, error) {
	if len(requested) == 0 && s.settings != nil {
		s.snapMu.RLock()
		watching, snap := s.watching, s.snapshot
		s.snapMu.RUnlock()

		if watching {
			if snap != nil {
				requested = snap.TargetLanguages
			}
		} else {
			stored, err := s.settings.Get(ctx)
			switch {
			case err == nil:
				requested = stored.TargetLanguages
			case errors.Is(err, settings.ErrSettingsNotFound):
			default:
				return nil, fmt.Errorf("translate: load settings: %w", err)
			}
		}
	}
	return i18n.ValidateTargets(requested)
}

func (s *Service) translateLanguage(ctx context.Context, item catalog.Item, specs []fieldmap.FieldSpec, source map[string]string, language string, force bool) Outcome {
	if !force {
		_, err := s.store.GetTranslation(ctx, item.ItemKind(), item.ItemID(), language)
		switch {
		case err == nil:
			return Outcome{Status: StatusSkipped}
		case catalog.IsNotFound(err):
		default:
			return Outcome{Status: StatusFailed, Err: fmt.Errorf("translate: lookup existing record: %w", err)}
		}
	}

	fields := make(map[string]string, len(specs))
	var failed []string
	attempted := 0

	for _, spec := range specs {
		raw := source[spec.Name]
		if raw == "" {
			continue
		}

		var value string
		var fieldFailed bool
		if spec.Kind == fieldmap.ScalarText {
			value, fieldFailed = s.translateScalar(ctx, raw, language)
		} else {
			var absent bool
			value, fieldFailed, absent = s.translateStructured(ctx, item.ItemKind(), spec.Name, raw, language)
			if absent {
				continue
			}
		}
		fields[spec.Name] = value
		attempted++
		if fieldFailed {
			failed = append(failed, spec.Name)
			s.logger.Warn("field translation failed, keeping source value",
				"kind", string(item.ItemKind()),
				"id", item.ItemID().String(),
				"language", language,
				"field", spec.Name,
			)
		}
	}

	record := &catalog.TranslationRecord{
		Kind:             item.ItemKind(),
		EntityID:         item.ItemID(),
		Language:         language,
		Fields:           fields,
		IsAutoTranslated: true,
		UpdatedAt:        s.now().UTC(),
	}
	if _, err := s.store.UpsertTranslation(ctx, record); err != nil {
		return Outcome{Status: StatusFailed, FailedFields: failed, Err: fmt.Errorf("translate: upsert record: %w", err)}
	}
	// The record keeps source values for failed fields either way, but a
	// language where nothing translated is reported failed, not translated.
	if attempted > 0 && len(failed) == attempted {
		return Outcome{Status: StatusFailed, FailedFields: failed}
	}
	return Outcome{Status: StatusTranslated, FailedFields: failed}
}

// translateScalar translates one text value. On provider failure the source
// value is kept so the record field is never empty.
func (s *Service) translateScalar(ctx context.Context, text, language string) (string, bool) {
	translated, err := s.provider.Translate(ctx, text, string(i18n.Source()), language)
	if err != nil || translated == "" {
		return text, true
	}
	return translated, false
}

// translateStructured decodes the encoded field, translates each element's
// translatable sub-fields with per-call failure isolation, and re-encodes.
// A source blob that decodes to nothing is reported absent and the field is
// left out of the record entirely.
func (s *Service) translateStructured(ctx context.Context, kind catalog.Kind, field, raw, language string) (value string, failed, absent bool) {
	switch {
	case kind == catalog.KindPackage && field == "features":
		features := fieldmap.DecodeFeatures(raw)
		if len(features) == 0 {
			return "", false, true
		}
		for i := range features {
			features[i].Title, failed = s.translatePart(ctx, features[i].Title, language, failed)
			features[i].Description, failed = s.translatePart(ctx, features[i].Description, language, failed)
		}
		return fieldmap.EncodeFeatures(features), failed, false

	case kind == catalog.KindPackage && field == "itinerary":
		days := fieldmap.DecodeItinerary(raw)
		if len(days) == 0 {
			return "", false, true
		}
		for i := range days {
			days[i].Title, failed = s.translatePart(ctx, days[i].Title, language, failed)
			for j := range days[i].Activities {
				days[i].Activities[j], failed = s.translatePart(ctx, days[i].Activities[j], language, failed)
			}
		}
		return fieldmap.EncodeItinerary(days), failed, false

	case kind == catalog.KindPackage && field == "faqs":
		faqs := fieldmap.DecodeFAQs(raw)
		if len(faqs) == 0 {
			return "", false, true
		}
		for i := range faqs {
			faqs[i].Question, failed = s.translatePart(ctx, faqs[i].Question, language, failed)
			faqs[i].Answer, failed = s.translatePart(ctx, faqs[i].Answer, language, failed)
		}
		return fieldmap.EncodeFAQs(faqs), failed, false

	case kind == catalog.KindBlog && field == "tags":
		tags := fieldmap.DecodeTags(raw)
		if len(tags) == 0 {
			return "", false, true
		}
		for i := range tags {
			tags[i], failed = s.translatePart(ctx, tags[i], language, failed)
		}
		return fieldmap.EncodeTags(tags), failed, false

	default:
		// Unknown structured field; keep the raw blob untouched.
		return raw, false, false
	}
}

func (s *Service) translatePart(ctx context.Context, text, language string, alreadyFailed bool) (string, bool) {
	if text == "" {
		return "", alreadyFailed
	}
	translated, failed := s.translateScalar(ctx, text, language)
	return translated, alreadyFailed || failed
}
