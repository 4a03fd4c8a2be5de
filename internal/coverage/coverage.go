// Package coverage derives per-language translation state for catalog
// items. Snapshots are computed on demand and never persisted.
package coverage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wisatago/tourcms/internal/catalog"
	"github.com/wisatago/tourcms/internal/fieldmap"
	"github.com/wisatago/tourcms/internal/i18n"
	"github.com/wisatago/tourcms/internal/logging"
	"github.com/wisatago/tourcms/pkg/interfaces"
)

// State classifies one item/language pair.
type State string

const (
	// StateSourcePresent applies to the source language of an existing item.
	StateSourcePresent State = "source-present"
	// StateComplete means every populated source field has a translation.
	StateComplete State = "translated-complete"
	// StatePartial means some but not all fields are covered.
	StatePartial State = "translated-partial"
	// StateMissing means no translation record exists.
	StateMissing State = "missing"
	// StateStale means the source changed after the record was written.
	// Reporting only; it does not make a non-forced pass re-translate.
	StateStale State = "stale"
	// StateError means the store failed for this pair; see Snapshot.Err.
	StateError State = "error"
)

// Snapshot is the derived coverage view for one item/language pair.
type Snapshot struct {
	State         State
	MissingFields []string
	UpdatedAt     time.Time
	AutoFlag      bool
	Err           error
}

// ErrItemRequired rejects checks without an item.
var ErrItemRequired = errors.New("coverage: item is required")

// Checker computes coverage snapshots from the content store.
type Checker struct {
	store  catalog.Store
	logger interfaces.Logger
}

// Option configures the checker.
type Option func(*Checker)

// WithLogger overrides the no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewChecker constructs a coverage checker.
func NewChecker(store catalog.Store, opts ...Option) (*Checker, error) {
	if store == nil {
		return nil, errors.New("coverage: store is required")
	}
	checker := &Checker{
		store:  store,
		logger: logging.CoverageLogger(nil),
	}
	for _, opt := range opts {
		opt(checker)
	}
	return checker, nil
}

// CheckItem classifies the item for each requested language. Languages may
// include the source language; an empty list means every supported
// language.
func (c *Checker) CheckItem(ctx context.Context, item catalog.Item, languages []string) (map[string]Snapshot, error) {
	if item == nil {
		return nil, ErrItemRequired
	}

	checked, err := resolveLanguages(languages)
	if err != nil {
		return nil, err
	}

	source := fieldmap.SourceFields(item)
	specs := fieldmap.Fields(item.ItemKind())

	out := make(map[string]Snapshot, len(checked))
	for _, lang := range checked {
		if lang == i18n.Source() {
			out[string(lang)] = Snapshot{State: StateSourcePresent}
			continue
		}
		out[string(lang)] = c.checkLanguage(ctx, item, specs, source, string(lang))
	}
	return out, nil
}

func (c *Checker) checkLanguage(ctx context.Context, item catalog.Item, specs []fieldmap.FieldSpec, source map[string]string, language string) Snapshot {
	record, err := c.store.GetTranslation(ctx, item.ItemKind(), item.ItemID(), language)
	if err != nil {
		if catalog.IsNotFound(err) {
			if populatedFields(specs, source) == 0 {
				// Nothing to translate: vacuously complete without a record.
				return Snapshot{State: StateComplete}
			}
			return Snapshot{State: StateMissing, MissingFields: missingAgainst(specs, source, nil)}
		}
		return Snapshot{State: StateError, Err: err}
	}

	missing := missingAgainst(specs, source, record.Fields)
	snapshot := Snapshot{
		MissingFields: missing,
		UpdatedAt:     record.UpdatedAt,
		AutoFlag:      record.IsAutoTranslated,
	}
	switch {
	case len(missing) == populatedFields(specs, source) && len(missing) > 0:
		snapshot.State = StateMissing
	case len(missing) > 0:
		snapshot.State = StatePartial
	case record.UpdatedAt.Before(item.ItemUpdatedAt()):
		snapshot.State = StateStale
	default:
		snapshot.State = StateComplete
	}
	return snapshot
}

// missingAgainst lists populated source fields that the record does not
// cover. A structured field counts as covered only when the stored text
// decodes to a non-empty sequence.
func missingAgainst(specs []fieldmap.FieldSpec, source, translated map[string]string) []string {
	var missing []string
	for _, spec := range specs {
		raw := source[spec.Name]
		if raw == "" {
			continue
		}
		if spec.Kind == fieldmap.EncodedStructure && structuredLen(spec.Name, raw) == 0 {
			// Malformed source decodes to nothing; there is nothing to cover.
			continue
		}
		value, ok := translated[spec.Name]
		if !ok || value == "" {
			missing = append(missing, spec.Name)
			continue
		}
		if spec.Kind == fieldmap.EncodedStructure && structuredLen(spec.Name, value) == 0 {
			missing = append(missing, spec.Name)
		}
	}
	return missing
}

func populatedFields(specs []fieldmap.FieldSpec, source map[string]string) int {
	count := 0
	for _, spec := range specs {
		raw := source[spec.Name]
		if raw == "" {
			continue
		}
		if spec.Kind == fieldmap.EncodedStructure && structuredLen(spec.Name, raw) == 0 {
			continue
		}
		count++
	}
	return count
}

func structuredLen(field, raw string) int {
	switch field {
	case "features":
		return len(fieldmap.DecodeFeatures(raw))
	case "itinerary":
		return len(fieldmap.DecodeItinerary(raw))
	case "faqs":
		return len(fieldmap.DecodeFAQs(raw))
	case "tags":
		return len(fieldmap.DecodeTags(raw))
	default:
		return 0
	}
}

// ItemReport pairs one item with its per-language snapshots.
type ItemReport struct {
	Kind      catalog.Kind
	ID        uuid.UUID
	Slug      string
	Languages map[string]Snapshot
}

// CheckBatch classifies every item of the kind. A failing item yields an
// error snapshot for each language and the batch continues.
func (c *Checker) CheckBatch(ctx context.Context, kind catalog.Kind, languages []string) ([]ItemReport, error) {
	items, err := c.store.ListItems(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("coverage: list %s items: %w", kind, err)
	}

	checked, err := resolveLanguages(languages)
	if err != nil {
		return nil, err
	}

	reports := make([]ItemReport, 0, len(items))
	for _, item := range items {
		report := ItemReport{
			Kind: kind,
			ID:   item.ItemID(),
			Slug: item.ItemSlug(),
		}
		snapshots, err := c.CheckItem(ctx, item, languages)
		if err != nil {
			c.logger.Warn("coverage check failed for item",
				"kind", string(kind),
				"id", item.ItemID().String(),
				"error", err,
			)
			snapshots = make(map[string]Snapshot, len(checked))
			for _, lang := range checked {
				snapshots[string(lang)] = Snapshot{State: StateError, Err: err}
			}
		}
		report.Languages = snapshots
		reports = append(reports, report)
	}
	return reports, nil
}

// ItemsNeedingTranslation reports, across all kinds, the items whose
// coverage is not complete for at least one of the target languages. It is
// a pure read for operator dashboards and batch triggers.
func (c *Checker) ItemsNeedingTranslation(ctx context.Context, languages []string) ([]ItemReport, error) {
	if len(languages) == 0 {
		targets := i18n.Targets()
		languages = make([]string, 0, len(targets))
		for _, lang := range targets {
			languages = append(languages, string(lang))
		}
	}

	var needing []ItemReport
	for _, kind := range catalog.Kinds() {
		reports, err := c.CheckBatch(ctx, kind, languages)
		if err != nil {
			return nil, err
		}
		for _, report := range reports {
			if needsTranslation(report) {
				needing = append(needing, report)
			}
		}
	}
	return needing, nil
}

func needsTranslation(report ItemReport) bool {
	for _, snapshot := range report.Languages {
		switch snapshot.State {
		case StateMissing, StatePartial, StateStale:
			return true
		}
	}
	return false
}

func resolveLanguages(languages []string) ([]i18n.Language, error) {
	if len(languages) == 0 {
		return i18n.Supported(), nil
	}
	out := make([]i18n.Language, 0, len(languages))
	for _, raw := range languages {
		lang, err := i18n.Normalize(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, lang)
	}
	return out, nil
}
