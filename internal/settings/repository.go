// Package settings persists runtime translation orchestration settings:
// whether auto-translation runs at all, which target languages it covers,
// and whether content import triggers it. Subscribers are notified on
// change so long-lived components can refresh without polling.
package settings

import (
	"context"
	"errors"
	"slices"
)

// ErrSettingsNotFound indicates that translation settings have not been
// configured yet; callers fall back to their configured defaults.
var ErrSettingsNotFound = errors.New("settings: translation settings not found")

// Settings capture runtime translation orchestration toggles.
type Settings struct {
	// AutoTranslateEnabled gates the orchestrator globally.
	AutoTranslateEnabled bool
	// TargetLanguages overrides the configured target set when non-empty.
	TargetLanguages []string
	// TranslateOnImport runs the orchestrator after markdown import.
	TranslateOnImport bool
}

// Equal reports whether two settings values are identical.
func (s Settings) Equal(other Settings) bool {
	return s.AutoTranslateEnabled == other.AutoTranslateEnabled &&
		s.TranslateOnImport == other.TranslateOnImport &&
		slices.Equal(s.TargetLanguages, other.TargetLanguages)
}

// Repository persists translation settings and emits change notifications.
type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Upsert(ctx context.Context, settings Settings) (Settings, error)
	Delete(ctx context.Context) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates settings change events.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports settings mutations to interested subscribers.
type ChangeEvent struct {
	Type     ChangeType
	Settings Settings
}

func newChangeEvent(changeType ChangeType, settings Settings) ChangeEvent {
	return ChangeEvent{
		Type:     changeType,
		Settings: settings,
	}
}
