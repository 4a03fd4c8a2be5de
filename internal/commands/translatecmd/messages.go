package translatecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/wisatago/tourcms/internal/catalog"
)

const (
	triggerTranslationMessageType = "tourcms.translate.trigger"
	regenerateURLsMessageType     = "tourcms.urls.regenerate"
)

// TriggerTranslationCommand requests a translation pass for one catalog item.
// Empty Languages means every configured target language.
type TriggerTranslationCommand struct {
	// Kind names the catalog entity family (section, package, blog, testimonial, gallery).
	Kind string `json:"kind"`
	// ID selects the item within the kind.
	ID uuid.UUID `json:"id"`
	// Languages restricts the pass to specific target languages.
	Languages []string `json:"languages,omitempty"`
	// Force rewrites translations that already exist.
	Force bool `json:"force,omitempty"`
}

// Type implements command.Message.
func (TriggerTranslationCommand) Type() string { return triggerTranslationMessageType }

// Validate ensures the command targets a known kind and a concrete item.
func (cmd TriggerTranslationCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Kind, validation.Required, validation.By(validateKind)),
		validation.Field(&cmd.ID, validation.By(func(value any) error {
			if value.(uuid.UUID) == uuid.Nil {
				return validation.NewError("tourcms.translate.trigger.id_required", "item id is required")
			}
			return nil
		})),
	)
}

// RegenerateURLsCommand rebuilds the persisted localized paths for every item
// of one kind, or for all kinds when Kind is empty.
type RegenerateURLsCommand struct {
	// Kind restricts regeneration to one entity family. Empty means all kinds.
	Kind string `json:"kind,omitempty"`
}

// Type implements command.Message.
func (RegenerateURLsCommand) Type() string { return regenerateURLsMessageType }

// Validate accepts an empty kind and otherwise requires a known one.
func (cmd RegenerateURLsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Kind, validation.By(func(value any) error {
			raw := strings.TrimSpace(value.(string))
			if raw == "" {
				return nil
			}
			return validateKind(raw)
		})),
	)
}

func validateKind(value any) error {
	raw, _ := value.(string)
	kind := catalog.Kind(strings.ToLower(strings.TrimSpace(raw)))
	if !catalog.IsValidKind(kind) {
		return validation.NewError("tourcms.commands.kind_unknown", "unknown content kind")
	}
	return nil
}
