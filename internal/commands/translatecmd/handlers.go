package translatecmd

import (
	"context"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/google/uuid"

	"github.com/wisatago/tourcms/internal/catalog"
	"github.com/wisatago/tourcms/internal/commands"
	"github.com/wisatago/tourcms/internal/logging"
	"github.com/wisatago/tourcms/internal/translate"
	"github.com/wisatago/tourcms/pkg/interfaces"
)

const (
	triggerOperation    = "translate.trigger"
	regenerateOperation = "urls.regenerate"
)

// TranslationService is the slice of the translate service the trigger handler needs.
type TranslationService interface {
	EnsureTranslations(ctx context.Context, req translate.EnsureRequest) (map[string]translate.Outcome, error)
}

// URLRegenerator is the slice of the URL resolver the regenerate handler needs.
type URLRegenerator interface {
	RegenerateAll(ctx context.Context, kind catalog.Kind) (int, error)
}

var (
	_ command.Commander[TriggerTranslationCommand] = (*TriggerTranslationHandler)(nil)
	_ command.Commander[RegenerateURLsCommand]     = (*RegenerateURLsHandler)(nil)
)

// TriggerTranslationHandler runs a translation pass through the shared command foundation.
type TriggerTranslationHandler struct {
	inner *commands.Handler[TriggerTranslationCommand]
}

// NewTriggerTranslationHandler creates a handler bound to the supplied translation service.
func NewTriggerTranslationHandler(service TranslationService, logger interfaces.Logger, opts ...commands.HandlerOption[TriggerTranslationCommand]) *TriggerTranslationHandler {
	if service == nil {
		panic("translatecmd: translation service cannot be nil")
	}
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg TriggerTranslationCommand) error {
		outcomes, err := service.EnsureTranslations(ctx, translate.EnsureRequest{
			Kind:      catalog.Kind(strings.ToLower(strings.TrimSpace(msg.Kind))),
			ID:        msg.ID,
			Languages: msg.Languages,
			Force:     msg.Force,
		})
		if err != nil {
			return err
		}

		var translated, skipped, failed int
		for _, outcome := range outcomes {
			switch outcome.Status {
			case translate.StatusTranslated:
				translated++
			case translate.StatusSkipped:
				skipped++
			case translate.StatusFailed:
				failed++
			}
		}
		logging.WithFields(baseLogger, map[string]any{
			"translated_count": translated,
			"skipped_count":    skipped,
			"failed_count":     failed,
			"force":            msg.Force,
		}).Info("translate.command.trigger.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[TriggerTranslationCommand]{
		commands.WithLogger[TriggerTranslationCommand](baseLogger),
		commands.WithOperation[TriggerTranslationCommand](triggerOperation),
		commands.WithMessageFields(func(msg TriggerTranslationCommand) map[string]any {
			fields := map[string]any{
				"kind": msg.Kind,
			}
			if msg.ID != uuid.Nil {
				fields["item_id"] = msg.ID
			}
			if len(msg.Languages) > 0 {
				fields["languages"] = strings.Join(msg.Languages, ",")
			}
			if msg.Force {
				fields["force"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &TriggerTranslationHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander.
func (h *TriggerTranslationHandler) Execute(ctx context.Context, msg TriggerTranslationCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RegenerateURLsHandler rebuilds localized paths through the shared command foundation.
type RegenerateURLsHandler struct {
	inner *commands.Handler[RegenerateURLsCommand]
}

// NewRegenerateURLsHandler creates a handler bound to the supplied URL regenerator.
func NewRegenerateURLsHandler(regenerator URLRegenerator, logger interfaces.Logger, opts ...commands.HandlerOption[RegenerateURLsCommand]) *RegenerateURLsHandler {
	if regenerator == nil {
		panic("translatecmd: url regenerator cannot be nil")
	}
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RegenerateURLsCommand) error {
		kinds := catalog.Kinds()
		if trimmed := strings.ToLower(strings.TrimSpace(msg.Kind)); trimmed != "" {
			kinds = []catalog.Kind{catalog.Kind(trimmed)}
		}

		total := 0
		for _, kind := range kinds {
			written, err := regenerator.RegenerateAll(ctx, kind)
			if err != nil {
				return err
			}
			total += written
		}
		logging.WithFields(baseLogger, map[string]any{
			"paths_written": total,
			"kind_count":    len(kinds),
		}).Info("urls.command.regenerate.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RegenerateURLsCommand]{
		commands.WithLogger[RegenerateURLsCommand](baseLogger),
		commands.WithOperation[RegenerateURLsCommand](regenerateOperation),
		commands.WithMessageFields(func(msg RegenerateURLsCommand) map[string]any {
			fields := map[string]any{}
			if msg.Kind != "" {
				fields["kind"] = msg.Kind
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RegenerateURLsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute implements command.Commander.
func (h *RegenerateURLsHandler) Execute(ctx context.Context, msg RegenerateURLsCommand) error {
	return h.inner.Execute(ctx, msg)
}
