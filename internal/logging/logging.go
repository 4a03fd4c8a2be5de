package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/wisatago/tourcms/pkg/interfaces"
)

const (
	rootModule      = "tourcms"
	catalogModule   = "tourcms.catalog"
	translateModule = "tourcms.translate"
	coverageModule  = "tourcms.coverage"
	urlsModule      = "tourcms.urls"
	mergeModule     = "tourcms.merge"
	importModule    = "tourcms.import"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if strings.TrimSpace(module) == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{"module": module})
}

// CatalogLogger returns the logger namespace reserved for the content store.
func CatalogLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, catalogModule)
}

// TranslateLogger returns the logger namespace reserved for orchestration.
func TranslateLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, translateModule)
}

// CoverageLogger returns the logger namespace reserved for coverage checks.
func CoverageLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, coverageModule)
}

// URLsLogger returns the logger namespace reserved for URL resolution.
func URLsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, urlsModule)
}

// MergeLogger returns the logger namespace reserved for read-time merging.
func MergeLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mergeModule)
}

// ImportLogger returns the logger namespace reserved for markdown import.
func ImportLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, importModule)
}

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension. Callers can pass nil or an
// empty map to skip allocation safely.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}

	return logger
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
