package commands

import (
	"strings"

	"github.com/wisatago/tourcms/internal/logging"
	"github.com/wisatago/tourcms/pkg/interfaces"
)

const commandModuleRoot = "tourcms.commands"

// CommandLogger returns a module-scoped logger for command handlers, enriching it
// with consistent structured fields so executions show up under one component.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
