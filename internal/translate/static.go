package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/wisatago/tourcms/internal/i18n"
)

// StaticProvider is an offline Provider that tags text with the target
// language instead of translating it. Useful for demos and tests: output is
// deterministic and visibly language-specific.
type StaticProvider struct{}

var _ Provider = (*StaticProvider)(nil)

// NewStaticProvider constructs the offline provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// Translate returns the text suffixed with the upper-cased target code,
// e.g. "Paket Bromo (EN)".
func (p *StaticProvider) Translate(ctx context.Context, text, _, to string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return fmt.Sprintf("%s (%s)", text, strings.ToUpper(to)), nil
}

// SupportedLanguages reports every configured language.
func (p *StaticProvider) SupportedLanguages(context.Context) ([]string, error) {
	supported := i18n.Supported()
	out := make([]string, 0, len(supported))
	for _, lang := range supported {
		out = append(out, string(lang))
	}
	return out, nil
}
