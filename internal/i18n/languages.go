// Package i18n defines the language set served by the site and the canonical
// ordering used for hreflang and sitemap emission.
package i18n

import (
	"errors"
	"fmt"
	"strings"
)

// Language is an ISO 639-1 language code supported by the site.
type Language string

const (
	// LanguageIndonesian is the source language. Content is authored in it;
	// it is never a translation target.
	LanguageIndonesian Language = "id"
	LanguageEnglish    Language = "en"
	LanguageGerman     Language = "de"
	LanguageDutch      Language = "nl"
	LanguageChinese    Language = "zh"
)

// XDefault is the language-neutral hreflang entry pointing at the
// source-language URL.
const XDefault = "x-default"

// ErrUnknownLanguage indicates a language code outside the supported set.
var ErrUnknownLanguage = errors.New("i18n: unknown language")

// ErrSourceLanguageTarget indicates the source language was requested as a
// translation target.
var ErrSourceLanguageTarget = errors.New("i18n: source language is not a translation target")

// Source returns the source language.
func Source() Language {
	return LanguageIndonesian
}

// Supported returns every supported language in canonical order, source first.
// The slice is a fresh copy; callers may mutate it.
func Supported() []Language {
	return []Language{
		LanguageIndonesian,
		LanguageEnglish,
		LanguageGerman,
		LanguageDutch,
		LanguageChinese,
	}
}

// Targets returns the translation target languages in canonical order.
func Targets() []Language {
	return []Language{
		LanguageEnglish,
		LanguageGerman,
		LanguageDutch,
		LanguageChinese,
	}
}

// Normalize lowercases and trims a raw code, returning ErrUnknownLanguage for
// anything outside the supported set.
func Normalize(raw string) (Language, error) {
	code := Language(strings.ToLower(strings.TrimSpace(raw)))
	for _, lang := range Supported() {
		if lang == code {
			return lang, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, raw)
}

// IsSupported reports whether the code belongs to the supported set.
func IsSupported(lang Language) bool {
	for _, candidate := range Supported() {
		if candidate == lang {
			return true
		}
	}
	return false
}

// IsTarget reports whether the language is a valid translation target.
func IsTarget(lang Language) bool {
	return IsSupported(lang) && lang != Source()
}

// ValidateTargets normalizes and deduplicates a requested target set,
// preserving canonical order. An empty request yields every target.
func ValidateTargets(raw []string) ([]Language, error) {
	if len(raw) == 0 {
		return Targets(), nil
	}

	requested := make(map[Language]struct{}, len(raw))
	for _, code := range raw {
		lang, err := Normalize(code)
		if err != nil {
			return nil, err
		}
		if lang == Source() {
			return nil, fmt.Errorf("%w: %q", ErrSourceLanguageTarget, code)
		}
		requested[lang] = struct{}{}
	}

	out := make([]Language, 0, len(requested))
	for _, lang := range Targets() {
		if _, ok := requested[lang]; ok {
			out = append(out, lang)
		}
	}
	return out, nil
}
