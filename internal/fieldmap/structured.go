package fieldmap

import (
	"encoding/json"
	"strings"
)

// Feature is one selling point of a travel package.
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ItineraryDay is one day of a package itinerary. Day is a 1-based ordinal
// and is not translatable.
type ItineraryDay struct {
	Day        int      `json:"day"`
	Title      string   `json:"title"`
	Activities []string `json:"activities,omitempty"`
}

// FAQ is one question/answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// DecodeFeatures parses an encoded feature list. Malformed or empty input
// yields an empty slice, never an error; stored content may be hand-edited.
func DecodeFeatures(raw string) []Feature {
	return decodeSlice[Feature](raw)
}

// EncodeFeatures serializes a feature list. An empty list encodes to "".
func EncodeFeatures(features []Feature) string {
	return encodeSlice(features)
}

// DecodeItinerary parses an encoded itinerary. Tolerant of malformed input.
func DecodeItinerary(raw string) []ItineraryDay {
	return decodeSlice[ItineraryDay](raw)
}

// EncodeItinerary serializes an itinerary. An empty list encodes to "".
func EncodeItinerary(days []ItineraryDay) string {
	return encodeSlice(days)
}

// DecodeFAQs parses an encoded FAQ list. Tolerant of malformed input.
func DecodeFAQs(raw string) []FAQ {
	return decodeSlice[FAQ](raw)
}

// EncodeFAQs serializes a FAQ list. An empty list encodes to "".
func EncodeFAQs(faqs []FAQ) string {
	return encodeSlice(faqs)
}

// DecodeTags parses an encoded tag list. Tolerant of malformed input.
func DecodeTags(raw string) []string {
	return decodeSlice[string](raw)
}

// EncodeTags serializes a tag list. An empty list encodes to "".
func EncodeTags(tags []string) string {
	return encodeSlice(tags)
}

func decodeSlice[T any](raw string) []T {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return []T{}
	}
	if out == nil {
		return []T{}
	}
	return out
}

func encodeSlice[T any](values []T) string {
	if len(values) == 0 {
		return ""
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(encoded)
}
