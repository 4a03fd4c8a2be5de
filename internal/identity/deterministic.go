package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// TranslationUUID derives the composite key for a translation record.
// One (kind, entity, language) triple always maps to the same row, which is
// what makes the upsert path collision-free by construction.
func TranslationUUID(kind string, entityID uuid.UUID, language string) uuid.UUID {
	return UUID("tourcms:translation:" + strings.ToLower(strings.TrimSpace(kind)) + ":" +
		entityID.String() + ":" + strings.ToLower(strings.TrimSpace(language)))
}

// URLSettingUUID derives the key for per-kind localized URL settings.
func URLSettingUUID(kind string) uuid.UUID {
	return UUID("tourcms:url_setting:" + strings.ToLower(strings.TrimSpace(kind)))
}

// LocalizedPathUUID derives the key for a persisted localized path row.
func LocalizedPathUUID(kind string, entityID uuid.UUID, language string) uuid.UUID {
	return UUID("tourcms:localized_path:" + strings.ToLower(strings.TrimSpace(kind)) + ":" +
		entityID.String() + ":" + strings.ToLower(strings.TrimSpace(language)))
}

// ItemUUID derives a stable identifier for imported content keyed by slug.
func ItemUUID(kind, slug string) uuid.UUID {
	return UUID("tourcms:item:" + strings.ToLower(strings.TrimSpace(kind)) + ":" +
		strings.ToLower(strings.TrimSpace(slug)))
}
