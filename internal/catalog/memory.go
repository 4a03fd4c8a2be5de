package catalog

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wisatago/tourcms/internal/identity"
)

type itemKey struct {
	kind Kind
	id   uuid.UUID
}

// MemoryStore is an in-memory Store implementation for tests and store-less
// embedding. All reads return clones so callers cannot mutate stored state.
type MemoryStore struct {
	mu           sync.RWMutex
	items        map[itemKey]Item
	translations map[uuid.UUID]*TranslationRecord
	settings     map[Kind]*URLSetting
	paths        map[uuid.UUID]*LocalizedPath
	now          func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory content store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:        make(map[itemKey]Item),
		translations: make(map[uuid.UUID]*TranslationRecord),
		settings:     make(map[Kind]*URLSetting),
		paths:        make(map[uuid.UUID]*LocalizedPath),
		now:          time.Now,
	}
}

// WithClock overrides the clock used to stamp upserts. Test helper.
func (m *MemoryStore) WithClock(clock func() time.Time) *MemoryStore {
	if clock != nil {
		m.now = clock
	}
	return m
}

// GetItem retrieves one item by kind and identifier.
func (m *MemoryStore) GetItem(_ context.Context, kind Kind, id uuid.UUID) (Item, error) {
	if !IsValidKind(kind) {
		return nil, ErrInvalidKind
	}
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.items[itemKey{kind: kind, id: id}]
	if !ok {
		return nil, &NotFoundError{Resource: string(kind), Key: id.String()}
	}
	return cloneItem(item), nil
}

// GetItemBySlug retrieves a sluggable item, or a section by key.
func (m *MemoryStore) GetItemBySlug(_ context.Context, kind Kind, slug string) (Item, error) {
	if !IsValidKind(kind) {
		return nil, ErrInvalidKind
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for key, item := range m.items {
		if key.kind != kind {
			continue
		}
		if section, ok := item.(*Section); ok && section.Key == slug {
			return cloneItem(item), nil
		}
		if item.ItemSlug() != "" && item.ItemSlug() == slug {
			return cloneItem(item), nil
		}
	}
	return nil, &NotFoundError{Resource: string(kind), Key: slug}
}

// ListItems returns every item of the kind, ordered by id for determinism.
func (m *MemoryStore) ListItems(_ context.Context, kind Kind) ([]Item, error) {
	if !IsValidKind(kind) {
		return nil, ErrInvalidKind
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Item, 0)
	for key, item := range m.items {
		if key.kind == kind {
			out = append(out, cloneItem(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ItemID().String() < out[j].ItemID().String()
	})
	return out, nil
}

// SaveItem inserts or replaces an item.
func (m *MemoryStore) SaveItem(_ context.Context, item Item) (Item, error) {
	if item == nil || item.ItemID() == uuid.Nil {
		return nil, ErrIDRequired
	}
	if !IsValidKind(item.ItemKind()) {
		return nil, ErrInvalidKind
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneItem(item)
	m.items[itemKey{kind: item.ItemKind(), id: item.ItemID()}] = copied
	return cloneItem(copied), nil
}

// DeleteItem removes the item, its translations, and its localized paths.
func (m *MemoryStore) DeleteItem(_ context.Context, kind Kind, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := itemKey{kind: kind, id: id}
	if _, ok := m.items[key]; !ok {
		return &NotFoundError{Resource: string(kind), Key: id.String()}
	}
	delete(m.items, key)
	for recID, rec := range m.translations {
		if rec.Kind == kind && rec.EntityID == id {
			delete(m.translations, recID)
		}
	}
	for pathID, path := range m.paths {
		if path.Kind == kind && path.EntityID == id {
			delete(m.paths, pathID)
		}
	}
	return nil
}

// GetTranslation returns the record for (kind, entity, language).
func (m *MemoryStore) GetTranslation(_ context.Context, kind Kind, entityID uuid.UUID, language string) (*TranslationRecord, error) {
	if err := validateTranslationKey(kind, entityID, language); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.translations[identity.TranslationUUID(string(kind), entityID, language)]
	if !ok {
		return nil, &NotFoundError{
			Resource: "translation",
			Key:      fmt.Sprintf("%s/%s/%s", kind, entityID, language),
		}
	}
	return cloneTranslation(rec), nil
}

// ListTranslations returns every record for the entity ordered by language.
func (m *MemoryStore) ListTranslations(_ context.Context, kind Kind, entityID uuid.UUID) ([]*TranslationRecord, error) {
	if entityID == uuid.Nil {
		return nil, ErrIDRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*TranslationRecord, 0)
	for _, rec := range m.translations {
		if rec.Kind == kind && rec.EntityID == entityID {
			out = append(out, cloneTranslation(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Language < out[j].Language })
	return out, nil
}

// UpsertTranslation replaces the whole record under the store lock, so a
// concurrent reader sees either the prior record or the new one.
func (m *MemoryStore) UpsertTranslation(_ context.Context, record *TranslationRecord) (*TranslationRecord, error) {
	if record == nil {
		return nil, ErrIDRequired
	}
	if err := validateTranslationKey(record.Kind, record.EntityID, record.Language); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
	copied := cloneTranslation(record)
	copied.ID = identity.TranslationUUID(string(record.Kind), record.EntityID, record.Language)
	if existing, ok := m.translations[copied.ID]; ok {
		copied.CreatedAt = existing.CreatedAt
	} else if copied.CreatedAt.IsZero() {
		copied.CreatedAt = now
	}
	copied.UpdatedAt = now
	m.translations[copied.ID] = copied
	return cloneTranslation(copied), nil
}

// CountTranslations reports how many language records exist for the entity.
func (m *MemoryStore) CountTranslations(_ context.Context, kind Kind, entityID uuid.UUID) (int, error) {
	if entityID == uuid.Nil {
		return 0, ErrIDRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, rec := range m.translations {
		if rec.Kind == kind && rec.EntityID == entityID {
			count++
		}
	}
	return count, nil
}

// DeleteTranslations removes every record for the entity.
func (m *MemoryStore) DeleteTranslations(_ context.Context, kind Kind, entityID uuid.UUID) error {
	if entityID == uuid.Nil {
		return ErrIDRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for recID, rec := range m.translations {
		if rec.Kind == kind && rec.EntityID == entityID {
			delete(m.translations, recID)
		}
	}
	return nil
}

// GetURLSetting returns the localized URL settings for a kind.
func (m *MemoryStore) GetURLSetting(_ context.Context, kind Kind) (*URLSetting, error) {
	if !IsValidKind(kind) {
		return nil, ErrInvalidKind
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	setting, ok := m.settings[kind]
	if !ok {
		return nil, &NotFoundError{Resource: "url_setting", Key: string(kind)}
	}
	return cloneURLSetting(setting), nil
}

// UpsertURLSetting writes per-kind URL settings.
func (m *MemoryStore) UpsertURLSetting(_ context.Context, setting *URLSetting) (*URLSetting, error) {
	if setting == nil || !IsValidKind(setting.Kind) {
		return nil, ErrInvalidKind
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneURLSetting(setting)
	copied.ID = identity.URLSettingUUID(string(setting.Kind))
	copied.UpdatedAt = m.now().UTC()
	m.settings[setting.Kind] = copied
	return cloneURLSetting(copied), nil
}

// UpsertLocalizedPath writes one resolved path row.
func (m *MemoryStore) UpsertLocalizedPath(_ context.Context, path *LocalizedPath) (*LocalizedPath, error) {
	if path == nil {
		return nil, ErrIDRequired
	}
	if err := validateTranslationKey(path.Kind, path.EntityID, path.Language); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *path
	copied.ID = identity.LocalizedPathUUID(string(path.Kind), path.EntityID, path.Language)
	copied.UpdatedAt = m.now().UTC()
	m.paths[copied.ID] = &copied
	result := copied
	return &result, nil
}

// ListLocalizedPaths returns persisted paths for one entity.
func (m *MemoryStore) ListLocalizedPaths(_ context.Context, kind Kind, entityID uuid.UUID) ([]*LocalizedPath, error) {
	if entityID == uuid.Nil {
		return nil, ErrIDRequired
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*LocalizedPath, 0)
	for _, path := range m.paths {
		if path.Kind == kind && path.EntityID == entityID {
			copied := *path
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Language < out[j].Language })
	return out, nil
}

// DeleteLocalizedPaths removes persisted paths for one entity.
func (m *MemoryStore) DeleteLocalizedPaths(_ context.Context, kind Kind, entityID uuid.UUID) error {
	if entityID == uuid.Nil {
		return ErrIDRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for pathID, path := range m.paths {
		if path.Kind == kind && path.EntityID == entityID {
			delete(m.paths, pathID)
		}
	}
	return nil
}

func cloneItem(item Item) Item {
	switch typed := item.(type) {
	case *Section:
		copied := *typed
		return &copied
	case *TravelPackage:
		copied := *typed
		return &copied
	case *BlogPost:
		copied := *typed
		if typed.PublishedAt != nil {
			published := *typed.PublishedAt
			copied.PublishedAt = &published
		}
		return &copied
	case *Testimonial:
		copied := *typed
		return &copied
	case *GalleryItem:
		copied := *typed
		return &copied
	default:
		return item
	}
}

func cloneTranslation(src *TranslationRecord) *TranslationRecord {
	if src == nil {
		return nil
	}
	copied := *src
	if src.Fields != nil {
		copied.Fields = make(map[string]string, len(src.Fields))
		maps.Copy(copied.Fields, src.Fields)
	}
	return &copied
}

func cloneURLSetting(src *URLSetting) *URLSetting {
	if src == nil {
		return nil
	}
	copied := *src
	if src.Segments != nil {
		copied.Segments = make(map[string]string, len(src.Segments))
		maps.Copy(copied.Segments, src.Segments)
	}
	if src.Patterns != nil {
		copied.Patterns = make(map[string]string, len(src.Patterns))
		maps.Copy(copied.Patterns, src.Patterns)
	}
	return &copied
}
