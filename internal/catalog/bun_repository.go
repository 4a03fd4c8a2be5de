package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/wisatago/tourcms/internal/identity"
)

// BunStore implements Store on top of a Bun-backed database.
type BunStore struct {
	db *bun.DB

	sections     repository.Repository[*Section]
	packages     repository.Repository[*TravelPackage]
	blogs        repository.Repository[*BlogPost]
	testimonials repository.Repository[*Testimonial]
	gallery      repository.Repository[*GalleryItem]

	now func() time.Time
}

var _ Store = (*BunStore)(nil)

// NewBunStore constructs a Bun-backed content store.
func NewBunStore(db *bun.DB) *BunStore {
	return NewBunStoreWithCache(db, nil, nil)
}

// NewBunStoreWithCache constructs a Bun-backed content store whose item
// repositories are wrapped with the supplied cache service. Item and
// translation reads sit on every public page render, so the cache absorbs
// the hot path; writes go straight to the database.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunStore {
	return &BunStore{
		db:           db,
		sections:     wrapWithCache(NewSectionRepository(db), cacheService, keySerializer),
		packages:     wrapWithCache(NewTravelPackageRepository(db), cacheService, keySerializer),
		blogs:        wrapWithCache(NewBlogPostRepository(db), cacheService, keySerializer),
		testimonials: wrapWithCache(NewTestimonialRepository(db), cacheService, keySerializer),
		gallery:      wrapWithCache(NewGalleryItemRepository(db), cacheService, keySerializer),
		now:          time.Now,
	}
}

// GetItem fetches one source item by kind and identifier.
func (s *BunStore) GetItem(ctx context.Context, kind Kind, id uuid.UUID) (Item, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	switch kind {
	case KindSection:
		rec, err := s.sections.GetByID(ctx, id.String())
		return itemOrError(rec, err, kind, id.String())
	case KindPackage:
		rec, err := s.packages.GetByID(ctx, id.String())
		return itemOrError(rec, err, kind, id.String())
	case KindBlog:
		rec, err := s.blogs.GetByID(ctx, id.String())
		return itemOrError(rec, err, kind, id.String())
	case KindTestimonial:
		rec, err := s.testimonials.GetByID(ctx, id.String())
		return itemOrError(rec, err, kind, id.String())
	case KindGallery:
		rec, err := s.gallery.GetByID(ctx, id.String())
		return itemOrError(rec, err, kind, id.String())
	default:
		return nil, ErrInvalidKind
	}
}

// GetItemBySlug fetches a sluggable item (package, blog) or a section by key.
func (s *BunStore) GetItemBySlug(ctx context.Context, kind Kind, slug string) (Item, error) {
	switch kind {
	case KindSection:
		rec, err := s.sections.GetByIdentifier(ctx, slug)
		return itemOrError(rec, err, kind, slug)
	case KindPackage:
		rec, err := s.packages.GetByIdentifier(ctx, slug)
		return itemOrError(rec, err, kind, slug)
	case KindBlog:
		rec, err := s.blogs.GetByIdentifier(ctx, slug)
		return itemOrError(rec, err, kind, slug)
	case KindTestimonial, KindGallery:
		return nil, &NotFoundError{Resource: string(kind), Key: slug}
	default:
		return nil, ErrInvalidKind
	}
}

// ListItems returns every item of the kind.
func (s *BunStore) ListItems(ctx context.Context, kind Kind) ([]Item, error) {
	switch kind {
	case KindSection:
		records, _, err := s.sections.List(ctx)
		return itemsOrError(records, err, kind)
	case KindPackage:
		records, _, err := s.packages.List(ctx)
		return itemsOrError(records, err, kind)
	case KindBlog:
		records, _, err := s.blogs.List(ctx)
		return itemsOrError(records, err, kind)
	case KindTestimonial:
		records, _, err := s.testimonials.List(ctx)
		return itemsOrError(records, err, kind)
	case KindGallery:
		records, _, err := s.gallery.List(ctx)
		return itemsOrError(records, err, kind)
	default:
		return nil, ErrInvalidKind
	}
}

// SaveItem inserts or replaces a source item by primary key.
func (s *BunStore) SaveItem(ctx context.Context, item Item) (Item, error) {
	if item == nil || item.ItemID() == uuid.Nil {
		return nil, ErrIDRequired
	}
	if !IsValidKind(item.ItemKind()) {
		return nil, ErrInvalidKind
	}

	exists, err := s.db.NewSelect().
		Model(item).
		WherePK().
		Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s save: %w", item.ItemKind(), err)
	}

	if exists {
		if _, err := s.db.NewUpdate().Model(item).WherePK().Exec(ctx); err != nil {
			return nil, fmt.Errorf("%s update: %w", item.ItemKind(), err)
		}
		return item, nil
	}
	if _, err := s.db.NewInsert().Model(item).Exec(ctx); err != nil {
		return nil, fmt.Errorf("%s insert: %w", item.ItemKind(), err)
	}
	return item, nil
}

// DeleteItem removes the item and cascades its translations and localized
// paths in one transaction.
func (s *BunStore) DeleteItem(ctx context.Context, kind Kind, id uuid.UUID) error {
	if !IsValidKind(kind) {
		return ErrInvalidKind
	}
	if id == uuid.Nil {
		return ErrIDRequired
	}

	item, err := s.GetItem(ctx, kind, id)
	if err != nil {
		return err
	}

	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model(item).WherePK().Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().
			Model((*TranslationRecord)(nil)).
			Where("kind = ?", kind).
			Where("entity_id = ?", id).
			Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().
			Model((*LocalizedPath)(nil)).
			Where("kind = ?", kind).
			Where("entity_id = ?", id).
			Exec(ctx)
		return err
	})
}

// GetTranslation returns the translation record for (kind, entity, language).
func (s *BunStore) GetTranslation(ctx context.Context, kind Kind, entityID uuid.UUID, language string) (*TranslationRecord, error) {
	if err := validateTranslationKey(kind, entityID, language); err != nil {
		return nil, err
	}

	record := new(TranslationRecord)
	err := s.db.NewSelect().
		Model(record).
		Where("kind = ?", kind).
		Where("entity_id = ?", entityID).
		Where("language = ?", language).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{
				Resource: "translation",
				Key:      fmt.Sprintf("%s/%s/%s", kind, entityID, language),
			}
		}
		return nil, fmt.Errorf("translation lookup: %w", err)
	}
	return record, nil
}

// ListTranslations returns every translation record for the entity.
func (s *BunStore) ListTranslations(ctx context.Context, kind Kind, entityID uuid.UUID) ([]*TranslationRecord, error) {
	if entityID == uuid.Nil {
		return nil, ErrIDRequired
	}
	var records []*TranslationRecord
	err := s.db.NewSelect().
		Model(&records).
		Where("kind = ?", kind).
		Where("entity_id = ?", entityID).
		Order("language ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("translation list: %w", err)
	}
	return records, nil
}

// UpsertTranslation writes the record with INSERT ... ON CONFLICT DO UPDATE
// on its deterministic primary key. Concurrent writers race at the statement
// level only: a reader observes the fully-old or fully-new record, never a
// half-written one.
func (s *BunStore) UpsertTranslation(ctx context.Context, record *TranslationRecord) (*TranslationRecord, error) {
	if record == nil {
		return nil, ErrIDRequired
	}
	if err := validateTranslationKey(record.Kind, record.EntityID, record.Language); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if record.ID == uuid.Nil {
		record.ID = identity.TranslationUUID(string(record.Kind), record.EntityID, record.Language)
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (id) DO UPDATE").
		Set("fields = EXCLUDED.fields").
		Set("is_auto_translated = EXCLUDED.is_auto_translated").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("translation upsert: %w", err)
	}
	return s.GetTranslation(ctx, record.Kind, record.EntityID, record.Language)
}

// CountTranslations reports how many language records exist for the entity.
func (s *BunStore) CountTranslations(ctx context.Context, kind Kind, entityID uuid.UUID) (int, error) {
	if entityID == uuid.Nil {
		return 0, ErrIDRequired
	}
	count, err := s.db.NewSelect().
		Model((*TranslationRecord)(nil)).
		Where("kind = ?", kind).
		Where("entity_id = ?", entityID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("translation count: %w", err)
	}
	return count, nil
}

// DeleteTranslations removes every translation record for the entity.
func (s *BunStore) DeleteTranslations(ctx context.Context, kind Kind, entityID uuid.UUID) error {
	if entityID == uuid.Nil {
		return ErrIDRequired
	}
	_, err := s.db.NewDelete().
		Model((*TranslationRecord)(nil)).
		Where("kind = ?", kind).
		Where("entity_id = ?", entityID).
		Exec(ctx)
	return err
}

// GetURLSetting returns the localized URL settings for a kind.
func (s *BunStore) GetURLSetting(ctx context.Context, kind Kind) (*URLSetting, error) {
	if !IsValidKind(kind) {
		return nil, ErrInvalidKind
	}
	setting := new(URLSetting)
	err := s.db.NewSelect().
		Model(setting).
		Where("kind = ?", kind).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "url_setting", Key: string(kind)}
		}
		return nil, fmt.Errorf("url setting lookup: %w", err)
	}
	return setting, nil
}

// UpsertURLSetting writes per-kind URL settings.
func (s *BunStore) UpsertURLSetting(ctx context.Context, setting *URLSetting) (*URLSetting, error) {
	if setting == nil || !IsValidKind(setting.Kind) {
		return nil, ErrInvalidKind
	}
	if setting.ID == uuid.Nil {
		setting.ID = identity.URLSettingUUID(string(setting.Kind))
	}
	setting.UpdatedAt = s.now().UTC()

	_, err := s.db.NewInsert().
		Model(setting).
		On("CONFLICT (id) DO UPDATE").
		Set("auto_generate = EXCLUDED.auto_generate").
		Set("segments = EXCLUDED.segments").
		Set("patterns = EXCLUDED.patterns").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("url setting upsert: %w", err)
	}
	return s.GetURLSetting(ctx, setting.Kind)
}

// UpsertLocalizedPath writes one resolved path row keyed deterministically,
// so regeneration passes are idempotent.
func (s *BunStore) UpsertLocalizedPath(ctx context.Context, path *LocalizedPath) (*LocalizedPath, error) {
	if path == nil {
		return nil, ErrIDRequired
	}
	if err := validateTranslationKey(path.Kind, path.EntityID, path.Language); err != nil {
		return nil, err
	}
	if path.ID == uuid.Nil {
		path.ID = identity.LocalizedPathUUID(string(path.Kind), path.EntityID, path.Language)
	}
	path.UpdatedAt = s.now().UTC()

	_, err := s.db.NewInsert().
		Model(path).
		On("CONFLICT (id) DO UPDATE").
		Set("path = EXCLUDED.path").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("localized path upsert: %w", err)
	}
	return path, nil
}

// ListLocalizedPaths returns persisted paths for one entity.
func (s *BunStore) ListLocalizedPaths(ctx context.Context, kind Kind, entityID uuid.UUID) ([]*LocalizedPath, error) {
	if entityID == uuid.Nil {
		return nil, ErrIDRequired
	}
	var paths []*LocalizedPath
	err := s.db.NewSelect().
		Model(&paths).
		Where("kind = ?", kind).
		Where("entity_id = ?", entityID).
		Order("language ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("localized path list: %w", err)
	}
	return paths, nil
}

// DeleteLocalizedPaths removes persisted paths for one entity.
func (s *BunStore) DeleteLocalizedPaths(ctx context.Context, kind Kind, entityID uuid.UUID) error {
	if entityID == uuid.Nil {
		return ErrIDRequired
	}
	_, err := s.db.NewDelete().
		Model((*LocalizedPath)(nil)).
		Where("kind = ?", kind).
		Where("entity_id = ?", entityID).
		Exec(ctx)
	return err
}

func validateTranslationKey(kind Kind, entityID uuid.UUID, language string) error {
	if !IsValidKind(kind) {
		return ErrInvalidKind
	}
	if entityID == uuid.Nil {
		return ErrIDRequired
	}
	if language == "" {
		return ErrLanguageRequired
	}
	return nil
}

func itemOrError[T Item](record T, err error, kind Kind, key string) (Item, error) {
	if err != nil {
		return nil, mapRepositoryError(err, string(kind), key)
	}
	return record, nil
}

func itemsOrError[T Item](records []T, err error, kind Kind) ([]Item, error) {
	if err != nil {
		return nil, fmt.Errorf("%s repository error: %w", kind, err)
	}
	items := make([]Item, 0, len(records))
	for _, rec := range records {
		items = append(items, rec)
	}
	return items, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
