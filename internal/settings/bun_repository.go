package settings

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// BunRepository persists translation settings using a Bun-backed database.
// The settings are a singleton row with a fixed primary key.
type BunRepository struct {
	db          *bun.DB
	broadcaster *changeBroadcaster
}

var _ Repository = (*BunRepository)(nil)

// NewBunRepository constructs a Bun-backed repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		db:          db,
		broadcaster: newChangeBroadcaster(),
	}
}

// CreateTable creates the settings table if it does not exist.
func CreateTable(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().Model((*settingsModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

// Get returns the persisted translation settings.
func (r *BunRepository) Get(ctx context.Context) (Settings, error) {
	if r.db == nil {
		return Settings{}, errors.New("settings: bun repository requires a database")
	}
	var model settingsModel
	if err := r.db.NewSelect().Model(&model).Where("id = ?", 1).Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Settings{}, ErrSettingsNotFound
		}
		return Settings{}, err
	}
	return modelToSettings(&model), nil
}

// Upsert creates or updates the persisted translation settings.
func (r *BunRepository) Upsert(ctx context.Context, incoming Settings) (Settings, error) {
	if r.db == nil {
		return Settings{}, errors.New("settings: bun repository requires a database")
	}

	var existing settingsModel
	err := r.db.NewSelect().Model(&existing).Where("id = ?", 1).Scan(ctx)
	created := false
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			created = true
		} else {
			return Settings{}, err
		}
	}

	model := modelFromSettings(incoming)
	model.ID = 1
	model.UpdatedAt = time.Now().UTC()

	if created {
		if _, err := r.db.NewInsert().Model(&model).Exec(ctx); err != nil {
			return Settings{}, err
		}
	} else {
		if _, err := r.db.NewUpdate().
			Model(&model).
			Column("auto_translate_enabled", "target_languages", "translate_on_import", "updated_at").
			WherePK().
			Exec(ctx); err != nil {
			return Settings{}, err
		}
	}

	stored, err := r.Get(ctx)
	if err != nil {
		return Settings{}, err
	}

	eventType := ChangeUpdated
	if created {
		eventType = ChangeCreated
	}
	r.broadcaster.Broadcast(newChangeEvent(eventType, stored))
	return stored, nil
}

// Delete clears persisted settings.
func (r *BunRepository) Delete(ctx context.Context) error {
	if r.db == nil {
		return errors.New("settings: bun repository requires a database")
	}
	var model settingsModel
	err := r.db.NewSelect().Model(&model).Where("id = ?", 1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSettingsNotFound
		}
		return err
	}
	if _, err := r.db.NewDelete().Model(&model).WherePK().Exec(ctx); err != nil {
		return err
	}
	r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, Settings{}))
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

type settingsModel struct {
	bun.BaseModel `bun:"table:translation_settings"`

	ID                   int       `bun:",pk"`
	AutoTranslateEnabled bool      `bun:"auto_translate_enabled"`
	TargetLanguages      []string  `bun:"target_languages,type:jsonb"`
	TranslateOnImport    bool      `bun:"translate_on_import"`
	UpdatedAt            time.Time `bun:"updated_at"`
}

func modelFromSettings(s Settings) settingsModel {
	return settingsModel{
		AutoTranslateEnabled: s.AutoTranslateEnabled,
		TargetLanguages:      s.TargetLanguages,
		TranslateOnImport:    s.TranslateOnImport,
	}
}

func modelToSettings(model *settingsModel) Settings {
	if model == nil {
		return Settings{}
	}
	return Settings{
		AutoTranslateEnabled: model.AutoTranslateEnabled,
		TargetLanguages:      model.TargetLanguages,
		TranslateOnImport:    model.TranslateOnImport,
	}
}
