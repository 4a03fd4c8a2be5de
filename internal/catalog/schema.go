package catalog

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Models lists every bun model the catalog persists, in creation order.
func Models() []any {
	return []any{
		(*Section)(nil),
		(*TravelPackage)(nil),
		(*BlogPost)(nil),
		(*Testimonial)(nil),
		(*GalleryItem)(nil),
		(*TranslationRecord)(nil),
		(*URLSetting)(nil),
		(*LocalizedPath)(nil),
	}
}

// CreateTables creates the catalog tables if they do not exist. Embedded
// deployments that do not run SQL migrations can call this at startup.
func CreateTables(ctx context.Context, db *bun.DB) error {
	for _, model := range Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("catalog: create table for %T: %w", model, err)
		}
	}
	return nil
}
