package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	mapping "sunspec-gateway/internal/mapping/domain"
)

const defaultMappingsTable = "canonical_point_mappings"

// MappingRepository is a Postgres implementation for the canonical mapping
// table, used to publish resolved tables for downstream consumers.
type MappingRepository struct {
	db    *sql.DB
	table string
}

// NewMappingRepository constructs a repository.
func NewMappingRepository(db *sql.DB, opts ...MappingOption) *MappingRepository {
	repo := &MappingRepository{db: db, table: defaultMappingsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// MappingOption configures the repository.
type MappingOption func(*MappingRepository)

// WithMappingsTable overrides the table name.
func WithMappingsTable(table string) MappingOption {
	return func(repo *MappingRepository) {
		if table != "" {
			repo.table = table
		}
	}
}

// Publish replaces the stored table with the given entries in one
// transaction. Consumers always see either the old table or the new one.
func (r *MappingRepository) Publish(ctx context.Context, entries []mapping.CanonicalMappingEntry) error {
	if r == nil || r.db == nil {
		return errors.New("mapping repo: nil db")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", r.table)); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	canonical_name,
	entity_name,
	models,
	vsn300_name,
	vsn700_name,
	label,
	description,
	display_name,
	category,
	unit,
	device_class,
	state_class,
	entity_category,
	icon,
	in_livedata,
	in_feeds,
	available_in_modbus,
	vendor_only,
	data_source
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
)`, r.table)

	for i := range entries {
		e := &entries[i]
		if err := e.Validate(); err != nil {
			return err
		}
		models, err := json.Marshal(e.Models)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(
			ctx,
			query,
			e.CanonicalName,
			e.EntityName,
			models,
			nullIfEmpty(e.VSN300Name),
			nullIfEmpty(e.VSN700Name),
			e.Label,
			e.Description,
			e.DisplayName,
			string(e.Category),
			e.Unit,
			e.DeviceClass,
			e.StateClass,
			e.EntityCategory,
			e.Icon,
			e.InLiveData,
			e.InFeeds,
			e.AvailableInModbus,
			e.VendorOnly,
			e.DataSource,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// List loads every stored entry in canonical-name order.
func (r *MappingRepository) List(ctx context.Context) ([]mapping.CanonicalMappingEntry, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("mapping repo: nil db")
	}

	query := fmt.Sprintf(`
SELECT canonical_name, entity_name, models, vsn300_name, vsn700_name,
	label, description, display_name, category, unit, device_class,
	state_class, entity_category, icon, in_livedata, in_feeds,
	available_in_modbus, vendor_only, data_source
FROM %s
ORDER BY canonical_name ASC`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []mapping.CanonicalMappingEntry
	for rows.Next() {
		var e mapping.CanonicalMappingEntry
		var models []byte
		var vsn300, vsn700 sql.NullString
		var category string
		if err := rows.Scan(
			&e.CanonicalName,
			&e.EntityName,
			&models,
			&vsn300,
			&vsn700,
			&e.Label,
			&e.Description,
			&e.DisplayName,
			&category,
			&e.Unit,
			&e.DeviceClass,
			&e.StateClass,
			&e.EntityCategory,
			&e.Icon,
			&e.InLiveData,
			&e.InFeeds,
			&e.AvailableInModbus,
			&e.VendorOnly,
			&e.DataSource,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(models, &e.Models); err != nil {
			return nil, fmt.Errorf("mapping repo: models for %s: %w", e.CanonicalName, err)
		}
		e.Category = mapping.Category(category)
		if vsn300.Valid {
			e.VSN300Name = vsn300.String
		}
		if vsn700.Valid {
			e.VSN700Name = vsn700.String
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
