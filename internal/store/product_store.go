package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"licensedesk/internal/models"
)

type ProductStore interface {
	GetTotals(ctx context.Context) (models.LicenseTotals, error)
	ReplaceTotals(ctx context.Context, totals models.LicenseTotals) error
	CreateProduct(ctx context.Context, name string) error
	DeleteProduct(ctx context.Context, name string) error
	RenameProduct(ctx context.Context, oldName, newName string) error
}

type PostgresProductStore struct {
	DB *pgxpool.Pool
}

func NewPostgresProductStore(db *pgxpool.Pool) *PostgresProductStore {
	return &PostgresProductStore{DB: db}
}

func (s *PostgresProductStore) GetTotals(ctx context.Context) (models.LicenseTotals, error) {
	rows, err := s.DB.Query(ctx, `SELECT product, total FROM license_totals`)
	if err != nil {
		return nil, fmt.Errorf("failed to query license totals: %w", err)
	}
	defer rows.Close()

	totals := models.LicenseTotals{}
	for rows.Next() {
		var name string
		var total int
		if err := rows.Scan(&name, &total); err != nil {
			return nil, fmt.Errorf("failed to scan license total: %w", err)
		}
		totals[name] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating license totals: %w", err)
	}
	return totals, nil
}

// ReplaceTotals swaps the whole mapping in one transaction. The caller has
// validated every entry, so a partial write never survives.
func (s *PostgresProductStore) ReplaceTotals(ctx context.Context, totals models.LicenseTotals) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM license_totals`); err != nil {
		return fmt.Errorf("failed to clear license totals: %w", err)
	}

	for name, total := range totals {
		if _, err := tx.Exec(ctx,
			`INSERT INTO license_totals (product, total) VALUES ($1, $2)`,
			name, total,
		); err != nil {
			return fmt.Errorf("failed to insert total for %s: %w", name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateProduct adds a registry entry with total 0. The duplicate check
// spans the whole derived registry, totals keys and license rows alike, so
// an unregistered product cannot be re-added under a case variant.
func (s *PostgresProductStore) CreateProduct(ctx context.Context, name string) error {
	var exists bool
	err := s.DB.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM license_totals WHERE lower(product) = lower($1)
			UNION
			SELECT 1 FROM licenses WHERE lower(product) = lower($1)
		)`, name,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check product name: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}

	if _, err := s.DB.Exec(ctx,
		`INSERT INTO license_totals (product, total) VALUES ($1, 0)`,
		name,
	); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// DeleteProduct removes the name from the registry only. License rows that
// still reference it are untouched and keep the name alive in the derived
// registry until they are reassigned or deleted.
func (s *PostgresProductStore) DeleteProduct(ctx context.Context, name string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM license_totals WHERE product = $1`, name)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product", ErrNotFound)
	}
	return nil
}

// RenameProduct cascades a rename over license rows and the totals mapping
// inside a single transaction, so both apply or neither does. A
// case-insensitive collision with any other known name aborts the rename
// with ErrDuplicate before anything is written.
func (s *PostgresProductStore) RenameProduct(ctx context.Context, oldName, newName string) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var collision bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM license_totals
			WHERE lower(product) = lower($1) AND product <> $2
			UNION
			SELECT 1 FROM licenses
			WHERE lower(product) = lower($1) AND product <> $2
		)`, newName, oldName,
	).Scan(&collision)
	if err != nil {
		return fmt.Errorf("failed to check rename collision: %w", err)
	}
	if collision {
		return fmt.Errorf("%w: %s", ErrDuplicate, newName)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE licenses SET product = $1, updated_at = now() WHERE product = $2`,
		newName, oldName,
	); err != nil {
		return fmt.Errorf("failed to rename product on licenses: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE license_totals SET product = $1 WHERE product = $2`,
		newName, oldName,
	); err != nil {
		return fmt.Errorf("failed to move license total: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
