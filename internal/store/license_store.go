package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"licensedesk/internal/models"
)

type LicenseStore interface {
	ListLicenses(ctx context.Context, user models.User) ([]models.License, error)
	GetLicense(ctx context.Context, id int) (*models.License, error)
	CreateLicense(ctx context.Context, license *models.License) error
	UpdateLicense(ctx context.Context, license *models.License) error
	DeleteLicense(ctx context.Context, id int) error
}

type PostgresLicenseStore struct {
	DB *pgxpool.Pool
}

func NewPostgresLicenseStore(db *pgxpool.Pool) *PostgresLicenseStore {
	return &PostgresLicenseStore{DB: db}
}

const licenseColumns = `
	id, product, license_type, serial_key, COALESCE(expiration_date, ''),
	assigned_user, COALESCE(job_title, ''), COALESCE(department, ''),
	COALESCE(manager, ''), COALESCE(cost_center, ''), COALESCE(ledger_account, ''),
	COALESCE(computer_name, ''), COALESCE(ticket_number, ''), COALESCE(notes, ''),
	approval_status, COALESCE(rejection_reason, ''), COALESCE(requested_by, ''),
	created_at, updated_at`

func scanLicense(row pgx.Row, l *models.License) error {
	return row.Scan(
		&l.ID,
		&l.Product,
		&l.LicenseType,
		&l.SerialKey,
		&l.ExpirationDate,
		&l.AssignedUser,
		&l.JobTitle,
		&l.Department,
		&l.Manager,
		&l.CostCenter,
		&l.LedgerAccount,
		&l.ComputerName,
		&l.TicketNumber,
		&l.Notes,
		&l.ApprovalStatus,
		&l.RejectionReason,
		&l.RequestedBy,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
}

// ListLicenses returns the rows visible to the caller. Admins see every row;
// other users see approved licenses plus their own pending or rejected
// requests.
func (s *PostgresLicenseStore) ListLicenses(ctx context.Context, user models.User) ([]models.License, error) {
	query := `SELECT ` + licenseColumns + ` FROM licenses`
	args := []interface{}{}
	if !user.IsAdmin() {
		query += ` WHERE approval_status = 'approved' OR requested_by = $1`
		args = append(args, user.Username)
	}
	query += ` ORDER BY product ASC, id ASC`

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list licenses: %w", err)
	}
	defer rows.Close()

	var licenses []models.License
	for rows.Next() {
		var l models.License
		if err := scanLicense(rows, &l); err != nil {
			return nil, fmt.Errorf("failed to scan license: %w", err)
		}
		licenses = append(licenses, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating licenses: %w", err)
	}
	return licenses, nil
}

func (s *PostgresLicenseStore) GetLicense(ctx context.Context, id int) (*models.License, error) {
	query := `SELECT ` + licenseColumns + ` FROM licenses WHERE id = $1`
	var l models.License
	if err := scanLicense(s.DB.QueryRow(ctx, query, id), &l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: license", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get license: %w", err)
	}
	return &l, nil
}

func (s *PostgresLicenseStore) CreateLicense(ctx context.Context, license *models.License) error {
	query := `
		INSERT INTO licenses (
			product, license_type, serial_key, expiration_date, assigned_user,
			job_title, department, manager, cost_center, ledger_account,
			computer_name, ticket_number, notes, approval_status,
			rejection_reason, requested_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
		RETURNING id, created_at, updated_at`

	err := s.DB.QueryRow(ctx, query,
		license.Product,
		license.LicenseType,
		license.SerialKey,
		license.ExpirationDate,
		license.AssignedUser,
		license.JobTitle,
		license.Department,
		license.Manager,
		license.CostCenter,
		license.LedgerAccount,
		license.ComputerName,
		license.TicketNumber,
		license.Notes,
		license.ApprovalStatus,
		license.RejectionReason,
		license.RequestedBy,
	).Scan(&license.ID, &license.CreatedAt, &license.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create license: %w", err)
	}
	return nil
}

// UpdateLicense replaces every editable field of the row; the id, the
// approval state, and the requester are preserved.
func (s *PostgresLicenseStore) UpdateLicense(ctx context.Context, license *models.License) error {
	query := `
		UPDATE licenses SET
			product = $1,
			license_type = $2,
			serial_key = $3,
			expiration_date = $4,
			assigned_user = $5,
			job_title = $6,
			department = $7,
			manager = $8,
			cost_center = $9,
			ledger_account = $10,
			computer_name = $11,
			ticket_number = $12,
			notes = $13,
			updated_at = now()
		WHERE id = $14
		RETURNING approval_status, COALESCE(rejection_reason, ''), COALESCE(requested_by, ''), created_at, updated_at`

	err := s.DB.QueryRow(ctx, query,
		license.Product,
		license.LicenseType,
		license.SerialKey,
		license.ExpirationDate,
		license.AssignedUser,
		license.JobTitle,
		license.Department,
		license.Manager,
		license.CostCenter,
		license.LedgerAccount,
		license.ComputerName,
		license.TicketNumber,
		license.Notes,
		license.ID,
	).Scan(&license.ApprovalStatus, &license.RejectionReason, &license.RequestedBy, &license.CreatedAt, &license.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: license", ErrNotFound)
		}
		return fmt.Errorf("failed to update license: %w", err)
	}
	return nil
}

func (s *PostgresLicenseStore) DeleteLicense(ctx context.Context, id int) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM licenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete license: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: license", ErrNotFound)
	}
	return nil
}
