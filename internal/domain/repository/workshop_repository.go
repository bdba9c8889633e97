package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"
)

// WorkshopUpdate carries the optional fields of a partial update; nil means
// leave unchanged.
type WorkshopUpdate struct {
	Title         *string
	Description   *string
	Status        *model.WorkshopStatus
	SignupEnabled *bool
	WorkshopDate  *time.Time
	VenueType     *model.VenueType
	VenueAddress  *string
}

type WorkshopRepository interface {
	Create(ctx context.Context, workshop *model.Workshop) error
	FindByID(ctx context.Context, id string) (*model.Workshop, error)
	List(ctx context.Context) ([]model.Workshop, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Workshop, error)
	Update(ctx context.Context, id string, update WorkshopUpdate) (*model.Workshop, error)
	Delete(ctx context.Context, id string) error
}

type pgWorkshopRepository struct {
	db *sql.DB
}

func NewPgWorkshopRepository(db *sql.DB) WorkshopRepository {
	return &pgWorkshopRepository{db: db}
}

const workshopColumns = `id, title, description, slug, status, signup_enabled,
	workshop_date, venue_type, venue_address, owner_id, created_at, updated_at`

func scanWorkshop(row interface{ Scan(...interface{}) error }) (*model.Workshop, error) {
	w := &model.Workshop{}
	err := row.Scan(
		&w.ID, &w.Title, &w.Description, &w.Slug, &w.Status, &w.SignupEnabled,
		&w.WorkshopDate, &w.VenueType, &w.VenueAddress, &w.OwnerID, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *pgWorkshopRepository) Create(ctx context.Context, workshop *model.Workshop) error {
	query := `INSERT INTO workshops
	          (id, title, description, slug, status, signup_enabled, workshop_date, venue_type, venue_address, owner_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		workshop.ID, workshop.Title, workshop.Description, workshop.Slug, workshop.Status,
		workshop.SignupEnabled, workshop.WorkshopDate, workshop.VenueType, workshop.VenueAddress, workshop.OwnerID,
	).Scan(&workshop.CreatedAt, &workshop.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgWorkshopRepository.Create: %w", err)
	}
	return nil
}

func (r *pgWorkshopRepository) FindByID(ctx context.Context, id string) (*model.Workshop, error) {
	query := `SELECT ` + workshopColumns + ` FROM workshops WHERE id = $1`
	w, err := scanWorkshop(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.WithCode(
				fmt.Errorf("workshop not found: %w", common.ErrNotFound), "WORKSHOP_NOT_FOUND")
		}
		return nil, fmt.Errorf("pgWorkshopRepository.FindByID: %w", err)
	}
	return w, nil
}

func (r *pgWorkshopRepository) List(ctx context.Context) ([]model.Workshop, error) {
	query := `SELECT ` + workshopColumns + ` FROM workshops ORDER BY created_at DESC`
	return r.queryWorkshops(ctx, query)
}

func (r *pgWorkshopRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Workshop, error) {
	query := `SELECT ` + workshopColumns + ` FROM workshops WHERE owner_id = $1 ORDER BY created_at DESC`
	return r.queryWorkshops(ctx, query, ownerID)
}

func (r *pgWorkshopRepository) queryWorkshops(ctx context.Context, query string, args ...interface{}) ([]model.Workshop, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgWorkshopRepository.queryWorkshops: %w", err)
	}
	defer rows.Close()

	workshops := []model.Workshop{}
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			return nil, fmt.Errorf("pgWorkshopRepository.queryWorkshops scan: %w", err)
		}
		workshops = append(workshops, *w)
	}
	return workshops, rows.Err()
}

func (r *pgWorkshopRepository) Update(ctx context.Context, id string, update WorkshopUpdate) (*model.Workshop, error) {
	sets := []string{}
	args := []interface{}{}
	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.Status != nil {
		add("status", *update.Status)
	}
	if update.SignupEnabled != nil {
		add("signup_enabled", *update.SignupEnabled)
	}
	if update.WorkshopDate != nil {
		add("workshop_date", *update.WorkshopDate)
	}
	if update.VenueType != nil {
		add("venue_type", *update.VenueType)
	}
	if update.VenueAddress != nil {
		add("venue_address", *update.VenueAddress)
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	query := `UPDATE workshops SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + workshopColumns

	w, err := scanWorkshop(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.WithCode(
				fmt.Errorf("workshop not found: %w", common.ErrNotFound), "WORKSHOP_NOT_FOUND")
		}
		return nil, fmt.Errorf("pgWorkshopRepository.Update: %w", err)
	}
	return w, nil
}

func (r *pgWorkshopRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workshops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgWorkshopRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.WithCode(
			fmt.Errorf("workshop not found: %w", common.ErrNotFound), "WORKSHOP_NOT_FOUND")
	}
	return nil
}
