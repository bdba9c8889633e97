package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type ParticipantRepository interface {
	// Create inserts a join request. Duplicate (workshop, user) pairs are
	// rejected by the unique constraint, which is what makes concurrent joins
	// safe.
	Create(ctx context.Context, participant *model.Participant) error
	FindByID(ctx context.Context, id string) (*model.Participant, error)
	FindByWorkshopAndUser(ctx context.Context, workshopID, userID string) (*model.Participant, error)
	ListByWorkshop(ctx context.Context, workshopID string, status *model.ParticipantStatus) ([]model.Participant, error)
	ListByUser(ctx context.Context, userID string) ([]model.UserParticipation, error)
	UpdateStatus(ctx context.Context, id string, status model.ParticipantStatus, approvedBy *string) (*model.Participant, error)
	Delete(ctx context.Context, id string) error
}

type pgParticipantRepository struct {
	db *sql.DB
}

func NewPgParticipantRepository(db *sql.DB) ParticipantRepository {
	return &pgParticipantRepository{db: db}
}

const participantSelect = `
	SELECT p.id, p.workshop_id, p.user_id, p.status, p.requested_at,
	       p.approved_at, p.approved_by, u.name, u.email
	FROM participants p
	JOIN users u ON p.user_id = u.id`

func scanParticipant(row interface{ Scan(...interface{}) error }) (*model.Participant, error) {
	p := &model.Participant{}
	err := row.Scan(
		&p.ID, &p.WorkshopID, &p.UserID, &p.Status, &p.RequestedAt,
		&p.ApprovedAt, &p.ApprovedBy, &p.UserName, &p.UserEmail,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *pgParticipantRepository) Create(ctx context.Context, participant *model.Participant) error {
	query := `INSERT INTO participants (id, workshop_id, user_id, status)
	          VALUES ($1, $2, $3, $4)
	          RETURNING requested_at`
	err := r.db.QueryRowContext(ctx, query,
		participant.ID, participant.WorkshopID, participant.UserID, participant.Status,
	).Scan(&participant.RequestedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.WithCode(
				fmt.Errorf("user already joined this workshop: %w", common.ErrConflict),
				"ALREADY_JOINED")
		}
		return fmt.Errorf("pgParticipantRepository.Create: %w", err)
	}
	return nil
}

func (r *pgParticipantRepository) FindByID(ctx context.Context, id string) (*model.Participant, error) {
	p, err := scanParticipant(r.db.QueryRowContext(ctx, participantSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.WithCode(
				fmt.Errorf("participant not found: %w", common.ErrNotFound), "PARTICIPANT_NOT_FOUND")
		}
		return nil, fmt.Errorf("pgParticipantRepository.FindByID: %w", err)
	}
	return p, nil
}

func (r *pgParticipantRepository) FindByWorkshopAndUser(ctx context.Context, workshopID, userID string) (*model.Participant, error) {
	query := participantSelect + ` WHERE p.workshop_id = $1 AND p.user_id = $2`
	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, workshopID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgParticipantRepository.FindByWorkshopAndUser: %w", err)
	}
	return p, nil
}

func (r *pgParticipantRepository) ListByWorkshop(ctx context.Context, workshopID string, status *model.ParticipantStatus) ([]model.Participant, error) {
	query := participantSelect + ` WHERE p.workshop_id = $1`
	args := []interface{}{workshopID}
	if status != nil {
		query += ` AND p.status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY p.requested_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgParticipantRepository.ListByWorkshop: %w", err)
	}
	defer rows.Close()

	participants := []model.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("pgParticipantRepository.ListByWorkshop scan: %w", err)
		}
		participants = append(participants, *p)
	}
	return participants, rows.Err()
}

func (r *pgParticipantRepository) ListByUser(ctx context.Context, userID string) ([]model.UserParticipation, error) {
	query := `
		SELECT p.id, p.workshop_id, p.user_id, p.status, p.requested_at,
		       p.approved_at, p.approved_by,
		       w.title, w.description, w.status, w.owner_id
		FROM participants p
		JOIN workshops w ON p.workshop_id = w.id
		WHERE p.user_id = $1
		ORDER BY p.requested_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgParticipantRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	participations := []model.UserParticipation{}
	for rows.Next() {
		var up model.UserParticipation
		err := rows.Scan(
			&up.ID, &up.WorkshopID, &up.UserID, &up.Status, &up.RequestedAt,
			&up.ApprovedAt, &up.ApprovedBy,
			&up.WorkshopTitle, &up.WorkshopDescription, &up.WorkshopStatus, &up.WorkshopOwnerID,
		)
		if err != nil {
			return nil, fmt.Errorf("pgParticipantRepository.ListByUser scan: %w", err)
		}
		participations = append(participations, up)
	}
	return participations, rows.Err()
}

// UpdateStatus stamps approved_at/approved_by only when approvedBy is given,
// i.e. for joined/rejected transitions.
func (r *pgParticipantRepository) UpdateStatus(ctx context.Context, id string, status model.ParticipantStatus, approvedBy *string) (*model.Participant, error) {
	var err error
	if approvedBy != nil {
		_, err = r.db.ExecContext(ctx,
			`UPDATE participants SET status = $1, approved_by = $2, approved_at = now() WHERE id = $3`,
			status, *approvedBy, id)
	} else {
		_, err = r.db.ExecContext(ctx,
			`UPDATE participants SET status = $1 WHERE id = $2`, status, id)
	}
	if err != nil {
		return nil, fmt.Errorf("pgParticipantRepository.UpdateStatus: %w", err)
	}
	return r.FindByID(ctx, id)
}

func (r *pgParticipantRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgParticipantRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.WithCode(
			fmt.Errorf("participant not found: %w", common.ErrNotFound), "PARTICIPANT_NOT_FOUND")
	}
	return nil
}
