package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"
)

// ChallengeUpdate carries the optional fields of a partial update; nil means
// leave unchanged.
type ChallengeUpdate struct {
	Title       *string
	Description *string
	HTMLContent *string
	Solution    *string
	OrderIndex  *int
	Points      *int
}

type ChallengeRepository interface {
	Create(ctx context.Context, challenge *model.Challenge) error
	FindByID(ctx context.Context, id string) (*model.Challenge, error)
	ListByWorkshop(ctx context.Context, workshopID string) ([]model.Challenge, error)
	Update(ctx context.Context, id string, update ChallengeUpdate) (*model.Challenge, error)
	Delete(ctx context.Context, id string) error

	CreateSubmission(ctx context.Context, submission *model.ChallengeSubmission) error
	FindSubmissionByID(ctx context.Context, id string) (*model.ChallengeSubmission, error)
	FindSubmission(ctx context.Context, userID, challengeID string) (*model.ChallengeSubmission, error)
	ListSubmissionsByChallenge(ctx context.Context, challengeID string) ([]model.ChallengeSubmission, error)
	Review(ctx context.Context, submissionID string, status model.SubmissionStatus, points int, feedback *string, reviewerID string) (*model.ChallengeSubmission, error)
}

type pgChallengeRepository struct {
	db *sql.DB
}

func NewPgChallengeRepository(db *sql.DB) ChallengeRepository {
	return &pgChallengeRepository{db: db}
}

const challengeColumns = `id, workshop_id, title, description,
	COALESCE(html_content, ''), solution, order_index, points, created_at`

func scanChallenge(row interface{ Scan(...interface{}) error }) (*model.Challenge, error) {
	c := &model.Challenge{}
	err := row.Scan(
		&c.ID, &c.WorkshopID, &c.Title, &c.Description,
		&c.HTMLContent, &c.Solution, &c.OrderIndex, &c.Points, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *pgChallengeRepository) Create(ctx context.Context, challenge *model.Challenge) error {
	query := `INSERT INTO challenges (id, workshop_id, title, description, html_content, solution, order_index, points)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		challenge.ID, challenge.WorkshopID, challenge.Title, challenge.Description,
		challenge.HTMLContent, challenge.Solution, challenge.OrderIndex, challenge.Points,
	).Scan(&challenge.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.Create: %w", err)
	}
	return nil
}

func (r *pgChallengeRepository) FindByID(ctx context.Context, id string) (*model.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	c, err := scanChallenge(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("challenge not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgChallengeRepository.FindByID: %w", err)
	}
	return c, nil
}

func (r *pgChallengeRepository) ListByWorkshop(ctx context.Context, workshopID string) ([]model.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges
	          WHERE workshop_id = $1 ORDER BY order_index ASC, created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, workshopID)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.ListByWorkshop: %w", err)
	}
	defer rows.Close()

	challenges := []model.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.ListByWorkshop scan: %w", err)
		}
		challenges = append(challenges, *c)
	}
	return challenges, rows.Err()
}

func (r *pgChallengeRepository) Update(ctx context.Context, id string, update ChallengeUpdate) (*model.Challenge, error) {
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
	if update.HTMLContent != nil {
		add("html_content", *update.HTMLContent)
	}
	if update.Solution != nil {
		add("solution", *update.Solution)
	}
	if update.OrderIndex != nil {
		add("order_index", *update.OrderIndex)
	}
	if update.Points != nil {
		add("points", *update.Points)
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := `UPDATE challenges SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + challengeColumns

	c, err := scanChallenge(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("challenge not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgChallengeRepository.Update: %w", err)
	}
	return c, nil
}

func (r *pgChallengeRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("challenge not found: %w", common.ErrNotFound)
	}
	return nil
}

const submissionSelect = `
	SELECT s.id, s.user_id, s.challenge_id, COALESCE(s.submission_text, ''),
	       COALESCE(s.submission_url, ''), s.status, s.points_earned,
	       s.feedback, s.reviewed_by, s.reviewed_at, s.submitted_at,
	       u.name, u.email
	FROM challenge_submissions s
	JOIN users u ON s.user_id = u.id`

func scanSubmission(row interface{ Scan(...interface{}) error }) (*model.ChallengeSubmission, error) {
	s := &model.ChallengeSubmission{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.ChallengeID, &s.SubmissionText,
		&s.SubmissionURL, &s.Status, &s.PointsEarned,
		&s.Feedback, &s.ReviewedBy, &s.ReviewedAt, &s.SubmittedAt,
		&s.UserName, &s.UserEmail,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// CreateSubmission inserts or, for a resubmission, overwrites text/url and
// resets the row to pending with a fresh submitted_at. One row per
// (user, challenge) always.
func (r *pgChallengeRepository) CreateSubmission(ctx context.Context, submission *model.ChallengeSubmission) error {
	query := `INSERT INTO challenge_submissions (id, user_id, challenge_id, submission_text, submission_url, status)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT ON CONSTRAINT unique_user_challenge DO UPDATE SET
	              submission_text = EXCLUDED.submission_text,
	              submission_url = EXCLUDED.submission_url,
	              status = 'pending',
	              submitted_at = now()
	          RETURNING id, status, points_earned, submitted_at`
	err := r.db.QueryRowContext(ctx, query,
		submission.ID, submission.UserID, submission.ChallengeID,
		submission.SubmissionText, submission.SubmissionURL, submission.Status,
	).Scan(&submission.ID, &submission.Status, &submission.PointsEarned, &submission.SubmittedAt)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.CreateSubmission: %w", err)
	}
	return nil
}

func (r *pgChallengeRepository) FindSubmissionByID(ctx context.Context, id string) (*model.ChallengeSubmission, error) {
	s, err := scanSubmission(r.db.QueryRowContext(ctx, submissionSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("submission not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgChallengeRepository.FindSubmissionByID: %w", err)
	}
	return s, nil
}

func (r *pgChallengeRepository) FindSubmission(ctx context.Context, userID, challengeID string) (*model.ChallengeSubmission, error) {
	query := submissionSelect + ` WHERE s.user_id = $1 AND s.challenge_id = $2`
	s, err := scanSubmission(r.db.QueryRowContext(ctx, query, userID, challengeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgChallengeRepository.FindSubmission: %w", err)
	}
	return s, nil
}

func (r *pgChallengeRepository) ListSubmissionsByChallenge(ctx context.Context, challengeID string) ([]model.ChallengeSubmission, error) {
	query := submissionSelect + ` WHERE s.challenge_id = $1 ORDER BY s.submitted_at DESC`
	rows, err := r.db.QueryContext(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.ListSubmissionsByChallenge: %w", err)
	}
	defer rows.Close()

	submissions := []model.ChallengeSubmission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.ListSubmissionsByChallenge scan: %w", err)
		}
		submissions = append(submissions, *s)
	}
	return submissions, rows.Err()
}

func (r *pgChallengeRepository) Review(ctx context.Context, submissionID string, status model.SubmissionStatus, points int, feedback *string, reviewerID string) (*model.ChallengeSubmission, error) {
	query := `UPDATE challenge_submissions
	          SET status = $1, points_earned = $2, feedback = $3, reviewed_by = $4, reviewed_at = now()
	          WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, status, points, feedback, reviewerID, submissionID)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.Review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("submission not found: %w", common.ErrNotFound)
	}
	return r.FindSubmissionByID(ctx, submissionID)
}
