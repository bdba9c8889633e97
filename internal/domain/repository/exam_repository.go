package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"
)

// ExamUpdate carries the optional fields of a partial update; nil means leave
// unchanged.
type ExamUpdate struct {
	Title           *string
	Description     *string
	DurationMinutes *int
	PassingScore    *int
	Points          *int
}

type ExamRepository interface {
	Create(ctx context.Context, exam *model.Exam) error
	FindByID(ctx context.Context, id string) (*model.Exam, error)
	ListByWorkshop(ctx context.Context, workshopID string) ([]model.Exam, error)
	Update(ctx context.Context, id string, update ExamUpdate) (*model.Exam, error)
	Delete(ctx context.Context, id string) error

	AddQuestion(ctx context.Context, question *model.ExamQuestion) error
	ListQuestions(ctx context.Context, examID string) ([]model.ExamQuestion, error)

	CreateAttempt(ctx context.Context, attempt *model.ExamAttempt) error
	FindAttemptByID(ctx context.Context, id string) (*model.ExamAttempt, error)
	ListAttempts(ctx context.Context, userID, examID string) ([]model.ExamAttempt, error)
	SubmitAttempt(ctx context.Context, attempt *model.ExamAttempt) error
	CountPassedAttempts(ctx context.Context, userID, examID string) (int, error)
	BestAttempt(ctx context.Context, userID, examID string) (*model.ExamAttempt, error)
}

type pgExamRepository struct {
	db *sql.DB
}

func NewPgExamRepository(db *sql.DB) ExamRepository {
	return &pgExamRepository{db: db}
}

func (r *pgExamRepository) Create(ctx context.Context, exam *model.Exam) error {
	query := `INSERT INTO exams (id, workshop_id, title, description, duration_minutes, passing_score, points)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		exam.ID, exam.WorkshopID, exam.Title, exam.Description,
		exam.DurationMinutes, exam.PassingScore, exam.Points,
	).Scan(&exam.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgExamRepository.Create: %w", err)
	}
	return nil
}

func (r *pgExamRepository) FindByID(ctx context.Context, id string) (*model.Exam, error) {
	query := `SELECT id, workshop_id, title, COALESCE(description, ''),
	                 duration_minutes, passing_score, points, created_at
	          FROM exams WHERE id = $1`
	e := &model.Exam{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.WorkshopID, &e.Title, &e.Description,
		&e.DurationMinutes, &e.PassingScore, &e.Points, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("exam not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgExamRepository.FindByID: %w", err)
	}
	return e, nil
}

func (r *pgExamRepository) ListByWorkshop(ctx context.Context, workshopID string) ([]model.Exam, error) {
	query := `SELECT id, workshop_id, title, COALESCE(description, ''),
	                 duration_minutes, passing_score, points, created_at
	          FROM exams WHERE workshop_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, workshopID)
	if err != nil {
		return nil, fmt.Errorf("pgExamRepository.ListByWorkshop: %w", err)
	}
	defer rows.Close()

	exams := []model.Exam{}
	for rows.Next() {
		var e model.Exam
		err := rows.Scan(&e.ID, &e.WorkshopID, &e.Title, &e.Description,
			&e.DurationMinutes, &e.PassingScore, &e.Points, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("pgExamRepository.ListByWorkshop scan: %w", err)
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

func (r *pgExamRepository) Update(ctx context.Context, id string, update ExamUpdate) (*model.Exam, error) {
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
	if update.DurationMinutes != nil {
		add("duration_minutes", *update.DurationMinutes)
	}
	if update.PassingScore != nil {
		add("passing_score", *update.PassingScore)
	}
	if update.Points != nil {
		add("points", *update.Points)
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	query := `UPDATE exams SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) +
		` RETURNING id, workshop_id, title, COALESCE(description, ''), duration_minutes, passing_score, points, created_at`

	e := &model.Exam{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&e.ID, &e.WorkshopID, &e.Title, &e.Description,
		&e.DurationMinutes, &e.PassingScore, &e.Points, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("exam not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgExamRepository.Update: %w", err)
	}
	return e, nil
}

func (r *pgExamRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgExamRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("exam not found: %w", common.ErrNotFound)
	}
	return nil
}

func (r *pgExamRepository) AddQuestion(ctx context.Context, question *model.ExamQuestion) error {
	options, err := json.Marshal(question.Options)
	if err != nil {
		return fmt.Errorf("pgExamRepository.AddQuestion marshal options: %w", err)
	}
	query := `INSERT INTO exam_questions (id, exam_id, question_text, question_type, options, correct_answer, points, order_index)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at`
	err = r.db.QueryRowContext(ctx, query,
		question.ID, question.ExamID, question.QuestionText, question.QuestionType,
		options, question.CorrectAnswer, question.Points, question.OrderIndex,
	).Scan(&question.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgExamRepository.AddQuestion: %w", err)
	}
	return nil
}

func (r *pgExamRepository) ListQuestions(ctx context.Context, examID string) ([]model.ExamQuestion, error) {
	query := `SELECT id, exam_id, question_text, question_type, options, correct_answer, points, order_index, created_at
	          FROM exam_questions WHERE exam_id = $1 ORDER BY order_index ASC, created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, examID)
	if err != nil {
		return nil, fmt.Errorf("pgExamRepository.ListQuestions: %w", err)
	}
	defer rows.Close()

	questions := []model.ExamQuestion{}
	for rows.Next() {
		var q model.ExamQuestion
		var options []byte
		err := rows.Scan(&q.ID, &q.ExamID, &q.QuestionText, &q.QuestionType,
			&options, &q.CorrectAnswer, &q.Points, &q.OrderIndex, &q.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("pgExamRepository.ListQuestions scan: %w", err)
		}
		if len(options) > 0 {
			if err := json.Unmarshal(options, &q.Options); err != nil {
				return nil, fmt.Errorf("pgExamRepository.ListQuestions unmarshal options: %w", err)
			}
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *pgExamRepository) CreateAttempt(ctx context.Context, attempt *model.ExamAttempt) error {
	query := `INSERT INTO exam_attempts (id, user_id, exam_id)
	          VALUES ($1, $2, $3)
	          RETURNING started_at`
	err := r.db.QueryRowContext(ctx, query, attempt.ID, attempt.UserID, attempt.ExamID).
		Scan(&attempt.StartedAt)
	if err != nil {
		return fmt.Errorf("pgExamRepository.CreateAttempt: %w", err)
	}
	return nil
}

func scanAttempt(row interface{ Scan(...interface{}) error }) (*model.ExamAttempt, error) {
	a := &model.ExamAttempt{}
	var answers []byte
	err := row.Scan(&a.ID, &a.UserID, &a.ExamID, &answers, &a.Score,
		&a.PointsEarned, &a.Passed, &a.StartedAt, &a.SubmittedAt)
	if err != nil {
		return nil, err
	}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return nil, fmt.Errorf("unmarshal answers: %w", err)
		}
	}
	return a, nil
}

const attemptColumns = `id, user_id, exam_id, answers, score, points_earned, passed, started_at, submitted_at`

func (r *pgExamRepository) FindAttemptByID(ctx context.Context, id string) (*model.ExamAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM exam_attempts WHERE id = $1`
	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("attempt not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgExamRepository.FindAttemptByID: %w", err)
	}
	return a, nil
}

func (r *pgExamRepository) ListAttempts(ctx context.Context, userID, examID string) ([]model.ExamAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM exam_attempts
	          WHERE user_id = $1 AND exam_id = $2 ORDER BY started_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, examID)
	if err != nil {
		return nil, fmt.Errorf("pgExamRepository.ListAttempts: %w", err)
	}
	defer rows.Close()

	attempts := []model.ExamAttempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("pgExamRepository.ListAttempts scan: %w", err)
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

func (r *pgExamRepository) SubmitAttempt(ctx context.Context, attempt *model.ExamAttempt) error {
	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return fmt.Errorf("pgExamRepository.SubmitAttempt marshal answers: %w", err)
	}
	query := `UPDATE exam_attempts
	          SET answers = $1, score = $2, points_earned = $3, passed = $4, submitted_at = now()
	          WHERE id = $5
	          RETURNING submitted_at`
	err = r.db.QueryRowContext(ctx, query,
		answers, attempt.Score, attempt.PointsEarned, attempt.Passed, attempt.ID,
	).Scan(&attempt.SubmittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("attempt not found: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgExamRepository.SubmitAttempt: %w", err)
	}
	return nil
}

func (r *pgExamRepository) CountPassedAttempts(ctx context.Context, userID, examID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exam_attempts WHERE user_id = $1 AND exam_id = $2 AND passed = TRUE`,
		userID, examID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgExamRepository.CountPassedAttempts: %w", err)
	}
	return count, nil
}

func (r *pgExamRepository) BestAttempt(ctx context.Context, userID, examID string) (*model.ExamAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM exam_attempts
	          WHERE user_id = $1 AND exam_id = $2 AND submitted_at IS NOT NULL
	          ORDER BY score DESC NULLS LAST, submitted_at ASC
	          LIMIT 1`
	a, err := scanAttempt(r.db.QueryRowContext(ctx, query, userID, examID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgExamRepository.BestAttempt: %w", err)
	}
	return a, nil
}
