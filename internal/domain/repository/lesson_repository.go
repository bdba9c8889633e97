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

	"github.com/jackc/pgx/v5/pgconn"
)

// LessonUpdate carries the optional fields of a partial update; nil means
// leave unchanged.
type LessonUpdate struct {
	Title       *string
	Description *string
	Content     *string
	OrderIndex  *int
	Points      *int
}

type LessonRepository interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	FindByID(ctx context.Context, id string) (*model.Lesson, error)
	ListByWorkshop(ctx context.Context, workshopID string) ([]model.Lesson, error)
	Update(ctx context.Context, id string, update LessonUpdate) (*model.Lesson, error)
	Delete(ctx context.Context, id string) error

	AddMaterial(ctx context.Context, material *model.LessonMaterial) error
	ListMaterials(ctx context.Context, lessonID string) ([]model.LessonMaterial, error)
	DeleteMaterial(ctx context.Context, id, lessonID string) error

	// CreateProgress records a completion. A second completion for the same
	// (user, lesson) hits the unique constraint and maps to ErrConflict, which
	// is what keeps lesson points idempotent.
	CreateProgress(ctx context.Context, progress *model.UserProgress) error
	FindProgress(ctx context.Context, userID, lessonID string) (*model.UserProgress, error)
	ListProgressByUser(ctx context.Context, userID, workshopID string) ([]model.UserProgress, error)
}

type pgLessonRepository struct {
	db *sql.DB
}

func NewPgLessonRepository(db *sql.DB) LessonRepository {
	return &pgLessonRepository{db: db}
}

const lessonColumns = `id, workshop_id, title, COALESCE(description, ''),
	COALESCE(content, ''), order_index, points, created_at`

func scanLesson(row interface{ Scan(...interface{}) error }) (*model.Lesson, error) {
	l := &model.Lesson{}
	err := row.Scan(
		&l.ID, &l.WorkshopID, &l.Title, &l.Description,
		&l.Content, &l.OrderIndex, &l.Points, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *pgLessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	query := `INSERT INTO lessons (id, workshop_id, title, description, content, order_index, points)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		lesson.ID, lesson.WorkshopID, lesson.Title, lesson.Description,
		lesson.Content, lesson.OrderIndex, lesson.Points,
	).Scan(&lesson.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgLessonRepository.Create: %w", err)
	}
	return nil
}

func (r *pgLessonRepository) FindByID(ctx context.Context, id string) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`
	l, err := scanLesson(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lesson not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgLessonRepository.FindByID: %w", err)
	}
	return l, nil
}

func (r *pgLessonRepository) ListByWorkshop(ctx context.Context, workshopID string) ([]model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons
	          WHERE workshop_id = $1 ORDER BY order_index ASC, created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, workshopID)
	if err != nil {
		return nil, fmt.Errorf("pgLessonRepository.ListByWorkshop: %w", err)
	}
	defer rows.Close()

	lessons := []model.Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("pgLessonRepository.ListByWorkshop scan: %w", err)
		}
		lessons = append(lessons, *l)
	}
	return lessons, rows.Err()
}

func (r *pgLessonRepository) Update(ctx context.Context, id string, update LessonUpdate) (*model.Lesson, error) {
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
	if update.Content != nil {
		add("content", *update.Content)
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
	query := `UPDATE lessons SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + lessonColumns

	l, err := scanLesson(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("lesson not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgLessonRepository.Update: %w", err)
	}
	return l, nil
}

func (r *pgLessonRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgLessonRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("lesson not found: %w", common.ErrNotFound)
	}
	return nil
}

func (r *pgLessonRepository) AddMaterial(ctx context.Context, material *model.LessonMaterial) error {
	query := `INSERT INTO lesson_materials (id, lesson_id, material_type, title, url, file_size, duration)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		material.ID, material.LessonID, material.MaterialType, material.Title,
		material.URL, material.FileSize, material.Duration,
	).Scan(&material.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgLessonRepository.AddMaterial: %w", err)
	}
	return nil
}

func (r *pgLessonRepository) ListMaterials(ctx context.Context, lessonID string) ([]model.LessonMaterial, error) {
	query := `SELECT id, lesson_id, material_type, title, url, file_size, duration, created_at
	          FROM lesson_materials WHERE lesson_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("pgLessonRepository.ListMaterials: %w", err)
	}
	defer rows.Close()

	materials := []model.LessonMaterial{}
	for rows.Next() {
		var m model.LessonMaterial
		err := rows.Scan(&m.ID, &m.LessonID, &m.MaterialType, &m.Title, &m.URL,
			&m.FileSize, &m.Duration, &m.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("pgLessonRepository.ListMaterials scan: %w", err)
		}
		materials = append(materials, m)
	}
	return materials, rows.Err()
}

func (r *pgLessonRepository) DeleteMaterial(ctx context.Context, id, lessonID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM lesson_materials WHERE id = $1 AND lesson_id = $2`, id, lessonID)
	if err != nil {
		return fmt.Errorf("pgLessonRepository.DeleteMaterial: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("material not found: %w", common.ErrNotFound)
	}
	return nil
}

func (r *pgLessonRepository) CreateProgress(ctx context.Context, progress *model.UserProgress) error {
	query := `INSERT INTO user_progress (id, user_id, lesson_id, completed, completed_at, points_earned)
	          VALUES ($1, $2, $3, $4, now(), $5)
	          RETURNING completed_at`
	err := r.db.QueryRowContext(ctx, query,
		progress.ID, progress.UserID, progress.LessonID, progress.Completed, progress.PointsEarned,
	).Scan(&progress.CompletedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("lesson already completed: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgLessonRepository.CreateProgress: %w", err)
	}
	return nil
}

func (r *pgLessonRepository) FindProgress(ctx context.Context, userID, lessonID string) (*model.UserProgress, error) {
	query := `SELECT id, user_id, lesson_id, completed, completed_at, points_earned
	          FROM user_progress WHERE user_id = $1 AND lesson_id = $2`
	p := &model.UserProgress{}
	err := r.db.QueryRowContext(ctx, query, userID, lessonID).Scan(
		&p.ID, &p.UserID, &p.LessonID, &p.Completed, &p.CompletedAt, &p.PointsEarned,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgLessonRepository.FindProgress: %w", err)
	}
	return p, nil
}

func (r *pgLessonRepository) ListProgressByUser(ctx context.Context, userID, workshopID string) ([]model.UserProgress, error) {
	query := `SELECT up.id, up.user_id, up.lesson_id, up.completed, up.completed_at, up.points_earned
	          FROM user_progress up
	          JOIN lessons l ON up.lesson_id = l.id
	          WHERE up.user_id = $1 AND l.workshop_id = $2`
	rows, err := r.db.QueryContext(ctx, query, userID, workshopID)
	if err != nil {
		return nil, fmt.Errorf("pgLessonRepository.ListProgressByUser: %w", err)
	}
	defer rows.Close()

	progress := []model.UserProgress{}
	for rows.Next() {
		var p model.UserProgress
		err := rows.Scan(&p.ID, &p.UserID, &p.LessonID, &p.Completed, &p.CompletedAt, &p.PointsEarned)
		if err != nil {
			return nil, fmt.Errorf("pgLessonRepository.ListProgressByUser scan: %w", err)
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}
