package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"
)

// PointsAward is a delta applied to a user's aggregate counters.
type PointsAward struct {
	Points     int
	Lessons    int
	Challenges int
	Exams      int
}

type PointsRepository interface {
	// Award upserts the user's aggregate row, adding the delta atomically.
	Award(ctx context.Context, userID string, award PointsAward) error
	FindByUser(ctx context.Context, userID string) (*model.UserPoints, error)
	// Rankings returns all aggregate rows with their freshly computed position,
	// ordered by total points descending with older updates winning ties.
	Rankings(ctx context.Context) ([]model.UserPoints, error)
	UpdateRanks(ctx context.Context, userID string, currentRank, previousRank int) error
	InsertHistory(ctx context.Context, history *model.LeaderboardHistory) error
	Leaderboard(ctx context.Context, limit int) ([]model.UserPoints, error)
	WorkshopLeaderboard(ctx context.Context, workshopID string) ([]model.WorkshopLeaderboardEntry, error)
}

type pgPointsRepository struct {
	db *sql.DB
}

func NewPgPointsRepository(db *sql.DB) PointsRepository {
	return &pgPointsRepository{db: db}
}

func (r *pgPointsRepository) Award(ctx context.Context, userID string, award PointsAward) error {
	query := `
		INSERT INTO user_points (user_id, total_points, lessons_completed, challenges_completed, exams_passed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			total_points = user_points.total_points + EXCLUDED.total_points,
			lessons_completed = user_points.lessons_completed + EXCLUDED.lessons_completed,
			challenges_completed = user_points.challenges_completed + EXCLUDED.challenges_completed,
			exams_passed = user_points.exams_passed + EXCLUDED.exams_passed,
			last_updated = now()`
	_, err := r.db.ExecContext(ctx, query, userID, award.Points, award.Lessons, award.Challenges, award.Exams)
	if err != nil {
		return fmt.Errorf("pgPointsRepository.Award: %w", err)
	}
	return nil
}

func (r *pgPointsRepository) FindByUser(ctx context.Context, userID string) (*model.UserPoints, error) {
	query := `SELECT up.user_id, up.total_points, up.lessons_completed, up.challenges_completed,
	                 up.exams_passed, up.current_rank, up.previous_rank, up.last_updated,
	                 u.name, u.email
	          FROM user_points up
	          JOIN users u ON up.user_id = u.id
	          WHERE up.user_id = $1`
	p := &model.UserPoints{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.TotalPoints, &p.LessonsCompleted, &p.ChallengesCompleted,
		&p.ExamsPassed, &p.CurrentRank, &p.PreviousRank, &p.LastUpdated,
		&p.Name, &p.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPointsRepository.FindByUser: %w", err)
	}
	return p, nil
}

func (r *pgPointsRepository) Rankings(ctx context.Context) ([]model.UserPoints, error) {
	query := `
		SELECT user_id, total_points, lessons_completed, challenges_completed,
		       exams_passed, current_rank, previous_rank, last_updated,
		       ROW_NUMBER() OVER (ORDER BY total_points DESC, last_updated ASC) AS position
		FROM user_points
		WHERE total_points > 0`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgPointsRepository.Rankings: %w", err)
	}
	defer rows.Close()

	rankings := []model.UserPoints{}
	for rows.Next() {
		var p model.UserPoints
		var position int
		err := rows.Scan(&p.UserID, &p.TotalPoints, &p.LessonsCompleted, &p.ChallengesCompleted,
			&p.ExamsPassed, &p.CurrentRank, &p.PreviousRank, &p.LastUpdated, &position)
		if err != nil {
			return nil, fmt.Errorf("pgPointsRepository.Rankings scan: %w", err)
		}
		// The row's stored rank is the one from the previous recompute; the
		// window position is the new rank the caller will persist.
		p.PreviousRank = p.CurrentRank
		p.CurrentRank = position
		rankings = append(rankings, p)
	}
	return rankings, rows.Err()
}

func (r *pgPointsRepository) UpdateRanks(ctx context.Context, userID string, currentRank, previousRank int) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_points SET current_rank = $1, previous_rank = $2 WHERE user_id = $3`,
		currentRank, previousRank, userID)
	if err != nil {
		return fmt.Errorf("pgPointsRepository.UpdateRanks: %w", err)
	}
	return nil
}

func (r *pgPointsRepository) InsertHistory(ctx context.Context, history *model.LeaderboardHistory) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO leaderboard_history (id, user_id, rank_position, total_points)
		 VALUES ($1, $2, $3, $4) RETURNING recorded_at`,
		history.ID, history.UserID, history.RankPosition, history.TotalPoints,
	).Scan(&history.RecordedAt)
	if err != nil {
		return fmt.Errorf("pgPointsRepository.InsertHistory: %w", err)
	}
	return nil
}

// leaderboardQuery lists scored users only; a user who has not earned any
// points yet never appears on the board.
const leaderboardQuery = `SELECT up.user_id, up.total_points, up.lessons_completed, up.challenges_completed,
	                 up.exams_passed, up.current_rank, up.previous_rank, up.last_updated,
	                 u.name, u.email
	          FROM user_points up
	          JOIN users u ON up.user_id = u.id
	          WHERE up.total_points > 0
	          ORDER BY up.total_points DESC, up.last_updated ASC
	          LIMIT $1`

func (r *pgPointsRepository) Leaderboard(ctx context.Context, limit int) ([]model.UserPoints, error) {
	rows, err := r.db.QueryContext(ctx, leaderboardQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("pgPointsRepository.Leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []model.UserPoints{}
	for rows.Next() {
		var p model.UserPoints
		err := rows.Scan(&p.UserID, &p.TotalPoints, &p.LessonsCompleted, &p.ChallengesCompleted,
			&p.ExamsPassed, &p.CurrentRank, &p.PreviousRank, &p.LastUpdated, &p.Name, &p.Email)
		if err != nil {
			return nil, fmt.Errorf("pgPointsRepository.Leaderboard scan: %w", err)
		}
		entries = append(entries, p)
	}
	return entries, rows.Err()
}

// WorkshopLeaderboard aggregates points earned inside one workshop only, for
// joined participants.
func (r *pgPointsRepository) WorkshopLeaderboard(ctx context.Context, workshopID string) ([]model.WorkshopLeaderboardEntry, error) {
	query := `
		SELECT u.id, u.name, u.email,
		       COALESCE(lp.points, 0) + COALESCE(cp.points, 0) + COALESCE(ep.points, 0) AS total_points,
		       COALESCE(lp.completed, 0), COALESCE(cp.completed, 0), COALESCE(ep.passed, 0)
		FROM participants p
		JOIN users u ON p.user_id = u.id
		LEFT JOIN (
			SELECT up.user_id, SUM(up.points_earned) AS points, COUNT(*) AS completed
			FROM user_progress up
			JOIN lessons l ON up.lesson_id = l.id
			WHERE l.workshop_id = $1
			GROUP BY up.user_id
		) lp ON lp.user_id = u.id
		LEFT JOIN (
			SELECT cs.user_id, SUM(cs.points_earned) AS points, COUNT(*) AS completed
			FROM challenge_submissions cs
			JOIN challenges c ON cs.challenge_id = c.id
			WHERE c.workshop_id = $1 AND cs.status = 'passed'
			GROUP BY cs.user_id
		) cp ON cp.user_id = u.id
		LEFT JOIN (
			SELECT ea.user_id, SUM(ea.points_earned) AS points, COUNT(DISTINCT ea.exam_id) AS passed
			FROM exam_attempts ea
			JOIN exams e ON ea.exam_id = e.id
			WHERE e.workshop_id = $1 AND ea.passed = TRUE
			GROUP BY ea.user_id
		) ep ON ep.user_id = u.id
		WHERE p.workshop_id = $1 AND p.status = 'joined'
		ORDER BY total_points DESC, u.name ASC`
	rows, err := r.db.QueryContext(ctx, query, workshopID)
	if err != nil {
		return nil, fmt.Errorf("pgPointsRepository.WorkshopLeaderboard: %w", err)
	}
	defer rows.Close()

	entries := []model.WorkshopLeaderboardEntry{}
	for rows.Next() {
		var e model.WorkshopLeaderboardEntry
		err := rows.Scan(&e.UserID, &e.Name, &e.Email, &e.TotalPoints,
			&e.LessonsCompleted, &e.ChallengesCompleted, &e.ExamsPassed)
		if err != nil {
			return nil, fmt.Errorf("pgPointsRepository.WorkshopLeaderboard scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
