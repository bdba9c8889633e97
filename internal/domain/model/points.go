package model

import "time"

// UserPoints is the cached per-user aggregate, recomputed on every scoring
// event.
type UserPoints struct {
	UserID              string    `json:"user_id"`
	TotalPoints         int       `json:"total_points"`
	LessonsCompleted    int       `json:"lessons_completed"`
	ChallengesCompleted int       `json:"challenges_completed"`
	ExamsPassed         int       `json:"exams_passed"`
	CurrentRank         int       `json:"current_rank"`
	PreviousRank        int       `json:"previous_rank"`
	LastUpdated         time.Time `json:"last_updated"`
	Name                string    `json:"name,omitempty"`  // For display
	Email               string    `json:"email,omitempty"` // For display
}

type RankDirection string

const (
	RankUp   RankDirection = "up"
	RankDown RankDirection = "down"
	RankSame RankDirection = "same"
	RankNew  RankDirection = "new"
)

// RankInfo describes a user's movement since the previous recompute.
type RankInfo struct {
	Rank         int           `json:"rank"`
	PreviousRank int           `json:"previous_rank"`
	Change       int           `json:"change"`
	Direction    RankDirection `json:"direction"`
	TotalPoints  int           `json:"total_points"`
}

type LeaderboardEntry struct {
	UserPoints
	RankInfo RankInfo `json:"rank_info"`
}

// LeaderboardHistory rows are appended only when a user's rank changes.
type LeaderboardHistory struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	RankPosition int       `json:"rank_position"`
	TotalPoints  int       `json:"total_points"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// WorkshopLeaderboardEntry aggregates a joined participant's points within a
// single workshop.
type WorkshopLeaderboardEntry struct {
	UserID              string `json:"user_id"`
	Name                string `json:"name"`
	Email               string `json:"email"`
	TotalPoints         int    `json:"total_points"`
	LessonsCompleted    int    `json:"lessons_completed"`
	ChallengesCompleted int    `json:"challenges_completed"`
	ExamsPassed         int    `json:"exams_passed"`
}
