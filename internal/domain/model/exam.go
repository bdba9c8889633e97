package model

import "time"

type Exam struct {
	ID              string    `json:"id"`
	WorkshopID      string    `json:"workshop_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	PassingScore    int       `json:"passing_score"`
	Points          int       `json:"points"`
	CreatedAt       time.Time `json:"created_at"`

	Questions   []ExamQuestion `json:"questions,omitempty"`
	BestAttempt *ExamAttempt   `json:"best_attempt,omitempty"` // Participant view
}

type ExamQuestion struct {
	ID            string    `json:"id"`
	ExamID        string    `json:"exam_id"`
	QuestionText  string    `json:"question_text"`
	QuestionType  string    `json:"question_type"`
	Options       []string  `json:"options,omitempty"`
	CorrectAnswer string    `json:"correct_answer,omitempty"` // Owner-only view
	Points        int       `json:"points"`
	OrderIndex    int       `json:"order_index"`
	CreatedAt     time.Time `json:"created_at"`
}

type ExamAttempt struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	ExamID       string            `json:"exam_id"`
	Answers      map[string]string `json:"answers"`
	Score        *int              `json:"score"`
	PointsEarned int               `json:"points_earned"`
	Passed       bool              `json:"passed"`
	StartedAt    time.Time         `json:"started_at"`
	SubmittedAt  *time.Time        `json:"submitted_at"`

	Exam *Exam `json:"exam,omitempty"` // Embedded on attempt start
}
