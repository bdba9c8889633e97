package model

import "time"

type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "pending"
	SubmissionPassed  SubmissionStatus = "passed"
	SubmissionFailed  SubmissionStatus = "failed"
)

type Challenge struct {
	ID          string    `json:"id"`
	WorkshopID  string    `json:"workshop_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	HTMLContent string    `json:"html_content"`
	Solution    *string   `json:"solution,omitempty"` // Owner-only view
	OrderIndex  int       `json:"order_index"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`

	Submission *ChallengeSubmission `json:"submission,omitempty"` // Caller's own, participant view
}

type ChallengeSubmission struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	ChallengeID    string           `json:"challenge_id"`
	SubmissionText string           `json:"submission_text"`
	SubmissionURL  string           `json:"submission_url"`
	Status         SubmissionStatus `json:"status"`
	PointsEarned   int              `json:"points_earned"`
	Feedback       *string          `json:"feedback,omitempty"`
	ReviewedBy     *string          `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time       `json:"reviewed_at,omitempty"`
	SubmittedAt    time.Time        `json:"submitted_at"`
	UserName       *string          `json:"user_name,omitempty"`  // For display
	UserEmail      *string          `json:"user_email,omitempty"` // For display
}
