package model

import "time"

type MaterialType string

const (
	MaterialVideo MaterialType = "video"
	MaterialPDF   MaterialType = "pdf"
	MaterialLink  MaterialType = "link"
)

func ValidMaterialType(t MaterialType) bool {
	return t == MaterialVideo || t == MaterialPDF || t == MaterialLink
}

type Lesson struct {
	ID          string    `json:"id"`
	WorkshopID  string    `json:"workshop_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	OrderIndex  int       `json:"order_index"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`

	Materials []LessonMaterial `json:"materials,omitempty"`
}

type LessonMaterial struct {
	ID           string       `json:"id"`
	LessonID     string       `json:"lesson_id"`
	MaterialType MaterialType `json:"material_type"`
	Title        string       `json:"title"`
	URL          string       `json:"url"`
	FileSize     *int64       `json:"file_size,omitempty"`
	Duration     *int         `json:"duration,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// UserProgress marks lesson completion once per (user, lesson).
type UserProgress struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	LessonID     string     `json:"lesson_id"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	PointsEarned int        `json:"points_earned"`
}
