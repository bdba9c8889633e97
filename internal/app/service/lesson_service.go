package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"workshop_hub/internal/common"
	"workshop_hub/internal/common/validation"
	"workshop_hub/internal/domain/model"
	"workshop_hub/internal/domain/repository"

	"github.com/google/uuid"
)

type LessonService struct {
	lessonRepo   repository.LessonRepository
	workshopRepo repository.WorkshopRepository
	points       *PointsService
}

func NewLessonService(lessonRepo repository.LessonRepository, workshopRepo repository.WorkshopRepository, points *PointsService) *LessonService {
	return &LessonService{
		lessonRepo:   lessonRepo,
		workshopRepo: workshopRepo,
		points:       points,
	}
}

type CreateLessonRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
	Content     string `json:"content"`
	OrderIndex  int    `json:"order_index"`
	Points      int    `json:"points"`
}

type UpdateLessonRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Content     *string `json:"content"`
	OrderIndex  *int    `json:"order_index"`
	Points      *int    `json:"points"`
}

type AddMaterialRequest struct {
	MaterialType string `json:"material_type" validate:"required"`
	Title        string `json:"title" validate:"required,max=200"`
	URL          string `json:"url" validate:"required,url"`
	FileSize     *int64 `json:"file_size"`
	Duration     *int   `json:"duration"`
}

// CompleteLessonResponse reports the credit for this lesson together with the
// caller's running total.
type CompleteLessonResponse struct {
	LessonID     string `json:"lesson_id"`
	PointsEarned int    `json:"points_earned"`
	TotalPoints  int    `json:"total_points"`
}

func (s *LessonService) requireWorkshopOwner(ctx context.Context, workshopID, callerID string) error {
	workshop, err := s.workshopRepo.FindByID(ctx, workshopID)
	if err != nil {
		return err
	}
	if workshop.OwnerID == nil || *workshop.OwnerID != callerID {
		return fmt.Errorf("only the workshop owner may manage lessons: %w", common.ErrForbidden)
	}
	return nil
}

func (s *LessonService) Create(ctx context.Context, workshopID, callerID string, req CreateLessonRequest) (*model.Lesson, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := validation.HTMLContent(req.Content); err != nil {
		return nil, err
	}
	if err := s.requireWorkshopOwner(ctx, workshopID, callerID); err != nil {
		return nil, err
	}

	points := req.Points
	if points <= 0 {
		points = 10
	}
	lesson := &model.Lesson{
		ID:          uuid.NewString(),
		WorkshopID:  workshopID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Content:     req.Content,
		OrderIndex:  req.OrderIndex,
		Points:      points,
	}
	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, err
	}
	lesson.Materials = []model.LessonMaterial{}
	return lesson, nil
}

// List is public and embeds each lesson's materials.
func (s *LessonService) List(ctx context.Context, workshopID string) ([]model.Lesson, error) {
	if _, err := s.workshopRepo.FindByID(ctx, workshopID); err != nil {
		return nil, err
	}
	lessons, err := s.lessonRepo.ListByWorkshop(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	for i := range lessons {
		materials, err := s.lessonRepo.ListMaterials(ctx, lessons[i].ID)
		if err != nil {
			return nil, err
		}
		lessons[i].Materials = materials
	}
	return lessons, nil
}

func (s *LessonService) Get(ctx context.Context, lessonID string) (*model.Lesson, error) {
	lesson, err := s.lessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	materials, err := s.lessonRepo.ListMaterials(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	lesson.Materials = materials
	return lesson, nil
}

func (s *LessonService) Update(ctx context.Context, lessonID, callerID string, req UpdateLessonRequest) (*model.Lesson, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Content != nil {
		if err := validation.HTMLContent(*req.Content); err != nil {
			return nil, err
		}
	}
	lesson, err := s.lessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.requireWorkshopOwner(ctx, lesson.WorkshopID, callerID); err != nil {
		return nil, err
	}
	return s.lessonRepo.Update(ctx, lessonID, repository.LessonUpdate{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		OrderIndex:  req.OrderIndex,
		Points:      req.Points,
	})
}

func (s *LessonService) Delete(ctx context.Context, lessonID, callerID string) error {
	lesson, err := s.lessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if err := s.requireWorkshopOwner(ctx, lesson.WorkshopID, callerID); err != nil {
		return err
	}
	return s.lessonRepo.Delete(ctx, lessonID)
}

func (s *LessonService) AddMaterial(ctx context.Context, lessonID, callerID string, req AddMaterialRequest) (*model.LessonMaterial, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	materialType := model.MaterialType(req.MaterialType)
	if !model.ValidMaterialType(materialType) {
		return nil, fmt.Errorf("invalid material type %q: %w", req.MaterialType, common.ErrValidation)
	}
	lesson, err := s.lessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if err := s.requireWorkshopOwner(ctx, lesson.WorkshopID, callerID); err != nil {
		return nil, err
	}

	material := &model.LessonMaterial{
		ID:           uuid.NewString(),
		LessonID:     lessonID,
		MaterialType: materialType,
		Title:        strings.TrimSpace(req.Title),
		URL:          req.URL,
		FileSize:     req.FileSize,
		Duration:     req.Duration,
	}
	if err := s.lessonRepo.AddMaterial(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

func (s *LessonService) DeleteMaterial(ctx context.Context, lessonID, materialID, callerID string) error {
	lesson, err := s.lessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if err := s.requireWorkshopOwner(ctx, lesson.WorkshopID, callerID); err != nil {
		return err
	}
	return s.lessonRepo.DeleteMaterial(ctx, materialID, lessonID)
}

// Complete marks a lesson done for the caller and credits its points once. A
// repeat completion is a no-op that reports the unchanged totals.
func (s *LessonService) Complete(ctx context.Context, lessonID, callerID string) (*CompleteLessonResponse, error) {
	lesson, err := s.lessonRepo.FindByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	existing, err := s.lessonRepo.FindProgress(ctx, callerID, lessonID)
	if err == nil && existing.Completed {
		total, err := s.points.TotalPoints(ctx, callerID)
		if err != nil {
			return nil, err
		}
		return &CompleteLessonResponse{
			LessonID:     lessonID,
			PointsEarned: existing.PointsEarned,
			TotalPoints:  total,
		}, nil
	}
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	progress := &model.UserProgress{
		ID:           uuid.NewString(),
		UserID:       callerID,
		LessonID:     lessonID,
		Completed:    true,
		PointsEarned: lesson.Points,
	}
	if err := s.lessonRepo.CreateProgress(ctx, progress); err != nil {
		// A concurrent completion hit the unique constraint first; treat it
		// the same as the already-completed path.
		if errors.Is(err, common.ErrConflict) {
			total, terr := s.points.TotalPoints(ctx, callerID)
			if terr != nil {
				return nil, terr
			}
			return &CompleteLessonResponse{
				LessonID:     lessonID,
				PointsEarned: lesson.Points,
				TotalPoints:  total,
			}, nil
		}
		return nil, err
	}

	if err := s.points.AwardLessonPoints(ctx, callerID, lesson.Points); err != nil {
		return nil, err
	}
	total, err := s.points.TotalPoints(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return &CompleteLessonResponse{
		LessonID:     lessonID,
		PointsEarned: lesson.Points,
		TotalPoints:  total,
	}, nil
}

// Progress lists the caller's completions within a workshop.
func (s *LessonService) Progress(ctx context.Context, workshopID, callerID string) ([]model.UserProgress, error) {
	if _, err := s.workshopRepo.FindByID(ctx, workshopID); err != nil {
		return nil, err
	}
	return s.lessonRepo.ListProgressByUser(ctx, callerID, workshopID)
}
