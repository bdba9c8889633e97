package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"workshop_hub/internal/common"
	"workshop_hub/internal/common/validation"
	"workshop_hub/internal/domain/model"
	"workshop_hub/internal/platform/filestore"

	"github.com/google/uuid"
)

// LegacyService serves the v1 file-store surface: public capacity-based
// registration without accounts. The store's advisory lock is the only
// serialization; capacity checks are read-then-write as they always were.
type LegacyService struct {
	store *filestore.Store
}

func NewLegacyService(store *filestore.Store) *LegacyService {
	return &LegacyService{store: store}
}

type CreateLegacyWorkshopRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Capacity     int    `json:"capacity"`
	DeliveryMode string `json:"delivery_mode"`
}

// RegistrationRequest is the v1 public signup payload, keeping the original
// wire-field names.
type RegistrationRequest struct {
	Name  string `json:"participant_name"`
	Email string `json:"participant_email"`
}

func (s *LegacyService) CreateWorkshop(ctx context.Context, req CreateLegacyWorkshopRequest) (*model.LegacyWorkshop, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", common.ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("description is required: %w", common.ErrValidation)
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("start_time must be RFC3339: %w", common.ErrValidation)
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("end_time must be RFC3339: %w", common.ErrValidation)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("start_time must be before end_time: %w", common.ErrValidation)
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be greater than zero: %w", common.ErrValidation)
	}
	mode := model.DeliveryMode(req.DeliveryMode)
	if !model.ValidDeliveryMode(mode) {
		return nil, fmt.Errorf("delivery_mode must be online, face-to-face or hybrid: %w", common.ErrValidation)
	}

	workshop := model.LegacyWorkshop{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Capacity:      req.Capacity,
		DeliveryMode:  mode,
		Status:        model.WorkshopPending,
		SignupEnabled: true,
	}
	if err := s.store.AddWorkshop(workshop); err != nil {
		return nil, err
	}
	return &workshop, nil
}

func (s *LegacyService) ListWorkshops(ctx context.Context) ([]model.LegacyWorkshop, error) {
	return s.store.AllWorkshops()
}

func (s *LegacyService) GetWorkshop(ctx context.Context, id string) (*model.LegacyWorkshop, error) {
	workshop, err := s.store.GetWorkshop(id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.WithCode(
				fmt.Errorf("workshop not found: %w", common.ErrNotFound), "WORKSHOP_NOT_FOUND")
		}
		return nil, err
	}
	return workshop, nil
}

func (s *LegacyService) SetStatus(ctx context.Context, id string, status model.WorkshopStatus) (*model.LegacyWorkshop, error) {
	if !model.ValidWorkshopStatus(status) {
		return nil, fmt.Errorf("status must be pending, ongoing or completed: %w", common.ErrValidation)
	}
	workshop, err := s.GetWorkshop(ctx, id)
	if err != nil {
		return nil, err
	}
	workshop.Status = status
	if err := s.store.UpdateWorkshop(*workshop); err != nil {
		return nil, err
	}
	return workshop, nil
}

func (s *LegacyService) SetSignupEnabled(ctx context.Context, id string, enabled bool) (*model.LegacyWorkshop, error) {
	workshop, err := s.GetWorkshop(ctx, id)
	if err != nil {
		return nil, err
	}
	workshop.SignupEnabled = enabled
	if err := s.store.UpdateWorkshop(*workshop); err != nil {
		return nil, err
	}
	return workshop, nil
}

type CreateLegacyChallengeRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	HTMLContent string `json:"html_content"`
}

func (s *LegacyService) AddChallenge(ctx context.Context, workshopID string, req CreateLegacyChallengeRequest) (*model.LegacyChallenge, error) {
	if _, err := s.GetWorkshop(ctx, workshopID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", common.ErrValidation)
	}
	if err := validation.HTMLContent(req.HTMLContent); err != nil {
		return nil, err
	}

	challenge := model.LegacyChallenge{
		ID:          uuid.NewString(),
		WorkshopID:  workshopID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		HTMLContent: req.HTMLContent,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.store.AddChallenge(challenge); err != nil {
		return nil, err
	}
	return &challenge, nil
}

func (s *LegacyService) ListChallenges(ctx context.Context, workshopID string) ([]model.LegacyChallenge, error) {
	if _, err := s.GetWorkshop(ctx, workshopID); err != nil {
		return nil, err
	}
	return s.store.ChallengesForWorkshop(workshopID)
}

func (s *LegacyService) AllRegistrations(ctx context.Context) ([]model.Registration, error) {
	return s.store.AllRegistrations()
}

// Register signs a participant up for a workshop. Checks run in a fixed
// order: existence, field presence, email format, signup toggle, status,
// capacity. The capacity check reads then writes; near-capacity races can
// oversubscribe, as in the original system.
func (s *LegacyService) Register(ctx context.Context, workshopID string, req RegistrationRequest) (*model.Registration, error) {
	workshop, err := s.GetWorkshop(ctx, workshopID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("name is required: %w", common.ErrValidation)
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("email is required: %w", common.ErrValidation)
	}
	if err := validation.Email(req.Email); err != nil {
		return nil, err
	}

	if !workshop.SignupEnabled {
		return nil, fmt.Errorf("signup is disabled for this workshop: %w", common.ErrForbidden)
	}
	if workshop.Status == model.WorkshopOngoing || workshop.Status == model.WorkshopCompleted {
		return nil, fmt.Errorf("workshop is %s and no longer accepts registrations: %w",
			workshop.Status, common.ErrForbidden)
	}
	if workshop.RegistrationCount >= workshop.Capacity {
		return nil, fmt.Errorf("workshop is full: %w", common.ErrConflict)
	}

	registration := model.Registration{
		ID:               uuid.NewString(),
		WorkshopID:       workshopID,
		ParticipantName:  strings.TrimSpace(req.Name),
		ParticipantEmail: req.Email,
		RegisteredAt:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.store.AddRegistration(registration); err != nil {
		return nil, err
	}

	workshop.RegistrationCount++
	if err := s.store.UpdateWorkshop(*workshop); err != nil {
		return nil, err
	}
	return &registration, nil
}
