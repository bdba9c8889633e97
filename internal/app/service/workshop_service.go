package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"workshop_hub/internal/common"
	"workshop_hub/internal/common/validation"
	"workshop_hub/internal/domain/model"
	"workshop_hub/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type WorkshopService struct {
	workshopRepo repository.WorkshopRepository
}

func NewWorkshopService(workshopRepo repository.WorkshopRepository) *WorkshopService {
	return &WorkshopService{workshopRepo: workshopRepo}
}

type CreateWorkshopRequest struct {
	Title         string     `json:"title" validate:"required,max=200"`
	Description   string     `json:"description" validate:"max=1000"`
	Status        string     `json:"status"`
	SignupEnabled *bool      `json:"signup_enabled"`
	WorkshopDate  *time.Time `json:"workshop_date"`
	VenueType     string     `json:"venue_type"`
	VenueAddress  *string    `json:"venue_address"`
}

type UpdateWorkshopRequest struct {
	Title         *string    `json:"title" validate:"omitempty,max=200"`
	Description   *string    `json:"description" validate:"omitempty,max=1000"`
	Status        *string    `json:"status"`
	SignupEnabled *bool      `json:"signup_enabled"`
	WorkshopDate  *time.Time `json:"workshop_date"`
	VenueType     *string    `json:"venue_type"`
	VenueAddress  *string    `json:"venue_address"`
}

func (s *WorkshopService) Create(ctx context.Context, ownerID string, req CreateWorkshopRequest) (*model.Workshop, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("title is required: %w", common.ErrValidation)
	}

	status := model.WorkshopPending
	if req.Status != "" {
		status = model.WorkshopStatus(req.Status)
		if !model.ValidWorkshopStatus(status) {
			return nil, common.WithCode(
				fmt.Errorf("invalid workshop status %q: %w", req.Status, common.ErrValidation),
				"INVALID_STATUS")
		}
	}

	venueType := model.VenueOnline
	if req.VenueType != "" {
		venueType = model.VenueType(req.VenueType)
		if !model.ValidVenueType(venueType) {
			return nil, fmt.Errorf("invalid venue type %q: %w", req.VenueType, common.ErrValidation)
		}
	}

	signupEnabled := true
	if req.SignupEnabled != nil {
		signupEnabled = *req.SignupEnabled
	}

	id := uuid.NewString()
	workshop := &model.Workshop{
		ID:            id,
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Slug:          workshopSlug(req.Title, id),
		Status:        status,
		SignupEnabled: signupEnabled,
		WorkshopDate:  req.WorkshopDate,
		VenueType:     venueType,
		VenueAddress:  req.VenueAddress,
		OwnerID:       &ownerID,
	}

	if err := s.workshopRepo.Create(ctx, workshop); err != nil {
		return nil, err
	}
	return workshop, nil
}

// workshopSlug derives a URL-safe slug, suffixed with a slice of the id so two
// workshops with the same title never collide.
func workshopSlug(title, id string) string {
	return slug.Make(title) + "-" + id[:8]
}

func (s *WorkshopService) Get(ctx context.Context, id string) (*model.Workshop, error) {
	return s.workshopRepo.FindByID(ctx, id)
}

func (s *WorkshopService) List(ctx context.Context) ([]model.Workshop, error) {
	return s.workshopRepo.List(ctx)
}

func (s *WorkshopService) ListByOwner(ctx context.Context, ownerID string) ([]model.Workshop, error) {
	return s.workshopRepo.ListByOwner(ctx, ownerID)
}

// Update applies a partial update. Only the owner may modify a workshop.
func (s *WorkshopService) Update(ctx context.Context, id, callerID string, req UpdateWorkshopRequest) (*model.Workshop, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	workshop, err := s.workshopRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if workshop.OwnerID == nil || *workshop.OwnerID != callerID {
		return nil, fmt.Errorf("only the workshop owner may update it: %w", common.ErrForbidden)
	}

	update := repository.WorkshopUpdate{
		Title:         req.Title,
		Description:   req.Description,
		SignupEnabled: req.SignupEnabled,
		WorkshopDate:  req.WorkshopDate,
		VenueAddress:  req.VenueAddress,
	}
	if req.Status != nil {
		status := model.WorkshopStatus(*req.Status)
		if !model.ValidWorkshopStatus(status) {
			return nil, common.WithCode(
				fmt.Errorf("invalid workshop status %q: %w", *req.Status, common.ErrValidation),
				"INVALID_STATUS")
		}
		update.Status = &status
	}
	if req.VenueType != nil {
		venueType := model.VenueType(*req.VenueType)
		if !model.ValidVenueType(venueType) {
			return nil, fmt.Errorf("invalid venue type %q: %w", *req.VenueType, common.ErrValidation)
		}
		update.VenueType = &venueType
	}

	return s.workshopRepo.Update(ctx, id, update)
}

func (s *WorkshopService) Delete(ctx context.Context, id, callerID string) error {
	workshop, err := s.workshopRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if workshop.OwnerID == nil || *workshop.OwnerID != callerID {
		return fmt.Errorf("only the workshop owner may delete it: %w", common.ErrForbidden)
	}
	return s.workshopRepo.Delete(ctx, id)
}

// IsOwner reports whether callerID owns the workshop, loading it first.
func (s *WorkshopService) IsOwner(workshop *model.Workshop, callerID string) bool {
	return workshop.OwnerID != nil && *workshop.OwnerID == callerID
}
