package service

import (
	"context"
	"errors"
	"fmt"
	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"
	"workshop_hub/internal/domain/repository"

	"github.com/google/uuid"
)

type ParticipationService struct {
	participantRepo repository.ParticipantRepository
	workshopRepo    repository.WorkshopRepository
}

func NewParticipationService(participantRepo repository.ParticipantRepository, workshopRepo repository.WorkshopRepository) *ParticipationService {
	return &ParticipationService{participantRepo: participantRepo, workshopRepo: workshopRepo}
}

// Join files a pending request to participate in a workshop. Owners cannot
// join their own workshop, and a user can hold at most one participation per
// workshop.
func (s *ParticipationService) Join(ctx context.Context, workshopID, userID string) (*model.Participant, error) {
	workshop, err := s.workshopRepo.FindByID(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	if workshop.OwnerID != nil && *workshop.OwnerID == userID {
		return nil, common.WithCode(
			fmt.Errorf("workshop owner cannot join their own workshop: %w", common.ErrBadRequest),
			"OWNER_CANNOT_JOIN")
	}

	existing, err := s.participantRepo.FindByWorkshopAndUser(ctx, workshopID, userID)
	if err == nil {
		return nil, common.WithCode(
			fmt.Errorf("already joined with status %s: %w", existing.Status, common.ErrConflict),
			"ALREADY_JOINED")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	// The unique constraint catches the race where two join requests pass the
	// check above at once; the repo maps it to the same 409.
	participant := &model.Participant{
		ID:         uuid.NewString(),
		WorkshopID: workshopID,
		UserID:     userID,
		Status:     model.ParticipantPending,
	}
	if err := s.participantRepo.Create(ctx, participant); err != nil {
		return nil, err
	}
	return participant, nil
}

// SetStatus moves a participation to a new status. Only the workshop owner may
// do this; joined and rejected transitions record the approver.
func (s *ParticipationService) SetStatus(ctx context.Context, workshopID, participantID, callerID string, status model.ParticipantStatus) (*model.Participant, error) {
	if !model.ValidParticipantStatus(status) {
		return nil, common.WithCode(
			fmt.Errorf("invalid participant status %q: %w", status, common.ErrValidation),
			"INVALID_STATUS")
	}

	workshop, err := s.workshopRepo.FindByID(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	if workshop.OwnerID == nil || *workshop.OwnerID != callerID {
		return nil, fmt.Errorf("only the workshop owner may manage participants: %w", common.ErrForbidden)
	}

	participant, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if participant.WorkshopID != workshopID {
		return nil, common.WithCode(
			fmt.Errorf("participant does not belong to this workshop: %w", common.ErrBadRequest),
			"INVALID_PARTICIPANT")
	}

	var approvedBy *string
	if status.RequiresApprovalStamp() {
		approvedBy = &callerID
	}
	return s.participantRepo.UpdateStatus(ctx, participantID, status, approvedBy)
}

// Remove deletes a participation. Allowed for the workshop owner and for the
// participant removing themselves.
func (s *ParticipationService) Remove(ctx context.Context, workshopID, participantID, callerID string) error {
	workshop, err := s.workshopRepo.FindByID(ctx, workshopID)
	if err != nil {
		return err
	}

	participant, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		return err
	}
	if participant.WorkshopID != workshopID {
		return common.WithCode(
			fmt.Errorf("participant does not belong to this workshop: %w", common.ErrBadRequest),
			"INVALID_PARTICIPANT")
	}

	isOwner := workshop.OwnerID != nil && *workshop.OwnerID == callerID
	if !isOwner && participant.UserID != callerID {
		return fmt.Errorf("cannot remove another user's participation: %w", common.ErrForbidden)
	}
	return s.participantRepo.Delete(ctx, participantID)
}

// ListForWorkshop returns a workshop's participants, owner only. An optional
// status narrows the listing.
func (s *ParticipationService) ListForWorkshop(ctx context.Context, workshopID, callerID string, status *model.ParticipantStatus) ([]model.Participant, error) {
	if status != nil && !model.ValidParticipantStatus(*status) {
		return nil, common.WithCode(
			fmt.Errorf("invalid participant status %q: %w", *status, common.ErrValidation),
			"INVALID_STATUS")
	}

	workshop, err := s.workshopRepo.FindByID(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	if workshop.OwnerID == nil || *workshop.OwnerID != callerID {
		return nil, fmt.Errorf("only the workshop owner may list participants: %w", common.ErrForbidden)
	}
	return s.participantRepo.ListByWorkshop(ctx, workshopID, status)
}

// GroupedParticipants is the unfiltered owner listing, bucketed by status.
type GroupedParticipants struct {
	Pending    []model.Participant `json:"pending"`
	Joined     []model.Participant `json:"joined"`
	Rejected   []model.Participant `json:"rejected"`
	Waitlisted []model.Participant `json:"waitlisted"`
}

func (s *ParticipationService) GroupedForWorkshop(ctx context.Context, workshopID, callerID string) (*GroupedParticipants, error) {
	participants, err := s.ListForWorkshop(ctx, workshopID, callerID, nil)
	if err != nil {
		return nil, err
	}
	grouped := &GroupedParticipants{
		Pending:    []model.Participant{},
		Joined:     []model.Participant{},
		Rejected:   []model.Participant{},
		Waitlisted: []model.Participant{},
	}
	for _, p := range participants {
		switch p.Status {
		case model.ParticipantPending:
			grouped.Pending = append(grouped.Pending, p)
		case model.ParticipantJoined:
			grouped.Joined = append(grouped.Joined, p)
		case model.ParticipantRejected:
			grouped.Rejected = append(grouped.Rejected, p)
		case model.ParticipantWaitlisted:
			grouped.Waitlisted = append(grouped.Waitlisted, p)
		}
	}
	return grouped, nil
}

// ParticipationSummary groups a user's participations by status.
type ParticipationSummary struct {
	Pending    []model.UserParticipation `json:"pending"`
	Joined     []model.UserParticipation `json:"joined"`
	Rejected   []model.UserParticipation `json:"rejected"`
	Waitlisted []model.UserParticipation `json:"waitlisted"`
}

func (s *ParticipationService) MyParticipations(ctx context.Context, userID string) (*ParticipationSummary, error) {
	participations, err := s.participantRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &ParticipationSummary{
		Pending:    []model.UserParticipation{},
		Joined:     []model.UserParticipation{},
		Rejected:   []model.UserParticipation{},
		Waitlisted: []model.UserParticipation{},
	}
	for _, p := range participations {
		switch p.Status {
		case model.ParticipantPending:
			summary.Pending = append(summary.Pending, p)
		case model.ParticipantJoined:
			summary.Joined = append(summary.Joined, p)
		case model.ParticipantRejected:
			summary.Rejected = append(summary.Rejected, p)
		case model.ParticipantWaitlisted:
			summary.Waitlisted = append(summary.Waitlisted, p)
		}
	}
	return summary, nil
}

// IsJoinedParticipant reports whether userID is an approved participant of the
// workshop.
func (s *ParticipationService) IsJoinedParticipant(ctx context.Context, workshopID, userID string) (bool, error) {
	participant, err := s.participantRepo.FindByWorkshopAndUser(ctx, workshopID, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return participant.Status == model.ParticipantJoined, nil
}
