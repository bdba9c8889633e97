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

type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
	workshopRepo  repository.WorkshopRepository
	participation *ParticipationService
	points        *PointsService
}

func NewChallengeService(challengeRepo repository.ChallengeRepository, workshopRepo repository.WorkshopRepository, participation *ParticipationService, points *PointsService) *ChallengeService {
	return &ChallengeService{
		challengeRepo: challengeRepo,
		workshopRepo:  workshopRepo,
		participation: participation,
		points:        points,
	}
}

type CreateChallengeRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"required,max=1000"`
	HTMLContent string  `json:"html_content"`
	Solution    *string `json:"solution"`
	OrderIndex  int     `json:"order_index"`
	Points      int     `json:"points"`
}

type UpdateChallengeRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	HTMLContent *string `json:"html_content"`
	Solution    *string `json:"solution"`
	OrderIndex  *int    `json:"order_index"`
	Points      *int    `json:"points"`
}

type SubmitChallengeRequest struct {
	SubmissionText string `json:"submission_text"`
	SubmissionURL  string `json:"submission_url"`
}

type ReviewSubmissionRequest struct {
	Status   string  `json:"status" validate:"required"`
	Feedback *string `json:"feedback"`
}

func (s *ChallengeService) requireWorkshopOwner(ctx context.Context, workshopID, callerID string) error {
	workshop, err := s.workshopRepo.FindByID(ctx, workshopID)
	if err != nil {
		return err
	}
	if workshop.OwnerID == nil || *workshop.OwnerID != callerID {
		return fmt.Errorf("only the workshop owner may manage challenges: %w", common.ErrForbidden)
	}
	return nil
}

func (s *ChallengeService) Create(ctx context.Context, workshopID, callerID string, req CreateChallengeRequest) (*model.Challenge, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := validation.HTMLContent(req.HTMLContent); err != nil {
		return nil, err
	}
	if err := s.requireWorkshopOwner(ctx, workshopID, callerID); err != nil {
		return nil, err
	}

	points := req.Points
	if points <= 0 {
		points = 20
	}
	challenge := &model.Challenge{
		ID:          uuid.NewString(),
		WorkshopID:  workshopID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		HTMLContent: req.HTMLContent,
		Solution:    req.Solution,
		OrderIndex:  req.OrderIndex,
		Points:      points,
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

// List returns a workshop's challenges. Owners see solutions; everyone else
// gets the solution stripped and their own submission attached.
func (s *ChallengeService) List(ctx context.Context, workshopID, callerID string) ([]model.Challenge, error) {
	workshop, err := s.workshopRepo.FindByID(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	isOwner := workshop.OwnerID != nil && *workshop.OwnerID == callerID

	challenges, err := s.challengeRepo.ListByWorkshop(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	if isOwner {
		return challenges, nil
	}
	for i := range challenges {
		challenges[i].Solution = nil
		submission, err := s.challengeRepo.FindSubmission(ctx, callerID, challenges[i].ID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, err
		}
		challenges[i].Submission = submission
	}
	return challenges, nil
}

func (s *ChallengeService) Update(ctx context.Context, challengeID, callerID string, req UpdateChallengeRequest) (*model.Challenge, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.HTMLContent != nil {
		if err := validation.HTMLContent(*req.HTMLContent); err != nil {
			return nil, err
		}
	}
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if err := s.requireWorkshopOwner(ctx, challenge.WorkshopID, callerID); err != nil {
		return nil, err
	}
	return s.challengeRepo.Update(ctx, challengeID, repository.ChallengeUpdate{
		Title:       req.Title,
		Description: req.Description,
		HTMLContent: req.HTMLContent,
		Solution:    req.Solution,
		OrderIndex:  req.OrderIndex,
		Points:      req.Points,
	})
}

func (s *ChallengeService) Delete(ctx context.Context, challengeID, callerID string) error {
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return err
	}
	if err := s.requireWorkshopOwner(ctx, challenge.WorkshopID, callerID); err != nil {
		return err
	}
	return s.challengeRepo.Delete(ctx, challengeID)
}

// Submit records a participant's answer. Resubmission replaces the previous
// answer and resets it to pending.
func (s *ChallengeService) Submit(ctx context.Context, challengeID, callerID string, req SubmitChallengeRequest) (*model.ChallengeSubmission, error) {
	if strings.TrimSpace(req.SubmissionText) == "" && strings.TrimSpace(req.SubmissionURL) == "" {
		return nil, fmt.Errorf("submission_text or submission_url is required: %w", common.ErrValidation)
	}

	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	joined, err := s.participation.IsJoinedParticipant(ctx, challenge.WorkshopID, callerID)
	if err != nil {
		return nil, err
	}
	if !joined {
		return nil, fmt.Errorf("only approved participants may submit: %w", common.ErrForbidden)
	}

	submission := &model.ChallengeSubmission{
		ID:             uuid.NewString(),
		UserID:         callerID,
		ChallengeID:    challengeID,
		SubmissionText: req.SubmissionText,
		SubmissionURL:  req.SubmissionURL,
		Status:         model.SubmissionPending,
	}
	if err := s.challengeRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// ListSubmissions returns every submission for a challenge, owner only.
func (s *ChallengeService) ListSubmissions(ctx context.Context, challengeID, callerID string) ([]model.ChallengeSubmission, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if err := s.requireWorkshopOwner(ctx, challenge.WorkshopID, callerID); err != nil {
		return nil, err
	}
	return s.challengeRepo.ListSubmissionsByChallenge(ctx, challengeID)
}

// Review grades a submission. Only the owner of the workshop the challenge
// belongs to may review; a passed verdict credits the challenge's points.
func (s *ChallengeService) Review(ctx context.Context, submissionID, callerID string, req ReviewSubmissionRequest) (*model.ChallengeSubmission, error) {
	status := model.SubmissionStatus(req.Status)
	if status != model.SubmissionPassed && status != model.SubmissionFailed {
		return nil, common.WithCode(
			fmt.Errorf("review status must be passed or failed: %w", common.ErrValidation),
			"INVALID_STATUS")
	}

	submission, err := s.challengeRepo.FindSubmissionByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	challenge, err := s.challengeRepo.FindByID(ctx, submission.ChallengeID)
	if err != nil {
		return nil, err
	}
	if err := s.requireWorkshopOwner(ctx, challenge.WorkshopID, callerID); err != nil {
		return nil, err
	}

	points := 0
	if status == model.SubmissionPassed {
		points = challenge.Points
	}
	reviewed, err := s.challengeRepo.Review(ctx, submissionID, status, points, req.Feedback, callerID)
	if err != nil {
		return nil, err
	}

	if status == model.SubmissionPassed && points > 0 {
		if err := s.points.AwardChallengePoints(ctx, submission.UserID, points); err != nil {
			return nil, err
		}
	}
	return reviewed, nil
}
