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

type ExamService struct {
	examRepo      repository.ExamRepository
	workshopRepo  repository.WorkshopRepository
	participation *ParticipationService
	points        *PointsService
}

func NewExamService(examRepo repository.ExamRepository, workshopRepo repository.WorkshopRepository, participation *ParticipationService, points *PointsService) *ExamService {
	return &ExamService{
		examRepo:      examRepo,
		workshopRepo:  workshopRepo,
		participation: participation,
		points:        points,
	}
}

type CreateExamRequest struct {
	Title           string `json:"title" validate:"required,max=200"`
	Description     string `json:"description" validate:"max=1000"`
	DurationMinutes int    `json:"duration_minutes"`
	PassingScore    int    `json:"passing_score"`
	Points          int    `json:"points"`
}

type UpdateExamRequest struct {
	Title           *string `json:"title" validate:"omitempty,max=200"`
	Description     *string `json:"description" validate:"omitempty,max=1000"`
	DurationMinutes *int    `json:"duration_minutes"`
	PassingScore    *int    `json:"passing_score"`
	Points          *int    `json:"points"`
}

type AddQuestionRequest struct {
	QuestionText  string   `json:"question_text" validate:"required"`
	QuestionType  string   `json:"question_type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer" validate:"required"`
	Points        int      `json:"points"`
	OrderIndex    int      `json:"order_index"`
}

type SubmitAttemptRequest struct {
	Answers map[string]string `json:"answers" validate:"required"`
}

func (s *ExamService) requireWorkshopOwner(ctx context.Context, workshopID, callerID string) error {
	workshop, err := s.workshopRepo.FindByID(ctx, workshopID)
	if err != nil {
		return err
	}
	if workshop.OwnerID == nil || *workshop.OwnerID != callerID {
		return fmt.Errorf("only the workshop owner may manage exams: %w", common.ErrForbidden)
	}
	return nil
}

func (s *ExamService) Create(ctx context.Context, workshopID, callerID string, req CreateExamRequest) (*model.Exam, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.requireWorkshopOwner(ctx, workshopID, callerID); err != nil {
		return nil, err
	}

	exam := &model.Exam{
		ID:              uuid.NewString(),
		WorkshopID:      workshopID,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PassingScore:    req.PassingScore,
		Points:          req.Points,
	}
	if exam.DurationMinutes <= 0 {
		exam.DurationMinutes = 60
	}
	if exam.PassingScore <= 0 {
		exam.PassingScore = 70
	}
	if exam.Points <= 0 {
		exam.Points = 50
	}
	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, err
	}
	exam.Questions = []model.ExamQuestion{}
	return exam, nil
}

func (s *ExamService) List(ctx context.Context, workshopID string) ([]model.Exam, error) {
	if _, err := s.workshopRepo.FindByID(ctx, workshopID); err != nil {
		return nil, err
	}
	return s.examRepo.ListByWorkshop(ctx, workshopID)
}

// Get returns an exam with its questions. Owners see correct answers; anyone
// else gets them stripped and their best attempt attached.
func (s *ExamService) Get(ctx context.Context, examID, callerID string) (*model.Exam, error) {
	exam, err := s.examRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	workshop, err := s.workshopRepo.FindByID(ctx, exam.WorkshopID)
	if err != nil {
		return nil, err
	}
	isOwner := workshop.OwnerID != nil && *workshop.OwnerID == callerID

	questions, err := s.examRepo.ListQuestions(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		for i := range questions {
			questions[i].CorrectAnswer = ""
		}
		best, err := s.examRepo.BestAttempt(ctx, callerID, examID)
		if err == nil {
			exam.BestAttempt = best
		} else if !errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
	}
	exam.Questions = questions
	return exam, nil
}

func (s *ExamService) Update(ctx context.Context, examID, callerID string, req UpdateExamRequest) (*model.Exam, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	exam, err := s.examRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if err := s.requireWorkshopOwner(ctx, exam.WorkshopID, callerID); err != nil {
		return nil, err
	}
	return s.examRepo.Update(ctx, examID, repository.ExamUpdate{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PassingScore:    req.PassingScore,
		Points:          req.Points,
	})
}

func (s *ExamService) Delete(ctx context.Context, examID, callerID string) error {
	exam, err := s.examRepo.FindByID(ctx, examID)
	if err != nil {
		return err
	}
	if err := s.requireWorkshopOwner(ctx, exam.WorkshopID, callerID); err != nil {
		return err
	}
	return s.examRepo.Delete(ctx, examID)
}

func (s *ExamService) AddQuestion(ctx context.Context, examID, callerID string, req AddQuestionRequest) (*model.ExamQuestion, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	exam, err := s.examRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	if err := s.requireWorkshopOwner(ctx, exam.WorkshopID, callerID); err != nil {
		return nil, err
	}

	question := &model.ExamQuestion{
		ID:            uuid.NewString(),
		ExamID:        examID,
		QuestionText:  req.QuestionText,
		QuestionType:  req.QuestionType,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
		OrderIndex:    req.OrderIndex,
	}
	if question.QuestionType == "" {
		question.QuestionType = "multiple_choice"
	}
	if question.Points <= 0 {
		question.Points = 10
	}
	if err := s.examRepo.AddQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// Start opens an attempt for a joined participant. The response embeds the
// exam's questions with correct answers stripped.
func (s *ExamService) Start(ctx context.Context, examID, callerID string) (*model.ExamAttempt, error) {
	exam, err := s.examRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	joined, err := s.participation.IsJoinedParticipant(ctx, exam.WorkshopID, callerID)
	if err != nil {
		return nil, err
	}
	if !joined {
		return nil, fmt.Errorf("only approved participants may take exams: %w", common.ErrForbidden)
	}

	attempt := &model.ExamAttempt{
		ID:      uuid.NewString(),
		UserID:  callerID,
		ExamID:  examID,
		Answers: map[string]string{},
	}
	if err := s.examRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	questions, err := s.examRepo.ListQuestions(ctx, examID)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].CorrectAnswer = ""
	}
	exam.Questions = questions
	attempt.Exam = exam
	return attempt, nil
}

// Submit grades an attempt: each question whose answer matches wins its
// points, the score is the earned percentage, and passing credits the exam's
// points unless the exam was already passed before.
func (s *ExamService) Submit(ctx context.Context, attemptID, callerID string, req SubmitAttemptRequest) (*model.ExamAttempt, error) {
	if len(req.Answers) == 0 {
		return nil, fmt.Errorf("answers are required: %w", common.ErrValidation)
	}

	attempt, err := s.examRepo.FindAttemptByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != callerID {
		return nil, fmt.Errorf("cannot submit another user's attempt: %w", common.ErrForbidden)
	}
	if attempt.SubmittedAt != nil {
		return nil, fmt.Errorf("attempt already submitted: %w", common.ErrConflict)
	}

	exam, err := s.examRepo.FindByID(ctx, attempt.ExamID)
	if err != nil {
		return nil, err
	}
	questions, err := s.examRepo.ListQuestions(ctx, attempt.ExamID)
	if err != nil {
		return nil, err
	}

	score := gradeExam(questions, req.Answers)
	passed := score >= exam.PassingScore
	pointsEarned := 0
	if passed {
		pointsEarned = exam.Points
	}

	// Counted before this attempt is persisted, so it covers earlier passes
	// only.
	priorPasses := 0
	if passed && pointsEarned > 0 {
		priorPasses, err = s.examRepo.CountPassedAttempts(ctx, callerID, attempt.ExamID)
		if err != nil {
			return nil, err
		}
	}

	attempt.Answers = req.Answers
	attempt.Score = &score
	attempt.Passed = passed
	attempt.PointsEarned = pointsEarned
	if err := s.examRepo.SubmitAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	if passed && pointsEarned > 0 {
		if err := s.points.AwardExamPoints(ctx, callerID, pointsEarned, priorPasses); err != nil {
			return nil, err
		}
	}
	return attempt, nil
}

// gradeExam scores an answer set against the exam's questions. An answer
// counts when it equals the correct one after trimming, case-insensitively.
// The score is the earned share of total question points as a truncated
// percentage, zero when the exam has no questions.
func gradeExam(questions []model.ExamQuestion, answers map[string]string) int {
	total := 0
	earned := 0
	for _, q := range questions {
		total += q.Points
		answer, ok := answers[q.ID]
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(q.CorrectAnswer)) {
			earned += q.Points
		}
	}
	if total == 0 {
		return 0
	}
	return earned * 100 / total
}

// Attempts lists the caller's attempts at an exam, newest first.
func (s *ExamService) Attempts(ctx context.Context, examID, callerID string) ([]model.ExamAttempt, error) {
	if _, err := s.examRepo.FindByID(ctx, examID); err != nil {
		return nil, err
	}
	return s.examRepo.ListAttempts(ctx, callerID, examID)
}
