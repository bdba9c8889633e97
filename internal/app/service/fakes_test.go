package service

import (
	"context"
	"fmt"
	"time"

	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"
	"workshop_hub/internal/domain/repository"
)

// In-memory repository fakes so service rules can be exercised without a
// database. Each fake mirrors the error mapping of its pg counterpart.

type fakeWorkshopRepo struct {
	workshops map[string]*model.Workshop
}

func newFakeWorkshopRepo(workshops ...*model.Workshop) *fakeWorkshopRepo {
	r := &fakeWorkshopRepo{workshops: map[string]*model.Workshop{}}
	for _, w := range workshops {
		r.workshops[w.ID] = w
	}
	return r
}

func (r *fakeWorkshopRepo) Create(ctx context.Context, workshop *model.Workshop) error {
	r.workshops[workshop.ID] = workshop
	return nil
}

func (r *fakeWorkshopRepo) FindByID(ctx context.Context, id string) (*model.Workshop, error) {
	w, ok := r.workshops[id]
	if !ok {
		return nil, common.WithCode(
			fmt.Errorf("workshop not found: %w", common.ErrNotFound), "WORKSHOP_NOT_FOUND")
	}
	copied := *w
	return &copied, nil
}

func (r *fakeWorkshopRepo) List(ctx context.Context) ([]model.Workshop, error) {
	out := []model.Workshop{}
	for _, w := range r.workshops {
		out = append(out, *w)
	}
	return out, nil
}

func (r *fakeWorkshopRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Workshop, error) {
	out := []model.Workshop{}
	for _, w := range r.workshops {
		if w.OwnerID != nil && *w.OwnerID == ownerID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (r *fakeWorkshopRepo) Update(ctx context.Context, id string, update repository.WorkshopUpdate) (*model.Workshop, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeWorkshopRepo) Delete(ctx context.Context, id string) error {
	delete(r.workshops, id)
	return nil
}

type statusChange struct {
	status     model.ParticipantStatus
	approvedBy *string
}

type fakeParticipantRepo struct {
	participants  map[string]*model.Participant
	statusChanges []statusChange
}

func newFakeParticipantRepo(participants ...*model.Participant) *fakeParticipantRepo {
	r := &fakeParticipantRepo{participants: map[string]*model.Participant{}}
	for _, p := range participants {
		r.participants[p.ID] = p
	}
	return r
}

func (r *fakeParticipantRepo) Create(ctx context.Context, participant *model.Participant) error {
	for _, p := range r.participants {
		if p.WorkshopID == participant.WorkshopID && p.UserID == participant.UserID {
			return common.WithCode(
				fmt.Errorf("user already joined this workshop: %w", common.ErrConflict), "ALREADY_JOINED")
		}
	}
	participant.RequestedAt = time.Now()
	r.participants[participant.ID] = participant
	return nil
}

func (r *fakeParticipantRepo) FindByID(ctx context.Context, id string) (*model.Participant, error) {
	p, ok := r.participants[id]
	if !ok {
		return nil, common.WithCode(
			fmt.Errorf("participant not found: %w", common.ErrNotFound), "PARTICIPANT_NOT_FOUND")
	}
	copied := *p
	return &copied, nil
}

func (r *fakeParticipantRepo) FindByWorkshopAndUser(ctx context.Context, workshopID, userID string) (*model.Participant, error) {
	for _, p := range r.participants {
		if p.WorkshopID == workshopID && p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, common.WithCode(
		fmt.Errorf("participant not found: %w", common.ErrNotFound), "PARTICIPANT_NOT_FOUND")
}

func (r *fakeParticipantRepo) ListByWorkshop(ctx context.Context, workshopID string, status *model.ParticipantStatus) ([]model.Participant, error) {
	out := []model.Participant{}
	for _, p := range r.participants {
		if p.WorkshopID != workshopID {
			continue
		}
		if status != nil && p.Status != *status {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeParticipantRepo) ListByUser(ctx context.Context, userID string) ([]model.UserParticipation, error) {
	out := []model.UserParticipation{}
	for _, p := range r.participants {
		if p.UserID == userID {
			out = append(out, model.UserParticipation{Participant: *p})
		}
	}
	return out, nil
}

func (r *fakeParticipantRepo) UpdateStatus(ctx context.Context, id string, status model.ParticipantStatus, approvedBy *string) (*model.Participant, error) {
	p, ok := r.participants[id]
	if !ok {
		return nil, common.WithCode(
			fmt.Errorf("participant not found: %w", common.ErrNotFound), "PARTICIPANT_NOT_FOUND")
	}
	r.statusChanges = append(r.statusChanges, statusChange{status: status, approvedBy: approvedBy})
	p.Status = status
	if approvedBy != nil {
		now := time.Now()
		p.ApprovedBy = approvedBy
		p.ApprovedAt = &now
	}
	copied := *p
	return &copied, nil
}

func (r *fakeParticipantRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.participants[id]; !ok {
		return common.WithCode(
			fmt.Errorf("participant not found: %w", common.ErrNotFound), "PARTICIPANT_NOT_FOUND")
	}
	delete(r.participants, id)
	return nil
}

type fakeLessonRepo struct {
	lessons  map[string]*model.Lesson
	progress map[string]*model.UserProgress
}

func newFakeLessonRepo(lessons ...*model.Lesson) *fakeLessonRepo {
	r := &fakeLessonRepo{lessons: map[string]*model.Lesson{}, progress: map[string]*model.UserProgress{}}
	for _, l := range lessons {
		r.lessons[l.ID] = l
	}
	return r
}

func progressKey(userID, lessonID string) string { return userID + "|" + lessonID }

func (r *fakeLessonRepo) Create(ctx context.Context, lesson *model.Lesson) error {
	r.lessons[lesson.ID] = lesson
	return nil
}

func (r *fakeLessonRepo) FindByID(ctx context.Context, id string) (*model.Lesson, error) {
	l, ok := r.lessons[id]
	if !ok {
		return nil, fmt.Errorf("lesson not found: %w", common.ErrNotFound)
	}
	copied := *l
	return &copied, nil
}

func (r *fakeLessonRepo) ListByWorkshop(ctx context.Context, workshopID string) ([]model.Lesson, error) {
	out := []model.Lesson{}
	for _, l := range r.lessons {
		if l.WorkshopID == workshopID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) Update(ctx context.Context, id string, update repository.LessonUpdate) (*model.Lesson, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeLessonRepo) Delete(ctx context.Context, id string) error {
	delete(r.lessons, id)
	return nil
}

func (r *fakeLessonRepo) AddMaterial(ctx context.Context, material *model.LessonMaterial) error {
	return nil
}

func (r *fakeLessonRepo) ListMaterials(ctx context.Context, lessonID string) ([]model.LessonMaterial, error) {
	return []model.LessonMaterial{}, nil
}

func (r *fakeLessonRepo) DeleteMaterial(ctx context.Context, id, lessonID string) error {
	return nil
}

func (r *fakeLessonRepo) CreateProgress(ctx context.Context, progress *model.UserProgress) error {
	key := progressKey(progress.UserID, progress.LessonID)
	if _, ok := r.progress[key]; ok {
		return fmt.Errorf("progress already recorded: %w", common.ErrConflict)
	}
	now := time.Now()
	progress.CompletedAt = &now
	r.progress[key] = progress
	return nil
}

func (r *fakeLessonRepo) FindProgress(ctx context.Context, userID, lessonID string) (*model.UserProgress, error) {
	p, ok := r.progress[progressKey(userID, lessonID)]
	if !ok {
		return nil, fmt.Errorf("progress not found: %w", common.ErrNotFound)
	}
	copied := *p
	return &copied, nil
}

func (r *fakeLessonRepo) ListProgressByUser(ctx context.Context, userID, workshopID string) ([]model.UserProgress, error) {
	out := []model.UserProgress{}
	for _, p := range r.progress {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakePointsRepo struct {
	totals map[string]*model.UserPoints
	awards []repository.PointsAward
}

func newFakePointsRepo() *fakePointsRepo {
	return &fakePointsRepo{totals: map[string]*model.UserPoints{}}
}

func (r *fakePointsRepo) Award(ctx context.Context, userID string, award repository.PointsAward) error {
	r.awards = append(r.awards, award)
	row, ok := r.totals[userID]
	if !ok {
		row = &model.UserPoints{UserID: userID}
		r.totals[userID] = row
	}
	row.TotalPoints += award.Points
	row.LessonsCompleted += award.Lessons
	row.ChallengesCompleted += award.Challenges
	row.ExamsPassed += award.Exams
	return nil
}

func (r *fakePointsRepo) FindByUser(ctx context.Context, userID string) (*model.UserPoints, error) {
	row, ok := r.totals[userID]
	if !ok {
		return nil, fmt.Errorf("points not found: %w", common.ErrNotFound)
	}
	copied := *row
	return &copied, nil
}

func (r *fakePointsRepo) Rankings(ctx context.Context) ([]model.UserPoints, error) {
	return nil, nil
}

func (r *fakePointsRepo) UpdateRanks(ctx context.Context, userID string, currentRank, previousRank int) error {
	return nil
}

func (r *fakePointsRepo) InsertHistory(ctx context.Context, history *model.LeaderboardHistory) error {
	return nil
}

func (r *fakePointsRepo) Leaderboard(ctx context.Context, limit int) ([]model.UserPoints, error) {
	return []model.UserPoints{}, nil
}

func (r *fakePointsRepo) WorkshopLeaderboard(ctx context.Context, workshopID string) ([]model.WorkshopLeaderboardEntry, error) {
	return []model.WorkshopLeaderboardEntry{}, nil
}

type fakeExamRepo struct {
	exams     map[string]*model.Exam
	questions map[string][]model.ExamQuestion
	attempts  map[string]*model.ExamAttempt
}

func newFakeExamRepo(exams ...*model.Exam) *fakeExamRepo {
	r := &fakeExamRepo{
		exams:     map[string]*model.Exam{},
		questions: map[string][]model.ExamQuestion{},
		attempts:  map[string]*model.ExamAttempt{},
	}
	for _, e := range exams {
		r.exams[e.ID] = e
	}
	return r
}

func (r *fakeExamRepo) Create(ctx context.Context, exam *model.Exam) error {
	r.exams[exam.ID] = exam
	return nil
}

func (r *fakeExamRepo) FindByID(ctx context.Context, id string) (*model.Exam, error) {
	e, ok := r.exams[id]
	if !ok {
		return nil, fmt.Errorf("exam not found: %w", common.ErrNotFound)
	}
	copied := *e
	return &copied, nil
}

func (r *fakeExamRepo) ListByWorkshop(ctx context.Context, workshopID string) ([]model.Exam, error) {
	out := []model.Exam{}
	for _, e := range r.exams {
		if e.WorkshopID == workshopID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *fakeExamRepo) Update(ctx context.Context, id string, update repository.ExamUpdate) (*model.Exam, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeExamRepo) Delete(ctx context.Context, id string) error {
	delete(r.exams, id)
	return nil
}

func (r *fakeExamRepo) AddQuestion(ctx context.Context, question *model.ExamQuestion) error {
	r.questions[question.ExamID] = append(r.questions[question.ExamID], *question)
	return nil
}

func (r *fakeExamRepo) ListQuestions(ctx context.Context, examID string) ([]model.ExamQuestion, error) {
	return append([]model.ExamQuestion{}, r.questions[examID]...), nil
}

func (r *fakeExamRepo) CreateAttempt(ctx context.Context, attempt *model.ExamAttempt) error {
	attempt.StartedAt = time.Now()
	copied := *attempt
	r.attempts[attempt.ID] = &copied
	return nil
}

func (r *fakeExamRepo) FindAttemptByID(ctx context.Context, id string) (*model.ExamAttempt, error) {
	a, ok := r.attempts[id]
	if !ok {
		return nil, fmt.Errorf("attempt not found: %w", common.ErrNotFound)
	}
	copied := *a
	return &copied, nil
}

func (r *fakeExamRepo) ListAttempts(ctx context.Context, userID, examID string) ([]model.ExamAttempt, error) {
	out := []model.ExamAttempt{}
	for _, a := range r.attempts {
		if a.UserID == userID && a.ExamID == examID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeExamRepo) SubmitAttempt(ctx context.Context, attempt *model.ExamAttempt) error {
	now := time.Now()
	attempt.SubmittedAt = &now
	copied := *attempt
	r.attempts[attempt.ID] = &copied
	return nil
}

func (r *fakeExamRepo) CountPassedAttempts(ctx context.Context, userID, examID string) (int, error) {
	count := 0
	for _, a := range r.attempts {
		if a.UserID == userID && a.ExamID == examID && a.Passed {
			count++
		}
	}
	return count, nil
}

func (r *fakeExamRepo) BestAttempt(ctx context.Context, userID, examID string) (*model.ExamAttempt, error) {
	var best *model.ExamAttempt
	for _, a := range r.attempts {
		if a.UserID != userID || a.ExamID != examID || a.Score == nil {
			continue
		}
		if best == nil || *a.Score > *best.Score {
			copied := *a
			best = &copied
		}
	}
	if best == nil {
		return nil, fmt.Errorf("attempt not found: %w", common.ErrNotFound)
	}
	return best, nil
}
