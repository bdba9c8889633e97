package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"
)

func question(id, correct string, points int) model.ExamQuestion {
	return model.ExamQuestion{ID: id, CorrectAnswer: correct, Points: points}
}

func TestGradeExam_AllCorrect(t *testing.T) {
	questions := []model.ExamQuestion{
		question("q1", "42", 10),
		question("q2", "paris", 10),
	}
	answers := map[string]string{"q1": "42", "q2": "paris"}

	assert.Equal(t, 100, gradeExam(questions, answers))
}

func TestGradeExam_TrimAndCaseInsensitive(t *testing.T) {
	questions := []model.ExamQuestion{
		question("q1", "Paris", 10),
		question("q2", "  true ", 10),
	}
	answers := map[string]string{
		"q1": "  PARIS  ",
		"q2": "TRUE",
	}

	assert.Equal(t, 100, gradeExam(questions, answers))
}

func TestGradeExam_MissingAnswersScoreZeroForThoseQuestions(t *testing.T) {
	questions := []model.ExamQuestion{
		question("q1", "a", 10),
		question("q2", "b", 10),
	}
	answers := map[string]string{"q1": "a"}

	assert.Equal(t, 50, gradeExam(questions, answers))
}

func TestGradeExam_WrongAnswer(t *testing.T) {
	questions := []model.ExamQuestion{question("q1", "a", 10)}
	answers := map[string]string{"q1": "b"}

	assert.Equal(t, 0, gradeExam(questions, answers))
}

func TestGradeExam_TruncatesPercentage(t *testing.T) {
	// Two of three equal-weight questions correct is 66%, not 67.
	questions := []model.ExamQuestion{
		question("q1", "a", 10),
		question("q2", "b", 10),
		question("q3", "c", 10),
	}
	answers := map[string]string{"q1": "a", "q2": "b", "q3": "x"}

	assert.Equal(t, 66, gradeExam(questions, answers))
}

func TestGradeExam_WeightedQuestions(t *testing.T) {
	questions := []model.ExamQuestion{
		question("q1", "a", 30),
		question("q2", "b", 10),
	}
	answers := map[string]string{"q1": "a"}

	assert.Equal(t, 75, gradeExam(questions, answers))
}

func TestGradeExam_NoQuestions(t *testing.T) {
	assert.Equal(t, 0, gradeExam(nil, map[string]string{"q1": "a"}))
}

func TestGradeExam_ExtraAnswersIgnored(t *testing.T) {
	questions := []model.ExamQuestion{question("q1", "a", 10)}
	answers := map[string]string{"q1": "a", "ghost": "b"}

	assert.Equal(t, 100, gradeExam(questions, answers))
}

func newExamFixture(t *testing.T, exam *model.Exam) (*ExamService, *fakeExamRepo, *fakePointsRepo) {
	t.Helper()
	examRepo := newFakeExamRepo(exam)
	workshopRepo := newFakeWorkshopRepo(testWorkshop("w-1"))
	participantRepo := newFakeParticipantRepo(&model.Participant{
		ID: "p-1", WorkshopID: "w-1", UserID: testUserID, Status: model.ParticipantJoined,
	})
	participation := NewParticipationService(participantRepo, workshopRepo)
	pointsRepo := newFakePointsRepo()
	points := NewPointsService(pointsRepo, nil)
	return NewExamService(examRepo, workshopRepo, participation, points), examRepo, pointsRepo
}

func passableExam() *model.Exam {
	return &model.Exam{
		ID:           "e-1",
		WorkshopID:   "w-1",
		Title:        "Final",
		PassingScore: 70,
		Points:       50,
	}
}

func seedAttempt(t *testing.T, repo *fakeExamRepo, id string) {
	t.Helper()
	require.NoError(t, repo.CreateAttempt(t.Context(), &model.ExamAttempt{
		ID: id, UserID: testUserID, ExamID: "e-1",
	}))
}

func TestSubmit_RejectsEmptyAnswers(t *testing.T) {
	svc, examRepo, _ := newExamFixture(t, passableExam())
	seedAttempt(t, examRepo, "a-1")

	for _, answers := range []map[string]string{nil, {}} {
		_, err := svc.Submit(t.Context(), "a-1", testUserID, SubmitAttemptRequest{Answers: answers})
		assert.ErrorIs(t, err, common.ErrValidation)
	}
}

func TestSubmit_GradesAndAwards(t *testing.T) {
	svc, examRepo, pointsRepo := newExamFixture(t, passableExam())
	require.NoError(t, examRepo.AddQuestion(t.Context(), &model.ExamQuestion{
		ID: "q1", ExamID: "e-1", CorrectAnswer: "42", Points: 10,
	}))
	seedAttempt(t, examRepo, "a-1")

	attempt, err := svc.Submit(t.Context(), "a-1", testUserID, SubmitAttemptRequest{
		Answers: map[string]string{"q1": "42"},
	})
	require.NoError(t, err)

	require.NotNil(t, attempt.Score)
	assert.Equal(t, 100, *attempt.Score)
	assert.True(t, attempt.Passed)
	assert.Equal(t, 50, attempt.PointsEarned)
	require.Len(t, pointsRepo.awards, 1)
	assert.Equal(t, 1, pointsRepo.awards[0].Exams)
}

func TestSubmit_AlreadySubmittedConflicts(t *testing.T) {
	svc, examRepo, _ := newExamFixture(t, passableExam())
	seedAttempt(t, examRepo, "a-1")

	_, err := svc.Submit(t.Context(), "a-1", testUserID, SubmitAttemptRequest{
		Answers: map[string]string{"q1": "42"},
	})
	require.NoError(t, err)

	_, err = svc.Submit(t.Context(), "a-1", testUserID, SubmitAttemptRequest{
		Answers: map[string]string{"q1": "42"},
	})
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestSubmit_AnotherUsersAttemptForbidden(t *testing.T) {
	svc, examRepo, _ := newExamFixture(t, passableExam())
	seedAttempt(t, examRepo, "a-1")

	_, err := svc.Submit(t.Context(), "a-1", "someone-else", SubmitAttemptRequest{
		Answers: map[string]string{"q1": "42"},
	})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestSubmit_ThirdPassStopsAwarding(t *testing.T) {
	svc, examRepo, pointsRepo := newExamFixture(t, passableExam())
	require.NoError(t, examRepo.AddQuestion(t.Context(), &model.ExamQuestion{
		ID: "q1", ExamID: "e-1", CorrectAnswer: "42", Points: 10,
	}))

	for i, id := range []string{"a-1", "a-2", "a-3"} {
		seedAttempt(t, examRepo, id)
		attempt, err := svc.Submit(t.Context(), id, testUserID, SubmitAttemptRequest{
			Answers: map[string]string{"q1": "42"},
		})
		require.NoError(t, err)
		assert.True(t, attempt.Passed, i)
	}

	// The first two passes each credit the exam; the third does not.
	assert.Len(t, pointsRepo.awards, 2)
	points, err := pointsRepo.FindByUser(t.Context(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, 100, points.TotalPoints)
	assert.Equal(t, 2, points.ExamsPassed)
}
