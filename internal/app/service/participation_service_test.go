package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"
)

const (
	testOwnerID = "owner-1"
	testUserID  = "user-1"
)

func testWorkshop(id string) *model.Workshop {
	owner := testOwnerID
	return &model.Workshop{
		ID:      id,
		Title:   "Intro to Go",
		Status:  model.WorkshopPending,
		OwnerID: &owner,
	}
}

func newParticipationFixture(participants ...*model.Participant) (*ParticipationService, *fakeParticipantRepo) {
	participantRepo := newFakeParticipantRepo(participants...)
	workshopRepo := newFakeWorkshopRepo(testWorkshop("w-1"))
	return NewParticipationService(participantRepo, workshopRepo), participantRepo
}

func TestJoin_CreatesPendingRequest(t *testing.T) {
	svc, _ := newParticipationFixture()

	participant, err := svc.Join(t.Context(), "w-1", testUserID)
	require.NoError(t, err)

	assert.NotEmpty(t, participant.ID)
	assert.Equal(t, model.ParticipantPending, participant.Status)
	assert.Equal(t, testUserID, participant.UserID)
}

func TestJoin_OwnerCannotJoin(t *testing.T) {
	svc, _ := newParticipationFixture()

	_, err := svc.Join(t.Context(), "w-1", testOwnerID)

	assert.ErrorIs(t, err, common.ErrBadRequest)
	assert.Equal(t, "OWNER_CANNOT_JOIN", common.CodeFromError(err))
}

func TestJoin_SecondJoinConflicts(t *testing.T) {
	svc, _ := newParticipationFixture()

	_, err := svc.Join(t.Context(), "w-1", testUserID)
	require.NoError(t, err)

	_, err = svc.Join(t.Context(), "w-1", testUserID)
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Equal(t, "ALREADY_JOINED", common.CodeFromError(err))
	assert.ErrorContains(t, err, "pending")
}

func TestJoin_ConflictMessageCarriesCurrentStatus(t *testing.T) {
	svc, _ := newParticipationFixture(&model.Participant{
		ID:         "p-1",
		WorkshopID: "w-1",
		UserID:     testUserID,
		Status:     model.ParticipantWaitlisted,
	})

	_, err := svc.Join(t.Context(), "w-1", testUserID)

	assert.ErrorIs(t, err, common.ErrConflict)
	assert.ErrorContains(t, err, "waitlisted")
}

func TestJoin_UnknownWorkshop(t *testing.T) {
	svc, _ := newParticipationFixture()

	_, err := svc.Join(t.Context(), "missing", testUserID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSetStatus_ApprovalStamp(t *testing.T) {
	cases := []struct {
		status      model.ParticipantStatus
		wantStamped bool
	}{
		{model.ParticipantJoined, true},
		{model.ParticipantRejected, true},
		{model.ParticipantWaitlisted, false},
		{model.ParticipantPending, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			svc, repo := newParticipationFixture(&model.Participant{
				ID:         "p-1",
				WorkshopID: "w-1",
				UserID:     testUserID,
				Status:     model.ParticipantPending,
			})

			updated, err := svc.SetStatus(t.Context(), "w-1", "p-1", testOwnerID, tc.status)
			require.NoError(t, err)
			assert.Equal(t, tc.status, updated.Status)

			require.Len(t, repo.statusChanges, 1)
			if tc.wantStamped {
				require.NotNil(t, repo.statusChanges[0].approvedBy)
				assert.Equal(t, testOwnerID, *repo.statusChanges[0].approvedBy)
				assert.NotNil(t, updated.ApprovedAt)
			} else {
				assert.Nil(t, repo.statusChanges[0].approvedBy)
				assert.Nil(t, updated.ApprovedAt)
			}
		})
	}
}

func TestSetStatus_InvalidStatus(t *testing.T) {
	svc, _ := newParticipationFixture(&model.Participant{
		ID: "p-1", WorkshopID: "w-1", UserID: testUserID, Status: model.ParticipantPending,
	})

	_, err := svc.SetStatus(t.Context(), "w-1", "p-1", testOwnerID, "approved")

	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "INVALID_STATUS", common.CodeFromError(err))
}

func TestSetStatus_NonOwnerForbidden(t *testing.T) {
	svc, _ := newParticipationFixture(&model.Participant{
		ID: "p-1", WorkshopID: "w-1", UserID: testUserID, Status: model.ParticipantPending,
	})

	_, err := svc.SetStatus(t.Context(), "w-1", "p-1", "someone-else", model.ParticipantJoined)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestSetStatus_ParticipantFromAnotherWorkshop(t *testing.T) {
	svc, _ := newParticipationFixture(&model.Participant{
		ID: "p-1", WorkshopID: "w-2", UserID: testUserID, Status: model.ParticipantPending,
	})

	_, err := svc.SetStatus(t.Context(), "w-1", "p-1", testOwnerID, model.ParticipantJoined)

	assert.ErrorIs(t, err, common.ErrBadRequest)
	assert.Equal(t, "INVALID_PARTICIPANT", common.CodeFromError(err))
}

func TestRemove_OwnerAndSelfAllowed(t *testing.T) {
	for _, caller := range []string{testOwnerID, testUserID} {
		svc, repo := newParticipationFixture(&model.Participant{
			ID: "p-1", WorkshopID: "w-1", UserID: testUserID, Status: model.ParticipantJoined,
		})

		require.NoError(t, svc.Remove(t.Context(), "w-1", "p-1", caller))
		assert.Empty(t, repo.participants)
	}
}

func TestRemove_StrangerForbidden(t *testing.T) {
	svc, repo := newParticipationFixture(&model.Participant{
		ID: "p-1", WorkshopID: "w-1", UserID: testUserID, Status: model.ParticipantJoined,
	})

	err := svc.Remove(t.Context(), "w-1", "p-1", "someone-else")

	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.Len(t, repo.participants, 1)
}

func TestListForWorkshop_NonOwnerForbidden(t *testing.T) {
	svc, _ := newParticipationFixture()

	_, err := svc.ListForWorkshop(t.Context(), "w-1", testUserID, nil)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestGroupedForWorkshop_BucketsByStatus(t *testing.T) {
	svc, _ := newParticipationFixture(
		&model.Participant{ID: "p-1", WorkshopID: "w-1", UserID: "u-1", Status: model.ParticipantPending},
		&model.Participant{ID: "p-2", WorkshopID: "w-1", UserID: "u-2", Status: model.ParticipantJoined},
		&model.Participant{ID: "p-3", WorkshopID: "w-1", UserID: "u-3", Status: model.ParticipantJoined},
		&model.Participant{ID: "p-4", WorkshopID: "w-1", UserID: "u-4", Status: model.ParticipantRejected},
		&model.Participant{ID: "p-5", WorkshopID: "w-2", UserID: "u-5", Status: model.ParticipantWaitlisted},
	)

	grouped, err := svc.GroupedForWorkshop(t.Context(), "w-1", testOwnerID)
	require.NoError(t, err)

	assert.Len(t, grouped.Pending, 1)
	assert.Len(t, grouped.Joined, 2)
	assert.Len(t, grouped.Rejected, 1)
	assert.Empty(t, grouped.Waitlisted)
}

func TestIsJoinedParticipant(t *testing.T) {
	svc, _ := newParticipationFixture(
		&model.Participant{ID: "p-1", WorkshopID: "w-1", UserID: "u-1", Status: model.ParticipantJoined},
		&model.Participant{ID: "p-2", WorkshopID: "w-1", UserID: "u-2", Status: model.ParticipantPending},
	)

	joined, err := svc.IsJoinedParticipant(t.Context(), "w-1", "u-1")
	require.NoError(t, err)
	assert.True(t, joined)

	pending, err := svc.IsJoinedParticipant(t.Context(), "w-1", "u-2")
	require.NoError(t, err)
	assert.False(t, pending)

	none, err := svc.IsJoinedParticipant(t.Context(), "w-1", "u-3")
	require.NoError(t, err)
	assert.False(t, none)
}
