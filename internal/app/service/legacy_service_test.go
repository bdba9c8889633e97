package service

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workshop_hub/internal/common"
	"workshop_hub/internal/domain/model"
	"workshop_hub/internal/platform/filestore"
)

func newLegacyService(t *testing.T) *LegacyService {
	t.Helper()
	store, err := filestore.New(filepath.Join(t.TempDir(), "workshops.json"))
	require.NoError(t, err)
	return NewLegacyService(store)
}

func validLegacyWorkshop() CreateLegacyWorkshopRequest {
	return CreateLegacyWorkshopRequest{
		Title:        "Intro to Go",
		Description:  "A hands-on session",
		StartTime:    "2026-09-01T10:00:00Z",
		EndTime:      "2026-09-01T12:00:00Z",
		Capacity:     2,
		DeliveryMode: "online",
	}
}

func TestLegacyCreateWorkshop_Defaults(t *testing.T) {
	svc := newLegacyService(t)

	workshop, err := svc.CreateWorkshop(t.Context(), validLegacyWorkshop())
	require.NoError(t, err)

	assert.NotEmpty(t, workshop.ID)
	assert.Equal(t, model.WorkshopPending, workshop.Status)
	assert.True(t, workshop.SignupEnabled)
	assert.Equal(t, 0, workshop.RegistrationCount)
}

func TestLegacyCreateWorkshop_Validation(t *testing.T) {
	svc := newLegacyService(t)

	cases := []struct {
		name   string
		mutate func(*CreateLegacyWorkshopRequest)
	}{
		{"missing title", func(r *CreateLegacyWorkshopRequest) { r.Title = "  " }},
		{"missing description", func(r *CreateLegacyWorkshopRequest) { r.Description = "" }},
		{"bad start time", func(r *CreateLegacyWorkshopRequest) { r.StartTime = "tomorrow" }},
		{"bad end time", func(r *CreateLegacyWorkshopRequest) { r.EndTime = "2026-09-01" }},
		{"start after end", func(r *CreateLegacyWorkshopRequest) {
			r.StartTime = "2026-09-01T12:00:00Z"
			r.EndTime = "2026-09-01T10:00:00Z"
		}},
		{"zero capacity", func(r *CreateLegacyWorkshopRequest) { r.Capacity = 0 }},
		{"bad delivery mode", func(r *CreateLegacyWorkshopRequest) { r.DeliveryMode = "carrier-pigeon" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validLegacyWorkshop()
			tc.mutate(&req)

			_, err := svc.CreateWorkshop(t.Context(), req)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestLegacyGetWorkshop_NotFound(t *testing.T) {
	svc := newLegacyService(t)

	_, err := svc.GetWorkshop(t.Context(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "WORKSHOP_NOT_FOUND", common.CodeFromError(err))
}

func TestLegacySetStatus(t *testing.T) {
	svc := newLegacyService(t)
	workshop, err := svc.CreateWorkshop(t.Context(), validLegacyWorkshop())
	require.NoError(t, err)

	updated, err := svc.SetStatus(t.Context(), workshop.ID, model.WorkshopOngoing)
	require.NoError(t, err)
	assert.Equal(t, model.WorkshopOngoing, updated.Status)

	_, err = svc.SetStatus(t.Context(), workshop.ID, "archived")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestLegacyRegister_ChecksRunInOrder(t *testing.T) {
	svc := newLegacyService(t)
	workshop, err := svc.CreateWorkshop(t.Context(), validLegacyWorkshop())
	require.NoError(t, err)

	t.Run("unknown workshop wins over bad input", func(t *testing.T) {
		_, err := svc.Register(t.Context(), "missing", RegistrationRequest{})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("name before email", func(t *testing.T) {
		_, err := svc.Register(t.Context(), workshop.ID, RegistrationRequest{Email: "a@example.com"})
		assert.ErrorContains(t, err, "name is required")
	})

	t.Run("email presence before format", func(t *testing.T) {
		_, err := svc.Register(t.Context(), workshop.ID, RegistrationRequest{Name: "Alice"})
		assert.ErrorContains(t, err, "email is required")
	})

	t.Run("email format", func(t *testing.T) {
		_, err := svc.Register(t.Context(), workshop.ID, RegistrationRequest{Name: "Alice", Email: "not-an-email"})
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestLegacyRegister_SignupDisabled(t *testing.T) {
	svc := newLegacyService(t)
	workshop, err := svc.CreateWorkshop(t.Context(), validLegacyWorkshop())
	require.NoError(t, err)
	_, err = svc.SetSignupEnabled(t.Context(), workshop.ID, false)
	require.NoError(t, err)

	_, err = svc.Register(t.Context(), workshop.ID, RegistrationRequest{Name: "Alice", Email: "alice@example.com"})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestLegacyRegister_ClosedStatus(t *testing.T) {
	for _, status := range []model.WorkshopStatus{model.WorkshopOngoing, model.WorkshopCompleted} {
		svc := newLegacyService(t)
		workshop, err := svc.CreateWorkshop(t.Context(), validLegacyWorkshop())
		require.NoError(t, err)
		_, err = svc.SetStatus(t.Context(), workshop.ID, status)
		require.NoError(t, err)

		_, err = svc.Register(t.Context(), workshop.ID, RegistrationRequest{Name: "Alice", Email: "alice@example.com"})
		assert.ErrorIs(t, err, common.ErrForbidden, status)
	}
}

func TestLegacyRegister_CapacityFull(t *testing.T) {
	svc := newLegacyService(t)
	req := validLegacyWorkshop()
	req.Capacity = 1
	workshop, err := svc.CreateWorkshop(t.Context(), req)
	require.NoError(t, err)

	first, err := svc.Register(t.Context(), workshop.ID, RegistrationRequest{Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)

	_, err = svc.Register(t.Context(), workshop.ID, RegistrationRequest{Name: "Bob", Email: "bob@example.com"})
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.ErrorContains(t, err, "workshop is full")

	got, err := svc.GetWorkshop(t.Context(), workshop.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RegistrationCount)
}

func TestRegistrationRequest_WireFieldNames(t *testing.T) {
	var req RegistrationRequest
	raw := `{"participant_name":"Alice","participant_email":"alice@example.com"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &req))

	assert.Equal(t, "Alice", req.Name)
	assert.Equal(t, "alice@example.com", req.Email)
}

func TestLegacyRegister_StampsRegistration(t *testing.T) {
	svc := newLegacyService(t)
	workshop, err := svc.CreateWorkshop(t.Context(), validLegacyWorkshop())
	require.NoError(t, err)

	reg, err := svc.Register(t.Context(), workshop.ID, RegistrationRequest{Name: "  Alice  ", Email: "alice@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "Alice", reg.ParticipantName)
	assert.Equal(t, "alice@example.com", reg.ParticipantEmail)
	_, err = time.Parse(time.RFC3339, reg.RegisteredAt)
	assert.NoError(t, err)
}

func TestLegacyAddChallenge(t *testing.T) {
	svc := newLegacyService(t)
	workshop, err := svc.CreateWorkshop(t.Context(), validLegacyWorkshop())
	require.NoError(t, err)

	challenge, err := svc.AddChallenge(t.Context(), workshop.ID, CreateLegacyChallengeRequest{
		Title:       "Build a CLI",
		Description: "First challenge",
		HTMLContent: "<p>Instructions</p>",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, challenge.ID)
	_, err = time.Parse(time.RFC3339, challenge.CreatedAt)
	assert.NoError(t, err)

	_, err = svc.AddChallenge(t.Context(), workshop.ID, CreateLegacyChallengeRequest{Title: "  "})
	assert.ErrorIs(t, err, common.ErrValidation)

	listed, err := svc.ListChallenges(t.Context(), workshop.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	_, err = svc.ListChallenges(t.Context(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
