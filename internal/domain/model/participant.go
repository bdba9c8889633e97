package model

import "time"

type ParticipantStatus string

const (
	ParticipantPending    ParticipantStatus = "pending"
	ParticipantJoined     ParticipantStatus = "joined"
	ParticipantRejected   ParticipantStatus = "rejected"
	ParticipantWaitlisted ParticipantStatus = "waitlisted"
)

func ValidParticipantStatus(s ParticipantStatus) bool {
	switch s {
	case ParticipantPending, ParticipantJoined, ParticipantRejected, ParticipantWaitlisted:
		return true
	}
	return false
}

// RequiresApprovalStamp reports whether a transition to s records who approved
// it and when. Waitlisting is not an approval.
func (s ParticipantStatus) RequiresApprovalStamp() bool {
	return s == ParticipantJoined || s == ParticipantRejected
}

type Participant struct {
	ID          string            `json:"id"`
	WorkshopID  string            `json:"workshop_id"`
	UserID      string            `json:"user_id"`
	Status      ParticipantStatus `json:"status"`
	RequestedAt time.Time         `json:"requested_at"`
	ApprovedAt  *time.Time        `json:"approved_at"`
	ApprovedBy  *string           `json:"approved_by"`
	UserName    *string           `json:"user_name,omitempty"`  // For display
	UserEmail   *string           `json:"user_email,omitempty"` // For display
}

// UserParticipation is a participation row joined with its workshop, for the
// "workshops I joined" listing.
type UserParticipation struct {
	Participant
	WorkshopTitle       string         `json:"workshop_title"`
	WorkshopDescription string         `json:"workshop_description"`
	WorkshopStatus      WorkshopStatus `json:"workshop_status"`
	WorkshopOwnerID     *string        `json:"workshop_owner_id"`
}
