package model

import "encoding/json"

// Legacy entities live in the JSON file store that predates the relational
// backend. They keep the original wire-field names verbatim.

type DeliveryMode string

const (
	DeliveryOnline     DeliveryMode = "online"
	DeliveryFaceToFace DeliveryMode = "face-to-face"
	DeliveryHybrid     DeliveryMode = "hybrid"
)

func ValidDeliveryMode(m DeliveryMode) bool {
	return m == DeliveryOnline || m == DeliveryFaceToFace || m == DeliveryHybrid
}

type LegacyWorkshop struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	StartTime         string         `json:"start_time"`
	EndTime           string         `json:"end_time"`
	Capacity          int            `json:"capacity"`
	DeliveryMode      DeliveryMode   `json:"delivery_mode"`
	RegistrationCount int            `json:"registration_count"`
	Status            WorkshopStatus `json:"status"`
	SignupEnabled     bool           `json:"signup_enabled"`
}

// UnmarshalJSON defaults status and signup_enabled for rows written before
// those fields existed.
func (w *LegacyWorkshop) UnmarshalJSON(data []byte) error {
	type alias LegacyWorkshop
	aux := struct {
		SignupEnabled *bool `json:"signup_enabled"`
		*alias
	}{alias: (*alias)(w)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.SignupEnabled != nil {
		w.SignupEnabled = *aux.SignupEnabled
	} else {
		w.SignupEnabled = true
	}
	if w.Status == "" {
		w.Status = WorkshopPending
	}
	return nil
}

type LegacyChallenge struct {
	ID          string `json:"id"`
	WorkshopID  string `json:"workshop_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	HTMLContent string `json:"html_content"`
	CreatedAt   string `json:"created_at"`
}

type Registration struct {
	ID               string `json:"id"`
	WorkshopID       string `json:"workshop_id"`
	ParticipantName  string `json:"participant_name"`
	ParticipantEmail string `json:"participant_email"`
	RegisteredAt     string `json:"registered_at"`
}
