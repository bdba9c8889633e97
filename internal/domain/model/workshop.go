package model

import (
	"time"
)

type WorkshopStatus string
type VenueType string

const (
	WorkshopPending   WorkshopStatus = "pending"
	WorkshopOngoing   WorkshopStatus = "ongoing"
	WorkshopCompleted WorkshopStatus = "completed"

	VenueOnline   VenueType = "online"
	VenuePhysical VenueType = "physical"
)

func ValidWorkshopStatus(s WorkshopStatus) bool {
	switch s {
	case WorkshopPending, WorkshopOngoing, WorkshopCompleted:
		return true
	}
	return false
}

func ValidVenueType(v VenueType) bool {
	return v == VenueOnline || v == VenuePhysical
}

type Workshop struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Slug          string         `json:"slug"`
	Status        WorkshopStatus `json:"status"`
	SignupEnabled bool           `json:"signup_enabled"`
	WorkshopDate  *time.Time     `json:"workshop_date,omitempty"`
	VenueType     VenueType      `json:"venue_type"`
	VenueAddress  *string        `json:"venue_address,omitempty"`
	OwnerID       *string        `json:"owner_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
