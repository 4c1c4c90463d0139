package models

import (
	"time"
)

// Band application lifecycle statuses.
const (
	ApplicationPending     = "pending"
	ApplicationShortlisted = "shortlisted"
	ApplicationBooked      = "booked"
	ApplicationWithdrawn   = "withdrawn"
	ApplicationRejected    = "rejected"
)

// BandApplication is one whole-band application to a full-band gig.
type BandApplication struct {
	BandID        string       `json:"band_id"`
	BandName      string       `json:"band_name"`
	ApplicantID   string       `json:"applicant_id"`
	Members       []BandMember `json:"members"`
	AppliedAt     time.Time    `json:"applied_at"`
	Status        string       `json:"status"` // pending, shortlisted, booked, withdrawn, rejected
	BookedAt      *time.Time   `json:"booked_at,omitempty"`
	ShortlistedAt *time.Time   `json:"shortlisted_at,omitempty"`
}

type BandMember struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Instrument string `json:"instrument"`
}

// Active reports whether the application still occupies one of the
// gig's band slots.
func (a *BandApplication) Active() bool {
	return a.Status != ApplicationWithdrawn && a.Status != ApplicationRejected
}
