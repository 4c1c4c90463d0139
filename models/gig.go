package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gig categories as stored on the record. Anything else is treated as a
// plain individual-musician gig.
const (
	CategoryIndividual      = "individual-musician"
	CategoryFullBand        = "full-band"
	CategoryBandCreation    = "client-band-creation"
	CategorySpecialtyMC     = "mc"
	CategorySpecialtyDJ     = "dj"
	CategorySpecialtyVocals = "vocalist"
)

type Gig struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	PostedBy    string          `json:"posted_by"`
	Date        time.Time       `json:"date"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Category    string          `json:"category"`
	IsTaken     bool            `json:"is_taken"`
	IsPending   bool            `json:"is_pending"`

	// Interest window. Nil means the gig has no window on that side.
	OpensAt  *time.Time `json:"opens_at,omitempty"`
	ClosesAt *time.Time `json:"closes_at,omitempty"`

	// Arrival order matters: position in this list is the viewer's rank.
	InterestedUsers []string `json:"interested_users"`

	// Only present for client-band-creation gigs.
	BandRoles []BandRole `json:"band_roles,omitempty"`

	// Only present for full-band gigs.
	BandApplications []BandApplication `json:"band_applications,omitempty"`

	// Gig-level capacity for individual/specialty/full-band gigs.
	// Client-band-creation gigs carry capacity per role instead.
	MaxSlots int `json:"max_slots"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BandRole is one named position inside a client-band-creation gig.
type BandRole struct {
	Name           string           `json:"name"`
	MaxSlots       int              `json:"max_slots"`
	FilledSlots    int              `json:"filled_slots"`
	Applicants     []string         `json:"applicants"`
	BookedUsers    []string         `json:"booked_users"`
	RequiredSkills []string         `json:"required_skills"`
	IsLocked       bool             `json:"is_locked"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	Negotiable     bool             `json:"negotiable"`
}

// Booked returns the authoritative number of booked users for the role.
// filled_slots is a denormalized counter; when the booked list is
// present the list wins.
func (r *BandRole) Booked() int {
	if r.BookedUsers != nil {
		return len(r.BookedUsers)
	}
	return r.FilledSlots
}
