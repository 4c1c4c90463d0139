package engine

import (
	"gig-system/models"
)

// ViewerStatus classifies one viewer's relationship to a gig. It is a
// view, never stored: capacity and window state change independently of
// the viewer, so it must be recomputed on every read.
type ViewerStatus struct {
	IsGigPoster         bool `json:"is_gig_poster"`
	HasShownInterest    bool `json:"has_shown_interest"`
	IsInApplicants      bool `json:"is_in_applicants"`
	IsInBandApplication bool `json:"is_in_band_application"`
	IsBooked            bool `json:"is_booked"`
	IsPending           bool `json:"is_pending"`

	// Position is the viewer's 1-based rank in the interest or
	// applicant ordering, 0 when the viewer holds no spot.
	Position int `json:"position,omitempty"`

	// BandRoleApplied and RoleDetails are set when the viewer applied
	// to (or is booked on) a band-creation role.
	BandRoleApplied string           `json:"band_role_applied,omitempty"`
	RoleDetails     *models.BandRole `json:"role_details,omitempty"`
}

// Involved reports whether the viewer holds any spot on the gig.
func (s ViewerStatus) Involved() bool {
	return s.HasShownInterest || s.IsInApplicants || s.IsInBandApplication || s.IsBooked
}

// ResolveStatus derives the viewer's status from the gig snapshot. An
// empty viewer id (anonymous browsing) yields the bystander status; it
// never fails.
func ResolveStatus(gig *models.Gig, viewerID string) ViewerStatus {
	var vs ViewerStatus
	if viewerID == "" {
		return vs
	}

	vs.IsGigPoster = viewerID == gig.PostedBy

	switch Classify(gig) {
	case ShapeBandCreation:
		resolveRoleStanding(gig, viewerID, &vs)
	case ShapeFullBand:
		resolveBandStanding(gig, viewerID, &vs)
	default:
		for i, id := range gig.InterestedUsers {
			if id == viewerID {
				vs.HasShownInterest = true
				vs.Position = i + 1
				break
			}
		}
		if vs.HasShownInterest && !GigCapacity(gig).IsFull {
			vs.IsPending = true
		}
	}

	return vs
}

func resolveRoleStanding(gig *models.Gig, viewerID string, vs *ViewerStatus) {
	for i := range gig.BandRoles {
		role := &gig.BandRoles[i]
		for _, id := range role.BookedUsers {
			if id == viewerID {
				vs.IsBooked = true
				vs.BandRoleApplied = role.Name
				vs.RoleDetails = role
				return
			}
		}
	}
	for i := range gig.BandRoles {
		role := &gig.BandRoles[i]
		for j, id := range role.Applicants {
			if id == viewerID {
				vs.IsInApplicants = true
				vs.Position = j + 1
				vs.BandRoleApplied = role.Name
				vs.RoleDetails = role
				if !RoleCapacity(role).IsFull {
					vs.IsPending = true
				}
				return
			}
		}
	}
}

func resolveBandStanding(gig *models.Gig, viewerID string, vs *ViewerStatus) {
	for i := range gig.BandApplications {
		app := &gig.BandApplications[i]
		if app.ApplicantID != viewerID || !app.Active() {
			continue
		}
		vs.IsInBandApplication = true
		vs.Position = i + 1
		if app.Status == models.ApplicationBooked {
			vs.IsBooked = true
		} else if !GigCapacity(gig).IsFull {
			vs.IsPending = true
		}
		return
	}
}
