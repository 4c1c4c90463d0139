package engine

import (
	"time"

	"gig-system/models"
)

// ActionKind identifies the single action a viewer may take on a gig.
type ActionKind string

const (
	ActionShowInterest     ActionKind = "show-interest"
	ActionApply            ActionKind = "apply"
	ActionWithdraw         ActionKind = "withdraw"
	ActionViewApplication  ActionKind = "view-application"
	ActionManage           ActionKind = "manage"
	ActionReview           ActionKind = "review"
	ActionEdit             ActionKind = "edit"
	ActionViewRequirements ActionKind = "view-requirements"
	ActionNone             ActionKind = "none"
)

// Action is the resolved next-action for a viewer. It is the single
// source of truth for what the presentation layer renders and what the
// mutation layer pre-validates against.
type Action struct {
	Label   string     `json:"label"`
	Kind    ActionKind `json:"kind"`
	Enabled bool       `json:"enabled"`
	Reason  string     `json:"reason,omitempty"`

	// Role is set when the action is pre-bound to a single eligible
	// band-creation role. NeedsRoleChoice is set instead when more than
	// one role is eligible and the viewer must pick before submitting.
	Role            string `json:"role,omitempty"`
	NeedsRoleChoice bool   `json:"needs_role_choice,omitempty"`
}

// ResolveAction combines shape, capacity, window, eligibility and the
// viewer's standing into one action. The table is evaluated top to
// bottom and the first matching rule wins; the window fallback at the
// bottom makes it total.
func ResolveAction(gig *models.Gig, vs ViewerStatus, now time.Time, skills []string) Action {
	shape := Classify(gig)
	capacity := GigCapacity(gig)

	// Rule 1: the poster manages, reviews or edits; they never apply to
	// their own gig.
	if vs.IsGigPoster {
		return posterAction(gig, shape)
	}

	// Rule 2: a full gig is closed to new viewers. Anyone already on it
	// keeps their standing action; withdrawal is never capacity-gated.
	if capacity.IsFull && !vs.Involved() {
		return Action{Label: "Fully Booked", Kind: ActionNone, Enabled: false}
	}

	// Rule 3: a taken gig is read-only history.
	if gig.IsTaken && !vs.IsBooked {
		return Action{Label: "Booked", Kind: ActionNone, Enabled: false}
	}

	// Rule 4: booked musicians may always leave, window or not.
	if vs.IsBooked {
		return Action{Label: "Leave Gig", Kind: ActionWithdraw, Enabled: true}
	}

	// Rule 5: already applied or interested. Withdrawal is never
	// window-gated; re-viewing is always permitted.
	if vs.Involved() {
		if shape == ShapeFullBand {
			return Action{Label: "View Application", Kind: ActionViewApplication, Enabled: true}
		}
		if shape == ShapeBandCreation {
			return Action{Label: "Withdraw Application", Kind: ActionWithdraw, Enabled: true}
		}
		return Action{Label: "Withdraw Interest", Kind: ActionWithdraw, Enabled: true}
	}

	// Rules 6 and 7: an uninvolved viewer with capacity available. Pick
	// the shape's submission action, then gate it on the window.
	action := submissionAction(gig, shape, skills)
	if action.Kind == ActionViewRequirements {
		// Browsing requirements never requires the window to be open.
		return action
	}
	window := ResolveWindow(gig, now)
	if !window.AllowsSubmission() {
		action.Enabled = false
		action.Reason = window.Message
	}
	return action
}

func posterAction(gig *models.Gig, shape Shape) Action {
	booked, applicants := posterScope(gig, shape)
	switch {
	case booked:
		return Action{Label: "Manage Gig", Kind: ActionManage, Enabled: true}
	case applicants:
		return Action{Label: "Review Applicants", Kind: ActionReview, Enabled: true}
	default:
		return Action{Label: "Edit Gig", Kind: ActionEdit, Enabled: true}
	}
}

// posterScope reports whether booked users or applicants exist in the
// scope the poster reviews for the gig's shape.
func posterScope(gig *models.Gig, shape Shape) (booked, applicants bool) {
	switch shape {
	case ShapeBandCreation:
		for i := range gig.BandRoles {
			role := &gig.BandRoles[i]
			if role.Booked() > 0 {
				booked = true
			}
			if len(role.Applicants) > 0 {
				applicants = true
			}
		}
	case ShapeFullBand:
		for i := range gig.BandApplications {
			app := &gig.BandApplications[i]
			if !app.Active() {
				continue
			}
			applicants = true
			if app.Status == models.ApplicationBooked {
				booked = true
			}
		}
	default:
		booked = gig.IsTaken
		applicants = len(gig.InterestedUsers) > 0
	}
	return booked, applicants
}

func submissionAction(gig *models.Gig, shape Shape, skills []string) Action {
	switch shape {
	case ShapeBandCreation:
		eligible := EligibleRoles(gig, skills)
		switch len(eligible) {
		case 0:
			return Action{Label: "View Requirements", Kind: ActionViewRequirements, Enabled: true}
		case 1:
			role := gig.BandRoles[eligible[0]]
			return Action{Label: "Apply for " + role.Name, Kind: ActionApply, Enabled: true, Role: role.Name}
		default:
			return Action{Label: "Apply", Kind: ActionApply, Enabled: true, NeedsRoleChoice: true}
		}
	case ShapeFullBand:
		return Action{Label: "Apply as Band", Kind: ActionApply, Enabled: true}
	default:
		return Action{Label: "Show Interest", Kind: ActionShowInterest, Enabled: true}
	}
}
