package engine

import (
	"time"

	"gig-system/models"
)

// Decision is the full read product for one (gig, viewer) pair: what
// the card shows and the one action the viewer may take. Plain data,
// recomputed on every read.
type Decision struct {
	GigID    string       `json:"gig_id"`
	Shape    string       `json:"shape"`
	Capacity Capacity     `json:"capacity"`
	Window   Window       `json:"window"`
	Viewer   ViewerStatus `json:"viewer"`
	Action   Action       `json:"action"`
}

// Decide composes classification, capacity, window, relationship and
// action policy for one viewer at one instant.
func Decide(gig *models.Gig, viewerID string, skills []string, now time.Time) Decision {
	vs := ResolveStatus(gig, viewerID)
	return Decision{
		GigID:    gig.ID,
		Shape:    Classify(gig).String(),
		Capacity: GigCapacity(gig),
		Window:   ResolveWindow(gig, now),
		Viewer:   vs,
		Action:   ResolveAction(gig, vs, now, skills),
	}
}
