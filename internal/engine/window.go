package engine

import (
	"fmt"
	"time"

	"gig-system/models"
)

// WindowState is where the caller's clock falls relative to the gig's
// interest window.
type WindowState string

const (
	// WindowNone means the gig has no interest window; submissions are
	// never time-gated.
	WindowNone WindowState = "no-window"
	// WindowNotOpen means the window has not opened yet.
	WindowNotOpen WindowState = "not-open"
	// WindowOpen means submissions are currently accepted.
	WindowOpen WindowState = "open"
	// WindowClosed means the window has closed. Terminal for the
	// window; the gig itself may still be open for other actions.
	WindowClosed WindowState = "closed"
)

// Window is the derived interest-window status at a fixed instant.
type Window struct {
	HasWindow bool        `json:"has_window"`
	State     WindowState `json:"state"`
	Message   string      `json:"message,omitempty"`
}

// AllowsSubmission reports whether new interest or applications may be
// created. It only gates candidate-initiated submissions; withdrawal
// and poster management are never window-gated.
func (w Window) AllowsSubmission() bool {
	return !w.HasWindow || w.State == WindowOpen
}

// ResolveWindow evaluates the gig's interest window against now. The
// clock is supplied by the caller so decisions stay deterministic.
func ResolveWindow(gig *models.Gig, now time.Time) Window {
	if gig.OpensAt == nil && gig.ClosesAt == nil {
		return Window{HasWindow: false, State: WindowNone}
	}

	if gig.OpensAt != nil && now.Before(*gig.OpensAt) {
		return Window{
			HasWindow: true,
			State:     WindowNotOpen,
			Message:   fmt.Sprintf("Applications open %s", gig.OpensAt.Format("Jan 2, 2006 15:04 MST")),
		}
	}

	if gig.ClosesAt != nil && now.After(*gig.ClosesAt) {
		return Window{
			HasWindow: true,
			State:     WindowClosed,
			Message:   fmt.Sprintf("Applications closed %s", gig.ClosesAt.Format("Jan 2, 2006 15:04 MST")),
		}
	}

	w := Window{HasWindow: true, State: WindowOpen}
	if gig.ClosesAt != nil {
		w.Message = fmt.Sprintf("Applications close %s", gig.ClosesAt.Format("Jan 2, 2006 15:04 MST"))
	}
	return w
}
