package status

import "errors"

var (
	ErrGigNotFound     = errors.New("gig: gig not found")
	ErrGigFull         = errors.New("gig: no slots available")
	ErrGigTaken        = errors.New("gig: gig is fully contracted")
	ErrWindowNotOpen   = errors.New("window: applications are not open yet")
	ErrWindowClosed    = errors.New("window: applications are closed")
	ErrAlreadyInvolved = errors.New("application: already applied or interested")
	ErrNotInvolved     = errors.New("application: no application or interest to withdraw")
	ErrRoleNotFound    = errors.New("role: role not found")
	ErrRoleLocked      = errors.New("role: role is locked")
	ErrNotQualified    = errors.New("role: required skills not met")
	ErrNotPoster       = errors.New("gig: action reserved for the gig poster")
	ErrOwnGig          = errors.New("gig: posters cannot apply to their own gig")
)
