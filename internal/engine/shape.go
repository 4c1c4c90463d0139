// Package engine implements the gig capacity and eligibility rules:
// slot accounting, interest-window gating, skill matching, viewer
// relationship resolution and the single resolved next-action. Every
// function is pure over a gig snapshot, a viewer identity and a
// caller-supplied clock; nothing here mutates state or samples time.
package engine

import (
	"gig-system/models"
)

// Shape is the behavioral shape of a gig. It decides which capacity and
// application rules apply.
type Shape int

const (
	// ShapeIndividual is a single-musician gig with one gig-level
	// interest list.
	ShapeIndividual Shape = iota
	// ShapeFullBand accepts whole-band applications.
	ShapeFullBand
	// ShapeBandCreation is a client-assembled band: capacity lives on
	// each named role, not on the gig.
	ShapeBandCreation
	// ShapeSpecialty is a single specialty slot (MC, DJ, vocalist).
	// It behaves like an individual gig.
	ShapeSpecialty
)

func (s Shape) String() string {
	switch s {
	case ShapeFullBand:
		return "full_band"
	case ShapeBandCreation:
		return "client_band_creation"
	case ShapeSpecialty:
		return "specialty"
	default:
		return "individual"
	}
}

// Classify maps a gig's category to its behavioral shape. Unknown
// categories fall back to individual.
func Classify(gig *models.Gig) Shape {
	switch gig.Category {
	case models.CategoryFullBand:
		return ShapeFullBand
	case models.CategoryBandCreation:
		return ShapeBandCreation
	case models.CategorySpecialtyMC, models.CategorySpecialtyDJ, models.CategorySpecialtyVocals:
		return ShapeSpecialty
	default:
		return ShapeIndividual
	}
}

// SpecialtyRole returns the specialty role name for specialty gigs and
// "" for everything else.
func SpecialtyRole(gig *models.Gig) string {
	switch gig.Category {
	case models.CategorySpecialtyMC, models.CategorySpecialtyDJ, models.CategorySpecialtyVocals:
		return gig.Category
	default:
		return ""
	}
}
