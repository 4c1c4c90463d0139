package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gig-system/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		category string
		want     Shape
	}{
		{models.CategoryIndividual, ShapeIndividual},
		{models.CategoryFullBand, ShapeFullBand},
		{models.CategoryBandCreation, ShapeBandCreation},
		{models.CategorySpecialtyMC, ShapeSpecialty},
		{models.CategorySpecialtyDJ, ShapeSpecialty},
		{models.CategorySpecialtyVocals, ShapeSpecialty},
		{"", ShapeIndividual},
		{"something-new", ShapeIndividual},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&models.Gig{Category: tt.category}))
		})
	}
}

func TestSpecialtyRole(t *testing.T) {
	assert.Equal(t, "dj", SpecialtyRole(&models.Gig{Category: models.CategorySpecialtyDJ}))
	assert.Equal(t, "", SpecialtyRole(&models.Gig{Category: models.CategoryFullBand}))
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "individual", ShapeIndividual.String())
	assert.Equal(t, "full_band", ShapeFullBand.String())
	assert.Equal(t, "client_band_creation", ShapeBandCreation.String())
	assert.Equal(t, "specialty", ShapeSpecialty.String())
}
