package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gig-system/models"
)

func TestIsQualified(t *testing.T) {
	tests := []struct {
		name     string
		skills   []string
		required []string
		want     bool
	}{
		{"no requirements accepts anyone", nil, nil, true},
		{"no requirements accepts empty skills", nil, []string{}, true},
		{"single overlap qualifies", []string{"guitar", "vocals"}, []string{"guitar"}, true},
		{"case insensitive", []string{"Guitar"}, []string{"GUITAR"}, true},
		{"whitespace tolerated", []string{" guitar "}, []string{"guitar"}, true},
		{"no overlap rejects", []string{"drums"}, []string{"guitar"}, false},
		{"partial overlap is enough", []string{"bass"}, []string{"guitar", "bass", "keys"}, true},
		{"empty skills fail requirements", nil, []string{"guitar"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role := &models.BandRole{Name: "r", RequiredSkills: tt.required}
			assert.Equal(t, tt.want, IsQualified(tt.skills, role))
		})
	}
}

func TestEligibleRoles_SkipsLockedAndFullRoles(t *testing.T) {
	gig := &models.Gig{
		Category: models.CategoryBandCreation,
		BandRoles: []models.BandRole{
			{Name: "guitar", MaxSlots: 2, FilledSlots: 1, RequiredSkills: []string{"guitar"}},
			{Name: "drums", MaxSlots: 1, FilledSlots: 1, RequiredSkills: []string{"drums"}},
			{Name: "keys", MaxSlots: 1, IsLocked: true, RequiredSkills: []string{"keys"}},
			{Name: "anything", MaxSlots: 1},
		},
	}

	eligible := EligibleRoles(gig, []string{"guitar", "drums", "keys"})

	// drums is full, keys is locked; guitar matches by skill and the
	// unrestricted role accepts anyone.
	assert.Equal(t, []int{0, 3}, eligible)
}

func TestEligibleRoles_NoneEligible(t *testing.T) {
	gig := &models.Gig{
		Category: models.CategoryBandCreation,
		BandRoles: []models.BandRole{
			{Name: "guitar", MaxSlots: 2, RequiredSkills: []string{"guitar"}},
		},
	}

	assert.Empty(t, EligibleRoles(gig, []string{"drums"}))
}
