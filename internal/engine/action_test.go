package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"gig-system/models"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func resolve(gig *models.Gig, viewerID string, skills []string) Action {
	return ResolveAction(gig, ResolveStatus(gig, viewerID), testNow, skills)
}

func TestResolveAction_PosterNeverApplies(t *testing.T) {
	gigs := []*models.Gig{
		{Category: models.CategoryIndividual, PostedBy: "p", MaxSlots: 2},
		{Category: models.CategoryFullBand, PostedBy: "p", MaxSlots: 2},
		{Category: models.CategoryBandCreation, PostedBy: "p", BandRoles: []models.BandRole{{Name: "guitar", MaxSlots: 1}}},
	}

	for _, gig := range gigs {
		a := resolve(gig, "p", nil)
		assert.NotEqual(t, ActionShowInterest, a.Kind, "shape %s", Classify(gig))
		assert.NotEqual(t, ActionApply, a.Kind, "shape %s", Classify(gig))
	}
}

func TestResolveAction_PosterEditReviewManage(t *testing.T) {
	gig := &models.Gig{Category: models.CategoryIndividual, PostedBy: "p", MaxSlots: 2}

	assert.Equal(t, ActionEdit, resolve(gig, "p", nil).Kind)

	gig.InterestedUsers = []string{"u1"}
	assert.Equal(t, ActionReview, resolve(gig, "p", nil).Kind)

	gig.IsTaken = true
	assert.Equal(t, ActionManage, resolve(gig, "p", nil).Kind)
}

func TestResolveAction_PosterBandCreation(t *testing.T) {
	gig := &models.Gig{
		Category:  models.CategoryBandCreation,
		PostedBy:  "p",
		BandRoles: []models.BandRole{{Name: "guitar", MaxSlots: 2}},
	}

	assert.Equal(t, ActionEdit, resolve(gig, "p", nil).Kind)

	gig.BandRoles[0].Applicants = []string{"u1"}
	assert.Equal(t, ActionReview, resolve(gig, "p", nil).Kind)

	gig.BandRoles[0].BookedUsers = []string{"u1"}
	assert.Equal(t, ActionManage, resolve(gig, "p", nil).Kind)
}

func TestResolveAction_FullGigClosedToBystanders(t *testing.T) {
	gig := &models.Gig{
		Category:        models.CategoryIndividual,
		PostedBy:        "p",
		MaxSlots:        1,
		InterestedUsers: []string{"u1"},
	}

	a := resolve(gig, "stranger", nil)

	assert.Equal(t, ActionNone, a.Kind)
	assert.Equal(t, "Fully Booked", a.Label)
	assert.False(t, a.Enabled)
}

func TestResolveAction_FullGigStillWithdrawable(t *testing.T) {
	gig := &models.Gig{
		Category:        models.CategoryIndividual,
		PostedBy:        "p",
		MaxSlots:        2,
		InterestedUsers: []string{"u1", "me"},
	}

	a := resolve(gig, "me", nil)

	assert.Equal(t, ActionWithdraw, a.Kind)
	assert.True(t, a.Enabled)
	assert.Equal(t, ActionNone, resolve(gig, "stranger", nil).Kind)
}

func TestResolveAction_TakenGig(t *testing.T) {
	gig := &models.Gig{
		Category: models.CategoryIndividual,
		PostedBy: "p",
		MaxSlots: 5,
		IsTaken:  true,
	}

	a := resolve(gig, "stranger", nil)

	assert.Equal(t, ActionNone, a.Kind)
	assert.Equal(t, "Booked", a.Label)
	assert.False(t, a.Enabled)
}

func TestResolveAction_BookedViewerMayAlwaysLeave(t *testing.T) {
	closes := testNow.Add(-time.Hour)
	gig := &models.Gig{
		Category: models.CategoryBandCreation,
		PostedBy: "p",
		ClosesAt: &closes, // window closed; withdrawal is unaffected
		BandRoles: []models.BandRole{
			{Name: "guitar", MaxSlots: 1, BookedUsers: []string{"me"}},
		},
	}

	a := resolve(gig, "me", nil)

	assert.Equal(t, ActionWithdraw, a.Kind)
	assert.True(t, a.Enabled)
}

func TestResolveAction_WithdrawIgnoresWindow(t *testing.T) {
	closes := testNow.Add(-time.Hour)
	gig := &models.Gig{
		Category:        models.CategoryIndividual,
		PostedBy:        "p",
		MaxSlots:        2,
		ClosesAt:        &closes,
		InterestedUsers: []string{"me"},
	}

	a := resolve(gig, "me", nil)

	assert.Equal(t, ActionWithdraw, a.Kind)
	assert.True(t, a.Enabled)
	assert.Empty(t, a.Reason)
}

func TestResolveAction_FullBandApplicantViewsApplication(t *testing.T) {
	gig := &models.Gig{
		Category: models.CategoryFullBand,
		PostedBy: "p",
		MaxSlots: 3,
		BandApplications: []models.BandApplication{
			{BandID: "b1", ApplicantID: "me", Status: models.ApplicationPending},
		},
	}

	a := resolve(gig, "me", nil)

	assert.Equal(t, ActionViewApplication, a.Kind)
	assert.True(t, a.Enabled)
}

// Scenario: window opens in an hour, bystander sees a disabled
// show-interest with the countdown message as the reason.
func TestResolveAction_WindowNotOpenDisablesSubmission(t *testing.T) {
	opens := testNow.Add(time.Hour)
	gig := &models.Gig{
		Category: models.CategoryIndividual,
		PostedBy: "p",
		MaxSlots: 2,
		OpensAt:  &opens,
	}

	w := ResolveWindow(gig, testNow)
	assert.Equal(t, WindowNotOpen, w.State)

	a := resolve(gig, "stranger", nil)

	assert.Equal(t, ActionShowInterest, a.Kind)
	assert.False(t, a.Enabled)
	assert.Equal(t, w.Message, a.Reason)
}

// Scenario: one role with room and a matching skill, no window: apply
// pre-bound to that role.
func TestResolveAction_SingleEligibleRolePreBound(t *testing.T) {
	gig := &models.Gig{
		Category: models.CategoryBandCreation,
		PostedBy: "p",
		BandRoles: []models.BandRole{
			{Name: "guitar", MaxSlots: 2, FilledSlots: 1, RequiredSkills: []string{"guitar"}},
		},
	}

	a := resolve(gig, "me", []string{"guitar", "vocals"})

	assert.Equal(t, ActionApply, a.Kind)
	assert.True(t, a.Enabled)
	assert.Equal(t, "guitar", a.Role)
	assert.False(t, a.NeedsRoleChoice)
}

// Scenario: same gig, no matching skills: view-requirements, always
// enabled.
func TestResolveAction_NoEligibleRoleShowsRequirements(t *testing.T) {
	gig := &models.Gig{
		Category: models.CategoryBandCreation,
		PostedBy: "p",
		BandRoles: []models.BandRole{
			{Name: "guitar", MaxSlots: 2, FilledSlots: 1, RequiredSkills: []string{"guitar"}},
		},
	}

	a := resolve(gig, "me", []string{"drums"})

	assert.Equal(t, ActionViewRequirements, a.Kind)
	assert.True(t, a.Enabled)
}

func TestResolveAction_ViewRequirementsIgnoresClosedWindow(t *testing.T) {
	closes := testNow.Add(-time.Hour)
	gig := &models.Gig{
		Category: models.CategoryBandCreation,
		PostedBy: "p",
		ClosesAt: &closes,
		BandRoles: []models.BandRole{
			{Name: "guitar", MaxSlots: 2, RequiredSkills: []string{"guitar"}},
		},
	}

	a := resolve(gig, "me", []string{"drums"})

	assert.Equal(t, ActionViewRequirements, a.Kind)
	assert.True(t, a.Enabled, "browsing requirements never needs an open window")
}

func TestResolveAction_MultipleEligibleRolesNeedChoice(t *testing.T) {
	gig := &models.Gig{
		Category: models.CategoryBandCreation,
		PostedBy: "p",
		BandRoles: []models.BandRole{
			{Name: "guitar", MaxSlots: 2, RequiredSkills: []string{"guitar"}},
			{Name: "vocals", MaxSlots: 1, RequiredSkills: []string{"vocals"}},
		},
	}

	a := resolve(gig, "me", []string{"guitar", "vocals"})

	assert.Equal(t, ActionApply, a.Kind)
	assert.True(t, a.NeedsRoleChoice)
	assert.Empty(t, a.Role)
}

func TestResolveAction_FullBandBystanderApplies(t *testing.T) {
	gig := &models.Gig{Category: models.CategoryFullBand, PostedBy: "p", MaxSlots: 2}

	a := resolve(gig, "me", nil)

	assert.Equal(t, ActionApply, a.Kind)
	assert.True(t, a.Enabled)
}

// Scenario: one interested user equal to the viewer on a single-slot
// gig: withdraw, rank 1.
func TestResolveAction_InterestedViewerWithdraws(t *testing.T) {
	gig := &models.Gig{
		Category:        models.CategoryIndividual,
		PostedBy:        "p",
		MaxSlots:        1,
		InterestedUsers: []string{"me"},
	}

	vs := ResolveStatus(gig, "me")
	assert.True(t, vs.HasShownInterest)
	assert.Equal(t, 1, vs.Position)

	a := ResolveAction(gig, vs, testNow, nil)
	assert.Equal(t, ActionWithdraw, a.Kind)
	assert.True(t, a.Enabled)
}

func TestResolveAction_ClosedWindowDisablesWithReason(t *testing.T) {
	closes := testNow.Add(-time.Hour)
	gig := &models.Gig{
		Category: models.CategoryFullBand,
		PostedBy: "p",
		MaxSlots: 2,
		ClosesAt: &closes,
	}

	a := resolve(gig, "me", nil)

	assert.Equal(t, ActionApply, a.Kind)
	assert.False(t, a.Enabled)
	assert.NotEmpty(t, a.Reason)
}

func TestResolveAction_EmptyRoleListYieldsNone(t *testing.T) {
	gig := &models.Gig{Category: models.CategoryBandCreation, PostedBy: "p"}

	a := resolve(gig, "me", []string{"guitar"})

	assert.Equal(t, ActionNone, a.Kind)
	assert.False(t, a.Enabled)
}

// Every shape/involvement/window combination resolves to exactly one
// action; the table never falls through.
func TestResolveAction_Total(t *testing.T) {
	opens := testNow.Add(time.Hour)
	closes := testNow.Add(-time.Hour)

	windows := []struct {
		name     string
		opensAt  *time.Time
		closesAt *time.Time
	}{
		{"no-window", nil, nil},
		{"not-open", &opens, nil},
		{"closed", nil, &closes},
	}
	categories := []string{
		models.CategoryIndividual,
		models.CategoryFullBand,
		models.CategoryBandCreation,
		models.CategorySpecialtyMC,
		"unmapped-category",
	}
	viewers := []string{"", "p", "involved", "stranger"}

	for _, win := range windows {
		for _, cat := range categories {
			for _, taken := range []bool{false, true} {
				gig := &models.Gig{
					Category:        cat,
					PostedBy:        "p",
					MaxSlots:        2,
					IsTaken:         taken,
					OpensAt:         win.opensAt,
					ClosesAt:        win.closesAt,
					InterestedUsers: []string{"involved"},
					BandRoles: []models.BandRole{
						{Name: "guitar", MaxSlots: 2, Applicants: []string{"involved"}},
					},
					BandApplications: []models.BandApplication{
						{BandID: "b1", ApplicantID: "involved", Status: models.ApplicationPending},
					},
				}
				for _, viewer := range viewers {
					a := resolve(gig, viewer, []string{"guitar"})
					assert.NotEmpty(t, a.Kind, "%s/%s/taken=%v viewer=%q", cat, win.name, taken, viewer)
					assert.NotEmpty(t, a.Label, "%s/%s/taken=%v viewer=%q", cat, win.name, taken, viewer)
				}
			}
		}
	}
}
