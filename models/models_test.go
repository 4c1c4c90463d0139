package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandRole_BookedPrefersList(t *testing.T) {
	role := BandRole{MaxSlots: 3, FilledSlots: 2, BookedUsers: []string{"u1"}}
	assert.Equal(t, 1, role.Booked())

	role.BookedUsers = nil
	assert.Equal(t, 2, role.Booked())

	role.BookedUsers = []string{}
	assert.Equal(t, 0, role.Booked(), "an empty list still wins over the counter")
}

func TestBandApplication_Active(t *testing.T) {
	for status, want := range map[string]bool{
		ApplicationPending:     true,
		ApplicationShortlisted: true,
		ApplicationBooked:      true,
		ApplicationWithdrawn:   false,
		ApplicationRejected:    false,
	} {
		app := BandApplication{Status: status}
		assert.Equal(t, want, app.Active(), "status %q", status)
	}
}

func TestGig_JSONRoundTrip(t *testing.T) {
	opens := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	gig := Gig{
		ID:       "gig-1",
		Title:    "Wedding Reception Band",
		PostedBy: "client-9",
		Category: CategoryBandCreation,
		Price:    decimal.RequireFromString("450.50"),
		Currency: "USD",
		OpensAt:  &opens,
		BandRoles: []BandRole{
			{Name: "guitar", MaxSlots: 2, RequiredSkills: []string{"guitar"}},
		},
	}

	data, err := json.Marshal(gig)
	require.NoError(t, err)

	var out Gig
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, gig.ID, out.ID)
	assert.True(t, gig.Price.Equal(out.Price))
	require.NotNil(t, out.OpensAt)
	assert.True(t, opens.Equal(*out.OpensAt))
	require.Len(t, out.BandRoles, 1)
	assert.Equal(t, "guitar", out.BandRoles[0].Name)
	assert.Nil(t, out.BandApplications, "absent lists stay absent")
}
