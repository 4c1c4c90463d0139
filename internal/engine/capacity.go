package engine

import (
	"gig-system/models"
)

// Capacity summarizes filled and available slots for a gig or a single
// band role. It is derived from the snapshot's stored counters; the
// engine never mutates them.
type Capacity struct {
	Used      int  `json:"used"`
	Max       int  `json:"max"`
	Available int  `json:"available"`
	IsFull    bool `json:"is_full"`
}

func newCapacity(used, max int) Capacity {
	available := max - used
	if available < 0 {
		available = 0
	}
	return Capacity{
		Used:      used,
		Max:       max,
		Available: available,
		IsFull:    used >= max,
	}
}

// GigCapacity computes gig-level capacity for the gig's shape.
//
// Individual and specialty gigs count interested users against a single
// slot counter. Full-band gigs count active whole-band applications
// against the number of bands the gig will accept. Client-band-creation
// gigs are only full when every role is individually full; a gig of
// that shape with no roles degrades to max=0, full.
func GigCapacity(gig *models.Gig) Capacity {
	switch Classify(gig) {
	case ShapeBandCreation:
		if len(gig.BandRoles) == 0 {
			return Capacity{Used: 0, Max: 0, Available: 0, IsFull: true}
		}
		used, max := 0, 0
		full := true
		for i := range gig.BandRoles {
			rc := RoleCapacity(&gig.BandRoles[i])
			used += rc.Used
			max += rc.Max
			if !rc.IsFull {
				full = false
			}
		}
		available := max - used
		if available < 0 {
			available = 0
		}
		return Capacity{Used: used, Max: max, Available: available, IsFull: full}
	case ShapeFullBand:
		used := 0
		for i := range gig.BandApplications {
			if gig.BandApplications[i].Active() {
				used++
			}
		}
		return newCapacity(used, maxSlots(gig))
	default:
		return newCapacity(len(gig.InterestedUsers), maxSlots(gig))
	}
}

// RoleCapacity computes capacity for one band role. The booked-user
// list is authoritative over the filled_slots counter when present.
func RoleCapacity(role *models.BandRole) Capacity {
	return newCapacity(role.Booked(), role.MaxSlots)
}

// RoleCapacityAt computes capacity for the role at the given index,
// degrading to an empty full capacity when the index is out of range.
func RoleCapacityAt(gig *models.Gig, roleIndex int) Capacity {
	if roleIndex < 0 || roleIndex >= len(gig.BandRoles) {
		return Capacity{Used: 0, Max: 0, Available: 0, IsFull: true}
	}
	return RoleCapacity(&gig.BandRoles[roleIndex])
}

func maxSlots(gig *models.Gig) int {
	if gig.MaxSlots > 0 {
		return gig.MaxSlots
	}
	return 1
}
