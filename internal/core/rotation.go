package core

import "time"

// DutyMember is a snapshot copy of a roommate captured in the rotation
// document, not a live reference.
type DutyMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WaterDuty is the singleton rotation document. CurrentPerson is denormalized
// from CurrentPersonIndex for display.
type WaterDuty struct {
	CurrentPersonIndex int          `json:"currentPersonIndex"`
	Roommates          []DutyMember `json:"roommates"`
	CurrentPerson      string       `json:"currentPerson"`
	StartDate          string       `json:"startDate"`
	CompletedCount     int          `json:"completedCount"`
	LastCompletedBy    string       `json:"lastCompletedBy,omitempty"`
	LastCompletedAt    string       `json:"lastCompletedAt,omitempty"`
}

// Members converts roommates to rotation members, preserving order.
func Members(roommates []Roommate) []DutyMember {
	members := make([]DutyMember, len(roommates))
	for i, r := range roommates {
		members[i] = DutyMember{ID: r.ID, Name: r.Name}
	}
	return members
}

// NewWaterDuty starts a rotation at index 0 over a non-empty member list.
func NewWaterDuty(members []DutyMember, now time.Time) (WaterDuty, error) {
	if len(members) == 0 {
		return WaterDuty{}, ErrNoRoommates
	}
	return WaterDuty{
		CurrentPersonIndex: 0,
		Roommates:          members,
		CurrentPerson:      members[0].Name,
		StartDate:          Timestamp(now),
		CompletedCount:     0,
	}, nil
}

// Complete records the current person as done and advances the rotation with
// wraparound. A rotation with no members is a no-op.
func (w *WaterDuty) Complete(now time.Time) {
	n := len(w.Roommates)
	if n == 0 {
		return
	}
	w.LastCompletedBy = w.CurrentPerson
	w.LastCompletedAt = Timestamp(now)
	w.CompletedCount++
	w.CurrentPersonIndex = (w.CurrentPersonIndex + 1) % n
	w.CurrentPerson = w.Roommates[w.CurrentPersonIndex].Name
}

// Reconcile rebases the rotation onto a new member list. The rotation keeps
// pointing at the same person by name when they survive the roster change;
// otherwise it silently resets to the head of the new list. Matching by name
// means a rename breaks continuity and duplicate names are indistinguishable.
func (w *WaterDuty) Reconcile(members []DutyMember) {
	w.Roommates = members
	if len(members) == 0 {
		w.CurrentPersonIndex = 0
		w.CurrentPerson = ""
		return
	}
	for i, m := range members {
		if m.Name == w.CurrentPerson {
			w.CurrentPersonIndex = i
			return
		}
	}
	w.CurrentPersonIndex = 0
	w.CurrentPerson = members[0].Name
}

// NextPerson returns the name due after the current turn, or "" when the
// rotation has no members.
func (w WaterDuty) NextPerson() string {
	n := len(w.Roommates)
	if n == 0 {
		return ""
	}
	return w.Roommates[(w.CurrentPersonIndex+1)%n].Name
}
