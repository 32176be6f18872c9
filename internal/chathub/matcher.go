package chathub

import (
	"strings"

	"randochat/backend/internal/models"
)

// MatchSelector applies the tie-break policy to a waiting pool. It only
// reads the registry and pair table; all mutation stays with the
// coordinator.
type MatchSelector struct {
	Registry *Registry
	Pairs    *PairTable
}

func NewMatchSelector(reg *Registry, pairs *PairTable) *MatchSelector {
	return &MatchSelector{Registry: reg, Pairs: pairs}
}

// Select scans entries in insertion order and picks a partner for the
// seeker, or nil when nothing fits.
//
// A candidate is "perfect" when both interests agree (case-insensitive,
// non-empty) and each side's gender preference is satisfied by the other.
// The first perfect candidate wins and stops the scan. Failing that, the
// first "good" candidate (interest match OR mutual preference satisfaction)
// beats the first "any" candidate (a one-sided preference fit), which beats
// nothing.
//
// Entries that are the seeker itself, no longer resolvable, or already
// paired are reported in evict for the caller to drop from the pool; such
// entries should not exist but are tolerated.
func (m *MatchSelector) Select(seekerID string, p models.Profile, entries []*WaitingEntry) (match *WaitingEntry, evict []string) {
	var good, any *WaitingEntry

	for _, e := range entries {
		if e.ID == seekerID {
			evict = append(evict, e.ID)
			continue
		}
		if _, ok := m.Registry.Resolve(e.ID); !ok {
			evict = append(evict, e.ID)
			continue
		}
		if _, paired := m.Pairs.PartnerOf(e.ID); paired {
			evict = append(evict, e.ID)
			continue
		}

		interestMatch := p.Interest != "" && e.Profile.Interest != "" &&
			strings.EqualFold(p.Interest, e.Profile.Interest)
		forwardOK := p.SelectedGender == models.GenderRandom || e.Profile.Gender == p.SelectedGender
		reverseOK := e.Profile.SelectedGender == models.GenderRandom || p.Gender == e.Profile.SelectedGender

		if interestMatch && forwardOK && reverseOK {
			return e, evict
		}
		if good == nil && (interestMatch || (forwardOK && reverseOK)) {
			good = e
			continue
		}
		if any == nil && (forwardOK || reverseOK) {
			any = e
		}
	}

	if good != nil {
		return good, evict
	}
	return any, evict
}
