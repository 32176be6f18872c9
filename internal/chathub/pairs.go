package chathub

import "randochat/backend/internal/models"

// PairTable is the single source of truth for "who is with whom". Both
// directions of a pair are set and cleared together, so the table can never
// hold a one-sided stub.
//
// Like the waiting pool, the table relies on the coordinator's mutex for
// serialization.
type PairTable struct {
	partners map[string]string
	modes    map[string]string

	// videoCalls marks endpoints whose signaling relay is currently
	// authorized. Set for both sides of a video pair, cleared on unpair or
	// explicit call end.
	videoCalls map[string]bool
}

func NewPairTable() *PairTable {
	return &PairTable{
		partners:   make(map[string]string),
		modes:      make(map[string]string),
		videoCalls: make(map[string]bool),
	}
}

// Pair records a↔b for mode. Callers guarantee neither id is already paired.
func (t *PairTable) Pair(a, b, mode string) {
	t.partners[a] = b
	t.partners[b] = a
	t.modes[a] = mode
	t.modes[b] = mode
	if mode == models.ModeVideo {
		t.videoCalls[a] = true
		t.videoCalls[b] = true
	}
}

// Unpair clears both directions of id's pair and returns the ex-partner and
// the pair's mode. Calling it again for either id is a no-op.
func (t *PairTable) Unpair(id string) (partner, mode string, ok bool) {
	partner, ok = t.partners[id]
	if !ok {
		return "", "", false
	}
	mode = t.modes[id]
	delete(t.partners, id)
	delete(t.partners, partner)
	delete(t.modes, id)
	delete(t.modes, partner)
	delete(t.videoCalls, id)
	delete(t.videoCalls, partner)
	return partner, mode, true
}

// PartnerOf returns the id currently paired with id.
func (t *PairTable) PartnerOf(id string) (string, bool) {
	p, ok := t.partners[id]
	return p, ok
}

// ModeOf returns the mode of id's pair.
func (t *PairTable) ModeOf(id string) (string, bool) {
	m, ok := t.modes[id]
	return m, ok
}

// VideoActive reports whether id currently holds an authorized video relay
// session.
func (t *PairTable) VideoActive(id string) bool {
	return t.videoCalls[id]
}

// EndVideo revokes the relay session markers for both sides of a call while
// (possibly) leaving the pair itself intact.
func (t *PairTable) EndVideo(a, b string) {
	delete(t.videoCalls, a)
	delete(t.videoCalls, b)
}

// Len returns the number of active pairs.
func (t *PairTable) Len() int {
	return len(t.partners) / 2
}

// IDs returns every identifier currently appearing in the table.
func (t *PairTable) IDs() []string {
	out := make([]string, 0, len(t.partners))
	for id := range t.partners {
		out = append(out, id)
	}
	return out
}
