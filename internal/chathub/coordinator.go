package chathub

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"randochat/backend/internal/models"
)

// Settings carries the tunables the coordinator needs from configuration.
type Settings struct {
	// MatchTimeout bounds how long an endpoint waits in a pool before it is
	// evicted and told so. Zero disables the timeout.
	MatchTimeout time.Duration
	// MaxMessageLen bounds relayed chat text, in bytes.
	MaxMessageLen int
}

// Stats is a point-in-time snapshot of the coordinator's state.
type Stats struct {
	Connected    int `json:"connected"`
	TextWaiting  int `json:"textWaiting"`
	VideoWaiting int `json:"videoWaiting"`
	ActivePairs  int `json:"activePairs"`
}

// Coordinator owns the waiting pools and the pairing table and runs every
// state transition for them. One mutex serializes all transitions, whether
// they arrive from a connection's read pump, a matching timer, or the
// reaper; nothing outside the coordinator mutates this state.
type Coordinator struct {
	mu       sync.Mutex
	registry *Registry
	pool     *WaitingPool
	pairs    *PairTable
	selector *MatchSelector
	settings Settings
}

func NewCoordinator(reg *Registry, s Settings) *Coordinator {
	if s.MaxMessageLen <= 0 {
		s.MaxMessageLen = 1000
	}
	pairs := NewPairTable()
	return &Coordinator{
		registry: reg,
		pool:     NewWaitingPool(),
		pairs:    pairs,
		selector: NewMatchSelector(reg, pairs),
		settings: s,
	}
}

func (co *Coordinator) Registry() *Registry { return co.registry }

// Register makes c resolvable. Matching state is untouched: a connection
// only enters a pool once it sends a join intent.
func (co *Coordinator) Register(c Client) {
	co.registry.Register(c)
}

// Disconnect handles transport close: full cleanup plus deregistration. The
// ex-partner, if any, learns the loss was abrupt.
func (co *Coordinator) Disconnect(c Client) {
	if !co.registry.Unregister(c) {
		// A replaced connection's pump winding down; the successor owns the
		// id now.
		return
	}
	co.mu.Lock()
	defer co.mu.Unlock()
	co.cleanupLocked(c.GetUserID())
}

// Join runs the SEEKING transition for a join intent: full cleanup of any
// prior membership, then a pool scan. The returned error is a user-facing
// rejection (unknown mode or preference).
func (co *Coordinator) Join(id string, req models.JoinRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	co.mu.Lock()
	defer co.mu.Unlock()

	// A re-seek abandons whatever came before, pool membership and partner
	// alike.
	co.cleanupLocked(id)

	profile := req.Profile()
	match, evict := co.selector.Select(id, profile, co.pool.Entries(req.Mode))
	for _, staleID := range evict {
		co.removeWaitingLocked(staleID)
	}

	if match == nil {
		entry := &WaitingEntry{ID: id, Profile: profile, JoinedAt: time.Now()}
		co.pool.Insert(req.Mode, entry)
		if co.settings.MatchTimeout > 0 {
			entry.timer = time.AfterFunc(co.settings.MatchTimeout, func() {
				co.expireWaiting(entry)
			})
		}
		log.Info().Str("module", "chathub.coordinator").Str("user_id", id).
			Str("mode", req.Mode).Int("pool_size", co.pool.Size(req.Mode)).
			Msg("no match, waiting")
		return nil
	}

	co.removeWaitingLocked(match.ID)
	co.pairs.Pair(id, match.ID, req.Mode)
	log.Info().Str("module", "chathub.coordinator").Str("user_id", id).
		Str("partner_id", match.ID).Str("mode", req.Mode).Msg("match found")

	// For video the lexically lower id creates the offer, so exactly one
	// side initiates without any extra negotiation.
	initiator := req.Mode == models.ModeVideo
	co.notifyLocked(id, models.ServerEvent{
		Type:      models.EventMatchFound,
		PartnerID: match.ID,
		Initiator: initiator && id < match.ID,
	})
	co.notifyLocked(match.ID, models.ServerEvent{
		Type:      models.EventMatchFound,
		PartnerID: id,
		Initiator: initiator && match.ID < id,
	})
	return nil
}

// Skip runs the "next" transition. The pair is dissolved, both sides are
// told to find another partner, and neither is auto-reinserted into a pool:
// clients re-emit a join intent themselves.
func (co *Coordinator) Skip(id string, req models.SkipRequest) {
	co.mu.Lock()
	defer co.mu.Unlock()

	// The table, not the client's claim, decides who the partner was.
	partner, mode, ok := co.pairs.Unpair(id)
	if ok {
		if mode == models.ModeVideo {
			co.notifyLocked(partner, models.ServerEvent{Type: models.EventEndVideo})
		}
		co.notifyLocked(partner, models.ServerEvent{Type: models.EventFindOther})
	}
	co.notifyLocked(id, models.ServerEvent{Type: models.EventFindOther})
}

// LeaveChat runs the deliberate disconnect-from-match transition. Unlike an
// abrupt loss, the partner is told the peer chose to leave.
func (co *Coordinator) LeaveChat(id string, req models.SkipRequest) {
	co.mu.Lock()
	defer co.mu.Unlock()

	partner, mode, ok := co.pairs.Unpair(id)
	if ok {
		if mode == models.ModeVideo {
			co.notifyLocked(id, models.ServerEvent{Type: models.EventEndVideo})
			co.notifyLocked(partner, models.ServerEvent{Type: models.EventEndVideo})
		}
		co.notifyLocked(partner, models.ServerEvent{Type: models.EventPartnerLeft})
		co.notifyLocked(partner, models.ServerEvent{Type: models.EventFindOther})
	}
}

// EndCall runs the explicit video hangup: relay markers and pair go away
// together and the partner re-seeks.
func (co *Coordinator) EndCall(id string, req models.CallEnd) {
	co.mu.Lock()
	defer co.mu.Unlock()

	co.removeWaitingLocked(id)
	// The table, not req.PartnerID, decides who gets told; a stale or forged
	// claim reaches nobody.
	partner, _, ok := co.pairs.Unpair(id)
	if ok {
		co.notifyLocked(partner, models.ServerEvent{Type: models.EventEndVideo})
		co.notifyLocked(partner, models.ServerEvent{Type: models.EventFindOther})
	}
}

// RelayChat forwards a text message to the sender's recorded partner. The
// returned error is a user-facing rejection; unauthorized sends are dropped
// silently instead.
func (co *Coordinator) RelayChat(senderID string, req models.ChatSend) error {
	if req.Message == "" {
		return fmt.Errorf("empty message")
	}
	if len(req.Message) > co.settings.MaxMessageLen {
		return fmt.Errorf("message exceeds %d bytes", co.settings.MaxMessageLen)
	}

	co.mu.Lock()
	defer co.mu.Unlock()

	partner, ok := co.pairs.PartnerOf(senderID)
	if !ok || partner != req.To {
		// Stale or spoofed recipient after a skip/disconnect race. No
		// notification: erroring here would leak pairing state.
		log.Debug().Str("module", "chathub.coordinator").Str("user_id", senderID).
			Str("to", req.To).Msg("chat relay rejected")
		return nil
	}
	co.deliverLocked(senderID, partner, models.ServerEvent{
		Type:    models.EventReceiveMessage,
		From:    senderID,
		Message: req.Message,
	})
	return nil
}

// RelaySignal forwards an opaque offer/answer/candidate payload between the
// two sides of a live video pair. Anything else is dropped without a word.
func (co *Coordinator) RelaySignal(senderID, kind string, req models.SignalSend) {
	co.mu.Lock()
	defer co.mu.Unlock()

	partner, ok := co.pairs.PartnerOf(senderID)
	if !ok || partner != req.To || !co.pairs.VideoActive(senderID) {
		log.Debug().Str("module", "chathub.coordinator").Str("user_id", senderID).
			Str("kind", kind).Msg("signal relay rejected")
		return
	}
	co.deliverLocked(senderID, partner, models.ServerEvent{
		Type:    kind,
		From:    senderID,
		Payload: req.Payload,
	})
}

// Sweep removes waiting entries and pairs whose endpoints no longer
// resolve. Event-driven cleanup normally beats it to the punch; the sweep
// self-heals whatever slipped through.
func (co *Coordinator) Sweep() (removedWaiting, removedPairs int) {
	co.mu.Lock()
	defer co.mu.Unlock()

	for _, mode := range []string{models.ModeText, models.ModeVideo} {
		for _, e := range co.pool.Entries(mode) {
			if _, ok := co.registry.Resolve(e.ID); !ok {
				co.removeWaitingLocked(e.ID)
				removedWaiting++
			}
		}
	}

	for _, id := range co.pairs.IDs() {
		if _, ok := co.registry.Resolve(id); ok {
			continue
		}
		partner, mode, ok := co.pairs.Unpair(id)
		if !ok {
			continue // already cleared via its partner this sweep
		}
		removedPairs++
		if mode == models.ModeVideo {
			co.notifyLocked(partner, models.ServerEvent{Type: models.EventEndVideo})
		}
		co.notifyLocked(partner, models.ServerEvent{Type: models.EventPartnerDisconnected})
		co.notifyLocked(partner, models.ServerEvent{Type: models.EventFindOther})
	}
	return removedWaiting, removedPairs
}

// Stats snapshots pool, pair, and registry sizes.
func (co *Coordinator) Stats() Stats {
	co.mu.Lock()
	defer co.mu.Unlock()
	return Stats{
		Connected:    co.registry.Len(),
		TextWaiting:  co.pool.Size(models.ModeText),
		VideoWaiting: co.pool.Size(models.ModeVideo),
		ActivePairs:  co.pairs.Len(),
	}
}

// expireWaiting fires when a matching timeout lapses. The entry may have
// left the pool (or been replaced by a newer join) while the timer was in
// flight; only the exact entry still waiting is evicted.
func (co *Coordinator) expireWaiting(entry *WaitingEntry) {
	co.mu.Lock()
	defer co.mu.Unlock()

	if co.pool.Lookup(entry.ID) != entry {
		return
	}
	co.removeWaitingLocked(entry.ID)
	co.notifyLocked(entry.ID, models.ServerEvent{Type: models.EventMatchTimeout})
	log.Info().Str("module", "chathub.coordinator").Str("user_id", entry.ID).
		Msg("matching timed out")
}

// cleanupLocked is the shared teardown every termination path funnels
// through: pool eviction with timer cancellation, idempotent unpair, and a
// "partner disconnected unexpectedly" heads-up for the abandoned side.
func (co *Coordinator) cleanupLocked(id string) {
	co.removeWaitingLocked(id)

	partner, mode, ok := co.pairs.Unpair(id)
	if !ok {
		return
	}
	if mode == models.ModeVideo {
		co.notifyLocked(partner, models.ServerEvent{Type: models.EventEndVideo})
	}
	co.notifyLocked(partner, models.ServerEvent{Type: models.EventPartnerDisconnected})
	co.notifyLocked(partner, models.ServerEvent{Type: models.EventFindOther})
}

func (co *Coordinator) removeWaitingLocked(id string) {
	if e := co.pool.Remove(id); e != nil && e.timer != nil {
		e.timer.Stop()
	}
}

// deliverLocked forwards ev to recipient, treating an unresolvable
// recipient as an implicit partner disconnect for the sender.
func (co *Coordinator) deliverLocked(senderID, recipient string, ev models.ServerEvent) {
	c, ok := co.registry.Resolve(recipient)
	if !ok {
		if _, mode, had := co.pairs.Unpair(senderID); had {
			if mode == models.ModeVideo {
				co.notifyLocked(senderID, models.ServerEvent{Type: models.EventEndVideo})
			}
			co.notifyLocked(senderID, models.ServerEvent{Type: models.EventPartnerDisconnected})
			co.notifyLocked(senderID, models.ServerEvent{Type: models.EventFindOther})
		}
		return
	}
	if err := c.TrySend(ev); err != nil {
		log.Warn().Err(err).Str("module", "chathub.coordinator").
			Str("user_id", recipient).Msg("dropping frame")
	}
}

// notifyLocked is the fire-and-forget best-effort send used for lifecycle
// notifications; a gone or slow endpoint just misses the news.
func (co *Coordinator) notifyLocked(id string, ev models.ServerEvent) {
	c, ok := co.registry.Resolve(id)
	if !ok {
		return
	}
	if err := c.TrySend(ev); err != nil {
		log.Debug().Err(err).Str("module", "chathub.coordinator").
			Str("user_id", id).Str("event", ev.Type).Msg("notify dropped")
	}
}
