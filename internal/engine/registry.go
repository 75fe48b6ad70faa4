package engine

import (
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"futkings-live/internal/constants"
	"futkings-live/internal/domain"
)

// Registry holds the currently active cards and sanctions. Entries expire
// against wall-clock time; every query takes the caller's notion of now so a
// just-expired modifier never leaks into a rule decision even before the
// next sweep runs.
//
// Slices keep insertion order, which doubles as creation order for the LIFO
// sanction undo.
type Registry struct {
	cards     []domain.ActiveCard
	sanctions []domain.Sanction
	newID     func() string
}

func NewRegistry() *Registry {
	return &Registry{
		newID: func() string { return gonanoid.Must() },
	}
}

// ActivateCard creates a card expiring after the fixed card duration. Card
// types that name a player (KING_PLAYER, EXCLUSION) require a target; no
// uniqueness or mutual-exclusion check is applied beyond that.
func (r *Registry) ActivateCard(teamID string, cardType domain.CardType, targetPlayerID string, now time.Time) (domain.ActiveCard, error) {
	if cardType.RequiresTarget() && targetPlayerID == "" {
		return domain.ActiveCard{}, ErrTargetRequired
	}
	card := domain.ActiveCard{
		ID:             r.newID(),
		TeamID:         teamID,
		Type:           cardType,
		TargetPlayerID: targetPlayerID,
		StartedAt:      now,
		ExpiresAt:      now.Add(constants.CardDuration),
	}
	r.cards = append(r.cards, card)
	return card, nil
}

func (r *Registry) ActivateSanction(playerID, teamID string, kind domain.SanctionKind, now time.Time) domain.Sanction {
	s := domain.Sanction{
		ID:        r.newID(),
		PlayerID:  playerID,
		TeamID:    teamID,
		Kind:      kind,
		StartedAt: now,
		ExpiresAt: now.Add(constants.SanctionDuration),
	}
	r.sanctions = append(r.sanctions, s)
	return s
}

// RevokeSanction removes the most recently created sanction matching
// (player, kind). No-op when none matches.
func (r *Registry) RevokeSanction(playerID string, kind domain.SanctionKind) bool {
	for i := len(r.sanctions) - 1; i >= 0; i-- {
		if r.sanctions[i].PlayerID == playerID && r.sanctions[i].Kind == kind {
			r.sanctions = append(r.sanctions[:i], r.sanctions[i+1:]...)
			return true
		}
	}
	return false
}

// Sweep drops every entry with expiry at or before now and reports how many
// entries were removed.
func (r *Registry) Sweep(now time.Time) int {
	removed := 0
	kept := r.cards[:0]
	for _, c := range r.cards {
		if c.ExpiresAt.After(now) {
			kept = append(kept, c)
		} else {
			removed++
		}
	}
	r.cards = kept

	keptS := r.sanctions[:0]
	for _, s := range r.sanctions {
		if s.ExpiresAt.After(now) {
			keptS = append(keptS, s)
		} else {
			removed++
		}
	}
	r.sanctions = keptS
	return removed
}

// Clear drops every card and sanction, used when the owning match ends.
func (r *Registry) Clear() {
	r.cards = nil
	r.sanctions = nil
}

// CardsFor returns the team's cards still active at now.
func (r *Registry) CardsFor(teamID string, now time.Time) []domain.ActiveCard {
	var out []domain.ActiveCard
	for _, c := range r.cards {
		if c.TeamID == teamID && c.ExpiresAt.After(now) {
			out = append(out, c)
		}
	}
	return out
}

// ActiveCards returns every card still active at now, across both teams.
func (r *Registry) ActiveCards(now time.Time) []domain.ActiveCard {
	var out []domain.ActiveCard
	for _, c := range r.cards {
		if c.ExpiresAt.After(now) {
			out = append(out, c)
		}
	}
	return out
}

// ActiveSanctions returns every sanction still active at now.
func (r *Registry) ActiveSanctions(now time.Time) []domain.Sanction {
	var out []domain.Sanction
	for _, s := range r.sanctions {
		if s.ExpiresAt.After(now) {
			out = append(out, s)
		}
	}
	return out
}

// IsTargetOfActiveCard reports whether the player is the named target of an
// active card of the given type.
func (r *Registry) IsTargetOfActiveCard(playerID string, cardType domain.CardType, now time.Time) bool {
	for _, c := range r.cards {
		if c.Type == cardType && c.TargetPlayerID == playerID && c.ExpiresAt.After(now) {
			return true
		}
	}
	return false
}

// IsPlayerOut reports whether the player is temporarily off the pitch: the
// target of an opposing team's active EXCLUSION, or under an active sanction.
func (r *Registry) IsPlayerOut(playerID, teamID string, now time.Time) bool {
	for _, c := range r.cards {
		if c.Type == domain.CardExclusion && c.TargetPlayerID == playerID &&
			c.TeamID != teamID && c.ExpiresAt.After(now) {
			return true
		}
	}
	for _, s := range r.sanctions {
		if s.PlayerID == playerID && s.ExpiresAt.After(now) {
			return true
		}
	}
	return false
}
