package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
)

const (
	minLevel = 1
	maxLevel = 20
)

// ValidateGameState checks the invariants a snapshot must satisfy before it
// can become the current state.
func ValidateGameState(gs *client.GameState) error {
	if gs == nil {
		return &ValidationError{Field: "game_state", Msg: "snapshot is nil; use ClearGameState"}
	}
	if strings.TrimSpace(gs.GameID) == "" {
		return &ValidationError{Field: "game_id", Msg: "must not be empty"}
	}
	if gs.Character == nil {
		return &ValidationError{Field: "character", Msg: "must be present"}
	}
	if strings.TrimSpace(gs.Location) == "" {
		return &ValidationError{Field: "location", Msg: "must not be empty"}
	}
	hp := gs.Character.State.HitPoints.Current
	if hp < 0 {
		return &ValidationError{
			Field: "character.hit_points.current",
			Value: fmt.Sprint(hp),
			Msg:   "must be >= 0",
		}
	}
	if lvl := gs.Character.State.Level; lvl != nil && (*lvl < minLevel || *lvl > maxLevel) {
		return &ValidationError{
			Field: "character.level",
			Value: fmt.Sprint(*lvl),
			Msg:   fmt.Sprintf("must be in [%d, %d]", minLevel, maxLevel),
		}
	}
	return nil
}

// validateMember checks id against the snapshot's player and party roster.
func validateMember(gs *client.GameState, id string) error {
	allowed := gs.MemberIDs()
	if slices.Contains(allowed, id) {
		return nil
	}
	return &ValidationError{
		Field: "selected_member_id",
		Value: id,
		Msg:   fmt.Sprintf("not in party; allowed: {%s}", strings.Join(quoteAll(allowed), ",")),
	}
}

func quoteAll(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = fmt.Sprintf("%q", id)
	}
	return out
}
