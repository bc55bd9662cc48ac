// Package client provides the REST client and live event streams for the
// game backend. Types mirror the backend data contract without importing
// backend packages.
package client

import (
	"encoding/json"
	"time"
)

// EventType identifies the kind of live stream event.
type EventType string

const (
	EventConnected    EventType = "connected"
	EventHeartbeat    EventType = "heartbeat"
	EventNarrative    EventType = "narrative"
	EventToolCall     EventType = "tool_call"
	EventToolResult   EventType = "tool_result"
	EventGameUpdate   EventType = "game_update"
	EventCombatUpdate EventType = "combat_update"
	EventError        EventType = "error"
	EventComplete     EventType = "complete"
)

// Envelope wraps every event on the WebSocket transport. SSE carries the
// type in the event field and the payload in data.
type Envelope struct {
	Type    EventType       `json:"type"`
	Seq     uint64          `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload"`
}

// Role identifies who authored a conversation message.
type Role string

const (
	RolePlayer Role = "player"
	RoleDM     Role = "dm"
	RoleNPC    Role = "npc"
)

// GameState is the session snapshot published by the backend.
type GameState struct {
	GameID              string             `json:"game_id"`
	ScenarioID          string             `json:"scenario_id,omitempty"`
	ScenarioTitle       string             `json:"scenario_title,omitempty"`
	Character           *CharacterInstance `json:"character"`
	Location            string             `json:"location"`
	Party               Party              `json:"party"`
	NPCs                []NPCInstance      `json:"npcs,omitempty"`
	ConversationHistory []Message          `json:"conversation_history,omitempty"`
	Combat              *CombatState       `json:"combat,omitempty"`
	ActiveAgent         string             `json:"active_agent,omitempty"`
	GameTime            GameTime           `json:"game_time"`
	CreatedAt           time.Time          `json:"created_at"`
	LastSaved           time.Time          `json:"last_saved"`
}

// PlayerID returns the player character's instance id, or "" when the
// snapshot has no character.
func (g *GameState) PlayerID() string {
	if g == nil || g.Character == nil {
		return ""
	}
	return g.Character.InstanceID
}

// MemberIDs returns the selectable member ids: the player first, then the
// party roster in order.
func (g *GameState) MemberIDs() []string {
	if g == nil {
		return nil
	}
	ids := make([]string, 0, len(g.Party.MemberIDs)+1)
	if pid := g.PlayerID(); pid != "" {
		ids = append(ids, pid)
	}
	return append(ids, g.Party.MemberIDs...)
}

// NPC returns the NPC with the given instance id.
func (g *GameState) NPC(id string) (*NPCInstance, bool) {
	if g == nil {
		return nil, false
	}
	for i := range g.NPCs {
		if g.NPCs[i].InstanceID == id {
			return &g.NPCs[i], true
		}
	}
	return nil, false
}

// Member is a selectable party member: the player or a recruited NPC.
type Member struct {
	ID       string
	Sheet    CharacterSheet
	State    EntityState
	IsPlayer bool
	Attitude string
}

// Member resolves id to the player or an NPC. An empty id resolves to the
// player.
func (g *GameState) Member(id string) (Member, bool) {
	if g == nil {
		return Member{}, false
	}
	if g.Character != nil && (id == "" || id == g.Character.InstanceID) {
		return Member{ID: g.Character.InstanceID, Sheet: g.Character.Sheet, State: g.Character.State, IsPlayer: true}, true
	}
	if n, ok := g.NPC(id); ok {
		return Member{ID: n.InstanceID, Sheet: n.Sheet, State: n.State, Attitude: n.Attitude}, true
	}
	return Member{}, false
}

// InCombat reports whether an encounter is running.
func (g *GameState) InCombat() bool {
	return g != nil && g.Combat != nil && g.Combat.IsActive
}

// CharacterInstance is the player character.
type CharacterInstance struct {
	InstanceID string         `json:"instance_id"`
	TemplateID string         `json:"template_id,omitempty"`
	Sheet      CharacterSheet `json:"sheet"`
	State      EntityState    `json:"state"`
}

// NPCInstance is a non-player character known to the session.
type NPCInstance struct {
	InstanceID string         `json:"instance_id"`
	Sheet      CharacterSheet `json:"sheet"`
	State      EntityState    `json:"state"`
	Attitude   string         `json:"attitude,omitempty"`
}

// CharacterSheet holds the static description of a character.
type CharacterSheet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Race       string `json:"race"`
	Class      string `json:"class_index"`
	Background string `json:"background,omitempty"`
	Alignment  string `json:"alignment,omitempty"`
	Role       string `json:"role,omitempty"`
	Portrait   string `json:"portrait_url,omitempty"`
}

// EntityState holds the mutable state of a character or NPC.
type EntityState struct {
	Level      *int            `json:"level,omitempty"`
	HitPoints  HitPoints       `json:"hit_points"`
	ArmorClass int             `json:"armor_class"`
	Abilities  Abilities       `json:"abilities"`
	Conditions []string        `json:"conditions,omitempty"`
	Inventory  []InventoryItem `json:"inventory,omitempty"`
	Currency   Currency        `json:"currency"`
}

// HitPoints tracks current and maximum hit points.
type HitPoints struct {
	Current   int `json:"current"`
	Maximum   int `json:"maximum"`
	Temporary int `json:"temporary,omitempty"`
}

// Abilities holds the six ability scores.
type Abilities struct {
	STR int `json:"STR"`
	DEX int `json:"DEX"`
	CON int `json:"CON"`
	INT int `json:"INT"`
	WIS int `json:"WIS"`
	CHA int `json:"CHA"`
}

// InventoryItem is a carried item.
type InventoryItem struct {
	Index    string  `json:"index"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Weight   float64 `json:"weight,omitempty"`
	Equipped bool    `json:"equipped,omitempty"`
}

// Currency holds coin counts.
type Currency struct {
	Copper   int `json:"copper"`
	Silver   int `json:"silver"`
	Gold     int `json:"gold"`
	Platinum int `json:"platinum"`
}

// Party is the roster of companions travelling with the player.
type Party struct {
	MemberIDs []string `json:"member_ids"`
	MaxSize   int      `json:"max_size,omitempty"`
}

// Message is one entry of the conversation log.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	AgentType string    `json:"agent_type,omitempty"`
	SpeakerID string    `json:"speaker_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CombatState describes a running encounter.
type CombatState struct {
	IsActive     bool             `json:"is_active"`
	Round        int              `json:"round_number"`
	TurnIndex    int              `json:"turn_index"`
	Participants []CombatantEntry `json:"participants"`
}

// Current returns the combatant whose turn it is.
func (c *CombatState) Current() (CombatantEntry, bool) {
	if c == nil || c.TurnIndex < 0 || c.TurnIndex >= len(c.Participants) {
		return CombatantEntry{}, false
	}
	return c.Participants[c.TurnIndex], true
}

// CombatantEntry is one participant in initiative order.
type CombatantEntry struct {
	EntityID   string `json:"entity_id"`
	Name       string `json:"name"`
	Initiative int    `json:"initiative"`
	IsPlayer   bool   `json:"is_player"`
	IsActive   bool   `json:"is_active"`
}

// GameTime is the in-world calendar.
type GameTime struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// --- REST payloads ---

// GameSummary describes a saved game in the selection list.
type GameSummary struct {
	GameID        string    `json:"game_id"`
	CharacterName string    `json:"character_name"`
	ScenarioTitle string    `json:"scenario_title,omitempty"`
	Location      string    `json:"location"`
	Level         int       `json:"level"`
	LastSaved     time.Time `json:"last_saved"`
}

// ScenarioSummary describes an adventure that can be started.
type ScenarioSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// NewGameRequest starts a session.
type NewGameRequest struct {
	CharacterID string `json:"character_id"`
	ScenarioID  string `json:"scenario_id,omitempty"`
}

// NewGameResponse identifies the created session.
type NewGameResponse struct {
	GameID string `json:"game_id"`
	Status string `json:"status,omitempty"`
}

// ActionRequest carries a player message.
type ActionRequest struct {
	Message string `json:"message"`
}

// --- stream payloads ---

// NarrativePayload carries DM prose.
type NarrativePayload struct {
	Content   string `json:"content"`
	AgentType string `json:"agent_type,omitempty"`
}

// ToolCallPayload reports a tool invocation by an agent.
type ToolCallPayload struct {
	ToolName  string          `json:"tool_name"`
	Arguments json.RawMessage `json:"parameters,omitempty"`
}

// ToolResultPayload reports the outcome of a tool call.
type ToolResultPayload struct {
	ToolName string `json:"tool_name"`
	Result   string `json:"result"`
}

// GameUpdatePayload carries a fresh session snapshot.
type GameUpdatePayload struct {
	GameState *GameState `json:"game_state"`
}

// CombatUpdatePayload carries encounter changes.
type CombatUpdatePayload struct {
	Combat *CombatState `json:"combat"`
}

// ErrorPayload carries a backend error.
type ErrorPayload struct {
	Error string `json:"error"`
	Type  string `json:"type,omitempty"`
}
