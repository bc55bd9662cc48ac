package mock

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
)

// resolve applies the player's action to gs (a private copy) and returns the
// events announcing it. Outcomes are keyed off words in the action.
func (b *Backend) resolve(gs *client.GameState, action string) []tea.Msg {
	now := b.now()
	gs.ConversationHistory = append(gs.ConversationHistory, client.Message{
		Role: client.RolePlayer, Content: action, SpeakerID: gs.PlayerID(), Timestamp: now,
	})

	lower := strings.ToLower(action)
	var events []tea.Msg
	var narration string

	switch {
	case containsAny(lower, "attack", "fight", "shoot", "strike"):
		roll := b.rng.Intn(20) + 1
		events = append(events, toolCall("roll_dice", map[string]any{"dice": "1d20", "purpose": "attack"}),
			client.ToolResultMsg{Payload: client.ToolResultPayload{ToolName: "roll_dice", Result: fmt.Sprint(roll)}})
		if gs.Combat == nil || !gs.Combat.IsActive {
			gs.Combat = &client.CombatState{
				IsActive: true,
				Round:    1,
				Participants: []client.CombatantEntry{
					{EntityID: gs.PlayerID(), Name: gs.Character.Sheet.Name, Initiative: roll, IsPlayer: true, IsActive: true},
					{EntityID: "goblin-1", Name: "Goblin", Initiative: b.rng.Intn(20) + 1, IsActive: true},
				},
			}
			gs.ActiveAgent = "combat"
		} else {
			gs.Combat.Round++
		}
		damage := b.rng.Intn(6) + 1
		hp := &gs.Character.State.HitPoints
		hp.Current = max(0, hp.Current-damage)
		if roll >= 10 {
			narration = fmt.Sprintf("You strike true (rolled **%d**). The goblin staggers, then slashes back for %d damage.", roll, damage)
		} else {
			narration = fmt.Sprintf("Your attack goes wide (rolled **%d**). The goblin's blade finds you for %d damage.", roll, damage)
		}
		events = append(events, client.CombatUpdateMsg{Payload: client.CombatUpdatePayload{Combat: gs.Combat}})

	case containsAny(lower, "rest", "heal", "potion"):
		hp := &gs.Character.State.HitPoints
		gain := b.rng.Intn(8) + 2
		hp.Current = min(hp.Maximum, hp.Current+gain)
		if gs.Combat != nil {
			gs.Combat = nil
			gs.ActiveAgent = "narrative"
		}
		events = append(events, toolCall("modify_hp", map[string]any{"target": gs.PlayerID(), "amount": gain}))
		narration = fmt.Sprintf("You catch your breath and recover %d hit points.", gain)

	case containsAny(lower, "go ", "travel", "walk", "head ", "move"):
		locs := scenarioLocations[gs.ScenarioID]
		i := slices.Index(locs, gs.Location)
		gs.Location = locs[(i+1)%len(locs)]
		gs.GameTime.Hour++
		events = append(events, toolCall("change_location", map[string]any{"location": gs.Location}))
		narration = fmt.Sprintf("You make your way to **%s**.", gs.Location)

	case containsAny(lower, "recruit", "join", "invite"):
		for _, n := range gs.NPCs {
			if !slices.Contains(gs.Party.MemberIDs, n.InstanceID) {
				gs.Party.MemberIDs = append(gs.Party.MemberIDs, n.InstanceID)
				events = append(events, toolCall("add_party_member", map[string]any{"npc_id": n.InstanceID}))
				narration = fmt.Sprintf("%s agrees to travel with you.", n.Sheet.Name)
				break
			}
		}
		if narration == "" {
			narration = "Nobody else here is willing to join you."
		}

	default:
		narration = fmt.Sprintf("The world considers your words: _%s_. Somewhere nearby, something stirs.", action)
	}

	gs.ConversationHistory = append(gs.ConversationHistory, client.Message{
		Role: client.RoleDM, Content: narration, AgentType: gs.ActiveAgent, Timestamp: now,
	})
	events = append(events, client.NarrativeMsg{Payload: client.NarrativePayload{Content: narration, AgentType: gs.ActiveAgent}})
	return events
}

func toolCall(name string, args map[string]any) tea.Msg {
	raw, _ := json.Marshal(args)
	return client.ToolCallMsg{Payload: client.ToolCallPayload{ToolName: name, Arguments: raw}}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// cloneState copies everything resolve may change, so a published snapshot
// is never mutated afterwards.
func cloneState(gs *client.GameState) *client.GameState {
	out := *gs
	if gs.Character != nil {
		c := cloneCharacter(*gs.Character)
		out.Character = &c
	}
	out.Party.MemberIDs = slices.Clone(gs.Party.MemberIDs)
	out.NPCs = make([]client.NPCInstance, 0, len(gs.NPCs))
	for _, n := range gs.NPCs {
		out.NPCs = append(out.NPCs, cloneNPC(n))
	}
	out.ConversationHistory = slices.Clone(gs.ConversationHistory)
	if gs.Combat != nil {
		cs := *gs.Combat
		cs.Participants = slices.Clone(gs.Combat.Participants)
		out.Combat = &cs
	}
	return &out
}

func cloneCharacter(c client.CharacterInstance) client.CharacterInstance {
	c.State = cloneEntity(c.State)
	return c
}

func cloneNPC(n client.NPCInstance) client.NPCInstance {
	n.State = cloneEntity(n.State)
	return n
}

func cloneEntity(e client.EntityState) client.EntityState {
	if e.Level != nil {
		lvl := *e.Level
		e.Level = &lvl
	}
	e.Conditions = slices.Clone(e.Conditions)
	e.Inventory = slices.Clone(e.Inventory)
	return e
}
