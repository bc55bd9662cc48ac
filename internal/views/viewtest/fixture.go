// Package viewtest provides fixtures for view tests.
package viewtest

import (
	"time"

	"github.com/mmerah/ai-dnd-demo-sub000/internal/client"
)

func intPtr(v int) *int { return &v }

// GameState returns a valid snapshot with the player, one party member and
// one bystander NPC.
func GameState() *client.GameState {
	return &client.GameState{
		GameID:        "game-1",
		ScenarioTitle: "The Goblin Warrens",
		Character: &client.CharacterInstance{
			InstanceID: "player",
			Sheet:      client.CharacterSheet{ID: "aldric", Name: "Aldric", Race: "Wood Elf", Class: "ranger", Background: "Outlander"},
			State: client.EntityState{
				Level:      intPtr(3),
				HitPoints:  client.HitPoints{Current: 14, Maximum: 28},
				ArmorClass: 15,
				Abilities:  client.Abilities{STR: 12, DEX: 17, CON: 14, INT: 10, WIS: 15, CHA: 8},
				Inventory: []client.InventoryItem{
					{Index: "arrow", Name: "Arrows", Quantity: 2, Weight: 0.5},
					{Index: "longbow", Name: "Longbow", Quantity: 1, Weight: 2, Equipped: true},
				},
				Currency: client.Currency{Gold: 15, Silver: 3},
			},
		},
		Location: "Phandalin Road",
		Party:    client.Party{MemberIDs: []string{"npc-elena"}, MaxSize: 3},
		NPCs: []client.NPCInstance{
			{
				InstanceID: "npc-elena",
				Sheet:      client.CharacterSheet{Name: "Elena", Race: "Human", Class: "fighter"},
				State:      client.EntityState{HitPoints: client.HitPoints{Current: 20, Maximum: 20}, ArmorClass: 16},
				Attitude:   "friendly",
			},
			{
				InstanceID: "npc-tom",
				Sheet:      client.CharacterSheet{Name: "Tom", Role: "Innkeeper"},
				State:      client.EntityState{HitPoints: client.HitPoints{Current: 9, Maximum: 9}},
			},
		},
		ConversationHistory: []client.Message{
			{Role: client.RoleDM, Content: "You stand on the **road** to Phandalin.", AgentType: "narrative", Timestamp: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)},
			{Role: client.RolePlayer, Content: "I look around", SpeakerID: "player"},
		},
		ActiveAgent: "narrative",
		GameTime:    client.GameTime{Day: 1, Hour: 9},
	}
}

// WithCombat returns gs with an encounter in progress on the goblin's turn.
func WithCombat(gs *client.GameState) *client.GameState {
	out := *gs
	out.ActiveAgent = "combat"
	out.Combat = &client.CombatState{
		IsActive:  true,
		Round:     2,
		TurnIndex: 1,
		Participants: []client.CombatantEntry{
			{EntityID: "player", Name: "Aldric", Initiative: 18, IsPlayer: true, IsActive: true},
			{EntityID: "goblin-1", Name: "Goblin", Initiative: 12, IsActive: true},
		},
	}
	return &out
}
