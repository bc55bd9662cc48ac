package mock

import "github.com/mmerah/ai-dnd-demo-sub000/internal/client"

func intPtr(v int) *int { return &v }

var characters = []client.CharacterInstance{
	{
		InstanceID: "player",
		TemplateID: "aldric-swiftarrow",
		Sheet: client.CharacterSheet{
			ID: "aldric-swiftarrow", Name: "Aldric Swiftarrow", Race: "Wood Elf",
			Class: "ranger", Background: "Outlander", Alignment: "Neutral Good",
		},
		State: client.EntityState{
			Level:      intPtr(3),
			HitPoints:  client.HitPoints{Current: 28, Maximum: 28},
			ArmorClass: 15,
			Abilities:  client.Abilities{STR: 12, DEX: 17, CON: 14, INT: 10, WIS: 15, CHA: 8},
			Inventory: []client.InventoryItem{
				{Index: "longbow", Name: "Longbow", Quantity: 1, Weight: 2, Equipped: true},
				{Index: "arrow", Name: "Arrows", Quantity: 20, Weight: 1},
				{Index: "shortsword", Name: "Shortsword", Quantity: 2, Weight: 2, Equipped: true},
				{Index: "potion-of-healing", Name: "Potion of Healing", Quantity: 2, Weight: 0.5},
			},
			Currency: client.Currency{Gold: 15, Silver: 8},
		},
	},
	{
		InstanceID: "player",
		TemplateID: "brenna-stonehelm",
		Sheet: client.CharacterSheet{
			ID: "brenna-stonehelm", Name: "Brenna Stonehelm", Race: "Hill Dwarf",
			Class: "cleric", Background: "Acolyte", Alignment: "Lawful Good",
		},
		State: client.EntityState{
			Level:      intPtr(2),
			HitPoints:  client.HitPoints{Current: 21, Maximum: 21},
			ArmorClass: 18,
			Abilities:  client.Abilities{STR: 14, DEX: 8, CON: 15, INT: 10, WIS: 16, CHA: 12},
			Inventory: []client.InventoryItem{
				{Index: "warhammer", Name: "Warhammer", Quantity: 1, Weight: 2, Equipped: true},
				{Index: "shield", Name: "Shield", Quantity: 1, Weight: 6, Equipped: true},
				{Index: "holy-symbol", Name: "Holy Symbol", Quantity: 1},
			},
			Currency: client.Currency{Gold: 10},
		},
	},
}

var scenarios = []client.ScenarioSummary{
	{ID: "goblin-cave", Title: "The Goblin Warrens", Description: "Goblins raid the road to Phandalin. Find their lair."},
	{ID: "haunted-manor", Title: "Shadows over Thornwick", Description: "Lights burn in a manor abandoned for forty years."},
}

var scenarioLocations = map[string][]string{
	"goblin-cave":   {"Phandalin Road", "Triboar Trail", "Cragmaw Hideout Entrance", "Goblin Den"},
	"haunted-manor": {"Thornwick Village", "Manor Gates", "Great Hall", "Crypt Stairs"},
}

var companions = []client.NPCInstance{
	{
		InstanceID: "npc-elena",
		Sheet:      client.CharacterSheet{ID: "elena", Name: "Elena Brightwater", Race: "Human", Class: "fighter", Role: "Town guard"},
		State: client.EntityState{
			Level:      intPtr(2),
			HitPoints:  client.HitPoints{Current: 20, Maximum: 20},
			ArmorClass: 16,
		},
		Attitude: "friendly",
	},
	{
		InstanceID: "npc-tom",
		Sheet:      client.CharacterSheet{ID: "tom", Name: "Tom the Barkeep", Race: "Halfling", Role: "Innkeeper"},
		State: client.EntityState{
			HitPoints:  client.HitPoints{Current: 9, Maximum: 9},
			ArmorClass: 11,
		},
		Attitude: "neutral",
	},
}
