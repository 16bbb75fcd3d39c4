package guidance

import (
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

// HerbRule is one hand-curated entry in the static recommendation table.
type HerbRule struct {
	Slug          string
	Name          string
	StartPercent  float64
	MinPercent    float64
	MaxPercent    float64
	PregnancyRisk bool
	Notes         string
}

// goalRules maps each health goal to its candidate herbs. The table is fixed
// and small on purpose; curation happens in code review, not in a database.
var goalRules = map[enums.HealthGoal][]HerbRule{
	enums.GoalDigestion: {
		{Slug: "ginger-root", Name: "Ginger Root", StartPercent: 20, MinPercent: 10, MaxPercent: 30, Notes: "warming, take with food sensitivity in mind"},
		{Slug: "fennel-seed", Name: "Fennel Seed", StartPercent: 15, MinPercent: 10, MaxPercent: 25},
		{Slug: "chamomile", Name: "Chamomile", StartPercent: 15, MinPercent: 10, MaxPercent: 30},
		{Slug: "peppermint-leaf", Name: "Peppermint Leaf", StartPercent: 10, MinPercent: 5, MaxPercent: 20, Notes: "avoid with reflux"},
	},
	enums.GoalDetox: {
		{Slug: "milk-thistle", Name: "Milk Thistle", StartPercent: 25, MinPercent: 15, MaxPercent: 35},
		{Slug: "dandelion-root", Name: "Dandelion Root", StartPercent: 20, MinPercent: 10, MaxPercent: 30},
		{Slug: "burdock-root", Name: "Burdock Root", StartPercent: 15, MinPercent: 10, MaxPercent: 25},
	},
	enums.GoalEnergy: {
		{Slug: "eleuthero", Name: "Eleuthero", StartPercent: 25, MinPercent: 15, MaxPercent: 35},
		{Slug: "rhodiola", Name: "Rhodiola", StartPercent: 15, MinPercent: 10, MaxPercent: 25, Notes: "best taken before noon"},
		{Slug: "ginger-root", Name: "Ginger Root", StartPercent: 10, MinPercent: 5, MaxPercent: 20, Notes: "circulatory support"},
		{Slug: "nettle-leaf", Name: "Nettle Leaf", StartPercent: 15, MinPercent: 10, MaxPercent: 30},
	},
	enums.GoalSleep: {
		{Slug: "valerian-root", Name: "Valerian Root", StartPercent: 25, MinPercent: 15, MaxPercent: 35, Notes: "may cause drowsiness"},
		{Slug: "passionflower", Name: "Passionflower", StartPercent: 20, MinPercent: 10, MaxPercent: 30, PregnancyRisk: true},
		{Slug: "chamomile", Name: "Chamomile", StartPercent: 15, MinPercent: 10, MaxPercent: 30},
		{Slug: "skullcap", Name: "Skullcap", StartPercent: 15, MinPercent: 10, MaxPercent: 25},
	},
	enums.GoalStress: {
		{Slug: "ashwagandha", Name: "Ashwagandha", StartPercent: 25, MinPercent: 15, MaxPercent: 35, PregnancyRisk: true},
		{Slug: "holy-basil", Name: "Holy Basil", StartPercent: 20, MinPercent: 10, MaxPercent: 30, PregnancyRisk: true},
		{Slug: "lemon-balm", Name: "Lemon Balm", StartPercent: 15, MinPercent: 10, MaxPercent: 30},
		{Slug: "passionflower", Name: "Passionflower", StartPercent: 15, MinPercent: 10, MaxPercent: 25, PregnancyRisk: true},
	},
	enums.GoalImmunity: {
		{Slug: "echinacea", Name: "Echinacea", StartPercent: 25, MinPercent: 15, MaxPercent: 35},
		{Slug: "elderberry", Name: "Elderberry", StartPercent: 20, MinPercent: 10, MaxPercent: 30},
		{Slug: "astragalus", Name: "Astragalus", StartPercent: 20, MinPercent: 10, MaxPercent: 30},
	},
}

// fallbackRules is the safe default set used when a goal selection yields
// nothing, and the pad source when it yields fewer than the minimum.
var fallbackRules = []HerbRule{
	{Slug: "chamomile", Name: "Chamomile", StartPercent: 20, MinPercent: 10, MaxPercent: 30},
	{Slug: "nettle-leaf", Name: "Nettle Leaf", StartPercent: 20, MinPercent: 10, MaxPercent: 30},
	{Slug: "lemon-balm", Name: "Lemon Balm", StartPercent: 20, MinPercent: 10, MaxPercent: 30},
}

const (
	maxGoals       = 3
	maxSuggestions = 5
	minSuggestions = 3
)
