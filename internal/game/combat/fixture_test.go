package combat_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/ability"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/element"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/environment"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/stats"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/status"
)

// library is an in-memory combat.Provider for tests.
type library struct {
	abilities *ability.Registry
	statuses  *status.Registry
	items     *inventory.Registry
	chart     *element.Chart
	envs      *environment.Resolver
}

func (l *library) Ability(id string) (*ability.Def, bool)    { return l.abilities.Get(id) }
func (l *library) Status(tag string) (*status.Def, bool)     { return l.statuses.Get(tag) }
func (l *library) Item(id string) (*inventory.ItemDef, bool) { return l.items.Item(id) }
func (l *library) Chart() *element.Chart                     { return l.chart }
func (l *library) Environments() *environment.Resolver       { return l.envs }

func flat(value float64) environment.Effect {
	return environment.Effect{IntensityRanges: []environment.Range{{Min: 1, Max: 10, Value: value}}}
}

func newLibrary(t testing.TB) *library {
	t.Helper()
	l := &library{
		abilities: ability.NewRegistry(),
		statuses:  status.NewRegistry(),
		items:     inventory.NewRegistry(),
	}

	chart, err := element.NewChart(
		&element.Def{ID: "fire", CombatProperties: element.CombatProperties{Weaknesses: []string{"water"}, Resistances: []string{"fire"}}},
		&element.Def{ID: "water", CombatProperties: element.CombatProperties{Weaknesses: []string{"electric"}}},
		&element.Def{ID: "electric", CombatProperties: element.CombatProperties{Immunities: []string{"electric"}}},
	)
	require.NoError(t, err)
	l.chart = chart

	envs, err := environment.NewResolver(chart,
		&environment.Def{ID: "volcanic", Name: "Volcano", ImmuneType: "fire", Effects: map[environment.Category]environment.Effect{
			environment.Damage:          flat(4),
			environment.AccuracyPenalty: flat(10),
		}},
		&environment.Def{ID: "swamp", Name: "Swamp", Effects: map[environment.Category]environment.Effect{
			environment.StatusEffect: {IntensityRanges: []environment.Range{{Min: 1, Max: 10, Value: 2, Chance: 1, Type: "poison"}}},
		}},
		&environment.Def{ID: "ice", Name: "Ice Field", Effects: map[environment.Category]environment.Effect{
			environment.Tripping: {IntensityRanges: []environment.Range{{Min: 1, Max: 10, Chance: 1}}},
		}},
	)
	require.NoError(t, err)
	l.envs = envs

	for _, def := range []*status.Def{
		{Tag: "poison", Name: "Poison", Category: status.DoT, Damage: 1, Turns: 4},
		{Tag: "flying", Name: "Flying", Category: status.Flag, Turns: 3, EvadesRanges: []string{"close"},
			EndsOn: status.EndsOn{UsesRange: []string{"close"}, HitByRange: []string{"ranged"}}},
		{Tag: "pinned", Name: "Pinned", Category: status.ActionPrevent, PreventsAction: true, Turns: 5,
			EndsOn: status.EndsOn{SourceMoveLacksEffect: true}},
		{Tag: "weakened", Name: "Weakened", Category: status.StatMod, Turns: 2,
			Modifiers: []stats.Delta{{Stat: stats.PhysicalDefense, Delta: -3}}},
	} {
		require.NoError(t, l.statuses.Register(def))
	}

	for _, def := range []*ability.Def{
		{ID: "strike", Name: "Strike", Kind: ability.Physical, Range: ability.Close, MinDamage: 10, MaxDamage: 20, Accuracy: 90, MPCost: 5, Cooldown: 2},
		{ID: "quick_attack", Name: "Quick Attack", Kind: ability.Physical, Range: ability.Close, MinDamage: 2, MaxDamage: 2, Accuracy: 100},
		{ID: "jab", Name: "Jab", Kind: ability.Physical, Range: ability.Close, MinDamage: 2, MaxDamage: 2, Accuracy: 100},
		{ID: "follow_up", Name: "Follow Up", Kind: ability.Physical, Range: ability.Close, MinDamage: 5, MaxDamage: 5, Accuracy: 100,
			Combo: &ability.Combo{FollowsFrom: []string{"Quick Attack"}}},
		{ID: "finisher", Name: "Finisher", Kind: ability.Physical, Range: ability.Close, MinDamage: 8, MaxDamage: 8, Accuracy: 100, UsesPerBattle: 1},
		{ID: "fly", Name: "Fly", Kind: ability.Status, Range: ability.Self, Accuracy: 100,
			Effect: &ability.Effect{Status: "flying", Chance: 1, Target: ability.EffectOnSelf}},
		{ID: "shoot", Name: "Shoot", Kind: ability.Physical, Range: ability.Ranged, MinDamage: 3, MaxDamage: 3, Accuracy: 100},
		{ID: "pin", Name: "Pin", Kind: ability.Status, Range: ability.Close, Accuracy: 100,
			Effect: &ability.Effect{Status: "pinned", Chance: 1}},
		{ID: "venom", Name: "Venom", Kind: ability.Status, Range: ability.Close, Accuracy: 100,
			Effect: &ability.Effect{Status: "poison", Chance: 1}},
		{ID: "mend", Name: "Mend", Kind: ability.Heal, Range: ability.Ranged, MinDamage: 8, MaxDamage: 8, Accuracy: 100, MPCost: 3},
		{ID: "fireball", Name: "Fireball", Kind: ability.Magic, Range: ability.Ranged, MinDamage: 10, MaxDamage: 10, Accuracy: 100, ElementalType: "fire"},
		{ID: "drain", Name: "Drain", Kind: ability.Magic, Range: ability.Ranged, MinDamage: 10, MaxDamage: 10, Accuracy: 100, LifeSteal: 0.5},
		{ID: "war_cry", Name: "War Cry", Kind: ability.Buff, Range: ability.Self, Accuracy: 100,
			Boosts: []stats.Boost{{Stat: stats.Strength, Delta: 4, Turns: 2}}},
	} {
		require.NoError(t, l.abilities.Register(def))
	}

	for _, def := range []*inventory.ItemDef{
		{ID: "potion", Name: "Potion", Kind: inventory.KindConsumable, Stackable: true, MaxStack: 5, Value: 10,
			Use: &inventory.UseEffect{Heal: 10, Cures: []string{"poison"}}},
		{ID: "fire_salve", Name: "Fire Salve", Kind: inventory.KindConsumable, Stackable: true, MaxStack: 5, Value: 20,
			Use: &inventory.UseEffect{Protection: &environment.Protection{Environment: "volcanic", Kind: environment.Temporary, Turns: 2}}},
	} {
		require.NoError(t, l.items.RegisterItem(def))
	}
	return l
}

// fighter builds a combatant with every attribute at 10: all derived stats are
// 0 and speed is 10.
func fighter(id string, abilities ...string) *combat.Combatant {
	return (&combat.Combatant{
		ID:        id,
		Name:      id,
		Life:      30,
		MaxLife:   30,
		Mana:      20,
		MaxMana:   20,
		Base:      stats.Attributes{Strength: 10, Dexterity: 10, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10},
		Abilities: abilities,
	}).Prepare()
}
