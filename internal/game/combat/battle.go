package combat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/ability"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/dice"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/environment"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// Outcome is the state of a battle.
type Outcome int

const (
	Ongoing Outcome = iota
	Victory
	Defeat
	Fled
	// Aborted marks a battle ended by an engine or content defect.
	Aborted
)

var outcomeNames = map[Outcome]string{
	Ongoing: "ongoing",
	Victory: "victory",
	Defeat:  "defeat",
	Fled:    "fled",
	Aborted: "aborted",
}

// String returns the outcome label.
func (o Outcome) String() string {
	if s, ok := outcomeNames[o]; ok {
		return s
	}
	return "unknown"
}

// ParseOutcome converts a label produced by String back to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	for o, name := range outcomeNames {
		if name == s {
			return o, nil
		}
	}
	return Ongoing, fmt.Errorf("unknown battle outcome %q", s)
}

// Environment is the battlefield's environment and its intensity.
type Environment struct {
	ID        string `json:"id" yaml:"id"`
	Intensity int    `json:"intensity" yaml:"intensity"`
}

// LootItem is one rolled loot drop.
type LootItem struct {
	InstanceID string `json:"instance_id"`
	ItemID     string `json:"item_id"`
	Quantity   int    `json:"quantity"`
}

// Spoils is what one defeated enemy yields.
type Spoils struct {
	Exp  int
	Gold int
	Loot []LootItem
}

// RewardSource rolls the spoils a defeated enemy yields.
type RewardSource interface {
	Spoils(enemy *Combatant, src dice.Source) (Spoils, error)
}

// BattleResult is the final summary of a finished battle.
type BattleResult struct {
	ID      string
	Outcome Outcome
	Rounds  int
	// Survivors lists the party combatants still standing.
	Survivors []*Combatant
	Exp       int
	Gold      int
	Loot      []LootItem
}

// RoundReport is what one call to ResolveRound produced.
type RoundReport struct {
	Round   int
	Entries []LogEntry
	Outcome Outcome
}

// Setup is everything NewBattle needs.
type Setup struct {
	Party   []*Combatant
	Enemies []*Combatant
	// Provider resolves abilities, statuses, items, the type chart and environments.
	Provider Provider
	Source   dice.Source
	// Environment is optional; nil means no environmental effects.
	Environment *Environment
	// Backpack is the party backpack items are consumed from; may be nil.
	Backpack *inventory.Backpack
	// Tacticians overrides action selection per combatant id. Enemies without
	// an entry use Tactician, or WeightedTactician when that is nil too.
	Tacticians map[string]Tactician
	Tactician  Tactician
	// Rewards rolls victory spoils; nil yields none.
	Rewards RewardSource
	// Rules defaults to DefaultRules() when zero.
	Rules  Rules
	Logger *zap.Logger
}

// Battle is one battle session. It owns its combatants for the battle's
// duration. It is not safe for concurrent use.
type Battle struct {
	id         string
	round      int
	resolved   int
	combatants []*Combatant
	byID       map[string]*Combatant

	provider   Provider
	seed       dice.Source
	src        dice.Source
	rules      Rules
	env        *Environment
	backpack   *inventory.Backpack
	tacticians map[string]Tactician
	tactician  Tactician
	rewards    RewardSource
	resolver   *Resolver
	logger     *zap.Logger

	queued   map[string]Action
	exposure map[string]environment.Modifiers
	tripped  map[string]bool
	fallen   map[string]bool

	log     []LogEntry
	outcome Outcome
	exp     int
	gold    int
	loot    []LootItem
}

// NewBattle validates setup and creates a battle at round 1.
//
// Precondition: setup.Provider and setup.Source must not be nil.
// Postcondition: returns a *validate.ConfigError when a combatant references
// an unknown ability or the environment cannot be resolved.
func NewBattle(setup Setup) (*Battle, error) {
	if setup.Provider == nil {
		return nil, errors.New("combat.NewBattle: provider must not be nil")
	}
	if setup.Source == nil {
		return nil, errors.New("combat.NewBattle: source must not be nil")
	}
	if len(setup.Party) == 0 || len(setup.Enemies) == 0 {
		return nil, errors.New("combat.NewBattle: both sides need at least one combatant")
	}
	logger := setup.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rules := setup.Rules
	if rules == (Rules{}) {
		rules = DefaultRules()
	}
	src := dice.NewLoggedRoller(setup.Source, logger.Named("dice"))
	b := &Battle{
		id:         uuid.NewString(),
		round:      1,
		byID:       make(map[string]*Combatant),
		provider:   setup.Provider,
		seed:       setup.Source,
		src:        src,
		rules:      rules,
		env:        setup.Environment,
		backpack:   setup.Backpack,
		tacticians: setup.Tacticians,
		tactician:  setup.Tactician,
		rewards:    setup.Rewards,
		resolver:   NewResolver(setup.Provider, src, rules, logger),
		logger:     logger,
		queued:     make(map[string]Action),
		exposure:   make(map[string]environment.Modifiers),
		tripped:    make(map[string]bool),
		fallen:     make(map[string]bool),
	}
	if b.tactician == nil {
		b.tactician = WeightedTactician{}
	}
	if err := b.enlist(setup.Party, SideParty); err != nil {
		return nil, err
	}
	if err := b.enlist(setup.Enemies, SideEnemy); err != nil {
		return nil, err
	}
	if b.env != nil {
		if b.provider.Environments() == nil {
			return nil, validate.Errorf("environment", b.env.ID, "id", "no environments are loaded")
		}
		if _, err := b.provider.Environments().Resolve(b.env.ID, b.env.Intensity); err != nil {
			return nil, err
		}
	}
	for _, c := range b.combatants {
		if c.IsDefeated() {
			b.fallen[c.ID] = true
		}
	}
	b.logger.Info("battle started",
		zap.String("battle", b.id),
		zap.Int("party", len(setup.Party)),
		zap.Int("enemies", len(setup.Enemies)),
	)
	return b, nil
}

func (b *Battle) enlist(cs []*Combatant, side Side) error {
	for _, c := range cs {
		if c == nil {
			return errors.New("combat.NewBattle: nil combatant")
		}
		if c.ID == "" {
			return validate.Errorf("combatant", c.Name, "id", "must not be empty")
		}
		if _, dup := b.byID[c.ID]; dup {
			return validate.Errorf("combatant", c.ID, "id", "duplicate combatant id")
		}
		for _, id := range c.Abilities {
			if _, ok := b.provider.Ability(id); !ok {
				return validate.Errorf("combatant", c.ID, "abilities", "unknown ability %q", id)
			}
		}
		c.Side = side
		c.Prepare()
		b.byID[c.ID] = c
		b.combatants = append(b.combatants, c)
	}
	return nil
}

// RestoreBattle rebuilds a battle from a snapshot. Content, randomness and
// collaborators come from setup; setup.Party and setup.Enemies are ignored.
// To replay deterministically, setup.Source must resume the snapshot's
// source position, e.g. dice.RestoreSeededSource(snap.Seed, snap.Position).
func RestoreBattle(snap BattleSnapshot, setup Setup) (*Battle, error) {
	setup.Party, setup.Enemies = nil, nil
	for _, cs := range snap.Combatants {
		c, err := RestoreCombatant(cs, setup.Provider)
		if err != nil {
			return nil, err
		}
		if c.Side == SideParty {
			setup.Party = append(setup.Party, c)
		} else {
			setup.Enemies = append(setup.Enemies, c)
		}
	}
	if snap.Environment != nil {
		env := *snap.Environment
		setup.Environment = &env
	}
	if setup.Backpack != nil && snap.Backpack != nil {
		*setup.Backpack = *inventory.RestoreBackpack(setup.Backpack.MaxSlots, snap.Backpack)
	}
	b, err := NewBattle(setup)
	if err != nil {
		return nil, err
	}
	outcome, err := ParseOutcome(snap.Outcome)
	if err != nil {
		return nil, err
	}
	b.id = snap.ID
	b.round = max(1, snap.Round)
	b.resolved = b.round - 1
	b.outcome = outcome
	b.log = append([]LogEntry(nil), snap.Log...)
	return b, nil
}

// ID returns the battle's unique id.
func (b *Battle) ID() string { return b.id }

// Round returns the number of the round that will resolve next.
func (b *Battle) Round() int { return b.round }

// Outcome returns the current battle outcome.
func (b *Battle) Outcome() Outcome { return b.outcome }

// Over reports whether the battle has ended.
func (b *Battle) Over() bool { return b.outcome != Ongoing }

// Log returns a copy of every log entry so far, in order.
func (b *Battle) Log() []LogEntry { return append([]LogEntry(nil), b.log...) }

// Combatant returns the combatant with id.
func (b *Battle) Combatant(id string) (*Combatant, bool) {
	c, ok := b.byID[id]
	return c, ok
}

// Combatants returns every combatant, party first, in setup order.
func (b *Battle) Combatants() []*Combatant { return append([]*Combatant(nil), b.combatants...) }

// Side returns the combatants on side, in setup order.
func (b *Battle) Side(side Side) []*Combatant {
	var out []*Combatant
	for _, c := range b.combatants {
		if c.Side == side {
			out = append(out, c)
		}
	}
	return out
}

// Snapshot captures the battle's state between rounds.
func (b *Battle) Snapshot() BattleSnapshot {
	s := BattleSnapshot{
		ID:      b.id,
		Round:   b.round,
		Outcome: b.outcome.String(),
		Log:     b.Log(),
	}
	if b.env != nil {
		env := *b.env
		s.Environment = &env
	}
	for _, c := range b.combatants {
		s.Combatants = append(s.Combatants, c.Snapshot())
	}
	if b.backpack != nil {
		s.Backpack = b.backpack.Items()
	}
	if seeded, ok := b.seed.(*dice.SeededSource); ok {
		s.Seed, s.Position = seeded.Seed(), seeded.Position()
	}
	return s
}

// Submit queues an action for actorID for the current round, replacing any
// earlier submission. An empty target is filled with the default target.
//
// Postcondition: returns ErrAbilityUnavailable, ErrInvalidTarget or
// ErrInvalidAction (all recoverable) without changing any combatant.
func (b *Battle) Submit(actorID string, act Action) error {
	if b.Over() {
		return ErrBattleOver
	}
	actor, ok := b.byID[actorID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCombatant, actorID)
	}
	if !actor.Active() {
		return fmt.Errorf("%w: %s cannot act", ErrInvalidAction, actor.Name)
	}
	switch act.Kind {
	case ActionAbility:
		def, ok := b.provider.Ability(act.Ability)
		if !ok {
			return &UnavailableError{Ability: act.Ability, Reason: ability.ReasonUnknown}
		}
		target, err := b.targetFor(actor, act.Target, def.Target())
		if err != nil {
			return err
		}
		if _, err := b.resolver.Check(actor, target, act.Ability); err != nil {
			return err
		}
		act.Target = target.ID
	case ActionItem:
		if err := b.checkItem(act.Item); err != nil {
			return err
		}
		target, err := b.targetFor(actor, act.Target, ability.TargetAlly)
		if err != nil {
			return err
		}
		if target.Side != actor.Side || !target.Active() {
			return &TargetError{Target: target.ID, Reason: "items are used on allies"}
		}
		act.Target = target.ID
	case ActionFlee, ActionDefend, ActionPass:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidAction, act.Kind)
	}
	b.queued[actorID] = act
	return nil
}

// checkItem verifies the party holds a usable unit of itemID.
func (b *Battle) checkItem(itemID string) error {
	def, ok := b.provider.Item(itemID)
	if !ok {
		return fmt.Errorf("%w: unknown item %q", ErrInvalidAction, itemID)
	}
	if def.Use == nil {
		return fmt.Errorf("%w: %s cannot be used", ErrInvalidAction, def.Name)
	}
	if b.backpack == nil || !b.backpack.Has(itemID) {
		return fmt.Errorf("%w: no %s in the backpack", ErrInvalidAction, def.Name)
	}
	return nil
}

// targetFor resolves targetID for actor, choosing a default when empty:
// the first active opponent for hostile actions, the actor otherwise.
func (b *Battle) targetFor(actor *Combatant, targetID string, t ability.Targeting) (*Combatant, error) {
	if targetID != "" {
		target, ok := b.byID[targetID]
		if !ok {
			return nil, &TargetError{Target: targetID, Reason: "no such combatant"}
		}
		return target, nil
	}
	if t != ability.TargetEnemy {
		return actor, nil
	}
	for _, c := range b.combatants {
		if c.Side != actor.Side && c.Active() {
			return c, nil
		}
	}
	return nil, &TargetError{Reason: "no opponent left"}
}

// ResolveRound runs one full round: RoundStart, InitiativeOrder, ActionPhase,
// StatusTick and DeathCheck, then decides whether the battle has ended.
// Cancelling ctx between actions ends the battle as Fled.
//
// Postcondition: on a non-recoverable error every combatant is restored to
// its pre-round state, the outcome is Aborted and the error is returned.
func (b *Battle) ResolveRound(ctx context.Context) (RoundReport, error) {
	if b.Over() {
		return RoundReport{}, ErrBattleOver
	}
	round := b.round
	start := len(b.log)
	before := b.Snapshot()

	if err := b.playRound(ctx); err != nil {
		if rerr := b.rollback(before); rerr != nil {
			err = errors.Join(err, rerr)
		}
		b.log = b.log[:start]
		b.outcome = Aborted
		b.record(PhaseBattleEnd, "", "", "The battle was aborted.")
		b.logger.Error("battle aborted", zap.String("battle", b.id), zap.Int("round", round), zap.Error(err))
		return b.report(round, start), fmt.Errorf("resolving round %d: %w", round, err)
	}
	return b.report(round, start), nil
}

func (b *Battle) report(round, start int) RoundReport {
	return RoundReport{
		Round:   round,
		Entries: append([]LogEntry(nil), b.log[start:]...),
		Outcome: b.outcome,
	}
}

// rollback restores every combatant and the backpack from before, in place.
// Spoils are only rolled by the round that ends the battle, so any collected
// during the failed round are dropped.
func (b *Battle) rollback(before BattleSnapshot) error {
	for _, s := range before.Combatants {
		restored, err := RestoreCombatant(s, b.provider)
		if err != nil {
			return err
		}
		*b.byID[s.ID] = *restored
	}
	if b.backpack != nil {
		*b.backpack = *inventory.RestoreBackpack(b.backpack.MaxSlots, before.Backpack)
	}
	b.fallen = make(map[string]bool)
	for _, c := range b.combatants {
		if c.IsDefeated() {
			b.fallen[c.ID] = true
		}
	}
	b.exp, b.gold, b.loot = 0, 0, nil
	b.round, b.resolved = before.Round, before.Round-1
	return nil
}

// Result returns the battle summary.
//
// Postcondition: returns ErrBattleNotOver while the battle is ongoing.
func (b *Battle) Result() (BattleResult, error) {
	if !b.Over() {
		return BattleResult{}, ErrBattleNotOver
	}
	res := BattleResult{
		ID:      b.id,
		Outcome: b.outcome,
		Rounds:  b.resolved,
		Exp:     b.exp,
		Gold:    b.gold,
		Loot:    append([]LootItem(nil), b.loot...),
	}
	for _, c := range b.combatants {
		if c.Side == SideParty && !c.IsDefeated() {
			res.Survivors = append(res.Survivors, c)
		}
	}
	return res, nil
}

func (b *Battle) record(phase Phase, actor, target, text string) {
	b.log = append(b.log, LogEntry{Round: b.round, Phase: phase, Actor: actor, Target: target, Text: text})
}
