package session

import (
	"fmt"
	"strings"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/character"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/combat"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/command"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/npc"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/status"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/story"
)

func renderScene(sc *story.Scene) string {
	if sc.Text == "" {
		return "== " + sc.Title + " =="
	}
	return fmt.Sprintf("== %s ==\n%s", sc.Title, sc.Text)
}

// renderOptions lists the current scene's choices, numbered from 1.
func (a *Adventure) renderOptions() string {
	opts := a.nav.Options(a.hero)
	if len(opts) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, o := range opts {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "  %d. %s", o.Index+1, o.Choice.Label)
		switch {
		case !o.Available:
			fmt.Fprintf(&sb, " (%s)", a.optionReason(o))
		case o.Choice.Gold < 0:
			fmt.Fprintf(&sb, " (%s)", inventory.FormatGold(-o.Choice.Gold))
		}
	}
	return sb.String()
}

func renderRound(rep combat.RoundReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Round %d ---", rep.Round)
	for _, e := range rep.Entries {
		sb.WriteString("\n" + e.Text)
	}
	return sb.String()
}

// renderBattlefield shows the hero exactly and the enemies by visible health.
func (a *Adventure) renderBattlefield() string {
	b := a.battle
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Round %d", b.Round())
	if env := a.nav.Current().Encounter; env != nil && env.Environment != "" {
		name := env.Environment
		if def, ok := a.lib.Environments().Get(env.Environment); ok && def.Name != "" {
			name = def.Name
		}
		fmt.Fprintf(&sb, " | %s, intensity %d", name, env.Intensity)
	}
	sb.WriteString(" ===\n")
	for _, c := range b.Side(combat.SideParty) {
		fmt.Fprintf(&sb, "%s: %d/%d life, %d/%d mana%s\n", c.Name, c.Life, c.MaxLife, c.Mana, c.MaxMana, a.renderStatuses(c))
	}
	sb.WriteString("Enemies:")
	for i, c := range b.Side(combat.SideEnemy) {
		fmt.Fprintf(&sb, "\n  %d. %s: %s%s", i+1, c.Name, npc.HealthDescription(c), a.renderStatuses(c))
	}
	return sb.String()
}

func (a *Adventure) renderStatuses(c *combat.Combatant) string {
	entries := c.Statuses.Entries()
	if len(entries) == 0 {
		return ""
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Tag
		if def, ok := a.lib.Status(e.Tag); ok {
			name = def.DisplayName()
		}
		if e.Stacks > 1 {
			name = fmt.Sprintf("%s x%d", name, e.Stacks)
		}
		if e.Turns != status.Permanent {
			name = fmt.Sprintf("%s %dt", name, e.Turns)
		}
		parts = append(parts, name)
	}
	return " [" + strings.Join(parts, ", ") + "]"
}

// renderHeroInBattle is the status sheet during a battle.
func (a *Adventure) renderHeroInBattle() string {
	c, ok := a.battle.Combatant(character.CombatantID)
	if !ok {
		return command.HandleStatus(a.hero, a.class)
	}
	sec := c.Secondary()
	return fmt.Sprintf("%s: %d/%d life, %d/%d mana%s\n  Speed %d  Accuracy %d  Phys %d/%d  Magic %d/%d",
		c.Name, c.Life, c.MaxLife, c.Mana, c.MaxMana, a.renderStatuses(c),
		sec.Speed, sec.Accuracy, sec.PhysicalDamage, sec.PhysicalDefense, sec.MagicDamage, sec.MagicDefense)
}

// renderAbilities lists the hero's abilities; during a battle with their
// cooldowns and remaining uses.
func (a *Adventure) renderAbilities() string {
	ids := a.hero.Abilities
	var cb *combat.Combatant
	if a.battle != nil {
		if c, ok := a.battle.Combatant(character.CombatantID); ok {
			cb, ids = c, c.Abilities
		}
	}
	if len(ids) == 0 {
		return "You know no abilities."
	}
	var sb strings.Builder
	sb.WriteString("Abilities:")
	for _, id := range ids {
		def, ok := a.lib.Ability(id)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "\n  %s (%s, %d mana)", def.DisplayName(), def.Range, def.MPCost)
		if cb == nil {
			continue
		}
		u := cb.Usage.Usage(id)
		switch {
		case u.Cooldown > 0:
			fmt.Fprintf(&sb, ": cooldown %d", u.Cooldown)
		case cb.Usage.UsesLeft(def) == 0:
			sb.WriteString(": no uses left")
		case cb.Mana < def.MPCost:
			sb.WriteString(": not enough mana")
		default:
			sb.WriteString(": ready")
		}
		if left := cb.Usage.UsesLeft(def); left > 0 {
			fmt.Fprintf(&sb, " (%d uses left)", left)
		}
	}
	return sb.String()
}

// renderResult summarizes what a finished battle gave the hero.
func (a *Adventure) renderResult(res combat.BattleResult, rep character.Report) string {
	var sb strings.Builder
	switch res.Outcome {
	case combat.Victory:
		fmt.Fprintf(&sb, "Victory after %d rounds! You gain %d experience and %s.", res.Rounds, rep.Exp, inventory.FormatGold(rep.Gold))
	case combat.Defeat:
		sb.WriteString("You have been defeated.")
	case combat.Fled:
		sb.WriteString("You escape the battle.")
	default:
		fmt.Fprintf(&sb, "The battle ends: %s.", res.Outcome)
	}
	for _, up := range rep.LevelUps {
		fmt.Fprintf(&sb, "\nYou reach level %d!", up.Level)
		for _, id := range up.Learned {
			name := id
			if def, ok := a.lib.Ability(id); ok {
				name = def.DisplayName()
			}
			fmt.Fprintf(&sb, " You learn %s.", name)
		}
	}
	for _, l := range rep.Looted {
		fmt.Fprintf(&sb, "\nLoot: %s x%d", a.itemName(l.ItemID), l.Quantity)
	}
	for _, l := range rep.Lost {
		fmt.Fprintf(&sb, "\nNo room for %s x%d; it is left behind.", a.itemName(l.ItemID), l.Quantity)
	}
	return sb.String()
}

// renderHistory shows the running battle's log, or the last finished one.
func (a *Adventure) renderHistory() string {
	log := a.lastLog
	if a.battle != nil {
		log = a.battle.Log()
	}
	if len(log) == 0 {
		return "No battles yet."
	}
	lines := make([]string, len(log))
	for i, e := range log {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
