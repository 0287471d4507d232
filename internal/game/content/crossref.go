package content

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// refs checks references from one definition against the library.
type refs struct {
	ld *loader
	c  *validate.Collector
}

func (ld *loader) refs(kind, id string) *refs {
	return &refs{ld: ld, c: validate.NewCollector(kind, id)}
}

func (r *refs) done() { r.ld.fail(r.c.Err()) }

func (r *refs) status(field, tag string) {
	if tag == "" {
		return
	}
	if _, ok := r.ld.lib.statuses.Get(tag); !ok {
		r.c.Addf(field, "unknown status %q", tag)
	}
}

func (r *refs) elemental(field, id string) {
	if id != "" && !r.ld.lib.chart.Has(id) {
		r.c.Addf(field, "unknown type %q", id)
	}
}

func (r *refs) ability(field, id string) {
	if _, ok := r.ld.lib.abilities.Get(id); !ok {
		r.c.Addf(field, "unknown ability %q", id)
	}
}

func (r *refs) item(field, id string) {
	if id == "" {
		return
	}
	if _, ok := r.ld.lib.items.Item(id); !ok {
		r.c.Addf(field, "unknown item %q", id)
	}
}

func (r *refs) environment(field, id string) {
	if id == "" {
		return
	}
	if _, ok := r.ld.lib.envs.Get(id); !ok {
		r.c.Addf(field, "unknown environment %q", id)
	}
}

func (r *refs) enemy(field, id string) {
	if _, ok := r.ld.lib.roster.Get(id); !ok {
		r.c.Addf(field, "unknown enemy %q", id)
	}
}

// crossValidate checks every reference between definitions.
//
// Precondition: every definition loaded without error.
func (ld *loader) crossValidate() {
	lib := ld.lib

	for _, id := range lib.chart.IDs() {
		d, _ := lib.chart.Get(id)
		r := ld.refs("type", id)
		for i, tag := range d.StatusInteractions.Immune {
			r.status(fmt.Sprintf("status_interactions.immune[%d]", i), tag)
		}
		for i, tag := range d.StatusInteractions.Resistant {
			r.status(fmt.Sprintf("status_interactions.resistant[%d]", i), tag)
		}
		for i, tag := range d.StatusInteractions.Vulnerable {
			r.status(fmt.Sprintf("status_interactions.vulnerable[%d]", i), tag)
		}
		for env := range d.EnvironmentInteractions {
			r.environment("environment_interactions."+env, env)
		}
		r.done()
	}

	for _, d := range lib.statuses.All() {
		r := ld.refs("status", d.Tag)
		for i, t := range d.ImmuneTypes {
			r.elemental(fmt.Sprintf("immune_types[%d]", i), t)
		}
		for i, t := range d.ResistantTypes {
			r.elemental(fmt.Sprintf("resistant_types[%d]", i), t)
		}
		for i, t := range d.VulnerableTypes {
			r.elemental(fmt.Sprintf("vulnerable_types[%d]", i), t)
		}
		r.done()
	}

	known := make(map[string]bool)
	for _, d := range lib.abilities.All() {
		known[d.ID] = true
		known[d.Name] = true
	}
	for _, d := range lib.abilities.All() {
		r := ld.refs("ability", d.ID)
		if d.Effect != nil {
			r.status("effect.status", d.Effect.Status)
		}
		r.status("requires_status", d.RequiresStatus)
		for i, tag := range d.RemovesStatusSelf {
			r.status(fmt.Sprintf("removes_status_self[%d]", i), tag)
		}
		r.elemental("elemental_type", d.ElementalType)
		if d.Combo != nil {
			for i, prev := range d.Combo.FollowsFrom {
				if !known[prev] {
					r.c.Addf(fmt.Sprintf("combo.follows_from[%d]", i), "unknown ability %q", prev)
				}
			}
		}
		r.done()
	}

	for _, id := range lib.envs.IDs() {
		d, _ := lib.envs.Get(id)
		r := ld.refs("environment", id)
		r.elemental("immune_type", d.ImmuneType)
		for cat, eff := range d.Effects {
			for i, rg := range eff.IntensityRanges {
				if rg.Type != "" {
					r.status(fmt.Sprintf("effects.%s.intensity_ranges[%d].type", cat, i), rg.Type)
				}
			}
		}
		r.done()
	}

	for _, d := range lib.items.AllItems() {
		r := ld.refs("item", d.ID)
		if u := d.Use; u != nil {
			for i, tag := range u.Cures {
				r.status(fmt.Sprintf("use.cures[%d]", i), tag)
			}
			if u.Protection != nil {
				r.environment("use.protection.environment", u.Protection.Environment)
			}
		}
		if e := d.Equip; e != nil && e.Protection != nil {
			r.environment("equip.protection.environment", e.Protection.Environment)
		}
		r.done()
	}

	for _, t := range lib.roster.All() {
		r := ld.refs("enemy", t.ID)
		for i, id := range t.AbilityIDs() {
			r.ability(fmt.Sprintf("abilities[%d]", i), id)
		}
		r.elemental("elemental_type", t.ElementalType)
		if t.Rewards != nil {
			for i, drop := range t.Rewards.Loot {
				r.item(fmt.Sprintf("rewards.loot[%d].item", i), drop.ItemID)
			}
		}
		if t.Tactic != "" {
			if info, err := os.Stat(filepath.Join(ld.root, ScriptsDir, t.Tactic)); err != nil || !info.IsDir() {
				r.c.Addf("tactic", "no script directory %s/%s", ScriptsDir, t.Tactic)
			}
		}
		r.done()
	}

	for _, cl := range lib.classes.All() {
		r := ld.refs("class", cl.ID)
		for i, id := range cl.AbilityIDs() {
			r.ability(fmt.Sprintf("abilities[%d]", i), id)
		}
		r.elemental("elemental_type", cl.ElementalType)
		r.done()
	}

	for _, s := range lib.Stories() {
		r := ld.refs("story", s.ID)
		if _, ok := lib.classes.Class(s.Hero.Class); !ok {
			r.c.Addf("hero.class", "unknown class %q", s.Hero.Class)
		}
		for i, st := range s.Hero.Loadout.Items {
			r.item(fmt.Sprintf("hero.loadout.items[%d]", i), st.Item)
		}
		for i, id := range s.Hero.Loadout.Equip {
			field := fmt.Sprintf("hero.loadout.equip[%d]", i)
			if def, ok := lib.items.Item(id); !ok {
				r.c.Addf(field, "unknown item %q", id)
			} else if def.Equip == nil {
				r.c.Addf(field, "item %q is not equipment", id)
			}
		}
		for _, id := range s.Order {
			sc := s.Scenes[id]
			field := "scenes." + id
			for i, ch := range sc.Choices {
				r.item(fmt.Sprintf("%s.choices[%d].requires_item", field, i), ch.RequiresItem)
				r.item(fmt.Sprintf("%s.choices[%d].gives_item", field, i), ch.GivesItem)
			}
			for i, item := range sc.Shop {
				if item == "" {
					r.c.Addf(fmt.Sprintf("%s.shop[%d]", field, i), "must not be empty")
					continue
				}
				r.item(fmt.Sprintf("%s.shop[%d]", field, i), item)
			}
			if e := sc.Encounter; e != nil {
				for i, enemy := range e.Enemies {
					r.enemy(fmt.Sprintf("%s.encounter.enemies[%d]", field, i), enemy)
				}
				r.environment(field+".encounter.environment", e.Environment)
			}
		}
		r.done()
	}
}
