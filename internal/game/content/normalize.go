package content

import (
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/validate"
)

// legacyKeys maps older content key spellings to the canonical snake_case keys.
var legacyKeys = map[string]string{
	"hp":              "life",
	"max_hp":          "max_life",
	"maxHp":           "max_life",
	"maxLife":         "max_life",
	"mp":              "mana",
	"max_mp":          "max_mana",
	"maxMp":           "max_mana",
	"maxMana":         "max_mana",
	"physicDamage":    "physical_damage",
	"physicalDamage":  "physical_damage",
	"magicDamage":     "magic_damage",
	"physicDefense":   "physical_defense",
	"physicalDefense": "physical_defense",
	"magicDefense":    "magic_defense",
	"mpCost":          "mp_cost",
	"minDamage":       "min_damage",
	"maxDamage":       "max_damage",
	"statusTag":       "tag",
	"immuneType":      "immune_type",
	"intensityRanges": "intensity_ranges",
	"elementalType":   "elemental_type",
}

// normalizeKeys renames legacy keys throughout the tree rooted at n. A
// "status" key holding a mapping or list becomes "statuses", with a single
// mapping wrapped into a one-element list; a scalar "status" is canonical.
func normalizeKeys(n *yaml.Node, path string, logger *zap.Logger) {
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			normalizeKeys(c, path, logger)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			switch {
			case k.Value == "status" && v.Kind == yaml.MappingNode:
				n.Content[i+1] = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: []*yaml.Node{v}}
				rename(k, "statuses", path, logger)
			case k.Value == "status" && v.Kind == yaml.SequenceNode:
				rename(k, "statuses", path, logger)
			default:
				if to, ok := legacyKeys[k.Value]; ok {
					rename(k, to, path, logger)
				}
			}
			normalizeKeys(n.Content[i+1], path, logger)
		}
	}
}

func rename(k *yaml.Node, to, path string, logger *zap.Logger) {
	logger.Debug("content: renamed legacy key",
		zap.String("file", path),
		zap.Int("line", k.Line),
		zap.String("from", k.Value),
		zap.String("to", to),
	)
	k.Value = to
}

// foldMaxima turns max_life and max_mana into life and mana on definitions
// that only carry a starting value. When both spellings exist the maximum is
// dropped.
func foldMaxima(n *yaml.Node) {
	for _, pair := range [][2]string{{"max_life", "life"}, {"max_mana", "mana"}} {
		maxIdx, curIdx := -1, -1
		for i := 0; i+1 < len(n.Content); i += 2 {
			switch n.Content[i].Value {
			case pair[0]:
				maxIdx = i
			case pair[1]:
				curIdx = i
			}
		}
		switch {
		case maxIdx < 0:
		case curIdx < 0:
			n.Content[maxIdx].Value = pair[1]
		default:
			n.Content = append(n.Content[:maxIdx], n.Content[maxIdx+2:]...)
		}
	}
}

// chanceScale converts raw chance values to fractions in [0, 1].
type chanceScale struct {
	logger *zap.Logger
}

// fraction returns v as a fraction. Values in (1, 100] are legacy percentages
// and are divided by 100.
//
// Postcondition: values outside [0, 100] return a *validate.ConfigError.
func (s chanceScale) fraction(kind, id, field string, v float64) (float64, error) {
	switch {
	case v < 0 || v > 100:
		return v, validate.Errorf(kind, id, field, "must be a fraction in [0, 1] or a percentage in [0, 100], got %g", v)
	case v > 1:
		s.logger.Warn("content: legacy percentage chance",
			zap.String("kind", kind),
			zap.String("id", id),
			zap.String("field", field),
			zap.Float64("value", v),
		)
		return v / 100, nil
	}
	return v, nil
}

// percent converts a percentage in [0, 100] to a fraction.
func (s chanceScale) percent(kind, id, field string, v float64) (float64, error) {
	if v < 0 || v > 100 {
		return v, validate.Errorf(kind, id, field, "must be a percentage in [0, 100], got %g", v)
	}
	return v / 100, nil
}
