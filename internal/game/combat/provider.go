package combat

import (
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/ability"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/element"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/environment"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/inventory"
	"github.com/FernandoMinami/RPG-based-Interactive-Story-sub001/internal/game/status"
)

// Provider resolves the read-only content a battle consults. Every definition
// is loaded and validated before a battle is constructed.
type Provider interface {
	Ability(id string) (*ability.Def, bool)
	Status(tag string) (*status.Def, bool)
	Item(id string) (*inventory.ItemDef, bool)
	Chart() *element.Chart
	Environments() *environment.Resolver
}
