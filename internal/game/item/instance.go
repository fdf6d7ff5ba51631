package item

import (
	"github.com/cory-johannsen/legend/internal/game/effect"
	"github.com/cory-johannsen/legend/internal/game/quality"
)

// Instance is one owned copy of an item. Equipment carries the roll it
// dropped with; a nil Roll means the template values apply unchanged.
type Instance struct {
	InstanceID string
	Def        *Def
	Roll       *quality.Roll
}

func (in Instance) rolled() quality.Rolled {
	if in.Roll == nil {
		return quality.Rolled{Attributes: in.Def.Attributes, Effects: in.Def.Effects}
	}
	return quality.Apply(in.Def.Template(), *in.Roll)
}

// Attributes returns the rolled numeric attributes.
func (in Instance) Attributes() quality.Attributes { return in.rolled().Attributes }

// Modifiers returns the rolled special effects. Instance is an
// effect.Provider.
func (in Instance) Modifiers() effect.Modifiers { return in.rolled().Effects }
