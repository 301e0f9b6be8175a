package property

import (
	"errors"
	"fmt"
)

// ErrInvalidCombination marks an attempt to add properties of different
// kinds, or two properties that both carry a base value. It always points
// at a data error in a weapon or card definition.
var ErrInvalidCombination = errors.New("invalid property combination")

// Property is one attribute entry: a base value and a percentage addon.
// Weapons contribute base values, cards contribute addons.
type Property struct {
	Kind     Kind    `yaml:"kind"`
	Base     float64 `yaml:"base,omitempty"`
	Addon    float64 `yaml:"addon,omitempty"`
	FromCard bool    `yaml:"-"`
}

// NewBase builds an intrinsic weapon stat.
func NewBase(kind Kind, base float64) Property {
	return Property{Kind: kind, Base: base}
}

// NewCard builds a card contribution carrying only a percentage addon.
func NewCard(kind Kind, addon float64) Property {
	return Property{Kind: kind, Addon: addon, FromCard: true}
}

// Value is base × (1 + addon/100).
func (p Property) Value() float64 {
	return p.Base * (1 + p.Addon/100)
}

// Add merges o into p.
func (p *Property) Add(o Property) error {
	if p.Kind != o.Kind {
		return fmt.Errorf("%w: %s + %s", ErrInvalidCombination, p.Kind, o.Kind)
	}
	if p.Base != 0 && o.Base != 0 {
		return fmt.Errorf("%w: %s has two base values (%g, %g)", ErrInvalidCombination, p.Kind, p.Base, o.Base)
	}
	p.Base += o.Base
	p.Addon += o.Addon
	return nil
}

// SetFinal replaces the entry with an absolute value and no addon.
func (p *Property) SetFinal(v float64) {
	p.Base = v
	p.Addon = 0
}

func (p Property) String() string {
	if p.FromCard {
		if p.Addon > 0 {
			return fmt.Sprintf("%s: +%g%%", p.Kind, p.Addon)
		}
		return fmt.Sprintf("%s: %g%%", p.Kind, p.Addon)
	}
	return fmt.Sprintf("%s: %g", p.Kind, p.Value())
}

// CloneAll returns an independent copy of props.
func CloneAll(props []Property) []Property {
	if props == nil {
		return nil
	}
	out := make([]Property, len(props))
	copy(out, props)
	return out
}
