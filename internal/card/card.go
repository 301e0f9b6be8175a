package card

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"WeaponDPSSimulator/internal/property"
	"WeaponDPSSimulator/internal/weapon"
)

var (
	ErrUnknownSet         = errors.New("unknown card set")
	ErrRivenPropertyCount = errors.New("riven card needs 1 to 4 properties")
	ErrRivenOutOfRange    = errors.New("riven property out of range")
	ErrMissingWeaponName  = errors.New("exclusive card has no weapon name")
	ErrUnexpectedVariant  = errors.New("unexpected card variant")
	ErrUnknownSlot        = errors.New("unknown card slot")
)

// Variant tags which kind of card a Card is.
type Variant int

const (
	Common Variant = iota
	Riven
	Special
)

func (v Variant) String() string {
	switch v {
	case Common:
		return "common"
	case Riven:
		return "riven"
	case Special:
		return "special"
	}
	return fmt.Sprintf("variant(%d)", int(v))
}

// Set is the set affiliation of a common card.
type Set int

const (
	SetUnset Set = iota
	SetReverse
	SetGhost
	SetInvasion
	SetSnake
	SetBless
)

var setNames = [...]string{"Unset", "Reverse", "Ghost", "Invasion", "Snake", "Bless"}

func (s Set) String() string {
	if s >= 0 && int(s) < len(setNames) {
		return setNames[s]
	}
	return fmt.Sprintf("set(%d)", int(s))
}

func ParseSet(s string) (Set, error) {
	if s == "" {
		return SetUnset, nil
	}
	for i, name := range setNames {
		if name == s {
			return Set(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSet, s)
}

func (s Set) MarshalYAML() (interface{}, error) { return s.String(), nil }

func (s *Set) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	parsed, err := ParseSet(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Slot is the polarity a card occupies.
type Slot int

const (
	Jia Slot = iota
	Yi
	Bing
	Ding
	Wu
	Ji
)

var slotNames = [...]string{"jia", "yi", "bing", "ding", "wu", "ji"}

func (s Slot) String() string {
	if s >= 0 && int(s) < len(slotNames) {
		return slotNames[s]
	}
	return fmt.Sprintf("slot(%d)", int(s))
}

// ParseSlot accepts a slot name or its ordinal.
func ParseSlot(s string) (Slot, error) {
	for i, name := range slotNames {
		if strings.EqualFold(name, s) {
			return Slot(i), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n < len(slotNames) {
		return Slot(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSlot, s)
}

func (s Slot) MarshalYAML() (interface{}, error) { return s.String(), nil }

func (s *Slot) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	parsed, err := ParseSlot(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Card is a modifier card. Common cards carry a class restriction and a
// set; riven cards are random-rolled and bound to one weapon; special cards
// are bound to one weapon and carry no numbers.
type Card struct {
	Variant    Variant
	Name       string
	Cost       int
	Slot       Slot
	Properties []property.Property

	// Common only.
	Class    weapon.Class
	SubClass weapon.SubClass
	Set      Set
	Prime    bool

	// Riven and special only. Matched against the weapon's base name.
	WeaponName string

	// Riven only.
	Quality RollQuality
}

func NewCommon(name string, props []property.Property, class weapon.Class, sub weapon.SubClass, set Set, slot Slot, cost int, prime bool) *Card {
	return &Card{
		Variant:    Common,
		Name:       name,
		Properties: asCardProperties(props),
		Class:      class,
		SubClass:   sub,
		Set:        set,
		Slot:       slot,
		Cost:       cost,
		Prime:      prime,
	}
}

func NewRiven(name string, props []property.Property, weaponName string, quality RollQuality, slot Slot, cost int) *Card {
	return &Card{
		Variant:    Riven,
		Name:       name,
		Properties: asCardProperties(props),
		WeaponName: weaponName,
		Quality:    quality,
		Slot:       slot,
		Cost:       cost,
	}
}

func NewSpecial(name, weaponName string, slot Slot, cost int) *Card {
	return &Card{
		Variant:    Special,
		Name:       name,
		WeaponName: weaponName,
		Slot:       slot,
		Cost:       cost,
	}
}

func asCardProperties(props []property.Property) []property.Property {
	out := property.CloneAll(props)
	for i := range out {
		out[i].FromCard = true
	}
	return out
}

// HasProperties reports whether the card contributes numbers.
func (c *Card) HasProperties() bool { return c.Variant == Common || c.Variant == Riven }

// IsExclusive reports whether the card is bound to a single weapon.
func (c *Card) IsExclusive() bool { return c.Variant == Riven || c.Variant == Special }

// Contributions returns a copy of the card's properties; the card's own
// slice is never handed out.
func (c *Card) Contributions() []property.Property {
	if !c.HasProperties() {
		return nil
	}
	return property.CloneAll(c.Properties)
}

// Clone returns a deep copy.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Properties = property.CloneAll(c.Properties)
	return &cp
}

// Compatible reports whether c may be equipped on w.
func Compatible(c *Card, w *weapon.Weapon) bool {
	switch c.Variant {
	case Common:
		if c.Class == weapon.ClassAll {
			return true
		}
		return c.Class == w.Class && (c.SubClass == weapon.SubClassAll || c.SubClass == w.SubClass)
	case Riven, Special:
		return c.WeaponName == w.BaseName
	}
	return false
}

// Validate checks the structural rules of the card's variant. For rivens,
// each property must lie within the range its roll quality allows on a
// weapon of the given class.
func (c *Card) Validate(class weapon.Class) error {
	switch c.Variant {
	case Common:
		return nil
	case Special:
		if c.WeaponName == "" {
			return fmt.Errorf("card %q: %w", c.Name, ErrMissingWeaponName)
		}
		return nil
	case Riven:
		if c.WeaponName == "" {
			return fmt.Errorf("card %q: %w", c.Name, ErrMissingWeaponName)
		}
		if n := len(c.Properties); n < 1 || n > 4 {
			return fmt.Errorf("card %q has %d: %w", c.Name, n, ErrRivenPropertyCount)
		}
		curses := 0
		for _, p := range c.Properties {
			lo, hi, err := CalculateRivenPropertyRange(p.Kind, class, c.Quality)
			if err != nil {
				return fmt.Errorf("card %q: %w", c.Name, err)
			}
			if p.Addon >= lo && p.Addon <= hi {
				continue
			}
			// A curse rolls on the mirrored side of the range.
			if c.Quality.HasCurse() && curses == 0 && p.Addon >= -hi && p.Addon <= -lo {
				curses++
				continue
			}
			return fmt.Errorf("card %q: %s %g not in [%g, %g]: %w", c.Name, p.Kind, p.Addon, lo, hi, ErrRivenOutOfRange)
		}
		return nil
	}
	return fmt.Errorf("card %q: %w: %s", c.Name, ErrUnexpectedVariant, c.Variant)
}
