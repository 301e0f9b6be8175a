package dps

import (
	"errors"
	"fmt"

	"WeaponDPSSimulator/internal/card"
	"WeaponDPSSimulator/internal/damage"
	"WeaponDPSSimulator/internal/property"
	"WeaponDPSSimulator/internal/weapon"
)

// Slot layout: eight regular slots followed by the special slot.
const (
	RegularSlots = 8
	SpecialSlot  = RegularSlots
	SlotCount    = RegularSlots + 1
)

var (
	ErrNoWeapon     = errors.New("request has no weapon")
	ErrNoEmptySlot  = errors.New("no empty card slot")
	ErrSlotRange    = errors.New("slot out of range")
	ErrIncompatible = errors.New("card is not compatible with weapon")
	ErrWrongSlot    = errors.New("card does not fit slot")
)

// Result holds the outputs of one calculation.
type Result struct {
	FirstShotNonCrit         float64
	FirstShotCrit            float64
	FirstShotNonCritHeadshot float64
	FirstShotCritHeadshot    float64
	// ExpectedShot weights the two first-shot values by crit probability.
	ExpectedShot float64

	MagazineDamage float64
	MagazineDPS    float64
	AverageDPS     float64

	Shots     int
	Crits     int
	Headshots int
	Triggers  int

	Snapshot property.Snapshot
}

// Request is the full input and output of one calculation. The weapon is
// shared and read-only; everything else is owned by the request.
type Request struct {
	Weapon    *weapon.Weapon
	Cards     [SlotCount]*card.Card
	SetCounts map[card.Set]int
	Character damage.Character
	Target    damage.Target

	Result Result
}

// NewRequest returns an empty build for w.
func NewRequest(w *weapon.Weapon, c damage.Character, t damage.Target) *Request {
	return &Request{
		Weapon:    w,
		SetCounts: make(map[card.Set]int),
		Character: c,
		Target:    t.Clone(),
	}
}

// Clone returns a deep copy; evaluating the copy never touches r.
func (r *Request) Clone() *Request {
	cp := *r
	for i, c := range r.Cards {
		cp.Cards[i] = c.Clone()
	}
	cp.SetCounts = make(map[card.Set]int, len(r.SetCounts))
	for k, v := range r.SetCounts {
		cp.SetCounts[k] = v
	}
	cp.Target = r.Target.Clone()
	return &cp
}

// Equip places c into slot i. Special cards belong in SpecialSlot, others
// in a regular slot.
func (r *Request) Equip(i int, c *card.Card) error {
	if i < 0 || i >= SlotCount {
		return fmt.Errorf("%w: %d", ErrSlotRange, i)
	}
	if c != nil {
		if err := r.fits(i, c); err != nil {
			return err
		}
	}
	r.Cards[i] = c
	return nil
}

// fits checks c against slot i and the request's weapon.
func (r *Request) fits(i int, c *card.Card) error {
	if (i == SpecialSlot) != (c.Variant == card.Special) {
		return fmt.Errorf("%w: %s card %s in slot %d", ErrWrongSlot, c.Variant, c.Name, i)
	}
	if r.Weapon != nil && !card.Compatible(c, r.Weapon) {
		return fmt.Errorf("%w: %s on %s", ErrIncompatible, c.Name, r.Weapon.Name)
	}
	return nil
}

// FirstEmptySlot returns the lowest empty regular slot.
func (r *Request) FirstEmptySlot() (int, bool) {
	for i := 0; i < RegularSlots; i++ {
		if r.Cards[i] == nil {
			return i, true
		}
	}
	return 0, false
}

// Equipped reports whether a card named name is in any slot.
func (r *Request) Equipped(name string) bool {
	for _, c := range r.Cards {
		if c != nil && c.Name == name {
			return true
		}
	}
	return false
}

func (r *Request) TotalCost() int {
	total := 0
	for _, c := range r.Cards {
		if c != nil {
			total += c.Cost
		}
	}
	return total
}

// SetStacks is the requested count for s plus equipped common cards of s.
func (r *Request) SetStacks(s card.Set) int {
	n := r.SetCounts[s]
	for _, c := range r.Cards {
		if c != nil && c.Variant == card.Common && c.Set == s {
			n++
		}
	}
	return n
}

// reverseCritPerStack is the crit chance addon per reverse set stack.
const reverseCritPerStack = 30.0

// Contributions gathers copies of every equipped card's properties plus set
// bonuses, with airborne-only entries filtered by the character's state.
func (r *Request) Contributions() []property.Property {
	var out []property.Property
	for _, c := range r.Cards {
		if c != nil {
			out = append(out, c.Contributions()...)
		}
	}
	if n := r.SetStacks(card.SetReverse); n > 0 {
		out = append(out, property.NewCard(property.CritChance, reverseCritPerStack*float64(n)))
	}
	return property.FilterAirborne(out, r.Character.Airborne)
}
