package property

import "fmt"

// Default base values for attributes a weapon definition may omit.
const (
	DefaultHeadshot    = 100.0
	DefaultMultiStrike = 100.0
)

// Snapshot pairs a weapon's base table with the table resolved from the
// currently applied card contributions. Snapshots are values; copying one
// never shares state with the original.
type Snapshot struct {
	base     Table
	final    Table
	resolved bool
}

// NewSnapshot builds a snapshot from intrinsic weapon stats. Headshot and
// multi-strike default to 100% when the definition omits them.
func NewSnapshot(props []Property) (Snapshot, error) {
	var s Snapshot
	for _, p := range props {
		if err := s.base.combine(p); err != nil {
			return Snapshot{}, err
		}
	}
	if !s.base.Has(Headshot) {
		s.base.Add(NewBase(Headshot, DefaultHeadshot))
	}
	if !s.base.Has(MultiStrike) {
		s.base.Add(NewBase(MultiStrike, DefaultMultiStrike))
	}
	s.final = s.base
	return s, nil
}

// combine adds p while enforcing the single-base contract.
func (t *Table) combine(p Property) error {
	cur := t.Property(p.Kind)
	if err := cur.Add(p); err != nil {
		return err
	}
	t.cells[p.Kind] = cell{base: cur.Base, addon: cur.Addon}
	return nil
}

// Clone returns an independent copy.
func (s *Snapshot) Clone() Snapshot { return *s }

// Base returns a copy of the intrinsic table.
func (s *Snapshot) Base() Table { return s.base }

// Final returns a copy of the resolved table, or the base table before the
// first resolution.
func (s *Snapshot) Final() Table { return s.final }

// Resolved reports whether Resolve or ResolveBase has run.
func (s *Snapshot) Resolved() bool { return s.resolved }

// Get reads the resolved value of k.
func (s *Snapshot) Get(k Kind) float64 { return s.final.Get(k) }

// BaseDamageArray is the damage vector of the weapon alone.
func (s *Snapshot) BaseDamageArray() [DamageKindCount]float64 { return s.base.DamageArray() }

// DamageArray is the resolved damage vector.
func (s *Snapshot) DamageArray() [DamageKindCount]float64 { return s.final.DamageArray() }

// elementEntry is one resolved elemental damage amount during composition.
type elementEntry struct {
	kind  Kind
	value float64
}

// Compound elements a basic element is folded into when one already exists,
// in lookup order.
var builtFrom = map[Kind][3]Kind{
	Heat:     {Crackling, Gas, Ether},
	Cold:     {Crackling, Magnetic, Virus},
	Electric: {Radiation, Magnetic, Ether},
	Toxin:    {Virus, Gas, Radiation},
}

type pairing struct {
	partner  Kind
	compound Kind
}

// Partners a basic element combines with, in lookup order.
var pairings = map[Kind][3]pairing{
	Heat:     {{Cold, Crackling}, {Electric, Ether}, {Toxin, Gas}},
	Cold:     {{Heat, Crackling}, {Electric, Magnetic}, {Toxin, Virus}},
	Electric: {{Heat, Ether}, {Cold, Magnetic}, {Toxin, Radiation}},
	Toxin:    {{Heat, Gas}, {Cold, Virus}, {Electric, Radiation}},
}

func findEntry(entries []elementEntry, k Kind) int {
	for i, e := range entries {
		if e.kind == k {
			return i
		}
	}
	return -1
}

// compose folds elemental deltas in order. The first same-kind entry wins,
// then a compound already built from the element, then a partner element
// which is retyped in place into the compound. Retyping the existing entry
// makes heat 30% plus cold 60% resolve to one crackling entry worth 90%
// of the damage sum, with no heat or cold left over.
func compose(pending []elementEntry) []elementEntry {
	var out []elementEntry
	for _, d := range pending {
		if i := findEntry(out, d.kind); i >= 0 {
			out[i].value += d.value
			continue
		}
		if !d.kind.IsBasicElemental() {
			out = append(out, d)
			continue
		}
		merged := false
		for _, compound := range builtFrom[d.kind] {
			if i := findEntry(out, compound); i >= 0 {
				out[i].value += d.value
				merged = true
				break
			}
		}
		if merged {
			continue
		}
		for _, p := range pairings[d.kind] {
			if i := findEntry(out, p.partner); i >= 0 {
				out[i] = elementEntry{kind: p.compound, value: out[i].value + d.value}
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, d)
		}
	}
	return out
}

// Resolve rebuilds the final table from the base table and the given card
// contributions. Airborne-only contributions must already be filtered by
// the caller (see FilterAirborne).
func (s *Snapshot) Resolve(contributions []Property) error {
	work := s.base
	baseDamage := s.base.TotalDamage()

	var basic, compound []elementEntry
	for _, p := range contributions {
		switch {
		case p.Kind.IsAirborne():
			return fmt.Errorf("%w: unfiltered airborne contribution %s", ErrInvalidCombination, p.Kind)
		case p.Kind.IsBasicElemental():
			if v := p.Addon * baseDamage / 100; v != 0 {
				basic = append(basic, elementEntry{kind: p.Kind, value: v})
			}
		case p.Kind.IsCompound():
			if p.Addon != 0 {
				compound = append(compound, elementEntry{kind: p.Kind, value: p.Addon})
			}
		default:
			if err := work.combine(p); err != nil {
				return err
			}
		}
	}

	pending := basic
	for k := Cold; k <= Virus; k++ {
		if v := work.Get(k); v != 0 {
			pending = append(pending, elementEntry{kind: k, value: v})
			work.SetFinal(k, 0)
		}
	}
	resolved := append(compose(pending), compound...)

	if addon := work.Addon(Kinetic); addon != 0 {
		work.SetFinal(Kinetic, work.Base(Kinetic)+baseDamage*addon/100)
	}
	for _, e := range resolved {
		work.SetFinal(e.kind, work.Get(e.kind)+e.value)
	}

	allDamage := work.Addon(AllDamage)
	for k := Kinetic; k <= Virus; k++ {
		if v := work.Get(k); v != 0 {
			work.SetFinal(k, v*(1+allDamage/100))
		}
	}

	s.final = work
	s.resolved = true
	return nil
}

// ResolveBase applies only non-damage contributions and leaves the damage
// vector at its intrinsic values. It is the cheap path used when elemental
// composition is not wanted.
func (s *Snapshot) ResolveBase(contributions []Property) error {
	work := s.base
	for _, p := range contributions {
		if p.Kind.IsDamage() || p.Kind.IsAirborne() {
			continue
		}
		if err := work.combine(p); err != nil {
			return err
		}
	}
	s.final = work
	s.resolved = true
	return nil
}

// ApplyGhostConversion moves min(1, stacks × perStack) of every elemental
// damage kind into kinetic damage.
func (s *Snapshot) ApplyGhostConversion(stacks int, perStack float64) {
	fraction := float64(stacks) * perStack
	if fraction <= 0 {
		return
	}
	if fraction > 1 {
		fraction = 1
	}
	moved := 0.0
	for k := Cold; k <= Virus; k++ {
		v := s.final.Get(k)
		if v == 0 {
			continue
		}
		part := v * fraction
		s.final.SetFinal(k, v-part)
		moved += part
	}
	if moved != 0 {
		s.final.SetFinal(Kinetic, s.final.Get(Kinetic)+moved)
	}
}

// FilterAirborne drops airborne-only contributions, or retypes them to
// their grounded kind when airborne is set.
func FilterAirborne(props []Property, airborne bool) []Property {
	out := make([]Property, 0, len(props))
	for _, p := range props {
		if p.Kind.IsAirborne() {
			if !airborne {
				continue
			}
			p.Kind = p.Kind.Grounded()
		}
		out = append(out, p)
	}
	return out
}
