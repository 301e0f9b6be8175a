package damage

import (
	"math/rand/v2"

	"WeaponDPSSimulator/internal/debuff"
	"WeaponDPSSimulator/internal/property"
)

// BaseDebuffDuration is the lifetime in seconds of a triggered status stack
// before debuff duration bonuses.
const BaseDebuffDuration = 6.0

// Force overrides the accumulator for one outcome.
type Force int

const (
	Roll Force = iota
	On
	Off
)

func (f Force) String() string {
	switch f {
	case On:
		return "on"
	case Off:
		return "off"
	}
	return "roll"
}

// Accumulator is a deterministic probability counter: every trial adds p
// and a success is emitted, consuming 1, once the sum reaches 1.
type Accumulator struct {
	sum float64
}

func (a *Accumulator) Roll(p float64) bool {
	if p <= 0 {
		return false
	}
	if p > 1 {
		p = 1
	}
	a.sum += p
	if a.sum >= 1 {
		a.sum -= 1
		return true
	}
	return false
}

// Resolve applies f, rolling the accumulator only when f is Roll.
func (a *Accumulator) Resolve(f Force, p float64) bool {
	switch f {
	case On:
		return true
	case Off:
		return false
	}
	return a.Roll(p)
}

func (a *Accumulator) Reset() { a.sum = 0 }

// Shot is everything one discharge needs from the resolved snapshot.
// Percent attributes are already converted to fractions.
type Shot struct {
	Damage         [property.DamageKindCount]float64
	External       float64
	CritChance     float64
	CritDamage     float64
	TriggerChance  float64
	HeadshotBonus  float64
	DebuffDuration float64

	Crit     Force
	Headshot Force
	Trigger  Force
}

// Outcome reports one discharge.
type Outcome struct {
	Damage    float64
	Instant   float64
	DoT       float64
	Crit      bool
	Headshot  bool
	Triggered bool
	// Status is the kind that received a stack; only set when Triggered
	// and the damage vector had elemental damage.
	Status    property.DamageKind
	HasStatus bool
}

// Run owns the mutable state of one simulation: the three accumulators,
// the target's status effects and the random stream used to pick the
// triggered element. A Run must not be shared between goroutines.
type Run struct {
	Target    Target
	Character Character
	Status    *debuff.State

	crit     Accumulator
	headshot Accumulator
	trigger  Accumulator
	seed     uint64
	rng      *rand.Rand
}

// NewRun returns a run against t with the target's constant stacks applied.
func NewRun(t Target, c Character, seed uint64) *Run {
	r := &Run{
		Target:    t.Clone(),
		Character: c,
		Status:    debuff.NewState(),
		seed:      seed,
	}
	for d, n := range r.Target.StatusConstants {
		r.Status.SetConstantByDamageKind(d, n)
	}
	r.Reset()
	return r
}

// Reset zeroes the accumulators, drops transient stacks and rewinds the
// random stream. Constant stacks survive.
func (r *Run) Reset() {
	r.crit.Reset()
	r.headshot.Reset()
	r.trigger.Reset()
	r.Status.ClearTransient()
	r.rng = rand.New(rand.NewPCG(r.seed, r.seed^0x9e3779b97f4a7c15))
}

// Mitigation is the armor pass-through fraction under the current status
// effects.
func (r *Run) Mitigation() float64 {
	skill := SkillWeakening(r.Character.SkillStrength, r.Target.SkillDebuffs[IonicSuppression] > 0)
	fire := FireWeakening(r.Status.Count(property.DamageHeat))
	rad := RadiationWeakening(r.Status.Count(property.DamageRadiation))
	return ArmorMitigation(EffectiveArmor(r.Target.Armor, skill, fire, rad))
}

// Discharge resolves one bullet or strike and updates the status state.
func (r *Run) Discharge(s Shot) Outcome {
	var out Outcome

	nonCrit, crit := CritMultipliers(s.CritChance, s.CritDamage, r.Status.Count(property.DamageCold))
	mitigation := r.Mitigation()
	virus := VirusMultiplier(r.Status.Count(property.DamageVirus))

	dmg := MaterialDamage(s.Damage, r.Target.Material) * mitigation * virus

	out.Crit = r.crit.Resolve(s.Crit, UpperTierChance(s.CritChance))
	if out.Crit {
		dmg *= crit
	} else {
		dmg *= nonCrit
	}

	out.Headshot = r.headshot.Resolve(s.Headshot, r.Target.HeadshotRate)
	if out.Headshot {
		dmg *= 1 + s.HeadshotBonus
	}

	dmg *= s.External
	out.Instant = dmg

	out.Triggered = r.trigger.Resolve(s.Trigger, s.TriggerChance)
	if out.Triggered {
		if d, ok := r.pickStatus(s.Damage); ok {
			duration := s.DebuffDuration
			if duration <= 0 {
				duration = BaseDebuffDuration
			}
			r.Status.AddByDamageKind(d, duration)
			out.Status, out.HasStatus = d, true
			if m := DoTMultiplier(d); m != 0 {
				out.DoT = sum(s.Damage) * s.External * m * mitigation * virus
			}
		}
	}

	out.Damage = out.Instant + out.DoT
	return out
}

// Advance ages the target's status stacks.
func (r *Run) Advance(dt float64) { r.Status.Advance(dt) }

// pickStatus draws an elemental kind weighted by its share of the positive
// elemental damage. Kinetic never triggers.
func (r *Run) pickStatus(arr [property.DamageKindCount]float64) (property.DamageKind, bool) {
	total := 0.0
	for d := property.DamageCold; d <= property.DamageVirus; d++ {
		if arr[d] > 0 {
			total += arr[d]
		}
	}
	if total <= 0 {
		return 0, false
	}
	x := r.rng.Float64() * total
	last := property.DamageKinetic
	for d := property.DamageCold; d <= property.DamageVirus; d++ {
		if arr[d] <= 0 {
			continue
		}
		last = d
		if x < arr[d] {
			return d, true
		}
		x -= arr[d]
	}
	return last, true
}

func sum(arr [property.DamageKindCount]float64) float64 {
	s := 0.0
	for _, v := range arr {
		s += v
	}
	return s
}
