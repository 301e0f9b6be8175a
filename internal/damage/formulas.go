package damage

import (
	"math"

	"WeaponDPSSimulator/internal/property"
)

// resistance[d][m] is the multiplier damage kind d receives against
// material m.
var resistance = [property.DamageKindCount][materialCount]float64{
	property.DamageKinetic:   {1, 1, 1, 1},
	property.DamageCold:      {1.25, 0.85, 1, 1},
	property.DamageElectric:  {1, 1, 0.75, 1.25},
	property.DamageHeat:      {0.85, 1.25, 1, 1},
	property.DamageToxin:     {1, 1, 1.25, 0.75},
	property.DamageCrackling: {1.5, 0.5, 1, 1.5},
	property.DamageRadiation: {0.5, 1.5, 1, 1.75},
	property.DamageGas:       {1, 1, 1.75, 0.5},
	property.DamageMagnetic:  {1, 1.75, 0.5, 1.75},
	property.DamageEther:     {1.75, 1, 0.5, 1},
	property.DamageVirus:     {0.5, 1, 1.5, 1},
}

// Resistance returns the multiplier for kind d against material m.
func Resistance(d property.DamageKind, m Material) float64 {
	return resistance[d][m]
}

// MaterialDamage applies the resistance column of m to the damage vector
// and sums it.
func MaterialDamage(arr [property.DamageKindCount]float64, m Material) float64 {
	sum := 0.0
	for d, v := range arr {
		sum += v * resistance[d][m]
	}
	return sum
}

// ColdCritBonus is the crit damage bonus granted by cold stacks:
// 10% for the first stack and 5% for each further stack.
func ColdCritBonus(stacks int) float64 {
	if stacks <= 0 {
		return 0
	}
	return 0.10 + float64(stacks-1)*0.05
}

// CritMultipliers returns the (lower, upper) tier multipliers. Above 100%
// chance the lower tier is floor(chance) crits and the upper one more.
func CritMultipliers(critChance, critDamage float64, coldStacks int) (float64, float64) {
	if critChance <= 0 {
		return 1, 1
	}
	perCrit := critDamage + ColdCritBonus(coldStacks)
	if critChance <= 1 {
		return 1, perCrit
	}
	lower := math.Floor(critChance)
	return lower * perCrit, (lower + 1) * perCrit
}

// UpperTierChance is the probability of landing the upper crit tier.
func UpperTierChance(critChance float64) float64 {
	if critChance <= 0 {
		return 0
	}
	if critChance <= 1 {
		return critChance
	}
	return critChance - math.Floor(critChance)
}

// SkillWeakening is the armor reduction from ionic suppression:
// 0.6 × skillStrength/100, rounded to two decimals.
func SkillWeakening(skillStrength float64, active bool) float64 {
	if !active {
		return 0
	}
	return math.Round(0.6*skillStrength/100*100) / 100
}

// FireWeakening halves armor while the target burns.
func FireWeakening(heatStacks int) float64 {
	if heatStacks > 0 {
		return 0.5
	}
	return 0
}

// RadiationWeakening is 16% for the first stack plus 6% per further stack,
// capped at 70%.
func RadiationWeakening(stacks int) float64 {
	if stacks <= 0 {
		return 0
	}
	return math.Min(0.16+float64(stacks-1)*0.06, 0.70)
}

// EffectiveArmor applies the three weakening factors; never negative.
func EffectiveArmor(armor, skillWeak, fireWeak, radiationWeak float64) float64 {
	a := armor * (1 - skillWeak) * (1 - fireWeak) * (1 - radiationWeak)
	if a < 0 {
		return 0
	}
	return a
}

// ArmorMitigation is the fraction of damage that passes armor.
func ArmorMitigation(armor float64) float64 {
	return 1 - armor/(800+armor)
}

// VirusMultiplier is 1.75 + 0.25 per virus stack once infected.
func VirusMultiplier(stacks int) float64 {
	if stacks <= 0 {
		return 1
	}
	return 1.75 + 0.25*float64(stacks)
}

// ExternalMultiplier combines aura stacks, moving-only set stacks and the
// combo multiplier.
func ExternalMultiplier(aura, movingSet int, moving bool, combo float64) float64 {
	if combo == 0 {
		combo = 1
	}
	m := 1 + float64(aura)*0.3 + (combo - 1)
	if moving {
		m += float64(movingSet) * 0.3
	}
	return m
}

// DoTMultiplier is the damage-over-time share a triggered kind deals.
func DoTMultiplier(d property.DamageKind) float64 {
	switch d {
	case property.DamageHeat, property.DamageElectric, property.DamageToxin:
		return 0.5
	case property.DamageCrackling:
		return 0.35
	}
	return 0
}
