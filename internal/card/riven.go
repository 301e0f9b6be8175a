package card

import (
	"errors"
	"fmt"

	"WeaponDPSSimulator/internal/property"
	"WeaponDPSSimulator/internal/weapon"
)

// ErrUnknownAttributeRange is returned when no riven range exists for an
// (attribute kind, weapon class) pair.
var ErrUnknownAttributeRange = errors.New("unknown attribute range")

// RollQuality is the buff/curse layout of a riven, which scales its ranges.
type RollQuality int

const (
	TwoBuffs RollQuality = iota
	TwoBuffsOneCurse
	ThreeBuffs
	ThreeBuffsOneCurse
)

var qualityNames = [...]string{"PP", "PPN", "PPP", "PPPN"}

func (q RollQuality) String() string {
	if q >= 0 && int(q) < len(qualityNames) {
		return qualityNames[q]
	}
	return fmt.Sprintf("quality(%d)", int(q))
}

func ParseRollQuality(s string) (RollQuality, error) {
	for i, name := range qualityNames {
		if name == s {
			return RollQuality(i), nil
		}
	}
	return 0, fmt.Errorf("%w: roll quality %q", ErrUnknownAttributeRange, s)
}

func (q RollQuality) MarshalYAML() (interface{}, error) { return q.String(), nil }

func (q *RollQuality) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseRollQuality(s)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// HasCurse reports layouts that roll one negative property.
func (q RollQuality) HasCurse() bool {
	return q == TwoBuffsOneCurse || q == ThreeBuffsOneCurse
}

var qualityScale = map[RollQuality]float64{
	TwoBuffs:           0.9925,
	TwoBuffsOneCurse:   1.24,
	ThreeBuffs:         0.75,
	ThreeBuffsOneCurse: 0.94,
}

// perClass gives the same magnitude to every gun class and a separate one
// to melee weapons.
func perClass(gun, melee float64) map[weapon.Class]float64 {
	return map[weapon.Class]float64{
		weapon.Rifle:          gun,
		weapon.Pistol:         gun,
		weapon.RocketLauncher: gun,
		weapon.Shotgun:        gun,
		weapon.Melee:          melee,
	}
}

var rivenBase = map[property.Kind]map[weapon.Class]float64{
	property.AllDamage:     perClass(165, 165),
	property.Headshot:      perClass(150, 150),
	property.AttackSpeed:   perClass(60, 0),
	property.CritChance:    perClass(150, 180),
	property.CritDamage:    perClass(120, 90),
	property.Kinetic:       perClass(120, 120),
	property.Cold:          perClass(90, 90),
	property.Electric:      perClass(90, 90),
	property.Heat:          perClass(90, 90),
	property.Toxin:         perClass(90, 90),
	property.MagazineSize:  perClass(50, 0),
	property.ReloadTime:    perClass(-50, 0),
	property.TriggerChance: perClass(90, 90),
	property.MultiStrike:   perClass(90, 0),
}

// RivenKinds lists the attributes a riven may roll, in display order.
func RivenKinds() []property.Kind {
	return []property.Kind{
		property.AllDamage, property.Headshot, property.AttackSpeed,
		property.CritChance, property.CritDamage, property.Kinetic,
		property.Cold, property.Electric, property.Heat, property.Toxin,
		property.MagazineSize, property.ReloadTime, property.TriggerChance,
		property.MultiStrike,
	}
}

// CalculateRivenPropertyRange returns the (low, high) bounds a riven of
// the given quality may roll for kind on a weapon of class. Negative base
// magnitudes yield (bound, 0), positive ones (0, bound).
func CalculateRivenPropertyRange(kind property.Kind, class weapon.Class, quality RollQuality) (float64, float64, error) {
	byClass, ok := rivenBase[kind]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownAttributeRange, kind)
	}
	base, ok := byClass[class]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s on %s", ErrUnknownAttributeRange, kind, class)
	}
	scale, ok := qualityScale[quality]
	if !ok {
		return 0, 0, fmt.Errorf("%w: roll quality %s", ErrUnknownAttributeRange, quality)
	}
	if base == 0 {
		return 0, 0, nil
	}
	bound := base * scale
	if bound < 0 {
		return bound, 0, nil
	}
	return 0, bound, nil
}
