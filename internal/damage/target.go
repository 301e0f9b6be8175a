package damage

import (
	"errors"
	"fmt"
	"strings"

	"WeaponDPSSimulator/internal/property"
)

var (
	ErrUnknownMaterial    = errors.New("unknown material")
	ErrUnknownSkillDebuff = errors.New("unknown skill debuff")
)

// Material is the target's surface type, selecting a resistance column.
type Material int

const (
	Void Material = iota
	Mechanical
	Biological
	Energy

	materialCount
)

var materialNames = [materialCount]string{"void", "mechanical", "biological", "energy"}

func (m Material) String() string {
	if m >= 0 && m < materialCount {
		return materialNames[m]
	}
	return fmt.Sprintf("material(%d)", int(m))
}

func ParseMaterial(s string) (Material, error) {
	for i, name := range materialNames {
		if strings.EqualFold(name, s) {
			return Material(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMaterial, s)
}

func (m Material) MarshalYAML() (interface{}, error) { return m.String(), nil }

func (m *Material) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseMaterial(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// SkillDebuff is a mark a character skill leaves on the target.
type SkillDebuff int

const (
	TractionMissile SkillDebuff = iota
	IonicSuppression
)

var skillDebuffNames = [...]string{"traction_missile", "ionic_suppression"}

func (s SkillDebuff) String() string {
	if s >= 0 && int(s) < len(skillDebuffNames) {
		return skillDebuffNames[s]
	}
	return fmt.Sprintf("skill_debuff(%d)", int(s))
}

func ParseSkillDebuff(s string) (SkillDebuff, error) {
	for i, name := range skillDebuffNames {
		if name == s {
			return SkillDebuff(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSkillDebuff, s)
}

// Target describes the enemy being shot at.
type Target struct {
	Material Material
	Armor    float64
	// HeadshotRate is the fraction of discharges landing on a weak point.
	HeadshotRate float64
	SkillDebuffs map[SkillDebuff]int
	// StatusConstants are user-forced, non-expiring status stacks.
	StatusConstants map[property.DamageKind]int
}

// Clone returns a deep copy.
func (t Target) Clone() Target {
	cp := t
	if t.SkillDebuffs != nil {
		cp.SkillDebuffs = make(map[SkillDebuff]int, len(t.SkillDebuffs))
		for k, v := range t.SkillDebuffs {
			cp.SkillDebuffs[k] = v
		}
	}
	if t.StatusConstants != nil {
		cp.StatusConstants = make(map[property.DamageKind]int, len(t.StatusConstants))
		for k, v := range t.StatusConstants {
			cp.StatusConstants[k] = v
		}
	}
	return cp
}

// Character holds the shooter's state. Only skill strength feeds the
// damage formulas; the rest gates card effects.
type Character struct {
	SkillStrength   float64
	Moving          bool
	Airborne        bool
	ComboMultiplier float64
}
