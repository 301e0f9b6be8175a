package property

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned when a catalog string names no attribute kind.
var ErrUnknownKind = errors.New("unknown attribute kind")

// Kind identifies one numeric weapon attribute.
// The first DamageKindCount values are damage kinds and share their
// ordinal with DamageKind.
type Kind int

const (
	Kinetic Kind = iota
	Cold
	Electric
	Heat
	Toxin
	Crackling
	Radiation
	Gas
	Magnetic
	Ether
	Virus
	CritChance
	CritDamage
	TriggerChance
	AttackSpeed
	MultiStrike
	Headshot
	DebuffDuration
	MagazineSize
	ReloadTime
	PenetrationRate
	PenetrationValue
	AllDamage
	RecoilHorizontal
	RecoilVertical
	CrosshairBloom
	AimAssistRange
	CritChanceInAir
	ColdInAir
	ElectricInAir
	HeatInAir
	ToxinInAir

	KindCount
)

// DamageKindCount is the number of damage kinds (kinetic, 4 basic, 6 compound).
const DamageKindCount = 11

var kindNames = [KindCount]string{
	"kinetic", "cold", "electric", "heat", "toxin",
	"crackling", "radiation", "gas", "magnetic", "ether", "virus",
	"crit_chance", "crit_damage", "trigger_chance", "attack_speed",
	"multi_strike", "headshot", "debuff_duration", "magazine_size",
	"reload_time", "penetration_rate", "penetration_value", "all_damage",
	"recoil_horizontal", "recoil_vertical", "crosshair_bloom",
	"aim_assist_range", "crit_chance_in_air", "cold_in_air",
	"electric_in_air", "heat_in_air", "toxin_in_air",
}

// Names used by the desktop application's JSON data files.
var legacyKindNames = map[string]Kind{
	"Physics":             Kinetic,
	"Cold":                Cold,
	"Electric":            Electric,
	"Fire":                Heat,
	"Poison":              Toxin,
	"Cracking":            Crackling,
	"Radiation":           Radiation,
	"Gas":                 Gas,
	"Magnetic":            Magnetic,
	"Ether":               Ether,
	"Virus":               Virus,
	"CriticalChance":      CritChance,
	"CriticalDamage":      CritDamage,
	"TriggerChance":       TriggerChance,
	"AttackSpeed":         AttackSpeed,
	"MultiStrike":         MultiStrike,
	"Headshot":            Headshot,
	"DebuffDuration":      DebuffDuration,
	"MagazineSize":        MagazineSize,
	"ReloadTime":          ReloadTime,
	"PenetrationRate":     PenetrationRate,
	"PenetrationValue":    PenetrationValue,
	"AllDamage":           AllDamage,
	"RecoilHorizontal":    RecoilHorizontal,
	"RecoilVertical":      RecoilVertical,
	"CrosshairBloom":      CrosshairBloom,
	"AimAssistRange":      AimAssistRange,
	"CriticalChanceInAir": CritChanceInAir,
	"ColdInAir":           ColdInAir,
	"ElectricInAir":       ElectricInAir,
	"FireInAir":           HeatInAir,
	"PoisonInAir":         ToxinInAir,
}

func (k Kind) String() string {
	if k < 0 || k >= KindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts either the snake_case name or the legacy data name.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(i), nil
		}
	}
	if k, ok := legacyKindNames[s]; ok {
		return k, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// MarshalYAML / UnmarshalYAML let kinds appear by name in library files.
func (k Kind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// IsDamage reports kinetic and all elemental kinds.
func (k Kind) IsDamage() bool { return k >= Kinetic && k <= Virus }

// IsElemental reports basic and compound elemental kinds (not kinetic).
func (k Kind) IsElemental() bool { return k >= Cold && k <= Virus }

// IsBasicElemental reports cold, electric, heat and toxin.
func (k Kind) IsBasicElemental() bool { return k >= Cold && k <= Toxin }

// IsCompound reports the six kinds built from two basic elements.
func (k Kind) IsCompound() bool { return k >= Crackling && k <= Virus }

// IsAirborne reports attributes that only apply while airborne.
func (k Kind) IsAirborne() bool { return k >= CritChanceInAir && k <= ToxinInAir }

// Grounded maps an airborne-only kind to the kind it augments.
// Other kinds map to themselves.
func (k Kind) Grounded() Kind {
	switch k {
	case CritChanceInAir:
		return CritChance
	case ColdInAir:
		return Cold
	case ElectricInAir:
		return Electric
	case HeatInAir:
		return Heat
	case ToxinInAir:
		return Toxin
	}
	return k
}

// DamageKind returns the damage kind sharing k's ordinal.
func (k Kind) DamageKind() (DamageKind, bool) {
	if !k.IsDamage() {
		return 0, false
	}
	return DamageKind(k), true
}

// DamageKind is the subset of kinds that deal damage.
type DamageKind int

const (
	DamageKinetic DamageKind = iota
	DamageCold
	DamageElectric
	DamageHeat
	DamageToxin
	DamageCrackling
	DamageRadiation
	DamageGas
	DamageMagnetic
	DamageEther
	DamageVirus
)

func (d DamageKind) Kind() Kind { return Kind(d) }

func (d DamageKind) String() string { return Kind(d).String() }

// DamageKinds lists all damage kinds in ordinal order.
func DamageKinds() []DamageKind {
	kinds := make([]DamageKind, DamageKindCount)
	for i := range kinds {
		kinds[i] = DamageKind(i)
	}
	return kinds
}
