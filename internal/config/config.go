package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"WeaponDPSSimulator/internal/damage"
	"WeaponDPSSimulator/internal/property"
)

var ErrInvalidMetric = errors.New("invalid comparison metric")

// Metric selects the number card rankings compare.
type Metric int

const (
	ExpectedShot Metric = iota
	MagazineDamage
	MagazineDPS
	AverageDPS
)

var metricNames = [...]string{"expected_shot", "magazine_damage", "magazine_dps", "average_dps"}

func (m Metric) String() string {
	if m >= 0 && int(m) < len(metricNames) {
		return metricNames[m]
	}
	return fmt.Sprintf("metric(%d)", int(m))
}

func ParseMetric(s string) (Metric, error) {
	for i, name := range metricNames {
		if name == s {
			return Metric(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMetric, s)
}

func (m Metric) MarshalYAML() (interface{}, error) { return m.String(), nil }

func (m *Metric) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseMetric(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Simulation holds everything a calculation needs besides the build.
type Simulation struct {
	Target    Target    `yaml:"target"`
	Character Character `yaml:"character"`

	// Seed feeds the elemental pick of status triggers.
	Seed   uint64 `yaml:"seed"`
	Metric Metric `yaml:"metric"`

	// Fraction of elemental damage each ghost set stack converts to kinetic.
	GhostConversionPerStack float64 `yaml:"ghost_conversion_per_stack"`

	RankWorkers int `yaml:"rank_workers"`
	SweepRuns   int `yaml:"sweep_runs"`
}

// Target is the YAML form of damage.Target.
type Target struct {
	Material        damage.Material `yaml:"material"`
	Armor           float64         `yaml:"armor"`
	HeadshotRate    float64         `yaml:"headshot_rate"` // 0..1
	SkillDebuffs    map[string]int  `yaml:"skill_debuffs"`
	StatusConstants map[string]int  `yaml:"status_constants"`
}

// Character is the YAML form of damage.Character.
type Character struct {
	SkillStrength   float64 `yaml:"skill_strength"` // percent
	Moving          bool    `yaml:"moving"`
	Airborne        bool    `yaml:"airborne"`
	ComboMultiplier float64 `yaml:"combo_multiplier"`
}

// Default returns a Simulation against an unarmored void target.
func Default() Simulation {
	return Simulation{
		Target: Target{
			Material: damage.Void,
		},
		Character: Character{
			SkillStrength:   100,
			ComboMultiplier: 1,
		},
		Seed:                    1,
		Metric:                  AverageDPS,
		GhostConversionPerStack: 0.25,
		RankWorkers:             4,
		SweepRuns:               100,
	}
}

// Load reads a Simulation from a YAML file over the defaults.
// A missing file yields the defaults.
func Load(path string) (Simulation, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if _, err := cfg.Target.Resolve(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve converts the YAML target into engine form.
func (t Target) Resolve() (damage.Target, error) {
	out := damage.Target{
		Material:     t.Material,
		Armor:        t.Armor,
		HeadshotRate: t.HeadshotRate,
	}
	if len(t.SkillDebuffs) > 0 {
		out.SkillDebuffs = make(map[damage.SkillDebuff]int, len(t.SkillDebuffs))
		for name, n := range t.SkillDebuffs {
			d, err := damage.ParseSkillDebuff(name)
			if err != nil {
				return damage.Target{}, err
			}
			out.SkillDebuffs[d] = n
		}
	}
	if len(t.StatusConstants) > 0 {
		out.StatusConstants = make(map[property.DamageKind]int, len(t.StatusConstants))
		for name, n := range t.StatusConstants {
			k, err := property.ParseKind(name)
			if err != nil {
				return damage.Target{}, err
			}
			d, ok := k.DamageKind()
			if !ok {
				return damage.Target{}, fmt.Errorf("%w: %s is not a damage kind", property.ErrUnknownKind, name)
			}
			out.StatusConstants[d] = n
		}
	}
	return out, nil
}

// Resolve converts the YAML character into engine form.
func (c Character) Resolve() damage.Character {
	combo := c.ComboMultiplier
	if combo == 0 {
		combo = 1
	}
	return damage.Character{
		SkillStrength:   c.SkillStrength,
		Moving:          c.Moving,
		Airborne:        c.Airborne,
		ComboMultiplier: combo,
	}
}
