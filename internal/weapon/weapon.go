package weapon

import (
	"errors"
	"fmt"

	"WeaponDPSSimulator/internal/property"
)

// ErrUnknownClass is returned for an unrecognized class or sub-class name.
var ErrUnknownClass = errors.New("unknown weapon class")

// Class is the broad weapon family cards are restricted to.
type Class int

const (
	ClassAll Class = iota
	Rifle
	Shotgun
	RocketLauncher
	Melee
	Pistol
)

var classNames = map[Class]string{
	ClassAll:       "All",
	Rifle:          "Rifle",
	Shotgun:        "Shotgun",
	RocketLauncher: "RocketLauncher",
	Melee:          "Melee",
	Pistol:         "Pistol",
}

func (c Class) String() string {
	if s, ok := classNames[c]; ok {
		return s
	}
	return fmt.Sprintf("class(%d)", int(c))
}

func ParseClass(s string) (Class, error) {
	if s == "" {
		return ClassAll, nil
	}
	for c, name := range classNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownClass, s)
}

func (c Class) MarshalYAML() (interface{}, error) { return c.String(), nil }

func (c *Class) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseClass(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// SubClass refines Class.
type SubClass int

const (
	SubClassAll SubClass = iota
	AssaultRifle
	SniperRifle
	MachineGun
	LaserGun
	ShotgunSub
	RocketLauncherSub
	Bow
	Katana
	AutoPistol
	MicroSubmachineGun
)

var subClassNames = map[SubClass]string{
	SubClassAll:        "All",
	AssaultRifle:       "AssaultRifle",
	SniperRifle:        "SniperRifle",
	MachineGun:         "MachineGun",
	LaserGun:           "LaserGun",
	ShotgunSub:         "Shotgun",
	RocketLauncherSub:  "RocketLauncher",
	Bow:                "Bow",
	Katana:             "Kitana",
	AutoPistol:         "AutoPistol",
	MicroSubmachineGun: "MicroSubmachineGun",
}

var subClassesOf = map[Class][]SubClass{
	Rifle:          {AssaultRifle, SniperRifle, MachineGun, LaserGun},
	Shotgun:        {ShotgunSub},
	RocketLauncher: {RocketLauncherSub, Bow},
	Melee:          {Katana},
	Pistol:         {AutoPistol, MicroSubmachineGun},
}

func (s SubClass) String() string {
	if name, ok := subClassNames[s]; ok {
		return name
	}
	return fmt.Sprintf("subclass(%d)", int(s))
}

func ParseSubClass(s string) (SubClass, error) {
	if s == "" {
		return SubClassAll, nil
	}
	for sc, name := range subClassNames {
		if name == s {
			return sc, nil
		}
	}
	return 0, fmt.Errorf("%w: sub-class %q", ErrUnknownClass, s)
}

func (s SubClass) MarshalYAML() (interface{}, error) { return s.String(), nil }

func (s *SubClass) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	parsed, err := ParseSubClass(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// SubClassesOf lists the sub-classes belonging to c.
func SubClassesOf(c Class) []SubClass {
	return append([]SubClass(nil), subClassesOf[c]...)
}

// Weapon is an immutable weapon definition.
type Weapon struct {
	Name     string
	BaseName string
	Class    Class
	SubClass SubClass
	snapshot property.Snapshot
}

// New builds a weapon from its intrinsic stats.
func New(name, baseName string, class Class, sub SubClass, props []property.Property) (*Weapon, error) {
	snap, err := property.NewSnapshot(props)
	if err != nil {
		return nil, fmt.Errorf("weapon %q: %w", name, err)
	}
	if baseName == "" {
		baseName = name
	}
	return &Weapon{
		Name:     name,
		BaseName: baseName,
		Class:    class,
		SubClass: sub,
		snapshot: snap,
	}, nil
}

// BaseSnapshot returns a private copy of the weapon's base snapshot.
// Callers may resolve it freely.
func (w *Weapon) BaseSnapshot() property.Snapshot {
	return w.snapshot.Clone()
}
