package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"WeaponDPSSimulator/internal/card"
	"WeaponDPSSimulator/internal/property"
	"WeaponDPSSimulator/internal/weapon"
)

// Library file names inside a catalog directory.
const (
	WeaponsFile  = "weapons.yaml"
	CardsFile    = "cards.yaml"
	RivensFile   = "rivens.yaml"
	SpecialsFile = "specials.yaml"
)

var ErrUnknownWeapon = errors.New("unknown weapon")

type PropertyRecord struct {
	Kind  string  `yaml:"kind"`
	Value float64 `yaml:"value"`
}

type WeaponRecord struct {
	Name       string           `yaml:"name"`
	BaseName   string           `yaml:"basename,omitempty"`
	Class      string           `yaml:"class,omitempty"`
	SubClass   string           `yaml:"subclass,omitempty"`
	Properties []PropertyRecord `yaml:"properties"`
}

type CardRecord struct {
	Name       string           `yaml:"name"`
	Properties []PropertyRecord `yaml:"properties"`
	Class      string           `yaml:"class,omitempty"`
	SubClass   string           `yaml:"subclass,omitempty"`
	Set        string           `yaml:"set,omitempty"`
	Slot       card.Slot        `yaml:"slot"`
	Cost       int              `yaml:"cost"`
	Prime      bool             `yaml:"prime,omitempty"`
}

type RivenRecord struct {
	Name       string           `yaml:"name"`
	Properties []PropertyRecord `yaml:"properties"`
	Weapon     string           `yaml:"weapon"`
	Quality    string           `yaml:"quality,omitempty"`
	Slot       card.Slot        `yaml:"slot"`
	Cost       int              `yaml:"cost"`
}

type SpecialRecord struct {
	Name   string    `yaml:"name"`
	Weapon string    `yaml:"weapon"`
	Slot   card.Slot `yaml:"slot"`
	Cost   int       `yaml:"cost"`
}

// Catalog is the read-only set of weapons and cards known to the
// simulator. An empty catalog is valid.
type Catalog struct {
	Weapons []*weapon.Weapon
	Cards   []*card.Card

	weaponsByName map[string]*weapon.Weapon
	cardsByName   map[string]*card.Card
}

// Load reads every library file in dir. Missing files yield no entries;
// entries with unknown attribute kinds or missing weapon names are skipped
// with a warning.
func Load(dir string, logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := loader{dir: dir, log: logger}

	var (
		weapons  []WeaponRecord
		cards    []CardRecord
		rivens   []RivenRecord
		specials []SpecialRecord
	)
	for _, f := range []struct {
		name string
		out  interface{}
	}{
		{WeaponsFile, &weapons},
		{CardsFile, &cards},
		{RivensFile, &rivens},
		{SpecialsFile, &specials},
	} {
		if err := l.read(f.name, f.out); err != nil {
			return nil, err
		}
	}

	c := &Catalog{}
	for _, rec := range weapons {
		if w := l.weapon(rec); w != nil {
			c.Weapons = append(c.Weapons, w)
		}
	}
	for _, rec := range cards {
		c.Cards = append(c.Cards, l.common(rec))
	}
	for _, rec := range rivens {
		if r := l.riven(rec); r != nil {
			c.Cards = append(c.Cards, r)
		}
	}
	for _, rec := range specials {
		if rec.Weapon == "" {
			logger.Warn("special card has no weapon name, skipped", zap.String("card", rec.Name))
			continue
		}
		c.Cards = append(c.Cards, card.NewSpecial(rec.Name, rec.Weapon, rec.Slot, rec.Cost))
	}
	c.index()

	logger.Info("loaded catalog",
		zap.String("dir", dir),
		zap.Int("weapons", len(c.Weapons)),
		zap.Int("cards", len(c.Cards)),
	)
	return c, nil
}

func (c *Catalog) index() {
	c.weaponsByName = make(map[string]*weapon.Weapon, len(c.Weapons))
	for _, w := range c.Weapons {
		c.weaponsByName[w.Name] = w
	}
	c.cardsByName = make(map[string]*card.Card, len(c.Cards))
	for _, cd := range c.Cards {
		c.cardsByName[cd.Name] = cd
	}
}

// WeaponByName returns the weapon called name.
func (c *Catalog) WeaponByName(name string) (*weapon.Weapon, error) {
	if w, ok := c.weaponsByName[name]; ok {
		return w, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownWeapon, name)
}

// CardByName returns a copy of the card called name.
func (c *Catalog) CardByName(name string) (*card.Card, bool) {
	cd, ok := c.cardsByName[name]
	if !ok {
		return nil, false
	}
	return cd.Clone(), true
}

// CompatibleCards lists copies of every card that can go on w, sorted by
// name.
func (c *Catalog) CompatibleCards(w *weapon.Weapon) []*card.Card {
	var out []*card.Card
	for _, cd := range c.Cards {
		if card.Compatible(cd, w) {
			out = append(out, cd.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type loader struct {
	dir string
	log *zap.Logger
}

func (l loader) read(name string, out interface{}) error {
	path := filepath.Join(l.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.log.Warn("library file missing", zap.String("path", path))
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// properties converts records, dropping kinds that do not parse.
func (l loader) properties(owner string, recs []PropertyRecord, asCard bool) []property.Property {
	out := make([]property.Property, 0, len(recs))
	for _, r := range recs {
		k, err := property.ParseKind(r.Kind)
		if err != nil {
			l.log.Warn("unknown attribute kind, skipped", zap.String("owner", owner), zap.String("kind", r.Kind))
			continue
		}
		if asCard {
			out = append(out, property.NewCard(k, r.Value))
		} else {
			out = append(out, property.NewBase(k, r.Value))
		}
	}
	return out
}

func (l loader) classes(owner, class, sub string) (weapon.Class, weapon.SubClass) {
	c, err := weapon.ParseClass(class)
	if err != nil {
		l.log.Warn("unknown weapon class, using All", zap.String("owner", owner), zap.Error(err))
		c = weapon.ClassAll
	}
	s, err := weapon.ParseSubClass(sub)
	if err != nil {
		l.log.Warn("unknown weapon sub-class, using All", zap.String("owner", owner), zap.Error(err))
		s = weapon.SubClassAll
	}
	if c != weapon.ClassAll && s != weapon.SubClassAll && !belongsTo(s, c) {
		l.log.Warn("sub-class does not belong to class, using All",
			zap.String("owner", owner), zap.Stringer("class", c), zap.Stringer("subclass", s))
		s = weapon.SubClassAll
	}
	return c, s
}

func belongsTo(s weapon.SubClass, c weapon.Class) bool {
	for _, sc := range weapon.SubClassesOf(c) {
		if sc == s {
			return true
		}
	}
	return false
}

func (l loader) weapon(rec WeaponRecord) *weapon.Weapon {
	class, sub := l.classes(rec.Name, rec.Class, rec.SubClass)
	w, err := weapon.New(rec.Name, rec.BaseName, class, sub, l.properties(rec.Name, rec.Properties, false))
	if err != nil {
		l.log.Warn("invalid weapon, skipped", zap.String("weapon", rec.Name), zap.Error(err))
		return nil
	}
	return w
}

func (l loader) common(rec CardRecord) *card.Card {
	class, sub := l.classes(rec.Name, rec.Class, rec.SubClass)
	set := card.SetUnset
	if rec.Set != "" {
		s, err := card.ParseSet(rec.Set)
		if err != nil {
			l.log.Warn("unknown card set, using Unset", zap.String("card", rec.Name), zap.Error(err))
		} else {
			set = s
		}
	}
	return card.NewCommon(rec.Name, l.properties(rec.Name, rec.Properties, true), class, sub, set, rec.Slot, rec.Cost, rec.Prime)
}

func (l loader) riven(rec RivenRecord) *card.Card {
	if rec.Weapon == "" {
		l.log.Warn("riven card has no weapon name, skipped", zap.String("card", rec.Name))
		return nil
	}
	quality := card.TwoBuffs
	if rec.Quality != "" {
		q, err := card.ParseRollQuality(rec.Quality)
		if err != nil {
			l.log.Warn("unknown roll quality", zap.String("card", rec.Name), zap.Error(err))
		} else {
			quality = q
		}
	}
	return card.NewRiven(rec.Name, l.properties(rec.Name, rec.Properties, true), rec.Weapon, quality, rec.Slot, rec.Cost)
}

// WeaponClass returns the class of the weapons sharing baseName.
func (c *Catalog) WeaponClass(baseName string) (weapon.Class, error) {
	for _, w := range c.Weapons {
		if w.BaseName == baseName {
			return w.Class, nil
		}
	}
	return 0, fmt.Errorf("%w: base name %q", ErrUnknownWeapon, baseName)
}

// ParseWeapon decodes a single weapon record.
func ParseWeapon(data []byte, logger *zap.Logger) (*weapon.Weapon, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var rec WeaponRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	class, sub := loader{log: logger}.classes(rec.Name, rec.Class, rec.SubClass)
	return weapon.New(rec.Name, rec.BaseName, class, sub, loader{log: logger}.properties(rec.Name, rec.Properties, false))
}

// ParseRiven decodes a single riven record.
func ParseRiven(data []byte, logger *zap.Logger) (*card.Card, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var rec RivenRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Weapon == "" {
		return nil, fmt.Errorf("card %q: %w", rec.Name, card.ErrMissingWeaponName)
	}
	return loader{log: logger}.riven(rec), nil
}
