package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"WeaponDPSSimulator/internal/card"
	"WeaponDPSSimulator/internal/property"
	"WeaponDPSSimulator/internal/weapon"
)

func records(props []property.Property, asCard bool) []PropertyRecord {
	out := make([]PropertyRecord, 0, len(props))
	for _, p := range props {
		v := p.Base
		if asCard {
			v = p.Addon
		}
		out = append(out, PropertyRecord{Kind: p.Kind.String(), Value: v})
	}
	return out
}

// NewWeaponRecord is the library form of w's intrinsic stats.
func NewWeaponRecord(w *weapon.Weapon) WeaponRecord {
	snap := w.BaseSnapshot()
	base := snap.Base()
	return WeaponRecord{
		Name:       w.Name,
		BaseName:   w.BaseName,
		Class:      w.Class.String(),
		SubClass:   w.SubClass.String(),
		Properties: records(base.Properties(), false),
	}
}

// NewRivenRecord is the library form of a riven card.
func NewRivenRecord(c *card.Card) (RivenRecord, error) {
	if c.Variant != card.Riven {
		return RivenRecord{}, fmt.Errorf("%w: %s is %s", card.ErrUnexpectedVariant, c.Name, c.Variant)
	}
	return RivenRecord{
		Name:       c.Name,
		Properties: records(c.Properties, true),
		Weapon:     c.WeaponName,
		Quality:    c.Quality.String(),
		Slot:       c.Slot,
		Cost:       c.Cost,
	}, nil
}

// SaveWeapon appends w to the weapons file in dir.
func SaveWeapon(dir string, w *weapon.Weapon) error {
	var recs []WeaponRecord
	path := filepath.Join(dir, WeaponsFile)
	if err := readList(path, &recs); err != nil {
		return err
	}
	recs = append(recs, NewWeaponRecord(w))
	return writeList(path, recs)
}

// SaveRiven appends c to the rivens file in dir.
func SaveRiven(dir string, c *card.Card) error {
	rec, err := NewRivenRecord(c)
	if err != nil {
		return err
	}
	var recs []RivenRecord
	path := filepath.Join(dir, RivensFile)
	if err := readList(path, &recs); err != nil {
		return err
	}
	recs = append(recs, rec)
	return writeList(path, recs)
}

// DeleteRiven removes every riven called name bound to weaponName and
// reports how many were removed.
func DeleteRiven(dir, name, weaponName string) (int, error) {
	var recs []RivenRecord
	path := filepath.Join(dir, RivensFile)
	if err := readList(path, &recs); err != nil {
		return 0, err
	}
	kept := recs[:0]
	for _, r := range recs {
		if r.Name != name || r.Weapon != weaponName {
			kept = append(kept, r)
		}
	}
	removed := len(recs) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, writeList(path, kept)
}

func readList(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func writeList(path string, in interface{}) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
