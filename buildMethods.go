package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"

	"WeaponDPSSimulator/internal/card"
	"WeaponDPSSimulator/internal/catalog"
	"WeaponDPSSimulator/internal/config"
	"WeaponDPSSimulator/internal/dps"
	"WeaponDPSSimulator/internal/property"
	"WeaponDPSSimulator/internal/weapon"
)

const _libraryFilepath = "./library/"
const _buildDir = "builds"
const _heavyComments = true

// Build is a saved loadout: a weapon, its cards and extra set stacks.
type Build struct {
	Source    string         `yaml:"-"`
	Weapon    string         `yaml:"weapon"`
	Cards     []string       `yaml:"cards"`
	Special   string         `yaml:"special,omitempty"`
	SetCounts map[string]int `yaml:"set_counts,omitempty"`
}

func loadBuild(libraryDir, name string) (Build, error) {
	var (
		data []byte
		err  error
	)

	path := filepath.Join(libraryDir, _buildDir, name)
	if data, err = os.ReadFile(path); err != nil {
		return Build{}, err
	}
	build := Build{}
	if err = yaml.Unmarshal(data, &build); err != nil {
		return Build{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(build.Cards) > dps.RegularSlots {
		return Build{}, fmt.Errorf("%s: %d cards for %d slots", path, len(build.Cards), dps.RegularSlots)
	}
	build.Source = name
	return build, nil
}

// Request equips the build from lib against the configured target.
func (b *Build) Request(lib *catalog.Catalog, cfg config.Simulation) (*dps.Request, error) {
	w, err := lib.WeaponByName(b.Weapon)
	if err != nil {
		return nil, err
	}
	target, err := cfg.Target.Resolve()
	if err != nil {
		return nil, err
	}
	req := dps.NewRequest(w, cfg.Character.Resolve(), target)

	for i, name := range b.Cards {
		c, ok := lib.CardByName(name)
		if !ok {
			return nil, fmt.Errorf("build %s: unknown card %q", b.Source, name)
		}
		if err := req.Equip(i, c); err != nil {
			return nil, fmt.Errorf("build %s: %w", b.Source, err)
		}
	}
	if b.Special != "" {
		c, ok := lib.CardByName(b.Special)
		if !ok {
			return nil, fmt.Errorf("build %s: unknown card %q", b.Source, b.Special)
		}
		if err := req.Equip(dps.SpecialSlot, c); err != nil {
			return nil, fmt.Errorf("build %s: %w", b.Source, err)
		}
	}
	for name, n := range b.SetCounts {
		s, err := card.ParseSet(name)
		if err != nil {
			return nil, fmt.Errorf("build %s: %w", b.Source, err)
		}
		req.SetCounts[s] = n
	}
	return req, nil
}

// PrintInfo writes the build's cards and, once calculated, its resolved
// stats and results.
func PrintInfo(req *dps.Request) {
	fmt.Printf("Weapon: %s (%s / %s) | Cost: %d\n", req.Weapon.Name, req.Weapon.Class, req.Weapon.SubClass, req.TotalCost())
	for i, c := range req.Cards {
		if c == nil {
			continue
		}
		fmt.Printf("Slot %d: %s [%s] %v\n", i, c.Name, c.Variant, c.Properties)
	}
	if !_heavyComments || !req.Result.Snapshot.Resolved() {
		return
	}
	final := req.Result.Snapshot.Final()
	for _, p := range final.Properties() {
		fmt.Printf("  %-18s %10.2f\n", p.Kind, final.Get(p.Kind))
	}
	res := req.Result
	fmt.Printf("First shot: %.2f | crit %.2f | headshot %.2f | crit headshot %.2f\n",
		res.FirstShotNonCrit, res.FirstShotCrit, res.FirstShotNonCritHeadshot, res.FirstShotCritHeadshot)
	fmt.Printf("Magazine: %d shots, %d crits, %d triggers | damage %.2f | DPS %.2f | average DPS %.2f\n",
		res.Shots, res.Crits, res.Triggers, res.MagazineDamage, res.MagazineDPS, res.AverageDPS)
}

// damageKindsByShare lists the resolved damage kinds, largest first.
func damageKindsByShare(req *dps.Request) []property.DamageKind {
	arr := req.Result.Snapshot.DamageArray()
	var kinds []property.DamageKind
	for _, d := range property.DamageKinds() {
		if arr[d] != 0 {
			kinds = append(kinds, d)
		}
	}
	sort.SliceStable(kinds, func(i, j int) bool { return arr[kinds[i]] > arr[kinds[j]] })
	return kinds
}

// formatRivenRanges lists the roll bounds of every riven attribute for a
// weapon class. Attributes the class cannot roll show as zero ranges.
func formatRivenRanges(class weapon.Class, quality card.RollQuality) string {
	var b strings.Builder
	for _, k := range card.RivenKinds() {
		lo, hi, err := card.CalculateRivenPropertyRange(k, class, quality)
		if err != nil {
			fmt.Fprintf(&b, "  %-18s n/a\n", k)
			continue
		}
		fmt.Fprintf(&b, "  %-18s %8.2f .. %8.2f\n", k, lo, hi)
	}
	return b.String()
}
