package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeaponDPSSimulator/internal/card"
	"WeaponDPSSimulator/internal/catalog"
	"WeaponDPSSimulator/internal/config"
	"WeaponDPSSimulator/internal/dps"
	"WeaponDPSSimulator/internal/weapon"
)

func loadLibrary(t *testing.T) *catalog.Catalog {
	t.Helper()
	lib, err := catalog.Load(_libraryFilepath, nil)
	require.NoError(t, err)
	return lib
}

func TestLoadBuild(t *testing.T) {
	b, err := loadBuild(_libraryFilepath, "falcon_prime.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Falcon Prime", b.Weapon)
	assert.Len(t, b.Cards, 6)
	assert.Equal(t, "falcon_prime.yaml", b.Source)

	_, err = loadBuild(_libraryFilepath, "missing.yaml")
	assert.Error(t, err)
}

func TestBuild_Request(t *testing.T) {
	lib := loadLibrary(t)
	b, err := loadBuild(_libraryFilepath, "falcon_prime.yaml")
	require.NoError(t, err)

	req, err := b.Request(lib, config.Default())
	require.NoError(t, err)
	assert.True(t, req.Equipped("Serration"))
	assert.Equal(t, "Falcon Overdrive", req.Cards[dps.SpecialSlot].Name)
	assert.Equal(t, 1, req.SetCounts[card.SetInvasion])

	calc := dps.NewCalculator(config.Default(), nil)
	require.NoError(t, calc.Calculate(req))
	assert.Greater(t, req.Result.MagazineDamage, 0.0)
	assert.Greater(t, req.Result.FirstShotCrit, req.Result.FirstShotNonCrit)
	assert.NotEmpty(t, damageKindsByShare(req))
	PrintInfo(req)
}

func TestBuild_RequestUnknownCard(t *testing.T) {
	lib := loadLibrary(t)
	b := Build{Source: "inline", Weapon: "Falcon Prime", Cards: []string{"No Such Card"}}
	_, err := b.Request(lib, config.Default())
	assert.Error(t, err)

	b = Build{Source: "inline", Weapon: "Falcon Prime", Cards: []string{"Point Blank"}}
	_, err = b.Request(lib, config.Default())
	assert.ErrorIs(t, err, dps.ErrIncompatible)
}

func TestDamageSim(t *testing.T) {
	lib := loadLibrary(t)
	b, err := loadBuild(_libraryFilepath, "osprey_toxin.yaml")
	require.NoError(t, err)
	req, err := b.Request(lib, config.Default())
	require.NoError(t, err)

	calc := dps.NewCalculator(config.Default(), nil)
	x68, x95, err := damageSim(calc, req, 20)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, x68, x95)
	assert.Greater(t, x95, 0.0)
	assert.Nil(t, req.Cards[4], "the sweep works on clones")
}

func TestPercentileFloor(t *testing.T) {
	var samples []float64
	for i := 100; i >= 1; i-- {
		samples = append(samples, float64(i))
	}
	assert.Equal(t, 33.0, percentileFloor(samples, 0.68))
	assert.Equal(t, 6.0, percentileFloor(samples, 0.95))
	assert.Equal(t, 0.0, percentileFloor(nil, 0.5))
}

func TestFormatRankings(t *testing.T) {
	lib := loadLibrary(t)
	b, err := loadBuild(_libraryFilepath, "falcon_prime.yaml")
	require.NoError(t, err)
	req, err := b.Request(lib, config.Default())
	require.NoError(t, err)

	calc := dps.NewCalculator(config.Default(), nil)
	rankings, err := calc.Rank(t.Context(), req, lib.CompatibleCards(req.Weapon))
	require.NoError(t, err)
	require.NotEmpty(t, rankings)

	out := formatRankings(rankings, 3)
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.NotContains(t, out, "Serration", "equipped cards are not ranked")
}

func TestFormatRivenRanges(t *testing.T) {
	out := formatRivenRanges(weapon.Rifle, card.TwoBuffsOneCurse)
	assert.Equal(t, len(card.RivenKinds()), strings.Count(out, "\n"))
	assert.Contains(t, out, "reload_time")
	assert.Contains(t, out, "-62.00 ..     0.00")

	melee := formatRivenRanges(weapon.Melee, card.TwoBuffsOneCurse)
	assert.Contains(t, melee, "attack_speed")
	assert.Contains(t, melee, "0.00 ..     0.00")
}

func TestEditLibrary(t *testing.T) {
	libraryDir := t.TempDir()
	inputs := t.TempDir()
	weaponFile := filepath.Join(inputs, "osprey.yaml")
	rivenFile := filepath.Join(inputs, "riven.yaml")
	require.NoError(t, os.WriteFile(weaponFile, []byte(
		"name: Osprey\nclass: Shotgun\nsubclass: Shotgun\nproperties:\n  - {kind: kinetic, value: 300}\n"), 0644))
	require.NoError(t, os.WriteFile(rivenFile, []byte(
		"name: Osprey Riven\nweapon: Osprey\nquality: PP\nslot: bing\ncost: 9\nproperties:\n  - {kind: multi_strike, value: 50}\n"), 0644))

	lib, err := catalog.Load(libraryDir, nil)
	require.NoError(t, err)
	require.NoError(t, editLibrary(lib, libraryDir, libraryEdit{importWeapon: weaponFile, importRiven: rivenFile}))

	lib, err = catalog.Load(libraryDir, nil)
	require.NoError(t, err)
	_, err = lib.WeaponByName("Osprey")
	require.NoError(t, err)
	_, ok := lib.CardByName("Osprey Riven")
	require.True(t, ok)

	assert.Error(t, editLibrary(lib, libraryDir, libraryEdit{importWeapon: weaponFile}), "duplicate weapon")
	assert.Error(t, editLibrary(lib, libraryDir, libraryEdit{deleteRiven: "Osprey Riven"}), "weapon name required")

	require.NoError(t, editLibrary(lib, libraryDir, libraryEdit{deleteRiven: "Osprey Riven", rivenWeapon: "Osprey"}))
	lib, err = catalog.Load(libraryDir, nil)
	require.NoError(t, err)
	_, ok = lib.CardByName("Osprey Riven")
	assert.False(t, ok)
}
