package main

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v2"
)

func writeJSON(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestConvertLibrary(t *testing.T) {
	data := t.TempDir()
	out := t.TempDir()
	writeJSON(t, data, "weapons.json", `[{"name":"Falcon Prime","basename":"Falcon","weaponType":"Rifle","subWeaponType":"AssaultRifle",
		"properties":[{"type":"Physics","value":100},{"type":"CriticalChance","value":25},{"type":"Glitter","value":1}]}]`)
	writeJSON(t, data, "cards.json", `[{"name":"Serration","properties":[{"type":"Physics","value":165}],
		"mainWeapon":"All","subWeapon":"All","cardSet":"Unset","slot":0,"cost":14},
		{"name":"Ghost Barrel","properties":[],"mainWeapon":"Rifle","subWeapon":"All","cardSet":"Ghost","slot":4,"cost":7}]`)
	writeJSON(t, data, "rivens.json", `[{"name":"Falcon Riven","properties":[{"type":"Fire","value":80}],"slot":2,"cost":12,"weaponName":"Falcon"},
		{"name":"Lost Riven","properties":[],"slot":2,"cost":12}]`)

	s, err := convertLibrary(data, out)
	if err != nil {
		t.Fatal(err)
	}
	if s.weapons != 1 || s.cards != 2 || s.rivens != 1 || s.specials != 0 {
		t.Errorf("summary = %+v", s)
	}
	if s.skipped != 2 {
		t.Errorf("skipped = %d; want 2", s.skipped)
	}

	raw, err := os.ReadFile(filepath.Join(out, "cards.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var cards []CardData
	if err := yaml.Unmarshal(raw, &cards); err != nil {
		t.Fatal(err)
	}
	if cards[0].Properties[0].Kind != "kinetic" || cards[0].Class != "" || cards[0].Slot != "jia" {
		t.Errorf("serration = %+v", cards[0])
	}
	if cards[1].Set != "Ghost" || cards[1].Class != "Rifle" || cards[1].Slot != "wu" {
		t.Errorf("ghost barrel = %+v", cards[1])
	}

	raw, err = os.ReadFile(filepath.Join(out, "weapons.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var weapons []WeaponData
	if err := yaml.Unmarshal(raw, &weapons); err != nil {
		t.Fatal(err)
	}
	if len(weapons[0].Properties) != 2 || weapons[0].SubClass != "AssaultRifle" {
		t.Errorf("weapon = %+v", weapons[0])
	}
}

func TestCombineCardFiles(t *testing.T) {
	dir := t.TempDir()
	if err := writeYAML([]CardData{{Name: "B", Cost: 1}, {Name: "A", Cost: 2}}, filepath.Join(dir, "one.yaml")); err != nil {
		t.Fatal(err)
	}
	if err := writeYAML([]CardData{{Name: "A", Cost: 9}}, filepath.Join(dir, "two.yaml")); err != nil {
		t.Fatal(err)
	}
	if err := combineCardFiles(dir, "one.yaml", "two.yaml", "all.yaml"); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "all.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var cards []CardData
	if err := yaml.Unmarshal(raw, &cards); err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 || cards[0].Name != "A" || cards[0].Cost != 9 {
		t.Errorf("combined = %+v", cards)
	}
}

func TestSlotName(t *testing.T) {
	if got := slotName(3); got != "ding" {
		t.Errorf("slotName(3) = %q", got)
	}
	if got := slotName(42); got != "jia" {
		t.Errorf("slotName(42) = %q", got)
	}
}
