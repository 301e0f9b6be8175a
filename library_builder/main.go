package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v2"
)

// Source structures following the desktop application's JSON data files
type jsonProperty struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

type jsonWeapon struct {
	Name          string         `json:"name"`
	BaseName      string         `json:"basename"`
	WeaponType    string         `json:"weaponType"`
	SubWeaponType string         `json:"subWeaponType"`
	Properties    []jsonProperty `json:"properties"`
}

type jsonCard struct {
	Name       string         `json:"name"`
	Properties []jsonProperty `json:"properties"`
	MainWeapon string         `json:"mainWeapon"`
	SubWeapon  string         `json:"subWeapon"`
	CardSet    string         `json:"cardSet"`
	Slot       int            `json:"slot"`
	Cost       int            `json:"cost"`
	IsPrime    bool           `json:"isPrime"`
	WeaponName string         `json:"weaponName"`
}

// Our output structures
type PropertyData struct {
	Kind  string  `yaml:"kind"`
	Value float64 `yaml:"value"`
}

type WeaponData struct {
	Name       string         `yaml:"name"`
	BaseName   string         `yaml:"basename,omitempty"`
	Class      string         `yaml:"class,omitempty"`
	SubClass   string         `yaml:"subclass,omitempty"`
	Properties []PropertyData `yaml:"properties"`
}

type CardData struct {
	Name       string         `yaml:"name"`
	Properties []PropertyData `yaml:"properties,omitempty"`
	Class      string         `yaml:"class,omitempty"`
	SubClass   string         `yaml:"subclass,omitempty"`
	Set        string         `yaml:"set,omitempty"`
	Weapon     string         `yaml:"weapon,omitempty"`
	Slot       string         `yaml:"slot"`
	Cost       int            `yaml:"cost"`
	Prime      bool           `yaml:"prime,omitempty"`
}

var kindNames = map[string]string{
	"Physics":             "kinetic",
	"Cold":                "cold",
	"Electric":            "electric",
	"Fire":                "heat",
	"Poison":              "toxin",
	"Cracking":            "crackling",
	"Radiation":           "radiation",
	"Gas":                 "gas",
	"Magnetic":            "magnetic",
	"Ether":               "ether",
	"Virus":               "virus",
	"CriticalChance":      "crit_chance",
	"CriticalDamage":      "crit_damage",
	"TriggerChance":       "trigger_chance",
	"AttackSpeed":         "attack_speed",
	"MultiStrike":         "multi_strike",
	"Headshot":            "headshot",
	"DebuffDuration":      "debuff_duration",
	"MagazineSize":        "magazine_size",
	"ReloadTime":          "reload_time",
	"PenetrationRate":     "penetration_rate",
	"PenetrationValue":    "penetration_value",
	"AllDamage":           "all_damage",
	"RecoilHorizontal":    "recoil_horizontal",
	"RecoilVertical":      "recoil_vertical",
	"CrosshairBloom":      "crosshair_bloom",
	"AimAssistRange":      "aim_assist_range",
	"CriticalChanceInAir": "crit_chance_in_air",
	"ColdInAir":           "cold_in_air",
	"ElectricInAir":       "electric_in_air",
	"FireInAir":           "heat_in_air",
	"PoisonInAir":         "toxin_in_air",
}

var slotNames = []string{"jia", "yi", "bing", "ding", "wu", "ji"}

func main() {
	dataDir := flag.String("data", "data", "Directory holding weapons.json, cards.json, rivens.json and specials.json")
	outDir := flag.String("out", "library", "Directory the YAML library is written to")
	combineMode := flag.Bool("combine", false, "Combine two card libraries: input1.yaml input2.yaml output.yaml")
	showHelp := flag.Bool("help", false, "Show usage information")
	flag.Parse()

	if *showHelp {
		fmt.Println("Library Builder - JSON data to YAML library converter")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  Convert the JSON data directory:")
		fmt.Println("    go run main.go --data data --out ../library")
		fmt.Println()
		fmt.Println("  Combine two existing card libraries:")
		fmt.Println("    go run main.go --combine cards.yaml event_cards.yaml cards.yaml")
		fmt.Println()
		return
	}

	if *combineMode {
		args := flag.Args()
		if len(args) != 3 {
			log.Fatalf("Combine mode requires exactly 3 arguments: input1.yaml input2.yaml output.yaml")
		}
		if err := combineCardFiles(*outDir, args[0], args[1], args[2]); err != nil {
			log.Fatalf("Error combining card libraries: %v", err)
		}
		return
	}

	summary, err := convertLibrary(*dataDir, *outDir)
	if err != nil {
		log.Fatalf("Error converting library: %v", err)
	}

	fmt.Printf("Library written to: %s\n", *outDir)
	fmt.Printf("\nLibrary Summary:\n")
	fmt.Printf("  Weapons: %d\n", summary.weapons)
	fmt.Printf("  Cards: %d\n", summary.cards)
	fmt.Printf("  Rivens: %d\n", summary.rivens)
	fmt.Printf("  Specials: %d\n", summary.specials)
	fmt.Printf("  Skipped: %d\n", summary.skipped)
}

type librarySummary struct {
	weapons, cards, rivens, specials, skipped int
}

func convertLibrary(dataDir, outDir string) (librarySummary, error) {
	var s librarySummary

	var weapons []jsonWeapon
	if err := readJSON(filepath.Join(dataDir, "weapons.json"), &weapons); err != nil {
		return s, err
	}
	var outWeapons []WeaponData
	for _, w := range weapons {
		outWeapons = append(outWeapons, WeaponData{
			Name:       w.Name,
			BaseName:   w.BaseName,
			Class:      w.WeaponType,
			SubClass:   w.SubWeaponType,
			Properties: convertProperties(w.Name, w.Properties, &s),
		})
	}
	s.weapons = len(outWeapons)

	cards, err := convertCards(filepath.Join(dataDir, "cards.json"), false, &s)
	if err != nil {
		return s, err
	}
	s.cards = len(cards)
	rivens, err := convertCards(filepath.Join(dataDir, "rivens.json"), true, &s)
	if err != nil {
		return s, err
	}
	s.rivens = len(rivens)
	specials, err := convertCards(filepath.Join(dataDir, "specials.json"), true, &s)
	if err != nil {
		return s, err
	}
	for i := range specials {
		specials[i].Properties = nil
	}
	s.specials = len(specials)

	for name, v := range map[string]interface{}{
		"weapons.yaml":  outWeapons,
		"cards.yaml":    cards,
		"rivens.yaml":   rivens,
		"specials.yaml": specials,
	} {
		if err := writeYAML(v, filepath.Join(outDir, name)); err != nil {
			return s, err
		}
	}
	return s, nil
}

// readJSON leaves out untouched when the file does not exist.
func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Skipping missing %s", path)
			return nil
		}
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error parsing %s: %v", path, err)
	}
	return nil
}

func convertProperties(owner string, props []jsonProperty, s *librarySummary) []PropertyData {
	out := make([]PropertyData, 0, len(props))
	for _, p := range props {
		kind, ok := kindNames[p.Type]
		if !ok {
			log.Printf("Warning: unknown property type %q on %s, skipped", p.Type, owner)
			s.skipped++
			continue
		}
		out = append(out, PropertyData{Kind: kind, Value: p.Value})
	}
	return out
}

func slotName(slot int) string {
	if slot < 0 || slot >= len(slotNames) {
		return slotNames[0]
	}
	return slotNames[slot]
}

// convertCards reads one card file. Exclusive cards must name their weapon.
func convertCards(path string, exclusive bool, s *librarySummary) ([]CardData, error) {
	var cards []jsonCard
	if err := readJSON(path, &cards); err != nil {
		return nil, err
	}
	var out []CardData
	for _, c := range cards {
		if exclusive && c.WeaponName == "" {
			log.Printf("Warning: card %q has no weapon name, skipped", c.Name)
			s.skipped++
			continue
		}
		card := CardData{
			Name:       c.Name,
			Properties: convertProperties(c.Name, c.Properties, s),
			Weapon:     c.WeaponName,
			Slot:       slotName(c.Slot),
			Cost:       c.Cost,
			Prime:      c.IsPrime,
		}
		if !exclusive {
			if c.MainWeapon != "All" {
				card.Class = c.MainWeapon
			}
			if c.SubWeapon != "All" {
				card.SubClass = c.SubWeapon
			}
			if c.CardSet != "Unset" {
				card.Set = c.CardSet
			}
		}
		out = append(out, card)
	}
	return out, nil
}

func writeYAML(v interface{}, filename string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}

// combineCardFiles merges two card libraries. On a name clash the second
// file wins.
func combineCardFiles(libraryDir, cards1Path, cards2Path, outputPath string) error {
	byName := make(map[string]CardData)
	for _, p := range []string{cards1Path, cards2Path} {
		data, err := os.ReadFile(filepath.Join(libraryDir, p))
		if err != nil {
			return fmt.Errorf("error reading %s: %v", p, err)
		}
		var cards []CardData
		if err := yaml.Unmarshal(data, &cards); err != nil {
			return fmt.Errorf("error parsing %s: %v", p, err)
		}
		for _, c := range cards {
			byName[c.Name] = c
		}
	}

	combined := make([]CardData, 0, len(byName))
	for _, c := range byName {
		combined = append(combined, c)
	}
	sort.Slice(combined, func(i, j int) bool { return combined[i].Name < combined[j].Name })

	outputFile := filepath.Join(libraryDir, outputPath)
	if err := writeYAML(combined, outputFile); err != nil {
		return fmt.Errorf("error writing combined library: %v", err)
	}

	fmt.Printf("Combined cards written to: %s\n", outputFile)
	fmt.Printf("  Cards: %d\n", len(combined))
	return nil
}
