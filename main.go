package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"WeaponDPSSimulator/internal/card"
	"WeaponDPSSimulator/internal/catalog"
	"WeaponDPSSimulator/internal/config"
	"WeaponDPSSimulator/internal/dps"
)

func main() {
	libraryDir := flag.String("library", _libraryFilepath, "library directory with weapons, cards and builds")
	buildName := flag.String("build", "falcon_prime.yaml", "build file inside <library>/builds")
	configPath := flag.String("config", "", "simulation config YAML (default: <library>/simulation.yaml)")
	rank := flag.Bool("rank", false, "rank compatible cards by marginal value")
	top := flag.Int("top", 10, "number of ranked cards to print (0 for all)")
	sweep := flag.Int("sweep", -1, "seed sweep runs (-1 uses the config value, 0 disables)")
	importRiven := flag.String("import-riven", "", "validate a riven YAML file and append it to the library")
	importWeapon := flag.String("import-weapon", "", "append a weapon YAML file to the library")
	deleteRiven := flag.String("delete-riven", "", "remove the named riven from the library (needs -riven-weapon)")
	rivenWeapon := flag.String("riven-weapon", "", "weapon base name the deleted riven is bound to")
	rivenRanges := flag.String("riven-ranges", "", "print riven roll ranges for the build's weapon at this quality (PP, PPN, PPP, PPPN)")
	debug := flag.Bool("debug", false, "log every discharge")
	flag.Parse()

	if err := initLogger(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer closeLogger()

	if *configPath == "" {
		*configPath = filepath.Join(*libraryDir, "simulation.yaml")
	}
	edit := libraryEdit{
		importRiven:  *importRiven,
		importWeapon: *importWeapon,
		deleteRiven:  *deleteRiven,
		rivenWeapon:  *rivenWeapon,
	}
	if err := run(*libraryDir, *buildName, *configPath, *rivenRanges, edit, *rank, *top, *sweep); err != nil {
		combatLogger.Error("simulation failed", zap.Error(err))
		closeLogger()
		os.Exit(1)
	}
}

// libraryEdit collects the flags that change the library instead of
// simulating a build.
type libraryEdit struct {
	importRiven  string
	importWeapon string
	deleteRiven  string
	rivenWeapon  string
}

func (e libraryEdit) requested() bool {
	return e.importRiven != "" || e.importWeapon != "" || e.deleteRiven != ""
}

func run(libraryDir, buildName, configPath, rivenRanges string, edit libraryEdit, rank bool, top, sweep int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	lib, err := catalog.Load(libraryDir, combatLogger)
	if err != nil {
		return err
	}
	if edit.requested() {
		return editLibrary(lib, libraryDir, edit)
	}

	fmt.Printf("Loading build: %s\n", buildName)
	build, err := loadBuild(libraryDir, buildName)
	if err != nil {
		return err
	}
	req, err := build.Request(lib, cfg)
	if err != nil {
		return err
	}

	calc := dps.NewCalculator(cfg, combatLogger)
	if err := calc.Calculate(req); err != nil {
		return err
	}
	PrintInfo(req)
	fmt.Printf("Damage mix: %v\n\n", damageKindsByShare(req))

	if rivenRanges != "" {
		quality, err := card.ParseRollQuality(rivenRanges)
		if err != nil {
			return err
		}
		fmt.Printf("=== %s riven ranges (%s) ===\n%s\n", req.Weapon.Class, quality, formatRivenRanges(req.Weapon.Class, quality))
	}

	if sweep < 0 {
		sweep = cfg.SweepRuns
	}
	if sweep > 0 {
		x, y, err := damageSim(calc, req, sweep)
		if err != nil {
			return err
		}
		fmt.Printf("%s over %d seeds: 68th: %.2f, 95th: %.2f\n\n", build.Weapon, sweep, x, y)
	}

	if rank {
		rankings, err := calc.Rank(context.Background(), req, lib.CompatibleCards(req.Weapon))
		if err != nil {
			return err
		}
		fmt.Printf("=== Card ranking by %s ===\n%s", cfg.Metric, formatRankings(rankings, top))
	}
	return nil
}

// damageSim recalculates req under nSim consecutive seeds and returns the
// magazine damage reached by 68% and 95% of runs. Only the first run logs.
func damageSim(calc *dps.Calculator, req *dps.Request, nSim int) (float64, float64, error) {
	var numbers []float64

	for i := 0; i < nSim; i++ {
		sim := *calc
		sim.Config.Seed = calc.Config.Seed + uint64(i)
		if i > 0 {
			sim.Logger = zap.NewNop()
		}

		r := req.Clone()
		if err := sim.Calculate(r); err != nil {
			return 0, 0, err
		}
		numbers = append(numbers, r.Result.MagazineDamage)
	}

	return percentileFloor(numbers, 0.68), percentileFloor(numbers, 0.95), nil
}

// editLibrary applies the requested library changes in a fixed order:
// weapon import, riven import, riven deletion.
func editLibrary(lib *catalog.Catalog, libraryDir string, edit libraryEdit) error {
	if edit.importWeapon != "" {
		if err := importWeaponFile(lib, libraryDir, edit.importWeapon); err != nil {
			return err
		}
		reloaded, err := catalog.Load(libraryDir, combatLogger)
		if err != nil {
			return err
		}
		lib = reloaded
	}
	if edit.importRiven != "" {
		if err := importRivenFile(lib, libraryDir, edit.importRiven); err != nil {
			return err
		}
	}
	if edit.deleteRiven != "" {
		if edit.rivenWeapon == "" {
			return fmt.Errorf("deleting riven %q: -riven-weapon is required", edit.deleteRiven)
		}
		n, err := catalog.DeleteRiven(libraryDir, edit.deleteRiven, edit.rivenWeapon)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d riven(s) named %s for %s\n", n, edit.deleteRiven, edit.rivenWeapon)
	}
	return nil
}

// importWeaponFile stores a single weapon unless the library already has
// one of that name.
func importWeaponFile(lib *catalog.Catalog, libraryDir, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	w, err := catalog.ParseWeapon(data, combatLogger)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if _, err := lib.WeaponByName(w.Name); err == nil {
		return fmt.Errorf("%s: weapon %q already in library", path, w.Name)
	}
	if err := catalog.SaveWeapon(libraryDir, w); err != nil {
		return err
	}
	fmt.Printf("Imported weapon %s (%s / %s)\n", w.Name, w.Class, w.SubClass)
	return nil
}

// importRivenFile checks a single riven against its weapon's class and
// stores it in the library.
func importRivenFile(lib *catalog.Catalog, libraryDir, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	riven, err := catalog.ParseRiven(data, combatLogger)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	class, err := lib.WeaponClass(riven.WeaponName)
	if err != nil {
		return err
	}
	if err := riven.Validate(class); err != nil {
		return err
	}
	if err := catalog.SaveRiven(libraryDir, riven); err != nil {
		return err
	}
	fmt.Printf("Imported riven %s for %s\n", riven.Name, riven.WeaponName)
	return nil
}
