package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WeaponDPSSimulator/internal/damage"
	"WeaponDPSSimulator/internal/property"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
target:
  material: mechanical
  armor: 300
  headshot_rate: 0.5
  skill_debuffs:
    ionic_suppression: 1
  status_constants:
    virus: 3
character:
  moving: true
seed: 99
metric: magazine_dps
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, damage.Mechanical, cfg.Target.Material)
	assert.Equal(t, 300.0, cfg.Target.Armor)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, MagazineDPS, cfg.Metric)
	assert.True(t, cfg.Character.Moving)
	assert.Equal(t, 100.0, cfg.Character.SkillStrength, "unset fields keep defaults")
	assert.Equal(t, 4, cfg.RankWorkers)

	target, err := cfg.Target.Resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, target.SkillDebuffs[damage.IonicSuppression])
	assert.Equal(t, 3, target.StatusConstants[property.DamageVirus])
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeFile(t, "metric: best\n"))
	assert.True(t, errors.Is(err, ErrInvalidMetric))

	_, err = Load(writeFile(t, "target:\n  material: stone\n"))
	assert.True(t, errors.Is(err, damage.ErrUnknownMaterial))

	_, err = Load(writeFile(t, "target:\n  status_constants:\n    crit_chance: 2\n"))
	assert.True(t, errors.Is(err, property.ErrUnknownKind))
}

func TestCharacterResolveDefaultsCombo(t *testing.T) {
	c := Character{SkillStrength: 120}.Resolve()
	assert.Equal(t, 1.0, c.ComboMultiplier)
	assert.Equal(t, 120.0, c.SkillStrength)
}
