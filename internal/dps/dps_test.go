package dps

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"WeaponDPSSimulator/internal/card"
	"WeaponDPSSimulator/internal/config"
	"WeaponDPSSimulator/internal/damage"
	"WeaponDPSSimulator/internal/property"
	"WeaponDPSSimulator/internal/weapon"
)

func testWeapon(t *testing.T, extra ...property.Property) *weapon.Weapon {
	t.Helper()
	props := []property.Property{
		property.NewBase(property.MagazineSize, 30),
		property.NewBase(property.AttackSpeed, 2),
		property.NewBase(property.ReloadTime, 1),
		property.NewBase(property.CritChance, 25),
		property.NewBase(property.CritDamage, 150),
	}
	if len(extra) == 0 {
		extra = []property.Property{property.NewBase(property.Kinetic, 100)}
	}
	w, err := weapon.New("Falcon", "", weapon.Rifle, weapon.AssaultRifle, append(props, extra...))
	require.NoError(t, err)
	return w
}

func testCalculator(t *testing.T) *Calculator {
	return NewCalculator(config.Default(), zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel)))
}

func commonCard(name string, k property.Kind, v float64) *card.Card {
	return card.NewCommon(name, []property.Property{property.NewCard(k, v)},
		weapon.ClassAll, weapon.SubClassAll, card.SetUnset, card.Jia, 10, false)
}

func TestCalculateScenario(t *testing.T) {
	req := NewRequest(testWeapon(t), damage.Character{SkillStrength: 100}, damage.Target{Material: damage.Void})
	require.NoError(t, testCalculator(t).Calculate(req))
	res := req.Result

	assert.InDelta(t, 100, res.FirstShotNonCrit, 1e-9)
	assert.InDelta(t, 150, res.FirstShotCrit, 1e-9)
	assert.InDelta(t, 200, res.FirstShotNonCritHeadshot, 1e-9)
	assert.InDelta(t, 300, res.FirstShotCritHeadshot, 1e-9)
	assert.InDelta(t, 112.5, res.ExpectedShot, 1e-9)

	assert.Equal(t, 30, res.Shots)
	assert.Equal(t, 7, res.Crits)
	assert.Equal(t, 0, res.Headshots)
	assert.InDelta(t, 3350, res.MagazineDamage, 1e-9)
	assert.InDelta(t, 3350*2.0/30, res.MagazineDPS, 1e-9)
	assert.InDelta(t, 3350/16.0, res.AverageDPS, 1e-9)

	perShot := res.MagazineDPS / 30
	assert.GreaterOrEqual(t, perShot, 100*2.0/30)
	assert.LessOrEqual(t, perShot, 100*2.0/30*1.5)

	assert.Equal(t, 100.0, res.Snapshot.Get(property.Headshot))
}

func TestCalculateIsRepeatable(t *testing.T) {
	w := testWeapon(t,
		property.NewBase(property.Kinetic, 40),
		property.NewBase(property.Heat, 30),
		property.NewBase(property.Toxin, 30),
		property.NewBase(property.TriggerChance, 40),
	)
	req := NewRequest(w, damage.Character{SkillStrength: 100}, damage.Target{Material: damage.Biological, Armor: 150})
	require.NoError(t, req.Equip(0, commonCard("Serration", property.Kinetic, 90)))
	calc := testCalculator(t)

	require.NoError(t, calc.Calculate(req))
	first := req.Result
	require.NoError(t, calc.Calculate(req))
	assert.Equal(t, first, req.Result)
	assert.Equal(t, 90.0, req.Cards[0].Properties[0].Addon, "cards are never mutated")
	assert.Greater(t, first.Triggers, 0)
}

func TestCalculateWithoutWeapon(t *testing.T) {
	err := testCalculator(t).Calculate(&Request{})
	assert.True(t, errors.Is(err, ErrNoWeapon))
}

func TestSetEffects(t *testing.T) {
	calc := testCalculator(t)

	t.Run("invasion aura", func(t *testing.T) {
		req := NewRequest(testWeapon(t), damage.Character{}, damage.Target{})
		req.SetCounts[card.SetInvasion] = 1
		require.NoError(t, calc.Calculate(req))
		assert.InDelta(t, 130, req.Result.FirstShotNonCrit, 1e-9)
	})

	t.Run("snake needs movement", func(t *testing.T) {
		req := NewRequest(testWeapon(t), damage.Character{}, damage.Target{})
		req.SetCounts[card.SetSnake] = 2
		require.NoError(t, calc.Calculate(req))
		assert.InDelta(t, 100, req.Result.FirstShotNonCrit, 1e-9)

		req.Character.Moving = true
		require.NoError(t, calc.Calculate(req))
		assert.InDelta(t, 160, req.Result.FirstShotNonCrit, 1e-9)
	})

	t.Run("reverse crit", func(t *testing.T) {
		req := NewRequest(testWeapon(t), damage.Character{}, damage.Target{})
		req.SetCounts[card.SetReverse] = 1
		require.NoError(t, calc.Calculate(req))
		assert.InDelta(t, 32.5, req.Result.Snapshot.Get(property.CritChance), 1e-9)
	})

	t.Run("ghost conversion counts equipped cards", func(t *testing.T) {
		w := testWeapon(t, property.NewBase(property.Heat, 100))
		req := NewRequest(w, damage.Character{}, damage.Target{})
		req.SetCounts[card.SetGhost] = 1
		ghost := card.NewCommon("Ghost Step", nil, weapon.ClassAll, weapon.SubClassAll, card.SetGhost, card.Yi, 6, false)
		require.NoError(t, req.Equip(1, ghost))
		assert.Equal(t, 2, req.SetStacks(card.SetGhost))

		require.NoError(t, calc.Calculate(req))
		assert.InDelta(t, 50, req.Result.Snapshot.Get(property.Kinetic), 1e-9)
		assert.InDelta(t, 50, req.Result.Snapshot.Get(property.Heat), 1e-9)
	})
}

func TestAirborneContributions(t *testing.T) {
	calc := testCalculator(t)
	req := NewRequest(testWeapon(t), damage.Character{}, damage.Target{})
	require.NoError(t, req.Equip(0, commonCard("Sky Hunter", property.CritChanceInAir, 100)))

	require.NoError(t, calc.Calculate(req))
	assert.InDelta(t, 25, req.Result.Snapshot.Get(property.CritChance), 1e-9)

	req.Character.Airborne = true
	require.NoError(t, calc.Calculate(req))
	assert.InDelta(t, 50, req.Result.Snapshot.Get(property.CritChance), 1e-9)
}

func TestCloneIsIndependent(t *testing.T) {
	target := damage.Target{StatusConstants: map[property.DamageKind]int{property.DamageCold: 2}}
	req := NewRequest(testWeapon(t), damage.Character{}, target)
	require.NoError(t, req.Equip(0, commonCard("Serration", property.Kinetic, 90)))
	req.SetCounts[card.SetSnake] = 1

	cp := req.Clone()
	cp.Cards[0].Properties[0].Addon = 10
	cp.Cards[1] = commonCard("Extra", property.Kinetic, 10)
	cp.SetCounts[card.SetSnake] = 3
	cp.Target.StatusConstants[property.DamageCold] = 9

	assert.Equal(t, 90.0, req.Cards[0].Properties[0].Addon)
	assert.Nil(t, req.Cards[1])
	assert.Equal(t, 1, req.SetCounts[card.SetSnake])
	assert.Equal(t, 2, req.Target.StatusConstants[property.DamageCold])
	assert.Same(t, req.Weapon, cp.Weapon)
}

func TestCalculateOnCloneKeepsOriginalResult(t *testing.T) {
	calc := testCalculator(t)
	req := NewRequest(testWeapon(t), damage.Character{}, damage.Target{})
	require.NoError(t, req.Equip(0, commonCard("Serration", property.Kinetic, 90)))
	require.NoError(t, calc.Calculate(req))
	before := req.Result

	cp := req.Clone()
	require.NoError(t, cp.Equip(0, commonCard("Heavy Caliber", property.AllDamage, 200)))
	require.NoError(t, cp.Equip(1, commonCard("Point Strike", property.CritChance, 150)))
	require.NoError(t, calc.Calculate(cp))

	assert.NotEqual(t, before.MagazineDamage, cp.Result.MagazineDamage)
	assert.Equal(t, before, req.Result)
	assert.Equal(t, "Serration", req.Cards[0].Name)
	assert.Nil(t, req.Cards[1])
}

func TestEquip(t *testing.T) {
	req := NewRequest(testWeapon(t), damage.Character{}, damage.Target{})
	pistolOnly := card.NewCommon("Pistol Gambit", nil, weapon.Pistol, weapon.SubClassAll, card.SetUnset, card.Jia, 4, false)
	assert.True(t, errors.Is(req.Equip(0, pistolOnly), ErrIncompatible))
	assert.True(t, errors.Is(req.Equip(SlotCount, nil), ErrSlotRange))

	require.NoError(t, req.Equip(SpecialSlot, card.NewSpecial("Falcon Overdrive", "Falcon", card.Ji, 5)))
	require.NoError(t, req.Equip(2, commonCard("Serration", property.Kinetic, 90)))
	assert.Equal(t, 15, req.TotalCost())
	assert.True(t, req.Equipped("Serration"))

	slot, ok := req.FirstEmptySlot()
	assert.True(t, ok)
	assert.Equal(t, 0, slot)
}

func TestEquipSlotRules(t *testing.T) {
	special := card.NewSpecial("Falcon Overdrive", "Falcon", card.Ji, 5)
	serration := commonCard("Serration", property.Kinetic, 90)
	riven := card.NewRiven("Falcon Riven", []property.Property{property.NewCard(property.CritChance, 60)},
		"Falcon", card.TwoBuffs, card.Ding, 12)

	tests := []struct {
		name string
		slot int
		card *card.Card
		err  error
	}{
		{"special in regular slot", 0, special, ErrWrongSlot},
		{"special in last regular slot", RegularSlots - 1, special, ErrWrongSlot},
		{"common in special slot", SpecialSlot, serration, ErrWrongSlot},
		{"riven in special slot", SpecialSlot, riven, ErrWrongSlot},
		{"special in special slot", SpecialSlot, special, nil},
		{"common in regular slot", 3, serration, nil},
		{"riven in regular slot", 5, riven, nil},
		{"clear special slot", SpecialSlot, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest(testWeapon(t), damage.Character{}, damage.Target{})
			err := req.Equip(tt.slot, tt.card)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
				assert.Nil(t, req.Cards[tt.slot])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.card, req.Cards[tt.slot])
		})
	}
}

func TestMarginal(t *testing.T) {
	calc := testCalculator(t)
	req := NewRequest(testWeapon(t), damage.Character{}, damage.Target{})

	gain, err := calc.Marginal(req, commonCard("Serration", property.Kinetic, 90))
	require.NoError(t, err)
	assert.InDelta(t, 0.9, gain, 1e-9)
	assert.Nil(t, req.Cards[0], "marginal evaluation works on a clone")

	for i := 0; i < RegularSlots; i++ {
		require.NoError(t, req.Equip(i, commonCard(fmt.Sprintf("Filler %d", i), property.RecoilVertical, -5)))
	}
	_, err = calc.Marginal(req, commonCard("Serration", property.Kinetic, 90))
	assert.True(t, errors.Is(err, ErrNoEmptySlot))
}

func TestMarginalRejectsMisfits(t *testing.T) {
	calc := testCalculator(t)
	req := NewRequest(testWeapon(t), damage.Character{}, damage.Target{})

	_, err := calc.Marginal(req, card.NewSpecial("Falcon Overdrive", "Falcon", card.Ji, 5))
	assert.True(t, errors.Is(err, ErrWrongSlot))

	pistolOnly := card.NewCommon("Pistol Gambit", []property.Property{property.NewCard(property.CritChance, 120)},
		weapon.Pistol, weapon.SubClassAll, card.SetUnset, card.Jia, 4, false)
	_, err = calc.Marginal(req, pistolOnly)
	assert.True(t, errors.Is(err, ErrIncompatible))
	assert.Nil(t, req.Cards[0])
}

func TestRank(t *testing.T) {
	calc := testCalculator(t)
	req := NewRequest(testWeapon(t), damage.Character{}, damage.Target{})
	require.NoError(t, req.Equip(0, commonCard("Equipped", property.Kinetic, 20)))

	candidates := []*card.Card{
		commonCard("Stabilizer", property.RecoilVertical, -10),
		commonCard("Heavy Caliber", property.AllDamage, 50),
		commonCard("Serration", property.Kinetic, 90),
		commonCard("Equipped", property.Kinetic, 20),
		card.NewCommon("Pistol Gambit", []property.Property{property.NewCard(property.CritChance, 120)},
			weapon.Pistol, weapon.SubClassAll, card.SetUnset, card.Jia, 4, false),
		card.NewSpecial("Falcon Overdrive", "Falcon", card.Ji, 5),
	}

	rankings, err := calc.Rank(context.Background(), req, candidates)
	require.NoError(t, err)
	require.Len(t, rankings, 3)
	assert.Equal(t, "Serration", rankings[0].Card.Name)
	assert.InDelta(t, 90.0/120, rankings[0].Gain, 1e-9)
	assert.Equal(t, "Heavy Caliber", rankings[1].Card.Name)
	assert.InDelta(t, 0.5, rankings[1].Gain, 1e-9)
	assert.Equal(t, "Stabilizer", rankings[2].Card.Name)
	assert.Equal(t, 0.0, rankings[2].Gain)
}

func TestRankWithoutEmptySlot(t *testing.T) {
	calc := testCalculator(t)
	req := NewRequest(testWeapon(t), damage.Character{}, damage.Target{})
	for i := 0; i < RegularSlots; i++ {
		require.NoError(t, req.Equip(i, commonCard(fmt.Sprintf("Filler %d", i), property.RecoilVertical, -5)))
	}
	rankings, err := calc.Rank(context.Background(), req, []*card.Card{
		commonCard("Serration", property.Kinetic, 90),
		commonCard("Heavy Caliber", property.AllDamage, 50),
	})
	require.NoError(t, err)
	require.Len(t, rankings, 2)
	assert.Equal(t, "Heavy Caliber", rankings[0].Card.Name, "ties sort by name")
	for _, r := range rankings {
		assert.Equal(t, 0.0, r.Gain)
	}
}

func TestRankCancelled(t *testing.T) {
	calc := testCalculator(t)
	req := NewRequest(testWeapon(t), damage.Character{}, damage.Target{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := calc.Rank(ctx, req, []*card.Card{commonCard("Serration", property.Kinetic, 90)})
	assert.True(t, errors.Is(err, context.Canceled))
}
