package dps

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"WeaponDPSSimulator/internal/card"
	"WeaponDPSSimulator/internal/config"
	"WeaponDPSSimulator/internal/damage"
	"WeaponDPSSimulator/internal/property"
)

// Calculator runs requests. It holds no per-calculation state and may be
// used from several goroutines at once.
type Calculator struct {
	Logger *zap.Logger
	Config config.Simulation
}

func NewCalculator(cfg config.Simulation, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{Logger: logger, Config: cfg}
}

func (c *Calculator) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Resolve builds the request's final snapshot from the weapon's base stats
// and all equipped cards and set bonuses.
func (c *Calculator) Resolve(req *Request) (property.Snapshot, error) {
	if req.Weapon == nil {
		return property.Snapshot{}, ErrNoWeapon
	}
	snap := req.Weapon.BaseSnapshot()
	if err := snap.Resolve(req.Contributions()); err != nil {
		return property.Snapshot{}, fmt.Errorf("resolving %s: %w", req.Weapon.Name, err)
	}
	if n := req.SetStacks(card.SetGhost); n > 0 {
		snap.ApplyGhostConversion(n, c.Config.GhostConversionPerStack)
	}
	return snap, nil
}

// shot converts the resolved percent attributes into engine fractions.
func (c *Calculator) shot(req *Request, snap *property.Snapshot) damage.Shot {
	final := snap.Final()
	return damage.Shot{
		Damage: snap.DamageArray(),
		External: damage.ExternalMultiplier(
			req.SetStacks(card.SetInvasion),
			req.SetStacks(card.SetSnake),
			req.Character.Moving,
			req.Character.ComboMultiplier,
		),
		CritChance:     snap.Get(property.CritChance) / 100,
		CritDamage:     snap.Get(property.CritDamage) / 100,
		TriggerChance:  snap.Get(property.TriggerChance) / 100,
		HeadshotBonus:  snap.Get(property.Headshot) / 100,
		DebuffDuration: damage.BaseDebuffDuration * (1 + final.Addon(property.DebuffDuration)/100),
	}
}

// Calculate fills req.Result. The magazine run and each of the four
// first-shot probes start from a fresh accumulator and status state.
func (c *Calculator) Calculate(req *Request) error {
	log := c.logger()

	snap, err := c.Resolve(req)
	if err != nil {
		return err
	}
	shot := c.shot(req, &snap)

	magazine := snap.Get(property.MagazineSize)
	attackSpeed := snap.Get(property.AttackSpeed)
	reload := snap.Get(property.ReloadTime)
	totalShots := int(math.Floor(magazine * snap.Get(property.MultiStrike) / 100))

	res := Result{Snapshot: snap, Shots: totalShots}
	run := damage.NewRun(req.Target, req.Character, c.Config.Seed)

	for i := 0; i < totalShots; i++ {
		out := run.Discharge(shot)
		res.MagazineDamage += out.Damage
		if out.Crit {
			res.Crits++
		}
		if out.Headshot {
			res.Headshots++
		}
		if out.HasStatus {
			res.Triggers++
		}
		log.Debug("discharge",
			zap.Int("shot", i+1),
			zap.Float64("damage", out.Damage),
			zap.Float64("dot", out.DoT),
			zap.Bool("crit", out.Crit),
			zap.Bool("headshot", out.Headshot),
			zap.Bool("triggered", out.HasStatus),
			zap.Stringer("status", out.Status),
		)
		if attackSpeed > 0 {
			run.Advance(1 / attackSpeed)
		}
	}

	probe := func(crit, headshot damage.Force) float64 {
		run.Reset()
		s := shot
		s.Crit, s.Headshot, s.Trigger = crit, headshot, damage.Off
		return run.Discharge(s).Damage
	}
	res.FirstShotNonCrit = probe(damage.Off, damage.Off)
	res.FirstShotCrit = probe(damage.On, damage.Off)
	res.FirstShotNonCritHeadshot = probe(damage.Off, damage.On)
	res.FirstShotCritHeadshot = probe(damage.On, damage.On)

	p := damage.UpperTierChance(shot.CritChance)
	res.ExpectedShot = res.FirstShotNonCrit + (res.FirstShotCrit-res.FirstShotNonCrit)*p

	if magazine > 0 {
		res.MagazineDPS = res.MagazineDamage * attackSpeed / magazine
	}
	if attackSpeed > 0 {
		if cycle := magazine/attackSpeed + reload; cycle > 0 {
			res.AverageDPS = res.MagazineDamage / cycle
		}
	}

	req.Result = res
	log.Info("calculated",
		zap.String("weapon", req.Weapon.Name),
		zap.Int("shots", res.Shots),
		zap.Int("crits", res.Crits),
		zap.Float64("magazine_damage", res.MagazineDamage),
		zap.Float64("magazine_dps", res.MagazineDPS),
		zap.Float64("average_dps", res.AverageDPS),
	)
	return nil
}

// Metric reads the configured comparison metric from res.
func (c *Calculator) Metric(res Result) float64 {
	switch c.Config.Metric {
	case config.ExpectedShot:
		return res.ExpectedShot
	case config.MagazineDamage:
		return res.MagazineDamage
	case config.MagazineDPS:
		return res.MagazineDPS
	}
	return res.AverageDPS
}

// Marginal returns the relative change of the configured metric when
// candidate is put into req's first empty regular slot. req is not modified.
func (c *Calculator) Marginal(req *Request, candidate *card.Card) (float64, error) {
	if req.Weapon == nil {
		return 0, ErrNoWeapon
	}
	base := req.Clone()
	if err := c.Calculate(base); err != nil {
		return 0, err
	}
	return c.gain(base, candidate)
}

// gain evaluates candidate against an already calculated base request.
func (c *Calculator) gain(base *Request, candidate *card.Card) (float64, error) {
	slot, ok := base.FirstEmptySlot()
	if !ok {
		return 0, ErrNoEmptySlot
	}
	if err := base.fits(slot, candidate); err != nil {
		return 0, err
	}
	what := base.Clone()
	what.Cards[slot] = candidate.Clone()
	if err := c.Calculate(what); err != nil {
		return 0, err
	}
	b := c.Metric(base.Result)
	if b == 0 {
		return 0, nil
	}
	return (c.Metric(what.Result) - b) / b, nil
}

// Ranking is one candidate's marginal value.
type Ranking struct {
	Card *card.Card
	Gain float64
}

// Rank evaluates every compatible, unequipped candidate that carries
// numbers and returns them best first. Candidates are evaluated
// concurrently, each on its own clone of req.
func (c *Calculator) Rank(ctx context.Context, req *Request, candidates []*card.Card) ([]Ranking, error) {
	if req.Weapon == nil {
		return nil, ErrNoWeapon
	}
	var eligible []*card.Card
	for _, cd := range candidates {
		if cd == nil || !cd.HasProperties() || !card.Compatible(cd, req.Weapon) || req.Equipped(cd.Name) {
			continue
		}
		eligible = append(eligible, cd)
	}

	rankings := make([]Ranking, len(eligible))
	for i, cd := range eligible {
		rankings[i].Card = cd
	}

	base := req.Clone()
	if err := c.Calculate(base); err != nil {
		return nil, err
	}

	if _, ok := base.FirstEmptySlot(); ok {
		workers := c.Config.RankWorkers
		if workers < 1 {
			workers = 1
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := range rankings {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				gain, err := c.gain(base, rankings[i].Card)
				if err != nil {
					return fmt.Errorf("ranking %s: %w", rankings[i].Card.Name, err)
				}
				rankings[i].Gain = gain
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].Gain != rankings[j].Gain {
			return rankings[i].Gain > rankings[j].Gain
		}
		return rankings[i].Card.Name < rankings[j].Card.Name
	})
	c.logger().Info("ranked candidates", zap.Int("count", len(rankings)), zap.Stringer("metric", c.Config.Metric))
	return rankings, nil
}
