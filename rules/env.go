package rules

import (
	"math"

	"github.com/nstehr/trooper/model"
	"github.com/nstehr/trooper/pathfind"
)

// UnitEnv wraps one decision's inputs and exposes helper methods callable
// from expr conditions. Targets are selected once when the env is built.
type UnitEnv struct {
	Self   model.Unit
	World  *model.World
	Config model.GameConfig
	Tuning Tuning
	Squad  *SquadState
	Finder *pathfind.Finder

	mates      []model.Unit // teammates including Self
	enemies    []model.Unit
	target     *model.Unit
	healTarget *model.Unit
	bonus      *model.Bonus
}

func newUnitEnv(self model.Unit, w *model.World, cfg model.GameConfig, t Tuning, sq *SquadState, f *pathfind.Finder) UnitEnv {
	env := UnitEnv{
		Self:    self,
		World:   w,
		Config:  cfg,
		Tuning:  t,
		Squad:   sq,
		Finder:  f,
		mates:   w.Teammates(),
		enemies: w.Enemies(),
	}
	env.target = env.SelectEnemyTarget()
	if self.Role == model.FieldMedic {
		env.healTarget = env.SelectHealTarget()
	}
	env.bonus = env.SelectBonus()
	return env
}

// Squadmates returns the teammates other than Self.
func (e UnitEnv) Squadmates() []model.Unit {
	out := make([]model.Unit, 0, len(e.mates))
	for _, m := range e.mates {
		if m.ID != e.Self.ID {
			out = append(out, m)
		}
	}
	return out
}

func (e UnitEnv) SquadSize() int { return len(e.mates) }

func (e UnitEnv) FirstTurn() bool { return e.World.MoveIndex == 0 }

func (e UnitEnv) IsStanding() bool { return e.Self.Stance == model.Standing }

func (e UnitEnv) ActionPoints() int { return e.Self.ActionPoints }

func (e UnitEnv) Centroid() model.Point { return squadCentroid(e.mates) }

// SquadRangeLimit is how far Self may be from the squad before it must
// return: the squad's mean shooting range scaled by a role coefficient.
func (e UnitEnv) SquadRangeLimit() float64 {
	factor := e.Tuning.SquadRangeFactor
	if e.Self.Role == model.FieldMedic {
		factor = e.Tuning.MedicSquadRangeFactor
	}
	return avgShootingRange(e.mates) * factor
}

// SquadRangeExceeded reports whether any squadmate is farther away than the
// squad range limit.
func (e UnitEnv) SquadRangeExceeded() bool {
	mates := e.Squadmates()
	if len(mates) == 0 {
		return false
	}
	farthest := 0.0
	for _, m := range mates {
		farthest = math.Max(farthest, e.Self.Pos().Distance(m.Pos()))
	}
	return farthest > e.SquadRangeLimit()
}

// NearestSquadmate returns the closest teammate other than Self.
func (e UnitEnv) NearestSquadmate() (model.Unit, bool) {
	var best model.Unit
	found := false
	for _, m := range e.Squadmates() {
		if !found || e.Self.Pos().Distance(m.Pos()) < e.Self.Pos().Distance(best.Pos()) {
			best, found = m, true
		}
	}
	return best, found
}

// canSee reports whether viewer, at stance s and limited to its shooting
// range, can see target.
func (e UnitEnv) canSee(viewer model.Unit, s model.Stance, target model.Unit) bool {
	return e.World.IsVisible(viewer.ShootingRange, viewer.X, viewer.Y, s, target.X, target.Y, target.Stance)
}

// occupiedByOther reports whether a unit other than Self stands on p.
func (e UnitEnv) occupiedByOther(p model.Point) bool {
	return p != e.Self.Pos() && e.World.Occupied(p)
}

func (e UnitEnv) HasTarget() bool { return e.target != nil }

func (e UnitEnv) TargetVisible() bool {
	return e.target != nil && e.canSee(e.Self, e.Self.Stance, *e.target)
}

// TargetVisibleIfRaised reports whether some higher stance would bring the
// target into view.
func (e UnitEnv) TargetVisibleIfRaised() bool {
	if e.target == nil {
		return false
	}
	for s := e.Self.Stance + 1; s <= model.Standing; s++ {
		if e.canSee(e.Self, s, *e.target) {
			return true
		}
	}
	return false
}

// RationBeneficial reports whether eating a held ration gains action points
// without overflowing the unit's initial budget.
func (e UnitEnv) RationBeneficial() bool {
	c := e.Config
	if !e.Self.HoldingFieldRation || e.Self.ActionPoints < c.FieldRationEatCost {
		return false
	}
	if c.FieldRationBonusActionPoints <= c.FieldRationEatCost {
		return false
	}
	after := e.Self.ActionPoints - c.FieldRationEatCost + c.FieldRationBonusActionPoints
	return e.Self.InitialActionPoints <= 0 || after <= e.Self.InitialActionPoints
}

// CanThrowGrenade reports whether a grenade at the target is affordable, in
// range and will not catch a teammate in the blast.
func (e UnitEnv) CanThrowGrenade() bool {
	if e.target == nil || !e.Self.HoldingGrenade || e.Self.ActionPoints < e.Config.GrenadeThrowCost {
		return false
	}
	tp := e.target.Pos()
	if e.Self.Pos().Distance(tp) > e.Config.GrenadeThrowRange {
		return false
	}
	for _, m := range e.mates {
		if m.Pos().Manhattan(tp) <= e.Tuning.GrenadeCollateralRadius {
			return false
		}
	}
	return true
}

// CanSelfMedikit reports whether a held medikit is affordable and would not
// be mostly wasted on Self.
func (e UnitEnv) CanSelfMedikit() bool {
	if !e.Self.HoldingMedikit || e.Self.ActionPoints < e.Config.MedikitUseCost {
		return false
	}
	return e.medikitWorthIt(e.Self)
}

func (e UnitEnv) medikitWorthIt(target model.Unit) bool {
	if !target.Damaged() {
		return false
	}
	bonus := e.Config.MedikitBonusHitpoints
	if target.ID == e.Self.ID {
		bonus = e.Config.MedikitHealSelfBonusHitpoints
	}
	missing := target.MaxHP - target.HP
	return float64(missing) >= e.Tuning.MedikitWasteTolerance*float64(bonus)
}

func (e UnitEnv) HasBonus() bool { return e.bonus != nil }

// WaitingForMedic reports whether the squad's lone medic still has to reach
// a badly damaged teammate.
func (e UnitEnv) WaitingForMedic() bool {
	if e.Self.Role == model.FieldMedic {
		return false
	}
	var medics []model.Unit
	for _, m := range e.mates {
		if m.Role == model.FieldMedic {
			medics = append(medics, m)
		}
	}
	if len(medics) != 1 {
		return false
	}
	medic := medics[0]
	for _, m := range e.mates {
		if m.ID == medic.ID || !m.Damaged() || m.HealthFraction() >= e.Tuning.HealPriorityThreshold {
			continue
		}
		if medic.Pos().Distance(m.Pos()) > e.Tuning.HealRange {
			return true
		}
	}
	return false
}

func (e UnitEnv) HasHealTarget() bool { return e.healTarget != nil }

// HealTargetInRange reports whether the heal target can be treated without
// moving. Treatment only reaches Self and its 4-neighbours.
func (e UnitEnv) HealTargetInRange() bool {
	if e.healTarget == nil {
		return false
	}
	return e.withinReach(*e.healTarget) && e.Self.Pos().Distance(e.healTarget.Pos()) <= e.Tuning.HealRange
}

// MedikitJustified reports whether the heal target is hurt badly enough for
// a held medikit rather than a plain heal.
func (e UnitEnv) MedikitJustified() bool {
	if e.healTarget == nil || !e.Self.HoldingMedikit || e.Self.ActionPoints < e.Config.MedikitUseCost {
		return false
	}
	return e.medikitWorthIt(*e.healTarget)
}

// SquadmateEngaged reports whether any squadmate can currently see an enemy.
func (e UnitEnv) SquadmateEngaged() bool {
	for _, m := range e.Squadmates() {
		for _, en := range e.enemies {
			if e.canSee(m, m.Stance, en) {
				return true
			}
		}
	}
	return false
}

// RearPosition returns the free cell next to a squadmate that the fewest
// enemies can see at standing stance, ties going to the cell nearest Self.
func (e UnitEnv) RearPosition() (model.Point, bool) {
	g := e.World.Grid
	var best model.Point
	bestExposure, found := 0, false
	for _, m := range e.Squadmates() {
		for _, c := range m.Pos().Neighbors() {
			if !g.Passable(c) || e.occupiedByOther(c) {
				continue
			}
			exposure := 0
			for _, en := range e.enemies {
				if e.World.IsVisible(en.VisionRange, en.X, en.Y, en.Stance, c.X, c.Y, model.Standing) {
					exposure++
				}
			}
			closer := e.Self.Pos().Distance(c) < e.Self.Pos().Distance(best)
			if !found || exposure < bestExposure || (exposure == bestExposure && closer) {
				best, bestExposure, found = c, exposure, true
			}
		}
	}
	return best, found
}
