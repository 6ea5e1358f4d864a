package rules

import (
	"log/slog"

	"github.com/nstehr/trooper/model"
	"github.com/nstehr/trooper/pathfind"
)

// --- Primitives ---
//
// Every primitive checks legality and the action point budget itself and
// returns model.Pass when the action cannot be taken.

func (e UnitEnv) raiseStance() model.Action {
	if e.Self.Stance == model.Standing || e.Self.ActionPoints < e.Config.StanceChangeCost {
		return model.Pass
	}
	return model.Action{Type: model.ActionRaiseStance}
}

func (e UnitEnv) lowerStance() model.Action {
	if e.Self.Stance == model.Prone || e.Self.ActionPoints < e.Config.StanceChangeCost {
		return model.Pass
	}
	return model.Action{Type: model.ActionLowerStance}
}

// canStep reports whether Self may move onto p this call.
func (e UnitEnv) canStep(p model.Point) bool {
	return e.Self.Pos().Manhattan(p) == 1 &&
		e.World.Grid.Passable(p) &&
		!e.occupiedByOther(p) &&
		e.Self.ActionPoints >= e.Config.MoveCost(e.Self.Stance)
}

func (e UnitEnv) step(p model.Point) model.Action {
	if !e.canStep(p) {
		return model.Pass
	}
	return model.MoveTo(p)
}

func (e UnitEnv) shoot(target model.Unit) model.Action {
	if e.Self.ActionPoints < e.Self.ShootCost || !e.canSee(e.Self, e.Self.Stance, target) {
		return model.Pass
	}
	return model.ShootAt(target.Pos())
}

func (e UnitEnv) throwGrenade() model.Action {
	if !e.CanThrowGrenade() {
		return model.Pass
	}
	return model.ThrowGrenadeAt(e.target.Pos())
}

// withinReach reports whether target is Self or a 4-neighbour of Self.
func (e UnitEnv) withinReach(target model.Unit) bool {
	return target.ID == e.Self.ID || e.Self.Pos().Manhattan(target.Pos()) == 1
}

func (e UnitEnv) heal(target model.Unit) model.Action {
	if e.Self.Role != model.FieldMedic || !e.withinReach(target) || e.Self.ActionPoints < e.Config.FieldMedicHealCost {
		return model.Pass
	}
	return model.HealAt(target.Pos())
}

func (e UnitEnv) useMedikit(target model.Unit) model.Action {
	if !e.Self.HoldingMedikit || !e.withinReach(target) || e.Self.ActionPoints < e.Config.MedikitUseCost {
		return model.Pass
	}
	return model.UseMedikitAt(target.Pos())
}

func (e UnitEnv) eatRation() model.Action {
	if !e.Self.HoldingFieldRation || e.Self.ActionPoints < e.Config.FieldRationEatCost {
		return model.Pass
	}
	return model.Action{Type: model.ActionEatFieldRation}
}

// approach takes one step along a path to goal. A cached route that runs
// into a unit which has since moved next to Self is recomputed once.
func (e UnitEnv) approach(goal model.Point, mode pathfind.Mode) model.Action {
	path := e.Finder.Find(e.World.Grid, e.World.Units, e.Self.Pos(), goal, mode)
	if len(path) == 0 {
		return model.Pass
	}
	if a := e.step(path[0]); !a.IsNone() {
		return a
	}
	if mode == pathfind.Cached && e.occupiedByOther(path[0]) {
		slog.Debug("cached path blocked, recomputing", "unit", e.Self.ID, "cell", path[0])
		return e.approach(goal, pathfind.NoCache)
	}
	return model.Pass
}

// --- Trooper actions ---

func ActionSelfMedikit(env UnitEnv) model.Action {
	return env.useMedikit(env.Self)
}

func ActionEatRation(env UnitEnv) model.Action {
	return env.eatRation()
}

func ActionThrowGrenade(env UnitEnv) model.Action {
	return env.throwGrenade()
}

// ActionAttack shoots the visible target. When the remaining shots this turn
// cannot kill it, Self first drops to a lower stance if it keeps the target
// in view from there.
func ActionAttack(env UnitEnv) model.Action {
	if env.target == nil {
		return model.Pass
	}
	target := *env.target
	cost := max(env.Self.ShootCost, 1)
	shots := env.Self.ActionPoints / cost
	if shots == 0 {
		return model.Pass
	}
	if shots*env.Self.Damage(env.Self.Stance) >= target.HP {
		return env.shoot(target)
	}
	lower := env.Self.Stance.Lower()
	if env.Self.Stance != model.Prone &&
		env.Self.ActionPoints >= env.Config.StanceChangeCost &&
		env.canSee(env.Self, lower, target) {
		return env.lowerStance()
	}
	return env.shoot(target)
}

func ActionRaiseStance(env UnitEnv) model.Action {
	return env.raiseStance()
}

// ActionApproachTarget closes in on the enemy target. When a step is out of
// budget the remaining points go into a lower stance.
func ActionApproachTarget(env UnitEnv) model.Action {
	if env.target == nil {
		return model.Pass
	}
	if env.Self.ActionPoints < env.Config.MoveCost(env.Self.Stance) {
		return env.lowerStance()
	}
	return env.approach(env.target.Pos(), pathfind.Cached)
}

func ActionCollectBonus(env UnitEnv) model.Action {
	if env.bonus == nil {
		return model.Pass
	}
	return env.approach(env.bonus.Pos(), pathfind.NoCache)
}

func ActionHoldForMedic(env UnitEnv) model.Action {
	if env.Self.Stance == model.Standing {
		return env.lowerStance()
	}
	return model.Pass
}

// ActionAdvance walks the squad route, standing up first.
func ActionAdvance(env UnitEnv) model.Action {
	if env.Self.Stance != model.Standing {
		return env.raiseStance()
	}
	if env.Squad == nil {
		return model.Pass
	}
	wp, ok := env.Squad.Current()
	if !ok || wp == env.Self.Pos() {
		return model.Pass
	}
	return env.approach(wp, pathfind.Cached)
}

// ActionRegroup brings a straggler back toward the nearest squadmate.
func ActionRegroup(env UnitEnv) model.Action {
	if env.Self.Stance != model.Standing {
		return env.raiseStance()
	}
	mate, ok := env.NearestSquadmate()
	if !ok {
		return model.Pass
	}
	return env.approach(mate.Pos(), pathfind.NoCache)
}

// --- Medic actions ---

func ActionPass(UnitEnv) model.Action { return model.Pass }

func ActionHealMedikit(env UnitEnv) model.Action {
	if env.healTarget == nil {
		return model.Pass
	}
	return env.useMedikit(*env.healTarget)
}

func ActionHeal(env UnitEnv) model.Action {
	if env.healTarget == nil {
		return model.Pass
	}
	return env.heal(*env.healTarget)
}

func ActionApproachWounded(env UnitEnv) model.Action {
	if env.healTarget == nil {
		return model.Pass
	}
	return env.approach(env.healTarget.Pos(), pathfind.NoCache)
}

// ActionFallBack moves the medic to the least exposed cell beside the squad.
func ActionFallBack(env UnitEnv) model.Action {
	rear, ok := env.RearPosition()
	if !ok || rear == env.Self.Pos() {
		return model.Pass
	}
	return env.approach(rear, pathfind.NoCache)
}
