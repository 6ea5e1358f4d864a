package rules

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/trooper/model"
)

// TrooperRules is the policy shared by commanders, soldiers, snipers and
// scouts, and by a field medic left without a squad.
func TrooperRules() []*Rule {
	return []*Rule{
		{
			Name:         "self-medikit",
			Priority:     1000,
			ConditionSrc: `CanSelfMedikit()`,
			Action:       ActionSelfMedikit,
		},
		{
			Name:         "eat-ration-in-contact",
			Priority:     900,
			ConditionSrc: `HasTarget() && TargetVisible() && RationBeneficial()`,
			Action:       ActionEatRation,
		},
		{
			Name:         "throw-grenade",
			Priority:     880,
			ConditionSrc: `HasTarget() && TargetVisible() && CanThrowGrenade()`,
			Action:       ActionThrowGrenade,
		},
		{
			Name:         "attack",
			Priority:     860,
			ConditionSrc: `HasTarget() && TargetVisible()`,
			Action:       ActionAttack,
		},
		{
			Name:         "raise-to-see",
			Priority:     840,
			ConditionSrc: `HasTarget() && TargetVisibleIfRaised()`,
			Action:       ActionRaiseStance,
		},
		{
			Name:         "approach-target",
			Priority:     820,
			ConditionSrc: `HasTarget()`,
			Action:       ActionApproachTarget,
		},
		{
			Name:         "collect-bonus",
			Priority:     700,
			ConditionSrc: `HasBonus()`,
			Action:       ActionCollectBonus,
		},
		{
			Name:         "hold-for-medic",
			Priority:     600,
			ConditionSrc: `WaitingForMedic()`,
			Action:       ActionHoldForMedic,
		},
		{
			Name:         "advance",
			Priority:     500,
			ConditionSrc: `true`,
			Action:       ActionAdvance,
		},
	}
}

// MedicRules is the field medic policy. A medic alone in its squad falls
// through to the trooper policy after its opening pass.
func MedicRules(trooper *Policy) []*Rule {
	return []*Rule{
		{
			Name:         "hold-first-turn",
			Priority:     1100,
			ConditionSrc: `FirstTurn()`,
			Action:       ActionPass,
		},
		{
			Name:         "lone-medic",
			Priority:     1050,
			ConditionSrc: `SquadSize() <= 1`,
			Action: func(env UnitEnv) model.Action {
				a, _ := trooper.Evaluate(env)
				return a
			},
		},
		{
			Name:         "eat-ration-before-heal",
			Priority:     1000,
			ConditionSrc: `HasHealTarget() && HealTargetInRange() && RationBeneficial()`,
			Action:       ActionEatRation,
		},
		{
			Name:         "use-medikit",
			Priority:     980,
			ConditionSrc: `HasHealTarget() && HealTargetInRange() && MedikitJustified()`,
			Action:       ActionHealMedikit,
		},
		{
			Name:         "heal",
			Priority:     960,
			ConditionSrc: `HasHealTarget() && HealTargetInRange()`,
			Action:       ActionHeal,
		},
		{
			Name:         "approach-wounded",
			Priority:     940,
			ConditionSrc: `HasHealTarget()`,
			Action:       ActionApproachWounded,
		},
		{
			Name:         "fall-back-rear",
			Priority:     800,
			ConditionSrc: `SquadmateEngaged()`,
			Action:       ActionFallBack,
		},
		{
			Name:         "collect-bonus",
			Priority:     700,
			ConditionSrc: `HasBonus()`,
			Action:       ActionCollectBonus,
		},
		{
			Name:         "advance",
			Priority:     500,
			ConditionSrc: `true`,
			Action:       ActionAdvance,
		},
	}
}

// CompilePolicy compiles every rule condition into expr bytecode and sorts
// the rules by descending priority.
func CompilePolicy(name string, rules []*Rule) (*Policy, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(UnitEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return &Policy{Name: name, rules: rules}, nil
}

// Evaluate runs the rules in priority order. The first rule whose condition
// holds claims the call; its action is the result even when that action is
// a pass. The name of the claiming rule is returned alongside.
func (p *Policy) Evaluate(env UnitEnv) (model.Action, string) {
	for _, r := range p.rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "policy", p.Name, "rule", r.Name, "error", err)
			continue
		}
		match, ok := result.(bool)
		if !ok || !match {
			continue
		}
		a := r.Action(env)
		slog.Debug("rule fired", "policy", p.Name, "rule", r.Name, "priority", r.Priority, "unit", env.Self.ID, "action", a)
		return a, r.Name
	}
	return model.Pass, ""
}

// Rules returns the compiled rules in evaluation order.
func (p *Policy) Rules() []*Rule { return p.rules }
