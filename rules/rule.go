package rules

import (
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/trooper/model"
)

// ActionFunc turns a matched rule into the unit's action for this call. It
// may return model.Pass when the chosen action cannot be afforded.
type ActionFunc func(env UnitEnv) model.Action

// Rule is the atomic unit of trooper behaviour: a condition → action pair.
// Within a policy the first rule whose condition holds claims the call.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	ConditionSrc string      // expr source (preserved for logging)
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}

// Policy is a compiled, priority-ordered rule set for one kind of trooper.
type Policy struct {
	Name  string
	rules []*Rule
}
