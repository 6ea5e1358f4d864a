package model

import "fmt"

type ActionType string

// Wire names; must stay in sync with the game server's ActionType enum.
const (
	ActionNone           ActionType = "none"
	ActionMove           ActionType = "move"
	ActionRaiseStance    ActionType = "raise_stance"
	ActionLowerStance    ActionType = "lower_stance"
	ActionShoot          ActionType = "shoot"
	ActionThrowGrenade   ActionType = "throw_grenade"
	ActionHeal           ActionType = "heal"
	ActionUseMedikit     ActionType = "use_medikit"
	ActionEatFieldRation ActionType = "eat_field_ration"
)

// Action is the single decision produced for a unit per call. X and Y are
// only meaningful for targeted actions.
type Action struct {
	Type ActionType `json:"type"`
	X    int        `json:"x"`
	Y    int        `json:"y"`
}

// Pass is the "do nothing" action.
var Pass = Action{Type: ActionNone}

func (a Action) IsNone() bool { return a.Type == "" || a.Type == ActionNone }

func (a Action) Target() Point { return Point{a.X, a.Y} }

func (a Action) String() string {
	switch a.Type {
	case "", ActionNone:
		return "none"
	case ActionRaiseStance, ActionLowerStance, ActionEatFieldRation:
		return string(a.Type)
	}
	return fmt.Sprintf("%s(%d,%d)", a.Type, a.X, a.Y)
}

func MoveTo(p Point) Action { return Action{Type: ActionMove, X: p.X, Y: p.Y} }
func ShootAt(p Point) Action { return Action{Type: ActionShoot, X: p.X, Y: p.Y} }
func ThrowGrenadeAt(p Point) Action { return Action{Type: ActionThrowGrenade, X: p.X, Y: p.Y} }
func HealAt(p Point) Action { return Action{Type: ActionHeal, X: p.X, Y: p.Y} }
func UseMedikitAt(p Point) Action { return Action{Type: ActionUseMedikit, X: p.X, Y: p.Y} }
