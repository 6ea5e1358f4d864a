package model

import (
	"fmt"
	"strings"
)

// Stance is a unit's posture. The order matters: lower stances cost more to
// move but hide better and shoot harder.
type Stance int

const (
	Prone Stance = iota
	Kneeling
	Standing
)

var stanceNames = [...]string{"PRONE", "KNEELING", "STANDING"}

func (s Stance) Valid() bool { return s >= Prone && s <= Standing }

func (s Stance) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Stance(%d)", int(s))
	}
	return stanceNames[s]
}

// Raise returns the next higher stance, saturating at Standing.
func (s Stance) Raise() Stance { return min(s+1, Standing) }

// Lower returns the next lower stance, saturating at Prone.
func (s Stance) Lower() Stance { return max(s-1, Prone) }

func ParseStance(name string) (Stance, error) {
	for i, n := range stanceNames {
		if strings.EqualFold(n, name) {
			return Stance(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stance %q", name)
}

func (s Stance) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid stance %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Stance) UnmarshalText(b []byte) error {
	v, err := ParseStance(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Role is a trooper's specialisation. The set is closed: every role resolves
// to exactly one decision policy.
type Role int

const (
	Commander Role = iota
	FieldMedic
	Soldier
	Sniper
	Scout
)

var roleNames = [...]string{"COMMANDER", "FIELD_MEDIC", "SOLDIER", "SNIPER", "SCOUT"}

func (r Role) Valid() bool { return r >= Commander && r <= Scout }

func (r Role) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

func ParseRole(name string) (Role, error) {
	for i, n := range roleNames {
		if strings.EqualFold(n, name) {
			return Role(i), nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", name)
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

type Unit struct {
	ID                  int     `json:"id"`
	PlayerID            int     `json:"playerId"`
	Teammate            bool    `json:"teammate"`
	Role                Role    `json:"role"`
	X                   int     `json:"x"`
	Y                   int     `json:"y"`
	Stance              Stance  `json:"stance"`
	HP                  int     `json:"hp"`
	MaxHP               int     `json:"maxHp"`
	ActionPoints        int     `json:"actionPoints"`
	InitialActionPoints int     `json:"initialActionPoints"`
	ShootCost           int     `json:"shootCost"`
	ShootingRange       float64 `json:"shootingRange"`
	VisionRange         float64 `json:"visionRange"`
	StandingDamage      int     `json:"standingDamage"`
	KneelingDamage      int     `json:"kneelingDamage"`
	ProneDamage         int     `json:"proneDamage"`
	HoldingGrenade      bool    `json:"holdingGrenade"`
	HoldingMedikit      bool    `json:"holdingMedikit"`
	HoldingFieldRation  bool    `json:"holdingFieldRation"`
}

func (u Unit) Pos() Point { return Point{u.X, u.Y} }

// Damage returns the per-shot damage at stance s.
func (u Unit) Damage(s Stance) int {
	switch s {
	case Prone:
		return u.ProneDamage
	case Kneeling:
		return u.KneelingDamage
	default:
		return u.StandingDamage
	}
}

// HealthFraction returns HP/MaxHP, or 1 for units without a max.
func (u Unit) HealthFraction() float64 {
	if u.MaxHP <= 0 {
		return 1
	}
	return float64(u.HP) / float64(u.MaxHP)
}

func (u Unit) Damaged() bool { return u.HP < u.MaxHP }

// Holds reports whether the unit already carries an item of type t.
func (u Unit) Holds(t BonusType) bool {
	switch t {
	case BonusGrenade:
		return u.HoldingGrenade
	case BonusMedikit:
		return u.HoldingMedikit
	case BonusFieldRation:
		return u.HoldingFieldRation
	}
	return false
}

type BonusType string

const (
	BonusGrenade     BonusType = "GRENADE"
	BonusMedikit     BonusType = "MEDIKIT"
	BonusFieldRation BonusType = "FIELD_RATION"
)

type Bonus struct {
	ID   int       `json:"id"`
	Type BonusType `json:"type"`
	X    int       `json:"x"`
	Y    int       `json:"y"`
}

func (b Bonus) Pos() Point { return Point{b.X, b.Y} }

// GameConfig carries the match constants sent once in the handshake.
type GameConfig struct {
	StandingMoveCost                 int     `json:"standingMoveCost"`
	KneelingMoveCost                 int     `json:"kneelingMoveCost"`
	ProneMoveCost                    int     `json:"proneMoveCost"`
	StanceChangeCost                 int     `json:"stanceChangeCost"`
	FieldMedicHealCost               int     `json:"fieldMedicHealCost"`
	FieldMedicHealBonusHitpoints     int     `json:"fieldMedicHealBonusHitpoints"`
	FieldMedicHealSelfBonusHitpoints int     `json:"fieldMedicHealSelfBonusHitpoints"`
	GrenadeThrowCost                 int     `json:"grenadeThrowCost"`
	GrenadeThrowRange                float64 `json:"grenadeThrowRange"`
	GrenadeDirectDamage              int     `json:"grenadeDirectDamage"`
	GrenadeCollateralDamage          int     `json:"grenadeCollateralDamage"`
	MedikitUseCost                   int     `json:"medikitUseCost"`
	MedikitBonusHitpoints            int     `json:"medikitBonusHitpoints"`
	MedikitHealSelfBonusHitpoints    int     `json:"medikitHealSelfBonusHitpoints"`
	FieldRationEatCost               int     `json:"fieldRationEatCost"`
	FieldRationBonusActionPoints     int     `json:"fieldRationBonusActionPoints"`
}

// DefaultGameConfig returns the stock match constants.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		StandingMoveCost:                 2,
		KneelingMoveCost:                 4,
		ProneMoveCost:                    6,
		StanceChangeCost:                 2,
		FieldMedicHealCost:               1,
		FieldMedicHealBonusHitpoints:     5,
		FieldMedicHealSelfBonusHitpoints: 3,
		GrenadeThrowCost:                 8,
		GrenadeThrowRange:                5,
		GrenadeDirectDamage:              80,
		GrenadeCollateralDamage:          60,
		MedikitUseCost:                   2,
		MedikitBonusHitpoints:            50,
		MedikitHealSelfBonusHitpoints:    30,
		FieldRationEatCost:               2,
		FieldRationBonusActionPoints:     5,
	}
}

// MoveCost returns the action-point cost of one step at stance s.
func (c GameConfig) MoveCost(s Stance) int {
	switch s {
	case Prone:
		return c.ProneMoveCost
	case Kneeling:
		return c.KneelingMoveCost
	default:
		return c.StandingMoveCost
	}
}

// World is one turn's battlefield snapshot. It is rebuilt from the wire
// every call and never mutated by the engine.
type World struct {
	MoveIndex int     `json:"moveIndex"`
	Grid      *Grid   `json:"grid"`
	Units     []Unit  `json:"units"`
	Bonuses   []Bonus `json:"bonuses"`

	// CellVisibilities is the server-computed visibility matrix. When empty
	// the world falls back to grid line of sight.
	CellVisibilities []bool `json:"cellVisibilities,omitempty"`

	// Visibility overrides both of the above when set.
	Visibility Visibility `json:"-"`
}

// IsVisible reports whether a unit at from with stance fromStance, limited to
// maxRange, can see a unit at to with stance toStance.
func (w *World) IsVisible(maxRange float64, fromX, fromY int, fromStance Stance, toX, toY int, toStance Stance) bool {
	if w.Visibility != nil {
		return w.Visibility.IsVisible(maxRange, fromX, fromY, fromStance, toX, toY, toStance)
	}
	if len(w.CellVisibilities) > 0 {
		m := VisibilityMatrix{Grid: w.Grid, Cells: w.CellVisibilities}
		return m.IsVisible(maxRange, fromX, fromY, fromStance, toX, toY, toStance)
	}
	return LineOfSight{Grid: w.Grid}.IsVisible(maxRange, fromX, fromY, fromStance, toX, toY, toStance)
}

func (w *World) Teammates() []Unit {
	var out []Unit
	for _, u := range w.Units {
		if u.Teammate {
			out = append(out, u)
		}
	}
	return out
}

func (w *World) Enemies() []Unit {
	var out []Unit
	for _, u := range w.Units {
		if !u.Teammate {
			out = append(out, u)
		}
	}
	return out
}

// Unit finds a unit by id.
func (w *World) Unit(id int) (Unit, bool) {
	for _, u := range w.Units {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// Occupied reports whether any unit stands on p.
func (w *World) Occupied(p Point) bool {
	for _, u := range w.Units {
		if u.X == p.X && u.Y == p.Y {
			return true
		}
	}
	return false
}
