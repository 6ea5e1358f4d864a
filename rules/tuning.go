package rules

import "github.com/nstehr/trooper/model"

// Tuning holds the play-tested constants of the decision policies. They have
// no derivation beyond match experience; change them through configuration,
// not code.
type Tuning struct {
	// SquadRangeFactor scales the squad's mean shooting range into the
	// distance a trooper may stray from its squadmates.
	SquadRangeFactor float64 `yaml:"squad_range_factor"`
	// MedicSquadRangeFactor is the tighter leash applied to field medics.
	MedicSquadRangeFactor float64 `yaml:"medic_squad_range_factor"`
	// WaypointReachFraction of a unit's vision range counts as having
	// reached the current waypoint.
	WaypointReachFraction float64 `yaml:"waypoint_reach_fraction"`
	// HealPriorityThreshold: in-range allies below this health fraction
	// are healed first.
	HealPriorityThreshold float64 `yaml:"heal_priority_threshold"`
	// CriticalHealthThreshold: above this health fraction a medic defers
	// healing itself in favour of others.
	CriticalHealthThreshold float64 `yaml:"critical_health_threshold"`
	HealRange               float64 `yaml:"heal_range"`
	BonusSearchRadius       float64 `yaml:"bonus_search_radius"`
	// MedikitWasteTolerance: a medikit is used only when the missing
	// hitpoints cover at least this fraction of its bonus.
	MedikitWasteTolerance   float64 `yaml:"medikit_waste_tolerance"`
	GrenadeCollateralRadius int     `yaml:"grenade_collateral_radius"`
}

// DefaultTuning returns the constants the bot plays with out of the box.
func DefaultTuning() Tuning {
	return Tuning{
		SquadRangeFactor:        1.5,
		MedicSquadRangeFactor:   1.0,
		WaypointReachFraction:   1.0,
		HealPriorityThreshold:   0.8,
		CriticalHealthThreshold: 0.5,
		HealRange:               1.0,
		BonusSearchRadius:       4.0,
		MedikitWasteTolerance:   0.8,
		GrenadeCollateralRadius: 1,
	}
}

// Validate clamps every constant to a range the policies can work with.
func (t *Tuning) Validate() {
	t.SquadRangeFactor = model.Clamp(t.SquadRangeFactor, 0.5, 5)
	t.MedicSquadRangeFactor = model.Clamp(t.MedicSquadRangeFactor, 0.5, 5)
	t.WaypointReachFraction = model.Clamp(t.WaypointReachFraction, 0.1, 2)
	t.HealPriorityThreshold = model.Clamp(t.HealPriorityThreshold, 0, 1)
	t.CriticalHealthThreshold = model.Clamp(t.CriticalHealthThreshold, 0, 1)
	t.HealRange = model.Clamp(t.HealRange, 0, 3)
	t.BonusSearchRadius = model.Clamp(t.BonusSearchRadius, 0, 20)
	t.MedikitWasteTolerance = model.Clamp(t.MedikitWasteTolerance, 0, 1)
	t.GrenadeCollateralRadius = model.Clamp(t.GrenadeCollateralRadius, 0, 3)
}

