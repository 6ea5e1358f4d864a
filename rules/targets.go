package rules

import "github.com/nstehr/trooper/model"

// SelectEnemyTarget picks the enemy Self should deal with. Among enemies Self
// can see from its current stance the weakest wins; when none is visible the
// enemy closest to the squad centroid is pursued instead.
func (e UnitEnv) SelectEnemyTarget() *model.Unit {
	if len(e.enemies) == 0 {
		return nil
	}
	var best *model.Unit
	for i := range e.enemies {
		en := &e.enemies[i]
		if !e.canSee(e.Self, e.Self.Stance, *en) {
			continue
		}
		if best == nil || en.HP < best.HP {
			best = en
		}
	}
	if best != nil {
		return best
	}

	centroid := e.Centroid()
	for i := range e.enemies {
		en := &e.enemies[i]
		if best == nil || centroid.Distance(en.Pos()) < centroid.Distance(best.Pos()) {
			best = en
		}
	}
	return best
}

// SelectHealTarget picks the teammate a medic should treat next, Self
// included. Badly hurt allies already within reach come first.
func (e UnitEnv) SelectHealTarget() *model.Unit {
	var damaged []*model.Unit
	for i := range e.mates {
		if e.mates[i].Damaged() {
			damaged = append(damaged, &e.mates[i])
		}
	}
	if len(damaged) == 0 {
		return nil
	}

	here := e.Self.Pos()
	var urgent *model.Unit
	for _, m := range damaged {
		if here.Distance(m.Pos()) > e.Tuning.HealRange || m.HealthFraction() >= e.Tuning.HealPriorityThreshold {
			continue
		}
		if urgent == nil || m.HP < urgent.HP {
			urgent = m
		}
	}
	if urgent != nil {
		return urgent
	}

	// Nearest damaged teammate, with Self passed over while it can still
	// hold on and someone else needs treatment.
	selfHolds := e.Self.HealthFraction() > e.Tuning.CriticalHealthThreshold
	var nearest *model.Unit
	for _, m := range damaged {
		if m.ID == e.Self.ID && selfHolds && len(damaged) > 1 {
			continue
		}
		if nearest == nil || here.Distance(m.Pos()) < here.Distance(nearest.Pos()) {
			nearest = m
		}
	}
	return nearest
}

// SelectBonus picks the nearest item worth collecting: one Self does not
// already carry, close enough to Self, and not so far from the squad that
// fetching it would break formation.
func (e UnitEnv) SelectBonus() *model.Bonus {
	here := e.Self.Pos()
	centroid := e.Centroid()
	limit := e.SquadRangeLimit()

	var best *model.Bonus
	for i := range e.World.Bonuses {
		b := &e.World.Bonuses[i]
		if e.Self.Holds(b.Type) {
			continue
		}
		d := here.Distance(b.Pos())
		if d > e.Tuning.BonusSearchRadius || centroid.Distance(b.Pos()) > limit {
			continue
		}
		if best == nil || d < here.Distance(best.Pos()) {
			best = b
		}
	}
	return best
}
