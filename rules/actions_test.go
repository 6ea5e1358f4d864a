package rules

import (
	"testing"

	"github.com/nstehr/trooper/model"
	"github.com/nstehr/trooper/model/mocks"
	"github.com/nstehr/trooper/pathfind"
	"go.uber.org/mock/gomock"
)

func TestStep(t *testing.T) {
	tests := []struct {
		name string
		ap   int
		to   model.Point
		want bool
	}{
		{"free neighbour", 10, model.Point{X: 2, Y: 1}, true},
		{"diagonal", 10, model.Point{X: 2, Y: 2}, false},
		{"two cells", 10, model.Point{X: 3, Y: 1}, false},
		{"obstacle", 10, model.Point{X: 1, Y: 0}, false},
		{"occupied", 10, model.Point{X: 0, Y: 1}, false},
		{"off grid", 10, model.Point{X: 1, Y: -1}, false},
		{"out of action points", 1, model.Point{X: 2, Y: 1}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			self := trooper(1, model.Soldier, 1, 1)
			self.ActionPoints = tc.ap
			w := newWorld(4, 3, self, trooper(2, model.Soldier, 0, 1))
			w.Grid.Set(model.Point{X: 1, Y: 0}, model.LowCover)

			got := testEnv(self, w).step(tc.to)
			if got.IsNone() == tc.want {
				t.Errorf("step(%v) = %v, want legal=%v", tc.to, got, tc.want)
			}
		})
	}
}

func TestStanceChangesSaturate(t *testing.T) {
	self := trooper(1, model.Soldier, 0, 0)
	w := newWorld(2, 2, self)

	if a := testEnv(self, w).raiseStance(); !a.IsNone() {
		t.Errorf("raiseStance() while standing = %v, want pass", a)
	}
	self.Stance = model.Prone
	if a := testEnv(self, w).lowerStance(); !a.IsNone() {
		t.Errorf("lowerStance() while prone = %v, want pass", a)
	}
	self.ActionPoints = 1
	if a := testEnv(self, w).raiseStance(); !a.IsNone() {
		t.Errorf("raiseStance() without points = %v, want pass", a)
	}
}

func TestCanThrowGrenade(t *testing.T) {
	tests := []struct {
		name    string
		mate    model.Point
		enemy   model.Point
		ap      int
		holding bool
		want    bool
	}{
		{"clear blast", model.Point{X: 0, Y: 1}, model.Point{X: 4, Y: 0}, 10, true, true},
		{"teammate beside target", model.Point{X: 4, Y: 1}, model.Point{X: 4, Y: 0}, 10, true, false},
		{"out of range", model.Point{X: 0, Y: 1}, model.Point{X: 7, Y: 0}, 10, true, false},
		{"not holding", model.Point{X: 0, Y: 1}, model.Point{X: 4, Y: 0}, 10, false, false},
		{"too expensive", model.Point{X: 0, Y: 1}, model.Point{X: 4, Y: 0}, 7, true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			self := trooper(1, model.Soldier, 0, 0)
			self.ActionPoints = tc.ap
			self.HoldingGrenade = tc.holding
			mate := trooper(2, model.Soldier, tc.mate.X, tc.mate.Y)
			enemy := hostile(3, tc.enemy.X, tc.enemy.Y)

			env := testEnv(self, newWorld(8, 3, self, mate, enemy))
			if got := env.CanThrowGrenade(); got != tc.want {
				t.Errorf("CanThrowGrenade() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRationBeneficial(t *testing.T) {
	tests := []struct {
		name    string
		ap      int
		initial int
		want    bool
	}{
		{"room to gain", 4, 10, true},
		{"would overflow initial points", 8, 10, false},
		{"cannot afford", 1, 10, false},
		{"unknown initial points", 8, 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			self := trooper(1, model.Soldier, 0, 0)
			self.HoldingFieldRation = true
			self.ActionPoints = tc.ap
			self.InitialActionPoints = tc.initial

			if got := testEnv(self, newWorld(2, 2, self)).RationBeneficial(); got != tc.want {
				t.Errorf("RationBeneficial() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCanSelfMedikit(t *testing.T) {
	self := trooper(1, model.Soldier, 0, 0)
	self.HoldingMedikit = true

	self.HP = 90
	if testEnv(self, newWorld(2, 2, self)).CanSelfMedikit() {
		t.Error("medikit used for a scratch")
	}
	self.HP = 60
	if !testEnv(self, newWorld(2, 2, self)).CanSelfMedikit() {
		t.Error("medikit not used when missing hitpoints cover the self bonus")
	}
}

func TestRearPositionPrefersHiddenCell(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	vis := mocks.NewMockVisibility(ctrl)
	vis.EXPECT().
		IsVisible(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ float64, _, _ int, _ model.Stance, toX, _ int, _ model.Stance) bool {
			return toX >= 2
		}).
		AnyTimes()

	medic := trooper(1, model.FieldMedic, 0, 4)
	mate := trooper(2, model.Soldier, 2, 2)
	w := newWorld(5, 5, medic, mate, hostile(3, 4, 2))
	w.Visibility = vis

	env := testEnv(medic, w)
	got, ok := env.RearPosition()
	if !ok || got != (model.Point{X: 1, Y: 2}) {
		t.Errorf("RearPosition() = %v, %v; want (1,2)", got, ok)
	}
	if !env.SquadmateEngaged() {
		t.Error("SquadmateEngaged() = false with an enemy in view")
	}
	if a := ActionFallBack(env); a.Type != model.ActionMove {
		t.Errorf("ActionFallBack() = %v, want a move", a)
	}
}

func TestApproachRecomputesBlockedCachedPath(t *testing.T) {
	self := trooper(1, model.Soldier, 0, 0)
	w := newWorld(4, 4, self)
	env := testEnv(self, w)
	goal := model.Point{X: 3, Y: 0}

	if got := env.approach(goal, pathfind.Cached); got != model.MoveTo(model.Point{X: 1, Y: 0}) {
		t.Fatalf("approach() = %v, want move to (1,0)", got)
	}

	// Someone steps onto the cached next cell.
	w.Units = append(w.Units, trooper(2, model.Soldier, 1, 0))
	finder := env.Finder
	env = testEnv(self, w)
	env.Finder = finder

	if got := env.approach(goal, pathfind.Cached); got != model.MoveTo(model.Point{X: 0, Y: 1}) {
		t.Errorf("approach() = %v, want detour via (0,1)", got)
	}
	if finder.Searches() != 2 {
		t.Errorf("Searches() = %d, want 2", finder.Searches())
	}
}
