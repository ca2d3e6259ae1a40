// Package capture computes capture outcomes for thrown balls.
package capture

import (
	"strings"

	"github.com/cory-johannsen/monbattle/internal/game/catalog"
)

// Ball identifies a capture device by item ID.
type Ball string

const (
	PokeBall    Ball = "poke_ball"
	GreatBall   Ball = "great_ball"
	UltraBall   Ball = "ultra_ball"
	MasterBall  Ball = "master_ball"
	ParkBall    Ball = "park_ball"
	SafariBall  Ball = "safari_ball"
	SportBall   Ball = "sport_ball"
	PremierBall Ball = "premier_ball"
	LuxuryBall  Ball = "luxury_ball"
	HealBall    Ball = "heal_ball"
	FriendBall  Ball = "friend_ball"
	CherishBall Ball = "cherish_ball"
	NetBall     Ball = "net_ball"
	DiveBall    Ball = "dive_ball"
	DuskBall    Ball = "dusk_ball"
	FastBall    Ball = "fast_ball"
	HeavyBall   Ball = "heavy_ball"
	LevelBall   Ball = "level_ball"
	MoonBall    Ball = "moon_ball"
	QuickBall   Ball = "quick_ball"
	TimerBall   Ball = "timer_ball"
	NestBall    Ball = "nest_ball"
)

// baseModifiers is the flat modifier table. Contextual balls start at 1 and
// are adjusted by contextModifier.
var baseModifiers = map[Ball]float64{
	PokeBall:    1,
	GreatBall:   1.5,
	UltraBall:   2,
	MasterBall:  255,
	ParkBall:    255,
	SafariBall:  1.5,
	SportBall:   1.5,
	PremierBall: 1,
	LuxuryBall:  1,
	HealBall:    1,
	FriendBall:  1,
	CherishBall: 1,
	NetBall:     1,
	DiveBall:    1,
	DuskBall:    1,
	FastBall:    1,
	HeavyBall:   1,
	LevelBall:   1,
	MoonBall:    1,
	QuickBall:   1,
	TimerBall:   1,
	NestBall:    1,
}

// IsBall reports whether itemID names a known capture device.
func IsBall(itemID string) bool {
	_, ok := baseModifiers[Ball(itemID)]
	return ok
}

// Guaranteed reports whether b always captures.
func (b Ball) Guaranteed() bool { return b == MasterBall || b == ParkBall }

var (
	waterLocations = []string{"water", "sea", "ocean", "lake", "river", "surf"}
	duskLocations  = []string{"cave", "night"}
)

// BallModifier returns the effective modifier for the attempt's ball: the
// table value, overridden by the ball's contextual rule when it applies.
//
// Postcondition: Returns >= 1 for every known ball; 1 for unknown balls.
func BallModifier(a Attempt, t TemplateData) float64 {
	mod, ok := baseModifiers[a.Ball]
	if !ok {
		return 1
	}
	if ctx, applies := contextModifier(a, t); applies {
		return ctx
	}
	return mod
}

func contextModifier(a Attempt, t TemplateData) (float64, bool) {
	switch a.Ball {
	case NetBall:
		if t.hasType(catalog.TypeWater) || t.hasType(catalog.TypeBug) {
			return 3.5, true
		}
	case DiveBall:
		if locationMatches(a.Location, waterLocations) {
			return 3.5, true
		}
	case DuskBall:
		if locationMatches(a.Location, duskLocations) {
			return 3, true
		}
	case FastBall:
		if t.BaseSpeed >= 100 {
			return 4, true
		}
	case HeavyBall:
		switch {
		case t.Weight >= 300:
			return 4, true
		case t.Weight >= 200:
			return 3, true
		case t.Weight >= 100:
			return 2, true
		}
	case LevelBall:
		if a.TargetLevel < 1 {
			return 0, false
		}
		switch {
		case a.PlayerLevel >= 4*a.TargetLevel:
			return 8, true
		case a.PlayerLevel >= 2*a.TargetLevel:
			return 4, true
		case a.PlayerLevel > a.TargetLevel:
			return 2, true
		}
	case MoonBall:
		for _, item := range t.EvolutionItems {
			if item == "moon_stone" {
				return 4, true
			}
		}
	case QuickBall:
		if a.Turn <= 1 {
			return 5, true
		}
	case TimerBall:
		m := 1 + float64(a.Turn)*1229/4096
		if m > 4 {
			m = 4
		}
		return m, true
	case NestBall:
		m := float64(41-a.TargetLevel) / 10
		if m < 1 {
			m = 1
		}
		return m, true
	}
	return 0, false
}

func locationMatches(location string, needles []string) bool {
	loc := strings.ToLower(location)
	for _, n := range needles {
		if strings.Contains(loc, n) {
			return true
		}
	}
	return false
}

// StatusModifier returns the capture multiplier for the target's status.
func StatusModifier(s catalog.Status) float64 {
	switch s {
	case catalog.StatusSleep, catalog.StatusFreeze:
		return 2.5
	case catalog.StatusParalysis, catalog.StatusBurn, catalog.StatusPoison:
		return 1.5
	default:
		return 1.0
	}
}
