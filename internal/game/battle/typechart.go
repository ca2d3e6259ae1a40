package battle

import "github.com/cory-johannsen/monbattle/internal/game/catalog"

// typeChart lists every non-neutral attacking-vs-defending matchup.
var typeChart = map[catalog.Type]map[catalog.Type]float64{
	catalog.TypeNormal: {catalog.TypeRock: 0.5, catalog.TypeGhost: 0, catalog.TypeSteel: 0.5},
	catalog.TypeFire: {
		catalog.TypeFire: 0.5, catalog.TypeWater: 0.5, catalog.TypeGrass: 2, catalog.TypeIce: 2,
		catalog.TypeBug: 2, catalog.TypeRock: 0.5, catalog.TypeDragon: 0.5, catalog.TypeSteel: 2,
	},
	catalog.TypeWater: {
		catalog.TypeFire: 2, catalog.TypeWater: 0.5, catalog.TypeGrass: 0.5, catalog.TypeGround: 2,
		catalog.TypeRock: 2, catalog.TypeDragon: 0.5,
	},
	catalog.TypeElectric: {
		catalog.TypeWater: 2, catalog.TypeElectric: 0.5, catalog.TypeGrass: 0.5, catalog.TypeGround: 0,
		catalog.TypeFlying: 2, catalog.TypeDragon: 0.5,
	},
	catalog.TypeGrass: {
		catalog.TypeFire: 0.5, catalog.TypeWater: 2, catalog.TypeGrass: 0.5, catalog.TypePoison: 0.5,
		catalog.TypeGround: 2, catalog.TypeFlying: 0.5, catalog.TypeBug: 0.5, catalog.TypeRock: 2,
		catalog.TypeDragon: 0.5, catalog.TypeSteel: 0.5,
	},
	catalog.TypeIce: {
		catalog.TypeFire: 0.5, catalog.TypeWater: 0.5, catalog.TypeGrass: 2, catalog.TypeIce: 0.5,
		catalog.TypeGround: 2, catalog.TypeFlying: 2, catalog.TypeDragon: 2, catalog.TypeSteel: 0.5,
	},
	catalog.TypeFighting: {
		catalog.TypeNormal: 2, catalog.TypeIce: 2, catalog.TypePoison: 0.5, catalog.TypeFlying: 0.5,
		catalog.TypePsychic: 0.5, catalog.TypeBug: 0.5, catalog.TypeRock: 2, catalog.TypeGhost: 0,
		catalog.TypeDark: 2, catalog.TypeSteel: 2, catalog.TypeFairy: 0.5,
	},
	catalog.TypePoison: {
		catalog.TypeGrass: 2, catalog.TypePoison: 0.5, catalog.TypeGround: 0.5, catalog.TypeRock: 0.5,
		catalog.TypeGhost: 0.5, catalog.TypeSteel: 0, catalog.TypeFairy: 2,
	},
	catalog.TypeGround: {
		catalog.TypeFire: 2, catalog.TypeElectric: 2, catalog.TypeGrass: 0.5, catalog.TypePoison: 2,
		catalog.TypeFlying: 0, catalog.TypeBug: 0.5, catalog.TypeRock: 2, catalog.TypeSteel: 2,
	},
	catalog.TypeFlying: {
		catalog.TypeElectric: 0.5, catalog.TypeGrass: 2, catalog.TypeFighting: 2, catalog.TypeBug: 2,
		catalog.TypeRock: 0.5, catalog.TypeSteel: 0.5,
	},
	catalog.TypePsychic: {
		catalog.TypeFighting: 2, catalog.TypePoison: 2, catalog.TypePsychic: 0.5, catalog.TypeDark: 0,
		catalog.TypeSteel: 0.5,
	},
	catalog.TypeBug: {
		catalog.TypeFire: 0.5, catalog.TypeGrass: 2, catalog.TypeFighting: 0.5, catalog.TypePoison: 0.5,
		catalog.TypeFlying: 0.5, catalog.TypePsychic: 2, catalog.TypeGhost: 0.5, catalog.TypeDark: 2,
		catalog.TypeSteel: 0.5, catalog.TypeFairy: 0.5,
	},
	catalog.TypeRock: {
		catalog.TypeFire: 2, catalog.TypeIce: 2, catalog.TypeFighting: 0.5, catalog.TypeGround: 0.5,
		catalog.TypeFlying: 2, catalog.TypeBug: 2, catalog.TypeSteel: 0.5,
	},
	catalog.TypeGhost: {
		catalog.TypeNormal: 0, catalog.TypePsychic: 2, catalog.TypeGhost: 2, catalog.TypeDark: 0.5,
	},
	catalog.TypeDragon: {catalog.TypeDragon: 2, catalog.TypeSteel: 0.5, catalog.TypeFairy: 0},
	catalog.TypeDark: {
		catalog.TypeFighting: 0.5, catalog.TypePsychic: 2, catalog.TypeGhost: 2, catalog.TypeDark: 0.5,
		catalog.TypeFairy: 0.5,
	},
	catalog.TypeSteel: {
		catalog.TypeFire: 0.5, catalog.TypeWater: 0.5, catalog.TypeElectric: 0.5, catalog.TypeIce: 2,
		catalog.TypeRock: 2, catalog.TypeSteel: 0.5, catalog.TypeFairy: 2,
	},
	catalog.TypeFairy: {
		catalog.TypeFire: 0.5, catalog.TypeFighting: 2, catalog.TypePoison: 0.5, catalog.TypeDragon: 2,
		catalog.TypeDark: 2, catalog.TypeSteel: 0.5,
	},
}

// Matchup returns the multiplier of one attacking type against one defending type.
// Typeless attacks are always neutral.
func Matchup(attack, defend catalog.Type) float64 {
	if m, ok := typeChart[attack][defend]; ok {
		return m
	}
	return 1
}

// Effectiveness is the product of Matchup over every defending type.
//
// Postcondition: Returns one of 0, 0.25, 0.5, 1, 2, 4 for up to two defending types.
func Effectiveness(attack catalog.Type, defenders []catalog.Type) float64 {
	eff := 1.0
	for _, d := range defenders {
		eff *= Matchup(attack, d)
	}
	return eff
}
