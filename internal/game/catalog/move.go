// Package catalog provides the read-only registry of move definitions.
package catalog

import "fmt"

// Type is an elemental type shared by moves and species.
type Type string

const (
	TypeNone     Type = ""
	TypeNormal   Type = "normal"
	TypeFire     Type = "fire"
	TypeWater    Type = "water"
	TypeElectric Type = "electric"
	TypeGrass    Type = "grass"
	TypeIce      Type = "ice"
	TypeFighting Type = "fighting"
	TypePoison   Type = "poison"
	TypeGround   Type = "ground"
	TypeFlying   Type = "flying"
	TypePsychic  Type = "psychic"
	TypeBug      Type = "bug"
	TypeRock     Type = "rock"
	TypeGhost    Type = "ghost"
	TypeDragon   Type = "dragon"
	TypeDark     Type = "dark"
	TypeSteel    Type = "steel"
	TypeFairy    Type = "fairy"
)

// AllTypes lists every elemental type in chart order. The move catalog
// reads one data source per entry.
var AllTypes = []Type{
	TypeNormal, TypeFire, TypeWater, TypeElectric, TypeGrass, TypeIce,
	TypeFighting, TypePoison, TypeGround, TypeFlying, TypePsychic, TypeBug,
	TypeRock, TypeGhost, TypeDragon, TypeDark, TypeSteel, TypeFairy,
}

// ParseType validates s as a known elemental type.
func ParseType(s string) (Type, error) {
	for _, t := range AllTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return TypeNone, fmt.Errorf("unknown type %q", s)
}

// Category selects which stat pair a move uses.
type Category string

const (
	CategoryPhysical Category = "physical"
	CategorySpecial  Category = "special"
	CategoryStatus   Category = "status"
)

// Stat identifies a stage-modifiable battle stat.
type Stat string

const (
	StatAttack    Stat = "attack"
	StatDefense   Stat = "defense"
	StatSpAttack  Stat = "special_attack"
	StatSpDefense Stat = "special_defense"
	StatSpeed     Stat = "speed"
	StatAccuracy  Stat = "accuracy"
	StatEvasion   Stat = "evasion"
)

// Status is a non-volatile (or confusion) condition a creature can hold.
type Status string

const (
	StatusNormal    Status = "normal"
	StatusSleep     Status = "sleep"
	StatusParalysis Status = "paralysis"
	StatusPoison    Status = "poison"
	StatusBurn      Status = "burn"
	StatusFreeze    Status = "freeze"
	StatusConfusion Status = "confusion"
)

// MoveDef is the immutable catalog entry for a single move.
type MoveDef struct {
	ID       string
	Name     string
	Type     Type
	Category Category
	Power    int
	// Accuracy is a percentage; 0 means the move never misses.
	Accuracy int
	PP       int
	Priority int
	Effects  []Effect
}

// IsStatus reports whether the move deals no direct damage.
func (m *MoveDef) IsStatus() bool { return m.Category == CategoryStatus || m.Power <= 0 }

// Validate checks that the move satisfies basic invariants.
//
// Postcondition: Returns nil iff ID and Name are non-empty, Category is known,
// Power >= 0, 0 <= Accuracy <= 100, PP >= 1 and Priority is in [-7, 5].
func (m *MoveDef) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("move: id must not be empty")
	}
	if m.Name == "" {
		return fmt.Errorf("move %q: name must not be empty", m.ID)
	}
	switch m.Category {
	case CategoryPhysical, CategorySpecial, CategoryStatus:
	default:
		return fmt.Errorf("move %q: unknown category %q", m.ID, m.Category)
	}
	if m.Power < 0 {
		return fmt.Errorf("move %q: power must be >= 0", m.ID)
	}
	if m.Accuracy < 0 || m.Accuracy > 100 {
		return fmt.Errorf("move %q: accuracy must be 0-100", m.ID)
	}
	if m.PP < 1 {
		return fmt.Errorf("move %q: pp must be >= 1", m.ID)
	}
	if m.Priority < -7 || m.Priority > 5 {
		return fmt.Errorf("move %q: priority must be in [-7, 5]", m.ID)
	}
	return nil
}

// Struggle is used when a creature has no move with PP left. It is typeless,
// never misses and recoils a quarter of the damage dealt.
var Struggle = &MoveDef{
	ID:       "struggle",
	Name:     "Struggle",
	Type:     TypeNone,
	Category: CategoryPhysical,
	Power:    50,
	Accuracy: 0,
	PP:       1,
	Effects:  []Effect{Recoil{Fraction: 0.25}},
}
