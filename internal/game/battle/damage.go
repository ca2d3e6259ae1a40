package battle

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/monbattle/internal/game/catalog"
	"github.com/cory-johannsen/monbattle/internal/game/dice"
)

const (
	// CriticalOdds is the denominator of the 1-in-N critical hit chance.
	CriticalOdds       = 24
	CriticalMultiplier = 1.5
	STABMultiplier     = 1.5
	MinVariance        = 0.85
	MaxVariance        = 1.00
	// confusionPower is the power of the typeless hit a confused creature deals itself.
	confusionPower = 40
)

// StageMultiplier returns (2+s)/2 for positive stages and 2/(2−s) otherwise.
func StageMultiplier(stage int) float64 {
	if stage > 0 {
		return float64(2+stage) / 2
	}
	return 2 / float64(2-stage)
}

// ApplyStage multiplies stat by StageMultiplier(stage) and floors the result.
func ApplyStage(stat, stage int) int {
	return int(math.Floor(float64(stat) * StageMultiplier(stage)))
}

// AccuracyMultiplier returns (3+s)/3 for positive stages and 3/(3−s) otherwise.
func AccuracyMultiplier(stage int) float64 {
	if stage > 0 {
		return float64(3+stage) / 3
	}
	return 3 / float64(3-stage)
}

// EvasionMultiplier is the inverse of AccuracyMultiplier: a higher evasion
// stage on the defender lowers the hit chance.
func EvasionMultiplier(stage int) float64 {
	return 1 / AccuracyMultiplier(stage)
}

// DamageResult is the outcome of one damage calculation.
type DamageResult struct {
	Damage        int
	Effectiveness float64
	Critical      bool
	// Lines are the battle log lines the hit produced.
	Lines []string
}

// Calculator computes accuracy and damage. All draws come from its Source.
type Calculator struct {
	src dice.Source
}

// NewCalculator returns a Calculator drawing from src.
//
// Precondition: src must be non-nil.
func NewCalculator(src dice.Source) *Calculator {
	return &Calculator{src: src}
}

// Hits rolls the accuracy gate for move.
//
// Postcondition: Moves with Accuracy 0 always hit without consuming a draw.
func (c *Calculator) Hits(attacker, defender *Participant, move *catalog.MoveDef) bool {
	if move.Accuracy <= 0 {
		return true
	}
	threshold := float64(move.Accuracy) *
		AccuracyMultiplier(attacker.Stage(catalog.StatAccuracy)) *
		EvasionMultiplier(defender.Stage(catalog.StatEvasion))
	return dice.Uniform(c.src, 0, 100) < threshold
}

// Damage computes the damage move deals from attacker to defender. It does
// not mutate either participant.
//
// Postcondition: Damage is 0 for status moves; otherwise Damage >= 1.
// Draw order is critical hit then variance.
func (c *Calculator) Damage(attacker, defender *Participant, move *catalog.MoveDef) DamageResult {
	if move.IsStatus() {
		return DamageResult{Effectiveness: 1}
	}
	atk, def := attackingStats(attacker, defender, move.Category)
	dmg := baseDamage(attacker.Level, atk, def, move.Power)

	if attacker.HasType(move.Type) {
		dmg = math.Floor(dmg * STABMultiplier)
	}

	eff := Effectiveness(move.Type, defender.Types)
	dmg = math.Floor(dmg * eff)

	res := DamageResult{Effectiveness: eff}
	if c.src.Intn(CriticalOdds) == 0 {
		res.Critical = true
		dmg = math.Floor(dmg * CriticalMultiplier)
	}

	dmg = math.Floor(dmg * dice.Uniform(c.src, MinVariance, MaxVariance))
	res.Damage = max(int(dmg), 1)

	if res.Critical {
		res.Lines = append(res.Lines, "A critical hit!")
	}
	switch {
	case eff == 0:
		res.Lines = append(res.Lines, fmt.Sprintf("It had almost no effect on %s...", defender.Name))
	case eff > 1:
		res.Lines = append(res.Lines, "It's super effective!")
	case eff < 1:
		res.Lines = append(res.Lines, "It's not very effective...")
	}
	return res
}

// ConfusionDamage computes the typeless physical hit a confused creature
// deals itself. It never crits and ignores STAB and type.
//
// Postcondition: Returns a value >= 1.
func (c *Calculator) ConfusionDamage(p *Participant) int {
	atk := ApplyStage(p.Stats.Attack, p.Stage(catalog.StatAttack))
	def := ApplyStage(p.Stats.Defense, p.Stage(catalog.StatDefense))
	dmg := baseDamage(p.Level, atk, def, confusionPower)
	dmg = math.Floor(dmg * dice.Uniform(c.src, MinVariance, MaxVariance))
	return max(int(dmg), 1)
}

func attackingStats(attacker, defender *Participant, cat catalog.Category) (atk, def int) {
	if cat == catalog.CategorySpecial {
		return ApplyStage(attacker.Stats.SpAttack, attacker.Stage(catalog.StatSpAttack)),
			ApplyStage(defender.Stats.SpDefense, defender.Stage(catalog.StatSpDefense))
	}
	return ApplyStage(attacker.Stats.Attack, attacker.Stage(catalog.StatAttack)),
		ApplyStage(defender.Stats.Defense, defender.Stage(catalog.StatDefense))
}

// baseDamage is floor(((2L+10)/250) · (atk/def) · power + 2).
func baseDamage(level, atk, def, power int) float64 {
	def = max(def, 1)
	return math.Floor((float64(2*level+10)/250)*(float64(atk)/float64(def))*float64(power) + 2)
}
