package battle

import (
	"fmt"
	"math"

	"github.com/cory-johannsen/monbattle/internal/game/catalog"
	"github.com/cory-johannsen/monbattle/internal/game/dice"
)

const (
	// ThawChance is the percentage chance a frozen creature thaws before moving.
	ThawChance = 20
	// FullParalysisChance is the percentage chance paralysis prevents a move.
	FullParalysisChance = 25
	// SelfCureChance is the per-turn percentage chance sleep or confusion wears off.
	SelfCureChance = 33
	// confusionSelfHitOdds is the denominator of the 1-in-N self-hit chance.
	confusionSelfHitOdds = 3
	poisonDivisor        = 8
	burnDivisor          = 16
)

var statNames = map[catalog.Stat]string{
	catalog.StatAttack:    "Attack",
	catalog.StatDefense:   "Defense",
	catalog.StatSpAttack:  "Sp. Atk",
	catalog.StatSpDefense: "Sp. Def",
	catalog.StatSpeed:     "Speed",
	catalog.StatAccuracy:  "accuracy",
	catalog.StatEvasion:   "evasiveness",
}

var inflictLines = map[catalog.Status]string{
	catalog.StatusSleep:     "%s fell asleep!",
	catalog.StatusParalysis: "%s is paralyzed! It may be unable to move!",
	catalog.StatusPoison:    "%s was poisoned!",
	catalog.StatusBurn:      "%s was burned!",
	catalog.StatusFreeze:    "%s was frozen solid!",
	catalog.StatusConfusion: "%s became confused!",
}

// EffectApplier applies move effects, pre-move status checks and end-of-turn
// status ticking.
type EffectApplier struct {
	src  dice.Source
	calc *Calculator
}

// NewEffectApplier returns an EffectApplier drawing from src. calc is used for
// confusion self-hits.
//
// Precondition: src and calc must be non-nil.
func NewEffectApplier(src dice.Source, calc *Calculator) *EffectApplier {
	return &EffectApplier{src: src, calc: calc}
}

// ApplyStatusMove applies every effect of a status move.
//
// Postcondition: Returns the log lines produced; "But it failed!" when no
// effect changed anything.
func (e *EffectApplier) ApplyStatusMove(user, target *Participant, move *catalog.MoveDef) []string {
	var lines []string
	changed := false
	for _, eff := range move.Effects {
		l, ok := e.apply(user, target, eff, 0)
		lines = append(lines, l...)
		changed = changed || ok
	}
	if !changed && len(lines) == 0 {
		lines = append(lines, "But it failed!")
	}
	return lines
}

// ApplyAfterDamage applies drain, recoil and secondary effects of a damaging
// move that removed dealt HP from target.
//
// Precondition: dealt is the HP actually lost by target.
func (e *EffectApplier) ApplyAfterDamage(user, target *Participant, move *catalog.MoveDef, dealt int) []string {
	var lines []string
	for _, eff := range move.Effects {
		l, _ := e.apply(user, target, eff, dealt)
		lines = append(lines, l...)
	}
	return lines
}

func (e *EffectApplier) apply(user, target *Participant, eff catalog.Effect, dealt int) ([]string, bool) {
	switch v := eff.(type) {
	case catalog.StatChange:
		if !dice.Chance(e.src, v.Chance) {
			return nil, false
		}
		p := pick(user, target, v.Target)
		if p.Fainted() {
			return nil, false
		}
		var lines []string
		changed := false
		for _, stat := range v.Stats {
			line, ok := ChangeStageLine(p, stat, v.Stages)
			lines = append(lines, line)
			changed = changed || ok
		}
		return lines, changed
	case catalog.InflictStatus:
		p := pick(user, target, v.Target)
		if p.Fainted() || p.Status != catalog.StatusNormal {
			return nil, false
		}
		if !dice.Chance(e.src, v.Chance) {
			return nil, false
		}
		if !p.SetStatus(v.Status) {
			return nil, false
		}
		return []string{fmt.Sprintf(inflictLines[v.Status], p.Name)}, true
	case catalog.Drain:
		if dealt <= 0 || user.Fainted() {
			return nil, false
		}
		amount := int(math.Floor(float64(dealt) * v.Fraction))
		if user.Heal(amount) == 0 {
			return nil, false
		}
		return []string{fmt.Sprintf("%s had its energy drained!", target.Name)}, true
	case catalog.Heal:
		amount := int(math.Floor(float64(user.MaxHP) * v.Fraction))
		if user.Heal(amount) == 0 {
			return []string{fmt.Sprintf("%s's HP is full!", user.Name)}, false
		}
		return []string{fmt.Sprintf("%s regained health!", user.Name)}, true
	case catalog.Recoil:
		if dealt <= 0 {
			return nil, false
		}
		amount := max(int(math.Floor(float64(dealt)*v.Fraction)), 1)
		user.ApplyDamage(amount)
		return []string{fmt.Sprintf("%s is damaged by recoil!", user.Name)}, true
	}
	return nil, false
}

func pick(user, target *Participant, t catalog.Target) *Participant {
	if t == catalog.TargetSelf {
		return user
	}
	return target
}

// ChangeStageLine changes one stage of p by delta and describes the result.
//
// Postcondition: ok is true iff the stage actually moved.
func ChangeStageLine(p *Participant, stat catalog.Stat, delta int) (line string, ok bool) {
	applied := p.ChangeStage(stat, delta)
	name := statNames[stat]
	if applied == 0 {
		if delta > 0 {
			return fmt.Sprintf("%s's %s won't go any higher!", p.Name, name), false
		}
		return fmt.Sprintf("%s's %s won't go any lower!", p.Name, name), false
	}
	var verb string
	switch {
	case applied >= 3:
		verb = "rose drastically!"
	case applied == 2:
		verb = "rose sharply!"
	case applied == 1:
		verb = "rose!"
	case applied == -1:
		verb = "fell!"
	case applied == -2:
		verb = "harshly fell!"
	default:
		verb = "severely fell!"
	}
	return fmt.Sprintf("%s's %s %s", p.Name, name, verb), true
}

// BeforeMove runs the status checks that can stop p from acting this turn.
//
// Postcondition: canAct is false when p is asleep, stays frozen, is fully
// paralyzed or hits itself in confusion. A confusion self-hit has already
// been applied to p when BeforeMove returns.
func (e *EffectApplier) BeforeMove(p *Participant) (canAct bool, lines []string) {
	switch p.Status {
	case catalog.StatusSleep:
		return false, []string{fmt.Sprintf("%s is fast asleep.", p.Name)}
	case catalog.StatusFreeze:
		if dice.Chance(e.src, ThawChance) {
			p.CureStatus()
			return true, []string{fmt.Sprintf("%s thawed out!", p.Name)}
		}
		return false, []string{fmt.Sprintf("%s is frozen solid!", p.Name)}
	case catalog.StatusParalysis:
		if dice.Chance(e.src, FullParalysisChance) {
			return false, []string{fmt.Sprintf("%s is paralyzed! It can't move!", p.Name)}
		}
	case catalog.StatusConfusion:
		lines = append(lines, fmt.Sprintf("%s is confused!", p.Name))
		if e.src.Intn(confusionSelfHitOdds) == 0 {
			p.ApplyDamage(e.calc.ConfusionDamage(p))
			return false, append(lines, "It hurt itself in its confusion!")
		}
	}
	return true, lines
}

// EndOfTurn applies residual status effects to p.
//
// Postcondition: poison removes floor(MaxHP/8), burn floor(MaxHP/16), both
// clamped at 0 HP and logged only when HP was lost; sleep and confusion each
// wear off with SelfCureChance.
func (e *EffectApplier) EndOfTurn(p *Participant) []string {
	if p.Fainted() {
		return nil
	}
	switch p.Status {
	case catalog.StatusPoison:
		if p.ApplyDamage(p.MaxHP/poisonDivisor) > 0 {
			return []string{fmt.Sprintf("%s is hurt by poison!", p.Name)}
		}
	case catalog.StatusBurn:
		if p.ApplyDamage(p.MaxHP/burnDivisor) > 0 {
			return []string{fmt.Sprintf("%s is hurt by its burn!", p.Name)}
		}
	case catalog.StatusSleep:
		if dice.Chance(e.src, SelfCureChance) {
			p.CureStatus()
			return []string{fmt.Sprintf("%s woke up!", p.Name)}
		}
	case catalog.StatusConfusion:
		if dice.Chance(e.src, SelfCureChance) {
			p.CureStatus()
			return []string{fmt.Sprintf("%s snapped out of its confusion!", p.Name)}
		}
	}
	return nil
}
