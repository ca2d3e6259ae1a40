package battle

import (
	"fmt"

	"github.com/cory-johannsen/monbattle/internal/game/catalog"
	"github.com/cory-johannsen/monbattle/internal/game/species"
)

const (
	// MaxMoves is the number of move slots a participant carries.
	MaxMoves = 4
	// MinStage and MaxStage bound every stat stage.
	MinStage = -6
	MaxStage = 6
	MinLevel = 1
	MaxLevel = 100
)

// StagedStats lists every stage-modifiable stat.
var StagedStats = []catalog.Stat{
	catalog.StatAttack, catalog.StatDefense, catalog.StatSpAttack, catalog.StatSpDefense,
	catalog.StatSpeed, catalog.StatAccuracy, catalog.StatEvasion,
}

// Stats holds the five derived battle stats.
type Stats struct {
	Attack    int
	Defense   int
	SpAttack  int
	SpDefense int
	Speed     int
}

// MoveSlot is one learned move and its remaining PP.
type MoveSlot struct {
	Move      *catalog.MoveDef
	CurrentPP int
	MaxPP     int
}

// Participant is one creature's mutable battle state. It lives exactly as
// long as its Session.
//
// Invariant: every stage is in [MinStage, MaxStage]; 0 <= CurrentHP <= MaxHP.
type Participant struct {
	Species   *species.Template
	Name      string
	Level     int
	Types     []catalog.Type
	CurrentHP int
	MaxHP     int
	Stats     Stats
	Status    catalog.Status
	Moves     []*MoveSlot
	IsWild    bool

	stages map[catalog.Stat]int
}

// HPStat computes floor(2·base·level/100) + level + 10.
func HPStat(base, level int) int {
	return 2*base*level/100 + level + 10
}

// OtherStat computes floor(2·base·level/100) + 5.
func OtherStat(base, level int) int {
	return 2*base*level/100 + 5
}

// NewParticipant builds a participant from tmpl at level. Move slots are the
// species' most recent learnset moves at that level; learnset moves missing
// from moves are skipped and reported in missing.
//
// Precondition: tmpl and moves must be non-nil.
// Postcondition: Returns a full-HP participant with status normal and all
// stages 0, or an error if level is outside [MinLevel, MaxLevel].
func NewParticipant(tmpl *species.Template, level int, moves MoveProvider, isWild bool) (p *Participant, missing []string, err error) {
	if level < MinLevel || level > MaxLevel {
		return nil, nil, fmt.Errorf("level %d out of range [%d, %d]", level, MinLevel, MaxLevel)
	}
	b := tmpl.BaseStats
	hp := HPStat(b.HP, level)
	p = &Participant{
		Species:   tmpl,
		Name:      tmpl.Name,
		Level:     level,
		Types:     append([]catalog.Type(nil), tmpl.Types...),
		CurrentHP: hp,
		MaxHP:     hp,
		Stats: Stats{
			Attack:    OtherStat(b.Attack, level),
			Defense:   OtherStat(b.Defense, level),
			SpAttack:  OtherStat(b.SpAttack, level),
			SpDefense: OtherStat(b.SpDefense, level),
			Speed:     OtherStat(b.Speed, level),
		},
		Status: catalog.StatusNormal,
		IsWild: isWild,
		stages: make(map[catalog.Stat]int, len(StagedStats)),
	}
	for _, id := range tmpl.MovesAt(level, MaxMoves) {
		def, ok := moves.Get(id)
		if !ok {
			missing = append(missing, id)
			continue
		}
		p.Moves = append(p.Moves, &MoveSlot{Move: def, CurrentPP: def.PP, MaxPP: def.PP})
	}
	return p, missing, nil
}

// Clone returns a deep copy of p; mutating it never affects p.
func (p *Participant) Clone() Participant {
	c := *p
	c.Types = append([]catalog.Type(nil), p.Types...)
	c.Moves = make([]*MoveSlot, len(p.Moves))
	for i, slot := range p.Moves {
		cp := *slot
		c.Moves[i] = &cp
	}
	c.stages = make(map[catalog.Stat]int, len(p.stages))
	for stat, stage := range p.stages {
		c.stages[stat] = stage
	}
	return c
}

// Stage returns the current stage of stat.
func (p *Participant) Stage(stat catalog.Stat) int {
	return p.stages[stat]
}

// ChangeStage moves stat by delta, clamped to [MinStage, MaxStage].
//
// Postcondition: Returns the change actually applied (0 when already at the bound).
func (p *Participant) ChangeStage(stat catalog.Stat, delta int) int {
	if p.stages == nil {
		p.stages = make(map[catalog.Stat]int, len(StagedStats))
	}
	cur := p.stages[stat]
	next := min(max(cur+delta, MinStage), MaxStage)
	p.stages[stat] = next
	return next - cur
}

// Fainted reports whether the participant has no HP left.
func (p *Participant) Fainted() bool { return p.CurrentHP <= 0 }

// ApplyDamage reduces CurrentHP by amount, flooring at zero.
//
// Precondition: amount must be >= 0.
// Postcondition: Returns the HP actually lost; CurrentHP >= 0.
func (p *Participant) ApplyDamage(amount int) int {
	before := p.CurrentHP
	p.CurrentHP = max(p.CurrentHP-amount, 0)
	return before - p.CurrentHP
}

// Heal raises CurrentHP by amount, capped at MaxHP.
//
// Postcondition: Returns the HP actually restored.
func (p *Participant) Heal(amount int) int {
	before := p.CurrentHP
	p.CurrentHP = min(p.CurrentHP+amount, p.MaxHP)
	return p.CurrentHP - before
}

// SetStatus inflicts s only when the participant currently has no status.
//
// Postcondition: Returns true iff the status changed.
func (p *Participant) SetStatus(s catalog.Status) bool {
	if p.Status != catalog.StatusNormal || s == catalog.StatusNormal {
		return false
	}
	p.Status = s
	return true
}

// CureStatus clears any status.
func (p *Participant) CureStatus() { p.Status = catalog.StatusNormal }

// EffectiveSpeed is the stage-adjusted speed, halved while paralyzed.
func (p *Participant) EffectiveSpeed() int {
	speed := ApplyStage(p.Stats.Speed, p.Stage(catalog.StatSpeed))
	if p.Status == catalog.StatusParalysis {
		speed /= 2
	}
	return speed
}

// Slot returns the move slot for moveID, or nil if the move is not known.
func (p *Participant) Slot(moveID string) *MoveSlot {
	for _, s := range p.Moves {
		if s.Move.ID == moveID {
			return s
		}
	}
	return nil
}

// UsableMoves returns the slots with PP remaining.
func (p *Participant) UsableMoves() []*MoveSlot {
	var out []*MoveSlot
	for _, s := range p.Moves {
		if s.CurrentPP > 0 {
			out = append(out, s)
		}
	}
	return out
}

// HasType reports whether the participant carries typ.
func (p *Participant) HasType(typ catalog.Type) bool {
	if typ == catalog.TypeNone {
		return false
	}
	for _, t := range p.Types {
		if t == typ {
			return true
		}
	}
	return false
}
