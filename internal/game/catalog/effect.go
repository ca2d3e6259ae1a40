package catalog

import "fmt"

// Target selects which side of the exchange an effect lands on.
type Target string

const (
	TargetSelf     Target = "self"
	TargetOpponent Target = "opponent"
)

// EffectKind discriminates the Effect union.
type EffectKind string

const (
	KindStatChange    EffectKind = "stat_change"
	KindInflictStatus EffectKind = "inflict_status"
	KindDrain         EffectKind = "drain"
	KindHeal          EffectKind = "heal"
	KindRecoil        EffectKind = "recoil"
)

// Effect is a structured move effect descriptor. The concrete types are
// StatChange, InflictStatus, Drain, Heal and Recoil.
type Effect interface {
	Kind() EffectKind
}

// StatChange moves each listed stat stage by Stages on Target.
// Chance is a percentage; 100 for guaranteed.
type StatChange struct {
	Target Target
	Stats  []Stat
	Stages int
	Chance int
}

// InflictStatus gives Target Status when it currently has none.
type InflictStatus struct {
	Target Target
	Status Status
	Chance int
}

// Drain heals the user by Fraction of the damage just dealt.
type Drain struct {
	Fraction float64
}

// Heal restores Fraction of the user's max HP.
type Heal struct {
	Fraction float64
}

// Recoil damages the user by Fraction of the damage just dealt.
type Recoil struct {
	Fraction float64
}

func (StatChange) Kind() EffectKind    { return KindStatChange }
func (InflictStatus) Kind() EffectKind { return KindInflictStatus }
func (Drain) Kind() EffectKind         { return KindDrain }
func (Heal) Kind() EffectKind          { return KindHeal }
func (Recoil) Kind() EffectKind        { return KindRecoil }

// effectYAML is the on-disk shape of one effect entry.
type effectYAML struct {
	Kind     string   `yaml:"kind"`
	Target   string   `yaml:"target"`
	Stats    []string `yaml:"stats"`
	Stages   int      `yaml:"stages"`
	Status   string   `yaml:"status"`
	Chance   int      `yaml:"chance"`
	Fraction float64  `yaml:"fraction"`
}

// toEffect converts the authored entry into its typed descriptor.
//
// Postcondition: Returns a non-nil Effect or an error naming the bad field.
func (e effectYAML) toEffect() (Effect, error) {
	chance := e.Chance
	if chance == 0 {
		chance = 100
	}
	if chance < 0 || chance > 100 {
		return nil, fmt.Errorf("effect %q: chance must be 1-100, got %d", e.Kind, e.Chance)
	}

	switch EffectKind(e.Kind) {
	case KindStatChange:
		if e.Stages == 0 {
			return nil, fmt.Errorf("stat_change: stages must not be 0")
		}
		if len(e.Stats) == 0 {
			return nil, fmt.Errorf("stat_change: stats must not be empty")
		}
		stats := make([]Stat, 0, len(e.Stats))
		for _, s := range e.Stats {
			st, err := parseStat(s)
			if err != nil {
				return nil, err
			}
			stats = append(stats, st)
		}
		target := TargetSelf
		if e.Stages < 0 {
			target = TargetOpponent
		}
		if e.Target != "" {
			t, err := parseTarget(e.Target)
			if err != nil {
				return nil, err
			}
			target = t
		}
		return StatChange{Target: target, Stats: stats, Stages: e.Stages, Chance: chance}, nil

	case KindInflictStatus:
		st, err := parseStatus(e.Status)
		if err != nil {
			return nil, err
		}
		if st == StatusNormal {
			return nil, fmt.Errorf("inflict_status: status must not be normal")
		}
		target := TargetOpponent
		if e.Target != "" {
			t, err := parseTarget(e.Target)
			if err != nil {
				return nil, err
			}
			target = t
		}
		return InflictStatus{Target: target, Status: st, Chance: chance}, nil

	case KindDrain:
		f := e.Fraction
		if f == 0 {
			f = 0.5
		}
		if f < 0 || f > 1 {
			return nil, fmt.Errorf("drain: fraction must be in (0, 1], got %v", f)
		}
		return Drain{Fraction: f}, nil

	case KindHeal:
		if e.Fraction <= 0 || e.Fraction > 1 {
			return nil, fmt.Errorf("heal: fraction must be in (0, 1], got %v", e.Fraction)
		}
		return Heal{Fraction: e.Fraction}, nil

	case KindRecoil:
		if e.Fraction <= 0 || e.Fraction > 1 {
			return nil, fmt.Errorf("recoil: fraction must be in (0, 1], got %v", e.Fraction)
		}
		return Recoil{Fraction: e.Fraction}, nil
	}
	return nil, fmt.Errorf("unknown effect kind %q", e.Kind)
}

func parseStat(s string) (Stat, error) {
	switch st := Stat(s); st {
	case StatAttack, StatDefense, StatSpAttack, StatSpDefense, StatSpeed, StatAccuracy, StatEvasion:
		return st, nil
	}
	return "", fmt.Errorf("unknown stat %q", s)
}

func parseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusNormal, StatusSleep, StatusParalysis, StatusPoison, StatusBurn, StatusFreeze, StatusConfusion:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func parseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetSelf, TargetOpponent:
		return t, nil
	}
	return "", fmt.Errorf("unknown target %q", s)
}
