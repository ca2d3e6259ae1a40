package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/monbattle/internal/game/battle"
	"github.com/cory-johannsen/monbattle/internal/game/catalog"
)

func newApplier(src *scriptSrc) *battle.EffectApplier {
	return battle.NewEffectApplier(src, battle.NewCalculator(src))
}

func TestApplyStatusMove_StatChanges(t *testing.T) {
	e := newApplier(&scriptSrc{})
	a, b := fighter("A"), fighter("B")

	assert.Equal(t, []string{"B's Attack fell!"}, e.ApplyStatusMove(a, b, growl))
	assert.Equal(t, -1, b.Stage(catalog.StatAttack))

	assert.Equal(t, []string{"A's Attack rose sharply!"}, e.ApplyStatusMove(a, b, swordsDance))
	assert.Equal(t, 2, a.Stage(catalog.StatAttack))
}

func TestApplyStatusMove_StageAtBound(t *testing.T) {
	e := newApplier(&scriptSrc{})
	a, b := fighter("A"), fighter("B")
	b.ChangeStage(catalog.StatAttack, -6)
	assert.Equal(t, []string{"B's Attack won't go any lower!"}, e.ApplyStatusMove(a, b, growl))
	assert.Equal(t, -6, b.Stage(catalog.StatAttack))
}

func TestApplyStatusMove_StatusOnlyWhenNormal(t *testing.T) {
	e := newApplier(&scriptSrc{})
	a, b := fighter("A"), fighter("B")

	assert.Equal(t, []string{"B is paralyzed! It may be unable to move!"}, e.ApplyStatusMove(a, b, thunderWave))
	assert.Equal(t, catalog.StatusParalysis, b.Status)

	c := fighter("C")
	c.SetStatus(catalog.StatusPoison)
	assert.Equal(t, []string{"But it failed!"}, e.ApplyStatusMove(a, c, thunderWave))
	assert.Equal(t, catalog.StatusPoison, c.Status)
}

func TestApplyAfterDamage_SecondaryChance(t *testing.T) {
	a, b := fighter("A"), fighter("B")
	lines := newApplier(&scriptSrc{ints: []int{50}}).ApplyAfterDamage(a, b, ember, 10)
	assert.Empty(t, lines)
	assert.Equal(t, catalog.StatusNormal, b.Status)

	lines = newApplier(&scriptSrc{ints: []int{5}}).ApplyAfterDamage(a, b, ember, 10)
	assert.Equal(t, []string{"B was burned!"}, lines)
	assert.Equal(t, catalog.StatusBurn, b.Status)
}

func TestApplyAfterDamage_Drain(t *testing.T) {
	a, b := fighter("A"), fighter("B")
	a.CurrentHP = 100
	lines := newApplier(&scriptSrc{}).ApplyAfterDamage(a, b, absorb, 21)
	assert.Equal(t, 110, a.CurrentHP)
	assert.Equal(t, []string{"B had its energy drained!"}, lines)
}

func TestApplyAfterDamage_RecoilAtLeastOne(t *testing.T) {
	a, b := fighter("A"), fighter("B")
	lines := newApplier(&scriptSrc{}).ApplyAfterDamage(a, b, catalog.Struggle, 2)
	assert.Equal(t, 199, a.CurrentHP)
	assert.Equal(t, []string{"A is damaged by recoil!"}, lines)
}

func TestApplyStatusMove_Heal(t *testing.T) {
	recoverMove := &catalog.MoveDef{
		ID: "recover", Name: "Recover", Category: catalog.CategoryStatus, PP: 5,
		Effects: []catalog.Effect{catalog.Heal{Fraction: 0.5}},
	}
	a := fighter("A")
	a.CurrentHP = 50
	assert.Equal(t, []string{"A regained health!"}, newApplier(&scriptSrc{}).ApplyStatusMove(a, fighter("B"), recoverMove))
	assert.Equal(t, 150, a.CurrentHP)
}

func TestBeforeMove(t *testing.T) {
	cases := []struct {
		name       string
		status     catalog.Status
		ints       []int
		wantAct    bool
		wantStatus catalog.Status
		wantHurt   bool
	}{
		{"normal", catalog.StatusNormal, nil, true, catalog.StatusNormal, false},
		{"asleep", catalog.StatusSleep, nil, false, catalog.StatusSleep, false},
		{"thaws", catalog.StatusFreeze, []int{10}, true, catalog.StatusNormal, false},
		{"stays frozen", catalog.StatusFreeze, []int{50}, false, catalog.StatusFreeze, false},
		{"fully paralyzed", catalog.StatusParalysis, []int{10}, false, catalog.StatusParalysis, false},
		{"moves through paralysis", catalog.StatusParalysis, []int{80}, true, catalog.StatusParalysis, false},
		{"hurts itself", catalog.StatusConfusion, []int{0}, false, catalog.StatusConfusion, true},
		{"acts while confused", catalog.StatusConfusion, []int{2}, true, catalog.StatusConfusion, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := fighter("A")
			p.Status = c.status
			canAct, lines := newApplier(&scriptSrc{ints: c.ints, intFallback: 99}).BeforeMove(p)
			assert.Equal(t, c.wantAct, canAct)
			assert.Equal(t, c.wantStatus, p.Status)
			assert.Equal(t, c.wantHurt, p.CurrentHP < p.MaxHP)
			if c.status != catalog.StatusNormal && c.status != catalog.StatusParalysis {
				assert.NotEmpty(t, lines)
			}
		})
	}
}

func TestEndOfTurn(t *testing.T) {
	p := fighter("A")
	p.Status = catalog.StatusPoison
	assert.Equal(t, []string{"A is hurt by poison!"}, newApplier(&scriptSrc{}).EndOfTurn(p))
	assert.Equal(t, 175, p.CurrentHP)

	p = fighter("A")
	p.Status = catalog.StatusBurn
	newApplier(&scriptSrc{}).EndOfTurn(p)
	assert.Equal(t, 188, p.CurrentHP)

	p = fighter("A")
	p.Status = catalog.StatusPoison
	p.CurrentHP = 3
	newApplier(&scriptSrc{}).EndOfTurn(p)
	assert.Equal(t, 0, p.CurrentHP)

	p = fighter("A")
	p.Status = catalog.StatusBurn
	p.MaxHP, p.CurrentHP = 15, 15
	assert.Empty(t, newApplier(&scriptSrc{}).EndOfTurn(p))
	assert.Equal(t, 15, p.CurrentHP)

	p = fighter("A")
	p.Status = catalog.StatusSleep
	assert.Nil(t, newApplier(&scriptSrc{ints: []int{50}}).EndOfTurn(p))
	assert.Equal(t, catalog.StatusSleep, p.Status)
	assert.Equal(t, []string{"A woke up!"}, newApplier(&scriptSrc{ints: []int{10}}).EndOfTurn(p))
	assert.Equal(t, catalog.StatusNormal, p.Status)

	p = fighter("A")
	p.Status = catalog.StatusConfusion
	assert.Equal(t, []string{"A snapped out of its confusion!"}, newApplier(&scriptSrc{ints: []int{0}}).EndOfTurn(p))
}
