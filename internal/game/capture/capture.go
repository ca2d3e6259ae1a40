package capture

import (
	"math"

	"github.com/cory-johannsen/monbattle/internal/game/catalog"
	"github.com/cory-johannsen/monbattle/internal/game/dice"
)

// MaxRate is the rate at or above which a capture cannot fail.
const MaxRate = 255

// Attempt describes one thrown ball.
type Attempt struct {
	Ball        Ball
	CurrentHP   int
	MaxHP       int
	Status      catalog.Status
	TargetLevel int
	PlayerLevel int
	// Turn is the battle turn the ball is thrown on, starting at 1.
	Turn     int
	Location string
}

// TemplateData is the species data capture depends on.
type TemplateData struct {
	SpeciesID      string
	CaptureRate    int
	Types          []catalog.Type
	BaseSpeed      int
	Weight         float64
	EvolutionItems []string
}

func (t TemplateData) hasType(typ catalog.Type) bool {
	for _, x := range t.Types {
		if x == typ {
			return true
		}
	}
	return false
}

// Result is the outcome of a capture attempt.
type Result struct {
	Success bool
	// CaptureRate is the modified rate, capped at MaxRate unless the ball is guaranteed.
	CaptureRate int
	// FinalProbability is the success chance as a percentage in [0, 100].
	FinalProbability float64
	// ShakeCount is 3 on success, otherwise the consecutive shake checks passed (0-3).
	ShakeCount int
	// CriticalCapture is a cosmetic 1% flag; it never changes Success.
	CriticalCapture bool
	BallModifier    float64
	StatusModifier  float64
}

// Rate computes floor((3·max − 2·cur) · base · ball · status / (3·max)).
// CurrentHP is clamped into [0, MaxHP]. A non-positive MaxHP yields 0.
//
// Postcondition: Returns >= 0; not capped.
func Rate(a Attempt, baseRate int, ballMod, statusMod float64) int {
	if a.MaxHP <= 0 {
		return 0
	}
	cur := a.CurrentHP
	if cur < 0 {
		cur = 0
	}
	if cur > a.MaxHP {
		cur = a.MaxHP
	}
	num := float64(3*a.MaxHP-2*cur) * float64(baseRate) * ballMod * statusMod
	return int(math.Floor(num / float64(3*a.MaxHP)))
}

// ShakeThreshold returns floor(65536 / (255/rate)^0.1875), the per-shake
// pass bound against a uniform draw in [0, 65536).
//
// Postcondition: Returns 0 for rate <= 0 and 65536 for rate >= 255.
func ShakeThreshold(rate int) int {
	if rate <= 0 {
		return 0
	}
	if rate >= MaxRate {
		return 65536
	}
	return int(math.Floor(65536 / math.Pow(float64(MaxRate)/float64(rate), 0.1875)))
}

// Resolver draws capture outcomes from an injected Source.
type Resolver struct {
	src dice.Source
}

// NewResolver creates a Resolver.
//
// Precondition: src must be non-nil.
func NewResolver(src dice.Source) *Resolver {
	return &Resolver{src: src}
}

// Calculate resolves one capture attempt. Draw order is: success, up to four
// shakes (only when the rate is below MaxRate), critical capture.
//
// Postcondition: Guaranteed balls return Success=true, ShakeCount=3 and
// FinalProbability=100 regardless of HP or status.
func (r *Resolver) Calculate(a Attempt, t TemplateData) Result {
	ballMod := BallModifier(a, t)
	statusMod := StatusModifier(a.Status)
	res := Result{BallModifier: ballMod, StatusModifier: statusMod}

	if a.Ball.Guaranteed() {
		res.Success = true
		res.CaptureRate = Rate(a, t.CaptureRate, ballMod, statusMod)
		if res.CaptureRate < MaxRate {
			res.CaptureRate = MaxRate
		}
		res.FinalProbability = 100
		res.ShakeCount = 3
		res.CriticalCapture = r.src.Intn(100) == 0
		return res
	}

	rate := Rate(a, t.CaptureRate, ballMod, statusMod)
	if rate > MaxRate {
		rate = MaxRate
	}
	res.CaptureRate = rate
	res.FinalProbability = float64(rate) / MaxRate * 100
	res.Success = r.src.Intn(MaxRate) < rate

	if rate >= MaxRate {
		res.ShakeCount = 3
	} else {
		threshold := ShakeThreshold(rate)
		passes := 0
		for i := 0; i < 4; i++ {
			if r.src.Intn(65536) >= threshold {
				break
			}
			passes++
		}
		if res.Success {
			res.ShakeCount = 3
		} else {
			res.ShakeCount = min(passes, 3)
		}
	}

	res.CriticalCapture = r.src.Intn(100) == 0
	return res
}
