package service

import (
	"errors"
	"math"
	"testing"

	"cost-seer/domain"
)

type fixedSource struct {
	value float64
}

func (f fixedSource) Float64() float64 { return f.value }

// zeroNoise maps to a noise term of exactly 0.
var zeroNoise = fixedSource{value: 0.5}

func TestPredict_DefaultScenario(t *testing.T) {

	engine := NewEstimationEngine(zeroNoise)

	got := engine.Predict(DefaultParameters())

	if got != 33878 {
		t.Errorf("expected 33878, got %d", got)
	}
}

func TestPredict_NoiseBounds(t *testing.T) {

	params := DefaultParameters()

	low := NewEstimationEngine(fixedSource{value: 0}).Predict(params)
	high := NewEstimationEngine(fixedSource{value: 0.999999999}).Predict(params)

	// 33878.371824 × 0.95 y × 1.05
	if low != 32184 {
		t.Errorf("expected low bound 32184, got %d", low)
	}
	if high < 35572 || high > 35573 {
		t.Errorf("expected high bound near 35572, got %d", high)
	}
}

func TestPredict_RepeatedCallsStayWithinBand(t *testing.T) {

	engine := NewEstimationEngine(nil)
	params := DefaultParameters()

	for i := 0; i < 200; i++ {
		a := float64(engine.Predict(params))
		b := float64(engine.Predict(params))
		if math.Abs(a-b)/a > 0.10+1e-9 {
			t.Fatalf("results %v and %v differ by more than 10%%", a, b)
		}
		if math.Abs(a-33878)/33878 > 0.05+1e-4 {
			t.Fatalf("result %v outside ±5%% of 33878", a)
		}
	}
}

func TestPredict_ExperienceBeyondCeilingInvertsSign(t *testing.T) {

	engine := NewEstimationEngine(zeroNoise)
	params := DefaultParameters()
	params.TeamExp = 60

	got := engine.Predict(params)

	// 50000 × (1 − 60·0.3/15 = −0.2) × 0.93 × 1.2 × 1.01 × 1.012 × 1.1 × 0.6
	if got != -7529 {
		t.Errorf("expected -7529, got %d", got)
	}
}

func TestPredict_UnknownLanguageFallsBack(t *testing.T) {

	engine := NewEstimationEngine(zeroNoise)
	params := DefaultParameters()

	params.Language = 1
	lowLevel := engine.Predict(params)

	params.Language = 9
	unknown := engine.Predict(params)

	if unknown != lowLevel {
		t.Errorf("expected unknown language to match multiplier 1.0 (%d), got %d", lowLevel, unknown)
	}
	if LanguageMultiplier(0) != 1.0 {
		t.Errorf("expected fallback multiplier 1.0")
	}
}

func TestLanguageOptions(t *testing.T) {

	engine := NewEstimationEngine(zeroNoise)

	options := engine.LanguageOptions()

	if len(options) != 5 {
		t.Fatalf("expected 5 options, got %d", len(options))
	}
	for i, opt := range options {
		if opt.Code != i+1 {
			t.Errorf("option %d: expected code %d, got %d", i, i+1, opt.Code)
		}
		if opt.Label == "" {
			t.Errorf("option %d: empty label", i)
		}
	}

	options[0].Label = "mutated"
	if engine.LanguageOptions()[0].Label == "mutated" {
		t.Errorf("expected LanguageOptions to return a copy")
	}
}

func TestEstimate_RejectsZeroTransactions(t *testing.T) {

	source := &countingSource{}
	engine := NewEstimationEngine(source)
	params := DefaultParameters()
	params.Transactions = 0

	_, err := engine.Estimate(params)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "transactions" {
		t.Errorf("expected field transactions, got %s", verr.Field)
	}
	if source.calls != 0 {
		t.Errorf("engine should not draw noise for invalid input")
	}
}

func TestValidate_RejectsNaNAndNegative(t *testing.T) {

	cases := map[string]func(*domain.ParameterVector){
		"nan":      func(v *domain.ParameterVector) { v.Length = math.NaN() },
		"negative": func(v *domain.ParameterVector) { v.ManagerExp = -1 },
		"language": func(v *domain.ParameterVector) { v.Language = 0 },
	}

	for name, mutate := range cases {
		params := DefaultParameters()
		mutate(&params)
		if err := Validate(params); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}

	if err := Validate(DefaultParameters()); err != nil {
		t.Errorf("defaults should be valid: %v", err)
	}
}

type countingSource struct {
	calls int
}

func (c *countingSource) Float64() float64 {
	c.calls++
	return 0.5
}
