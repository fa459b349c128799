package service

import (
	crand "crypto/rand"
	"encoding/binary"
	"math"
	"math/rand/v2"
	"sync"

	"cost-seer/domain"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

var languageFactors = map[int]float64{
	1: 1.0, // C, Assembly
	2: 0.8, // C++, Java
	3: 0.6, // Python, JavaScript
	4: 0.5, // Ruby, PHP
	5: 0.4, // SQL, R
}

var languageOptions = []domain.LanguageOption{
	{Code: 1, Label: "Low-level (C, Assembly)"},
	{Code: 2, Label: "Mid-level (C++, Java)"},
	{Code: 3, Label: "High-level (Python, JavaScript)"},
	{Code: 4, Label: "Very high-level (Ruby, PHP)"},
	{Code: 5, Label: "Domain-specific (SQL, R)"},
}

// DefaultParameters returns the vector a new session starts editing.
func DefaultParameters() domain.ParameterVector {
	return domain.ParameterVector{
		TeamExp:      5,
		ManagerExp:   7,
		Length:       6,
		Transactions: 50,
		Entities:     20,
		PointsAdjust: 200,
		Language:     3,
	}
}

type EstimationEngine struct {
	source RandomSource
}

// NewEstimationEngine creates an engine drawing its noise from source. A nil
// source uses a process-wide generator seeded from crypto/rand.
func NewEstimationEngine(source RandomSource) *EstimationEngine {
	if source == nil {
		source = NewLockedSource(newSeed())
	}
	return &EstimationEngine{source: source}
}

// Predict applies the cost formula to v. Each factor multiplies the running
// cost, so the order of the steps is significant.
func (e *EstimationEngine) Predict(v domain.ParameterVector) int64 {
	cost := BaseCost

	// Más experiencia reduce el costo; sin límite inferior
	cost *= 1 - v.TeamExp*TeamExpWeight/TeamExpCeiling
	cost *= 1 - v.ManagerExp*ManagerExpWeight/ManagerExpCeiling

	cost *= 1 + v.Length*LengthWeight/LengthNormalizer
	cost *= 1 + v.Transactions*TransactionsWeight/TransactionsScale
	cost *= 1 + v.Entities*EntitiesWeight/EntitiesScale
	cost *= 1 + v.PointsAdjust*PointsAdjustWeight/PointsAdjustScale

	cost *= LanguageMultiplier(v.Language)

	noise := (e.source.Float64()*2 - 1) * NoiseLevel
	cost *= 1 + noise

	return roundHalfUp(cost)
}

// Estimate validates v and predicts its cost.
func (e *EstimationEngine) Estimate(v domain.ParameterVector) (domain.Estimate, error) {
	if err := Validate(v); err != nil {
		return domain.Estimate{}, err
	}
	return domain.Estimate{Parameters: v, Amount: e.Predict(v)}, nil
}

// LanguageOptions returns the recognized language categories in code order.
func (e *EstimationEngine) LanguageOptions() []domain.LanguageOption {
	out := make([]domain.LanguageOption, len(languageOptions))
	copy(out, languageOptions)
	return out
}

// LanguageMultiplier returns the cost multiplier for a language category,
// falling back to 1.0 for unknown codes.
func LanguageMultiplier(code int) float64 {
	if factor, ok := languageFactors[code]; ok {
		return factor
	}
	return FallbackLanguageMul
}

// Validate rejects vectors with any field that is not strictly positive.
func Validate(v domain.ParameterVector) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"team_exp", v.TeamExp},
		{"manager_exp", v.ManagerExp},
		{"length", v.Length},
		{"transactions", v.Transactions},
		{"entities", v.Entities},
		{"points_adjust", v.PointsAdjust},
		{"language", float64(v.Language)},
	}
	for _, f := range fields {
		// !(x > 0) also catches NaN
		if !(f.value > 0) {
			return &domain.ValidationError{Field: f.name, Value: f.value}
		}
	}
	return nil
}

// roundHalfUp rounds to the nearest integer with halves going toward +Inf.
func roundHalfUp(value float64) int64 {
	return int64(math.Floor(value + 0.5))
}

// LockedSource is a RandomSource safe for concurrent use.
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewLockedSource(seed uint64) *LockedSource {
	return &LockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func newSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return rand.Uint64()
	}
	return binary.LittleEndian.Uint64(b[:])
}
