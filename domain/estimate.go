package domain

import "time"

// ParameterVector holds the project attributes fed into the estimation engine.
type ParameterVector struct {
	TeamExp      float64 `json:"team_exp" yaml:"team_exp"`
	ManagerExp   float64 `json:"manager_exp" yaml:"manager_exp"`
	Length       float64 `json:"length" yaml:"length"`
	Transactions float64 `json:"transactions" yaml:"transactions"`
	Entities     float64 `json:"entities" yaml:"entities"`
	PointsAdjust float64 `json:"points_adjust" yaml:"points_adjust"`
	Language     int     `json:"language" yaml:"language"`
}

// Estimate is the engine output for one parameter vector. It is not
// persisted until the user saves it.
type Estimate struct {
	Parameters ParameterVector `json:"parameters" yaml:"parameters"`
	Amount     int64           `json:"amount" yaml:"amount"`
}

// SavedEstimate is a persisted estimate owned by one user.
type SavedEstimate struct {
	ID         string          `json:"id" yaml:"id"`
	OwnerID    string          `json:"user_id" yaml:"user_id"`
	Parameters ParameterVector `json:"parameters" yaml:"parameters"`
	Amount     int64           `json:"estimated_cost" yaml:"estimated_cost"`
	CreatedAt  time.Time       `json:"created_at" yaml:"created_at"`
}

// Estimate returns the transient estimate this record was saved from.
func (s SavedEstimate) Estimate() Estimate {
	return Estimate{Parameters: s.Parameters, Amount: s.Amount}
}

type LanguageOption struct {
	Code  int    `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}
