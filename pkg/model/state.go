package model

import "time"

// FetchState tracks a single fetch attempt. Failed is terminal for that
// attempt only; a retry starts again from Loading.
type FetchState string

const (
	StateIdle           FetchState = "idle"
	StateLoading        FetchState = "loading"
	StateSuccess        FetchState = "success"
	StatePartialSuccess FetchState = "partial_success"
	StateFailed         FetchState = "failed"
)

// Overview joins independent fetches for one screen. Each branch carries its
// own error message so one failure never hides the others.
type Overview struct {
	Network        string      `json:"network"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Status         *Status     `json:"status,omitempty"`
	StatusError    string      `json:"status_error,omitempty"`
	Blocks         *BlockBatch `json:"blocks,omitempty"`
	BlocksError    string      `json:"blocks_error,omitempty"`
	Transactions   *TxFeed     `json:"transactions,omitempty"`
	TxError        string      `json:"transactions_error,omitempty"`
	ValidatorCount int         `json:"validator_count"`
	ValidatorError string      `json:"validator_error,omitempty"`
	Health         *Health     `json:"health,omitempty"`
}
