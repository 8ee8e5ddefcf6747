package model

import "github.com/shopspring/decimal"

type Account struct {
	Address       string       `json:"address"`
	Type          string       `json:"type,omitempty"`
	AccountNumber uint64       `json:"account_number"`
	Sequence      uint64       `json:"sequence"`
	Balances      []Coin       `json:"balances"`
	Delegations   []Delegation `json:"delegations,omitempty"`
	Rewards       []Coin       `json:"rewards,omitempty"`
	// BalanceOnly marks pseudo-accounts built from a single balance query.
	BalanceOnly bool `json:"balance_only,omitempty"`
}

type Delegation struct {
	ValidatorAddress string          `json:"validator_address"`
	Shares           decimal.Decimal `json:"shares"`
	Balance          Coin            `json:"balance"`
}
