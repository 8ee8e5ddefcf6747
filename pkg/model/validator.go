package model

import (
	"github.com/shopspring/decimal"
)

type BondStatus string

const (
	BondStatusUnspecified BondStatus = "unspecified"
	BondStatusBonded      BondStatus = "bonded"
	BondStatusUnbonding   BondStatus = "unbonding"
	BondStatusUnbonded    BondStatus = "unbonded"
)

// ParseBondStatus maps the staking module enum names (BOND_STATUS_*).
func ParseBondStatus(s string) BondStatus {
	switch s {
	case "BOND_STATUS_BONDED":
		return BondStatusBonded
	case "BOND_STATUS_UNBONDING":
		return BondStatusUnbonding
	case "BOND_STATUS_UNBONDED":
		return BondStatusUnbonded
	default:
		return BondStatusUnspecified
	}
}

func (s BondStatus) Label() string {
	switch s {
	case BondStatusBonded:
		return "Active"
	case BondStatusUnbonding:
		return "Unbonding"
	case BondStatusUnbonded:
		return "Inactive"
	default:
		return "Unknown"
	}
}

type Validator struct {
	OperatorAddress   string          `json:"operator_address"`
	Moniker           string          `json:"moniker"`
	Identity          string          `json:"identity,omitempty"`
	Website           string          `json:"website,omitempty"`
	Details           string          `json:"details,omitempty"`
	Tokens            decimal.Decimal `json:"tokens"`
	DelegatorShares   decimal.Decimal `json:"delegator_shares"`
	CommissionRate    decimal.Decimal `json:"commission_rate"`
	CommissionMaxRate decimal.Decimal `json:"commission_max_rate"`
	Jailed            bool            `json:"jailed"`
	Status            BondStatus      `json:"status"`
	StatusLabel       string          `json:"status_label"`
	VotingPower       int64           `json:"voting_power,omitempty"`
	// VotingPowerPercent is the share of bonded tokens, 0 when not bonded.
	VotingPowerPercent decimal.Decimal `json:"voting_power_percent"`
	AvatarURL          string          `json:"avatar_url,omitempty"`
}

var hundred = decimal.NewFromInt(100)

// SetVotingPowerPercent fills VotingPowerPercent from each bonded validator's
// tokens over the bonded total.
func SetVotingPowerPercent(validators []Validator) {
	total := decimal.Zero
	for i := range validators {
		if validators[i].Status == BondStatusBonded {
			total = total.Add(validators[i].Tokens)
		}
	}

	for i := range validators {
		v := &validators[i]
		if v.Status != BondStatusBonded || !total.IsPositive() {
			v.VotingPowerPercent = decimal.Zero
			continue
		}
		v.VotingPowerPercent = v.Tokens.Mul(hundred).Div(total).Round(4)
	}
}

// ValidatorSet is returned instead of an error by chains without a validator
// set concept (Applicable=false).
type ValidatorSet struct {
	Applicable bool        `json:"applicable"`
	Validators []Validator `json:"validators"`
}
