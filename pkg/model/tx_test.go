package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageJSONCarriesLabel(t *testing.T) {
	msg := Message{
		Type:   "/cosmos.bank.v1beta1.MsgSend",
		From:   "axone1from",
		To:     "axone1to",
		Amount: []Coin{{Denom: "uaxone", Amount: decimal.NewFromInt(5)}},
	}

	b, err := json.Marshal(msg)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "Transfer", out["label"])
	assert.Equal(t, "/cosmos.bank.v1beta1.MsgSend", out["type"])
	assert.Equal(t, "axone1from", out["from"])
	assert.Equal(t, "axone1to", out["to"])
	assert.Len(t, out["amount"], 1)
}

func TestBondStatusLabel(t *testing.T) {
	assert.Equal(t, BondStatusBonded, ParseBondStatus("BOND_STATUS_BONDED"))
	assert.Equal(t, "Active", BondStatusBonded.Label())
	assert.Equal(t, "Unknown", ParseBondStatus("").Label())
}

func TestSetVotingPowerPercent(t *testing.T) {
	validators := []Validator{
		{Moniker: "a", Status: BondStatusBonded, Tokens: decimal.NewFromInt(3_000_000)},
		{Moniker: "b", Status: BondStatusBonded, Tokens: decimal.NewFromInt(1_000_000)},
		{Moniker: "c", Status: BondStatusUnbonded, Tokens: decimal.NewFromInt(5)},
	}
	SetVotingPowerPercent(validators)

	assert.True(t, validators[0].VotingPowerPercent.Equal(decimal.NewFromInt(75)))
	assert.True(t, validators[1].VotingPowerPercent.Equal(decimal.NewFromInt(25)))
	assert.True(t, validators[2].VotingPowerPercent.IsZero())

	third := []Validator{
		{Status: BondStatusBonded, Tokens: decimal.NewFromInt(1)},
		{Status: BondStatusBonded, Tokens: decimal.NewFromInt(2)},
	}
	SetVotingPowerPercent(third)
	assert.Equal(t, "33.3333", third[0].VotingPowerPercent.String())

	empty := []Validator{{Status: BondStatusBonded}}
	SetVotingPowerPercent(empty)
	assert.True(t, empty[0].VotingPowerPercent.IsZero())
}
