package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/core"
	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
	"github.com/DefiantLabs/cosmos-explorer/util"
	"github.com/shopspring/decimal"
)

var (
	fromKeys = []string{"from_address", "delegator_address", "sender", "voter", "proposer", "signer", "granter"}
	toKeys   = []string{"to_address", "validator_address", "receiver", "validator_dst_address", "contract", "grantee"}
)

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseInt(s string) int64 {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return i
}

func parseUint(s string) uint64 {
	i, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return i
}

func parseDecimal(s string) decimal.Decimal {
	d, err := util.ParseDecimal(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toModelCoins(coins []Coin) []model.Coin {
	out := make([]model.Coin, 0, len(coins))
	for _, c := range coins {
		out = append(out, model.Coin{Denom: c.Denom, Amount: parseDecimal(c.Amount)})
	}
	return out
}

func toModelBlock(endpoint string, resp *BlockResponse) (*model.Block, error) {
	header := resp.Block.BlockHeader
	if header.Height == "" {
		return nil, &chain.RequestError{Endpoint: endpoint, Kind: chain.ErrBlockNotFound, Cause: errors.New("empty block in response")}
	}

	height, err := strconv.ParseInt(header.Height, 10, 64)
	if err != nil || height <= 0 {
		return nil, chain.Unavailable(chain.Malformed(endpoint, "invalid block height %q", header.Height))
	}

	hash, err := core.HashToHex(resp.BlockID.Hash)
	if err != nil {
		return nil, chain.Unavailable(chain.Malformed(endpoint, "invalid block hash: %v", err))
	}

	proposer, err := core.HashToHex(header.ProposerAddress)
	if err != nil {
		proposer = header.ProposerAddress
	}

	txs := resp.Block.Data.Txs
	if txs == nil {
		txs = []string{}
	}

	return &model.Block{
		Height:   height,
		Hash:     hash,
		RawHash:  resp.BlockID.Hash,
		Time:     parseTime(header.Time),
		ChainID:  header.ChainID,
		Proposer: proposer,
		Txs:      txs,
	}, nil
}

func toModelValidator(v *Validator) model.Validator {
	return model.Validator{
		OperatorAddress:   v.OperatorAddress,
		Moniker:           v.Description.Moniker,
		Identity:          v.Description.Identity,
		Website:           v.Description.Website,
		Details:           v.Description.Details,
		Tokens:            parseDecimal(v.Tokens),
		DelegatorShares:   parseDecimal(v.DelegatorShares),
		CommissionRate:    parseDecimal(v.Commission.CommissionRates.Rate),
		CommissionMaxRate: parseDecimal(v.Commission.CommissionRates.MaxRate),
		Jailed:            v.Jailed,
		Status:            model.ParseBondStatus(v.Status),
		StatusLabel:       model.ParseBondStatus(v.Status).Label(),
	}
}

// withDisplay formats the coins denominated in the network's own token.
func withDisplay(network networks.Network, coins []model.Coin) []model.Coin {
	base := util.BaseDenom(network.CoinSymbol, network.CoinDecimals)
	for i := range coins {
		if base != "" && coins[i].Denom == base {
			coins[i].Display = util.FormatTokenAmount(coins[i].Amount, network.CoinDecimals, network.CoinSymbol)
		}
	}
	return coins
}

func toModelTx(resp *TxResponse, tx *TxJSON) model.Transaction {
	out := model.Transaction{
		Hash:      resp.TxHash,
		Height:    parseInt(resp.Height),
		Time:      parseTime(resp.Timestamp),
		Code:      resp.Code,
		Success:   resp.Code == 0,
		GasUsed:   parseInt(resp.GasUsed),
		GasWanted: parseInt(resp.GasWanted),
		RawLog:    resp.RawLog,
		Fee:       []model.Coin{},
		Messages:  []model.Message{},
	}

	if tx == nil {
		tx = resp.Tx
	}
	if tx == nil {
		return out
	}

	out.Memo = tx.Body.Memo
	out.Fee = toModelCoins(tx.AuthInfo.Fee.Amount)
	for _, msg := range tx.Body.Messages {
		out.Messages = append(out.Messages, toModelMessage(msg))
	}
	return out
}

// toModelMessage lifts the common sender/recipient/amount fields out of a
// JSON message and keeps the remaining scalars as strings.
func toModelMessage(raw map[string]json.RawMessage) model.Message {
	msg := model.Message{Fields: map[string]string{}}
	_ = json.Unmarshal(raw["@type"], &msg.Type)

	used := map[string]bool{"@type": true}
	msg.From = firstString(raw, fromKeys, used)
	msg.To = firstString(raw, toKeys, used)

	if amount, ok := raw["amount"]; ok {
		msg.Amount = parseAmount(amount)
		used["amount"] = true
	} else if token, ok := raw["token"]; ok {
		msg.Amount = parseAmount(token)
		used["token"] = true
	}

	for k, v := range raw {
		if used[k] {
			continue
		}
		if s, ok := scalarString(v); ok {
			msg.Fields[k] = s
		}
	}
	if len(msg.Fields) == 0 {
		msg.Fields = nil
	}
	return msg
}

func firstString(raw map[string]json.RawMessage, keys []string, used map[string]bool) string {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil && s != "" {
			used[k] = true
			return s
		}
	}
	return ""
}

// parseAmount accepts both a coin list (MsgSend) and a single coin (MsgDelegate).
func parseAmount(raw json.RawMessage) []model.Coin {
	var list []Coin
	if err := json.Unmarshal(raw, &list); err == nil {
		return toModelCoins(list)
	}
	var single Coin
	if err := json.Unmarshal(raw, &single); err == nil && single.Denom != "" {
		return toModelCoins([]Coin{single})
	}
	return nil
}

func scalarString(raw json.RawMessage) (string, bool) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case bool, float64:
		return string(raw), true
	default:
		return "", false
	}
}

// parseBaseAccount digs through vesting/module wrappers until it finds the
// object carrying the address.
func parseBaseAccount(raw json.RawMessage) (*BaseAccount, error) {
	var outerType string
	for depth := 0; depth < 4; depth++ {
		var acc BaseAccount
		if err := json.Unmarshal(raw, &acc); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		if outerType == "" {
			outerType = acc.Type
		}
		if acc.Address != "" {
			acc.Type = outerType
			return &acc, nil
		}
		switch {
		case len(acc.BaseAccount) > 0 && string(acc.BaseAccount) != "null":
			raw = acc.BaseAccount
		case len(acc.BaseVesting) > 0 && string(acc.BaseVesting) != "null":
			raw = acc.BaseVesting
		default:
			return nil, nil
		}
	}
	return nil, nil
}
