package model

import (
	"encoding/json"
	"time"

	"github.com/DefiantLabs/cosmos-explorer/util"
	"github.com/shopspring/decimal"
)

type Coin struct {
	Denom  string          `json:"denom"`
	Amount decimal.Decimal `json:"amount"`
	// Display is set for the network's own token, in display units.
	Display string `json:"display,omitempty"`
}

// Message is a single typed transaction message. Fields keeps the scalar
// payload values that are not lifted into From/To/Amount.
type Message struct {
	Type   string            `json:"type"`
	From   string            `json:"from,omitempty"`
	To     string            `json:"to,omitempty"`
	Amount []Coin            `json:"amount,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MarshalJSON adds the human readable message label.
func (m Message) MarshalJSON() ([]byte, error) {
	type message Message
	return json.Marshal(struct {
		message
		Label string `json:"label"`
	}{message(m), util.ParseTxType(m.Type)})
}

type Transaction struct {
	Hash string `json:"hash"`
	// Synthetic marks hashes derived locally from the raw tx bytes.
	Synthetic bool      `json:"synthetic,omitempty"`
	Height    int64     `json:"height"`
	Time      time.Time `json:"time"`
	Code      uint32    `json:"code"`
	Success   bool      `json:"success"`
	GasUsed   int64     `json:"gas_used"`
	GasWanted int64     `json:"gas_wanted"`
	Fee       []Coin    `json:"fee"`
	Memo      string    `json:"memo,omitempty"`
	RawLog    string    `json:"raw_log,omitempty"`
	Messages  []Message `json:"messages"`
}

type TxFeed struct {
	State        FetchState    `json:"state"`
	Height       int64         `json:"height"`
	Transactions []Transaction `json:"transactions"`
	Failed       int           `json:"failed"`
	// Empty is set when the source block legitimately holds no transactions.
	Empty bool `json:"empty"`
	// NextKey and Total are only set for paged lists.
	NextKey string `json:"next_key,omitempty"`
	Total   int64  `json:"total,omitempty"`
}
