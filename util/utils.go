package util

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// DisplayDecimals is the number of fractional digits used when formatting token amounts.
const DisplayDecimals = 6

func ToNumeric(i *big.Int) decimal.Decimal {
	num := decimal.NewFromBigInt(i, 0)
	return num
}

// StrNotSet will return true if the string value provided is empty
func StrNotSet(value string) bool {
	return len(value) == 0
}

// ParseDecimal parses a chain amount string. Empty strings are zero.
func ParseDecimal(value string) (decimal.Decimal, error) {
	if StrNotSet(strings.TrimSpace(value)) {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(strings.TrimSpace(value))
}

// FormatTokenAmount converts a base-unit amount into display units and appends the symbol,
// e.g. 1000000 with 6 decimals and symbol AXONE -> "1.000000 AXONE".
func FormatTokenAmount(amount decimal.Decimal, decimals int32, symbol string) string {
	shifted := amount.Shift(-decimals)
	if symbol == "" {
		return shifted.StringFixed(DisplayDecimals)
	}
	return fmt.Sprintf("%s %s", shifted.StringFixed(DisplayDecimals), symbol)
}

var denomPrefixes = map[int32]string{
	3:  "m",
	6:  "u",
	9:  "n",
	18: "a",
}

// BaseDenom guesses the base-unit denom of a staking token from its symbol
// and decimals, e.g. AXONE with 6 decimals -> "uaxone".
func BaseDenom(symbol string, decimals int32) string {
	prefix, ok := denomPrefixes[decimals]
	if !ok || StrNotSet(symbol) {
		return ""
	}
	return prefix + strings.ToLower(symbol)
}

// ParseTokenAmount is the inverse of FormatTokenAmount. The symbol, when present, must match.
func ParseTokenAmount(formatted string, decimals int32, symbol string) (decimal.Decimal, error) {
	fields := strings.Fields(formatted)
	switch {
	case len(fields) == 1:
	case len(fields) == 2 && (symbol == "" || fields[1] == symbol):
	default:
		return decimal.Zero, fmt.Errorf("unexpected token amount %q", formatted)
	}

	value, err := decimal.NewFromString(fields[0])
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse token amount %q: %w", formatted, err)
	}
	return value.Shift(decimals).Truncate(0), nil
}

var txTypeNames = map[string]string{
	"bank.v1beta1.MsgSend":                            "Transfer",
	"staking.v1beta1.MsgDelegate":                     "Delegate",
	"staking.v1beta1.MsgUndelegate":                   "Undelegate",
	"staking.v1beta1.MsgBeginRedelegate":              "Redelegate",
	"distribution.v1beta1.MsgWithdrawDelegatorReward": "Claim Rewards",
	"gov.v1beta1.MsgVote":                             "Vote",
	"gov.v1beta1.MsgSubmitProposal":                   "Submit Proposal",
	"ibc.core.channel.v1.MsgRecvPacket":               "IBC Receive",
	"ibc.core.channel.v1.MsgAcknowledgement":          "IBC Acknowledge",
}

// ParseTxType turns a message type URL into a short readable label.
func ParseTxType(typeURL string) string {
	if StrNotSet(typeURL) {
		return "Unknown"
	}

	t := strings.TrimPrefix(typeURL, "/cosmos.")
	t = strings.TrimPrefix(t, "/")

	if name, ok := txTypeNames[t]; ok {
		return name
	}

	last := t[strings.LastIndex(t, ".")+1:]
	last = strings.Replace(last, "Msg", "", 1)
	if last == "" {
		return "Unknown"
	}
	return last
}

// TruncateMiddle shortens s to head...tail when it is longer than head+tail.
func TruncateMiddle(s string, head, tail int) string {
	if len(s) <= head+tail {
		return s
	}
	return s[:head] + "..." + s[len(s)-tail:]
}

func TruncateHash(hash string) string {
	return TruncateMiddle(hash, 8, 8)
}

func RemoveDuplicateStrings(list []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, item := range list {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}
