package core

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
	"github.com/DefiantLabs/cosmos-explorer/util"
	"github.com/cometbft/cometbft/crypto/tmhash"
	tmbytes "github.com/cometbft/cometbft/libs/bytes"
	cosmosTx "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/shopspring/decimal"
)

// TxHash is the Tendermint transaction hash: SHA-256 of the raw tx bytes in
// upper-case hex. Block endpoints do not return it, so it is derived locally.
func TxHash(raw []byte) string {
	return tendermintHashToHex(tmhash.Sum(raw))
}

func tendermintHashToHex(hash []byte) string {
	return tmbytes.HexBytes(hash).String()
}

// HashToHex converts a base64 hash (as served by the LCD) to upper hex.
func HashToHex(b64 string) (string, error) {
	if b64 == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", err
	}
	return tendermintHashToHex(raw), nil
}

// DecodeTx extracts what can be read from a raw protobuf tx without an
// interface registry: message type URLs, memo, fee and gas limit. Message
// payloads stay opaque.
func DecodeTx(raw []byte) (*model.Transaction, error) {
	var txRaw cosmosTx.TxRaw
	if err := txRaw.Unmarshal(raw); err != nil {
		return nil, fmt.Errorf("unmarshal tx raw: %w", err)
	}

	var body cosmosTx.TxBody
	if err := body.Unmarshal(txRaw.BodyBytes); err != nil {
		return nil, fmt.Errorf("unmarshal tx body: %w", err)
	}

	out := &model.Transaction{
		Memo:     body.Memo,
		Messages: make([]model.Message, 0, len(body.Messages)),
		Fee:      []model.Coin{},
	}
	for _, msg := range body.Messages {
		if msg == nil {
			continue
		}
		out.Messages = append(out.Messages, model.Message{Type: msg.TypeUrl})
	}

	var authInfo cosmosTx.AuthInfo
	if err := authInfo.Unmarshal(txRaw.AuthInfoBytes); err != nil {
		// body is still useful without fee data
		return out, nil
	}

	if authInfo.Fee != nil {
		out.GasWanted = int64(authInfo.Fee.GasLimit)
		for _, c := range authInfo.Fee.Amount {
			amount := decimal.Zero
			if !c.Amount.IsNil() {
				amount = util.ToNumeric(c.Amount.BigInt())
			}
			out.Fee = append(out.Fee, model.Coin{Denom: c.Denom, Amount: amount})
		}
	}

	return out, nil
}

// NormalizeHash strips an optional 0x prefix and upper-cases a hex tx hash.
func NormalizeHash(hash string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimPrefix(hash, "0x"), "0X"))
}
