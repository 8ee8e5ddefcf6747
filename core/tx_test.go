package core

import (
	"testing"

	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	cosmosTx "github.com/cosmos/cosmos-sdk/types/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxHash(t *testing.T) {
	// base64 "aGVsbG8=" as served in block data
	assert.Equal(t, "2CF24DBA5FB0A30E26E83B2AC5B9E29E1B161E5C1FA7425E73043362938B9824", TxHash([]byte("hello")))
}

func TestHashToHex(t *testing.T) {
	hex, err := HashToHex("aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "68656C6C6F", hex)

	hex, err = HashToHex("")
	require.NoError(t, err)
	assert.Empty(t, hex)
}

func TestNormalizeHash(t *testing.T) {
	assert.Equal(t, "ABCDEF", NormalizeHash("0xabcdef"))
	assert.Equal(t, "ABCDEF", NormalizeHash("abcdef"))
}

func buildRawTx(t *testing.T) []byte {
	body := cosmosTx.TxBody{
		Messages: []*codectypes.Any{
			{TypeUrl: "/cosmos.bank.v1beta1.MsgSend"},
			{TypeUrl: "/cosmos.staking.v1beta1.MsgDelegate"},
		},
		Memo: "gm",
	}
	bodyBytes, err := body.Marshal()
	require.NoError(t, err)

	authInfo := cosmosTx.AuthInfo{
		Fee: &cosmosTx.Fee{
			Amount:   sdk.NewCoins(sdk.NewInt64Coin("uaxone", 5000)),
			GasLimit: 200000,
		},
	}
	authBytes, err := authInfo.Marshal()
	require.NoError(t, err)

	raw := cosmosTx.TxRaw{BodyBytes: bodyBytes, AuthInfoBytes: authBytes}
	rawBytes, err := raw.Marshal()
	require.NoError(t, err)
	return rawBytes
}

func TestDecodeTx(t *testing.T) {
	decoded, err := DecodeTx(buildRawTx(t))
	require.NoError(t, err)

	assert.Equal(t, "gm", decoded.Memo)
	assert.Equal(t, int64(200000), decoded.GasWanted)
	require.Len(t, decoded.Messages, 2)
	assert.Equal(t, "/cosmos.bank.v1beta1.MsgSend", decoded.Messages[0].Type)
	assert.Equal(t, "/cosmos.staking.v1beta1.MsgDelegate", decoded.Messages[1].Type)
	require.Len(t, decoded.Fee, 1)
	assert.Equal(t, "uaxone", decoded.Fee[0].Denom)
	assert.Equal(t, "5000", decoded.Fee[0].Amount.String())
}

func TestDecodeTxGarbage(t *testing.T) {
	_, err := DecodeTx([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)
}
