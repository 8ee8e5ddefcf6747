package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
	"github.com/DefiantLabs/cosmos-explorer/rest"
	"github.com/cosmos/cosmos-sdk/types/bech32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bech32Address(t *testing.T, hrp string) string {
	addr, err := bech32.ConvertAndEncode(hrp, make([]byte, 20))
	require.NoError(t, err)
	return addr
}

func TestClassifySearchQuery(t *testing.T) {
	cases := []struct {
		query string
		want  model.SearchType
	}{
		{"12345", model.SearchBlock},
		{"  42 ", model.SearchBlock},
		{strings.Repeat("a", 64), model.SearchTransaction},
		{strings.Repeat("F", 64), model.SearchTransaction},
		{"0x" + strings.Repeat("c", 64), model.SearchTransaction},
		{strings.Repeat("1", 64), model.SearchBlock},
		{bech32Address(t, "cosmos"), model.SearchAddress},
		{bech32Address(t, "cosmosvaloper"), model.SearchAddress},
		{"0x" + strings.Repeat("d", 40), model.SearchAddress},
		{strings.Repeat("g", 64), model.SearchUnknown},
		{"hello world", model.SearchUnknown},
		{"", model.SearchUnknown},
		{strings.Repeat("a", 63), model.SearchUnknown},
		{strings.Repeat("a", 45), model.SearchAddress},
		{"ABC", model.SearchUnknown},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifySearchQuery(tc.query), tc.query)
	}
}

func TestClassifySearchQueryWithPrefix(t *testing.T) {
	osmo := bech32Address(t, "osmo")
	assert.Equal(t, model.SearchAddress, ClassifySearchQueryWithPrefix(osmo, "osmo"))
	assert.Equal(t, model.SearchUnknown, ClassifySearchQueryWithPrefix(osmo, "juno"))
	assert.Equal(t, model.SearchAddress, ClassifySearchQueryWithPrefix(bech32Address(t, "osmovaloper"), "osmo"))
	assert.Equal(t, model.SearchBlock, ClassifySearchQueryWithPrefix("7", "osmo"))
}

func TestResolveSearchTransactionNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"code":5,"message":"tx not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	adapter := rest.NewCosmosAdapter(networks.Network{ID: "mock", LCD: server.URL}, chain.NewRequester(server.Client(), time.Second, ""), nil)
	hash := strings.Repeat("AB", 32)

	result := ResolveSearch(context.Background(), adapter, hash)
	assert.False(t, result.Found)
	assert.Equal(t, model.SearchTransaction, result.Type)
	assert.Equal(t, "transaction not found", result.Error)
	assert.Equal(t, "/cosmos/tx/v1beta1/txs/"+hash, result.Endpoint)
	assert.Nil(t, result.Transaction)
}

func TestResolveSearchBlock(t *testing.T) {
	adapter := &fakeAdapter{latest: 100}

	result := ResolveSearch(context.Background(), adapter, "99")
	assert.True(t, result.Found)
	assert.Equal(t, model.SearchBlock, result.Type)
	require.NotNil(t, result.Block)
	assert.Equal(t, int64(99), result.Block.Height)

	result = ResolveSearch(context.Background(), adapter, "1000")
	assert.False(t, result.Found)
	assert.Equal(t, "block not found", result.Error)
}

func TestResolveSearchUnknownAndAccount(t *testing.T) {
	adapter := &fakeAdapter{latest: 1}

	result := ResolveSearch(context.Background(), adapter, "???")
	assert.False(t, result.Found)
	assert.Equal(t, model.SearchUnknown, result.Type)
	assert.NotEmpty(t, result.Error)

	addr := bech32Address(t, "cosmos")
	result = ResolveSearch(context.Background(), adapter, addr)
	assert.False(t, result.Found)
	assert.Equal(t, model.SearchAddress, result.Type)
	assert.Equal(t, "/accounts/"+addr, result.Endpoint)
}

type validatorAdapter struct {
	*fakeAdapter
	looked []string
}

func (v *validatorAdapter) Validator(_ context.Context, addr string) (*model.Validator, error) {
	v.looked = append(v.looked, addr)
	return &model.Validator{OperatorAddress: addr, Moniker: "val"}, nil
}

func TestResolveSearchValidatorOperator(t *testing.T) {
	adapter := &validatorAdapter{fakeAdapter: &fakeAdapter{network: networks.Network{AccountPrefix: "cosmos"}}}
	valoper := bech32Address(t, "cosmosvaloper")

	result := ResolveSearch(context.Background(), adapter, valoper)
	assert.True(t, result.Found)
	require.NotNil(t, result.Validator)
	assert.Equal(t, "val", result.Validator.Moniker)
	assert.Equal(t, []string{valoper}, adapter.looked)
}
