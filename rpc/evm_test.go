package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/stretchr/testify/suite"
)

var (
	evmBlockHash = "0x" + strings.Repeat("ab", 32)
	evmTxHash    = "0x" + strings.Repeat("cd", 32)
	evmMiner     = "0x" + strings.Repeat("11", 20)
	evmFrom      = "0x" + strings.Repeat("22", 20)
	evmTo        = "0x" + strings.Repeat("33", 20)
)

type evmCall struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
	ID     int               `json:"id"`
}

type EvmAdapterSuite struct {
	suite.Suite
	server  *httptest.Server
	adapter *EvmAdapter
	calls   []string
}

func (s *EvmAdapterSuite) SetupTest() {
	s.calls = nil
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call evmCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		s.calls = append(s.calls, call.Method)

		param := func(i int) string {
			var v string
			if i < len(call.Params) {
				_ = json.Unmarshal(call.Params[i], &v)
			}
			return v
		}

		result := "null"
		switch call.Method {
		case "eth_blockNumber":
			result = `"0x64"`
		case "eth_getBlockByNumber":
			switch param(0) {
			case "latest", "0x64":
				result = fmt.Sprintf(`{"number":"0x64","hash":%q,"timestamp":"0x66321360","miner":%q,"gasUsed":"0x5208","gasLimit":"0x1c9c380","transactions":[%q]}`,
					evmBlockHash, evmMiner, evmTxHash)
			}
		case "eth_getBalance":
			result = `"0xde0b6b3a7640000"`
		case "eth_getTransactionReceipt":
			if param(0) == evmTxHash {
				result = fmt.Sprintf(`{"transactionHash":%q,"blockNumber":"0x64","from":%q,"to":%q,"gasUsed":"0x5208","status":"0x1","effectiveGasPrice":"0x3b9aca00"}`,
					evmTxHash, evmFrom, evmTo)
			}
		case "eth_fail":
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"boom"}}`))
			return
		}
		_, _ = fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%d,"result":%s}`, call.ID, result)
	}))

	network := networks.Network{ID: "arb", Type: networks.ChainTypeEVM, ChainID: "42161", RPC: s.server.URL, CoinSymbol: "ETH", CoinDecimals: 18}
	s.adapter = NewEvmAdapter(network, chain.NewRequester(s.server.Client(), 2*time.Second, "test"))
}

func (s *EvmAdapterSuite) TearDownTest() {
	s.server.Close()
}

func (s *EvmAdapterSuite) TestStatus() {
	status, err := s.adapter.Status(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(100), status.LatestHeight)
	s.Equal("42161", status.ChainID)
}

func (s *EvmAdapterSuite) TestBlockDecodesHex() {
	block, err := s.adapter.Block(context.Background(), "100")
	s.Require().NoError(err)
	s.Equal(int64(100), block.Height)
	s.Equal(strings.ToUpper(strings.Repeat("ab", 32)), block.Hash)
	s.Equal(evmBlockHash, block.RawHash)
	s.Equal(int64(21000), block.GasUsed)
	s.Equal(int64(30000000), block.GasLimit)
	s.Equal([]string{evmTxHash}, block.TxHashes)
	s.Empty(block.Txs)
	s.Equal(1, block.TxCount())
	s.Equal(int64(0x66321360), block.Time.Unix())
}

func (s *EvmAdapterSuite) TestBlockNotFound() {
	_, err := s.adapter.Block(context.Background(), "999")
	s.ErrorIs(err, chain.ErrBlockNotFound)

	_, err = s.adapter.Block(context.Background(), "0x10")
	s.ErrorIs(err, chain.ErrBlockNotFound)
}

func (s *EvmAdapterSuite) TestValidatorsNotApplicable() {
	set, err := s.adapter.Validators(context.Background())
	s.Require().NoError(err)
	s.False(set.Applicable)
	s.Empty(set.Validators)
	s.Empty(s.calls)
}

func (s *EvmAdapterSuite) TestAccountIsBalanceOnly() {
	account, err := s.adapter.Account(context.Background(), strings.ToLower(evmFrom))
	s.Require().NoError(err)
	s.True(account.BalanceOnly)
	s.Require().Len(account.Balances, 1)
	s.Equal("ETH", account.Balances[0].Denom)
	s.Equal("1000000000000000000", account.Balances[0].Amount.String())

	_, err = s.adapter.Account(context.Background(), "cosmos1notevm")
	s.ErrorIs(err, chain.ErrAccountNotFound)
}

func (s *EvmAdapterSuite) TestTransaction() {
	tx, err := s.adapter.Transaction(context.Background(), evmTxHash)
	s.Require().NoError(err)
	s.Equal(evmTxHash, tx.Hash)
	s.Equal(int64(100), tx.Height)
	s.True(tx.Success)
	s.Equal(int64(21000), tx.GasUsed)
	s.Require().Len(tx.Fee, 1)
	s.Equal("21000000000000", tx.Fee[0].Amount.String())
	s.Require().Len(tx.Messages, 1)
	s.Equal(EvmTxMessageType, tx.Messages[0].Type)
	s.Equal(int64(0x66321360), tx.Time.Unix())
}

func (s *EvmAdapterSuite) TestTransactionPendingIsNotFound() {
	_, err := s.adapter.Transaction(context.Background(), strings.Repeat("ef", 32))
	s.ErrorIs(err, chain.ErrTransactionNotFound)
	s.Equal("eth_getTransactionReceipt", chain.EndpointOf(err))

	_, err = s.adapter.Transaction(context.Background(), "0x1234")
	s.ErrorIs(err, chain.ErrTransactionNotFound)
}

func (s *EvmAdapterSuite) TestRPCErrorIsUnavailable() {
	var out string
	_, err := s.adapter.call(context.Background(), "eth_fail", nil, &out)
	s.Require().Error(err)
	_, ok := rpcErrorOf(err)
	s.True(ok)
	s.ErrorIs(chain.Unavailable(err), chain.ErrEndpointUnavailable)
}

func (s *EvmAdapterSuite) TestHealth() {
	s.True(s.adapter.Health(context.Background()).RPC)
}

func TestEvmAdapterSuite(t *testing.T) {
	suite.Run(t, new(EvmAdapterSuite))
}
