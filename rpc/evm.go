package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/config"
	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
	"github.com/DefiantLabs/cosmos-explorer/util"
	types "github.com/cometbft/cometbft/rpc/jsonrpc/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

const (
	evmRequestID = types.JSONRPCIntID(1)
	evmLatestTag = "latest"

	// EvmTxMessageType tags the single message synthesized for an EVM transaction.
	EvmTxMessageType = "evm/transaction"
)

type evmBlock struct {
	Number       hexutil.Uint64 `json:"number"`
	Hash         common.Hash    `json:"hash"`
	Timestamp    hexutil.Uint64 `json:"timestamp"`
	Miner        common.Address `json:"miner"`
	GasUsed      hexutil.Uint64 `json:"gasUsed"`
	GasLimit     hexutil.Uint64 `json:"gasLimit"`
	Transactions []common.Hash  `json:"transactions"`
}

type evmReceipt struct {
	TransactionHash   common.Hash     `json:"transactionHash"`
	BlockNumber       hexutil.Uint64  `json:"blockNumber"`
	From              common.Address  `json:"from"`
	To                *common.Address `json:"to"`
	ContractAddress   *common.Address `json:"contractAddress"`
	GasUsed           hexutil.Uint64  `json:"gasUsed"`
	Status            hexutil.Uint64  `json:"status"`
	EffectiveGasPrice *hexutil.Big    `json:"effectiveGasPrice"`
}

// EvmAdapter maps the explorer capabilities onto Ethereum JSON-RPC. There is
// no validator set and no account resource: Validators reports
// Applicable=false and Account returns a balance-only record.
type EvmAdapter struct {
	network networks.Network
	req     *chain.Requester
}

var (
	_ chain.Adapter       = (*EvmAdapter)(nil)
	_ chain.HealthChecker = (*EvmAdapter)(nil)
)

func NewEvmAdapter(network networks.Network, req *chain.Requester) *EvmAdapter {
	return &EvmAdapter{network: network, req: req}
}

func (a *EvmAdapter) Network() networks.Network {
	return a.network
}

// call posts one JSON-RPC request. found is false when the node answered
// with a null result.
func (a *EvmAdapter) call(ctx context.Context, method string, params []interface{}, result interface{}) (found bool, err error) {
	if params == nil {
		params = []interface{}{}
	}
	request, err := types.ArrayToRequest(evmRequestID, method, params)
	if err != nil {
		return false, fmt.Errorf("failed to encode params: %w", err)
	}

	body, err := a.req.PostJSON(ctx, method, a.network.RPC, request)
	if err != nil {
		return false, err
	}

	raw, err := decodeEnvelope(method, body, evmRequestID)
	if err != nil {
		return false, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return false, &chain.RequestError{Endpoint: method, Kind: chain.ErrMalformedResponse, Cause: err}
	}
	return true, nil
}

func (a *EvmAdapter) Status(ctx context.Context) (*model.Status, error) {
	var height hexutil.Uint64
	found, err := a.call(ctx, "eth_blockNumber", nil, &height)
	if err != nil {
		return nil, chain.Unavailable(err)
	}
	if !found || height == 0 {
		return nil, chain.Unavailable(chain.Malformed("eth_blockNumber", "missing block number"))
	}

	return &model.Status{ChainID: a.network.ChainID, LatestHeight: int64(height)}, nil
}

func (a *EvmAdapter) Block(ctx context.Context, heightOrTag string) (*model.Block, error) {
	height, latest, err := chain.ParseHeightOrTag(heightOrTag)
	if err != nil {
		return nil, err
	}

	tag := evmLatestTag
	if !latest {
		tag = hexutil.EncodeUint64(uint64(height))
	}

	var b evmBlock
	found, err := a.call(ctx, "eth_getBlockByNumber", []interface{}{tag, false}, &b)
	if err != nil {
		return nil, chain.Unavailable(err)
	}
	if !found {
		return nil, &chain.RequestError{Endpoint: "eth_getBlockByNumber", Kind: chain.ErrBlockNotFound}
	}

	hashes := make([]string, 0, len(b.Transactions))
	for _, h := range b.Transactions {
		hashes = append(hashes, h.Hex())
	}

	return &model.Block{
		Height:   int64(b.Number),
		Hash:     strings.ToUpper(strings.TrimPrefix(b.Hash.Hex(), "0x")),
		RawHash:  b.Hash.Hex(),
		Time:     time.Unix(int64(b.Timestamp), 0).UTC(),
		ChainID:  a.network.ChainID,
		Proposer: b.Miner.Hex(),
		Txs:      []string{},
		TxHashes: hashes,
		GasUsed:  int64(b.GasUsed),
		GasLimit: int64(b.GasLimit),
	}, nil
}

func (a *EvmAdapter) Validators(_ context.Context) (*model.ValidatorSet, error) {
	return &model.ValidatorSet{Applicable: false, Validators: []model.Validator{}}, nil
}

func (a *EvmAdapter) Account(ctx context.Context, address string) (*model.Account, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q is not an EVM address", chain.ErrAccountNotFound, address)
	}
	addr := common.HexToAddress(address)

	var balance hexutil.Big
	found, err := a.call(ctx, "eth_getBalance", []interface{}{addr.Hex(), evmLatestTag}, &balance)
	if err != nil {
		return nil, chain.Unavailable(err)
	}
	if !found {
		return nil, &chain.RequestError{Endpoint: "eth_getBalance", Kind: chain.ErrAccountNotFound}
	}

	amount := util.ToNumeric(balance.ToInt())
	return &model.Account{
		Address: addr.Hex(),
		Type:    string(networks.ChainTypeEVM),
		Balances: []model.Coin{{
			Denom:   a.network.CoinSymbol,
			Amount:  amount,
			Display: util.FormatTokenAmount(amount, a.network.CoinDecimals, a.network.CoinSymbol),
		}},
		BalanceOnly: true,
	}, nil
}

// Transaction reads the receipt, so only mined transactions are visible. A
// pending transaction is reported as ErrTransactionNotFound.
func (a *EvmAdapter) Transaction(ctx context.Context, hash string) (*model.Transaction, error) {
	hash = strings.TrimSpace(hash)
	if !strings.HasPrefix(hash, "0x") && !strings.HasPrefix(hash, "0X") {
		hash = "0x" + hash
	}
	if _, err := hexutil.Decode(hash); err != nil || len(hash) != 66 {
		return nil, fmt.Errorf("%w: invalid hash %q", chain.ErrTransactionNotFound, hash)
	}

	var receipt evmReceipt
	found, err := a.call(ctx, "eth_getTransactionReceipt", []interface{}{strings.ToLower(hash)}, &receipt)
	if err != nil {
		return nil, chain.Unavailable(err)
	}
	if !found {
		return nil, &chain.RequestError{Endpoint: "eth_getTransactionReceipt", Kind: chain.ErrTransactionNotFound}
	}

	msg := model.Message{Type: EvmTxMessageType, From: receipt.From.Hex()}
	switch {
	case receipt.To != nil:
		msg.To = receipt.To.Hex()
	case receipt.ContractAddress != nil:
		msg.To = receipt.ContractAddress.Hex()
		msg.Fields = map[string]string{"contract_creation": "true"}
	}

	success := receipt.Status == 1
	code := uint32(0)
	if !success {
		code = 1
	}

	fee := []model.Coin{}
	if receipt.EffectiveGasPrice != nil {
		wei := new(big.Int).Mul(receipt.EffectiveGasPrice.ToInt(), new(big.Int).SetUint64(uint64(receipt.GasUsed)))
		fee = append(fee, model.Coin{Denom: a.network.CoinSymbol, Amount: decimal.NewFromBigInt(wei, 0)})
	}

	tx := &model.Transaction{
		Hash:     receipt.TransactionHash.Hex(),
		Height:   int64(receipt.BlockNumber),
		Code:     code,
		Success:  success,
		GasUsed:  int64(receipt.GasUsed),
		Fee:      fee,
		Messages: []model.Message{msg},
	}

	if block, err := a.Block(ctx, strconv.FormatUint(uint64(receipt.BlockNumber), 10)); err == nil {
		tx.Time = block.Time
	} else {
		config.Log.ZDebug().Err(err).Str("hash", util.TruncateHash(tx.Hash)).Msg("Could not load block time")
	}

	return tx, nil
}

func (a *EvmAdapter) Health(ctx context.Context) model.Health {
	_, err := a.Status(ctx)
	if err != nil {
		config.Log.ZWarn().Err(err).Msg("RPC endpoint health check failed")
	}
	return model.Health{RPC: err == nil}
}
