// Package rpc implements explorer adapters over JSON-RPC transports: the
// legacy Tendermint RPC for Cosmos chains and the Ethereum JSON-RPC.
package rpc

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/config"
	"github.com/DefiantLabs/cosmos-explorer/core"
	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
	"github.com/DefiantLabs/cosmos-explorer/util"
	ctypes "github.com/cometbft/cometbft/rpc/core/types"
	"github.com/shopspring/decimal"
)

const validatorsPerPage = 100

// TendermintAdapter serves the explorer from a node's Tendermint RPC. It has
// no notion of auth accounts; Account always reports ErrAccountNotFound.
type TendermintAdapter struct {
	network networks.Network
	client  *URIClient
}

var (
	_ chain.Adapter             = (*TendermintAdapter)(nil)
	_ chain.HealthChecker       = (*TendermintAdapter)(nil)
	_ chain.ValidatorSetCounter = (*TendermintAdapter)(nil)
)

func NewTendermintAdapter(network networks.Network, req *chain.Requester) *TendermintAdapter {
	return &TendermintAdapter{
		network: network,
		client:  &URIClient{Address: network.RPC, Requester: req},
	}
}

func (a *TendermintAdapter) Network() networks.Network {
	return a.network
}

func (a *TendermintAdapter) Status(ctx context.Context) (*model.Status, error) {
	result := new(ctypes.ResultStatus)
	if err := a.client.DoHTTPGet(ctx, "status", nil, result); err != nil {
		return nil, chain.Unavailable(err)
	}

	if result.SyncInfo.LatestBlockHeight <= 0 {
		return nil, chain.Unavailable(chain.Malformed("/status", "missing sync_info.latest_block_height"))
	}

	return &model.Status{
		ChainID:         result.NodeInfo.Network,
		LatestHeight:    result.SyncInfo.LatestBlockHeight,
		LatestBlockTime: result.SyncInfo.LatestBlockTime,
		CatchingUp:      result.SyncInfo.CatchingUp,
	}, nil
}

func (a *TendermintAdapter) Block(ctx context.Context, heightOrTag string) (*model.Block, error) {
	height, latest, err := chain.ParseHeightOrTag(heightOrTag)
	if err != nil {
		return nil, err
	}

	params := make(map[string]interface{})
	if !latest {
		params["height"] = height
	}

	result := new(ctypes.ResultBlock)
	if err := a.client.DoHTTPGet(ctx, "block", params, result); err != nil {
		if chain.IsNotFound(err) || isHeightUnavailable(err) {
			return nil, chain.Reclassify(err, chain.ErrBlockNotFound)
		}
		return nil, chain.Unavailable(err)
	}

	if result.Block == nil || result.Block.Height <= 0 {
		return nil, &chain.RequestError{Endpoint: "/block", Kind: chain.ErrBlockNotFound}
	}

	header := result.Block.Header
	txs := make([]string, 0, len(result.Block.Data.Txs))
	for _, tx := range result.Block.Data.Txs {
		txs = append(txs, encodeTx(tx))
	}

	hash := result.BlockID.Hash.String()
	return &model.Block{
		Height:   header.Height,
		Hash:     hash,
		RawHash:  hash,
		Time:     header.Time,
		ChainID:  header.ChainID,
		Proposer: header.ProposerAddress.String(),
		Txs:      txs,
	}, nil
}

// Validators pages through /validators. The RPC only knows consensus keys,
// so operator addresses are consensus addresses and bond status is always
// bonded.
func (a *TendermintAdapter) Validators(ctx context.Context) (*model.ValidatorSet, error) {
	validators := []model.Validator{}

	for page := 1; ; page++ {
		perPage := validatorsPerPage
		pageNum := page
		result := new(ctypes.ResultValidators)
		err := a.client.DoHTTPGet(ctx, "validators", map[string]interface{}{
			"page":     &pageNum,
			"per_page": &perPage,
		}, result)
		if err != nil {
			return nil, chain.Unavailable(err)
		}

		for _, v := range result.Validators {
			if v == nil {
				continue
			}
			validators = append(validators, model.Validator{
				OperatorAddress: a.consensusAddress(v.Address),
				Tokens:          decimal.NewFromInt(v.VotingPower),
				Status:          model.BondStatusBonded,
				StatusLabel:     model.BondStatusBonded.Label(),
				VotingPower:     v.VotingPower,
			})
		}

		if len(result.Validators) == 0 || len(validators) >= result.Total {
			break
		}
	}
	model.SetVotingPowerPercent(validators)

	return &model.ValidatorSet{Applicable: true, Validators: validators}, nil
}

func (a *TendermintAdapter) consensusAddress(addr []byte) string {
	if a.network.AccountPrefix != "" {
		if bech, err := core.ConsensusAddress(a.network.AccountPrefix, addr); err == nil {
			return bech
		}
	}
	return strings.ToUpper(hex.EncodeToString(addr))
}

func (a *TendermintAdapter) LatestValidatorSetSize(ctx context.Context) (int, error) {
	page, perPage := 1, 1
	result := new(ctypes.ResultValidators)
	err := a.client.DoHTTPGet(ctx, "validators", map[string]interface{}{
		"page":     &page,
		"per_page": &perPage,
	}, result)
	if err != nil {
		return 0, chain.Unavailable(err)
	}
	return result.Total, nil
}

func (a *TendermintAdapter) Account(_ context.Context, address string) (*model.Account, error) {
	if err := core.ValidateBech32(address, a.network.AccountPrefix); err != nil {
		return nil, fmt.Errorf("%w: %v", chain.ErrAccountNotFound, err)
	}
	return nil, fmt.Errorf("%w: %s cannot be resolved through the Tendermint RPC, use the LCD api", chain.ErrAccountNotFound, address)
}

func (a *TendermintAdapter) Transaction(ctx context.Context, hash string) (*model.Transaction, error) {
	hashBytes, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(hash), "0x"), "0X"))
	if err != nil || len(hashBytes) == 0 {
		return nil, fmt.Errorf("%w: invalid hash %q", chain.ErrTransactionNotFound, hash)
	}

	result := new(ctypes.ResultTx)
	if err := a.client.DoHTTPGet(ctx, "tx", map[string]interface{}{"hash": hashBytes}, result); err != nil {
		if chain.IsNotFound(err) {
			return nil, chain.Reclassify(err, chain.ErrTransactionNotFound)
		}
		return nil, chain.Unavailable(err)
	}

	tx := model.Transaction{
		Hash:      result.Hash.String(),
		Height:    result.Height,
		Code:      result.TxResult.Code,
		Success:   result.TxResult.Code == 0,
		GasUsed:   result.TxResult.GasUsed,
		GasWanted: result.TxResult.GasWanted,
		RawLog:    result.TxResult.Log,
		Fee:       []model.Coin{},
		Messages:  []model.Message{},
	}
	if tx.Hash == "" {
		tx.Hash = core.TxHash(result.Tx)
	}

	if decoded, err := core.DecodeTx(result.Tx); err == nil {
		tx.Memo = decoded.Memo
		tx.Fee = decoded.Fee
		tx.Messages = decoded.Messages
	} else {
		config.Log.ZDebug().Err(err).Str("hash", util.TruncateHash(tx.Hash)).Msg("Could not decode tx")
	}

	if block, err := a.Block(ctx, fmt.Sprintf("%d", result.Height)); err == nil {
		tx.Time = block.Time
	}

	return &tx, nil
}

func (a *TendermintAdapter) Health(ctx context.Context) model.Health {
	_, err := a.client.Requester.Do(ctx, "/health", http.MethodGet, a.network.RPC+"/health", nil)
	if err != nil {
		config.Log.ZWarn().Err(err).Msg("RPC endpoint health check failed")
	}
	return model.Health{RPC: err == nil}
}

func encodeTx(tx []byte) string {
	return base64.StdEncoding.EncodeToString(tx)
}
