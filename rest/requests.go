// Package rest implements the explorer adapter for the Cosmos SDK REST (LCD)
// API family.
package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/config"
	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
)

var apiEndpoints = map[string]string{
	"latest_block_endpoint":         "/cosmos/base/tendermint/v1beta1/blocks/latest",
	"blocks_endpoint":               "/cosmos/base/tendermint/v1beta1/blocks/%d",
	"latest_validator_set_endpoint": "/cosmos/base/tendermint/v1beta1/validatorsets/latest",
	"validators_endpoint":           "/cosmos/staking/v1beta1/validators",
	"validator_endpoint":            "/cosmos/staking/v1beta1/validators/%s",
	"delegations_endpoint":          "/cosmos/staking/v1beta1/delegations/%s",
	"account_endpoint":              "/cosmos/auth/v1beta1/accounts/%s",
	"balances_endpoint":             "/cosmos/bank/v1beta1/balances/%s",
	"rewards_endpoint":              "/cosmos/distribution/v1beta1/delegators/%s/rewards",
	"tx_endpoint":                   "/cosmos/tx/v1beta1/txs/%s",
	"txs_by_block_height_endpoint":  "/cosmos/tx/v1beta1/txs?events=tx.height=%d&pagination.limit=100&order_by=ORDER_BY_UNSPECIFIED",
	"txs_endpoint":                  "/cosmos/tx/v1beta1/txs",
	"signing_infos_endpoint":        "/cosmos/slashing/v1beta1/signing_infos",
	"rpc_health_endpoint":           "/health",
}

// maxPages bounds next_key pagination against endpoints that never stop.
const maxPages = 100

func GetEndpoint(key string) string {
	return apiEndpoints[key]
}

// CosmosAdapter talks to a network's LCD only. The RPC base URL is used for
// the health check and nothing else.
type CosmosAdapter struct {
	network networks.Network
	req     *chain.Requester
	keybase *Keybase
}

var (
	_ chain.Adapter             = (*CosmosAdapter)(nil)
	_ chain.ValidatorLookup     = (*CosmosAdapter)(nil)
	_ chain.SigningInfoLister   = (*CosmosAdapter)(nil)
	_ chain.BlockTxLister       = (*CosmosAdapter)(nil)
	_ chain.TxLister            = (*CosmosAdapter)(nil)
	_ chain.HealthChecker       = (*CosmosAdapter)(nil)
	_ chain.ValidatorSetCounter = (*CosmosAdapter)(nil)
)

// NewCosmosAdapter builds an LCD adapter. keybase may be nil to skip avatar
// enrichment.
func NewCosmosAdapter(network networks.Network, req *chain.Requester, keybase *Keybase) *CosmosAdapter {
	return &CosmosAdapter{network: network, req: req, keybase: keybase}
}

func (a *CosmosAdapter) Network() networks.Network {
	return a.network
}

func (a *CosmosAdapter) lcd(requestEndpoint string) string {
	return a.network.LCD + requestEndpoint
}

func (a *CosmosAdapter) Status(ctx context.Context) (*model.Status, error) {
	requestEndpoint := apiEndpoints["latest_block_endpoint"]

	var resp BlockResponse
	if err := a.req.GetJSON(ctx, requestEndpoint, a.lcd(requestEndpoint), &resp); err != nil {
		return nil, chain.Unavailable(err)
	}

	header := resp.Block.BlockHeader
	height := parseInt(header.Height)
	if height <= 0 {
		return nil, chain.Unavailable(chain.Malformed(requestEndpoint, "missing header height"))
	}

	return &model.Status{
		ChainID:         header.ChainID,
		LatestHeight:    height,
		LatestBlockTime: parseTime(header.Time),
	}, nil
}

func (a *CosmosAdapter) Block(ctx context.Context, heightOrTag string) (*model.Block, error) {
	height, latest, err := chain.ParseHeightOrTag(heightOrTag)
	if err != nil {
		return nil, err
	}

	requestEndpoint := apiEndpoints["latest_block_endpoint"]
	if !latest {
		requestEndpoint = fmt.Sprintf(apiEndpoints["blocks_endpoint"], height)
	}

	var resp BlockResponse
	if err := a.req.GetJSON(ctx, requestEndpoint, a.lcd(requestEndpoint), &resp); err != nil {
		// heights above the chain tip come back as 400 on most LCDs
		if chain.IsNotFound(err) || chain.StatusCodeOf(err) == http.StatusBadRequest {
			return nil, chain.Reclassify(err, chain.ErrBlockNotFound)
		}
		return nil, chain.Unavailable(err)
	}

	return toModelBlock(requestEndpoint, &resp)
}

func (a *CosmosAdapter) Validators(ctx context.Context) (*model.ValidatorSet, error) {
	requestEndpoint := apiEndpoints["validators_endpoint"]

	var all []Validator
	nextKey := ""
	for page := 0; page < maxPages; page++ {
		u := a.lcd(requestEndpoint) + "?pagination.limit=200"
		if nextKey != "" {
			u = fmt.Sprintf("%s&pagination.key=%s", u, url.QueryEscape(nextKey))
		}

		var resp ValidatorsResponse
		if err := a.req.GetJSON(ctx, requestEndpoint, u, &resp); err != nil {
			return nil, chain.Unavailable(err)
		}
		all = append(all, resp.Validators...)

		if resp.Pagination.NextKey == "" {
			break
		}
		nextKey = resp.Pagination.NextKey
	}

	validators := make([]model.Validator, 0, len(all))
	for i := range all {
		validators = append(validators, toModelValidator(&all[i]))
	}
	model.SetVotingPowerPercent(validators)
	a.keybase.EnrichAvatars(ctx, validators)

	return &model.ValidatorSet{Applicable: true, Validators: validators}, nil
}

func (a *CosmosAdapter) Validator(ctx context.Context, operatorAddress string) (*model.Validator, error) {
	requestEndpoint := fmt.Sprintf(apiEndpoints["validator_endpoint"], url.PathEscape(operatorAddress))

	var resp ValidatorResponse
	if err := a.req.GetJSON(ctx, requestEndpoint, a.lcd(requestEndpoint), &resp); err != nil {
		if chain.IsNotFound(err) || chain.StatusCodeOf(err) == http.StatusBadRequest {
			return nil, chain.Reclassify(err, chain.ErrValidatorNotFound)
		}
		return nil, chain.Unavailable(err)
	}
	if resp.Validator == nil || resp.Validator.OperatorAddress == "" {
		return nil, &chain.RequestError{Endpoint: requestEndpoint, Kind: chain.ErrValidatorNotFound}
	}

	v := toModelValidator(resp.Validator)
	v.AvatarURL = a.keybase.AvatarURL(ctx, v.Identity)
	return &v, nil
}

// Account resolves the auth account, then loads balances, delegations and
// rewards side by side. Those three are best effort; a failing branch leaves
// its field empty.
func (a *CosmosAdapter) Account(ctx context.Context, address string) (*model.Account, error) {
	address = strings.TrimSpace(address)
	requestEndpoint := fmt.Sprintf(apiEndpoints["account_endpoint"], url.PathEscape(address))

	var resp AccountResponse
	if err := a.req.GetJSON(ctx, requestEndpoint, a.lcd(requestEndpoint), &resp); err != nil {
		if chain.IsNotFound(err) || chain.StatusCodeOf(err) == http.StatusBadRequest {
			return nil, chain.Reclassify(err, chain.ErrAccountNotFound)
		}
		return nil, chain.Unavailable(err)
	}

	if len(resp.Account) == 0 || string(resp.Account) == "null" {
		return nil, &chain.RequestError{Endpoint: requestEndpoint, Kind: chain.ErrAccountNotFound}
	}

	base, err := parseBaseAccount(resp.Account)
	if err != nil {
		return nil, chain.Unavailable(chain.Malformed(requestEndpoint, "%v", err))
	}
	if base == nil {
		return nil, &chain.RequestError{Endpoint: requestEndpoint, Kind: chain.ErrAccountNotFound, Cause: errors.New("account has no address")}
	}

	account := &model.Account{
		Address:       base.Address,
		Type:          base.Type,
		AccountNumber: parseUint(base.AccountNumber),
		Sequence:      parseUint(base.Sequence),
		Balances:      []model.Coin{},
	}

	var (
		wg          sync.WaitGroup
		balances    []model.Coin
		delegations []model.Delegation
		rewards     []model.Coin
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		if balances, err = a.balances(ctx, address); err != nil {
			config.Log.ZWarn().Err(err).Str("address", address).Msg("Error getting balances")
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if delegations, err = a.delegations(ctx, address); err != nil {
			config.Log.ZWarn().Err(err).Str("address", address).Msg("Error getting delegations")
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if rewards, err = a.rewards(ctx, address); err != nil {
			config.Log.ZWarn().Err(err).Str("address", address).Msg("Error getting rewards")
		}
	}()
	wg.Wait()

	if balances != nil {
		account.Balances = withDisplay(a.network, balances)
	}
	for i := range delegations {
		delegations[i].Balance = withDisplay(a.network, []model.Coin{delegations[i].Balance})[0]
	}
	account.Delegations = delegations
	account.Rewards = withDisplay(a.network, rewards)

	return account, nil
}

func (a *CosmosAdapter) balances(ctx context.Context, address string) ([]model.Coin, error) {
	requestEndpoint := fmt.Sprintf(apiEndpoints["balances_endpoint"], url.PathEscape(address))

	var resp BalancesResponse
	if err := a.req.GetJSON(ctx, requestEndpoint, a.lcd(requestEndpoint), &resp); err != nil {
		return nil, err
	}
	return toModelCoins(resp.Balances), nil
}

func (a *CosmosAdapter) delegations(ctx context.Context, address string) ([]model.Delegation, error) {
	requestEndpoint := fmt.Sprintf(apiEndpoints["delegations_endpoint"], url.PathEscape(address))

	var resp DelegationsResponse
	if err := a.req.GetJSON(ctx, requestEndpoint, a.lcd(requestEndpoint), &resp); err != nil {
		return nil, err
	}

	out := make([]model.Delegation, 0, len(resp.DelegationResponses))
	for _, d := range resp.DelegationResponses {
		out = append(out, model.Delegation{
			ValidatorAddress: d.Delegation.ValidatorAddress,
			Shares:           parseDecimal(d.Delegation.Shares),
			Balance:          model.Coin{Denom: d.Balance.Denom, Amount: parseDecimal(d.Balance.Amount)},
		})
	}
	return out, nil
}

func (a *CosmosAdapter) rewards(ctx context.Context, address string) ([]model.Coin, error) {
	requestEndpoint := fmt.Sprintf(apiEndpoints["rewards_endpoint"], url.PathEscape(address))

	var resp RewardsResponse
	if err := a.req.GetJSON(ctx, requestEndpoint, a.lcd(requestEndpoint), &resp); err != nil {
		return nil, err
	}
	return toModelCoins(resp.Total), nil
}

func (a *CosmosAdapter) Transaction(ctx context.Context, hash string) (*model.Transaction, error) {
	hash = strings.TrimPrefix(strings.TrimSpace(hash), "0x")
	requestEndpoint := fmt.Sprintf(apiEndpoints["tx_endpoint"], url.PathEscape(hash))

	body, err := a.req.Do(ctx, requestEndpoint, http.MethodGet, a.lcd(requestEndpoint), nil)
	if err != nil {
		if chain.IsNotFound(err) || strings.Contains(strings.ToLower(string(body)), "not found") {
			return nil, chain.Reclassify(err, chain.ErrTransactionNotFound)
		}
		return nil, chain.Unavailable(err)
	}

	var resp TxByHashResponse
	if err := chain.DecodeJSON(requestEndpoint, body, &resp); err != nil {
		return nil, chain.Unavailable(err)
	}
	if resp.TxResponse == nil || resp.TxResponse.TxHash == "" {
		return nil, &chain.RequestError{Endpoint: requestEndpoint, Kind: chain.ErrTransactionNotFound}
	}

	tx := toModelTx(resp.TxResponse, resp.Tx)
	return &tx, nil
}

func (a *CosmosAdapter) TxsByHeight(ctx context.Context, height int64) ([]model.Transaction, error) {
	requestEndpoint := fmt.Sprintf(apiEndpoints["txs_by_block_height_endpoint"], height)

	var resp TxsResponse
	if err := a.req.GetJSON(ctx, requestEndpoint, a.lcd(requestEndpoint), &resp); err != nil {
		return nil, chain.Unavailable(err)
	}

	out := make([]model.Transaction, 0, len(resp.TxResponses))
	for i := range resp.TxResponses {
		out = append(out, toModelTx(&resp.TxResponses[i], nil))
	}
	return out, nil
}

// ListTransactions reads one page of the newest transactions.
func (a *CosmosAdapter) ListTransactions(ctx context.Context, limit int, pageKey string) (*model.TxFeed, error) {
	if limit <= 0 {
		limit = 10
	}
	requestEndpoint := apiEndpoints["txs_endpoint"]

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("pagination.limit", strconv.Itoa(limit))
	q.Set("order_by", "ORDER_BY_DESC")
	if pageKey != "" {
		q.Set("pagination.key", pageKey)
	}

	var resp TxsResponse
	if err := a.req.GetJSON(ctx, requestEndpoint, a.lcd(requestEndpoint)+"?"+q.Encode(), &resp); err != nil {
		return nil, chain.Unavailable(err)
	}

	responses := resp.TxResponses
	if len(responses) > limit {
		responses = responses[:limit]
	}

	feed := &model.TxFeed{
		State:        model.StateSuccess,
		Transactions: make([]model.Transaction, 0, len(responses)),
		NextKey:      resp.Pagination.NextKey,
		Empty:        len(responses) == 0,
	}
	for i := range responses {
		tx := toModelTx(&responses[i], nil)
		if tx.Height > feed.Height {
			feed.Height = tx.Height
		}
		feed.Transactions = append(feed.Transactions, tx)
	}

	switch {
	case parseInt(resp.Pagination.Total) > 0:
		feed.Total = parseInt(resp.Pagination.Total)
	case parseInt(resp.Total) > 0:
		feed.Total = parseInt(resp.Total)
	default:
		feed.Total = int64(len(resp.TxResponses))
	}
	return feed, nil
}

func (a *CosmosAdapter) SigningInfos(ctx context.Context) ([]model.SigningInfo, error) {
	requestEndpoint := apiEndpoints["signing_infos_endpoint"]

	out := []model.SigningInfo{}
	nextKey := ""
	for page := 0; page < maxPages; page++ {
		u := a.lcd(requestEndpoint) + "?pagination.limit=200"
		if nextKey != "" {
			u = fmt.Sprintf("%s&pagination.key=%s", u, url.QueryEscape(nextKey))
		}

		var resp SigningInfosResponse
		if err := a.req.GetJSON(ctx, requestEndpoint, u, &resp); err != nil {
			return nil, chain.Unavailable(err)
		}

		for _, info := range resp.Info {
			out = append(out, model.SigningInfo{
				ConsAddress:         info.Address,
				StartHeight:         parseInt(info.StartHeight),
				IndexOffset:         parseInt(info.IndexOffset),
				JailedUntil:         parseTime(info.JailedUntil),
				Tombstoned:          info.Tombstoned,
				MissedBlocksCounter: parseInt(info.MissedBlocksCounter),
			})
		}

		if resp.Pagination.NextKey == "" {
			break
		}
		nextKey = resp.Pagination.NextKey
	}

	return out, nil
}

func (a *CosmosAdapter) LatestValidatorSetSize(ctx context.Context) (int, error) {
	requestEndpoint := apiEndpoints["latest_validator_set_endpoint"]

	count := 0
	nextKey := ""
	for page := 0; page < maxPages; page++ {
		u := a.lcd(requestEndpoint)
		if nextKey != "" {
			u = fmt.Sprintf("%s?pagination.key=%s", u, url.QueryEscape(nextKey))
		}

		var resp ValidatorSetResponse
		if err := a.req.GetJSON(ctx, requestEndpoint, u, &resp); err != nil {
			return 0, chain.Unavailable(err)
		}
		count += len(resp.Validators)

		if resp.Pagination.NextKey == "" {
			break
		}
		nextKey = resp.Pagination.NextKey
	}

	return count, nil
}

// Health checks the LCD latest block and the RPC /health endpoint.
func (a *CosmosAdapter) Health(ctx context.Context) model.Health {
	var (
		health model.Health
		wg     sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		requestEndpoint := apiEndpoints["latest_block_endpoint"]
		_, err := a.req.Do(ctx, requestEndpoint, http.MethodGet, a.lcd(requestEndpoint), nil)
		if err != nil {
			config.Log.ZWarn().Err(err).Str("endpoint", chain.EndpointOf(err)).Msg("LCD endpoint health check failed")
		}
		health.LCD = err == nil
	}()
	go func() {
		defer wg.Done()
		if a.network.RPC == "" {
			return
		}
		requestEndpoint := apiEndpoints["rpc_health_endpoint"]
		_, err := a.req.Do(ctx, requestEndpoint, http.MethodGet, a.network.RPC+requestEndpoint, nil)
		if err != nil {
			config.Log.ZWarn().Err(err).Msg("RPC endpoint health check failed")
		}
		health.RPC = err == nil
	}()
	wg.Wait()

	return health
}
