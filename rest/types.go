package rest

import "encoding/json"

// LCD response shapes. Only the fields the explorer reads are declared;
// numeric values arrive as strings.

type Pagination struct {
	NextKey string `json:"next_key"`
	Total   string `json:"total"`
}

type BlockResponse struct {
	BlockID BlockID `json:"block_id"`
	Block   Block   `json:"block"`
}

type BlockID struct {
	Hash string `json:"hash"`
}

type Block struct {
	BlockHeader BlockHeader `json:"header"`
	Data        BlockData   `json:"data"`
}

type BlockHeader struct {
	ChainID         string `json:"chain_id"`
	Height          string `json:"height"`
	Time            string `json:"time"`
	ProposerAddress string `json:"proposer_address"`
}

type BlockData struct {
	Txs []string `json:"txs"`
}

type ValidatorsResponse struct {
	Validators []Validator `json:"validators"`
	Pagination Pagination  `json:"pagination"`
}

type ValidatorResponse struct {
	Validator *Validator `json:"validator"`
}

type Validator struct {
	OperatorAddress string      `json:"operator_address"`
	Jailed          bool        `json:"jailed"`
	Status          string      `json:"status"`
	Tokens          string      `json:"tokens"`
	DelegatorShares string      `json:"delegator_shares"`
	Description     Description `json:"description"`
	Commission      Commission  `json:"commission"`
}

type Description struct {
	Moniker  string `json:"moniker"`
	Identity string `json:"identity"`
	Website  string `json:"website"`
	Details  string `json:"details"`
}

type Commission struct {
	CommissionRates CommissionRates `json:"commission_rates"`
}

type CommissionRates struct {
	Rate    string `json:"rate"`
	MaxRate string `json:"max_rate"`
}

type ValidatorSetResponse struct {
	BlockHeight string `json:"block_height"`
	Validators  []struct {
		Address string `json:"address"`
	} `json:"validators"`
	Pagination Pagination `json:"pagination"`
}

type AccountResponse struct {
	Account json.RawMessage `json:"account"`
}

// BaseAccount is the common core of every auth account type. Vesting and
// module accounts nest it under base_account.
type BaseAccount struct {
	Type          string          `json:"@type"`
	Address       string          `json:"address"`
	AccountNumber string          `json:"account_number"`
	Sequence      string          `json:"sequence"`
	BaseAccount   json.RawMessage `json:"base_account"`
	BaseVesting   json.RawMessage `json:"base_vesting_account"`
}

type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

type BalancesResponse struct {
	Balances []Coin `json:"balances"`
}

type DelegationsResponse struct {
	DelegationResponses []struct {
		Delegation struct {
			DelegatorAddress string `json:"delegator_address"`
			ValidatorAddress string `json:"validator_address"`
			Shares           string `json:"shares"`
		} `json:"delegation"`
		Balance Coin `json:"balance"`
	} `json:"delegation_responses"`
}

type RewardsResponse struct {
	Rewards []struct {
		ValidatorAddress string `json:"validator_address"`
		Reward           []Coin `json:"reward"`
	} `json:"rewards"`
	Total []Coin `json:"total"`
}

type TxByHashResponse struct {
	Tx         *TxJSON     `json:"tx"`
	TxResponse *TxResponse `json:"tx_response"`
}

type TxsResponse struct {
	TxResponses []TxResponse `json:"tx_responses"`
	Pagination  Pagination   `json:"pagination"`
	Total       string       `json:"total"`
}

type TxResponse struct {
	TxHash    string  `json:"txhash"`
	Height    string  `json:"height"`
	Code      uint32  `json:"code"`
	RawLog    string  `json:"raw_log"`
	GasWanted string  `json:"gas_wanted"`
	GasUsed   string  `json:"gas_used"`
	Timestamp string  `json:"timestamp"`
	Tx        *TxJSON `json:"tx"`
}

type TxJSON struct {
	Body     TxBody     `json:"body"`
	AuthInfo TxAuthInfo `json:"auth_info"`
}

type TxBody struct {
	Messages []map[string]json.RawMessage `json:"messages"`
	Memo     string                       `json:"memo"`
}

type TxAuthInfo struct {
	Fee struct {
		Amount   []Coin `json:"amount"`
		GasLimit string `json:"gas_limit"`
	} `json:"fee"`
}

type SigningInfosResponse struct {
	Info []struct {
		Address             string `json:"address"`
		StartHeight         string `json:"start_height"`
		IndexOffset         string `json:"index_offset"`
		JailedUntil         string `json:"jailed_until"`
		Tombstoned          bool   `json:"tombstoned"`
		MissedBlocksCounter string `json:"missed_blocks_counter"`
	} `json:"info"`
	Pagination Pagination `json:"pagination"`
}
