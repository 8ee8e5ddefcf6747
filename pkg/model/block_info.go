package model

import (
	"time"
)

// Status is the chain head as reported by the selected network.
type Status struct {
	ChainID         string    `json:"chain_id"`
	LatestHeight    int64     `json:"latest_height"`
	LatestBlockTime time.Time `json:"latest_block_time,omitempty"`
	CatchingUp      bool      `json:"catching_up,omitempty"`
}

// Block is a block normalized from any of the supported endpoint families.
// Hash is upper-case hex; RawHash keeps the encoding the source delivered
// (base64 for LCD, 0x-hex for EVM).
type Block struct {
	Height   int64     `json:"height"`
	Hash     string    `json:"hash"`
	RawHash  string    `json:"raw_hash"`
	Time     time.Time `json:"time"`
	ChainID  string    `json:"chain_id"`
	Proposer string    `json:"proposer"`
	// Txs holds raw transactions, base64 encoded.
	Txs []string `json:"txs"`
	// TxHashes is only set when the source returns hashes instead of raw txs.
	TxHashes []string `json:"tx_hashes,omitempty"`
	GasUsed  int64    `json:"gas_used,omitempty"`
	GasLimit int64    `json:"gas_limit,omitempty"`
}

func (b *Block) TxCount() int {
	if len(b.TxHashes) > len(b.Txs) {
		return len(b.TxHashes)
	}
	return len(b.Txs)
}

type BlockBatch struct {
	State  FetchState `json:"state"`
	Blocks []Block    `json:"blocks"`
	Failed int        `json:"failed"`
}

type Health struct {
	LCD bool `json:"lcd"`
	RPC bool `json:"rpc"`
}

type SigningInfo struct {
	ConsAddress         string    `json:"cons_address"`
	StartHeight         int64     `json:"start_height"`
	IndexOffset         int64     `json:"index_offset"`
	JailedUntil         time.Time `json:"jailed_until"`
	Tombstoned          bool      `json:"tombstoned"`
	MissedBlocksCounter int64     `json:"missed_blocks_counter"`
}
