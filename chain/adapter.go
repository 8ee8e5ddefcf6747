// Package chain defines the capability set every network adapter exposes and
// the error taxonomy shared by all of them.
package chain

import (
	"context"

	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
)

// LatestTag selects the newest block in Adapter.Block.
const LatestTag = "latest"

// Adapter translates the uniform explorer capabilities into the endpoints of
// one chain API family.
type Adapter interface {
	Network() networks.Network
	Status(ctx context.Context) (*model.Status, error)
	// Block accepts a positive decimal height or LatestTag.
	Block(ctx context.Context, heightOrTag string) (*model.Block, error)
	Validators(ctx context.Context) (*model.ValidatorSet, error)
	Account(ctx context.Context, address string) (*model.Account, error)
	Transaction(ctx context.Context, hash string) (*model.Transaction, error)
}

// Optional capabilities. Callers type-assert for them.

type ValidatorLookup interface {
	Validator(ctx context.Context, operatorAddress string) (*model.Validator, error)
}

type SigningInfoLister interface {
	SigningInfos(ctx context.Context) ([]model.SigningInfo, error)
}

// TxLister pages through the newest transactions. pageKey is the NextKey of
// the previous page, "" for the first.
type TxLister interface {
	ListTransactions(ctx context.Context, limit int, pageKey string) (*model.TxFeed, error)
}

type BlockTxLister interface {
	TxsByHeight(ctx context.Context, height int64) ([]model.Transaction, error)
}

type HealthChecker interface {
	Health(ctx context.Context) model.Health
}

type ValidatorSetCounter interface {
	LatestValidatorSetSize(ctx context.Context) (int, error)
}
