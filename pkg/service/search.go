package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/core"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
	"github.com/rs/zerolog/log"
)

var (
	blockHeightRegex = regexp.MustCompile(`^\d+$`)
	txHashRegex      = regexp.MustCompile(`^(0x)?[A-Fa-f0-9]{64}$`)
)

// ClassifySearchQuery decides what a free-text query refers to. An all-digit
// query is always a height, even when it is 64 characters long.
func ClassifySearchQuery(query string) model.SearchType {
	return ClassifySearchQueryWithPrefix(query, "")
}

// ClassifySearchQueryWithPrefix additionally requires bech32 addresses to
// carry the given account prefix (or its valoper/valcons forms).
func ClassifySearchQueryWithPrefix(query string, prefix string) model.SearchType {
	q := strings.TrimSpace(query)
	switch {
	case blockHeightRegex.MatchString(q):
		return model.SearchBlock
	case txHashRegex.MatchString(q):
		return model.SearchTransaction
	case core.LooksLikeBech32(q, prefix), core.LooksLikeEVMAddress(q):
		return model.SearchAddress
	default:
		return model.SearchUnknown
	}
}

// ResolveSearch classifies query and looks it up through adapter. Lookups
// never fail: a miss or an upstream error is reported as Found=false with a
// message and the endpoint that was queried.
func ResolveSearch(ctx context.Context, adapter chain.Adapter, query string) model.SearchResult {
	q := strings.TrimSpace(query)
	result := model.SearchResult{
		Query: q,
		Type:  ClassifySearchQueryWithPrefix(q, adapter.Network().AccountPrefix),
	}

	var err error
	switch result.Type {
	case model.SearchBlock:
		result.Block, err = adapter.Block(ctx, q)
	case model.SearchTransaction:
		result.Transaction, err = adapter.Transaction(ctx, q)
	case model.SearchAddress:
		if lookup, ok := adapter.(chain.ValidatorLookup); ok && core.IsValidatorOperator(q) {
			result.Validator, err = lookup.Validator(ctx, q)
		} else {
			result.Account, err = adapter.Account(ctx, q)
		}
	default:
		result.Error = "unrecognized query"
		return result
	}

	if err != nil {
		result.Endpoint = chain.EndpointOf(err)
		result.Error = searchErrorMessage(result.Type, err)
		log.Debug().Err(err).Str("query", q).Str("type", string(result.Type)).Msg("search miss")
		return result
	}

	result.Found = true
	return result
}

func searchErrorMessage(t model.SearchType, err error) string {
	switch {
	case chain.IsNotFound(err):
		return string(t) + " not found"
	case chain.IsTimeout(err):
		return "request timed out"
	default:
		return err.Error()
	}
}
