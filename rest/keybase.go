package rest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/config"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
)

const (
	DefaultKeybaseURL = "https://keybase.io/_/api/1.0/user/lookup.json"

	maxAvatarLookups = 8
)

type keybaseLookupResponse struct {
	Them []*struct {
		Pictures struct {
			Primary struct {
				URL string `json:"url"`
			} `json:"primary"`
		} `json:"pictures"`
	} `json:"them"`
}

// Keybase resolves validator identities to profile picture URLs. Lookups
// never fail: any error yields an empty URL.
type Keybase struct {
	BaseURL string
	req     *chain.Requester
}

func NewKeybase(baseURL string, req *chain.Requester) *Keybase {
	if baseURL == "" {
		baseURL = DefaultKeybaseURL
	}
	return &Keybase{BaseURL: baseURL, req: req}
}

func (k *Keybase) AvatarURL(ctx context.Context, identity string) string {
	identity = strings.TrimSpace(identity)
	if k == nil || identity == "" {
		return ""
	}

	u := fmt.Sprintf("%s?key_suffix=%s&fields=pictures", k.BaseURL, url.QueryEscape(identity))

	var resp keybaseLookupResponse
	if err := k.req.GetJSON(ctx, "keybase lookup", u, &resp); err != nil {
		config.Log.ZDebug().Err(err).Str("identity", identity).Msg("Keybase lookup failed")
		return ""
	}

	if len(resp.Them) == 0 || resp.Them[0] == nil {
		return ""
	}
	return resp.Them[0].Pictures.Primary.URL
}

// EnrichAvatars fills AvatarURL in place, concurrently, preserving order.
func (k *Keybase) EnrichAvatars(ctx context.Context, validators []model.Validator) {
	if k == nil {
		return
	}

	sem := make(chan struct{}, maxAvatarLookups)
	var wg sync.WaitGroup
	for i := range validators {
		if validators[i].Identity == "" {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			validators[i].AvatarURL = k.AvatarURL(ctx, validators[i].Identity)
		}(i)
	}
	wg.Wait()
}
