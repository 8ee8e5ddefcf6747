package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
	"github.com/DefiantLabs/cosmos-explorer/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lcdBlockJSON(height string) string {
	return fmt.Sprintf(`{"block_id":{"hash":"aGVsbG8="},"block":{"header":{"chain_id":"axone-1","height":%q,"time":"2024-05-01T10:00:00Z"},"data":{"txs":[]}}}`, height)
}

// newMockLCD serves a chain whose tip is at latest.
func newMockLCD(t *testing.T, latest int) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "/cosmos/base/tendermint/v1beta1/blocks/"
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		height := strings.TrimPrefix(r.URL.Path, prefix)
		if height == "latest" {
			height = fmt.Sprint(latest)
		}
		_, _ = w.Write([]byte(lcdBlockJSON(height)))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLatestBlocksAgainstMockedLCD(t *testing.T) {
	server := newMockLCD(t, 100)
	adapter := rest.NewCosmosAdapter(
		networks.Network{ID: "mock", LCD: server.URL},
		chain.NewRequester(server.Client(), 2*time.Second, "test"),
		nil,
	)

	batch, err := LatestBlocks(context.Background(), adapter, 10)
	require.NoError(t, err)
	assert.Equal(t, model.StateSuccess, batch.State)
	assert.Zero(t, batch.Failed)
	require.Len(t, batch.Blocks, 10)

	for i, block := range batch.Blocks {
		assert.Equal(t, int64(100-i), block.Height)
	}
}

func TestLatestBlocksSkipsFailures(t *testing.T) {
	adapter := &fakeAdapter{latest: 100, failHeights: map[int64]bool{97: true}}

	batch, err := LatestBlocks(context.Background(), adapter, 10)
	require.NoError(t, err)
	assert.Equal(t, model.StatePartialSuccess, batch.State)
	assert.Equal(t, 1, batch.Failed)
	require.Len(t, batch.Blocks, 9)

	for i := 1; i < len(batch.Blocks); i++ {
		assert.Greater(t, batch.Blocks[i-1].Height, batch.Blocks[i].Height)
	}
	for _, b := range batch.Blocks {
		assert.NotEqual(t, int64(97), b.Height)
	}
}

func TestLatestBlocksSequentialDescending(t *testing.T) {
	adapter := &fakeAdapter{latest: 50}

	_, err := LatestBlocks(context.Background(), adapter, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"50", "49", "48"}, adapter.heightsRequested())
}

func TestLatestBlocksEdgeCases(t *testing.T) {
	adapter := &fakeAdapter{latest: 3}

	batch, err := LatestBlocks(context.Background(), adapter, 0)
	require.NoError(t, err)
	assert.Equal(t, model.StateSuccess, batch.State)
	assert.Empty(t, batch.Blocks)
	assert.Empty(t, adapter.heightsRequested())

	batch, err = LatestBlocks(context.Background(), adapter, 10)
	require.NoError(t, err)
	require.Len(t, batch.Blocks, 3)
	assert.Equal(t, int64(1), batch.Blocks[2].Height)

	all := &fakeAdapter{latest: 2, failHeights: map[int64]bool{1: true, 2: true}}
	batch, err = LatestBlocks(context.Background(), all, 2)
	require.NoError(t, err)
	assert.Equal(t, model.StateFailed, batch.State)
	assert.Equal(t, 2, batch.Failed)

	down := &fakeAdapter{statusErr: &chain.RequestError{Endpoint: "/status", Kind: chain.ErrEndpointUnavailable}}
	_, err = LatestBlocks(context.Background(), down, 5)
	assert.ErrorIs(t, err, chain.ErrEndpointUnavailable)
}

func TestBlocksPaging(t *testing.T) {
	adapter := &fakeAdapter{latest: 100}

	batch, err := Blocks(context.Background(), adapter, 2, 5)
	require.NoError(t, err)
	require.Len(t, batch.Blocks, 5)
	assert.Equal(t, int64(95), batch.Blocks[0].Height)
	assert.Equal(t, int64(91), batch.Blocks[4].Height)

	batch, err = Blocks(context.Background(), adapter, 30, 5)
	require.NoError(t, err)
	assert.Empty(t, batch.Blocks)
	assert.Equal(t, model.StateSuccess, batch.State)

	batch, err = Blocks(context.Background(), adapter, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(100), batch.Blocks[0].Height)
}
