package networks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type memStore struct {
	id      string
	saves   int
	loadErr error
	saveErr error
}

func (m *memStore) Load(context.Context) (string, error) {
	return m.id, m.loadErr
}

func (m *memStore) Save(_ context.Context, id string) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.id = id
	return nil
}

type SelectionTestSuite struct {
	suite.Suite
	ctx      context.Context
	registry *Registry
}

func (suite *SelectionTestSuite) SetupTest() {
	suite.ctx = context.Background()
	reg, err := DefaultRegistry()
	suite.Require().NoError(err)
	suite.registry = reg
}

func (suite *SelectionTestSuite) TestRestoresPersistedNetwork() {
	sel := NewSelection(suite.ctx, suite.registry, &memStore{id: "osmosis"})
	suite.Equal("osmosis", sel.Selected().ID)
}

func (suite *SelectionTestSuite) TestFallsBackToDefault() {
	sel := NewSelection(suite.ctx, suite.registry, &memStore{id: "corrupted-id"})
	suite.Equal(DefaultNetworkID, sel.Selected().ID)

	sel = NewSelection(suite.ctx, suite.registry, &memStore{loadErr: errors.New("disk gone")})
	suite.Equal(DefaultNetworkID, sel.Selected().ID)

	sel = NewSelection(suite.ctx, suite.registry, nil)
	suite.Equal(DefaultNetworkID, sel.Selected().ID)
}

func (suite *SelectionTestSuite) TestSelectEveryNetwork() {
	store := &memStore{}
	sel := NewSelection(suite.ctx, suite.registry, store)

	for _, n := range suite.registry.List() {
		ok, err := sel.Select(suite.ctx, n.ID)
		suite.Require().NoError(err)
		suite.True(ok)
		suite.Equal(n, sel.Selected())
		suite.Equal(n.ID, store.id)
	}
}

func (suite *SelectionTestSuite) TestSelectUnknownIsNoop() {
	store := &memStore{}
	sel := NewSelection(suite.ctx, suite.registry, store)
	_, _ = sel.Select(suite.ctx, "juno")
	before := sel.Snapshot()

	ok, err := sel.Select(suite.ctx, "not-a-network")
	suite.NoError(err)
	suite.False(ok)
	suite.Equal("juno", sel.Selected().ID)
	suite.Equal("juno", store.id)
	suite.True(sel.IsCurrent(before))
}

func (suite *SelectionTestSuite) TestSelectIsIdempotent() {
	store := &memStore{}
	sel := NewSelection(suite.ctx, suite.registry, store)

	notified := 0
	cancel := sel.Subscribe(func(Network) { notified++ })
	defer cancel()

	_, err := sel.Select(suite.ctx, "cosmoshub")
	suite.Require().NoError(err)
	snap := sel.Snapshot()

	_, err = sel.Select(suite.ctx, "cosmoshub")
	suite.Require().NoError(err)
	_, err = sel.Select(suite.ctx, "cosmoshub")
	suite.Require().NoError(err)

	suite.Equal("cosmoshub", sel.Selected().ID)
	suite.Equal("cosmoshub", store.id)
	suite.Equal(1, notified)
	suite.True(sel.IsCurrent(snap))
}

func (suite *SelectionTestSuite) TestSubscribeAndStaleness() {
	sel := NewSelection(suite.ctx, suite.registry, nil)

	var got []string
	cancel := sel.Subscribe(func(n Network) { got = append(got, n.ID) })

	snap := sel.Snapshot()
	_, _ = sel.Select(suite.ctx, "osmosis")
	suite.False(sel.IsCurrent(snap))

	cancel()
	_, _ = sel.Select(suite.ctx, "juno")
	suite.Equal([]string{"osmosis"}, got)
}

func (suite *SelectionTestSuite) TestSelectIfCurrent() {
	store := &memStore{}
	sel := NewSelection(suite.ctx, suite.registry, store)

	snap, ok, err := sel.SelectWithSnapshot(suite.ctx, "osmosis")
	suite.Require().NoError(err)
	suite.True(ok)
	suite.True(sel.IsCurrent(snap))

	_, err = sel.Select(suite.ctx, "juno")
	suite.Require().NoError(err)

	ok, err = sel.SelectIfCurrent(suite.ctx, snap, DefaultNetworkID)
	suite.NoError(err)
	suite.False(ok)
	suite.Equal("juno", sel.Selected().ID)
	suite.Equal("juno", store.id)

	ok, err = sel.SelectIfCurrent(suite.ctx, sel.Snapshot(), DefaultNetworkID)
	suite.NoError(err)
	suite.True(ok)
	suite.Equal(DefaultNetworkID, sel.Selected().ID)
	suite.Equal(DefaultNetworkID, store.id)
}

func (suite *SelectionTestSuite) TestPersistFailureKeepsSelection() {
	store := &memStore{saveErr: errors.New("read-only")}
	sel := NewSelection(suite.ctx, suite.registry, store)

	ok, err := sel.Select(suite.ctx, "juno")
	suite.True(ok)
	suite.Error(err)
	suite.Equal("juno", sel.Selected().ID)
}

func TestSelectionTestSuite(t *testing.T) {
	suite.Run(t, new(SelectionTestSuite))
}
