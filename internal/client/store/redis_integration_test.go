//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"vise/internal/card"
	"vise/internal/client/models"
	"vise/internal/client/store"
	"vise/pkg/platform/sentinel"
	"vise/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.Redis
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = store.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func makeClient(name string) *models.Client {
	return &models.Client{
		Name:                name,
		Country:             "Chile",
		MonthlyIncome:       2500,
		LoyaltySubscription: true,
		CardType:            card.TierBlack,
	}
}

// TestCreateAndFind verifies the round trip through the Redis hash.
func (s *RedisStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	client := makeClient("Ana Torres")

	s.Require().NoError(s.store.Create(ctx, client))
	s.Equal(1, client.ClientID)

	found, err := s.store.FindByID(ctx, client.ClientID)
	s.Require().NoError(err)
	s.Equal(client.Name, found.Name)
	s.Equal(client.Country, found.Country)
	s.Equal(client.MonthlyIncome, found.MonthlyIncome)
	s.Equal(client.LoyaltySubscription, found.LoyaltySubscription)
	s.Equal(client.CardType, found.CardType)
}

// TestNotFound verifies the sentinel mapping for missing IDs.
func (s *RedisStoreSuite) TestNotFound() {
	_, err := s.store.FindByID(context.Background(), 42)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentCreatesGetUniqueIDs verifies INCR-backed ID assignment
// never hands out the same ID twice.
func (s *RedisStoreSuite) TestConcurrentCreatesGetUniqueIDs() {
	ctx := context.Background()

	const goroutines = 25
	var wg sync.WaitGroup
	var failures atomic.Int32
	ids := make(chan int, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := makeClient("Concurrent")
			if err := s.store.Create(ctx, client); err != nil {
				failures.Add(1)
				return
			}
			ids <- client.ClientID
		}()
	}

	wg.Wait()
	close(ids)

	s.Equal(int32(0), failures.Load(), "all creates should succeed")

	seen := make(map[int]bool)
	for id := range ids {
		s.False(seen[id], "duplicate client ID %d", id)
		seen[id] = true
	}
	s.Len(seen, goroutines)
}

// TestListOrderedByID verifies List returns all records sorted by ID.
func (s *RedisStoreSuite) TestListOrderedByID() {
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C", "D"} {
		s.Require().NoError(s.store.Create(ctx, makeClient(name)))
	}

	clients, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(clients, 4)
	for i := 1; i < len(clients); i++ {
		s.Less(clients[i-1].ClientID, clients[i].ClientID)
	}
}
