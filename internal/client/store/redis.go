package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"vise/internal/client/models"
	"vise/pkg/platform/sentinel"
)

const (
	redisClientsKey = "vise:clients"        // hash: clientID -> JSON record
	redisCounterKey = "vise:clients:nextid" // INCR-backed sequential IDs
)

// Redis stores client records in a Redis hash keyed by client ID, with a
// counter key for sequential ID assignment. IDs stay compatible with the
// in-memory store: integers from 1.
type Redis struct {
	client redis.Cmdable
}

// NewRedis creates a Redis-backed client store.
func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client}
}

// Create assigns the next sequential ID via INCR and writes the record.
func (s *Redis) Create(ctx context.Context, client *models.Client) error {
	id, err := s.client.Incr(ctx, redisCounterKey).Result()
	if err != nil {
		return fmt.Errorf("%w: allocate client id: %v", sentinel.ErrUnavailable, err)
	}
	client.ClientID = int(id)

	payload, err := json.Marshal(client)
	if err != nil {
		return fmt.Errorf("marshal client: %w", err)
	}
	if err := s.client.HSet(ctx, redisClientsKey, strconv.Itoa(client.ClientID), payload).Err(); err != nil {
		return fmt.Errorf("%w: store client: %v", sentinel.ErrUnavailable, err)
	}
	return nil
}

// FindByID returns the stored record or sentinel.ErrNotFound.
func (s *Redis) FindByID(ctx context.Context, clientID int) (*models.Client, error) {
	payload, err := s.client.HGet(ctx, redisClientsKey, strconv.Itoa(clientID)).Result()
	if err == redis.Nil {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: fetch client: %v", sentinel.ErrUnavailable, err)
	}

	var client models.Client
	if err := json.Unmarshal([]byte(payload), &client); err != nil {
		return nil, fmt.Errorf("unmarshal client %d: %w", clientID, err)
	}
	return &client, nil
}

// List returns all registered clients ordered by ID.
func (s *Redis) List(ctx context.Context) ([]models.Client, error) {
	entries, err := s.client.HGetAll(ctx, redisClientsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: list clients: %v", sentinel.ErrUnavailable, err)
	}

	clients := make([]models.Client, 0, len(entries))
	for id, payload := range entries {
		var client models.Client
		if err := json.Unmarshal([]byte(payload), &client); err != nil {
			return nil, fmt.Errorf("unmarshal client %s: %w", id, err)
		}
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ClientID < clients[j].ClientID })
	return clients, nil
}
