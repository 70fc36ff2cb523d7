// Package store provides client record persistence. InMemory is the default
// backend; Redis serves deployments where registrations must survive a
// process restart.
package store

import (
	"context"
	"sort"
	"sync"

	"vise/internal/client/models"
	"vise/pkg/platform/sentinel"
)

// InMemory keeps client records in a mutex-guarded map with a sequential
// ID counter starting at 1.
type InMemory struct {
	mu      sync.RWMutex
	clients map[int]models.Client
	nextID  int
}

// NewInMemory creates an empty in-memory client store.
func NewInMemory() *InMemory {
	return &InMemory{
		clients: make(map[int]models.Client),
		nextID:  1,
	}
}

// Create assigns the next sequential ID and stores a copy of the record.
func (s *InMemory) Create(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client.ClientID = s.nextID
	s.nextID++
	s.clients[client.ClientID] = *client
	return nil
}

// FindByID returns a copy of the stored record or sentinel.ErrNotFound.
func (s *InMemory) FindByID(_ context.Context, clientID int) (*models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	client, ok := s.clients[clientID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &client, nil
}

// List returns all registered clients ordered by ID.
func (s *InMemory) List(_ context.Context) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clients := make([]models.Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].ClientID < clients[j].ClientID })
	return clients, nil
}
