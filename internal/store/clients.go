package store

import (
	"slices"

	"go-erp-sync/internal/model"
)

func clientID(c model.Client) int { return c.ID }

func (s *Store) Clients() []model.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return nonNil(slices.Clone(s.clients))
}

func (s *Store) Client(id int) (model.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return find(s.clients, func(c model.Client) bool { return c.ID == id })
}

// AddClient assigns the next id; status defaults to active and the created
// date to now.
func (s *Store) AddClient(c model.Client) (model.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = nextID(s.clients, clientID)
	if c.Status == "" {
		c.Status = model.ClientActive
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	if err := s.commit(func() { s.clients = append(s.clients, c) }); err != nil {
		return model.Client{}, err
	}
	return c, nil
}

// UpdateClient merges patch over the client. found is false when no client
// has the id.
func (s *Store) UpdateClient(id int, patch model.ClientPatch) (model.Client, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.clients, func(c model.Client) bool { return c.ID == id })
	if i < 0 {
		return model.Client{}, false, nil
	}
	updated := s.clients[i]
	updated.Apply(patch)
	if err := s.commit(func() { s.clients[i] = updated }); err != nil {
		return model.Client{}, true, err
	}
	return updated, true, nil
}

func (s *Store) DeleteClient(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.clients, func(c model.Client) bool { return c.ID == id })
	if i < 0 {
		return false, nil
	}
	return true, s.commit(func() { s.clients = slices.Delete(s.clients, i, i+1) })
}
