// Package booking holds the ephemeral session state of the booking flow:
// per-session carts and the transient booking snapshot rendered into a
// WhatsApp message. Nothing here is ever persisted.
package booking

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/barbeariaprime/primeapp/internal/domain"
)

// Cart is an ordered sequence of selected services. Each add appends; each
// remove deletes by position.
type Cart struct {
	mu    sync.Mutex
	items []domain.BarberService
}

func (c *Cart) Add(svc domain.BarberService) {
	c.mu.Lock()
	c.items = append(c.items, svc)
	c.mu.Unlock()
}

func (c *Cart) Remove(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.items) {
		return errors.Errorf("cart index %d out of range", index)
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	return nil
}

func (c *Cart) Items() []domain.BarberService {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.BarberService, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, s := range c.items {
		total += s.Price
	}
	return total
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// SessionCarts hands out one cart per session key. Carts live in memory only
// and vanish on restart.
type SessionCarts struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewSessionCarts() *SessionCarts {
	return &SessionCarts{carts: make(map[string]*Cart)}
}

func (s *SessionCarts) Get(session string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[session]
	if !ok {
		cart = &Cart{}
		s.carts[session] = cart
	}
	return cart
}

func (s *SessionCarts) Drop(session string) {
	s.mu.Lock()
	delete(s.carts, session)
	s.mu.Unlock()
}
