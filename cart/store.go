// Package cart holds the shopping cart of a single storefront session.
//
// A Store keeps its lines in insertion order and never holds two lines with
// the same Key. Every operation is total: unknown keys are ignored and no
// input is rejected. Checking that a size belongs to the product is left to
// the caller.
package cart

import (
	"slices"
	"sync"
	"time"

	"github.com/pizzeria/storefront/models"
)

type Store struct {
	mu     sync.RWMutex
	lines  []Line
	bounce *Signal
}

type options struct {
	bounce time.Duration
}

type Option func(*options)

// WithBounceDuration overrides how long Bouncing stays true after AddItem.
func WithBounceDuration(d time.Duration) Option {
	return func(o *options) {
		o.bounce = d
	}
}

func NewStore(opts ...Option) *Store {
	o := options{bounce: DefaultBounceDuration}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{bounce: NewSignal(o.bounce)}
}

// Restore rebuilds a store from a snapshot. Lines sharing a key are merged
// and lines without a positive quantity are dropped.
func Restore(lines []Line, opts ...Option) *Store {
	s := NewStore(opts...)
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := s.indexOf(l.Key()); i >= 0 {
			s.lines[i].Quantity += l.Quantity
			continue
		}
		s.lines = append(s.lines, l)
	}
	return s
}

// indexOf must be called with mu held.
func (s *Store) indexOf(k Key) int {
	return slices.IndexFunc(s.lines, func(l Line) bool {
		return l.Key() == k
	})
}

// AddItem puts one unit of the product in the cart, merging with an
// existing line of the same product and size.
func (s *Store) AddItem(p models.Product, size string) {
	s.mu.Lock()
	if i := s.indexOf(Key{ProductID: p.ID, Size: size}); i >= 0 {
		s.lines[i].Quantity++
	} else {
		s.lines = append(s.lines, Line{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  1,
			Size:      size,
			Category:  p.Category.Code,
		})
	}
	s.mu.Unlock()

	s.bounce.Trigger()
}

func (s *Store) RemoveItem(id uint, size string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(Key{ProductID: id, Size: size})
}

func (s *Store) remove(k Key) {
	if i := s.indexOf(k); i >= 0 {
		s.lines = slices.Delete(s.lines, i, i+1)
	}
}

// SetQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line. Missing lines are not created.
func (s *Store) SetQuantity(id uint, size string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := Key{ProductID: id, Size: size}
	if quantity <= 0 {
		s.remove(k)
		return
	}
	if i := s.indexOf(k); i >= 0 {
		s.lines[i].Quantity = quantity
	}
}

func (s *Store) QuantityOf(id uint, size string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(Key{ProductID: id, Size: size}); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

func (s *Store) TotalPrice() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalPrice()
}

func (s *Store) totalPrice() int64 {
	var total int64
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalItems()
}

func (s *Store) totalItems() int {
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// Summary is a consistent view of the cart taken under a single lock.
type Summary struct {
	Lines      []Line
	TotalPrice int64
	TotalItems int
}

func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Summary{
		Lines:      slices.Clone(s.lines),
		TotalPrice: s.totalPrice(),
		TotalItems: s.totalItems(),
	}
}

// Lines returns a copy of the cart contents in insertion order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.lines)
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines)
}

func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Bouncing reports whether an item was added within the bounce window.
func (s *Store) Bouncing() bool {
	return s.bounce.Raised()
}

// Close stops the pending bounce timer, if any.
func (s *Store) Close() {
	s.bounce.Stop()
}
