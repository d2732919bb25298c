// Package memory is an in-process Store used by tests and STORE_DRIVER=memory.
// Atomic holds the writer lock for the whole unit of work and works on a
// copy of the state that replaces the original only on success.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"travelbook/internal/domain/models"
	"travelbook/internal/repositories"
)

type state struct {
	hotels       map[string]*models.Hotel
	destinations map[string]models.Destination
	bookings     map[string]models.Booking
	history      map[string][]models.StatusChange
	reviews      map[string]models.Review
	users        map[string]models.User
	seq          int64
	order        map[string]int64
}

func newState() *state {
	return &state{
		hotels:       map[string]*models.Hotel{},
		destinations: map[string]models.Destination{},
		bookings:     map[string]models.Booking{},
		history:      map[string][]models.StatusChange{},
		reviews:      map[string]models.Review{},
		users:        map[string]models.User{},
		order:        map[string]int64{},
	}
}

func (st *state) clone() *state {
	out := newState()
	for id, h := range st.hotels {
		cp := *h
		cp.Packages = make([]models.Package, len(h.Packages))
		for i, p := range h.Packages {
			p.Inclusions = append([]string(nil), p.Inclusions...)
			cp.Packages[i] = p
		}
		out.hotels[id] = &cp
	}
	for id, d := range st.destinations {
		d.Highlights = append([]string(nil), d.Highlights...)
		out.destinations[id] = d
	}
	for id, b := range st.bookings {
		out.bookings[id] = b
	}
	for id, h := range st.history {
		out.history[id] = append([]models.StatusChange(nil), h...)
	}
	for id, r := range st.reviews {
		out.reviews[id] = r
	}
	for id, u := range st.users {
		out.users[id] = u
	}
	for k, v := range st.order {
		out.order[k] = v
	}
	out.seq = st.seq
	return out
}

// next records insertion order for stable listings.
func (st *state) next(key string) {
	st.seq++
	st.order[key] = st.seq
}

type Store struct {
	mu   *sync.RWMutex
	root **state
	inTx bool
	tx   *state
}

func New() *Store {
	st := newState()
	return &Store{mu: &sync.RWMutex{}, root: &st}
}

func (s *Store) Inventory() repositories.InventoryRepository      { return inventoryRepo{s} }
func (s *Store) Destinations() repositories.DestinationRepository { return destinationRepo{s} }
func (s *Store) Bookings() repositories.BookingRepository         { return bookingRepo{s} }
func (s *Store) Reviews() repositories.ReviewRepository           { return reviewRepo{s} }
func (s *Store) Users() repositories.UserRepository               { return userRepo{s} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Atomic(ctx context.Context, fn func(repositories.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := (*s.root).clone()
	if err := fn(&Store{mu: s.mu, root: s.root, inTx: true, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	*s.root = work
	return nil
}

func (s *Store) read(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx {
		return fn(s.tx)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(*s.root)
}

func (s *Store) write(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.inTx {
		return fn(s.tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := (*s.root).clone()
	if err := fn(work); err != nil {
		return err
	}
	*s.root = work
	return nil
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// sortIDs orders ids by insertion, newest first when desc is set.
func (st *state) sortIDs(prefix string, ids []string, desc bool) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := st.order[prefix+ids[i]], st.order[prefix+ids[j]]
		if desc {
			return a > b
		}
		return a < b
	})
}
