// Package watchlist stores each user's ordered list of symbols.
package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/stockrec-portal/internal/interfaces"
)

// DefaultUser owns the list shared by anonymous visitors.
const DefaultUser = "default"

// MaxSymbols caps a single list.
const MaxSymbols = 100

// DefaultSymbols is shown to users who have not saved a list yet.
var DefaultSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA", "META"}

// ErrTooMany is returned when a list would exceed MaxSymbols.
var ErrTooMany = fmt.Errorf("watchlist holds at most %d symbols", MaxSymbols)

// Store persists watchlists in the KV storage under watchlist:<user>.
type Store struct {
	kv interfaces.KeyValueStorage
}

// NewStore creates a watchlist store.
func NewStore(kv interfaces.KeyValueStorage) *Store {
	return &Store{kv: kv}
}

func key(user string) string {
	user = strings.TrimSpace(user)
	if user == "" {
		user = DefaultUser
	}
	return "watchlist:" + user
}

// Normalize upper-cases, trims, drops blanks and de-duplicates symbols while
// keeping first-seen order.
func Normalize(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// Get returns user's list; a user without a list gets an empty one.
func (s *Store) Get(ctx context.Context, user string) ([]string, error) {
	raw, err := s.kv.Get(ctx, key(user))
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return []string{}, nil
		}
		return nil, err
	}
	var symbols []string
	if err := json.Unmarshal([]byte(raw), &symbols); err != nil {
		return nil, fmt.Errorf("corrupt watchlist for %s: %w", user, err)
	}
	return Normalize(symbols), nil
}

// Set replaces user's list.
func (s *Store) Set(ctx context.Context, user string, symbols []string) ([]string, error) {
	symbols = Normalize(symbols)
	if len(symbols) > MaxSymbols {
		return nil, ErrTooMany
	}
	b, err := json.Marshal(symbols)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, key(user), string(b)); err != nil {
		return nil, err
	}
	return symbols, nil
}

// Add appends symbols not already on user's list.
func (s *Store) Add(ctx context.Context, user string, symbols ...string) ([]string, error) {
	current, err := s.Get(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.Set(ctx, user, append(current, symbols...))
}

// Remove drops symbols from user's list.
func (s *Store) Remove(ctx context.Context, user string, symbols ...string) ([]string, error) {
	current, err := s.Get(ctx, user)
	if err != nil {
		return nil, err
	}
	drop := make(map[string]bool, len(symbols))
	for _, sym := range Normalize(symbols) {
		drop[sym] = true
	}
	kept := current[:0]
	for _, sym := range current {
		if !drop[sym] {
			kept = append(kept, sym)
		}
	}
	return s.Set(ctx, user, kept)
}
