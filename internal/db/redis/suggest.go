package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/solenta/catalogsearch/internal/db"
)

// SuggestAdd inserts entries into a completion dictionary via FT.SUGADD.
func (s *Store) SuggestAdd(ctx context.Context, dict string, entries []string) error {
	if len(entries) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(entries))
	for _, e := range entries {
		if e == "" {
			continue
		}
		cmds = append(cmds, s.b().Arbitrary("FT.SUGADD").Args(dict, e, "1").Build())
	}
	if len(cmds) == 0 {
		return nil
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpSugAdd, Err: fmt.Errorf("entry %d: %w", i, err)}
		}
	}
	return nil
}

// SuggestDel removes entries from a completion dictionary via FT.SUGDEL.
// Absent entries are not an error.
func (s *Store) SuggestDel(ctx context.Context, dict string, entries []string) error {
	if len(entries) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(entries))
	for _, e := range entries {
		if e == "" {
			continue
		}
		cmds = append(cmds, s.b().Arbitrary("FT.SUGDEL").Args(dict, e).Build())
	}
	if len(cmds) == 0 {
		return nil
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpSugDel, Err: fmt.Errorf("entry %d: %w", i, err)}
		}
	}
	return nil
}

// Suggest returns up to size completions for prefix via FT.SUGGET. Plain
// prefix matching only; typo tolerance belongs to the fuzzy search path.
func (s *Store) Suggest(ctx context.Context, dict, prefix string, size int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("size must be positive")
	}

	cmd := s.b().Arbitrary("FT.SUGGET").
		Args(dict, prefix, "MAX", strconv.Itoa(size)).
		Build()

	out, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}
		return nil, &db.Error{Op: db.OpSugGet, Err: err}
	}
	return out, nil
}
