package synchronizer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/pipesync/server/pkg/integrations/pipefy"
	"github.com/pipesync/server/pkg/testing/mocks"
)

// fakePipe serves cards in fixed-size pages with cursors "c1", "c2", ...
// and records every cards query.
type fakePipe struct {
	cards    []pipefy.Card
	pageSize int
	pipe     *pipefy.Pipe

	mu      sync.Mutex
	queries []pipefy.CardsQuery
}

func newFakePipe(n, pageSize int) *fakePipe {
	cards := make([]pipefy.Card, n)
	for i := range cards {
		cards[i] = pipefy.Card{ID: strconv.Itoa(i + 1), Title: fmt.Sprintf("Card %d", i+1)}
	}
	return &fakePipe{cards: cards, pageSize: pageSize, pipe: &pipefy.Pipe{}}
}

func (f *fakePipe) pages() int {
	if len(f.cards) == 0 {
		return 1
	}
	return (len(f.cards) + f.pageSize - 1) / f.pageSize
}

// pageIndex maps a cursor to the 0-based page that follows it.
func pageIndex(after string) int {
	if after == "" {
		return 0
	}
	n, _ := strconv.Atoi(strings.TrimPrefix(after, "c"))
	return n
}

func (f *fakePipe) client() *mocks.MockQueryClient {
	return &mocks.MockQueryClient{
		PageInfoFunc: func(ctx context.Context, pipeID, after string) (*pipefy.PageInfo, error) {
			page := pageIndex(after)
			return &pipefy.PageInfo{
				HasNextPage: page+1 < f.pages(),
				EndCursor:   fmt.Sprintf("c%d", page+1),
			}, nil
		},
		CardsFunc: func(ctx context.Context, q pipefy.CardsQuery) ([]pipefy.Card, error) {
			f.mu.Lock()
			f.queries = append(f.queries, q)
			f.mu.Unlock()

			start := pageIndex(q.After) * f.pageSize
			end := min(start+f.pageSize, len(f.cards))
			if start >= end {
				return nil, nil
			}
			return append([]pipefy.Card(nil), f.cards[start:end]...), nil
		},
		PipeFunc: func(ctx context.Context, q pipefy.PipeQuery) (*pipefy.Pipe, error) {
			return f.pipe, nil
		},
	}
}
