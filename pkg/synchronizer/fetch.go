package synchronizer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pipesync/server/pkg/integrations/pipefy"
	"github.com/pipesync/server/pkg/types"
)

// FetchCards loads every page concurrently: one query per cursor, then the
// first page, which has no cursor. Cards are concatenated in that order.
// Any failing page fails the whole fetch.
func FetchCards(ctx context.Context, client QueryClient, pipeID string, cursors []string, columns types.Columns) ([]pipefy.Card, error) {
	afters := make([]string, 0, len(cursors)+1)
	afters = append(afters, cursors...)
	afters = append(afters, "")

	pages := make([][]pipefy.Card, len(afters))
	g, gctx := errgroup.WithContext(ctx)
	for i, after := range afters {
		i, after := i, after
		g.Go(func() error {
			cards, err := client.Cards(gctx, cardsQuery(pipeID, after, columns))
			if err != nil {
				return err
			}
			pages[i] = cards
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, page := range pages {
		total += len(page)
	}
	cards := make([]pipefy.Card, 0, total)
	for _, page := range pages {
		cards = append(cards, page...)
	}
	return cards, nil
}

func cardsQuery(pipeID, after string, columns types.Columns) pipefy.CardsQuery {
	return pipefy.CardsQuery{
		PipeID:        pipeID,
		After:         after,
		ID:            columns.ID,
		Title:         columns.Title,
		CurrentPhase:  columns.CurrentPhase,
		Labels:        columns.Labels,
		Assignees:     columns.Assignees,
		CreatedAt:     columns.CreatedAt,
		UpdatedAt:     columns.UpdatedAt,
		DueDate:       columns.DueDate,
		Fields:        columns.Fields(),
		PhasesHistory: columns.PhasesHistory,
	}
}
