package synchronizer

import (
	"context"
	"errors"
	"fmt"
)

var ErrCursorLoop = errors.New("page info did not advance")

// DiscoverCursors walks the pipe's pages using page info only and returns
// the cursor of every page after the first, in page order. A pipe with P
// pages yields P-1 cursors.
func DiscoverCursors(ctx context.Context, client QueryClient, pipeID string) ([]string, error) {
	cursors := []string{}
	seen := map[string]bool{}
	after := ""

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := client.PageInfo(ctx, pipeID, after)
		if err != nil {
			return nil, err
		}
		if !info.HasNextPage {
			// the final endCursor points past the last page
			return cursors, nil
		}
		if info.EndCursor == "" {
			return nil, fmt.Errorf("%w: empty endCursor after %d pages", ErrCursorLoop, len(cursors)+1)
		}
		if seen[info.EndCursor] {
			return nil, fmt.Errorf("%w: endCursor %q repeated", ErrCursorLoop, info.EndCursor)
		}

		seen[info.EndCursor] = true
		cursors = append(cursors, info.EndCursor)
		after = info.EndCursor
	}
}
