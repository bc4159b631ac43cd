package report

import (
	"context"
	"io"
)

// Renderer encodes a resolved row set into one export format. Render writes
// incrementally to w where the format allows; see the spreadsheet renderer
// for the exception.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, rows []Row, columns []string) error
}

// cancelCheckInterval is how many rows a renderer emits between context
// checks. Exports are otherwise tight loops.
const cancelCheckInterval = 500

func checkCancelled(ctx context.Context, i int) error {
	if i%cancelCheckInterval == 0 {
		return ctx.Err()
	}
	return nil
}
