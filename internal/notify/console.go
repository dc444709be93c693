package notify

import (
	"context"
	"fmt"
	"io"
)

// Console writes reports to a local stream, for dry runs and setups
// without a bot.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Send(_ context.Context, text string) error {
	if _, err := fmt.Fprintln(c.out, text); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
