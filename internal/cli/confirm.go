package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// Confirmer asks yes/no questions on a terminal.
type Confirmer struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewConfirmer creates a Confirmer reading answers from r.
func NewConfirmer(r io.Reader, w io.Writer) *Confirmer {
	return &Confirmer{reader: bufio.NewReader(r), writer: w}
}

// Confirm prints question and reports whether the answer was yes. Anything
// other than y or yes, including end of input, counts as no.
func (c *Confirmer) Confirm(ctx context.Context, question string) (bool, error) {
	if _, err := fmt.Fprint(c.writer, FormatPrompt(question)); err != nil {
		return false, err
	}

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		value, err := c.reader.ReadString('\n')
		resultCh <- result{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ErrInputCancelled
	case res := <-resultCh:
		if res.err != nil && !errors.Is(res.err, io.EOF) {
			return false, res.err
		}
		answer := strings.ToLower(strings.TrimSpace(res.value))
		return answer == "y" || answer == "yes", nil
	}
}
