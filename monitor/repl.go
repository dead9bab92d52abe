package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const prompt = "> "

// Run reads commands from stdin until quit, EOF or ctx is done. A terminal
// stdin gets raw mode and line editing; anything else is read line by line.
func (in *Interpreter) Run(ctx context.Context, stdin *os.File, stdout io.Writer) error {
	fd := int(stdin.Fd())
	if !term.IsTerminal(fd) {
		return in.serve(ctx, scanLines(stdin), stdout)
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("monitor: raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	t := term.NewTerminal(struct {
		io.Reader
		io.Writer
	}{stdin, stdout}, prompt)
	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := t.ReadLine()
			if err != nil {
				return
			}
			lines <- line
		}
	}()
	return in.serve(ctx, lines, t)
}

// serve executes lines as they arrive. The reader goroutine behind lines is
// left blocked when ctx ends first; it dies with the process.
func (in *Interpreter) serve(ctx context.Context, lines <-chan string, w io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if out := in.Execute(line); out != "" {
				fmt.Fprintln(w, out)
			}
			if in.done {
				return nil
			}
		}
	}
}

func scanLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}
