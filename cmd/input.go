package cmd

import (
	"bufio"
	"context"
	"io"
	"strings"
	"time"
)

// lineSource delivers trimmed input lines from a reader goroutine.
type lineSource struct {
	lines <-chan string
	idle  time.Duration
}

func newLineSource(r io.Reader, idle time.Duration) *lineSource {
	ch := make(chan string)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			ch <- strings.TrimSpace(scanner.Text())
		}
	}()
	return &lineSource{lines: ch, idle: idle}
}

type inputStatus int

const (
	inputLine inputStatus = iota
	inputClosed
	inputIdle
)

// next waits for a line. A zero idle duration waits indefinitely.
func (s *lineSource) next(ctx context.Context) (string, inputStatus) {
	var timeout <-chan time.Time
	if s.idle > 0 {
		timer := time.NewTimer(s.idle)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case line, ok := <-s.lines:
		if !ok {
			return "", inputClosed
		}
		return line, inputLine
	case <-timeout:
		return "", inputIdle
	case <-ctx.Done():
		return "", inputClosed
	}
}
