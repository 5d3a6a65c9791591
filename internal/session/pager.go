package session

import (
	"fmt"
	"sync"
)

// PagerState is the navigation state of a pager. Renderers derive their
// enabled controls from it.
type PagerState struct {
	Index  int
	Total  int
	First  bool
	Last   bool
	Closed bool
}

// Pager is a cursor over a fixed, ordered sequence of pages. Navigation past
// either end fails with ErrOutOfRange and leaves the cursor unchanged.
type Pager[T any] struct {
	mu     sync.Mutex
	pages  []T
	index  int
	closed bool
}

// NewPager creates a pager positioned on the first page.
func NewPager[T any](pages []T) *Pager[T] {
	return &Pager[T]{pages: append([]T(nil), pages...)}
}

// Current returns the page under the cursor. It reports false for an empty
// pager.
func (p *Pager[T]) Current() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var zero T
	if len(p.pages) == 0 {
		return zero, false
	}
	return p.pages[p.index], true
}

// Next moves to the following page.
func (p *Pager[T]) Next() (T, error) {
	return p.move(+1, "next")
}

// Previous moves to the preceding page.
func (p *Pager[T]) Previous() (T, error) {
	return p.move(-1, "previous")
}

func (p *Pager[T]) move(delta int, op string) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var zero T
	if p.closed {
		return zero, fmt.Errorf("%s page: %w", op, ErrSessionClosed)
	}
	target := p.index + delta
	if target < 0 || target >= len(p.pages) {
		return zero, fmt.Errorf("%s page from %d of %d: %w", op, p.index+1, len(p.pages), ErrOutOfRange)
	}
	p.index = target
	return p.pages[p.index], nil
}

// Close ends navigation. Closing twice is a no-op.
func (p *Pager[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// State returns the current navigation state.
func (p *Pager[T]) State() PagerState {
	p.mu.Lock()
	defer p.mu.Unlock()
	last := len(p.pages) - 1
	return PagerState{
		Index:  p.index,
		Total:  len(p.pages),
		First:  p.index == 0,
		Last:   p.index >= last,
		Closed: p.closed,
	}
}

// Len returns the number of pages.
func (p *Pager[T]) Len() int {
	return len(p.pages)
}
