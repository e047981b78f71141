package landing

import "sync"

type accordionMode int

const (
	accordionClosed accordionMode = iota
	accordionOne
	accordionAll
)

// Accordion tracks which FAQ answers are expanded: none, exactly one, or
// all of them.
type Accordion struct {
	mu    sync.Mutex
	mode  accordionMode
	index int
}

// Toggle handles a click on question i. While everything is expanded any
// click collapses everything; otherwise clicking the open question closes
// it and clicking another opens only that one.
func (a *Accordion) Toggle(i int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch {
	case a.mode == accordionAll:
		a.mode = accordionClosed
	case a.mode == accordionOne && a.index == i:
		a.mode = accordionClosed
	default:
		a.mode, a.index = accordionOne, i
	}
}

// ToggleAll expands every answer, or collapses them if already expanded.
func (a *Accordion) ToggleAll() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.mode == accordionAll {
		a.mode = accordionClosed
		return
	}
	a.mode = accordionAll
}

// IsOpen reports whether answer i is shown.
func (a *Accordion) IsOpen(i int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode == accordionAll || (a.mode == accordionOne && a.index == i)
}

// AllOpen reports whether the accordion is in the expand-all state.
func (a *Accordion) AllOpen() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode == accordionAll
}
