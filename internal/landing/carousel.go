package landing

import (
	"sync"
	"time"
)

// DefaultCarouselInterval is the time between slides.
const DefaultCarouselInterval = 4 * time.Second

// Carousel cycles through a fixed number of slides while the auth modal is
// open. The timer itself lives in the page (a polling element that exists
// only while the modal is rendered); Tick is what each poll calls.
type Carousel struct {
	mu      sync.Mutex
	count   int
	index   int
	running bool
}

// NewCarousel creates a stopped carousel over count slides.
func NewCarousel(count int) *Carousel {
	return &Carousel{count: count}
}

// Start shows the first slide and begins advancing.
func (c *Carousel) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = 0
	c.running = true
}

// Stop halts advancing. The index is kept until the next Start.
func (c *Carousel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
}

// Tick advances to the next slide, wrapping at the end, and returns the new
// index. A stopped carousel does not move.
func (c *Carousel) Tick() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running && c.count > 0 {
		c.index = (c.index + 1) % c.count
	}
	return c.index
}

// Resize changes the slide count, e.g. after content is reloaded.
func (c *Carousel) Resize(count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = count
	if count == 0 || c.index >= count {
		c.index = 0
	}
}

// Index returns the current slide.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Running reports whether the carousel is advancing.
func (c *Carousel) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
