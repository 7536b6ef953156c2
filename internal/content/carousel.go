package content

// Carousel is the visible window over the project cards. It is a plain
// value owned by whoever renders it; the arrow buttons are enabled from
// CanPrev and CanNext.
type Carousel struct {
	Total   int
	Visible int
	Offset  int
}

// NewCarousel returns a window of visible cards over total, positioned at
// offset after clamping.
func NewCarousel(total, visible, offset int) Carousel {
	if visible < 1 {
		visible = 1
	}
	c := Carousel{Total: total, Visible: visible}
	return c.At(offset)
}

// maxOffset is the last offset that still fills the window.
func (c Carousel) maxOffset() int {
	if c.Total <= c.Visible {
		return 0
	}
	return c.Total - c.Visible
}

// At returns the carousel moved to offset, clamped to the valid range.
func (c Carousel) At(offset int) Carousel {
	switch {
	case offset < 0:
		offset = 0
	case offset > c.maxOffset():
		offset = c.maxOffset()
	}
	c.Offset = offset
	return c
}

// CanPrev reports whether the left arrow is enabled.
func (c Carousel) CanPrev() bool { return c.Offset > 0 }

// CanNext reports whether the right arrow is enabled.
func (c Carousel) CanNext() bool { return c.Offset < c.maxOffset() }

// Prev moves one card left.
func (c Carousel) Prev() Carousel { return c.At(c.Offset - 1) }

// Next moves one card right.
func (c Carousel) Next() Carousel { return c.At(c.Offset + 1) }

// Window returns the [start, end) indices of the visible cards.
func (c Carousel) Window() (start, end int) {
	end = c.Offset + c.Visible
	if end > c.Total {
		end = c.Total
	}
	return c.Offset, end
}
