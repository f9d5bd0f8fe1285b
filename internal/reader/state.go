// Package reader holds the page-flip interaction state of an open flipbook.
//
// Pages are grouped into spreads starting at even indices: flipping spread i
// flips pages i and i+1 together. State is not safe for concurrent use.
package reader

import (
	"fmt"
	"math"
	"sort"
)

// Options bounds the zoom behaviour.
type Options struct {
	ZoomStep float64
	MinZoom  float64
	MaxZoom  float64
}

// DefaultOptions returns the stock zoom settings.
func DefaultOptions() Options {
	return Options{ZoomStep: 1.2, MinZoom: 0.5, MaxZoom: 3.0}
}

// Key is a reader keyboard input.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyEscape
)

// Action tells the host what to do after a key press.
type Action int

const (
	ActionNone Action = iota
	ActionClose
)

// State tracks the current page, zoom, fullscreen flag and flipped pages.
type State struct {
	opts       Options
	pageCount  int
	current    int
	zoom       float64
	fullscreen bool
	flipped    []bool
}

// New returns the initial state for a flipbook with pageCount pages.
func New(pageCount int, opts Options) *State {
	if pageCount < 0 {
		pageCount = 0
	}
	if opts.ZoomStep <= 1 || opts.MinZoom <= 0 || opts.MinZoom > opts.MaxZoom {
		opts = DefaultOptions()
	}
	return &State{
		opts:      opts,
		pageCount: pageCount,
		zoom:      1,
		flipped:   make([]bool, pageCount),
	}
}

func (s *State) PageCount() int   { return s.pageCount }
func (s *State) Current() int     { return s.current }
func (s *State) Zoom() float64    { return s.zoom }
func (s *State) Fullscreen() bool { return s.fullscreen }

// ZoomPercent returns the zoom rounded to a whole percentage.
func (s *State) ZoomPercent() int {
	return int(math.Round(s.zoom * 100))
}

// IsFlipped reports whether page index is flipped.
func (s *State) IsFlipped(index int) bool {
	return index >= 0 && index < s.pageCount && s.flipped[index]
}

// FlippedPages returns the flipped page indices in ascending order.
func (s *State) FlippedPages() []int {
	var out []int
	for i, f := range s.flipped {
		if f {
			out = append(out, i)
		}
	}
	return out
}

// FlippedSpreads returns the start index of every flipped spread.
func (s *State) FlippedSpreads() []int {
	var out []int
	for i := 0; i < s.pageCount; i += 2 {
		if s.flipped[i] {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

// Next flips the first unflipped spread and moves past it. It reports
// whether anything changed.
func (s *State) Next() bool {
	for i := 0; i < s.pageCount; i += 2 {
		if !s.flipped[i] {
			s.setSpread(i, true)
			s.current = i + 2
			return true
		}
	}
	return false
}

// Prev unflips the last flipped spread and moves onto it. It reports
// whether anything changed.
func (s *State) Prev() bool {
	last := s.pageCount - 1
	if last%2 == 1 {
		last--
	}
	for i := last; i >= 0; i -= 2 {
		if s.flipped[i] {
			s.setSpread(i, false)
			s.current = i
			return true
		}
	}
	return false
}

// JumpTo resets every page and flips each spread starting before index.
func (s *State) JumpTo(index int) error {
	if index < 0 || index >= s.pageCount {
		return fmt.Errorf("page index %d out of range [0, %d)", index, s.pageCount)
	}
	for i := range s.flipped {
		s.flipped[i] = false
	}
	for i := 0; i < index; i += 2 {
		s.setSpread(i, true)
	}
	s.current = index
	return nil
}

// ClickPage handles a click on page index. Odd page numbers (the right-hand
// side of a spread) flip themselves with their successor; even page numbers
// unflip themselves with their predecessor. The current page is unchanged.
func (s *State) ClickPage(index int) error {
	if index < 0 || index >= s.pageCount {
		return fmt.Errorf("page index %d out of range [0, %d)", index, s.pageCount)
	}
	pageNum := index + 1
	if pageNum%2 == 0 {
		s.flipped[index] = false
		s.flipped[index-1] = false
		return nil
	}
	s.flipped[index] = true
	if index+1 < s.pageCount {
		s.flipped[index+1] = true
	}
	return nil
}

// ZoomIn multiplies the zoom by the step, clamped to the maximum.
func (s *State) ZoomIn() {
	s.zoom = math.Min(s.zoom*s.opts.ZoomStep, s.opts.MaxZoom)
}

// ZoomOut divides the zoom by the step, clamped to the minimum.
func (s *State) ZoomOut() {
	s.zoom = math.Max(s.zoom/s.opts.ZoomStep, s.opts.MinZoom)
}

// ResetZoom restores 100%.
func (s *State) ResetZoom() {
	s.zoom = 1
}

// ToggleFullscreen flips the fullscreen flag. Pagination is unaffected.
func (s *State) ToggleFullscreen() {
	s.fullscreen = !s.fullscreen
}

// HandleKey applies a keyboard input.
func (s *State) HandleKey(k Key) Action {
	switch k {
	case KeyLeft:
		s.Prev()
	case KeyRight:
		s.Next()
	case KeyEscape:
		if s.fullscreen {
			s.fullscreen = false
			return ActionNone
		}
		return ActionClose
	}
	return ActionNone
}

// Spread returns the 1-based labels of the visible pages, as shown in
// "Page first-last of n". Both are 0 for an empty book.
func (s *State) Spread() (first, last int) {
	if s.pageCount == 0 {
		return 0, 0
	}
	first = s.current + 1
	last = s.current + 2
	if last > s.pageCount {
		last = s.pageCount
	}
	if first > s.pageCount {
		first = s.pageCount
	}
	return first, last
}

// ThumbnailLimit is the number of leading pages offered for direct jumps.
const ThumbnailLimit = 10

// Thumbnails returns the page indices offered for direct jumps.
func (s *State) Thumbnails() []int {
	n := s.pageCount
	if n > ThumbnailLimit {
		n = ThumbnailLimit
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// InView reports whether page index is part of the visible spread.
func (s *State) InView(index int) bool {
	return index >= s.current && index < s.current+2
}

func (s *State) setSpread(i int, flipped bool) {
	s.flipped[i] = flipped
	if i+1 < s.pageCount {
		s.flipped[i+1] = flipped
	}
}
