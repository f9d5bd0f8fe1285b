package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewState(t *testing.T) {
	s := New(6, DefaultOptions())
	assert.Equal(t, 0, s.Current())
	assert.Equal(t, 1.0, s.Zoom())
	assert.False(t, s.Fullscreen())
	assert.Empty(t, s.FlippedPages())
}

func TestNextFlipsSpreads(t *testing.T) {
	s := New(5, DefaultOptions())

	require.True(t, s.Next())
	assert.Equal(t, 2, s.Current())
	assert.Equal(t, []int{0, 1}, s.FlippedPages())

	require.True(t, s.Next())
	require.True(t, s.Next())
	assert.Equal(t, 6, s.Current())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, s.FlippedPages())

	assert.False(t, s.Next(), "no-op once every spread is flipped")
	assert.Equal(t, 6, s.Current())
}

func TestPrevUnflipsLastSpread(t *testing.T) {
	s := New(4, DefaultOptions())
	assert.False(t, s.Prev(), "nothing flipped yet")

	s.Next()
	s.Next()
	require.True(t, s.Prev())
	assert.Equal(t, 2, s.Current())
	assert.Equal(t, []int{0, 1}, s.FlippedPages())
}

func TestPrevOddPageCount(t *testing.T) {
	s := New(5, DefaultOptions())
	s.Next()
	s.Next()
	s.Next()

	require.True(t, s.Prev())
	assert.Equal(t, 4, s.Current())
	assert.Equal(t, []int{0, 1, 2, 3}, s.FlippedPages())

	require.True(t, s.Prev())
	require.True(t, s.Prev())
	assert.Equal(t, 0, s.Current())
	assert.Empty(t, s.FlippedPages())
}

func TestNextThenPrevRestoresInitialState(t *testing.T) {
	s := New(4, DefaultOptions())
	s.Next()
	s.Prev()
	assert.Equal(t, 0, s.Current())
	assert.Empty(t, s.FlippedPages())
}

func TestJumpTo(t *testing.T) {
	tests := []struct {
		index   int
		spreads []int
	}{
		{0, nil},
		{1, []int{0}},
		{2, []int{0}},
		{3, []int{0, 2}},
		{6, []int{0, 2, 4}},
		{7, []int{0, 2, 4, 6}},
	}

	for _, tt := range tests {
		s := New(8, DefaultOptions())
		s.Next()
		s.Next()
		s.Next()
		s.Next()

		require.NoError(t, s.JumpTo(tt.index))
		assert.Equal(t, tt.index, s.Current())
		assert.Equal(t, tt.spreads, s.FlippedSpreads(), "jump to %d", tt.index)
		for _, start := range s.FlippedSpreads() {
			assert.Less(t, start, tt.index)
		}
	}
}

func TestJumpToOutOfRange(t *testing.T) {
	s := New(3, DefaultOptions())
	s.Next()

	assert.Error(t, s.JumpTo(3))
	assert.Error(t, s.JumpTo(-1))
	assert.Equal(t, 2, s.Current(), "rejected jump leaves state untouched")
	assert.Equal(t, []int{0, 1}, s.FlippedPages())
}

func TestClickPage(t *testing.T) {
	s := New(4, DefaultOptions())

	require.NoError(t, s.ClickPage(2)) // page 3
	assert.Equal(t, []int{2, 3}, s.FlippedPages())

	require.NoError(t, s.ClickPage(3)) // page 4
	assert.Empty(t, s.FlippedPages())

	require.NoError(t, s.ClickPage(0))
	assert.Equal(t, []int{0, 1}, s.FlippedPages())
	assert.Equal(t, 0, s.Current())

	assert.Error(t, s.ClickPage(4))
}

func TestZoomClamps(t *testing.T) {
	s := New(2, DefaultOptions())

	for i := 0; i < 20; i++ {
		s.ZoomIn()
	}
	assert.Equal(t, 3.0, s.Zoom())

	for i := 0; i < 20; i++ {
		s.ZoomOut()
	}
	assert.Equal(t, 0.5, s.Zoom())

	s.ResetZoom()
	s.ZoomIn()
	assert.InDelta(t, 1.2, s.Zoom(), 1e-9)
	assert.Equal(t, 120, s.ZoomPercent())
}

func TestHandleKey(t *testing.T) {
	s := New(4, DefaultOptions())

	assert.Equal(t, ActionNone, s.HandleKey(KeyRight))
	assert.Equal(t, 2, s.Current())
	assert.Equal(t, ActionNone, s.HandleKey(KeyLeft))
	assert.Equal(t, 0, s.Current())

	s.ToggleFullscreen()
	assert.Equal(t, ActionNone, s.HandleKey(KeyEscape))
	assert.False(t, s.Fullscreen())
	assert.Equal(t, ActionClose, s.HandleKey(KeyEscape))
}

func TestFullscreenKeepsPagination(t *testing.T) {
	s := New(6, DefaultOptions())
	s.Next()
	s.ToggleFullscreen()
	s.ToggleFullscreen()
	assert.Equal(t, 2, s.Current())
	assert.Equal(t, []int{0, 1}, s.FlippedPages())
}

func TestSpreadAndThumbnails(t *testing.T) {
	s := New(3, DefaultOptions())
	first, last := s.Spread()
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, last)

	s.Next()
	first, last = s.Spread()
	assert.Equal(t, 3, first)
	assert.Equal(t, 3, last)
	assert.True(t, s.InView(2))
	assert.False(t, s.InView(1))

	assert.Len(t, New(25, DefaultOptions()).Thumbnails(), ThumbnailLimit)
	assert.Len(t, s.Thumbnails(), 3)

	first, last = New(0, DefaultOptions()).Spread()
	assert.Zero(t, first)
	assert.Zero(t, last)
}
