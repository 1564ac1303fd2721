package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name                 string
		current, total, size int
		want                 []int
	}{
		{"first page", 1, 20, 5, []int{1, 2, 3, 4, 5}},
		{"middle", 10, 20, 5, []int{8, 9, 10, 11, 12}},
		{"near end", 18, 20, 5, []int{16, 17, 18, 19, 20}},
		{"last page", 20, 20, 5, []int{16, 17, 18, 19, 20}},
		{"second page clamps start", 2, 20, 5, []int{1, 2, 3, 4, 5}},
		{"fewer pages than size", 2, 3, 5, []int{1, 2, 3}},
		{"exactly size", 4, 5, 5, []int{1, 2, 3, 4, 5}},
		{"single page", 1, 1, 5, []int{1}},
		{"default size", 10, 20, 0, []int{8, 9, 10, 11, 12}},
		{"even size", 10, 20, 4, []int{8, 9, 10, 11}},
		{"current past total", 30, 20, 5, []int{16, 17, 18, 19, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Window(tt.current, tt.total, tt.size))
		})
	}
}

func TestWindowProperties(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for current := 1; current <= total; current++ {
			got := Window(current, total, 5)

			want := 5
			if total < want {
				want = total
			}
			assert.Len(t, got, want, "current=%d total=%d", current, total)
			assert.Contains(t, got, current, "current=%d total=%d", current, total)
			assert.GreaterOrEqual(t, got[0], 1)
			assert.LessOrEqual(t, got[len(got)-1], total)
			for i := 1; i < len(got); i++ {
				assert.Equal(t, got[i-1]+1, got[i], "window must be contiguous")
			}
		}
	}
}

func TestNewPager(t *testing.T) {
	p := NewPager(1, 3)
	assert.False(t, p.HasPrev)
	assert.True(t, p.HasNext)
	assert.Equal(t, []int{1, 2, 3}, p.Pages)

	p = NewPager(5, 0)
	assert.Equal(t, 1, p.Current, "total is floored at one page")
	assert.Equal(t, 1, p.Total)
	assert.False(t, p.HasNext)
}
