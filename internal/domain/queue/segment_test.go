package queue_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumarques81/shuffle-albums/internal/domain/queue"
	"github.com/edumarques81/shuffle-albums/internal/domain/queue/queuetest"
)

const X = queuetest.Untagged

func group(album string, start, end int) queue.AlbumGroup {
	return queue.AlbumGroup{Album: album, Range: queue.Range{Start: start, End: end}}
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name     string
		albums   []string
		expected []queue.AlbumGroup
	}{
		{
			name:     "empty queue",
			albums:   nil,
			expected: nil,
		},
		{
			name:     "only untagged items",
			albums:   []string{X, X},
			expected: nil,
		},
		{
			name:   "contiguous albums",
			albums: []string{"A", "A", "B", "B", "C"},
			expected: []queue.AlbumGroup{
				group("A", 0, 2),
				group("B", 2, 4),
				group("C", 4, 5),
			},
		},
		{
			name:   "separated runs stay separate",
			albums: []string{"A", "B", "A"},
			expected: []queue.AlbumGroup{
				group("A", 0, 1),
				group("B", 1, 2),
				group("A", 2, 3),
			},
		},
		{
			name:   "untagged item closes a run",
			albums: []string{"A", X, "A", "B"},
			expected: []queue.AlbumGroup{
				group("A", 0, 1),
				group("A", 2, 3),
				group("B", 3, 4),
			},
		},
		{
			name:   "untagged head and tail",
			albums: []string{X, "A", "A", X},
			expected: []queue.AlbumGroup{
				group("A", 1, 3),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, queue.Segment(queuetest.New(tt.albums...)))
		})
	}
}

func TestSegment_Properties(t *testing.T) {
	snapshots := [][]string{
		{"A", "A", "B", "B", "C"},
		{"A", X, "A", "B"},
		{X, "A", "B", "A", "A", X, X, "C", "C", "B"},
		{"A", "A", "A"},
		{X},
	}

	for _, albums := range snapshots {
		q := queuetest.New(albums...)
		groups := queue.Segment(q)

		covered := make(map[int]bool)
		prevEnd := 0
		for i, g := range groups {
			require.Greater(t, g.End, g.Start, "group %d must be non-empty", i)
			assert.GreaterOrEqual(t, g.Start, prevEnd, "groups must be disjoint and ordered")
			prevEnd = g.End

			for pos := g.Start; pos < g.End; pos++ {
				album, ok := q[pos].Album()
				require.True(t, ok)
				assert.Equal(t, g.Album, album)
				covered[pos] = true
			}

			if i > 0 && groups[i-1].End == g.Start {
				assert.NotEqual(t, groups[i-1].Album, g.Album, "adjacent groups must differ")
			}
		}

		for pos, item := range q {
			_, tagged := item.Album()
			assert.Equal(t, tagged, covered[pos], "position %d in %v", pos, albums)
		}

		assert.Equal(t, groups, queue.Segment(q), "segmentation must be stable on the same snapshot")
	}
}

func TestBoundsOf(t *testing.T) {
	tests := []struct {
		name   string
		albums []string
		album  string
		want   queue.Range
		found  bool
	}{
		{"first album", []string{"A", "A", "B", "B", "C"}, "A", queue.Range{Start: 0, End: 2}, true},
		{"middle album", []string{"A", "A", "B", "B", "C"}, "B", queue.Range{Start: 2, End: 4}, true},
		{"last album", []string{"A", "A", "B", "B", "C"}, "C", queue.Range{Start: 4, End: 5}, true},
		{"spans untagged gap", []string{"A", X, "A", "B"}, "A", queue.Range{Start: 0, End: 3}, true},
		{"spans foreign album", []string{"A", "B", "A"}, "A", queue.Range{Start: 0, End: 3}, true},
		{"absent album", []string{"A", "B"}, "C", queue.Range{}, false},
		{"empty queue", nil, "A", queue.Range{}, false},
		{"untagged never matches empty name", []string{X, X}, "", queue.Range{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := queue.BoundsOf(tt.album, queuetest.New(tt.albums...))
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAlbumIDs(t *testing.T) {
	q := queuetest.New("A", "A", "B", X, "A", "C", "B")

	assert.Equal(t, []string{"A", "B", "C"}, queue.AlbumIDs(queue.Segment(q)))
	assert.Empty(t, queue.AlbumIDs(nil))
}

func TestRange(t *testing.T) {
	r := queue.Range{Start: 3, End: 7}

	assert.Equal(t, 4, r.Len())
	assert.Equal(t, "3:7", r.String())
}

func TestApplyMovePreservesBlockOrder(t *testing.T) {
	q := queuetest.New("A", "A", "B", "B", "B", "C")

	moved, err := queuetest.Apply(q, queue.Range{Start: 2, End: 5}, 0)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"B-1", "B-2", "B-3", "A-1", "A-2", "C-1"},
		queuetest.Files(moved),
	)
}

func TestApplyMoveRejectsBadRange(t *testing.T) {
	q := queuetest.New("A", "B")

	_, err := queuetest.Apply(q, queue.Range{Start: 1, End: 3}, 0)
	assert.True(t, errors.Is(err, queue.ErrService))

	_, err = queuetest.Apply(q, queue.Range{Start: 0, End: 1}, 2)
	assert.True(t, errors.Is(err, queue.ErrService))
}
