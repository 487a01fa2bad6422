package shuffle

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumarques81/shuffle-albums/internal/domain/queue"
	"github.com/edumarques81/shuffle-albums/internal/domain/queue/queuetest"
)

const X = queuetest.Untagged

func TestExecute_PushesEachAlbumToHead(t *testing.T) {
	fake := queuetest.NewFake(queuetest.New("A", "A", "B", "B", "C"))

	moves, err := Execute(Plan{"C", "A", "B"}, fake, fake)
	require.NoError(t, err)

	assert.Equal(t, 3, moves)
	assert.Equal(t, 3, fake.Fetches)
	assert.Equal(t, []queuetest.Move{
		{Range: queue.Range{Start: 4, End: 5}, To: 0},
		{Range: queue.Range{Start: 1, End: 3}, To: 0},
		{Range: queue.Range{Start: 3, End: 5}, To: 0},
	}, fake.Moves)
	assert.Equal(t,
		[]string{"B-1", "B-2", "A-1", "A-2", "C-1"},
		queuetest.Files(fake.Items()),
	)
}

func TestExecute_KeepsTrackOrderWithinAlbums(t *testing.T) {
	albums := []string{"A", "A", "A", "B", "C", "C", "D", "D", "D", "D"}
	fake := queuetest.NewFake(queuetest.New(albums...))

	_, err := Execute(Plan{"B", "D", "A", "C"}, fake, fake)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"C-1", "C-2",
		"A-1", "A-2", "A-3",
		"D-1", "D-2", "D-3", "D-4",
		"B-1",
	}, queuetest.Files(fake.Items()))
}

func TestExecute_UntaggedItemsSinkBelowMovedBlocks(t *testing.T) {
	fake := queuetest.NewFake(queuetest.New(X, "A", X, "B", "B"))

	_, err := Execute(Plan{"A", "B"}, fake, fake)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"B-1", "B-2", "A-1", "untagged-1", "untagged-2"},
		queuetest.Files(fake.Items()),
	)
}

func TestExecute_SpanningMoveCarriesGap(t *testing.T) {
	fake := queuetest.NewFake(queuetest.New("B", "A", X, "A"))

	_, err := Execute(Plan{"A"}, fake, fake)
	require.NoError(t, err)

	assert.Equal(t, []queuetest.Move{{Range: queue.Range{Start: 1, End: 4}, To: 0}}, fake.Moves)
	assert.Equal(t,
		[]string{"A-1", "untagged-1", "A-2", "B-1"},
		queuetest.Files(fake.Items()),
	)
}

func TestExecute_EmptyPlan(t *testing.T) {
	fake := queuetest.NewFake(queuetest.New("A"))

	moves, err := Execute(nil, fake, fake)
	require.NoError(t, err)

	assert.Zero(t, moves)
	assert.Zero(t, fake.Fetches)
	assert.Empty(t, fake.Moves)
}

func TestExecute_AlbumVanished(t *testing.T) {
	fake := queuetest.NewFake(queuetest.New("A", "B", "C"))
	fake.BeforeFetch = func(q queue.Queue) queue.Queue {
		if fake.Fetches == 2 {
			return q[:len(q)-1]
		}
		return q
	}

	moves, err := Execute(Plan{"A", "C", "B"}, fake, fake)

	require.Error(t, err)
	assert.True(t, errors.Is(err, queue.ErrAlbumNotFound))
	assert.Contains(t, err.Error(), `"C"`)
	assert.Equal(t, 1, moves)
	assert.Len(t, fake.Moves, 1)
}

func TestExecute_FetchFailureAborts(t *testing.T) {
	fake := queuetest.NewFake(queuetest.New("A", "B"))
	fake.FetchErr = errors.Mark(errors.New("connection refused"), queue.ErrConnection)

	moves, err := Execute(Plan{"A", "B"}, fake, fake)

	require.Error(t, err)
	assert.True(t, errors.Is(err, queue.ErrConnection))
	assert.Zero(t, moves)
	assert.Empty(t, fake.Moves)
}

func TestExecute_MoveFailureAbortsWithoutRollback(t *testing.T) {
	fake := queuetest.NewFake(queuetest.New("A", "B", "C"))
	fake.MoveErr = errors.Mark(errors.New("ACK [2@0] {move} Bad song index"), queue.ErrService)
	fake.FailMoveAt = 2

	moves, err := Execute(Plan{"C", "B", "A"}, fake, fake)

	require.Error(t, err)
	assert.True(t, errors.Is(err, queue.ErrService))
	assert.Equal(t, 1, moves)
	assert.Len(t, fake.Moves, 2)
	assert.Equal(t, 2, fake.Fetches)
	assert.Equal(t, []string{"C-1", "A-1", "B-1"}, queuetest.Files(fake.Items()))
}
