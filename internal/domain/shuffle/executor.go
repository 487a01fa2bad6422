package shuffle

import (
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"github.com/edumarques81/shuffle-albums/internal/domain/queue"
)

// Execute moves every album of plan, in order, to the head of the queue.
// The queue is re-read before each move because earlier moves and playback
// shift positions. The last album of the plan ends up first.
//
// Any error aborts the remaining plan; completed moves are not undone.
// The returned count is the number of moves that succeeded.
func Execute(plan Plan, reader queue.Reader, mover queue.Mover) (int, error) {
	moves := 0

	for _, album := range plan {
		q, err := reader.Fetch()
		if err != nil {
			return moves, errors.Wrapf(err, "failed to read queue before moving %q", album)
		}

		bounds, ok := queue.BoundsOf(album, q)
		if !ok {
			return moves, errors.Wrapf(queue.ErrAlbumNotFound, "album %q", album)
		}

		log.Debug().Str("album", album).Stringer("range", bounds).Msg("Moving album to head")
		if err := mover.Move(bounds, 0); err != nil {
			return moves, errors.Wrapf(err, "failed to move album %q (%s)", album, bounds)
		}
		moves++
	}

	return moves, nil
}
