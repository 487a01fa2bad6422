package queue

import "github.com/cockroachdb/errors"

var (
	// ErrConnection marks failures to reach the playback service or to read its replies.
	ErrConnection = errors.New("playback service unreachable")
	// ErrService marks requests the playback service rejected.
	ErrService = errors.New("playback service error")
	// ErrAlbumNotFound means an album seen while planning is no longer in the queue.
	ErrAlbumNotFound = errors.New("album not found in queue")
)
