package mpd

import (
	"io"
	"net"
	"net/textproto"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/fhs/gompd/v2/mpd"

	"github.com/edumarques81/shuffle-albums/internal/domain/queue"
)

// playlistClient is the subset of Client the queue adapter needs.
type playlistClient interface {
	PlaylistInfo() ([]mpd.Attrs, error)
	Move(start, end, to int) error
}

// QueueService exposes the MPD play queue as a queue.Service.
// Errors are marked with queue.ErrConnection or queue.ErrService.
type QueueService struct {
	client playlistClient
}

// NewQueueService creates a queue adapter over an MPD client.
func NewQueueService(client *Client) *QueueService {
	return &QueueService{client: client}
}

// Fetch returns a fresh snapshot of the play queue.
func (s *QueueService) Fetch() (queue.Queue, error) {
	songs, err := s.client.PlaylistInfo()
	if err != nil {
		return nil, classify(errors.Wrap(err, "playlistinfo"))
	}

	q := make(queue.Queue, len(songs))
	for i, song := range songs {
		if pos, ok := song["Pos"]; ok {
			if n, err := strconv.Atoi(pos); err != nil || n != i {
				return nil, errors.Mark(
					errors.Newf("malformed playlistinfo: entry %d reports Pos %q", i, pos),
					queue.ErrConnection,
				)
			}
		}
		q[i] = queue.Item{Tags: song}
	}

	return q, nil
}

// Move relocates r so that it starts at position to.
func (s *QueueService) Move(r queue.Range, to int) error {
	if err := s.client.Move(r.Start, r.End, to); err != nil {
		return classify(errors.Wrapf(err, "move %s %d", r, to))
	}
	return nil
}

// classify marks err as a connection failure or a rejected request.
func classify(err error) error {
	if isConnectionError(err) {
		return errors.Mark(err, queue.ErrConnection)
	}
	return errors.Mark(err, queue.ErrService)
}

func isConnectionError(err error) bool {
	var netErr net.Error
	var protoErr textproto.ProtocolError

	switch {
	case errors.Is(err, ErrNotConnected),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed):
		return true
	case errors.As(err, &netErr), errors.As(err, &protoErr):
		return true
	}
	return false
}
