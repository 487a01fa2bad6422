// Package queuetest provides an in-memory play queue for tests.
package queuetest

import (
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/edumarques81/shuffle-albums/internal/domain/queue"
)

// Untagged is the album value New treats as "no Album tag".
const Untagged = ""

// New builds a queue from album names. Each item also gets a file tag
// "<album>-<n>" so items of the same album stay distinguishable.
func New(albums ...string) queue.Queue {
	q := make(queue.Queue, len(albums))
	count := make(map[string]int)
	for i, album := range albums {
		count[album]++
		tags := map[string]string{"file": fileName(album, count[album])}
		if album != Untagged {
			tags[queue.AlbumTag] = album
		}
		q[i] = queue.Item{Tags: tags}
	}
	return q
}

func fileName(album string, n int) string {
	if album == Untagged {
		album = "untagged"
	}
	return album + "-" + strconv.Itoa(n)
}

// Files returns the file tag of every item, in order.
func Files(q queue.Queue) []string {
	files := make([]string, len(q))
	for i, item := range q {
		files[i] = item.Tags["file"]
	}
	return files
}

// Albums returns the album of every item, in order, with Untagged for missing tags.
func Albums(q queue.Queue) []string {
	albums := make([]string, len(q))
	for i, item := range q {
		albums[i], _ = item.Album()
	}
	return albums
}

// Fake is an in-memory queue.Service that applies MPD move semantics.
type Fake struct {
	mu    sync.Mutex
	items queue.Queue

	// FetchErr and MoveErr, when set, are returned by the next calls.
	FetchErr error
	MoveErr  error
	// FailMoveAt makes the n-th move (1-based) fail with MoveErr.
	FailMoveAt int
	// BeforeFetch runs with the current items before every fetch, letting
	// tests mutate the queue behind the shuffler's back.
	BeforeFetch func(q queue.Queue) queue.Queue

	Fetches int
	Moves   []Move
}

// Move records one move request.
type Move struct {
	Range queue.Range
	To    int
}

// NewFake creates a fake holding q.
func NewFake(q queue.Queue) *Fake {
	return &Fake{items: clone(q)}
}

// Fetch implements queue.Reader.
func (f *Fake) Fetch() (queue.Queue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Fetches++
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	if f.BeforeFetch != nil {
		f.items = f.BeforeFetch(clone(f.items))
	}
	return clone(f.items), nil
}

// Move implements queue.Mover.
func (f *Fake) Move(r queue.Range, to int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Moves = append(f.Moves, Move{Range: r, To: to})
	if f.MoveErr != nil && (f.FailMoveAt == 0 || f.FailMoveAt == len(f.Moves)) {
		return f.MoveErr
	}

	moved, err := Apply(f.items, r, to)
	if err != nil {
		return err
	}
	f.items = moved
	return nil
}

// Items returns a copy of the current queue.
func (f *Fake) Items() queue.Queue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return clone(f.items)
}

// FetchCount returns the number of fetches so far.
func (f *Fake) FetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Fetches
}

// Apply returns q with the block r relocated so it starts at position to,
// the way MPD's "move START:END TO" does.
func Apply(q queue.Queue, r queue.Range, to int) (queue.Queue, error) {
	if r.Start < 0 || r.End > len(q) || r.Start >= r.End {
		return nil, errors.Mark(errors.Newf("bad song index %s", r), queue.ErrService)
	}
	if to < 0 || to+r.Len() > len(q) {
		return nil, errors.Mark(errors.Newf("bad destination %d", to), queue.ErrService)
	}

	block := clone(q[r.Start:r.End])
	rest := make(queue.Queue, 0, len(q)-r.Len())
	rest = append(rest, q[:r.Start]...)
	rest = append(rest, q[r.End:]...)

	out := make(queue.Queue, 0, len(q))
	out = append(out, rest[:to]...)
	out = append(out, block...)
	out = append(out, rest[to:]...)
	return out, nil
}

func clone(q queue.Queue) queue.Queue {
	if q == nil {
		return nil
	}
	out := make(queue.Queue, len(q))
	copy(out, q)
	return out
}
