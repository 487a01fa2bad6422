// Package queue models an MPD play queue snapshot and derives album groupings from it.
package queue

import "fmt"

// AlbumTag is the tag key that identifies an item's album.
const AlbumTag = "Album"

// Item is one queue entry. Tags hold the raw MPD attributes (file, Pos, Album, ...).
type Item struct {
	Tags map[string]string
}

// Album returns the item's album identifier and whether the tag is present.
func (i Item) Album() (string, bool) {
	album, ok := i.Tags[AlbumTag]
	return album, ok
}

// Queue is an ordered snapshot of the play queue. Index 0 is the head.
type Queue []Item

// Range is a half-open index range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of positions covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// String formats the range the way MPD expects it in a move command.
func (r Range) String() string {
	return fmt.Sprintf("%d:%d", r.Start, r.End)
}

// AlbumGroup is a maximal contiguous run of items sharing one album
// within a single snapshot. It is never valid across moves.
type AlbumGroup struct {
	Album string
	Range
}

// Reader fetches a fresh snapshot of the queue.
type Reader interface {
	Fetch() (Queue, error)
}

// Mover relocates the contiguous range r so that it starts at position to.
type Mover interface {
	Move(r Range, to int) error
}

// Service is the playback queue as seen by the shuffler.
type Service interface {
	Reader
	Mover
}
