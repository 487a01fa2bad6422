package queue

// Segment splits q into maximal contiguous runs of items sharing an album.
// Only neighbouring items are compared, so two separated runs of the same
// album become two groups. Items without an album close any open run and
// never belong to a group.
func Segment(q Queue) []AlbumGroup {
	var groups []AlbumGroup
	var open *AlbumGroup

	for i, item := range q {
		album, ok := item.Album()
		if open != nil && (!ok || album != open.Album) {
			groups = append(groups, *open)
			open = nil
		}
		if !ok {
			continue
		}
		if open == nil {
			open = &AlbumGroup{Album: album, Range: Range{Start: i}}
		}
		open.End = i + 1
	}
	if open != nil {
		groups = append(groups, *open)
	}

	return groups
}

// BoundsOf returns the smallest range enclosing every occurrence of album in q.
// When the album appears in separated runs the range spans everything
// between them. The boolean is false if the album is absent.
func BoundsOf(album string, q Queue) (Range, bool) {
	bounds := Range{Start: len(q), End: 0}
	found := false

	for i, item := range q {
		if a, ok := item.Album(); ok && a == album {
			found = true
			bounds.Start = min(bounds.Start, i)
			bounds.End = max(bounds.End, i+1)
		}
	}
	if !found {
		return Range{}, false
	}
	return bounds, true
}

// AlbumIDs returns the distinct albums of groups in first-appearance order.
func AlbumIDs(groups []AlbumGroup) []string {
	seen := make(map[string]bool, len(groups))
	ids := make([]string, 0, len(groups))

	for _, g := range groups {
		if seen[g.Album] {
			continue
		}
		seen[g.Album] = true
		ids = append(ids, g.Album)
	}
	return ids
}
