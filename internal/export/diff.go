// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

// Change lists the documents that differ between two snapshots of a site.
// A document is identified by its name and URL; a renamed or moved
// document shows up once in each list.
type Change struct {
	Added   []Entry
	Removed []Entry
}

// Empty reports whether the two snapshots held the same documents.
func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Diff compares prev with next. Duplicate documents are counted, so a
// second copy of a title is reported as added. Order follows each snapshot.
func Diff(prev, next Snapshot) Change {
	return Change{
		Added:   missingFrom(next.Entries, prev.Entries),
		Removed: missingFrom(prev.Entries, next.Entries),
	}
}

// missingFrom returns the entries of a that have no counterpart in b.
func missingFrom(a, b []Entry) []Entry {
	have := make(map[entryKey]int, len(b))
	for _, e := range b {
		have[keyOf(e)]++
	}
	var out []Entry
	for _, e := range a {
		k := keyOf(e)
		if have[k] > 0 {
			have[k]--
			continue
		}
		out = append(out, e)
	}
	return out
}

type entryKey struct {
	name, url string
}

func keyOf(e Entry) entryKey {
	return entryKey{name: e.Name, url: e.URL}
}
