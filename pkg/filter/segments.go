// Package filter derives the visible subset of the catalog by composing
// up to three predicates: a generation segment (id range), a type tag,
// and a free-text search term.
package filter

// MaxID is the highest record id covered by the segment table.
const MaxID = 1010

// Segment is a static, contiguous id range grouping records by the
// generation they were introduced in.
type Segment struct {
	Key   string
	Name  string
	Start int
	End   int
}

// Segments is the static segment table. Ranges are contiguous,
// non-overlapping, and cover ids 1..MaxID; every id belongs to exactly
// one segment.
var Segments = []Segment{
	{Key: "kanto", Name: "KANTO", Start: 1, End: 151},
	{Key: "johto", Name: "JOHTO", Start: 152, End: 251},
	{Key: "hoenn", Name: "HOENN", Start: 252, End: 386},
	{Key: "sinnoh", Name: "SINNOH", Start: 387, End: 493},
	{Key: "unova", Name: "UNOVA", Start: 494, End: 649},
	{Key: "kalos", Name: "KALOS", Start: 650, End: 721},
	{Key: "alola", Name: "ALOLA", Start: 722, End: 809},
	{Key: "galar", Name: "GALAR", Start: 810, End: 905},
	{Key: "paldea", Name: "PALDEA", Start: 906, End: 1010},
}

// SegmentByKey looks up a segment by its key.
func SegmentByKey(key string) (Segment, bool) {
	for _, s := range Segments {
		if s.Key == key {
			return s, true
		}
	}
	return Segment{}, false
}

// SegmentFor returns the segment containing the given id.
func SegmentFor(id int) (Segment, bool) {
	for _, s := range Segments {
		if id >= s.Start && id <= s.End {
			return s, true
		}
	}
	return Segment{}, false
}

// Contains reports whether the id falls within the segment's inclusive
// range.
func (s Segment) Contains(id int) bool {
	return id >= s.Start && id <= s.End
}
