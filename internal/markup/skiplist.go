package markup

// MythTV markup codes for commercial break boundaries.
const (
	MarkCommStart = 4
	MarkCommEnd   = 5
)

// Mark is a single detected commercial break interval. Start and End
// are frame offsets with Start < End, guaranteed at parse time.
type Mark struct {
	Start uint64
	End   uint64
}

// SkipList is the ordered, append-only set of breaks detected during a
// session. Marks are kept in arrival order; the analyzer emits cuts in
// stream order and this core never re-sorts them. Only the single
// session control goroutine mutates a SkipList.
type SkipList struct {
	marks []Mark
}

// Append adds a mark at the end of the list.
func (l *SkipList) Append(mark Mark) {
	l.marks = append(l.marks, mark)
}

// Len returns the number of detected breaks.
func (l *SkipList) Len() int {
	return len(l.marks)
}

// Marks returns a copy of the marks in arrival order.
func (l *SkipList) Marks() []Mark {
	out := make([]Mark, len(l.marks))
	copy(out, l.marks)
	return out
}
