package chess

// Timeline is an append-only log with a movable head. Rewinding only moves
// the head; entries past it survive until a fresh append truncates them.
// The game keeps three timelines (boards, conditions, half-moves) in
// lockstep.
type Timeline[T any] struct {
	entries []T
	head    int
}

// NewTimeline returns an empty timeline with the head at -1.
func NewTimeline[T any]() *Timeline[T] {
	return &Timeline[T]{head: -1}
}

// Len is the number of stored entries, including any rewound-past future.
func (t *Timeline[T]) Len() int {
	return len(t.entries)
}

// Head is the current head index, -1 when the timeline is empty or fully
// rewound.
func (t *Timeline[T]) Head() int {
	return t.head
}

// At returns the entry at index i. Out-of-range access is a programming
// error and panics.
func (t *Timeline[T]) At(i int) T {
	return t.entries[i]
}

// Current returns the entry at the head. Calling it on an empty or fully
// rewound timeline panics.
func (t *Timeline[T]) Current() T {
	return t.entries[t.head]
}

// SetHead rewinds or advances the head within [-1, Len()-1].
func (t *Timeline[T]) SetHead(i int) error {
	if i < -1 || i >= len(t.entries) {
		return ErrIndexOutOfRange
	}
	t.head = i
	return nil
}

// Append discards any entries beyond the head, then appends v and moves the
// head onto it. This is the only path that physically deletes entries.
func (t *Timeline[T]) Append(v T) {
	t.entries = t.entries[:t.head+1]
	t.entries = append(t.entries, v)
	t.head++
}

// UpToHead returns the entries from the start through the head.
func (t *Timeline[T]) UpToHead() []T {
	return t.entries[:t.head+1]
}
