package depsolve

// Queue is a grow-on-demand vector of signed 32-bit ids with a small
// push/slice vocabulary. A plain slice already gives amortized O(1)
// append; the solver itself keeps its job lists, decision trails and
// reason chains in plain slices and does not use Queue.
type Queue struct {
	ids []int32
}

// NewQueue returns an empty Queue with room for n elements.
func NewQueue(n int) *Queue {
	return &Queue{ids: make([]int32, 0, n)}
}

// Push appends v to the end of the queue.
func (q *Queue) Push(v int32) {
	q.ids = append(q.ids, v)
}

// PushZero appends a 0 element, for id lists that use a zero
// terminator.
func (q *Queue) PushZero() {
	q.ids = append(q.ids, 0)
}

// Len returns the number of elements currently in the queue.
func (q *Queue) Len() int {
	return len(q.ids)
}

// At returns the element at index i.
func (q *Queue) At(i int) int32 {
	return q.ids[i]
}

// Set overwrites the element at index i.
func (q *Queue) Set(i int, v int32) {
	q.ids[i] = v
}

// Slice returns the backing slice directly. Callers must not retain it
// across further Pushes, since growth may reallocate.
func (q *Queue) Slice() []int32 {
	return q.ids
}

// Truncate shrinks the queue to length n, discarding any elements past
// it. It is a no-op if n >= q.Len().
func (q *Queue) Truncate(n int) {
	if n < len(q.ids) {
		q.ids = q.ids[:n]
	}
}

// Clear empties the queue without releasing its backing array, so the
// next solve (e.g. during problem-solution minimization, which
// repeatedly re-solves) can reuse the allocation.
func (q *Queue) Clear() {
	q.ids = q.ids[:0]
}

// Clone returns an independent copy of the queue.
func (q *Queue) Clone() *Queue {
	cp := make([]int32, len(q.ids))
	copy(cp, q.ids)
	return &Queue{ids: cp}
}
