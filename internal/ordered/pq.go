package ordered

import "container/heap"

// pqItem is one entry in the priority queue: a value tagged with its
// priority and the order it was inserted in.
type pqItem[V any] struct {
	val       V
	priority  int64
	inserted  uint64
}

// rawHeap implements container/heap.Interface. Entries compare by
// (priority desc, inserted asc) so equal-priority entries pop in
// insertion order, per spec's priority-queue tie-break rule.
type rawHeap[V any] []*pqItem[V]

func (h rawHeap[V]) Len() int { return len(h) }
func (h rawHeap[V]) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].inserted < h[j].inserted
}
func (h rawHeap[V]) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *rawHeap[V]) Push(x any)   { *h = append(*h, x.(*pqItem[V])) }
func (h *rawHeap[V]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// PriorityQueue is a binary heap whose compare is (priority, -insertion
// counter), so equal-priority entries come out in insertion order.
type PriorityQueue[V any] struct {
	h       rawHeap[V]
	counter uint64
}

// NewPriorityQueue creates an empty priority queue.
func NewPriorityQueue[V any]() *PriorityQueue[V] {
	return &PriorityQueue[V]{}
}

// Push inserts val with the given priority (higher pops first).
func (pq *PriorityQueue[V]) Push(val V, priority int64) {
	heap.Push(&pq.h, &pqItem[V]{val: val, priority: priority, inserted: pq.counter})
	pq.counter++
}

// Pop removes and returns the highest-priority value. ok is false if the
// queue is empty.
func (pq *PriorityQueue[V]) Pop() (val V, priority int64, ok bool) {
	if pq.h.Len() == 0 {
		return val, 0, false
	}
	item := heap.Pop(&pq.h).(*pqItem[V])
	return item.val, item.priority, true
}

// Peek returns the highest-priority value without removing it.
func (pq *PriorityQueue[V]) Peek() (val V, priority int64, ok bool) {
	if pq.h.Len() == 0 {
		return val, 0, false
	}
	item := pq.h[0]
	return item.val, item.priority, true
}

// Len returns the number of queued values.
func (pq *PriorityQueue[V]) Len() int {
	return pq.h.Len()
}

// Clear empties the queue. The insertion counter is not reset, so
// tie-breaks remain consistent with any earlier Push order the caller
// still remembers.
func (pq *PriorityQueue[V]) Clear() {
	pq.h = pq.h[:0]
}
