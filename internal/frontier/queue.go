package frontier

import "container/heap"

// itemHeap implements heap.Interface over frontier items.
// The heap invariant is maintained across every Push/Pop.
type itemHeap []Item

func (h itemHeap) Len() int {
	return len(h)
}

func (h itemHeap) Less(i, j int) bool {
	return h[i].less(&h[j])
}

func (h itemHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *itemHeap) Push(x any) {
	*h = append(*h, x.(Item))
}

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// MinQueue is a priority queue of frontier items; the minimum ordering
// tuple dequeues first.
type MinQueue struct {
	items itemHeap
}

func NewMinQueue() *MinQueue {
	return &MinQueue{}
}

func (q *MinQueue) Enqueue(item Item) {
	heap.Push(&q.items, item)
}

// return false on the second returned value if the queue is empty
func (q *MinQueue) Dequeue() (Item, bool) {
	if len(q.items) == 0 {
		return Item{}, false
	}
	return heap.Pop(&q.items).(Item), true
}

func (q *MinQueue) Size() int {
	return len(q.items)
}
