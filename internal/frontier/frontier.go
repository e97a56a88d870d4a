package frontier

/*
Frontier Responsibilities
- Maintain priority ordering with a deterministic tiebreaker
- Remember every URL ever discovered
- Knows nothing about:
	- fetching
	- extraction
	- budgets (the scheduler enforces those before admitting)

It is a data structure module, not a pipeline executor. It has a single
writer: the scheduler's orchestration goroutine.
*/

// Frontier owns the priority queue of discovered-but-not-yet-dispatched
// URLs plus the discovered set backing deduplication.
type Frontier struct {
	queue      *MinQueue
	discovered Set[string]
	sequence   int
}

func NewFrontier() Frontier {
	return Frontier{
		queue:      NewMinQueue(),
		discovered: NewSet[string](),
	}
}

// Admit records the URL as discovered and enqueues it. Callers must
// check Discovered first; admitting the same URL twice would break the
// at-most-once frontier invariant.
func (f *Frontier) Admit(url string, priority int, depth int) {
	f.discovered.Add(url)
	f.queue.Enqueue(NewItem(priority, depth, f.nextSequence(), url))
}

// Discovered reports whether the URL has ever been admitted.
func (f *Frontier) Discovered(url string) bool {
	return f.discovered.Contains(url)
}

// DiscoveredCount returns how many distinct URLs have been admitted.
// It grows monotonically; nothing is ever removed.
func (f *Frontier) DiscoveredCount() int {
	return f.discovered.Size()
}

// Dequeue pops the minimum-ordered item.
func (f *Frontier) Dequeue() (Item, bool) {
	return f.queue.Dequeue()
}

// Remaining returns how many admitted URLs have not been dispatched yet.
func (f *Frontier) Remaining() int {
	return f.queue.Size()
}

func (f *Frontier) nextSequence() int {
	seq := f.sequence
	f.sequence++
	return seq
}
