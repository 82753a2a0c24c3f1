package policy

import (
	"github.com/eapache/queue"

	"github.com/xraph/pace/work"
)

// fifo is a typed FIFO of work items over a ring-buffer queue.
// Not safe for concurrent use; callers hold the policy mutex.
type fifo struct {
	q *queue.Queue
}

func newFIFO() *fifo {
	return &fifo{q: queue.New()}
}

func (f *fifo) push(item *work.Item) {
	f.q.Add(item)
}

// pop removes and returns the queue head, or nil if empty.
func (f *fifo) pop() *work.Item {
	if f.q.Length() == 0 {
		return nil
	}

	return f.q.Remove().(*work.Item)
}

func (f *fifo) len() int {
	return f.q.Length()
}
