package relayer

import "sync"

// deliveryQueue is an unbounded FIFO drained by its own goroutine. push never
// blocks, which keeps the transport's frame path independent of listener
// speed while preserving arrival order for one subscription.
type deliveryQueue struct {
	mu      sync.Mutex
	items   []pushData
	signal  chan struct{}
	done    chan struct{}
	stopped sync.Once
}

func newDeliveryQueue(deliver func(pushData)) *deliveryQueue {
	q := &deliveryQueue{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	go q.run(deliver)
	return q
}

func (q *deliveryQueue) push(p pushData) {
	q.mu.Lock()
	q.items = append(q.items, p)
	q.mu.Unlock()

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// stop ends the goroutine. Queued items that were not delivered yet are
// discarded.
func (q *deliveryQueue) stop() {
	q.stopped.Do(func() { close(q.done) })
}

func (q *deliveryQueue) run(deliver func(pushData)) {
	for {
		select {
		case <-q.done:
			return
		case <-q.signal:
		}

		for {
			q.mu.Lock()
			if len(q.items) == 0 {
				q.mu.Unlock()
				break
			}
			p := q.items[0]
			q.items[0] = pushData{}
			q.items = q.items[1:]
			q.mu.Unlock()

			select {
			case <-q.done:
				return
			default:
			}
			deliver(p)
		}
	}
}
