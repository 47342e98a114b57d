package state

import "sync"

// OrderJob is a unit of post-checkout processing work.
type OrderJob struct {
	OrderID int64  `json:"id"`
	UserID  int64  `json:"user_id"`
	Total   int64  `json:"total"`
	Status  string `json:"status"`
}

// OrderQueue is a strict FIFO queue of pending order jobs shared by every
// checkout. Dequeue is atomic: two concurrent callers can never receive
// the same job. Once dequeued a job belongs exclusively to its caller and
// is never requeued.
type OrderQueue struct {
	mu   sync.Mutex
	jobs []OrderJob
}

// NewOrderQueue creates an empty queue.
func NewOrderQueue() *OrderQueue {
	return &OrderQueue{}
}

// Enqueue appends a job to the back of the queue.
func (q *OrderQueue) Enqueue(job OrderJob) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
}

// Dequeue removes and returns the oldest job. The second return value is
// false when the queue is empty.
func (q *OrderQueue) Dequeue() (OrderJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return OrderJob{}, false
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, true
}

// Peek returns the oldest job without removing it.
func (q *OrderQueue) Peek() (OrderJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.jobs) == 0 {
		return OrderJob{}, false
	}
	return q.jobs[0], true
}

// Len returns the number of pending jobs.
func (q *OrderQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
