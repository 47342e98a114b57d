package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFO(t *testing.T) {
	q := NewOrderQueue()

	q.Enqueue(OrderJob{OrderID: 1, Total: 100, Status: "pending"})
	q.Enqueue(OrderJob{OrderID: 2, Total: 200, Status: "pending"})
	assert.Equal(t, 2, q.Len())

	head, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, int64(1), head.OrderID)

	first, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, int64(1), first.OrderID)

	second, ok := q.Dequeue()
	require.True(t, ok)
	assert.Equal(t, int64(2), second.OrderID)

	_, ok = q.Dequeue()
	assert.False(t, ok)
	_, ok = q.Peek()
	assert.False(t, ok)
}

func TestQueueConcurrentDequeueSingleWinner(t *testing.T) {
	q := NewOrderQueue()
	q.Enqueue(OrderJob{OrderID: 42, Total: 500, Status: "pending"})

	const workers = 8
	var wg sync.WaitGroup
	wins := make(chan OrderJob, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if job, ok := q.Dequeue(); ok {
				wins <- job
			}
		}()
	}
	wg.Wait()
	close(wins)

	var got []OrderJob
	for job := range wins {
		got = append(got, job)
	}
	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].OrderID)
	assert.Equal(t, 0, q.Len())
}
