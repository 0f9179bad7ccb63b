package fixed

import "fmt"

// RingBuffer keeps the most recent capacity points, overwriting the oldest on overflow.
type RingBuffer struct {
	buffer   []Point
	capacity int
	size     int
	tail     int
}

func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		panic("capacity must be positive")
	}
	return &RingBuffer{
		buffer:   make([]Point, capacity),
		capacity: capacity,
	}
}

func (r *RingBuffer) Size() int {
	return r.size
}

func (r *RingBuffer) Capacity() int {
	return r.capacity
}

func (r *RingBuffer) IsFull() bool {
	return r.size == r.capacity
}

func (r *RingBuffer) Add(p Point) {
	r.buffer[r.tail] = p
	r.tail = (r.tail + 1) % r.capacity

	if r.size < r.capacity {
		r.size++
	}
}

// Get returns the idx-th most recent point, idx 0 being the latest.
func (r *RingBuffer) Get(idx int) Point {
	if idx < 0 || idx >= r.size {
		panic(fmt.Sprintf("index %d out of range [0, %d)", idx, r.size))
	}

	actualIdx := r.tail - 1 - idx
	if actualIdx < 0 {
		actualIdx += r.capacity
	}
	return r.buffer[actualIdx]
}

func (r *RingBuffer) Latest() Point {
	if r.size == 0 {
		panic("buffer is empty")
	}
	return r.Get(0)
}

func (r *RingBuffer) Sum() Point {
	sum := Zero
	for i := 0; i < r.size; i++ {
		sum = sum.Add(r.Get(i))
	}
	return sum
}

func (r *RingBuffer) Mean() Point {
	if r.size == 0 {
		return Zero
	}
	return r.Sum().DivInt(r.size)
}

// MeanLatest averages the n most recent points, or all of them if fewer are held.
func (r *RingBuffer) MeanLatest(n int) Point {
	if n <= 0 || r.size == 0 {
		return Zero
	}
	if n > r.size {
		n = r.size
	}
	sum := Zero
	for i := 0; i < n; i++ {
		sum = sum.Add(r.Get(i))
	}
	return sum.DivInt(n)
}

func (r *RingBuffer) ToSliceFifo() []Point {
	if r.size == 0 {
		return nil
	}

	result := make([]Point, r.size)
	for i := 0; i < r.size; i++ {
		result[i] = r.Get(r.size - 1 - i)
	}
	return result
}
