package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingBufferOverwritesOldest(t *testing.T) {
	rb := NewRingBuffer[int](3)
	for i := 1; i <= 5; i++ {
		rb.Append(i)
	}

	assert.True(t, rb.IsFull())
	assert.Equal(t, 3, rb.Size())
	assert.Equal(t, []int{3, 4, 5}, rb.GetAll())
	assert.Equal(t, []int{4, 5}, rb.GetLatest(2))
	assert.Equal(t, []int{3, 4, 5}, rb.GetLatest(10))
}

func TestRingBufferEmpty(t *testing.T) {
	rb := NewRingBuffer[string](0)
	assert.Equal(t, defaultRingCapacity, rb.Capacity())
	assert.Empty(t, rb.GetAll())
	assert.Empty(t, rb.GetLatest(-1))
}

func TestRingBufferRetain(t *testing.T) {
	rb := NewRingBuffer[int](4)
	for i := 1; i <= 6; i++ {
		rb.Append(i)
	}

	removed := rb.Retain(func(v int) bool { return v%2 == 0 })

	assert.Equal(t, 2, removed)
	assert.Equal(t, []int{4, 6}, rb.GetAll())

	rb.Append(8)
	assert.Equal(t, []int{4, 6, 8}, rb.GetAll())
}
