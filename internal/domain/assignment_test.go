package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstFitPolicy_Place(t *testing.T) {
	targets := []SlotSet{
		{TargetID: 7, Free: []int{3, 4}},
		{TargetID: 9, Free: []int{1, 2, 5}},
	}

	got, err := FirstFitPolicy{}.Place([]uint{100, 101, 102}, targets)
	require.NoError(t, err)
	assert.Equal(t, []Placement{
		{PilgrimID: 100, TargetID: 7, Slot: 3},
		{PilgrimID: 101, TargetID: 7, Slot: 4},
		{PilgrimID: 102, TargetID: 9, Slot: 1},
	}, got)
}

func TestFirstFitPolicy_InsufficientCapacity(t *testing.T) {
	_, err := FirstFitPolicy{}.Place([]uint{1, 2, 3}, []SlotSet{{TargetID: 1, Free: []int{1}}, {TargetID: 2}})
	assert.ErrorIs(t, err, ErrInsufficientCapacity)
}

func TestFirstFitPolicy_ExactFit(t *testing.T) {
	got, err := FirstFitPolicy{}.Place([]uint{1, 2}, []SlotSet{{TargetID: 1, Free: []int{8}}, {TargetID: 2, Free: []int{1}}})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, uint(2), got[1].TargetID)
}

func TestNormalizeIDs(t *testing.T) {
	assert.Nil(t, NormalizeIDs(nil))
	assert.NotNil(t, NormalizeIDs([]uint{}))
	assert.Empty(t, NormalizeIDs([]uint{}))
	assert.Equal(t, []uint{3, 1, 2}, NormalizeIDs([]uint{3, 1, 3, 2, 1}))
}

func TestSeatOrdinals(t *testing.T) {
	assert.Equal(t, []int{3, 4, 5}, SeatOrdinals(5, 2))
	assert.Nil(t, SeatOrdinals(5, 5))
	assert.Nil(t, SeatOrdinals(2, 4))
}
