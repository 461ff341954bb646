package conv

import (
	"fmt"
	"math"
)

// SlotToUint32 converts a neuron slot to a 32-bit bitmap key.
func SlotToUint32(slot int) (uint32, error) {
	if slot < 0 {
		return 0, fmt.Errorf("slot %d is negative", slot)
	}
	if uint64(slot) > math.MaxUint32 {
		return 0, fmt.Errorf("slot %d does not fit a 32-bit bitmap", slot)
	}
	return uint32(slot), nil
}

// Uint32ToSlot converts a 32-bit bitmap key back to a neuron slot.
func Uint32ToSlot(v uint32) (int, error) {
	if uint64(v) > uint64(math.MaxInt) {
		return 0, fmt.Errorf("key %d does not fit int", v)
	}
	return int(v), nil
}

// RecordToUint64 converts a record index to a 64-bit bitmap key.
func RecordToUint64(index int64) (uint64, error) {
	if index < 0 {
		return 0, fmt.Errorf("record index %d is negative", index)
	}
	return uint64(index), nil
}
