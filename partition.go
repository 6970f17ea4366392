package roadrunner

import (
	"fmt"
)

// Range is a contiguous slice of the document keyspace, assigned to
// exactly one client handler or worker. Ranges are computed once at
// dispatch-init time and never change.
type Range struct {
	Offset int64
	Count  int64
}

// Partition divides total documents into slots contiguous, disjoint ranges
// of floor(total/slots) documents with sequential offsets.
//
// When total is not evenly divisible, the trailing total mod slots
// documents are not assigned to any range. This mirrors the dispatcher's
// historical floor-division scheme; callers that need the remainder
// covered must size total as a multiple of the slot count.
func Partition(total, slots int64) ([]Range, error) {
	if slots < 1 {
		return nil, fmt.Errorf("%w: %d slots", ErrDegeneratePartition, slots)
	}
	if total < slots {
		return nil, fmt.Errorf("%w: %d documents over %d slots",
			ErrDegeneratePartition, total, slots)
	}
	perSlot := total / slots
	ranges := make([]Range, 0, slots)
	offset := int64(0)
	for i := int64(0); i < slots; i++ {
		ranges = append(ranges, Range{
			Offset: offset,
			Count:  perSlot,
		})
		offset += perSlot
	}
	return ranges, nil
}
