package systems

import (
	"context"
	"sort"
)

// System is a per-tick processor run by the world in priority order.
type System interface {
	Name() string
	Priority() Priority

	// Update advances the system by deltaTime seconds. It must finish all
	// writes before returning; readers run after it within the same tick.
	Update(ctx context.Context, deltaTime float64) error
}

// Priority defines execution order. Higher runs first.
type Priority uint16

const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// Sort orders systems by descending priority, keeping registration order
// for equal priorities.
func Sort(list []System) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Priority() > list[j].Priority()
	})
}
