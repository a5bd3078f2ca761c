// Package schedule edits a group's activity itinerary.
//
// The itinerary is an ordered sequence of timed blocks, each holding a
// duration and a set of activity names. Every operation returns a fresh
// slice: the caller persists the result wholesale as a single field write,
// because the store has no array-splice primitive.
//
// One invariant spans the whole itinerary: an activity name appears at most
// once across all blocks of a group, not merely once per block.
package schedule

import (
	"errors"
	"fmt"
	"strings"

	"checkinboard/internal/models"
	"checkinboard/internal/timeutil"
)

const defaultBlockDuration = 60

var (
	// ErrIndexOutOfRange is returned for block indices outside the sequence.
	ErrIndexOutOfRange = errors.New("block index out of range")

	// ErrBadDuration is returned for durations outside 15..240 in 15-minute steps.
	ErrBadDuration = errors.New("duration must be 15-240 minutes in 15-minute steps")

	// ErrUnknownActivity is returned for names outside the activity catalog.
	ErrUnknownActivity = errors.New("unknown activity")

	// ErrDuplicateActivity is returned when an activity is already booked in
	// any block of the group.
	ErrDuplicateActivity = errors.New("activity already booked in this group")

	// ErrActivityNotInBlock is returned when removing a name a block lacks.
	ErrActivityNotInBlock = errors.New("activity not in block")
)

// AddBlock appends a fresh one-hour block with no activities.
func AddBlock(blocks []models.ActivityBlock) []models.ActivityBlock {
	out := cloneBlocks(blocks)
	return append(out, models.ActivityBlock{
		Duration:   defaultBlockDuration,
		Activities: []string{},
	})
}

// RemoveBlock deletes the block at index, compacting the sequence.
func RemoveBlock(blocks []models.ActivityBlock, index int) ([]models.ActivityBlock, error) {
	if index < 0 || index >= len(blocks) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	out := make([]models.ActivityBlock, 0, len(blocks)-1)
	for i, b := range blocks {
		if i == index {
			continue
		}
		out = append(out, cloneBlock(b))
	}
	return out, nil
}

// SetDuration replaces the duration of the block at index.
func SetDuration(blocks []models.ActivityBlock, index, minutes int) ([]models.ActivityBlock, error) {
	if index < 0 || index >= len(blocks) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if !timeutil.ValidSessionLength(minutes) {
		return nil, fmt.Errorf("%w: %d", ErrBadDuration, minutes)
	}
	out := cloneBlocks(blocks)
	out[index].Duration = minutes
	return out, nil
}

// AddActivity books an activity into the block at index. The name must come
// from the catalog and must not already be booked anywhere in the group.
func AddActivity(blocks []models.ActivityBlock, index int, name string) ([]models.ActivityBlock, error) {
	if index < 0 || index >= len(blocks) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if !models.ValidActivity(name) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivity, name)
	}
	for _, used := range UsedActivities(blocks) {
		if used == name {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateActivity, name)
		}
	}
	out := cloneBlocks(blocks)
	out[index].Activities = append(out[index].Activities, name)
	return out, nil
}

// RemoveActivity unbooks an activity from the block at index only.
func RemoveActivity(blocks []models.ActivityBlock, index int, name string) ([]models.ActivityBlock, error) {
	if index < 0 || index >= len(blocks) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	found := false
	for _, a := range blocks[index].Activities {
		if a == name {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrActivityNotInBlock, name)
	}
	out := cloneBlocks(blocks)
	kept := make([]string, 0, len(out[index].Activities)-1)
	for _, a := range out[index].Activities {
		if a != name {
			kept = append(kept, a)
		}
	}
	out[index].Activities = kept
	return out, nil
}

// UsedActivities returns every activity booked across the blocks, in order.
func UsedActivities(blocks []models.ActivityBlock) []string {
	var used []string
	for _, b := range blocks {
		used = append(used, b.Activities...)
	}
	return used
}

// AvailableActivities returns the catalog minus everything already booked.
// This is what the add-activity picker offers, which is how cross-block
// uniqueness is presented to the operator before it is enforced.
func AvailableActivities(blocks []models.ActivityBlock) []string {
	used := make(map[string]bool)
	for _, a := range UsedActivities(blocks) {
		used[a] = true
	}
	available := make([]string, 0, len(models.ActivityCatalog))
	for _, a := range models.ActivityCatalog {
		if !used[a] {
			available = append(available, a)
		}
	}
	return available
}

// Summary renders the itinerary for a card: each block as its duration and
// activities, blocks joined by an arrow.
func Summary(blocks []models.ActivityBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		label := timeutil.FormatDuration(b.Duration)
		acts := strings.Join(b.Activities, " + ")
		switch {
		case label != "" && acts != "":
			parts = append(parts, label+" "+acts)
		case label != "":
			parts = append(parts, label)
		default:
			parts = append(parts, acts)
		}
	}
	return strings.Join(parts, " → ")
}

// Reorder moves the element at from to position to, preserving the relative
// order of everything else: a pick-up at from and a drop at to. Out-of-range
// indices and from == to both return an unchanged copy, so a drop with no
// prior drag and a drop on the original position are safe no-ops.
func Reorder(list []string, from, to int) []string {
	out := make([]string, len(list))
	copy(out, list)
	if from == to || from < 0 || from >= len(list) || to < 0 || to >= len(list) {
		return out
	}
	item := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]string{item}, out[to:]...)...)
	return out
}

// ReorderActivities moves an activity within the block at index from one
// position to another, leaving every other block untouched.
func ReorderActivities(blocks []models.ActivityBlock, index, from, to int) ([]models.ActivityBlock, error) {
	if index < 0 || index >= len(blocks) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	out := cloneBlocks(blocks)
	out[index].Activities = Reorder(out[index].Activities, from, to)
	return out, nil
}

// MigrateLegacyActivities lifts a flat pre-blocks itinerary into the block
// shape: one default-length block holding the list, order preserved and
// duplicates dropped. An empty list migrates to an empty itinerary.
func MigrateLegacyActivities(flat []string) []models.ActivityBlock {
	if len(flat) == 0 {
		return []models.ActivityBlock{}
	}
	seen := make(map[string]bool, len(flat))
	activities := make([]string, 0, len(flat))
	for _, a := range flat {
		if seen[a] {
			continue
		}
		seen[a] = true
		activities = append(activities, a)
	}
	return []models.ActivityBlock{{
		Duration:   defaultBlockDuration,
		Activities: activities,
	}}
}

func cloneBlocks(blocks []models.ActivityBlock) []models.ActivityBlock {
	out := make([]models.ActivityBlock, len(blocks))
	for i, b := range blocks {
		out[i] = cloneBlock(b)
	}
	return out
}

func cloneBlock(b models.ActivityBlock) models.ActivityBlock {
	activities := make([]string, len(b.Activities))
	copy(activities, b.Activities)
	return models.ActivityBlock{Duration: b.Duration, Activities: activities}
}
