package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"checkinboard/internal/models"
	"checkinboard/internal/patch"
	"checkinboard/internal/schedule"
	"checkinboard/internal/storage"
	"checkinboard/internal/timeutil"
)

// CreateGroup adds a booking with board defaults. The default slot is the
// latest slot already on the board, so consecutive adds cluster where the
// operator is working; an empty board starts at 19:00.
func (s *BoardService) CreateGroup(ctx context.Context) (models.Group, error) {
	groups, err := s.Groups(ctx)
	if err != nil {
		return models.Group{}, err
	}
	slot := defaultFirstSlot
	if len(groups) > 0 {
		slot = groups[len(groups)-1].Time
	}

	fields, err := groupFields(models.NewGroup(slot))
	if err != nil {
		return models.Group{}, err
	}

	id, err := s.store.Create(ctx, storage.Groups, fields)
	if err != nil {
		s.recordFailure(storage.Groups, "create", err)
		return models.Group{}, fmt.Errorf("create group: %w", err)
	}
	s.recordWrite(ctx, storage.Groups, "create")
	s.log.Info("group created", "group_id", id, "time", slot)

	return s.Group(ctx, id)
}

// UpdateGroup applies a sparse dotted-path patch to one booking. Paths are
// checked against the group schema and slot/package/count values are
// validated before anything is written.
func (s *BoardService) UpdateGroup(ctx context.Context, id string, p patch.Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for path, value := range p {
		if err := validateGroupField(path, value); err != nil {
			return err
		}
	}

	if err := s.store.Patch(ctx, storage.Groups, id, p); err != nil {
		s.recordFailure(storage.Groups, "patch", err)
		return fmt.Errorf("patch group %s: %w", id, err)
	}
	s.recordWrite(ctx, storage.Groups, "patch")
	return nil
}

// DeleteGroup removes one booking. The confirmation step lives in the
// client; the server sees only the final delete.
func (s *BoardService) DeleteGroup(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, storage.Groups, id); err != nil {
		s.recordFailure(storage.Groups, "delete", err)
		return fmt.Errorf("delete group %s: %w", id, err)
	}
	s.recordWrite(ctx, storage.Groups, "delete")
	s.log.Info("group deleted", "group_id", id)
	return nil
}

// ToggleStatus flips one of the five checkpoints, touching nothing else.
func (s *BoardService) ToggleStatus(ctx context.Context, id, flag string) error {
	if !models.ValidStatusFlag(flag) {
		return fmt.Errorf("%w: %q", ErrUnknownStatusFlag, flag)
	}
	g, err := s.Group(ctx, id)
	if err != nil {
		return err
	}
	return s.UpdateGroup(ctx, id, patch.Patch{"status." + flag: !g.Status.Flag(flag)})
}

// SetDietary sets the headcount for one dietary code.
func (s *BoardService) SetDietary(ctx context.Context, id, code string, count int) error {
	if !models.ValidDietaryKey(code) {
		return fmt.Errorf("%w: %q", ErrUnknownDietaryKey, code)
	}
	if count < 0 {
		return fmt.Errorf("%w: dietary.%s = %d", ErrNegativeCount, code, count)
	}
	return s.UpdateGroup(ctx, id, patch.Patch{"dietary." + code: count})
}

// SetFoodOrder sets the ordered quantity of one catalog item.
func (s *BoardService) SetFoodOrder(ctx context.Context, id, itemKey string, quantity int) error {
	if itemKey == "" {
		return fmt.Errorf("%w: food item key", ErrEmptyName)
	}
	if quantity < 0 {
		return fmt.Errorf("%w: foodOrder.%s = %d", ErrNegativeCount, itemKey, quantity)
	}
	return s.UpdateGroup(ctx, id, patch.Patch{"foodOrder." + itemKey: quantity})
}

// AssignTeamMember points a booking at a roster name. Empty unassigns.
// The name is not checked against the roster: references are weak by design.
func (s *BoardService) AssignTeamMember(ctx context.Context, id, name string) error {
	return s.UpdateGroup(ctx, id, patch.Patch{"assignedTeamMember": name})
}

// ToggleArea adds or removes an area name on a booking. The full slice is
// rewritten: the store has no array-splice primitive.
func (s *BoardService) ToggleArea(ctx context.Context, id, areaName string) error {
	if strings.TrimSpace(areaName) == "" {
		return fmt.Errorf("%w: area", ErrEmptyName)
	}
	g, err := s.Group(ctx, id)
	if err != nil {
		return err
	}

	areas := make([]string, 0, len(g.AssignedAreas)+1)
	removed := false
	for _, a := range g.AssignedAreas {
		if a == areaName {
			removed = true
			continue
		}
		areas = append(areas, a)
	}
	if !removed {
		areas = append(areas, areaName)
	}
	return s.UpdateGroup(ctx, id, patch.Patch{"assignedAreas": areas})
}

// AddActivityBlock appends a fresh block to a booking's itinerary.
func (s *BoardService) AddActivityBlock(ctx context.Context, id string) error {
	return s.editBlocks(ctx, id, func(blocks []models.ActivityBlock) ([]models.ActivityBlock, error) {
		return schedule.AddBlock(blocks), nil
	})
}

// RemoveActivityBlock deletes the block at index.
func (s *BoardService) RemoveActivityBlock(ctx context.Context, id string, index int) error {
	return s.editBlocks(ctx, id, func(blocks []models.ActivityBlock) ([]models.ActivityBlock, error) {
		return schedule.RemoveBlock(blocks, index)
	})
}

// SetBlockDuration changes the duration of the block at index.
func (s *BoardService) SetBlockDuration(ctx context.Context, id string, index, minutes int) error {
	return s.editBlocks(ctx, id, func(blocks []models.ActivityBlock) ([]models.ActivityBlock, error) {
		return schedule.SetDuration(blocks, index, minutes)
	})
}

// AddActivityToBlock books an activity into the block at index, subject to
// the group-wide uniqueness rule.
func (s *BoardService) AddActivityToBlock(ctx context.Context, id string, index int, name string) error {
	return s.editBlocks(ctx, id, func(blocks []models.ActivityBlock) ([]models.ActivityBlock, error) {
		return schedule.AddActivity(blocks, index, name)
	})
}

// RemoveActivityFromBlock unbooks an activity from the block at index.
func (s *BoardService) RemoveActivityFromBlock(ctx context.Context, id string, index int, name string) error {
	return s.editBlocks(ctx, id, func(blocks []models.ActivityBlock) ([]models.ActivityBlock, error) {
		return schedule.RemoveActivity(blocks, index, name)
	})
}

// ReorderBlockActivities moves an activity within the block at index from
// one position to another, a drag-and-drop within one block's list.
func (s *BoardService) ReorderBlockActivities(ctx context.Context, id string, index, from, to int) error {
	return s.editBlocks(ctx, id, func(blocks []models.ActivityBlock) ([]models.ActivityBlock, error) {
		return schedule.ReorderActivities(blocks, index, from, to)
	})
}

// editBlocks is the read-modify-write cycle every itinerary edit goes
// through: load the group, migrate any legacy flat itinerary, apply the
// edit, and persist the whole sequence as one field write. Two concurrent
// itinerary edits race on the whole array; accepted for a board operated by
// one person at a time.
func (s *BoardService) editBlocks(ctx context.Context, id string, edit func([]models.ActivityBlock) ([]models.ActivityBlock, error)) error {
	g, err := s.Group(ctx, id)
	if err != nil {
		return err
	}

	blocks, err := edit(g.ActivityBlocks)
	if err != nil {
		return err
	}

	p := patch.Patch{"activityBlocks": blocks}
	if len(g.Activities) > 0 {
		// First block edit of a legacy group retires the flat field.
		p["activities"] = []string{}
	}
	return s.UpdateGroup(ctx, id, p)
}

// groupFields flattens a Group into the document field map the store takes.
func groupFields(g models.Group) (map[string]any, error) {
	raw, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("encode group: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode group fields: %w", err)
	}
	// The id lives in the row key, not the document; createdAt is stamped
	// by the store on insert.
	delete(fields, "id")
	delete(fields, "createdAt")
	return fields, nil
}

// validateGroupField checks one patch path and value against the group
// schema. Unknown top-level fields and malformed nested paths are rejected;
// value checks cover the fields with constrained domains.
func validateGroupField(path string, value any) error {
	head, rest, nested := strings.Cut(path, ".")

	if nested {
		switch head {
		case "status":
			if !models.ValidStatusFlag(rest) {
				return fmt.Errorf("%w: %q", ErrUnknownStatusFlag, rest)
			}
			if _, ok := value.(bool); !ok {
				return fmt.Errorf("%w: %s must be a boolean", ErrFieldNotPatchable, path)
			}
		case "dietary":
			if !models.ValidDietaryKey(rest) {
				return fmt.Errorf("%w: %q", ErrUnknownDietaryKey, rest)
			}
			if n, ok := asNonNegativeInt(value); !ok || n < 0 {
				return fmt.Errorf("%w: %s", ErrNegativeCount, path)
			}
		case "foodOrder":
			if rest == "" {
				return fmt.Errorf("%w: %s", ErrFieldNotPatchable, path)
			}
			if n, ok := asNonNegativeInt(value); !ok || n < 0 {
				return fmt.Errorf("%w: %s", ErrNegativeCount, path)
			}
		default:
			return fmt.Errorf("%w: %s", ErrFieldNotPatchable, path)
		}
		return nil
	}

	switch head {
	case "teamName", "notes", "assignedTeamMember":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: %s must be a string", ErrFieldNotPatchable, path)
		}
	case "time":
		slot, ok := value.(string)
		if !ok || !timeutil.ValidSlot(slot) {
			return fmt.Errorf("%w: %v", ErrInvalidTimeSlot, value)
		}
	case "teamSize":
		if n, ok := asNonNegativeInt(value); !ok || n < 0 {
			return fmt.Errorf("%w: teamSize", ErrNegativeCount)
		}
	case "package":
		pkg, ok := value.(string)
		if !ok || !models.ValidPackage(pkg) {
			return fmt.Errorf("%w: %v", ErrInvalidPackage, value)
		}
	case "status", "dietary", "foodOrder", "assignedAreas", "activityBlocks", "activities":
		// Whole-object writes of known fields pass through; the client owns
		// the read-modify-write for array-shaped values.
	default:
		return fmt.Errorf("%w: %s", ErrFieldNotPatchable, path)
	}
	return nil
}

// asNonNegativeInt accepts the int and float64 shapes a JSON decode or a
// direct caller can produce.
func asNonNegativeInt(value any) (int, bool) {
	switch n := value.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
