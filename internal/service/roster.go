package service

import (
	"context"
	"fmt"
	"strings"

	"checkinboard/internal/models"
	"checkinboard/internal/storage"
)

// AddTeamMember adds a roster entry. Names are trimmed; blank names are
// rejected rather than silently dropped.
func (s *BoardService) AddTeamMember(ctx context.Context, name string) (models.TeamMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.TeamMember{}, fmt.Errorf("%w: team member", ErrEmptyName)
	}

	id, err := s.store.Create(ctx, storage.TeamMembers, map[string]any{"name": name})
	if err != nil {
		s.recordFailure(storage.TeamMembers, "create", err)
		return models.TeamMember{}, fmt.Errorf("create team member: %w", err)
	}
	s.recordWrite(ctx, storage.TeamMembers, "create")
	s.log.Info("team member added", "member_id", id, "name", name)

	return models.TeamMember{ID: id, Name: name}, nil
}

// DeleteTeamMember removes a roster entry. Groups assigned to this member
// keep the dangling name on purpose: nothing cascades.
func (s *BoardService) DeleteTeamMember(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, storage.TeamMembers, id); err != nil {
		s.recordFailure(storage.TeamMembers, "delete", err)
		return fmt.Errorf("delete team member %s: %w", id, err)
	}
	s.recordWrite(ctx, storage.TeamMembers, "delete")
	s.log.Info("team member deleted", "member_id", id)
	return nil
}

// AddArea adds a venue area.
func (s *BoardService) AddArea(ctx context.Context, name string) (models.Area, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Area{}, fmt.Errorf("%w: area", ErrEmptyName)
	}

	id, err := s.store.Create(ctx, storage.Areas, map[string]any{"name": name})
	if err != nil {
		s.recordFailure(storage.Areas, "create", err)
		return models.Area{}, fmt.Errorf("create area: %w", err)
	}
	s.recordWrite(ctx, storage.Areas, "create")
	s.log.Info("area added", "area_id", id, "name", name)

	return models.Area{ID: id, Name: name}, nil
}

// DeleteArea removes a venue area, with the same no-cascade rule as the
// roster: groups keep whatever area names they hold.
func (s *BoardService) DeleteArea(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, storage.Areas, id); err != nil {
		s.recordFailure(storage.Areas, "delete", err)
		return fmt.Errorf("delete area %s: %w", id, err)
	}
	s.recordWrite(ctx, storage.Areas, "delete")
	s.log.Info("area deleted", "area_id", id)
	return nil
}
