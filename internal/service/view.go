package service

import (
	"context"

	"checkinboard/internal/models"
	"checkinboard/internal/schedule"
	"checkinboard/internal/stats"
	"checkinboard/internal/timeutil"
)

// GroupView is one booking plus everything its card derives on read:
// formatted times, the itinerary summary, per-group food numbers, and the
// completion highlight. None of it is stored.
type GroupView struct {
	models.Group

	StartDisplay    string          `json:"startDisplay"`
	EndTime         string          `json:"endTime"`
	EndDisplay      string          `json:"endDisplay"`
	ActivitySummary string          `json:"activitySummary"`
	DietarySummary  string          `json:"dietarySummary"`
	Food            stats.GroupFood `json:"food"`
	FullyComplete   bool            `json:"fullyComplete"`

	// AvailableActivities is what the add-activity picker may offer:
	// the catalog minus everything already booked in this group.
	AvailableActivities []string `json:"availableActivities"`
}

// BoardView is the whole board in one response: sorted group cards, the
// daily totals, the roster, the areas, the catalog, the clock, and the
// picker option lists so clients never hard-code the slot grid.
type BoardView struct {
	Groups      []GroupView         `json:"groups"`
	Stats       stats.Summary       `json:"stats"`
	TeamMembers []models.TeamMember `json:"teamMembers"`
	Areas       []models.Area       `json:"areas"`
	Catalog     models.FoodCatalog  `json:"foodItems"`
	Clock       timeutil.Clock      `json:"clock"`

	TimeOptions    []string `json:"timeOptions"`
	SessionLengths []int    `json:"sessionLengths"`
}

// Board assembles the full board view from the current store state.
func (s *BoardService) Board(ctx context.Context) (BoardView, error) {
	groups, err := s.Groups(ctx)
	if err != nil {
		return BoardView{}, err
	}
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return BoardView{}, err
	}
	members, err := s.TeamMembers(ctx)
	if err != nil {
		return BoardView{}, err
	}
	areas, err := s.Areas(ctx)
	if err != nil {
		return BoardView{}, err
	}

	views := make([]GroupView, len(groups))
	for i, g := range groups {
		views[i] = newGroupView(g, catalog)
	}

	return BoardView{
		Groups:         views,
		Stats:          stats.Compute(groups, catalog),
		TeamMembers:    members,
		Areas:          areas,
		Catalog:        catalog,
		Clock:          s.Clock(),
		TimeOptions:    timeutil.TimeOptions(),
		SessionLengths: timeutil.SessionLengths(),
	}, nil
}

func newGroupView(g models.Group, catalog models.FoodCatalog) GroupView {
	endTime := timeutil.CalculateEndTime(g.Time, g.ActivityBlocks)
	return GroupView{
		Group:               g,
		StartDisplay:        timeutil.FormatTime(g.Time),
		EndTime:             endTime,
		EndDisplay:          timeutil.FormatTime(endTime),
		ActivitySummary:     schedule.Summary(g.ActivityBlocks),
		DietarySummary:      g.DietarySummary(),
		Food:                stats.ComputeGroup(g, catalog),
		FullyComplete:       g.Status.FullyComplete(),
		AvailableActivities: schedule.AvailableActivities(g.ActivityBlocks),
	}
}
