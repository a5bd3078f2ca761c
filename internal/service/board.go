// Package service holds the board's operations: everything between the HTTP
// layer and the document store. Writes are fire-and-forget from the client's
// point of view: a failed write is logged and counted, never retried; the
// next snapshot push corrects any optimistic local state.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"checkinboard/internal/live"
	"checkinboard/internal/metrics"
	"checkinboard/internal/models"
	"checkinboard/internal/schedule"
	"checkinboard/internal/stats"
	"checkinboard/internal/storage"
	"checkinboard/internal/timeutil"
)

var (
	// ErrInvalidTimeSlot is returned for times outside the 96 quantized slots.
	ErrInvalidTimeSlot = errors.New("time must be a 15-minute slot between 00:00 and 23:45")

	// ErrInvalidPackage is returned for unknown package tiers.
	ErrInvalidPackage = errors.New("unknown package")

	// ErrUnknownStatusFlag is returned for status flags outside the five checkpoints.
	ErrUnknownStatusFlag = errors.New("unknown status flag")

	// ErrUnknownDietaryKey is returned for dietary codes outside the five tracked ones.
	ErrUnknownDietaryKey = errors.New("unknown dietary key")

	// ErrNegativeCount is returned for negative sizes or counts.
	ErrNegativeCount = errors.New("count must not be negative")

	// ErrEmptyName is returned when a roster or area name is blank.
	ErrEmptyName = errors.New("name must not be empty")

	// ErrFieldNotPatchable is returned for patch paths outside the group schema.
	ErrFieldNotPatchable = errors.New("field cannot be patched")
)

// defaultFirstSlot seeds the time of the first group on an empty board.
const defaultFirstSlot = "19:00"

// BoardService implements the check-in board's operations over a document
// store, broadcasting a fresh collection snapshot after every write.
type BoardService struct {
	store       storage.Store
	broadcaster *live.Broadcaster
	log         *slog.Logger

	clearTTL time.Duration
	clearMu  sync.Mutex
	clear    *armedClear
}

// New creates a BoardService. clearTTL bounds how long an armed bulk clear
// stays confirmable.
func New(store storage.Store, broadcaster *live.Broadcaster, clearTTL time.Duration, log *slog.Logger) *BoardService {
	return &BoardService{
		store:       store,
		broadcaster: broadcaster,
		log:         log,
		clearTTL:    clearTTL,
	}
}

// Groups returns every booking, sorted by slot then creation time. Groups
// still carrying the legacy flat itinerary are presented in block form.
func (s *BoardService) Groups(ctx context.Context) ([]models.Group, error) {
	docs, err := s.store.List(ctx, storage.Groups)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	groups := make([]models.Group, 0, len(docs))
	for _, doc := range docs {
		g, err := models.DecodeGroup(doc.ID, doc.Data)
		if err != nil {
			// A malformed document must not take the board down.
			s.log.Warn("skipping malformed group document", "id", doc.ID, "error", err)
			continue
		}
		if len(g.ActivityBlocks) == 0 && len(g.Activities) > 0 {
			g.ActivityBlocks = schedule.MigrateLegacyActivities(g.Activities)
		}
		groups = append(groups, g)
	}
	models.SortGroups(groups)
	return groups, nil
}

// Group returns one booking by id.
func (s *BoardService) Group(ctx context.Context, id string) (models.Group, error) {
	doc, err := s.store.Get(ctx, storage.Groups, id)
	if err != nil {
		return models.Group{}, err
	}
	g, err := models.DecodeGroup(doc.ID, doc.Data)
	if err != nil {
		return models.Group{}, err
	}
	if len(g.ActivityBlocks) == 0 && len(g.Activities) > 0 {
		g.ActivityBlocks = schedule.MigrateLegacyActivities(g.Activities)
	}
	return g, nil
}

// TeamMembers returns the staff roster.
func (s *BoardService) TeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	docs, err := s.store.List(ctx, storage.TeamMembers)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	members := make([]models.TeamMember, 0, len(docs))
	for _, doc := range docs {
		m, err := models.DecodeTeamMember(doc.ID, doc.Data)
		if err != nil {
			s.log.Warn("skipping malformed team member document", "id", doc.ID, "error", err)
			continue
		}
		members = append(members, m)
	}
	return members, nil
}

// Areas returns the venue areas.
func (s *BoardService) Areas(ctx context.Context) ([]models.Area, error) {
	docs, err := s.store.List(ctx, storage.Areas)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	areas := make([]models.Area, 0, len(docs))
	for _, doc := range docs {
		a, err := models.DecodeArea(doc.ID, doc.Data)
		if err != nil {
			s.log.Warn("skipping malformed area document", "id", doc.ID, "error", err)
			continue
		}
		areas = append(areas, a)
	}
	return areas, nil
}

// Catalog returns the kitchen's food item buckets. Only the fixed "pizzas"
// and "snacks" documents are read; any other document id is ignored.
func (s *BoardService) Catalog(ctx context.Context) (models.FoodCatalog, error) {
	docs, err := s.store.List(ctx, storage.FoodItems)
	if err != nil {
		return models.FoodCatalog{}, fmt.Errorf("list food items: %w", err)
	}

	catalog := models.FoodCatalog{
		Pizzas: map[string]models.FoodItem{},
		Snacks: map[string]models.FoodItem{},
	}
	for _, doc := range docs {
		var bucket map[string]models.FoodItem
		switch doc.ID {
		case models.CatalogPizzas:
			bucket = catalog.Pizzas
		case models.CatalogSnacks:
			bucket = catalog.Snacks
		default:
			continue
		}
		for key, meta := range doc.Data {
			item, ok := meta.(map[string]any)
			if !ok {
				continue
			}
			bucket[key] = models.FoodItem(item)
		}
	}
	return catalog, nil
}

// EnsureCatalog seeds the default kitchen menu on a fresh store. Existing
// catalog documents are left alone.
func (s *BoardService) EnsureCatalog(ctx context.Context) error {
	defaults := models.DefaultFoodCatalog()
	buckets := map[string]map[string]models.FoodItem{
		models.CatalogPizzas: defaults.Pizzas,
		models.CatalogSnacks: defaults.Snacks,
	}
	for id, items := range buckets {
		_, err := s.store.Get(ctx, storage.FoodItems, id)
		if err == nil {
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("check catalog %s: %w", id, err)
		}
		fields := make(map[string]any, len(items))
		for key, meta := range items {
			fields[key] = map[string]any(meta)
		}
		if err := s.store.Put(ctx, storage.FoodItems, id, fields); err != nil {
			return fmt.Errorf("seed catalog %s: %w", id, err)
		}
		s.log.Info("seeded food catalog", "bucket", id, "items", len(items))
	}
	return nil
}

// DailyStats recomputes the header totals from the full group list.
func (s *BoardService) DailyStats(ctx context.Context) (stats.Summary, error) {
	groups, err := s.Groups(ctx)
	if err != nil {
		return stats.Summary{}, err
	}
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.Compute(groups, catalog), nil
}

// recordWrite bumps metrics and pushes a fresh snapshot after a successful
// write to a collection.
func (s *BoardService) recordWrite(ctx context.Context, c storage.Collection, op string) {
	metrics.WritesTotal.WithLabelValues(string(c), op).Inc()
	s.broadcaster.Changed(ctx, c)
}

// recordFailure bumps the failure counter and logs the dropped write.
func (s *BoardService) recordFailure(c storage.Collection, op string, err error) {
	metrics.WriteFailures.WithLabelValues(string(c), op).Inc()
	s.log.Error("write failed", "collection", c, "op", op, "error", err)
}

// Clock returns the current 12-hour board clock reading.
func (s *BoardService) Clock() timeutil.Clock {
	return timeutil.FormatCurrentTime(time.Now())
}
