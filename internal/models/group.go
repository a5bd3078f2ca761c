package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Package tiers. Food visibility on the board is gated on these.
const (
	PackageNone      = "None"
	PackageFood      = "Food"
	PackageFoodDrink = "Food & Drink"
)

// PackageOptions lists the selectable package tiers, in display order.
var PackageOptions = []string{PackageNone, PackageFood, PackageFoodDrink}

// ActivityCatalog is the fixed set of bookable activities.
var ActivityCatalog = []string{"Ping Pong", "Darts", "Shuffleboard", "Cornhole", "Escape Rooms"}

// DietaryKeys are the five tracked dietary requirement codes.
var DietaryKeys = []string{"gf", "df", "ve", "vg", "nt"}

// DietaryLabels maps dietary codes to their display labels.
var DietaryLabels = map[string]string{
	"gf": "GF", "df": "DF", "ve": "VE", "vg": "VG", "nt": "NT",
}

// StatusFlags are the five operational checkpoints, in board order.
var StatusFlags = []string{"brief", "chkd", "food", "paid", "done"}

// Status holds the five independent operational checkpoints of a group.
// Each flag toggles on its own; no ordering between them is enforced.
type Status struct {
	Brief bool `json:"brief"`
	Chkd  bool `json:"chkd"`
	Food  bool `json:"food"`
	Paid  bool `json:"paid"`
	Done  bool `json:"done"`
}

// FullyComplete reports whether every checkpoint is set. It is a pure
// projection recomputed on read; it drives a highlight, never a gate.
func (s Status) FullyComplete() bool {
	return s.Brief && s.Chkd && s.Food && s.Paid && s.Done
}

// Flag returns the named flag's value. Unknown names read as false.
func (s Status) Flag(name string) bool {
	switch name {
	case "brief":
		return s.Brief
	case "chkd":
		return s.Chkd
	case "food":
		return s.Food
	case "paid":
		return s.Paid
	case "done":
		return s.Done
	}
	return false
}

// ActivityBlock is one timed segment of a group's visit.
type ActivityBlock struct {
	// Duration is the block length in minutes (15..240 in 15-minute steps).
	Duration int `json:"duration"`

	// Activities are the activity names booked for this segment.
	// An activity appears at most once across all blocks of a group.
	Activities []string `json:"activities"`
}

// Group is one booking occupying a time slot on the board.
type Group struct {
	// ID is assigned by the store on creation.
	ID string `json:"id"`

	TeamName string `json:"teamName"`

	// Time is the 24-hour start slot, "HH:MM", quantized to 15 minutes.
	Time string `json:"time"`

	TeamSize int `json:"teamSize"`

	// Package is one of PackageOptions.
	Package string `json:"package"`

	Status Status `json:"status"`

	Notes string `json:"notes"`

	// FoodOrder maps catalog item keys to ordered quantities.
	FoodOrder map[string]int `json:"foodOrder"`

	// Dietary maps the five dietary codes to headcounts. Missing codes
	// read as zero.
	Dietary map[string]int `json:"dietary"`

	// AssignedTeamMember is a roster display name, or "" for unassigned.
	AssignedTeamMember string `json:"assignedTeamMember"`

	// AssignedAreas are venue area display names.
	AssignedAreas []string `json:"assignedAreas"`

	// ActivityBlocks is the ordered visit itinerary.
	ActivityBlocks []ActivityBlock `json:"activityBlocks"`

	// Activities is the legacy flat itinerary written by the pre-blocks
	// board. Migrated into ActivityBlocks on read; never written back.
	Activities []string `json:"activities,omitempty"`

	// CreatedAt is the Unix millisecond timestamp of creation, the stable
	// tiebreak for groups sharing a slot.
	CreatedAt int64 `json:"createdAt"`
}

// HasFoodPackage reports whether the group's package includes food.
func (g Group) HasFoodPackage() bool {
	return g.Package == PackageFood || g.Package == PackageFoodDrink
}

// DietaryCount returns the headcount for a dietary code, zero if absent.
func (g Group) DietaryCount(code string) int {
	return g.Dietary[code]
}

// DietarySummary renders the non-zero dietary counts in board order,
// e.g. "2 GF, 1 VE". Empty when nothing is flagged.
func (g Group) DietarySummary() string {
	var b strings.Builder
	for _, k := range DietaryKeys {
		n := g.Dietary[k]
		if n <= 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d %s", n, DietaryLabels[k])
	}
	return b.String()
}

// NewGroup returns the defaults for a freshly added booking.
// startTime is typically the latest slot already on the board.
func NewGroup(startTime string) Group {
	dietary := make(map[string]int, len(DietaryKeys))
	for _, k := range DietaryKeys {
		dietary[k] = 0
	}
	return Group{
		TeamName:       "New Team",
		Time:           startTime,
		TeamSize:       2,
		Package:        PackageNone,
		Notes:          "",
		FoodOrder:      map[string]int{},
		Dietary:        dietary,
		AssignedAreas:  []string{},
		ActivityBlocks: []ActivityBlock{},
	}
}

// DecodeGroup builds a Group from a stored document. Missing fields take
// their zero values; malformed documents are the only error case.
func DecodeGroup(id string, data map[string]any) (Group, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Group{}, fmt.Errorf("encode group document %s: %w", id, err)
	}
	var g Group
	if err := json.Unmarshal(raw, &g); err != nil {
		return Group{}, fmt.Errorf("decode group document %s: %w", id, err)
	}
	g.ID = id
	return g, nil
}

// SortGroups orders groups by time slot, then creation time, then id.
// The sort is stable for groups sharing a slot across re-reads.
func SortGroups(groups []Group) {
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Time != groups[j].Time {
			return groups[i].Time < groups[j].Time
		}
		if groups[i].CreatedAt != groups[j].CreatedAt {
			return groups[i].CreatedAt < groups[j].CreatedAt
		}
		return groups[i].ID < groups[j].ID
	})
}

// ValidPackage reports whether p is a known package tier.
func ValidPackage(p string) bool {
	for _, opt := range PackageOptions {
		if p == opt {
			return true
		}
	}
	return false
}

// ValidDietaryKey reports whether code is one of the five tracked codes.
func ValidDietaryKey(code string) bool {
	for _, k := range DietaryKeys {
		if code == k {
			return true
		}
	}
	return false
}

// ValidStatusFlag reports whether name is one of the five checkpoints.
func ValidStatusFlag(name string) bool {
	for _, f := range StatusFlags {
		if name == f {
			return true
		}
	}
	return false
}

// ValidActivity reports whether name is in the activity catalog.
func ValidActivity(name string) bool {
	for _, a := range ActivityCatalog {
		if name == a {
			return true
		}
	}
	return false
}
