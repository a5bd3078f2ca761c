// Package models defines the domain records on the check-in board.
//
// # Records
//
//   - Group: one timed booking, the central record on the board
//   - TeamMember: a roster entry a group can be assigned to by name
//   - Area: a bookable venue area a group can occupy, referenced by name
//   - FoodCatalog: the pizzas/snacks item buckets supplied by the kitchen
//
// # References are display strings
//
// A group's AssignedTeamMember and AssignedAreas hold display names, not ids.
// Deleting a team member or area never cascades: groups keep whatever name
// they were holding, and aggregation tolerates the dangling reference. This
// mirrors how the board is actually operated (single operator, names retyped
// or reassigned by hand) and keeps deletes trivially cheap.
//
// # Tolerant decoding
//
// Records live as JSON documents and are merge-patched field by field, so a
// document can predate a field. Missing status flags decode as false, missing
// dietary counts as zero, missing slices as empty. Absent keys are never a
// structural error.
package models
