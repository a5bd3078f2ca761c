package models

import (
	"encoding/json"
	"fmt"
)

// TeamMember is a flat roster entry. Groups reference members by Name only;
// deleting a member leaves those references dangling on purpose.
type TeamMember struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Area is a bookable venue area. Same weak-reference rule as TeamMember.
type Area struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DecodeTeamMember builds a TeamMember from a stored document.
func DecodeTeamMember(id string, data map[string]any) (TeamMember, error) {
	name, err := decodeName(id, data)
	if err != nil {
		return TeamMember{}, err
	}
	return TeamMember{ID: id, Name: name}, nil
}

// DecodeArea builds an Area from a stored document.
func DecodeArea(id string, data map[string]any) (Area, error) {
	name, err := decodeName(id, data)
	if err != nil {
		return Area{}, err
	}
	return Area{ID: id, Name: name}, nil
}

func decodeName(id string, data map[string]any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode document %s: %w", id, err)
	}
	var doc struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", fmt.Errorf("decode document %s: %w", id, err)
	}
	return doc.Name, nil
}
