package applications

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the closed set of application states.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
	StatusArchived  Status = "archived"
)

// Statuses returns all statuses in their canonical order.
func Statuses() []Status {
	return []Status{StatusApplied, StatusInterview, StatusOffer, StatusRejected, StatusArchived}
}

// ParseStatus maps a raw string onto a Status, case-insensitively.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusApplied:
		return StatusApplied, nil
	case StatusInterview:
		return StatusInterview, nil
	case StatusOffer:
		return StatusOffer, nil
	case StatusRejected:
		return StatusRejected, nil
	case StatusArchived:
		return StatusArchived, nil
	}
	return "", fmt.Errorf("%w: invalid status: %s, must be one of: %s", ErrInvalidInput, raw, statusList())
}

// UnmarshalJSON validates incoming status strings at the binding boundary.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func statusList() string {
	all := Statuses()
	parts := make([]string, len(all))
	for i, s := range all {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}
