package enums

import "fmt"

// SortDirection controls ascending or descending catalog ordering.
type SortDirection string

const (
	SortDirectionAsc  SortDirection = "asc"
	SortDirectionDesc SortDirection = "desc"
)

var validSortDirections = []SortDirection{
	SortDirectionAsc,
	SortDirectionDesc,
}

// String implements fmt.Stringer.
func (s SortDirection) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortDirection.
func (s SortDirection) IsValid() bool {
	for _, candidate := range validSortDirections {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSortDirection converts raw input into a SortDirection.
func ParseSortDirection(value string) (SortDirection, error) {
	for _, candidate := range validSortDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort direction %q", value)
}
