package agenda

import "fmt"

const (
	MinScore = 0
	MaxScore = 5
)

// ValidateScore checks a rating or interest value. 0 is valid and means
// "clear".
func ValidateScore(field string, value int) error {
	if value < MinScore || value > MaxScore {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must be between %d and %d, got %d", MinScore, MaxScore, value),
		}
	}
	return nil
}
