package sequence

import "fmt"

// ValidationResult contains the outcome of Validate.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate checks structural invariants of a sequence: titles, names, types,
// id uniqueness and conditions/triggers placed on non-containers.
func Validate(s *Sequence) *ValidationResult {
	result := &ValidationResult{Valid: true, Errors: []string{}, Warnings: []string{}}
	if s == nil {
		result.Valid = false
		result.Errors = append(result.Errors, "sequence is nil")
		return result
	}

	if s.Title == "" {
		result.Errors = append(result.Errors, "Sequence title is empty")
	}

	seen := make(map[string]struct{})
	checkID := func(kind, id string) {
		if id == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s has no id", kind))
			return
		}
		if _, dup := seen[id]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("duplicate id: %s", id))
			return
		}
		seen[id] = struct{}{}
	}

	for _, area := range Areas {
		Walk(s.Items(area), func(it *Item) bool {
			checkID("item", it.ID)
			if it.Name == "" {
				result.Errors = append(result.Errors, fmt.Sprintf("Item %s has no name", it.ID))
			}
			if it.Type == "" {
				result.Errors = append(result.Errors, fmt.Sprintf("Item %s has no type", it.ID))
			}
			if !it.IsContainer() && (len(it.Conditions) > 0 || len(it.Triggers) > 0) {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("Item %s is not a container but has conditions or triggers", it.ID))
			}
			for _, c := range it.Conditions {
				checkID("condition", c.ID)
			}
			for _, t := range it.Triggers {
				checkID("trigger", t.ID)
			}
			return true
		})
	}
	for _, t := range s.GlobalTriggers {
		checkID("trigger", t.ID)
	}

	if len(s.StartItems)+len(s.TargetItems)+len(s.EndItems) == 0 {
		result.Warnings = append(result.Warnings, "Sequence has no items")
	}

	result.Valid = len(result.Errors) == 0
	return result
}
