package service

import "fmt"

// Analytics cache layout. Challenge stats live under one key per challenge
// and are deleted outright on review. Overview keys embed a generation
// counter: bumping the counter strands every cached overview at once, which
// is cheaper than enumerating (year, month) combinations to delete.
const overviewGenerationKey = "analytics:overview:generation"

func challengeStatsKey(challengeID uint) string {
	return fmt.Sprintf("analytics:challenge:%d", challengeID)
}

func overviewKey(year int, month *int, generation int64) string {
	if month != nil {
		return fmt.Sprintf("analytics:overview:%d:%d:g%d", year, *month, generation)
	}
	return fmt.Sprintf("analytics:overview:%d:g%d", year, generation)
}
