package service

import (
	"github.com/classforge/report-card-api/internal/models"
)

// ResolveGrade maps a percentage to the first band whose interval contains
// it. Bands are guaranteed non-overlapping by the grade-scale admin flow, so
// first match and any match are equivalent. Out-of-range percentages are
// passed through unvalidated; a percentage no band covers yields the
// unresolved sentinel rather than an error.
func ResolveGrade(percentage float64, bands []models.GradeScaleBand) models.GradeResolution {
	for _, band := range bands {
		if percentage >= band.MinScore && percentage <= band.MaxScore {
			return models.GradeResolution{
				Grade:       band.Grade,
				GPAPoints:   band.GPAPoints,
				Description: band.Description,
			}
		}
	}
	return models.UnresolvedGrade
}
