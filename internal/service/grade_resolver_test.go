package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/classforge/report-card-api/internal/models"
)

func testBands() []models.GradeScaleBand {
	return []models.GradeScaleBand{
		{ID: "a", Grade: "A", MinScore: 80, MaxScore: 100, GPAPoints: 4.0, Description: "Excellent"},
		{ID: "b", Grade: "B", MinScore: 60, MaxScore: 79.99, GPAPoints: 3.0, Description: "Good"},
		{ID: "c", Grade: "C", MinScore: 40, MaxScore: 59.99, GPAPoints: 2.0, Description: "Average"},
		{ID: "f", Grade: "F", MinScore: 0, MaxScore: 39.99, GPAPoints: 0, Description: "Fail"},
	}
}

func TestResolveGradeMatchesBand(t *testing.T) {
	res := ResolveGrade(85, testBands())
	assert.Equal(t, "A", res.Grade)
	assert.Equal(t, 4.0, res.GPAPoints)
	assert.Equal(t, "Excellent", res.Description)
}

func TestResolveGradeBoundariesInclusive(t *testing.T) {
	bands := testBands()

	res := ResolveGrade(80, bands)
	assert.Equal(t, "A", res.Grade)

	res = ResolveGrade(100, bands)
	assert.Equal(t, "A", res.Grade)

	res = ResolveGrade(79.99, bands)
	assert.Equal(t, "B", res.Grade)

	res = ResolveGrade(0, bands)
	assert.Equal(t, "F", res.Grade)
}

func TestResolveGradeNoMatchReturnsSentinel(t *testing.T) {
	bands := testBands()

	// 79.995 falls into the gap between B's max and A's min.
	res := ResolveGrade(79.995, bands)
	assert.Equal(t, models.UnresolvedGrade, res)
	assert.Equal(t, "-", res.Grade)
	assert.Equal(t, 0.0, res.GPAPoints)
	assert.Equal(t, "", res.Description)
}

func TestResolveGradeEmptyScale(t *testing.T) {
	res := ResolveGrade(50, nil)
	assert.Equal(t, models.UnresolvedGrade, res)
}

func TestResolveGradeMonotonic(t *testing.T) {
	bands := testBands()
	gpaAt := func(pct float64) float64 {
		return ResolveGrade(pct, bands).GPAPoints
	}
	// Higher percentages never resolve to lower GPA points.
	last := gpaAt(0)
	for pct := 1.0; pct <= 100; pct++ {
		current := gpaAt(pct)
		assert.GreaterOrEqual(t, current, last, "pct %.0f", pct)
		last = current
	}
}
