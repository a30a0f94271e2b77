package gesture

import (
	"math"
	"testing"
)

// horizontalStroke generates a left-to-right stroke of n points at the
// given y, spanning x from 0.2 to 0.8.
func horizontalStroke(n int, y float64) []PathPoint {
	path := make([]PathPoint, 0, n)
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		path = append(path, PathPoint{
			X:         0.2 + 0.6*frac,
			Y:         y,
			Timestamp: int64(i) * 33,
		})
	}
	return path
}

// circleStroke generates a circular stroke of n points.
func circleStroke(n int) []PathPoint {
	path := make([]PathPoint, 0, n)
	for i := 0; i < n; i++ {
		angle := 2 * math.Pi * float64(i) / float64(n)
		path = append(path, PathPoint{
			X:         0.5 + 0.2*math.Cos(angle),
			Y:         0.5 + 0.2*math.Sin(angle),
			Timestamp: int64(i) * 33,
		})
	}
	return path
}

func TestDTWDistance_IdenticalPaths(t *testing.T) {
	path := horizontalStroke(20, 0.5)

	dist := DTWDistance(path, path)
	if dist > 1e-9 {
		t.Errorf("DTWDistance(path, path) = %v, want 0", dist)
	}
}

func TestDTWDistance_EmptyPaths(t *testing.T) {
	path := horizontalStroke(10, 0.5)

	if !math.IsInf(DTWDistance(nil, path), 1) {
		t.Error("DTWDistance(nil, path) should be +Inf")
	}
	if !math.IsInf(DTWDistance(path, nil), 1) {
		t.Error("DTWDistance(path, nil) should be +Inf")
	}
}

func TestDTWDistance_DifferentLengthsStillMatch(t *testing.T) {
	// Same shape, different sampling rates: DTW should stay small
	a := horizontalStroke(30, 0.5)
	b := horizontalStroke(12, 0.5)

	dist := DTWDistance(normalizePath(a), normalizePath(b))
	if dist > 0.1 {
		t.Errorf("DTWDistance for resampled stroke = %v, want <= 0.1", dist)
	}
}

func TestSwipeMatcher_MatchesCompletionStroke(t *testing.T) {
	m := NewSwipeMatcher()

	matches := m.Match(horizontalStroke(24, 0.4))
	if len(matches) == 0 {
		t.Fatal("expected the horizontal stroke to match the completion template")
	}

	best := matches[0]
	if best.Template.ID != "builtin-complete" {
		t.Errorf("matched template = %q, want builtin-complete", best.Template.ID)
	}
	if best.Score < 0.85 {
		t.Errorf("match score = %v, want >= 0.85", best.Score)
	}
}

func TestSwipeMatcher_RejectsCircle(t *testing.T) {
	m := NewSwipeMatcher()

	matches := m.Match(circleStroke(30))
	if len(matches) != 0 {
		t.Errorf("circle stroke matched %d templates, want 0", len(matches))
	}
}

func TestSwipeMatcher_EmptyPath(t *testing.T) {
	m := NewSwipeMatcher()

	if matches := m.Match(nil); matches != nil {
		t.Errorf("Match(nil) = %v, want nil", matches)
	}
}

func TestSwipeMatcher_RemoveTemplate(t *testing.T) {
	m := NewSwipeMatcher()
	m.RemoveTemplate("builtin-complete")

	matches := m.Match(horizontalStroke(24, 0.5))
	if len(matches) != 0 {
		t.Errorf("expected no matches after removing the only template, got %d", len(matches))
	}
}

func TestNormalizePath(t *testing.T) {
	path := []PathPoint{
		{X: 0.2, Y: 0.4, Timestamp: 0},
		{X: 0.5, Y: 0.6, Timestamp: 33},
		{X: 0.8, Y: 0.8, Timestamp: 66},
	}

	normalized := normalizePath(path)
	if len(normalized) != 3 {
		t.Fatalf("normalized length = %d, want 3", len(normalized))
	}

	first, last := normalized[0], normalized[2]
	if first.X != 0 || first.Y != 0 {
		t.Errorf("first point = (%v, %v), want (0, 0)", first.X, first.Y)
	}
	if last.X != 1 || last.Y != 1 {
		t.Errorf("last point = (%v, %v), want (1, 1)", last.X, last.Y)
	}
	if last.Timestamp != 66 {
		t.Errorf("timestamps should be preserved, got %d", last.Timestamp)
	}
}

func TestNormalizePath_SinglePoint(t *testing.T) {
	normalized := normalizePath([]PathPoint{{X: 0.7, Y: 0.2, Timestamp: 5}})

	if len(normalized) != 1 {
		t.Fatalf("normalized length = %d, want 1", len(normalized))
	}
	if normalized[0].X != 0 || normalized[0].Y != 0 {
		t.Errorf("single point should normalize to origin, got %+v", normalized[0])
	}
}
