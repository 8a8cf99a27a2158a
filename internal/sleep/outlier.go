package sleep

import (
	"math"
	"sort"
)

// Bounds holds the IQR outlier thresholds for a set of heart-rate values.
// Values below LowerBound or above UpperBound are outliers.
type Bounds struct {
	Q1         float64
	Q3         float64
	IQR        float64
	LowerBound float64
	UpperBound float64
}

// CalculateIQRBounds computes quartiles by linear interpolation at index
// (n-1)*p over the sorted values and derives the 1.5×IQR fences.
// ok is false for empty input.
func CalculateIQRBounds(values []float64) (Bounds, bool) {
	if len(values) == 0 {
		return Bounds{}, false
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 0.25)
	q3 := percentile(sorted, 0.75)
	iqr := q3 - q1

	return Bounds{
		Q1:         q1,
		Q3:         q3,
		IQR:        iqr,
		LowerBound: q1 - 1.5*iqr,
		UpperBound: q3 + 1.5*iqr,
	}, true
}

// percentile interpolates linearly between the two nearest ranks of an
// already-sorted slice.
func percentile(sorted []float64, p float64) float64 {
	idx := float64(len(sorted)-1) * p
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo]*(float64(hi)-idx) + sorted[hi]*(idx-float64(lo))
}

// MarkOutliers returns a copy of points with the outlier flag set on every
// point whose heart rate falls outside the IQR fences computed over the
// entire input, not per phase. Pure; the input slice is not modified.
func MarkOutliers(points []Point) []Point {
	if len(points) == 0 {
		return nil
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = float64(p.HR)
	}

	bounds, ok := CalculateIQRBounds(values)
	if !ok {
		return points
	}

	marked := make([]Point, len(points))
	for i, p := range points {
		p.Outlier = float64(p.HR) < bounds.LowerBound || float64(p.HR) > bounds.UpperBound
		marked[i] = p
	}
	return marked
}

// FilterOutliers returns the points whose outlier flag is not set.
func FilterOutliers(points []Point) []Point {
	var valid []Point
	for _, p := range points {
		if !p.Outlier {
			valid = append(valid, p)
		}
	}
	return valid
}

// OutlierCounts summarizes how many points were flagged.
type OutlierCounts struct {
	Total    int
	Outliers int
	Valid    int
}

// CountOutliers tallies flagged and valid points.
func CountOutliers(points []Point) OutlierCounts {
	c := OutlierCounts{Total: len(points)}
	for _, p := range points {
		if p.Outlier {
			c.Outliers++
		}
	}
	c.Valid = c.Total - c.Outliers
	return c
}
