package sleep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateIQRBounds_Empty(t *testing.T) {
	_, ok := CalculateIQRBounds(nil)
	assert.False(t, ok)
}

func TestCalculateIQRBounds_SingleValue(t *testing.T) {
	b, ok := CalculateIQRBounds([]float64{60})
	require.True(t, ok)
	assert.Equal(t, 60.0, b.Q1)
	assert.Equal(t, 60.0, b.Q3)
	assert.Equal(t, 0.0, b.IQR)
	assert.Equal(t, 60.0, b.LowerBound)
	assert.Equal(t, 60.0, b.UpperBound)
}

func TestCalculateIQRBounds_Interpolation(t *testing.T) {
	// Quartiles at index (n-1)*p over the sorted values: for four values,
	// Q1 sits at index 0.75 and Q3 at index 2.25.
	b, ok := CalculateIQRBounds([]float64{10, 20, 30, 40})
	require.True(t, ok)
	assert.InDelta(t, 17.5, b.Q1, 1e-9)
	assert.InDelta(t, 32.5, b.Q3, 1e-9)
	assert.InDelta(t, 15.0, b.IQR, 1e-9)
	assert.InDelta(t, -5.0, b.LowerBound, 1e-9)
	assert.InDelta(t, 55.0, b.UpperBound, 1e-9)
}

func TestCalculateIQRBounds_Ordering(t *testing.T) {
	seqs := [][]float64{
		{55, 58, 60, 61, 62, 64, 110},
		{1, 1, 1, 1},
		{5, 3, 8, 1, 9, 2},
	}
	for _, values := range seqs {
		b, ok := CalculateIQRBounds(values)
		require.True(t, ok)
		assert.LessOrEqual(t, b.LowerBound, b.Q1)
		assert.LessOrEqual(t, b.Q1, b.Q3)
		assert.LessOrEqual(t, b.Q3, b.UpperBound)
		assert.GreaterOrEqual(t, b.IQR, 0.0)
	}
}

func makePoints(hrs ...int) []Point {
	base := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	points := make([]Point, len(hrs))
	for i, hr := range hrs {
		points[i] = Point{Time: base.Add(time.Duration(i) * time.Minute), HR: hr, Phase: "core"}
	}
	return points
}

func TestMarkOutliers_Empty(t *testing.T) {
	assert.Empty(t, MarkOutliers(nil))
}

func TestMarkOutliers_FlagsExtremes(t *testing.T) {
	// 180 is far outside the fences of the remaining cluster.
	points := MarkOutliers(makePoints(58, 60, 61, 62, 63, 64, 180))

	outliers := 0
	for _, p := range points {
		if p.Outlier {
			outliers++
			assert.Equal(t, 180, p.HR)
		}
	}
	assert.Equal(t, 1, outliers)
}

func TestMarkOutliers_Idempotent(t *testing.T) {
	once := MarkOutliers(makePoints(58, 60, 61, 62, 63, 64, 180))
	twice := MarkOutliers(once)
	assert.Equal(t, once, twice)
}

func TestMarkOutliers_DoesNotMutateInput(t *testing.T) {
	points := makePoints(58, 60, 180)
	_ = MarkOutliers(points)
	for _, p := range points {
		assert.False(t, p.Outlier)
	}
}

func TestFilterOutliers_KeepsInBoundPoints(t *testing.T) {
	marked := MarkOutliers(makePoints(58, 60, 61, 62, 63, 64, 180))
	values := make([]float64, 0, len(marked))
	for _, p := range marked {
		values = append(values, float64(p.HR))
	}
	bounds, ok := CalculateIQRBounds(values)
	require.True(t, ok)

	for _, p := range FilterOutliers(marked) {
		assert.GreaterOrEqual(t, float64(p.HR), bounds.LowerBound)
		assert.LessOrEqual(t, float64(p.HR), bounds.UpperBound)
	}
}

func TestCountOutliers(t *testing.T) {
	marked := MarkOutliers(makePoints(58, 60, 61, 62, 63, 64, 180))
	c := CountOutliers(marked)
	assert.Equal(t, 7, c.Total)
	assert.Equal(t, 1, c.Outliers)
	assert.Equal(t, 6, c.Valid)
}
