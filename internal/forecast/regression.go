package forecast

// Point is one (day offset, count) observation of a single workflow state.
type Point struct {
	X float64
	Y float64
}

// RegressionModel is a fitted line y = Intercept + Slope*x.
type RegressionModel struct {
	Slope     float64
	Intercept float64
}

// Predict evaluates the line at x.
func (m RegressionModel) Predict(x float64) float64 {
	return m.Intercept + m.Slope*x
}

// Fit computes an ordinary least-squares line through points.
// A single point yields a flat line through it; identical x values yield a
// flat line at the mean of y. Callers never pass zero points.
func Fit(points []Point) RegressionModel {
	if len(points) == 0 {
		return RegressionModel{}
	}
	if len(points) < 2 {
		return RegressionModel{Intercept: points[0].Y}
	}

	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}

	denominator := n*sumXX - sumX*sumX
	if denominator == 0 {
		return RegressionModel{Intercept: sumY / n}
	}

	slope := (n*sumXY - sumX*sumY) / denominator
	return RegressionModel{
		Slope:     slope,
		Intercept: (sumY - slope*sumX) / n,
	}
}
