package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/geometry"
)

// DTWDistance calculates Dynamic Time Warping distance between two paths.
// Returns infinity if either path is empty.
// The distance is normalized by the maximum path length.
func DTWDistance(path1, path2 []geometry.Point) float64 {
	n := len(path1)
	m := len(path2)

	if n == 0 || m == 0 {
		return math.Inf(1)
	}

	// Create (n+1) x (m+1) cost matrix initialized to infinity
	dtw := make([][]float64, n+1)
	for i := range dtw {
		dtw[i] = make([]float64, m+1)
		for j := range dtw[i] {
			dtw[i][j] = math.Inf(1)
		}
	}
	dtw[0][0] = 0

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			// Cost is the distance between current points plus minimum of three neighbors
			cost := geometry.Distance(path1[i-1], path2[j-1]).Euclidean
			dtw[i][j] = cost + min(dtw[i-1][j], dtw[i][j-1], dtw[i-1][j-1])
		}
	}

	return dtw[n][m] / float64(max(n, m))
}

// ScoreDTW is a Scorer that tolerates local timing differences between the
// candidate and the template.
var ScoreDTW Scorer = DTWDistance
