package cluster

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoPoints is returned when Fit is called without data.
var ErrNoPoints = errors.New("no points to cluster")

// ErrInvalidK is returned when K is not in [1, number of points].
var ErrInvalidK = errors.New("invalid cluster count")

// Defaults used when the corresponding KMeans field is zero.
const (
	DefaultNInit   = 10
	DefaultMaxIter = 300
	DefaultTol     = 1e-4
)

// KMeans configures a Lloyd k-means run with k-means++ seeding.
// The same Seed and input always produce the same labels.
type KMeans struct {
	K       int
	NInit   int
	MaxIter int
	Tol     float64
	Seed    uint64
}

// Result is the best of the NInit restarts, by inertia.
type Result struct {
	Labels     []int
	Centroids  [][]float64
	Inertia    float64
	Iterations int
}

// Fit clusters points, which must all have the same dimension.
func (km KMeans) Fit(points [][]float64) (Result, error) {
	if len(points) == 0 {
		return Result{}, ErrNoPoints
	}
	if km.K < 1 || km.K > len(points) {
		return Result{}, fmt.Errorf("%w: k=%d for %d points", ErrInvalidK, km.K, len(points))
	}
	if km.NInit <= 0 {
		km.NInit = DefaultNInit
	}
	if km.MaxIter <= 0 {
		km.MaxIter = DefaultMaxIter
	}
	if km.Tol <= 0 {
		km.Tol = DefaultTol
	}

	rng := rand.New(rand.NewPCG(km.Seed, km.Seed))
	tol := km.Tol * meanVariance(points)

	var best Result
	for run := 0; run < km.NInit; run++ {
		res := km.lloyd(points, seedPlusPlus(points, km.K, rng), tol)
		if run == 0 || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

func (km KMeans) lloyd(points, centroids [][]float64, tol float64) Result {
	labels := make([]int, len(points))
	dims := len(points[0])

	iter := 0
	for iter < km.MaxIter {
		iter++
		assign(points, centroids, labels)

		next := make([][]float64, km.K)
		counts := make([]int, km.K)
		for c := range next {
			next[c] = make([]float64, dims)
		}
		for i, p := range points {
			floats.Add(next[labels[i]], p)
			counts[labels[i]]++
		}
		for c := range next {
			if counts[c] > 0 {
				floats.Scale(1/float64(counts[c]), next[c])
			}
		}
		reseedEmpty(points, labels, next, counts)

		shift := 0.0
		for c := range next {
			d := floats.Distance(centroids[c], next[c], 2)
			shift += d * d
		}
		centroids = next
		if shift <= tol {
			break
		}
	}

	inertia := assign(points, centroids, labels)
	return Result{Labels: labels, Centroids: centroids, Inertia: inertia, Iterations: iter}
}

// assign labels every point with its nearest centroid (lowest index on ties)
// and returns the sum of squared distances.
func assign(points, centroids [][]float64, labels []int) float64 {
	inertia := 0.0
	for i, p := range points {
		bestC, bestD := 0, math.Inf(1)
		for c, cen := range centroids {
			d := sqDist(p, cen)
			if d < bestD {
				bestC, bestD = c, d
			}
		}
		labels[i] = bestC
		inertia += bestD
	}
	return inertia
}

// reseedEmpty moves each empty centroid onto the point farthest from its own centroid,
// taken from a cluster that can spare it.
func reseedEmpty(points [][]float64, labels []int, centroids [][]float64, counts []int) {
	for c := range centroids {
		if counts[c] > 0 {
			continue
		}
		far, farD := -1, -1.0
		for i, p := range points {
			if counts[labels[i]] < 2 {
				continue
			}
			if d := sqDist(p, centroids[labels[i]]); d > farD {
				far, farD = i, d
			}
		}
		if far < 0 {
			return
		}
		counts[labels[far]]--
		labels[far] = c
		counts[c] = 1
		copy(centroids[c], points[far])
	}
}

// seedPlusPlus picks k initial centroids, each new one drawn with probability
// proportional to its squared distance from the closest centroid chosen so far.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.IntN(len(points))]))

	dist := make([]float64, len(points))
	for i, p := range points {
		dist[i] = sqDist(p, centroids[0])
	}
	for len(centroids) < k {
		total := floats.Sum(dist)
		pick := rng.IntN(len(points))
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dist {
				if d == 0 {
					continue
				}
				pick = i
				acc += d
				if acc >= target {
					break
				}
			}
		}
		centroids = append(centroids, clone(points[pick]))
		for i, p := range points {
			if d := sqDist(p, points[pick]); d < dist[i] {
				dist[i] = d
			}
		}
	}
	return centroids
}

func meanVariance(points [][]float64) float64 {
	dims := len(points[0])
	col := make([]float64, len(points))
	sum := 0.0
	for j := 0; j < dims; j++ {
		for i, p := range points {
			col[i] = p[j]
		}
		sum += stat.PopVariance(col, nil)
	}
	return sum / float64(dims)
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}
