package score

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"okapiq/pkg/okapiq/model"
)

// clusterFeatureCount is the number of standardized dimensions k-means
// runs over: rating, estimated_revenue, employee_count,
// years_in_business, market_share_percent (spec §4.5 "clustering").
const clusterFeatureCount = 5

// clusterSeed fixes k-means' random initialization so clustering is
// deterministic across runs over the same input, per spec.
const clusterSeed = 42

// Cluster runs k-means over the scored batch's standardized feature
// set when there are enough entities, returning one MarketCluster per
// group (spec §4.5 "Market-level pass"). Fewer than five entities
// yields no clusters.
func Cluster(businesses []model.Business) []model.MarketCluster {
	if len(businesses) < 5 {
		return nil
	}

	raw := make([][clusterFeatureCount]float64, len(businesses))
	for i, b := range businesses {
		raw[i] = rawClusterFeatures(&b)
	}
	standardized := standardize(raw)

	k := len(businesses) / 3
	if k > 5 {
		k = 5
	}
	if k < 1 {
		k = 1
	}

	assignments := kmeans(standardized, k, clusterSeed)

	clusters := make([]model.MarketCluster, 0, k)
	for c := 0; c < k; c++ {
		members := memberIndexes(assignments, c)
		if len(members) == 0 {
			continue
		}
		clusters = append(clusters, buildCluster(businesses, members, c))
	}
	return clusters
}

func rawClusterFeatures(b *model.Business) [clusterFeatureCount]float64 {
	var f [clusterFeatureCount]float64
	if b.Metrics.Rating != nil {
		f[0] = *b.Metrics.Rating
	}
	if b.Metrics.EstimatedRevenue != nil {
		f[1] = *b.Metrics.EstimatedRevenue
	}
	if b.Metrics.EmployeeCount != nil {
		f[2] = float64(*b.Metrics.EmployeeCount)
	}
	if b.Metrics.YearsInBusiness != nil {
		f[3] = float64(*b.Metrics.YearsInBusiness)
	}
	if b.Metrics.MarketSharePercent != nil {
		f[4] = *b.Metrics.MarketSharePercent
	}
	return f
}

// standardize applies (x - mean) / stddev per dimension using gonum's
// stat package, so every dimension contributes comparably to distance.
func standardize(raw [][clusterFeatureCount]float64) [][clusterFeatureCount]float64 {
	var means, stdevs [clusterFeatureCount]float64
	for d := 0; d < clusterFeatureCount; d++ {
		col := make([]float64, len(raw))
		for i := range raw {
			col[i] = raw[i][d]
		}
		means[d] = stat.Mean(col, nil)
		stdevs[d] = stat.StdDev(col, nil)
		if stdevs[d] == 0 {
			stdevs[d] = 1
		}
	}

	out := make([][clusterFeatureCount]float64, len(raw))
	for i, row := range raw {
		for d := 0; d < clusterFeatureCount; d++ {
			out[i][d] = (row[d] - means[d]) / stdevs[d]
		}
	}
	return out
}

// kmeans is a small, fixed-seed Lloyd's-algorithm implementation.
// gonum has no k-means primitive, so this is hand-rolled over gonum's
// standardized input.
func kmeans(points [][clusterFeatureCount]float64, k int, seed int64) []int {
	n := len(points)
	rng := rand.New(rand.NewSource(seed))

	centroids := make([][clusterFeatureCount]float64, k)
	perm := rng.Perm(n)
	for i := 0; i < k; i++ {
		centroids[i] = points[perm[i%n]]
	}

	assignments := make([]int, n)
	for iter := 0; iter < 50; iter++ {
		changed := false
		for i, p := range points {
			best, bestDist := 0, math.MaxFloat64
			for c, centroid := range centroids {
				d := squaredDist(p, centroid)
				if d < bestDist {
					bestDist = d
					best = c
				}
			}
			if assignments[i] != best {
				changed = true
			}
			assignments[i] = best
		}

		var sums [10][clusterFeatureCount]float64
		var counts [10]int
		for i, p := range points {
			c := assignments[i]
			counts[c]++
			for d := 0; d < clusterFeatureCount; d++ {
				sums[c][d] += p[d]
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			for d := 0; d < clusterFeatureCount; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
		if !changed {
			break
		}
	}
	return assignments
}

func squaredDist(a, b [clusterFeatureCount]float64) float64 {
	sum := 0.0
	for d := 0; d < clusterFeatureCount; d++ {
		diff := a[d] - b[d]
		sum += diff * diff
	}
	return sum
}

func memberIndexes(assignments []int, cluster int) []int {
	var out []int
	for i, c := range assignments {
		if c == cluster {
			out = append(out, i)
		}
	}
	return out
}

func buildCluster(businesses []model.Business, members []int, clusterIdx int) model.MarketCluster {
	var sumRevenue, sumRating, sumAge, maxShare float64
	revenues := make([]float64, 0, len(members))
	for _, idx := range members {
		b := businesses[idx]
		rev := 0.0
		if b.Metrics.EstimatedRevenue != nil {
			rev = *b.Metrics.EstimatedRevenue
		}
		revenues = append(revenues, rev)
		sumRevenue += rev
		if b.Metrics.Rating != nil {
			sumRating += *b.Metrics.Rating
		}
		if b.Metrics.YearsInBusiness != nil {
			sumAge += float64(*b.Metrics.YearsInBusiness)
		}
		if b.Metrics.MarketSharePercent != nil && *b.Metrics.MarketSharePercent > maxShare {
			maxShare = *b.Metrics.MarketSharePercent
		}
	}
	n := float64(len(members))
	avgRevenue := sumRevenue / n
	avgRating := sumRating / n
	avgAge := sumAge / n

	revenueStdDev := stat.StdDev(revenues, nil)
	competitiveIntensity := revenueStdDev / (avgRevenue + 1)
	growthOpportunity := math.Max(0, 1-avgAge/30)
	consolidationPotential := 1 - maxShare/100

	return model.MarketCluster{
		Name:                   clusterName(clusterIdx, avgRevenue, avgRating),
		Size:                   len(members),
		AvgRevenue:             avgRevenue,
		AvgRating:              avgRating,
		CompetitiveIntensity:   competitiveIntensity,
		GrowthOpportunity:      growthOpportunity,
		ConsolidationPotential: consolidationPotential,
	}
}

func clusterName(idx int, avgRevenue, avgRating float64) string {
	tier := "mid-market"
	switch {
	case avgRevenue >= 2_000_000:
		tier = "high-revenue"
	case avgRevenue < 300_000:
		tier = "small-scale"
	}
	quality := "standard"
	if avgRating >= 4.3 {
		quality = "top-rated"
	} else if avgRating < 3.2 {
		quality = "underperforming"
	}
	return fmt.Sprintf("cluster-%d: %s %s", idx, quality, tier)
}
