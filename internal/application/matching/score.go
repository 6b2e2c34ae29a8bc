package matching

import "github.com/aqarmatch/api/internal/domain"

// Factor weights. Five independent factors, each worth a fixed number of
// points; the district bonus only applies on top of a city match. All
// five satisfied sum to 100.
const (
	typePoints     = 20
	usagePoints    = 20
	cityPoints     = 10
	districtPoints = 10
	areaPoints     = 20
	pricePoints    = 20

	// MaxScore is the score of a pair satisfying every factor.
	MaxScore = typePoints + usagePoints + cityPoints + districtPoints + areaPoints + pricePoints
)

// Score computes the compatibility score between an offer and a request
// in [0, MaxScore]. Pure and deterministic: the same pair always yields
// the same score regardless of which side triggered the comparison.
func Score(o *domain.Offer, r *domain.Request) int {
	score := 0
	if o.Type == r.Type {
		score += typePoints
	}
	if o.Usage == r.Usage {
		score += usagePoints
	}
	if o.City == r.City {
		score += cityPoints
		// District credit requires the city to match first.
		if o.District == r.District {
			score += districtPoints
		}
	}
	if overlaps(o.AreaFrom, o.AreaTo, r.AreaFrom, r.AreaTo) {
		score += areaPoints
	}
	if overlaps(o.PriceFrom, o.PriceTo, r.BudgetFrom, r.BudgetTo) {
		score += pricePoints
	}
	return score
}

// overlaps reports whether [aFrom, aTo] and [bFrom, bTo] intersect.
// Touching endpoints count as overlap.
func overlaps(aFrom, aTo, bFrom, bTo float64) bool {
	lo := aFrom
	if bFrom > lo {
		lo = bFrom
	}
	hi := aTo
	if bTo < hi {
		hi = bTo
	}
	return lo <= hi
}
