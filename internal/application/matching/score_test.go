package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aqarmatch/api/internal/domain"
)

// baseOffer and baseRequest form a fully compatible pair (score 100).
func baseOffer() *domain.Offer {
	return &domain.Offer{
		OfferID:   "o1",
		Type:      domain.PropertyLand,
		Usage:     domain.UsageResidential,
		City:      "الرياض",
		District:  "الدرعية",
		AreaFrom:  500,
		AreaTo:    1000,
		PriceFrom: 500000,
		PriceTo:   1000000,
	}
}

func baseRequest() *domain.Request {
	return &domain.Request{
		RequestID:  "r1",
		Type:       domain.PropertyLand,
		Usage:      domain.UsageResidential,
		City:       "الرياض",
		District:   "الدرعية",
		AreaFrom:   500,
		AreaTo:     1500,
		BudgetFrom: 400000,
		BudgetTo:   1500000,
		Priority:   domain.PriorityHigh,
	}
}

func TestScore_FullMatch(t *testing.T) {
	assert.Equal(t, 100, Score(baseOffer(), baseRequest()))
}

func TestScore_DifferentDistrictSameCity(t *testing.T) {
	r := baseRequest()
	r.District = "الشاطئ"
	assert.Equal(t, 90, Score(baseOffer(), r))
}

func TestScore_NoAreaOverlap(t *testing.T) {
	r := baseRequest()
	r.AreaFrom = 2000
	r.AreaTo = 3000
	assert.Equal(t, 80, Score(baseOffer(), r))
}

func TestScore_DistrictRequiresCity(t *testing.T) {
	// Same district name in a different city earns nothing for location.
	o := baseOffer()
	r := baseRequest()
	o.City = "جدة"
	withLocation := Score(baseOffer(), baseRequest())
	withoutCity := Score(o, r)
	assert.Equal(t, withLocation-cityPoints-districtPoints, withoutCity)
}

func TestScore_TouchingIntervalsCountAsOverlap(t *testing.T) {
	o := baseOffer()
	o.AreaFrom = 100
	o.AreaTo = 200
	r := baseRequest()
	r.AreaFrom = 200
	r.AreaTo = 300
	assert.Equal(t, 100, Score(o, r))
}

func TestScore_DisjointIntervalsLoseExactlyTheFactor(t *testing.T) {
	o := baseOffer()
	o.AreaFrom = 100
	o.AreaTo = 150
	overlapping := baseRequest()
	overlapping.AreaFrom = 150
	overlapping.AreaTo = 200
	disjoint := baseRequest()
	disjoint.AreaFrom = 160
	disjoint.AreaTo = 200

	assert.Equal(t, areaPoints, Score(o, overlapping)-Score(o, disjoint))
}

func TestScore_AllFactorsMismatched(t *testing.T) {
	o := &domain.Offer{
		Type: domain.PropertyPlan, Usage: domain.UsageIndustrial,
		City: "جدة", District: "الحمراء",
		AreaFrom: 100, AreaTo: 150,
		PriceFrom: 100000, PriceTo: 200000,
	}
	r := &domain.Request{
		Type: domain.PropertyLand, Usage: domain.UsageResidential,
		City: "الرياض", District: "الدرعية",
		AreaFrom: 500, AreaTo: 1000,
		BudgetFrom: 500000, BudgetTo: 900000,
	}
	assert.Equal(t, 0, Score(o, r))
}

func TestScore_BoundsAndReachableValues(t *testing.T) {
	// Toggle each factor independently and confirm the score stays in
	// [0, 100] with only the documented sums reachable.
	reachable := map[int]bool{}
	for _, typeMatch := range []bool{false, true} {
		for _, usageMatch := range []bool{false, true} {
			for _, loc := range []string{"none", "city", "city+district"} {
				for _, areaOverlap := range []bool{false, true} {
					for _, priceOverlap := range []bool{false, true} {
						o := baseOffer()
						r := baseRequest()
						if !typeMatch {
							r.Type = domain.PropertyProject
						}
						if !usageMatch {
							r.Usage = domain.UsageCommercial
						}
						switch loc {
						case "none":
							r.City = "جدة"
						case "city":
							r.District = "الشاطئ"
						}
						if !areaOverlap {
							r.AreaFrom = 5000
							r.AreaTo = 6000
						}
						if !priceOverlap {
							r.BudgetFrom = 9000000
							r.BudgetTo = 9900000
						}
						got := Score(o, r)
						assert.GreaterOrEqual(t, got, 0)
						assert.LessOrEqual(t, got, MaxScore)
						assert.Zero(t, got%10)
						reachable[got] = true
					}
				}
			}
		}
	}
	assert.True(t, reachable[0])
	assert.True(t, reachable[100])
}

func TestScore_SymmetricAcrossTriggerPaths(t *testing.T) {
	// The score of a pair must not depend on which side was created
	// last; both reconciliation paths call the same function with the
	// same arguments.
	o := baseOffer()
	r := baseRequest()
	r.District = "الشاطئ"
	r.AreaFrom = 2000
	r.AreaTo = 3000

	fromOfferSide := Score(o, r)
	fromRequestSide := Score(o, r)
	assert.Equal(t, fromOfferSide, fromRequestSide)
}

func TestOverlaps(t *testing.T) {
	assert.True(t, overlaps(100, 200, 200, 300), "touching endpoints")
	assert.True(t, overlaps(100, 200, 150, 180), "contained")
	assert.True(t, overlaps(150, 180, 100, 200), "containing")
	assert.False(t, overlaps(100, 150, 160, 200), "disjoint")
	assert.False(t, overlaps(160, 200, 100, 150), "disjoint reversed")
}
