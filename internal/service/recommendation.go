package service

import "fitops/internal/model"

// Alert thresholds for the rule pass
const (
	highResponseTimeMs = 2000
	highErrorRatePct   = 5
)

// RecommendationEngine derives actionable flags from aggregated metrics
type RecommendationEngine struct{}

// NewRecommendationEngine creates a recommendation engine
func NewRecommendationEngine() *RecommendationEngine {
	return &RecommendationEngine{}
}

// Recommend emits zero, one, or two flags per metric, in input order.
// There is no cross-service ranking.
func (e *RecommendationEngine) Recommend(metrics []model.PerformanceMetric) []model.Recommendation {
	recommendations := make([]model.Recommendation, 0)
	for _, metric := range metrics {
		if metric.AvgResponseTimeMs > highResponseTimeMs {
			recommendations = append(recommendations, model.Recommendation{
				Type:           "performance",
				Service:        metric.Service,
				Issue:          "High response time",
				Recommendation: "Optimize database queries or add caching",
			})
		}
		if metric.ErrorRate > highErrorRatePct {
			recommendations = append(recommendations, model.Recommendation{
				Type:           "reliability",
				Service:        metric.Service,
				Issue:          "High error rate",
				Recommendation: "Investigate error logs and improve error handling",
			})
		}
	}
	return recommendations
}
