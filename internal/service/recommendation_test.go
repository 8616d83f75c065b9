package service

import (
	"testing"

	"fitops/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_EmitsBothFlagsForOneService(t *testing.T) {
	engine := NewRecommendationEngine()

	recs := engine.Recommend([]model.PerformanceMetric{
		{Service: "fitneaseml", AvgResponseTimeMs: 2500, ErrorRate: 12},
	})

	require.Len(t, recs, 2)
	assert.Equal(t, "performance", recs[0].Type)
	assert.Equal(t, "High response time", recs[0].Issue)
	assert.Equal(t, "Optimize database queries or add caching", recs[0].Recommendation)
	assert.Equal(t, "reliability", recs[1].Type)
	assert.Equal(t, "High error rate", recs[1].Issue)
	assert.Equal(t, "Investigate error logs and improve error handling", recs[1].Recommendation)
}

func TestRecommend_ThresholdsAreExclusive(t *testing.T) {
	engine := NewRecommendationEngine()

	// exactly at threshold triggers nothing
	recs := engine.Recommend([]model.PerformanceMetric{
		{Service: "fitneaseauth", AvgResponseTimeMs: 2000, ErrorRate: 5},
	})
	assert.Empty(t, recs)

	recs = engine.Recommend([]model.PerformanceMetric{
		{Service: "fitneaseauth", AvgResponseTimeMs: 2000.01, ErrorRate: 5.01},
	})
	assert.Len(t, recs, 2)
}

func TestRecommend_PreservesInputOrder(t *testing.T) {
	engine := NewRecommendationEngine()

	recs := engine.Recommend([]model.PerformanceMetric{
		{Service: "a", AvgResponseTimeMs: 3000},
		{Service: "b", ErrorRate: 50},
		{Service: "c", AvgResponseTimeMs: 100, ErrorRate: 1},
	})

	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].Service)
	assert.Equal(t, "b", recs[1].Service)
}

func TestRecommend_EmptyInput(t *testing.T) {
	engine := NewRecommendationEngine()
	assert.Empty(t, engine.Recommend(nil))
}
