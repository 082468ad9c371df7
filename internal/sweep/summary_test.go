package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexify-app/lexify/internal/lifecycle"
)

func TestSummary_CountsPerBucket(t *testing.T) {
	var s Summary
	s.count(lifecycle.BucketNoOffersExpired)
	s.count(lifecycle.BucketOnHoldManual)
	s.count(lifecycle.BucketOnHoldManual)
	s.count(lifecycle.BucketAutoAwarded)
	s.count(lifecycle.BucketOnHoldOverBudget)
	s.count(lifecycle.BucketOnHoldExpired)
	s.count(lifecycle.Bucket("unknown")) // ignored

	assert.Equal(t, 1, s.NoOffersExpired)
	assert.Equal(t, 2, s.OnHoldManual)
	assert.Equal(t, 1, s.AutoAwarded)
	assert.Equal(t, 1, s.OnHoldOverBudget)
	assert.Equal(t, 1, s.OnHoldExpired)
	assert.Equal(t, 0, s.Errors)
}
