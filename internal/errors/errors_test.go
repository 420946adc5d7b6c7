package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorRendersAllSections(t *testing.T) {
	err := New(ErrorTypeNetwork, StageFetch, "collection failed").
		WithCause("connection refused").
		WithSolutions("Check network access", "Retry").
		WithVerify("curl -sI https://pricing.us-east-1.amazonaws.com")

	out := err.Error()
	assert.Contains(t, out, "Error: collection failed")
	assert.Contains(t, out, "Cause: connection refused")
	assert.Contains(t, out, "Stage: fetch")
	assert.Contains(t, out, "Check network access")
	assert.Contains(t, out, "Verify: curl")
}

func TestErrorOmitsEmptySections(t *testing.T) {
	out := New(ErrorTypeData, StageBuild, "cannot order the catalog").Error()

	assert.Contains(t, out, "Error: cannot order the catalog")
	assert.NotContains(t, out, "Cause:")
	assert.NotContains(t, out, "Solutions:")
	assert.NotContains(t, out, "Verify:")
}

func TestSolutionsAccumulate(t *testing.T) {
	err := New(ErrorTypeValidation, StageCapture, "bad window").
		WithSolutions("first").
		WithSolutions("second")

	assert.Equal(t, []string{"first", "second"}, err.Solutions)
}
