package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCollectionResponse(t *testing.T) {
	items := []string{"a", "b", "c"}

	resp := CreateCollectionResponse("claims", items, len(items))

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)

	data, ok := resp.Data.(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, items, data["claims"])
	assert.Equal(t, 3, data["count"])
}

func TestCreateErrorResponse(t *testing.T) {
	resp := CreateErrorResponse("NOT_FOUND", "Claim not found")

	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "Claim not found", resp.Error.Message)
}
