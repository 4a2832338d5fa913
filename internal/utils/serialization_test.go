package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sessionFixture struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	original := sessionFixture{UserID: "abc-123", Role: "client"}

	data, err := SerializeModel(original)
	assert.NoError(t, err)
	assert.NotEmpty(t, data)

	var restored sessionFixture
	assert.NoError(t, DeserializeModel(data, &restored))
	assert.Equal(t, original, restored)
}

func TestSerializeModelRejectsNilPointer(t *testing.T) {
	var fixture *sessionFixture
	_, err := SerializeModel(fixture)
	assert.Error(t, err)
}

func TestDeserializeModelRejectsEmptyData(t *testing.T) {
	var fixture sessionFixture
	assert.Error(t, DeserializeModel(nil, &fixture))
	assert.Error(t, DeserializeModel([]byte{}, &fixture))
}

func TestDeserializeModelRejectsGarbage(t *testing.T) {
	var fixture sessionFixture
	assert.Error(t, DeserializeModel([]byte("{not json"), &fixture))
}
