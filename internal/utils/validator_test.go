package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	QuestionID string `json:"questionId" validate:"required,len=24,hexadecimal"`
	Content    string `json:"content"    validate:"required,max=5"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(sample{QuestionID: "66c62a0b9d1e4f0012345678", Content: "hi"}))

	err := ValidateStruct(sample{Content: "too long"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "questionId is required")
		assert.Contains(t, err.Error(), "content must be at most 5")
	}

	err = ValidateStruct(sample{QuestionID: "zz", Content: "ok"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "questionId")
	}
}
