package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionStatusValid(t *testing.T) {
	assert.True(t, SubmissionPending.Valid())
	assert.True(t, SubmissionApproved.Valid())
	assert.True(t, SubmissionRejected.Valid())
	assert.False(t, SubmissionStatus("archived").Valid())
	assert.False(t, SubmissionStatus("").Valid())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from SubmissionStatus
		to   SubmissionStatus
		want bool
	}{
		{"pending to approved", SubmissionPending, SubmissionApproved, true},
		{"pending to rejected", SubmissionPending, SubmissionRejected, true},
		{"pending to pending", SubmissionPending, SubmissionPending, false},
		{"approved is terminal", SubmissionApproved, SubmissionRejected, false},
		{"rejected is terminal", SubmissionRejected, SubmissionApproved, false},
		{"approved cannot revert", SubmissionApproved, SubmissionPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}
