package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseContractStatus(t *testing.T) {
	for _, raw := range []string{"pending", "active", "completed", "cancelled"} {
		status, ok := ParseContractStatus(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, ContractStatus(raw), status)
	}

	for _, raw := range []string{"", "Active", "PENDING", "paused", "done"} {
		_, ok := ParseContractStatus(raw)
		assert.False(t, ok, raw)
	}
}

func TestContractStatusTransitions(t *testing.T) {
	cases := []struct {
		from    ContractStatus
		to      ContractStatus
		allowed bool
	}{
		{ContractStatusPending, ContractStatusActive, true},
		{ContractStatusPending, ContractStatusCancelled, true},
		{ContractStatusPending, ContractStatusCompleted, false},
		{ContractStatusPending, ContractStatusPending, false},
		{ContractStatusActive, ContractStatusCompleted, true},
		{ContractStatusActive, ContractStatusCancelled, true},
		{ContractStatusActive, ContractStatusPending, false},
		{ContractStatusCompleted, ContractStatusActive, false},
		{ContractStatusCompleted, ContractStatusCancelled, false},
		{ContractStatusCancelled, ContractStatusActive, false},
		{ContractStatusCancelled, ContractStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}
