package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Next(t *testing.T) {
	testCases := map[string]struct {
		from          Status
		transition    Transition
		expected      Status
		expectedError string
	}{
		"should process a created order": {
			from:       StatusCreated,
			transition: TransitionProcess,
			expected:   StatusInProgress,
		},
		"should treat empty status as created": {
			from:       "",
			transition: TransitionProcess,
			expected:   StatusInProgress,
		},
		"should serve an order in progress": {
			from:       StatusInProgress,
			transition: TransitionServe,
			expected:   StatusServed,
		},
		"should deliver a served order": {
			from:       StatusServed,
			transition: TransitionDeliver,
			expected:   StatusDelivered,
		},
		"should cancel a served order": {
			from:       StatusServed,
			transition: TransitionCancel,
			expected:   StatusCancelled,
		},
		"should reject serving a created order": {
			from:          StatusCreated,
			transition:    TransitionServe,
			expectedError: "no se puede aplicar serve a un pedido en estado CREATED",
		},
		"should reject cancelling a delivered order": {
			from:          StatusDelivered,
			transition:    TransitionCancel,
			expectedError: "no se puede aplicar cancel a un pedido en estado DELIVERED",
		},
		"should reject cancelling a cancelled order": {
			from:          StatusCancelled,
			transition:    TransitionCancel,
			expectedError: "no se puede aplicar cancel a un pedido en estado CANCELLED",
		},
		"should reject unknown transition": {
			from:          StatusCreated,
			transition:    Transition("reopen"),
			expectedError: `unknown transition "reopen"`,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			next, err := tc.from.Next(tc.transition)
			if tc.expectedError != "" {
				require.Error(t, err)
				assert.Equal(t, tc.expectedError, err.Error())
				assert.Empty(t, next)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, next)
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.False(t, Status("").Terminal())
	assert.False(t, StatusServed.Terminal())
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, Status("").Valid())
	assert.True(t, StatusInProgress.Valid())
	assert.False(t, Status("PENDING").Valid())
}

func TestParseTransition(t *testing.T) {
	tr, ok := ParseTransition("deliver")
	assert.True(t, ok)
	assert.Equal(t, TransitionDeliver, tr)

	_, ok = ParseTransition("refund")
	assert.False(t, ok)
}
