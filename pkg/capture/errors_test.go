package capture

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFault_Error(t *testing.T) {
	t.Parallel()

	fault := &Fault{
		Code:   FaultCodeNotFound,
		Title:  string(FaultKindNotFound),
		Detail: "document abc not found",
	}

	assert.Equal(t, "NotFoundFault: document abc not found (code: 10010)", fault.Error())
}

func TestFault_Kind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code     int
		expected FaultKind
	}{
		{code: FaultCodeRemote, expected: FaultKindRemote},
		{code: FaultCodeInvalidSession, expected: FaultKindRemote},
		{code: FaultCodeNotFound, expected: FaultKindNotFound},
		{code: FaultCodeInvalidOperation, expected: FaultKindInvalidOperation},
		{code: FaultCodePrecondition, expected: FaultKindPrecondition},
		{code: 99999, expected: FaultKindRemote},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			t.Parallel()

			fault := &Fault{Code: tt.code}
			assert.Equal(t, tt.expected, fault.Kind())
		})
	}
}

func TestNewFault(t *testing.T) {
	t.Parallel()

	for _, kind := range []FaultKind{FaultKindRemote, FaultKindNotFound, FaultKindInvalidOperation, FaultKindPrecondition} {
		fault := NewFault(kind, "detail")
		assert.Equal(t, kind, fault.Kind())
		assert.Equal(t, string(kind), fault.Title)
		assert.Equal(t, "detail", fault.Detail)
	}
}

func TestFaultResponse_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		response *FaultResponse
		expected string
	}{
		{
			name:     "no faults",
			response: &FaultResponse{StatusCode: 502},
			expected: "unknown fault (status 502)",
		},
		{
			name: "single fault",
			response: &FaultResponse{
				Faults: []Fault{{Code: FaultCodePrecondition, Title: "PreconditionFault", Detail: "document is invalid"}},
			},
			expected: "PreconditionFault: document is invalid (code: 10030)",
		},
		{
			name: "multiple faults",
			response: &FaultResponse{
				Faults: []Fault{
					{Code: FaultCodeNotFound, Title: "NotFoundFault", Detail: "a"},
					{Code: FaultCodeRemote, Title: "RemoteFault", Detail: "b"},
				},
			},
			expected: "multiple faults:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Contains(t, tt.response.Error(), tt.expected)
		})
	}
}

func TestParseFaultResponse(t *testing.T) {
	t.Parallel()

	response, err := ParseFaultResponse([]byte(`{"faults":[{"code":10020,"title":"InvalidOperationFault","detail":"level change"}]}`))
	require.NoError(t, err)
	require.NotNil(t, response.FirstFault())
	assert.Equal(t, FaultKindInvalidOperation, response.FirstFault().Kind())

	_, err = ParseFaultResponse([]byte(`<html>`))
	require.Error(t, err)

	assert.Nil(t, (&FaultResponse{}).FirstFault())
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestFaultPredicates(t *testing.T) {
	t.Parallel()

	wrap := func(err error) error {
		return fmt.Errorf("getting document: %w", err)
	}

	notFound := wrap(&FaultResponse{StatusCode: 404, Faults: []Fault{*NewFault(FaultKindNotFound, "gone")}})
	invalidOperation := wrap(NewFault(FaultKindInvalidOperation, "level change"))
	precondition := wrap(NewFault(FaultKindPrecondition, "invalid document"))
	remote := wrap(NewFault(FaultKindRemote, "boom"))
	session := wrap(&Fault{Code: FaultCodeInvalidSession, Title: "InvalidSession", Detail: "expired"})
	plain := errors.New("connection refused")

	t.Run("remote fault matches every fault", func(t *testing.T) {
		t.Parallel()

		for _, err := range []error{notFound, invalidOperation, precondition, remote, session} {
			assert.True(t, IsRemoteFault(err), err.Error())
		}

		assert.False(t, IsRemoteFault(plain))
		assert.False(t, IsRemoteFault(nil))
	})

	t.Run("kinds are distinct", func(t *testing.T) {
		t.Parallel()

		assert.True(t, IsNotFound(notFound))
		assert.False(t, IsNotFound(invalidOperation))
		assert.True(t, IsInvalidOperation(invalidOperation))
		assert.False(t, IsInvalidOperation(precondition))
		assert.True(t, IsPrecondition(precondition))
		assert.False(t, IsPrecondition(remote))
		assert.True(t, IsInvalidSession(session))
		assert.False(t, IsInvalidSession(remote))
	})

	t.Run("fault kind of", func(t *testing.T) {
		t.Parallel()

		kind, ok := FaultKindOf(notFound)
		assert.True(t, ok)
		assert.Equal(t, FaultKindNotFound, kind)

		_, ok = FaultKindOf(plain)
		assert.False(t, ok)
	})

	t.Run("ignore fault", func(t *testing.T) {
		t.Parallel()

		require.NoError(t, IgnoreFault(notFound, FaultKindNotFound))
		require.Equal(t, precondition, IgnoreFault(precondition, FaultKindNotFound))
		require.Equal(t, plain, IgnoreFault(plain, FaultKindNotFound))
		require.NoError(t, IgnoreFault(nil, FaultKindNotFound))
	})
}
