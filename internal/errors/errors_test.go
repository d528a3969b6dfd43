package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCodes(t *testing.T) {
	codes := []string{
		ErrConfig,
		ErrNetwork,
		ErrHTTP,
		ErrDecode,
		ErrMetric,
		ErrServer,
	}

	seen := make(map[string]bool)
	for _, code := range codes {
		assert.NotEmpty(t, code, "error code should not be empty")
		assert.False(t, seen[code], "error code %q should be unique", code)
		seen[code] = true
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		message    string
		suggestion string
	}{
		{
			name:       "config error",
			code:       ErrConfig,
			message:    "Invalid configuration in .sysinsight.yaml",
			suggestion: "Check your configuration file syntax",
		},
		{
			name:       "http error",
			code:       ErrHTTP,
			message:    "HTTP 503",
			suggestion: "Check the metrics API logs",
		},
		{
			name:       "decode error",
			code:       ErrDecode,
			message:    "Metrics payload is not a JSON object",
			suggestion: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, tt.suggestion)

			require.NotNil(t, err)
			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.suggestion, err.Suggestion)
			assert.Nil(t, err.Cause)
		})
	}
}

func TestError_Format(t *testing.T) {
	t.Run("message only", func(t *testing.T) {
		err := New(ErrConfig, "Bad config", "")
		assert.Equal(t, "✗ Bad config\n", err.Error())
	})

	t.Run("message cause and suggestion", func(t *testing.T) {
		err := WrapWithCode(fmt.Errorf("connection refused"), ErrNetwork, "Can't reach metrics API", "Start it with 'sysinsight serve'")
		out := err.Error()
		assert.True(t, strings.HasPrefix(out, "✗ Can't reach metrics API\n"))
		assert.Contains(t, out, "\n  connection refused\n")
		assert.Contains(t, out, "\n  Start it with 'sysinsight serve'\n")
	})
}

func TestWrap_DefaultsToNetwork(t *testing.T) {
	cause := fmt.Errorf("dial tcp: i/o timeout")
	err := Wrap(cause, "Request failed")

	assert.Equal(t, ErrNetwork, err.Code)
	assert.True(t, errors.Is(err, cause))
}

func TestIsCode(t *testing.T) {
	err := WrapWithCode(fmt.Errorf("boom"), ErrDecode, "bad payload", "")
	wrapped := fmt.Errorf("cycle 3: %w", err)

	assert.True(t, IsCode(err, ErrDecode))
	assert.True(t, IsCode(wrapped, ErrDecode))
	assert.False(t, IsCode(wrapped, ErrHTTP))
	assert.False(t, IsCode(nil, ErrDecode))
	assert.False(t, IsCode(fmt.Errorf("plain"), ErrDecode))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"network", New(ErrNetwork, "x", ""), KindNetwork},
		{"http", New(ErrHTTP, "x", ""), KindHTTPStatus},
		{"decode", New(ErrDecode, "x", ""), KindDecode},
		{"partial", New(ErrMetric, "x", ""), KindPartialMetric},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), KindNetwork},
		{"canceled", context.Canceled, KindNetwork},
		{"config is not a fetch kind", New(ErrConfig, "x", ""), KindUnknown},
		{"plain", fmt.Errorf("plain"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "", Summary(nil))
	assert.Equal(t, "HTTP 500", Summary(New(ErrHTTP, "HTTP 500", "retrying")))
	assert.Equal(t, "Request failed: refused", Summary(Wrap(fmt.Errorf("refused"), "Request failed")))
	assert.Equal(t, "plain", Summary(fmt.Errorf("plain")))
}
