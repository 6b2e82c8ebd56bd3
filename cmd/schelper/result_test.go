package main

import (
	"bytes"
	"testing"

	"github.com/osa030/schelper/internal/channel"
	"github.com/stretchr/testify/assert"
)

func TestPrintResult(t *testing.T) {
	tests := []struct {
		name       string
		result     channel.Result
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "success",
			result:     channel.Success{Value: "Europe/Moscow"},
			wantCode:   exitSuccess,
			wantStdout: "Europe/Moscow\n",
		},
		{
			name:       "failure",
			result:     channel.Failure{Code: channel.ErrorCode, Message: "no timezone source succeeded"},
			wantCode:   exitFailure,
			wantStderr: "error: no timezone source succeeded\n",
		},
		{
			name:       "not implemented",
			result:     channel.NotImplemented{Method: "getFoo"},
			wantCode:   exitNotImplemented,
			wantStderr: "not implemented: getFoo\n",
		},
		{
			name:       "nil result",
			result:     nil,
			wantCode:   exitFailure,
			wantStderr: "unexpected result <nil>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := printResult(&stdout, &stderr, tt.result)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStdout, stdout.String())
			assert.Equal(t, tt.wantStderr, stderr.String())
		})
	}
}
