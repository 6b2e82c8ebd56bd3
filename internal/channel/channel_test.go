package channel_test

import (
	"context"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/osa030/schelper/internal/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	m, ok := channel.ParseMethod("getTimeZone")
	assert.True(t, ok)
	assert.Equal(t, channel.MethodGetTimeZone, m)

	for _, name := range []string{"", "getFoo", "GetTimeZone", "gettimezone"} {
		_, ok := channel.ParseMethod(name)
		assert.False(t, ok, name)
	}
}

func TestDispatch(t *testing.T) {
	ch := channel.New("test/timezone")
	ch.Register(channel.MethodGetTimeZone, func(ctx context.Context, call channel.Call) (any, error) {
		return "Europe/Moscow", nil
	})

	tests := []struct {
		name   string
		method string
		want   channel.Result
	}{
		{
			name:   "known method",
			method: "getTimeZone",
			want:   channel.Success{Value: "Europe/Moscow"},
		},
		{
			name:   "unknown method",
			method: "getFoo",
			want:   channel.NotImplemented{Method: "getFoo"},
		},
		{
			name:   "empty method",
			method: "",
			want:   channel.NotImplemented{Method: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ch.Dispatch(context.Background(), channel.Call{Method: tt.method})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDispatchUnboundMethod(t *testing.T) {
	ch := channel.New("test/empty")

	got := ch.Dispatch(context.Background(), channel.Call{Method: "getTimeZone"})
	assert.Equal(t, channel.NotImplemented{Method: "getTimeZone"}, got)
}

func TestDispatchFailure(t *testing.T) {
	ch := channel.New("test/failing")
	ch.Register(channel.MethodGetTimeZone, func(ctx context.Context, call channel.Call) (any, error) {
		return "Europe/Moscow", errors.New("zone database unreadable")
	})

	got := ch.Dispatch(context.Background(), channel.Call{Method: "getTimeZone"})
	failure, ok := got.(channel.Failure)
	require.True(t, ok, "expected Failure, got %T", got)
	assert.Equal(t, channel.ErrorCode, failure.Code)
	assert.Equal(t, "zone database unreadable", failure.Message)
	assert.Nil(t, failure.Details)
}

func TestDispatchPanic(t *testing.T) {
	ch := channel.New("test/panicking")
	ch.Register(channel.MethodGetTimeZone, func(ctx context.Context, call channel.Call) (any, error) {
		panic("boom")
	})

	got := ch.Dispatch(context.Background(), channel.Call{Method: "getTimeZone"})
	failure, ok := got.(channel.Failure)
	require.True(t, ok, "expected Failure, got %T", got)
	assert.Equal(t, channel.ErrorCode, failure.Code)
	assert.Contains(t, failure.Message, "boom")
}

func TestRegisterReplaces(t *testing.T) {
	ch := channel.New("test/replace")
	ch.Register(channel.MethodGetTimeZone, func(ctx context.Context, call channel.Call) (any, error) {
		return "Europe/Moscow", nil
	})
	ch.Register(channel.MethodGetTimeZone, func(ctx context.Context, call channel.Call) (any, error) {
		return "Asia/Tokyo", nil
	})

	got := ch.Dispatch(context.Background(), channel.Call{Method: "getTimeZone"})
	assert.Equal(t, channel.Success{Value: "Asia/Tokyo"}, got)
}

func TestDispatchConcurrent(t *testing.T) {
	ch := channel.New("test/concurrent")
	ch.Register(channel.MethodGetTimeZone, func(ctx context.Context, call channel.Call) (any, error) {
		return "UTC", nil
	})

	var wg sync.WaitGroup
	results := make([]channel.Result, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ch.Dispatch(context.Background(), channel.Call{Method: "getTimeZone"})
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, channel.Success{Value: "UTC"}, r)
	}
}
