package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/osa030/schelper/internal/app/server"
	"github.com/osa030/schelper/internal/channel"
	"github.com/osa030/schelper/internal/timezone"
	"github.com/osa030/schelper/internal/transport/rest"
	"github.com/osa030/schelper/internal/transport/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     server.Config
		wantErr bool
	}{
		{name: "valid", cfg: server.Config{Listen: ":8080", ShutdownTimeout: 5 * time.Second}},
		{name: "missing listen", cfg: server.Config{ShutdownTimeout: time.Second}, wantErr: true},
		{name: "zero timeout", cfg: server.Config{Listen: ":8080"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewServerRejectsInvalidConfig(t *testing.T) {
	_, err := server.NewServer(&server.Config{}, channel.New(server.ChannelName))
	assert.Error(t, err)
}

func TestTimezoneChannel(t *testing.T) {
	t.Setenv("SCHELPER_TEST_TZ", "Etc/UTC")
	ch := server.NewTimezoneChannel(timezone.NewResolver(timezone.FromEnv("SCHELPER_TEST_TZ")))

	assert.Equal(t, server.ChannelName, ch.Name())
	assert.Equal(t, channel.Success{Value: "UTC"}, ch.Dispatch(context.Background(), channel.Call{Method: "getTimeZone"}))
	assert.Equal(t, channel.NotImplemented{Method: "getFoo"}, ch.Dispatch(context.Background(), channel.Call{Method: "getFoo"}))
}

func TestTimezoneChannelLookupFailure(t *testing.T) {
	ch := server.NewTimezoneChannel(timezone.NewResolver(timezone.FromEnv("SCHELPER_TEST_TZ_UNSET")))

	got := ch.Dispatch(context.Background(), channel.Call{Method: "getTimeZone"})
	failure, ok := got.(channel.Failure)
	require.True(t, ok, "expected Failure, got %T", got)
	assert.Equal(t, channel.ErrorCode, failure.Code)
	assert.NotEmpty(t, failure.Message)
}

func TestServerEndToEnd(t *testing.T) {
	t.Setenv("SCHELPER_TEST_TZ", "Europe/Moscow")
	ch := server.NewTimezoneChannel(timezone.NewResolver(timezone.FromEnv("SCHELPER_TEST_TZ")))

	srv, err := server.NewServer(&server.Config{Listen: "127.0.0.1:0", ShutdownTimeout: time.Second}, ch)
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	defer srv.Stop()

	baseURL := "http://" + srv.Addr()

	t.Run("rest", func(t *testing.T) {
		res, err := http.Get(baseURL + "/timezone")
		require.NoError(t, err)
		defer res.Body.Close()

		var body rest.TimezoneResponse
		require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "Europe/Moscow", body.Timezone)
	})

	t.Run("rpc", func(t *testing.T) {
		client := rpc.NewClient(&rpc.ClientConfig{URL: baseURL})

		got, err := client.GetTimeZone(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Europe/Moscow", got)

		result, err := client.Invoke(context.Background(), "getFoo")
		require.NoError(t, err)
		assert.Equal(t, channel.NotImplemented{Method: "getFoo"}, result)
	})

	select {
	case err := <-srv.GetError():
		t.Fatalf("unexpected server error: %v", err)
	default:
	}
}
