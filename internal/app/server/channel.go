package server

import (
	"context"

	"github.com/osa030/schelper/internal/channel"
	"github.com/osa030/schelper/internal/timezone"
)

// ChannelName identifies the channel to the host.
const ChannelName = "schelper/timezone"

// NewTimezoneChannel binds getTimeZone to resolver.
func NewTimezoneChannel(resolver *timezone.Resolver) *channel.Channel {
	ch := channel.New(ChannelName)
	ch.Register(channel.MethodGetTimeZone, func(ctx context.Context, call channel.Call) (any, error) {
		return resolver.Resolve(ctx)
	})
	return ch
}
