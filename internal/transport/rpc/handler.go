// Package rpc exposes the timezone channel as a connect service built on
// protobuf well-known types, and provides the matching client.
package rpc

import (
	"context"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/osa030/schelper/internal/channel"
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName = "schelper.timezone.v1.TimezoneChannel"

	GetTimeZoneProcedure = "/" + ServiceName + "/GetTimeZone"
	InvokeProcedure      = "/" + ServiceName + "/Invoke"

	detailCodeField    = "code"
	detailMessageField = "message"
)

type Handler struct {
	channel *channel.Channel
}

func NewHandler(ch *channel.Channel) *Handler {
	return &Handler{channel: ch}
}

// SetupRoutes mounts both procedures. Unknown procedures fall through to the
// router's 404, which connect clients report as unimplemented.
func (h *Handler) SetupRoutes(router chi.Router, opts ...connect.HandlerOption) {
	router.Handle(GetTimeZoneProcedure, connect.NewUnaryHandler(GetTimeZoneProcedure, h.getTimeZone, opts...))
	router.Handle(InvokeProcedure, connect.NewUnaryHandler(InvokeProcedure, h.invoke, opts...))
}

func (h *Handler) getTimeZone(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[wrapperspb.StringValue], error) {
	result := h.channel.Dispatch(ctx, channel.Call{Method: string(channel.MethodGetTimeZone)})
	success, ok := result.(channel.Success)
	if !ok {
		return nil, resultError(result)
	}
	name, ok := success.Value.(string)
	if !ok {
		return nil, connect.NewError(connect.CodeInternal, errors.Newf("timezone has unexpected type %T", success.Value))
	}
	return connect.NewResponse(wrapperspb.String(name)), nil
}

func (h *Handler) invoke(ctx context.Context, req *connect.Request[wrapperspb.StringValue]) (*connect.Response[structpb.Value], error) {
	method := req.Msg.GetValue()
	zlog.Debug().Msgf("RPC invoke: %s", method)

	result := h.channel.Dispatch(ctx, channel.Call{Method: method})
	success, ok := result.(channel.Success)
	if !ok {
		return nil, resultError(result)
	}
	value, err := structpb.NewValue(success.Value)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, errors.Wrap(err, "encode result"))
	}
	return connect.NewResponse(value), nil
}

// resultError maps NotImplemented to CodeUnimplemented and Failure to
// CodeInternal with a {code, message} struct detail.
func resultError(result channel.Result) error {
	switch r := result.(type) {
	case channel.NotImplemented:
		return connect.NewError(connect.CodeUnimplemented, errors.Newf("method %s is not implemented", r.Method))
	case channel.Failure:
		connectErr := connect.NewError(connect.CodeInternal, errors.New(r.Message))
		detail, err := structpb.NewStruct(map[string]any{
			detailCodeField:    r.Code,
			detailMessageField: r.Message,
		})
		if err != nil {
			zlog.Error().Msgf("Error building failure detail: %v", err)
			return connectErr
		}
		errDetail, err := connect.NewErrorDetail(detail)
		if err != nil {
			zlog.Error().Msgf("Error building failure detail: %v", err)
			return connectErr
		}
		connectErr.AddDetail(errDetail)
		return connectErr
	}
	return connect.NewError(connect.CodeInternal, errors.Newf("unexpected result %T", result))
}
