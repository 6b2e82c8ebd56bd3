package rpc

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/osa030/schelper/internal/channel"
	zlog "github.com/rs/zerolog/log"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var validate = validator.New()

type ClientConfig struct {
	URL string `validate:"required,url"`
}

// Validate validates the configuration.
func (c *ClientConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	return nil
}

type Client struct {
	getTimeZone *connect.Client[emptypb.Empty, wrapperspb.StringValue]
	invoke      *connect.Client[wrapperspb.StringValue, structpb.Value]
}

func NewClient(cfg *ClientConfig, opts ...connect.ClientOption) *Client {
	baseURL := strings.TrimRight(cfg.URL, "/")
	return &Client{
		getTimeZone: connect.NewClient[emptypb.Empty, wrapperspb.StringValue](http.DefaultClient, baseURL+GetTimeZoneProcedure, opts...),
		invoke:      connect.NewClient[wrapperspb.StringValue, structpb.Value](http.DefaultClient, baseURL+InvokeProcedure, opts...),
	}
}

func (c *Client) GetTimeZone(ctx context.Context) (string, error) {
	res, err := c.getTimeZone.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		zlog.Error().Msgf("Error schelper get timezone: %v", err)
		return "", errors.Wrap(err, "error schelper get timezone")
	}
	return res.Msg.GetValue(), nil
}

// Invoke calls method on the remote channel. Failures and unimplemented
// methods come back as results; err is reserved for transport problems.
func (c *Client) Invoke(ctx context.Context, method string) (channel.Result, error) {
	res, err := c.invoke.CallUnary(ctx, connect.NewRequest(wrapperspb.String(method)))
	if err == nil {
		zlog.Debug().Msgf("schelper invoke success: %s", method)
		return channel.Success{Value: res.Msg.AsInterface()}, nil
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		switch connectErr.Code() {
		case connect.CodeUnimplemented:
			return channel.NotImplemented{Method: method}, nil
		case connect.CodeInternal:
			if failure, ok := failureFromDetails(connectErr); ok {
				return failure, nil
			}
		}
	}
	zlog.Error().Msgf("Error schelper invoke %s: %v", method, err)
	return nil, errors.Wrapf(err, "error schelper invoke %s", method)
}

func failureFromDetails(connectErr *connect.Error) (channel.Failure, bool) {
	for _, detail := range connectErr.Details() {
		value, err := detail.Value()
		if err != nil {
			continue
		}
		s, ok := value.(*structpb.Struct)
		if !ok {
			continue
		}
		fields := s.GetFields()
		return channel.Failure{
			Code:    fields[detailCodeField].GetStringValue(),
			Message: fields[detailMessageField].GetStringValue(),
		}, true
	}
	return channel.Failure{}, false
}
