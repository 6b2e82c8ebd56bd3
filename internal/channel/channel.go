// Package channel dispatches named calls from a host runtime to Go handlers
// and converts every outcome into an explicit Result.
package channel

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/puzpuzpuz/xsync/v3"
	zlog "github.com/rs/zerolog/log"
)

// ErrorCode is the code carried by every Failure.
const ErrorCode = "error"

// Method is a call the channel knows about.
type Method string

const (
	MethodGetTimeZone Method = "getTimeZone"
)

var methods = map[string]Method{
	string(MethodGetTimeZone): MethodGetTimeZone,
}

// ParseMethod maps a call name onto the closed set of methods.
func ParseMethod(name string) (Method, bool) {
	m, ok := methods[name]
	return m, ok
}

// Call is a single invocation arriving from the host.
type Call struct {
	Method    string
	Arguments map[string]any
}

// Result is one of Success, Failure or NotImplemented.
type Result interface {
	isResult()
}

type Success struct {
	Value any
}

// Failure reports that the handler ran and failed. Details is unused and
// always nil.
type Failure struct {
	Code    string
	Message string
	Details any
}

// NotImplemented reports that the channel has no handler for the method.
type NotImplemented struct {
	Method string
}

func (Success) isResult()        {}
func (Failure) isResult()        {}
func (NotImplemented) isResult() {}

// Handler serves one method.
type Handler func(ctx context.Context, call Call) (any, error)

type Channel struct {
	name     string
	handlers *xsync.MapOf[Method, Handler]
}

func New(name string) *Channel {
	return &Channel{
		name:     name,
		handlers: xsync.NewMapOf[Method, Handler](),
	}
}

func (c *Channel) Name() string {
	return c.name
}

// Register binds h to m, replacing any previous handler.
func (c *Channel) Register(m Method, h Handler) {
	c.handlers.Store(m, h)
	zlog.Debug().Msgf("Channel %s: registered %s", c.name, m)
}

// Dispatch runs the handler for call.Method. Unknown or unbound methods
// yield NotImplemented; handler errors and panics yield Failure.
func (c *Channel) Dispatch(ctx context.Context, call Call) Result {
	m, ok := ParseMethod(call.Method)
	if !ok {
		zlog.Warn().Msgf("Channel %s: method not implemented: %s", c.name, call.Method)
		return NotImplemented{Method: call.Method}
	}
	h, ok := c.handlers.Load(m)
	if !ok {
		zlog.Warn().Msgf("Channel %s: no handler bound for %s", c.name, m)
		return NotImplemented{Method: call.Method}
	}

	value, err := invoke(ctx, h, call)
	if err != nil {
		zlog.Error().Msgf("Channel %s: %s failed: %v", c.name, m, err)
		return NewFailure(err)
	}
	zlog.Info().Msgf("Channel %s: %s succeeded", c.name, m)
	return Success{Value: value}
}

func invoke(ctx context.Context, h Handler, call Call) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("handler panicked: %s", fmt.Sprint(r))
		}
	}()
	return h(ctx, call)
}

// NewFailure converts err into a Failure carrying its message.
func NewFailure(err error) Failure {
	return Failure{
		Code:    ErrorCode,
		Message: err.Error(),
	}
}
