// Package timezone resolves the device's configured timezone to its IANA
// identifier, trying platform sources in order of precision.
package timezone

import (
	"context"
	"strings"
	"time"
	_ "time/tzdata" // Embed timezone database so names validate on every device

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// UTC is the canonical form reported for every UTC alias.
const UTC = "UTC"

var (
	// ErrLookupFailure marks every error returned by Resolver.Resolve.
	ErrLookupFailure = errors.New("timezone lookup failed")
	// ErrUnavailable is returned by a strategy whose source does not exist
	// on this device.
	ErrUnavailable = errors.New("timezone source unavailable")
)

var utcAliases = map[string]struct{}{
	"Etc/UTC":       {},
	"Etc/UCT":       {},
	"UCT":           {},
	"Etc/Universal": {},
	"Universal":     {},
	"Etc/Zulu":      {},
	"Zulu":          {},
}

// Strategy is one source of the device timezone.
type Strategy interface {
	Name() string
	Lookup(ctx context.Context) (string, error)
}

type strategyFunc struct {
	name string
	fn   func(ctx context.Context) (string, error)
}

func (s strategyFunc) Name() string { return s.name }

func (s strategyFunc) Lookup(ctx context.Context) (string, error) { return s.fn(ctx) }

// NewStrategy adapts a function to the Strategy interface.
func NewStrategy(name string, fn func(ctx context.Context) (string, error)) Strategy {
	return strategyFunc{name: name, fn: fn}
}

// Resolver tries its strategies in order and returns the first valid
// identifier.
type Resolver struct {
	strategies []Strategy
}

// NewResolver returns a resolver using the given strategies, most precise first.
func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// NewDefaultResolver returns a resolver using the strategies for the current platform.
func NewDefaultResolver() *Resolver {
	return NewResolver(DefaultStrategies()...)
}

// Resolve returns the canonical identifier of the device timezone.
// Nothing is guessed: if no strategy yields a valid name the error is
// marked with ErrLookupFailure.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	var failures []string
	for _, s := range r.strategies {
		if err := ctx.Err(); err != nil {
			return "", errors.Mark(errors.Wrap(err, "resolve timezone"), ErrLookupFailure)
		}

		name, err := s.Lookup(ctx)
		if err == nil {
			name, err = Canonicalize(name)
		}
		if err != nil {
			zlog.Debug().Msgf("Timezone strategy %s skipped: %v", s.Name(), err)
			failures = append(failures, s.Name()+": "+err.Error())
			continue
		}

		zlog.Debug().Msgf("Timezone resolved by %s: %s", s.Name(), name)
		return name, nil
	}

	if len(failures) == 0 {
		return "", errors.Mark(errors.New("no timezone strategies configured"), ErrLookupFailure)
	}
	return "", errors.Mark(errors.Newf("no timezone source succeeded (%s)", strings.Join(failures, "; ")), ErrLookupFailure)
}

// Canonicalize validates name against the zone database and maps UTC
// aliases to UTC.
func Canonicalize(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("empty timezone name")
	}
	if _, ok := utcAliases[name]; ok {
		return UTC, nil
	}
	// LoadLocation accepts "Local", which names no zone.
	if name == "Local" {
		return "", errors.Newf("invalid timezone name %q", name)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return "", errors.Wrapf(err, "invalid timezone name %q", name)
	}
	return loc.String(), nil
}
