//go:build android

package timezone

import (
	"context"
	"time"

	zlog "github.com/rs/zerolog/log"
)

// DefaultStrategies returns the system property source, falling back to
// the legacy abbreviation source.
func DefaultStrategies() []Strategy {
	return []Strategy{
		FromSystemProperty(nil),
		FromZoneAbbreviation(nil),
	}
}

// Init sets time.Local to the device's timezone on Android.
// On Android, time.Local defaults to UTC. If detection fails, time.Local
// remains UTC.
func Init() {
	name, err := NewDefaultResolver().Resolve(context.Background())
	if err != nil {
		zlog.Debug().Msgf("Keeping UTC as local timezone: %v", err)
		return
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return
	}

	time.Local = loc
}
