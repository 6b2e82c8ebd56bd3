//go:build !android

package timezone

// DefaultStrategies returns the TZ variable, the /etc/localtime link and
// /etc/timezone, followed by the legacy abbreviation source.
func DefaultStrategies() []Strategy {
	return []Strategy{
		FromEnv("TZ"),
		FromLocaltime(etcLocaltime),
		FromFile(etcTimezone),
		FromZoneAbbreviation(nil),
	}
}

// Init is a no-op on non-Android platforms.
// On these platforms, Go's time package correctly initializes time.Local
// from the system timezone.
func Init() {}
