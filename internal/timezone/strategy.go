package timezone

import (
	"bufio"
	"bytes"
	"context"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	etcLocaltime = "/etc/localtime"
	etcTimezone  = "/etc/timezone"

	getpropPath      = "/system/bin/getprop"
	timezoneProperty = "persist.sys.timezone"
)

// zoneinfoDirs are the zone database roots that /etc/localtime may point into.
var zoneinfoDirs = []string{
	"/usr/share/zoneinfo",
	"/var/db/timezone/zoneinfo", // darwin, itself a symlink
}

// CommandRunner runs an external command and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// FromEnv reads the zone from an environment variable such as TZ.
// Set but empty means UTC. An absolute zone file path is reported by its
// name within the zone database.
func FromEnv(key string) Strategy {
	return NewStrategy("env:"+key, func(ctx context.Context) (string, error) {
		value, found := os.LookupEnv(key)
		if !found {
			return "", errors.Wrapf(ErrUnavailable, "%s not set", key)
		}
		// POSIX allows a leading colon before a zone file name.
		value = strings.TrimPrefix(strings.TrimSpace(value), ":")
		if value == "" {
			return UTC, nil
		}
		if filepath.IsAbs(value) {
			// Links inside the database are not followed: the path names the zone.
			name, ok := zoneFromPath(filepath.Clean(value), zoneinfoDirs)
			if !ok {
				return "", errors.Newf("%s is outside the zone database: %s", key, value)
			}
			return name, nil
		}
		return value, nil
	})
}

// FromLocaltime derives the zone from the target of a localtime symlink
// relative to the zone database directory.
func FromLocaltime(link string, dirs ...string) Strategy {
	if len(dirs) == 0 {
		dirs = zoneinfoDirs
	}
	return NewStrategy("localtime", func(ctx context.Context) (string, error) {
		target, err := filepath.EvalSymlinks(link)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", errors.Wrapf(ErrUnavailable, "%s does not exist", link)
			}
			return "", errors.Wrapf(err, "read location of %s", link)
		}

		name, ok := zoneFromPath(target, dirs)
		if !ok {
			return "", errors.Newf("%s points outside the zone database: %s", link, target)
		}
		return name, nil
	})
}

// zoneFromPath names the zone file at path, relative to the first of dirs
// containing it or else to its last zoneinfo component.
func zoneFromPath(path string, dirs []string) (string, bool) {
	for _, dir := range dirs {
		realDir, err := filepath.EvalSymlinks(dir)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(realDir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		return trimZoneVariant(filepath.ToSlash(rel)), true
	}

	slashed := filepath.ToSlash(path)
	if idx := strings.LastIndex(slashed, "/zoneinfo/"); idx >= 0 {
		return trimZoneVariant(slashed[idx+len("/zoneinfo/"):]), true
	}
	return "", false
}

// trimZoneVariant drops the posix/ and right/ subtrees some distributions link into.
func trimZoneVariant(name string) string {
	for _, prefix := range []string{"posix/", "right/"} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

// FromFile reads the zone name from the first line of a file such as
// /etc/timezone.
func FromFile(path string) Strategy {
	return NewStrategy("file:"+path, func(ctx context.Context) (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", errors.Wrapf(ErrUnavailable, "%s does not exist", path)
			}
			return "", errors.Wrapf(err, "read %s", path)
		}
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
				return line, nil
			}
		}
		return "", errors.Wrapf(ErrUnavailable, "%s is empty", path)
	})
}

// FromSystemProperty asks Android's getprop for persist.sys.timezone.
// A nil runner executes the real command.
func FromSystemProperty(runner CommandRunner) Strategy {
	if runner == nil {
		runner = execRunner
	}
	return NewStrategy("getprop", func(ctx context.Context) (string, error) {
		output, err := runner(ctx, getpropPath, timezoneProperty)
		if err != nil {
			if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
				return "", errors.Wrapf(ErrUnavailable, "%s not found", getpropPath)
			}
			return "", errors.Wrapf(err, "getprop %s", timezoneProperty)
		}
		name := strings.TrimSpace(string(output))
		if name == "" {
			return "", errors.Wrapf(ErrUnavailable, "%s is not set", timezoneProperty)
		}
		return name, nil
	})
}

// FromZoneAbbreviation is the legacy source: the abbreviation of the local
// zone, accepted only when it is itself a zone name such as UTC or EST.
// A nil now uses time.Now.
func FromZoneAbbreviation(now func() time.Time) Strategy {
	if now == nil {
		now = time.Now
	}
	return NewStrategy("abbreviation", func(ctx context.Context) (string, error) {
		abbr, _ := now().Zone()
		if abbr == "" {
			return "", errors.Wrap(ErrUnavailable, "local zone has no abbreviation")
		}
		if _, err := time.LoadLocation(abbr); err != nil {
			return "", errors.Wrapf(ErrUnavailable, "abbreviation %q is not a zone name", abbr)
		}
		return abbr, nil
	})
}
