package version

import (
	"fmt"
	"time"
)

// Заполняются через -ldflags "-X battlemap-engine/internal/version.Version=..."
var (
	Version     = "dev"
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
)

// Info describes the build metadata in structured form.
type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate,omitempty"`
	Commit    string `json:"commit,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ParseBuildDate проверяет BuildDate. Пустая дата - локальная сборка.
func ParseBuildDate(date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, fmt.Errorf("BuildDate is empty")
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid BuildDate %q: %w", date, err)
	}
	return t, nil
}

// Get returns structured version information.
// Safe to call at any time.
func Get() Info {
	info := Info{
		Version:   Version,
		BuildDate: BuildDate,
		Commit:    BuildCommit,
	}
	if BuildDate != "" {
		if _, err := ParseBuildDate(BuildDate); err != nil {
			info.Error = err.Error()
		}
	}
	return info
}

// String returns a human-readable build string.
func (i Info) String() string {
	if i.Error != "" {
		return fmt.Sprintf("mapgeom %s (%s)", i.Version, i.Error)
	}
	return fmt.Sprintf(
		"mapgeom %s built[%s] commit[%s]",
		i.Version,
		coalesce(i.BuildDate, "local"),
		coalesce(i.Commit, "unknown"),
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
