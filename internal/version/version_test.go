package version

import "testing"

func TestParseBuildDate(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		wantError bool
	}{
		{name: "valid date", date: "2026-10-19"},
		{name: "leap day", date: "2028-02-29"},
		{name: "invalid format", date: "19.10.2026", wantError: true},
		{name: "not a day", date: "2026-02-30", wantError: true},
		{name: "empty date", date: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBuildDate(tt.date)

			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil (date=%v)", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Format("2006-01-02") != tt.date {
				t.Errorf("ParseBuildDate() = %v, want %s", got, tt.date)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	oldVersion, oldDate, oldCommit := Version, BuildDate, BuildCommit
	defer func() { Version, BuildDate, BuildCommit = oldVersion, oldDate, oldCommit }()

	Version, BuildDate, BuildCommit = "1.2.0", "2026-10-19", "abc123"
	if got, want := Get().String(), "mapgeom 1.2.0 built[2026-10-19] commit[abc123]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	BuildDate, BuildCommit = "", ""
	if got, want := Get().String(), "mapgeom 1.2.0 built[local] commit[unknown]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	BuildDate = "yesterday"
	if info := Get(); info.Error == "" {
		t.Error("expected error for malformed BuildDate")
	}
}
