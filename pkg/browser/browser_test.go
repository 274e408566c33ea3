package browser

import (
	"errors"
	"strings"
	"testing"
)

type recorded struct {
	name string
	args []string
}

func fakeLauncher(goos string, rec *[]recorded, err error) Launcher {
	return Launcher{GOOS: goos, Start: func(name string, args ...string) error {
		*rec = append(*rec, recorded{name: name, args: args})
		return err
	}}
}

func TestOpen_UsesPlatformOpener(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"linux", "xdg-open"},
		{"darwin", "open"},
		{"windows", "rundll32"},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			var rec []recorded
			if err := fakeLauncher(tt.goos, &rec, nil).Open("http://127.0.0.1:8787/tabs/feed"); err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if len(rec) != 1 || rec[0].name != tt.want {
				t.Fatalf("expected %s to be started, got %+v", tt.want, rec)
			}
			if last := rec[0].args[len(rec[0].args)-1]; last != "http://127.0.0.1:8787/tabs/feed" {
				t.Errorf("URL should be passed as the last argument, got %q", last)
			}
		})
	}
}

func TestOpen_UnsupportedPlatform(t *testing.T) {
	var rec []recorded
	err := fakeLauncher("plan9", &rec, nil).Open("https://wine-locals.com")
	if err == nil || !strings.Contains(err.Error(), "unsupported platform") {
		t.Errorf("expected unsupported platform error, got %v", err)
	}
	if len(rec) != 0 {
		t.Error("nothing should be started")
	}
}

func TestOpen_ReportsStartFailure(t *testing.T) {
	var rec []recorded
	boom := errors.New("no opener")
	err := fakeLauncher("linux", &rec, boom).Open("https://wine-locals.com")
	if !errors.Is(err, boom) {
		t.Errorf("expected start error to be wrapped, got %v", err)
	}
}

func TestValidate_RejectsInvalidScheme(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"file scheme", "file:///etc/passwd"},
		{"javascript scheme", "javascript:alert(1)"},
		{"data scheme", "data:text/html,<script>alert(1)</script>"},
		{"ftp scheme", "ftp://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.url)
			if err == nil {
				t.Fatalf("Should reject %s, but got no error", tt.url)
			}
			if !strings.Contains(err.Error(), "unsupported URL scheme") {
				t.Errorf("Expected scheme error, got: %v", err)
			}
		})
	}
}

func TestValidate_RejectsMalformedURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"shell injection attempt", "http://example.com; rm -rf /"},
		{"newline injection", "http://example.com\nrm -rf /"},
		{"null byte", "http://example.com\x00"},
		{"empty", ""},
		{"no scheme", "example.com"},
		{"no host", "https://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.url); err == nil {
				t.Errorf("Should reject %q", tt.url)
			}
		})
	}
}

func TestValidate_AcceptsHTTPAndHTTPS(t *testing.T) {
	for _, u := range []string{"http://localhost:8787", "https://www.wine-locals.com/passeios/colheita"} {
		if err := Validate(u); err != nil {
			t.Errorf("Validate(%q) error = %v", u, err)
		}
	}
}
