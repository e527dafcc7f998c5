package version

import (
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo()

	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if info.GoVersion == "" || info.Platform == "" {
		t.Errorf("incomplete info: %+v", info)
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %q, want os/arch", info.Platform)
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{
		Version:   "1.2.3",
		Commit:    "abcdef0123456789",
		Date:      "2026-08-30",
		GoVersion: "go1.24.6",
		Platform:  "linux/amd64",
	}

	s := info.String()
	if !strings.HasPrefix(s, "crmctl 1.2.3") {
		t.Errorf("String() = %q", s)
	}
	if !strings.Contains(s, "abcdef01") || strings.Contains(s, "abcdef0123456789") {
		t.Errorf("commit should be shortened to 8 chars: %q", s)
	}
}

func TestInfo_Short(t *testing.T) {
	info := Info{Version: "1.2.3"}
	if info.Short() != "1.2.3" {
		t.Errorf("Short() = %q", info.Short())
	}
}
