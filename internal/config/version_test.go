package config

import (
	"encoding/json"
	"testing"
)

func TestInfo_Defaults(t *testing.T) {
	info := Info()
	if info.Version != "dev" || info.Build != "unknown" || info.Commit != "unknown" {
		t.Errorf("unexpected defaults %+v", info)
	}
	if GetVersion() != info.Version {
		t.Errorf("expected GetVersion to match Info, got %q", GetVersion())
	}
	if got := info.String(); got != "dev (build unknown, commit unknown)" {
		t.Errorf("unexpected string %q", got)
	}
}

func TestInfo_MatchesBackendVersionShape(t *testing.T) {
	b, err := json.Marshal(Info())
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"version", "build", "git_commit"} {
		if _, ok := m[key]; !ok {
			t.Errorf("expected %s key in %s", key, b)
		}
	}
}
