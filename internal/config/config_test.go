package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TACKLE_DB", "/tmp/runs.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir: want data, got %q", cfg.DataDir)
	}
	if !reflect.DeepEqual(cfg.Weeks, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}) {
		t.Errorf("Weeks: got %v", cfg.Weeks)
	}
	if cfg.OutPath != "processed_data.csv" {
		t.Errorf("OutPath: got %q", cfg.OutPath)
	}
	if cfg.DBPath != "/tmp/runs.db" {
		t.Errorf("DBPath: got %q", cfg.DBPath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TACKLE_DATA_DIR", "/srv/bdb")
	t.Setenv("TACKLE_WEEKS", "3,4")
	t.Setenv("TACKLE_WORKERS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/srv/bdb" || cfg.Workers != 2 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.Weeks, []int{3, 4}) {
		t.Errorf("Weeks: got %v", cfg.Weeks)
	}
}

func TestLoadEnvError(t *testing.T) {
	t.Setenv("TACKLE_WORKERS", "many")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	ok := Config{DataDir: "data", Weeks: []int{1}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]Config{
		"empty dir":   {DataDir: " ", Weeks: []int{1}},
		"no weeks":    {DataDir: "data"},
		"zero week":   {DataDir: "data", Weeks: []int{0}},
		"neg workers": {DataDir: "data", Weeks: []int{1}, Workers: -1},
	}
	for name, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseWeeks(t *testing.T) {
	got, err := ParseWeeks("1-3, 7,9")
	if err != nil {
		t.Fatalf("ParseWeeks: %v", err)
	}
	if want := []int{1, 2, 3, 7, 9}; !reflect.DeepEqual(got, want) {
		t.Errorf("want %v, got %v", want, got)
	}
	if WeeksString(got) != "1,2,3,7,9" {
		t.Errorf("WeeksString: got %q", WeeksString(got))
	}

	for _, bad := range []string{"x", "5-2", "1-a"} {
		if _, err := ParseWeeks(bad); err == nil {
			t.Errorf("ParseWeeks(%q): expected error", bad)
		}
	}
}
