package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mahyarmirrashed/setbackground/internal/desktop"
)

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Desktop = desktop.XFCE
		cfg.Directories = []string{"/tmp"}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"valid", func(*Config) {}, nil},
		{"minimum interval", func(c *Config) { c.Interval = 3 * time.Second }, nil},
		{"interval too short", func(c *Config) { c.Interval = 2 * time.Second }, ErrIntervalTooShort},
		{"no desktop", func(c *Config) { c.Desktop = "" }, ErrNoDesktop},
		{"unknown desktop", func(c *Config) { c.Desktop = "gnome" }, ErrNoDesktop},
		{"no directories", func(c *Config) { c.Directories = nil }, ErrNoDirectories},
		{"interval checked first", func(c *Config) { c.Interval = time.Second; c.Desktop = "" }, ErrIntervalTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidate_NegativeBackoff(t *testing.T) {
	cfg := Default()
	cfg.Desktop = desktop.LXDE
	cfg.Directories = []string{"/tmp"}
	cfg.EmptyBackoff = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative back-off")
	}
}

func TestErrorMessages(t *testing.T) {
	if !strings.Contains(ErrNoDesktop.Error(), "desktop environment") {
		t.Errorf("unexpected message %q", ErrNoDesktop)
	}
	if !strings.Contains(ErrNoDirectories.Error(), "directories") {
		t.Errorf("unexpected message %q", ErrNoDirectories)
	}
	if !strings.Contains(ErrIntervalTooShort.Error(), "3 seconds") {
		t.Errorf("unexpected message %q", ErrIntervalTooShort)
	}
}
