package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"scpterm/config"
)

func TestInitConfig(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	if err := app.Run([]string{"scpterm", "--init-config"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var cfg config.Config
	if _, err := toml.Decode(out.String(), &cfg); err != nil {
		t.Fatalf("--init-config output does not parse: %v", err)
	}
	if cfg.Pager.Margin != 20 {
		t.Errorf("margin = %d, expected 20", cfg.Pager.Margin)
	}
}

func TestMissingID(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}

	err := app.Run([]string{"scpterm"})
	if err == nil || !strings.Contains(err.Error(), "missing page id") {
		t.Errorf("got %v, expected a missing id error", err)
	}
}
