package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/urgency/config"
	"github.com/lixenwraith/urgency/engine"
	"github.com/lixenwraith/urgency/widget"
)

func testProduct(t *testing.T) widget.Product {
	t.Helper()
	p, ok := widget.DefaultCatalog()["demo-sneaker"]
	if !ok {
		t.Fatal("demo-sneaker missing from catalog")
	}
	return p
}

func TestNewLogger_QuietWithoutFile(t *testing.T) {
	l, err := newLogger(config.LogConfig{Level: "info"}, true)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	if l.Core().Enabled(zapcore.ErrorLevel) {
		t.Error("Expected quiet logger to discard everything")
	}
}

func TestNewLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "urgency.log")

	l, err := newLogger(config.LogConfig{Level: "debug", File: path}, true)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	l.Debug("Test log message", zap.Int("n", 1))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "Test log message") {
		t.Errorf("Expected log message in file, got %q", data)
	}
}

func TestNewLogger_BadLevel(t *testing.T) {
	if _, err := newLogger(config.LogConfig{Level: "loud"}, false); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	c := config.Default()
	c.Seed = 42
	o := simulateOptions{Duration: 20 * time.Second, Step: time.Second, BuyEvery: 5 * time.Second, Format: "text"}

	var first, second bytes.Buffer
	if err := simulate(&first, c, testProduct(t), o, zap.NewNop()); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if err := simulate(&second, c, testProduct(t), o, zap.NewNop()); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	if first.String() != second.String() {
		t.Errorf("Seeded traces differ:\n%s\n---\n%s", first.String(), second.String())
	}
	if lines := strings.Count(first.String(), "\n"); lines != 20 {
		t.Errorf("Expected 20 frames, got %d", lines)
	}
}

func TestSimulate_YAML(t *testing.T) {
	c := config.Default()
	c.Seed = 7
	o := simulateOptions{Duration: 5 * time.Second, Step: time.Second, BuyEvery: time.Second, Format: "yaml"}

	var out bytes.Buffer
	if err := simulate(&out, c, testProduct(t), o, zap.NewNop()); err != nil {
		t.Fatalf("simulate: %v", err)
	}

	var frames []simulationFrame
	if err := yaml.Unmarshal(out.Bytes(), &frames); err != nil {
		t.Fatalf("Failed to parse trace: %v", err)
	}
	if len(frames) != 5 {
		t.Fatalf("Expected 5 frames, got %d", len(frames))
	}

	last := frames[len(frames)-1]
	if last.Countdown != "03:15.00" {
		t.Errorf("Expected countdown 03:15.00 after 5s, got %s", last.Countdown)
	}
	if last.InCart != 5 {
		t.Errorf("Expected one item bought per second, got %d in cart", last.InCart)
	}
	for i := 1; i < len(frames); i++ {
		if frames[i].Stock > frames[i-1].Stock {
			t.Errorf("Stock rose from %d to %d", frames[i-1].Stock, frames[i].Stock)
		}
	}
}

func TestSimulate_BadOptions(t *testing.T) {
	c := config.Default()
	if err := simulate(&bytes.Buffer{}, c, testProduct(t), simulateOptions{Step: 0, Format: "text"}, zap.NewNop()); err == nil {
		t.Error("Expected error for zero step")
	}
	if err := simulate(&bytes.Buffer{}, c, testProduct(t), simulateOptions{Step: time.Second, Format: "xml"}, zap.NewNop()); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestNextVariant(t *testing.T) {
	vs := []string{"black", "white", "volt"}
	tests := []struct {
		current, want string
	}{
		{"black", "white"},
		{"volt", "black"},
		{"missing", "black"},
	}
	for _, tt := range tests {
		if got := nextVariant(vs, tt.current); got != tt.want {
			t.Errorf("nextVariant(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
	if got := nextVariant(nil, "x"); got != "" {
		t.Errorf("Expected empty for no variants, got %q", got)
	}
}

func TestHandleKey(t *testing.T) {
	clock := engine.NewManualClock(simulationEpoch)
	b, err := widget.New(testProduct(t), config.Default(), widget.WithManualClock(clock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer b.Unmount()

	press := func(r rune) bool {
		return handleKey(b, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}

	press('+')
	press('+')
	press('v')
	press('+')
	if snap := b.Snapshot(); snap.Cart.Quantity != 2 || snap.Cart.Variant != "white" {
		t.Errorf("Unexpected cart %+v", snap.Cart)
	}

	press('p')
	if !b.Snapshot().Paused {
		t.Error("Expected p to pause")
	}
	press('p')
	if b.Snapshot().Paused {
		t.Error("Expected second p to resume")
	}

	if press('q') {
		t.Error("Expected q to quit")
	}
	if handleKey(b, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Expected Esc to quit")
	}
}
