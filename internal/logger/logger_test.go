package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{LevelOff, false, false},
		{LevelNormal, false, true},
		{LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := New(tt.level, &buf)
			l.Debug("stove %d", 1)
			l.Info("order %d", 2)

			out := buf.String()
			if got := strings.Contains(out, "[DBG] stove 1"); got != tt.wantDebug {
				t.Fatalf("debug written=%v, want %v: %q", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "[INF] order 2"); got != tt.wantInfo {
				t.Fatalf("info written=%v, want %v: %q", got, tt.wantInfo, out)
			}
		})
	}
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelNormal, &buf)
	fire := root.Named("engine").Named("fire")

	if fire.Name() != "engine.fire" {
		t.Fatalf("expected engine.fire, got %q", fire.Name())
	}

	fire.Debug("hidden")
	root.SetLevel(LevelVerbose)
	fire.Debug("stove-1-0 ignited")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug written before the level was raised: %q", out)
	}
	if !strings.Contains(out, "[DBG] engine.fire: stove-1-0 ignited") {
		t.Fatalf("missing named line: %q", out)
	}
	if !fire.Enabled(LevelVerbose) || fire.GetLevel() != LevelVerbose {
		t.Fatal("child did not follow the root level")
	}
}
