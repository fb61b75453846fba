package core

import (
	"errors"
	"strings"
	"testing"
)

func TestConsoleArgs(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"/toggle door", "toggle door"},
		{"/toggle-door", "toggle door"},
		{"  set vent off ", "set vent off"},
		{"list", "list"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := strings.Join(consoleArgs(tt.line), " "); got != tt.want {
			t.Errorf("consoleArgs(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestConsoleDrivesLocalTriggers(t *testing.T) {
	s := mustServer(t, testConfig(), nil)
	c := NewConsole(s)

	for _, line := range []string{"/toggle-door", "/set vent off", "/list", ""} {
		if err := c.Exec(line); err != nil {
			t.Fatalf("%q: %v", line, err)
		}
	}

	door, _ := s.Registry().Authority("door")
	if door.Read() {
		t.Fatal("console command applied before the tick")
	}

	s.ProcessCommands()
	if !door.Read() {
		t.Fatal("door should be on after /toggle-door")
	}
	vent, _ := s.Registry().Authority("vent")
	if vent.Read() {
		t.Fatal("vent should be off after /set vent off")
	}
}

func TestConsoleRejectsBadInput(t *testing.T) {
	s := mustServer(t, testConfig(), nil)
	c := NewConsole(s)

	for _, line := range []string{"/open door", "/set door maybe", "/toggle"} {
		if err := c.Exec(line); err == nil {
			t.Errorf("%q: expected error", line)
		}
	}
}

func TestConsoleRunReadsLines(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CommandQueue = 1
	s := mustServer(t, cfg, nil)

	NewConsole(s).Run(strings.NewReader("/toggle door\nbogus\n/toggle door\n"))

	// The second toggle found the queue full and was logged, not applied.
	if err := s.Toggle("door"); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("queue should still hold the first command, got %v", err)
	}
	s.ProcessCommands()
	door, _ := s.Registry().Authority("door")
	if !door.Read() || door.Revision() != 1 {
		t.Fatalf("door = %v rev %d, want on at rev 1", door.Read(), door.Revision())
	}
}
