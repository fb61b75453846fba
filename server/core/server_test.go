package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/automoto/togglesync/config"
	"github.com/automoto/togglesync/shared/messages"
	"github.com/automoto/togglesync/shared/netconfig"
)

type memStore struct {
	states map[string]bool
	saves  int
	err    error
}

func (m *memStore) Load() (map[string]bool, error) { return m.states, m.err }

func (m *memStore) Save(states map[string]bool) error {
	m.saves++
	m.states = states
	return nil
}

type fakeSender struct {
	sent []any
}

func (f *fakeSender) SendMessage(msg any) error {
	f.sent = append(f.sent, msg)
	return nil
}

func testConfig() config.ServerConfig {
	cfg := config.DefaultServer()
	cfg.Toggles = []config.ToggleConf{
		{ID: "door", Kind: netconfig.KindRotate},
		{ID: "vent", Kind: netconfig.KindMove, Initial: true},
	}
	cfg.ApplyDefaults()
	return cfg
}

func mustServer(t *testing.T, cfg config.ServerConfig, store Store) *Server {
	t.Helper()
	s, err := newServer(cfg, store)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s
}

func TestServerRegistersConfiguredToggles(t *testing.T) {
	s := mustServer(t, testConfig(), nil)

	cat := s.Registry().Catalogue()
	if len(cat) != 2 || cat[0].ID != "door" || cat[1].ID != "vent" {
		t.Fatalf("catalogue = %+v", cat)
	}
	vent, ok := s.Replicated("vent")
	if !ok || !vent.On || vent.Revision != 0 {
		t.Fatalf("vent replicated = %+v ok=%v", vent, ok)
	}
}

func TestDuplicateToggleIsRejected(t *testing.T) {
	cfg := testConfig()
	cfg.Toggles = append(cfg.Toggles, cfg.Toggles[0])
	if _, err := newServer(cfg, nil); err == nil {
		t.Fatal("expected duplicate toggle error")
	}
}

func TestCommandsApplyOnProcess(t *testing.T) {
	s := mustServer(t, testConfig(), nil)

	if err := s.Toggle("door"); err != nil {
		t.Fatal(err)
	}
	if a, _ := s.Registry().Authority("door"); a.Read() {
		t.Fatal("command applied before the loop processed it")
	}

	s.ProcessCommands()
	s.SyncState()

	door, _ := s.Replicated("door")
	if !door.On || door.Revision != 1 {
		t.Fatalf("door = %+v, want on at revision 1", door)
	}

	if err := s.Set("door", true); err != nil {
		t.Fatal(err)
	}
	s.ProcessCommands()
	s.SyncState()
	door, _ = s.Replicated("door")
	if door.Revision != 1 {
		t.Fatalf("idempotent set bumped revision to %d", door.Revision)
	}
}

func TestRejectedRequestsReplyToClient(t *testing.T) {
	cfg := testConfig()
	s := mustServer(t, cfg, nil)
	reply := &fakeSender{}

	s.onJoin("c1", reply, messages.JoinRequest{ClientName: "tester"})
	s.onToggleRequest("c1", reply, messages.ToggleRequest{ToggleID: "missing", Op: netconfig.ToggleOpFlip})
	s.onToggleRequest("c1", reply, messages.ToggleRequest{ToggleID: "door", Op: netconfig.ToggleOp(9)})
	s.ProcessCommands()

	var rejected []messages.ToggleRejected
	for _, m := range reply.sent {
		if r, ok := m.(messages.ToggleRejected); ok {
			rejected = append(rejected, r)
		}
	}
	if len(rejected) != 2 {
		t.Fatalf("got %d rejections, want 2: %+v", len(rejected), reply.sent)
	}
	if rejected[0].ToggleID != "missing" || !strings.Contains(rejected[0].Reason, "unknown toggle") {
		t.Fatalf("first rejection = %+v", rejected[0])
	}
	if !strings.Contains(rejected[1].Reason, "unknown toggle operation") {
		t.Fatalf("second rejection = %+v", rejected[1])
	}
}

func TestClientMustJoinBeforeRequesting(t *testing.T) {
	s := mustServer(t, testConfig(), nil)
	reply := &fakeSender{}

	s.onToggleRequest("stranger", reply, messages.ToggleRequest{ToggleID: "door"})
	s.ProcessCommands()

	if a, _ := s.Registry().Authority("door"); a.Read() {
		t.Fatal("request from a client that never joined was applied")
	}
	if len(reply.sent) != 1 {
		t.Fatalf("got %d replies, want 1 rejection", len(reply.sent))
	}
}

func TestClientRequestsCanBeDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Server.AllowClientRequests = false
	s := mustServer(t, cfg, nil)
	reply := &fakeSender{}

	s.onJoin("c1", reply, messages.JoinRequest{})
	s.onToggleRequest("c1", reply, messages.ToggleRequest{ToggleID: "door"})
	s.ProcessCommands()

	if a, _ := s.Registry().Authority("door"); a.Read() {
		t.Fatal("remote request applied while disabled")
	}

	// Local triggers are still honoured.
	_ = s.Toggle("door")
	s.ProcessCommands()
	if a, _ := s.Registry().Authority("door"); !a.Read() {
		t.Fatal("local toggle was not applied")
	}
}

func TestJoinVersionCheck(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Version = "1.2"
	s := mustServer(t, cfg, nil)

	bad := &fakeSender{}
	s.onJoin("old", bad, messages.JoinRequest{Version: "1.1"})
	if len(bad.sent) != 1 {
		t.Fatalf("sent %d messages", len(bad.sent))
	}
	if _, ok := bad.sent[0].(messages.JoinRejected); !ok {
		t.Fatalf("got %T, want JoinRejected", bad.sent[0])
	}
	if s.ClientCount() != 0 {
		t.Fatal("rejected client counted as joined")
	}

	good := &fakeSender{}
	s.onJoin("new", good, messages.JoinRequest{Version: "1.2"})
	acc, ok := good.sent[0].(messages.JoinAccepted)
	if !ok {
		t.Fatalf("got %T, want JoinAccepted", good.sent[0])
	}
	if len(acc.Toggles) != 2 || acc.TickRate != cfg.Server.TickRate {
		t.Fatalf("accepted = %+v", acc)
	}

	s.onDisconnect("new", nil)
	if s.ClientCount() != 0 {
		t.Fatal("client still counted after disconnect")
	}
}

func TestQueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CommandQueue = 1
	s := mustServer(t, cfg, nil)

	if err := s.Toggle("door"); err != nil {
		t.Fatal(err)
	}
	if err := s.Toggle("door"); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("got %v, want ErrQueueFull", err)
	}
}

func TestStateIsRestoredAndPersisted(t *testing.T) {
	store := &memStore{states: map[string]bool{"door": true, "vent": false}}
	s := mustServer(t, testConfig(), store)

	door, _ := s.Replicated("door")
	vent, _ := s.Replicated("vent")
	if !door.On || vent.On {
		t.Fatalf("restored door=%v vent=%v", door.On, vent.On)
	}

	s.SyncState()
	if store.saves != 0 {
		t.Fatal("saved without any change")
	}

	_ = s.Toggle("vent")
	s.ProcessCommands()
	s.SyncState()
	if store.saves != 1 || !store.states["vent"] {
		t.Fatalf("saves=%d states=%v", store.saves, store.states)
	}

	s.Stop()
	if store.saves != 1 {
		t.Fatalf("stop saved again without changes: %d", store.saves)
	}
}

func TestStoreLoadErrorFallsBackToConfig(t *testing.T) {
	store := &memStore{err: errors.New("disk on fire")}
	s := mustServer(t, testConfig(), store)
	vent, _ := s.Replicated("vent")
	if !vent.On {
		t.Fatal("expected configured initial value")
	}
}
