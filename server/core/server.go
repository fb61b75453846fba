package core

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/automoto/togglesync/config"
	"github.com/automoto/togglesync/shared/logging"
	"github.com/automoto/togglesync/shared/messages"
	"github.com/automoto/togglesync/shared/netcomponents"
	"github.com/automoto/togglesync/shared/netconfig"
	"github.com/automoto/togglesync/shared/toggle"
	"github.com/charmbracelet/log"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
)

// Server hosts the state authority for every configured toggle and
// replicates them to connected clients.
type Server struct {
	cfg       config.ServerConfig
	world     donburi.World
	loop      *GameLoop
	registry  *Registry
	transport *transports.WsServerTransport
	commands  chan Command
	store     Store
	dirty     atomic.Bool
	started   atomic.Bool
	log       *log.Logger

	// Clients that completed the join handshake
	clients map[string]struct{}
	mu      sync.RWMutex
}

// NewServer creates the server, restores persisted state from store (which
// may be nil) and registers the network callbacks.
func NewServer(cfg config.ServerConfig, store Store) (*Server, error) {
	s, err := newServer(cfg, store)
	if err != nil {
		return nil, err
	}

	// Set up the world for esync
	srvsync.UseEsync(s.world)

	var syncErr error
	s.registry.each(func(e *registryEntry) {
		entity := e.entity
		if err := srvsync.NetworkSync(s.world, &entity, netcomponents.NetToggle); err != nil && syncErr == nil {
			syncErr = fmt.Errorf("network sync for toggle %q: %w", e.info.ID, err)
		}
	})
	if syncErr != nil {
		return nil, syncErr
	}

	s.setupRouterCallbacks()
	return s, nil
}

func newServer(cfg config.ServerConfig, store Store) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		world:    donburi.NewWorld(),
		registry: NewRegistry(),
		commands: make(chan Command, cfg.Server.CommandQueue),
		store:    store,
		clients:  make(map[string]struct{}),
		log:      logging.For("server"),
	}
	s.loop = NewGameLoop(s, cfg.Server.TickRate)

	saved := map[string]bool{}
	if store != nil {
		loaded, err := store.Load()
		if err != nil {
			s.log.Warn("could not restore toggle state", "err", err)
		} else if loaded != nil {
			saved = loaded
		}
	}

	for _, tc := range cfg.Toggles {
		initial := tc.Initial
		if on, ok := saved[tc.ID]; ok {
			initial = on
		}
		if err := s.addToggle(tc.Info(), initial); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Server) addToggle(info messages.ToggleInfo, initial bool) error {
	entity := s.world.Create(netcomponents.NetToggle)
	entry := s.world.Entry(entity)
	netcomponents.NetToggle.Set(entry, &netcomponents.NetToggleData{
		ID: info.ID,
		On: initial,
	})

	a := toggle.NewStateAuthority(info.ID, netconfig.RoleAuthority, initial)
	a.OnChange(func(c toggle.Change) {
		s.log.Info("toggle changed", "toggle", c.ID, "on", c.On, "revision", c.Revision)
		s.dirty.Store(true)
	})

	if err := s.registry.Add(info, a, entity); err != nil {
		s.world.Remove(entity)
		return err
	}
	return nil
}

// Start begins the game loop and serves WebSocket clients on port. It blocks
// until the transport stops.
func (s *Server) Start(port uint) error {
	s.started.Store(true)
	go s.loop.Run()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop halts the game loop and flushes pending state to the store.
func (s *Server) Stop() {
	if s.started.Swap(false) {
		s.loop.Stop()
	}
	s.persist()
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		s.log.Info("client connected", "client", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		s.onDisconnect(client.Id(), err)
	})

	router.On(func(client *router.NetworkClient, req messages.JoinRequest) {
		s.onJoin(client.Id(), client, req)
	})

	router.On(func(client *router.NetworkClient, req messages.ToggleRequest) {
		s.onToggleRequest(client.Id(), client, req)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		s.log.Error("client error", "client", client.Id(), "err", err)
	})
}

// sender is the part of a network client the server replies through.
type sender interface {
	SendMessage(msg any) error
}

var _ sender = (*router.NetworkClient)(nil)

func (s *Server) onJoin(clientID string, reply sender, req messages.JoinRequest) {
	if s.cfg.Server.Version != "" && req.Version != s.cfg.Server.Version {
		s.log.Warn("join rejected", "client", clientID, "version", req.Version, "want", s.cfg.Server.Version)
		s.send(reply, messages.JoinRejected{
			Reason: fmt.Sprintf("version mismatch: server requires %q", s.cfg.Server.Version),
		})
		return
	}

	s.mu.Lock()
	s.clients[clientID] = struct{}{}
	s.mu.Unlock()

	s.log.Info("client joined", "client", clientID, "name", req.ClientName)
	s.send(reply, messages.JoinAccepted{
		ServerName: s.cfg.Server.Name,
		TickRate:   s.cfg.Server.TickRate,
		Toggles:    s.registry.Catalogue(),
	})
}

func (s *Server) onToggleRequest(clientID string, reply sender, req messages.ToggleRequest) {
	cmd := Command{Request: req, Remote: true}
	if reply != nil {
		cmd.Reply = reply.SendMessage
	}

	s.mu.RLock()
	_, joined := s.clients[clientID]
	s.mu.RUnlock()
	if !joined {
		s.reject(cmd, fmt.Errorf("client %s has not joined", clientID))
		return
	}

	if err := s.Submit(cmd); err != nil {
		s.reject(cmd, err)
	}
}

func (s *Server) onDisconnect(clientID string, err error) {
	if err != nil {
		s.log.Info("client disconnected", "client", clientID, "err", err)
	} else {
		s.log.Info("client disconnected", "client", clientID)
	}
	s.mu.Lock()
	delete(s.clients, clientID)
	s.mu.Unlock()
}

func (s *Server) send(reply sender, msg any) {
	if reply == nil {
		return
	}
	if err := reply.SendMessage(msg); err != nil {
		s.log.Error("send failed", "msg", fmt.Sprintf("%T", msg), "err", err)
	}
}

// SyncState copies every authority's committed value into its replicated
// component. Runs on the loop goroutine before each snapshot.
func (s *Server) SyncState() {
	s.registry.each(func(e *registryEntry) {
		if !s.world.Valid(e.entity) {
			return
		}
		on, rev := e.authority.Snapshot()
		data := netcomponents.NetToggle.Get(s.world.Entry(e.entity))
		data.On = on
		data.Revision = rev
	})
	s.persist()
}

func (s *Server) persist() {
	if s.store == nil || !s.dirty.Swap(false) {
		return
	}
	if err := s.store.Save(s.registry.States()); err != nil {
		s.log.Error("could not save toggle state", "err", err)
		s.dirty.Store(true)
	}
}

func (s *Server) Registry() *Registry {
	return s.registry
}

// ClientCount returns the number of joined clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Replicated returns the component data of a toggle as it will be sent in
// the next snapshot.
func (s *Server) Replicated(id string) (netcomponents.NetToggleData, bool) {
	var out netcomponents.NetToggleData
	found := false
	s.registry.each(func(e *registryEntry) {
		if e.info.ID != id || !s.world.Valid(e.entity) {
			return
		}
		out = *netcomponents.NetToggle.Get(s.world.Entry(e.entity))
		found = true
	})
	return out, found
}
