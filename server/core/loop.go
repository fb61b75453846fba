package core

import (
	"time"

	"github.com/leap-fish/necs/esync/srvsync"
)

type GameLoop struct {
	server   *Server
	tickRate int
	stopChan chan struct{}
	doneChan chan struct{}
}

func NewGameLoop(server *Server, tickRate int) *GameLoop {
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

func (g *GameLoop) Run() {
	defer close(g.doneChan)
	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	g.server.log.Info("game loop started", "tickRate", g.tickRate)

	for {
		select {
		case <-g.stopChan:
			g.server.log.Info("game loop stopped")
			return
		case <-ticker.C:
			g.tick()
		}
	}
}

// Stop signals the loop and waits for the tick in progress to finish.
// It must be called once, after Run has been started.
func (g *GameLoop) Stop() {
	close(g.stopChan)
	<-g.doneChan
}

func (g *GameLoop) tick() {
	g.server.ProcessCommands()
	g.server.SyncState()

	if err := srvsync.DoSync(); err != nil {
		g.server.log.Error("sync error", "err", err)
	}
}
