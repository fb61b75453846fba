package core

import (
	"errors"
	"fmt"

	"github.com/automoto/togglesync/shared/messages"
	"github.com/automoto/togglesync/shared/netconfig"
)

var (
	ErrQueueFull       = errors.New("command queue full")
	ErrUnknownToggle   = errors.New("unknown toggle")
	ErrRequestsBlocked = errors.New("client requests are disabled")
	ErrUnknownOp       = errors.New("unknown toggle operation")
)

// Command is a toggle request waiting for the game loop. Reply is nil for
// requests raised inside the server process.
type Command struct {
	Request messages.ToggleRequest
	Remote  bool
	Reply   func(msg any) error
}

// Submit queues cmd without blocking. Requests arrive on necs goroutines; the
// loop applies them so the authority keeps a single writer.
func (s *Server) Submit(cmd Command) error {
	select {
	case s.commands <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Toggle queues a flip of id from inside the server process.
func (s *Server) Toggle(id string) error {
	return s.Submit(Command{Request: messages.ToggleRequest{ToggleID: id, Op: netconfig.ToggleOpFlip}})
}

// Set queues an assignment of id from inside the server process.
func (s *Server) Set(id string, on bool) error {
	return s.Submit(Command{Request: messages.ToggleRequest{ToggleID: id, Op: netconfig.ToggleOpSet, Value: on}})
}

// ProcessCommands drains the queue. Called once per tick by the game loop.
func (s *Server) ProcessCommands() {
	for {
		select {
		case cmd := <-s.commands:
			if err := s.apply(cmd); err != nil {
				s.reject(cmd, err)
			}
		default:
			return
		}
	}
}

func (s *Server) apply(cmd Command) error {
	req := cmd.Request
	if cmd.Remote && !s.cfg.Server.AllowClientRequests {
		return ErrRequestsBlocked
	}
	a, ok := s.registry.Authority(req.ToggleID)
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownToggle, req.ToggleID)
	}

	switch req.Op {
	case netconfig.ToggleOpFlip:
		return a.Toggle()
	case netconfig.ToggleOpSet:
		return a.SetState(req.Value)
	default:
		return fmt.Errorf("%w %d", ErrUnknownOp, req.Op)
	}
}

func (s *Server) reject(cmd Command, err error) {
	s.log.Warn("toggle request rejected", "toggle", cmd.Request.ToggleID, "op", cmd.Request.Op, "err", err)
	if cmd.Reply == nil {
		return
	}
	if rerr := cmd.Reply(messages.ToggleRejected{ToggleID: cmd.Request.ToggleID, Reason: err.Error()}); rerr != nil {
		s.log.Error("failed to send rejection", "toggle", cmd.Request.ToggleID, "err", rerr)
	}
}
