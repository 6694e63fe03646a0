package lobby

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-rune-draft/internal/board"
	"github.com/DoyleJ11/lol-rune-draft/internal/recommend"
)

type Msg interface{ isLobbyMsg() }

type FromClient struct {
	ClientID string
	Cmd      board.Command
}

func (FromClient) isLobbyMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isLobbyMsg() {}

type Leave struct{ ClientID string }

func (Leave) isLobbyMsg() {}

type Shutdown struct{}

func (Shutdown) isLobbyMsg() {}

// Refresh asks the lobby to re-check its recommendation, e.g. after the
// prediction engine finished loading. Redraw forces a snapshot even when the
// recommendation is unchanged, for display data such as rune names.
type Refresh struct {
	Redraw bool
}

func (Refresh) isLobbyMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isLobbyMsg() {}

type resolved struct{ res recommend.Resolution }

func (resolved) isLobbyMsg() {}

// Snapshot is sent to clients. A snapshot carrying a Notice goes to the
// client whose command failed and leaves Version unchanged.
type Snapshot struct {
	Version int
	State   board.View
	Notice  string
}

type View struct {
	Version    int
	NumClients int
	State      board.View
}

// Recorder stores shown recommendations.
type Recorder interface {
	Record(ctx context.Context, code string, s board.Summary) error
}

type Deps struct {
	Board    board.Deps
	Recorder Recorder
	Log      *zap.Logger
}

type Lobby struct {
	code     string
	inbox    chan Msg
	board    *board.Board
	version  int
	clients  map[string]chan Snapshot
	recorder Recorder
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func NewLobby(parent context.Context, code string, deps Deps) *Lobby {
	ctx, cancel := context.WithCancel(parent)
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("lobby").With(zap.String("code", code))

	l := &Lobby{
		code:     code,
		inbox:    make(chan Msg, 64), // Small buffer
		clients:  make(map[string]chan Snapshot),
		recorder: deps.Recorder,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	bdeps := deps.Board
	bdeps.Log = log
	l.board = board.New(ctx, bdeps, l.deliver)

	go l.loop()
	return l
}

// deliver runs on prediction goroutines and hands the result to the loop.
func (l *Lobby) deliver(r recommend.Resolution) {
	select {
	case l.inbox <- resolved{res: r}:
	case <-l.ctx.Done():
	}
}

func (l *Lobby) loop() {
	for {
		select {
		case <-l.ctx.Done():
			l.shutdown()
			return

		case m := <-l.inbox:
			switch msg := m.(type) {
			case Join:
				// Register client + send current snapshot immediately
				l.clients[msg.ClientID] = msg.Outbox
				msg.Outbox <- l.snapshot()

			case Leave:
				delete(l.clients, msg.ClientID)

			case FromClient:
				events, err := l.board.Apply(msg.Cmd)
				if err != nil {
					l.log.Debug("command rejected",
						zap.String("client", msg.ClientID),
						zap.String("cmd", string(msg.Cmd.Type)),
						zap.Error(err))
					l.notify(msg.ClientID, err.Error())
					break
				}
				l.log.Debug("command applied", zap.String("cmd", string(msg.Cmd.Type)), zap.Int("events", len(events)))
				l.version++
				l.broadcast(l.snapshot())

			case Refresh:
				events, _ := l.board.Apply(board.Command{Type: board.CmdRefresh})
				if len(events) == 0 && !msg.Redraw {
					break
				}
				l.version++
				l.broadcast(l.snapshot())

			case resolved:
				events, ok := l.board.Resolve(msg.res)
				if !ok {
					break
				}
				l.version++
				l.broadcast(l.snapshot())
				if len(events) > 0 && events[0].Type == board.EvtPredictionApplied {
					l.record()
				}

			case GetState:
				// test-only: reflect internal state without data races
				msg.Reply <- View{
					Version:    l.version,
					NumClients: len(l.clients),
					State:      l.board.View(),
				}

			case Shutdown:
				l.shutdown()
				return
			}
		}
	}
}

func (l *Lobby) snapshot() Snapshot {
	return Snapshot{Version: l.version, State: l.board.View()}
}

func (l *Lobby) record() {
	if l.recorder == nil {
		return
	}
	s, ok := l.board.Summary()
	if !ok {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(l.ctx), 5*time.Second)
		defer cancel()
		if err := l.recorder.Record(ctx, l.code, s); err != nil {
			l.log.Warn("record draft", zap.Error(err))
		}
	}()
}

func (l *Lobby) shutdown() {
	l.board.Close()
	for id, ch := range l.clients {
		close(ch) // Tell client no more snapshots
		delete(l.clients, id)
	}
	l.cancel()
}

func (l *Lobby) notify(clientID, notice string) {
	ch, ok := l.clients[clientID]
	if !ok {
		return
	}
	snap := l.snapshot()
	snap.Notice = notice
	l.send(clientID, ch, snap)
}

func (l *Lobby) broadcast(snap Snapshot) {
	for id, ch := range l.clients {
		l.send(id, ch, snap)
	}
}

func (l *Lobby) send(id string, ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		//ok
	default:
		// Client is slow/full - drop them.
		l.log.Info("dropping slow client", zap.String("client", id))
		close(ch)
		delete(l.clients, id)
	}
}

func (l *Lobby) Code() string { return l.code }

// Expose the inbox so tests or WS layer can send messages.
func (l *Lobby) Inbox() chan<- Msg { return l.inbox }
