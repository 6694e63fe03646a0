package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-rune-draft/internal/board"
	"github.com/DoyleJ11/lol-rune-draft/internal/draft"
	"github.com/DoyleJ11/lol-rune-draft/internal/hub"
	"github.com/DoyleJ11/lol-rune-draft/internal/lobby"
	"github.com/DoyleJ11/lol-rune-draft/internal/types"
)

var errUnknownType = errors.New("unknown type")
var errBadSlot = errors.New("bad slot")

// Options tunes the handler. The zero value accepts same-origin connections.
type Options struct {
	OriginPatterns []string
	ReadTimeout    time.Duration
	Log            *zap.Logger
}

func Handler(h *hub.Hub, opts Options) http.HandlerFunc {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("ws")
	readTimeout := opts.ReadTimeout
	if readTimeout == 0 {
		readTimeout = 5 * time.Minute
	}

	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		reply := make(chan *lobby.Lobby, 1)
		h.Inbox() <- hub.GetLobby{Code: code, Reply: reply}
		lb := <-reply
		if lb == nil {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			log.Debug("accept failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan lobby.Snapshot, 8)
		clientID := uuid.NewString()
		log := log.With(zap.String("code", code), zap.String("client", clientID))
		log.Debug("client connected")

		lb.Inbox() <- lobby.Join{ClientID: clientID, Outbox: out}
		defer func() { lb.Inbox() <- lobby.Leave{ClientID: clientID} }()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			defer writeCancel()
			for {
				select {
				case <-writeCtx.Done():
					return
				case snap, ok := <-out:
					if !ok {
						// lobby closed the outbox: slow client or shutdown
						conn.Close(websocket.StatusGoingAway, "lobby closed")
						return
					}
					if err := write(writeCtx, conn, serverMessage(snap)); err != nil {
						log.Debug("write failed", zap.Error(err))
						return
					}
				}
			}
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(writeCtx, readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = write(r.Context(), conn, types.ServerMessage{Type: "Error", Error: "bad json"})
				continue
			}

			cmd, err := ToBoardCommand(cm)
			if err != nil {
				_ = write(r.Context(), conn, types.ServerMessage{Type: "Error", Error: err.Error()})
				continue
			}

			lb.Inbox() <- lobby.FromClient{ClientID: clientID, Cmd: cmd}
		}
	}
}

func serverMessage(snap lobby.Snapshot) types.ServerMessage {
	if snap.Notice != "" {
		return types.ServerMessage{Type: "Notice", Version: snap.Version, Notice: snap.Notice}
	}
	return types.ServerMessage{Type: "StateSnapshot", Version: snap.Version, State: &snap.State}
}

func write(ctx context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, payload)
}

// ToBoardCommand translates a wire message into a board command.
func ToBoardCommand(m types.ClientMessage) (board.Command, error) {
	switch m.Type {
	case "SelectSlot":
		ref, err := parseSlot(m)
		return board.Command{Type: board.CmdSelectSlot, Slot: ref}, err
	case "PlaceChampion":
		cmd := board.Command{Type: board.CmdPlaceChampion, ChampionID: m.ChampionID}
		if m.Kind != "" {
			ref, err := parseSlot(m)
			if err != nil {
				return board.Command{}, err
			}
			cmd.Slot = ref
		}
		return cmd, nil
	case "ClearSlot":
		ref, err := parseSlot(m)
		return board.Command{Type: board.CmdClearSlot, Slot: ref}, err
	case "ResetDraft":
		return board.Command{Type: board.CmdResetDraft}, nil
	case "SwapSides":
		return board.Command{Type: board.CmdSwapSides}, nil
	case "ToggleLock":
		return board.Command{Type: board.CmdToggleLock}, nil
	case "SelectPrimaryStyle":
		return board.Command{Type: board.CmdSelectPrimaryStyle, StyleID: m.StyleID}, nil
	case "SelectSecondaryStyle":
		return board.Command{Type: board.CmdSelectSecondaryStyle, StyleID: m.StyleID}, nil
	default:
		return board.Command{}, errUnknownType
	}
}

func parseSlot(m types.ClientMessage) (draft.SlotRef, error) {
	if m.Index == nil {
		return draft.SlotRef{}, errBadSlot
	}
	ref := draft.SlotRef{Kind: draft.Kind(m.Kind), Team: draft.Team(m.Team), Index: *m.Index}
	if ref.Validate() != nil {
		return draft.SlotRef{}, errBadSlot
	}
	return ref, nil
}
