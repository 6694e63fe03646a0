package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lol-rune-draft/internal/board"
	"github.com/DoyleJ11/lol-rune-draft/internal/catalog"
	"github.com/DoyleJ11/lol-rune-draft/internal/draft"
	"github.com/DoyleJ11/lol-rune-draft/internal/hub"
	"github.com/DoyleJ11/lol-rune-draft/internal/lobby"
	"github.com/DoyleJ11/lol-rune-draft/internal/predict"
	"github.com/DoyleJ11/lol-rune-draft/internal/predict/predicttest"
	"github.com/DoyleJ11/lol-rune-draft/internal/types"
)

func intp(i int) *int { return &i }

func TestToBoardCommand(t *testing.T) {
	cases := []struct {
		name    string
		msg     types.ClientMessage
		want    board.Command
		wantErr error
	}{
		{
			name: "select pick",
			msg:  types.ClientMessage{Type: "SelectSlot", Kind: "pick", Team: "red", Index: intp(3)},
			want: board.Command{Type: board.CmdSelectSlot, Slot: draft.Pick(draft.TeamRed, 3)},
		},
		{
			name: "place into active slot",
			msg:  types.ClientMessage{Type: "PlaceChampion", ChampionID: "Ahri"},
			want: board.Command{Type: board.CmdPlaceChampion, ChampionID: "Ahri"},
		},
		{
			name: "place into explicit slot",
			msg:  types.ClientMessage{Type: "PlaceChampion", Kind: "ban", Team: "blue", Index: intp(0), ChampionID: "Zed"},
			want: board.Command{Type: board.CmdPlaceChampion, Slot: draft.Ban(draft.TeamBlue, 0), ChampionID: "Zed"},
		},
		{
			name: "clear index zero",
			msg:  types.ClientMessage{Type: "ClearSlot", Kind: "pick", Team: "blue", Index: intp(0)},
			want: board.Command{Type: board.CmdClearSlot, Slot: draft.Pick(draft.TeamBlue, 0)},
		},
		{
			name: "secondary style",
			msg:  types.ClientMessage{Type: "SelectSecondaryStyle", StyleID: 8300},
			want: board.Command{Type: board.CmdSelectSecondaryStyle, StyleID: 8300},
		},
		{
			name:    "missing index",
			msg:     types.ClientMessage{Type: "ClearSlot", Kind: "pick", Team: "blue"},
			wantErr: errBadSlot,
		},
		{
			name:    "bad team",
			msg:     types.ClientMessage{Type: "SelectSlot", Kind: "pick", Team: "green", Index: intp(1)},
			wantErr: errBadSlot,
		},
		{
			name:    "unknown type",
			msg:     types.ClientMessage{Type: "LockPick"},
			wantErr: errUnknownType,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToBoardCommand(tc.msg)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func newServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := hub.NewHub(ctx, lobby.Deps{Board: board.Deps{
		Engine:    predict.NewPredictor(nil),
		Champions: catalog.NewChampions("test", predicttest.Champions()),
	}})
	reply := make(chan *lobby.Lobby, 1)
	h.Inbox() <- hub.CreateLobby{Code: "ZED123", Reply: reply}
	<-reply

	srv := httptest.NewServer(Handler(h, Options{}))
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

type client struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, url string) *client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return &client{t: t, conn: conn}
}

func (c *client) send(msg types.ClientMessage) {
	c.t.Helper()
	payload, err := json.Marshal(msg)
	require.NoError(c.t, err)
	c.sendRaw(payload)
}

func (c *client) sendRaw(payload []byte) {
	c.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(c.t, c.conn.Write(ctx, websocket.MessageText, payload))
}

func (c *client) recv() types.ServerMessage {
	c.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := c.conn.Read(ctx)
	require.NoError(c.t, err)
	var msg types.ServerMessage
	require.NoError(c.t, json.Unmarshal(data, &msg))
	return msg
}

func TestHandlerRejectsBadLobby(t *testing.T) {
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/?code=NOPE00")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandlerRoundTrip(t *testing.T) {
	_, url := newServer(t)
	c := dial(t, url+"/?code=ZED123")

	first := c.recv()
	require.Equal(t, "StateSnapshot", first.Type)
	require.NotNil(t, first.State)
	assert.Equal(t, "no_focus", string(first.State.Status.Reason))

	c.send(types.ClientMessage{Type: "SelectSlot", Kind: "pick", Team: "blue", Index: intp(0)})
	msg := c.recv()
	assert.Equal(t, 1, msg.Version)
	require.NotNil(t, msg.State.Focus.Active)
	assert.Equal(t, draft.Pick(draft.TeamBlue, 0), *msg.State.Focus.Active)

	c.send(types.ClientMessage{Type: "PlaceChampion", ChampionID: "Annie"})
	msg = c.recv()
	assert.Equal(t, 2, msg.Version)
	assert.Equal(t, []string{"Annie"}, msg.State.Used)

	c.send(types.ClientMessage{Type: "PlaceChampion", Kind: "ban", Team: "red", Index: intp(0), ChampionID: "Annie"})
	msg = c.recv()
	assert.Equal(t, "Notice", msg.Type)
	assert.Contains(t, msg.Notice, "champion already used")

	c.sendRaw([]byte("{"))
	msg = c.recv()
	assert.Equal(t, types.ServerMessage{Type: "Error", Error: "bad json"}, msg)

	c.send(types.ClientMessage{Type: "HoverChampion"})
	msg = c.recv()
	assert.Equal(t, types.ServerMessage{Type: "Error", Error: "unknown type"}, msg)
}
