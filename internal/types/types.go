package types

import "github.com/DoyleJ11/lol-rune-draft/internal/board"

type ClientMessage struct {
	Type       string `json:"type"`
	Kind       string `json:"kind,omitempty"`
	Team       string `json:"team,omitempty"`
	Index      *int   `json:"index,omitempty"`
	ChampionID string `json:"champion_id,omitempty"`
	StyleID    int    `json:"style_id,omitempty"`
}

type ServerMessage struct {
	Type    string      `json:"type"` // "StateSnapshot" | "Notice" | "Error"
	Version int         `json:"version,omitempty"`
	State   *board.View `json:"state,omitempty"`
	Notice  string      `json:"notice,omitempty"`
	Error   string      `json:"error,omitempty"`
}
