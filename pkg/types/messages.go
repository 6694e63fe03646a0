package types

// Client -> Server (JSON over /ws?code=XXXXXX)
// Slots are addressed by kind ("pick" | "ban"), team ("blue" | "red") and
// index 0-4 (TOP, JUNGLE, MID, ADC, SUPPORT for picks).
//
// SelectSlot:
//   kind, team, index
//
// PlaceChampion:
//   champion_id: string            // catalog id, e.g. "Ahri"
//   kind, team, index              // optional; defaults to the active slot
//
// ClearSlot:
//   kind, team, index
//
// ResetDraft: {}
// SwapSides: {}
// ToggleLock: {}
//
// SelectPrimaryStyle / SelectSecondaryStyle:
//   style_id: number               // 8000 | 8100 | 8200 | 8300 | 8400

// Server -> Client
// StateSnapshot:
//   version: number
//   state: see snapshot.go
//
// Notice (only to the client whose command was rejected):
//   version: number
//   notice: string                 // e.g. "place Ahri in pick/red/2: champion already used"
//
// Error:
//   error: "bad json" | "unknown type" | "bad slot"
