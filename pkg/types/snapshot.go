package types

// StateSnapshot.state:
//   draft:
//     picks: { blue: Champion?[5], red: Champion?[5] }   // Champion = {id, key, name}
//     bans:  { blue: Champion?[5], red: Champion?[5] }
//   focus:
//     active: SlotRef?                                    // slot receiving the next champion
//     runes_focus: SlotRef?                               // pick slot whose runes are shown
//     locked: boolean
//   used: string[]                                        // champion ids anywhere in the grid
//   status:
//     phase: "not_ready" | "pending" | "ready" | "failed"
//     reason: "no_focus" | "picks_incomplete" | "engine_not_ready"   // not_ready only
//     message: string
//     request_id: number
//     player: number                                      // 0-9, blue first
//   prediction: { request: {id, picks, player}, result }  // ready only
//   panel:                                                // ready only
//     page: { primary_style, secondary_style?, overridden }
//     tabs: [{ id, name, icon, primary, secondary }]
//     primary / secondary: { style_id, name, keystones?, slots: Item[][] }
//     shards: { offense: Item[], flex: Item[], defense: Item[] }
//     spells: Item[]
//   Item = { id, name, icon, probability, weight, top }
