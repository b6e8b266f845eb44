package models

import "github.com/uptrace/bun"

// RatingChange is one append-only history row: the signed rating delta a
// player received for one processed set. Rows are only ever bulk-deleted
// by a season recalculation before the replay.
type RatingChange struct {
	bun.BaseModel `bun:"table:rating_history,alias:rh"`

	ID       int64   `bun:"id,pk,autoincrement" json:"id"`
	PlayerID int64   `bun:"player_id,notnull" json:"playerID"`
	SetID    int64   `bun:"set_id,notnull" json:"setID"`
	Delta    float64 `bun:"delta,notnull" json:"delta"`
}
