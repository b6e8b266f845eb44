package models

import "github.com/uptrace/bun"

// BaseRating is the rating every player starts at and the value a season
// recalculation resets participants to.
const BaseRating = 1000

// Player is a league player with a mutable skill rating.
// Only the rating engine writes the rating column.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID     int64   `bun:"id,pk,autoincrement" json:"id"`
	Name   string  `bun:"name,notnull,unique" json:"name"`
	Rating float64 `bun:"rating,notnull,default:1000" json:"rating"`
}
