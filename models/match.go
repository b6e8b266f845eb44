package models

import "github.com/uptrace/bun"

// Match is one fixture between two teams, played as an ordered run of sets.
// Matches are written once at entry time; the rating engine only reads them.
type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Date     string `bun:"date,notnull,type:date" json:"date"`
	SeasonID int64  `bun:"season_id,notnull" json:"seasonID"`

	Teams []*Team `bun:"rel:has-many,join:id=match_id" json:"teams,omitempty"`
	Sets  []*Set  `bun:"rel:has-many,join:id=match_id" json:"sets,omitempty"`
}
