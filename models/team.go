package models

import "github.com/uptrace/bun"

// Team is one side of a match. Number is 1 or 2 and unique per match.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID      int64 `bun:"id,pk,autoincrement" json:"id"`
	MatchID int64 `bun:"match_id,notnull" json:"matchID"`
	Number  int   `bun:"team_number,notnull" json:"teamNumber"`

	Roster []*TeamPlayer `bun:"rel:has-many,join:id=team_id" json:"roster,omitempty"`
}

// TeamPlayer is one roster slot of a team. Slot is the 0-based position in
// the submitted lineup; Position is the court label derived from it.
type TeamPlayer struct {
	bun.BaseModel `bun:"table:team_player,alias:tp"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	TeamID   int64  `bun:"team_id,notnull" json:"teamID"`
	PlayerID int64  `bun:"player_id,notnull" json:"playerID"`
	Slot     int    `bun:"slot,notnull" json:"slot"`
	Position string `bun:"position,notnull" json:"position"`

	Player *Player `bun:"rel:belongs-to,join:player_id=id" json:"player,omitempty"`
}

// PositionForSlot maps a lineup slot to its court label:
// setter, opposite, two outside hitters, two middle blockers.
func PositionForSlot(slot int) string {
	switch slot {
	case 0:
		return "A"
	case 1:
		return "O"
	case 2, 3:
		return "P"
	case 4, 5:
		return "C"
	default:
		return ""
	}
}
