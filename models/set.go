package models

import "github.com/uptrace/bun"

// Set is one sub-game of a match. Winner is the team number (1 or 2);
// draws do not exist. Scores are nullable because historical entries
// sometimes recorded only the winner.
type Set struct {
	bun.BaseModel `bun:"table:sets,alias:s"`

	ID              int64 `bun:"id,pk,autoincrement" json:"id"`
	MatchID         int64 `bun:"match_id,notnull" json:"matchID"`
	Team1Score      *int  `bun:"team1_score" json:"team1Score,omitempty"`
	Team2Score      *int  `bun:"team2_score" json:"team2Score,omitempty"`
	Winner          int   `bun:"winner,notnull" json:"winner"`
	IgnoreForRating bool  `bun:"ignore_for_rating,notnull,default:false" json:"ignoreForRating"`
	Order           int   `bun:"set_order,notnull" json:"setOrder"`

	History []*RatingChange `bun:"rel:has-many,join:id=set_id" json:"history,omitempty"`
}
