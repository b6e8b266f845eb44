package models

import "github.com/uptrace/bun"

// Season groups matches into one recalculation scope.
type Season struct {
	bun.BaseModel `bun:"table:seasons,alias:sn"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}
