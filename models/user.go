package models

import "github.com/uptrace/bun"

// User is an API user with a bcrypt-hashed password. Match entry and
// season recalculation require a signed-in user.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username,notnull,unique" json:"username"`
	Password string `bun:"password,notnull" json:"-"`
}
