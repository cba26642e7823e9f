package domain

import "time"

type Role string

const (
	RoleClient  Role = "client"
	RoleCourier Role = "courier"
)

func (r Role) IsValid() bool {
	return r == RoleClient || r == RoleCourier
}

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
