package model

import "time"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Employee is directory data only. Credentials and sessions live in the
// auth gateway; this service never sees them.
type Employee struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name       string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email      string    `json:"email" bson:"email" validate:"required,email"`
	Department string    `json:"department" bson:"department" validate:"required,min=2,max=100"`
	Role       string    `json:"role" bson:"role" validate:"required,oneof=admin employee"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type EmployeeUpdate struct {
	Name       string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Department string `json:"department,omitempty" validate:"omitempty,min=2,max=100"`
	Role       string `json:"role,omitempty" validate:"omitempty,oneof=admin employee"`
}

// Requester is the authenticated identity the gateway attaches to every
// request. It arrives pre-verified; this service only reads it.
type Requester struct {
	ID   string
	Role string
}

func (r Requester) IsAdmin() bool {
	return r.Role == RoleAdmin
}
