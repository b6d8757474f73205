package model

import "github.com/google/uuid"

type Role string

const (
	RoleCustomer   Role = "CUSTOMER"
	RoleContractor Role = "CONTRACTOR"
	RoleAdmin      Role = "ADMIN"
)

type Principal struct {
	UserID uuid.UUID
	Role   Role
	Email  string
}

func (p Principal) IsCustomer() bool   { return p.Role == RoleCustomer }
func (p Principal) IsContractor() bool { return p.Role == RoleContractor }
func (p Principal) IsAdmin() bool      { return p.Role == RoleAdmin }
