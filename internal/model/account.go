package model

import (
	"database/sql/driver"
	"strings"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

func (a Address) Value() (driver.Value, error) { return jsonValue(a) }
func (a *Address) Scan(src interface{}) error  { return scanJSON(src, a) }

// Account is the identity record every login resolves to.
type Account struct {
	Base
	Email        string  `json:"email" db:"email" validate:"required,email"`
	PasswordHash string  `json:"-" db:"password_hash"`
	FirstName    string  `json:"firstName" db:"first_name" validate:"required,max=100"`
	LastName     string  `json:"lastName" db:"last_name" validate:"required,max=100"`
	Role         Role    `json:"role" db:"role"`
	Phone        string  `json:"phone,omitempty" db:"phone" validate:"max=30"`
	DateOfBirth  *Date   `json:"dateOfBirth,omitempty" db:"date_of_birth"`
	Gender       string  `json:"gender,omitempty" db:"gender" validate:"omitempty,oneof=male female other"`
	Address      Address `json:"address" db:"address"`
	IsActive     bool    `json:"isActive" db:"is_active"`
}

// FullName joins first and last name.
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// NormalizeEmail lower-cases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserInfo is the short account view returned by register and login.
type UserInfo struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      Role   `json:"role"`
}

func (a *Account) Info() UserInfo {
	return UserInfo{
		ID:        a.ID.String(),
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
	}
}
