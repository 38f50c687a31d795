package domain

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "Admin"
	RolePatient Role = "Patient"
	RoleDoctor  Role = "Doctor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePatient, RoleDoctor:
		return true
	}
	return false
}

// User is an account as seen by the chat core. Accounts are provisioned
// elsewhere; this service reads them and the seed command creates them.
type User struct {
	ID               string    `json:"_id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	Gender           string    `json:"gender,omitempty"`
	Role             Role      `json:"role"`
	DoctorDepartment string    `json:"doctorDepartment,omitempty"`
	PasswordHash     string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
}

// FullName is the display name used in contact lists.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
