package models

import (
	"time"

	"github.com/lib/pq"
)

// Role values mirror the role column on the users table.
const (
	RoleAdmin         = "ADMIN"
	RolePrincipal     = "KEPALA_SEKOLAH"
	RoleVicePrincipal = "WAKIL_KEPALA_SEKOLAH"
	RoleHomeroom      = "WALI_KELAS"
	RoleCounselor     = "GURU_BK"
	RoleTeacher       = "GURU_UMUM"
)

// ValidRoles lists every role accepted on user creation.
var ValidRoles = []string{
	RoleAdmin,
	RolePrincipal,
	RoleVicePrincipal,
	RoleHomeroom,
	RoleCounselor,
	RoleTeacher,
}

// IsValidRole reports whether the given role is part of the closed role set.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// LeadershipRoles see every student regardless of assignment.
var LeadershipRoles = map[string]struct{}{
	RoleAdmin:         {},
	RolePrincipal:     {},
	RoleVicePrincipal: {},
}

// CounselingRoles may record counseling actions on violations.
var CounselingRoles = map[string]struct{}{
	RoleAdmin:         {},
	RolePrincipal:     {},
	RoleVicePrincipal: {},
	RoleCounselor:     {},
	RoleHomeroom:      {},
}

// User represents an account in the discipline system. KelasBinaan holds
// the class names a homeroom teacher supervises; AngkatanBinaan holds the
// grade level a counselor covers.
type User struct {
	ID             string         `db:"id" json:"id"`
	NIP            string         `db:"nip" json:"nip"`
	Email          string         `db:"email" json:"email"`
	FullName       string         `db:"full_name" json:"full_name"`
	HashedPassword string         `db:"hashed_password" json:"-"`
	Role           string         `db:"role" json:"role"`
	IsActive       bool           `db:"is_active" json:"is_active"`
	KelasBinaan    pq.StringArray `db:"kelas_binaan" json:"kelas_binaan,omitempty"`
	AngkatanBinaan *string        `db:"angkatan_binaan" json:"angkatan_binaan,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}

// IsLeadership reports whether the user holds a school-wide role.
func (u *User) IsLeadership() bool {
	_, ok := LeadershipRoles[u.Role]
	return ok
}

// CanCounsel reports whether the user may perform counseling actions.
func (u *User) CanCounsel() bool {
	_, ok := CounselingRoles[u.Role]
	return ok
}
