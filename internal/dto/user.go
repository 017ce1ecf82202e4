package dto

// CreateUserRequest is the payload for registering an account.
type CreateUserRequest struct {
	NIP            string   `json:"nip" validate:"required"`
	Email          string   `json:"email" validate:"required,email"`
	FullName       string   `json:"full_name" validate:"required"`
	Password       string   `json:"password" validate:"required,min=6"`
	Role           string   `json:"role" validate:"required"`
	KelasBinaan    []string `json:"kelas_binaan,omitempty"`
	AngkatanBinaan *string  `json:"angkatan_binaan,omitempty"`
}

// UpdateUserRequest is the payload for editing an account.
type UpdateUserRequest struct {
	NIP            *string  `json:"nip,omitempty"`
	Email          *string  `json:"email,omitempty" validate:"omitempty,email"`
	FullName       *string  `json:"full_name,omitempty"`
	Role           *string  `json:"role,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
	KelasBinaan    []string `json:"kelas_binaan,omitempty"`
	AngkatanBinaan *string  `json:"angkatan_binaan,omitempty"`
}
