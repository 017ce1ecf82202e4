package dto

// AddGuardianshipRequest assigns a student to the caller's roster.
type AddGuardianshipRequest struct {
	NISSiswa string `json:"nis_siswa" validate:"required"`
}

// ReplaceGuardianAccessRequest swaps the full guru wali access list.
type ReplaceGuardianAccessRequest struct {
	UserIDs []string `json:"user_ids" validate:"required"`
}

// SetGuardianshipPeriodRequest toggles the guardianship enrollment window.
type SetGuardianshipPeriodRequest struct {
	Active bool `json:"active"`
}
