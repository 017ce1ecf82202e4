package dto

import "time"

// CreateViolationRequest is the payload for reporting a violation.
type CreateViolationRequest struct {
	NISSiswa       string    `json:"nis_siswa" validate:"required"`
	JenisID        string    `json:"jenis_pelanggaran_id" validate:"required"`
	WaktuKejadian  time.Time `json:"waktu_kejadian" validate:"required"`
	Tempat         string    `json:"tempat" validate:"required"`
	DetailKejadian string    `json:"detail_kejadian" validate:"required"`
	BuktiFoto      *string   `json:"bukti_foto,omitempty"`
}

// UpdateViolationRequest is the payload for editing a violation report.
type UpdateViolationRequest struct {
	JenisID        *string    `json:"jenis_pelanggaran_id,omitempty"`
	WaktuKejadian  *time.Time `json:"waktu_kejadian,omitempty"`
	Tempat         *string    `json:"tempat,omitempty"`
	DetailKejadian *string    `json:"detail_kejadian,omitempty"`
	BuktiFoto      *string    `json:"bukti_foto,omitempty"`
}

// UpdateViolationStatusRequest moves a violation along its workflow.
type UpdateViolationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=reported processed resolved"`
}
