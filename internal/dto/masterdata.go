package dto

// CreateViolationTypeRequest is the payload for adding a violation type.
type CreateViolationTypeRequest struct {
	Nama      string  `json:"nama_pelanggaran" validate:"required"`
	Kategori  string  `json:"kategori" validate:"required,oneof=ringan sedang berat Ringan Sedang Berat"`
	Poin      int     `json:"poin" validate:"gte=0"`
	Deskripsi *string `json:"deskripsi,omitempty"`
}

// UpdateViolationTypeRequest is the payload for editing a violation type.
type UpdateViolationTypeRequest struct {
	Nama      *string `json:"nama_pelanggaran,omitempty"`
	Kategori  *string `json:"kategori,omitempty" validate:"omitempty,oneof=ringan sedang berat Ringan Sedang Berat"`
	Poin      *int    `json:"poin,omitempty" validate:"omitempty,gte=0"`
	Deskripsi *string `json:"deskripsi,omitempty"`
}

// CreateClassRequest is the payload for adding a class.
type CreateClassRequest struct {
	NamaKelas    string  `json:"nama_kelas" validate:"required"`
	Tingkat      string  `json:"tingkat" validate:"required"`
	WaliKelasNIP *string `json:"wali_kelas_nip,omitempty"`
	TahunAjaran  string  `json:"tahun_ajaran" validate:"required"`
}

// UpdateClassRequest is the payload for editing a class.
type UpdateClassRequest struct {
	NamaKelas    *string `json:"nama_kelas,omitempty"`
	Tingkat      *string `json:"tingkat,omitempty"`
	WaliKelasNIP *string `json:"wali_kelas_nip,omitempty"`
	TahunAjaran  *string `json:"tahun_ajaran,omitempty"`
}

// CreateAcademicYearRequest is the payload for adding an academic year.
type CreateAcademicYearRequest struct {
	Tahun    string `json:"tahun" validate:"required"`
	Semester string `json:"semester" validate:"required,oneof=ganjil genap"`
}
