package dto

// CreateStudentRequest is the payload for registering a student.
type CreateStudentRequest struct {
	NIS          string `json:"nis" validate:"required"`
	Nama         string `json:"nama" validate:"required"`
	IDKelas      string `json:"id_kelas" validate:"required"`
	Angkatan     string `json:"angkatan" validate:"required"`
	JenisKelamin string `json:"jenis_kelamin" validate:"required,oneof=L P"`
}

// UpdateStudentRequest is the payload for editing a student.
type UpdateStudentRequest struct {
	Nama         *string `json:"nama,omitempty"`
	IDKelas      *string `json:"id_kelas,omitempty"`
	Angkatan     *string `json:"angkatan,omitempty"`
	JenisKelamin *string `json:"jenis_kelamin,omitempty" validate:"omitempty,oneof=L P"`
	StatusSiswa  *string `json:"status_siswa,omitempty" validate:"omitempty,oneof=aktif lulus pindah dikeluarkan"`
}
