package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Sistem Pembinaan Siswa API",
        "description": "Pencatatan pelanggaran, eskalasi pembinaan, dan prestasi siswa",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Login dan profil pengguna"},
        {"name": "Siswa", "description": "Master data siswa"},
        {"name": "Pelanggaran", "description": "Pencatatan dan pembinaan pelanggaran"},
        {"name": "Prestasi", "description": "Pencatatan dan verifikasi prestasi"},
        {"name": "Master Data", "description": "Jenis pelanggaran, kelas, tahun ajaran"},
        {"name": "Perwalian", "description": "Guru Wali dan periode perwalian"},
        {"name": "Dashboard", "description": "Statistik agregat"},
        {"name": "Laporan", "description": "Ekspor rekap pembinaan"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Kredensial salah"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Profil pengguna saat ini",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Ganti kata sandi",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/siswa": {
            "get": {
                "tags": ["Siswa"],
                "summary": "Daftar siswa",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "kelas", "in": "query", "type": "string"},
                    {"name": "angkatan", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Siswa"],
                "summary": "Daftarkan siswa",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/siswa/{nis}": {
            "get": {
                "tags": ["Siswa"],
                "summary": "Detail siswa",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "nis", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Siswa tidak ditemukan"}
                }
            },
            "put": {
                "tags": ["Siswa"],
                "summary": "Ubah siswa",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "nis", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Siswa"],
                "summary": "Hapus siswa (soft delete)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "nis", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/siswa/{nis}/pembinaan": {
            "post": {
                "tags": ["Pelanggaran"],
                "summary": "Terapkan aksi pembinaan pada pelanggaran aktif siswa",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "nis", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CounselingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Status pembinaan tidak didukung"},
                    "403": {"description": "Tidak memiliki akses melakukan pembinaan"},
                    "404": {"description": "Siswa tidak ditemukan"}
                }
            }
        },
        "/pelanggaran": {
            "get": {
                "tags": ["Pelanggaran"],
                "summary": "Daftar pelanggaran dalam cakupan akses",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "nis", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "kategori", "in": "query", "type": "string"},
                    {"name": "date_from", "in": "query", "type": "string"},
                    {"name": "date_to", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Pelanggaran"],
                "summary": "Laporkan pelanggaran",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/pelanggaran/rekap": {
            "get": {
                "tags": ["Pelanggaran"],
                "summary": "Rekap pembinaan per siswa dengan rekomendasi eskalasi",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "nis", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/pelanggaran/{id}": {
            "get": {
                "tags": ["Pelanggaran"],
                "summary": "Detail pelanggaran",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Di luar cakupan akses"}
                }
            },
            "put": {
                "tags": ["Pelanggaran"],
                "summary": "Ubah laporan pelanggaran",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Pelanggaran"],
                "summary": "Hapus pelanggaran",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/pelanggaran/{id}/status": {
            "patch": {
                "tags": ["Pelanggaran"],
                "summary": "Ubah status alur pelanggaran",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/prestasi": {
            "get": {
                "tags": ["Prestasi"],
                "summary": "Daftar prestasi dalam cakupan akses",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Prestasi"],
                "summary": "Catat prestasi",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/prestasi/ringkasan": {
            "get": {
                "tags": ["Prestasi"],
                "summary": "Ringkasan prestasi dalam cakupan akses",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/prestasi/{id}": {
            "put": {
                "tags": ["Prestasi"],
                "summary": "Ubah prestasi",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Prestasi"],
                "summary": "Hapus prestasi",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/prestasi/{id}/verifikasi": {
            "patch": {
                "tags": ["Prestasi"],
                "summary": "Verifikasi atau tolak prestasi",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/jenis-pelanggaran": {
            "get": {
                "tags": ["Master Data"],
                "summary": "Daftar jenis pelanggaran",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Master Data"],
                "summary": "Tambah jenis pelanggaran",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/kelas": {
            "get": {
                "tags": ["Master Data"],
                "summary": "Daftar kelas",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Master Data"],
                "summary": "Tambah kelas",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/tahun-ajaran": {
            "get": {
                "tags": ["Master Data"],
                "summary": "Daftar tahun ajaran",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Master Data"],
                "summary": "Tambah tahun ajaran",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/perwalian/siswa": {
            "get": {
                "tags": ["Perwalian"],
                "summary": "Daftar siswa binaan Guru Wali",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Perwalian"],
                "summary": "Tambah siswa binaan",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Siswa sudah memiliki Guru Wali"},
                    "412": {"description": "Periode perwalian sedang ditutup"}
                }
            }
        },
        "/dashboard/stats": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Statistik agregat sekolah",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/laporan/rekap.csv": {
            "get": {
                "tags": ["Laporan"],
                "summary": "Unduh rekap pembinaan (CSV)",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/laporan/rekap.pdf": {
            "get": {
                "tags": ["Laporan"],
                "summary": "Unduh rekap pembinaan (PDF)",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CounselingRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["processed", "resolved"]},
                "catatan_pembinaan": {"type": "string"}
            }
        },
        "StudentSummary": {
            "type": "object",
            "properties": {
                "nis": {"type": "string"},
                "nama": {"type": "string"},
                "kelas": {"type": "string"},
                "angkatan": {"type": "string"},
                "active_counts": {"type": "object"},
                "effective_counts": {"type": "object"},
                "violations": {"type": "array", "items": {"type": "object"}},
                "recommendations": {"type": "array", "items": {"type": "string"}},
                "status_level": {"type": "string"},
                "status_label": {"type": "string"},
                "can_clear": {"type": "boolean"},
                "detail_restricted": {"type": "boolean"},
                "active_counts_hidden": {"type": "boolean"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total_items": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
