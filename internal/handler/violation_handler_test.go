package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/dto"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/middleware"
	"github.com/muhammadyusri121/sistem-pembinaan-siswa/internal/models"
	appErrors "github.com/muhammadyusri121/sistem-pembinaan-siswa/pkg/errors"
)

type violationServiceMock struct {
	summaries       []dto.StudentSummary
	summariesErr    error
	counselResp     *dto.CounselingResult
	counselErr      error
	lastTargetNIS   string
	lastCounselNIS  string
	lastCounselReq  dto.CounselingRequest
	summariesCalled bool
	counselCalled   bool
}

func (m *violationServiceMock) Create(ctx context.Context, claims *models.JWTClaims, req dto.CreateViolationRequest) (*models.Violation, error) {
	return nil, nil
}

func (m *violationServiceMock) List(ctx context.Context, claims *models.JWTClaims, filter models.ViolationFilter) ([]models.Violation, *models.Pagination, error) {
	return nil, nil, nil
}

func (m *violationServiceMock) Get(ctx context.Context, claims *models.JWTClaims, id string) (*models.Violation, error) {
	return nil, nil
}

func (m *violationServiceMock) Update(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateViolationRequest) (*models.Violation, error) {
	return nil, nil
}

func (m *violationServiceMock) UpdateStatus(ctx context.Context, claims *models.JWTClaims, id string, req dto.UpdateViolationStatusRequest) (*models.Violation, error) {
	return nil, nil
}

func (m *violationServiceMock) Delete(ctx context.Context, claims *models.JWTClaims, id string) error {
	return nil
}

func (m *violationServiceMock) Summaries(ctx context.Context, claims *models.JWTClaims, targetNIS string) ([]dto.StudentSummary, error) {
	m.summariesCalled = true
	m.lastTargetNIS = targetNIS
	return m.summaries, m.summariesErr
}

func (m *violationServiceMock) Counsel(ctx context.Context, claims *models.JWTClaims, nis string, req dto.CounselingRequest) (*dto.CounselingResult, error) {
	m.counselCalled = true
	m.lastCounselNIS = nis
	m.lastCounselReq = req
	return m.counselResp, m.counselErr
}

func counselorClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-bk", Role: models.RoleCounselor}
}

func TestViolationHandlerSummaries(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &violationServiceMock{
		summaries: []dto.StudentSummary{{NIS: "1001", Nama: "Budi"}},
	}
	handler := NewViolationHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/pelanggaran/rekap?nis=1001", nil)
	c.Request = req
	c.Set(middleware.ClaimsContextKey, counselorClaims())

	handler.Summaries(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.summariesCalled)
	assert.Equal(t, "1001", mockSvc.lastTargetNIS)
}

func TestViolationHandlerSummariesUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewViolationHandler(&violationServiceMock{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/pelanggaran/rekap", nil)
	c.Request = req

	handler.Summaries(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestViolationHandlerCounsel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &violationServiceMock{
		counselResp: &dto.CounselingResult{Updated: 2, Summary: &dto.StudentSummary{NIS: "1001"}},
	}
	handler := NewViolationHandler(mockSvc)

	payload, _ := json.Marshal(dto.CounselingRequest{Status: "processed", Catatan: "Sudah dibina wali kelas"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/siswa/1001/pembinaan", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "nis", Value: "1001"}}
	c.Set(middleware.ClaimsContextKey, counselorClaims())

	handler.Counsel(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.counselCalled)
	assert.Equal(t, "1001", mockSvc.lastCounselNIS)
	assert.Equal(t, "processed", mockSvc.lastCounselReq.Status)
}

func TestViolationHandlerCounselInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &violationServiceMock{}
	handler := NewViolationHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/siswa/1001/pembinaan", bytes.NewBufferString(`{"status":`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "nis", Value: "1001"}}
	c.Set(middleware.ClaimsContextKey, counselorClaims())

	handler.Counsel(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.counselCalled)
}

func TestViolationHandlerCounselForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &violationServiceMock{
		counselErr: appErrors.Clone(appErrors.ErrForbidden, "Tidak memiliki akses melakukan pembinaan"),
	}
	handler := NewViolationHandler(mockSvc)

	payload, _ := json.Marshal(dto.CounselingRequest{Status: "processed"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/siswa/1001/pembinaan", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "nis", Value: "1001"}}
	c.Set(middleware.ClaimsContextKey, &models.JWTClaims{UserID: "user-guru", Role: models.RoleTeacher})

	handler.Counsel(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestViolationHandlerCounselUnknownStudent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &violationServiceMock{
		counselErr: appErrors.Clone(appErrors.ErrNotFound, "Siswa tidak ditemukan"),
	}
	handler := NewViolationHandler(mockSvc)

	payload, _ := json.Marshal(dto.CounselingRequest{Status: "resolved"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/siswa/9999/pembinaan", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "nis", Value: "9999"}}
	c.Set(middleware.ClaimsContextKey, counselorClaims())

	handler.Counsel(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
