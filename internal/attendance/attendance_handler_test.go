package attendance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-attendpay/internal/attendance"

	attendanceerrors "go-attendpay/internal/attendance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	checkInFn       func(ctx context.Context, companyID, employeeID string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error)
	checkOutFn      func(ctx context.Context, companyID, employeeID string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error)
	applyLeaveFn    func(ctx context.Context, companyID string, req attendance.LeaveSignalRequest) ([]attendance.AttendanceResponse, error)
	autoCloseFn     func(ctx context.Context, now time.Time) (int, error)
	getAllFn        func(ctx context.Context, companyID string) ([]attendance.AttendanceResponse, error)
	getByEmployeeFn func(ctx context.Context, companyID, employeeID, from, to string) ([]attendance.AttendanceResponse, error)
}

func (f *fakeService) CheckIn(ctx context.Context, companyID, employeeID string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	return f.checkInFn(ctx, companyID, employeeID, req)
}
func (f *fakeService) CheckOut(ctx context.Context, companyID, employeeID string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	return f.checkOutFn(ctx, companyID, employeeID, req)
}
func (f *fakeService) ApplyLeave(ctx context.Context, companyID string, req attendance.LeaveSignalRequest) ([]attendance.AttendanceResponse, error) {
	return f.applyLeaveFn(ctx, companyID, req)
}
func (f *fakeService) RecordBiometric(ctx context.Context, companyID, employeeID string, date time.Time, obs attendance.Observation) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, nil
}
func (f *fakeService) AutoCloseTick(ctx context.Context, now time.Time) (int, error) {
	return f.autoCloseFn(ctx, now)
}
func (f *fakeService) GetAll(ctx context.Context, companyID string) ([]attendance.AttendanceResponse, error) {
	return f.getAllFn(ctx, companyID)
}
func (f *fakeService) GetByEmployeeAndRange(ctx context.Context, companyID, employeeID, from, to string) ([]attendance.AttendanceResponse, error) {
	return f.getByEmployeeFn(ctx, companyID, employeeID, from, to)
}

func TestHandler_CheckIn(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	svc := &fakeService{
		checkInFn: func(ctx context.Context, cid, eid string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, employeeID, eid)
			assert.InDelta(t, -6.2088, *req.Latitude, 0.0001)
			return attendance.AttendanceResponse{ID: uuid.New().String(), CompanyID: cid, EmployeeID: eid}, nil
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", companyID)
	c.Set("employee_id", employeeID)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/check-in",
		strings.NewReader(`{"latitude":-6.2088,"longitude":106.8456,"accuracy":25}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CheckIn(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestHandler_CheckInMissingCoordinates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := attendance.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("employee_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/check-in", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CheckIn(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CheckInZeroCoordinates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 0/0 is a real place; binding must not treat it as absent.
	svc := &fakeService{
		checkInFn: func(ctx context.Context, cid, eid string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
			assert.Zero(t, *req.Latitude)
			assert.Zero(t, *req.Longitude)
			return attendance.AttendanceResponse{ID: uuid.New().String()}, nil
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("employee_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/check-in",
		strings.NewReader(`{"latitude":0,"longitude":0}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CheckIn(c)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestHandler_CheckInOutsideRadius(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		checkInFn: func(ctx context.Context, cid, eid string, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
			return attendance.AttendanceResponse{}, attendanceerrors.ErrOutsideOfficeRadius.WithDetails(map[string]any{
				"distance_meters":        523.4,
				"required_radius_meters": 100.0,
			})
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("employee_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/check-in",
		strings.NewReader(`{"latitude":-6.22,"longitude":106.84}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CheckIn(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "POLICY_VIOLATION")
	assert.Contains(t, w.Body.String(), "distance_meters")
}

func TestHandler_CheckOutConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		checkOutFn: func(ctx context.Context, cid, eid string, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
			return attendance.AttendanceResponse{}, attendanceerrors.ErrNotCheckedIn
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Set("employee_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/check-out", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	h.CheckOut(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_LeaveSignal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()

	svc := &fakeService{
		applyLeaveFn: func(ctx context.Context, cid string, req attendance.LeaveSignalRequest) ([]attendance.AttendanceResponse, error) {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, "ANNUAL", req.LeaveKind)
			return []attendance.AttendanceResponse{{IsLeave: true}}, nil
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", companyID)
	body := `{"employee_id":"` + uuid.New().String() + `","start_date":"2025-03-10","end_date":"2025-03-12","leave_kind":"ANNUAL"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/leave-signal", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.LeaveSignal(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_AutoCloseTick(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		autoCloseFn: func(ctx context.Context, now time.Time) (int, error) {
			return 3, nil
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/attendances/auto-close", nil)

	h.AutoCloseTick(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"closed":3`)
}

func TestHandler_GetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		getAllFn: func(ctx context.Context, cid string) ([]attendance.AttendanceResponse, error) {
			return []attendance.AttendanceResponse{{ID: uuid.New().String()}}, nil
		},
	}
	h := attendance.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("company_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodGet, "/attendances", nil)

	h.GetAll(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
