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

	"github.com/noah-isme/review-desk-api/internal/middleware"
	"github.com/noah-isme/review-desk-api/internal/models"
	"github.com/noah-isme/review-desk-api/internal/service"
	appErrors "github.com/noah-isme/review-desk-api/pkg/errors"
)

type workItemServiceMock struct {
	item       *models.WorkItem
	items      []models.WorkItem
	err        error
	lastID     string
	lastUpdate models.UpdateWorkItemRequest
	lastStatus models.SetStatusRequest
	principal  *models.Principal
}

func (m *workItemServiceMock) Create(ctx context.Context, p *models.Principal, req models.CreateWorkItemRequest) (*models.WorkItem, error) {
	m.principal = p
	return m.item, m.err
}

func (m *workItemServiceMock) ListOwn(ctx context.Context, p *models.Principal) ([]models.WorkItem, error) {
	m.principal = p
	return m.items, m.err
}

func (m *workItemServiceMock) Get(ctx context.Context, p *models.Principal, id string) (*models.WorkItem, error) {
	m.lastID = id
	return m.item, m.err
}

func (m *workItemServiceMock) Update(ctx context.Context, p *models.Principal, id string, req models.UpdateWorkItemRequest) (*models.WorkItem, error) {
	m.lastID = id
	m.lastUpdate = req
	return m.item, m.err
}

func (m *workItemServiceMock) SetStatus(ctx context.Context, p *models.Principal, id string, req models.SetStatusRequest) (*models.WorkItem, error) {
	m.lastID = id
	m.lastStatus = req
	return m.item, m.err
}

func (m *workItemServiceMock) Delete(ctx context.Context, p *models.Principal, id string) error {
	m.lastID = id
	return m.err
}

func (m *workItemServiceMock) ListForStudent(ctx context.Context, p *models.Principal, studentID string) ([]models.WorkItem, error) {
	m.lastID = studentID
	return m.items, m.err
}

func (m *workItemServiceMock) ListAll(ctx context.Context, p *models.Principal) ([]models.WorkItem, error) {
	return m.items, m.err
}

var student = &models.Principal{AccountID: "alice-id", Username: "alice", Role: models.RoleStudent}

func newTestContext(method, path, body string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	c.Set(middleware.ContextUserKey, student)
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	return env.Error.Code
}

func TestWorkItemHandlerCreate(t *testing.T) {
	mockSvc := &workItemServiceMock{item: &models.WorkItem{ID: "item-1", Status: models.StatusDraft}}
	h := NewWorkItemHandler(mockSvc)

	c, w := newTestContext(http.MethodPost, "/work-items", `{"title":"Essay","content":"body"}`, nil)
	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, student, mockSvc.principal)
	assert.Contains(t, w.Body.String(), `"status":"draft"`)
}

func TestWorkItemHandlerCreateInvalidBody(t *testing.T) {
	h := NewWorkItemHandler(&workItemServiceMock{})

	c, w := newTestContext(http.MethodPost, "/work-items", `{"title":`, nil)
	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, w))
}

func TestWorkItemHandlerListIncludesCount(t *testing.T) {
	h := NewWorkItemHandler(&workItemServiceMock{items: []models.WorkItem{{ID: "a"}, {ID: "b"}}})

	c, w := newTestContext(http.MethodGet, "/work-items", "", nil)
	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)
}

func TestWorkItemHandlerErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{appErrors.Clone(appErrors.ErrNotFound, "work item not found"), http.StatusNotFound, "NOT_FOUND"},
		{appErrors.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{appErrors.Clone(appErrors.ErrValidation, "unrecognized status"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{context.DeadlineExceeded, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			h := NewWorkItemHandler(&workItemServiceMock{err: tc.err})
			c, w := newTestContext(http.MethodGet, "/work-items/x", "", gin.Params{{Key: "id", Value: "x"}})
			h.Get(c)
			require.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.code, decodeError(t, w))
		})
	}
}

func TestWorkItemHandlerUpdateAndStatusPassParams(t *testing.T) {
	mockSvc := &workItemServiceMock{item: &models.WorkItem{ID: "item-1"}}
	h := NewWorkItemHandler(mockSvc)

	c, w := newTestContext(http.MethodPut, "/work-items/item-1", `{"content":"new"}`, gin.Params{{Key: "id", Value: "item-1"}})
	h.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "item-1", mockSvc.lastID)
	require.NotNil(t, mockSvc.lastUpdate.Content)
	assert.Nil(t, mockSvc.lastUpdate.Title)
	assert.Equal(t, "new", *mockSvc.lastUpdate.Content)

	c, w = newTestContext(http.MethodPut, "/work-items/item-1/status", `{"status":"needs_revision"}`, gin.Params{{Key: "id", Value: "item-1"}})
	h.SetStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "needs_revision", mockSvc.lastStatus.Status)
}

func TestWorkItemHandlerDelete(t *testing.T) {
	h := NewWorkItemHandler(&workItemServiceMock{})
	c, w := newTestContext(http.MethodDelete, "/work-items/item-1", "", gin.Params{{Key: "id", Value: "item-1"}})
	h.Delete(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

type exportServiceMock struct {
	format string
}

func (m *exportServiceMock) ExportWorkItems(ctx context.Context, p *models.Principal, format string) (*service.ExportFile, error) {
	m.format = format
	return &service.ExportFile{Filename: "work_items.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("ID\n")}, nil
}

func TestExportHandlerWritesAttachment(t *testing.T) {
	mockSvc := &exportServiceMock{}
	h := NewExportHandler(mockSvc)

	c, w := newTestContext(http.MethodGet, "/admin/work-items/export?format=csv", "", nil)
	h.WorkItems(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", mockSvc.format)
	assert.Equal(t, "attachment; filename=work_items.csv", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "ID\n", w.Body.String())
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

func TestMetricsHandlerReady(t *testing.T) {
	ok := NewMetricsHandler(nil, map[string]Pinger{"postgres": pingerFunc(func(context.Context) error { return nil })})
	c, w := newTestContext(http.MethodGet, "/ready", "", nil)
	ok.Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	down := NewMetricsHandler(nil, map[string]Pinger{"redis": pingerFunc(func(context.Context) error { return context.Canceled })})
	c, w = newTestContext(http.MethodGet, "/ready", "", nil)
	down.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"unavailable"`)
}
