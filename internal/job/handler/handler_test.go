package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jobboard/jobs-api/internal/job"
	"github.com/jobboard/jobs-api/internal/job/service"
	"github.com/stretchr/testify/require"
)

const acmeJob = `{"type":"Full-time","title":"Engineer","description":"...","salary":"100k","location":"Remote","company":{"name":"Acme","contactEmail":"hr@acme.com"}}`

type jobBody struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Salary      string      `json:"salary"`
	Location    string      `json:"location"`
	Company     job.Company `json:"company"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type envelope struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Error   string  `json:"error"`
	Job     jobBody `json:"job"`
}

func newRouter(svc service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterJobRoutes(g, svc)
	return g
}

func do(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestJobHandler_Scenario(t *testing.T) {
	g := newRouter(service.NewMemoryService())

	// create
	w := do(g, http.MethodPost, "/jobs", acmeJob)
	require.Equal(t, http.StatusCreated, w.Code)
	var cr envelope
	decode(t, w, &cr)
	require.Equal(t, "success", cr.Status)
	id := cr.Job.ID
	require.NotEmpty(t, id)
	require.Equal(t, cr.Job.CreatedAt, cr.Job.UpdatedAt)

	// get returns identical fields
	w = do(g, http.MethodGet, "/jobs/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got jobBody
	decode(t, w, &got)
	require.Equal(t, cr.Job, got)
	require.Equal(t, "hr@acme.com", got.Company.ContactEmail)

	// update salary only
	w = do(g, http.MethodPut, "/jobs/"+id, `{"salary":"120k"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var ur envelope
	decode(t, w, &ur)
	require.Equal(t, "success", ur.Status)
	require.Equal(t, "120k", ur.Job.Salary)
	require.Equal(t, "Engineer", ur.Job.Title)
	require.True(t, ur.Job.UpdatedAt.After(cr.Job.UpdatedAt))
	require.Equal(t, cr.Job.CreatedAt, ur.Job.CreatedAt)

	// list
	w = do(g, http.MethodGet, "/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []jobBody
	decode(t, w, &list)
	require.Len(t, list, 1)

	// delete
	w = do(g, http.MethodDelete, "/jobs/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var dr envelope
	decode(t, w, &dr)
	require.Equal(t, "success", dr.Status)
	require.Equal(t, "Job deleted", dr.Message)
	require.Equal(t, id, dr.Job.ID)

	// gone
	w = do(g, http.MethodGet, "/jobs/"+id, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	var nf envelope
	decode(t, w, &nf)
	require.Equal(t, "Job not found", nf.Message)
}

func TestJobHandler_CreateMissingFields(t *testing.T) {
	g := newRouter(service.NewMemoryService())

	w := do(g, http.MethodPost, "/jobs", `{"title":"X"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var er envelope
	decode(t, w, &er)
	require.Equal(t, "error", er.Status)
	require.Contains(t, er.Message, "Job validation failed")
	require.Contains(t, er.Message, "company.name")

	w = do(g, http.MethodGet, "/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestJobHandler_TypeMismatchIsValidationFailure(t *testing.T) {
	g := newRouter(service.NewMemoryService())

	w := do(g, http.MethodPost, "/jobs", `{"title":{"nested":true}}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var er envelope
	decode(t, w, &er)
	require.Equal(t, "error", er.Status)
	require.Contains(t, er.Message, "title")
}

func TestJobHandler_MalformedJSON(t *testing.T) {
	g := newRouter(service.NewMemoryService())

	w := do(g, http.MethodPost, "/jobs", `{"title":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestJobHandler_UpdateInvalidKeepsRecord(t *testing.T) {
	g := newRouter(service.NewMemoryService())
	w := do(g, http.MethodPost, "/jobs", acmeJob)
	require.Equal(t, http.StatusCreated, w.Code)
	var cr envelope
	decode(t, w, &cr)

	w = do(g, http.MethodPut, "/jobs/"+cr.Job.ID, `{"location":"","company":{"name":""}}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var er envelope
	decode(t, w, &er)
	require.Equal(t, "error", er.Status)
	require.Contains(t, er.Message, "location")

	w = do(g, http.MethodGet, "/jobs/"+cr.Job.ID, "")
	var got jobBody
	decode(t, w, &got)
	require.Equal(t, cr.Job, got)
}

func TestJobHandler_UpdateNullRequiredFieldsRejected(t *testing.T) {
	g := newRouter(service.NewMemoryService())
	w := do(g, http.MethodPost, "/jobs", acmeJob)
	require.Equal(t, http.StatusCreated, w.Code)
	var cr envelope
	decode(t, w, &cr)

	w = do(g, http.MethodPut, "/jobs/"+cr.Job.ID, `{"title":null,"company":null}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var er envelope
	decode(t, w, &er)
	require.Equal(t, "error", er.Status)
	require.Contains(t, er.Message, "Path `title` is required.")
	require.Contains(t, er.Message, "Path `company.name` is required.")

	w = do(g, http.MethodGet, "/jobs/"+cr.Job.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got jobBody
	decode(t, w, &got)
	require.Equal(t, cr.Job, got)
}

func TestJobHandler_EmptyBody(t *testing.T) {
	g := newRouter(service.NewMemoryService())

	// POST with no body is a create with every required field missing
	w := do(g, http.MethodPost, "/jobs", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var er envelope
	decode(t, w, &er)
	require.Equal(t, "error", er.Status)
	require.Contains(t, er.Message, "Job validation failed")
	require.Contains(t, er.Message, "company.contactEmail")

	w = do(g, http.MethodPost, "/jobs", acmeJob)
	require.Equal(t, http.StatusCreated, w.Code)
	var cr envelope
	decode(t, w, &cr)

	// PUT with no body changes nothing but still succeeds
	w = do(g, http.MethodPut, "/jobs/"+cr.Job.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var ur envelope
	decode(t, w, &ur)
	require.Equal(t, "success", ur.Status)
	require.Equal(t, cr.Job.Title, ur.Job.Title)
	require.Equal(t, cr.Job.Company, ur.Job.Company)
	require.Equal(t, cr.Job.CreatedAt, ur.Job.CreatedAt)
}

func TestJobHandler_NotFound(t *testing.T) {
	g := newRouter(service.NewMemoryService())
	missing := "0123456789abcdef01234567"

	require.Equal(t, http.StatusNotFound, do(g, http.MethodGet, "/jobs/"+missing, "").Code)
	require.Equal(t, http.StatusNotFound, do(g, http.MethodPut, "/jobs/"+missing, `{"salary":"1"}`).Code)
	require.Equal(t, http.StatusNotFound, do(g, http.MethodDelete, "/jobs/"+missing, "").Code)

	w := do(g, http.MethodGet, "/jobs", "")
	require.JSONEq(t, `[]`, w.Body.String())
}

func TestJobHandler_MalformedID(t *testing.T) {
	g := newRouter(service.NewMemoryService())

	w := do(g, http.MethodGet, "/jobs/not-an-id", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var er envelope
	decode(t, w, &er)
	require.Equal(t, "Error fetching job", er.Message)
	require.Contains(t, er.Error, "invalid job id")

	w = do(g, http.MethodDelete, "/jobs/not-an-id", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	decode(t, w, &er)
	require.Equal(t, "error", er.Status)
}

// brokenService fails every operation with a persistence fault.
type brokenService struct{ err error }

func (b brokenService) List(context.Context) ([]*job.Job, error) { return nil, b.err }
func (b brokenService) Get(context.Context, string) (*job.Job, error) { return nil, b.err }
func (b brokenService) Create(context.Context, job.Patch) (*job.Job, error) { return nil, b.err }
func (b brokenService) Update(context.Context, string, job.Patch) (*job.Job, error) {
	return nil, b.err
}
func (b brokenService) Delete(context.Context, string) (*job.Job, error) { return nil, b.err }
func (b brokenService) Ping(context.Context) error { return b.err }

func TestJobHandler_PersistenceFault(t *testing.T) {
	g := newRouter(brokenService{err: errors.New("server selection timeout")})
	id := "0123456789abcdef01234567"

	w := do(g, http.MethodGet, "/jobs", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	var er envelope
	decode(t, w, &er)
	require.Equal(t, "Error fetching jobs", er.Message)
	require.Equal(t, "server selection timeout", er.Error)

	w = do(g, http.MethodPost, "/jobs", acmeJob)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	er = envelope{}
	decode(t, w, &er)
	require.Equal(t, "error", er.Status)
	require.Equal(t, "server selection timeout", er.Message)

	require.Equal(t, http.StatusInternalServerError, do(g, http.MethodPut, "/jobs/"+id, `{}`).Code)
	require.Equal(t, http.StatusInternalServerError, do(g, http.MethodDelete, "/jobs/"+id, "").Code)
}
