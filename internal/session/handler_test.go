package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newTestRouter() http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(NewService(NewMemoryStore())))
	return r
}

func TestCreateSessionEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("POST", "/session/create", strings.NewReader(`{"session_id":"abc"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Session Session `json:"session"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Session.SessionID != "abc" {
		t.Errorf("unexpected session id: %q", body.Session.SessionID)
	}
}

func TestCreateSessionRequiresID(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("POST", "/session/create", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestGetUnknownSessionIs404(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest("GET", "/session/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateVitalsEndpoint(t *testing.T) {
	router := newTestRouter()

	create := httptest.NewRequest("POST", "/session/create", strings.NewReader(`{"session_id":"v1"}`))
	router.ServeHTTP(httptest.NewRecorder(), create)

	req := httptest.NewRequest("POST", "/session/v1/update-vitals", strings.NewReader(`{"pulse":92,"spo2":97}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	get := httptest.NewRequest("GET", "/session/v1", nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, get)

	var sess Session
	if err := json.Unmarshal(getRec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if sess.Vitals.Pulse == nil || *sess.Vitals.Pulse != 92 {
		t.Errorf("vitals not persisted: %+v", sess.Vitals)
	}
}

func TestAddMedicationEndpoint(t *testing.T) {
	router := newTestRouter()

	create := httptest.NewRequest("POST", "/session/create", strings.NewReader(`{"session_id":"m1"}`))
	router.ServeHTTP(httptest.NewRecorder(), create)

	req := httptest.NewRequest("POST", "/session/m1/add-medication", strings.NewReader(`{"medication":"aspirin"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Session Session `json:"session"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Session.AdministeredMedications) != 1 || body.Session.AdministeredMedications[0].Name != "aspirin" {
		t.Errorf("medication not logged: %+v", body.Session.AdministeredMedications)
	}
}
