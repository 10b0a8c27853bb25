package backup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func doRequest(t *testing.T, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestExportHandler_ServesAttachment(t *testing.T) {
	f := newFixture()
	f.seed()
	h := NewHandler(f.engine)

	rec := doRequest(t, h.Export, http.MethodGet, "/api/auth/export-data", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.HasPrefix(cd, "attachment; filename=clinic-backup-") {
		t.Errorf("unexpected content disposition %q", cd)
	}

	var export Export
	if err := json.Unmarshal(rec.Body.Bytes(), &export); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if export.Version != FormatVersion || export.Counts.Total != 6 {
		t.Errorf("unexpected export metadata: %s / %d", export.Version, export.Counts.Total)
	}
}

func TestImportHandler_InvalidFormat(t *testing.T) {
	f := newFixture()
	f.seed()
	h := NewHandler(f.engine)

	rec := doRequest(t, h.Import, http.MethodPost, "/api/auth/import-data",
		`{"data":{"doctors":[]}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(f.patients.patients) != 2 {
		t.Error("expected store untouched on invalid format")
	}
}

func TestImportHandler_RollbackShape(t *testing.T) {
	f := newFixture()
	f.seed()
	h := NewHandler(f.engine)

	export, _ := f.engine.Export(context.Background())
	payload := payloadFromExport(t, export)
	(*payload.Data.Patients)[0].DoctorID = "ffffffffffffffffffffffff"
	raw, _ := json.Marshal(payload)

	rec := doRequest(t, h.Import, http.MethodPost, "/api/auth/import-data", string(raw))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var body struct {
		Rollback bool `json:"rollback"`
		Critical bool `json:"critical"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if !body.Rollback || body.Critical {
		t.Errorf("expected rollback=true critical=false, got %+v", body)
	}
}

func TestImportHandler_Success(t *testing.T) {
	f := newFixture()
	f.seed()
	h := NewHandler(f.engine)

	export, _ := f.engine.Export(context.Background())
	raw, _ := json.Marshal(payloadFromExport(t, export))

	rec := doRequest(t, h.Import, http.MethodPost, "/api/auth/import-data", string(raw))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Imported Counts `json:"imported"`
		Verified bool   `json:"verified"`
		Warning  string `json:"warning"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if body.Imported.Total != 6 || !body.Verified || body.Warning == "" {
		t.Errorf("unexpected body: %+v", body)
	}
}
