package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-records/internal/router"
)

const patientHeader = "last_name,first_name,email,telephone,address,owner_comments," +
	"patient_name,species_code,breed_name,sex,intact,date_of_birth,age_years,weight_kg\n"

func TestHTTP_EndToEnd_PatientImport(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	// 1) Alta de la especie (el import nunca crea especies)
	createSpecies(t, ts.URL, "CANINE", "Canine")

	// 2) Import de pacientes: un owner nuevo, dos pacientes
	csvBody := patientHeader +
		"Doe,John,j@x.com,555-1234,Main St,first visit,Milo,CANINE,Labrador,M,yes,2020-06-01,,28.4\n" +
		"Doe,John,j@x.com,,,,Luna,CANINE,Labrador,F,no,2021-01-15,,22.0\n"

	st, body := uploadCSV(t, ts.URL, "/imports/patients/execute", "patients.csv", csvBody)
	if st != http.StatusOK {
		t.Fatalf("expected 200 execute import, got %d body=%s", st, string(body))
	}

	var res struct {
		Success       bool `json:"success"`
		ImportedCount int  `json:"imported_count"`
		OwnersCreated int  `json:"owners_created"`
		SkippedCount  int  `json:"skipped_count"`
	}
	_ = json.Unmarshal(body, &res)
	if !res.Success || res.ImportedCount != 2 || res.OwnersCreated != 1 {
		t.Fatalf("unexpected import result: %s", string(body))
	}

	// 3) El owner quedó listado y buscable
	ownerID := findOwnerID(t, ts.URL, "Doe")

	// 4) Sus pacientes quedaron asociados
	{
		st, body := doReq(t, ts.URL, "GET", "/owners/"+ownerID+"/patients", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list patients, got %d body=%s", st, string(body))
		}
		var pts []struct {
			Name string `json:"name"`
		}
		_ = json.Unmarshal(body, &pts)
		if len(pts) != 2 {
			t.Fatalf("expected 2 patients, got %d body=%s", len(pts), string(body))
		}
	}

	// 5) Re-importar el mismo archivo es un no-op (todo duplicado)
	{
		st, body := uploadCSV(t, ts.URL, "/imports/patients/execute", "patients.csv", csvBody)
		if st != http.StatusOK {
			t.Fatalf("expected 200 re-import, got %d body=%s", st, string(body))
		}
		_ = json.Unmarshal(body, &res)
		if !res.Success || res.ImportedCount != 0 || res.SkippedCount != 2 {
			t.Fatalf("expected idempotent re-import, got %s", string(body))
		}
	}
}

func TestHTTP_ImportPreview(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	csvBody := "last_name,first_name\nDoe,John\nSmith,Anna\n"

	st, body := uploadCSV(t, ts.URL, "/imports/owners/preview", "owners.csv", csvBody)
	if st != http.StatusOK {
		t.Fatalf("expected 200 preview, got %d body=%s", st, string(body))
	}

	var res struct {
		Success bool `json:"success"`
		Preview struct {
			Headers []string   `json:"headers"`
			Rows    [][]string `json:"rows"`
		} `json:"preview"`
		TotalRecords int `json:"total_records"`
	}
	_ = json.Unmarshal(body, &res)
	if !res.Success || res.TotalRecords != 2 || len(res.Preview.Rows) != 2 {
		t.Fatalf("unexpected preview: %s", string(body))
	}

	// El preview no muta estado: no hay owners después
	st, body = doReq(t, ts.URL, "GET", "/owners", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list owners, got %d", st)
	}
	var list struct {
		TotalOwners int `json:"total_owners"`
	}
	_ = json.Unmarshal(body, &list)
	if list.TotalOwners != 0 {
		t.Fatalf("preview must not persist, got %d owners", list.TotalOwners)
	}
}

func TestHTTP_ImportPartialFailureReturns400(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	createSpecies(t, ts.URL, "CANINE", "Canine")

	csvBody := patientHeader +
		"Doe,John,,,,,Milo,CANINE,Labrador,M,yes,2020-06-01,,28.4\n" +
		"Doe,John,,,,,Rex,DRAGON,Common,M,no,2019-01-01,,80\n"

	st, body := uploadCSV(t, ts.URL, "/imports/patients/execute", "patients.csv", csvBody)
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 partial import, got %d body=%s", st, string(body))
	}

	var res struct {
		Success       bool     `json:"success"`
		ImportedCount int      `json:"imported_count"`
		Errors        []string `json:"errors"`
	}
	_ = json.Unmarshal(body, &res)
	if res.Success || res.ImportedCount != 1 || len(res.Errors) != 1 {
		t.Fatalf("unexpected partial result: %s", string(body))
	}
	if res.Errors[0] != "Row 3: Unknown species code 'DRAGON'." {
		t.Fatalf("unexpected row error: %q", res.Errors[0])
	}
}

func TestHTTP_ImportRejectsNonCSV(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := uploadCSV(t, ts.URL, "/imports/owners/execute", "owners.txt", "last_name\nDoe\n")
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 for .txt upload, got %d body=%s", st, string(body))
	}
	if !strings.Contains(string(body), "Invalid file type. Please upload a .csv file.") {
		t.Fatalf("unexpected error body: %s", string(body))
	}
}

func TestHTTP_ImportWithoutFile(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/imports/owners/execute", map[string]any{"file": "nope"})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 without multipart file, got %d", st)
	}
	if !strings.Contains(string(body), "No file uploaded.") {
		t.Fatalf("unexpected error body: %s", string(body))
	}
}

func TestHTTP_TemplateDownload(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/imports/patients/template", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 template, got %d", st)
	}
	if !strings.HasPrefix(string(body), "last_name,") {
		t.Fatalf("unexpected template body: %s", string(body))
	}
}

func createSpecies(t *testing.T, baseURL, code, name string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/species", map[string]any{
		"code": code,
		"name": name,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create species, got %d body=%s", st, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create species: missing id body=%s", string(body))
	}
	return resp.ID
}

func findOwnerID(t *testing.T, baseURL, query string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/owners?query="+query, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list owners, got %d body=%s", st, string(body))
	}

	var resp struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	_ = json.Unmarshal(body, &resp)
	if len(resp.Results) != 1 {
		t.Fatalf("expected exactly one owner for %q, body=%s", query, string(body))
	}
	return resp.Results[0].ID
}

func uploadCSV(t *testing.T, baseURL, path, filename, content string) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = mw.Close()

	req, err := http.NewRequest("POST", baseURL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
