package api_test

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/permitdesk/permitdesk/pkg/models"
)

func createPermitPackage(t *testing.T, h http.Handler, token string) int64 {
	t.Helper()
	rr := doRequest(t, h, "POST", "/v1/packages", token, map[string]any{
		"project_name": "Garage conversion",
		"address":      "9 Maple Ct",
		"permit_type":  "Custom",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create package failed: %d %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody[struct {
		ID int64 `json:"id"`
	}](t, rr)
	return resp.ID
}

func addDocument(t *testing.T, h http.Handler, token string, packageID int64, name string) models.PackageDocument {
	t.Helper()
	rr := doRequest(t, h, "POST", fmt.Sprintf("/v1/packages/%d/documents", packageID), token, map[string]any{
		"document_name": name,
		"is_required":   true,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("add document failed: %d %s", rr.Code, rr.Body.String())
	}
	return decodeBody[models.PackageDocument](t, rr)
}

func uploadFile(t *testing.T, h http.Handler, token string, documentID int64, filename, content string) *httptest.ResponseRecorder {
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
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest("POST", fmt.Sprintf("/v1/documents/%d/file", documentID), &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAddAndUpdateDocument(t *testing.T) {
	h, _ := newTestServer(t, "api_documents")
	token := signToken(t, 1, models.RoleUser)
	pkgID := createPermitPackage(t, h, token)

	doc := addDocument(t, h, token, pkgID, "Soil report")
	if doc.PackageID != pkgID || doc.DocumentName != "Soil report" || doc.IsCompleted {
		t.Fatalf("unexpected document: %+v", doc)
	}

	// adding to a missing package is a 404
	rr := doRequest(t, h, "POST", "/v1/packages/4242/documents", token, map[string]any{"document_name": "X"})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 adding to missing package, got %d: %s", rr.Code, rr.Body.String())
	}

	// blank name is a validation error
	rr = doRequest(t, h, "POST", fmt.Sprintf("/v1/packages/%d/documents", pkgID), token, map[string]any{"document_name": ""})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d: %s", rr.Code, rr.Body.String())
	}

	notes := "County requires wet stamp"
	rr = doRequest(t, h, "PATCH", fmt.Sprintf("/v1/documents/%d", doc.ID), token, map[string]any{
		"is_completed": true,
		"notes":        notes,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	updated := decodeBody[models.PackageDocument](t, rr)
	if !updated.IsCompleted || updated.Notes == nil || *updated.Notes != notes {
		t.Fatalf("unexpected updated document: %+v", updated)
	}
	// manual completion stamps uploaded_at even without a file
	if updated.UploadedAt == nil {
		t.Fatalf("expected uploaded_at stamp on completion")
	}

	rr = doRequest(t, h, "DELETE", fmt.Sprintf("/v1/documents/%d", doc.ID), token, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rr.Code, rr.Body.String())
	}
	rr = doRequest(t, h, "DELETE", fmt.Sprintf("/v1/documents/%d", doc.ID), token, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestFileUploadDownloadDetach(t *testing.T) {
	h, uploadDir := newTestServer(t, "api_files")
	token := signToken(t, 1, models.RoleUser)
	pkgID := createPermitPackage(t, h, token)
	doc := addDocument(t, h, token, pkgID, "Site Plan")

	const content = "%PDF-1.4 fake site plan"
	rr := uploadFile(t, h, token, doc.ID, "site-plan.pdf", content)
	if rr.Code != http.StatusOK {
		t.Fatalf("upload failed: %d %s", rr.Code, rr.Body.String())
	}
	attached := decodeBody[models.PackageDocument](t, rr)
	if !attached.IsCompleted {
		t.Fatalf("expected upload to mark the document completed")
	}
	if attached.FileName == nil || *attached.FileName != "site-plan.pdf" {
		t.Fatalf("unexpected file_name: %+v", attached)
	}
	if attached.FileSize == nil || *attached.FileSize != int64(len(content)) {
		t.Fatalf("unexpected file_size: %+v", attached)
	}
	if attached.FilePath == nil || attached.UploadedAt == nil {
		t.Fatalf("expected file_path and uploaded_at, got %+v", attached)
	}

	// the bytes are on disk under the document's own directory
	stored, err := os.ReadFile(filepath.Join(uploadDir, fmt.Sprint(doc.ID), "site-plan.pdf"))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(stored) != content {
		t.Fatalf("stored bytes differ: %q", stored)
	}

	// download round trip
	rr = doRequest(t, h, "GET", fmt.Sprintf("/v1/documents/%d/file", doc.ID), token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("download failed: %d %s", rr.Code, rr.Body.String())
	}
	if rr.Body.String() != content {
		t.Fatalf("downloaded bytes differ: %q", rr.Body.String())
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != `attachment; filename="site-plan.pdf"` {
		t.Fatalf("unexpected Content-Disposition: %q", cd)
	}

	// detach removes the file and reverts completion
	rr = doRequest(t, h, "DELETE", fmt.Sprintf("/v1/documents/%d/file", doc.ID), token, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("detach failed: %d %s", rr.Code, rr.Body.String())
	}
	if _, err := os.Stat(filepath.Join(uploadDir, fmt.Sprint(doc.ID), "site-plan.pdf")); !os.IsNotExist(err) {
		t.Fatalf("expected stored file removed, stat err=%v", err)
	}
	rr = doRequest(t, h, "PATCH", fmt.Sprintf("/v1/documents/%d", doc.ID), token, map[string]any{})
	after := decodeBody[models.PackageDocument](t, rr)
	if after.IsCompleted || after.FileName != nil || after.FilePath != nil {
		t.Fatalf("expected detached document, got %+v", after)
	}

	// download after detach is a 404
	rr = doRequest(t, h, "GET", fmt.Sprintf("/v1/documents/%d/file", doc.ID), token, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 downloading detached file, got %d", rr.Code)
	}
}

func TestReuploadReplacesStoredFile(t *testing.T) {
	h, uploadDir := newTestServer(t, "api_reupload")
	token := signToken(t, 1, models.RoleUser)
	pkgID := createPermitPackage(t, h, token)
	doc := addDocument(t, h, token, pkgID, "Site Plan")

	rr := uploadFile(t, h, token, doc.ID, "draft-plan.pdf", "first version")
	if rr.Code != http.StatusOK {
		t.Fatalf("first upload failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = uploadFile(t, h, token, doc.ID, "final-plan.pdf", "second version")
	if rr.Code != http.StatusOK {
		t.Fatalf("second upload failed: %d %s", rr.Code, rr.Body.String())
	}
	attached := decodeBody[models.PackageDocument](t, rr)
	if attached.FileName == nil || *attached.FileName != "final-plan.pdf" {
		t.Fatalf("expected metadata for the new file, got %+v", attached)
	}

	// the superseded file is gone, only the new one remains
	if _, err := os.Stat(filepath.Join(uploadDir, fmt.Sprint(doc.ID), "draft-plan.pdf")); !os.IsNotExist(err) {
		t.Fatalf("expected superseded file removed, stat err=%v", err)
	}
	stored, err := os.ReadFile(filepath.Join(uploadDir, fmt.Sprint(doc.ID), "final-plan.pdf"))
	if err != nil {
		t.Fatalf("new file unreadable: %v", err)
	}
	if string(stored) != "second version" {
		t.Fatalf("unexpected stored bytes: %q", stored)
	}
}

func TestUploadToMissingDocumentCleansUp(t *testing.T) {
	h, uploadDir := newTestServer(t, "api_upload_orphan")
	token := signToken(t, 1, models.RoleUser)

	rr := uploadFile(t, h, token, 555, "plan.pdf", "data")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 uploading to missing document, got %d: %s", rr.Code, rr.Body.String())
	}
	// nothing was left behind on disk
	if _, err := os.Stat(filepath.Join(uploadDir, "555", "plan.pdf")); !os.IsNotExist(err) {
		t.Fatalf("expected orphaned upload removed, stat err=%v", err)
	}
}
