package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func multipartFile(t *testing.T, field, name, contentType string, size int) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := make(map[string][]string)
	hdr["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + name + `"`}
	hdr["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(bytes.Repeat([]byte("x"), size))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	return req.MultipartForm.File[field][0]
}

func TestStore_SaveAndRemove(t *testing.T) {
	store := NewStore(t.TempDir())
	fh := multipartFile(t, "photo", "face.png", "image/png", 128)

	path, err := store.Save(fh, "patients", "patient", MaxPhotoSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(path, "patients/patient-") {
		t.Errorf("unexpected stored path %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected stored file to exist: %v", err)
	}

	store.Remove(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}
}

func TestStore_RejectsNonImage(t *testing.T) {
	store := NewStore(t.TempDir())
	fh := multipartFile(t, "photo", "notes.pdf", "application/pdf", 64)

	if _, err := store.Save(fh, "patients", "patient", MaxPhotoSize); err != ErrInvalidFileType {
		t.Errorf("expected ErrInvalidFileType, got %v", err)
	}
}

func TestStore_RejectsOversize(t *testing.T) {
	store := NewStore(t.TempDir())
	fh := multipartFile(t, "signature", "sig.png", "image/png", 2048)

	if _, err := store.Save(fh, "signatures", "signature", 1024); err != ErrFileTooLarge {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestStore_ReplaceDeletesOld(t *testing.T) {
	store := NewStore(t.TempDir())
	first := multipartFile(t, "photo", "a.jpg", "image/jpeg", 64)
	second := multipartFile(t, "photo", "b.jpg", "image/jpeg", 64)

	oldPath, err := store.Save(first, "patients", "patient", MaxPhotoSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newPath, err := store.Replace(oldPath, second, "patients", "patient", MaxPhotoSize)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("expected old file to be deleted")
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Errorf("expected new file to exist: %v", err)
	}
}
