package httpx

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"testing"
)

func newMultipartRequest(t *testing.T, build func(t *testing.T, w *multipart.Writer)) (body *bytes.Buffer, contentType string) {
	t.Helper()
	body = &bytes.Buffer{}
	w := multipart.NewWriter(body)
	build(t, w)
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}
	return body, w.FormDataContentType()
}

func TestReadMultipartFormFieldsAndFile(t *testing.T) {
	body, contentType := newMultipartRequest(t, func(t *testing.T, w *multipart.Writer) {
		w.WriteField("q_fullname", "Ada")
		w.WriteField("q_skills", "Go")
		w.WriteField("q_skills", "Rust")
		fw, err := w.CreateFormFile("resume", "cv.pdf")
		if err != nil {
			t.Fatalf("Failed to create file part: %v", err)
		}
		fw.Write([]byte("abc"))
	})

	r := httptest.NewRequest("POST", "/apply", body)
	r.Header.Set("Content-Type", contentType)

	form, err := ReadMultipartForm(r, 25<<20)
	if err != nil {
		t.Fatalf("ReadMultipartForm failed: %v", err)
	}

	if got := form.First("q_fullname"); got != "Ada" {
		t.Errorf("Expected q_fullname Ada, got %q", got)
	}
	if got := form.Fields["q_skills"]; len(got) != 2 || got[0] != "Go" || got[1] != "Rust" {
		t.Errorf("Expected ordered repeats [Go Rust], got %v", got)
	}
	if form.File == nil {
		t.Fatal("Expected a file part")
	}
	if form.File.Name != "cv.pdf" {
		t.Errorf("Expected filename cv.pdf, got %q", form.File.Name)
	}
	if !bytes.Equal(form.File.Data, []byte("abc")) {
		t.Errorf("Expected file bytes abc, got %q", form.File.Data)
	}
}

func TestReadMultipartFormRejectsOversizeFile(t *testing.T) {
	body, contentType := newMultipartRequest(t, func(t *testing.T, w *multipart.Writer) {
		fw, err := w.CreateFormFile("resume", "big.pdf")
		if err != nil {
			t.Fatalf("Failed to create file part: %v", err)
		}
		fw.Write(bytes.Repeat([]byte("x"), 1024+1))
	})

	r := httptest.NewRequest("POST", "/apply", body)
	r.Header.Set("Content-Type", contentType)

	_, err := ReadMultipartForm(r, 1024)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("Expected ErrFileTooLarge, got %v", err)
	}
}

func TestReadMultipartFormIgnoresOtherFileParts(t *testing.T) {
	body, contentType := newMultipartRequest(t, func(t *testing.T, w *multipart.Writer) {
		fw, err := w.CreateFormFile("portfolio", "folio.pdf")
		if err != nil {
			t.Fatalf("Failed to create file part: %v", err)
		}
		fw.Write([]byte("nope"))
		w.WriteField("note", "hi")
	})

	r := httptest.NewRequest("POST", "/apply", body)
	r.Header.Set("Content-Type", contentType)

	form, err := ReadMultipartForm(r, 25<<20)
	if err != nil {
		t.Fatalf("ReadMultipartForm failed: %v", err)
	}
	if form.File != nil {
		t.Errorf("Expected no buffered file, got %q", form.File.Name)
	}
	if got := form.First("note"); got != "hi" {
		t.Errorf("Expected note hi, got %q", got)
	}
}

func TestReadMultipartFormRejectsNonMultipartBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/apply", bytes.NewBufferString("opening=op_1"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if _, err := ReadMultipartForm(r, 25<<20); err == nil {
		t.Fatal("Expected an error for non-multipart body")
	}
}
