package bind

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	perr "atelier/internal/platform/errors"
)

func buildMultipart(t *testing.T, fields map[string]string, files map[string][]string) (string, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for field, names := range files {
		for _, name := range names {
			fw, err := mw.CreateFormFile(field, name)
			if err != nil {
				t.Fatal(err)
			}
			_, _ = fw.Write([]byte("data:" + name))
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return mw.FormDataContentType(), &buf
}

func TestParseMultipart(t *testing.T) {
	ct, body := buildMultipart(t,
		map[string]string{"title": "  Dawn  ", "body": ""},
		map[string][]string{"images": {"a.png", "b.png"}},
	)
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", ct)

	form, err := ParseMultipart(httptest.NewRecorder(), req)
	if err != nil {
		t.Fatalf("ParseMultipart: %v", err)
	}
	defer form.Close()

	if got := form.Value("title"); got != "Dawn" {
		t.Fatalf("title = %q", got)
	}
	if !form.Has("body") || form.Has("missing") {
		t.Fatalf("Has mismatch")
	}
	files, err := form.Files("images")
	if err != nil || len(files) != 2 {
		t.Fatalf("files = %d, err = %v", len(files), err)
	}
	if files[1].Filename != "b.png" || string(files[1].Data) != "data:b.png" {
		t.Fatalf("second file = %+v", files[1])
	}
	if _, ok, _ := form.File("avatar"); ok {
		t.Fatalf("absent file reported present")
	}
}

func TestParseMultipartRejects(t *testing.T) {
	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		if _, err := ParseMultipart(httptest.NewRecorder(), req); perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
			t.Fatalf("expected invalid argument, got %v", err)
		}
	})
	t.Run("too large", func(t *testing.T) {
		ct, body := buildMultipart(t, map[string]string{"title": strings.Repeat("x", 4096)}, nil)
		req := httptest.NewRequest("POST", "/", body)
		req.Header.Set("Content-Type", ct)
		_, err := ParseMultipart(httptest.NewRecorder(), req, MultipartOptions{MaxBytes: 512})
		if perr.CodeOf(err) != perr.ErrorCodeTooLarge {
			t.Fatalf("expected too large, got %v", err)
		}
	})
}
