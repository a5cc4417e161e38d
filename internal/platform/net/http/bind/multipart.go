package bind

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	perr "atelier/internal/platform/errors"

	"github.com/dustin/go-humanize"
)

// File is one uploaded part read fully into memory
type File struct {
	Field    string
	Filename string
	Header   string // client supplied content type, not trusted
	Data     []byte
}

// MultipartOptions bounds a multipart request
type MultipartOptions struct {
	MaxBytes  int64 // whole request; default 20MB
	MaxMemory int64 // parts above this spill to temp files; default 8MB
}

func defaultMultipartOptions() MultipartOptions {
	return MultipartOptions{MaxBytes: 20 << 20, MaxMemory: 8 << 20}
}

// Form is a parsed multipart request
type Form struct {
	form *multipart.Form
}

// ParseMultipart parses a multipart/form-data body under the given limits
func ParseMultipart(w http.ResponseWriter, r *http.Request, opts ...MultipartOptions) (*Form, error) {
	o := defaultMultipartOptions()
	if len(opts) > 0 {
		if opts[0].MaxBytes > 0 {
			o.MaxBytes = opts[0].MaxBytes
		}
		if opts[0].MaxMemory > 0 {
			o.MaxMemory = opts[0].MaxMemory
		}
	}
	if !strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data") {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "expected multipart/form-data")
	}
	r.Body = http.MaxBytesReader(w, r.Body, o.MaxBytes)
	if err := r.ParseMultipartForm(o.MaxMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, perr.TooLargef("upload exceeds %s", humanize.IBytes(uint64(o.MaxBytes)))
		}
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "invalid multipart body: %v", err)
	}
	return &Form{form: r.MultipartForm}, nil
}

// Value returns the first trimmed value of a text field
func (f *Form) Value(key string) string {
	if f == nil || f.form == nil {
		return ""
	}
	if vs := f.form.Value[key]; len(vs) > 0 {
		return strings.TrimSpace(vs[0])
	}
	return ""
}

// Has reports whether the text field was sent at all, even empty
func (f *Form) Has(key string) bool {
	if f == nil || f.form == nil {
		return false
	}
	_, ok := f.form.Value[key]
	return ok
}

// Files reads every part uploaded under field
func (f *Form) Files(field string) ([]File, error) {
	if f == nil || f.form == nil {
		return nil, nil
	}
	var out []File
	for _, fh := range f.form.File[field] {
		data, err := readPart(fh)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read upload %q", fh.Filename)
		}
		out = append(out, File{
			Field:    field,
			Filename: fh.Filename,
			Header:   fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return out, nil
}

// File reads the single part uploaded under field; ok is false when absent
func (f *Form) File(field string) (File, bool, error) {
	files, err := f.Files(field)
	if err != nil || len(files) == 0 {
		return File{}, false, err
	}
	return files[0], true, nil
}

// Close removes any temp files backing the form
func (f *Form) Close() error {
	if f == nil || f.form == nil {
		return nil
	}
	return f.form.RemoveAll()
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}
