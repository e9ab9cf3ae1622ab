package api

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"vtruck/internal/domain"
)

// formField is one text part of a multipart body.
type formField struct {
	name  string
	value string
}

// formFile is one file part of a multipart body.
type formFile struct {
	field string
	doc   domain.Document
}

// multipartBody buffers fields and files into a multipart/form-data body.
func multipartBody(fields []formField, files []formFile) (*body, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, err
		}
	}
	for _, f := range files {
		if err := writeFile(w, f); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return &body{contentType: w.FormDataContentType(), data: buf.Bytes()}, nil
}

func writeFile(w *multipart.Writer, f formFile) error {
	data, err := os.ReadFile(f.doc.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", f.field, err)
	}
	name := f.doc.Name
	if name == "" {
		name = filepath.Base(f.doc.Path)
	}
	ctype := f.doc.ContentType
	if ctype == "" {
		ctype = mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	}
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quote(f.field), quote(name)))
	h.Set("Content-Type", ctype)
	part, err := w.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, bytes.NewReader(data))
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func quote(s string) string { return quoteEscaper.Replace(s) }
