package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
)

type multipartPart struct {
	field    string
	filename string
	value    []byte
}

// Multipart is a form body. Client sends it with its own multipart Content-Type, never as JSON.
type Multipart struct {
	parts []multipartPart
}

func NewMultipart() *Multipart {
	return &Multipart{}
}

func (m *Multipart) AddField(name, value string) *Multipart {
	m.parts = append(m.parts, multipartPart{field: name, value: []byte(value)})
	return m
}

// AddFile adds a file part; its Content-Type is sniffed from content.
func (m *Multipart) AddFile(field, filename string, content []byte) *Multipart {
	m.parts = append(m.parts, multipartPart{field: field, filename: filename, value: content})
	return m
}

func (m *Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range m.parts {
		if p.filename == "" {
			if err := w.WriteField(p.field, string(p.value)); err != nil {
				return nil, "", errors.Wrapf(err, "write field %q", p.field)
			}
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.filename))
		h.Set("Content-Type", mimetype.Detect(p.value).String())
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", errors.Wrapf(err, "create part %q", p.field)
		}
		if _, err := part.Write(p.value); err != nil {
			return nil, "", errors.Wrapf(err, "write part %q", p.field)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart writer")
	}
	return &buf, w.FormDataContentType(), nil
}
