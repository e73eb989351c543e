package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
)

// Body is a request payload. Encode is called once per attempt, so a body
// must be re-readable.
type Body interface {
	Encode() (io.Reader, string, error)
}

type formBody struct {
	values url.Values
}

// Form returns an application/x-www-form-urlencoded body.
func Form(values url.Values) Body {
	return formBody{values: values}
}

func (b formBody) Encode() (io.Reader, string, error) {
	return strings.NewReader(b.values.Encode()), "application/x-www-form-urlencoded", nil
}

type rawBody struct {
	data        []byte
	contentType string
}

// Raw returns a body sending data as-is.
func Raw(data []byte, contentType string) Body {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return rawBody{data: data, contentType: contentType}
}

// JSON marshals v into an application/json body.
func JSON(v any) (Body, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return rawBody{data: data, contentType: "application/json"}, nil
}

func (b rawBody) Encode() (io.Reader, string, error) {
	return bytes.NewReader(b.data), b.contentType, nil
}

// FilePart is a file attached to a multipart body.
type FilePart struct {
	Field       string
	FileName    string
	ContentType string
	Data        []byte
}

// MultipartBody is a multipart/form-data body with plain fields and files.
type MultipartBody struct {
	Fields url.Values
	Files  []FilePart
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Encode writes fields in sorted key order followed by the files.
func (b MultipartBody) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(b.Fields))
	for k := range b.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range b.Fields[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", fmt.Errorf("failed to write field %s: %w", k, err)
			}
		}
	}

	for _, f := range b.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.FileName)))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write part %s: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
