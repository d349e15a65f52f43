package gateway

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
)

// FilePart is one file in a multipart upload.
type FilePart struct {
	Field    string
	Filename string
	Content  []byte
}

// Progress reports bytes written to the wire out of the total body size.
type Progress func(sent, total int64)

type progressReader struct {
	r        io.Reader
	total    int64
	sent     int64
	progress Progress
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.progress != nil {
			p.progress(p.sent, p.total)
		}
	}
	return n, err
}

// Upload sends fields plus files as multipart/form-data. The body is built
// up front so the total size is known for progress reporting; uploads here
// are cover letters, avatars, and resumes, not bulk data.
func (c *Client) Upload(ctx context.Context, path string, fields map[string]string, files []FilePart, out any, progress Progress) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return netErr("multipart field", err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return netErr("multipart file", err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return netErr("multipart file write", err)
		}
	}
	if err := mw.Close(); err != nil {
		return netErr("multipart close", err)
	}

	body := io.Reader(&buf)
	if progress != nil {
		body = &progressReader{r: &buf, total: int64(buf.Len()), progress: progress}
	}

	return c.do(ctx, http.MethodPost, path, body, mw.FormDataContentType(), out)
}
