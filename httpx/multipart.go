package httpx

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// ErrFileTooLarge is returned when the resume part exceeds the size limit.
var ErrFileTooLarge = errors.New("file too large")

// FilePart is one uploaded file, buffered in memory.
type FilePart struct {
	Name        string
	ContentType string
	Data        []byte
}

// FormData is a parsed multipart/form-data body: a flat field mapping plus
// at most one buffered file (the "resume" part). Repeated keys collect in
// submission order. File parts under any other name are discarded.
type FormData struct {
	Fields map[string][]string
	File   *FilePart
}

// First returns the first value submitted for key, or "".
func (fd *FormData) First(key string) string {
	if vs := fd.Fields[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

const maxTextPartSize = 1 << 20

// ReadMultipartForm consumes the request body. The resume part is buffered
// up to maxFileSize bytes; a larger file yields ErrFileTooLarge.
func ReadMultipartForm(r *http.Request, maxFileSize int64) (*FormData, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("read multipart: %w", err)
	}

	form := &FormData{Fields: map[string][]string{}}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read multipart: %w", err)
		}

		if part.FileName() != "" {
			if part.FormName() != "resume" || form.File != nil {
				io.Copy(io.Discard, part)
				part.Close()
				continue
			}
			data, err := readFilePart(part, maxFileSize)
			if err != nil {
				part.Close()
				return nil, err
			}
			form.File = &FilePart{
				Name:        part.FileName(),
				ContentType: part.Header.Get("Content-Type"),
				Data:        data,
			}
			part.Close()
			continue
		}

		var value strings.Builder
		_, err = io.Copy(&value, io.LimitReader(part, maxTextPartSize))
		part.Close()
		if err != nil {
			return nil, fmt.Errorf("read multipart: field %s: %w", part.FormName(), err)
		}
		name := part.FormName()
		form.Fields[name] = append(form.Fields[name], value.String())
	}

	return form, nil
}

func readFilePart(part *multipart.Part, maxFileSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(part, maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read multipart: file: %w", err)
	}
	if int64(len(data)) > maxFileSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
