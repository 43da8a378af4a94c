package gist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmptyFileName is returned when a file of an update request has no name.
var ErrEmptyFileName = errors.New("file name cannot be an empty string")

// File is the new state of a single gist file.
type File struct {
	Content string `json:"content"`
}

// UpdateRequest is the body of a gist update.
type UpdateRequest struct {
	Description string          `json:"description"`
	Files       map[string]File `json:"files"`
}

// NewUpdateRequest returns a request setting the description and the content of a single file.
func NewUpdateRequest(description, fileName, content string) (UpdateRequest, error) {
	if fileName == "" {
		return UpdateRequest{}, ErrEmptyFileName
	}

	return UpdateRequest{
		Description: description,
		Files:       map[string]File{fileName: {Content: content}},
	}, nil
}

// EncodeContent serializes v as the content of a gist file.
//
// The output is stable so that successive revisions of the gist diff cleanly: UTF-8, no HTML or
// non-ASCII escaping, two spaces of indentation and no trailing newline.
func EncodeContent(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode content: %v", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func (r UpdateRequest) marshal() ([]byte, error) {
	for name := range r.Files {
		if name == "" {
			return nil, ErrEmptyFileName
		}
	}

	d, err := encode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %v", err)
	}
	return d, nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
