package entities

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries per-field messages from a rejected create/update.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// AttachmentInput is the inline file payload accepted on file-type fields.
type AttachmentInput struct {
	FileName   string `json:"file_name"`
	MimeType   string `json:"mime_type"`
	DataBase64 string `json:"data_base64"`
}

type saveRecordInput struct {
	Values map[string]interface{} `json:"values" binding:"required"`
}

type cellEditInput struct {
	ID     string `json:"id" binding:"required"`
	Column string `json:"column" binding:"required"`
	Value  string `json:"value"`
}
