package util

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// UploadBase64ToGCS decodes a base64 payload (with or without a data: URI
// prefix) and writes it to the bucket. Returns the gs:// URL and size.
func UploadBase64ToGCS(base64Data, bucketName, objectName, contentType string) (string, int64, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", 0, err
	}
	defer client.Close()

	// strip "data:application/pdf;base64," prefix
	if strings.Contains(base64Data, ",") {
		parts := strings.Split(base64Data, ",")
		base64Data = parts[1]
	}

	data, err := base64.StdEncoding.DecodeString(base64Data)
	if err != nil {
		return "", 0, err
	}

	w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}

	sizeBytes, err := w.Write(data)
	if err != nil {
		return "", 0, err
	}

	if err := w.Close(); err != nil {
		return "", 0, err
	}

	return fmt.Sprintf("gs://%s/%s", bucketName, objectName), int64(sizeBytes), nil
}

func SanitizePart(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.ReplaceAll(s, " ", "_")
	re := regexp.MustCompile(`[^a-z0-9_\-]`)
	s = re.ReplaceAllString(s, "")
	if s == "" {
		return "unknown"
	}
	return s
}

// AttachmentObjectName builds the object path for an uploaded attachment:
// attachments/<entity>/<field>/<timestamp>_<name><ext>.
func AttachmentObjectName(entity, field, filename, mime string) string {
	ext := ExtFromFilenameOrMime(filename, mime)
	base := strings.TrimSuffix(strings.TrimSpace(filename), path.Ext(filename))
	base = SanitizePart(base)
	if base == "" || base == "unknown" {
		base = "file"
	}

	timestamp := time.Now().UTC().Format("20060102150405")
	return fmt.Sprintf(
		"attachments/%s/%s/%s_%s%s",
		SanitizePart(entity),
		SanitizePart(field),
		timestamp,
		base,
		ext,
	)
}
