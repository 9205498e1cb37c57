package api

import (
	"encoding/base64"
	"io"
	"mime/multipart"
)

// encodeDataURL embeds raw bytes as a data URL, the same in-memory
// representation the dashboard uses for image previews. There is no
// upload backend; the string lives on the alert record.
func encodeDataURL(contentType string, data []byte) string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func fileToDataURL(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return encodeDataURL(fh.Header.Get("Content-Type"), data), nil
}
