// Package netx contains HTTP helpers shared by the CLI and worker.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// UploadToPresignedURL PUTs file bytes to a presigned object-storage URL.
// Any status other than 200 is an error; the response body is included in
// the message to aid debugging against MinIO/S3.
func UploadToPresignedURL(client *http.Client, url string, file []byte) error {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(file))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}
