package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxDownloadSize caps the size of a remote logo image.
const maxDownloadSize = 16 << 20

var httpClient = &http.Client{Timeout: 30 * time.Second}

// DownloadImage downloads an image from the internet and returns its raw bytes.
// The response is rejected if its sniffed content type is not an image.
func DownloadImage(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image URI %s: %w", uri, err)
	}
	res, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to download image file from URI: %s: %w", uri, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unable to download image file from URI: %s, status %v", uri, res.Status)
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}
	if len(data) > maxDownloadSize {
		return nil, fmt.Errorf("the downloaded file exceeds %d bytes", maxDownloadSize)
	}

	if ctype := DetectContentType(data); !strings.Contains(ctype, "image") {
		return nil, fmt.Errorf("the downloaded file is not a valid image type: %s", ctype)
	}
	return data, nil
}

// IsValidUrl tests a string to determine if it is a well-structured url or not.
func IsValidUrl(uri string) bool {
	_, err := url.ParseRequestURI(uri)
	if err != nil {
		return false
	}

	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return true
}

// DetectContentType detects the MIME type of the provided content.
// Only the first 512 bytes are used to sniff the content type.
func DetectContentType(data []byte) string {
	if len(data) > 512 {
		data = data[:512]
	}
	// Always returns a valid content-type and "application/octet-stream" if no others seemed to match.
	return http.DetectContentType(data)
}
