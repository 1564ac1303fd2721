package statement

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	maxLogoBytes = 2 << 20 // caps the logo download
	logoTimeout  = 10 * time.Second
)

// LogoLoader fetches the brand logo once and serves it as a data URI so
// statements carry no external references. Any failure yields "" and the
// statement is built with an empty logo slot.
type LogoLoader struct {
	url    string
	client *http.Client

	once    sync.Once
	dataURI string
}

// NewLogoLoader creates a loader for url. An empty url disables the logo.
func NewLogoLoader(url string, client *http.Client) *LogoLoader {
	return &LogoLoader{url: url, client: client}
}

// DataURI returns the inlined logo, fetching it on first use. The fetch is
// detached from ctx's cancellation so an abandoned first request cannot
// leave the logo blank for the life of the process.
func (l *LogoLoader) DataURI(ctx context.Context) string {
	if l == nil || l.url == "" {
		return ""
	}
	l.once.Do(func() {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoTimeout)
		defer cancel()

		uri, err := l.fetch(fetchCtx)
		if err != nil {
			log.Printf("  ⚠️  Statement logo unavailable, continuing without it: %v", err)
			return
		}
		l.dataURI = uri
		log.Println("  ✓ Statement logo cached")
	})
	return l.dataURI
}

func (l *LogoLoader) fetch(ctx context.Context) (string, error) {
	if strings.HasPrefix(l.url, "data:") {
		return l.url, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return "", err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("logo request returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxLogoBytes))
	if err != nil {
		return "", err
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("logo is not an image (%s)", mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
