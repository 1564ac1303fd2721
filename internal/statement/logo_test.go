package statement

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"farmops/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoLoaderFetchesOnce(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer srv.Close()

	l := NewLogoLoader(srv.URL+"/logo.png", srv.Client())
	first := l.DataURI(context.Background())
	second := l.DataURI(context.Background())

	assert.Equal(t, "data:image/png;base64,iVBORw==", first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestLogoLoaderIgnoresCancelledRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := NewLogoLoader(srv.URL+"/logo.png", srv.Client())
	assert.Equal(t, "data:image/png;base64,iVBORw==", l.DataURI(ctx))
	assert.Equal(t, "data:image/png;base64,iVBORw==", l.DataURI(context.Background()))
}

func TestLogoLoaderFailureIsNonFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	l := NewLogoLoader(srv.URL, srv.Client())
	assert.Empty(t, l.DataURI(context.Background()))
}

func TestLogoLoaderRejectsNonImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	assert.Empty(t, NewLogoLoader(srv.URL, srv.Client()).DataURI(context.Background()))
}

func TestLogoLoaderDisabled(t *testing.T) {
	var l *LogoLoader
	assert.Empty(t, l.DataURI(context.Background()))
	assert.Empty(t, NewLogoLoader("", http.DefaultClient).DataURI(context.Background()))
	assert.Equal(t, "data:image/gif;base64,R0lG", NewLogoLoader("data:image/gif;base64,R0lG", nil).DataURI(context.Background()))
}

func TestNilPrinterIsUnavailable(t *testing.T) {
	var p *Printer
	_, err := p.PrintPDF(context.Background(), "<html></html>")
	require.Error(t, err)
	assert.True(t, errors.IsRendererUnavailable(err))
}
