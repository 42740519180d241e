package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pngHeader returns a truecolor PNG that is complete up to IHDR. It claims
// w*h pixels while being a few dozen bytes long.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 2 // truecolor

	chunk := append([]byte("IHDR"), ihdr...)
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func serve(t *testing.T, body []byte, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func decodeDataURI(t *testing.T, uri string) image.Image {
	t.Helper()
	require.True(t, strings.HasPrefix(uri, dataURIPrefix))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, dataURIPrefix))
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestNormalize_DownscalesToFit(t *testing.T) {
	srv := serve(t, pngBytes(t, 1600, 400), http.StatusOK)
	n := NewNormalizer(DefaultConfig())

	uri, ok := n.Normalize(context.Background(), srv.URL+"/wide.png")
	require.True(t, ok)

	img := decodeDataURI(t, uri)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestNormalize_NeverEnlarges(t *testing.T) {
	srv := serve(t, pngBytes(t, 120, 60), http.StatusOK)
	n := NewNormalizer(DefaultConfig())

	uri, ok := n.Normalize(context.Background(), srv.URL)
	require.True(t, ok)

	img := decodeDataURI(t, uri)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 60, img.Bounds().Dy())
}

func TestNormalize_Failures(t *testing.T) {
	small := DefaultConfig()
	small.MaxBytes = 16

	cases := []struct {
		name string
		cfg  Config
		url  func() string
	}{
		{"not an image", DefaultConfig(), func() string { return serve(t, []byte("hello"), http.StatusOK).URL }},
		{"upstream error", DefaultConfig(), func() string { return serve(t, nil, http.StatusNotFound).URL }},
		{"too large", small, func() string { return serve(t, pngBytes(t, 200, 200), http.StatusOK).URL }},
		{"bad scheme", DefaultConfig(), func() string { return "file:///etc/passwd" }},
		{"unparseable", DefaultConfig(), func() string { return "://nope" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uri, ok := NewNormalizer(tc.cfg).Normalize(context.Background(), tc.url())
			assert.False(t, ok)
			assert.Empty(t, uri)
		})
	}
}

func TestProcess_RejectsPixelFloodBeforeDecoding(t *testing.T) {
	data := pngHeader(12000, 12000)
	require.Less(t, len(data), 64)

	_, err := NewNormalizer(DefaultConfig()).Process(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooManyPixels))
}

func TestNormalize_PixelLimit(t *testing.T) {
	tight := DefaultConfig()
	tight.MaxPixels = 100 * 100
	srv := serve(t, pngBytes(t, 200, 200), http.StatusOK)

	uri, ok := NewNormalizer(tight).Normalize(context.Background(), srv.URL)
	assert.False(t, ok)
	assert.Empty(t, uri)

	uri, ok = NewNormalizer(DefaultConfig()).Normalize(context.Background(), srv.URL)
	assert.True(t, ok)
	assert.NotEmpty(t, uri)
}

func TestFit(t *testing.T) {
	w, h := fit(400, 1600, 800)
	assert.Equal(t, 200, w)
	assert.Equal(t, 800, h)

	w, h = fit(800, 800, 800)
	assert.Equal(t, 800, w)
	assert.Equal(t, 800, h)

	w, h = fit(5000, 1, 800)
	assert.Equal(t, 800, w)
	assert.Equal(t, 1, h)
}
