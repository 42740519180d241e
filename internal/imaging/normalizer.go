// Package imaging turns a remote image URL into a small inline JPEG data URI.
package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const dataURIPrefix = "data:image/jpeg;base64,"

var (
	ErrTooLarge      = errors.New("image exceeds size limit")
	ErrTooManyPixels = errors.New("image exceeds pixel limit")
)

type Config struct {
	MaxBytes     int64
	// MaxPixels bounds width*height before the image is decoded; compressed
	// size says little about decoded size.
	MaxPixels    int64
	MaxDimension int
	Quality      int
	Timeout      time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxBytes:     10 << 20,
		MaxPixels:    40_000_000,
		MaxDimension: 800,
		Quality:      80,
		Timeout:      15 * time.Second,
	}
}

type Normalizer struct {
	cfg    Config
	client *http.Client
}

func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Normalize fetches rawURL and returns it as a JPEG data URI no larger than
// MaxDimension on either side. Any failure is logged and reported as false.
func (n *Normalizer) Normalize(ctx context.Context, rawURL string) (string, bool) {
	data, err := n.fetch(ctx, rawURL)
	if err != nil {
		slog.Warn("image fetch failed", "url", rawURL, "error", err)
		return "", false
	}
	out, err := n.Process(data)
	if err != nil {
		slog.Warn("image processing failed", "url", rawURL, "error", err)
		return "", false
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(out), true
}

func (n *Normalizer) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := n.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if resp.ContentLength > n.cfg.MaxBytes {
		return nil, ErrTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, n.cfg.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > n.cfg.MaxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}

// Process decodes data, shrinks it to fit the configured box without
// enlarging, and re-encodes it as JPEG.
func (n *Normalizer) Process(data []byte) ([]byte, error) {
	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if limit := n.cfg.MaxPixels; limit > 0 && int64(header.Width)*int64(header.Height) > limit {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, header.Width, header.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), n.cfg.MaxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG has no alpha; flatten onto white.
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: n.cfg.Quality}); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		nh := h * limit / w
		if nh < 1 {
			nh = 1
		}
		return limit, nh
	}
	nw := w * limit / h
	if nw < 1 {
		nw = 1
	}
	return nw, limit
}
