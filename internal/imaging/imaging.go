// Package imaging downloads the chosen product image and re-encodes it to
// PNG, the canonical raster format for the downstream generation step.
package imaging

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"net/http"
	"os"
	"time"

	// Decoder registrations. Retailer CDNs serve JPEG, GIF, and WebP
	// alongside PNG.
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/webp"

	"github.com/previewar/product-image-selector/internal/models"
)

const downloadUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

var httpClient = &http.Client{Timeout: 20 * time.Second}

// SaveAsPNG downloads imageURL and writes it to outPath as PNG. Transparency
// is preserved when the source carries an alpha channel; opaque sources are
// flattened to plain RGB. Any failure is an asset error, fatal only for this
// terminal step.
func SaveAsPNG(ctx context.Context, imageURL, outPath string) error {
	if imageURL == "" {
		return fmt.Errorf("image URL is empty: %w", models.ErrAsset)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("build image request: %v: %w", err, models.ErrAsset)
	}
	req.Header.Set("User-Agent", downloadUA)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download image: %v: %w", err, models.ErrAsset)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("download image: status %d: %w", resp.StatusCode, models.ErrAsset)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %v: %w", outPath, err, models.ErrAsset)
	}
	defer out.Close()

	if err := Reencode(resp.Body, out); err != nil {
		return err
	}

	return out.Sync()
}

// Reencode decodes one image from r and writes it to w as PNG.
func Reencode(r io.Reader, w io.Writer) error {
	src, format, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("decode image: %v: %w", err, models.ErrAsset)
	}

	var canvas draw.Image
	bounds := src.Bounds()
	if isOpaque(src) {
		canvas = image.NewRGBA(bounds)
	} else {
		canvas = image.NewNRGBA(bounds)
	}
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	if err := png.Encode(w, canvas); err != nil {
		return fmt.Errorf("encode %s as png: %v: %w", format, err, models.ErrAsset)
	}

	return nil
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}
