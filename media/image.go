package media

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // webp decode

	"github.com/hazyhaar/morph/staging"
)

// DefaultImageQuality is the JPEG quality used when the client sends none.
const DefaultImageQuality = 95

// inProcessDecode lists the formats Go decodes without ffmpeg.
var inProcessDecode = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
	"bmp": true, "tiff": true, "webp": true,
}

// inProcessEncode lists the formats Go encodes without ffmpeg.
var inProcessEncode = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true,
	"bmp": true, "tiff": true,
}

// imageTargets is the accepted set of target formats.
var imageTargets = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true,
	"tiff": true, "webp": true, "heic": true, "avif": true,
}

// ClampQuality normalizes a JPEG quality value into 0..100, falling back to
// the default when unset.
func ClampQuality(q int, provided bool) int {
	if !provided {
		return DefaultImageQuality
	}
	if q < 0 {
		return 0
	}
	if q > 100 {
		return 100
	}
	return q
}

// ConvertImage converts the staged input image to target format and returns
// the output path inside stage. quality applies to lossy targets only.
func (t *Transcoder) ConvertImage(ctx context.Context, stage *staging.Dir, inputPath, target string, quality int) (string, error) {
	target = normalizeImageFormat(target)
	if !imageTargets[target] {
		return "", fmt.Errorf("%w: image target %q", ErrUnsupportedFormat, target)
	}

	source := normalizeImageFormat(strings.TrimPrefix(filepath.Ext(inputPath), "."))

	outPath, err := stage.Path("output." + target)
	if err != nil {
		return "", err
	}

	// heic/avif on either side go through ffmpeg entirely.
	if !inProcessDecode[source] || !inProcessEncode[target] {
		return outPath, t.imageViaFFmpeg(ctx, inputPath, outPath, target, quality)
	}

	img, err := decodeImageFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("%w: decode %s: %v", ErrConversionFailed, source, err)
	}

	if err := encodeImageFile(img, outPath, target, quality); err != nil {
		return "", fmt.Errorf("%w: encode %s: %v", ErrConversionFailed, target, err)
	}
	return outPath, nil
}

func normalizeImageFormat(f string) string {
	f = strings.ToLower(strings.TrimSpace(f))
	if f == "jpeg" {
		return "jpg"
	}
	return f
}

func decodeImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func encodeImageFile(img image.Image, outPath, target string, quality int) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	switch target {
	case "png":
		return png.Encode(f, img)
	case "jpg":
		// JPEG has no alpha channel: flatten onto white.
		return jpeg.Encode(f, flattenToWhite(img), &jpeg.Options{Quality: quality})
	case "gif":
		return gif.Encode(f, img, nil)
	case "bmp":
		return bmp.Encode(f, img)
	case "tiff":
		// x/image's TIFF writer has no LZW support (decode only); Deflate
		// is the lossless compression it does ship.
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("no in-process encoder for %q", target)
	}
}

// flattenToWhite composites img over a white background, dropping alpha.
func flattenToWhite(img image.Image) image.Image {
	if opaque, ok := img.(interface{ Opaque() bool }); ok && opaque.Opaque() {
		return img
	}
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, bounds, img, bounds.Min, draw.Over)
	return out
}

// imageViaFFmpeg handles heic/avif and webp encoding.
func (t *Transcoder) imageViaFFmpeg(ctx context.Context, inputPath, outPath, target string, quality int) error {
	args := []string{"-i", inputPath}
	switch target {
	case "jpg":
		// ffmpeg's mjpeg q scale runs 2 (best) to 31 (worst).
		q := 2 + (100-quality)*29/100
		args = append(args, "-q:v", fmt.Sprint(q))
	case "webp":
		args = append(args, "-quality", fmt.Sprint(quality))
	}
	args = append(args, outPath)
	return t.runFFmpeg(ctx, outPath, args...)
}
