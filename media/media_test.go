package media

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hazyhaar/morph/staging"
)

func newStage(t *testing.T) *staging.Dir {
	t.Helper()
	stage, err := staging.New(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(stage.Close)
	return stage
}

// writeTestPNG creates a small image with a transparent region.
func writeTestPNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			}
			// Right half stays fully transparent.
		}
	}
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvertImage_PNGToJPG(t *testing.T) {
	tr := New(Config{})
	stage := newStage(t)

	out, err := tr.ConvertImage(context.Background(), stage, writeTestPNG(t), "jpg", 95)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out, "output.jpg") {
		t.Errorf("output path = %q", out)
	}

	img, err := decodeImageFile(out)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	// WHAT: the transparent half must come out white.
	// WHY: JPEG has no alpha; un-flattened alpha renders black.
	r, g, b, _ := img.At(6, 4).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("transparent pixel = %d,%d,%d, want near-white", r>>8, g>>8, b>>8)
	}
}

func TestConvertImage_InProcessTargets(t *testing.T) {
	tr := New(Config{})
	src := writeTestPNG(t)

	for _, target := range []string{"bmp", "tiff", "gif", "png"} {
		stage := newStage(t)
		out, err := tr.ConvertImage(context.Background(), stage, src, target, 95)
		if err != nil {
			t.Errorf("png→%s: %v", target, err)
			continue
		}
		if _, err := decodeImageFile(out); err != nil {
			t.Errorf("png→%s: output not decodable: %v", target, err)
		}
	}
}

func TestConvertImage_JPEGAlias(t *testing.T) {
	tr := New(Config{})
	stage := newStage(t)

	out, err := tr.ConvertImage(context.Background(), stage, writeTestPNG(t), "jpeg", 80)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out, "output.jpg") {
		t.Errorf("jpeg alias should normalize to jpg: %q", out)
	}
}

func TestConvertImage_UnsupportedTarget(t *testing.T) {
	tr := New(Config{})
	stage := newStage(t)

	if _, err := tr.ConvertImage(context.Background(), stage, writeTestPNG(t), "svg", 95); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("want ErrUnsupportedFormat, got %v", err)
	}
}

func TestClampQuality(t *testing.T) {
	tests := []struct {
		q        int
		provided bool
		want     int
	}{
		{0, false, 95},
		{50, true, 50},
		{-10, true, 0},
		{150, true, 100},
		{0, true, 0},
		{100, true, 100},
	}
	for _, tt := range tests {
		if got := ClampQuality(tt.q, tt.provided); got != tt.want {
			t.Errorf("ClampQuality(%d, %v) = %d, want %d", tt.q, tt.provided, got, tt.want)
		}
	}
}

func TestVideoBitrate(t *testing.T) {
	tests := []struct {
		quality string
		want    string
	}{
		{"high", "8000k"},
		{"medium", "4000k"},
		{"low", "2000k"},
		{"", "4000k"},
		{"ultra", "4000k"},
		{" HIGH ", "8000k"},
	}
	for _, tt := range tests {
		if got := VideoBitrate(tt.quality); got != tt.want {
			t.Errorf("VideoBitrate(%q) = %q, want %q", tt.quality, got, tt.want)
		}
	}
}

func TestAudioArgs(t *testing.T) {
	args := audioArgs("in.mp3", "out.ogg", "libvorbis")
	want := []string{"-i", "in.mp3", "-vn", "-acodec", "libvorbis", "out.ogg"}
	if len(args) != len(want) {
		t.Fatalf("args = %v", args)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestConvertAudio_UnsupportedTarget(t *testing.T) {
	tr := New(Config{})
	stage := newStage(t)

	if _, err := tr.ConvertAudio(context.Background(), stage, "in.mp3", "wma"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("want ErrUnsupportedFormat, got %v", err)
	}
}

func TestVideoArgs(t *testing.T) {
	args := videoArgs("in.avi", "out.mp4", "mp4", "4000k")
	joined := strings.Join(args, " ")
	for _, want := range []string{"-c:v libx264", "-b:v 4000k", "-c:a aac", "out.mp4"} {
		if !strings.Contains(joined, want) {
			t.Errorf("mp4 args missing %q: %v", want, args)
		}
	}

	args = videoArgs("in.mp4", "out.webm", "webm", "2000k")
	joined = strings.Join(args, " ")
	for _, want := range []string{"-c:v libvpx", "-c:a libvorbis"} {
		if !strings.Contains(joined, want) {
			t.Errorf("webm args missing %q: %v", want, args)
		}
	}

	args = videoArgs("in.mp4", "out.mkv", "mkv", "8000k")
	joined = strings.Join(args, " ")
	if strings.Contains(joined, "libx264") {
		t.Errorf("mkv should use container defaults: %v", args)
	}
}

func TestConvertVideo_UnsupportedTarget(t *testing.T) {
	tr := New(Config{})
	stage := newStage(t)

	if _, err := tr.ConvertVideo(context.Background(), stage, "in.mp4", "flv", "high"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("want ErrUnsupportedFormat, got %v", err)
	}
}
