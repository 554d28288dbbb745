package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/hazyhaar/morph/staging"
)

// Video bitrate tiers. Medium is the fallback for unknown quality names.
var videoBitrates = map[string]string{
	"high":   "8000k",
	"medium": "4000k",
	"low":    "2000k",
}

// DefaultVideoQuality is the tier used when the client sends none.
const DefaultVideoQuality = "medium"

// videoTargets is the accepted set of target containers.
var videoTargets = map[string]bool{
	"mp4": true, "avi": true, "mov": true, "mkv": true, "webm": true,
}

// VideoBitrate resolves a quality tier name to its bitrate, falling back to
// medium.
func VideoBitrate(quality string) string {
	if b, ok := videoBitrates[strings.ToLower(strings.TrimSpace(quality))]; ok {
		return b
	}
	return videoBitrates[DefaultVideoQuality]
}

// ConvertVideo transcodes the staged input to the target container at the
// given quality tier and returns the output path inside stage.
func (t *Transcoder) ConvertVideo(ctx context.Context, stage *staging.Dir, inputPath, target, quality string) (string, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	if !videoTargets[target] {
		return "", fmt.Errorf("%w: video target %q", ErrUnsupportedFormat, target)
	}

	outPath, err := stage.Path("output." + target)
	if err != nil {
		return "", err
	}

	return outPath, t.runFFmpeg(ctx, outPath, videoArgs(inputPath, outPath, target, VideoBitrate(quality))...)
}

// videoArgs builds the ffmpeg argument list for a video transcode. mp4/mov
// get H.264+AAC, webm gets VP8+Vorbis, the rest use container defaults.
func videoArgs(inputPath, outPath, target, bitrate string) []string {
	args := []string{"-i", inputPath}
	switch target {
	case "mp4", "mov":
		args = append(args, "-c:v", "libx264", "-b:v", bitrate, "-c:a", "aac")
	case "webm":
		args = append(args, "-c:v", "libvpx", "-b:v", bitrate, "-c:a", "libvorbis")
	default:
		args = append(args, "-b:v", bitrate)
	}
	return append(args, outPath)
}
