package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/hazyhaar/morph/staging"
)

// audioCodecs maps target containers to their ffmpeg encoder.
var audioCodecs = map[string]string{
	"mp3":  "libmp3lame",
	"wav":  "pcm_s16le",
	"ogg":  "libvorbis",
	"flac": "flac",
	"m4a":  "aac",
	"aac":  "aac",
}

// ConvertAudio transcodes the staged input to the target audio format and
// returns the output path inside stage.
func (t *Transcoder) ConvertAudio(ctx context.Context, stage *staging.Dir, inputPath, target string) (string, error) {
	target = strings.ToLower(strings.TrimSpace(target))
	codec, ok := audioCodecs[target]
	if !ok {
		return "", fmt.Errorf("%w: audio target %q", ErrUnsupportedFormat, target)
	}

	outPath, err := stage.Path("output." + target)
	if err != nil {
		return "", err
	}

	return outPath, t.runFFmpeg(ctx, outPath, audioArgs(inputPath, outPath, codec)...)
}

// audioArgs builds the ffmpeg argument list for an audio transcode. Video
// streams (cover art) are dropped.
func audioArgs(inputPath, outPath, codec string) []string {
	return []string{"-i", inputPath, "-vn", "-acodec", codec, outPath}
}
