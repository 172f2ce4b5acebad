package worker

import (
	"fmt"

	"github.com/clipforge/video-edit-api/pkg/ffmpeg"
)

// Normalization target: every merge input is re-encoded to these parameters
// so the concat step sees byte-compatible streams.
const (
	normWidth      = 1920
	normHeight     = 1080
	normFrameRate  = 30
	normSampleRate = 48000
)

// normalizeFilter pads to preserve aspect ratio instead of stretching.
var normalizeFilter = fmt.Sprintf(
	"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%d,format=yuv420p",
	normWidth, normHeight, normWidth, normHeight, normFrameRate,
)

// normalizePlan re-encodes one input to the common resolution, frame rate,
// codec and pixel format. Inputs without an audio track get a silent stereo
// track injected so concatenation always finds an audio stream to join.
func normalizePlan(input, output string, hasAudio bool) ffmpeg.Plan {
	args := []string{"-i", input}
	if !hasAudio {
		args = append(args,
			"-f", "lavfi",
			"-i", fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d", normSampleRate),
		)
	}
	args = append(args,
		"-vf", normalizeFilter,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-ar", fmt.Sprint(normSampleRate),
		"-ac", "2",
	)
	if !hasAudio {
		args = append(args, "-map", "0:v:0", "-map", "1:a:0", "-shortest")
	}
	args = append(args, "-movflags", "+faststart", "-y", output)
	return ffmpeg.Plan{Args: args, OutputPath: output}
}
