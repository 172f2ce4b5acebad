package worker

import (
	"context"
	"fmt"

	"github.com/clipforge/video-edit-api/internal/models"
	"github.com/clipforge/video-edit-api/pkg/ffmpeg"
)

type addAudioStrategy struct {
	runner ffmpeg.Runner
}

func newAddAudioStrategy(runner ffmpeg.Runner) Strategy {
	return &addAudioStrategy{runner: runner}
}

func (s *addAudioStrategy) Kind() models.Operation {
	return models.OperationAddAudio
}

// Execute mixes the audio reference into the video from the requested start
// offset, scaling its amplitude by the gain factor. A video without an audio
// track first gets a silent one so the mix always has a stream to blend into.
func (s *addAudioStrategy) Execute(ctx context.Context, job *models.EditJob, ws *Workspace, inputs []string, report ProgressFunc) (string, error) {
	req := job.Request.AddAudio
	video, audio := inputs[0], inputs[1]

	info, err := s.runner.Probe(ctx, video)
	if err != nil {
		return "", fmt.Errorf("failed to probe video: %w", err)
	}

	report(models.StatusTransforming, progressDownloadEnd+5)
	if !info.HasAudio {
		silent := ws.Path("with_silence.mp4")
		if err := s.runner.Run(ctx, silentTrackPlan(video, silent)); err != nil {
			return "", fmt.Errorf("failed to synthesize silent track: %w", err)
		}
		video = silent
		report(models.StatusTransforming, progressDownloadEnd+25)
	}

	output := ws.Path("mixed.mp4")
	if err := s.runner.Run(ctx, mixPlan(video, audio, req.Gain, req.Start, output)); err != nil {
		return "", fmt.Errorf("audio mix failed: %w", err)
	}
	report(models.StatusTransforming, progressTransformEnd)
	return output, nil
}

// silentTrackPlan copies the video stream untouched and attaches a silent
// stereo track trimmed to the video duration.
func silentTrackPlan(input, output string) ffmpeg.Plan {
	return ffmpeg.Plan{
		Args: []string{
			"-i", input,
			"-f", "lavfi",
			"-i", fmt.Sprintf("anullsrc=channel_layout=stereo:sample_rate=%d", normSampleRate),
			"-map", "0:v:0",
			"-map", "1:a:0",
			"-c:v", "copy",
			"-c:a", "aac",
			"-shortest",
			"-y", output,
		},
		OutputPath: output,
	}
}

// mixPlan delays the incoming audio to the start offset, applies the gain and
// mixes it with the video's own track, keeping the video duration.
func mixPlan(video, audio string, gain, start float64, output string) ffmpeg.Plan {
	delayMS := int(start * 1000)
	filter := fmt.Sprintf(
		"[1:a]volume=%.3f,adelay=%d|%d[ov];[0:a][ov]amix=inputs=2:duration=first:dropout_transition=0[mix]",
		gain, delayMS, delayMS,
	)
	return ffmpeg.Plan{
		Args: []string{
			"-i", video,
			"-i", audio,
			"-filter_complex", filter,
			"-map", "0:v",
			"-map", "[mix]",
			"-c:v", "copy",
			"-c:a", "aac",
			"-b:a", "192k",
			"-movflags", "+faststart",
			"-y", output,
		},
		OutputPath: output,
	}
}
