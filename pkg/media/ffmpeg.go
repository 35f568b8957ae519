package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var (
	ErrProbeFailed     = errors.New("probe failed")
	ErrTranscodeFailed = errors.New("transcode failed")
	ErrSplitFailed     = errors.New("split failed")
)

// Tool is the capability surface over the external media binaries. The
// orchestrator depends on this interface so tests can swap in fakes.
type Tool interface {
	// Probe returns the duration of a media file in seconds.
	Probe(ctx context.Context, path string) (float64, error)

	// TranscodeToAudio extracts the audio stream of inputPath into an mp3
	// file at outputPath, dropping any video.
	TranscodeToAudio(ctx context.Context, inputPath, outputPath string) error

	// SplitByDuration stream-copies inputPath into sequential segments of
	// chunkSeconds each, written to outputPattern (ffmpeg %03d pattern).
	SplitByDuration(ctx context.Context, inputPath, outputPattern string, chunkSeconds float64) error
}

// commandRunner abstracts process execution so tests do not need the real
// binaries installed.
type commandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

type osRunner struct{}

func (osRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (osRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// FFmpeg shells out to ffmpeg/ffprobe.
type FFmpeg struct {
	ffmpegBin  string
	ffprobeBin string
	runner     commandRunner
}

type FFmpegOption func(*FFmpeg)

// WithRunner sets a custom command runner (for testing).
func WithRunner(r commandRunner) FFmpegOption {
	return func(f *FFmpeg) { f.runner = r }
}

// WithBinaries overrides the ffmpeg and ffprobe binary paths.
func WithBinaries(ffmpegBin, ffprobeBin string) FFmpegOption {
	return func(f *FFmpeg) {
		f.ffmpegBin = ffmpegBin
		f.ffprobeBin = ffprobeBin
	}
}

func NewFFmpeg(opts ...FFmpegOption) *FFmpeg {
	f := &FFmpeg{
		ffmpegBin:  "ffmpeg",
		ffprobeBin: "ffprobe",
		runner:     osRunner{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ Tool = (*FFmpeg)(nil)

func (f *FFmpeg) Probe(ctx context.Context, path string) (float64, error) {
	out, err := f.runner.Output(ctx, f.ffprobeBin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable duration %q", ErrProbeFailed, strings.TrimSpace(string(out)))
	}
	if duration < 0 {
		return 0, fmt.Errorf("%w: negative duration %f", ErrProbeFailed, duration)
	}

	return duration, nil
}

func (f *FFmpeg) TranscodeToAudio(ctx context.Context, inputPath, outputPath string) error {
	out, err := f.runner.CombinedOutput(ctx, f.ffmpegBin,
		"-i", inputPath,
		"-codec:a", "libmp3lame",
		"-b:a", "96k",
		"-vn",
		outputPath,
		"-y",
		"-loglevel", "error",
	)
	if err != nil {
		return fmt.Errorf("%w: %v: %s", ErrTranscodeFailed, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (f *FFmpeg) SplitByDuration(ctx context.Context, inputPath, outputPattern string, chunkSeconds float64) error {
	if chunkSeconds <= 0 {
		return fmt.Errorf("%w: non-positive chunk duration %f", ErrSplitFailed, chunkSeconds)
	}

	out, err := f.runner.CombinedOutput(ctx, f.ffmpegBin,
		"-i", inputPath,
		"-f", "segment",
		"-segment_time", strconv.FormatFloat(chunkSeconds, 'f', 3, 64),
		"-c", "copy",
		outputPattern,
		"-y",
		"-loglevel", "error",
	)
	if err != nil {
		return fmt.Errorf("%w: %v: %s", ErrSplitFailed, err, strings.TrimSpace(string(out)))
	}
	return nil
}
