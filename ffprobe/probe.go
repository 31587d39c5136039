// Package ffprobe reads stream and container details from media files using
// the ffprobe command-line tool.
package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"audioconv/ffmpeg"
)

// Stream represents one stream of a media file.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	SampleRate string `json:"sample_rate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
	BitRate    string `json:"bit_rate,omitempty"`
	Duration   string `json:"duration,omitempty"`
}

// Format represents the container format information.
type Format struct {
	Filename       string `json:"filename"`
	FormatName     string `json:"format_name"`
	FormatLongName string `json:"format_long_name"`
	Duration       string `json:"duration"`
	Size           string `json:"size"`
	BitRate        string `json:"bit_rate"`
}

// ProbeResult holds the structured metadata of a media file.
type ProbeResult struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// GetDuration returns the duration of the media file in seconds.
//
// Returns an error if the duration cannot be parsed.
func (pr *ProbeResult) GetDuration() (float64, error) {
	if pr.Format.Duration == "" {
		return 0, fmt.Errorf("duration not available in format metadata")
	}

	duration, err := strconv.ParseFloat(pr.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration '%s': %w", pr.Format.Duration, err)
	}

	return duration, nil
}

// GetAudioStreams returns all audio streams from the media file.
func (pr *ProbeResult) GetAudioStreams() []Stream {
	var audioStreams []Stream
	for _, stream := range pr.Streams {
		if stream.CodecType == "audio" {
			audioStreams = append(audioStreams, stream)
		}
	}
	return audioStreams
}

// InfoArgs returns the arguments for a flat key=value summary of path: codec,
// type, channels, sample rate and bit rate per stream plus container duration
// and bit rate.
func InfoArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "stream=codec_name,codec_type,channels,sample_rate,bit_rate",
		"-show_entries", "format=duration,bit_rate",
		"-of", "default=nw=1",
		path,
	}
}

// Prober runs ffprobe.
type Prober struct {
	runner *ffmpeg.Runner
}

// NewProber returns a prober for the ffprobe binary at binary.
func NewProber(binary string, logger hclog.Logger) *Prober {
	return &Prober{runner: ffmpeg.NewRunner(binary, logger)}
}

// Info returns the non-empty lines of the flat summary for path.
func (p *Prober) Info(ctx context.Context, path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}

	res, err := p.runner.Run(ctx, InfoArgs(path))
	if err != nil {
		return nil, err
	}
	if !res.Succeeded() {
		return nil, fmt.Errorf("ffprobe exited with status %d: %s",
			res.ExitCode, strings.Join(res.Tail(1), ""))
	}
	return ParseInfo(res.Stdout), nil
}

// ParseInfo splits ffprobe's flat output into trimmed, non-empty lines.
func ParseInfo(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Probe analyzes a media file and returns its streams and container format.
//
// Example:
//
//	result, err := prober.Probe(ctx, "/path/to/song.flac")
//	if err != nil {
//	    return err
//	}
//	duration, _ := result.GetDuration()
func (p *Prober) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	if path == "" {
		return nil, fmt.Errorf("source path cannot be empty")
	}

	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	}

	res, err := p.runner.Run(ctx, args)
	if err != nil {
		return nil, err
	}
	if !res.Succeeded() {
		return nil, fmt.Errorf("ffprobe failed with status %d (output: %s)", res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	var result ProbeResult
	if err := json.Unmarshal([]byte(res.Stdout), &result); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe JSON output: %w", err)
	}
	return &result, nil
}
