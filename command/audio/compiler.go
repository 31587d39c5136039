// Package audio compiles a batch configuration and one input file into the
// exact FFmpeg argument vector and audio filter chain for that file.
//
// Compilation is pure: the same configuration and input always produce
// byte-identical output, and nothing outside the arguments is consulted.
// Every option left at its zero value contributes no argument at all.
package audio

import (
	"strings"

	"audioconv/config"
	"audioconv/internal/timeutil"
	"audioconv/models"
)

// aacProfiles maps user-facing AAC profile names to encoder tokens.
var aacProfiles = map[string]string{
	"LC":   "aac_low",
	"HE":   "aac_he",
	"HEv2": "aac_he_v2",
}

// pcmDepthCodecs overrides the WAV codec for bit depths above 16.
var pcmDepthCodecs = map[string]string{
	"24": "pcm_s24le",
	"32": "pcm_s32le",
}

// Invocation is the compiled form of one input: the engine arguments up to
// (but excluding) the filter flag and output path, plus the ordered filter
// chain.
type Invocation struct {
	Index     int
	InputPath string
	Format    models.Format
	Args      []string
	Filters   []string
}

// Compile builds the invocation for input, the index-th (1-based) file of the
// batch. It only fails for an unknown target format.
func Compile(cfg *config.Config, input string, index int) (*Invocation, error) {
	format, err := models.LookupFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	var args []string
	args = append(args, overwriteFlag(cfg.Overwrite))
	args = append(args, "-i", input)
	args = append(args, streamArgs(&cfg.Streams)...)
	args = append(args, trimArgs(&cfg.Trim)...)
	args = append(args, "-c:a", codecFor(format, &cfg.Audio))
	args = append(args, codecParams(format, &cfg.Audio)...)
	args = append(args, rateControl(format, cfg)...)
	args = append(args, opusArgs(format, &cfg.Opus)...)
	if rate, ok := sampleRate(&cfg.Audio); ok {
		args = append(args, "-ar", rate)
	}
	if cfg.Audio.Channels != "" {
		args = append(args, "-ac", cfg.Audio.Channels)
	}

	return &Invocation{
		Index:     index,
		InputPath: input,
		Format:    format,
		Args:      args,
		Filters:   FilterChain(cfg),
	}, nil
}

// FilterChain returns the comma-joined filter chain, or "" when empty.
func (inv *Invocation) FilterChain() string {
	return strings.Join(inv.Filters, ",")
}

// Argv returns the full engine argument vector writing to output.
func (inv *Invocation) Argv(output string) []string {
	argv := make([]string, 0, len(inv.Args)+3)
	argv = append(argv, inv.Args...)
	if chain := inv.FilterChain(); chain != "" {
		argv = append(argv, "-af", chain)
	}
	return append(argv, output)
}

// overwriteFlag keeps the engine from replacing an existing file when the
// collision policy is skip. Every other policy forces overwrite; the output
// resolver has already picked a free path for sequence.
func overwriteFlag(policy config.OverwritePolicy) string {
	if policy == config.OverwriteSkip {
		return "-n"
	}
	return "-y"
}

func streamArgs(s *config.StreamsConfig) []string {
	var args []string
	if s.AudioOnly {
		args = append(args, "-vn")
	}
	if s.AlbumArt == config.Remove {
		args = append(args, "-map", "0:a")
	}
	if s.Metadata == config.Remove {
		args = append(args, "-map_metadata", "-1")
	}
	return args
}

func trimArgs(t *config.TrimConfig) []string {
	var args []string
	if v, ok := timeutil.ParseNumber(t.Start); ok {
		args = append(args, "-ss", timeutil.FormatNumber(v))
	}
	if v, ok := timeutil.ParseNumber(t.End); ok {
		args = append(args, "-to", timeutil.FormatNumber(v))
	}
	return args
}

func codecFor(format models.Format, a *config.AudioConfig) string {
	if format.ID == models.FormatWAV {
		if codec, ok := pcmDepthCodecs[a.BitDepth]; ok {
			return codec
		}
	}
	return format.Codec
}

func codecParams(format models.Format, a *config.AudioConfig) []string {
	switch format.ID {
	case models.FormatFLAC:
		if a.FLACLevel != "" {
			return []string{"-compression_level", a.FLACLevel}
		}
	case models.FormatM4A, models.FormatAAC:
		if profile, ok := aacProfiles[a.AACProfile]; ok {
			return []string{"-profile:a", profile}
		}
	case models.FormatMP3:
		switch a.StereoMode {
		case "joint":
			return []string{"-joint_stereo", "1"}
		case "stereo":
			return []string{"-joint_stereo", "0"}
		}
	}
	return nil
}

func opusArgs(format models.Format, o *config.OpusConfig) []string {
	if format.ID != models.FormatOpus {
		return nil
	}
	var args []string
	if o.Bandwidth != "" {
		args = append(args, "-bandwidth", o.Bandwidth)
	}
	if o.FrameDuration != "" {
		args = append(args, "-frame_duration", o.FrameDuration)
	}
	if o.Application != "" {
		args = append(args, "-application", o.Application)
	}
	return args
}

// sampleRate returns the configured rate. A custom rate counts only when its
// text is numeric; it is passed through as entered.
func sampleRate(a *config.AudioConfig) (string, bool) {
	switch a.SampleRate {
	case "":
		return "", false
	case config.SampleRateCustom:
		custom := strings.TrimSpace(a.SampleRateCustom)
		if _, ok := timeutil.ParseNumber(custom); !ok {
			return "", false
		}
		return custom, true
	default:
		return a.SampleRate, true
	}
}

