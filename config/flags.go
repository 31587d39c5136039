package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// stringFlag binds one string-valued command-line flag to a config field.
type stringFlag struct {
	name  string
	short string
	usage string
	field func(c *Config) *string
}

// typedFlag binds a flag whose config field uses a named string type.
type typedFlag struct {
	name  string
	usage string
	set   func(c *Config, v string)
}

type boolFlag struct {
	name  string
	usage string
	field func(c *Config) *bool
}

var stringFlags = []stringFlag{
	{"format", "f", "Target format: wav, mp3, m4a, aac, flac, opus, ogg", func(c *Config) *string { return &c.Format }},
	{"bitrate", "b", "Top-level bitrate, e.g. 192k (\"none\" clears the format default)", func(c *Config) *string { return &c.Bitrate }},
	{"subdir", "", "Subdirectory name for placement 'subdir'", func(c *Config) *string { return &c.Output.Subdir }},
	{"output-dir", "o", "Output directory for placement 'dir'", func(c *Config) *string { return &c.Output.Dir }},

	{"sample-rate", "", "Sample rate: 44100, 48000, 96000, custom", func(c *Config) *string { return &c.Audio.SampleRate }},
	{"sample-rate-custom", "", "Sample rate in Hz when --sample-rate=custom", func(c *Config) *string { return &c.Audio.SampleRateCustom }},
	{"bitrate-value", "", "Bitrate (CBR/custom) or quality level (VBR) for --bitrate-mode", func(c *Config) *string { return &c.Audio.BitrateValue }},
	{"quality", "q", "Generic quality level 0-10", func(c *Config) *string { return &c.Audio.Quality }},
	{"channels", "", "Channel count: 1 or 2", func(c *Config) *string { return &c.Audio.Channels }},
	{"bit-depth", "", "WAV bit depth: 16, 24, 32", func(c *Config) *string { return &c.Audio.BitDepth }},
	{"flac-level", "", "FLAC compression level 0-12", func(c *Config) *string { return &c.Audio.FLACLevel }},
	{"stereo-mode", "", "MP3 stereo mode: joint, stereo", func(c *Config) *string { return &c.Audio.StereoMode }},
	{"aac-profile", "", "AAC profile: LC, HE, HEv2", func(c *Config) *string { return &c.Audio.AACProfile }},
	{"mp3-vbr", "", "MP3 VBR level 0-9", func(c *Config) *string { return &c.Audio.MP3VBR }},
	{"vorbis-quality", "", "Vorbis quality -1-10", func(c *Config) *string { return &c.Audio.VorbisQuality }},
	{"codec-quality", "", "Ogg/Opus quality -1-10", func(c *Config) *string { return &c.Audio.CodecQuality }},

	{"opus-bandwidth", "", "Opus bandwidth: narrow, medium, wide, superwide, full", func(c *Config) *string { return &c.Opus.Bandwidth }},
	{"opus-frame-duration", "", "Opus frame duration in ms: 2.5, 5, 10, 20, 40, 60", func(c *Config) *string { return &c.Opus.FrameDuration }},
	{"opus-application", "", "Opus application: audio, voip, lowdelay", func(c *Config) *string { return &c.Opus.Application }},

	{"resampler", "", "Resampler engine: soxr, swr", func(c *Config) *string { return &c.Filters.Resampler }},
	{"dither", "", "Dither method: none, triangular, shibata", func(c *Config) *string { return &c.Filters.Dither }},
	{"gain", "", "Gain in dB", func(c *Config) *string { return &c.Filters.GainDB }},
	{"loudnorm-target", "", "Loudness target in LUFS (default -16)", func(c *Config) *string { return &c.Filters.LoudnormTarget }},
	{"replaygain", "", "ReplayGain mode: track, album", func(c *Config) *string { return &c.Filters.ReplayGain }},
	{"fade-in", "", "Fade-in duration in seconds", func(c *Config) *string { return &c.Filters.FadeIn }},
	{"fade-out-start", "", "Fade-out start in seconds", func(c *Config) *string { return &c.Filters.FadeOutStart }},
	{"fade-out", "", "Fade-out duration in seconds", func(c *Config) *string { return &c.Filters.FadeOut }},

	{"trim-start", "", "Trim start in seconds", func(c *Config) *string { return &c.Trim.Start }},
	{"trim-end", "", "Trim end in seconds", func(c *Config) *string { return &c.Trim.End }},

	{"suffix", "", "Suffix appended to output names (ignored with --template)", func(c *Config) *string { return &c.Naming.Suffix }},
	{"template", "", "Output name template, tokens: {name} {ext} {date} {n}", func(c *Config) *string { return &c.Naming.Template }},

	{"ffmpeg", "", "Path to the ffmpeg binary (default: search PATH)", func(c *Config) *string { return &c.FFmpegPath }},
	{"ffprobe", "", "Path to the ffprobe binary (default: search PATH)", func(c *Config) *string { return &c.FFprobePath }},

	{"log-level", "", "Log level: trace, debug, info, warn, error", func(c *Config) *string { return &c.Log.Level }},
	{"log-format", "", "Log format: console, json", func(c *Config) *string { return &c.Log.Format }},
	{"log-file", "", "Also write logs to this file", func(c *Config) *string { return &c.Log.File }},
}

var typedFlags = []typedFlag{
	{"placement", "Output placement: sibling, subdir, dir", func(c *Config, v string) { c.Output.Placement = Placement(v) }},
	{"bitrate-mode", "Bitrate mode: CBR, VBR, custom", func(c *Config, v string) { c.Audio.BitrateMode = BitrateMode(v) }},
	{"album-art", "Album art: keep, remove", func(c *Config, v string) { c.Streams.AlbumArt = KeepRemove(v) }},
	{"metadata", "Metadata: keep, remove", func(c *Config, v string) { c.Streams.Metadata = KeepRemove(v) }},
	{"overwrite", "Collision policy: overwrite, skip, sequence", func(c *Config, v string) { c.Overwrite = OverwritePolicy(v) }},
	{"post-action", "After success: none, copy, move", func(c *Config, v string) { c.PostAction = PostAction(v) }},
}

var boolFlags = []boolFlag{
	{"loudnorm", "Apply EBU R128 loudness normalization", func(c *Config) *bool { return &c.Filters.Loudnorm }},
	{"silence-trim", "Remove leading and trailing silence", func(c *Config) *bool { return &c.Filters.SilenceTrim }},
	{"audio-only", "Drop video streams", func(c *Config) *bool { return &c.Streams.AudioOnly }},
	{"show-info", "Probe and log stream info for each input", func(c *Config) *bool { return &c.ShowInfo }},
	{"dry-run", "Log compiled commands without running them", func(c *Config) *bool { return &c.DryRun }},
}

// RegisterFlags defines every conversion option on fs. Values given on the
// command line are merged into a config with MergeFromFlags.
func RegisterFlags(fs *pflag.FlagSet) {
	for _, f := range stringFlags {
		fs.StringP(f.name, f.short, "", f.usage)
	}
	for _, f := range typedFlags {
		fs.String(f.name, "", f.usage)
	}
	for _, f := range boolFlags {
		fs.Bool(f.name, false, f.usage)
	}
	fs.IntP("concurrency", "j", 0, "Number of parallel conversions (0 = auto-detect)")
}

// MergeFromFlags overrides config values with flags that were explicitly set
// on the command line. Flags left at their defaults never touch the config.
func (c *Config) MergeFromFlags(fs *pflag.FlagSet) error {
	for _, f := range stringFlags {
		if !fs.Changed(f.name) {
			continue
		}
		v, err := fs.GetString(f.name)
		if err != nil {
			return fmt.Errorf("flag --%s: %w", f.name, err)
		}
		*f.field(c) = strings.TrimSpace(v)
	}

	for _, f := range typedFlags {
		if !fs.Changed(f.name) {
			continue
		}
		v, err := fs.GetString(f.name)
		if err != nil {
			return fmt.Errorf("flag --%s: %w", f.name, err)
		}
		f.set(c, strings.TrimSpace(v))
	}

	for _, f := range boolFlags {
		if !fs.Changed(f.name) {
			continue
		}
		v, err := fs.GetBool(f.name)
		if err != nil {
			return fmt.Errorf("flag --%s: %w", f.name, err)
		}
		*f.field(c) = v
	}

	if fs.Changed("concurrency") {
		v, err := fs.GetInt("concurrency")
		if err != nil {
			return fmt.Errorf("flag --concurrency: %w", err)
		}
		c.Concurrency = v
	}

	// --output-dir alone implies placement 'dir'
	if fs.Changed("output-dir") && !fs.Changed("placement") {
		c.Output.Placement = PlacementDir
	}

	return nil
}

// PrintConfig writes the effective configuration.
func (c *Config) PrintConfig(w io.Writer) {
	line := strings.Repeat("═", 59)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "                 Effective Configuration                  ")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Format:         %s\n", c.Format)
	fmt.Fprintf(w, "Bitrate:        %s\n", orUnset(c.Bitrate))
	fmt.Fprintf(w, "Concurrency:    %d\n", c.Concurrency)
	fmt.Fprintf(w, "Placement:      %s\n", c.Output.Placement)
	switch c.Output.Placement {
	case PlacementSubdir:
		fmt.Fprintf(w, "  Subdir:       %s\n", c.Output.Subdir)
	case PlacementDir:
		fmt.Fprintf(w, "  Dir:          %s\n", c.Output.Dir)
	}
	fmt.Fprintf(w, "Overwrite:      %s\n", orUnset(string(c.Overwrite)))
	fmt.Fprintf(w, "Post Action:    %s\n", orUnset(string(c.PostAction)))

	fmt.Fprintln(w, "\nAudio Settings:")
	fmt.Fprintf(w, "  Sample Rate:  %s\n", orUnset(c.Audio.SampleRate))
	fmt.Fprintf(w, "  Channels:     %s\n", orUnset(c.Audio.Channels))
	fmt.Fprintf(w, "  Bitrate Mode: %s\n", orUnset(string(c.Audio.BitrateMode)))
	fmt.Fprintf(w, "  Quality:      %s\n", orUnset(c.Audio.Quality))

	fmt.Fprintln(w, "\nFilters:")
	fmt.Fprintf(w, "  Gain:         %s\n", orUnset(c.Filters.GainDB))
	fmt.Fprintf(w, "  Loudnorm:     %v\n", c.Filters.Loudnorm)
	fmt.Fprintf(w, "  ReplayGain:   %s\n", orUnset(c.Filters.ReplayGain))
	fmt.Fprintf(w, "  Silence Trim: %v\n", c.Filters.SilenceTrim)

	fmt.Fprintln(w, "\nBehavioral Flags:")
	fmt.Fprintf(w, "  Show Info:    %v\n", c.ShowInfo)
	fmt.Fprintf(w, "  Dry Run:      %v\n", c.DryRun)
	fmt.Fprintln(w, line)
}

func orUnset(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}
