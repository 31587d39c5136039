// Package config holds the immutable per-run configuration record and the
// layered loading (defaults < config file < CLI flags) that produces it.
//
// Every tunable option uses its zero value as the "unset" sentinel: an empty
// string or false means "match the source / let the engine decide", and the
// command compiler never emits an argument for it.
package config

// Placement selects where converted files are written.
type Placement string

const (
	PlacementSibling Placement = "sibling" // Same directory as the input
	PlacementSubdir  Placement = "subdir"  // Named subdirectory of the input's directory
	PlacementDir     Placement = "dir"     // One explicit directory for the whole batch
)

// OverwritePolicy decides what happens when the destination already exists.
type OverwritePolicy string

const (
	OverwriteUnset    OverwritePolicy = ""
	OverwriteReplace  OverwritePolicy = "overwrite"
	OverwriteSkip     OverwritePolicy = "skip"
	OverwriteSequence OverwritePolicy = "sequence"
)

// PostAction is applied to the original input after a successful conversion.
type PostAction string

const (
	PostActionUnset PostAction = ""
	PostActionNone  PostAction = "none"
	PostActionCopy  PostAction = "copy"
	PostActionMove  PostAction = "move"
)

// BitrateMode selects how the bitrate value is interpreted.
type BitrateMode string

const (
	BitrateModeUnset  BitrateMode = ""
	BitrateModeCBR    BitrateMode = "CBR"
	BitrateModeVBR    BitrateMode = "VBR"
	BitrateModeCustom BitrateMode = "custom"
)

// KeepRemove is used by options that either keep or strip something.
type KeepRemove string

const (
	KeepRemoveUnset KeepRemove = ""
	Keep            KeepRemove = "keep"
	Remove          KeepRemove = "remove"
)

// SampleRateCustom marks the sample rate as taken from AudioConfig.SampleRateCustom.
const SampleRateCustom = "custom"

// BitrateNone clears the format default bitrate when used as the top-level bitrate.
const BitrateNone = "none"

// Config holds every user-selected option for one batch run.
type Config struct {
	// Target format identifier (wav, mp3, m4a, aac, flac, opus, ogg)
	Format string `yaml:"format" toml:"format"`
	// Top-level bitrate, e.g. "192k". Filled with the format default by the loader.
	Bitrate string `yaml:"bitrate" toml:"bitrate"`
	// Number of tasks run at once. 1 = sequential, 0 = auto-detect.
	Concurrency int `yaml:"concurrency" toml:"concurrency"`

	Output  OutputConfig  `yaml:"output" toml:"output"`
	Audio   AudioConfig   `yaml:"audio" toml:"audio"`
	Opus    OpusConfig    `yaml:"opus" toml:"opus"`
	Filters FilterConfig  `yaml:"filters" toml:"filters"`
	Trim    TrimConfig    `yaml:"trim" toml:"trim"`
	Streams StreamsConfig `yaml:"streams" toml:"streams"`
	Naming  NamingConfig  `yaml:"naming" toml:"naming"`

	Overwrite  OverwritePolicy `yaml:"overwrite" toml:"overwrite"`
	PostAction PostAction      `yaml:"post_action" toml:"post_action"`
	ShowInfo   bool            `yaml:"show_info" toml:"show_info"`

	// Engine binaries; empty means search PATH
	FFmpegPath  string `yaml:"ffmpeg_path" toml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path" toml:"ffprobe_path"`

	Log LogConfig `yaml:"log" toml:"log"`

	// Compile and log engine commands without running them
	DryRun bool `yaml:"dry_run" toml:"dry_run"`
}

// OutputConfig holds output placement settings.
type OutputConfig struct {
	Placement Placement `yaml:"placement" toml:"placement"`
	Subdir    string    `yaml:"subdir" toml:"subdir"`
	Dir       string    `yaml:"dir" toml:"dir"`
}

// AudioConfig holds encoder-level audio settings.
//
// Accepted values: SampleRate 44100/48000/96000/custom, Channels 1/2,
// BitDepth 16/24/32, FLACLevel 0-12, StereoMode joint/stereo, AACProfile
// LC/HE/HEv2, MP3VBR 0-9, Quality 0-10, VorbisQuality and CodecQuality -1-10.
type AudioConfig struct {
	SampleRate       string      `yaml:"sample_rate" toml:"sample_rate"`
	SampleRateCustom string      `yaml:"sample_rate_custom" toml:"sample_rate_custom"`
	BitrateMode      BitrateMode `yaml:"bitrate_mode" toml:"bitrate_mode"`
	BitrateValue     string      `yaml:"bitrate_value" toml:"bitrate_value"`
	Quality          string      `yaml:"quality" toml:"quality"`
	Channels         string      `yaml:"channels" toml:"channels"`
	BitDepth         string      `yaml:"bit_depth" toml:"bit_depth"`
	FLACLevel        string      `yaml:"flac_level" toml:"flac_level"`
	StereoMode       string      `yaml:"stereo_mode" toml:"stereo_mode"`
	AACProfile       string      `yaml:"aac_profile" toml:"aac_profile"`
	MP3VBR           string      `yaml:"mp3_vbr" toml:"mp3_vbr"`
	VorbisQuality    string      `yaml:"vorbis_quality" toml:"vorbis_quality"`
	CodecQuality     string      `yaml:"codec_quality" toml:"codec_quality"`
}

// OpusConfig holds Opus-only encoder settings.
type OpusConfig struct {
	Bandwidth     string `yaml:"bandwidth" toml:"bandwidth"`
	FrameDuration string `yaml:"frame_duration" toml:"frame_duration"`
	Application   string `yaml:"application" toml:"application"`
}

// FilterConfig holds the audio filter chain settings. LoudnormTarget is in
// LUFS and defaults to -16 when loudness normalization is on.
type FilterConfig struct {
	Resampler      string `yaml:"resampler" toml:"resampler"`
	Dither         string `yaml:"dither" toml:"dither"`
	GainDB         string `yaml:"gain_db" toml:"gain_db"`
	Loudnorm       bool   `yaml:"loudnorm" toml:"loudnorm"`
	LoudnormTarget string `yaml:"loudnorm_target" toml:"loudnorm_target"`
	ReplayGain     string `yaml:"replaygain" toml:"replaygain"`
	SilenceTrim    bool   `yaml:"silence_trim" toml:"silence_trim"`
	FadeIn         string `yaml:"fade_in" toml:"fade_in"`
	FadeOutStart   string `yaml:"fade_out_start" toml:"fade_out_start"`
	FadeOut        string `yaml:"fade_out" toml:"fade_out"`
}

// TrimConfig holds trim points in seconds as entered by the user.
// Text that does not parse as a number is ignored.
type TrimConfig struct {
	Start string `yaml:"start" toml:"start"`
	End   string `yaml:"end" toml:"end"`
}

// StreamsConfig controls stream and metadata selection.
type StreamsConfig struct {
	AudioOnly bool       `yaml:"audio_only" toml:"audio_only"`
	AlbumArt  KeepRemove `yaml:"album_art" toml:"album_art"`
	Metadata  KeepRemove `yaml:"metadata" toml:"metadata"`
}

// NamingConfig controls output file names.
// Template tokens: {name} {ext} {date} {n}.
type NamingConfig struct {
	Suffix   string `yaml:"suffix" toml:"suffix"`
	Template string `yaml:"template" toml:"template"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	File   string `yaml:"file" toml:"file"`
}

// DefaultConfig returns configuration with every tunable unset.
func DefaultConfig() *Config {
	return &Config{
		Format:      "wav",
		Concurrency: 1,
		Output: OutputConfig{
			Placement: PlacementSibling,
			Subdir:    "converted",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Copy creates a copy of the config. Nested settings are plain values.
func (c *Config) Copy() *Config {
	cp := *c
	return &cp
}

// PlacementValues returns valid placement modes.
func PlacementValues() []string {
	return []string{string(PlacementSibling), string(PlacementSubdir), string(PlacementDir)}
}
