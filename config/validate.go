package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"audioconv/models"
)

// ErrInvalidConfig is wrapped by every validation failure so callers can tell
// a refused batch apart from other errors.
var ErrInvalidConfig = errors.New("invalid configuration")

var (
	sampleRateValues    = []string{"44100", "48000", "96000", SampleRateCustom}
	channelValues       = []string{"1", "2"}
	bitDepthValues      = []string{"16", "24", "32"}
	stereoModeValues    = []string{"joint", "stereo"}
	aacProfileValues    = []string{"LC", "HE", "HEv2"}
	opusBandwidthValues = []string{"narrow", "medium", "wide", "superwide", "full"}
	opusFrameValues     = []string{"2.5", "5", "10", "20", "40", "60"}
	opusAppValues       = []string{"audio", "voip", "lowdelay"}
	resamplerValues     = []string{"soxr", "swr"}
	ditherValues        = []string{"none", "triangular", "shibata"}
	replayGainValues    = []string{"track", "album"}
	logLevelValues      = []string{"trace", "debug", "info", "warn", "error"}
	logFormatValues     = []string{"console", "json"}
)

// Validate checks if the configuration is valid. All problems are collected
// into a single error wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	return c.validate(true)
}

// ValidateSettings is Validate without the output placement checks, for
// commands that never write converted files.
func (c *Config) ValidateSettings() error {
	return c.validate(false)
}

func (c *Config) validate(checkOutput bool) error {
	var errs []string

	if _, err := models.LookupFormat(c.Format); err != nil {
		errs = append(errs, err.Error())
	}

	if c.Concurrency < 0 {
		errs = append(errs, "concurrency cannot be negative (use 0 for auto-detect)")
	}

	if checkOutput {
		if err := c.Output.Validate(); err != nil {
			errs = append(errs, fmt.Sprintf("output: %v", err))
		}
	}

	if err := c.Audio.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("audio: %v", err))
	}

	if err := c.Opus.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("opus: %v", err))
	}

	if err := c.Filters.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("filters: %v", err))
	}

	if err := c.Streams.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("streams: %v", err))
	}

	switch c.Overwrite {
	case OverwriteUnset, OverwriteReplace, OverwriteSkip, OverwriteSequence:
	default:
		errs = append(errs, fmt.Sprintf("invalid overwrite policy '%s', must be one of: overwrite, skip, sequence", c.Overwrite))
	}

	switch c.PostAction {
	case PostActionUnset, PostActionNone, PostActionCopy, PostActionMove:
	default:
		errs = append(errs, fmt.Sprintf("invalid post action '%s', must be one of: none, copy, move", c.PostAction))
	}

	if msg := checkEnum("log level", strings.ToLower(c.Log.Level), logLevelValues); msg != "" {
		errs = append(errs, msg)
	}
	if msg := checkEnum("log format", strings.ToLower(c.Log.Format), logFormatValues); msg != "" {
		errs = append(errs, msg)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: configuration validation failed:\n  - %s", ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}
	return nil
}

// Validate checks the placement mode and its companion setting. An explicit
// output directory must already exist.
func (oc *OutputConfig) Validate() error {
	switch oc.Placement {
	case PlacementSibling:
		return nil
	case PlacementSubdir:
		if strings.TrimSpace(oc.Subdir) == "" {
			return fmt.Errorf("subdirectory name is required for placement 'subdir'")
		}
		return nil
	case PlacementDir:
		dir := strings.TrimSpace(oc.Dir)
		if dir == "" {
			return fmt.Errorf("output directory is required for placement 'dir'")
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("output directory does not exist: %s", dir)
		}
		return nil
	default:
		return fmt.Errorf("invalid placement '%s', must be one of: %s",
			oc.Placement, strings.Join(PlacementValues(), ", "))
	}
}

// Validate checks enumerated audio settings. Free-form values (bitrate,
// custom sample rate) are passed to the engine as entered.
func (ac *AudioConfig) Validate() error {
	var errs []string

	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"sample rate", ac.SampleRate, sampleRateValues},
		{"channels", ac.Channels, channelValues},
		{"bit depth", ac.BitDepth, bitDepthValues},
		{"FLAC level", ac.FLACLevel, intRange(0, 12)},
		{"stereo mode", ac.StereoMode, stereoModeValues},
		{"AAC profile", ac.AACProfile, aacProfileValues},
		{"MP3 VBR level", ac.MP3VBR, intRange(0, 9)},
		{"quality", ac.Quality, intRange(0, 10)},
		{"Vorbis quality", ac.VorbisQuality, intRange(-1, 10)},
		{"codec quality", ac.CodecQuality, intRange(-1, 10)},
	}
	for _, chk := range checks {
		if chk.value == "" {
			continue
		}
		if msg := checkEnum(chk.name, chk.value, chk.allowed); msg != "" {
			errs = append(errs, msg)
		}
	}

	switch ac.BitrateMode {
	case BitrateModeUnset, BitrateModeCBR, BitrateModeVBR, BitrateModeCustom:
	default:
		errs = append(errs, fmt.Sprintf("invalid bitrate mode '%s', must be one of: CBR, VBR, custom", ac.BitrateMode))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, ", "))
	}
	return nil
}

// Validate checks Opus-only settings.
func (oc *OpusConfig) Validate() error {
	var errs []string
	if oc.Bandwidth != "" {
		if msg := checkEnum("bandwidth", oc.Bandwidth, opusBandwidthValues); msg != "" {
			errs = append(errs, msg)
		}
	}
	if oc.FrameDuration != "" {
		if msg := checkEnum("frame duration", oc.FrameDuration, opusFrameValues); msg != "" {
			errs = append(errs, msg)
		}
	}
	if oc.Application != "" {
		if msg := checkEnum("application", oc.Application, opusAppValues); msg != "" {
			errs = append(errs, msg)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, ", "))
	}
	return nil
}

// Validate checks enumerated filter settings. Numeric text fields (gain,
// fades, loudness target) are not validated here.
func (fc *FilterConfig) Validate() error {
	var errs []string
	if fc.Resampler != "" {
		if msg := checkEnum("resampler", fc.Resampler, resamplerValues); msg != "" {
			errs = append(errs, msg)
		}
	}
	if fc.Dither != "" {
		if msg := checkEnum("dither", fc.Dither, ditherValues); msg != "" {
			errs = append(errs, msg)
		}
	}
	if fc.ReplayGain != "" {
		if msg := checkEnum("replaygain", fc.ReplayGain, replayGainValues); msg != "" {
			errs = append(errs, msg)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, ", "))
	}
	return nil
}

// Validate checks keep/remove settings.
func (sc *StreamsConfig) Validate() error {
	var errs []string
	for _, kv := range []struct {
		name  string
		value KeepRemove
	}{{"album art", sc.AlbumArt}, {"metadata", sc.Metadata}} {
		switch kv.value {
		case KeepRemoveUnset, Keep, Remove:
		default:
			errs = append(errs, fmt.Sprintf("invalid %s '%s', must be one of: keep, remove", kv.name, kv.value))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, ", "))
	}
	return nil
}

func checkEnum(name, value string, allowed []string) string {
	for _, v := range allowed {
		if value == v {
			return ""
		}
	}
	return fmt.Sprintf("invalid %s '%s', must be one of: %s", name, value, strings.Join(allowed, ", "))
}

func intRange(lo, hi int) []string {
	out := make([]string, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, fmt.Sprintf("%d", i))
	}
	return out
}
