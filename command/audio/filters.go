package audio

import (
	"fmt"
	"strings"

	"audioconv/config"
	"audioconv/internal/timeutil"
)

const (
	defaultLoudnessTarget = "-16"
	silenceRemoveFilter   = "silenceremove=start_periods=1:start_threshold=-50dB:stop_periods=1:stop_threshold=-50dB"
)

// FilterChain returns the audio filters for cfg in their fixed order:
// resample/dither, gain, loudness normalization, ReplayGain, silence
// removal, fade in, fade out. Stages whose options are unset are omitted.
func FilterChain(cfg *config.Config) []string {
	var filters []string
	f := &cfg.Filters

	if f.Resampler != "" || f.Dither != "" {
		filters = append(filters, resampleFilter(cfg))
	}

	if gain := strings.TrimSpace(f.GainDB); gain != "" {
		filters = append(filters, fmt.Sprintf("volume=%sdB", gain))
	}

	if f.Loudnorm {
		target := strings.TrimSpace(f.LoudnormTarget)
		if target == "" {
			target = defaultLoudnessTarget
		}
		filters = append(filters, fmt.Sprintf("loudnorm=I=%s:TP=-1.5:LRA=11", target))
	}

	if f.ReplayGain != "" {
		filters = append(filters, "replaygain="+f.ReplayGain)
	}

	if f.SilenceTrim {
		filters = append(filters, silenceRemoveFilter)
	}

	if d, ok := timeutil.ParseNumber(f.FadeIn); ok && d > 0 {
		filters = append(filters, fmt.Sprintf("afade=t=in:st=0:d=%s", timeutil.FormatNumber(d)))
	}

	start, startOK := timeutil.ParseNumber(f.FadeOutStart)
	dur, durOK := timeutil.ParseNumber(f.FadeOut)
	if startOK && durOK {
		filters = append(filters, fmt.Sprintf("afade=t=out:st=%s:d=%s",
			timeutil.FormatNumber(start), timeutil.FormatNumber(dur)))
	}

	return filters
}

// resampleFilter builds one aresample invocation. The sample rate is added
// whenever a concrete rate is configured.
func resampleFilter(cfg *config.Config) string {
	var params []string
	if cfg.Filters.Resampler != "" {
		params = append(params, "resampler="+cfg.Filters.Resampler)
	}
	if rate, ok := sampleRate(&cfg.Audio); ok {
		params = append(params, "sample_rate="+rate)
	}
	if cfg.Filters.Dither != "" {
		params = append(params, "dither_method="+cfg.Filters.Dither)
	}
	return "aresample=" + strings.Join(params, ":")
}
