package audio

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audioconv/config"
)

func baseConfig(format string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Format = format
	return cfg
}

func compile(t *testing.T, cfg *config.Config) *Invocation {
	t.Helper()
	inv, err := Compile(cfg, "/music/in.flac", 1)
	require.NoError(t, err)
	return inv
}

func TestCompile_AllUnsetWAV(t *testing.T) {
	inv := compile(t, baseConfig("wav"))

	assert.Equal(t, []string{"-y", "-i", "/music/in.flac", "-c:a", "pcm_s16le"}, inv.Args)
	assert.Empty(t, inv.Filters)
	assert.Equal(t, "", inv.FilterChain())
	assert.Equal(t,
		[]string{"-y", "-i", "/music/in.flac", "-c:a", "pcm_s16le", "/out/in.wav"},
		inv.Argv("/out/in.wav"))
}

func TestCompile_UnknownFormat(t *testing.T) {
	_, err := Compile(baseConfig("wma"), "in.flac", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestCompile_OverwriteFlag(t *testing.T) {
	tests := []struct {
		policy config.OverwritePolicy
		flag   string
	}{
		{config.OverwriteUnset, "-y"},
		{config.OverwriteReplace, "-y"},
		{config.OverwriteSequence, "-y"},
		{config.OverwriteSkip, "-n"},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			cfg := baseConfig("wav")
			cfg.Overwrite = tt.policy
			inv := compile(t, cfg)
			assert.Equal(t, tt.flag, inv.Args[0])
			assert.Equal(t, []string{"-i", "/music/in.flac"}, inv.Args[1:3])
		})
	}
}

func TestCompile_StreamSelection(t *testing.T) {
	cfg := baseConfig("wav")
	cfg.Streams.AudioOnly = true
	cfg.Streams.AlbumArt = config.Remove
	cfg.Streams.Metadata = config.Remove

	inv := compile(t, cfg)
	assert.Equal(t,
		[]string{"-y", "-i", "/music/in.flac", "-vn", "-map", "0:a", "-map_metadata", "-1", "-c:a", "pcm_s16le"},
		inv.Args)

	cfg.Streams.AlbumArt = config.Keep
	cfg.Streams.Metadata = config.Keep
	cfg.Streams.AudioOnly = false
	inv = compile(t, cfg)
	assert.Equal(t, []string{"-y", "-i", "/music/in.flac", "-c:a", "pcm_s16le"}, inv.Args)
}

func TestCompile_Trim(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  []string
	}{
		{"both valid", "1.5", "30", []string{"-ss", "1.5", "-to", "30"}},
		{"start only", "2", "", []string{"-ss", "2"}},
		{"invalid start is omitted", "abc", "10", []string{"-to", "10"}},
		{"whitespace tolerated", " 0.25 ", "", []string{"-ss", "0.25"}},
		{"negative start", "-1", "", []string{"-ss", "-1"}},
		{"both invalid", "1:30", "x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig("wav")
			cfg.Trim.Start = tt.start
			cfg.Trim.End = tt.end
			inv := compile(t, cfg)

			got := inv.Args[3 : len(inv.Args)-2]
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_WAVBitDepth(t *testing.T) {
	tests := []struct {
		depth string
		codec string
	}{
		{"", "pcm_s16le"},
		{"16", "pcm_s16le"},
		{"24", "pcm_s24le"},
		{"32", "pcm_s32le"},
	}

	for _, tt := range tests {
		t.Run("depth "+tt.depth, func(t *testing.T) {
			cfg := baseConfig("wav")
			cfg.Audio.BitDepth = tt.depth
			inv := compile(t, cfg)
			assert.Equal(t, tt.codec, valueAfter(inv.Args, "-c:a"))
		})
	}

	// Bit depth only matters for WAV
	cfg := baseConfig("flac")
	cfg.Audio.BitDepth = "24"
	assert.Equal(t, "flac", valueAfter(compile(t, cfg).Args, "-c:a"))
}

func TestCompile_CodecParams(t *testing.T) {
	tests := []struct {
		name   string
		format string
		mutate func(a *config.AudioConfig)
		flag   string
		value  string
	}{
		{"flac level", "flac", func(a *config.AudioConfig) { a.FLACLevel = "8" }, "-compression_level", "8"},
		{"m4a LC", "m4a", func(a *config.AudioConfig) { a.AACProfile = "LC" }, "-profile:a", "aac_low"},
		{"aac HE", "aac", func(a *config.AudioConfig) { a.AACProfile = "HE" }, "-profile:a", "aac_he"},
		{"aac HEv2", "aac", func(a *config.AudioConfig) { a.AACProfile = "HEv2" }, "-profile:a", "aac_he_v2"},
		{"mp3 joint", "mp3", func(a *config.AudioConfig) { a.StereoMode = "joint" }, "-joint_stereo", "1"},
		{"mp3 stereo", "mp3", func(a *config.AudioConfig) { a.StereoMode = "stereo" }, "-joint_stereo", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig(tt.format)
			tt.mutate(&cfg.Audio)
			inv := compile(t, cfg)
			assert.Equal(t, tt.value, valueAfter(inv.Args, tt.flag))
		})
	}
}

func TestCompile_CodecParamsIgnoredForOtherFormats(t *testing.T) {
	cfg := baseConfig("opus")
	cfg.Audio.FLACLevel = "8"
	cfg.Audio.AACProfile = "HE"
	cfg.Audio.StereoMode = "joint"

	inv := compile(t, cfg)
	for _, flag := range []string{"-compression_level", "-profile:a", "-joint_stereo"} {
		assert.NotContains(t, inv.Args, flag)
	}
}

func TestCompile_OpusExtras(t *testing.T) {
	cfg := baseConfig("opus")
	cfg.Opus.Bandwidth = "full"
	cfg.Opus.FrameDuration = "20"
	cfg.Opus.Application = "voip"

	inv := compile(t, cfg)
	assert.Equal(t, "full", valueAfter(inv.Args, "-bandwidth"))
	assert.Equal(t, "20", valueAfter(inv.Args, "-frame_duration"))
	assert.Equal(t, "voip", valueAfter(inv.Args, "-application"))

	cfg.Format = "ogg"
	inv = compile(t, cfg)
	assert.NotContains(t, inv.Args, "-bandwidth")
	assert.NotContains(t, inv.Args, "-frame_duration")
	assert.NotContains(t, inv.Args, "-application")
}

func TestCompile_SampleRateAndChannels(t *testing.T) {
	tests := []struct {
		name   string
		rate   string
		custom string
		want   string
	}{
		{"unset", "", "", ""},
		{"fixed", "48000", "", "48000"},
		{"custom numeric", config.SampleRateCustom, " 22050 ", "22050"},
		{"custom empty", config.SampleRateCustom, "", ""},
		{"custom non-numeric", config.SampleRateCustom, "fast", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig("flac")
			cfg.Audio.SampleRate = tt.rate
			cfg.Audio.SampleRateCustom = tt.custom
			inv := compile(t, cfg)
			assert.Equal(t, tt.want, valueAfter(inv.Args, "-ar"))
		})
	}

	cfg := baseConfig("flac")
	cfg.Audio.Channels = "1"
	assert.Equal(t, "1", valueAfter(compile(t, cfg).Args, "-ac"))
}

func TestCompile_ArgumentOrder(t *testing.T) {
	cfg := baseConfig("opus")
	cfg.Overwrite = config.OverwriteSkip
	cfg.Streams.AudioOnly = true
	cfg.Trim.Start = "5"
	cfg.Audio.CodecQuality = "7"
	cfg.Opus.Bandwidth = "wide"
	cfg.Audio.SampleRate = "48000"
	cfg.Audio.Channels = "2"
	cfg.Filters.GainDB = "-3"

	inv := compile(t, cfg)
	want := []string{
		"-n", "-i", "/music/in.flac",
		"-vn",
		"-ss", "5",
		"-c:a", "libopus",
		"-q:a", "7",
		"-bandwidth", "wide",
		"-ar", "48000",
		"-ac", "2",
	}
	assert.Equal(t, want, inv.Args)
	assert.Equal(t, append(append([]string{}, want...), "-af", "volume=-3dB", "/out/in.opus"), inv.Argv("/out/in.opus"))
}

func TestCompile_Deterministic(t *testing.T) {
	cfg := baseConfig("mp3")
	cfg.Bitrate = "192k"
	cfg.Audio.StereoMode = "joint"
	cfg.Filters.Resampler = "soxr"
	cfg.Filters.Loudnorm = true
	cfg.Filters.FadeIn = "2"
	cfg.Naming.Template = "{n}-{name}"

	first, err := Compile(cfg, "a.wav", 3)
	require.NoError(t, err)
	second, err := Compile(cfg, "a.wav", 3)
	require.NoError(t, err)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Compile is not deterministic:\n%+v\n%+v", first, second)
	}
	if strings.Join(first.Argv("o.mp3"), "\x00") != strings.Join(second.Argv("o.mp3"), "\x00") {
		t.Error("Argv differs between identical compilations")
	}
}

func TestCompile_DoesNotMutateConfig(t *testing.T) {
	cfg := baseConfig("ogg")
	cfg.Bitrate = "160k"
	cfg.Audio.BitrateValue = " 5 "
	cfg.Audio.BitrateMode = config.BitrateModeVBR
	snapshot := *cfg

	_ = compile(t, cfg)
	assert.Equal(t, snapshot, *cfg)
}

// valueAfter returns the argument that follows flag, or "" if flag is absent.
func valueAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
