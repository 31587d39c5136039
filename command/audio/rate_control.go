package audio

import (
	"strings"

	"audioconv/config"
	"audioconv/models"
)

// rateControl picks between a quality argument and a bitrate argument. The
// first quality source that is set wins:
//
//  1. MP3 VBR level (mp3 only)
//  2. Vorbis quality (ogg only)
//  3. codec quality (ogg and opus)
//  4. bitrate value in VBR mode
//  5. generic quality
//
// Without a quality, an explicit CBR or custom bitrate value is used, and
// failing that the top-level bitrate, but only for formats with a bitrate
// concept and only while the bitrate mode is unset. Never both.
func rateControl(format models.Format, cfg *config.Config) []string {
	if q := qualityValue(format, &cfg.Audio); q != "" {
		return []string{"-q:a", q}
	}
	if b := bitrateValue(format, cfg); b != "" {
		return []string{"-b:a", b}
	}
	return nil
}

func qualityValue(format models.Format, a *config.AudioConfig) string {
	value := strings.TrimSpace(a.BitrateValue)

	switch {
	case format.ID == models.FormatMP3 && a.MP3VBR != "":
		return a.MP3VBR
	case format.ID == models.FormatOgg && a.VorbisQuality != "":
		return a.VorbisQuality
	case (format.ID == models.FormatOgg || format.ID == models.FormatOpus) && a.CodecQuality != "":
		return a.CodecQuality
	case a.BitrateMode == config.BitrateModeVBR && value != "":
		return value
	case a.Quality != "":
		return a.Quality
	}
	return ""
}

func bitrateValue(format models.Format, cfg *config.Config) string {
	mode := cfg.Audio.BitrateMode
	value := strings.TrimSpace(cfg.Audio.BitrateValue)

	if (mode == config.BitrateModeCBR || mode == config.BitrateModeCustom) && value != "" {
		return value
	}
	if format.HasBitrate && mode == config.BitrateModeUnset {
		return strings.TrimSpace(cfg.Bitrate)
	}
	return ""
}
