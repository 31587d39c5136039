// Package models provides core data structures for the converter.
package models

import (
	"fmt"
	"sort"
	"strings"
)

// FormatID identifies a supported target format.
type FormatID string

const (
	FormatWAV  FormatID = "wav"
	FormatMP3  FormatID = "mp3"
	FormatM4A  FormatID = "m4a"
	FormatAAC  FormatID = "aac"
	FormatFLAC FormatID = "flac"
	FormatOpus FormatID = "opus"
	FormatOgg  FormatID = "ogg"
)

// Format describes how a target format maps onto the engine.
//
// Codec is the default encoder name, Extension the output file extension
// (without dot). HasBitrate reports whether a bitrate argument is meaningful
// for the format; DefaultBitrate is the value the loader fills in when the
// user leaves the top-level bitrate empty.
type Format struct {
	ID             FormatID `json:"id"`
	Label          string   `json:"label"`
	Codec          string   `json:"codec"`
	Extension      string   `json:"extension"`
	HasBitrate     bool     `json:"has_bitrate"`
	DefaultBitrate string   `json:"default_bitrate,omitempty"`
}

var formats = map[FormatID]Format{
	FormatWAV:  {ID: FormatWAV, Label: "WAV (pcm_s16le)", Codec: "pcm_s16le", Extension: "wav"},
	FormatMP3:  {ID: FormatMP3, Label: "MP3 (libmp3lame)", Codec: "libmp3lame", Extension: "mp3", HasBitrate: true, DefaultBitrate: "192k"},
	FormatM4A:  {ID: FormatM4A, Label: "M4A (AAC)", Codec: "aac", Extension: "m4a", HasBitrate: true, DefaultBitrate: "192k"},
	FormatAAC:  {ID: FormatAAC, Label: "AAC (raw)", Codec: "aac", Extension: "aac", HasBitrate: true, DefaultBitrate: "192k"},
	FormatFLAC: {ID: FormatFLAC, Label: "FLAC", Codec: "flac", Extension: "flac"},
	FormatOpus: {ID: FormatOpus, Label: "Opus (libopus)", Codec: "libopus", Extension: "opus", HasBitrate: true, DefaultBitrate: "128k"},
	FormatOgg:  {ID: FormatOgg, Label: "Ogg Vorbis (libvorbis)", Codec: "libvorbis", Extension: "ogg", HasBitrate: true, DefaultBitrate: "160k"},
}

// LookupFormat returns the catalog entry for id. Matching ignores case and
// surrounding whitespace.
func LookupFormat(id string) (Format, error) {
	key := FormatID(strings.ToLower(strings.TrimSpace(id)))
	f, ok := formats[key]
	if !ok {
		return Format{}, fmt.Errorf("unsupported format %q (supported: %s)", id, strings.Join(FormatIDs(), ", "))
	}
	return f, nil
}

// FormatIDs returns the supported format identifiers in sorted order.
func FormatIDs() []string {
	ids := make([]string, 0, len(formats))
	for id := range formats {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	return ids
}

// Formats returns every catalog entry sorted by identifier.
func Formats() []Format {
	out := make([]Format, 0, len(formats))
	for _, id := range FormatIDs() {
		out = append(out, formats[FormatID(id)])
	}
	return out
}
