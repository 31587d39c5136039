// Package deps locates the external engine binaries.
package deps

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

var (
	// ErrFfmpegNotFound is returned when no usable ffmpeg binary exists.
	ErrFfmpegNotFound = errors.New("ffmpeg not found")
	// ErrFfprobeNotFound is returned when no usable ffprobe binary exists.
	// A missing prober only disables media-info display.
	ErrFfprobeNotFound = errors.New("ffprobe not found")
)

// Status reports the availability of a binary.
type Status struct {
	Name      string
	Command   string
	Available bool
	Detail    string
}

// ResolveFFmpeg returns the absolute path of the ffmpeg binary. An explicit
// path wins; otherwise PATH is searched.
func ResolveFFmpeg(explicit string) (string, error) {
	path, err := resolve(explicit, "ffmpeg")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFfmpegNotFound, err)
	}
	return path, nil
}

// ResolveFFprobe returns the absolute path of the ffprobe binary.
func ResolveFFprobe(explicit string) (string, error) {
	path, err := resolve(explicit, "ffprobe")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFfprobeNotFound, err)
	}
	return path, nil
}

// Check reports both engine binaries for display.
func Check(ffmpegPath, ffprobePath string) []Status {
	results := make([]Status, 0, 2)
	for _, b := range []struct {
		name     string
		explicit string
	}{{"ffmpeg", ffmpegPath}, {"ffprobe", ffprobePath}} {
		st := Status{Name: b.name, Command: b.explicit}
		path, err := resolve(b.explicit, b.name)
		if err != nil {
			st.Detail = err.Error()
		} else {
			st.Command = path
			st.Available = true
		}
		results = append(results, st)
	}
	return results
}

func resolve(explicit, name string) (string, error) {
	explicit = strings.TrimSpace(explicit)
	if explicit == "" {
		path, err := exec.LookPath(executableName(name))
		if err != nil {
			return "", fmt.Errorf("binary %q not found in PATH", name)
		}
		return path, nil
	}

	info, err := os.Stat(explicit)
	if err != nil {
		// Bare names like "ffmpeg7" still go through PATH.
		if path, lookErr := exec.LookPath(explicit); lookErr == nil {
			return path, nil
		}
		return "", fmt.Errorf("binary %q not found", explicit)
	}
	if !isExecutable(info) {
		return "", fmt.Errorf("%s is not an executable file", explicit)
	}
	return explicit, nil
}

func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
