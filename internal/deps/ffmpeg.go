package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// CheckFFmpegForWhisper reports the FFmpeg binary the whisper CLI will use to
// decode audio.
//
// Whisper shells out to "ffmpeg" from PATH. Virtualenv installs often ship an
// ffmpeg next to the interpreter, which the activated environment puts first
// on PATH; this helper checks that sibling before falling back to PATH so
// status output matches what the fallback run will find.
func CheckFFmpegForWhisper(whisperCommand string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Used by whisper to decode audio",
		Optional:    true,
	}

	if binary, _, err := SplitCommand(whisperCommand); err == nil {
		if resolved, err := exec.LookPath(binary); err == nil {
			candidate := siblingFFmpeg(resolved)
			if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
				result.Command = candidate
				result.Available = true
				return result
			}
		}
	}

	ffmpegName := "ffmpeg"
	if ffmpegPath, err := exec.LookPath(ffmpegName); err == nil {
		result.Command = ffmpegPath
		result.Available = true
		return result
	}

	result.Command = ffmpegName
	result.Detail = fmt.Sprintf("binary %q not found", ffmpegName)
	return result
}

func siblingFFmpeg(binaryPath string) string {
	name := "ffmpeg"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(binaryPath), name)
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
