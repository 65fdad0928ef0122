// Package transcode shells out to an external ffmpeg binary to convert an
// unrecognised or MP3 input into cached mono PCM WAV, ported from
// original_source/src/converter.rs.
package transcode

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/zeebo/wyhash"
)

// cacheHashSeed is the fixed WyHash seed the original keys the transcode
// cache with (0x1EE7C0DE, shared with the IOPL patcher's rax marker).
const cacheHashSeed = 0x1EE7C0DE

var (
	ErrAbsentFFmpeg     = errors.New("transcode: ffmpeg executable not found under assets/ffmpeg/ffmpeg.exe")
	ErrAbsentRootFolder = errors.New("transcode: could not determine the executable's parent folder")
	ErrInvalidBitness   = errors.New("transcode: invalid bitness, only 8, 16, 24 and 32 are supported")
)

func calcHash(data []byte) uint64 {
	return wyhash.Hash(data, cacheHashSeed)
}

func encoderName(bitness uint8) (string, error) {
	switch bitness {
	case 8:
		return "pcm_u8", nil
	case 16:
		return "pcm_s16le", nil
	case 24:
		return "pcm_s24le", nil
	case 32:
		return "pcm_s32le", nil
	default:
		return "", ErrInvalidBitness
	}
}

// ConvertToWAV transcodes filePath through ffmpeg into mono PCM WAV at
// sampleRate/bitness, caching the result under <exe_dir>/assets/cache/
// keyed by the 64-bit WyHash of the input bytes. Returns the cached
// file's path, running ffmpeg only on a cache miss.
func ConvertToWAV(filePath string, bitness uint8, sampleRate uint32) (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAbsentRootFolder, err)
	}
	assetsFolder := filepath.Join(filepath.Dir(exePath), "assets")

	if _, err := os.Stat(assetsFolder); err != nil {
		return "", ErrAbsentFFmpeg
	}

	cacheFolder := filepath.Join(assetsFolder, "cache")
	if _, err := os.Stat(cacheFolder); err != nil {
		if err := os.MkdirAll(cacheFolder, 0o755); err != nil {
			return "", fmt.Errorf("transcode: unable to create cache folder %s: %w", cacheFolder, err)
		}
	}

	file, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("transcode: unable to read %s: %w", filePath, err)
	}
	hash := calcHash(file)

	cachedPath := filepath.Join(cacheFolder, fmt.Sprintf("%d_%d_%d.wav", hash, bitness, sampleRate))
	if _, err := os.Stat(cachedPath); err == nil {
		return cachedPath, nil
	}

	ffmpegPath := filepath.Join(assetsFolder, "ffmpeg", "ffmpeg.exe")
	if _, err := os.Stat(ffmpegPath); err != nil {
		return "", ErrAbsentFFmpeg
	}

	encoder, err := encoderName(bitness)
	if err != nil {
		return "", err
	}

	cmd := exec.Command(ffmpegPath,
		"-i", filePath,
		"-acodec", encoder,
		"-ac", "1",
		"-ar", strconv.FormatUint(uint64(sampleRate), 10),
		cachedPath,
	)
	output, runErr := cmd.CombinedOutput()
	if _, statErr := os.Stat(cachedPath); statErr != nil {
		if runErr != nil {
			return "", fmt.Errorf("transcode: unable to run ffmpeg: %w", runErr)
		}
		return "", fmt.Errorf("transcode: conversion failed:\n%s", output)
	}

	return cachedPath, nil
}
