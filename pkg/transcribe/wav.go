package transcribe

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

const bitDepth = 16

// pcm16 converts float samples in [-1, 1] to signed 16-bit values.
func pcm16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		v := float64(s) * 32767
		if v > 32767 {
			v = 32767
		} else if v < -32768 {
			v = -32768
		}
		out[i] = int(v)
	}
	return out
}

// linear16 returns little-endian 16-bit PCM bytes.
func linear16(samples []float32) []byte {
	ints := pcm16(samples)
	buf := make([]byte, len(ints)*2)
	for i, v := range ints {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(v)))
	}
	return buf
}

// tempBase returns a unique path prefix in dir for per-request scratch files.
func tempBase(dir string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	return filepath.Join(dir, "pttdictate_"+id)
}

// writeWAV writes mono 16-bit PCM to path.
func writeWAV(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           pcm16(samples),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	return f.Close()
}

// encodeWAV returns a WAV file image of samples. The encoder needs a seekable
// writer, so the data round-trips through a scratch file in tempDir.
func encodeWAV(samples []float32, sampleRate int, tempDir string) ([]byte, error) {
	path := tempBase(tempDir) + ".wav"
	defer os.Remove(path)

	if err := writeWAV(path, samples, sampleRate); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wav: %w", err)
	}
	return data, nil
}
