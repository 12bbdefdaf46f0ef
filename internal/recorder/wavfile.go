package recorder

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV encodes little-endian 16-bit PCM bytes as a WAVE file.
func WriteWAV(path string, pcm []byte, sampleRate, channels int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create WAV file: %w", err)
	}
	defer f.Close()

	buf := &audio.IntBuffer{
		Data:   pcmToInts(pcm),
		Format: &audio.Format{SampleRate: sampleRate, NumChannels: channels},
	}

	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to encode WAV data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return nil
}

// pcmToInts converts S16LE sample bytes to the int slice the encoder
// expects. A trailing odd byte is dropped.
func pcmToInts(pcm []byte) []int {
	out := make([]int, len(pcm)/2)
	for i := 0; i+1 < len(pcm); i += 2 {
		out[i/2] = int(int16(binary.LittleEndian.Uint16(pcm[i : i+2])))
	}
	return out
}
