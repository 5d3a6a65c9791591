package speech

import (
	"bytes"
	"encoding/binary"
	"strconv"
	"strings"
)

const (
	defaultPCMRate = 24000
	pcmChannels    = 1
	pcmBits        = 16
)

// pcmRate reads the rate parameter from a MIME type such as
// "audio/L16;codec=pcm;rate=24000".
func pcmRate(mime string) int {
	for _, part := range strings.Split(mime, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if ok && strings.EqualFold(k, "rate") {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n
			}
		}
	}
	return defaultPCMRate
}

// wrapWAV puts 16-bit mono little-endian PCM samples into a RIFF/WAVE
// container.
func wrapWAV(pcm []byte, rate int) []byte {
	blockAlign := pcmChannels * pcmBits / 8
	byteRate := rate * blockAlign

	var b bytes.Buffer
	b.Grow(44 + len(pcm))
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+len(pcm)))
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(pcmChannels))
	binary.Write(&b, binary.LittleEndian, uint32(rate))
	binary.Write(&b, binary.LittleEndian, uint32(byteRate))
	binary.Write(&b, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&b, binary.LittleEndian, uint16(pcmBits))

	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(len(pcm)))
	b.Write(pcm)
	return b.Bytes()
}
