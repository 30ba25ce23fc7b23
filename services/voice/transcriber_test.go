package voice

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

// wav builds a PCM WAV with the given format and payload size.
func wav(channels uint16, rate uint32, bits uint16, dataSize uint32) []byte {
	blockAlign := channels * bits / 8
	h := waveHeader{
		FileSize:      36 + dataSize,
		FmtSize:       16,
		AudioFormat:   1,
		NumChannels:   channels,
		SampleRate:    rate,
		ByteRate:      rate * uint32(blockAlign),
		BlockAlign:    blockAlign,
		BitsPerSample: bits,
		DataSize:      dataSize,
	}
	copy(h.RiffTag[:], "RIFF")
	copy(h.WaveTag[:], "WAVE")
	copy(h.FmtTag[:], "fmt ")
	copy(h.DataTag[:], "data")

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, h)
	buf.Write(make([]byte, 64))
	return buf.Bytes()
}

func TestValidateWave(t *testing.T) {
	assert.NoError(t, ValidateWave(wav(1, 16000, 16, 32000)))

	assert.ErrorIs(t, ValidateWave([]byte("RIFF")), ErrInvalidWave)

	bad := wav(1, 16000, 16, 32000)
	copy(bad[8:12], "AVI ")
	assert.ErrorIs(t, ValidateWave(bad), ErrInvalidWave)

	assert.ErrorIs(t, ValidateWave(wav(2, 16000, 16, 32000)), ErrUnsupportedAudio)
	assert.ErrorIs(t, ValidateWave(wav(1, 44100, 16, 32000)), ErrUnsupportedAudio)
	assert.ErrorIs(t, ValidateWave(wav(1, 16000, 16, 32000*61)), ErrAudioTooLong)
}
