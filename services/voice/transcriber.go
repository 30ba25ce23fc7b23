// Package voice turns recorded speech into text for the assistant.
package voice

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
)

const (
	MaxDurationSeconds = 60
	MaxFileSize        = 5 * 1024 * 1024
	AllowedExtension   = ".wav"
	SampleRateHertz    = 16000
)

var (
	ErrInvalidWave      = errors.New("invalid WAV file")
	ErrUnsupportedAudio = errors.New("audio must be 16kHz mono 16-bit PCM")
	ErrAudioTooLong     = errors.New("audio exceeds maximum duration")
)

// Transcriber converts validated LINEAR16 audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// waveHeader is the canonical 44-byte RIFF/WAVE header.
type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

const waveHeaderSize = 44

// ValidateWave checks that data is a PCM WAV the recognizer accepts as-is.
func ValidateWave(data []byte) error {
	if len(data) < waveHeaderSize {
		return fmt.Errorf("%w: header too short", ErrInvalidWave)
	}
	var h waveHeader
	if err := binary.Read(bytes.NewReader(data[:waveHeaderSize]), binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWave, err)
	}
	if string(h.RiffTag[:]) != "RIFF" || string(h.WaveTag[:]) != "WAVE" {
		return fmt.Errorf("%w: missing RIFF/WAVE tags", ErrInvalidWave)
	}
	if h.AudioFormat != 1 || h.NumChannels != 1 || h.SampleRate != SampleRateHertz || h.BitsPerSample != 16 {
		return ErrUnsupportedAudio
	}
	if h.ByteRate > 0 && h.DataSize/h.ByteRate > MaxDurationSeconds {
		return ErrAudioTooLong
	}
	return nil
}

// GoogleTranscriber uses Cloud Speech-to-Text synchronous recognition.
type GoogleTranscriber struct {
	client *speech.Client
}

func NewGoogleTranscriber(ctx context.Context, credentialsFile string) (*GoogleTranscriber, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}
	return &GoogleTranscriber{client: client}, nil
}

func (t *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	if language == "" {
		language = "en-US"
	}
	resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   SampleRateHertz,
			LanguageCode:      language,
			AudioChannelCount: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var sb strings.Builder
	for _, result := range resp.Results {
		// The first alternative is the most likely one.
		if len(result.Alternatives) > 0 {
			sb.WriteString(result.Alternatives[0].Transcript)
			sb.WriteString(" ")
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func (t *GoogleTranscriber) Close() error {
	return t.client.Close()
}
