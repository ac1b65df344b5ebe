package postgres

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// zstd frame magic number, used to recognize compressed payloads.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// PhotoArchiver compresses customer document scans before storage.
// Aadhaar photos arrive as multi-hundred-KB blobs; small payloads are
// stored as-is.
type PhotoArchiver struct {
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
	threshold int
}

// NewPhotoArchiver creates a new archiver with a 4KB compression threshold.
func NewPhotoArchiver() (*PhotoArchiver, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &PhotoArchiver{
		encoder:   encoder,
		decoder:   decoder,
		threshold: 4 * 1024,
	}, nil
}

// Pack compresses the payload when it exceeds the threshold.
func (a *PhotoArchiver) Pack(raw []byte) []byte {
	if len(raw) <= a.threshold {
		return raw
	}
	return a.encoder.EncodeAll(raw, nil)
}

// Unpack restores a payload, detecting compression by the zstd frame magic.
func (a *PhotoArchiver) Unpack(stored []byte) ([]byte, error) {
	if len(stored) < len(zstdMagic) || !bytes.Equal(stored[:len(zstdMagic)], zstdMagic) {
		return stored, nil
	}
	raw, err := a.decoder.DecodeAll(stored, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress photo: %w", err)
	}
	return raw, nil
}
