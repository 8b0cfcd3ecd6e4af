package storage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/OliveiraNt/kafka-vault/internal/domain"
	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

// Codecs lists every known compression strategy, used to resolve the codec of
// a stored file from its extension.
func Codecs() []domain.Compression {
	return []domain.Compression{Gzip{}, Lz4{}, None{}}
}

// CodecByName resolves a strategy by name. An empty name selects Gzip.
func CodecByName(name string) (domain.Compression, error) {
	if name == "" {
		return Gzip{}, nil
	}
	for _, c := range Codecs() {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown compression codec %q", name)
}

// None stores payloads uncompressed.
type None struct{}

func (None) Name() string                           { return "none" }
func (None) Ext() string                            { return "" }
func (None) Compress(data []byte) ([]byte, error)   { return data, nil }
func (None) Decompress(data []byte) ([]byte, error) { return data, nil }

// Gzip compresses payloads with gzip.
type Gzip struct{}

func (Gzip) Name() string { return "gzip" }
func (Gzip) Ext() string  { return ".gz" }

func (Gzip) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip close: %w", err)
	}
	return buf.Bytes(), nil
}

func (Gzip) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gzip read: %w", err)
	}
	return out, nil
}

// Lz4 compresses payloads with the lz4 frame format.
type Lz4 struct{}

func (Lz4) Name() string { return "lz4" }
func (Lz4) Ext() string  { return ".lz4" }

func (Lz4) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("lz4 write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("lz4 close: %w", err)
	}
	return buf.Bytes(), nil
}

func (Lz4) Decompress(data []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lz4 read: %w", err)
	}
	return out, nil
}
