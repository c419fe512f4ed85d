package gnn

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/golang/snappy"
	"golang.org/x/exp/mmap"
)

// SnappySuffix marks a weights file as snappy block-compressed
const SnappySuffix = ".snappy"

// LoadOption configures Load
type LoadOption func(*loadConfig)

type loadConfig struct {
	s3     ObjectGetter
	s3Opts S3Options
}

// WithObjectGetter sets the client used for s3:// locations
func WithObjectGetter(g ObjectGetter) LoadOption {
	return func(c *loadConfig) { c.s3 = g }
}

// WithS3Options configures the client created for s3:// locations when no
// ObjectGetter is supplied.
func WithS3Options(opts S3Options) LoadOption {
	return func(c *loadConfig) { c.s3Opts = opts }
}

// Load reads a model from a local path or an s3://bucket/key location.
// Locations ending in .snappy are decompressed first.
func Load(ctx context.Context, location string, opts ...LoadOption) (*Model, error) {
	cfg := &loadConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var (
		raw []byte
		err error
	)
	if bucket, key, ok := ParseS3URI(location); ok {
		getter := cfg.s3
		if getter == nil {
			getter, err = NewS3Client(ctx, cfg.s3Opts)
			if err != nil {
				return nil, err
			}
		}
		raw, err = fetchS3(ctx, getter, bucket, key)
	} else {
		raw, err = readMapped(location)
	}
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", location, err)
	}

	if strings.HasSuffix(location, SnappySuffix) {
		raw, err = snappy.Decode(nil, raw)
		if err != nil {
			return nil, fmt.Errorf("load model %s: %w: snappy: %v", location, ErrInvalidWeights, err)
		}
	}

	m, err := DecodeModel(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", location, err)
	}
	return m, nil
}

// Save writes m to a local path, snappy-compressing when the path ends in
// .snappy.
func (m *Model) Save(path string) error {
	var buf bytes.Buffer
	if err := EncodeModel(&buf, m); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	data := buf.Bytes()
	if strings.HasSuffix(path, SnappySuffix) {
		data = snappy.Encode(nil, data)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save model %s: %w", path, err)
	}
	return nil
}

// readMapped reads a whole file through a read-only memory map
func readMapped(path string) ([]byte, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	buf := make([]byte, reader.Len())
	if len(buf) == 0 {
		return buf, nil
	}
	if _, err := reader.ReadAt(buf, 0); err != nil {
		return nil, err
	}
	return buf, nil
}
