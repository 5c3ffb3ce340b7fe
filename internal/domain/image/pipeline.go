package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"strings"

	"github.com/google/uuid"

	"plantid-bot-go/internal/platform/config"
	"plantid-bot-go/internal/platform/errors"
	"plantid-bot-go/internal/platform/logging"
)

// Pipeline streams an upload through the size limit, validation and
// base64 encoding.
type Pipeline struct {
	validator *Validator
	maxSize   int64
	logger    logging.Interface
}

func NewPipeline(cfg config.ImageConfig, logger logging.Interface) *Pipeline {
	v := NewValidator(cfg, logger)
	return &Pipeline{validator: v, maxSize: v.config.MaxFileSize, logger: v.logger}
}

// Process reads r (at most the configured size) and returns the validated upload.
func (p *Pipeline) Process(ctx context.Context, r io.Reader) (*Upload, error) {
	if r == nil {
		return nil, errors.New(errors.KindVision, "image.process", "image reader is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limited := &io.LimitedReader{R: r, N: p.maxSize + 1}
	raw := bytes.NewBuffer(make([]byte, 0, 32*1024))
	encoded := bytes.NewBuffer(make([]byte, 0, 64*1024))
	encoder := base64.NewEncoder(base64.StdEncoding, encoded)

	if _, err := io.Copy(io.MultiWriter(raw, encoder), limited); err != nil {
		return nil, errors.Wrap(errors.KindVision, "image.process", "stream image bytes", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(errors.KindVision, "image.process", "finalise base64 encoding", err)
	}
	if limited.N <= 0 {
		return nil, errors.New(errors.KindVision, "image.process", "image exceeds maximum size")
	}

	res := p.validator.Validate(raw.Bytes())
	if !res.IsValid {
		return nil, res.Error
	}
	return &Upload{
		ID:     uuid.NewString(),
		Base64: encoded.String(),
		Bytes:  raw.Bytes(),
		Format: res.Format,
		Width:  res.Width,
		Height: res.Height,
	}, nil
}

// ProcessBase64 validates a base64 payload, with or without a data URL prefix.
func (p *Pipeline) ProcessBase64(ctx context.Context, payload string) (*Upload, error) {
	payload = strings.TrimSpace(payload)
	if i := strings.Index(payload, ";base64,"); i >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[i+len(";base64,"):]
	}
	if payload == "" {
		return nil, errors.New(errors.KindVision, "image.process", "missing image payload")
	}
	dec := base64.NewDecoder(base64.StdEncoding, strings.NewReader(payload))
	return p.Process(ctx, dec)
}
