package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantid-bot-go/internal/platform/config"
	"plantid-bot-go/internal/platform/errors"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{G: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSniff(t *testing.T) {
	assert.Equal(t, "jpeg", Sniff([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
	assert.Equal(t, "png", Sniff(pngBytes(t, 1, 1)))
	assert.Equal(t, "gif", Sniff([]byte("GIF89a")))
	assert.Equal(t, "webp", Sniff([]byte("RIFF\x00\x00\x00\x00WEBPVP8 ")))
	assert.Equal(t, "", Sniff([]byte("RIFF\x00\x00\x00\x00WAVE")))
	assert.Equal(t, "", Sniff([]byte("hello")))
}

func TestValidate(t *testing.T) {
	cfg := config.DefaultConfig().Image
	cfg.MaxWidth, cfg.MaxHeight = 64, 64
	v := NewValidator(cfg, nil)

	ok := v.Validate(pngBytes(t, 8, 4))
	require.True(t, ok.IsValid, "%v", ok.Error)
	assert.Equal(t, "png", ok.Format)
	assert.Equal(t, 8, ok.Width)
	assert.Equal(t, 4, ok.Height)

	tests := []struct {
		name string
		data []byte
		risk string
	}{
		{"empty", nil, "empty payload"},
		{"not an image", []byte("<svg onload=alert(1)>"), "unknown signature"},
		{"too wide", pngBytes(t, 65, 1), "dimensions too large"},
		{"truncated", pngBytes(t, 2, 2)[:20], "corrupted image data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := v.Validate(tt.data)
			assert.False(t, res.IsValid)
			assert.Equal(t, tt.risk, res.Risk)
			assert.True(t, errors.IsKind(res.Error, errors.KindVision))
		})
	}
}

func TestValidate_FormatAndSizeLimits(t *testing.T) {
	v := NewValidator(config.ImageConfig{MaxFileSize: 1 << 20, AllowedFormats: []string{"jpg"}}, nil)
	res := v.Validate(pngBytes(t, 1, 1))
	assert.Equal(t, "unapproved format", res.Risk)

	small := NewValidator(config.ImageConfig{MaxFileSize: 10}, nil)
	res = small.Validate(pngBytes(t, 1, 1))
	assert.Equal(t, "file too large", res.Risk)
}

func TestPipeline_ProcessBase64(t *testing.T) {
	p := NewPipeline(config.DefaultConfig().Image, nil)
	raw := pngBytes(t, 3, 3)
	encoded := base64.StdEncoding.EncodeToString(raw)

	up, err := p.ProcessBase64(context.Background(), encoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, up.Base64)
	assert.Equal(t, raw, up.Bytes)
	assert.Equal(t, "png", up.Format)
	assert.NotEmpty(t, up.ID)

	withPrefix, err := p.ProcessBase64(context.Background(), "data:image/png;base64,"+encoded)
	require.NoError(t, err)
	assert.Equal(t, encoded, withPrefix.Base64)
}

func TestPipeline_Rejects(t *testing.T) {
	p := NewPipeline(config.ImageConfig{MaxFileSize: 16}, nil)

	_, err := p.ProcessBase64(context.Background(), "")
	assert.True(t, errors.IsKind(err, errors.KindVision))

	_, err = p.ProcessBase64(context.Background(), "!!!not-base64")
	assert.True(t, errors.IsKind(err, errors.KindVision))

	_, err = p.Process(context.Background(), bytes.NewReader(bytes.Repeat([]byte{0xFF}, 64)))
	assert.True(t, errors.IsKind(err, errors.KindVision))

	_, err = p.Process(context.Background(), nil)
	assert.True(t, errors.IsKind(err, errors.KindVision))
}
