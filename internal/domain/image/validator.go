package image

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"plantid-bot-go/internal/platform/config"
	"plantid-bot-go/internal/platform/errors"
	"plantid-bot-go/internal/platform/logging"
)

// Validator checks uploaded photos before they reach the identification API.
type Validator struct {
	config config.ImageConfig
	logger logging.Interface
}

func NewValidator(cfg config.ImageConfig, logger logging.Interface) *Validator {
	if logger == nil {
		logger = logging.Nop{}
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	return &Validator{config: cfg, logger: logger}
}

var imageSignatures = map[string][]byte{
	"jpeg": {0xFF, 0xD8, 0xFF},
	"png":  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	"gif":  {0x47, 0x49, 0x46, 0x38},
}

// Sniff detects the format from magic bytes; "" when unknown.
func Sniff(data []byte) string {
	if len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return "webp"
	}
	for format, sig := range imageSignatures {
		if bytes.HasPrefix(data, sig) {
			return format
		}
	}
	return ""
}

// Validate runs size, signature, format and dimension checks.
func (v *Validator) Validate(data []byte) ValidationResult {
	result := ValidationResult{FileSize: int64(len(data))}

	if len(data) == 0 {
		return v.reject(result, "empty payload", "empty image payload")
	}
	if int64(len(data)) > v.config.MaxFileSize {
		v.logger.Warn("detected oversized image: size=%d max_size=%d", len(data), v.config.MaxFileSize)
		return v.reject(result, "file too large",
			fmt.Sprintf("file size exceeds limit: %d bytes (max %d bytes)", len(data), v.config.MaxFileSize))
	}

	sniffed := Sniff(data)
	if sniffed == "" {
		v.logger.Warn("unknown image signature: header=%x", data[:min(len(data), 16)])
		return v.reject(result, "unknown signature", "unrecognised image signature")
	}
	if !v.allowed(sniffed) {
		return v.reject(result, "unapproved format", "unsupported format: "+sniffed)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		result.Risk = "corrupted image data"
		result.Error = errors.Wrap(errors.KindVision, "image.validate", "decode image config", err)
		return result
	}
	result.Format = format
	if format == "" {
		result.Format = sniffed
	}
	if (v.config.MaxWidth > 0 && cfg.Width > v.config.MaxWidth) || (v.config.MaxHeight > 0 && cfg.Height > v.config.MaxHeight) {
		return v.reject(result, "dimensions too large",
			fmt.Sprintf("dimensions exceed limit: %dx%d (max %dx%d)", cfg.Width, cfg.Height, v.config.MaxWidth, v.config.MaxHeight))
	}

	result.IsValid = true
	result.Width = cfg.Width
	result.Height = cfg.Height
	v.logger.Debug("image validation success: format=%s width=%d height=%d size=%d",
		result.Format, result.Width, result.Height, result.FileSize)
	return result
}

func (v *Validator) allowed(format string) bool {
	if len(v.config.AllowedFormats) == 0 {
		return true
	}
	for _, f := range v.config.AllowedFormats {
		f = strings.ToLower(f)
		if f == format || (f == "jpg" && format == "jpeg") {
			return true
		}
	}
	return false
}

func (v *Validator) reject(result ValidationResult, risk, msg string) ValidationResult {
	result.IsValid = false
	result.Risk = risk
	result.Error = errors.New(errors.KindVision, "image.validate", msg)
	return result
}
