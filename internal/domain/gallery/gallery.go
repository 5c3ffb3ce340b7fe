// Package gallery downloads the similar images returned with an
// identification and captions them for a media group.
package gallery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"plantid-bot-go/internal/domain/plant"
	"plantid-bot-go/internal/platform/config"
	"plantid-bot-go/internal/platform/errors"
	"plantid-bot-go/internal/platform/httpclient"
	"plantid-bot-go/internal/platform/logging"
)

// Photo is one captioned image ready to send.
type Photo struct {
	Filename  string `json:"filename"`
	Data      []byte `json:"data"`
	Caption   string `json:"caption"`
	SourceURL string `json:"source_url"`
}

type download struct {
	data []byte
	meta plant.SimilarImage
	url  string
}

// Downloader fetches similar images with bounded concurrency.
type Downloader struct {
	http        *resty.Client
	maxImages   int
	concurrency int64
	logger      logging.Interface
}

func NewDownloader(cfg config.GalleryConfig, logger logging.Interface) *Downloader {
	if logger == nil {
		logger = logging.Nop{}
	}
	d := &Downloader{
		http:        httpclient.New("", cfg.Timeout, httpclient.WithResponseBodyLimit(cfg.MaxBytes)),
		maxImages:   cfg.MaxImages,
		concurrency: int64(cfg.Concurrency),
		logger:      logger,
	}
	if d.concurrency <= 0 {
		d.concurrency = 1
	}
	return d
}

// Build downloads images and returns captioned photos in API order.
// Images that fail to download are skipped.
func (d *Downloader) Build(ctx context.Context, images []plant.SimilarImage, plantName, commonName string) []Photo {
	return captions(d.fetch(ctx, images), plantName, commonName)
}

func (d *Downloader) fetch(ctx context.Context, images []plant.SimilarImage) []download {
	if d.maxImages > 0 && len(images) > d.maxImages {
		images = images[:d.maxImages]
	}
	slots := make([]*download, len(images))
	sem := semaphore.NewWeighted(d.concurrency)
	g, gctx := errgroup.WithContext(ctx)

	for i, img := range images {
		i, img := i, img
		url := strings.TrimSpace(img.PreferredURL())
		if url == "" {
			d.logger.Warn("similar image %s has no url", img.ID)
			continue
		}
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			started := time.Now()
			data, err := d.get(gctx, url)
			if err != nil {
				d.logger.Warn("similar image %s skipped: %v", url, err)
				return nil
			}
			d.logger.Debug("similar image %s loaded in %s", url, time.Since(started))
			slots[i] = &download{data: data, meta: img, url: url}
			return nil
		})
	}
	_ = g.Wait()

	out := make([]download, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

func (d *Downloader) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := d.http.R().SetContext(ctx).Get(url)
	if err := httpclient.Check("gallery.download", resp, err); err != nil {
		return nil, err
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, errors.New(errors.KindUpstream, "gallery.download", "empty body")
	}
	return body, nil
}

// captions builds the media group captions. The first photo carries the
// plant header; every photo carries similarity and license details.
func captions(items []download, plantName, commonName string) []Photo {
	if len(items) == 0 {
		return nil
	}
	header := "📸 <b>Похожие изображения:</b> " + plantName
	if commonName != "" {
		header += " (<i>" + commonName + "</i>)"
	}

	photos := make([]Photo, 0, len(items))
	for i, it := range items {
		caption := fmt.Sprintf("Сходство: %.1f%%", it.meta.Similarity*100) + licenseBlock(it.meta)
		if i == 0 {
			caption = header + "\n\n" + caption
		}
		photos = append(photos, Photo{
			Filename:  fmt.Sprintf("plant_%d.jpg", i),
			Data:      it.data,
			Caption:   caption,
			SourceURL: it.url,
		})
	}
	return photos
}

func licenseBlock(img plant.SimilarImage) string {
	if img.LicenseName == "" {
		return ""
	}
	s := "\n\n<b>Лицензия:</b> " + img.LicenseName
	if img.Citation != "" {
		s += " (Автор: " + img.Citation + ")"
	}
	if u := strings.TrimSpace(img.LicenseURL); u != "" {
		s += "\n" + u
	}
	return s
}
