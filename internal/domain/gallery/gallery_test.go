package gallery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantid-bot-go/internal/domain/plant"
	"plantid-bot-go/internal/platform/config"
	"plantid-bot-go/internal/platform/errors"
)

func TestCaptions(t *testing.T) {
	items := []download{
		{data: []byte("a"), url: "u1", meta: plant.SimilarImage{Similarity: 0.734, LicenseName: "CC BY-SA 4.0", Citation: "Ann", LicenseURL: " https://lic "}},
		{data: []byte("b"), url: "u2", meta: plant.SimilarImage{Similarity: 0.5}},
	}
	photos := captions(items, "Ficus elastica", "Фикус")
	require.Len(t, photos, 2)

	assert.Equal(t, "plant_0.jpg", photos[0].Filename)
	assert.Equal(t,
		"📸 <b>Похожие изображения:</b> Ficus elastica (<i>Фикус</i>)\n\nСходство: 73.4%\n\n<b>Лицензия:</b> CC BY-SA 4.0 (Автор: Ann)\nhttps://lic",
		photos[0].Caption)
	assert.Equal(t, "plant_1.jpg", photos[1].Filename)
	assert.Equal(t, "Сходство: 50.0%", photos[1].Caption)

	assert.Nil(t, captions(nil, "x", ""))
	noCommon := captions(items[1:], "Ficus", "")
	assert.True(t, strings.HasPrefix(noCommon[0].Caption, "📸 <b>Похожие изображения:</b> Ficus\n\n"))
}

func TestBuild_SkipsFailuresAndKeepsOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/small/1.jpg":
			time.Sleep(20 * time.Millisecond)
			_, _ = w.Write([]byte("one"))
		case "/2.jpg":
			_, _ = w.Write([]byte("two"))
		case "/big.jpg":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	d := NewDownloader(config.GalleryConfig{MaxImages: 4, MaxBytes: 32, Timeout: time.Second, Concurrency: 2}, nil)
	photos := d.Build(context.Background(), []plant.SimilarImage{
		{URL: srv.URL + "/1.jpg", URLSmall: srv.URL + "/small/1.jpg", Similarity: 0.9},
		{URL: srv.URL + "/missing.jpg", Similarity: 0.8},
		{URL: srv.URL + "/2.jpg", Similarity: 0.7},
		{URL: srv.URL + "/big.jpg", Similarity: 0.6},
		{URL: srv.URL + "/2.jpg", Similarity: 0.5},
	}, "Ficus", "")

	require.Len(t, photos, 2)
	assert.Equal(t, []byte("one"), photos[0].Data)
	assert.Contains(t, photos[0].Caption, "Сходство: 90.0%")
	assert.Equal(t, []byte("two"), photos[1].Data)
	assert.Equal(t, "plant_1.jpg", photos[1].Filename)
}

func TestBuild_NoImages(t *testing.T) {
	d := NewDownloader(config.DefaultConfig().Gallery, nil)
	assert.Empty(t, d.Build(context.Background(), nil, "Ficus", ""))
	assert.Empty(t, d.Build(context.Background(), []plant.SimilarImage{{ID: "no-url"}}, "Ficus", ""))
}

func TestGet_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/big.jpg":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		case "/empty.jpg":
			w.WriteHeader(http.StatusOK)
		default:
			_, _ = w.Write([]byte("ok"))
		}
	}))
	defer srv.Close()

	d := NewDownloader(config.GalleryConfig{MaxBytes: 32, Timeout: time.Second, Concurrency: 1}, nil)

	_, err := d.get(context.Background(), srv.URL+"/big.jpg")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindUpstream))
	assert.ErrorIs(t, err, resty.ErrResponseBodyTooLarge)

	_, err = d.get(context.Background(), srv.URL+"/empty.jpg")
	assert.True(t, errors.IsKind(err, errors.KindUpstream))

	body, err := d.get(context.Background(), srv.URL+"/small.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), body)
}
