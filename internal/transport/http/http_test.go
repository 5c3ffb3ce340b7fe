package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantid-bot-go/internal/app/bot"
	"plantid-bot-go/internal/domain/gallery"
	"plantid-bot-go/internal/domain/translation"
)

type fakeBot struct {
	mu      sync.Mutex
	updates []bot.Update
}

func (f *fakeBot) Handle(_ context.Context, u bot.Update) bot.Reply {
	f.mu.Lock()
	f.updates = append(f.updates, u)
	f.mu.Unlock()
	return bot.Reply{
		Messages: []string{"ok:" + string(u.Intent)},
		Photos:   []gallery.Photo{{Filename: "plant_0.jpg", Data: []byte{1, 2, 3}, Caption: "c"}},
		Keyboard: bot.KeyboardMain,
	}
}

type fakeSessions struct{}

func (fakeSessions) Stats(context.Context) (map[string]any, error) {
	return map[string]any{"type": "memory", "total": 2}, nil
}

type fakeTranslations struct{}

func (fakeTranslations) Stats() translation.Stats { return translation.Stats{Entries: 3, Hits: 5} }

type fakeEvents struct{}

func (fakeEvents) Dropped() int64 { return 1 }

type fakeEventCounts struct {
	counts map[string]int64
	err    error
}

func (f fakeEventCounts) CountByType(context.Context) (map[string]int64, error) {
	return f.counts, f.err
}

func newTestRouter(t *testing.T, token string) (*Router, *fakeBot) {
	t.Helper()
	r := Build(Options{Token: token})
	fb := &fakeBot{}
	h, err := NewBotHandler(fb, nil, 1024)
	require.NoError(t, err)
	h.RegisterRoutes(r)
	NewStatusHandler(StatusSources{
		Sessions:    fakeSessions{},
		Translation: fakeTranslations{},
		Events:      fakeEvents{},
		EventCounts: fakeEventCounts{counts: map[string]int64{"plant:identified": 4}},
	}, nil).RegisterRoutes(r)
	return r, fb
}

func decode(t *testing.T, w *httptest.ResponseRecorder) (APIResponse, map[string]any) {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]any)
	return resp, data
}

func TestHandleUpdate(t *testing.T) {
	r, fb := newTestRouter(t, "")

	body := `{"user_id":"42","intent":"language","text":"en","latitude":1.5,"longitude":2.5}`
	req := httptest.NewRequest(http.MethodPost, "/api/updates", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp, data := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, []any{"ok:language"}, data["messages"])

	kb := data["keyboard"].(map[string]any)
	assert.Equal(t, "main", kb["id"])
	assert.Equal(t, "Ваш цветок", kb["placeholder"])
	assert.NotEmpty(t, kb["layout"])

	photos := data["photos"].([]any)
	require.Len(t, photos, 1)
	assert.Equal(t, "AQID", photos[0].(map[string]any)["data"])

	require.Len(t, fb.updates, 1)
	u := fb.updates[0]
	assert.Equal(t, "42", u.UserID)
	assert.Equal(t, bot.IntentLanguage, u.Intent)
	require.NotNil(t, u.Latitude)
	assert.Equal(t, 1.5, *u.Latitude)
}

func TestHandleUpdate_BadRequests(t *testing.T) {
	r, fb := newTestRouter(t, "")
	for _, body := range []string{`{`, `{"intent":"start"}`, `{"user_id":"  "}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/updates", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.Engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Empty(t, fb.updates)
}

func multipartRequest(t *testing.T, userID string, payload []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if userID != "" {
		require.NoError(t, mw.WriteField("user_id", userID))
	}
	fw, err := mw.CreateFormFile("file", "leaf.png")
	require.NoError(t, err)
	_, err = fw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleUpload(t *testing.T) {
	r, fb := newTestRouter(t, "")

	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, multipartRequest(t, "7", []byte("abc")))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, fb.updates, 1)
	assert.Equal(t, bot.IntentPhoto, fb.updates[0].Intent)
	assert.Equal(t, "YWJj", fb.updates[0].Photo)

	w = httptest.NewRecorder()
	r.Engine.ServeHTTP(w, multipartRequest(t, "", []byte("abc")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.Engine.ServeHTTP(w, multipartRequest(t, "7", bytes.Repeat([]byte{1}, 2048)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, fb.updates, 1)
}

func TestStatus(t *testing.T) {
	r, _ := newTestRouter(t, "")
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, w.Code)
	_, data := decode(t, w)
	assert.Contains(t, data, "process")
	assert.Equal(t, float64(3), data["translation"].(map[string]any)["entries"])
	assert.Equal(t, "memory", data["sessions"].(map[string]any)["type"])
	events := data["events"].(map[string]any)
	assert.Equal(t, float64(1), events["dropped"])
	assert.Equal(t, map[string]any{"plant:identified": float64(4)}, events["persisted"])
}

func TestStatus_EventSources(t *testing.T) {
	tests := []struct {
		name    string
		sources StatusSources
		check   func(t *testing.T, data map[string]any)
	}{
		{
			name:    "no event sources",
			sources: StatusSources{},
			check: func(t *testing.T, data map[string]any) {
				assert.NotContains(t, data, "events")
			},
		},
		{
			name:    "count failure",
			sources: StatusSources{EventCounts: fakeEventCounts{err: stderrors.New("db closed")}},
			check: func(t *testing.T, data map[string]any) {
				events := data["events"].(map[string]any)
				assert.Equal(t, "db closed", events["persisted_error"])
				assert.NotContains(t, events, "persisted")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Build(Options{})
			NewStatusHandler(tt.sources, nil).RegisterRoutes(r)
			w := httptest.NewRecorder()
			r.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
			require.Equal(t, http.StatusOK, w.Code)
			_, data := decode(t, w)
			tt.check(t, data)
		})
	}
}

func TestTokenMiddleware(t *testing.T) {
	r, _ := newTestRouter(t, "s3cret")

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{name: "missing", want: http.StatusUnauthorized},
		{name: "wrong", header: TokenHeader, value: "nope", want: http.StatusUnauthorized},
		{name: "token header", header: TokenHeader, value: "s3cret", want: http.StatusOK},
		{name: "bearer", header: "Authorization", value: "Bearer s3cret", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			r.Engine.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
