package httptransport

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"plantid-bot-go/internal/app/bot"
	"plantid-bot-go/internal/platform/errors"
	"plantid-bot-go/internal/platform/logging"
)

// DefaultMaxUpload caps multipart photo uploads.
const DefaultMaxUpload = 10 << 20

// Dispatcher answers one user update.
type Dispatcher interface {
	Handle(ctx context.Context, u bot.Update) bot.Reply
}

// UpdateRequest is the JSON body of POST /api/updates.
type UpdateRequest struct {
	UserID    string   `json:"user_id" binding:"required"`
	Intent    string   `json:"intent"`
	Text      string   `json:"text"`
	Photo     string   `json:"photo"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// KeyboardView is a keyboard id plus its rendered layout.
type KeyboardView struct {
	ID          bot.Keyboard   `json:"id"`
	Layout      [][]bot.Button `json:"layout,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
}

// UpdateResponse is the data payload returned for an update.
type UpdateResponse struct {
	Messages []string     `json:"messages"`
	Photos   []PhotoView  `json:"photos"`
	Keyboard KeyboardView `json:"keyboard"`
}

// PhotoView is a gallery photo; Data is base64 encoded by encoding/json.
type PhotoView struct {
	Filename  string `json:"filename"`
	Data      []byte `json:"data"`
	Caption   string `json:"caption,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

// BotHandler exposes the bot over HTTP.
type BotHandler struct {
	bot       Dispatcher
	logger    logging.Interface
	maxUpload int64
}

// NewBotHandler creates a handler; maxUpload <= 0 uses DefaultMaxUpload.
func NewBotHandler(d Dispatcher, logger logging.Interface, maxUpload int64) (*BotHandler, error) {
	if d == nil {
		return nil, errors.New(errors.KindConfig, "http.bot.new", "bot dispatcher is required")
	}
	if logger == nil {
		logger = logging.Nop{}
	}
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUpload
	}
	return &BotHandler{bot: d, logger: logger, maxUpload: maxUpload}, nil
}

// RegisterRoutes mounts the bot endpoints on the API group.
func (h *BotHandler) RegisterRoutes(router *Router) {
	router.API.POST("/updates", h.HandleUpdate)
	router.API.POST("/photos", h.HandleUpload)
}

// HandleUpdate processes a JSON update.
func (h *BotHandler) HandleUpdate(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request format", gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		RespondError(c, http.StatusBadRequest, "user_id is required", nil)
		return
	}

	reply := h.bot.Handle(c.Request.Context(), bot.Update{
		UserID:    req.UserID,
		Intent:    bot.Intent(req.Intent),
		Text:      req.Text,
		Photo:     req.Photo,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	RespondSuccess(c, http.StatusOK, toResponse(reply), "")
}

// HandleUpload accepts a multipart photo in the "file" field.
func (h *BotHandler) HandleUpload(c *gin.Context) {
	photo, userID, err := h.readUpload(c)
	if err != nil {
		h.logger.Warn("upload rejected: %v", err)
		RespondError(c, statusFor(err), err.Error(), nil)
		return
	}
	reply := h.bot.Handle(c.Request.Context(), bot.Update{
		UserID: userID,
		Intent: bot.IntentPhoto,
		Photo:  photo,
	})
	RespondSuccess(c, http.StatusOK, toResponse(reply), "")
}

func (h *BotHandler) readUpload(c *gin.Context) (string, string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)
	if err := c.Request.ParseMultipartForm(h.maxUpload); err != nil {
		return "", "", errors.Wrap(errors.KindTransport, "http.upload", "failed to parse multipart form", err)
	}

	userID := strings.TrimSpace(c.Request.FormValue("user_id"))
	if userID == "" {
		return "", "", errors.New(errors.KindTransport, "http.upload", "user_id field is required")
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		return "", "", errors.Wrap(errors.KindTransport, "http.upload", "file field is required", err)
	}
	defer file.Close()

	if header.Size > h.maxUpload {
		return "", "", errors.New(errors.KindVision, "http.upload", "file size exceeds limit")
	}
	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		return "", "", errors.Wrap(errors.KindTransport, "http.upload", "read file", err)
	}
	if int64(len(data)) > h.maxUpload {
		return "", "", errors.New(errors.KindVision, "http.upload", "file size exceeds limit")
	}
	return base64.StdEncoding.EncodeToString(data), userID, nil
}

func toResponse(r bot.Reply) UpdateResponse {
	photos := make([]PhotoView, 0, len(r.Photos))
	for _, p := range r.Photos {
		photos = append(photos, PhotoView{
			Filename:  p.Filename,
			Data:      p.Data,
			Caption:   p.Caption,
			SourceURL: p.SourceURL,
		})
	}
	return UpdateResponse{
		Messages: r.Messages,
		Photos:   photos,
		Keyboard: KeyboardView{
			ID:          r.Keyboard,
			Layout:      bot.Layout(r.Keyboard),
			Placeholder: bot.Placeholder(r.Keyboard),
		},
	}
}
