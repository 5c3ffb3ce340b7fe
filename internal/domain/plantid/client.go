// Package plantid talks to the plant.id v3 REST API.
package plantid

import (
	"context"
	"strings"

	"github.com/go-resty/resty/v2"

	"plantid-bot-go/internal/domain/plant"
	"plantid-bot-go/internal/platform/config"
	"plantid-bot-go/internal/platform/errors"
	"plantid-bot-go/internal/platform/httpclient"
	"plantid-bot-go/internal/platform/logging"
)

// Request describes one uploaded photo.
type Request struct {
	ImageBase64 string
	Language    string
	Latitude    *float64
	Longitude   *float64
}

type identificationBody struct {
	Images        []string `json:"images"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	SimilarImages bool     `json:"similar_images"`
}

type healthBody struct {
	Images    []string `json:"images"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Client is a thin plant.id client. Failed calls are never retried.
type Client struct {
	http          *resty.Client
	details       string
	healthDetails string
	logger        logging.Interface
}

// New builds a client from the plant_id config section.
func New(cfg config.PlantIDConfig, logger logging.Interface) *Client {
	if logger == nil {
		logger = logging.Nop{}
	}
	details := cfg.Details
	if len(details) == 0 {
		details = config.DefaultPlantDetails
	}
	return &Client{
		http: httpclient.New(cfg.BaseURL, cfg.Timeout,
			httpclient.WithHeader("Api-Key", cfg.APIKey),
			httpclient.WithHeader("Content-Type", "application/json"),
		),
		details:       strings.Join(details, ","),
		healthDetails: strings.Join(cfg.HealthDetails, ","),
		logger:        logger,
	}
}

// Identify submits a photo and returns the decoded identification.
func (c *Client) Identify(ctx context.Context, req Request) (*plant.Identification, error) {
	if req.ImageBase64 == "" {
		return nil, errors.New(errors.KindDomain, "plantid.identify", "image is required")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.query(req.Language, c.details)).
		SetBody(identificationBody{
			Images:        []string{req.ImageBase64},
			Latitude:      req.Latitude,
			Longitude:     req.Longitude,
			SimilarImages: true,
		}).
		Post("/identification")
	if err := httpclient.Check("plantid.identify", resp, err); err != nil {
		c.logger.Warn("identification request failed: %v", err)
		return nil, err
	}
	return plant.DecodeIdentification(resp.Body())
}

// Details re-fetches a stored identification with the full detail list.
func (c *Client) Details(ctx context.Context, token, lang string) (*plant.Identification, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New(errors.KindDomain, "plantid.details", "access token is required")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("token", token).
		SetQueryParams(c.query(lang, c.details)).
		Get("/identification/{token}")
	if err := httpclient.Check("plantid.details", resp, err); err != nil {
		c.logger.Warn("details request for %s failed: %v", token, err)
		return nil, err
	}
	return plant.DecodeIdentification(resp.Body())
}

// AssessHealth submits a photo to the health assessment endpoint.
func (c *Client) AssessHealth(ctx context.Context, req Request) (*plant.HealthAssessment, error) {
	if req.ImageBase64 == "" {
		return nil, errors.New(errors.KindDomain, "plantid.health", "image is required")
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(c.query(req.Language, c.healthDetails)).
		SetBody(healthBody{
			Images:    []string{req.ImageBase64},
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		}).
		Post("/health_assessment")
	if err := httpclient.Check("plantid.health", resp, err); err != nil {
		c.logger.Warn("health assessment request failed: %v", err)
		return nil, err
	}
	return plant.DecodeHealth(resp.Body())
}

func (c *Client) query(lang, details string) map[string]string {
	q := map[string]string{}
	if lang != "" {
		q["language"] = lang
	}
	if details != "" {
		q["details"] = details
	}
	return q
}
