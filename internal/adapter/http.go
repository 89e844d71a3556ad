package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-sync-bridge/internal/config"
	"github.com/MKhiriev/go-sync-bridge/internal/logger"
	"github.com/MKhiriev/go-sync-bridge/internal/utils"
	"github.com/MKhiriev/go-sync-bridge/models"
)

type httpRemoteAdapter struct {
	client *utils.HTTPClient
	token  string

	logger *logger.Logger
}

// NewHTTPRemoteAdapter constructs an HTTP/REST implementation of
// [RemoteAdapter]. It normalises and validates the base URL from
// cfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL, request timeout and bearer token.
//
// Returns an error if cfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPRemoteAdapter(cfg config.Adapter, logger *logger.Logger) (RemoteAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Content-Type", "application/json")

	return &httpRemoteAdapter{
		client: client,
		token:  strings.TrimSpace(cfg.Token),
		logger: logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyAddress
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Query implements [RemoteAdapter]. It POSTs req to /api/sync/query and
// decodes one [models.QueryPage].
func (h *httpRemoteAdapter) Query(ctx context.Context, req models.QueryRequest) (models.QueryPage, error) {
	var page models.QueryPage

	resp, err := h.request(ctx).
		SetBody(req).
		Post("/api/sync/query")
	if err != nil {
		return models.QueryPage{}, fmt.Errorf("query request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.QueryPage{}, err
	}

	if err = json.Unmarshal(resp.Body(), &page); err != nil {
		return models.QueryPage{}, fmt.Errorf("decode query response: %w", err)
	}

	return page, nil
}

// ListIDs implements [RemoteAdapter]. It POSTs the target to /api/sync/ids.
func (h *httpRemoteAdapter) ListIDs(ctx context.Context, target models.SyncTarget) ([]string, error) {
	var ids models.IDsResponse

	resp, err := h.request(ctx).
		SetBody(models.IDsRequest{Target: target}).
		Post("/api/sync/ids")
	if err != nil {
		return nil, fmt.Errorf("list ids request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	if err = json.Unmarshal(resp.Body(), &ids); err != nil {
		return nil, fmt.Errorf("decode ids response: %w", err)
	}

	return ids.IDs, nil
}

// Create implements [RemoteAdapter]. It POSTs the fields to
// /api/sync/records/{objectType} and returns the id assigned remotely.
func (h *httpRemoteAdapter) Create(ctx context.Context, objectType string, fields []byte) (string, error) {
	var created models.RecordWriteResponse

	resp, err := h.request(ctx).
		SetPathParam("objectType", objectType).
		SetBody(models.RecordWriteRequest{Fields: fields}).
		Post("/api/sync/records/{objectType}")
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	if err = json.Unmarshal(resp.Body(), &created); err != nil {
		return "", fmt.Errorf("decode create response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("create response carries no id")
	}

	return created.ID, nil
}

// Update implements [RemoteAdapter]. It PUTs the fields to
// /api/sync/records/{objectType}/{id}.
func (h *httpRemoteAdapter) Update(ctx context.Context, objectType, id string, fields []byte) error {
	resp, err := h.request(ctx).
		SetPathParams(map[string]string{"objectType": objectType, "id": id}).
		SetBody(models.RecordWriteRequest{Fields: fields}).
		Put("/api/sync/records/{objectType}/{id}")
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}

	return mapHTTPError(resp)
}

// Delete implements [RemoteAdapter]. It sends DELETE to
// /api/sync/records/{objectType}/{id}; 404 counts as success.
func (h *httpRemoteAdapter) Delete(ctx context.Context, objectType, id string) error {
	resp, err := h.request(ctx).
		SetPathParams(map[string]string{"objectType": objectType, "id": id}).
		Delete("/api/sync/records/{objectType}/{id}")
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	if err = mapHTTPError(resp); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err != nil {
		h.logger.Debug().
			Str("func", "httpRemoteAdapter.Delete").
			Str("id", id).
			Msg("remote record already deleted")
	}

	return nil
}

func (h *httpRemoteAdapter) request(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if h.token != "" {
		req.SetAuthToken(h.token)
	}
	return req
}
