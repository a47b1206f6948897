package takealot

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"sellersync/internal/common/models"
	"sellersync/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client is the outbound seller API surface the sync paths depend on.
type Client interface {
	FetchPage(ctx context.Context, creds Credentials, dataType models.DataType, page, pageSize int, filters map[string]string) ([]map[string]interface{}, error)
	CheckCredentials(ctx context.Context, creds Credentials) error
}

type ClientImpl struct {
	http       *resty.Client
	logger     *zap.Logger
	retryAfter time.Duration
}

func NewClient(cfg *config.Config, logger *zap.Logger) Client {
	http := resty.New().
		SetBaseURL(cfg.TakealotBaseURL).
		SetTimeout(60 * time.Second).
		SetHeader("Accept", "application/json")

	return &ClientImpl{
		http:       http,
		logger:     logger,
		retryAfter: 30 * time.Second,
	}
}

func endpointFor(dataType models.DataType) string {
	if dataType == models.DataTypeSales {
		return "/v2/orders"
	}
	return "/v2/offers"
}

// FetchPage retrieves one page of offers or sales. A 429 gets a single
// fixed-delay retry of the same page; a retried page that succeeds is not
// an error from the caller's point of view.
func (c *ClientImpl) FetchPage(ctx context.Context, creds Credentials, dataType models.DataType, page, pageSize int, filters map[string]string) ([]map[string]interface{}, error) {
	resp, err := c.getPage(ctx, creds, dataType, page, pageSize, filters)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() == 429 {
		c.logger.Warn("seller API rate limited, retrying page",
			zap.Int("page", page),
			zap.String("data_type", string(dataType)))

		select {
		case <-time.After(c.retryAfter):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		resp, err = c.getPage(ctx, creds, dataType, page, pageSize, filters)
		if err != nil {
			return nil, err
		}
	}

	if resp.IsError() {
		return nil, fmt.Errorf("seller API %s page %d: %s", dataType, page, resp.Status())
	}

	var body interface{}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("seller API %s page %d: decode: %w", dataType, page, err)
	}

	return unwrapEnvelope(body), nil
}

func (c *ClientImpl) getPage(ctx context.Context, creds Credentials, dataType models.DataType, page, pageSize int, filters map[string]string) (*resty.Response, error) {
	req := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", authHeader(creds)).
		SetQueryParam("limit", strconv.Itoa(pageSize)).
		SetQueryParam("offset", strconv.Itoa((page-1)*pageSize))

	for k, v := range filters {
		req.SetQueryParam(k, v)
	}

	return req.Get(endpointFor(dataType))
}

// CheckCredentials fetches a single offer to validate an API key.
func (c *ClientImpl) CheckCredentials(ctx context.Context, creds Credentials) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", authHeader(creds)).
		SetQueryParam("limit", "1").
		SetQueryParam("offset", "0").
		Get(endpointFor(models.DataTypeProducts))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("seller API credential check: %s", resp.Status())
	}
	return nil
}
