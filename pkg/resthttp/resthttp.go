package resthttp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/go-resty/resty/v2"
)

const headerRequestID = "X-Request-Id"

// StatusError a non 2xx reply, Body is kept raw for the caller's logs
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Body)
}

// Client json api client bound to one endpoint
type Client struct {
	endpoint string
	rest     *resty.Client
}

// New client for endpoint, headers go out with every request
func New(endpoint string, headers map[string]string) *Client {
	rest := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	for k, v := range headers {
		rest.SetHeader(k, v)
	}

	return &Client{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		rest:     rest,
	}
}

// Post send body as json to path and decode the reply into out. requestID
// may be empty.
func (c *Client) Post(ctx context.Context, path, requestID string, body, out interface{}) error {
	log := logger.FromContext(ctx).WithField("path", path)

	req := c.rest.R().SetContext(ctx).SetBody(body)
	if requestID != "" {
		req.SetHeader(headerRequestID, requestID)
	}

	r, err := req.Post(c.endpoint + path)
	if err != nil {
		log.WithError(err).Errorln("post")
		return err
	}

	log.Debugln("status", r.Status())
	return decode(r, out)
}

func decode(r *resty.Response, out interface{}) error {
	if !r.IsSuccess() {
		return &StatusError{Status: r.StatusCode(), Body: string(r.Body())}
	}

	if out == nil {
		return nil
	}

	return json.Unmarshal(r.Body(), out)
}
