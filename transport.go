package rollbar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const accessTokenHeader = "X-Rollbar-Access-Token"

// Sender delivers encoded payloads to the collector. Delivery outcomes are
// data, never errors: a failed attempt surfaces as a zero-status Response
// and a collector rejection as a Response with the API's status.
type Sender interface {
	// Send delivers a single encoded payload.
	Send(ctx context.Context, p EncodedPayload, accessToken string) Response

	// SendBatch delivers a queue's worth of payloads as one request,
	// preserving their order.
	SendBatch(ctx context.Context, batch []EncodedPayload, accessToken string) Response

	// Wait blocks until outstanding deliveries complete, for graceful
	// shutdown. Cancellation comes from ctx.
	Wait(ctx context.Context) error
}

// httpSender posts payloads to the collector endpoint. Network failures are
// retried with capped exponential backoff; collector statuses, including
// errors, are returned as-is without retrying.
type httpSender struct {
	client   *http.Client
	endpoint string
	maxTries uint
}

func newHTTPSender(endpoint string, timeout time.Duration, retries int) *httpSender {
	if retries < 1 {
		retries = 1
	}
	return &httpSender{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		maxTries: uint(retries),
	}
}

func (s *httpSender) Send(ctx context.Context, p EncodedPayload, accessToken string) Response {
	return s.post(ctx, p, accessToken)
}

func (s *httpSender) SendBatch(ctx context.Context, batch []EncodedPayload, accessToken string) Response {
	combined, err := encodeBatch(batch)
	if err != nil {
		return Response{Info: fmt.Sprintf("batch not sent: %v", err)}
	}
	return s.post(ctx, combined, accessToken)
}

// Wait is immediate: this transport delivers synchronously, so nothing is
// outstanding once Send returns.
func (s *httpSender) Wait(ctx context.Context) error {
	return ctx.Err()
}

func (s *httpSender) post(ctx context.Context, p EncodedPayload, accessToken string) Response {
	operation := func() (Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(p.Bytes()))
		if err != nil {
			return Response{}, backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", contentType(p.Format))
		req.Header.Set(accessTokenHeader, accessToken)

		res, err := s.client.Do(req)
		if err != nil {
			return Response{}, err
		}
		defer res.Body.Close()

		return decodeResponse(res), nil
	}

	resp, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(s.maxTries),
	)
	if err != nil {
		return Response{Info: fmt.Sprintf("not delivered: %v", err)}
	}
	return resp
}

func contentType(format string) string {
	if format == FormatMsgpack {
		return "application/msgpack"
	}
	return "application/json"
}

// decodeResponse converts an HTTP response into the Response model. The
// collector's JSON body, when present, is decoded and its message field
// used as the info string.
func decodeResponse(res *http.Response) Response {
	resp := Response{
		Status: res.StatusCode,
		Info:   http.StatusText(res.StatusCode),
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil || len(data) == 0 {
		return resp
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return resp
	}
	resp.Body = body
	if msg, ok := body["message"].(string); ok && msg != "" {
		resp.Info = msg
	}
	return resp
}
