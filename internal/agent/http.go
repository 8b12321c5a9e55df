package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrAuthExpired indicates the agent rejected our credentials or session.
// The exchange loop classifies this into the long backoff path.
var ErrAuthExpired = errors.New("agent session authentication expired")

const maxResponseBytes = 1 << 20

// Options configures the HTTP agent client.
type Options struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// HTTPClient talks to a KERIA-style identity agent over REST.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(opts Options) *HTTPClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(opts.Endpoint, "/"),
		token:   opts.Token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) ListNotifications(ctx context.Context) ([]Notification, error) {
	var notes []Notification
	if err := c.do(ctx, http.MethodGet, "/agent/notifications", nil, &notes); err != nil {
		return nil, errors.Wrap(err, "failed to list notifications")
	}
	return notes, nil
}

func (c *HTTPClient) GetExchange(ctx context.Context, said string) (*ExchangeMessage, error) {
	var exn ExchangeMessage
	if err := c.do(ctx, http.MethodGet, "/agent/exchanges/"+url.PathEscape(said), nil, &exn); err != nil {
		return nil, errors.Wrapf(err, "failed to get exchange %s", said)
	}
	return &exn, nil
}

func (c *HTTPClient) Agree(ctx context.Context, params AgreeParams) (*AgreeReply, error) {
	var reply AgreeReply
	path := "/agent/identifiers/" + url.PathEscape(params.SenderName) + "/ipex/agree"
	if err := c.do(ctx, http.MethodPost, path, params, &reply); err != nil {
		return nil, errors.Wrapf(err, "failed to build agree for offer %s", params.OfferSaid)
	}
	return &reply, nil
}

func (c *HTTPClient) SubmitAgree(ctx context.Context, senderName string, reply *AgreeReply, recipients []string) error {
	body := struct {
		Message    json.RawMessage `json:"exn"`
		Signatures []string        `json:"sigs"`
		Recipients []string        `json:"recipients"`
	}{
		Message:    reply.Message,
		Signatures: reply.Signatures,
		Recipients: recipients,
	}

	path := "/agent/identifiers/" + url.PathEscape(senderName) + "/ipex/agree/submit"
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return errors.Wrap(err, "failed to submit agree")
	}
	return nil
}

func (c *HTTPClient) DeleteNotification(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/agent/notifications/"+url.PathEscape(id), nil, nil); err != nil {
		return errors.Wrapf(err, "failed to delete notification %s", id)
	}
	return nil
}

func (c *HTTPClient) GetKeyState(ctx context.Context, aid string) (*KeyState, error) {
	var state KeyState
	if err := c.do(ctx, http.MethodGet, "/agent/keystates/"+url.PathEscape(aid), nil, &state); err != nil {
		return nil, errors.Wrapf(err, "failed to get key state for %s", aid)
	}
	return &state, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.Wrapf(ErrAuthExpired, "%s %s returned status %d", method, path, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("body", truncate(data)).
			Msg("Agent request failed")
		return fmt.Errorf("%s %s returned status %d", method, path, resp.StatusCode)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "failed to decode agent response")
	}
	return nil
}

func truncate(data []byte) string {
	const limit = 256
	if len(data) > limit {
		return string(data[:limit]) + "..."
	}
	return string(data)
}
