// Package vk is a thin client for the VK messaging platform API.
// Community-scoped calls are authorized with the community's own token;
// profile lookups use the application service key.
package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bonuspoint/lib/sl"
)

type Client struct {
	hc         *http.Client
	baseURL    string
	serviceKey string
	version    string
	log        *slog.Logger
}

type Config struct {
	ServiceKey string
	APIVersion string
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = "5.131"
	}
	return &Client{
		hc:         &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.vk.com/method",
		serviceKey: cfg.ServiceKey,
		version:    version,
		log:        logger.With(sl.Module("vk")),
	}
}

type apiError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

// request posts a form-encoded call to a VK API method and unmarshals
// the "response" envelope into out (when out is non-nil).
func (c *Client) request(ctx context.Context, method, token string, params url.Values, out interface{}) error {
	log := c.log.With(slog.String("method", method))

	var err error
	status := "ERROR"
	t1 := time.Now()
	defer func() {
		t2 := time.Now()
		log.Debug("vk api request completed",
			slog.String("duration", fmt.Sprintf("%.3fms", float64(t2.Sub(t1))/float64(time.Millisecond))),
			slog.String("status", status))
	}()

	params.Set("access_token", token)
	params.Set("v", c.version)

	endpoint := fmt.Sprintf("%s/%s", c.baseURL, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		log.Error("create request", sl.Err(err))
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.hc.Do(req)
	if err != nil {
		log.Error("request failed", sl.Err(err))
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	status = resp.Status
	if resp.StatusCode >= 300 {
		log.Error("vk api returned error",
			slog.String("status", resp.Status),
			slog.String("body", string(body)))
		return fmt.Errorf("vk %s: %s", resp.Status, body)
	}

	var envelope struct {
		Response json.RawMessage `json:"response"`
		Error    *apiError       `json:"error"`
	}
	if err = json.Unmarshal(body, &envelope); err != nil {
		log.Error("unmarshal response", sl.Err(err))
		return err
	}
	if envelope.Error != nil {
		log.Error("vk api error",
			slog.Int("code", envelope.Error.Code),
			slog.String("message", envelope.Error.Message))
		return fmt.Errorf("vk api error %d: %s", envelope.Error.Code, envelope.Error.Message)
	}
	if out != nil {
		if err = json.Unmarshal(envelope.Response, out); err != nil {
			return fmt.Errorf("decode %s response: %w", method, err)
		}
	}
	return nil
}

// SendMessage delivers a text reply to a peer on behalf of a community.
func (c *Client) SendMessage(ctx context.Context, token string, peerID int64, message string) error {
	params := url.Values{}
	params.Set("peer_id", strconv.FormatInt(peerID, 10))
	params.Set("message", message)
	params.Set("random_id", strconv.FormatInt(rand.Int63(), 10))
	return c.request(ctx, "messages.send", token, params, nil)
}

type Profile struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UsersGet resolves profile names for a batch of external ids.
func (c *Client) UsersGet(ctx context.Context, ids []int64) ([]Profile, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	params := url.Values{}
	params.Set("user_ids", strings.Join(parts, ","))

	var profiles []Profile
	if err := c.request(ctx, "users.get", c.serviceKey, params, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// GetCallbackConfirmationCode fetches the code the platform expects the
// webhook to echo back during the handshake.
func (c *Client) GetCallbackConfirmationCode(ctx context.Context, token string, groupID int64) (string, error) {
	params := url.Values{}
	params.Set("group_id", strconv.FormatInt(groupID, 10))

	var out struct {
		Code string `json:"code"`
	}
	if err := c.request(ctx, "groups.getCallbackConfirmationCode", token, params, &out); err != nil {
		return "", err
	}
	return out.Code, nil
}

// AddCallbackServer registers the bridge URL with the community and
// returns the platform-side server id.
func (c *Client) AddCallbackServer(ctx context.Context, token string, groupID int64, serverURL, title, secret string) (int64, error) {
	params := url.Values{}
	params.Set("group_id", strconv.FormatInt(groupID, 10))
	params.Set("url", serverURL)
	params.Set("title", title)
	params.Set("secret_key", secret)

	var out struct {
		ServerID int64 `json:"server_id"`
	}
	if err := c.request(ctx, "groups.addCallbackServer", token, params, &out); err != nil {
		return 0, err
	}
	return out.ServerID, nil
}

// SetCallbackSettings subscribes the registered server to new messages.
func (c *Client) SetCallbackSettings(ctx context.Context, token string, groupID, serverID int64) error {
	params := url.Values{}
	params.Set("group_id", strconv.FormatInt(groupID, 10))
	params.Set("server_id", strconv.FormatInt(serverID, 10))
	params.Set("message_new", "1")
	return c.request(ctx, "groups.setCallbackSettings", token, params, nil)
}
