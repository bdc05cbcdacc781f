package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/minhanh2104/snapfeed-cli/internal/api"
	"github.com/minhanh2104/snapfeed-cli/internal/domain"
	"github.com/minhanh2104/snapfeed-cli/internal/notify"
	"github.com/minhanh2104/snapfeed-cli/internal/session"
	"github.com/minhanh2104/snapfeed-cli/pkg/apperrors"
	"github.com/minhanh2104/snapfeed-cli/pkg/config"
	"github.com/minhanh2104/snapfeed-cli/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config   *config.Config
	Logger   logger.Logger
	Session  session.Service
	Notifier notify.Notifier
}

type Impl struct {
	http     *http.Client
	baseURL  string
	session  session.Service
	notifier notify.Notifier
	logger   logger.Logger
}

func New(opts Opts) *Impl {
	return &Impl{
		http:     &http.Client{Timeout: opts.Config.API.Timeout},
		baseURL:  strings.TrimRight(opts.Config.API.BaseURL, "/"),
		session:  opts.Session,
		notifier: opts.Notifier,
		logger:   opts.Logger.WithComponent("APIClient"),
	}
}

var _ api.Client = (*Impl)(nil)

// intercept is the request interceptor: when a session token is present the
// request is marked as authenticated and as expecting JSON.
func (c *Impl) intercept(req *http.Request) {
	token, ok := c.session.Token()
	if !ok {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
}

// doJSON dispatches a request with an optional JSON payload and decodes the
// success body into out when out is non-nil.
func (c *Impl) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return c.setupFailure(err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return c.setupFailure(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

// doMultipart dispatches a multipart form with the post fields and, when
// attached, the single image part.
func (c *Impl) doMultipart(ctx context.Context, method, path string, input domain.PostInput, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       input.Title,
		"description": input.Description,
		"location":    input.Location,
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return c.setupFailure(err)
		}
	}
	if input.Image != nil {
		part, err := mw.CreateFormFile("image", input.Image.FileName)
		if err != nil {
			return c.setupFailure(err)
		}
		if _, err := part.Write(input.Image.Data); err != nil {
			return c.setupFailure(err)
		}
	}
	if err := mw.Close(); err != nil {
		return c.setupFailure(err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return c.setupFailure(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(req, out)
}

func (c *Impl) send(req *http.Request, out any) error {
	c.intercept(req)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("No response received", "method", req.Method, "url", req.URL.String(), "error", err)
		c.notifier.Error("No response received from server")
		return apperrors.Wrap(apperrors.ErrNetworkUnreachable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.classify(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("Undecodable success body", "url", req.URL.String(), "error", err)
		return apperrors.Wrap(apperrors.ErrBadResponse, "failed to decode response body")
	}
	return nil
}

// classify is the response interceptor: it maps the status to the failure
// taxonomy, produces the global notice, applies the 401 session side effect
// and re-signals the classified error to the caller.
func (c *Impl) classify(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)

	status := resp.StatusCode
	var (
		sentinel error
		message  string
	)

	switch {
	case status == http.StatusUnauthorized:
		sentinel = apperrors.ErrAuthExpired
		message = "Unauthorized. Please log in again."
		c.notifier.Error(message)
		if err := c.session.Expire("server returned 401"); err != nil {
			c.logger.Error("Failed to expire session", "error", err)
		}
	case status == http.StatusForbidden:
		sentinel = apperrors.ErrForbidden
		message = "You are not authorized to perform this action."
		c.notifier.Error(message)
	case status == http.StatusNotFound:
		sentinel = apperrors.ErrNotFound
		message = "Requested resource not found."
		c.notifier.Error(message)
	case status >= http.StatusInternalServerError:
		sentinel = apperrors.ErrServerFault
		message = "Server error. Please try again later."
		c.notifier.Error(message)
	default:
		sentinel = apperrors.ErrRequestRejected
		message = body.Message
		if message == "" {
			message = "An error occurred"
		}
		c.notifier.Error(message)
	}

	c.logger.Warn("Request failed", "status", status, "message", message)
	if body.Message != "" {
		message = body.Message
	}
	return apperrors.WrapWithCode(sentinel, strconv.Itoa(status), message)
}

func (c *Impl) setupFailure(err error) error {
	c.logger.Error("Failed to build request", "error", err)
	c.notifier.Error("Error setting up the request")
	return apperrors.Wrap(apperrors.ErrRequestSetup, err.Error())
}
