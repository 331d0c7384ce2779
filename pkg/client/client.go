package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gojek/heimdall/v7"
	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/klothoplatform/stackquery/pkg/api"
	"github.com/klothoplatform/stackquery/pkg/closenicely"
	"github.com/klothoplatform/stackquery/pkg/tiers"
	"github.com/klothoplatform/stackquery/pkg/workspace"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 30 * time.Second
	retryBackoff   = 200 * time.Millisecond
)

type (
	Options struct {
		Timeout    time.Duration
		RetryCount int
	}

	// Client queries a running stack query server.
	Client struct {
		ServerURL string
		HTTP      *httpclient.Client
	}
)

func New(serverURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	httpOpts := []httpclient.Option{
		httpclient.WithHTTPTimeout(opts.Timeout),
		httpclient.WithRetryCount(opts.RetryCount),
	}
	if opts.RetryCount > 0 {
		httpOpts = append(httpOpts, httpclient.WithRetrier(
			heimdall.NewRetrier(heimdall.NewConstantBackoff(retryBackoff, retryBackoff/2)),
		))
	}
	return &Client{
		ServerURL: strings.TrimSuffix(serverURL, "/"),
		HTTP:      httpclient.NewClient(httpOpts...),
	}
}

func (c *Client) ListDemoTiers() ([]workspace.StackSummary, error) {
	return c.getStackList(api.PathListDemoTiers)
}

func (c *Client) ListStacks() ([]workspace.StackSummary, error) {
	return c.getStackList(api.PathListStacks)
}

func (c *Client) StackDetails(name string) (tiers.StackDetails, error) {
	var details tiers.StackDetails
	q := url.Values{api.StackNameParam: []string{name}}
	body, err := c.get(api.PathGetStackDetails + "?" + q.Encode())
	if err != nil {
		return details, err
	}
	if err := json.Unmarshal(body, &details); err != nil {
		return details, fmt.Errorf("failed to decode details of stack %s: %w", name, err)
	}
	return details, nil
}

func (c *Client) getStackList(path string) ([]workspace.StackSummary, error) {
	body, err := c.get(path)
	if err != nil {
		return nil, err
	}
	return api.DecodeStackList(body)
}

func (c *Client) get(path string) ([]byte, error) {
	endpoint := c.ServerURL + path
	zap.S().Named("client").Debugf("GET %s", endpoint)

	res, err := c.HTTP.Get(endpoint, http.Header{"Accept": []string{"application/json"}})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", endpoint, err)
	}
	defer closenicely.DrainAndClose(res.Body)

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to query %s, bad response from server: %d", endpoint, res.StatusCode)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", endpoint, err)
	}
	return body, nil
}
