package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/mcuadros/go-defaults"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/pipeline/types"
)

const Path = "/api/nodes"

// Default is the palette shown when the backend can not be reached.
func Default() []types.NodeTypeData {
	all := types.AllNodeTypes()
	out := make([]types.NodeTypeData, 0, len(all))
	for i, nt := range all {
		out = append(out, types.NodeTypeData{ID: strconv.Itoa(i + 1), Name: nt})
	}
	return out
}

type Options struct {
	// bounds the whole request, including reading the body
	Timeout time.Duration `default:"5s"`
	// waited before serving the fallback catalog
	FallbackDelay time.Duration `default:"1s"`
}

func NewOptions() *Options {
	opts := &Options{}
	defaults.SetDefaults(opts)
	return opts
}

type Client struct {
	baseURL       string
	fallbackDelay time.Duration
	httpClient    *http.Client
}

func NewClient(baseURL string, opts *Options) *Client {
	if opts == nil {
		opts = NewOptions()
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		fallbackDelay: opts.FallbackDelay,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// Fetch never fails: any error is logged and, after the fallback delay,
// answered with Default(). A cancelled ctx cuts the delay short.
func (c *Client) Fetch(ctx context.Context) []types.NodeTypeData {
	nodeTypes, err := c.FetchStrict(ctx)
	if err == nil {
		return nodeTypes
	}
	log.Warnf("fetch node types from %s failed, using fallback: %v", c.baseURL, err)

	if c.fallbackDelay > 0 {
		timer := time.NewTimer(c.fallbackDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
	}
	return Default()
}

func (c *Client) FetchStrict(ctx context.Context) ([]types.NodeTypeData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+Path, nil)
	if err != nil {
		return nil, errors.Trace(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Annotatef(err, "request node types")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Annotatef(err, "read node types")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("node types endpoint returned %d: %s", resp.StatusCode, string(body))
	}
	return decode(body)
}

// decode accepts a bare array or the {code, message, data} envelope.
func decode(body []byte) ([]types.NodeTypeData, error) {
	body = bytes.TrimSpace(body)
	var nodeTypes []types.NodeTypeData
	if bytes.HasPrefix(body, []byte("[")) {
		if err := json.Unmarshal(body, &nodeTypes); err != nil {
			return nil, errors.Annotatef(err, "decode node types")
		}
		return nodeTypes, nil
	}

	envelope := struct {
		Data []types.NodeTypeData `json:"data"`
	}{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Annotatef(err, "decode node types")
	}
	if envelope.Data == nil {
		return nil, errors.NotFoundf("node types in response")
	}
	return envelope.Data, nil
}
