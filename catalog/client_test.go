package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warriorguo/pipeline/types"
)

func fastOptions() *Options {
	opts := NewOptions()
	opts.Timeout = 200 * time.Millisecond
	opts.FallbackDelay = 0
	return opts
}

func TestDefault(t *testing.T) {
	assert.Equal(t, []types.NodeTypeData{
		{ID: "1", Name: types.DataSource},
		{ID: "2", Name: types.Transformer},
		{ID: "3", Name: types.Model},
		{ID: "4", Name: types.Sink},
	}, Default())
}

func TestNewOptions(t *testing.T) {
	opts := NewOptions()
	assert.Equal(t, 5*time.Second, opts.Timeout)
	assert.Equal(t, time.Second, opts.FallbackDelay)
}

func TestFetchBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, Path, r.URL.Path)
		w.Write([]byte(`[{"id":"7","name":"Model"}]`))
	}))
	defer srv.Close()

	got := NewClient(srv.URL+"/", fastOptions()).Fetch(context.Background())
	assert.Equal(t, []types.NodeTypeData{{ID: "7", Name: types.Model}}, got)
}

func TestFetchEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"message":"success","data":[{"id":"1","name":"Sink"}]}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, fastOptions()).FetchStrict(context.Background())
	require.Nil(t, err)
	assert.Equal(t, []types.NodeTypeData{{ID: "1", Name: types.Sink}}, got)
}

func TestFetchFallback(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non 2xx": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"bad body": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		},
		"timeout": func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			c := NewClient(srv.URL, fastOptions())
			_, err := c.FetchStrict(context.Background())
			assert.NotNil(t, err)
			assert.Equal(t, Default(), c.Fetch(context.Background()))
		})
	}
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	assert.Equal(t, Default(), NewClient(url, fastOptions()).Fetch(context.Background()))
}

func TestFallbackDelayHonoursContext(t *testing.T) {
	opts := fastOptions()
	opts.FallbackDelay = time.Minute
	c := NewClient("http://127.0.0.1:1", opts)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	assert.Equal(t, Default(), c.Fetch(ctx))
	assert.Less(t, time.Since(start), 10*time.Second)
}
