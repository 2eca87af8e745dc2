package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/gmbcrawl/internal/config"
	"github.com/yourorg/gmbcrawl/internal/models"
)

func TestOpenMemoryAndCrawl(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		const env = `{"type":"x","version":"1.0","generated_timestamp":"2024-03-01T12:00:00+08:00","data":%s}`
		switch r.URL.Path {
		case "/route":
			fmt.Fprintf(w, env, `{"routes":{"HKI":[],"KLN":["2"],"NT":[]}}`)
		case "/route/KLN/2":
			fmt.Fprintf(w, env, `[{"route_id":7,"directions":[{"route_seq":1}]}]`)
		case "/route-stop/7/1":
			fmt.Fprintf(w, env, `{"route_stops":[{"stop_seq":1,"stop_id":99}]}`)
		case "/stop/99":
			fmt.Fprintf(w, env, `{"coordinates":{"wgs84":{"latitude":22.33,"longitude":114.17}},"enabled":true}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cfg := &config.Config{
		Source: config.Source{BaseURL: srv.URL, Timeout: 5 * time.Second, FanOutLimit: 4},
		Store:  config.Store{Driver: "memory"},
	}
	rt, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer rt.Close()
	assert.Nil(t, rt.DB)

	summary, err := rt.Crawler.Run(context.Background(), models.TriggerCLI)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Stops)

	n, err := rt.Store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	last, err := rt.Runs.Last(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, models.RunStatusCompleted, last.Status)
}
