// Package charts loads the weekly Billboard chart snapshots.
package charts

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/tessro/lilt/internal/core"
	lilterrors "github.com/tessro/lilt/internal/errors"
	"github.com/tessro/lilt/internal/feed"
)

// chartResponse is the wire shape of one chart document.
type chartResponse struct {
	Date string           `json:"date"`
	Data []core.ChartItem `json:"data"`
}

// Repository fetches chart feeds. Results are not cached.
type Repository struct {
	client  *feed.Client
	baseURL string
}

// NewRepository creates a chart repository rooted at baseURL.
func NewRepository(client *feed.Client, baseURL string) *Repository {
	return &Repository{client: client, baseURL: baseURL}
}

// URL returns the document location for kind.
func (r *Repository) URL(kind core.ChartKind) (string, error) {
	return url.JoinPath(r.baseURL, string(kind), "recent.json")
}

// Load fetches one chart and returns any failure.
func (r *Repository) Load(ctx context.Context, kind core.ChartKind) (core.Chart, error) {
	chart := core.Chart{Kind: kind, Items: []core.ChartItem{}}

	u, err := r.URL(kind)
	if err != nil {
		return chart, fmt.Errorf("invalid chart url: %w", err)
	}

	var resp chartResponse
	if err := r.client.GetJSON(ctx, u, &resp); err != nil {
		return chart, fmt.Errorf("%s: %w", kind.Title(), err)
	}

	chart.Date = resp.Date
	if resp.Data != nil {
		chart.Items = resp.Data
	}
	return chart, nil
}

// FetchChart returns one chart. Failures are logged and yield an empty list.
func (r *Repository) FetchChart(ctx context.Context, kind core.ChartKind) core.Chart {
	chart, err := r.Load(ctx, kind)
	if err != nil {
		slog.Warn("failed to load chart", "chart", kind, "error", err)
	}
	return chart
}

// FetchAll fetches every chart concurrently. One failing feed never affects
// the others; its error is recorded in the result and its list is empty.
// The only error returned is ctx.Err().
func (r *Repository) FetchAll(ctx context.Context) (*lilterrors.PartialResult[[]core.Chart], error) {
	charts := make([]core.Chart, len(core.ChartKinds))
	errs := make([]error, len(core.ChartKinds))

	var wg sync.WaitGroup
	for i, kind := range core.ChartKinds {
		wg.Add(1)
		go func(i int, kind core.ChartKind) {
			defer wg.Done()
			charts[i], errs[i] = r.Load(ctx, kind)
			if errs[i] != nil {
				slog.Warn("failed to load chart", "chart", kind, "error", errs[i])
			}
		}(i, kind)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &lilterrors.PartialResult[[]core.Chart]{Data: charts}
	for _, err := range errs {
		result.AddError(err)
	}
	return result, nil
}
