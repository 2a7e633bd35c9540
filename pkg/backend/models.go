package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"sync"
)

// Model is one entry from the backend's model listing. Fields the gateway
// does not interpret are carried through untouched; enrichment adds a
// "details" key from the show call.
type Model map[string]any

// Name returns the model's name field, or the empty string when absent.
func (m Model) Name() string {
	name, _ := m["name"].(string)
	return name
}

type tagsResponse struct {
	Models []Model `json:"models"`
}

// ListModels lists the active backend's models and enriches each entry
// with the detail payload from a per-model show call, sorted by name.
//
// A failed show call leaves that model with its original fields only; one
// model's detail failure never fails the listing.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var tags tagsResponse
	if err := c.DoJSON(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return nil, err
	}

	models := tags.Models
	if models == nil {
		models = []Model{}
	}

	for _, m := range models {
		name := m.Name()
		if name == "" {
			continue
		}

		var details map[string]any
		if err := c.DoJSON(ctx, http.MethodPost, "/api/show", map[string]string{"model": name}, &details); err != nil {
			c.logger.Warn("model detail lookup failed",
				"model", name,
				"error", err,
			)
			continue
		}
		m["details"] = details
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].Name() < models[j].Name()
	})

	return models, nil
}

// ListRunning returns the backend's running-model listing verbatim.
func (c *Client) ListRunning(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/api/ps", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Method: http.MethodGet, Path: "/api/ps", Cause: err}
	}
	return body, nil
}

// DeleteModels removes the named models from the active backend. Each
// deletion is issued concurrently and independently; the returned slice
// names the models whose deletion failed, in input order. Deletions that
// succeeded are not rolled back when siblings fail.
func (c *Client) DeleteModels(ctx context.Context, names []string) []string {
	failures := make([]bool, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			err := c.DoJSON(ctx, http.MethodDelete, "/api/delete", map[string]string{"model": name}, nil)
			if err != nil {
				c.logger.Error("model deletion failed",
					"model", name,
					"error", err,
				)
				failures[i] = true
			}
		}(i, name)
	}
	wg.Wait()

	var failed []string
	for i, name := range names {
		if failures[i] {
			failed = append(failed, name)
		}
	}
	return failed
}
