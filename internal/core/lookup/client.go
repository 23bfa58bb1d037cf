package lookup

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"menu-planner/internal/core/plan"
	"menu-planner/internal/infrastructure/config"
	"menu-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client talks to the recipe lookup service over HTTP. It implements the
// assignment engine's Source contract: short or empty result lists are a
// normal outcome, transport failures and non-2xx responses raise.
type Client struct {
	client *resty.Client
}

// NewClient creates a lookup client.
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.Lookup.BaseURL).
		SetTimeout(cfg.Lookup.Timeout).
		SetRetryCount(cfg.Lookup.Retries).
		SetHeader("Accept", "application/json")

	return &Client{client: client}
}

// FetchRandom requests up to count random recipes of the category, excluding
// the given ids.
func (c *Client) FetchRandom(ctx context.Context, count int, category string, excludeIDs []string) ([]plan.Recipe, error) {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("count", strconv.Itoa(count)).
		SetQueryParam("category", category)
	if len(excludeIDs) > 0 {
		req.SetQueryParam("exclude", strings.Join(excludeIDs, ","))
	}

	resp, err := req.Get("/recipes/random")
	if err != nil {
		return nil, common.NewError(common.ErrCodeLookupUnavailable, "failed to reach recipe lookup service", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, common.NewError(common.ErrCodeLookupUnavailable, "recipe lookup service error",
			fmt.Errorf("lookup returned status %d", resp.StatusCode()))
	}

	var recipes []plan.Recipe
	if err := common.ParseJSONBytes(resp.Body(), &recipes); err != nil {
		return nil, common.NewError(common.ErrCodeLookupUnavailable, "malformed lookup response", err)
	}

	// The service contract allows at most count results; trim any excess.
	if len(recipes) > count {
		recipes = recipes[:count]
	}

	common.LogDebug("fetched random recipes",
		zap.String("category", category),
		zap.Int("requested", count),
		zap.Int("returned", len(recipes)),
		zap.Int("excluded", len(excludeIDs)),
	)
	return recipes, nil
}
