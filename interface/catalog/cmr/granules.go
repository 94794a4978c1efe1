package cmr

// CMR search API https://cmr.earthdata.nasa.gov/search/site/docs/search/api.html

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"time"

	"github.com/airbusgeo/emit-ingester/catalog/entities"
	"github.com/airbusgeo/emit-ingester/service"
	"github.com/airbusgeo/emit-ingester/service/log"
)

const (
	DefaultURL      = "https://cmr.earthdata.nasa.gov"
	DefaultPageSize = 2000

	searchAfterHeader = "CMR-Search-After"
	hitsHeader        = "CMR-Hits"
	dataRelSuffix     = "/data#"
)

// Provider searches granules in the NASA Common Metadata Repository
type Provider struct {
	URL      string
	Client   *http.Client
	PageSize int
}

type hit struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	TimeStart string `json:"time_start"`
	Links     []struct {
		Rel       string `json:"rel"`
		Href      string `json:"href"`
		Inherited bool   `json:"inherited"`
	} `json:"links"`
}

// ConstructQuery returns the query parameters of the granule search
func ConstructQuery(query entities.GranuleQuery, pageSize int) neturl.Values {
	params := neturl.Values{}
	params.Set("short_name", query.ShortName)
	params.Set("bounding_box", query.BBox.String())
	params.Set("temporal", query.StartTime.UTC().Format(time.RFC3339)+","+query.EndTime.UTC().Format(time.RFC3339))
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("sort_key", "start_date")
	return params
}

// SearchGranules implements GranulesProvider
func (p *Provider) SearchGranules(ctx context.Context, query entities.GranuleQuery) (entities.Granules, error) {
	baseURL := p.URL
	if baseURL == "" {
		baseURL = DefaultURL
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	url := strings.TrimSuffix(baseURL, "/") + "/search/granules.json?" + ConstructQuery(query, pageSize).Encode()

	var granules entities.Granules
	searchAfter := ""
	totalHits := "?"
	for page := 1; ; page++ {
		log.Logger(ctx).Sugar().Debugf("[CMR] Search %s page %d (hits: %s)", query.ShortName, page, totalHits)

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("SearchGranules.NewRequest: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if searchAfter != "" {
			req.Header.Set(searchAfterHeader, searchAfter)
		}
		body, header, err := service.GetBody(p.Client, req)
		if err != nil {
			return nil, fmt.Errorf("SearchGranules.%w", err)
		}

		results := struct {
			Feed struct {
				Entry []hit `json:"entry"`
			} `json:"feed"`
		}{}
		if err := json.Unmarshal(body, &results); err != nil {
			return nil, fmt.Errorf("SearchGranules.Unmarshal: %w (response: %s)", err, body)
		}

		for _, h := range results.Feed.Entry {
			g, err := parse(h)
			if err != nil {
				return nil, fmt.Errorf("SearchGranules.%w", err)
			}
			granules = append(granules, g)
		}

		if h := header.Get(hitsHeader); h != "" {
			totalHits = h
		}
		searchAfter = header.Get(searchAfterHeader)
		if searchAfter == "" || len(results.Feed.Entry) < pageSize || strconv.Itoa(len(granules)) == totalHits {
			break
		}
	}
	log.Logger(ctx).Sugar().Debugf("[CMR] %d granules found for %s", len(granules), query.ShortName)
	return granules, nil
}

func parse(h hit) (*entities.Granule, error) {
	g := &entities.Granule{ID: h.ID, Title: h.Title}
	if h.TimeStart != "" {
		date, err := time.Parse(time.RFC3339Nano, h.TimeStart)
		if err != nil {
			return nil, fmt.Errorf("parse[%s].TimeStart: %w", h.ID, err)
		}
		g.StartTime = date
	}
	for _, l := range h.Links {
		if l.Inherited || !strings.HasSuffix(l.Rel, dataRelSuffix) || !strings.HasPrefix(l.Href, "https://") {
			continue
		}
		g.Links = append(g.Links, l.Href)
	}
	return g, nil
}
