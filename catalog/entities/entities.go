package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/airbusgeo/emit-ingester/common"
	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkt"
)

// BBox is a bounding box in longitude/latitude
type BBox struct {
	MinX float64 `json:"min_lon"`
	MinY float64 `json:"min_lat"`
	MaxX float64 `json:"max_lon"`
	MaxY float64 `json:"max_lat"`
}

// NewBBox creates a bbox from an extent
func NewBBox(ext *geom.Extent) BBox {
	return BBox{MinX: ext.MinX(), MinY: ext.MinY(), MaxX: ext.MaxX(), MaxY: ext.MaxY()}
}

// String returns the bbox as "minlon,minlat,maxlon,maxlat"
func (b BBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// WKT returns the bbox as a WKT polygon
func (b BBox) WKT() string {
	return wkt.MustEncode(geom.Polygon{{{b.MinX, b.MinY}, {b.MaxX, b.MinY}, {b.MaxX, b.MaxY}, {b.MinX, b.MaxY}}})
}

// Region is an area of interest, loaded from a geojson file
type Region struct {
	ID    string             `json:"id"` // Name of the file without .json
	Path  string             `json:"path"`
	BBox  BBox               `json:"bbox"`
	State common.RegionState `json:"state"`
}

// Granule is one timestamped unit of data returned by the catalog
type Granule struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"start_time"`
	Links     []string  `json:"links"` // Download links, in catalog order
}

type Granules []*Granule

// GranuleQuery is the input of a catalog search
type GranuleQuery struct {
	ShortName string
	BBox      BBox
	StartTime time.Time
	EndTime   time.Time
}

// LinkRule selects the links of a product that are worth downloading
type LinkRule struct {
	Include []string // The link must contain all of them
	Exclude []string // The link must contain none of them
}

var (
	// L2ARFLRule keeps the reflectance file, not its uncertainty or mask companions
	L2ARFLRule = LinkRule{Include: []string{"EMIT_L2A_RFL_"}, Exclude: []string{"_RFLUNCERT", "_MASK"}}
	// L2BCH4PLMRule keeps all the links
	L2BCH4PLMRule = LinkRule{}
)

// Match returns true if the link satisfies the rule
func (r LinkRule) Match(link string) bool {
	for _, s := range r.Include {
		if !strings.Contains(link, s) {
			return false
		}
	}
	for _, s := range r.Exclude {
		if strings.Contains(link, s) {
			return false
		}
	}
	return true
}

// Filter returns the links satisfying the rule, in the same order
func (r LinkRule) Filter(links []string) []string {
	var res []string
	for _, l := range links {
		if r.Match(l) {
			res = append(res, l)
		}
	}
	return res
}

// MatchedPair is a pair of links sharing the same acquisition timestamp
type MatchedPair struct {
	RegionID  string `json:"region_id"`
	URLA      string `json:"url_a"`
	URLB      string `json:"url_b"`
	Timestamp string `json:"timestamp"`
	// Acquisition time of the pair, zero if Timestamp is not a valid date
	AcquisitionTime time.Time `json:"acquisition_time"`
}

// DownloadTask is a list of urls to be downloaded in Dir
type DownloadTask struct {
	RegionID string         `json:"region_id"`
	Product  common.Product `json:"product"`
	URLs     []string       `json:"urls"`
	Dir      string         `json:"dir"`
}
