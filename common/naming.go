package common

import (
	"fmt"
	neturl "net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

// Product is an EMIT data product searched in the catalog
type Product struct {
	ShortName string // Catalog collection short name
	Dir       string // Name of the local directory of the product
}

var (
	ProductL2ARFL    = Product{ShortName: "EMITL2ARFL", Dir: "l2a"}    // EMIT_L2A_RFL_001_20230805T060818_2321704_002.nc
	ProductL2BCH4PLM = Product{ShortName: "EMITL2BCH4PLM", Dir: "l2b"} // EMIT_L2B_CH4PLM_001_20230805T060818_000109.tif
)

// TimestampLayout is the layout of the acquisition timestamp embedded in EMIT file names
const TimestampLayout = "20060102T150405"

var timestampRegexp = regexp.MustCompile(`\d{8}T\d{6}`)

// GetTimestamp returns the first acquisition timestamp token (YYYYMMDDTHHMMSS) found in s
func GetTimestamp(s string) (string, bool) {
	ts := timestampRegexp.FindString(s)
	return ts, ts != ""
}

// GetTimestamps returns all the acquisition timestamp tokens found in s
func GetTimestamps(s string) []string {
	return timestampRegexp.FindAllString(s, -1)
}

// ParseTimestamp parses a timestamp token
func ParseTimestamp(ts string) (time.Time, error) {
	return time.Parse(TimestampLayout, ts)
}

// URLBasename returns the last element of the path of the url, without the query.
// It returns an empty string if the path does not end with a file name.
func URLBasename(rawURL string) string {
	u, err := neturl.Parse(rawURL)
	if err != nil || u.Path == "" || strings.HasSuffix(u.Path, "/") {
		return ""
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." || base == ".." {
		return ""
	}
	return base
}

// DestinationName returns the name of the local file of url, downloaded for the region
func DestinationName(regionID, url string) (string, error) {
	base := URLBasename(url)
	if base == "" {
		return "", fmt.Errorf("DestinationName: no file name in url %s", url)
	}
	return regionID + "_" + base, nil
}
