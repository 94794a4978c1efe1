package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/airbusgeo/emit-ingester/catalog/entities"
	"github.com/airbusgeo/emit-ingester/common"
	"github.com/airbusgeo/emit-ingester/service"
)

var regionExtRegexp = regexp.MustCompile(`\.json$`)

// DiscoverRegions returns the region files of the directory (sorted), or the file itself
func DiscoverRegions(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("DiscoverRegions: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	files, err := filepath.Glob(filepath.Join(path, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("DiscoverRegions.Glob: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// RegionID returns the id of the region stored in path
func RegionID(path string) string {
	return regionExtRegexp.ReplaceAllString(filepath.Base(path), "")
}

// LoadRegion reads a geojson file and computes its bounding box
func LoadRegion(path string) (*entities.Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadRegion: %w", err)
	}
	g, err := service.UnmarshalGeometry(data)
	if err != nil {
		return nil, fmt.Errorf("LoadRegion[%s].%w", path, err)
	}
	ext, err := service.Extent(g)
	if err != nil {
		return nil, fmt.Errorf("LoadRegion[%s].%w", path, err)
	}
	return &entities.Region{
		ID:    RegionID(path),
		Path:  path,
		BBox:  entities.NewBBox(ext),
		State: common.RegionDISCOVERED,
	}, nil
}
