package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/geojson"
)

// UnmarshalGeometry decodes a FeatureCollection, a Feature or a bare geometry,
// merging all the geometries into a collection
func UnmarshalGeometry(data []byte) (geom.Collection, error) {
	var doc struct {
		Type     string          `json:"type"`
		Geometry json.RawMessage `json:"geometry"`
		Features []struct {
			Geometry json.RawMessage `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("UnmarshalGeometry: %w", err)
	}

	var raws []json.RawMessage
	switch doc.Type {
	case "FeatureCollection":
		for _, f := range doc.Features {
			raws = append(raws, f.Geometry)
		}
	case "Feature":
		raws = append(raws, doc.Geometry)
	default:
		raws = append(raws, data)
	}

	var c geom.Collection
	for _, raw := range raws {
		if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		var g geojson.Geometry
		if err := g.UnmarshalJSON(raw); err != nil {
			return nil, fmt.Errorf("UnmarshalGeometry: %w", err)
		}
		c = append(c, g.Geometry)
	}
	return c, nil
}

// Extent returns the bounding box of all the vertices of the geometry
func Extent(g geom.Geometry) (*geom.Extent, error) {
	pts, err := appendPoints(nil, g)
	if err != nil {
		return nil, fmt.Errorf("Extent.%w", err)
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("Extent: empty geometry")
	}
	return geom.NewExtent(pts...), nil
}

func appendPoints(pts [][2]float64, g geom.Geometry) ([][2]float64, error) {
	switch g := g.(type) {
	case geom.Pointer:
		pts = append(pts, g.XY())
	case geom.MultiPointer:
		pts = append(pts, g.Points()...)
	case geom.LineStringer:
		pts = append(pts, g.Vertices()...)
	case geom.MultiLineStringer:
		for _, ls := range g.LineStrings() {
			pts = append(pts, ls...)
		}
	case geom.Polygoner:
		for _, ring := range g.LinearRings() {
			pts = append(pts, ring...)
		}
	case geom.MultiPolygoner:
		for _, poly := range g.Polygons() {
			for _, ring := range poly {
				pts = append(pts, ring...)
			}
		}
	case geom.Collectioner:
		var err error
		for _, sub := range g.Geometries() {
			if pts, err = appendPoints(pts, sub); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("appendPoints: unsupported geometry %T", g)
	}
	return pts, nil
}
