// Package mbtiles stores rendered surface previews in an MBTiles (SQLite)
// tileset so that a whole zoom range travels as one file.
package mbtiles

import (
	"fmt"
	"strconv"
	"strings"
)

// Metadata describes a preview tileset.
type Metadata struct {
	Name        string
	Description string
	Format      string // always "png" for previews
	Bounds      [4]float64
	Center      [3]float64 // lon, lat, zoom
	MinZoom     int
	MaxZoom     int
}

// ForBBox fills in bounds, centre and zoom range for a preview of bbox.
func ForBBox(name string, bbox [4]float64, zoomMin, zoomMax int) Metadata {
	return Metadata{
		Name:        name,
		Description: "Planet elevation preview",
		Format:      "png",
		Bounds:      bbox,
		Center: [3]float64{
			(bbox[0] + bbox[2]) / 2,
			(bbox[1] + bbox[3]) / 2,
			float64((zoomMin + zoomMax) / 2),
		},
		MinZoom: zoomMin,
		MaxZoom: zoomMax,
	}
}

// rows returns the metadata table contents. Zoom levels are always written
// since zoom 0 is a valid minimum.
func (m Metadata) rows() map[string]string {
	rows := map[string]string{
		"type":    "overlay",
		"minzoom": strconv.Itoa(m.MinZoom),
		"maxzoom": strconv.Itoa(m.MaxZoom),
		"bounds":  joinFloats(m.Bounds[:]),
		"center":  fmt.Sprintf("%s,%d", joinFloats(m.Center[:2]), int(m.Center[2])),
	}
	if m.Name != "" {
		rows["name"] = m.Name
	}
	if m.Description != "" {
		rows["description"] = m.Description
	}
	if m.Format != "" {
		rows["format"] = m.Format
	}
	return rows
}

func parseMetadata(rows map[string]string) Metadata {
	m := Metadata{
		Name:        rows["name"],
		Description: rows["description"],
		Format:      rows["format"],
	}
	m.MinZoom, _ = strconv.Atoi(rows["minzoom"])
	m.MaxZoom, _ = strconv.Atoi(rows["maxzoom"])

	if v := splitFloats(rows["bounds"]); len(v) == 4 {
		copy(m.Bounds[:], v)
	}
	if v := splitFloats(rows["center"]); len(v) == 3 {
		copy(m.Center[:], v)
	}
	return m
}

func joinFloats(v []float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'f', 6, 64)
	}
	return strings.Join(parts, ",")
}

// splitFloats returns nil if any part fails to parse.
func splitFloats(s string) []float64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil
		}
		out[i] = f
	}
	return out
}
