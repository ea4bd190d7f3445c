package cmd

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/planetgen/internal/config"
	"github.com/MeKo-Tech/planetgen/internal/mbtiles"
	"github.com/MeKo-Tech/planetgen/internal/preview"
	"github.com/MeKo-Tech/planetgen/internal/shape"
	"github.com/MeKo-Tech/planetgen/internal/tile"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render elevation previews of the planet surface",
	Long: `Render grayscale elevation maps of the configured planet for Web Mercator
tiles. Either a single z/x/y tile or every tile of a bounding box across a zoom range.
Tiles are written as PNG files or collected into one MBTiles file.`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	// Single tile flags
	previewCmd.Flags().IntP("zoom", "z", 0, "Zoom level (for single tile mode)")
	previewCmd.Flags().IntP("x", "x", 0, "X tile coordinate (for single tile mode)")
	previewCmd.Flags().IntP("y", "y", 0, "Y tile coordinate (for single tile mode)")

	// Batch flags
	previewCmd.Flags().String("bbox", "", "Bounding box: minLon,minLat,maxLon,maxLat (e.g., \"-30,-20,30,20\")")
	previewCmd.Flags().Int("zoom-min", 0, "Minimum zoom level for batch rendering")
	previewCmd.Flags().Int("zoom-max", 0, "Maximum zoom level for batch rendering")

	previewCmd.Flags().Int("size", 256, "Preview size in pixels (square)")
	previewCmd.Flags().Float32("blur", 0, "Gaussian blur sigma (0 disables)")

	// Output format flags
	previewCmd.Flags().String("format", "folder", "Output format: folder or mbtiles")
	previewCmd.Flags().String("output-file", "", "Output file path for MBTiles format (e.g., preview.mbtiles)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"preview.zoom", "zoom"},
		{"preview.x", "x"},
		{"preview.y", "y"},
		{"preview.bbox", "bbox"},
		{"preview.zoom_min", "zoom-min"},
		{"preview.zoom_max", "zoom-max"},
		{"preview.size", "size"},
		{"preview.blur", "blur"},
		{"preview.format", "format"},
		{"preview.output_file", "output-file"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, previewCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runPreview(cmd *cobra.Command, args []string) error {
	zoom := viper.GetInt("preview.zoom")
	x := viper.GetInt("preview.x")
	y := viper.GetInt("preview.y")
	bboxStr := viper.GetString("preview.bbox")
	zoomMin := viper.GetInt("preview.zoom_min")
	zoomMax := viper.GetInt("preview.zoom_max")
	size := viper.GetInt("preview.size")
	blur := float32(viper.GetFloat64("preview.blur"))
	format := viper.GetString("preview.format")
	outputFile := viper.GetString("preview.output_file")
	outputDir := viper.GetString("output-dir")

	if logger == nil {
		initLogging()
	}

	if size <= 0 {
		return fmt.Errorf("size must be positive")
	}
	if format != "folder" && format != "mbtiles" {
		return fmt.Errorf("invalid format %q: must be 'folder' or 'mbtiles'", format)
	}
	if format == "mbtiles" && outputFile == "" {
		return fmt.Errorf("--output-file is required when using --format=mbtiles")
	}

	tiles, err := previewTiles(bboxStr, zoom, x, y, zoomMin, zoomMax)
	if err != nil {
		return err
	}

	planet, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	settings, err := planet.ToShape()
	if err != nil {
		return err
	}
	gen, err := shape.New(settings, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting preview rendering",
		"tiles", len(tiles),
		"size", size,
		"format", format,
	)

	var sink tileSink = folderSink{dir: outputDir}
	if format == "mbtiles" {
		zoomLo, zoomHi := zoomRange(tiles)
		meta := mbtiles.ForBBox("planetgen preview", previewBounds(tiles), zoomLo, zoomHi)
		w, err := mbtiles.Create(outputFile, meta)
		if err != nil {
			return fmt.Errorf("failed to create MBTiles writer: %w", err)
		}
		defer w.Close()
		sink = w
	}

	if err := writePreviews(sink, gen, tiles, size, blur, settings.Radius, settings.MaxRadius()); err != nil {
		return err
	}

	if w, ok := sink.(*mbtiles.Writer); ok {
		if err := w.Flush(); err != nil {
			return fmt.Errorf("failed to flush MBTiles: %w", err)
		}
		logger.Info("MBTiles written", "path", outputFile, "tiles", w.Written())
	}

	logger.Info("Preview rendering complete", "tiles", len(tiles))
	return nil
}

func writePreviews(sink tileSink, gen preview.Elevator, tiles []tile.Coords, size int, blur float32, minRadius, maxRadius float64) error {
	for _, c := range tiles {
		img := renderTile(gen, c, size, minRadius, maxRadius)
		img = preview.GaussianBlur(img, blur)

		if err := sink.WriteImage(c, img); err != nil {
			return fmt.Errorf("failed to write preview %s: %w", c.String(), err)
		}
		if logger != nil {
			logger.Debug("Preview written", "coords", c.String())
		}
	}
	return nil
}

// tileSink receives rendered preview tiles.
type tileSink interface {
	WriteImage(c tile.Coords, img image.Image) error
}

// folderSink writes one PNG per tile, named z{z}_x{x}_y{y}.png.
type folderSink struct {
	dir string
}

func (f folderSink) WriteImage(c tile.Coords, img image.Image) error {
	return preview.WritePNG(filepath.Join(f.dir, c.Path("png")), img)
}

// previewBounds returns the lon/lat box covering every tile.
func previewBounds(tiles []tile.Coords) [4]float64 {
	var b [4]float64
	for i, c := range tiles {
		tb := c.Bounds()
		if i == 0 {
			b = tb
			continue
		}
		b[0] = math.Min(b[0], tb[0])
		b[1] = math.Min(b[1], tb[1])
		b[2] = math.Max(b[2], tb[2])
		b[3] = math.Max(b[3], tb[3])
	}
	return b
}

func zoomRange(tiles []tile.Coords) (int, int) {
	if len(tiles) == 0 {
		return 0, 0
	}
	lo, hi := int(tiles[0].Z), int(tiles[0].Z)
	for _, c := range tiles[1:] {
		lo = min(lo, int(c.Z))
		hi = max(hi, int(c.Z))
	}
	return lo, hi
}

// previewTiles resolves either the bbox across a zoom range or a single tile.
func previewTiles(bboxStr string, zoom, x, y, zoomMin, zoomMax int) ([]tile.Coords, error) {
	if bboxStr == "" {
		if zoom < 0 || x < 0 || y < 0 {
			return nil, fmt.Errorf("invalid coordinates: zoom/x/y must be non-negative")
		}
		c := tile.NewCoords(uint32(zoom), uint32(x), uint32(y))
		if !c.Valid() {
			return nil, fmt.Errorf("tile %s is outside zoom level %d", c.String(), zoom)
		}
		return []tile.Coords{c}, nil
	}

	bbox, err := parseBBox(bboxStr)
	if err != nil {
		return nil, fmt.Errorf("invalid bbox: %w", err)
	}
	if zoomMin < 0 || zoomMax < zoomMin {
		return nil, fmt.Errorf("--zoom-min (%d) must be >= 0 and <= --zoom-max (%d)", zoomMin, zoomMax)
	}

	return tile.TilesInBBox(bbox, zoomMin, zoomMax), nil
}

// renderTile samples the planet's elevation over the tile, scaled so that
// the base radius is black and the highest possible peak is white.
func renderTile(gen preview.Elevator, c tile.Coords, size int, minRadius, maxRadius float64) *image.Gray {
	grid := c.SphereGrid(size)
	return preview.ToGray(preview.ElevationMap(gen, grid, minRadius, maxRadius))
}

// parseBBox parses a bounding box string "minLon,minLat,maxLon,maxLat" into [4]float64.
func parseBBox(s string) ([4]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return [4]float64{}, fmt.Errorf("expected 4 comma-separated values, got %d", len(parts))
	}

	var bbox [4]float64
	for i, part := range parts {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return [4]float64{}, fmt.Errorf("invalid number at position %d: %w", i, err)
		}
		bbox[i] = val
	}

	// Validate
	if bbox[0] >= bbox[2] {
		return [4]float64{}, fmt.Errorf("minLon (%.4f) must be < maxLon (%.4f)", bbox[0], bbox[2])
	}
	if bbox[1] >= bbox[3] {
		return [4]float64{}, fmt.Errorf("minLat (%.4f) must be < maxLat (%.4f)", bbox[1], bbox[3])
	}

	return bbox, nil
}
