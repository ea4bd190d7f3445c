package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/planetgen/internal/config"
	"github.com/MeKo-Tech/planetgen/internal/icosphere"
	"github.com/MeKo-Tech/planetgen/internal/preview"
	"github.com/MeKo-Tech/planetgen/internal/shape"
	"github.com/MeKo-Tech/planetgen/internal/worker"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the planet mesh",
	Long: `Build all twenty icosphere patches of the configured planet in parallel and
report mesh statistics. Optionally render a shaded view of the mesh to a PNG.`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntP("subdivisions", "n", 32, "Extra vertices inserted along each patch edge")
	generateCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	generateCmd.Flags().Bool("progress", true, "Show progress bar during generation")
	generateCmd.Flags().String("mesh-png", "", "Render a shaded view of the mesh to this file (relative to --output-dir)")
	generateCmd.Flags().Int("mesh-size", 512, "Size in pixels of the rendered mesh view")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"generate.subdivisions", "subdivisions"},
		{"generate.workers", "workers"},
		{"generate.progress", "progress"},
		{"generate.mesh_png", "mesh-png"},
		{"generate.mesh_size", "mesh-size"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, generateCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	subdivisions := viper.GetInt("generate.subdivisions")
	workers := viper.GetInt("generate.workers")
	showProgress := viper.GetBool("generate.progress")
	meshPNG := viper.GetString("generate.mesh_png")
	meshSize := viper.GetInt("generate.mesh_size")
	outputDir := viper.GetString("output-dir")

	if logger == nil {
		initLogging()
	}

	if meshPNG != "" && meshSize <= 0 {
		return fmt.Errorf("mesh-size must be positive")
	}

	planet, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	settings, err := planet.ToShape()
	if err != nil {
		return err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info("Starting planet generation",
		"radius", settings.Radius,
		"layers", len(settings.Layers),
		"subdivisions", subdivisions,
		"workers", workers,
	)

	patches, progress, err := buildPlanet(ctx, settings, subdivisions, workers, showProgress)
	if err != nil {
		return err
	}

	minR, maxR := meshBounds(patches)
	vertices, triangles := progress.Totals()
	logger.Info(progress.Summary())
	logger.Info("Planet generated",
		"patches", len(patches),
		"vertices", vertices,
		"triangles", triangles,
		"min_radius", minR,
		"max_radius", maxR,
	)

	if meshPNG != "" {
		path := filepath.Join(outputDir, meshPNG)
		img := preview.RenderMesh(patches, meshSize, settings.MaxRadius()*1.05)
		if err := preview.WritePNG(path, img); err != nil {
			return err
		}
		logger.Info("Mesh view written", "path", path, "size", meshSize)
	}

	return nil
}

// buildPlanet generates every patch of the planet described by s.
func buildPlanet(ctx context.Context, s shape.Settings, subdivisions, workers int, showProgress bool) ([]*icosphere.Patch, *worker.Progress, error) {
	gen, err := shape.New(s, logger)
	if err != nil {
		return nil, nil, err
	}

	builder, err := icosphere.NewBuilder(subdivisions, gen, logger)
	if err != nil {
		return nil, nil, err
	}

	progress := worker.NewProgress(icosphere.FaceCount, showProgress)
	pool := worker.New(worker.Config{
		Workers:    workers,
		Builder:    builder,
		OnProgress: progress.Callback(),
	})

	patches, err := pool.Generate(ctx)
	progress.Done()
	if err != nil {
		return nil, progress, err
	}

	for _, p := range patches {
		progress.Record(p)
	}

	return patches, progress, nil
}

// meshBounds returns the smallest and largest vertex radius over all patches.
func meshBounds(patches []*icosphere.Patch) (float64, float64) {
	if len(patches) == 0 {
		return 0, 0
	}

	minR, maxR := math.Inf(1), math.Inf(-1)
	for _, p := range patches {
		lo, hi := p.Bounds()
		minR = math.Min(minR, lo)
		maxR = math.Max(maxR, hi)
	}
	return minR, maxR
}
