package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/vrr"
)

var (
	flagRadius  int
	flagWorkers int
	flagTimeout time.Duration
)

var browseCmd = &cobra.Command{
	Use:   "browse <dir>",
	Short: "Decode and cache every image in a directory",
	Long: strings.TrimSpace(`
Scans a directory for images, loads the thumbnail strip, then walks the
catalog decoding each image at native resolution, reporting cache
residency as it goes. Useful for warming caches and for smoke-testing
the decode pipeline without a window.
	`),
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().IntVarP(&flagRadius, "radius", "r", 0, "preload radius (0 uses the config value)")
	browseCmd.Flags().IntVarP(&flagWorkers, "workers", "w", 0, "decode workers (0 uses the config value)")
	browseCmd.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "per-image wait limit")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagRadius > 0 {
		cfg.PreloadRadius = flagRadius
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}

	paths, err := scanImages(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no images under %s", args[0])
	}

	catalog := vrr.NewCatalogFromPaths(paths)
	decoder := vrr.NewDecoderWithBounds(cfg.ThumbnailSize, cfg.FullHDWidth, cfg.FullHDHeight)
	scheduler := vrr.NewSchedulerFromConfig(decoder.Decode, cfg)
	viewer := vrr.NewViewer(catalog, scheduler, vrr.NewBufferMaterializer(), cfg.PreloadRadius)
	defer viewer.Close()

	viewer.LoadAllThumbnails()
	if err := viewer.Set(0); err != nil {
		return err
	}
	viewer.Preload()

	for i := 0; i < catalog.Len(); i++ {
		if err := waitForCurrent(viewer); err != nil {
			return err
		}
		layer := viewer.Best()
		ref, _ := catalog.Current()
		fmt.Printf("%4d/%d  %-10s  %4dx%-4d  %s\n",
			catalog.Index()+1, catalog.Len(),
			layer.Resolution, layer.Texture.Width(), layer.Texture.Height(),
			ref.Path)
		if i < catalog.Len()-1 {
			if err := viewer.Next(); err != nil {
				return err
			}
		}
	}

	fmt.Printf("cached %d layers, %d tracked requests, %d fps\n",
		viewer.Layers().Len(), len(viewer.Scheduler().Snapshot()), viewer.FPS())
	return nil
}

// waitForCurrent pumps the viewer until the image under the cursor is
// resident at native resolution or the timeout expires. A thumbnail
// may be resident already; the walk is about warming the full decode.
func waitForCurrent(v *vrr.Viewer) error {
	deadline := time.Now().Add(flagTimeout)
	for {
		v.Process()
		if l := v.Best(); l != nil && l.Resolution == vrr.ResolutionNative {
			return nil
		}
		if time.Now().After(deadline) {
			ref, _ := v.Catalog().Current()
			return fmt.Errorf("timed out waiting for %s", ref.Path)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// scanImages returns the image files directly under dir, sorted by
// name. Unsupported files are skipped.
func scanImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png", ".gif", ".tif", ".tiff", ".bmp":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
