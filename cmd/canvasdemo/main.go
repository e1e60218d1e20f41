// Command canvasdemo renders a scene file with the canvas drawing session.
//
// By default the scene is recorded and then played back onto a registered
// backend, which exercises the same path a deferred renderer would use.
// With -direct the scene is drawn straight into a raster target.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/internal/scene"
	"github.com/gogpu/canvas/raster"
	"github.com/gogpu/canvas/recording"
	_ "github.com/gogpu/canvas/recording/backends/raster" // register "raster"
)

// demoScene is drawn when no -scene is given.
const demoScene = `
width: 400
height: 300
background: midnightblue
ops:
  - layer:
      opacity: 0.8
      mask: [[200, 20], [380, 280], [20, 280]]
      ops:
        - clear: goldenrod
  - layer:
      brush: "#ffffff80"
      clip: [40, 40, 320, 220]
      ops:
        - ink:
            strokes:
              - {width: 8, color: tomato, points: [[60, 250], [140, 60], [220, 250], [300, 60]]}
              - {width: 3, color: white, points: [[60, 150], [340, 150]]}
`

func main() {
	var (
		scenePath  = flag.String("scene", "", "scene file (.yaml, .yml or .toml); built-in demo if empty")
		configPath = flag.String("config", "", "session config file (.yaml, .yml or .toml)")
		output     = flag.String("output", "demo.png", "output file (.png, .bmp, .tif or .tiff); - writes PNG to stdout")
		backend    = flag.String("backend", "raster", "playback backend")
		direct     = flag.Bool("direct", false, "draw directly into a raster target instead of recording")
		stats      = flag.Bool("stats", false, "print recorded command counts")
		verbose    = flag.Bool("v", false, "log dispatch decisions")
	)
	flag.Parse()

	if *verbose {
		canvas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	s, err := loadScene(*scenePath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	images, err := s.LoadImages()
	if err != nil {
		log.Fatalf("Failed to load images: %v", err)
	}

	cfg := canvas.DefaultConfig()
	if *configPath != "" {
		if cfg, err = canvas.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	var statsOut io.Writer
	if *stats {
		statsOut = os.Stdout
		if *output == "-" {
			statsOut = os.Stderr
		}
	}

	var (
		img image.Image
		out recording.Backend
	)
	if *direct {
		img, err = renderDirect(s, images, cfg)
	} else if out, err = renderRecorded(s, images, cfg, *backend, statsOut); err == nil {
		img = out.Snapshot()
	}
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	if err := save(*output, img, out); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Scene saved to %s (%dx%d)\n", *output, s.Width, s.Height)
}

func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return scene.Parse([]byte(demoScene), ".yaml")
	}
	return scene.Load(path)
}

func renderDirect(s *scene.Scene, images map[string]image.Image, cfg canvas.Config) (image.Image, error) {
	target := raster.NewTarget(s.Width, s.Height, s.Dpi)
	ds, err := target.CreateDrawingSession(canvas.WithConfig(cfg))
	if err != nil {
		return nil, err
	}
	if err := s.Run(ds, images); err != nil {
		ds.Close()
		return nil, err
	}
	if err := ds.Close(); err != nil {
		return nil, err
	}
	return target.Image(), nil
}

// renderRecorded records the scene and plays it back onto the named
// backend. Command counts are written to stats when it is not nil.
func renderRecorded(s *scene.Scene, images map[string]image.Image, cfg canvas.Config, name string, stats io.Writer) (recording.Backend, error) {
	rec := recording.NewRecorder(s.Dpi)
	ds := canvas.NewDrawingSession(rec,
		canvas.WithAdapter(canvas.NewSimpleAdapter(rec)),
		canvas.WithConfig(cfg))
	if err := s.Run(ds, images); err != nil {
		ds.Close()
		return nil, err
	}
	if err := ds.Close(); err != nil {
		return nil, err
	}

	if stats != nil {
		printStats(stats, rec)
	}

	b, err := recording.NewBackend(name, s.Width, s.Height, s.Dpi)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(recording.Backends(), ", "))
	}
	if err := rec.Playback(b); err != nil {
		return nil, err
	}
	return b, nil
}

func printStats(w io.Writer, rec *recording.Recorder) {
	counts := make(map[recording.CommandType]int)
	for _, c := range rec.Commands() {
		counts[c.Type()]++
	}
	types := make([]recording.CommandType, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		fmt.Fprintf(w, "%-30s %d\n", t, counts[t])
	}
}

// save writes img to path, picking the encoder from the extension. PNG
// output is left to the playback backend when it can write it itself.
func save(path string, img image.Image, out recording.Backend) error {
	if path == "-" {
		if wb, ok := out.(recording.WriterBackend); ok {
			_, err := wb.WriteTo(os.Stdout)
			return err
		}
		return png.Encode(os.Stdout, img)
	}

	var encode func(f *os.File) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		if fb, ok := out.(recording.FileBackend); ok {
			return fb.SaveToFile(path)
		}
		encode = func(f *os.File) error { return png.Encode(f, img) }
	case ".bmp":
		encode = func(f *os.File) error { return bmp.Encode(f, img) }
	case ".tif", ".tiff":
		encode = func(f *os.File) error {
			return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return fmt.Errorf("unsupported output format %q", filepath.Ext(path))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
