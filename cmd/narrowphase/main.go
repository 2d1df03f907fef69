// Command narrowphase runs the narrow phase over a scene file and writes one CSV row
// per contact.
//
//	narrowphase -scene scene.yaml [-config narrowphase.yaml] [-out contacts.csv]
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/akmonengine/narrowphase"
	"github.com/akmonengine/narrowphase/config"
	"github.com/gocarina/gocsv"
)

// ContactRecord is one CSV row of the report.
type ContactRecord struct {
	Index   int     `csv:"index"`
	A       string  `csv:"a"`
	B       string  `csv:"b"`
	NormalX float64 `csv:"normal_x"`
	NormalY float64 `csv:"normal_y"`
	NormalZ float64 `csv:"normal_z"`
	PointX  float64 `csv:"point_x"`
	PointY  float64 `csv:"point_y"`
	PointZ  float64 `csv:"point_z"`
	Depth   float64 `csv:"depth"`
}

func main() {
	configPath := flag.String("config", "", "path to config YAML file (embedded defaults when empty)")
	scenePath := flag.String("scene", "", "path to scene YAML file")
	outPath := flag.String("out", "", "CSV report path (stdout when empty)")
	flag.Parse()

	if err := run(*configPath, *scenePath, *outPath); err != nil {
		slog.Error("narrowphase failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, scenePath, outPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if scenePath == "" {
		return fmt.Errorf("missing -scene")
	}
	scene, err := config.LoadScene(scenePath)
	if err != nil {
		return err
	}
	bodies, pairs, err := scene.Build()
	if err != nil {
		return err
	}
	names := scene.PairNames(bodies)

	detector := narrowphase.NewDetector(narrowphase.Options{
		Collide: cfg.Collide(),
		Workers: cfg.Workers,
		Logger:  logger,
	})

	start := time.Now()
	contacts := detector.Detect(pairs)
	logger.Info("narrow phase done",
		"shapes", len(bodies),
		"pairs", len(pairs),
		"contacts", len(contacts),
		"workers", cfg.Workers,
		"elapsed", time.Since(start),
	)

	records := make([]ContactRecord, 0, len(contacts))
	for _, c := range contacts {
		m := c.Manifold
		records = append(records, ContactRecord{
			Index:   c.Index,
			A:       names[c.Index][0],
			B:       names[c.Index][1],
			NormalX: m.Normal.X(),
			NormalY: m.Normal.Y(),
			NormalZ: m.Normal.Z(),
			PointX:  m.Point.X(),
			PointY:  m.Point.Y(),
			PointZ:  m.Point.Z(),
			Depth:   m.Depth,
		})
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating report: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := gocsv.Marshal(records, out); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
