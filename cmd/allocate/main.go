// Command allocate runs the box allocator over a batch file and prints a report.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eugenenazirov/warehouse-allocator/internal/layout"
	"github.com/eugenenazirov/warehouse-allocator/internal/logging"
	"github.com/eugenenazirov/warehouse-allocator/internal/report"
	"github.com/eugenenazirov/warehouse-allocator/internal/warehouse"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := kingpin.New("allocate", "Allocate a batch of boxes to warehouse rooms")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	batchFile := app.Flag("batch", "Path to a YAML or JSON batch file").Required().String()
	layoutFile := app.Flag("layout", "Path to a room layout; replaces rooms from the batch").String()
	formatName := app.Flag("format", "Report format (json, yaml, xlsx)").Default("json").Enum("json", "yaml", "yml", "xlsx")
	outputFile := app.Flag("output", "Write the report to this file instead of stdout").String()
	logLevel := app.Flag("log-level", "Log level (debug, info, warn, error)").Default("warn").String()

	if _, err := app.Parse(args); err != nil {
		fmt.Fprintf(stderr, "allocate: %v\n", err)
		return 1
	}

	format, err := report.ParseFormat(*formatName)
	if err != nil {
		fmt.Fprintf(stderr, "allocate: %v\n", err)
		return 1
	}

	logger, err := logging.New(*logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "allocate: %v\n", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	rep, err := allocateBatch(*batchFile, *layoutFile, logger)
	if err != nil {
		fmt.Fprintf(stderr, "allocate: %v\n", err)
		return 1
	}

	if err := writeReport(rep, format, *outputFile, stdout); err != nil {
		fmt.Fprintf(stderr, "allocate: %v\n", err)
		return 1
	}
	return 0
}

func allocateBatch(batchPath, layoutPath string, logger *zap.Logger) (report.Report, error) {
	batch, err := layout.ReadBatch(batchPath)
	if err != nil {
		return report.Report{}, err
	}

	roomSpecs := batch.Rooms
	if layoutPath != "" {
		roomSpecs, err = layout.ReadRooms(layoutPath)
		if err != nil {
			return report.Report{}, err
		}
	}
	if len(roomSpecs) == 0 {
		return report.Report{}, fmt.Errorf("%w: add rooms to the batch or pass --layout", warehouse.ErrNoRooms)
	}

	batchID := uuid.NewString()
	rooms := warehouse.BuildRooms(roomSpecs)
	boxes := warehouse.BuildBoxes(batch.Boxes)
	result := warehouse.New(warehouse.WithLogger(logger)).Run(rooms, boxes)

	logger.Info("batch allocated",
		zap.String("batch_id", batchID),
		zap.Int("boxes", len(boxes)),
		zap.Int("accepted", len(result.Placements)),
		zap.Int("rejected", len(result.Rejections)),
	)

	return report.New(batchID, rooms, result), nil
}

func writeReport(rep report.Report, format report.Format, path string, stdout io.Writer) (err error) {
	if path == "" {
		return report.Write(stdout, rep, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	return report.Write(f, rep, format)
}
