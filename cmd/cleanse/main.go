// Command cleanse runs the cleaning pipeline once over a survey file
// and writes the report and exports to an output directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"surveyclean/internal/config"
	"surveyclean/internal/dataprocessing"
	"surveyclean/internal/infrastructure"
	"surveyclean/internal/operations"
	"surveyclean/internal/reporting"
	"surveyclean/pkg/contracts/domain"
)

func main() {
	inFile := flag.String("in", "", "input survey file (.csv, .xlsx or .xls)")
	outDir := flag.String("out", "reports", "output directory for the report and exports")
	imputeCols := flag.String("impute", "", "comma separated numeric columns to impute (default: all numeric)")
	method := flag.String("method", "Median", "imputation method: Median, Mean or KNN")
	outlierCols := flag.String("outliers", "", "comma separated numeric columns to cap outliers in (default: all numeric)")
	weight := flag.String("weight", domain.DefaultWeightColumn, "weight column for estimation")
	pdf := flag.Bool("pdf", false, "also render the report to PDF (requires Chrome)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	flag.Parse()

	godotenv.Load()

	logger, err := infrastructure.InitializeLogger(config.LoggingConfig{Level: "info", Output: "stdout"})
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if *inFile == "" {
		logger.Error("No input file given, use -in")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, logger, *inFile, *outDir, *imputeCols, *method, *outlierCols, *weight, *pdf); err != nil {
		logger.Error("Cleaning run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, inFile, outDir, imputeCols, method, outlierCols, weight string, pdf bool) error {
	f, err := os.Open(inFile)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	filename := filepath.Base(inFile)
	table, err := dataprocessing.Load(filename, f)
	if err != nil {
		return err
	}

	cfg := domain.PipelineConfig{
		ImputationColumns: splitColumns(imputeCols, table),
		ImputationMethod:  domain.ImputationMethod(method),
		OutlierColumns:    splitColumns(outlierCols, table),
		WeightColumn:      weight,
	}

	manager := operations.NewManager(nil, nil, logger)
	state, err := manager.Execute(ctx, operations.RunRequest{
		SourceName: filename,
		Dataset:    table,
		Config:     cfg,
	})
	if err != nil {
		return err
	}
	result := state.Result()

	for _, line := range result.Log {
		logger.Info(line)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	html, err := reporting.GenerateHTML(result, filename)
	if err != nil {
		return err
	}
	reportPath := filepath.Join(outDir, "report.html")
	if err := os.WriteFile(reportPath, html, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.Info("Report written", "path", reportPath)

	if err := writeCSV(filepath.Join(outDir, "cleaned_data.csv"), func(w *os.File) error {
		return reporting.WriteCleanedCSV(w, result.Cleaned, true)
	}); err != nil {
		return err
	}
	if result.Estimates != nil && !result.Estimates.Empty() {
		if err := writeCSV(filepath.Join(outDir, "estimates.csv"), func(w *os.File) error {
			return reporting.WriteEstimatesCSV(w, result.Estimates, true)
		}); err != nil {
			return err
		}
	}

	if pdf {
		generator := reporting.NewPDFGenerator(0, logger)
		data, err := generator.Generate(ctx, html)
		if err != nil {
			return err
		}
		pdfPath := filepath.Join(outDir, "report.pdf")
		if err := os.WriteFile(pdfPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write pdf: %w", err)
		}
		logger.Info("PDF written", "path", pdfPath)
	}

	return nil
}

// splitColumns parses a comma separated column list, defaulting to all
// numeric columns when empty
func splitColumns(raw string, table *domain.Table) []string {
	if raw == "" {
		return table.NumericColumnNames()
	}
	var out []string
	for _, name := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func writeCSV(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return write(f)
}
