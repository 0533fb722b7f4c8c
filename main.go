package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/parseledger/statement-extractor/internal/api"
	"github.com/parseledger/statement-extractor/internal/classifier"
	"github.com/parseledger/statement-extractor/internal/extractor"
	"github.com/parseledger/statement-extractor/internal/logger"
	"github.com/parseledger/statement-extractor/internal/profile"
	"github.com/parseledger/statement-extractor/internal/reconcile"
	"github.com/parseledger/statement-extractor/internal/writer"
)

const version = "1.0.0"

func main() {
	bankFlag := flag.String("bank", "", "Bank profile: "+strings.Join(profile.Names(), ", ")+" (auto-detected if omitted)")
	profileFlag := flag.String("profile", "", "Path to a custom bank profile YAML file (overrides -bank)")
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
	jsonFlag := flag.Bool("json", false, "Also write the full result (statement + reconciliation) as JSON")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API server instead of converting files")
	addrFlag := flag.String("addr", "", "API listen address (default :8080, or ADDR from the environment)")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank Statement Extractor

Converts US bank statement PDFs (Chase, Bank of America, Wells Fargo,
Citizens, U.S. Bank) into structured CSV files, with reconciliation
against the statement's own summary figures.

Usage:
  statement-extractor [flags] <input.pdf> [input2.pdf ...]
  statement-extractor -serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Auto-detect bank and convert
  statement-extractor statement.pdf

  # Specify bank explicitly
  statement-extractor -bank=chase statement.pdf

  # Use a custom bank profile
  statement-extractor -profile=mybank.yaml statement.pdf

  # Run the HTTP API
  statement-extractor -serve -addr=:8080
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-extractor v%s\n", version)
		return
	}

	// .env is optional; absence is not an error.
	_ = godotenv.Load()
	log := logger.New()

	if *serveFlag {
		addr := *addrFlag
		if addr == "" {
			addr = os.Getenv("ADDR")
		}
		if addr == "" {
			addr = ":8080"
		}
		app := api.New(log, version)
		if dir := os.Getenv("STATIC_DIR"); dir != "" {
			app.Static("/", dir)
		}
		log.Info().Str("addr", addr).Msg("starting api server")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	prof, err := pinnedProfile(*bankFlag, *profileFlag)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid bank selection")
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(log, inputPath, prof, *outputFlag, *jsonFlag); err != nil {
			log.Fatal().Err(err).Str("file", inputPath).Msg("conversion failed")
		}
	}
}

// pinnedProfile resolves an explicitly requested profile; nil means
// auto-detect per file.
func pinnedProfile(bank, profilePath string) (*profile.Profile, error) {
	if profilePath != "" {
		return profile.LoadYAMLFile(profilePath)
	}
	if bank != "" {
		return profile.Get(bank)
	}
	return nil, nil
}

func processFile(log zerolog.Logger, inputPath string, pinned *profile.Profile, outputPath string, writeJSON bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	log.Info().Str("file", inputPath).Msg("processing")

	doc, err := extractor.Open(inputPath)
	if err != nil {
		if errors.Is(err, extractor.ErrNoTextLayer) {
			return fmt.Errorf("%w; run the document through OCR first", err)
		}
		return err
	}
	log.Debug().Int("pages", len(doc.Pages)).Msg("extracted text")

	prof := pinned
	if prof == nil {
		texts := make([]string, 0, len(doc.Pages))
		for _, p := range doc.Pages {
			texts = append(texts, p.Text)
		}
		prof, err = profile.Detect(texts)
		if err != nil {
			return fmt.Errorf("%w; pass -bank explicitly", err)
		}
		log.Info().Str("bank", prof.DisplayName).Msg("auto-detected bank")
	}

	st := classifier.Extract(doc.Pages, prof)
	log.Info().
		Int("transactions", len(st.Transactions)).
		Int("balances", len(st.Balances)).
		Msg("extraction complete")

	if len(st.Transactions) == 0 {
		log.Warn().Msg("no transactions found; the layout may not match the profile, try -bank explicitly")
	}
	if st.UnparsedAmounts > 0 {
		log.Warn().Int("count", st.UnparsedAmounts).Msg("amounts recorded as 0 need manual review")
	}

	rep := reconcile.Reconcile(st, prof)
	logReconciliation(log, rep)

	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	outPath := outputPath
	if outPath == "" {
		outPath = base + ".csv"
	}

	if err := writer.WriteFile(outPath, func(w io.Writer) error {
		return writer.WriteTransactionsCSV(w, st.Transactions)
	}); err != nil {
		return err
	}
	log.Info().Str("output", outPath).Msg("wrote transactions")

	if len(st.Balances) > 0 {
		balPath := base + "_balances.csv"
		if err := writer.WriteFile(balPath, func(w io.Writer) error {
			return writer.WriteBalancesCSV(w, st.Balances)
		}); err != nil {
			return err
		}
		log.Info().Str("output", balPath).Msg("wrote daily balances")
	}

	if writeJSON {
		jsonPath := base + ".json"
		if err := writer.WriteFile(jsonPath, func(w io.Writer) error {
			return writer.WriteJSON(w, writer.Export{Statement: st, Report: rep})
		}); err != nil {
			return err
		}
		log.Info().Str("output", jsonPath).Msg("wrote json")
	}
	return nil
}

// logReconciliation reports the advisory verdict; a failure flags the
// output for review but never blocks it.
func logReconciliation(log zerolog.Logger, rep *reconcile.Report) {
	for _, cat := range rep.Categories {
		ev := log.Debug()
		if !cat.Match {
			ev = log.Warn()
		}
		ev.Str("category", cat.Category).
			Float64("extracted", cat.Extracted).
			Float64("computed", cat.Computed).
			Float64("difference", cat.Difference).
			Msg("reconciliation category")
	}
	if len(rep.BalanceMismatches) > 0 {
		log.Warn().Strs("dates", rep.BalanceMismatches).Msg("daily balance mismatches")
	}
	if rep.Passed {
		log.Info().Msg("reconciliation PASSED")
	} else {
		log.Warn().Msg("reconciliation FAILED")
	}
}
