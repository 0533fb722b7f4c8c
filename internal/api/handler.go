// Package api exposes the extraction pipeline over HTTP.
package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/parseledger/statement-extractor/internal/classifier"
	"github.com/parseledger/statement-extractor/internal/extractor"
	"github.com/parseledger/statement-extractor/internal/models"
	"github.com/parseledger/statement-extractor/internal/profile"
	"github.com/parseledger/statement-extractor/internal/reconcile"
	"github.com/parseledger/statement-extractor/internal/writer"
)

const maxUploadSize = 32 << 20

// Server wires the extraction pipeline into HTTP handlers.
type Server struct {
	log     zerolog.Logger
	version string
}

// New builds the Fiber app with all routes registered.
func New(log zerolog.Logger, version string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "statement-extractor",
		BodyLimit: maxUploadSize,
	})
	s := &Server{log: log, version: version}
	app.Get("/api/health", s.health)
	app.Post("/api/convert", s.convert)
	return app
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": s.version,
		"banks":   profile.Names(),
	})
}

// ConvertResponse is the /api/convert success payload.
type ConvertResponse struct {
	Success        bool              `json:"success"`
	RequestID      string            `json:"requestId"`
	Bank           string            `json:"bank"`
	Count          int               `json:"count"`
	Statement      *models.Statement `json:"statement"`
	Reconciliation *reconcile.Report `json:"reconciliation"`
	CSV            string            `json:"csv"`
}

func (s *Server) convert(c *fiber.Ctx) error {
	reqID := uuid.NewString()
	log := s.log.With().Str("request_id", reqID).Logger()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, reqID, "missing file upload (multipart field \"file\")")
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		return fail(c, fiber.StatusBadRequest, reqID, "only PDF uploads are supported")
	}

	tmpDir, err := os.MkdirTemp("", "statement-*")
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, reqID, "could not stage upload")
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, filepath.Base(fileHeader.Filename))
	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		return fail(c, fiber.StatusInternalServerError, reqID, "could not stage upload")
	}

	doc, err := extractor.Open(tmpPath)
	if err != nil {
		log.Warn().Err(err).Str("file", fileHeader.Filename).Msg("extraction failed")
		if errors.Is(err, extractor.ErrNoTextLayer) {
			return fail(c, fiber.StatusUnprocessableEntity, reqID,
				"no extractable text layer; the document may be scanned and need OCR")
		}
		return fail(c, fiber.StatusUnprocessableEntity, reqID, "could not read PDF")
	}

	prof, err := resolveProfile(c.FormValue("bank"), doc)
	if err != nil {
		return fail(c, fiber.StatusUnprocessableEntity, reqID, err.Error())
	}

	st := classifier.Extract(doc.Pages, prof)
	rep := reconcile.Reconcile(st, prof)
	csv, err := writer.TransactionsCSVString(st.Transactions)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, reqID, "could not render csv")
	}

	log.Info().
		Str("bank", prof.Name).
		Int("transactions", len(st.Transactions)).
		Int("balances", len(st.Balances)).
		Bool("reconciled", rep.Passed).
		Msg("converted statement")

	return c.JSON(ConvertResponse{
		Success:        true,
		RequestID:      reqID,
		Bank:           prof.Name,
		Count:          len(st.Transactions),
		Statement:      st,
		Reconciliation: rep,
		CSV:            csv,
	})
}

func resolveProfile(bank string, doc *extractor.Document) (*profile.Profile, error) {
	if bank != "" {
		return profile.Get(bank)
	}
	texts := make([]string, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		texts = append(texts, p.Text)
	}
	prof, err := profile.Detect(texts)
	if err != nil {
		return nil, fmt.Errorf("%w; pass bank=<name> explicitly", err)
	}
	return prof, nil
}

func fail(c *fiber.Ctx, status int, reqID, msg string) error {
	return c.Status(status).JSON(fiber.Map{
		"success":   false,
		"requestId": reqID,
		"error":     msg,
	})
}
