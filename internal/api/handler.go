// Package api exposes the statement importer over HTTP.
package api

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/zueribudget/statement-importer/internal/models"
	"github.com/zueribudget/statement-importer/internal/parser"
	"github.com/zueribudget/statement-importer/internal/staging"
	"github.com/zueribudget/statement-importer/internal/writer"
)

// ParseResponse is the JSON response from the /api/statements/parse endpoint.
type ParseResponse struct {
	Success      bool                 `json:"success"`
	Error        string               `json:"error,omitempty"`
	SourceName   string               `json:"sourceName,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	ParseErrors  []string             `json:"parseErrors,omitempty"`
	RawLines     []string             `json:"rawLines,omitempty"`
	CSV          string               `json:"csv,omitempty"`
	TotalDebit   decimal.Decimal      `json:"totalDebit"`
	TotalCredit  decimal.Decimal      `json:"totalCredit"`
	Count        int                  `json:"count"`
}

// Handler wires the staging gateway, validator and parse coordinator into
// HTTP endpoints.
type Handler struct {
	gateway     *staging.Gateway
	coordinator *parser.Coordinator
	validator   *parser.Validator
	log         zerolog.Logger
}

func NewHandler(gateway *staging.Gateway, coordinator *parser.Coordinator, validator *parser.Validator, log zerolog.Logger) *Handler {
	return &Handler{gateway: gateway, coordinator: coordinator, validator: validator, log: log}
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.handleHealth)
	app.Post("/api/statements/parse", h.handleParse)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// validationError carries the human-readable reason a document was
// rejected before parsing.
type validationError struct{ reason string }

func (e *validationError) Error() string { return e.reason }

func (h *Handler) handleParse(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}

	// Spool the upload to disk so the gateway can stage it. The spool
	// file keeps the upload's .pdf extension for the gateway's type check.
	tmp, err := os.CreateTemp("", "upload-*"+sanitizeExt(header.Filename))
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to buffer upload.")
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(header, tmpPath); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
	}

	result, err := staging.WithSecureAccess(h.gateway, tmpPath, func(stagedPath string) (*models.ParseResult, error) {
		if ok, reason := h.validator.Validate(stagedPath); !ok {
			return nil, &validationError{reason: reason}
		}
		return h.coordinator.ParseStatement(stagedPath, header.Filename), nil
	})
	if err != nil {
		h.log.Warn().Err(err).Str("file", header.Filename).Msg("statement rejected")
		return writeError(c, statusFor(err), err.Error())
	}

	var csvBuf bytes.Buffer
	csvWriter := &writer.CSVWriter{IncludeSource: true}
	if err := csvWriter.Write(&csvBuf, result); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("CSV generation failed: %v", err))
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, txn := range result.Transactions {
		if txn.Direction == models.DirectionDebit {
			totalDebit = totalDebit.Add(txn.Amount)
		} else {
			totalCredit = totalCredit.Add(txn.Amount)
		}
	}

	// nil marshals to JSON null, not [].
	txns := result.Transactions
	if txns == nil {
		txns = []models.Transaction{}
	}

	h.log.Info().
		Str("file", header.Filename).
		Int("transactions", len(txns)).
		Int("parseErrors", len(result.ParseErrors)).
		Msg("statement parsed")

	return c.JSON(ParseResponse{
		Success:      true,
		SourceName:   result.SourceName,
		Transactions: txns,
		ParseErrors:  result.ParseErrors,
		RawLines:     result.RawLines,
		CSV:          csvBuf.String(),
		TotalDebit:   totalDebit,
		TotalCredit:  totalCredit,
		Count:        len(txns),
	})
}

func statusFor(err error) int {
	var vErr *validationError
	switch {
	case errors.As(err, &vErr):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, staging.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, staging.ErrInvalidFileType):
		return fiber.StatusBadRequest
	case errors.Is(err, staging.ErrFileNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// sanitizeExt keeps only a plain ".pdf" extension; anything else becomes
// ".bin" so the gateway rejects it cleanly.
func sanitizeExt(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return ".pdf"
	}
	return ".bin"
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ParseResponse{
		Success:      false,
		Error:        msg,
		Transactions: []models.Transaction{},
	})
}
