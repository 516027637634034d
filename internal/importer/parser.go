// Package importer parses delimited investor lists and commits them as one
// atomic batch.
package importer

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joshsymonds/dealflow/internal/common"
	"github.com/joshsymonds/dealflow/internal/model"
)

// ErrEmptyInput is returned for empty or whitespace-only input. It is a user
// error, rejected before any parsing or writing happens.
var ErrEmptyInput = errors.New("import input is empty")

// Delimiter separates both header names and values. Values may not contain
// it; there is no quoting or escaping.
const Delimiter = ";"

// Recognized header names, compared case-insensitively after trimming.
// Unrecognized headers are ignored; missing headers leave zero defaults.
var headerFields = map[string]func(*model.Investor, string){
	"name":           func(inv *model.Investor, v string) { inv.Name = v },
	"classification": func(inv *model.Investor, v string) { inv.Classification = v },
	"type":           func(inv *model.Investor, v string) { inv.Type = v },
	"sector":         func(inv *model.Investor, v string) { inv.Sector = v },
	"credit_equity":  func(inv *model.Investor, v string) { inv.CreditEquity = v },
	"credit/equity":  func(inv *model.Investor, v string) { inv.CreditEquity = v },
	"justification":  func(inv *model.Investor, v string) { inv.Justification = v },
	"email":          func(inv *model.Investor, v string) { inv.Email = v },
	"email2":         func(inv *model.Investor, v string) { inv.Email2 = v },
	"phone":          func(inv *model.Investor, v string) { inv.Phone = v },
	"link":           func(inv *model.Investor, v string) { inv.ProfileURL = v },
	"profile":        func(inv *model.Investor, v string) { inv.ProfileURL = v },
	"rating": func(inv *model.Investor, v string) {
		if strings.TrimSpace(v) == "" {
			return
		}
		rating, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			// Non-numeric ratings default to 0; the row still imports.
			slog.Warn("unparseable rating in import, defaulting to 0", "value", v)
			return
		}
		inv.Rating = rating
	},
}

// Parser converts delimited text into investor records.
type Parser struct{}

// NewParser creates a new import parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse maps delimited text to investor records for the given account. Line 1
// is the header row; each further non-blank line becomes one record with a
// fresh id and creation timestamp. A data row shorter than the header yields
// empty-string defaults for the missing columns; no row is rejected
// individually.
func (p *Parser) Parse(accountID, text string) ([]model.Investor, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.NewUserError("nothing to import", ErrEmptyInput)
	}

	lines := splitLines(text)
	if len(lines) < 2 {
		return nil, common.NewUserError("no data rows to import", ErrEmptyInput)
	}

	headers := strings.Split(lines[0], Delimiter)
	setters := make([]func(*model.Investor, string), len(headers))
	for i, header := range headers {
		setters[i] = headerFields[strings.ToLower(strings.TrimSpace(header))]
	}

	investors := make([]model.Investor, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, Delimiter)

		inv := model.Investor{
			ID:        uuid.NewString(),
			AccountID: accountID,
			CreatedAt: time.Now(),
		}
		for i, set := range setters {
			if set == nil {
				continue
			}
			if i < len(values) {
				set(&inv, strings.TrimSpace(values[i]))
			} else {
				set(&inv, "")
			}
		}
		investors = append(investors, inv)
	}

	return investors, nil
}

// splitLines splits on newlines and drops blank lines, tolerating CRLF input.
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
