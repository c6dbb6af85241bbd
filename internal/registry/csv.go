// pygeoregister - Geoconnex Registry Landing Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pygeoregister

package registry

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CSVError is a validation failure of a namespace CSV. The message is shown
// to the submitter as is.
type CSVError string

// Error implements error.
func (e CSVError) Error() string {
	return string(e)
}

// Namespace CSV validation failures
const (
	ErrCSVParsing            CSVError = "Your CSV appears to be improperly formatted. Please check the formatting and try again."
	ErrCSVEmpty              CSVError = "Your CSV appears to be empty or missing data."
	ErrCSVCreatorAsEmail     CSVError = "Inside your CSV, the creator column does not appear to use a valid email address"
	ErrCSVMissingID          CSVError = "You are missing the id column in your CSV"
	ErrCSVMissingTarget      CSVError = "You are missing the target column in your CSV"
	ErrCSVMissingCreator     CSVError = "You are missing the creator column in your CSV"
	ErrCSVMissingDescription CSVError = "You are missing the description column in your CSV"
	ErrCSVTargetAsURL        CSVError = "Inside your CSV, the target column is not using a valid URL"
	ErrCSVIDAsURL            CSVError = "Inside your CSV, the id column is not using a valid URL"
)

// Column names every namespace CSV must carry.
const (
	ColumnID          = "id"
	ColumnTarget      = "target"
	ColumnCreator     = "creator"
	ColumnDescription = "description"
)

// requiredColumns are checked in order; the first missing one is reported.
var requiredColumns = []struct {
	name    string
	missing CSVError
}{
	{ColumnID, ErrCSVMissingID},
	{ColumnTarget, ErrCSVMissingTarget},
	{ColumnCreator, ErrCSVMissingCreator},
	{ColumnDescription, ErrCSVMissingDescription},
}

// fieldValidator checks cell values. Safe for concurrent use.
var fieldValidator = validator.New()

// ValidateCSV checks a namespace CSV: it must parse, carry the id, target,
// creator and description columns, hold at least one data row, use http(s)
// URLs for id and target and an email address for creator. Extra columns
// are allowed. The returned error is a CSVError.
func ValidateCSV(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ErrCSVEmpty
	}
	if err != nil {
		return ErrCSVParsing
	}

	columns := columnIndex(header)
	for _, col := range requiredColumns {
		if _, ok := columns[col.name]; !ok {
			return col.missing
		}
	}

	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ErrCSVParsing
		}
		if blankRecord(record) {
			continue
		}
		rows++

		if !isHTTPURL(record[columns[ColumnID]]) {
			return ErrCSVIDAsURL
		}
		if !isHTTPURL(record[columns[ColumnTarget]]) {
			return ErrCSVTargetAsURL
		}
		if fieldValidator.Var(strings.TrimSpace(record[columns[ColumnCreator]]), "required,email") != nil {
			return ErrCSVCreatorAsEmail
		}
	}

	if rows == 0 {
		return ErrCSVEmpty
	}
	return nil
}

// columnIndex maps normalized header names to their position. A UTF-8 byte
// order mark on the first header is ignored.
func columnIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return columns
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func isHTTPURL(value string) bool {
	return fieldValidator.Var(strings.TrimSpace(value), "required,http_url") == nil
}
