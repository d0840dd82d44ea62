// Package report renders analytics results as downloadable documents.
package report

import (
	"errors"
	"fmt"
	"strings"
)

type Type string

const (
	TypeProductivity Type = "productivity"
	TypeProject      Type = "project"
	TypeTeam         Type = "team"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

const CSVContentType = "text/csv"

var (
	ErrUnknownType   = errors.New("invalid report type")
	ErrUnknownFormat = errors.New("invalid format")
)

// ParseType defaults to the productivity report.
func ParseType(raw string) (Type, error) {
	switch t := Type(strings.TrimSpace(raw)); t {
	case "":
		return TypeProductivity, nil
	case TypeProductivity, TypeProject, TypeTeam:
		return t, nil
	}
	return "", ErrUnknownType
}

// ParseFormat defaults to JSON.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.TrimSpace(raw)); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV:
		return f, nil
	}
	return "", ErrUnknownFormat
}

func Filename(t Type) string {
	return fmt.Sprintf("%s_report.csv", t)
}

// ContentDisposition is the attachment header value for a CSV download.
func ContentDisposition(t Type) string {
	return fmt.Sprintf(`attachment; filename="%s"`, Filename(t))
}
