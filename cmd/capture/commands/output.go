package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

const defaultJSONIndent = "  "

var tableCellRef = regexp.MustCompile(`^(.+)\[(\d+),(\d+)\]$`)

// renderOutput writes data as JSON or YAML, or calls table for table output.
func renderOutput(w io.Writer, data interface{}, table func(w io.Writer) error) error {
	switch output := viper.GetString("output"); output {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", defaultJSONIndent)

		return encoder.Encode(data)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)

		return encoder.Encode(data)
	case constants.FormatTable, "":
		err := table(w)
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, output)
	}
}

// renderProperties renders ordered property/value pairs.
func renderProperties(w io.Writer, data interface{}, rows [][]string) error {
	return renderOutput(w, data, func(w io.Writer) error {
		table := tablewriter.NewWriter(w)
		table.Header("Property", "Value")

		for _, row := range rows {
			_ = table.Append(row[0], row[1])
		}

		return table.Render()
	})
}

// renderIDs renders created or affected ids under a single heading.
func renderIDs(w io.Writer, heading string, ids ...string) error {
	return renderOutput(w, map[string][]string{strings.ToLower(heading): ids}, func(w io.Writer) error {
		table := tablewriter.NewWriter(w)
		table.Header("#", heading)

		for i, id := range ids {
			_ = table.Append(strconv.Itoa(i), id)
		}

		return table.Render()
	})
}

func renderFieldValues(w io.Writer, fields []capture.FieldValue) error {
	return renderOutput(w, fields, func(w io.Writer) error {
		return fieldTable(w, fields)
	})
}

func fieldTable(w io.Writer, fields []capture.FieldValue) error {
	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value", "Status", "Valid", "Error")

	for _, field := range fields {
		_ = table.Append(
			field.Key(),
			field.Value,
			field.Status.String(),
			strconv.FormatBool(field.Valid),
			field.ErrorDescription,
		)
	}

	return table.Render()
}

func renderValidationResults(w io.Writer, data interface{}, results []capture.FieldValidationResult) error {
	return renderOutput(w, data, func(w io.Writer) error {
		table := tablewriter.NewWriter(w)
		table.Header("Field", "Value", "Valid", "Error")

		for _, result := range results {
			_ = table.Append(result.Name, result.Value, strconv.FormatBool(result.Valid), result.ErrorMessage)
		}

		return table.Render()
	})
}

// parseFieldRef reads NAME, a 32 digit hex id, or either followed by [ROW,COLUMN].
func parseFieldRef(ref string) (capture.FieldIdentity, error) {
	matches := tableCellRef.FindStringSubmatch(ref)
	if matches == nil {
		return capture.ParseFieldIdentity(ref), nil
	}

	row, err := strconv.Atoi(matches[2])
	if err != nil {
		return capture.FieldIdentity{}, fmt.Errorf("%w: %q: %w", constants.ErrInvalidTableCell, ref, err)
	}

	column, err := strconv.Atoi(matches[3])
	if err != nil {
		return capture.FieldIdentity{}, fmt.Errorf("%w: %q: %w", constants.ErrInvalidTableCell, ref, err)
	}

	return capture.ParseFieldIdentity(matches[1]).InTable(row, column), nil
}

func parseFieldRefs(refs []string) ([]capture.FieldIdentity, error) {
	identities := make([]capture.FieldIdentity, 0, len(refs))

	for _, ref := range refs {
		identity, err := parseFieldRef(ref)
		if err != nil {
			return nil, err
		}

		identities = append(identities, identity)
	}

	return identities, nil
}

// parseFieldAssignments reads NAME=VALUE pairs.
func parseFieldAssignments(assignments []string) ([]capture.RuntimeField, error) {
	fields := make([]capture.RuntimeField, 0, len(assignments))

	for _, assignment := range assignments {
		ref, value, ok := strings.Cut(assignment, "=")
		if !ok || ref == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidFieldFormat, assignment)
		}

		identity, err := parseFieldRef(ref)
		if err != nil {
			return nil, err
		}

		fields = append(fields, capture.RuntimeField{FieldIdentity: identity, Value: value})
	}

	return fields, nil
}

func parseIndexes(args []string) ([]int, error) {
	indexes := make([]int, 0, len(args))

	for _, arg := range args {
		index, err := strconv.Atoi(arg)
		if err != nil || index < 0 {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidIndex, arg)
		}

		indexes = append(indexes, index)
	}

	return indexes, nil
}

func parseIndex(arg string) (int, error) {
	indexes, err := parseIndexes([]string{arg})
	if err != nil {
		return 0, err
	}

	return indexes[0], nil
}

func parseItemType(name string) (capture.ItemType, error) {
	switch strings.ToLower(name) {
	case "document":
		return capture.ItemTypeDocument, nil
	case "folder":
		return capture.ItemTypeFolder, nil
	default:
		return 0, fmt.Errorf("%w: %q", constants.ErrInvalidItemType, name)
	}
}

func formatValue(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}
