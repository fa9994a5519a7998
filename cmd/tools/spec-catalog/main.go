// cmd/tools/spec-catalog/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"directory-console/internal/common/errors"
	"directory-console/internal/machinery"
	"directory-console/internal/models"
	"directory-console/pkg/catalog"
)

const (
	defaultCatalogPath = "configs/machinery-catalog.json"
	previewLimit       = 20
)

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	checkCmd := flag.NewFlagSet("check", flag.ExitOnError)

	exportPath := exportCmd.String("out", defaultCatalogPath, "Output file (.json, .yaml or .yml)")
	exportVersion := exportCmd.String("version", "1.0.0", "Catalog version")

	validatePath := validateCmd.String("path", defaultCatalogPath, "Path to catalog file")

	listAll := listCmd.Bool("all", false, "Include unit types without a machine form")

	checkUnit := checkCmd.String("unit", "", "Unit type (e.g., WEAVING_UNIT)")
	checkFile := checkCmd.String("file", "", "JSON file holding one machine record or an array of them")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	reg := machinery.Default()

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		c := catalog.Build(reg, *exportVersion)
		if err := catalog.Save(*exportPath, c); err != nil {
			fmt.Printf("Error exporting catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Exported %d unit types to %s\n", len(c.Units), *exportPath)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		c, err := catalog.Load(*validatePath)
		if err != nil {
			fmt.Printf("Error loading catalog: %v\n", err)
			os.Exit(1)
		}
		if problems := c.Validate(reg); len(problems) > 0 {
			fmt.Println("Catalog validation failed:")
			for _, p := range problems {
				fmt.Printf("  - %s\n", p)
			}
			os.Exit(1)
		}
		fmt.Printf("Catalog validation passed. Found %d unit types.\n", len(c.Units))

	case "list":
		listCmd.Parse(os.Args[2:])
		listUnits(reg, *listAll)

	case "check":
		checkCmd.Parse(os.Args[2:])
		if *checkUnit == "" || *checkFile == "" {
			fmt.Println("Error: unit and file are required for check.")
			checkCmd.Usage()
			os.Exit(1)
		}
		if err := checkRecords(reg, models.UnitType(*checkUnit), *checkFile); err != nil {
			fmt.Printf("Check failed: %v\n", err)
			os.Exit(1)
		}

	case "help":
		fallthrough
	default:
		help()
	}
}

func listUnits(reg *machinery.Registry, all bool) {
	for _, u := range reg.Units() {
		if !reg.Implemented(u) {
			if all {
				fmt.Printf("%-32s %s (no machine form)\n", u, u.Label())
			}
			continue
		}
		form, _ := reg.Lookup(u)
		names := make([]string, 0, len(form.Fields()))
		for _, f := range form.Fields() {
			names = append(names, f.Name)
		}
		fmt.Printf("%-32s %s: %s\n", u, u.Label(), strings.Join(names, ", "))
	}
}

// checkRecords decodes every record in path the way machinery read back
// from the backend would be decoded, and prints the preview line of each.
func checkRecords(reg *machinery.Registry, unit models.UnitType, path string) error {
	if !unit.Valid() {
		return errors.NewUnknownUnitTypeError(string(unit))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	raws := []json.RawMessage{}
	if trimmed := strings.TrimSpace(string(data)); strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &raws); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		raws = append(raws, json.RawMessage(data))
	}

	failed := 0
	for i, raw := range raws {
		rec, err := reg.DecodeRecord(unit, raw)
		if err != nil {
			failed++
			fmt.Printf("#%d invalid: %v\n", i+1, err)
			if se, ok := errors.As(err); ok && se.HasFieldErrors() {
				fmt.Printf("    %s\n", errors.FieldErrorSummary(se.Fields))
			}
			continue
		}
		if _, isRaw := rec.(machinery.RawRecord); isRaw {
			fmt.Printf("#%d kept as-is (%s has no machine form)\n", i+1, unit)
			continue
		}
		fmt.Printf("#%d ok: %s\n", i+1, previewLine(rec))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d records invalid", failed, len(raws))
	}
	return nil
}

func previewLine(rec machinery.Record) string {
	parts := []string{}
	for _, f := range machinery.Preview(rec, previewLimit) {
		parts = append(parts, f.Label+": "+f.Value)
	}
	return strings.Join(parts, " • ")
}

func help() {
	fmt.Println(`
Usage: spec-catalog <command> [flags]

Commands:
  export    Write the machine-spec catalog for every unit type
  validate  Compare a catalog file with the built-in forms
  list      List unit types and their machine fields
  check     Validate machine records against a unit type's schema
  help      Show this help message

Examples:
  spec-catalog export -out configs/machinery-catalog.yaml -version 1.2.0
  spec-catalog validate -path configs/machinery-catalog.json
  spec-catalog list -all
  spec-catalog check -unit WEAVING_UNIT -file machines.json

Use 'spec-catalog <command> -h' for more information about a command.
`)
}
