package models

import "strings"

// UnitType classifies a manufacturing unit and selects its machine-spec form.
type UnitType string

const (
	UnitYarnSpinning             UnitType = "YARN_SPINNING"
	UnitYarnProcessing           UnitType = "YARN_PROCESSING"
	UnitWeaving                  UnitType = "WEAVING_UNIT"
	UnitKnitting                 UnitType = "KNITTING_UNIT"
	UnitDyeing                   UnitType = "DYEING_UNIT"
	UnitFabricProcessing         UnitType = "FABRIC_PROCESSING_UNIT"
	UnitFabricFinishing          UnitType = "FABRIC_FINISHING_UNIT"
	UnitWashing                  UnitType = "WASHING_UNIT"
	UnitCutting                  UnitType = "CUTTING_UNIT"
	UnitComputerizedEmbroidery   UnitType = "COMPUTERIZED_EMBROIDERY_UNIT"
	UnitManualEmbroidery         UnitType = "MANUAL_EMBROIDERY_UNIT"
	UnitFusing                   UnitType = "FUSING_UNIT"
	UnitPrinting                 UnitType = "PRINTING_UNIT"
	UnitStitching                UnitType = "STITCHING_UNIT"
	UnitChecking                 UnitType = "CHECKING_UNIT"
	UnitIroningPacking           UnitType = "IRONING_PACKING_UNIT"
	UnitKajaButton               UnitType = "KAJA_BUTTON_UNIT"
	UnitMultiNeedleDoubleChain   UnitType = "MULTI_NEEDLE_DOUBLE_CHAIN_UNIT"
	UnitOilRemovingMendingCenter UnitType = "OIL_REMOVING_MENDING_CENTER"
	UnitPatternMakingCenter      UnitType = "PATTERN_MAKING_CENTER"
	UnitFilmScreenMakingCenter   UnitType = "FILM_SCREEN_MAKING_CENTER"
)

var unitTypes = []UnitType{
	UnitYarnSpinning,
	UnitYarnProcessing,
	UnitWeaving,
	UnitKnitting,
	UnitDyeing,
	UnitFabricProcessing,
	UnitFabricFinishing,
	UnitWashing,
	UnitCutting,
	UnitComputerizedEmbroidery,
	UnitManualEmbroidery,
	UnitFusing,
	UnitPrinting,
	UnitStitching,
	UnitChecking,
	UnitIroningPacking,
	UnitKajaButton,
	UnitMultiNeedleDoubleChain,
	UnitOilRemovingMendingCenter,
	UnitPatternMakingCenter,
	UnitFilmScreenMakingCenter,
}

// UnitTypes returns every unit type in display order.
func UnitTypes() []UnitType {
	out := make([]UnitType, len(unitTypes))
	copy(out, unitTypes)
	return out
}

// Valid reports whether u belongs to the closed unit-type set.
func (u UnitType) Valid() bool {
	for _, known := range unitTypes {
		if u == known {
			return true
		}
	}
	return false
}

// Label turns KNITTING_UNIT into "Knitting Unit".
func (u UnitType) Label() string {
	return HumanizeEnum(string(u))
}

// WorkType separates domestic from export companies.
type WorkType string

const (
	WorkDomestic WorkType = "DOMESTIC_WORK"
	WorkExport   WorkType = "EXPORT_WORK"
)

// WorkTypes returns both work types.
func WorkTypes() []WorkType {
	return []WorkType{WorkDomestic, WorkExport}
}

func (w WorkType) Valid() bool {
	return w == WorkDomestic || w == WorkExport
}

func (w WorkType) Label() string {
	return HumanizeEnum(string(w))
}

// Certifications is the fixed catalog offered to export companies.
var Certifications = []string{
	"Import Export Certificate",
	"ISO 9001",
	"GOTS",
	"Fair Trade",
	"OEKO-TEX",
	"SA8000",
	"RCS",
	"BCI Cotton",
	"Sedex",
	"OCS",
	"GRS",
}

// IsCertification reports whether name is in the catalog.
func IsCertification(name string) bool {
	for _, c := range Certifications {
		if c == name {
			return true
		}
	}
	return false
}

// HumanizeEnum renders an UPPER_SNAKE value as title-cased words.
func HumanizeEnum(v string) string {
	parts := strings.Split(strings.ToLower(v), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
