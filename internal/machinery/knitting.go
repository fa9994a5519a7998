package machinery

import (
	"directory-console/internal/common/validation"
	"directory-console/internal/models"
)

var (
	knittingDiameters = []string{
		"6", "7", "8", "9", "10", "11", "12", "13", "14", "15",
		"16", "17", "18", "19", "20", "21", "22", "23", "24", "25",
		"26", "27", "28", "29", "30", "32", "34", "36", "38", "40",
		"42", "44",
	}
	knittingGauges = []string{
		"5", "7", "9", "12", "14", "16", "18", "20", "24", "28",
		"30", "32", "34", "36", "40", "44", "48", "52", "56", "60",
	}
	knittingMachineTypes = []string{
		"Single Jersey",
		"Double Jersey - Rib",
		"Double Jersey - Interlock",
		"3 Thread Fleece",
		"Wrapper",
		"Terry",
		"Seamless",
		"Garment Length",
	}
	knittingSpecialFeatures = []string{
		"Single Feeder", "Auto-striper", "Full Jacquard", "Mini Jacquard",
		"Wrapper", "Pointel Mini Jacquard", "Pointel Jacquard", "Denim Knit",
		"Double Side Terry", "Matress", "Polar Fleece", "Poly Fleece",
		"Quilt Design", "Spacer", "Sweater",
	}
	knittingCylinderTracks = []string{"1", "2", "3", "4", "5", "6", "7"}
	knittingYarnTypes      = []string{"cotton", "viscose/Spun", "polyester/filament"}
	knittingBrands         = []string{
		"Mayer & Cie", "Unitex", "Year China", "Terrot", "Lakshmi Terrot",
		"CMS", "Falmac", "FUKURAHA", "FUKUHAMA", "Buiyuan", "Liski",
		"Pailung", "Santoni", "Smart", "Vilike", "Other",
	}
	fabricForms = []string{"Tubular", "open width"}
)

// KnittingRecord describes circular knitting machines.
type KnittingRecord struct {
	Diameter             float64   `json:"diameter"`
	Gauge                []float64 `json:"gauge"`
	MachineType          string    `json:"machineType"`
	SpecialFeatures      []string  `json:"specialFeatures,omitempty"`
	MachineCylinderTrack int       `json:"machineCylinderTrack"`
	TakedownRollerType   string    `json:"takedownRollerType"`
	TypeOfYarn           []string  `json:"typeOfYarn"`
	MachineBrand         string    `json:"machineBrand"`
	NoOfMachines         int       `json:"noOfMachines"`
}

func (KnittingRecord) UnitType() models.UnitType { return models.UnitKnitting }

func (KnittingRecord) machineRecord() {}

func (r KnittingRecord) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if r.Diameter == 0 {
		errs.Add("diameter", "Diameter is required")
	}
	if len(r.Gauge) == 0 {
		errs.Add("gauge", "At least one gauge must be selected")
	}
	if r.MachineType == "" {
		errs.Add("machineType", "Machine type is required")
	}
	if r.MachineCylinderTrack < 1 || r.MachineCylinderTrack > 7 {
		errs.Add("machineCylinderTrack", "Cylinder track is required")
	}
	if r.TakedownRollerType == "" {
		errs.Add("takedownRollerType", "Takedown roller type is required")
	}
	if len(r.TypeOfYarn) == 0 {
		errs.Add("typeOfYarn", "Yarn type is required")
	}
	// "Other" alone means the custom brand was never typed.
	if r.MachineBrand == "" || r.MachineBrand == "Other" {
		errs.Add("machineBrand", "Machine brand is required")
	}
	if r.NoOfMachines < 1 {
		errs.Add("noOfMachines", "Number of machines must be at least 1")
	}
	return errs
}

var knittingSpec = formSpec[KnittingRecord]{
	unit: models.UnitKnitting,
	fields: []Field{
		{Name: "diameter", Label: "Diameter (inch)", Kind: KindNumber, Options: knittingDiameters, Required: true, Min: validation.Float64Ptr(1)},
		{Name: "gauge", Label: "Gauge", Kind: KindNumberList, Options: knittingGauges, Required: true},
		{Name: "machineType", Label: "Machine Type", Kind: KindSelect, Options: knittingMachineTypes, Required: true},
		{Name: "specialFeatures", Label: "Special Features", Kind: KindMultiSelect, Options: knittingSpecialFeatures},
		{Name: "machineCylinderTrack", Label: "Cylinder Track", Kind: KindInteger, Options: knittingCylinderTracks, Required: true, Min: validation.Float64Ptr(1)},
		{Name: "takedownRollerType", Label: "Takedown Roller Type", Kind: KindSelect, Options: fabricForms, Required: true},
		{Name: "typeOfYarn", Label: "Type of Yarn", Kind: KindMultiSelect, Options: knittingYarnTypes, Required: true},
		{Name: "machineBrand", Label: "Machine Brand", Kind: KindSelect, Options: knittingBrands, Required: true, Custom: true, CustomOption: "Other"},
		{Name: "noOfMachines", Label: "Number of Machines", Kind: KindInteger, Required: true, Min: validation.Float64Ptr(1)},
	},
	defaults: func() KnittingRecord {
		return KnittingRecord{
			Gauge:           []float64{},
			SpecialFeatures: []string{},
			TypeOfYarn:      []string{},
			NoOfMachines:    1,
		}
	},
}
