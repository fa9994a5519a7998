package machinery

import (
	"strings"

	"directory-console/internal/common/validation"
	"directory-console/internal/models"
)

var (
	cuttingMachineTypes    = []string{"Hand Cutting", "Straight Knife", "Band Knife", "Automatic Cutting"}
	embroideryMachineTypes = []string{"Chenley", "With Sequence", "Without Sequence", "Tufft", "Schiffli M/c"}
	printingMachineTypes   = []string{
		"Wooden Table",
		"Manual M/c",
		"Automatic M/c",
		"Glass Table",
		"Rotary M/c",
		"Sublimation Print",
		"Heat Transfers",
		"Emboss Print",
		"Digital Sticker Print (DTF)",
		"Digital Print (DTG)",
		"Burnout",
	}
	stitchingMachineTypes = []string{
		"Single Needle (singer)",
		"Double Needle",
		"Overlock",
		"Flatlock",
		"Feed of the arm",
		"Edge Cutter",
		"Chain Stitch",
		"Others",
	}
)

// CuttingRecord describes cutting tables and knives.
type CuttingRecord struct {
	MachineType  string `json:"machineType"`
	NoOfMachines int    `json:"noOfMachines"`
}

func (CuttingRecord) UnitType() models.UnitType { return models.UnitCutting }

func (CuttingRecord) machineRecord() {}

func (r CuttingRecord) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if r.MachineType == "" {
		errs.Add("machineType", "Required")
	}
	if r.NoOfMachines <= 0 {
		errs.Add("noOfMachines", "Machines must be positive")
	}
	return errs
}

var cuttingSpec = formSpec[CuttingRecord]{
	unit: models.UnitCutting,
	fields: []Field{
		{Name: "machineType", Label: "Machine Type", Kind: KindSelect, Options: cuttingMachineTypes, Required: true},
		{Name: "noOfMachines", Label: "Number of Machines", Kind: KindInteger, Required: true, Min: validation.Float64Ptr(1)},
	},
	defaults: func() CuttingRecord {
		return CuttingRecord{MachineType: "Hand Cutting", NoOfMachines: 1}
	},
}

// EmbroideryRecord describes computerized embroidery machines.
type EmbroideryRecord struct {
	MachineType  string `json:"machineType"`
	NoOfHeads    int    `json:"noOfHeads"`
	MachineBrand string `json:"machineBrand"`
	Model        string `json:"model,omitempty"`
	NoOfMachines int    `json:"noOfMachines"`
}

func (EmbroideryRecord) UnitType() models.UnitType { return models.UnitComputerizedEmbroidery }

func (EmbroideryRecord) machineRecord() {}

func (r EmbroideryRecord) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if r.MachineType == "" {
		errs.Add("machineType", "Required")
	}
	if r.NoOfHeads <= 0 {
		errs.Add("noOfHeads", "Heads must be positive")
	}
	if strings.TrimSpace(r.MachineBrand) == "" {
		errs.Add("machineBrand", "Brand is required")
	}
	if r.NoOfMachines <= 0 {
		errs.Add("noOfMachines", "Machines must be positive")
	}
	return errs
}

var embroiderySpec = formSpec[EmbroideryRecord]{
	unit: models.UnitComputerizedEmbroidery,
	fields: []Field{
		{Name: "machineType", Label: "Machine Type", Kind: KindSelect, Options: embroideryMachineTypes, Required: true},
		{Name: "noOfHeads", Label: "Number of Heads", Kind: KindInteger, Required: true, Min: validation.Float64Ptr(1)},
		{Name: "machineBrand", Label: "Machine Brand", Kind: KindText, Required: true},
		{Name: "model", Label: "Model", Kind: KindText},
		{Name: "noOfMachines", Label: "Number of Machines", Kind: KindInteger, Required: true, Min: validation.Float64Ptr(1)},
	},
	defaults: func() EmbroideryRecord {
		return EmbroideryRecord{MachineType: "Chenley", NoOfHeads: 1, NoOfMachines: 1}
	},
}

// PrintingRecord describes screen and digital printing setups. PalletSize
// is free text such as "20x30".
type PrintingRecord struct {
	PrintingMachineType string `json:"PrintingMachineType"`
	PalletSize          string `json:"PalletSize"`
	NoOfMachines        int    `json:"noOfMachines"`
}

func (PrintingRecord) UnitType() models.UnitType { return models.UnitPrinting }

func (PrintingRecord) machineRecord() {}

func (r PrintingRecord) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if r.PrintingMachineType == "" {
		errs.Add("PrintingMachineType", "Required")
	}
	if len(r.PalletSize) <= 1 {
		errs.Add("PalletSize", "Enter Correct Pallet Length and breadth")
	}
	if r.NoOfMachines <= 0 {
		errs.Add("noOfMachines", "Number of machines must be greater than 0")
	}
	return errs
}

var printingSpec = formSpec[PrintingRecord]{
	unit: models.UnitPrinting,
	fields: []Field{
		{Name: "PrintingMachineType", Label: "Machine Type", Kind: KindSelect, Options: printingMachineTypes, Required: true},
		{Name: "PalletSize", Label: "Pallet Size (L x B)", Kind: KindText, Required: true},
		{Name: "noOfMachines", Label: "Number of Machines", Kind: KindInteger, Required: true, Min: validation.Float64Ptr(1)},
	},
	defaults: func() PrintingRecord {
		return PrintingRecord{PrintingMachineType: "Wooden Table", NoOfMachines: 1}
	},
}

// StitchingRecord describes sewing machines. MachineType holds either an
// option or the custom type typed after choosing "Others".
type StitchingRecord struct {
	MachineType  string `json:"machineType"`
	NoOfMachines *int   `json:"noOfMachines,omitempty"`
}

func (StitchingRecord) UnitType() models.UnitType { return models.UnitStitching }

func (StitchingRecord) machineRecord() {}

func (r StitchingRecord) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	switch strings.TrimSpace(r.MachineType) {
	case "":
		errs.Add("machineType", "Machine type is required")
	case "Others":
		errs.Add("machineType", "Please enter a custom machine type")
	}
	if r.NoOfMachines != nil && *r.NoOfMachines <= 0 {
		errs.Add("noOfMachines", "Machines must be positive")
	}
	return errs
}

var stitchingSpec = formSpec[StitchingRecord]{
	unit: models.UnitStitching,
	fields: []Field{
		{Name: "machineType", Label: "Machine Type", Kind: KindSelect, Options: stitchingMachineTypes, Required: true, Custom: true, CustomOption: "Others"},
		{Name: "noOfMachines", Label: "Number of Machines", Kind: KindInteger, Min: validation.Float64Ptr(1)},
	},
	defaults: func() StitchingRecord {
		return StitchingRecord{MachineType: "Single Needle (singer)", NoOfMachines: validation.IntPtr(1)}
	},
}
