package machinery

import (
	"directory-console/internal/common/validation"
	"directory-console/internal/models"
)

var (
	weavingMachineTypes = []string{
		"Hand Loom",
		"Rapier Loom",
		"Air Jet Loom",
		"Hand Loom - Jacquard",
		"Automatic Jacquard",
		"Projectile Loom",
		"Water Jet Loom",
		"Other",
	}
	yarnTypes = []string{"Cotton", "Viscose/Spun", "Polyester/Filament"}
)

// WeavingRecord describes looms.
type WeavingRecord struct {
	MachineType  string `json:"machineType"`
	TypeOfYarn   string `json:"typeOfYarn"`
	NoOfMachines int    `json:"noOfMachines"`
}

func (WeavingRecord) UnitType() models.UnitType { return models.UnitWeaving }

func (WeavingRecord) machineRecord() {}

func (r WeavingRecord) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if r.MachineType == "" {
		errs.Add("machineType", "Machine type is required")
	}
	if r.TypeOfYarn == "" {
		errs.Add("typeOfYarn", "Yarn type is required")
	}
	if r.NoOfMachines <= 0 {
		errs.Add("noOfMachines", "Number of machines must be greater than 0")
	}
	return errs
}

var weavingSpec = formSpec[WeavingRecord]{
	unit: models.UnitWeaving,
	fields: []Field{
		{Name: "machineType", Label: "Machine Type", Kind: KindSelect, Options: weavingMachineTypes, Required: true},
		{Name: "typeOfYarn", Label: "Type of Yarn", Kind: KindSelect, Options: yarnTypes, Required: true},
		{Name: "noOfMachines", Label: "Number of Machines", Kind: KindInteger, Required: true, Min: validation.Float64Ptr(1)},
	},
	defaults: func() WeavingRecord {
		return WeavingRecord{MachineType: "Hand Loom", TypeOfYarn: "Cotton", NoOfMachines: 1}
	},
}

// YarnProcessingRecord describes dyeing, twisting and winding machines.
type YarnProcessingRecord struct {
	TypeOfYarnProcessingMachine string `json:"typeOfYarnProcessingMachine"`
	NoOfHeads                   int    `json:"noOfHeads"`
	TypeOfYarn                  string `json:"typeOfYarn"`
	NoOfMachines                int    `json:"noOfMachines"`
}

func (YarnProcessingRecord) UnitType() models.UnitType { return models.UnitYarnProcessing }

func (YarnProcessingRecord) machineRecord() {}

func (r YarnProcessingRecord) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if r.TypeOfYarnProcessingMachine == "" {
		errs.Add("typeOfYarnProcessingMachine", "Required")
	}
	if r.NoOfHeads <= 0 {
		errs.Add("noOfHeads", "Heads must be positive")
	}
	if r.TypeOfYarn == "" {
		errs.Add("typeOfYarn", "Required")
	}
	if r.NoOfMachines <= 0 {
		errs.Add("noOfMachines", "Machines must be positive")
	}
	return errs
}

var yarnProcessingSpec = formSpec[YarnProcessingRecord]{
	unit: models.UnitYarnProcessing,
	fields: []Field{
		{Name: "typeOfYarnProcessingMachine", Label: "Machine Type", Kind: KindSelect, Options: []string{"Yarn Dyeing", "Yarn Twisting", "Cone-Winding"}, Required: true},
		{Name: "noOfHeads", Label: "Number of Heads", Kind: KindInteger, Required: true, Min: validation.Float64Ptr(1)},
		{Name: "typeOfYarn", Label: "Type of Yarn", Kind: KindSelect, Options: yarnTypes, Required: true},
		{Name: "noOfMachines", Label: "Number of Machines", Kind: KindInteger, Required: true, Min: validation.Float64Ptr(1)},
	},
	defaults: func() YarnProcessingRecord {
		return YarnProcessingRecord{
			TypeOfYarnProcessingMachine: "Yarn Dyeing",
			NoOfHeads:                   1,
			TypeOfYarn:                  "Cotton",
			NoOfMachines:                1,
		}
	},
}
