package machinery

import (
	"strings"

	"directory-console/internal/common/validation"
	"directory-console/internal/models"
)

var (
	dyeingMachineTypes = []string{
		"Jigger", "Soft FLow", "Jet", "Winch", "Beam", "Air Flow", "Pad Stream",
	}
	fabricProcessingMachineTypes = []string{
		"Stenter",
		"Dryer",
		"Heat-setting",
		"Fabric Slitting",
		"Napping or Raising",
		"Raising",
		"Padding",
		"Mercerizing - Knit",
		"Peaching",
		"Sueding",
		"Embossing",
		"Calendring",
		"Mercherizing - Woven",
	}
	fabricFinishingMachineTypes = []string{"Compacting", "Steaming", "Calendring"}
)

// DyeingRecord describes fabric dyeing machines. Capacities are in kg.
type DyeingRecord struct {
	DyeingMachineType string   `json:"DyeingMachineType"`
	MinimumCapacity   *float64 `json:"minimumCapacity,omitempty"`
	MaximumCapacity   *float64 `json:"maximumCapacity,omitempty"`
	TypeOfFabric      []string `json:"typeOfFabric"`
	Maker             string   `json:"Maker,omitempty"`
	NoOfMachines      int      `json:"noOfMachines"`
}

func (DyeingRecord) UnitType() models.UnitType { return models.UnitDyeing }

func (DyeingRecord) machineRecord() {}

func (r DyeingRecord) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if r.DyeingMachineType == "" {
		errs.Add("DyeingMachineType", "Machine type is required")
	}
	if r.NoOfMachines < 1 {
		errs.Add("noOfMachines", "At least 1 machine required")
	}
	// Jiggers run open width only, so the fabric form is implied.
	if r.DyeingMachineType != "Jigger" && len(r.TypeOfFabric) == 0 {
		errs.Add("typeOfFabric", "Fabric type is required")
	}
	return errs
}

var dyeingSpec = formSpec[DyeingRecord]{
	unit: models.UnitDyeing,
	fields: []Field{
		{Name: "DyeingMachineType", Label: "Machine Type", Kind: KindSelect, Options: dyeingMachineTypes, Required: true},
		{Name: "minimumCapacity", Label: "Minimum Capacity (kg)", Kind: KindNumber, Min: validation.Float64Ptr(0)},
		{Name: "maximumCapacity", Label: "Maximum Capacity (kg)", Kind: KindNumber, Min: validation.Float64Ptr(0)},
		{Name: "typeOfFabric", Label: "Type of Fabric", Kind: KindMultiSelect, Options: fabricForms},
		{Name: "Maker", Label: "Maker", Kind: KindText},
		{Name: "noOfMachines", Label: "Number of Machines", Kind: KindInteger, Required: true, Min: validation.Float64Ptr(1)},
	},
	defaults: func() DyeingRecord {
		return DyeingRecord{DyeingMachineType: "Jigger", TypeOfFabric: []string{}, NoOfMachines: 1}
	},
}

// FabricProcessingRecord describes stenters, dryers and similar lines.
type FabricProcessingRecord struct {
	MachineType      string   `json:"machineType"`
	TypeOfFabric     []string `json:"typeOfFabric"`
	MaxWidthOfFabric float64  `json:"maxWidthOfFabric"`
	MachineBrand     string   `json:"machineBrand"`
	NoOfMachines     int      `json:"noOfMachines"`
}

func (FabricProcessingRecord) UnitType() models.UnitType { return models.UnitFabricProcessing }

func (FabricProcessingRecord) machineRecord() {}

func (r FabricProcessingRecord) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if r.MachineType == "" {
		errs.Add("machineType", "Required")
	}
	if r.MaxWidthOfFabric <= 0 {
		errs.Add("maxWidthOfFabric", "Width must be positive")
	}
	if strings.TrimSpace(r.MachineBrand) == "" {
		errs.Add("machineBrand", "Machine brand is required")
	}
	if r.NoOfMachines <= 0 {
		errs.Add("noOfMachines", "Machines must be positive")
	}
	return errs
}

var fabricProcessingSpec = formSpec[FabricProcessingRecord]{
	unit: models.UnitFabricProcessing,
	fields: []Field{
		{Name: "machineType", Label: "Machine Type", Kind: KindSelect, Options: fabricProcessingMachineTypes, Required: true},
		{Name: "typeOfFabric", Label: "Type of Fabric", Kind: KindMultiSelect, Options: fabricForms},
		{Name: "maxWidthOfFabric", Label: "Max Width of Fabric (inch)", Kind: KindNumber, Required: true, Min: validation.Float64Ptr(1)},
		{Name: "machineBrand", Label: "Machine Brand", Kind: KindText, Required: true},
		{Name: "noOfMachines", Label: "Number of Machines", Kind: KindInteger, Required: true, Min: validation.Float64Ptr(1)},
	},
	defaults: func() FabricProcessingRecord {
		return FabricProcessingRecord{
			MachineType:      "Stenter",
			TypeOfFabric:     []string{},
			MaxWidthOfFabric: 1,
			NoOfMachines:     1,
		}
	},
}

// FabricFinishingRecord describes compactors and steamers.
type FabricFinishingRecord struct {
	MachineType      string  `json:"machineType"`
	TypeOfFabric     string  `json:"typeOfFabric"`
	MaxWidthOfFabric float64 `json:"maxWidthOfFabric"`
	MachineBrand     string  `json:"machineBrand"`
	NoOfMachines     int     `json:"noOfMachines"`
}

func (FabricFinishingRecord) UnitType() models.UnitType { return models.UnitFabricFinishing }

func (FabricFinishingRecord) machineRecord() {}

func (r FabricFinishingRecord) Validate() validation.FieldErrors {
	errs := validation.FieldErrors{}
	if r.MachineType == "" {
		errs.Add("machineType", "Required")
	}
	if r.TypeOfFabric == "" {
		errs.Add("typeOfFabric", "Required")
	}
	if r.MaxWidthOfFabric <= 0 {
		errs.Add("maxWidthOfFabric", "Width must be positive")
	}
	if strings.TrimSpace(r.MachineBrand) == "" {
		errs.Add("machineBrand", "Brand is required")
	}
	if r.NoOfMachines <= 0 {
		errs.Add("noOfMachines", "Machines must be positive")
	}
	return errs
}

var fabricFinishingSpec = formSpec[FabricFinishingRecord]{
	unit: models.UnitFabricFinishing,
	fields: []Field{
		{Name: "machineType", Label: "Machine Type", Kind: KindSelect, Options: fabricFinishingMachineTypes, Required: true},
		{Name: "typeOfFabric", Label: "Type of Fabric", Kind: KindSelect, Options: fabricForms, Required: true},
		{Name: "maxWidthOfFabric", Label: "Max Width of Fabric (inch)", Kind: KindNumber, Required: true, Min: validation.Float64Ptr(1)},
		{Name: "machineBrand", Label: "Machine Brand", Kind: KindText, Required: true},
		{Name: "noOfMachines", Label: "Number of Machines", Kind: KindInteger, Required: true, Min: validation.Float64Ptr(1)},
	},
	defaults: func() FabricFinishingRecord {
		return FabricFinishingRecord{
			MachineType:      "Compacting",
			TypeOfFabric:     "Tubular",
			MaxWidthOfFabric: 1,
			NoOfMachines:     1,
		}
	},
}
