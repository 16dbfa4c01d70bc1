package permits

// PermitTypes lists the permit types the UI offers. The type field is not
// strictly enforced beyond being non-empty; unknown types simply get no
// default checklist.
var PermitTypes = []string{
	"Building Permit",
	"Electrical Permit",
	"Plumbing Permit",
	"Mechanical Permit",
	"Demolition Permit",
	"Zoning Permit",
}

type templateItem struct {
	Name     string
	Required bool
}

// buildingPermitChecklist is the only built-in default checklist. Creating
// a package of this type instantiates one document per entry.
var buildingPermitChecklist = []templateItem{
	{Name: "Building Permit Application", Required: true},
	{Name: "Site Plan", Required: true},
	{Name: "Architectural Drawings", Required: true},
	{Name: "Structural Drawings", Required: true},
	{Name: "Property Survey", Required: true},
	{Name: "Proof of Ownership", Required: true},
	{Name: "Contractor License", Required: true},
	{Name: "Energy Compliance Forms", Required: true},
	{Name: "Electrical Plans", Required: false},
	{Name: "Plumbing Plans", Required: false},
	{Name: "HVAC Plans", Required: false},
	{Name: "Homeowners Association Approval", Required: false},
}

func checklistTemplate(permitType string) []templateItem {
	if permitType == "Building Permit" {
		return buildingPermitChecklist
	}
	return nil
}
