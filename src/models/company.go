package models

// MCompanyField is one labeled attribute of a company record.
type MCompanyField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// -----------------------------------------------------------------------------

// MCompanyRecord is a catalog row transposed into a single column named after
// the selected symbol. Fields is empty when the symbol has no catalog row.
type MCompanyRecord struct {
	Symbol string          `json:"symbol"`
	Fields []MCompanyField `json:"fields"`
}

// Display attribute names, in presentation order.
const (
	FieldCompany     = "Company"
	FieldSector      = "Sector"
	FieldHeadquarter = "Headquarter"
	FieldFounded     = "Founded"
)

// -----------------------------------------------------------------------------

// Empty reports whether the record carries no attributes.
func (r MCompanyRecord) Empty() bool {
	return len(r.Fields) == 0
}

// -----------------------------------------------------------------------------

// Get returns the value stored under name.
func (r MCompanyRecord) Get(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
