package analysis

import "sp500-dashboard/src/models"

// SelectCompany transposes the catalog row for symbol into a record with the
// four display attributes. An absent symbol yields a record with no fields.
// When the catalog lists a symbol twice the first row wins.
func SelectCompany(catalog *models.MCatalog, symbol string) models.MCompanyRecord {
	record := models.MCompanyRecord{Symbol: symbol}
	if catalog == nil {
		return record
	}

	for _, row := range catalog.Rows {
		if row.Symbol != symbol {
			continue
		}
		record.Fields = []models.MCompanyField{
			{Name: models.FieldCompany, Value: row.Security},
			{Name: models.FieldSector, Value: row.Sector},
			{Name: models.FieldHeadquarter, Value: row.Headquarters},
			{Name: models.FieldFounded, Value: row.Founded},
		}
		break
	}
	return record
}
