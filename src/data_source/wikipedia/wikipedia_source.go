package wikipedia

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/interfaces"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/metrics"
	"sp500-dashboard/src/models"

	"github.com/PuerkitoBio/goquery"
)

const SourceName = "wikipedia"

// Header text of the constituents table mapped to catalog fields.
const (
	colSymbol       = "symbol"
	colSecurity     = "security"
	colSector       = "gics sector"
	colSubIndustry  = "gics sub-industry"
	colHeadquarters = "headquarters location"
	colDateAdded    = "date added"
	colCIK          = "cik"
	colFounded      = "founded"
)

var requiredColumns = []string{colSymbol, colSecurity, colSector, colHeadquarters, colFounded}

var footnoteRe = regexp.MustCompile(`\[[^\]]*\]`)

// -----------------------------------------------------------------------------

type WikipediaSource struct {
	url     string
	network interfaces.INetworkManager
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewWikipediaSource(url string, nm interfaces.INetworkManager, m *metrics.Metrics) *WikipediaSource {
	return &WikipediaSource{
		url:     url,
		network: nm,
		metrics: m,
		logger:  logger.NewLogger("WikipediaSource"),
	}
}

// -----------------------------------------------------------------------------

func (s *WikipediaSource) Name() string {
	return SourceName
}

// -----------------------------------------------------------------------------

// FetchCatalog downloads the list page and parses its constituents table.
func (s *WikipediaSource) FetchCatalog(ctx context.Context) (catalog *models.MCatalog, err error) {
	start := time.Now()
	defer func() { s.metrics.ObserveFetch(SourceName, start, err) }()

	body, err := s.network.Get(ctx, s.url, nil)
	if err != nil {
		return nil, helpers.NewFetchError(SourceName, "catalog request failed", err)
	}

	catalog, err = ParseCatalog(body)
	if err != nil {
		return nil, err
	}
	catalog.FetchedAt = time.Now().UTC()

	s.logger.Info("Loaded %d catalog rows", len(catalog.Rows))
	return catalog, nil
}

// -----------------------------------------------------------------------------

// ParseCatalog extracts the constituents table from page HTML. The table with
// id "constituents" is preferred; otherwise the first wikitable is used.
func ParseCatalog(page []byte) (*models.MCatalog, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, helpers.NewFetchError(SourceName, "invalid catalog HTML", err)
	}

	table := doc.Find("table#constituents").First()
	if table.Length() == 0 {
		table = doc.Find("table.wikitable").First()
	}
	if table.Length() == 0 {
		return nil, helpers.NewFetchError(SourceName, "constituents table not found", nil)
	}

	rows := table.Find("tr")
	columns := headerIndex(rows.First())
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, helpers.NewFetchError(SourceName, fmt.Sprintf("constituents table has no %q column", col), nil)
		}
	}

	catalog := &models.MCatalog{}
	rows.Slice(1, rows.Length()).Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}

		cell := func(col string) string {
			idx, ok := columns[col]
			if !ok || idx >= cells.Length() {
				return ""
			}
			return cellText(cells.Eq(idx))
		}

		symbol := cell(colSymbol)
		if symbol == "" {
			return
		}

		catalog.Rows = append(catalog.Rows, models.MCatalogRow{
			Symbol:       symbol,
			Security:     cell(colSecurity),
			Sector:       cell(colSector),
			SubIndustry:  cell(colSubIndustry),
			Headquarters: cell(colHeadquarters),
			DateAdded:    cell(colDateAdded),
			CIK:          cell(colCIK),
			Founded:      cell(colFounded),
		})
	})

	if len(catalog.Rows) == 0 {
		return nil, helpers.NewFetchError(SourceName, "constituents table has no rows", nil)
	}
	return catalog, nil
}

// -----------------------------------------------------------------------------

func headerIndex(header *goquery.Selection) map[string]int {
	columns := make(map[string]int)
	header.Find("th, td").Each(func(i int, cell *goquery.Selection) {
		name := strings.ToLower(cellText(cell))
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	})
	return columns
}

// -----------------------------------------------------------------------------

func cellText(cell *goquery.Selection) string {
	text := footnoteRe.ReplaceAllString(cell.Text(), "")
	return strings.Join(strings.Fields(text), " ")
}
