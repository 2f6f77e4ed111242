package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	pkgerrors "github.com/dmarroquin/creatorstats-backend/pkg/errors"
)

// expected column order: date, channelId, videoTitle, country, views,
// premiumViews, grossRevenue
const minFields = 7

// ParseCSV reads an analytics export into raw records. The first line is
// treated as a header when it mentions "date"; blank lines and lines with
// fewer than seven fields are skipped. Parsing fails only when no data row
// survives.
func ParseCSV(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records := []RawRecord{}
	first := true
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading export file")
		}

		if first {
			first = false
			if isHeader(fields) {
				continue
			}
		}
		if isBlank(fields) || len(fields) < minFields {
			continue
		}

		records = append(records, RawRecord{
			Date:         fields[0],
			ChannelID:    fields[1],
			ContentLabel: fields[2],
			CountryCode:  fields[3],
			Views:        fields[4],
			PremiumViews: fields[5],
			GrossRevenue: fields[6],
		})
	}

	if len(records) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "export file contains no data rows")
	}
	return records, nil
}

func isHeader(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	return strings.Contains(strings.ToLower(strings.Join(fields, ",")), "date")
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
