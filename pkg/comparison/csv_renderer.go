package comparison

import (
	"bytes"
	"encoding/csv"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Renderer interface {
	Render(result Result) (string, error)
}

type CsvRendererImpl struct {
}

func NewCsvRenderer() *CsvRendererImpl {
	return &CsvRendererImpl{}
}

func (t *CsvRendererImpl) Render(result Result) (string, error) {
	data := make([][]string, 0, len(result.Entries)+2)
	data = append(data, []string{"Category", "Template", "Month", "Difference", "Change %", "Status"})

	for _, entry := range result.Entries {
		data = append(data, []string{
			entry.CategoryName,
			amountToString(entry.TemplateLimit),
			amountToString(entry.MonthLimit),
			amountToString(entry.Difference),
			entry.PercentChange.StringFixed(2),
			string(entry.Status),
		})
	}

	data = append(data, []string{
		"TOTAL",
		amountToString(result.TotalTemplate),
		amountToString(result.TotalMonth),
		amountToString(result.TotalDifference),
		"",
		"",
	})

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func amountToString(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
