package drafts

import (
	"encoding/csv"
	"fmt"
	"gomarketplace_admin/internal/catalog/business/models"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const imagesColumn = "images"

// columnSetter записывает ячейку в соответствующее поле черновика.
type columnSetter func(s *Spec, cell string)

var columns = map[string]columnSetter{
	models.FieldTitle:                           func(s *Spec, c string) { s.Title = c },
	models.FieldDescription:                     func(s *Spec, c string) { s.Description = c },
	models.FieldPrice:                           func(s *Spec, c string) { s.Price = decimalCell(c) },
	models.FieldDiscount:                        func(s *Spec, c string) { s.Discount = decimalCell(c) },
	models.FieldWeight:                          func(s *Spec, c string) { s.Weight = decimalCell(c) },
	models.FieldStock:                           func(s *Spec, c string) { s.Stock = c },
	models.FieldCategory:                        func(s *Spec, c string) { s.Category = c },
	models.FieldBrand:                           func(s *Spec, c string) { s.Brand = c },
	models.FieldStore:                           func(s *Spec, c string) { s.Store = c },
	models.FieldLocalShipmentPolicy:             func(s *Spec, c string) { s.LocalShipmentPolicy = c },
	models.FieldInternationalShipmentPolicy:     func(s *Spec, c string) { s.InternationalShipmentPolicy = c },
	models.FieldCustomLocalShipmentCost:         func(s *Spec, c string) { s.CustomLocalShipmentCost = decimalCell(c) },
	models.FieldInternationalCustomShipmentCost: func(s *Spec, c string) { s.CustomInternationalShipmentCost = decimalCell(c) },
	imagesColumn: func(s *Spec, c string) {
		for _, path := range strings.Split(c, ",") {
			if path = strings.TrimSpace(path); path != "" {
				s.Images = append(s.Images, path)
			}
		}
	},
}

// decimalCell выгрузки из Excel пишут дробную часть через запятую.
func decimalCell(cell string) string {
	return strings.ReplaceAll(cell, ",", ".")
}

// LoadCSV читает выгрузку с разделителем ";" и строкой заголовков.
// Неизвестные колонки пропускаются, колонка title обязательна.
func LoadCSV(r io.Reader, charset string) ([]Spec, error) {
	reader, err := decodeCharset(r, charset)
	if err != nil {
		return nil, err
	}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = ';'
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv read error: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("csv data is empty")
	}

	header := rows[0]
	setters := make([]columnSetter, len(header))
	hasTitle := false
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
		setters[i] = columns[name]
		if name == models.FieldTitle {
			hasTitle = true
		}
	}
	if !hasTitle {
		return nil, fmt.Errorf("csv header has no %q column", models.FieldTitle)
	}

	specs := make([]Spec, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		var spec Spec
		for i, cell := range row {
			if i < len(setters) && setters[i] != nil {
				setters[i](&spec, strings.TrimSpace(cell))
			}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func decodeCharset(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return r, nil
	case "windows-1251", "cp1251":
		return transform.NewReader(r, charmap.Windows1251.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
