package drafts

import (
	"errors"
	"fmt"
	"gomarketplace_admin/internal/catalog/business/models"
	"gomarketplace_admin/pkg/business/service"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spec черновик товара в том виде, в каком он лежит в файле: все значения
// строками, изображения путями к файлам.
type Spec struct {
	Title                           string   `yaml:"title"`
	Description                     string   `yaml:"description"`
	Price                           string   `yaml:"price"`
	Discount                        string   `yaml:"discount"`
	Weight                          string   `yaml:"weight"`
	Stock                           string   `yaml:"stock"`
	Category                        string   `yaml:"category"`
	Brand                           string   `yaml:"brand"`
	Store                           string   `yaml:"store"`
	LocalShipmentPolicy             string   `yaml:"localShipmentPolicy"`
	InternationalShipmentPolicy     string   `yaml:"internationalShipmentPolicy"`
	CustomLocalShipmentCost         string   `yaml:"customLocalShipmentCost"`
	CustomInternationalShipmentCost string   `yaml:"internationalCustomShipmentCost"`
	Images                          []string `yaml:"images"`

	// каталог файла черновика, от него считаются относительные пути
	dir string
}

// FieldSetter поля формы, которые заполняет черновик.
type FieldSetter interface {
	SetTitle(value string) error
	SetDescription(value string) error
	SetPrice(value string) error
	SetDiscount(value string) error
	SetWeight(value string) error
	SetStock(value string) error
	SelectCategory(id string) error
	SelectBrand(id string) error
	SelectStore(id string) error
	SetLocalShipmentPolicy(value string) error
	SetInternationalShipmentPolicy(value string) error
	SetCustomLocalShipmentCost(value string) error
	SetCustomInternationalShipmentCost(value string) error
}

// ApplyTo переносит значения в форму в порядке полей на экране. Пустые
// значения пропускаются, чтобы остались значения по умолчанию.
func (s Spec) ApplyTo(form FieldSetter) error {
	steps := []struct {
		field string
		value string
		set   func(string) error
	}{
		{models.FieldTitle, s.Title, form.SetTitle},
		{models.FieldDescription, s.Description, form.SetDescription},
		{models.FieldPrice, s.Price, form.SetPrice},
		{models.FieldDiscount, s.Discount, form.SetDiscount},
		{models.FieldWeight, s.Weight, form.SetWeight},
		{models.FieldStock, s.Stock, form.SetStock},
		{models.FieldCategory, s.Category, form.SelectCategory},
		{models.FieldBrand, s.Brand, form.SelectBrand},
		{models.FieldStore, s.Store, form.SelectStore},
		{models.FieldLocalShipmentPolicy, s.LocalShipmentPolicy, form.SetLocalShipmentPolicy},
		{models.FieldInternationalShipmentPolicy, s.InternationalShipmentPolicy, form.SetInternationalShipmentPolicy},
		{models.FieldCustomLocalShipmentCost, s.CustomLocalShipmentCost, form.SetCustomLocalShipmentCost},
		{models.FieldInternationalCustomShipmentCost, s.CustomInternationalShipmentCost, form.SetCustomInternationalShipmentCost},
	}
	for _, step := range steps {
		value := strings.TrimSpace(step.value)
		if value == "" {
			continue
		}
		if err := step.set(value); err != nil {
			return fmt.Errorf("field %s: %w", step.field, err)
		}
	}
	return nil
}

// Normalize чистит текст из выгрузок: разметку, ссылки и лишние пробелы.
// Вызывается до ApplyTo, поэтому форма проверяет уже очищенные значения.
func (s Spec) Normalize(text service.ITextService) Spec {
	s.Title = text.CleanTitle(s.Title)
	s.Description = text.CleanDescription(text.RemoveLinks(s.Description))
	return s
}

// ReadImages читает файлы изображений с диска. Имя части multipart это
// базовое имя файла.
func (s Spec) ReadImages() ([]models.ImageFile, error) {
	files := make([]models.ImageFile, 0, len(s.Images))
	for _, path := range s.Images {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if !filepath.IsAbs(path) && s.dir != "" {
			path = filepath.Join(s.dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", path, err)
		}
		files = append(files, models.ImageFile{Name: filepath.Base(path), Data: data})
	}
	return files, nil
}

// LoadYAML читает один или несколько YAML-документов, разделённых "---".
func LoadYAML(r io.Reader) ([]Spec, error) {
	decoder := yaml.NewDecoder(r)
	var specs []Spec
	for {
		var spec Spec
		err := decoder.Decode(&spec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode draft %d: %w", len(specs)+1, err)
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("draft file is empty")
	}
	return specs, nil
}

// LoadFile выбирает формат по расширению: .csv читается как выгрузка,
// всё остальное как YAML.
func LoadFile(path, charset string) ([]Spec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var specs []Spec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		specs, err = LoadCSV(file, charset)
	default:
		specs, err = LoadYAML(file)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range specs {
		specs[i].dir = dir
	}
	return specs, nil
}
