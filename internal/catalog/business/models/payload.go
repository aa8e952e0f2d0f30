package models

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// Имена полей multipart-запроса создания товара.
const (
	FieldTitle                           = "title"
	FieldDescription                     = "description"
	FieldPrice                           = "price"
	FieldDiscount                        = "discount"
	FieldWeight                          = "weight"
	FieldStock                           = "stock"
	FieldCategory                        = "category"
	FieldBrand                           = "brand"
	FieldStore                           = "store"
	FieldLocalShipmentPolicy             = "localShipmentPolicy"
	FieldInternationalShipmentPolicy     = "internationalShipmentPolicy"
	FieldCustomLocalShipmentCost         = "customLocalShipmentCost"
	FieldInternationalCustomShipmentCost = "internationalCustomShipmentCost"
)

type PayloadField struct {
	Name  string
	Value string
}

// Payload данные формы в порядке отправки: сначала поля, затем файлы.
type Payload struct {
	Fields []PayloadField
	Files  []ImageFile
}

func (p *Payload) Add(name, value string) {
	p.Fields = append(p.Fields, PayloadField{Name: name, Value: value})
}

func (p *Payload) Attach(file ImageFile) {
	p.Files = append(p.Files, file)
}

// Value возвращает первое значение поля и признак его наличия.
func (p *Payload) Value(name string) (string, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Encode собирает multipart-тело. Каждый файл уходит отдельной частью,
// ключ части совпадает с исходным именем файла.
func (p *Payload) Encode() (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, f := range p.Fields {
		if err := writer.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.Name, err)
		}
	}
	for _, file := range p.Files {
		part, err := writer.CreateFormFile(file.Name, file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create part for %s: %w", file.Name, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write file %s: %w", file.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}
