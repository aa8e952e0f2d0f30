package form

import (
	"fmt"
	"gomarketplace_admin/internal/catalog/business/models"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// update применяет изменение к черновику под блокировкой.
func (f *Form) update(apply func(d *Draft)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrFormClosed
	}
	apply(&f.draft)
	return nil
}

func (f *Form) SetTitle(value string) error {
	return f.update(func(d *Draft) { d.Title = value })
}

func (f *Form) SetDescription(value string) error {
	return f.update(func(d *Draft) { d.Description = value })
}

// SetPrice принимает введённый текст; пустая строка сбрасывает цену.
func (f *Form) SetPrice(value string) error {
	price, err := parseNullDecimal(models.FieldPrice, value)
	if err != nil {
		return err
	}
	return f.update(func(d *Draft) { d.Price = price })
}

func (f *Form) SetDiscount(value string) error {
	discount, err := parseDecimal(models.FieldDiscount, value)
	if err != nil {
		return err
	}
	return f.update(func(d *Draft) { d.Discount = discount })
}

func (f *Form) SetWeight(value string) error {
	weight, err := parseDecimal(models.FieldWeight, value)
	if err != nil {
		return err
	}
	return f.update(func(d *Draft) { d.Weight = weight })
}

func (f *Form) SetStock(value string) error {
	value = strings.TrimSpace(value)
	stock := 0
	if value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %q is not a whole number", models.FieldStock, value)
		}
		stock = parsed
	}
	return f.update(func(d *Draft) { d.Stock = stock })
}

func (f *Form) SelectCategory(id string) error {
	return f.selectReference(models.KindCategories, id, func(d *Draft) { d.Category = id })
}

func (f *Form) SelectBrand(id string) error {
	return f.selectReference(models.KindBrands, id, func(d *Draft) { d.Brand = id })
}

func (f *Form) SelectStore(id string) error {
	return f.selectReference(models.KindStores, id, func(d *Draft) { d.Store = id })
}

// selectReference выпадающий список не может содержать значение, которого
// нет в справочнике; пустое значение снимает выбор.
func (f *Form) selectReference(kind models.ReferenceKind, id string, apply func(d *Draft)) error {
	if id != "" && !f.refs.Contains(kind, id) {
		return fmt.Errorf("%s %q: %w", kind, id, ErrUnknownReference)
	}
	return f.update(apply)
}

func (f *Form) SetLocalShipmentPolicy(value string) error {
	policy, err := parsePolicy(value)
	if err != nil {
		return err
	}
	return f.update(func(d *Draft) { d.LocalShipmentPolicy = policy })
}

func (f *Form) SetInternationalShipmentPolicy(value string) error {
	policy, err := parsePolicy(value)
	if err != nil {
		return err
	}
	return f.update(func(d *Draft) { d.InternationalShipmentPolicy = policy })
}

func (f *Form) SetCustomLocalShipmentCost(value string) error {
	cost, err := parseNullDecimal(models.FieldCustomLocalShipmentCost, value)
	if err != nil {
		return err
	}
	return f.update(func(d *Draft) { d.CustomLocalShipmentCost = cost })
}

func (f *Form) SetCustomInternationalShipmentCost(value string) error {
	cost, err := parseNullDecimal(models.FieldInternationalCustomShipmentCost, value)
	if err != nil {
		return err
	}
	return f.update(func(d *Draft) { d.CustomInternationalShipmentCost = cost })
}

func parsePolicy(value string) (models.ShipmentPolicy, error) {
	policy, err := models.ParsePolicy(strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%q: %w", value, ErrUnknownPolicy)
	}
	return policy, nil
}

func parseNullDecimal(field, value string) (decimal.NullDecimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	parsed, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%s: %q is not a number", field, value)
	}
	return decimal.NewNullDecimal(parsed), nil
}

func parseDecimal(field, value string) (decimal.Decimal, error) {
	parsed, err := parseNullDecimal(field, value)
	if err != nil {
		return decimal.Zero, err
	}
	if !parsed.Valid {
		return decimal.Zero, nil
	}
	return parsed.Decimal, nil
}
