package form

import (
	"errors"
	"fmt"
	"gomarketplace_admin/internal/catalog/business/models"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Draft несохранённый товар, который редактирует форма.
type Draft struct {
	Title                           string                `form:"title" validate:"required"`
	Description                     string                `form:"description" validate:"required"`
	Price                           decimal.NullDecimal   `form:"price" validate:"-"`
	Discount                        decimal.Decimal       `form:"discount" validate:"-"`
	Weight                          decimal.Decimal       `form:"weight" validate:"-"`
	Stock                           int                   `form:"stock" validate:"gte=0"`
	Category                        string                `form:"category" validate:"required"`
	Brand                           string                `form:"brand" validate:"required"`
	Store                           string                `form:"store" validate:"required"`
	LocalShipmentPolicy             models.ShipmentPolicy `form:"localShipmentPolicy" validate:"oneof=standard free custom"`
	InternationalShipmentPolicy     models.ShipmentPolicy `form:"internationalShipmentPolicy" validate:"oneof=standard free custom"`
	// стоимости проверяет atLeastOne и только при политике custom
	CustomLocalShipmentCost         decimal.NullDecimal   `form:"customLocalShipmentCost" validate:"-"`
	CustomInternationalShipmentCost decimal.NullDecimal   `form:"internationalCustomShipmentCost" validate:"-"`
}

// DefaultDraft значения полей при открытии формы и после успешного создания.
func DefaultDraft() Draft {
	return Draft{
		Discount:                    decimal.Zero,
		Weight:                      decimal.Zero,
		Stock:                       1,
		LocalShipmentPolicy:         models.PolicyStandard,
		InternationalShipmentPolicy: models.PolicyStandard,
	}
}

// Equal сравнивает черновики с учётом decimal-полей.
func (d Draft) Equal(other Draft) bool {
	return d.Title == other.Title &&
		d.Description == other.Description &&
		nullEqual(d.Price, other.Price) &&
		d.Discount.Equal(other.Discount) &&
		d.Weight.Equal(other.Weight) &&
		d.Stock == other.Stock &&
		d.Category == other.Category &&
		d.Brand == other.Brand &&
		d.Store == other.Store &&
		d.LocalShipmentPolicy == other.LocalShipmentPolicy &&
		d.InternationalShipmentPolicy == other.InternationalShipmentPolicy &&
		nullEqual(d.CustomLocalShipmentCost, other.CustomLocalShipmentCost) &&
		nullEqual(d.CustomInternationalShipmentCost, other.CustomInternationalShipmentCost)
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

const (
	MsgSelectImages       = "Please select images."
	MsgCustomShippingCost = "Please enter custom shipping cost"
)

// ValidationError ошибка проверки формы, показанная пользователю.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var one = decimal.NewFromInt(1)

// fieldOrder порядок полей на экране; ошибки отдаются в этом порядке.
var fieldOrder = []string{
	models.FieldTitle,
	models.FieldDescription,
	models.FieldPrice,
	models.FieldDiscount,
	models.FieldWeight,
	models.FieldStock,
	models.FieldCategory,
	models.FieldBrand,
	models.FieldStore,
	models.FieldLocalShipmentPolicy,
	models.FieldInternationalShipmentPolicy,
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("form")
		if i := strings.Index(name, ","); i >= 0 {
			name = name[:i]
		}
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateDraft проверки при отправке, по порядку: изображения, стоимость
// локальной доставки, стоимость международной доставки, затем поля.
func validateDraft(v *validator.Validate, d Draft, previews int) *ValidationError {
	if previews < 1 {
		return &ValidationError{Field: "images", Message: MsgSelectImages}
	}
	if d.LocalShipmentPolicy == models.PolicyCustom && !atLeastOne(d.CustomLocalShipmentCost) {
		return &ValidationError{Field: models.FieldCustomLocalShipmentCost, Message: MsgCustomShippingCost}
	}
	if d.InternationalShipmentPolicy == models.PolicyCustom && !atLeastOne(d.CustomInternationalShipmentCost) {
		return &ValidationError{Field: models.FieldInternationalCustomShipmentCost, Message: MsgCustomShippingCost}
	}
	return validateFields(v, d)
}

func atLeastOne(cost decimal.NullDecimal) bool {
	return cost.Valid && cost.Decimal.GreaterThanOrEqual(one)
}

func validateFields(v *validator.Validate, d Draft) *ValidationError {
	problems := map[string]string{}

	if err := v.Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return &ValidationError{Field: "_", Message: err.Error()}
		}
		for _, fe := range fieldErrs {
			problems[fe.Field()] = messageForTag(fe.Field(), fe.Tag(), fe.Param())
		}
	}

	if !d.Price.Valid {
		problems[models.FieldPrice] = messageForTag(models.FieldPrice, "required", "")
	} else if d.Price.Decimal.IsNegative() {
		problems[models.FieldPrice] = messageForTag(models.FieldPrice, "gte", "0")
	}
	if d.Discount.IsNegative() {
		problems[models.FieldDiscount] = messageForTag(models.FieldDiscount, "gte", "0")
	}
	if d.Weight.IsNegative() {
		problems[models.FieldWeight] = messageForTag(models.FieldWeight, "gte", "0")
	}

	for _, field := range fieldOrder {
		if msg, ok := problems[field]; ok {
			return &ValidationError{Field: field, Message: msg}
		}
	}
	return nil
}

func messageForTag(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("Please fill in %s", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, tag)
	}
}
