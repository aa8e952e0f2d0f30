package form

import (
	"context"
	"errors"
	"gomarketplace_admin/internal/catalog/business/models"
	"gomarketplace_admin/internal/catalog/business/mutation"
	"gomarketplace_admin/metrics"
	"strconv"

	"github.com/shopspring/decimal"
)

// Submit проверяет черновик и отправляет его в мутацию. Ошибка проверки
// показывается через notifier и возвращается как *ValidationError; в этом
// случае мутация не вызывается.
func (f *Form) Submit(ctx context.Context) error {
	if f.sink.Result().Loading {
		return ErrSubmitInFlight
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrFormClosed
	}
	f.phase = PhaseValidating
	draft := f.draft
	previews := len(f.previews)
	files := f.activeFiles()
	f.mu.Unlock()

	if verr := validateDraft(f.validate, draft, previews); verr != nil {
		f.setPhase(PhaseIdle)
		f.metrics.Record(metrics.OutcomeRejected)
		f.notifier.Error(verr.Message)
		return verr
	}

	payload := f.buildPayload(draft, files)

	f.setPhase(PhaseSubmitting)
	if err := f.sink.Submit(ctx, payload, f.toasts); err != nil {
		f.setPhase(PhaseIdle)
		if errors.Is(err, mutation.ErrInFlight) {
			return ErrSubmitInFlight
		}
		return err
	}
	return nil
}

// buildPayload поля в порядке экрана, затем по одной части на файл.
// Текст уходит ровно в том виде, в каком прошёл проверку.
func (f *Form) buildPayload(d Draft, files []models.ImageFile) *models.Payload {
	p := &models.Payload{}
	p.Add(models.FieldTitle, d.Title)
	p.Add(models.FieldDescription, d.Description)
	p.Add(models.FieldPrice, nullString(d.Price))
	p.Add(models.FieldDiscount, d.Discount.String())
	p.Add(models.FieldWeight, d.Weight.String())
	p.Add(models.FieldStock, strconv.Itoa(d.Stock))
	p.Add(models.FieldCategory, d.Category)
	p.Add(models.FieldBrand, d.Brand)
	p.Add(models.FieldStore, d.Store)
	p.Add(models.FieldLocalShipmentPolicy, string(d.LocalShipmentPolicy))
	p.Add(models.FieldInternationalShipmentPolicy, string(d.InternationalShipmentPolicy))
	p.Add(models.FieldCustomLocalShipmentCost, nullString(d.CustomLocalShipmentCost))
	p.Add(models.FieldInternationalCustomShipmentCost, nullString(d.CustomInternationalShipmentCost))
	for _, file := range files {
		p.Attach(file)
	}
	return p
}

func nullString(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}

// onMutation реакция на изменение состояния мутации: после успеха флаг
// сбрасывается, а форма возвращается к значениям по умолчанию.
func (f *Form) onMutation(result mutation.Result) {
	if result.Loading {
		return
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	if !result.Success {
		if f.phase == PhaseSubmitting {
			f.phase = PhaseIdle
		}
		f.mu.Unlock()
		return
	}
	f.phase = PhaseResetting
	f.mu.Unlock()

	f.sink.ResetResult()
	f.reset()
}

func (f *Form) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.draft = DefaultDraft()
	f.files = nil
	f.failed = nil
	f.previews = nil
	f.generation++
	f.phase = PhaseIdle
}
