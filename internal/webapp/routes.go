package webapp

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/dalfonso89/currency-converter/internal/models"
)

const (
	regionFormErrors      = "form-errors"
	regionResult          = "result"
	regionHistoricalTable = "historical-table"
)

func (session *Session) renderNotFound(task *Task, path string) {
	task.Render(renderError(ColorYellow,
		"Error 404 - Page NOT Found!",
		fmt.Sprintf("The path '%s' does not exist on this site", path)))
}

// renderRates shows the latest rates
func (session *Session) renderRates(task *Task) {
	task.Render(renderRates(nil))

	task.Go(func(ctx context.Context) {
		rateSet, err := session.client.backend.Rates(ctx)
		if err != nil {
			task.ShowError(err)
			return
		}
		task.Render(renderRates(&rateSet))
	})
}

// renderExchange shows the conversion form once the symbol list is loaded
func (session *Session) renderExchange(task *Task) {
	task.Render(renderExchange(exchangeView{}))

	task.Go(func(ctx context.Context) {
		symbolSet, err := session.client.backend.Symbols(ctx)
		if err != nil {
			task.ShowError(err)
			return
		}
		if task.Render(renderExchange(exchangeView{Symbols: &symbolSet})) {
			task.Wire(func(submitTask *Task, form url.Values) {
				session.submitConversion(submitTask, form, &symbolSet)
			})
		}
	})
}

// submitConversion keeps the submitted values in the form and fills the result region
func (session *Session) submitConversion(task *Task, form url.Values, symbolSet *models.SymbolSet) {
	values := parseConversionForm(form)
	task.Render(renderExchange(exchangeView{
		Symbols: symbolSet,
		From:    values.From,
		To:      values.To,
		Amount:  values.Amount,
	}))

	if messages := session.client.formErrors(values); len(messages) > 0 {
		markup, err := renderFormErrors(messages)
		task.RenderRegion(regionFormErrors, markup, err)
		return
	}
	task.RenderRegion(regionFormErrors, "", nil)

	amount, err := decimal.NewFromString(values.Amount)
	if err != nil {
		markup, renderErr := renderFormErrors([]string{"amount must be a decimal number"})
		task.RenderRegion(regionFormErrors, markup, renderErr)
		return
	}

	task.SetLoading(regionResult, true)
	task.Go(func(ctx context.Context) {
		defer task.SetLoading(regionResult, false)

		result, err := session.client.backend.Convert(ctx, models.ConversionRequest{From: values.From, To: values.To})
		if err != nil {
			task.ShowError(err)
			return
		}
		markup, err := renderConversionResult(ConversionText(values.To, result.Rate, amount))
		task.RenderRegion(regionResult, markup, err)
	})
}

// ConversionText formats rate × amount the way the result region shows it
func ConversionText(to string, rate float64, amount decimal.Decimal) string {
	return fmt.Sprintf("%s %s", to, decimal.NewFromFloat(rate).Mul(amount).String())
}

// renderHistorical shows the date form; rates are fetched on submit
func (session *Session) renderHistorical(task *Task) {
	if task.Render(renderHistorical()) {
		task.Wire(session.submitHistorical)
	}
}

func (session *Session) submitHistorical(task *Task, form url.Values) {
	values := parseHistoricalForm(form)
	if messages := session.client.formErrors(values); len(messages) > 0 {
		markup, err := renderFormErrors(messages)
		task.RenderRegion(regionFormErrors, markup, err)
		return
	}
	task.RenderRegion(regionFormErrors, "", nil)

	task.SetLoading(regionHistoricalTable, true)
	task.Go(func(ctx context.Context) {
		defer task.SetLoading(regionHistoricalTable, false)

		rateSet, err := session.client.backend.Historical(ctx, models.HistoricalRequest{Date: values.Date})
		if err != nil {
			task.ShowError(err)
			return
		}
		rateSet.Date = values.Date
		markup, err := renderRatesTable(rateSet)
		task.RenderRegion(regionHistoricalTable, markup, err)
	})
}
