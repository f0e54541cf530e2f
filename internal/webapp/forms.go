package webapp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

type conversionForm struct {
	From   string `validate:"required"`
	To     string `validate:"required"`
	Amount string `validate:"required,numeric"`
}

type historicalForm struct {
	Date string `validate:"required"`
}

func parseConversionForm(form url.Values) conversionForm {
	return conversionForm{
		From:   strings.TrimSpace(form.Get("from")),
		To:     strings.TrimSpace(form.Get("to")),
		Amount: strings.TrimSpace(form.Get("amount")),
	}
}

func parseHistoricalForm(form url.Values) historicalForm {
	return historicalForm{Date: strings.TrimSpace(form.Get("date"))}
}

// formErrors validates form and returns one message per failing field
func (client *Client) formErrors(form interface{}) []string {
	err := client.validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := strings.ToLower(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s must have a value", field))
		case "numeric":
			messages = append(messages, fmt.Sprintf("%s must be a decimal number", field))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return messages
}
