package webapp

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/dalfonso89/currency-converter/internal/models"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

var pages = template.Must(template.New("pages").
	Funcs(template.FuncMap{"region": slot}).
	ParseFS(templateFS, "templates/*.gohtml"))

// Error colors
const (
	ColorRed    = "red"
	ColorYellow = "yellow"
)

// MenuItem is one entry of the navigation menu
type MenuItem struct {
	Title  string
	Href   string
	Active bool
}

// Menu lists the navigation entries in display order
var Menu = []MenuItem{
	{Title: "Currency Rates", Href: "/"},
	{Title: "Exchange Rate", Href: "/exchange"},
	{Title: "Historical Rates", Href: "/historical"},
}

type errorView struct {
	Color   string
	Title   string
	Message string
}

func render(name string, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func renderRates(rateSet *models.RateSet) (template.HTML, error) {
	return render("rates", rateSet)
}

func renderRatesTable(rateSet models.RateSet) (template.HTML, error) {
	return render("rates-table", rateSet)
}

// exchangeView is the exchange page: the symbol list (nil while loading) and
// the form values to show
type exchangeView struct {
	Symbols *models.SymbolSet
	From    string
	To      string
	Amount  string
}

func renderExchange(view exchangeView) (template.HTML, error) {
	return render("exchange", view)
}

func renderHistorical() (template.HTML, error) {
	return render("historical", nil)
}

func renderConversionResult(text string) (template.HTML, error) {
	return render("conversion-result", text)
}

func renderFormErrors(messages []string) (template.HTML, error) {
	return render("form-errors", messages)
}

func renderError(color, title, message string) (template.HTML, error) {
	return render("error", errorView{Color: color, Title: title, Message: message})
}

// RenderDocument writes the entry page with the view's mount point and menu state
func RenderDocument(w io.Writer, view *View) error {
	active := view.Active()
	menu := make([]MenuItem, len(Menu))
	for i, item := range Menu {
		item.Active = item.Href == active
		menu[i] = item
	}

	return pages.ExecuteTemplate(w, "document", struct {
		Menu  []MenuItem
		Mount template.HTML
	}{
		Menu:  menu,
		Mount: view.Markup(),
	})
}

// menuItemFor returns the href of the first menu entry ending with path
func menuItemFor(path string) (string, bool) {
	for _, item := range Menu {
		if strings.HasSuffix(item.Href, path) {
			return item.Href, true
		}
	}
	return "", false
}
