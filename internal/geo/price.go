package geo

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ConsultLabel is shown when a property has no usable price.
const ConsultLabel = "Consultar"

var esMX = message.NewPrinter(language.MustParse("es-MX"))

// PriceLabel formats a price the way the site shows it: Mexican locale
// grouping, no decimal places, "Consultar" placeholder when absent.
func PriceLabel(price *float64) string {
	if price == nil {
		return ConsultLabel
	}
	return esMX.Sprintf("$%v MXN", number.Decimal(*price, number.MaxFractionDigits(0)))
}
