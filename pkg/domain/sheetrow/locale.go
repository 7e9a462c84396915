package sheetrow

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	secondsInADay = 86400
	durationScale = 6
)

// timestampLayouts are the shapes the API uses for date and datetime values.
var timestampLayouts = []string{time.RFC3339, "2006-01-02"}

// Locale renders timestamps and decimals the way the sheet's readers expect.
type Locale struct {
	Tag language.Tag
	// Location timestamps are converted to; nil means UTC.
	Location *time.Location
	Layout   string
}

// BrazilianPortuguese is dd/mm/yyyy hh:mm:ss with a decimal comma.
func BrazilianPortuguese(loc *time.Location) Locale {
	return Locale{
		Tag:      language.BrazilianPortuguese,
		Location: loc,
		Layout:   "02/01/2006 15:04:05",
	}
}

// Timestamp localizes an API timestamp. Empty input yields "" and input that
// does not parse is returned unchanged.
func (l Locale) Timestamp(raw string) string {
	if raw == "" {
		return ""
	}
	loc := l.Location
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(loc).Format(l.Layout)
		}
	}
	return raw
}

// Days converts seconds to days with exactly six fractional digits, using
// the locale's decimal separator and no grouping.
func (l Locale) Days(seconds float64) string {
	p := message.NewPrinter(l.Tag)
	return p.Sprintf("%v", number.Decimal(seconds/secondsInADay,
		number.Scale(durationScale),
		number.NoSeparator(),
	))
}
