package xml

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fiscalmx/cfdi-processor/internal/catalog"
	dec "github.com/fiscalmx/cfdi-processor/internal/decimal"
	"github.com/fiscalmx/cfdi-processor/internal/model"
)

// fechaLayout is the AAAA-MM-DDThh:mm:ss timestamp format of the CFDI
// schemas: local time, no offset, no fractional seconds.
const fechaLayout = "2006-01-02T15:04:05"

// binder maps etree elements onto the typed entity graph, validating
// field shapes and catalog membership as it goes. Lookups are by local
// tag name, so sibling order never matters; repeated children keep
// document order.
type binder struct {
	catalogs catalog.Store
}

// child returns the first direct child with the given local tag name.
func child(el *etree.Element, tag string) *etree.Element {
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// children returns every direct child with the given local tag name, in
// document order.
func children(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// indexed builds the path of the i-th (0-based) occurrence of tag.
func indexed(path, tag string, i int) string {
	return fmt.Sprintf("%s/%s[%d]", path, tag, i+1)
}

// attr returns the trimmed attribute value and whether it was present.
// Surrounding whitespace is never significant in CFDI attributes.
func attr(el *etree.Element, name string) (string, bool) {
	a := el.SelectAttr(name)
	if a == nil {
		return "", false
	}
	return strings.TrimSpace(a.Value), true
}

// requiredAttr returns the attribute value or a field-identified
// validation error when the attribute is absent.
func requiredAttr(el *etree.Element, path, name string) (string, error) {
	v, ok := attr(el, name)
	if !ok {
		return "", model.NewValidationError(path+"/"+name, nil, "required", "required attribute missing")
	}
	return v, nil
}

// requiredChild returns the named child element or a validation error.
func requiredChild(el *etree.Element, path, tag string) (*etree.Element, error) {
	c := child(el, tag)
	if c == nil {
		return nil, model.NewValidationError(path+"/"+tag, nil, "required", "required element missing")
	}
	return c, nil
}

// text validates the generic bounded CFDI string: rune length within
// [min, max], no pipe character.
func text(path, v string, min, max int) (string, error) {
	if !model.CheckText(v, min, max) {
		return "", model.NewValidationError(path, v, "pattern",
			fmt.Sprintf("must be %d to %d characters without the pipe character", min, max))
	}
	return v, nil
}

// amount parses a non-negative amount with at most six decimal places.
func amount(path, v string) (decimal.Decimal, error) {
	d, err := dec.FromString(v)
	if err != nil {
		return decimal.Zero, model.NewValidationError(path, v, "decimal", "not a decimal number")
	}
	if !dec.HasMaxSixDecimals(d) {
		return decimal.Zero, model.NewValidationError(path, v, "decimal_places", "more than six decimal places")
	}
	if !dec.IsNonNegative(d) {
		return decimal.Zero, model.NewValidationError(path, v, "non_negative", "negative values are not allowed")
	}
	return d, nil
}

// positiveAmount parses an amount of at least one millionth.
func positiveAmount(path, v string) (decimal.Decimal, error) {
	d, err := amount(path, v)
	if err != nil {
		return decimal.Zero, err
	}
	if !dec.IsPositiveAmount(d) {
		return decimal.Zero, model.NewValidationError(path, v, "positive", "must be at least 0.000001")
	}
	return d, nil
}

// fecha parses the CFDI timestamp format.
func fecha(path, v string) (time.Time, error) {
	t, err := time.Parse(fechaLayout, v)
	if err != nil {
		return time.Time{}, model.NewValidationError(path, v, "datetime", "must be expressed as AAAA-MM-DDThh:mm:ss")
	}
	return t, nil
}

// parseUUID parses a 36-character RFC 4122 fiscal folio.
func parseUUID(path, v string) (uuid.UUID, error) {
	id, err := uuid.Parse(v)
	if err != nil || len(v) != 36 {
		return uuid.Nil, model.NewValidationError(path, v, "uuid", "not a valid UUID")
	}
	return id, nil
}

// parseYear parses a four-digit year with a lower bound.
func parseYear(path, v string, min int) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return 0, model.NewValidationError(path, v, "range", fmt.Sprintf("must be a year of %d or later", min))
	}
	return n, nil
}

// code validates membership of v in the named catalog.
func (b *binder) code(path, v string, cat catalog.Name) (string, error) {
	if !b.catalogs.Contains(cat, v) {
		return "", model.NewValidationError(path, v, "catalog",
			fmt.Sprintf("not found in catalog %s", cat))
	}
	return v, nil
}

// rfc validates the taxpayer identifier shape.
func rfc(path, v string) (string, error) {
	if !model.IsRFC(v) {
		return "", model.NewValidationError(path, v, "pattern", "not a valid RFC")
	}
	return v, nil
}

// digits validates a fixed-width numeric code.
func digits(path, v string, width int) (string, error) {
	if !model.IsDigits(v, width) {
		return "", model.NewValidationError(path, v, "pattern",
			fmt.Sprintf("must be exactly %d digits", width))
	}
	return v, nil
}
