package trademaster

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FlexString decodes a JSON value that the vendor sends sometimes as a string
// and sometimes as a bare number.
type FlexString string

func (s *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

func (s FlexString) String() string {
	return string(s)
}

// Int parses the value as an integer; malformed or empty values yield zero.
func (s FlexString) Int() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(s)))
	if err != nil {
		f, ferr := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
		if ferr != nil {
			return 0
		}
		return int(f)
	}
	return n
}

// Float parses the value as a float; the vendor uses both dot and comma as
// the decimal separator. Malformed or empty values yield zero.
func (s FlexString) Float() float64 {
	v := strings.ReplaceAll(strings.TrimSpace(string(s)), ",", ".")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// Zero reports whether the value is empty or the vendor's "0" placeholder.
func (s FlexString) Zero() bool {
	return s.Int() == 0
}

// CatalogItem is one entry of the vendor's flat category list.
type CatalogItem struct {
	ID          FlexString `json:"idZvena"`
	Parent      FlexString `json:"idParent"`
	Name        string     `json:"nameZvena"`
	Order       FlexString `json:"poryadok"`
	Description string     `json:"opisanie"`
	Link        string     `json:"link"`
	Ind1        FlexString `json:"ind1"`
	Ind2        FlexString `json:"ind2"`
	Ind3        FlexString `json:"ind3"`
	Photo       string     `json:"foto"`
}

// Validate checks the fields without which a category cannot be reconciled.
func (i CatalogItem) Validate() error {
	return requireFields("category", field{"idZvena", i.ID.String()}, field{"nameZvena", i.Name})
}

// ProductItem is one entry of a vendor product list page.
type ProductItem struct {
	ID             FlexString `json:"idTovar"`
	Name           string     `json:"name"`
	Order          FlexString `json:"poryadok"`
	Description    string     `json:"opisanie"`
	Extra          string     `json:"opisanieDop"`
	Link           string     `json:"link"`
	Ind1           FlexString `json:"ind1"`
	Ind2           FlexString `json:"ind2"`
	Ind3           FlexString `json:"ind3"`
	VendorCode     string     `json:"artikul"`
	Barcode        string     `json:"strihKod"`
	PriceCost      FlexString `json:"sebestomost"`
	Price          FlexString `json:"price"`
	PriceWholesale FlexString `json:"opt_price"`
	Unit           string     `json:"edIzmer"`
	Volume         FlexString `json:"ves"`
	Country        string     `json:"strana"`
	Manufacturer   string     `json:"proizv"`
	Tags           string     `json:"tags"`
	ChangeDate     string     `json:"changeDate"`
	Stock          FlexString `json:"kolvo"`
	CategoryID     FlexString `json:"vStrukture"`
	Photo          string     `json:"foto"`
}

// Validate checks the fields without which a product cannot be reconciled.
func (i ProductItem) Validate() error {
	return requireFields("product", field{"idTovar", i.ID.String()}, field{"name", i.Name})
}

// ChangedAt parses the vendor's change timestamp. The vendor is not strict
// about the format, so a couple of layouts are tried.
func (i ProductItem) ChangedAt() time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", "02.01.2006 15:04:05", "02.01.2006"} {
		if t, err := time.Parse(layout, strings.TrimSpace(i.ChangeDate)); err == nil {
			return t
		}
	}
	return time.Time{}
}

type field struct {
	name  string
	value string
}

func requireFields(entity string, fields ...field) error {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Entity: entity, Missing: missing}
	}
	return nil
}

// ValidationError marks a malformed remote item. It is recoverable: the item
// is skipped and the pass continues.
type ValidationError struct {
	Entity  string
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s item: missing %s", e.Entity, strings.Join(e.Missing, ", "))
}

// DecodeText reverses the vendor's url-encoding of free-text fields. Values
// that fail to decode are returned as-is.
func DecodeText(s string) string {
	decoded, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes HTML markup from a decoded description, for use in meta
// descriptions.
func StripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}
