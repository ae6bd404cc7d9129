// Package query translates a pagination cursor and filter set into the
// canonical request sent to the loans endpoint, and back again on the server.
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"loandash/internal/models"
)

// Wire parameter names of the loans endpoint.
const (
	ParamPage          = "page"
	ParamPageSize      = "pageSize"
	ParamStatus        = "status"
	ParamMinAmount     = "minAmount"
	ParamMaxAmount     = "maxAmount"
	ParamApplicantName = "applicantName"
)

type Param struct {
	Key   string
	Value string
}

// Descriptor is a canonical, immutable request for one page of loans. Params
// are sorted by key and only contain predicates that were present.
type Descriptor struct {
	params []Param
}

// Build returns the descriptor for cursor and filter. Equal inputs always give
// equal descriptors.
func Build(cursor models.Cursor, filter models.Filter) Descriptor {
	cursor = cursor.Normalize()

	params := []Param{
		{Key: ParamPage, Value: strconv.Itoa(cursor.Page)},
		{Key: ParamPageSize, Value: strconv.Itoa(cursor.PageSize)},
	}
	if filter.Status != nil && *filter.Status != "" {
		params = append(params, Param{Key: ParamStatus, Value: string(*filter.Status)})
	}
	if filter.MinAmount != nil {
		params = append(params, Param{Key: ParamMinAmount, Value: strconv.Itoa(*filter.MinAmount)})
	}
	if filter.MaxAmount != nil {
		params = append(params, Param{Key: ParamMaxAmount, Value: strconv.Itoa(*filter.MaxAmount)})
	}
	if filter.ApplicantName != "" {
		params = append(params, Param{Key: ParamApplicantName, Value: filter.ApplicantName})
	}

	sort.Slice(params, func(i, j int) bool { return params[i].Key < params[j].Key })
	return Descriptor{params: params}
}

// Params returns a copy of the descriptor's parameters in canonical order.
func (d Descriptor) Params() []Param {
	out := make([]Param, len(d.params))
	copy(out, d.params)
	return out
}

// Has reports whether the descriptor carries key.
func (d Descriptor) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

func (d Descriptor) Get(key string) (string, bool) {
	for _, p := range d.params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

func (d Descriptor) Values() url.Values {
	v := make(url.Values, len(d.params))
	for _, p := range d.params {
		v.Set(p.Key, p.Value)
	}
	return v
}

// Encode renders the descriptor as a query string.
func (d Descriptor) Encode() string {
	return d.Values().Encode()
}

// Key identifies the descriptor for de-duplication. Two descriptors are equal
// exactly when their keys are.
func (d Descriptor) Key() string {
	return d.Encode()
}

func (d Descriptor) Equal(o Descriptor) bool {
	return d.Key() == o.Key()
}

func (d Descriptor) Cursor() models.Cursor {
	c, _ := Parse(d.Values())
	return c
}

func (d Descriptor) Filter() models.Filter {
	_, f := Parse(d.Values())
	return f
}

func (d Descriptor) String() string {
	return d.Encode()
}

// Parse reads a cursor and filter from request parameters. Missing or invalid
// pagination falls back to the defaults; an unknown status or an unparseable
// amount is treated as absent.
func Parse(values url.Values) (models.Cursor, models.Filter) {
	cursor := models.Cursor{
		Page:     parsePositive(values.Get(ParamPage)),
		PageSize: parsePositive(values.Get(ParamPageSize)),
	}.Normalize()

	var filter models.Filter
	if st, ok := models.ParseStatus(values.Get(ParamStatus)); ok {
		filter.Status = &st
	}
	filter.MinAmount = ParseAmount(values.Get(ParamMinAmount))
	filter.MaxAmount = ParseAmount(values.Get(ParamMaxAmount))
	filter.ApplicantName = values.Get(ParamApplicantName)

	return cursor, filter
}

// ParseAmount parses a decimal integer amount. Anything that is not one,
// including the empty string, yields nil.
func ParseAmount(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parsePositive(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return 0
	}
	return v
}
