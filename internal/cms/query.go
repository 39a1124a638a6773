package cms

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Condition is a single filter clause rendered as
// filter[field][operator]=value in the backend's query language.
type Condition struct {
	Field    string
	Operator string
	Value    string
}

func Eq(field, value string) Condition {
	return Condition{Field: field, Operator: "_eq", Value: value}
}

func In(field string, values []string) Condition {
	return Condition{Field: field, Operator: "_in", Value: strings.Join(values, ",")}
}

// Query describes one read operation against a collection. All knobs
// map one-to-one onto the backend's filter/sort/page query parameters.
type Query struct {
	Collection string
	Fields     []string
	Filter     []Condition
	Sort       []string
	Page       int
	// Limit caps the returned item count; -1 asks for everything.
	Limit     int
	Aggregate map[string]string
	GroupBy   []string
}

func (q Query) Path() string {
	if q.Collection == "users" {
		return "/users"
	}
	return "/items/" + q.Collection
}

func (q Query) Encode() url.Values {
	params := url.Values{}
	if len(q.Fields) > 0 {
		params.Set("fields", strings.Join(q.Fields, ","))
	}
	for _, f := range q.Filter {
		params.Set(fmt.Sprintf("filter[%s][%s]", f.Field, f.Operator), f.Value)
	}
	if len(q.Sort) > 0 {
		params.Set("sort", strings.Join(q.Sort, ","))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit != 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	for fn, field := range q.Aggregate {
		params.Set(fmt.Sprintf("aggregate[%s]", fn), field)
	}
	for _, field := range q.GroupBy {
		params.Add("groupBy[]", field)
	}
	return params
}
