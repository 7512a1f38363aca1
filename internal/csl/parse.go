package csl

import (
	"errors"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when the input is not valid JSON.
var ErrInvalidJSON = errors.New("invalid CSL JSON")

// Parse normalizes a raw CSL-JSON object (a Crossref "message" or a doi.org
// document) into a Record. Fields with unexpected shapes are left Absent.
func Parse(raw []byte) (*Record, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrInvalidJSON
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return nil, ErrInvalidJSON
	}

	rec := &Record{
		DOI:             doc.Get("DOI").String(),
		Authors:         parseNames(doc.Get("author")),
		Title:           parseText(doc.Get("title")),
		ContainerTitle:  parseText(doc.Get("container-title")),
		Issued:          parseDateParts(doc.Get("issued.date-parts")),
		PublishedOnline: parseDateParts(doc.Get("published-online.date-parts")),
	}
	if j := doc.Get("journal"); j.Type == gjson.String {
		rec.Journal = j.String()
	}
	return rec, nil
}

func parseNames(v gjson.Result) Names {
	switch {
	case v.IsArray():
		var names []Name
		for _, item := range v.Array() {
			// Keep malformed entries as empty names so index 0 stays the first author.
			if !item.IsObject() {
				names = append(names, Name{})
				continue
			}
			names = append(names, Name{
				Family: item.Get("family").String(),
				Given:  item.Get("given").String(),
			})
		}
		return Names{Kind: List, List: names}
	case v.Type == gjson.String:
		return NameLiteral(v.String())
	}
	return Names{}
}

func parseText(v gjson.Result) Text {
	switch {
	case v.IsArray():
		var values []string
		for _, item := range v.Array() {
			if item.Type == gjson.String {
				values = append(values, item.String())
			} else {
				values = append(values, "")
			}
		}
		return Text{Kind: List, List: values}
	case v.Type == gjson.String:
		return TextValue(v.String())
	}
	return Text{}
}

func parseDateParts(v gjson.Result) DateParts {
	if !v.IsArray() {
		return nil
	}
	var parts DateParts
	for _, row := range v.Array() {
		if !row.IsArray() {
			continue
		}
		var ints []int
		for _, p := range row.Array() {
			n, ok := datePart(p)
			if !ok {
				break
			}
			ints = append(ints, n)
		}
		parts = append(parts, ints)
	}
	return parts
}

// datePart accepts numbers and numeric strings; some registrars emit "2020".
func datePart(v gjson.Result) (int, bool) {
	switch v.Type {
	case gjson.Number:
		return int(v.Int()), true
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.String()))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
