// Package parser turns free-text repair descriptions into line items.
package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/fixhub/fixhub/internal/model"
)

// Separator is the literal token between entries in a repair description.
const Separator = " || "

// lineItemRe extracts the part name and quantity from one entry, anchored at
// the start of the trimmed segment: "iPhone 11 Screen (x2)" -> name, 2.
var lineItemRe = regexp.MustCompile(`^(.*?) \(x(\d+)\)`)

// ParseRepairItems splits a repair description into ordered line items.
// Segments that do not match the grammar, or whose quantity is not a positive
// integer, produce no line item and no error. An empty description yields an
// empty slice.
func ParseRepairItems(desc string) []model.LineItem {
	if strings.TrimSpace(desc) == "" {
		return nil
	}

	segments := strings.Split(desc, Separator)
	items := make([]model.LineItem, 0, len(segments))

	for _, segment := range segments {
		segment = strings.TrimSpace(segment)

		m := lineItemRe.FindStringSubmatch(segment)
		if m == nil {
			slog.Debug("skipping malformed line item segment", "segment", segment)
			continue
		}

		qty, err := strconv.Atoi(m[2])
		if err != nil || qty <= 0 {
			slog.Debug("skipping line item with non-positive quantity",
				"segment", segment,
				"quantity", m[2])
			continue
		}

		items = append(items, model.LineItem{
			Part:     strings.TrimSpace(m[1]),
			Quantity: qty,
		})
	}

	return items
}
