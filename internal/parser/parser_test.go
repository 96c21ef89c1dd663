package parser

import (
	"testing"

	"github.com/fixhub/fixhub/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestParseRepairItems(t *testing.T) {
	tests := []struct {
		name string
		desc string
		want []model.LineItem
	}{
		{
			name: "two well-formed items",
			desc: "iPhone 11 Screen (x2) || Battery (x1)",
			want: []model.LineItem{
				{Part: "iPhone 11 Screen", Quantity: 2},
				{Part: "Battery", Quantity: 1},
			},
		},
		{
			name: "malformed segment is dropped",
			desc: "BadItemNoQty || Battery (x1)",
			want: []model.LineItem{
				{Part: "Battery", Quantity: 1},
			},
		},
		{
			name: "zero quantity is dropped",
			desc: "Battery (x0)",
			want: []model.LineItem{},
		},
		{
			name: "empty input",
			desc: "",
			want: nil,
		},
		{
			name: "whitespace only input",
			desc: "   ",
			want: nil,
		},
		{
			name: "consecutive separators create empty segments",
			desc: "Screen (x1) ||  || Battery (x2)",
			want: []model.LineItem{
				{Part: "Screen", Quantity: 1},
				{Part: "Battery", Quantity: 2},
			},
		},
		{
			name: "single item",
			desc: "Charging Port (x3)",
			want: []model.LineItem{
				{Part: "Charging Port", Quantity: 3},
			},
		},
		{
			name: "trailing text after quantity is ignored",
			desc: "Back Glass (x1) urgent",
			want: []model.LineItem{
				{Part: "Back Glass", Quantity: 1},
			},
		},
		{
			name: "order preserved",
			desc: "B (x1) || A (x1)",
			want: []model.LineItem{
				{Part: "B", Quantity: 1},
				{Part: "A", Quantity: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRepairItems(tt.desc)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
