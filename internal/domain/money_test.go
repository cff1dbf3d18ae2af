package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Moowses/stay-engine/internal/domain"
)

func TestCoerceAmount(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{120.5, "120.5"},
		{100, "100"},
		{json.Number("89.99"), "89.99"},
		{"150", "150"},
		{"$1,234.50", "1234.5"},
		{"€ 99", "99"},
		{"8,0", "8"},
		{"1.234,50", "1234.5"},
		{"-12.5", "-12.5"},
		{"free", "0"},
		{"", "0"},
		{nil, "0"},
		{true, "0"},
		{[]any{"1"}, "0"},
	}
	for _, c := range cases {
		want, _ := decimal.NewFromString(c.want)
		if got := domain.CoerceAmount(c.in); !got.Equal(want) {
			t.Errorf("CoerceAmount(%#v) = %s, want %s", c.in, got, want)
		}
	}
}
