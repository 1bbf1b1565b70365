package warehouse

import (
	"database/sql"
	"encoding/json"
	"math/big"
	"reflect"
	"testing"
	"time"
)

func TestToJSONValue(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	readTrue := true

	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "nil", in: nil, want: nil},
		{name: "string", in: "hello", want: "hello"},
		{name: "bool", in: true, want: true},
		{name: "int64", in: int64(42), want: int64(42)},
		{name: "int32", in: int32(-7), want: int32(-7)},
		{name: "uint8", in: uint8(255), want: uint8(255)},
		{name: "float64", in: 3.25, want: 3.25},
		{name: "decimal as json.Number", in: json.Number("12.50"), want: 12.5},
		{name: "unparseable json.Number", in: json.Number("not-a-number"), want: "not-a-number"},
		{name: "big.Float decimal", in: big.NewFloat(12.5), want: 12.5},
		{name: "small big.Int", in: big.NewInt(1234), want: int64(1234)},
		{name: "big.Rat", in: big.NewRat(1, 4), want: 0.25},
		{name: "timestamp", in: ts, want: "2024-05-01T12:30:00Z"},
		{name: "utf8 bytes", in: []byte("plain text"), want: "plain text"},
		{name: "invalid utf8 bytes become lowercase hex", in: []byte{0xff, 0xfe, 0xfd, 0xfc}, want: "fffefdfc"},
		{name: "raw bytes", in: sql.RawBytes("raw"), want: "raw"},
		{
			name: "string-keyed map recurses",
			in:   map[string]any{"n": json.Number("1.5"), "b": []byte{0xff, 0xff, 0xff, 0xff}},
			want: map[string]any{"n": 1.5, "b": "ffffffff"},
		},
		{
			name: "typed map keys become strings",
			in:   map[int]string{1: "a", 2: "b"},
			want: map[string]any{"1": "a", "2": "b"},
		},
		{
			name: "sequence recurses",
			in:   []any{json.Number("2"), "x", nil},
			want: []any{float64(2), "x", nil},
		},
		{
			name: "typed slice",
			in:   []string{"a", "b"},
			want: []any{"a", "b"},
		},
		{
			name: "nested sequence in map",
			in:   map[string]any{"labels": []any{[]byte("inbox"), json.Number("3")}},
			want: map[string]any{"labels": []any{"inbox", float64(3)}},
		},
		{name: "pointer dereferenced", in: &readTrue, want: true},
		{name: "nil typed pointer", in: (*string)(nil), want: nil},
		{name: "nil big.Int pointer", in: (*big.Int)(nil), want: nil},
		{name: "struct falls back to string", in: struct{ A int }{A: 1}, want: "{1}"},
		{name: "complex falls back to string", in: complex(1, 2), want: "(1+2i)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToJSONValue(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToJSONValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}

			// Normalizing an already-normalized value must change nothing.
			again := ToJSONValue(got)
			if !reflect.DeepEqual(again, got) {
				t.Errorf("not idempotent: second pass %#v, first pass %#v", again, got)
			}
		})
	}
}

func TestToJSONValueNeverPanics(t *testing.T) {
	inputs := []any{
		make(chan int),
		func() {},
		map[any]any{struct{ X int }{1}: []byte{0x00}},
		[3]int{1, 2, 3},
		[4]byte{0xde, 0xad, 0xbe, 0xef},
		uintptr(0xdead),
	}
	for _, in := range inputs {
		got := ToJSONValue(in)
		// Whatever comes back must survive JSON encoding.
		if _, err := json.Marshal(got); err != nil {
			t.Errorf("result for %T is not JSON-encodable: %v", in, err)
		}
	}
}
