package config

import (
	"encoding/json"
	"math"
	"testing"
)

func marshalValue(v Value) (string, error) {
	b, err := json.Marshal(v)
	return string(b), err
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal strings", String("a"), String("a"), true},
		{"different strings", String("a"), String("b"), false},
		{"string vs integer", String("1"), Integer(1), false},
		{"equal integers", Integer(42), Integer(42), true},
		{"equal floats", Float(1.5), Float(1.5), true},
		{"nan equals nan", Float(math.NaN()), Float(math.NaN()), true},
		{"nan not equal to number", Float(math.NaN()), Float(1.0), false},
		{"equal booleans", Boolean(true), Boolean(true), true},
		{"null equals null", Null{}, Null{}, true},
		{"null vs string", Null{}, String(""), false},
		{
			"equal arrays",
			Array{String("a"), Integer(1)},
			Array{String("a"), Integer(1)},
			true,
		},
		{
			"arrays differ in order",
			Array{String("a"), String("b")},
			Array{String("b"), String("a")},
			false,
		},
		{
			"arrays differ in length",
			Array{String("a")},
			Array{String("a"), String("a")},
			false,
		},
		{
			"equal maps regardless of construction order",
			Map{"x": Integer(1), "y": Integer(2)},
			Map{"y": Integer(2), "x": Integer(1)},
			true,
		},
		{
			"maps differ in value",
			Map{"x": Integer(1)},
			Map{"x": Integer(2)},
			false,
		},
		{
			"nested structures",
			Array{Map{"k": Array{Float(math.NaN())}}},
			Array{Map{"k": Array{Float(math.NaN())}}},
			true,
		},
		{
			"equal typed errors",
			TypedError{Message: "m", Type: "t"},
			TypedError{Message: "m", Type: "t"},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			// Equality is symmetric.
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("reversed Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"string is quoted", String(`hi "there"`), `"hi \"there\""`},
		{"integer", Integer(-7), "-7"},
		{"boolean", Boolean(false), "false"},
		{"null", Null{}, "null"},
		{"array", Array{Integer(1), String("a")}, `[1, "a"]`},
		{
			"map keys render sorted",
			Map{"b": Integer(2), "a": Integer(1)},
			`{a = 1, b = 2}`,
		},
		{"typed error", TypedError{Message: "boom", Type: "conversion"}, "error(conversion: boom)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueMarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"null", Null{}, "null"},
		{"finite float", Float(2.5), "2.5"},
		{"nan renders as string", Float(math.NaN()), `"NaN"`},
		{"infinity renders as string", Float(math.Inf(1)), `"+Inf"`},
		{"typed error as object", TypedError{Message: "boom", Type: "conversion"}, `{"error":"boom","type":"conversion"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := marshalValue(tt.value)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if got != tt.want {
				t.Errorf("MarshalJSON = %s, want %s", got, tt.want)
			}
		})
	}
}
