package models

import (
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSlice_Value(t *testing.T) {
	tests := []struct {
		name    string
		s       StringSlice
		wantVal driver.Value
	}{
		{name: "nil slice", s: nil, wantVal: "[]"},
		{name: "empty slice", s: StringSlice{}, wantVal: "[]"},
		{name: "topics", s: StringSlice{"Cephalopod", "Squid"}, wantVal: `["Cephalopod","Squid"]`},
		{name: "quotes and unicode", s: StringSlice{`The "Kraken"`, "Tintenfisch ö"}, wantVal: `["The \"Kraken\"","Tintenfisch ö"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.s.Value()
			require.NoError(t, err)
			assert.Equal(t, tt.wantVal, got)
		})
	}
}

func TestStringSlice_Scan(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    StringSlice
		wantErr bool
	}{
		{name: "NULL", value: nil, want: StringSlice{}},
		{name: "empty string", value: "", want: StringSlice{}},
		{name: "json null", value: "null", want: StringSlice{}},
		{name: "string", value: `["One","Two","Three","Four"]`, want: StringSlice{"One", "Two", "Three", "Four"}},
		{name: "bytes", value: []byte(`["Squid"]`), want: StringSlice{"Squid"}},
		{name: "invalid json", value: `["Squid"`, wantErr: true},
		{name: "unsupported type", value: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s StringSlice
			err := s.Scan(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s)
		})
	}
}
