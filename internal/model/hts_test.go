package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testChapters() map[string]ChapterContext {
	return map[string]ChapterContext{
		"42": {CodePrefix: "42", Description: "Articles of leather"},
		"76": {CodePrefix: "76", Description: "Aluminum and articles thereof"},
		"85": {CodePrefix: "85", Description: "Electrical machinery"},
	}
}

func TestValidateCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{name: "valid 10 digit with dots", code: "7610.10.00.20"},
		{name: "valid 6 digit", code: "4202.31"},
		{name: "valid 4 digit", code: "8504"},
		{name: "valid 8 digit", code: "8535.90.80"},
		{name: "wrong digit count", code: "761", wantErr: true},
		{name: "odd digit count", code: "76101", wantErr: true},
		{name: "unknown chapter", code: "9903.88.01", wantErr: true},
		{name: "non-digit characters", code: "76AB.10", wantErr: true},
		{name: "empty", code: "", wantErr: true},
	}

	chapters := testChapters()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCode(tt.code, chapters)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedCode))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChapter(t *testing.T) {
	assert.Equal(t, "76", Chapter("7610.10.00.20"))
	assert.Equal(t, "42", Chapter("4202.31"))
	assert.Equal(t, "", Chapter("7"))
}

func TestHasCodePrefix(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		prefix string
		want   bool
	}{
		{name: "dotted prefix against dotted code", code: "7610.10.00.20", prefix: "7610.10", want: true},
		{name: "bare prefix against dotted code", code: "7610.10.00.20", prefix: "761010", want: true},
		{name: "no match", code: "8504.21.00", prefix: "7610", want: false},
		{name: "chapter prefix", code: "4202.31", prefix: "42", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasCodePrefix(tt.code, tt.prefix))
		})
	}
}

func TestParseGoodsType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    GoodsType
		wantErr bool
	}{
		{name: "known type", input: "Resale", want: GoodsTypeResale},
		{name: "warranty replacement", input: "Warranty Replacement", want: GoodsTypeWarrantyRep},
		{name: "empty maps to other", input: "", want: GoodsTypeOther},
		{name: "whitespace maps to other", input: "   ", want: GoodsTypeOther},
		{name: "unknown rejected", input: "Contraband", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGoodsType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidGoodsType)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
