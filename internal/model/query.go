// Package model defines the core domain models used throughout the application.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidGoodsType indicates a goods type outside the known set.
var ErrInvalidGoodsType = errors.New("invalid goods type")

// GoodsType identifies the commercial purpose of a shipment line.
type GoodsType string

// Goods type constants.
const (
	GoodsTypeFinished    GoodsType = "Trench CA Finished Goods"
	GoodsTypeWarrantyRep GoodsType = "Warranty Replacement"
	GoodsTypeWarrantyFix GoodsType = "Warranty Repair"
	GoodsTypeAfterSales  GoodsType = "After Sales Parts"
	GoodsTypeResale      GoodsType = "Resale"
	GoodsTypeOther       GoodsType = "Other"
)

var knownGoodsTypes = map[GoodsType]bool{
	GoodsTypeFinished:    true,
	GoodsTypeWarrantyRep: true,
	GoodsTypeWarrantyFix: true,
	GoodsTypeAfterSales:  true,
	GoodsTypeResale:      true,
	GoodsTypeOther:       true,
}

// ParseGoodsType validates a goods type string at ingestion. An empty string
// maps to GoodsTypeOther; anything outside the known set is rejected rather
// than trusted downstream.
func ParseGoodsType(s string) (GoodsType, error) {
	if strings.TrimSpace(s) == "" {
		return GoodsTypeOther, nil
	}
	gt := GoodsType(s)
	if !knownGoodsTypes[gt] {
		return "", fmt.Errorf("%w: %q", ErrInvalidGoodsType, s)
	}
	return gt, nil
}

// ProductQuery is a single classification request. It is immutable once
// submitted to the pipeline.
type ProductQuery struct {
	Description     string
	MaterialHint    string
	CountryOfOrigin string
	GoodsType       GoodsType
}

// NormalizedQuery is the canonical form of a ProductQuery, owned by the
// pipeline for the duration of one classification call.
type NormalizedQuery struct {
	CanonicalText string
	Material      string
}

// HasMaterial reports whether material extraction produced a token.
func (q NormalizedQuery) HasMaterial() bool {
	return q.Material != ""
}
