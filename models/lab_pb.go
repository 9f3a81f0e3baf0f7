package models

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// LabPBDocument is one particleboard property test of a single board.
type LabPBDocument struct {
	DocumentBase
	BoardNo       string   `gorm:"size:100;not null;index" json:"board_no"`
	TestedBy      string   `gorm:"size:100;not null" json:"tested_by"`
	ProductType   string   `gorm:"size:100" json:"product_type"`
	GlueType      string   `gorm:"size:100" json:"glue_type"`
	ThicknessSpec *float64 `json:"thickness_spec"`
	LengthSpec    *float64 `json:"length_spec"`
	WidthSpec     *float64 `json:"width_spec"`
}

func (LabPBDocument) TableName() string { return "lab_pb_documents" }

// FixedCollectionSpec describes one fixed-position measurement table:
// one row per position, flat keys "<metric>_<position>", aggregates
// "avg_<metric>".
type FixedCollectionSpec struct {
	Key       string
	Sheet     string
	Positions []string
	Fields    []string
	Derived   []string
}

// Metrics lists input fields followed by derived ones.
func (s FixedCollectionSpec) Metrics() []string {
	out := make([]string, 0, len(s.Fields)+len(s.Derived))
	out = append(out, s.Fields...)
	return append(out, s.Derived...)
}

const (
	LabPBIBKey             = "ibData"
	LabPBBendingKey        = "bendingData"
	LabPBScrewKey          = "screwData"
	LabPBDensityProfileKey = "densityProfileData"
	LabPBMCKey             = "mcData"
	LabPBSwellingKey       = "swellingData"
	LabPBSurfaceKey        = "surfaceData"
	LabPBDensityKey        = "densityData"
	LabPBAdditionalKey     = "additionalTests"
)

// LabPBCollections is the fixed-position layout of a Lab PB test, in
// display order.
var LabPBCollections = []FixedCollectionSpec{
	{Key: LabPBIBKey, Sheet: "Internal Bonding", Positions: FivePositions, Fields: []string{"ib"}},
	{Key: LabPBBendingKey, Sheet: "Bending Strength", Positions: FivePositions, Fields: []string{"mor", "moe"}},
	{Key: LabPBScrewKey, Sheet: "Screw Test", Positions: FivePositions, Fields: []string{"face", "edge"}},
	{Key: LabPBDensityProfileKey, Sheet: "Density Profile", Positions: EdgePositions, Fields: []string{"dp_min", "dp_mean"}, Derived: []string{"dp_ratio"}},
	{Key: LabPBMCKey, Sheet: "MC Board", Positions: FivePositions, Fields: []string{"w1", "w2"}, Derived: []string{"mc"}},
	{Key: LabPBSwellingKey, Sheet: "Swelling", Positions: FivePositions, Fields: []string{"t1", "t2"}, Derived: []string{"ts"}},
	{Key: LabPBSurfaceKey, Sheet: "Surface Soundness", Positions: EdgePositions, Fields: []string{"ss"}},
	{Key: LabPBDensityKey, Sheet: "Board Density", Positions: FivePositions, Fields: []string{"thk", "den"}},
}

// FixedRow is a row of a fixed-position table.
type FixedRow interface {
	GetPosition() string
	Values() map[string]*float64
}

// PositionRow holds the columns every fixed-position table shares.
type PositionRow struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	DocumentID uint   `gorm:"index;not null" json:"document_id"`
	Position   string `gorm:"size:2;not null" json:"position"`
}

func (r PositionRow) GetPosition() string { return r.Position }

type LabPBInternalBonding struct {
	PositionRow
	IB *float64 `gorm:"column:ib" json:"ib"`
}

func (LabPBInternalBonding) TableName() string { return "lab_pb_internal_bonding" }

func (r LabPBInternalBonding) Values() map[string]*float64 {
	return map[string]*float64{"ib": r.IB}
}

func NewLabPBInternalBonding(documentID uint, pos string, v map[string]*float64) LabPBInternalBonding {
	return LabPBInternalBonding{PositionRow: PositionRow{DocumentID: documentID, Position: pos}, IB: v["ib"]}
}

type LabPBBendingStrength struct {
	PositionRow
	MOR *float64 `gorm:"column:mor" json:"mor"`
	MOE *float64 `gorm:"column:moe" json:"moe"`
}

func (LabPBBendingStrength) TableName() string { return "lab_pb_bending_strength" }

func (r LabPBBendingStrength) Values() map[string]*float64 {
	return map[string]*float64{"mor": r.MOR, "moe": r.MOE}
}

func NewLabPBBendingStrength(documentID uint, pos string, v map[string]*float64) LabPBBendingStrength {
	return LabPBBendingStrength{PositionRow: PositionRow{DocumentID: documentID, Position: pos}, MOR: v["mor"], MOE: v["moe"]}
}

type LabPBScrewTest struct {
	PositionRow
	Face *float64 `gorm:"column:face" json:"face"`
	Edge *float64 `gorm:"column:edge" json:"edge"`
}

func (LabPBScrewTest) TableName() string { return "lab_pb_screw_tests" }

func (r LabPBScrewTest) Values() map[string]*float64 {
	return map[string]*float64{"face": r.Face, "edge": r.Edge}
}

func NewLabPBScrewTest(documentID uint, pos string, v map[string]*float64) LabPBScrewTest {
	return LabPBScrewTest{PositionRow: PositionRow{DocumentID: documentID, Position: pos}, Face: v["face"], Edge: v["edge"]}
}

type LabPBDensityProfile struct {
	PositionRow
	DPMin   *float64 `gorm:"column:dp_min" json:"dp_min"`
	DPMean  *float64 `gorm:"column:dp_mean" json:"dp_mean"`
	DPRatio *float64 `gorm:"column:dp_ratio" json:"dp_ratio"`
}

func (LabPBDensityProfile) TableName() string { return "lab_pb_density_profiles" }

func (r LabPBDensityProfile) Values() map[string]*float64 {
	return map[string]*float64{"dp_min": r.DPMin, "dp_mean": r.DPMean, "dp_ratio": r.DPRatio}
}

func NewLabPBDensityProfile(documentID uint, pos string, v map[string]*float64) LabPBDensityProfile {
	return LabPBDensityProfile{
		PositionRow: PositionRow{DocumentID: documentID, Position: pos},
		DPMin:       v["dp_min"],
		DPMean:      v["dp_mean"],
		DPRatio:     v["dp_ratio"],
	}
}

type LabPBMCBoard struct {
	PositionRow
	W1 *float64 `gorm:"column:w1" json:"w1"`
	W2 *float64 `gorm:"column:w2" json:"w2"`
	MC *float64 `gorm:"column:mc" json:"mc"`
}

func (LabPBMCBoard) TableName() string { return "lab_pb_mc_boards" }

func (r LabPBMCBoard) Values() map[string]*float64 {
	return map[string]*float64{"w1": r.W1, "w2": r.W2, "mc": r.MC}
}

func NewLabPBMCBoard(documentID uint, pos string, v map[string]*float64) LabPBMCBoard {
	return LabPBMCBoard{PositionRow: PositionRow{DocumentID: documentID, Position: pos}, W1: v["w1"], W2: v["w2"], MC: v["mc"]}
}

type LabPBSwelling struct {
	PositionRow
	T1 *float64 `gorm:"column:t1" json:"t1"`
	T2 *float64 `gorm:"column:t2" json:"t2"`
	TS *float64 `gorm:"column:ts" json:"ts"`
}

func (LabPBSwelling) TableName() string { return "lab_pb_swellings" }

func (r LabPBSwelling) Values() map[string]*float64 {
	return map[string]*float64{"t1": r.T1, "t2": r.T2, "ts": r.TS}
}

func NewLabPBSwelling(documentID uint, pos string, v map[string]*float64) LabPBSwelling {
	return LabPBSwelling{PositionRow: PositionRow{DocumentID: documentID, Position: pos}, T1: v["t1"], T2: v["t2"], TS: v["ts"]}
}

type LabPBSurfaceSoundness struct {
	PositionRow
	SS *float64 `gorm:"column:ss" json:"ss"`
}

func (LabPBSurfaceSoundness) TableName() string { return "lab_pb_surface_soundness" }

func (r LabPBSurfaceSoundness) Values() map[string]*float64 {
	return map[string]*float64{"ss": r.SS}
}

func NewLabPBSurfaceSoundness(documentID uint, pos string, v map[string]*float64) LabPBSurfaceSoundness {
	return LabPBSurfaceSoundness{PositionRow: PositionRow{DocumentID: documentID, Position: pos}, SS: v["ss"]}
}

type LabPBBoardDensity struct {
	PositionRow
	Thk *float64 `gorm:"column:thk" json:"thk"`
	Den *float64 `gorm:"column:den" json:"den"`
}

func (LabPBBoardDensity) TableName() string { return "lab_pb_board_densities" }

func (r LabPBBoardDensity) Values() map[string]*float64 {
	return map[string]*float64{"thk": r.Thk, "den": r.Den}
}

func NewLabPBBoardDensity(documentID uint, pos string, v map[string]*float64) LabPBBoardDensity {
	return LabPBBoardDensity{PositionRow: PositionRow{DocumentID: documentID, Position: pos}, Thk: v["thk"], Den: v["den"]}
}

// LabPBAverage stores one collection aggregate (metric "avg_ib", ...)
// once per document.
type LabPBAverage struct {
	ID         uint     `gorm:"primaryKey"`
	DocumentID uint     `gorm:"uniqueIndex:idx_lab_pb_average_metric;not null"`
	Metric     string   `gorm:"size:32;uniqueIndex:idx_lab_pb_average_metric;not null"`
	Value      *float64 `gorm:"column:value"`
}

func (LabPBAverage) TableName() string { return "lab_pb_averages" }

// LabPBAdditionalTest is the single summary row of board-level tests.
// Keys the form sends beyond the known columns are kept in Extra.
type LabPBAdditionalTest struct {
	ID              uint              `gorm:"primaryKey"`
	DocumentID      uint              `gorm:"uniqueIndex;not null"`
	Density         *float64          `gorm:"column:density"`
	Thickness       *float64          `gorm:"column:thickness"`
	WaterAbsorption *float64          `gorm:"column:water_absorption"`
	Formaldehyde    *float64          `gorm:"column:formaldehyde"`
	Remarks         string            `gorm:"type:text"`
	Extra           datatypes.JSONMap `gorm:"column:extra"`
}

func (LabPBAdditionalTest) TableName() string { return "lab_pb_additional_tests" }

var labPBAdditionalNumeric = []string{"density", "thickness", "water_absorption", "formaldehyde"}

func NewLabPBAdditionalTest(documentID uint, f Fields) LabPBAdditionalTest {
	t := LabPBAdditionalTest{
		DocumentID:      documentID,
		Density:         f.Float("density"),
		Thickness:       f.Float("thickness"),
		WaterAbsorption: f.Float("water_absorption"),
		Formaldehyde:    f.Float("formaldehyde"),
		Remarks:         f.Text("remarks"),
	}
	known := map[string]bool{"remarks": true}
	for _, k := range labPBAdditionalNumeric {
		known[k] = true
	}
	for k, v := range f {
		if known[k] {
			continue
		}
		if t.Extra == nil {
			t.Extra = datatypes.JSONMap{}
		}
		t.Extra[k] = v
	}
	return t
}

// Flat renders the summary row back into form keys.
func (t LabPBAdditionalTest) Flat() Fields {
	out := Fields{}
	for k, v := range t.Extra {
		out[k] = v
	}
	out["density"] = flatValue(t.Density)
	out["thickness"] = flatValue(t.Thickness)
	out["water_absorption"] = flatValue(t.WaterAbsorption)
	out["formaldehyde"] = flatValue(t.Formaldehyde)
	out["remarks"] = t.Remarks
	return out
}

type LabPBPayload struct {
	HeaderPayload
	BoardNo         string `json:"board_no"`
	TestedBy        string `json:"tested_by"`
	ProductType     string `json:"product_type"`
	GlueType        string `json:"glue_type"`
	ThicknessSpec   any    `json:"thickness_spec"`
	LengthSpec      any    `json:"length_spec"`
	WidthSpec       any    `json:"width_spec"`
	IBData          Fields `json:"ibData"`
	BendingData     Fields `json:"bendingData"`
	ScrewData       Fields `json:"screwData"`
	DensityProfile  Fields `json:"densityProfileData"`
	MCData          Fields `json:"mcData"`
	SwellingData    Fields `json:"swellingData"`
	SurfaceData     Fields `json:"surfaceData"`
	DensityData     Fields `json:"densityData"`
	AdditionalTests Fields `json:"additionalTests"`
}

// Collection returns the flat values submitted for a fixed collection.
func (p LabPBPayload) Collection(key string) Fields {
	var f Fields
	switch key {
	case LabPBIBKey:
		f = p.IBData
	case LabPBBendingKey:
		f = p.BendingData
	case LabPBScrewKey:
		f = p.ScrewData
	case LabPBDensityProfileKey:
		f = p.DensityProfile
	case LabPBMCKey:
		f = p.MCData
	case LabPBSwellingKey:
		f = p.SwellingData
	case LabPBSurfaceKey:
		f = p.SurfaceData
	case LabPBDensityKey:
		f = p.DensityData
	}
	if f == nil {
		return Fields{}
	}
	return f
}

// LabPBDetail is the read model; each fixed collection is a flat object
// keyed by its payload key.
type LabPBDetail struct {
	Document        LabPBDocument
	Collections     map[string]Fields
	AdditionalTests Fields
}

func (d *LabPBDetail) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Collections)+2)
	out["document"] = d.Document
	for _, spec := range LabPBCollections {
		c := d.Collections[spec.Key]
		if c == nil {
			c = Fields{}
		}
		out[spec.Key] = c
	}
	add := d.AdditionalTests
	if add == nil {
		add = Fields{}
	}
	out[LabPBAdditionalKey] = add
	return json.Marshal(out)
}

func (d *LabPBDetail) Sheets() []Sheet {
	doc := d.Document
	sheets := []Sheet{headerSheet(doc.DocumentBase,
		[2]any{"Board no", doc.BoardNo},
		[2]any{"Tested by", doc.TestedBy},
		[2]any{"Product", doc.ProductType},
		[2]any{"Glue", doc.GlueType},
		[2]any{"Thickness spec", flatValue(doc.ThicknessSpec)},
		[2]any{"Length spec", flatValue(doc.LengthSpec)},
		[2]any{"Width spec", flatValue(doc.WidthSpec)},
	)}
	for _, spec := range LabPBCollections {
		flat := d.Collections[spec.Key]
		metrics := spec.Metrics()
		s := Sheet{Name: spec.Sheet, Header: append([]string{"Position"}, metrics...)}
		for _, pos := range spec.Positions {
			row := []any{pos}
			for _, m := range metrics {
				row = append(row, flat[m+"_"+pos])
			}
			s.Rows = append(s.Rows, row)
		}
		avg := []any{"avg"}
		for _, m := range metrics {
			avg = append(avg, flat["avg_"+m])
		}
		s.Rows = append(s.Rows, avg)
		sheets = append(sheets, s)
	}
	add := Sheet{Name: "Additional Tests", Header: []string{"Field", "Value"}}
	for _, k := range append(labPBAdditionalNumeric, "remarks") {
		add.Rows = append(add.Rows, []any{k, d.AdditionalTests[k]})
	}
	return append(sheets, add)
}
