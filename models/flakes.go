package models

// FlakesDocument is one flaker output inspection sheet.
type FlakesDocument struct {
	DocumentBase
	FlakerNo     string `gorm:"size:50" json:"flaker_no"`
	OperatorName string `gorm:"size:100" json:"operator_name"`
	CheckedBy    string `gorm:"size:100" json:"checked_by"`
}

func (FlakesDocument) TableName() string { return "flakes_documents" }

type FlakesDetailRow struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	DocumentID uint     `gorm:"index;not null" json:"document_id"`
	Jam        string   `gorm:"size:20" json:"jam"`
	WoodType   string   `gorm:"size:100" json:"wood_type"`
	Thickness  *float64 `json:"thickness"`
	Length     *float64 `json:"length"`
	Width      *float64 `json:"width"`
	Moisture   *float64 `json:"moisture"`
	Oversize   *float64 `json:"oversize"`
	Fines      *float64 `json:"fines"`
	Keterangan string   `gorm:"type:text" json:"keterangan"`
}

func (FlakesDetailRow) TableName() string { return "flakes_detail_rows" }

// FlakesSummary holds the totals the form computed; they are stored as
// submitted.
type FlakesSummary struct {
	ID            uint     `gorm:"primaryKey" json:"-"`
	DocumentID    uint     `gorm:"uniqueIndex;not null" json:"-"`
	SampleCount   *int     `json:"sample_count"`
	AvgThickness  *float64 `json:"avg_thickness"`
	AvgMoisture   *float64 `json:"avg_moisture"`
	TotalOversize *float64 `json:"total_oversize"`
	TotalFines    *float64 `json:"total_fines"`
	Remarks       string   `gorm:"type:text" json:"remarks"`
}

func (FlakesSummary) TableName() string { return "flakes_summaries" }

var FlakesDetailRowFields = []string{"jam", "thickness", "moisture"}

func NewFlakesDetailRow(documentID uint, f Fields) FlakesDetailRow {
	return FlakesDetailRow{
		DocumentID: documentID,
		Jam:        f.Text("jam"),
		WoodType:   f.Text("wood_type"),
		Thickness:  f.Float("thickness"),
		Length:     f.Float("length"),
		Width:      f.Float("width"),
		Moisture:   f.Float("moisture"),
		Oversize:   f.Float("oversize"),
		Fines:      f.Float("fines"),
		Keterangan: f.Text("keterangan"),
	}
}

func NewFlakesSummary(documentID uint, f Fields) FlakesSummary {
	return FlakesSummary{
		DocumentID:    documentID,
		SampleCount:   f.Int("sample_count"),
		AvgThickness:  f.Float("avg_thickness"),
		AvgMoisture:   f.Float("avg_moisture"),
		TotalOversize: f.Float("total_oversize"),
		TotalFines:    f.Float("total_fines"),
		Remarks:       f.Text("remarks"),
	}
}

type FlakesPayload struct {
	HeaderPayload
	FlakerNo     string   `json:"flaker_no"`
	OperatorName string   `json:"operator_name"`
	CheckedBy    string   `json:"checked_by"`
	Details      []Fields `json:"details"`
	Summary      Fields   `json:"summary"`
}

type FlakesDetail struct {
	Document FlakesDocument    `json:"document"`
	Details  []FlakesDetailRow `json:"details"`
	Summary  FlakesSummary     `json:"summary"`
}

func (d *FlakesDetail) Sheets() []Sheet {
	header := headerSheet(d.Document.DocumentBase,
		[2]any{"Flaker", d.Document.FlakerNo},
		[2]any{"Operator", d.Document.OperatorName},
		[2]any{"Checked by", d.Document.CheckedBy},
	)
	details := Sheet{
		Name:   "Details",
		Header: []string{"Jam", "Wood", "Thickness", "Length", "Width", "Moisture", "Oversize", "Fines", "Keterangan"},
	}
	for _, r := range d.Details {
		details.Rows = append(details.Rows, []any{
			r.Jam, r.WoodType, flatValue(r.Thickness), flatValue(r.Length), flatValue(r.Width),
			flatValue(r.Moisture), flatValue(r.Oversize), flatValue(r.Fines), r.Keterangan,
		})
	}
	var count any = ""
	if d.Summary.SampleCount != nil {
		count = *d.Summary.SampleCount
	}
	summary := Sheet{
		Name:   "Summary",
		Header: []string{"Field", "Value"},
		Rows: [][]any{
			{"Samples", count},
			{"Avg thickness", flatValue(d.Summary.AvgThickness)},
			{"Avg moisture", flatValue(d.Summary.AvgMoisture)},
			{"Total oversize", flatValue(d.Summary.TotalOversize)},
			{"Total fines", flatValue(d.Summary.TotalFines)},
			{"Remarks", d.Summary.Remarks},
		},
	}
	return []Sheet{header, details, summary}
}
