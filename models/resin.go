package models

// ResinInspectionDocument is one resin (glue) inspection sheet.
type ResinInspectionDocument struct {
	DocumentBase
	ResinType    string `gorm:"size:100" json:"resin_type"`
	TankNo       string `gorm:"size:50" json:"tank_no"`
	OperatorName string `gorm:"size:100" json:"operator_name"`
	CheckedBy    string `gorm:"size:100" json:"checked_by"`
}

func (ResinInspectionDocument) TableName() string { return "resin_inspection_documents" }

type ResinInspectionRow struct {
	ID              uint     `gorm:"primaryKey" json:"id"`
	DocumentID      uint     `gorm:"index;not null" json:"document_id"`
	Jam             string   `gorm:"size:20" json:"jam"`
	SolidContent    *float64 `json:"solid_content"`
	Viscosity       *float64 `json:"viscosity"`
	PH              *float64 `gorm:"column:ph" json:"ph"`
	GelTime         *float64 `json:"gel_time"`
	SpecificGravity *float64 `json:"specific_gravity"`
	Temperature     *float64 `json:"temperature"`
	Keterangan      string   `gorm:"type:text" json:"keterangan"`
}

func (ResinInspectionRow) TableName() string { return "resin_inspection_rows" }

// ResinSolidsRow is one oven-dry solids determination.
type ResinSolidsRow struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	DocumentID uint     `gorm:"index;not null" json:"document_id"`
	SampleTime string   `gorm:"size:20" json:"sample_time"`
	RowNo      *int     `json:"row_no"`
	CupWeight  *float64 `json:"cup_weight"`
	WetWeight  *float64 `json:"wet_weight"`
	DryWeight  *float64 `json:"dry_weight"`
	Solids     *float64 `json:"solids"`
}

func (ResinSolidsRow) TableName() string { return "resin_solids_rows" }

var (
	ResinInspectionRowFields = []string{"jam", "solid_content", "viscosity"}
	ResinSolidsRowFields     = []string{"cup_weight", "wet_weight", "dry_weight"}
)

func NewResinInspectionRow(documentID uint, f Fields) ResinInspectionRow {
	return ResinInspectionRow{
		DocumentID:      documentID,
		Jam:             f.Text("jam"),
		SolidContent:    f.Float("solid_content"),
		Viscosity:       f.Float("viscosity"),
		PH:              f.Float("ph"),
		GelTime:         f.Float("gel_time"),
		SpecificGravity: f.Float("specific_gravity"),
		Temperature:     f.Float("temperature"),
		Keterangan:      f.Text("keterangan"),
	}
}

// NewResinSolidsRow numbers rows without an explicit row_no by their
// position in the submitted list.
func NewResinSolidsRow(documentID uint, index int, f Fields) ResinSolidsRow {
	rowNo := f.Int("row_no")
	if rowNo == nil {
		n := index + 1
		rowNo = &n
	}
	return ResinSolidsRow{
		DocumentID: documentID,
		SampleTime: f.Text("sample_time"),
		RowNo:      rowNo,
		CupWeight:  f.Float("cup_weight"),
		WetWeight:  f.Float("wet_weight"),
		DryWeight:  f.Float("dry_weight"),
		Solids:     f.Float("solids"),
	}
}

type ResinInspectionPayload struct {
	HeaderPayload
	ResinType    string   `json:"resin_type"`
	TankNo       string   `json:"tank_no"`
	OperatorName string   `json:"operator_name"`
	CheckedBy    string   `json:"checked_by"`
	Inspections  []Fields `json:"inspections"`
	Solids       []Fields `json:"solids"`
}

type ResinInspectionDetail struct {
	Document    ResinInspectionDocument `json:"document"`
	Inspections []ResinInspectionRow    `json:"inspections"`
	Solids      []ResinSolidsRow        `json:"solids"`
}

func (d *ResinInspectionDetail) Sheets() []Sheet {
	header := headerSheet(d.Document.DocumentBase,
		[2]any{"Resin type", d.Document.ResinType},
		[2]any{"Tank", d.Document.TankNo},
		[2]any{"Operator", d.Document.OperatorName},
		[2]any{"Checked by", d.Document.CheckedBy},
	)
	insp := Sheet{
		Name:   "Inspection",
		Header: []string{"Jam", "Solid content", "Viscosity", "pH", "Gel time", "SG", "Temp", "Keterangan"},
	}
	for _, r := range d.Inspections {
		insp.Rows = append(insp.Rows, []any{
			r.Jam, flatValue(r.SolidContent), flatValue(r.Viscosity), flatValue(r.PH),
			flatValue(r.GelTime), flatValue(r.SpecificGravity), flatValue(r.Temperature), r.Keterangan,
		})
	}
	solids := Sheet{
		Name:   "Solids",
		Header: []string{"Sample time", "No", "Cup", "Wet", "Dry", "Solids %"},
	}
	for _, r := range d.Solids {
		var no any = ""
		if r.RowNo != nil {
			no = *r.RowNo
		}
		solids.Rows = append(solids.Rows, []any{
			r.SampleTime, no, flatValue(r.CupWeight), flatValue(r.WetWeight), flatValue(r.DryWeight), flatValue(r.Solids),
		})
	}
	return []Sheet{header, insp, solids}
}
