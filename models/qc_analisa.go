package models

// QCAnalisaDocument is one screen-analysis sheet.
type QCAnalisaDocument struct {
	DocumentBase
	OperatorName string `gorm:"size:100" json:"operator_name"`
	CheckedBy    string `gorm:"size:100" json:"checked_by"`
}

func (QCAnalisaDocument) TableName() string { return "qc_analisa_documents" }

// QCAnalisaScreenRow is one sieve measurement of a material sample.
type QCAnalisaScreenRow struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	DocumentID uint     `gorm:"index;not null" json:"document_id"`
	Jam        string   `gorm:"size:20" json:"jam"`
	Material   string   `gorm:"size:100" json:"material"`
	JumlahGr   *float64 `json:"jumlah_gr"`
	Over8      *float64 `gorm:"column:over_8" json:"over_8"`
	Over4      *float64 `gorm:"column:over_4" json:"over_4"`
	Over2      *float64 `gorm:"column:over_2" json:"over_2"`
	Over1      *float64 `gorm:"column:over_1" json:"over_1"`
	Over05     *float64 `gorm:"column:over_05" json:"over_05"`
	Pan        *float64 `json:"pan"`
	Keterangan string   `gorm:"type:text" json:"keterangan"`
}

func (QCAnalisaScreenRow) TableName() string { return "qc_analisa_screen_rows" }

// QCAnalisaRowFields decide whether a submitted screen row is kept.
var QCAnalisaRowFields = []string{"jam", "material", "jumlah_gr"}

// NewQCAnalisaScreenRow maps a submitted row onto its table columns.
func NewQCAnalisaScreenRow(documentID uint, f Fields) QCAnalisaScreenRow {
	return QCAnalisaScreenRow{
		DocumentID: documentID,
		Jam:        f.Text("jam"),
		Material:   f.Text("material"),
		JumlahGr:   f.Float("jumlah_gr"),
		Over8:      f.Float("over_8"),
		Over4:      f.Float("over_4"),
		Over2:      f.Float("over_2"),
		Over1:      f.Float("over_1"),
		Over05:     f.Float("over_05"),
		Pan:        f.Float("pan"),
		Keterangan: f.Text("keterangan"),
	}
}

type QCAnalisaPayload struct {
	HeaderPayload
	OperatorName string   `json:"operator_name"`
	CheckedBy    string   `json:"checked_by"`
	Rows         []Fields `json:"rows"`
}

// QCAnalisaDetail is the read model of one sheet.
type QCAnalisaDetail struct {
	Document QCAnalisaDocument    `json:"document"`
	Rows     []QCAnalisaScreenRow `json:"rows"`
}

func (d *QCAnalisaDetail) Sheets() []Sheet {
	header := headerSheet(d.Document.DocumentBase,
		[2]any{"Operator", d.Document.OperatorName},
		[2]any{"Checked by", d.Document.CheckedBy},
	)
	rows := Sheet{
		Name:   "Screen",
		Header: []string{"Jam", "Material", "Jumlah (gr)", ">8", ">4", ">2", ">1", ">0.5", "Pan", "Keterangan"},
	}
	for _, r := range d.Rows {
		rows.Rows = append(rows.Rows, []any{
			r.Jam, r.Material, flatValue(r.JumlahGr), flatValue(r.Over8), flatValue(r.Over4),
			flatValue(r.Over2), flatValue(r.Over1), flatValue(r.Over05), flatValue(r.Pan), r.Keterangan,
		})
	}
	return []Sheet{header, rows}
}
