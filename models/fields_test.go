package models

import "testing"

func TestRowPresent(t *testing.T) {
	fields := []string{"jam", "material", "jumlah_gr"}
	tests := []struct {
		name string
		row  Fields
		want bool
	}{
		{"empty row", Fields{}, false},
		{"nil values", Fields{"jam": nil, "material": nil}, false},
		{"blank strings", Fields{"jam": " ", "material": ""}, false},
		{"only non-presence field", Fields{"keterangan": "ok", "over_8": "3"}, false},
		{"jam filled", Fields{"jam": "08:00"}, true},
		{"numeric zero counts", Fields{"jumlah_gr": 0.0}, true},
		{"numeric string", Fields{"jumlah_gr": "120"}, true},
		{"false bool", Fields{"material": false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RowPresent(tt.row, fields); got != tt.want {
				t.Errorf("RowPresent(%v) = %v, expected %v", tt.row, got, tt.want)
			}
		})
	}
}

func TestPresentRowsKeepsOrder(t *testing.T) {
	rows := []Fields{
		{"jam": "08:00"},
		{},
		{"material": "Sawdust"},
		{"keterangan": "only a note"},
	}
	got := PresentRows(rows, QCAnalisaRowFields)
	if len(got) != 2 {
		t.Fatalf("kept %d rows, expected 2", len(got))
	}
	if got[0].Text("jam") != "08:00" || got[1].Text("material") != "Sawdust" {
		t.Errorf("unexpected rows %v", got)
	}
}

func TestFieldsAccessors(t *testing.T) {
	f := Fields{
		"text":   "  hello ",
		"num":    "12.5",
		"float":  3.0,
		"count":  "7",
		"blank":  "",
		"letter": "x",
	}

	if got := f.Text("text"); got != "hello" {
		t.Errorf("Text = %q", got)
	}
	if got := f.Text("float"); got != "3" {
		t.Errorf("Text(float) = %q", got)
	}
	if got := f.Float("num"); got == nil || *got != 12.5 {
		t.Errorf("Float(num) = %v", got)
	}
	if got := f.Float("blank"); got != nil {
		t.Errorf("Float(blank) = %v, expected nil", *got)
	}
	if got := f.Float("letter"); got != nil {
		t.Errorf("Float(letter) = %v, expected nil", *got)
	}
	if got := f.Int("count"); got == nil || *got != 7 {
		t.Errorf("Int(count) = %v", got)
	}
	if f.Has("blank") || !f.Has("letter") || f.Has("missing") {
		t.Error("Has reported the wrong presence")
	}
}
