package models

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Position codes: left edge, mid-left, mid-center, mid-right, right edge.
const (
	PosLE = "le"
	PosML = "ml"
	PosMD = "md"
	PosMR = "mr"
	PosRI = "ri"
)

var (
	FivePositions = []string{PosLE, PosML, PosMD, PosMR, PosRI}
	EdgePositions = []string{PosLE, PosRI}
)

// DocumentBase is the header every lab document carries.
type DocumentBase struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	TagName    *string   `gorm:"size:255" json:"tag_name"`
	Tanggal    Date      `gorm:"column:tanggal;type:date;index" json:"tanggal"`
	ShiftGroup string    `gorm:"column:shift_group;size:50" json:"shift_group"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DisplayTitle is the tag name when one was given, otherwise the title.
func (d DocumentBase) DisplayTitle() string {
	if d.TagName != nil && strings.TrimSpace(*d.TagName) != "" {
		return strings.TrimSpace(*d.TagName)
	}
	return d.Title
}

// HeaderPayload holds the header fields common to every create/update body.
type HeaderPayload struct {
	Title      string  `json:"title"`
	TagName    *string `json:"tag_name"`
	Tanggal    Date    `json:"tanggal"`
	ShiftGroup string  `json:"shift_group"`
}

// Base builds the header row, generating a title from label when none
// was supplied.
func (h HeaderPayload) Base(label string) DocumentBase {
	title := strings.TrimSpace(h.Title)
	if title == "" {
		parts := []string{label}
		if !h.Tanggal.IsZero() {
			parts = append(parts, h.Tanggal.String())
		}
		if s := strings.TrimSpace(h.ShiftGroup); s != "" {
			parts = append(parts, s)
		}
		title = strings.Join(parts, " ")
	}
	var tag *string
	if h.TagName != nil {
		if t := strings.TrimSpace(*h.TagName); t != "" {
			tag = &t
		}
	}
	return DocumentBase{
		Title:      title,
		TagName:    tag,
		Tanggal:    h.Tanggal,
		ShiftGroup: strings.TrimSpace(h.ShiftGroup),
	}
}

// DocumentSummary is one entry of a list response.
type DocumentSummary struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	TagName      *string   `json:"tag_name"`
	DisplayTitle string    `json:"display_title"`
	Tanggal      Date      `json:"tanggal"`
	ShiftGroup   string    `json:"shift_group"`
	BoardNo      string    `json:"board_no,omitempty"`
	TestedBy     string    `json:"tested_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summary converts a header into a list entry.
func (d DocumentBase) Summary() DocumentSummary {
	return DocumentSummary{
		ID:           d.ID,
		Title:        d.Title,
		TagName:      d.TagName,
		DisplayTitle: d.DisplayTitle(),
		Tanggal:      d.Tanggal,
		ShiftGroup:   d.ShiftGroup,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ListCapabilities says which list filters a document type honours.
type ListCapabilities struct {
	Paginate  bool
	Search    bool
	DateRange bool
}

// ListParams are the optional list filters. Fields a type cannot honour
// are ignored.
type ListParams struct {
	Page    int
	Limit   int
	BoardNo string
	From    Date
	To      Date
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

// Paginated reports whether the caller asked for a page.
func (p ListParams) Paginated() bool { return p.Page > 0 }

// Offset is the row offset of the requested page.
func (p ListParams) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// ParseListParams reads page, limit, board_no, from and to from the query.
func ParseListParams(r *http.Request, caps ListCapabilities) (ListParams, error) {
	q := r.URL.Query()
	var p ListParams

	if caps.Paginate {
		if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
			p.Page = v
		}
		p.Limit = DefaultListLimit
		if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
			p.Limit = v
			if p.Page == 0 {
				p.Page = 1
			}
		}
		if p.Limit > MaxListLimit {
			p.Limit = MaxListLimit
		}
	}
	if caps.Search {
		p.BoardNo = strings.TrimSpace(q.Get("board_no"))
	}
	if caps.DateRange {
		from, err := ParseDate(q.Get("from"))
		if err != nil {
			return p, err
		}
		to, err := ParseDate(q.Get("to"))
		if err != nil {
			return p, err
		}
		p.From, p.To = from, to
	}
	return p, nil
}

// Sheet is one worksheet of a document export.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Exportable is implemented by every document read model.
type Exportable interface {
	Sheets() []Sheet
}

func headerSheet(base DocumentBase, extra ...[2]any) Sheet {
	rows := [][]any{
		{"ID", base.ID},
		{"Title", base.DisplayTitle()},
		{"Tanggal", base.Tanggal.String()},
		{"Shift", base.ShiftGroup},
	}
	for _, kv := range extra {
		rows = append(rows, []any{kv[0], kv[1]})
	}
	rows = append(rows,
		[]any{"Created", base.CreatedAt.Format(time.RFC3339)},
		[]any{"Updated", base.UpdatedAt.Format(time.RFC3339)},
	)
	return Sheet{Name: "Header", Header: []string{"Field", "Value"}, Rows: rows}
}
