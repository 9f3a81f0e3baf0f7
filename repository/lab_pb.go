package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/apierr"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/labcalc"
)

const (
	labPBLabel = "Lab PB"

	// averagePlaces is the precision stored for collection aggregates and
	// per-row derived ratios.
	averagePlaces = 2
)

// derivations compute per-position values from the measured ones.
var derivations = map[string]func(v map[string]*float64) *float64{
	"dp_ratio": func(v map[string]*float64) *float64 { return labcalc.MinMeanRatio(v["dp_min"], v["dp_mean"]) },
	"mc":       func(v map[string]*float64) *float64 { return labcalc.MoistureContent(v["w1"], v["w2"]) },
	"ts":       func(v map[string]*float64) *float64 { return labcalc.ThicknessSwelling(v["t1"], v["t2"]) },
}

// labPBCollection is one fixed-position table of a Lab PB document.
type labPBCollection interface {
	spec() models.FixedCollectionSpec
	model() any
	// insert writes one row per position and returns the collection
	// aggregates keyed "avg_<metric>".
	insert(tx *gorm.DB, documentID uint, flat models.Fields) (map[string]*float64, int, error)
	// load rebuilds the flat form object, "" for missing values.
	load(tx *gorm.DB, documentID uint, averages map[string]*float64) (models.Fields, error)
}

type fixedCollection[T models.FixedRow] struct {
	s     models.FixedCollectionSpec
	build func(documentID uint, pos string, v map[string]*float64) T
}

func (c fixedCollection[T]) spec() models.FixedCollectionSpec { return c.s }

func (c fixedCollection[T]) model() any {
	var zero T
	return &zero
}

func (c fixedCollection[T]) insert(tx *gorm.DB, documentID uint, flat models.Fields) (map[string]*float64, int, error) {
	if flat == nil {
		flat = models.Fields{}
	}
	perPosition := make(map[string]map[string]*float64, len(c.s.Positions))
	rows := make([]T, 0, len(c.s.Positions))
	for _, pos := range c.s.Positions {
		v := make(map[string]*float64, len(c.s.Fields)+len(c.s.Derived))
		for _, f := range c.s.Fields {
			v[f] = flat.Float(f + "_" + pos)
		}
		for _, d := range c.s.Derived {
			v[d] = labcalc.RoundPtr(derivations[d](v), averagePlaces)
		}
		perPosition[pos] = v
		rows = append(rows, c.build(documentID, pos, v))
	}
	if err := tx.Create(&rows).Error; err != nil {
		return nil, 0, err
	}

	averages := make(map[string]*float64, len(c.s.Fields)+len(c.s.Derived))
	for _, m := range c.s.Metrics() {
		key := "avg_" + m
		if flat.Has(key) {
			averages[key] = flat.Float(key)
			continue
		}
		values := make([]any, len(c.s.Positions))
		for i, pos := range c.s.Positions {
			values[i] = perPosition[pos][m]
		}
		avg := labcalc.Round(labcalc.Mean(values), averagePlaces)
		averages[key] = &avg
	}
	return averages, len(rows), nil
}

func (c fixedCollection[T]) load(tx *gorm.DB, documentID uint, averages map[string]*float64) (models.Fields, error) {
	var rows []T
	if err := tx.Where("document_id = ?", documentID).Find(&rows).Error; err != nil {
		return nil, err
	}
	flat := models.Fields{}
	for _, m := range c.s.Metrics() {
		for _, pos := range c.s.Positions {
			flat[m+"_"+pos] = ""
		}
		flat["avg_"+m] = ""
		if v := averages["avg_"+m]; v != nil {
			flat["avg_"+m] = *v
		}
	}
	for _, row := range rows {
		pos := row.GetPosition()
		for m, v := range row.Values() {
			if v != nil {
				flat[m+"_"+pos] = *v
			}
		}
	}
	return flat, nil
}

func collection[T models.FixedRow](key string, build func(uint, string, map[string]*float64) T) labPBCollection {
	for _, s := range models.LabPBCollections {
		if s.Key == key {
			return fixedCollection[T]{s: s, build: build}
		}
	}
	panic("repository: unknown Lab PB collection " + key)
}

var labPBCollections = []labPBCollection{
	collection(models.LabPBIBKey, models.NewLabPBInternalBonding),
	collection(models.LabPBBendingKey, models.NewLabPBBendingStrength),
	collection(models.LabPBScrewKey, models.NewLabPBScrewTest),
	collection(models.LabPBDensityProfileKey, models.NewLabPBDensityProfile),
	collection(models.LabPBMCKey, models.NewLabPBMCBoard),
	collection(models.LabPBSwellingKey, models.NewLabPBSwelling),
	collection(models.LabPBSurfaceKey, models.NewLabPBSurfaceSoundness),
	collection(models.LabPBDensityKey, models.NewLabPBBoardDensity),
}

// LabPBChildModels lists every child table of a Lab PB document.
func LabPBChildModels() []any {
	out := make([]any, 0, len(labPBCollections)+2)
	for _, c := range labPBCollections {
		out = append(out, c.model())
	}
	return append(out, &models.LabPBAverage{}, &models.LabPBAdditionalTest{})
}

type LabPBRepo struct {
	*Store
}

func NewLabPBRepo(s *Store) *LabPBRepo {
	return &LabPBRepo{Store: s}
}

func (r *LabPBRepo) Capabilities() models.ListCapabilities {
	return models.ListCapabilities{Paginate: true, Search: true, DateRange: true}
}

func (r *LabPBRepo) validate(p *models.LabPBPayload) error {
	var missing []string
	if strings.TrimSpace(p.BoardNo) == "" {
		missing = append(missing, "board_no is required")
	}
	if strings.TrimSpace(p.TestedBy) == "" {
		missing = append(missing, "tested_by is required")
	}
	if len(missing) > 0 {
		return apierr.Validation("missing required fields", missing...)
	}
	return nil
}

func (r *LabPBRepo) document(p *models.LabPBPayload) models.LabPBDocument {
	boardNo := strings.TrimSpace(p.BoardNo)
	return models.LabPBDocument{
		DocumentBase:  p.Base(labPBLabel + " " + boardNo),
		BoardNo:       boardNo,
		TestedBy:      strings.TrimSpace(p.TestedBy),
		ProductType:   p.ProductType,
		GlueType:      p.GlueType,
		ThicknessSpec: labcalc.Ptr(p.ThicknessSpec),
		LengthSpec:    labcalc.Ptr(p.LengthSpec),
		WidthSpec:     labcalc.Ptr(p.WidthSpec),
	}
}

// insertChildren writes every fixed collection in full, the aggregates
// once per metric, and the additional-tests row.
func (r *LabPBRepo) insertChildren(tx *gorm.DB, id uint, p *models.LabPBPayload) (int, error) {
	var (
		total    int
		averages []models.LabPBAverage
	)
	for _, c := range labPBCollections {
		avgs, n, err := c.insert(tx, id, p.Collection(c.spec().Key))
		if err != nil {
			return 0, err
		}
		total += n
		for _, m := range c.spec().Metrics() {
			averages = append(averages, models.LabPBAverage{DocumentID: id, Metric: "avg_" + m, Value: avgs["avg_"+m]})
		}
	}
	if err := createRows(tx, averages); err != nil {
		return 0, err
	}
	add := models.NewLabPBAdditionalTest(id, p.AdditionalTests)
	if err := tx.Create(&add).Error; err != nil {
		return 0, err
	}
	return total + 1, nil
}

func (r *LabPBRepo) Create(ctx context.Context, p *models.LabPBPayload) (uint, int, error) {
	if err := r.validate(p); err != nil {
		return 0, 0, err
	}
	doc := r.document(p)
	var count int
	err := r.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}
		n, err := r.insertChildren(tx, doc.ID, p)
		count = n
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	r.log.Info("document created", "type", labPBLabel, "id", doc.ID, "board_no", doc.BoardNo)
	return doc.ID, count, nil
}

func (r *LabPBRepo) Get(ctx context.Context, id uint) (*models.LabPBDetail, error) {
	out := models.LabPBDetail{Collections: make(map[string]models.Fields, len(labPBCollections))}
	err := r.inTx(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &out.Document, id, labPBLabel); err != nil {
			return err
		}
		var stored []models.LabPBAverage
		if err := tx.Where("document_id = ?", id).Find(&stored).Error; err != nil {
			return err
		}
		averages := make(map[string]*float64, len(stored))
		for _, a := range stored {
			averages[a.Metric] = a.Value
		}
		for _, c := range labPBCollections {
			flat, err := c.load(tx, id, averages)
			if err != nil {
				return err
			}
			out.Collections[c.spec().Key] = flat
		}
		var add []models.LabPBAdditionalTest
		if err := tx.Where("document_id = ?", id).Limit(1).Find(&add).Error; err != nil {
			return err
		}
		if len(add) > 0 {
			out.AdditionalTests = add[0].Flat()
		} else {
			out.AdditionalTests = models.LabPBAdditionalTest{}.Flat()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LabPBRepo) Update(ctx context.Context, id uint, p *models.LabPBPayload) (int, error) {
	if err := r.validate(p); err != nil {
		return 0, err
	}
	doc := r.document(p)
	var count int
	err := r.inTx(ctx, func(tx *gorm.DB) error {
		found, err := replaceParent(tx, &doc, id)
		if err != nil {
			return err
		}
		if !found {
			return r.missing(labPBLabel, id)
		}
		if err := deleteChildren(tx, id, LabPBChildModels()...); err != nil {
			return err
		}
		n, err := r.insertChildren(tx, id, p)
		count = n
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LabPBRepo) Delete(ctx context.Context, id uint) error {
	return r.deleteDocument(ctx, labPBLabel, id, &models.LabPBDocument{}, LabPBChildModels()...)
}

// List supports paging, a case-insensitive board_no search and a tanggal
// range. The total ignores paging.
func (r *LabPBRepo) List(ctx context.Context, p models.ListParams) ([]models.DocumentSummary, int64, error) {
	filtered := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.LabPBDocument{})
		if p.BoardNo != "" {
			pattern := "%" + p.BoardNo + "%"
			if r.db.Dialector.Name() == "postgres" {
				q = q.Where("board_no ILIKE ?", pattern)
			} else {
				q = q.Where("LOWER(board_no) LIKE LOWER(?)", pattern)
			}
		}
		if !p.From.IsZero() {
			q = q.Where("tanggal >= ?", p.From)
		}
		if !p.To.IsZero() {
			q = q.Where("tanggal <= ?", p.To)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, apierr.Persistence(err)
	}

	var docs []models.LabPBDocument
	q := filtered().Order("created_at DESC").Order("id DESC")
	if p.Paginated() {
		q = q.Limit(p.Limit).Offset(p.Offset())
	}
	if err := q.Find(&docs).Error; err != nil {
		return nil, 0, apierr.Persistence(err)
	}

	out := make([]models.DocumentSummary, len(docs))
	for i, d := range docs {
		s := d.Summary()
		s.BoardNo = d.BoardNo
		s.TestedBy = d.TestedBy
		out[i] = s
	}
	return out, total, nil
}
