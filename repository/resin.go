package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/apierr"
)

const resinLabel = "Resin Inspection"

type ResinInspectionRepo struct {
	*Store
}

func NewResinInspectionRepo(s *Store) *ResinInspectionRepo {
	return &ResinInspectionRepo{Store: s}
}

func (r *ResinInspectionRepo) Capabilities() models.ListCapabilities {
	return models.ListCapabilities{}
}

type resinRows struct {
	inspections []models.Fields
	solids      []models.Fields
}

func (r *ResinInspectionRepo) validate(p *models.ResinInspectionPayload) (resinRows, error) {
	missing := requireHeader(p.HeaderPayload)
	if len(p.Inspections) == 0 {
		missing = append(missing, "inspections are required")
	}
	if len(missing) > 0 {
		return resinRows{}, apierr.Validation("missing required fields", missing...)
	}
	rows := resinRows{
		inspections: models.PresentRows(p.Inspections, models.ResinInspectionRowFields),
		solids:      models.PresentRows(p.Solids, models.ResinSolidsRowFields),
	}
	if len(rows.inspections) == 0 {
		return resinRows{}, apierr.Validation("all rows empty")
	}
	return rows, nil
}

func (r *ResinInspectionRepo) document(p *models.ResinInspectionPayload) models.ResinInspectionDocument {
	return models.ResinInspectionDocument{
		DocumentBase: p.Base(resinLabel),
		ResinType:    p.ResinType,
		TankNo:       p.TankNo,
		OperatorName: p.OperatorName,
		CheckedBy:    p.CheckedBy,
	}
}

func (r *ResinInspectionRepo) insertChildren(tx *gorm.DB, id uint, rows resinRows) error {
	insp := make([]models.ResinInspectionRow, 0, len(rows.inspections))
	for _, f := range rows.inspections {
		insp = append(insp, models.NewResinInspectionRow(id, f))
	}
	if err := createRows(tx, insp); err != nil {
		return err
	}
	solids := make([]models.ResinSolidsRow, 0, len(rows.solids))
	for i, f := range rows.solids {
		solids = append(solids, models.NewResinSolidsRow(id, i, f))
	}
	return createRows(tx, solids)
}

func (r *ResinInspectionRepo) Create(ctx context.Context, p *models.ResinInspectionPayload) (uint, int, error) {
	rows, err := r.validate(p)
	if err != nil {
		return 0, 0, err
	}
	doc := r.document(p)
	err = r.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}
		return r.insertChildren(tx, doc.ID, rows)
	})
	if err != nil {
		return 0, 0, err
	}
	count := len(rows.inspections) + len(rows.solids)
	r.log.Info("document created", "type", resinLabel, "id", doc.ID, "rows", count)
	return doc.ID, count, nil
}

func (r *ResinInspectionRepo) Get(ctx context.Context, id uint) (*models.ResinInspectionDetail, error) {
	var out models.ResinInspectionDetail
	err := r.inTx(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &out.Document, id, resinLabel); err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", id).Order("id").Find(&out.Inspections).Error; err != nil {
			return err
		}
		return tx.Where("document_id = ?", id).
			Order("sample_time").Order("row_no").Order("id").
			Find(&out.Solids).Error
	})
	if err != nil {
		return nil, err
	}
	if out.Inspections == nil {
		out.Inspections = []models.ResinInspectionRow{}
	}
	if out.Solids == nil {
		out.Solids = []models.ResinSolidsRow{}
	}
	return &out, nil
}

func (r *ResinInspectionRepo) Update(ctx context.Context, id uint, p *models.ResinInspectionPayload) (int, error) {
	rows, err := r.validate(p)
	if err != nil {
		return 0, err
	}
	doc := r.document(p)
	var count int
	err = r.inTx(ctx, func(tx *gorm.DB) error {
		found, err := replaceParent(tx, &doc, id)
		if err != nil {
			return err
		}
		if !found {
			return r.missing(resinLabel, id)
		}
		if err := deleteChildren(tx, id, &models.ResinInspectionRow{}, &models.ResinSolidsRow{}); err != nil {
			return err
		}
		if err := r.insertChildren(tx, id, rows); err != nil {
			return err
		}
		count = len(rows.inspections) + len(rows.solids)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ResinInspectionRepo) Delete(ctx context.Context, id uint) error {
	return r.deleteDocument(ctx, resinLabel, id, &models.ResinInspectionDocument{},
		&models.ResinInspectionRow{}, &models.ResinSolidsRow{})
}

func (r *ResinInspectionRepo) List(ctx context.Context, _ models.ListParams) ([]models.DocumentSummary, int64, error) {
	docs, err := listParents[models.ResinInspectionDocument](ctx, r.db)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.DocumentSummary, len(docs))
	for i, d := range docs {
		out[i] = d.Summary()
	}
	return out, int64(len(out)), nil
}
