package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/apierr"
)

const flakesLabel = "Flakes"

type FlakesRepo struct {
	*Store
}

func NewFlakesRepo(s *Store) *FlakesRepo {
	return &FlakesRepo{Store: s}
}

func (r *FlakesRepo) Capabilities() models.ListCapabilities {
	return models.ListCapabilities{}
}

func (r *FlakesRepo) validate(p *models.FlakesPayload) ([]models.Fields, error) {
	missing := requireHeader(p.HeaderPayload)
	if len(p.Details) == 0 {
		missing = append(missing, "details are required")
	}
	if len(missing) > 0 {
		return nil, apierr.Validation("missing required fields", missing...)
	}
	rows := models.PresentRows(p.Details, models.FlakesDetailRowFields)
	if len(rows) == 0 {
		return nil, apierr.Validation("all rows empty")
	}
	return rows, nil
}

func (r *FlakesRepo) document(p *models.FlakesPayload) models.FlakesDocument {
	return models.FlakesDocument{
		DocumentBase: p.Base(flakesLabel),
		FlakerNo:     p.FlakerNo,
		OperatorName: p.OperatorName,
		CheckedBy:    p.CheckedBy,
	}
}

// insertChildren writes the detail rows and the summary row. The summary
// is stored as submitted, even when blank.
func (r *FlakesRepo) insertChildren(tx *gorm.DB, id uint, rows []models.Fields, summary models.Fields) error {
	details := make([]models.FlakesDetailRow, 0, len(rows))
	for _, f := range rows {
		details = append(details, models.NewFlakesDetailRow(id, f))
	}
	if err := createRows(tx, details); err != nil {
		return err
	}
	s := models.NewFlakesSummary(id, summary)
	return tx.Create(&s).Error
}

func (r *FlakesRepo) Create(ctx context.Context, p *models.FlakesPayload) (uint, int, error) {
	rows, err := r.validate(p)
	if err != nil {
		return 0, 0, err
	}
	doc := r.document(p)
	err = r.inTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&doc).Error; err != nil {
			return err
		}
		return r.insertChildren(tx, doc.ID, rows, p.Summary)
	})
	if err != nil {
		return 0, 0, err
	}
	r.log.Info("document created", "type", flakesLabel, "id", doc.ID, "rows", len(rows))
	return doc.ID, len(rows), nil
}

func (r *FlakesRepo) Get(ctx context.Context, id uint) (*models.FlakesDetail, error) {
	var out models.FlakesDetail
	err := r.inTx(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &out.Document, id, flakesLabel); err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", id).Order("id").Find(&out.Details).Error; err != nil {
			return err
		}
		var summaries []models.FlakesSummary
		if err := tx.Where("document_id = ?", id).Limit(1).Find(&summaries).Error; err != nil {
			return err
		}
		if len(summaries) > 0 {
			out.Summary = summaries[0]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.Details == nil {
		out.Details = []models.FlakesDetailRow{}
	}
	return &out, nil
}

func (r *FlakesRepo) Update(ctx context.Context, id uint, p *models.FlakesPayload) (int, error) {
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
			return r.missing(flakesLabel, id)
		}
		if err := deleteChildren(tx, id, &models.FlakesDetailRow{}, &models.FlakesSummary{}); err != nil {
			return err
		}
		if err := r.insertChildren(tx, id, rows, p.Summary); err != nil {
			return err
		}
		count = len(rows)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *FlakesRepo) Delete(ctx context.Context, id uint) error {
	return r.deleteDocument(ctx, flakesLabel, id, &models.FlakesDocument{},
		&models.FlakesDetailRow{}, &models.FlakesSummary{})
}

func (r *FlakesRepo) List(ctx context.Context, _ models.ListParams) ([]models.DocumentSummary, int64, error) {
	docs, err := listParents[models.FlakesDocument](ctx, r.db)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.DocumentSummary, len(docs))
	for i, d := range docs {
		out[i] = d.Summary()
	}
	return out, int64(len(out)), nil
}
