package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/apierr"
)

const qcAnalisaLabel = "QC Analisa"

type QCAnalisaRepo struct {
	*Store
}

func NewQCAnalisaRepo(s *Store) *QCAnalisaRepo {
	return &QCAnalisaRepo{Store: s}
}

func (r *QCAnalisaRepo) Capabilities() models.ListCapabilities {
	return models.ListCapabilities{}
}

// validate checks required fields and returns the rows worth storing.
func (r *QCAnalisaRepo) validate(p *models.QCAnalisaPayload) ([]models.Fields, error) {
	missing := requireHeader(p.HeaderPayload)
	if len(p.Rows) == 0 {
		missing = append(missing, "rows are required")
	}
	if len(missing) > 0 {
		return nil, apierr.Validation("missing required fields", missing...)
	}
	rows := models.PresentRows(p.Rows, models.QCAnalisaRowFields)
	if len(rows) == 0 {
		return nil, apierr.Validation("all rows empty")
	}
	return rows, nil
}

func (r *QCAnalisaRepo) document(p *models.QCAnalisaPayload) models.QCAnalisaDocument {
	return models.QCAnalisaDocument{
		DocumentBase: p.Base(qcAnalisaLabel),
		OperatorName: p.OperatorName,
		CheckedBy:    p.CheckedBy,
	}
}

func (r *QCAnalisaRepo) insertChildren(tx *gorm.DB, id uint, rows []models.Fields) error {
	out := make([]models.QCAnalisaScreenRow, 0, len(rows))
	for _, f := range rows {
		out = append(out, models.NewQCAnalisaScreenRow(id, f))
	}
	return createRows(tx, out)
}

// Create stores the sheet and its non-empty screen rows. It returns the
// new id and the number of rows kept.
func (r *QCAnalisaRepo) Create(ctx context.Context, p *models.QCAnalisaPayload) (uint, int, error) {
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
	r.log.Info("document created", "type", qcAnalisaLabel, "id", doc.ID, "rows", len(rows))
	return doc.ID, len(rows), nil
}

func (r *QCAnalisaRepo) Get(ctx context.Context, id uint) (*models.QCAnalisaDetail, error) {
	var out models.QCAnalisaDetail
	err := r.inTx(ctx, func(tx *gorm.DB) error {
		if err := first(tx, &out.Document, id, qcAnalisaLabel); err != nil {
			return err
		}
		return tx.Where("document_id = ?", id).Order("id").Find(&out.Rows).Error
	})
	if err != nil {
		return nil, err
	}
	if out.Rows == nil {
		out.Rows = []models.QCAnalisaScreenRow{}
	}
	return &out, nil
}

// Update replaces the header and every screen row.
func (r *QCAnalisaRepo) Update(ctx context.Context, id uint, p *models.QCAnalisaPayload) (int, error) {
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
			return r.missing(qcAnalisaLabel, id)
		}
		if err := deleteChildren(tx, id, &models.QCAnalisaScreenRow{}); err != nil {
			return err
		}
		if err := r.insertChildren(tx, id, rows); err != nil {
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

func (r *QCAnalisaRepo) Delete(ctx context.Context, id uint) error {
	return r.deleteDocument(ctx, qcAnalisaLabel, id, &models.QCAnalisaDocument{}, &models.QCAnalisaScreenRow{})
}

func (r *QCAnalisaRepo) List(ctx context.Context, _ models.ListParams) ([]models.DocumentSummary, int64, error) {
	docs, err := listParents[models.QCAnalisaDocument](ctx, r.db)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.DocumentSummary, len(docs))
	for i, d := range docs {
		out[i] = d.Summary()
	}
	return out, int64(len(out)), nil
}
