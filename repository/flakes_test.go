package repository

import (
	"context"
	"testing"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/pkg/apierr"
)

func TestFlakesSummaryStoredAsSubmitted(t *testing.T) {
	repo := NewFlakesRepo(newTestStore(t, DefaultOptions()))
	ctx := context.Background()

	p := &models.FlakesPayload{
		HeaderPayload: header("2024-03-01", "Shift A"),
		FlakerNo:      "F2",
		Details: []models.Fields{
			{"jam": "08:00", "thickness": "0.30", "moisture": "4.1"},
			{"jam": "09:00", "thickness": "0.40", "moisture": "3.9"},
		},
		// deliberately inconsistent with the details
		Summary: models.Fields{"sample_count": "5", "avg_thickness": "9.99", "remarks": "manual"},
	}
	id, count, err := repo.Create(ctx, p)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d", count)
	}

	got, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	s := got.Summary
	if s.SampleCount == nil || *s.SampleCount != 5 {
		t.Errorf("sample_count = %v", s.SampleCount)
	}
	if s.AvgThickness == nil || *s.AvgThickness != 9.99 {
		t.Errorf("avg_thickness = %v, expected the submitted 9.99", s.AvgThickness)
	}
	if s.AvgMoisture != nil {
		t.Errorf("avg_moisture = %v, expected nil", *s.AvgMoisture)
	}
	if s.Remarks != "manual" {
		t.Errorf("remarks = %q", s.Remarks)
	}
	if len(got.Details) != 2 {
		t.Errorf("details = %d", len(got.Details))
	}
}

func TestFlakesUpdateReplacesSummary(t *testing.T) {
	repo := NewFlakesRepo(newTestStore(t, DefaultOptions()))
	ctx := context.Background()

	p := &models.FlakesPayload{
		HeaderPayload: header("2024-03-01", "Shift A"),
		Details:       []models.Fields{{"jam": "08:00"}},
		Summary:       models.Fields{"remarks": "first"},
	}
	id, _, err := repo.Create(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	p.Summary = models.Fields{"remarks": "second"}
	if _, err := repo.Update(ctx, id, p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if n := countRows(t, repo.db, &models.FlakesSummary{}, id); n != 1 {
		t.Fatalf("summary rows = %d, expected exactly 1", n)
	}
	got, _ := repo.Get(ctx, id)
	if got.Summary.Remarks != "second" {
		t.Errorf("remarks = %q", got.Summary.Remarks)
	}

	if _, err := repo.Update(ctx, id+100, p); !apierr.Is(err, apierr.CodeNotFound) {
		t.Errorf("Update of unknown id: %v", err)
	}
}
