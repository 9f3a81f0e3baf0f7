package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
)

// Migrations brings the schema up to date. Every child table carries a
// document_id referencing its parent.
func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "10012024_create_users",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("users")
			},
		},
		{
			ID: "10012024_create_qc_analisa_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.QCAnalisaDocument{}, &models.QCAnalisaScreenRow{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("qc_analisa_screen_rows", "qc_analisa_documents")
			},
		},
		{
			ID: "15012024_create_resin_inspection_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.ResinInspectionDocument{}, &models.ResinInspectionRow{}, &models.ResinSolidsRow{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("resin_solids_rows", "resin_inspection_rows", "resin_inspection_documents")
			},
		},
		{
			ID: "15012024_create_flakes_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.FlakesDocument{}, &models.FlakesDetailRow{}, &models.FlakesSummary{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("flakes_summaries", "flakes_detail_rows", "flakes_documents")
			},
		},
		{
			ID: "22012024_create_lab_pb_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.LabPBDocument{},
					&models.LabPBInternalBonding{},
					&models.LabPBBendingStrength{},
					&models.LabPBScrewTest{},
					&models.LabPBDensityProfile{},
					&models.LabPBMCBoard{},
					&models.LabPBSwelling{},
					&models.LabPBSurfaceSoundness{},
					&models.LabPBBoardDensity{},
					&models.LabPBAverage{},
					&models.LabPBAdditionalTest{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(
					"lab_pb_additional_tests", "lab_pb_averages", "lab_pb_board_densities",
					"lab_pb_surface_soundness", "lab_pb_swellings", "lab_pb_mc_boards",
					"lab_pb_density_profiles", "lab_pb_screw_tests", "lab_pb_bending_strength",
					"lab_pb_internal_bonding", "lab_pb_documents",
				)
			},
		},
		{
			ID: "29012024_add_child_foreign_keys",
			Migrate: func(tx *gorm.DB) error {
				// sqlite cannot add constraints to existing tables
				if tx.Dialector.Name() != "postgres" {
					return nil
				}
				for _, fk := range childForeignKeys {
					name := "fk_" + fk[0] + "_document"
					if err := tx.Exec("ALTER TABLE " + fk[0] + " DROP CONSTRAINT IF EXISTS " + name).Error; err != nil {
						return err
					}
					if err := tx.Exec("ALTER TABLE " + fk[0] + " ADD CONSTRAINT " + name +
						" FOREIGN KEY (document_id) REFERENCES " + fk[1] + "(id) ON DELETE CASCADE").Error; err != nil {
						return err
					}
				}
				return nil
			},
		},
	})
	return m.Migrate()
}

// childForeignKeys pairs each child table with its parent.
var childForeignKeys = [][2]string{
	{"qc_analisa_screen_rows", "qc_analisa_documents"},
	{"resin_inspection_rows", "resin_inspection_documents"},
	{"resin_solids_rows", "resin_inspection_documents"},
	{"flakes_detail_rows", "flakes_documents"},
	{"flakes_summaries", "flakes_documents"},
	{"lab_pb_internal_bonding", "lab_pb_documents"},
	{"lab_pb_bending_strength", "lab_pb_documents"},
	{"lab_pb_screw_tests", "lab_pb_documents"},
	{"lab_pb_density_profiles", "lab_pb_documents"},
	{"lab_pb_mc_boards", "lab_pb_documents"},
	{"lab_pb_swellings", "lab_pb_documents"},
	{"lab_pb_surface_soundness", "lab_pb_documents"},
	{"lab_pb_board_densities", "lab_pb_documents"},
	{"lab_pb_averages", "lab_pb_documents"},
	{"lab_pb_additional_tests", "lab_pb_documents"},
}
