package main

import (
	"fmt"
	"log"

	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/config"
	"github.com/Iamwillypieter/Canang-Indah-Dashboard-sub000/models"
)

type tabler interface {
	TableName() string
}

// Prints row counts for every lab table so a fresh deployment can be
// checked after migrations and seeding.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	db, err := config.Connect(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer config.Close(db)

	if err := config.Migrations(db); err != nil {
		log.Fatal("Migrations failed:", err)
	}

	fmt.Println("========================================")
	fmt.Println("VERIFICATION: Lab document tables")
	fmt.Println("========================================")

	tables := []tabler{
		&models.User{},
		&models.QCAnalisaDocument{}, &models.QCAnalisaScreenRow{},
		&models.ResinInspectionDocument{}, &models.ResinInspectionRow{}, &models.ResinSolidsRow{},
		&models.FlakesDocument{}, &models.FlakesDetailRow{}, &models.FlakesSummary{},
		&models.LabPBDocument{}, &models.LabPBInternalBonding{}, &models.LabPBBendingStrength{},
		&models.LabPBScrewTest{}, &models.LabPBDensityProfile{}, &models.LabPBMCBoard{},
		&models.LabPBSwelling{}, &models.LabPBSurfaceSoundness{}, &models.LabPBBoardDensity{},
		&models.LabPBAverage{}, &models.LabPBAdditionalTest{},
	}
	failed := false
	for _, m := range tables {
		var n int64
		if err := db.Model(m).Count(&n).Error; err != nil {
			fmt.Printf("FAIL %-28s %v\n", m.TableName(), err)
			failed = true
			continue
		}
		fmt.Printf("ok   %-28s %d rows\n", m.TableName(), n)
	}

	var admins int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins)
	if admins == 0 {
		fmt.Println("\nWARNING: no admin user; set SEED_ADMIN_USERNAME and SEED_ADMIN_PASSWORD")
	}
	if failed {
		log.Fatal("verification failed")
	}
	fmt.Println("\nAll lab tables reachable.")
}
