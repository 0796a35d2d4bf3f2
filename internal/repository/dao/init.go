package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Admin{},
		&Lookup{},
		&Employee{},
		&Bus{},
		&Package{},
		&Hall{},
		&Bed{},
		&ImportHistory{},
		&Pilgrim{},
		&PilgrimTag{},
		&PilgrimSupervisor{},
	)
}

// DropAllTables removes every table in the public schema. Only used to
// reset integration databases.
func DropAllTables(db *gorm.DB) error {
	var tableNames []string
	if err := db.Table("information_schema.tables").
		Where("table_schema = ?", "public").
		Pluck("table_name", &tableNames).Error; err != nil {
		return err
	}

	for _, tableName := range tableNames {
		if err := db.Exec(`DROP TABLE IF EXISTS "` + tableName + `" CASCADE`).Error; err != nil {
			return err
		}
	}

	return nil
}
