package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the tables behind the repositories.
// Used by the seeder and test setups; production schemas are managed
// the same way for now.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&companyModel{},
		&teamMemberModel{},
		&leadModel{},
	)
}
