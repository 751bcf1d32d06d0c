package db

import (
	"github.com/brennanwesley/jobticketinvoice-sub000/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func Open(dsn string) (*gorm.DB, error) {
	database, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.OTP{},
		&models.RefreshToken{},
		&models.JobTicket{},
		&models.Invoice{},
		&models.TechInvite{},
		&models.AuditLog{},
	); err != nil {
		return nil, err
	}

	return database, nil
}
