// file: database/connect.go
package database

import (
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"AstraCTF/models"
)

var DB *gorm.DB

func Connect(dsn string, maxIdleConns, maxOpenConns int) {
	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatal("Failed to get underlying sql.DB:", err)
	}

	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)

	// 连接创建 1 小时后过期重建，规避 MySQL wait_timeout 断连
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Println("Database connection successfully established and connection pool configured.")
}

// MigrateTables 自动建表；生产环境若手工管理表结构可不调用
func MigrateTables() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Category{},
		&models.Challenge{},
		&models.Attachment{},
		&models.Submission{},
		&models.Solve{},
		&models.Award{},
		&models.Comment{},
		&models.Notification{},
		&models.Contest{},
		&models.SiteConfig{},
		&models.Instance{},
		&models.Scoreboard{},
		&models.SolveFeed{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	log.Println("Database migration completed.")
}
