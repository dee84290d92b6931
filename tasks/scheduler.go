package tasks

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rodionpotapov/bigcorp-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const backupRetention = 4 * 24 * time.Hour

// StartScheduler wires the periodic jobs: the daily sales report mail and the
// nightly uploads backup. The returned cron can be stopped on shutdown.
func StartScheduler(db *gorm.DB, mailer *Mailer, uploadsDir, backupDir string) *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("0 6 * * *", func() {
		if err := SendSalesReport(db, mailer); err != nil {
			log.Printf("sales report failed: %v", err)
		}
	}); err != nil {
		log.Printf("failed to schedule sales report: %v", err)
	}

	if _, err := c.AddFunc("0 2 * * *", func() {
		if err := BackupUploads(uploadsDir, backupDir, backupRetention); err != nil {
			log.Printf("uploads backup failed: %v", err)
		}
	}); err != nil {
		log.Printf("failed to schedule uploads backup: %v", err)
	}

	c.Start()
	return c
}

// SendSalesReport mails yesterday's order figures to the shop admin.
func SendSalesReport(db *gorm.DB, mailer *Mailer) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		return nil
	}

	since := time.Now().Add(-24 * time.Hour)

	var orderCount, paidCount int64
	if err := db.Model(&models.Order{}).Where("created_at >= ?", since).Count(&orderCount).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Order{}).Where("created_at >= ? AND paid = ?", since, true).Count(&paidCount).Error; err != nil {
		return err
	}

	var revenue decimal.NullDecimal
	if err := db.Model(&models.Order{}).
		Where("created_at >= ? AND paid = ?", since, true).
		Select("SUM(amount)").Scan(&revenue).Error; err != nil {
		return err
	}
	revenueStr := "0.00"
	if revenue.Valid {
		revenueStr = revenue.Decimal.StringFixed(2)
	}

	avgPrice, err := models.AverageItemPrice(db)
	if err != nil {
		return err
	}
	avgStr := "n/a"
	if avgPrice != nil {
		avgStr = avgPrice.StringFixed(2)
	}

	body := fmt.Sprintf(
		"Orders: %d\nPaid: %d\nRevenue: %s\nAverage item price (all time): %s\n",
		orderCount, paidCount, revenueStr, avgStr,
	)
	mailer.Enqueue(adminEmail, "Daily sales report", body)
	return nil
}
