package seeders

import (
	"log"
	"time"

	"gorm.io/gorm"

	sessionModel "session-booking/models/session"
)

// SeedSessions inserts a demo week of sessions into an empty database so the
// booking page has something to show on a fresh install.
func SeedSessions(db *gorm.DB) {
	log.Printf("🔍 Checking session seed data...")

	var count int64
	if err := db.Model(&sessionModel.Session{}).Count(&count).Error; err != nil {
		log.Printf("❌ Failed to count sessions: %v", err)
		return
	}
	if count > 0 {
		log.Printf("✅ Sessions already present, skipping seed")
		return
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	sessions := []sessionModel.Session{
		{Title: "Morning Yoga", Date: today.AddDate(0, 0, 1), StartTime: "07:00", EndTime: "08:00", Capacity: 12, Category: "Wellness", CreatedBy: "seed"},
		{Title: "Beginner Pilates", Date: today.AddDate(0, 0, 1), StartTime: "09:30", EndTime: "10:30", Capacity: 10, Category: "Wellness", CreatedBy: "seed"},
		{Title: "Strength Training", Date: today.AddDate(0, 0, 2), StartTime: "18:00", EndTime: "19:00", Capacity: 8, Category: "Fitness", CreatedBy: "seed"},
		{Title: "Spin Class", Date: today.AddDate(0, 0, 3), StartTime: "17:30", EndTime: "18:15", Capacity: 20, Category: "Fitness", CreatedBy: "seed"},
		{Title: "Nutrition Workshop", Date: today.AddDate(0, 0, 4), StartTime: "12:00", EndTime: "13:30", Capacity: 25, Category: "Workshop", CreatedBy: "seed"},
		{Title: "Personal Consultation", Date: today.AddDate(0, 0, 5), StartTime: "10:00", EndTime: "10:45", Capacity: 1, Category: "Appointment", CreatedBy: "seed"},
	}

	if err := db.Create(&sessions).Error; err != nil {
		log.Printf("❌ Failed to seed sessions: %v", err)
		return
	}
	log.Printf("✅ Seeded %d demo sessions", len(sessions))
}
