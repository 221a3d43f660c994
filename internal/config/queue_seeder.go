package config

import (
	"errors"
	"fmt"
	"log"

	"shopserve/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// SeedCounters makes sure counters "Counter 1".."Counter n" exist.
// Existing rows are left untouched so an operator's open/closed choice survives restarts.
func SeedCounters(db *gorm.DB, n int) error {
	created := 0
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("Counter %d", i)

		var existing models.Counter
		err := db.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		counter := models.Counter{Name: name, IsActive: true}
		if err := db.Create(&counter).Error; err != nil {
			return err
		}
		created++
		log.Printf("   Created counter: %s", name)
	}

	if created > 0 {
		log.Printf("✅ Seeded %d counter(s)", created)
	}
	return nil
}
