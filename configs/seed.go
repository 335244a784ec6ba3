package configs

import (
	"github.com/angr3yo/Food-Delivery-DBMS/entity"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin account from ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdmin(db *gorm.DB, cfg *Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		logrus.Info("skip seeding admin: missing ADMIN_EMAIL/ADMIN_PASSWORD")
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("email = ?", cfg.AdminEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logrus.WithField("email", cfg.AdminEmail).Info("admin already exists")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.User{
		Email:     cfg.AdminEmail,
		Password:  string(hash),
		FirstName: "Admin",
		LastName:  "Seed",
		Role:      entity.RoleAdmin,
	}
	return db.Create(&admin).Error
}

type demoRestaurant struct {
	name, address, cuisine string
	menu                   map[string]string
}

var demoRestaurants = []demoRestaurant{
	{"Biryani House", "12 MG Road", "Indian", map[string]string{
		"Chicken Biryani": "8.50", "Raita": "1.25", "Gulab Jamun": "3.00",
	}},
	{"Luigi's", "4 Harbour Street", "Italian", map[string]string{
		"Margherita": "9.00", "Tiramisu": "4.50",
	}},
	{"Wok This Way", "88 Canal Lane", "Chinese", map[string]string{
		"Fried Rice": "6.75", "Spring Rolls": "3.20",
	}},
}

// SeedDemo fills an empty catalog and fleet with sample rows. Safe to run twice.
func SeedDemo(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, d := range demoRestaurants {
			var r entity.Restaurant
			if err := tx.Where(entity.Restaurant{Name: d.name}).
				Attrs(entity.Restaurant{Address: d.address, Cuisine: d.cuisine}).
				FirstOrCreate(&r).Error; err != nil {
				return err
			}
			for name, price := range d.menu {
				item := entity.MenuItem{RestaurantID: r.ID, Name: name}
				if err := tx.Where(item).
					Attrs(entity.MenuItem{Price: decimal.RequireFromString(price), Available: true}).
					FirstOrCreate(&item).Error; err != nil {
					return err
				}
			}
		}

		for _, name := range [][2]string{{"Ravi", "Kumar"}, {"Anita", "Shah"}} {
			e := entity.Employee{FirstName: name[0], LastName: name[1], Role: entity.EmployeeRoleDriver}
			if err := tx.Where(entity.Employee{FirstName: name[0], LastName: name[1]}).
				Attrs(entity.Employee{Role: entity.EmployeeRoleDriver, Active: true}).
				FirstOrCreate(&e).Error; err != nil {
				return err
			}
		}
		for _, reg := range []string{"KA01AB1234", "KA05CD5678"} {
			v := entity.Vehicle{RegistrationNumber: reg}
			if err := tx.Where(v).Attrs(entity.Vehicle{Type: "Scooter", Active: true}).
				FirstOrCreate(&v).Error; err != nil {
				return err
			}
		}

		logrus.Info("demo catalog and fleet seeded")
		return nil
	})
}
