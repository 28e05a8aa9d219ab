package profile

import (
	"github.com/xy-planning-network/compass/postgres"
	"gorm.io/gorm"
)

// Migrations creates and evolves the tables the profile package stores into.
var Migrations = []postgres.Migration{
	{
		Key: "20240601_create_user_profiles",
		Executor: func(db *gorm.DB) error {
			return db.Exec(`
				CREATE TABLE IF NOT EXISTS user_profiles (
					id SERIAL PRIMARY KEY,
					user_id text NOT NULL,
					occupation text NOT NULL DEFAULT '',
					annual_income text NOT NULL DEFAULT '',
					monthly_expenses text NOT NULL DEFAULT '',
					debt_type text NOT NULL DEFAULT '',
					savings_range text NOT NULL DEFAULT '',
					risk_tolerance text NOT NULL DEFAULT '',
					created_at timestamptz NOT NULL DEFAULT now(),
					updated_at timestamptz NOT NULL DEFAULT now(),
					CONSTRAINT user_profiles_user_id UNIQUE (user_id)
				)
			`).Error
		},
	},
}
