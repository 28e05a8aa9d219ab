package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/xy-planning-network/compass"
	"github.com/xy-planning-network/compass/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -destination=profilemock/store.go -package=profilemock . Store

// A UserProfile is the questionnaire Answers saved for a user.
type UserProfile struct {
	ID              uint   `gorm:"primaryKey"`
	UserID          string `gorm:"uniqueIndex"`
	Occupation      string
	AnnualIncome    string
	MonthlyExpenses string
	DebtType        string
	SavingsRange    string
	RiskTolerance   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName names the table UserProfile is stored in.
func (UserProfile) TableName() string { return "user_profiles" }

// NewUserProfile maps the Answers onto the UserProfile of the user identified by userID.
func NewUserProfile(userID string, a Answers) *UserProfile {
	return &UserProfile{
		UserID:          userID,
		Occupation:      a.AboutYou,
		AnnualIncome:    a.Income.String(),
		MonthlyExpenses: a.Expenses.String(),
		DebtType:        a.Debt,
		SavingsRange:    a.Savings,
		RiskTolerance:   a.RiskTolerance.String(),
	}
}

// Answers maps the UserProfile back onto the questionnaire's Answers.
func (p *UserProfile) Answers() Answers {
	return Answers{
		AboutYou:      p.Occupation,
		Income:        IncomeRange(p.AnnualIncome),
		Expenses:      ExpenseRange(p.MonthlyExpenses),
		Debt:          p.DebtType,
		Savings:       p.SavingsRange,
		RiskTolerance: RiskTolerance(p.RiskTolerance),
	}
}

// A Store saves and retrieves UserProfiles.
type Store interface {
	FindByUserID(ctx context.Context, userID string) (*UserProfile, error)
	Upsert(ctx context.Context, p *UserProfile) error
}

// DB is the PostgreSQL backed Store.
type DB struct {
	db *gorm.DB
}

// NewDB constructs a *DB over an open *gorm.DB.
func NewDB(db *gorm.DB) *DB { return &DB{db: db} }

// FindByUserID retrieves the UserProfile for the user.
//
// If the user has none, compass.ErrNotExist returns.
func (s *DB) FindByUserID(ctx context.Context, userID string) (*UserProfile, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: no user ID", compass.ErrMissingData)
	}

	p := new(UserProfile)
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(p).Error; err != nil {
		return nil, postgres.Translate(err)
	}

	return p, nil
}

// Upsert inserts p or, when the user already has a UserProfile, overwrites its answers.
func (s *DB) Upsert(ctx context.Context, p *UserProfile) error {
	if p == nil || p.UserID == "" {
		return fmt.Errorf("%w: no user ID", compass.ErrMissingData)
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"occupation",
			"annual_income",
			"monthly_expenses",
			"debt_type",
			"savings_range",
			"risk_tolerance",
			"updated_at",
		}),
	}).Create(p).Error

	return postgres.Translate(err)
}
