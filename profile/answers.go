package profile

import (
	"fmt"

	"github.com/xy-planning-network/compass"
)

// An IncomeRange is the visitor's annual income bracket, in RM.
type IncomeRange string

const (
	IncomeUpTo36k   IncomeRange = "0-36,000"
	IncomeUpTo60k   IncomeRange = "36,001-60,000"
	IncomeUpTo100k  IncomeRange = "60,001-100,000"
	IncomeAbove100k IncomeRange = "100,000+"
)

// IncomeRanges lists every IncomeRange in ascending order.
var IncomeRanges = []IncomeRange{IncomeUpTo36k, IncomeUpTo60k, IncomeUpTo100k, IncomeAbove100k}

func (ir IncomeRange) String() string { return string(ir) }

// Valid asserts the IncomeRange is one of IncomeRanges.
func (ir IncomeRange) Valid() error {
	for _, v := range IncomeRanges {
		if ir == v {
			return nil
		}
	}

	return fmt.Errorf("%w: IncomeRange %q", compass.ErrNotValid, string(ir))
}

// An ExpenseRange is the visitor's monthly expenses bracket, in RM.
type ExpenseRange string

const (
	ExpensesUpTo1k   ExpenseRange = "0-1,000"
	ExpensesUpTo2500 ExpenseRange = "1,001-2,500"
	ExpensesUpTo4k   ExpenseRange = "2,501-4,000"
	ExpensesAbove4k  ExpenseRange = "4,000+"
)

// ExpenseRanges lists every ExpenseRange in ascending order.
var ExpenseRanges = []ExpenseRange{ExpensesUpTo1k, ExpensesUpTo2500, ExpensesUpTo4k, ExpensesAbove4k}

func (er ExpenseRange) String() string { return string(er) }

// Valid asserts the ExpenseRange is one of ExpenseRanges.
func (er ExpenseRange) Valid() error {
	for _, v := range ExpenseRanges {
		if er == v {
			return nil
		}
	}

	return fmt.Errorf("%w: ExpenseRange %q", compass.ErrNotValid, string(er))
}

// A RiskTolerance is how much investment risk the visitor accepts.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "Low"
	RiskMedium RiskTolerance = "Medium"
	RiskHigh   RiskTolerance = "High"
)

// RiskTolerances lists every RiskTolerance from least to most risk.
var RiskTolerances = []RiskTolerance{RiskLow, RiskMedium, RiskHigh}

func (rt RiskTolerance) String() string { return string(rt) }

// Valid asserts the RiskTolerance is one of RiskTolerances.
func (rt RiskTolerance) Valid() error {
	for _, v := range RiskTolerances {
		if rt == v {
			return nil
		}
	}

	return fmt.Errorf("%w: RiskTolerance %q", compass.ErrNotValid, string(rt))
}

// Answers are the visitor's responses to the questionnaire,
// keyed the same in the posted form and in the cached questionnaire data.
type Answers struct {
	AboutYou      string        `json:"aboutYou" schema:"aboutYou" validate:"required,max=200"`
	Income        IncomeRange   `json:"income" schema:"income" validate:"enum"`
	Expenses      ExpenseRange  `json:"expenses" schema:"expenses" validate:"enum"`
	Debt          string        `json:"debt" schema:"debt" validate:"max=200"`
	Savings       string        `json:"savings" schema:"savings" validate:"max=200"`
	RiskTolerance RiskTolerance `json:"riskTolerance" schema:"riskTolerance" validate:"enum"`
}
