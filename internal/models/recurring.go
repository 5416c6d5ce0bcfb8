package models

import "time"

// RecurringFrequency is the cadence of a recurring journal schedule.
type RecurringFrequency string

const (
	FrequencyDaily   RecurringFrequency = "DAILY"
	FrequencyWeekly  RecurringFrequency = "WEEKLY"
	FrequencyMonthly RecurringFrequency = "MONTHLY"
)

// RecurringJournal is a schedule row that stamps out draft journals from a template.
type RecurringJournal struct {
	RecurringJournalID string             `db:"recurring_journal_id"`
	TemplateJournalID  string             `db:"template_journal_id"`
	Frequency          RecurringFrequency `db:"frequency"`
	StartDate          time.Time          `db:"start_date"`
	EndDate            *time.Time         `db:"end_date"`        // Nullable
	DayOfMonth         *int               `db:"day_of_month"`    // Nullable; 31/0 means last day
	DayOfWeek          *int               `db:"day_of_week"`     // Nullable; 0 = Sunday
	LastGenerated      *time.Time         `db:"last_generated"`  // Idempotence watermark
	IsActive           bool               `db:"is_active"`
	AuditFields
}
