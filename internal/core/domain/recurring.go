package domain

import "time"

// RecurringFrequency is the cadence of a recurring journal schedule.
type RecurringFrequency string

const (
	FrequencyDaily   RecurringFrequency = "DAILY"
	FrequencyWeekly  RecurringFrequency = "WEEKLY"
	FrequencyMonthly RecurringFrequency = "MONTHLY"
)

// RecurringJournal generates new draft journals from a template journal on a
// cadence. LastGenerated is the idempotence watermark: a generation tick only
// produces occurrences strictly after it, so redundant ticks are safe.
type RecurringJournal struct {
	RecurringJournalID string             `json:"recurringJournalID"`
	TemplateJournalID  string             `json:"templateJournalID"`
	Frequency          RecurringFrequency `json:"frequency"`
	StartDate          time.Time          `json:"startDate"`
	EndDate            *time.Time         `json:"endDate,omitempty"`
	// DayOfMonth drives MONTHLY schedules; 31 or 0 means last day of month.
	DayOfMonth *int `json:"dayOfMonth,omitempty"`
	// DayOfWeek drives WEEKLY schedules; 0 = Sunday .. 6 = Saturday.
	DayOfWeek     *int       `json:"dayOfWeek,omitempty"`
	LastGenerated *time.Time `json:"lastGenerated,omitempty"`
	IsActive      bool       `json:"isActive"`
	AuditFields
}

// RecurringJournalPatch enumerates the mutable fields of a schedule.
// Nil means "leave unchanged"; this is the full allow-list.
type RecurringJournalPatch struct {
	Frequency  *RecurringFrequency
	StartDate  *time.Time
	EndDate    *time.Time
	DayOfMonth *int
	DayOfWeek  *int
	IsActive   *bool
}
