package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// TargetingKey is the composite identity under which persisted FAQ rows are
// grouped and replaced. Replacement scope is (ConsoleID, SubConsoleID);
// BankMap is carried as row metadata, not as part of the replace key.
type TargetingKey struct {
	ConsoleID    int            `json:"console_id"`
	SubConsoleID int            `json:"sub_console_id"`
	Country      int            `json:"country"`
	Institution  int            `json:"inst"`
	LangID       int            `json:"lang"`
	BankMap      string         `json:"bank_map"`
	Answers      AnswerLanguage `json:"answers_to"`
}

// Validate checks the targeting parameters before any processing begins.
func (k TargetingKey) Validate() error {
	return validation.ValidateStruct(&k,
		validation.Field(&k.ConsoleID, validation.Min(0)),
		validation.Field(&k.SubConsoleID, validation.Min(0)),
		validation.Field(&k.Country, validation.Min(0)),
		validation.Field(&k.Institution, validation.Min(0)),
		validation.Field(&k.LangID, validation.Min(0)),
		validation.Field(&k.Answers, validation.Required, validation.In(AnswerOther, AnswerArabic)),
		validation.Field(&k.BankMap, validation.Length(0, 100)),
	)
}
