package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	InputMethodPaste   = "paste"
	InputMethodScraped = "scraped"
)

type Job struct {
	ID              string            `json:"id"`
	AccountID       string            `json:"account_id"`
	InputText       string            `json:"input_text"`
	InputMethod     string            `json:"input_method"`
	BrandVoice      string            `json:"brand_voice"`
	SelectedFormats []string          `json:"selected_formats"`
	Outputs         map[string]string `json:"outputs"`
	Provider        string            `json:"provider"`
	CreatedAt       time.Time         `json:"created_at"`
}

type JobDB struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID              string            `bun:"id,pk" json:"id"`
	AccountID       string            `bun:"account_id,notnull" json:"account_id"`
	InputText       string            `bun:"input_text,notnull" json:"input_text"`
	InputMethod     string            `bun:"input_method,notnull,default:'paste'" json:"input_method"`
	BrandVoice      string            `bun:"brand_voice,notnull" json:"brand_voice"`
	SelectedFormats []string          `bun:"selected_formats,type:jsonb" json:"selected_formats"`
	Outputs         map[string]string `bun:"outputs,type:jsonb" json:"outputs"`
	Provider        string            `bun:"provider" json:"provider"`
	CreatedAt       time.Time         `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

func (j *JobDB) ToJob() *Job {
	return &Job{
		ID:              j.ID,
		AccountID:       j.AccountID,
		InputText:       j.InputText,
		InputMethod:     j.InputMethod,
		BrandVoice:      j.BrandVoice,
		SelectedFormats: j.SelectedFormats,
		Outputs:         j.Outputs,
		Provider:        j.Provider,
		CreatedAt:       j.CreatedAt,
	}
}

func JobFromDomain(j *Job) *JobDB {
	return &JobDB{
		ID:              j.ID,
		AccountID:       j.AccountID,
		InputText:       j.InputText,
		InputMethod:     j.InputMethod,
		BrandVoice:      j.BrandVoice,
		SelectedFormats: j.SelectedFormats,
		Outputs:         j.Outputs,
		Provider:        j.Provider,
		CreatedAt:       j.CreatedAt,
	}
}
