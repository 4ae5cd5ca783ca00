package store

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"eventhubble-backend-go/internal/models"
)

const settingColumns = `id, setting_key, setting_value, setting_type, category, description, updated_at`

const settingNotFound = "Setting not found"

type SettingUpdate struct {
	Key         string      `json:"setting_key" validate:"required,max=120"`
	Value       interface{} `json:"setting_value"`
	Type        string      `json:"setting_type" validate:"omitempty,oneof=string number boolean json"`
	Category    string      `json:"category"`
	Description *string     `json:"description"`
}

type SettingOutcome struct {
	Key     string             `json:"setting_key"`
	Action  string             `json:"action"`
	Setting models.SiteSetting `json:"setting"`
}

type settingRow struct {
	models.SiteSetting
	Created bool `db:"created"`
}

// GetSiteSettings lists settings, optionally for one category.
func (s *Store) GetSiteSettings(ctx context.Context, category string) Result[[]models.SiteSetting] {
	w := &where{}
	if category = strings.TrimSpace(category); category != "" {
		w.add("category = $%d", category)
	}
	settings := []models.SiteSetting{}
	query := `SELECT ` + settingColumns + ` FROM site_settings` + w.sql() + ` ORDER BY category ASC, setting_key ASC`
	if err := s.db.SelectContext(ctx, &settings, query, w.args...); err != nil {
		return failure[[]models.SiteSetting]("get settings", err, "")
	}
	return Ok(settings)
}

// SettingsMap returns key to coerced value.
func (s *Store) SettingsMap(ctx context.Context, category string) Result[map[string]interface{}] {
	listed := s.GetSiteSettings(ctx, category)
	if !listed.Success {
		return Fail[map[string]interface{}](listed.Kind, listed.Error)
	}
	values := make(map[string]interface{}, len(listed.Data))
	for _, setting := range listed.Data {
		values[setting.Key] = setting.TypedValue()
	}
	return Ok(values)
}

func (s *Store) GetSiteSetting(ctx context.Context, key string) Result[models.SiteSetting] {
	var setting models.SiteSetting
	err := s.db.GetContext(ctx, &setting, `SELECT `+settingColumns+` FROM site_settings WHERE setting_key = $1`, strings.TrimSpace(key))
	if err != nil {
		return failure[models.SiteSetting]("get setting", err, settingNotFound)
	}
	return Ok(setting)
}

// UpdateSiteSetting inserts or overwrites one setting. Type and category are
// kept from the stored row when the update leaves them empty.
func (s *Store) UpdateSiteSetting(ctx context.Context, update SettingUpdate) Result[SettingOutcome] {
	outcome, err := s.upsertSetting(ctx, s.db, update)
	if err != nil {
		var invalid *Error
		if errors.As(err, &invalid) {
			return Fail[SettingOutcome](invalid.Kind, invalid.Message)
		}
		return failure[SettingOutcome]("update setting", err, "")
	}
	return Ok(outcome)
}

// UpdateSiteSettings applies a batch in one transaction. Either every entry
// is written and its outcome returned, or nothing is.
func (s *Store) UpdateSiteSettings(ctx context.Context, updates []SettingUpdate) Result[[]SettingOutcome] {
	if len(updates) == 0 {
		return Fail[[]SettingOutcome](KindInvalid, "No settings supplied")
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return failure[[]SettingOutcome]("begin settings batch", err, "")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	outcomes := make([]SettingOutcome, 0, len(updates))
	for _, update := range updates {
		outcome, err := s.upsertSetting(ctx, tx, update)
		if err != nil {
			var invalid *Error
			if errors.As(err, &invalid) {
				return Fail[[]SettingOutcome](invalid.Kind, invalid.Message)
			}
			failed := failure[[]SettingOutcome]("update settings", err, "")
			failed.Error = "Setting " + update.Key + ": " + failed.Error
			return failed
		}
		outcomes = append(outcomes, outcome)
	}
	if err := tx.Commit(); err != nil {
		return failure[[]SettingOutcome]("commit settings batch", err, "")
	}
	return Ok(outcomes)
}

func (s *Store) upsertSetting(ctx context.Context, q sqlx.QueryerContext, update SettingUpdate) (SettingOutcome, error) {
	key := strings.TrimSpace(update.Key)
	if key == "" {
		return SettingOutcome{}, &Error{Kind: KindInvalid, Message: "Setting key is required"}
	}
	settingType := strings.ToLower(strings.TrimSpace(update.Type))
	switch settingType {
	case "", models.SettingString, models.SettingNumber, models.SettingBoolean, models.SettingJSON:
	default:
		return SettingOutcome{}, &Error{Kind: KindInvalid, Message: "Unknown setting type: " + update.Type}
	}
	value, err := models.EncodeSetting(update.Value, settingType)
	if err != nil {
		return SettingOutcome{}, &Error{Kind: KindInvalid, Message: "Setting " + key + " is not encodable"}
	}

	var row settingRow
	err = sqlx.GetContext(ctx, q, &row, `
INSERT INTO site_settings (setting_key, setting_value, setting_type, category, description, updated_at)
VALUES ($1, $2, COALESCE(NULLIF($3, ''), $6), COALESCE(NULLIF($4, ''), 'general'), $5, $7)
ON CONFLICT (setting_key) DO UPDATE SET
  setting_value = EXCLUDED.setting_value,
  setting_type = COALESCE(NULLIF($3, ''), site_settings.setting_type),
  category = COALESCE(NULLIF($4, ''), site_settings.category),
  description = COALESCE($5, site_settings.description),
  updated_at = EXCLUDED.updated_at
RETURNING `+settingColumns+`, (xmax = 0) AS created`,
		key, value, settingType, strings.TrimSpace(update.Category), update.Description,
		models.InferSettingType(update.Value), s.now())
	if err != nil {
		return SettingOutcome{}, err
	}
	action := "updated"
	if row.Created {
		action = "created"
	}
	return SettingOutcome{Key: key, Action: action, Setting: row.SiteSetting}, nil
}
