package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

const (
	SettingString  = "string"
	SettingNumber  = "number"
	SettingBoolean = "boolean"
	SettingJSON    = "json"
)

// TypedValue coerces the stored string by setting_type. Numbers that fail to
// parse and invalid JSON come back as the raw string.
func (s SiteSetting) TypedValue() interface{} {
	return CoerceSetting(s.Value, s.Type)
}

func CoerceSetting(value, settingType string) interface{} {
	switch strings.ToLower(strings.TrimSpace(settingType)) {
	case SettingNumber:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return value
		}
		return parsed
	case SettingBoolean:
		return strings.EqualFold(strings.TrimSpace(value), "true")
	case SettingJSON:
		var parsed interface{}
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			return value
		}
		return parsed
	default:
		return value
	}
}

// EncodeSetting turns a typed value back into its stored string form.
func EncodeSetting(value interface{}, settingType string) (string, error) {
	switch typed := value.(type) {
	case string:
		return typed, nil
	case nil:
		return "", nil
	case bool:
		return strconv.FormatBool(typed), nil
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(typed), nil
	case int64:
		return strconv.FormatInt(typed, 10), nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// InferSettingType guesses the tag for a value without an explicit type.
func InferSettingType(value interface{}) string {
	switch value.(type) {
	case bool:
		return SettingBoolean
	case float64, int, int64:
		return SettingNumber
	case map[string]interface{}, []interface{}:
		return SettingJSON
	default:
		return SettingString
	}
}
