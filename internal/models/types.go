package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray JSON 存储的字符串数组（尺码、图片）
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (s *StringArray) Scan(value interface{}) error {
	raw, ok := scanBytes(value)
	if !ok || len(raw) == 0 {
		*s = StringArray{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// Contains 判断是否包含指定值
func (s StringArray) Contains(value string) bool {
	for _, item := range s {
		if item == value {
			return true
		}
	}
	return false
}

// AddressSnapshot 下单时复制的地址快照，与地址簿解耦
type AddressSnapshot struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

// FullName 收件人全名
func (a AddressSnapshot) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	default:
		return a.FirstName + " " + a.LastName
	}
}

func (a AddressSnapshot) Value() (driver.Value, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (a *AddressSnapshot) Scan(value interface{}) error {
	raw, ok := scanBytes(value)
	if !ok {
		return fmt.Errorf("unsupported address snapshot type %T", value)
	}
	if len(raw) == 0 {
		*a = AddressSnapshot{}
		return nil
	}
	return json.Unmarshal(raw, a)
}

func scanBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case nil:
		return nil, true
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
