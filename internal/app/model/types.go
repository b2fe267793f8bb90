package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Socials holds an entity's social profile links keyed by network
// (instagram, facebook, twitter, tiktok, youtube).
type Socials map[string]string

// Value implements driver.Valuer
func (s Socials) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *Socials) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	raw, err := scanBytes(value)
	if err != nil {
		return fmt.Errorf("failed to scan Socials: %w", err)
	}
	if len(raw) == 0 {
		*s = nil
		return nil
	}
	return json.Unmarshal(raw, s)
}

// SocialNetworks lists the keys accepted in Socials.
var SocialNetworks = []string{"instagram", "facebook", "twitter", "tiktok", "youtube"}

// Clean drops unknown networks and empty links.
func (s Socials) Clean() Socials {
	out := Socials{}
	for _, network := range SocialNetworks {
		if v, ok := s[network]; ok && v != "" {
			out[network] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func scanBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported column type")
	}
}

func newID() string {
	return uuid.NewString()
}
