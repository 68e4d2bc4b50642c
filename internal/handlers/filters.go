package handlers

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/Sanjey2005/friends-associates/internal/models"
)

// matchesSearch reports whether term occurs, ignoring case, in the owner's
// name, email or phone or in the registration number. An empty term matches.
func matchesSearch(owner *models.User, regNumber, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}

	fields := []string{regNumber}
	if owner != nil {
		fields = append(fields, owner.Name, owner.EmailAddress(), owner.Phone)
	}
	for _, field := range fields {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// jsonDate accepts either an RFC 3339 timestamp or a bare YYYY-MM-DD date,
// which is what HTML date inputs submit.
type jsonDate time.Time

func (d *jsonDate) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		*d = jsonDate(t)
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return err
	}
	*d = jsonDate(t)
	return nil
}

func (d *jsonDate) Time() *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}
