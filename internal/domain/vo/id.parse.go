package vo

import "time"

type ParsedID struct {
	ID          string    `json:"id"`
	Prefix      string    `json:"prefix"`
	Suffix      string    `json:"suffix,omitempty"`
	Node        int       `json:"node"`
	Exponent    int       `json:"exponent"`
	GeneratedAt time.Time `json:"generated_at"`
}
