package vo

import "time"

type GenerateIDInput struct {
	ClientID    string
	Namespace   string
	Suffix      string
	Formatter   string
	Domain      string
	SkipGlobal  bool
	Constrained bool
	Partition   *int
}

type GenerateBatchInput struct {
	ClientID  string
	Namespace string
	Suffix    string
	Formatter string
	Count     int
}

type GeneratedID struct {
	ID          string    `json:"id"`
	Node        int       `json:"node"`
	Exponent    int       `json:"exponent"`
	Formatter   string    `json:"formatter"`
	Domain      string    `json:"domain,omitempty"`
	Partition   *int      `json:"partition,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

type GeneratedBatch struct {
	IDs   []GeneratedID `json:"ids"`
	Count int           `json:"count"`
}
