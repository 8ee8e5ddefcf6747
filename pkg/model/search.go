package model

type SearchType string

const (
	SearchBlock       SearchType = "block"
	SearchTransaction SearchType = "transaction"
	SearchAddress     SearchType = "address"
	SearchUnknown     SearchType = "unknown"
)

// SearchResult never carries an error value: lookups that fail are reported
// with Found=false and a message naming the endpoint that was queried.
type SearchResult struct {
	Query       string       `json:"query"`
	Type        SearchType   `json:"type"`
	Found       bool         `json:"found"`
	Endpoint    string       `json:"endpoint,omitempty"`
	Error       string       `json:"error,omitempty"`
	Block       *Block       `json:"block,omitempty"`
	Transaction *Transaction `json:"transaction,omitempty"`
	Account     *Account     `json:"account,omitempty"`
	Validator   *Validator   `json:"validator,omitempty"`
}
