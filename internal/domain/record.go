package domain

// Transaction types. Records carrying any other value are counted in
// totalTransactions but contribute to neither conditional sum.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// DateLayout is the required format of a record's date field.
const DateLayout = "2006-01-02"

// Record is a single income or expense entry.
type Record struct {
	ID          string  `json:"_id,omitempty"`
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Category    string  `json:"category"`
	Type        string  `json:"type"` // income | expense
}

// RecordPatch carries the six mutable fields for an update. The update is a
// full-field replace: a field absent from the request body arrives here as its
// zero value and is written back as such.
type RecordPatch struct {
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
}

// CreateAck acknowledges a successful insert.
type CreateAck struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// DeleteAck acknowledges a delete, reporting how many records were removed.
type DeleteAck struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// UpdateAck acknowledges an update with matched/modified counts.
type UpdateAck struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}
