package store

// Collection names a record kind. Table names match collection names.
type Collection string

const (
	Offerings Collection = "offerings"
	Events    Collection = "events"
	Expenses  Collection = "expenses"
	Users     Collection = "users"
	Mandaps   Collection = "mandaps"
)

// AnonymousSubmitter is recorded when an offering has no submitting user.
const AnonymousSubmitter = "anonymous"

// Contribution is a devotional offering made by a devotee.
type Contribution struct {
	ID          string
	Name        string `validate:"required"`
	Gothram     string
	Phone       string
	Address     string
	Rupees      int64  `validate:"gte=0"`
	SubmittedBy string `validate:"required"`
	MandapID    string `validate:"required"`
	CreatedAt   int64  `validate:"gt=0"`
}

// ScheduledEvent is a puja or celebration on the mandap's calendar.
type ScheduledEvent struct {
	ID          string
	Title       string `validate:"required"`
	Date        string `validate:"required,datetime=2006-01-02"`
	Description string
	MandapID    string `validate:"required"`
	CreatedAt   int64  `validate:"gt=0"`
}

// ExpenseCategories lists the accepted expense categories in display order.
var ExpenseCategories = []string{"Rituals", "Food", "Decoration", "Electricity", "Maintenance", "Publicity", "Other"}

// Expense is money spent by the mandap.
type Expense struct {
	ID          string
	Description string `validate:"required"`
	Amount      int64  `validate:"gt=0"`
	Category    string `validate:"required,oneof=Rituals Food Decoration Electricity Maintenance Publicity Other"`
	Date        string `validate:"required,datetime=2006-01-02"`
	CreatedBy   string
	MandapID    string `validate:"required"`
	CreatedAt   int64  `validate:"gt=0"`
}

// User is a login account bound to one mandap.
type User struct {
	ID           string
	Username     string `validate:"required"`
	PasswordHash string `validate:"required"`
	Role         string `validate:"required,oneof=admin staff"`
	MandapID     string `validate:"required"`
	CreatedAt    int64  `validate:"gt=0"`
}

// Mandap is a tenant: one event organization.
type Mandap struct {
	ID        string
	Name      string `validate:"required"`
	CreatedBy string
	CreatedAt int64 `validate:"gt=0"`
}
