package model

// PayoutStatus is the state of a withdrawal payout.
type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "pending"
	PayoutProcessing PayoutStatus = "processing"
	PayoutRetrying   PayoutStatus = "retrying"
	PayoutCompleted  PayoutStatus = "completed"
	PayoutFailed     PayoutStatus = "failed"
)

var PayoutStatuses = []PayoutStatus{PayoutPending, PayoutProcessing, PayoutRetrying, PayoutCompleted, PayoutFailed}

func (s PayoutStatus) Valid() bool {
	for _, known := range PayoutStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s PayoutStatus) Label() string { return label(string(s)) }

// Terminal reports whether no further transitions are expected.
func (s PayoutStatus) Terminal() bool {
	return s == PayoutCompleted || s == PayoutFailed
}

// UserType is the kind of platform user requesting a withdrawal.
type UserType string

const (
	UserFarmer UserType = "farmer"
	UserStaff  UserType = "staff"
)

var UserTypes = []UserType{UserFarmer, UserStaff}

func (t UserType) Valid() bool { return t == UserFarmer || t == UserStaff }

func (t UserType) Label() string { return label(string(t)) }

type PayoutUser struct {
	ID    string   `json:"id"`
	Type  UserType `json:"type"`
	Name  string   `json:"name"`
	Phone string   `json:"phone,omitempty"`
}

type BankAccount struct {
	Name          string `json:"bankName"`
	Code          string `json:"bankCode"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

// BalanceSnapshot captures balances before and after the payout for both
// the user and the organisation's withdrawer wallet.
type BalanceSnapshot struct {
	UserBefore   float64 `json:"userBalanceBefore"`
	UserAfter    float64 `json:"userBalanceAfter"`
	WalletBefore float64 `json:"walletBalanceBefore"`
	WalletAfter  float64 `json:"walletBalanceAfter"`
}

// Payout is a withdrawer payout summary from GET /admins/withdrawers.
type Payout struct {
	ID                   string          `json:"id"`
	TransactionReference string          `json:"transactionReference"`
	TransferReference    string          `json:"transferReference,omitempty"`
	User                 PayoutUser      `json:"user"`
	Amount               float64         `json:"amount"`
	Status               PayoutStatus    `json:"status"`
	Attempts             int             `json:"attempts"`
	MaxAttempts          int             `json:"maxAttempts"`
	Bank                 BankAccount     `json:"bank"`
	Balances             BalanceSnapshot `json:"balances"`
	LinkedTransactions   []string        `json:"linkedTransactions,omitempty"`
	LastError            string          `json:"lastError,omitempty"`
	CreatedAt            string          `json:"createdAt"`
	UpdatedAt            string          `json:"updatedAt"`
	ProcessedAt          string          `json:"processedAt,omitempty"`
	FailedAt             string          `json:"failedAt,omitempty"`
}

// TerminalConsistent reports whether a terminal payout carries its
// completion or failure timestamp. Non-terminal payouts are always consistent.
func (p Payout) TerminalConsistent() bool {
	if !p.Status.Terminal() {
		return true
	}
	return p.ProcessedAt != "" || p.FailedAt != ""
}

// Transaction is a ledger entry linked to a payout.
type Transaction struct {
	Reference string  `json:"reference"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
}

// PayoutDetail is GET /admins/withdrawers/:id.
type PayoutDetail struct {
	Payout
	Transactions []Transaction `json:"transactions"`
}

// WithdrawerKPIs is the aggregate returned by GET /admins/withdrawers/kpis.
type WithdrawerKPIs struct {
	TotalPayouts    int     `json:"totalPayouts"`
	Pending         int     `json:"pending"`
	Processing      int     `json:"processing"`
	Retrying        int     `json:"retrying"`
	Completed       int     `json:"completed"`
	Failed          int     `json:"failed"`
	TotalAmount     float64 `json:"totalAmount"`
	CompletedAmount float64 `json:"completedAmount"`
	FailedAmount    float64 `json:"failedAmount"`
	SuccessRate     float64 `json:"successRate"`
	WalletBalance   float64 `json:"walletBalance"`
}
