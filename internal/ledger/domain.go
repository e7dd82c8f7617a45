package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind labels the transaction class behind a ledger row.
type Kind string

const (
	KindSale     Kind = "sale_invoice"
	KindPurchase Kind = "purchase_invoice"
	KindPayment  Kind = "payment"
	KindReceipt  Kind = "receipt"
)

// Entry is one debit/credit row of a party ledger with its running balance.
type Entry struct {
	Date    time.Time       `json:"date"`
	Kind    Kind            `json:"kind"`
	Ref     string          `json:"ref"`
	Detail  string          `json:"detail"`
	Qty     decimal.Decimal `json:"qty"`
	Weight  decimal.Decimal `json:"weight"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Balance decimal.Decimal `json:"balance"`
}

// Ledger is the chronological statement for one party (or all parties of a
// type) with the balance carried in from before the requested range.
type Ledger struct {
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Entries        []Entry         `json:"entries"`
}

// InvoiceItem is one line of a sale or purchase invoice.
type InvoiceItem struct {
	Product string
	Qty     decimal.Decimal
	Weight  decimal.Decimal
	Value   decimal.Decimal
}

// Invoice is a sale or purchase invoice with its lines. PaymentType follows
// the stored free-text convention ("cash", "credit", ...).
type Invoice struct {
	ID          string
	Date        time.Time
	PartyRef    string
	PaymentType string
	Amount      decimal.Decimal
	Items       []InvoiceItem
}

// CashEntry is a payment or receipt voucher.
type CashEntry struct {
	ID       string
	Date     time.Time
	PartyRef string
	Amount   decimal.Decimal
	Mode     string
}
