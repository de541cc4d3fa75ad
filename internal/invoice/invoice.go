// Package invoice holds the invoice aggregate and the single totals formula
// shared by every renderer. Nothing in this package performs validation or I/O.
package invoice

// Company is either the issuing business or the client.
// GSTIN is opaque; no checksum is verified.
type Company struct {
	Name    string
	Address string
	GSTIN   string
	Phone   string
	Email   string
}

// Item is a single invoice line. ID is unique within its invoice.
type Item struct {
	ID          string
	Description string
	Quantity    float64
	Price       float64
	HSN         string
}

// GSTType selects how a SplitGST tax is divided.
type GSTType string

const (
	GSTIntraState GSTType = "CGST+SGST"
	GSTInterState GSTType = "IGST"
)

// Valid reports whether t is one of the known GST types.
func (t GSTType) Valid() bool {
	return t == GSTIntraState || t == GSTInterState
}

// TaxPolicy is a closed set: Flat or SplitGST.
type TaxPolicy interface {
	TaxRate() float64
	isTaxPolicy()
}

// Flat is a single tax line with no split (non-GST schema variant).
type Flat struct {
	Rate float64
}

func (f Flat) TaxRate() float64 { return f.Rate }
func (Flat) isTaxPolicy()       {}

// SplitGST is the GST-aware variant.
type SplitGST struct {
	Rate float64
	Type GSTType
}

func (s SplitGST) TaxRate() float64 { return s.Rate }
func (SplitGST) isTaxPolicy()       {}

// Invoice is the aggregate root. Derived totals are never stored on it.
type Invoice struct {
	InvoiceNumber string
	InvoiceDate   string // YYYY-MM-DD
	DueDate       string
	YourCompany   Company
	Client        Company
	Items         []Item
	Tax           TaxPolicy
	Discount      float64
	PaymentMethod string
	Signature     string
	Currency      string
}

// taxPolicy returns the invoice's policy, treating a nil policy as Flat{0}.
func (inv Invoice) taxPolicy() TaxPolicy {
	if inv.Tax == nil {
		return Flat{}
	}
	return inv.Tax
}

// IsGSTAware reports whether the invoice uses the SplitGST variant.
func (inv Invoice) IsGSTAware() bool {
	_, ok := inv.taxPolicy().(SplitGST)
	return ok
}
