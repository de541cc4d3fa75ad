package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"invoicegen/internal/invoice"
	"invoicegen/internal/numbering"
	"invoicegen/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspace_DraftThenNewInvoice(t *testing.T) {
	ctx := context.Background()
	svc := service.NewWorkspaceService(numbering.NewMemoryStore(), "INV", "INR")
	year := time.Now().Year()

	draft, err := svc.Draft(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, draft.Counter)
	assert.Equal(t, fmt.Sprintf("INV-%d-0001", year), draft.Invoice.InvoiceNumber)
	assert.Equal(t, time.Now().Format("2006-01-02")[:4], draft.Invoice.InvoiceDate[:4])
	assert.Equal(t, "Cash", draft.Invoice.PaymentMethod)
	assert.Equal(t, "INR", draft.Invoice.Currency)
	require.Len(t, draft.Invoice.Items, 1)

	// reload does not consume a number
	again, err := svc.Draft(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, draft.Invoice.InvoiceNumber, again.Invoice.InvoiceNumber)

	next, err := svc.NewInvoice(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, next.Counter)
	assert.Equal(t, fmt.Sprintf("INV-%d-0002", year), next.Invoice.InvoiceNumber)
}

func TestWorkspace_BillerCarriesOverAndIsPerAccount(t *testing.T) {
	ctx := context.Background()
	svc := service.NewWorkspaceService(numbering.NewMemoryStore(), "INV", "INR")
	biller := invoice.Company{Name: "Acme", Address: "Bengaluru", GSTIN: "29ABCDE1234F1Z5"}

	saved, err := svc.SaveBiller(ctx, "acc-1", biller)
	require.NoError(t, err)
	assert.True(t, saved)

	next, err := svc.NewInvoice(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", next.Invoice.YourCompany.Name)
	assert.Equal(t, "29ABCDE1234F1Z5", next.Invoice.YourCompany.GSTIN)

	other, err := svc.GetBiller(ctx, "acc-2")
	require.NoError(t, err)
	assert.Empty(t, other.Name)

	d, err := svc.Draft(ctx, "acc-2")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Counter)
}

func TestWorkspace_EmptyBillerNameNotSaved(t *testing.T) {
	ctx := context.Background()
	svc := service.NewWorkspaceService(numbering.NewMemoryStore(), "INV", "INR")
	_, err := svc.SaveBiller(ctx, "acc-1", invoice.Company{Name: "Acme"})
	require.NoError(t, err)

	saved, err := svc.SaveBiller(ctx, "acc-1", invoice.Company{Address: "somewhere"})
	require.NoError(t, err)
	assert.False(t, saved)

	got, err := svc.GetBiller(ctx, "acc-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
}
