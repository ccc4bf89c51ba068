package payout

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bazaarHub/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminID uint = 1

func newPayoutFixture() (*memStore, *PayoutService, *recordingPublisher, *recordingMailer) {
	m := newMemStore()
	m.addVendor(vendorID, "Green Grocer")
	m.users[2] = domain.User{ID: 2, FullName: "Shopper", Role: domain.RoleCustomer}
	svc, pub, mail := newTestService(m)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return m, svc, pub, mail
}

func TestCreatePayoutPartial(t *testing.T) {
	m, svc, pub, mail := newPayoutFixture()

	payout, err := svc.CreatePayout(context.Background(), adminID, PayoutInput{
		VendorID:   vendorID,
		NetPayable: json.RawMessage(`180`),
		AmountPaid: json.RawMessage(`100`),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, payout.Reference)
	assert.Equal(t, vendorID, payout.VendorID)
	assert.Equal(t, adminID, payout.CreatedBy)
	assert.Equal(t, 180.0, payout.NetPayable)
	require.NotNil(t, payout.AmountPaid)
	assert.Equal(t, 100.0, *payout.AmountPaid)
	assert.False(t, payout.Paid)
	assert.Nil(t, payout.PaidAt)

	require.Len(t, m.payouts, 1)
	require.Len(t, pub.events, 1)
	assert.Equal(t, payout.Reference, pub.events[0].Reference)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "green.grocer@shop.test", mail.sent[0].toEmail)
	assert.Contains(t, mail.sent[0].body, payout.Reference)
}

func TestCreatePayoutDerivesPaidFlag(t *testing.T) {
	tests := []struct {
		name       string
		netPayable string
		amountPaid string
		paid       bool
		wantPaid   bool
	}{
		{name: "amount covers net", netPayable: `180`, amountPaid: `180`, wantPaid: true},
		{name: "amount exceeds net", netPayable: `"180.50"`, amountPaid: `"200"`, wantPaid: true},
		{name: "partial amount", netPayable: `180`, amountPaid: `179.99`, wantPaid: false},
		{name: "explicit flag", netPayable: `50`, paid: true, wantPaid: true},
		{name: "zero net never auto paid", netPayable: `0`, amountPaid: `0`, wantPaid: false},
		{name: "no amount", netPayable: `50`, wantPaid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, svc, _, _ := newPayoutFixture()

			in := PayoutInput{VendorID: vendorID, NetPayable: json.RawMessage(tt.netPayable), Paid: tt.paid}
			if tt.amountPaid != "" {
				in.AmountPaid = json.RawMessage(tt.amountPaid)
			}

			payout, err := svc.CreatePayout(context.Background(), adminID, in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPaid, payout.Paid)
			if tt.wantPaid {
				require.NotNil(t, payout.PaidAt)
				assert.Equal(t, svc.now(), *payout.PaidAt)
			} else {
				assert.Nil(t, payout.PaidAt)
			}
		})
	}
}

func TestCreatePayoutValidation(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	tests := []struct {
		name    string
		in      PayoutInput
		wantErr error
	}{
		{name: "missing vendor", in: PayoutInput{NetPayable: json.RawMessage(`10`)}, wantErr: domain.ErrValidation},
		{name: "unknown vendor", in: PayoutInput{VendorID: 99, NetPayable: json.RawMessage(`10`)}, wantErr: domain.ErrNotFound},
		{name: "not a vendor", in: PayoutInput{VendorID: 2, NetPayable: json.RawMessage(`10`)}, wantErr: domain.ErrNotFound},
		{name: "missing net payable", in: PayoutInput{VendorID: vendorID}, wantErr: domain.ErrValidation},
		{name: "text net payable", in: PayoutInput{VendorID: vendorID, NetPayable: json.RawMessage(`"ten"`)}, wantErr: domain.ErrValidation},
		{name: "boolean net payable", in: PayoutInput{VendorID: vendorID, NetPayable: json.RawMessage(`true`)}, wantErr: domain.ErrValidation},
		{name: "negative net payable", in: PayoutInput{VendorID: vendorID, NetPayable: json.RawMessage(`-1`)}, wantErr: domain.ErrValidation},
		{name: "bad amount", in: PayoutInput{VendorID: vendorID, NetPayable: json.RawMessage(`10`), AmountPaid: json.RawMessage(`"x"`)}, wantErr: domain.ErrValidation},
		{name: "negative amount", in: PayoutInput{VendorID: vendorID, NetPayable: json.RawMessage(`10`), AmountPaid: json.RawMessage(`-5`)}, wantErr: domain.ErrValidation},
		{name: "period reversed", in: PayoutInput{VendorID: vendorID, NetPayable: json.RawMessage(`10`), PeriodStart: &start, PeriodEnd: &end}, wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, svc, pub, _ := newPayoutFixture()

			_, err := svc.CreatePayout(context.Background(), adminID, tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Empty(t, m.payouts)
			assert.Empty(t, pub.events)
		})
	}
}

func TestCreatePayoutSurvivesNotificationFailures(t *testing.T) {
	m, svc, pub, mail := newPayoutFixture()
	pub.err = errors.New("broker down")
	mail.err = errors.New("mailjet down")

	payout, err := svc.CreatePayout(context.Background(), adminID, PayoutInput{
		VendorID:   vendorID,
		NetPayable: json.RawMessage(`50`),
		Paid:       true,
	})
	require.NoError(t, err)
	assert.True(t, payout.Paid)
	assert.Len(t, m.payouts, 1)
}

func TestCreatePayoutFeedsReconciliation(t *testing.T) {
	m, svc, _, _ := newPayoutFixture()
	m.addCategory(1, ptr(10.0))
	m.addProduct(11, vendorID, ptr(uint64(1)), 100)
	m.sell(11, 2, domain.OrderStatusDelivered)

	_, err := svc.CreatePayout(context.Background(), adminID, PayoutInput{
		VendorID:   vendorID,
		NetPayable: json.RawMessage(`180`),
		AmountPaid: json.RawMessage(`100`),
	})
	require.NoError(t, err)

	summary, err := svc.VendorSummary(context.Background(), vendorID)
	require.NoError(t, err)
	assert.InDelta(t, 100, summary.PaidAmount, 1e-9)
	assert.InDelta(t, 80, summary.Due, 1e-9)
}

func TestListPayouts(t *testing.T) {
	m, svc, _, _ := newPayoutFixture()
	m.payouts = []domain.Payout{
		{ID: 1, VendorID: vendorID, NetPayable: 10},
		{ID: 2, VendorID: 8, NetPayable: 20},
		{ID: 3, VendorID: vendorID, NetPayable: 30},
	}

	own, err := svc.ListPayouts(context.Background(), vendorID)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, uint(3), own[0].ID)

	all, err := svc.ListPayouts(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		ok      bool
		wantErr bool
	}{
		{raw: ``, ok: false},
		{raw: `null`, ok: false},
		{raw: `""`, ok: false},
		{raw: `12.5`, want: "12.5", ok: true},
		{raw: `"  99.90 "`, want: "99.9", ok: true},
		{raw: `1e3`, want: "1000", ok: true},
		{raw: `"abc"`, wantErr: true},
		{raw: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d, ok, err := ParseAmount(json.RawMessage(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, d.String())
			}
		})
	}
}
