package dialog

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"warungbot/app/client/backend"
	"warungbot/app/config"
	"warungbot/app/service/history"

	"github.com/samber/do"
	"github.com/stretchr/testify/require"
)

const (
	testOwnerID int64 = 42
	testChatID  int64 = 4242
)

type fakeBackend struct {
	customer    *backend.Customer
	customerErr error

	addMessage string
	addErr     error
	addReqs    []backend.CreateCustomerRequest

	updateMessage string
	updateErr     error
	updateReqs    []backend.UpdateCustomerRequest

	deleteErr error
	deleted   []int64

	merchants    []backend.Merchant
	merchantsErr error

	products    map[string][]backend.Product
	productsErr error

	order          *backend.Order
	createOrderErr error
	orderReqs      []backend.CreateOrderRequest

	orders    []backend.Order
	ordersErr error

	cancelErr error
	cancelled []string
}

func (f *fakeBackend) AddCustomer(_ context.Context, req backend.CreateCustomerRequest) (string, error) {
	f.addReqs = append(f.addReqs, req)
	return f.addMessage, f.addErr
}

func (f *fakeBackend) GetCustomer(_ context.Context, _ int64) (*backend.Customer, error) {
	return f.customer, f.customerErr
}

func (f *fakeBackend) UpdateCustomer(_ context.Context, _ int64, req backend.UpdateCustomerRequest) (string, error) {
	f.updateReqs = append(f.updateReqs, req)
	return f.updateMessage, f.updateErr
}

func (f *fakeBackend) DeleteCustomer(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeBackend) ListMerchants(_ context.Context) ([]backend.Merchant, error) {
	return f.merchants, f.merchantsErr
}

func (f *fakeBackend) ListProducts(_ context.Context, merchantID string) ([]backend.Product, error) {
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	return f.products[merchantID], nil
}

func (f *fakeBackend) CreateOrder(_ context.Context, req backend.CreateOrderRequest) (*backend.Order, error) {
	f.orderReqs = append(f.orderReqs, req)
	return f.order, f.createOrderErr
}

func (f *fakeBackend) ListOrders(_ context.Context, _ int64) ([]backend.Order, error) {
	return f.orders, f.ordersErr
}

func (f *fakeBackend) CancelOrder(_ context.Context, orderID string) error {
	f.cancelled = append(f.cancelled, orderID)
	return f.cancelErr
}

type fakeSender struct {
	sent []string
}

func (f *fakeSender) Send(_ int64, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

type fakeAssistant struct {
	answer string
	err    error
	asked  []string
}

func (f *fakeAssistant) Answer(_ context.Context, _ int64, text string) (string, error) {
	f.asked = append(f.asked, text)
	return f.answer, f.err
}

func newTestService(t *testing.T, be *fakeBackend) (*Service, *fakeSender, *fakeAssistant) {
	t.Helper()

	cfg := &config.Config{
		History: config.History{Limit: 20, TTLMinutes: 240, SweepMinutes: 30},
	}

	di := do.New()
	do.ProvideValue(di, cfg)

	historySvc, err := history.New(di)
	require.NoError(t, err)

	sender := &fakeSender{}
	asst := &fakeAssistant{answer: "jawaban AI"}

	svc := &Service{
		cfg:           cfg,
		backendClient: be,
		sender:        sender,
		assistantSvc:  asst,
		historySvc:    historySvc,
		registry:      NewRegistry(),
	}
	svc.initWorkflows()

	return svc, sender, asst
}

// send pushes one message through the full Handle path and returns only the
// replies it produced.
func send(svc *Service, sender *fakeSender, text string) []string {
	before := len(sender.sent)
	svc.Handle(context.Background(), testOwnerID, testChatID, text)
	return sender.sent[before:]
}

func testCustomer() *backend.Customer {
	return &backend.Customer{ID: testOwnerID, Name: "Budi", Address: "Jl. Melati 1", Phone: "081234567890"}
}

func TestAddCustomerFlow(t *testing.T) {
	be := &fakeBackend{addMessage: "Customer berhasil ditambahkan"}
	svc, sender, _ := newTestService(t, be)

	replies := send(svc, sender, "/add_customer")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Masukkan nama:")
	require.NotNil(t, svc.registry.Get(testOwnerID))

	replies = send(svc, sender, "Budi")
	require.Equal(t, []string{"Masukkan alamat:"}, replies)

	replies = send(svc, sender, "Jl. Melati 1")
	require.Equal(t, []string{"Masukkan nomor telepon:"}, replies)

	// A malformed phone number re-prompts without leaving the step.
	replies = send(svc, sender, "abc")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Format nomor telepon tidak valid")
	require.Equal(t, StepAddPhone, svc.registry.Get(testOwnerID).Step)

	replies = send(svc, sender, "+62 812-3456")
	require.Equal(t, []string{"✅ Customer berhasil ditambahkan"}, replies)
	require.Nil(t, svc.registry.Get(testOwnerID))

	require.Len(t, be.addReqs, 1)
	require.Equal(t, backend.CreateCustomerRequest{
		ID:      testOwnerID,
		Name:    "Budi",
		Address: "Jl. Melati 1",
		Phone:   "+62 812-3456",
	}, be.addReqs[0])
}

func TestCancelClearsActiveSession(t *testing.T) {
	svc, sender, _ := newTestService(t, &fakeBackend{})

	send(svc, sender, "/add_customer")
	require.NotNil(t, svc.registry.Get(testOwnerID))

	replies := send(svc, sender, "/cancel")
	require.Equal(t, []string{"❌ Operasi dibatalkan."}, replies)
	require.Nil(t, svc.registry.Get(testOwnerID))
}

func TestCancelWithoutSessionIsSilent(t *testing.T) {
	svc, sender, asst := newTestService(t, &fakeBackend{})

	replies := send(svc, sender, "/cancel")
	require.Empty(t, replies)
	require.Empty(t, asst.asked)
}

func TestNewTriggerReplacesActiveSession(t *testing.T) {
	be := &fakeBackend{}
	svc, sender, _ := newTestService(t, be)

	send(svc, sender, "/add_customer")

	replies := send(svc, sender, "/edit_customer")
	require.Len(t, replies, 2)
	require.Equal(t, "⚠️ Operasi sebelumnya dibatalkan.", replies[0])
	require.Contains(t, replies[1], "Edit Pelanggan")

	sess := svc.registry.Get(testOwnerID)
	require.NotNil(t, sess)
	require.Equal(t, KindEditCustomer, sess.Kind)
}

func TestEditCustomerFlow(t *testing.T) {
	be := &fakeBackend{customer: testCustomer(), updateMessage: "Customer berhasil diupdate"}
	svc, sender, _ := newTestService(t, be)

	send(svc, sender, "/edit_customer")

	// Anything but y/n re-prompts.
	replies := send(svc, sender, "mungkin")
	require.Equal(t, []string{"❌ Pilih antara Y/N"}, replies)

	replies = send(svc, sender, "Y")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Nama: Budi")
	require.Contains(t, replies[0], "Pilih field yang ingin diedit")

	replies = send(svc, sender, "2")
	require.Equal(t, []string{"Masukkan alamat baru:"}, replies)

	replies = send(svc, sender, "Jl. Mawar 5")
	require.Equal(t, []string{"✅ Customer berhasil diupdate!"}, replies)
	require.Nil(t, svc.registry.Get(testOwnerID))

	// The update carries the full record with only the chosen field changed.
	require.Len(t, be.updateReqs, 1)
	require.Equal(t, backend.UpdateCustomerRequest{
		Name:    "Budi",
		Address: "Jl. Mawar 5",
		Phone:   "081234567890",
	}, be.updateReqs[0])
}

func TestEditCustomerDeclined(t *testing.T) {
	svc, sender, _ := newTestService(t, &fakeBackend{customer: testCustomer()})

	send(svc, sender, "/edit_customer")

	replies := send(svc, sender, "n")
	require.Equal(t, []string{"✏️ *Edit Pelanggan* dibatalkan"}, replies)
	require.Nil(t, svc.registry.Get(testOwnerID))
}

func TestEditCustomerPhoneRevalidated(t *testing.T) {
	be := &fakeBackend{customer: testCustomer(), updateMessage: "Customer berhasil diupdate"}
	svc, sender, _ := newTestService(t, be)

	send(svc, sender, "/edit_customer")
	send(svc, sender, "y")
	send(svc, sender, "telepon")

	replies := send(svc, sender, "bukan nomor")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Format nomor telepon tidak valid")
	require.Empty(t, be.updateReqs)

	replies = send(svc, sender, "0812-9999")
	require.Equal(t, []string{"✅ Customer berhasil diupdate!"}, replies)
	require.Equal(t, "0812-9999", be.updateReqs[0].Phone)
}

func TestDeleteCustomerFlow(t *testing.T) {
	be := &fakeBackend{customer: testCustomer()}
	svc, sender, _ := newTestService(t, be)

	replies := send(svc, sender, "/delete_customer")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Nama: Budi")
	require.Contains(t, replies[0], "Ketik 'YA' untuk konfirmasi")

	replies = send(svc, sender, "entah")
	require.Equal(t, []string{"❌ Ketik 'YA' atau 'TIDAK':"}, replies)

	replies = send(svc, sender, "ya")
	require.Equal(t, []string{"✅ Pelanggan berhasil dihapus!"}, replies)
	require.Equal(t, []int64{testOwnerID}, be.deleted)
	require.Nil(t, svc.registry.Get(testOwnerID))
}

func TestDeleteCustomerDeclined(t *testing.T) {
	be := &fakeBackend{customer: testCustomer()}
	svc, sender, _ := newTestService(t, be)

	send(svc, sender, "/delete_customer")

	replies := send(svc, sender, "TIDAK")
	require.Equal(t, []string{"❌ Penghapusan dibatalkan."}, replies)
	require.Empty(t, be.deleted)
	require.Nil(t, svc.registry.Get(testOwnerID))
}

func TestBackendFailureTerminatesWorkflow(t *testing.T) {
	be := &fakeBackend{
		customer:    testCustomer(),
		merchants:   []backend.Merchant{{MerchantID: "m-1", MerchantName: "Warung Bu Siti"}},
		productsErr: &backend.Failure{Message: "Gagal terhubung ke server. Silakan coba lagi."},
	}
	svc, sender, _ := newTestService(t, be)

	send(svc, sender, "/buatorder")
	require.NotNil(t, svc.registry.Get(testOwnerID))

	replies := send(svc, sender, "1")
	require.Equal(t, []string{"❌ Gagal terhubung ke server. Silakan coba lagi."}, replies)
	require.Nil(t, svc.registry.Get(testOwnerID))
}

func TestGetCustomerCommand(t *testing.T) {
	svc, sender, _ := newTestService(t, &fakeBackend{customer: testCustomer()})

	replies := send(svc, sender, "/get_customer")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Detail Pelanggan")
	require.Contains(t, replies[0], "Nama: Budi")
	require.Nil(t, svc.registry.Get(testOwnerID))
}

func TestGetCustomerNotFound(t *testing.T) {
	be := &fakeBackend{
		customerErr: &backend.Failure{Message: "Data customer tidak ditemukan.", StatusCode: 404},
	}
	svc, sender, _ := newTestService(t, be)

	replies := send(svc, sender, "/get_customer")
	require.Equal(t, []string{"❌ Data customer tidak ditemukan."}, replies)
}

func TestCreateOrderFlow(t *testing.T) {
	be := &fakeBackend{
		customer: testCustomer(),
		merchants: []backend.Merchant{
			{MerchantID: "m-1", MerchantName: "Warung Bu Siti"},
			{MerchantID: "m-2", MerchantName: "Toko Pak Budi"},
		},
		products: map[string][]backend.Product{
			"m-1": {
				{ID: "p-1", Name: "Nasi Goreng", Price: 15000, Stock: 5},
				{ID: "p-2", Name: "Es Teh", Price: 5000, Stock: 10},
			},
		},
		order: &backend.Order{
			ID:         "order-77",
			UserID:     "m-1",
			Status:     "pending",
			TotalPrice: 35000,
			Customer:   testCustomer(),
		},
	}
	svc, sender, _ := newTestService(t, be)

	replies := send(svc, sender, "/buatorder")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Pelanggan: Budi")
	require.Contains(t, replies[0], "1. Warung Bu Siti")
	require.Contains(t, replies[0], "Masukkan nomor merchant (1-2):")

	replies = send(svc, sender, "bukan angka")
	require.Equal(t, []string{"❌ Input tidak valid. Silakan masukkan nomor:"}, replies)

	replies = send(svc, sender, "5")
	require.Equal(t, []string{"❌ Nomor tidak valid. Silakan masukkan nomor antara 1-2:"}, replies)

	replies = send(svc, sender, "1")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Nasi Goreng - Rp15.000 (Stok: 5)")
	require.Contains(t, replies[0], "Ketik 'SELESAI'")

	// Done with nothing picked re-prompts.
	replies = send(svc, sender, "SELESAI")
	require.Equal(t, []string{"❌ Belum ada item yang dipilih. Silakan tambahkan item terlebih dahulu:"}, replies)

	replies = send(svc, sender, "tolong satu")
	require.Contains(t, replies[0], "Format tidak valid")

	replies = send(svc, sender, "9,1")
	require.Contains(t, replies[0], "Nomor produk tidak valid")

	replies = send(svc, sender, "1,99")
	require.Equal(t, []string{"❌ Stok tidak mencukupi. Stok tersedia: 5\nSilakan masukkan jumlah yang lebih kecil:"}, replies)

	replies = send(svc, sender, "1,2")
	require.Contains(t, replies[0], "Item ditambahkan: Nasi Goreng (qty: 2)")

	replies = send(svc, sender, "2,1")
	require.Contains(t, replies[0], "Item ditambahkan: Es Teh (qty: 1)")
	require.Contains(t, replies[0], "Total items: 2")

	replies = send(svc, sender, "selesai")
	require.Len(t, replies, 2)
	require.Contains(t, replies[0], "Pesanan berhasil dibuat!")
	require.Contains(t, replies[0], "Order ID: order-77")
	require.Contains(t, replies[0], "Merchant: Warung Bu Siti")
	require.Contains(t, replies[0], "• Nasi Goreng (x2)")
	require.Contains(t, replies[0], "Total: Rp35.000")
	require.Equal(t, "https://imphnen-one.vercel.app/payment/order-77", replies[1])
	require.Nil(t, svc.registry.Get(testOwnerID))

	require.Len(t, be.orderReqs, 1)
	require.Equal(t, backend.CreateOrderRequest{
		CustomerID: testOwnerID,
		MerchantID: "m-1",
		Items: []backend.OrderLine{
			{ProductID: "p-1", Quantity: 2},
			{ProductID: "p-2", Quantity: 1},
		},
	}, be.orderReqs[0])
}

func TestCreateOrderRequiresRegistration(t *testing.T) {
	be := &fakeBackend{
		customerErr: &backend.Failure{Message: "Data customer tidak ditemukan.", StatusCode: 404},
	}
	svc, sender, _ := newTestService(t, be)

	replies := send(svc, sender, "/buatorder")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Data customer tidak ditemukan.")
	require.Contains(t, replies[0], "Anda belum terdaftar sebagai pelanggan")
	require.Nil(t, svc.registry.Get(testOwnerID))
}

func TestCreateOrderNoMerchants(t *testing.T) {
	svc, sender, _ := newTestService(t, &fakeBackend{customer: testCustomer()})

	replies := send(svc, sender, "/buatorder")
	require.Equal(t, []string{"❌ Tidak ada merchant yang tersedia saat ini."}, replies)
	require.Nil(t, svc.registry.Get(testOwnerID))
}

func TestListOrdersCommand(t *testing.T) {
	be := &fakeBackend{
		merchants: []backend.Merchant{{MerchantID: "m-1", MerchantName: "Warung Bu Siti"}},
		orders: []backend.Order{
			{
				ID:         "order-1",
				UserID:     "m-1",
				Status:     "pending",
				TotalPrice: 15000,
				OrderDate:  "2025-03-14T10:30:00Z",
				OrderItems: []backend.OrderItem{
					{ProductID: "p-1", Quantity: 1, Product: &backend.Product{Name: "Nasi Goreng"}},
				},
			},
		},
	}
	svc, sender, _ := newTestService(t, be)

	replies := send(svc, sender, "/lihatorder")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Daftar Pesanan Anda")
	require.Contains(t, replies[0], "Merchant: Warung Bu Siti")
	require.Contains(t, replies[0], "Total: Rp15.000")
	require.Contains(t, replies[0], "Tanggal: 2025-03-14")
	require.Contains(t, replies[0], "Status: pending")
	require.Contains(t, replies[0], "Nasi Goreng (x1)")
}

func TestListOrdersEmpty(t *testing.T) {
	svc, sender, _ := newTestService(t, &fakeBackend{})

	replies := send(svc, sender, "/lihatorder")
	require.Equal(t, []string{"📭 Anda belum memiliki pesanan."}, replies)
}

func TestCancelOrderFlow(t *testing.T) {
	be := &fakeBackend{
		merchants: []backend.Merchant{{MerchantID: "m-1", MerchantName: "Warung Bu Siti"}},
		orders: []backend.Order{
			{ID: "order-1", UserID: "m-1", Status: "completed", TotalPrice: 10000},
			{ID: "order-2", UserID: "m-1", Status: "pending", TotalPrice: 20000, OrderDate: "2025-03-14T10:30:00Z"},
			{ID: "order-3", UserID: "m-1", Status: "PENDING", TotalPrice: 30000},
		},
	}
	svc, sender, _ := newTestService(t, be)

	// Only the two pending orders are offered.
	replies := send(svc, sender, "/cancelorder")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Batalkan Pesanan")
	require.NotContains(t, replies[0], "Rp10.000")
	require.Contains(t, replies[0], "Masukkan nomor pesanan (1-2):")

	replies = send(svc, sender, "0")
	require.Equal(t, []string{"❌ Nomor tidak valid. Silakan masukkan nomor antara 1-2:"}, replies)

	replies = send(svc, sender, "1")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Order ID: order-2")
	require.Contains(t, replies[0], "Ketik 'YA' untuk konfirmasi")

	replies = send(svc, sender, "hm")
	require.Equal(t, []string{"❌ Ketik 'YA' atau 'TIDAK':"}, replies)

	replies = send(svc, sender, "YA")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Pesanan berhasil dibatalkan!")
	require.Contains(t, replies[0], "Order ID: order-2")
	require.Equal(t, []string{"order-2"}, be.cancelled)
	require.Nil(t, svc.registry.Get(testOwnerID))
}

func TestCancelOrderDeclined(t *testing.T) {
	be := &fakeBackend{
		merchants: []backend.Merchant{{MerchantID: "m-1", MerchantName: "Warung Bu Siti"}},
		orders:    []backend.Order{{ID: "order-1", UserID: "m-1", Status: "pending", TotalPrice: 10000}},
	}
	svc, sender, _ := newTestService(t, be)

	send(svc, sender, "/cancelorder")
	send(svc, sender, "1")

	replies := send(svc, sender, "tidak")
	require.Equal(t, []string{"❌ Pembatalan dibatalkan."}, replies)
	require.Empty(t, be.cancelled)
	require.Nil(t, svc.registry.Get(testOwnerID))
}

func TestCancelOrderNothingPending(t *testing.T) {
	be := &fakeBackend{
		orders: []backend.Order{{ID: "order-1", Status: "completed"}},
	}
	svc, sender, _ := newTestService(t, be)

	replies := send(svc, sender, "/cancelorder")
	require.Equal(t, []string{"📭 Anda tidak memiliki pesanan dengan status pending yang dapat dibatalkan."}, replies)
	require.Nil(t, svc.registry.Get(testOwnerID))
}

func TestFreeChat(t *testing.T) {
	svc, sender, asst := newTestService(t, &fakeBackend{})

	replies := send(svc, sender, "halo, jual apa saja?")
	require.Equal(t, []string{"jawaban AI"}, replies)
	require.Equal(t, []string{"halo, jual apa saja?"}, asst.asked)
}

func TestFreeChatAssistantFailure(t *testing.T) {
	svc, sender, asst := newTestService(t, &fakeBackend{})
	asst.err = fmt.Errorf("llm unreachable")

	replies := send(svc, sender, "halo")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Maaf, saya sedang mengalami gangguan")
}

func TestUnknownCommandIgnored(t *testing.T) {
	svc, sender, asst := newTestService(t, &fakeBackend{})

	replies := send(svc, sender, "/tidakdikenal")
	require.Empty(t, replies)
	require.Empty(t, asst.asked)
}

func TestCommandDuringSessionKeepsSession(t *testing.T) {
	svc, sender, _ := newTestService(t, &fakeBackend{})

	send(svc, sender, "/add_customer")

	replies := send(svc, sender, "/help")
	require.Len(t, replies, 1)
	require.Contains(t, replies[0], "Perintah yang tersedia")

	sess := svc.registry.Get(testOwnerID)
	require.NotNil(t, sess)
	require.Equal(t, StepAddName, sess.Step)
}

func TestStartAndHelpCommands(t *testing.T) {
	svc, sender, _ := newTestService(t, &fakeBackend{})

	replies := send(svc, sender, "/start")
	require.Equal(t, []string{startText}, replies)

	replies = send(svc, sender, "/help")
	require.Equal(t, []string{helpText}, replies)
}

func TestHandleRecordsHistory(t *testing.T) {
	svc, sender, _ := newTestService(t, &fakeBackend{})

	send(svc, sender, "/start")

	formatted := svc.historySvc.Format(testChatID)
	require.True(t, strings.Contains(formatted, "Pelanggan: /start"))
	require.True(t, strings.Contains(formatted, "Bot: "+startText))
}
