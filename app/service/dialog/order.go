package dialog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"warungbot/app/client/backend"
)

const paymentBaseURL = "https://imphnen-one.vercel.app/payment/"

func (s *Service) createOrderStart(ctx context.Context, sess *Session) (stepResult, error) {
	customer, err := s.backendClient.GetCustomer(ctx, sess.OwnerID)
	if err != nil {
		return finish("❌ " + backend.UserMessage(err) +
			"\n\nAnda belum terdaftar sebagai pelanggan. Silakan daftar terlebih dahulu."), nil
	}

	merchants, err := s.backendClient.ListMerchants(ctx)
	if err != nil {
		return stepResult{}, err
	}

	if len(merchants) == 0 {
		return finish("❌ Tidak ada merchant yang tersedia saat ini."), nil
	}

	sess.Fields.Merchants = merchants
	sess.Fields.Items = nil

	var list strings.Builder
	for i, merchant := range merchants {
		fmt.Fprintf(&list, "%d. %s\n", i+1, merchant.MerchantName)
	}

	return advance(StepChooseMerchant, fmt.Sprintf(
		"🆕 *Buat Pesanan Baru*\n\n"+
			"Pelanggan: %s\n\n"+
			"Daftar Merchant:\n%s\n"+
			"Masukkan nomor merchant (1-%d):",
		customer.Name, strings.TrimRight(list.String(), "\n"), len(merchants))), nil
}

func (s *Service) chooseMerchant(ctx context.Context, sess *Session, text string) (stepResult, error) {
	number, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return stay("❌ Input tidak valid. Silakan masukkan nomor:"), nil
	}

	merchants := sess.Fields.Merchants
	if number < 1 || number > len(merchants) {
		return stay(fmt.Sprintf("❌ Nomor tidak valid. Silakan masukkan nomor antara 1-%d:", len(merchants))), nil
	}

	selected := merchants[number-1]

	products, err := s.backendClient.ListProducts(ctx, selected.MerchantID)
	if err != nil {
		return stepResult{}, err
	}

	if len(products) == 0 {
		return stay("❌ Merchant ini tidak memiliki produk. Silakan pilih merchant lain:"), nil
	}

	sess.Fields.MerchantID = selected.MerchantID
	sess.Fields.Products = products

	var list strings.Builder
	for i, product := range products {
		fmt.Fprintf(&list, "%d. %s - %s (Stok: %d)\n", i+1, product.Name, backend.FormatRupiah(product.Price), product.Stock)
	}

	return advance(StepAddProducts, fmt.Sprintf(
		"📦 *Daftar Produk*\n\n"+
			"🏪 Merchant: %s\n\n"+
			"%s\n"+
			"Masukkan produk yang ingin dipesan (format: nomor,jumlah)\n"+
			"Contoh: 1,2 (untuk produk nomor 1 sebanyak 2)\n"+
			"Ketik 'SELESAI' jika sudah selesai memilih produk:",
		selected.MerchantName, strings.TrimRight(list.String(), "\n"))), nil
}

func (s *Service) addProducts(ctx context.Context, sess *Session, text string) (stepResult, error) {
	input := strings.ToUpper(strings.TrimSpace(text))

	if input == "SELESAI" {
		return s.submitOrder(ctx, sess)
	}

	invalidFormat := fmt.Sprintf(
		"❌ Format tidak valid. Gunakan format: nomor,jumlah\n"+
			"Contoh: 1,2 (untuk produk nomor 1 sebanyak 2)\n\n"+
			"Item saat ini: %d\n"+
			"Tambah item lagi atau ketik 'SELESAI':", len(sess.Fields.Items))

	parts := strings.Split(input, ",")
	if len(parts) != 2 {
		return stay(invalidFormat), nil
	}

	number, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return stay(invalidFormat), nil
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || quantity <= 0 {
		return stay(invalidFormat), nil
	}

	products := sess.Fields.Products
	if number < 1 || number > len(products) {
		return stay(fmt.Sprintf(
			"❌ Nomor produk tidak valid. Silakan masukkan nomor antara 1-%d\n"+
				"Format: nomor,jumlah (contoh: 1,2)\n\n"+
				"Item saat ini: %d\n"+
				"Tambah item lagi atau ketik 'SELESAI':", len(products), len(sess.Fields.Items))), nil
	}

	selected := products[number-1]

	if quantity > selected.Stock {
		return stay(fmt.Sprintf(
			"❌ Stok tidak mencukupi. Stok tersedia: %d\n"+
				"Silakan masukkan jumlah yang lebih kecil:", selected.Stock)), nil
	}

	sess.Fields.Items = append(sess.Fields.Items, backend.OrderLine{
		ProductID: selected.ID,
		Quantity:  quantity,
	})

	return stay(fmt.Sprintf(
		"✅ Item ditambahkan: %s (qty: %d)\n"+
			"Total items: %d\n\n"+
			"Tambah item lagi (format: nomor,jumlah) atau ketik 'SELESAI':",
		selected.Name, quantity, len(sess.Fields.Items))), nil
}

func (s *Service) submitOrder(ctx context.Context, sess *Session) (stepResult, error) {
	if len(sess.Fields.Items) == 0 {
		return stay("❌ Belum ada item yang dipilih. Silakan tambahkan item terlebih dahulu:"), nil
	}

	order, err := s.backendClient.CreateOrder(ctx, backend.CreateOrderRequest{
		CustomerID: sess.OwnerID,
		MerchantID: sess.Fields.MerchantID,
		Items:      sess.Fields.Items,
	})
	if err != nil {
		return stepResult{}, err
	}

	var items strings.Builder
	for _, line := range sess.Fields.Items {
		name := line.ProductID
		for _, product := range sess.Fields.Products {
			if product.ID == line.ProductID {
				name = product.Name
				break
			}
		}
		fmt.Fprintf(&items, "   • %s (x%d)\n", name, line.Quantity)
	}

	customerName := ""
	if order.Customer != nil {
		customerName = order.Customer.Name
	}

	receipt := fmt.Sprintf(
		"✅ Pesanan berhasil dibuat!\n\n"+
			"📋 Detail Pesanan:\n"+
			"🆔 Order ID: %s\n"+
			"👤 Pelanggan: %s\n"+
			"🏪 Merchant: %s\n"+
			"📦 Items:\n%s"+
			"💰 Total: %s",
		order.ID,
		customerName,
		merchantNameFor(sess.Fields.Merchants, sess.Fields.MerchantID),
		items.String(),
		backend.FormatRupiah(order.TotalPrice))

	return finish(receipt, paymentBaseURL+order.ID), nil
}

// listOrders handles the one-shot /lihatorder command.
func (s *Service) listOrders(ctx context.Context, ownerID int64) []string {
	orders, err := s.backendClient.ListOrders(ctx, ownerID)
	if err != nil {
		return []string{"❌ " + backend.UserMessage(err)}
	}

	if len(orders) == 0 {
		return []string{"📭 Anda belum memiliki pesanan."}
	}

	merchants, err := s.backendClient.ListMerchants(ctx)
	if err != nil {
		return []string{"❌ " + backend.UserMessage(err)}
	}

	var list strings.Builder
	list.WriteString("📋 *Daftar Pesanan Anda*\n\n")

	for i, order := range orders {
		fmt.Fprintf(&list,
			"%d. 🏪 Merchant: %s\n"+
				"   💰 Total: %s\n"+
				"   📅 Tanggal: %s\n"+
				"   📊 Status: %s\n"+
				"   📦 Items:\n%s\n",
			i+1,
			merchantNameFor(merchants, order.UserID),
			backend.FormatRupiah(order.TotalPrice),
			formatOrderDate(order.OrderDate),
			order.Status,
			renderOrderItems(order.OrderItems, "      "))
	}

	return []string{list.String()}
}
