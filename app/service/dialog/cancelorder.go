package dialog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"warungbot/app/client/backend"

	"github.com/elliotchance/pie/v2"
)

func (s *Service) cancelOrderStart(ctx context.Context, sess *Session) (stepResult, error) {
	orders, err := s.backendClient.ListOrders(ctx, sess.OwnerID)
	if err != nil {
		return stepResult{}, err
	}

	pending := pie.Filter(orders, func(order backend.Order) bool {
		return strings.EqualFold(order.Status, "pending")
	})

	if len(pending) == 0 {
		return finish("📭 Anda tidak memiliki pesanan dengan status pending yang dapat dibatalkan."), nil
	}

	merchants, err := s.backendClient.ListMerchants(ctx)
	if err != nil {
		return stepResult{}, err
	}

	sess.Fields.PendingOrders = pending
	sess.Fields.Merchants = merchants

	var list strings.Builder
	list.WriteString("❌ *Batalkan Pesanan*\n\nPilih nomor pesanan yang ingin dibatalkan:\n\n")

	for i, order := range pending {
		fmt.Fprintf(&list,
			"%d. 🏪 Merchant: %s\n"+
				"   💰 Total: %s\n"+
				"   📅 Tanggal: %s\n"+
				"   📦 Items:\n%s\n",
			i+1,
			merchantNameFor(merchants, order.UserID),
			backend.FormatRupiah(order.TotalPrice),
			formatOrderDate(order.OrderDate),
			renderOrderItems(order.OrderItems, "      "))
	}

	fmt.Fprintf(&list, "Masukkan nomor pesanan (1-%d):", len(pending))

	return advance(StepSelectOrder, list.String()), nil
}

func (s *Service) selectOrderNumber(_ context.Context, sess *Session, text string) (stepResult, error) {
	number, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return stay("❌ Input tidak valid. Silakan masukkan nomor:"), nil
	}

	pending := sess.Fields.PendingOrders
	if number < 1 || number > len(pending) {
		return stay(fmt.Sprintf("❌ Nomor tidak valid. Silakan masukkan nomor antara 1-%d:", len(pending))), nil
	}

	selected := pending[number-1]
	sess.Fields.CancelOrderID = selected.ID

	return advance(StepCancelConfirm, fmt.Sprintf(
		"Apakah Anda yakin ingin membatalkan pesanan berikut?\n\n"+
			"🆔 Order ID: %s\n"+
			"🏪 Merchant: %s\n"+
			"💰 Total: %s\n"+
			"📦 Items:\n%s\n"+
			"Ketik 'YA' untuk konfirmasi atau 'TIDAK' untuk batal:",
		selected.ID,
		merchantNameFor(sess.Fields.Merchants, selected.UserID),
		backend.FormatRupiah(selected.TotalPrice),
		renderOrderItems(selected.OrderItems, "   "))), nil
}

func (s *Service) cancelOrderConfirm(ctx context.Context, sess *Session, text string) (stepResult, error) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "YA":
		orderID := sess.Fields.CancelOrderID
		if err := s.backendClient.CancelOrder(ctx, orderID); err != nil {
			return stepResult{}, err
		}
		return finish(fmt.Sprintf(
			"✅ Pesanan berhasil dibatalkan!\n\n"+
				"🆔 Order ID: %s\n"+
				"📅 Status: Dibatalkan", orderID)), nil
	case "TIDAK":
		return finish("❌ Pembatalan dibatalkan."), nil
	default:
		return stay("❌ Ketik 'YA' atau 'TIDAK':"), nil
	}
}
