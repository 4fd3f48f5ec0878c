package dialog

import "context"

const startText = "Halo! Kirim pesan apapun untuk chat dengan AI."

const helpText = "🤖 *Perintah yang tersedia:*\n\n" +
	"📱 *Bot Commands:*\n" +
	"/start - Mulai bot\n" +
	"/help - Bantuan\n\n" +
	"👥 *Customer Management:*\n" +
	"/add_customer - Tambah pelanggan baru\n" +
	"/edit_customer - Edit data pelanggan\n" +
	"/delete_customer - Hapus pelanggan\n" +
	"/get_customer - Lihat detail pelanggan\n\n" +
	"📦 *Order Management:*\n" +
	"/buatorder - Buat pesanan baru\n" +
	"/lihatorder - Lihat detail pesanan\n" +
	"/cancelorder - Batalkan pesanan\n\n" +
	"💬 *Chat:*\n" +
	"Kirim pesan biasa untuk chat dengan AI!\n\n" +
	"❌ *Cancel:*\n" +
	"/cancel - Batalkan operasi yang sedang berjalan"

// command handles the single-message commands that never open a session.
// Unknown commands are silently ignored.
func (s *Service) command(ctx context.Context, ownerID int64, text string) []string {
	switch text {
	case "/start":
		return []string{startText}
	case "/help":
		return []string{helpText}
	case "/get_customer":
		return s.getCustomer(ctx, ownerID)
	case "/lihatorder":
		return s.listOrders(ctx, ownerID)
	default:
		return nil
	}
}
