package dialog

import (
	"context"
	"fmt"
	"strings"
	"warungbot/app/client/backend"
)

func (s *Service) addCustomerStart(_ context.Context, _ *Session) (stepResult, error) {
	return advance(StepAddName, "🆕 *Tambah Pelanggan Baru*\n\nMasukkan nama:"), nil
}

func (s *Service) addCustomerName(_ context.Context, sess *Session, text string) (stepResult, error) {
	sess.Fields.Name = text
	return advance(StepAddAddress, "Masukkan alamat:"), nil
}

func (s *Service) addCustomerAddress(_ context.Context, sess *Session, text string) (stepResult, error) {
	sess.Fields.Address = text
	return advance(StepAddPhone, "Masukkan nomor telepon:"), nil
}

func (s *Service) addCustomerPhone(ctx context.Context, sess *Session, text string) (stepResult, error) {
	if !phonePattern.MatchString(text) {
		return stay("❌ Format nomor telepon tidak valid. Silakan coba lagi:"), nil
	}

	message, err := s.backendClient.AddCustomer(ctx, backend.CreateCustomerRequest{
		ID:      sess.OwnerID,
		Name:    sess.Fields.Name,
		Address: sess.Fields.Address,
		Phone:   text,
	})
	if err != nil {
		return stepResult{}, err
	}

	return finish("✅ " + message), nil
}

func (s *Service) editCustomerStart(_ context.Context, _ *Session) (stepResult, error) {
	return advance(StepEditConfirm, "✏️ *Edit Pelanggan*\n\nApakah anda yakin ingin merubah data? (Y/N)"), nil
}

func (s *Service) editCustomerConfirm(ctx context.Context, sess *Session, text string) (stepResult, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "n":
		return finish("✏️ *Edit Pelanggan* dibatalkan"), nil
	case "y":
	default:
		return stay("❌ Pilih antara Y/N"), nil
	}

	customer, err := s.backendClient.GetCustomer(ctx, sess.OwnerID)
	if err != nil {
		return stepResult{}, err
	}

	sess.Fields.Customer = customer

	return advance(StepEditField, fmt.Sprintf(
		"Pelanggan ditemukan:\n"+
			"ID: %d\n"+
			"Nama: %s\n"+
			"Alamat: %s\n"+
			"Telepon: %s\n\n"+
			"Pilih field yang ingin diedit:\n"+
			"1. Nama\n"+
			"2. Alamat\n"+
			"3. Telepon",
		customer.ID, customer.Name, customer.Address, customer.Phone)), nil
}

func (s *Service) editCustomerField(_ context.Context, sess *Session, text string) (stepResult, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "1", "nama", "name":
		sess.Fields.EditField = "name"
		return advance(StepEditValue, "Masukkan nama baru:"), nil
	case "2", "alamat", "address":
		sess.Fields.EditField = "address"
		return advance(StepEditValue, "Masukkan alamat baru:"), nil
	case "3", "telepon", "phone":
		sess.Fields.EditField = "phone"
		return advance(StepEditValue, "Masukkan nomor telepon baru:"), nil
	default:
		return stay("❌ Pilihan tidak valid. Silakan pilih 1-3:"), nil
	}
}

func (s *Service) editCustomerValue(ctx context.Context, sess *Session, text string) (stepResult, error) {
	field := sess.Fields.EditField

	if field == "phone" && !phonePattern.MatchString(text) {
		return stay("❌ Format nomor telepon tidak valid. Silakan coba lagi:"), nil
	}

	current := sess.Fields.Customer
	req := backend.UpdateCustomerRequest{
		Name:    current.Name,
		Address: current.Address,
		Phone:   current.Phone,
	}

	switch field {
	case "name":
		req.Name = text
	case "address":
		req.Address = text
	case "phone":
		req.Phone = text
	}

	message, err := s.backendClient.UpdateCustomer(ctx, sess.OwnerID, req)
	if err != nil {
		return stepResult{}, err
	}

	return finish("✅ " + message + "!"), nil
}

func (s *Service) deleteCustomerStart(ctx context.Context, sess *Session) (stepResult, error) {
	customer, err := s.backendClient.GetCustomer(ctx, sess.OwnerID)
	if err != nil {
		return stepResult{}, err
	}

	return advance(StepDeleteConfirm, fmt.Sprintf(
		"🗑️ *Hapus Pelanggan*\n\n"+
			"Apakah Anda yakin ingin menghapus pelanggan berikut?\n"+
			"ID: %d\n"+
			"Nama: %s\n"+
			"Alamat: %s\n"+
			"Telepon: %s\n\n"+
			"Ketik 'YA' untuk konfirmasi atau 'TIDAK' untuk batal:",
		customer.ID, customer.Name, customer.Address, customer.Phone)), nil
}

func (s *Service) deleteCustomerConfirm(ctx context.Context, sess *Session, text string) (stepResult, error) {
	switch strings.ToUpper(strings.TrimSpace(text)) {
	case "YA":
		if err := s.backendClient.DeleteCustomer(ctx, sess.OwnerID); err != nil {
			return stepResult{}, err
		}
		return finish("✅ Pelanggan berhasil dihapus!"), nil
	case "TIDAK":
		return finish("❌ Penghapusan dibatalkan."), nil
	default:
		return stay("❌ Ketik 'YA' atau 'TIDAK':"), nil
	}
}

// getCustomer handles the one-shot /get_customer command.
func (s *Service) getCustomer(ctx context.Context, ownerID int64) []string {
	customer, err := s.backendClient.GetCustomer(ctx, ownerID)
	if err != nil {
		return []string{"❌ " + backend.UserMessage(err)}
	}

	return []string{fmt.Sprintf(
		"📋 *Detail Pelanggan*\n\n"+
			"🆔 ID: %d\n"+
			"👤 Nama: %s\n"+
			"📍 Alamat: %s\n"+
			"📞 Telepon: %s",
		customer.ID, customer.Name, customer.Address, customer.Phone)}
}
