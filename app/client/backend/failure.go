package backend

import "errors"

const (
	msgTimeout    = "Koneksi timeout. Silakan coba lagi."
	msgConnection = "Gagal terhubung ke server. Silakan coba lagi."
	msgGeneric    = "Terjadi kesalahan. Silakan coba lagi."
)

// Failure is a backend error carrying a user-facing message. Callers branch
// on the type, never on the message content.
type Failure struct {
	Message    string
	StatusCode int
}

func (f *Failure) Error() string {
	return f.Message
}

// UserMessage extracts the user-facing text from a backend error.
func UserMessage(err error) string {
	var f *Failure
	if errors.As(err, &f) {
		return f.Message
	}

	return msgGeneric
}
