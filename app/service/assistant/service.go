package assistant

import (
	"context"
	"fmt"
	"strings"
	"warungbot/app/client/backend"
	"warungbot/app/client/kolosal"
	"warungbot/app/config"
	"warungbot/app/service/history"

	_ "embed"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

//go:embed system_prompt.txt
var systemPromptTemplate string

// Catalog is the read-only slice of the platform API the assistant grounds
// its replies in.
type Catalog interface {
	ListMerchants(ctx context.Context) ([]backend.Merchant, error)
	ListProducts(ctx context.Context, merchantID string) ([]backend.Product, error)
}

type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int) (string, error)
}

// Service answers free-form messages with an LLM completion grounded in the
// live merchant catalog and the chat's recent history.
type Service struct {
	cfg        *config.Config
	catalog    Catalog
	completer  Completer
	historySvc *history.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:        do.MustInvoke[*config.Config](di),
		catalog:    do.MustInvoke[*backend.Client](di),
		completer:  do.MustInvoke[*kolosal.Client](di),
		historySvc: do.MustInvoke[*history.Service](di),
	}, nil
}

func (s *Service) Answer(ctx context.Context, chatID int64, text string) (string, error) {
	templateValues := map[string]string{
		"merchant_info": s.merchantInfo(ctx),
		"chat_history":  s.historySvc.Format(chatID),
	}

	prompt := systemPromptTemplate
	for key, value := range templateValues {
		prompt = strings.ReplaceAll(prompt, "{"+key+"}", value)
	}

	answer, err := s.completer.Complete(ctx, prompt, text, s.cfg.Kolosal.MaxTokens)
	if err != nil {
		return "", fmt.Errorf("completer.Complete: %w", err)
	}

	return answer, nil
}

// merchantInfo renders the live catalog section of the system prompt. A
// backend failure degrades to the empty-catalog text rather than failing the
// whole reply.
func (s *Service) merchantInfo(ctx context.Context) string {
	merchants, err := s.catalog.ListMerchants(ctx)
	if err != nil || len(merchants) == 0 {
		return "\n## Daftar Merchant dan Produk Tersedia\n\n*Saat ini belum ada merchant yang terdaftar dalam sistem.*\n\n"
	}

	// One product listing per merchant, fetched concurrently, rendered in
	// merchant order.
	productsByMerchant := make([][]backend.Product, len(merchants))

	g, gctx := errgroup.WithContext(ctx)
	for i, merchant := range merchants {
		g.Go(func() error {
			products, err := s.catalog.ListProducts(gctx, merchant.MerchantID)
			if err != nil {
				return nil
			}

			productsByMerchant[i] = products
			return nil
		})
	}
	_ = g.Wait()

	var builder strings.Builder
	builder.WriteString("\n## Daftar Merchant dan Produk Tersedia\n\n")

	for i, merchant := range merchants {
		fmt.Fprintf(&builder, "### %d. %s\n\n", i+1, merchant.MerchantName)

		products := productsByMerchant[i]
		if len(products) == 0 {
			builder.WriteString("   *Belum ada produk tersedia*\n\n")
			builder.WriteString("---\n\n")
			continue
		}

		builder.WriteString("**Produk yang Tersedia:**\n")
		for j, product := range products {
			stockStatus := "✅ Tersedia"
			if product.Stock <= 0 {
				stockStatus = "❌ Habis"
			}

			fmt.Fprintf(&builder, "   %d. **%s**\n", j+1, product.Name)
			fmt.Fprintf(&builder, "      - Harga: %s\n", backend.FormatRupiah(product.Price))
			fmt.Fprintf(&builder, "      - Stok: %d (%s)\n\n", product.Stock, stockStatus)
		}

		builder.WriteString("---\n\n")
	}

	return builder.String()
}
