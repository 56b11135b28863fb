package web

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/cotizador/internal/application/ports"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/pkg/format"
)

const recentQuotations = 10

type dashboardView struct {
	User       *userView     `json:"user"`
	TotalCount int64         `json:"totalCount"`
	TotalText  string        `json:"totalText"`
	Recent     []summaryView `json:"recent"`
}

// Dashboard GET / : últimas cotizaciones y estadísticas, pedidas en paralelo.
func Dashboard(c *fiber.Ctx) error {
	s := currentSession(c)
	quotes := s.Backend.Quotations()

	var (
		page  *ports.QuotationPage
		stats *entity.QuotationStats
	)
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() error {
		var err error
		page, err = quotes.List(ctx, 1, recentQuotations, "")
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = quotes.Stats(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return backendError(c, err, "No se pudo cargar el resumen")
	}

	v := dashboardView{
		TotalCount: stats.TotalCount,
		TotalText:  format.Currency(stats.TotalAmount),
		Recent:     make([]summaryView, 0, len(page.Items)),
	}
	if u := s.Model.Snapshot().User; u != nil {
		v.User = newUserView(u)
	}
	for i := range page.Items {
		v.Recent = append(v.Recent, newSummaryView(&page.Items[i]))
	}
	return c.JSON(v)
}
