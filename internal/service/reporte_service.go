package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/repository"

	"github.com/rs/zerolog/log"
)

// Mailer sends the low-stock digest. Implemented by infra.Mailer; nil
// disables sending (tests, deployments without SMTP).
type Mailer interface {
	Enviar(asunto, cuerpoHTML string) error
}

type ReporteService interface {
	EstadisticasVentas(ctx context.Context) (*dto.EstadisticasVentasResponse, error)
	EstadisticasInventario(ctx context.Context) (*dto.EstadisticasInventarioResponse, error)
	ProductosPorVencer(ctx context.Context, dias int) ([]dto.ProductoPorVencer, error)

	// EnviarDigestStockBajo emails the current low-stock list. It runs
	// on demand (an admin endpoint), not from a background scheduler.
	EnviarDigestStockBajo(ctx context.Context) (int, error)
}

type reporteService struct {
	ventaRepo    repository.VentaRepository
	productoRepo repository.ProductoRepository
	mailer       Mailer
}

func NewReporteService(
	ventaRepo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	mailer Mailer,
) ReporteService {
	return &reporteService{
		ventaRepo:    ventaRepo,
		productoRepo: productoRepo,
		mailer:       mailer,
	}
}

func (s *reporteService) EstadisticasVentas(ctx context.Context) (*dto.EstadisticasVentasResponse, error) {
	now := time.Now()
	hoy := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	ventasHoy, err := s.ventaRepo.SumTotalDesde(ctx, hoy)
	if err != nil {
		return nil, err
	}
	ventasSemana, err := s.ventaRepo.SumTotalDesde(ctx, hoy.AddDate(0, 0, -int(now.Weekday())))
	if err != nil {
		return nil, err
	}
	ventasMes, err := s.ventaRepo.SumTotalDesde(ctx, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()))
	if err != nil {
		return nil, err
	}
	total, err := s.ventaRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	porMes, err := s.ventaRepo.TotalesPorMes(ctx, 12)
	if err != nil {
		return nil, err
	}
	masVendidos, err := s.ventaRepo.TopProductos(ctx, 10)
	if err != nil {
		return nil, err
	}

	return &dto.EstadisticasVentasResponse{
		TotalVentas:  total,
		VentasHoy:    ventasHoy,
		VentasSemana: ventasSemana,
		VentasMes:    ventasMes,
		PorMes:       porMes,
		MasVendidos:  masVendidos,
	}, nil
}

func (s *reporteService) EstadisticasInventario(ctx context.Context) (*dto.EstadisticasInventarioResponse, error) {
	totalProductos, err := s.productoRepo.CountActivos(ctx)
	if err != nil {
		return nil, err
	}
	valor, err := s.productoRepo.ValorInventario(ctx)
	if err != nil {
		return nil, err
	}
	stockBajo, err := s.productoRepo.ListStockBajo(ctx)
	if err != nil {
		return nil, err
	}
	porVencer, err := s.ProductosPorVencer(ctx, 30)
	if err != nil {
		return nil, err
	}

	resp := &dto.EstadisticasInventarioResponse{
		TotalProductos:     totalProductos,
		ProductosStockBajo: int64(len(stockBajo)),
		ProductosPorVencer: int64(len(porVencer)),
		ValorInventario:    valor,
		PorVencer:          porVencer,
	}
	for _, p := range stockBajo {
		resp.StockBajo = append(resp.StockBajo, dto.AlertaStockResponse{
			ProductoID:      p.ID.String(),
			NombreComercial: p.NombreComercial,
			StockActual:     p.StockActual,
			StockMinimo:     p.StockMinimo,
		})
	}
	return resp, nil
}

func (s *reporteService) ProductosPorVencer(ctx context.Context, dias int) ([]dto.ProductoPorVencer, error) {
	productos, err := s.productoRepo.ListPorVencer(ctx, dias)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	resp := make([]dto.ProductoPorVencer, 0, len(productos))
	for _, p := range productos {
		diasRestantes, ok := p.DiasParaVencer(now)
		if !ok {
			continue
		}
		resp = append(resp, dto.ProductoPorVencer{
			ProductoID:       p.ID.String(),
			NombreComercial:  p.NombreComercial,
			FechaVencimiento: p.FechaVencimiento.Format("2006-01-02"),
			DiasParaVencer:   diasRestantes,
			StockActual:      p.StockActual,
		})
	}
	return resp, nil
}

func (s *reporteService) EnviarDigestStockBajo(ctx context.Context) (int, error) {
	productos, err := s.productoRepo.ListStockBajo(ctx)
	if err != nil {
		return 0, err
	}
	if len(productos) == 0 || s.mailer == nil {
		return len(productos), nil
	}

	var b strings.Builder
	b.WriteString("<h3>Productos con stock bajo</h3><table border=\"1\" cellpadding=\"4\">")
	b.WriteString("<tr><th>Producto</th><th>Stock actual</th><th>Stock mínimo</th></tr>")
	for _, p := range productos {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%d</td></tr>",
			p.NombreComercial, p.StockActual, p.StockMinimo)
	}
	b.WriteString("</table>")

	asunto := fmt.Sprintf("Alerta de stock bajo: %d producto(s)", len(productos))
	if err := s.mailer.Enviar(asunto, b.String()); err != nil {
		log.Error().Err(err).Msg("no se pudo enviar el digest de stock bajo")
		return len(productos), err
	}
	return len(productos), nil
}
