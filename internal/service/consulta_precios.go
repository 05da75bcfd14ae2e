package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mrebazaUNIFIED/farmaciaapp/internal/dto"
	"github.com/mrebazaUNIFIED/farmaciaapp/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const precioCacheTTL = 5 * time.Minute

func precioCacheKey(barcode string) string { return "precio:" + barcode }

// ConsultaPreciosService answers the public price-check kiosk. Responses
// are cached in Redis with a short TTL; the stock figure is advisory and
// may lag the ledger, which is why no selling decision reads it.
type ConsultaPreciosService interface {
	ConsultarPorBarcode(ctx context.Context, barcode string) (*dto.ConsultaPreciosResponse, error)
}

type consultaPreciosService struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewConsultaPreciosService(repo repository.ProductoRepository, rdb *redis.Client) ConsultaPreciosService {
	return &consultaPreciosService{repo: repo, rdb: rdb}
}

func (s *consultaPreciosService) ConsultarPorBarcode(ctx context.Context, barcode string) (*dto.ConsultaPreciosResponse, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, precioCacheKey(barcode)).Result(); err == nil {
			var resp dto.ConsultaPreciosResponse
			if err := json.Unmarshal([]byte(raw), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	resp := &dto.ConsultaPreciosResponse{
		NombreComercial: p.NombreComercial,
		PrecioVenta:     p.PrecioVenta,
		StockDisponible: p.StockActual,
		RequiereReceta:  p.RequiereReceta,
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, precioCacheKey(barcode), raw, precioCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("barcode", barcode).Msg("no se pudo cachear consulta de precios")
			}
		}
	}
	return resp, nil
}
