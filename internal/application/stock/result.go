package stock

import (
	"fmt"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// LineItem línea solicitada a la reserva. Las líneas sin ProductID o con
// cantidad no positiva son líneas de texto libre y no se procesan contra stock.
type LineItem struct {
	ProductID   *int64
	Quantity    int64
	Description string
}

// Qualifies indica si la línea tiene respaldo de inventario y debe reservarse.
func (l LineItem) Qualifies() bool {
	return l.ProductID != nil && l.Quantity > 0
}

// FailureKind clase de rechazo de negocio de una reserva.
type FailureKind string

const (
	FailureMissing      FailureKind = "missing"      // el producto referenciado no existe
	FailureInsufficient FailureKind = "insufficient" // cantidad solicitada supera la disponible
)

// ShortfallDetail entrada de diagnóstico de un rechazo, en el orden en que
// se detectó.
type ShortfallDetail struct {
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Available   int64  `json:"available,omitempty"`
	Requested   int64  `json:"requested,omitempty"`
}

// CheckResult resultado de una reserva. OK=true significa que todas las líneas
// calificadas fueron descontadas y registradas. OK=false es un resultado de
// negocio esperado (missing/insufficient), no un error de infraestructura:
// en ese caso no se realizó ninguna escritura.
type CheckResult struct {
	OK      bool              `json:"ok"`
	Kind    FailureKind       `json:"kind,omitempty"`
	Message string            `json:"message,omitempty"`
	Details []ShortfallDetail `json:"details,omitempty"`
}

func success() *CheckResult {
	return &CheckResult{OK: true}
}

func missingFailure(line LineItem) *CheckResult {
	label := line.Description
	if label == "" {
		label = fmt.Sprintf("producto %d", *line.ProductID)
	}
	return &CheckResult{
		Kind:    FailureMissing,
		Message: fmt.Sprintf("producto no encontrado: %s", label),
		Details: []ShortfallDetail{{
			ProductID:   *line.ProductID,
			Description: line.Description,
			Requested:   line.Quantity,
		}},
	}
}

func insufficientFailure(product *entity.Product, line LineItem, available int64) *CheckResult {
	name := product.Name
	if name == "" {
		name = line.Description
	}
	return &CheckResult{
		Kind: FailureInsufficient,
		Message: fmt.Sprintf("stock insuficiente para %q: disponible %d, solicitado %d",
			name, available, line.Quantity),
		Details: []ShortfallDetail{{
			ProductID:   product.ID,
			Name:        product.Name,
			Description: line.Description,
			Available:   available,
			Requested:   line.Quantity,
		}},
	}
}
