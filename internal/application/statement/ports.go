package statement

import (
	"context"
	"time"

	"github.com/jhoicas/ahorro-api/internal/domain/entity"
)

// Data todo lo que necesita el generador para dibujar el extracto.
type Data struct {
	User         *entity.User
	Account      *entity.Account
	Transactions []*entity.Transaction // más recientes primero
	GeneratedAt  time.Time
}

// PDFGenerator puerto del generador de extractos.
type PDFGenerator interface {
	GenerateStatementPDF(ctx context.Context, data *Data) ([]byte, error)
}
