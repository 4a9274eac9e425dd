package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrPedidoInvalido is returned when an inbound order form fails
	// validation or quantity coercion.
	ErrPedidoInvalido = errors.New("invalid pedido")
)

// PedidoForm is the inbound shape for creating or updating an order.
// Cantidad stays a string on the wire; ParseCantidad turns it into the
// integer the schema stores.
type PedidoForm struct {
	NombreCliente   string `json:"nombre_cliente" validate:"required"`
	Telefono        string `json:"telefono" validate:"required"`
	Direccion       string `json:"direccion" validate:"required"`
	TipoCombustible string `json:"tipo_combustible" validate:"required"`
	Cantidad        string `json:"cantidad" validate:"required"`
	NivelUrgencia   string `json:"nivel_urgencia" validate:"omitempty"`
	Observaciones   string `json:"observaciones" validate:"omitempty"`
}

// Validate checks the form fields against their validation tags.
//   - a valid form returns nil
//   - an invalid form returns ErrPedidoInvalido
//   - internal validator errors are wrapped and returned
func (f *PedidoForm) Validate() error {
	v := validator.New()
	if err := v.Struct(f); err != nil {
		if _, ok := err.(*validator.InvalidValidationError); ok {
			return fmt.Errorf("internal validator error: %w", err)
		}
		return ErrPedidoInvalido
	}
	return nil
}

// Pedido is the denormalized read view every repository operation returns:
// the order row joined with cliente, tipo_combustible and estado_pedido.
type Pedido struct {
	ID              int64      `json:"id"`
	Cantidad        int        `json:"cantidad"`
	FechaPedido     time.Time  `json:"fecha_pedido"`
	FechaCompletado *time.Time `json:"fecha_completado"`
	Observaciones   string     `json:"observaciones"`
	NivelUrgencia   string     `json:"nivel_urgencia"`
	NombreCliente   string     `json:"nombre_cliente"`
	Telefono        string     `json:"telefono"`
	Direccion       string     `json:"direccion"`
	TipoCombustible string     `json:"tipo_combustible"`
	Estado          string     `json:"estado"`
}

// Estadisticas is the dashboard summary.
type Estadisticas struct {
	Pendientes        int              `json:"pendientes"`
	CompletadosHoy    int              `json:"completadosHoy"`
	CompletadosSemana int              `json:"completadosSemana"`
	CombustibleTop    []CombustibleUso `json:"combustibleTop"`
}

// CombustibleUso is one row of the fuel-type ranking.
type CombustibleUso struct {
	Tipo     string `json:"tipo"`
	Cantidad int    `json:"cantidad"`
}

// Administrador is the identity record returned by a successful login.
type Administrador struct {
	ID      int64  `json:"id"`
	Usuario string `json:"username"`
}
