package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Fixed lookup-table identifiers. These ids are a contract with the seeded
// reference tables; store.VerifyCatalog asserts them against the live schema
// at startup.
const (
	TipoRegular = 3
	TipoDiesel  = 4
	TipoPremium = 5

	EstadoPendienteID  = 1
	EstadoEnRutaID     = 2
	EstadoCompletadoID = 3
	EstadoCanceladoID  = 4
)

// Display values stored by the schema.
const (
	EstadoPendiente  = "Pendiente"
	EstadoEnRuta     = "En_Ruta"
	EstadoCompletado = "Completado"
	EstadoCancelado  = "Cancelado"

	UrgenciaNormal  = "Normal"
	UrgenciaUrgente = "Urgente"
	UrgenciaCritico = "Critico"
)

// Ordered so the substring fallback is deterministic.
var tiposCombustible = []struct {
	Nombre string
	ID     int
}{
	{"Regular", TipoRegular},
	{"Diesel", TipoDiesel},
	{"Premium", TipoPremium},
}

var estadosPedido = map[string]int{
	"pendiente":  EstadoPendienteID,
	"en_ruta":    EstadoEnRutaID,
	"completado": EstadoCompletadoID,
	"cancelado":  EstadoCanceladoID,
}

var estadosDisplay = map[string]string{
	"pendiente":  EstadoPendiente,
	"en_ruta":    EstadoEnRuta,
	"completado": EstadoCompletado,
	"cancelado":  EstadoCancelado,
}

var urgencias = map[string]string{
	"normal":  UrgenciaNormal,
	"urgente": UrgenciaUrgente,
	"critico": UrgenciaCritico,
}

// CatalogEntry pairs a lookup-table id with the text the schema stores.
type CatalogEntry struct {
	ID     int
	Nombre string
}

// CatalogoCombustibles lists the fuel-type ids the resolvers assume.
func CatalogoCombustibles() []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(tiposCombustible))
	for _, t := range tiposCombustible {
		entries = append(entries, CatalogEntry{ID: t.ID, Nombre: t.Nombre})
	}
	return entries
}

// CatalogoEstados lists the order-state ids the resolvers assume.
func CatalogoEstados() []CatalogEntry {
	return []CatalogEntry{
		{EstadoPendienteID, EstadoPendiente},
		{EstadoEnRutaID, EstadoEnRuta},
		{EstadoCompletadoID, EstadoCompletado},
		{EstadoCanceladoID, EstadoCancelado},
	}
}

// TipoCombustibleID resolves a fuel-type display name to its lookup id.
// Unknown names fall back to a case-insensitive substring match against the
// known names, and finally to Regular.
func TipoCombustibleID(nombre string) int {
	for _, t := range tiposCombustible {
		if t.Nombre == nombre {
			return t.ID
		}
	}
	if nombre != "" {
		for _, t := range tiposCombustible {
			if strings.Contains(strings.ToLower(t.Nombre), strings.ToLower(nombre)) {
				return t.ID
			}
		}
	}
	return TipoRegular
}

// EstadoPedidoID resolves a state name (any casing) to its lookup id.
// Empty or unrecognized input resolves to Pendiente.
func EstadoPedidoID(estado string) int {
	if id, ok := estadosPedido[strings.ToLower(estado)]; ok {
		return id
	}
	return EstadoPendienteID
}

// EsEstadoConocido reports whether the name (any casing) is one of the four
// lifecycle states.
func EsEstadoConocido(estado string) bool {
	_, ok := estadosPedido[strings.ToLower(estado)]
	return ok
}

// NormalizarEstado maps a state name to the exact text the schema stores
// (e.g. "en_ruta" -> "En_Ruta"). Unknown input passes through unchanged.
func NormalizarEstado(estado string) string {
	if display, ok := estadosDisplay[strings.ToLower(estado)]; ok {
		return display
	}
	return estado
}

// NormalizarUrgencia maps an urgency name to one of the enumerated values,
// defaulting to Normal.
func NormalizarUrgencia(urgencia string) string {
	if u, ok := urgencias[strings.ToLower(urgencia)]; ok {
		return u
	}
	return UrgenciaNormal
}

// NormalizarTelefono strips everything but digits.
func NormalizarTelefono(telefono string) string {
	var b strings.Builder
	for _, r := range telefono {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseCantidad coerces the quantity field to an integer. The schema column
// is an integer, so fractional input truncates: "15.7" stores 15.
func ParseCantidad(cantidad string) (int, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(cantidad), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: cantidad %q is not numeric", ErrPedidoInvalido, cantidad)
	}
	return int(f), nil
}
