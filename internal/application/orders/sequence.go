package orders

import "fmt"

// numberWidth ancho fijo del consecutivo visible.
const numberWidth = 6

// FormatNumber da formato al consecutivo de la orden: ancho fijo con ceros a
// la izquierda ("000001"). El número es un identificador visible, no la clave
// primaria; una orden anulada conserva el suyo y los huecos son aceptables.
func FormatNumber(n int64) string {
	return fmt.Sprintf("%0*d", numberWidth, n)
}
