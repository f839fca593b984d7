// Package fifo calcula la urgencia FIFO de un lote a partir de su fecha de
// expiración. Es cálculo puro: los llamadores persisten el resultado como
// cache de presentación (InventoryLot.PriorityScore) y lo recalculan al leer.
package fifo

import "time"

// DaysUntilExpiry devuelve los días calendario hasta la expiración.
// Negativo si el lote ya venció. Compara fechas truncadas, no instantes.
func DaysUntilExpiry(expiration, asOf time.Time) int {
	e := truncateDay(expiration)
	a := truncateDay(asOf)
	return int(e.Sub(a).Hours() / 24)
}

// Score devuelve la urgencia FIFO en [0, 100] para la fecha de expiración dada.
func Score(expiration, asOf time.Time) int {
	return ScoreForDays(DaysUntilExpiry(expiration, asOf))
}

// ScoreForDays mapea días-hasta-expiración a urgencia. Monótona no creciente:
// satura en 100 para lotes vencidos o inminentes y decae a 0 pasadas ~4 semanas.
//
//	<= 0 días  → 100
//	1–3 días   → 80
//	4–7 días   → 50
//	8–14 días  → 25
//	> 14 días  → 25 menos 2 por día extra, con piso en 0
func ScoreForDays(days int) int {
	switch {
	case days <= 0:
		return 100
	case days <= 3:
		return 80
	case days <= 7:
		return 50
	case days <= 14:
		return 25
	}
	score := 25 - (days-14)*2
	if score < 0 {
		return 0
	}
	return score
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
