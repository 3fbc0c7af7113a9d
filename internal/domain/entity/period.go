package entity

import (
	"fmt"
	"time"
)

// Period rango de días civiles [Start, End], ambos inclusive.
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod trunca ambos extremos al día y valida el orden.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: truncateDay(start), End: truncateDay(end)}
	if p.Start.After(p.End) {
		return Period{}, fmt.Errorf("inicio %s posterior al fin %s", p.Start.Format(DayLayout), p.End.Format(DayLayout))
	}
	return p, nil
}

// ParsePeriod construye el período desde dos fechas YYYY-MM-DD.
func ParsePeriod(start, end string) (Period, error) {
	s, err := time.Parse(DayLayout, start)
	if err != nil {
		return Period{}, fmt.Errorf("fecha de inicio inválida %q: %w", start, err)
	}
	e, err := time.Parse(DayLayout, end)
	if err != nil {
		return Period{}, fmt.Errorf("fecha de fin inválida %q: %w", end, err)
	}
	return NewPeriod(s, e)
}

// Contains indica si el día (ya truncado) cae dentro del período.
func (p Period) Contains(day time.Time) bool {
	d := truncateDay(day)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Equal compara extremos a nivel de día.
func (p Period) Equal(o Period) bool {
	return p.Start.Equal(o.Start) && p.End.Equal(o.End)
}

// Key representación estable "inicio..fin".
func (p Period) Key() string {
	return p.Start.Format(DayLayout) + ".." + p.End.Format(DayLayout)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
