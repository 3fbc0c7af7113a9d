package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/liquidacion-api/internal/domain"
	"github.com/jhoicas/liquidacion-api/internal/domain/entity"
	"github.com/jhoicas/liquidacion-api/internal/domain/repository"
)

// Schema tabla única de documentos JSONB, una fila por documento.
const Schema = `
CREATE TABLE IF NOT EXISTS records (
	collection TEXT  NOT NULL,
	id         TEXT  NOT NULL,
	doc        JSONB NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS records_doc_gin ON records USING GIN (doc jsonb_path_ops);`

// dbtx lo cumplen *pgxpool.Pool, *pgx.Conn y pgx.Tx.
type dbtx interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RecordStore implementa repository.RecordStore sobre PostgreSQL (documentos JSONB).
// Las fechas se guardan como texto ISO dentro del documento.
type RecordStore struct {
	db dbtx
}

var _ repository.RecordStore = (*RecordStore)(nil)

// NewRecordStore construye el almacén con el pool o una transacción.
func NewRecordStore(db dbtx) *RecordStore {
	return &RecordStore{db: db}
}

// EnsureSchema crea la tabla si no existe.
func (s *RecordStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("crear esquema records: %w", err)
	}
	return nil
}

// QueryByDateRange implementa repository.RecordStore.
func (s *RecordStore) QueryByDateRange(ctx context.Context, collection, dateField string, rng repository.DateRange, filters ...repository.Filter) ([]repository.Record, error) {
	q, args, err := BuildQuery(collection, dateField, &rng, filters...)
	if err != nil {
		return nil, domain.NewAdapterError("queryByDateRange", collection, err)
	}
	recs, err := s.query(ctx, q, args)
	if err != nil {
		return nil, domain.NewAdapterError("queryByDateRange", collection, err)
	}
	return recs, nil
}

// QueryByEquality implementa repository.RecordStore.
func (s *RecordStore) QueryByEquality(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Record, error) {
	q, args, err := BuildQuery(collection, "", nil, filters...)
	if err != nil {
		return nil, domain.NewAdapterError("queryByEquality", collection, err)
	}
	recs, err := s.query(ctx, q, args)
	if err != nil {
		return nil, domain.NewAdapterError("queryByEquality", collection, err)
	}
	return recs, nil
}

func (s *RecordStore) query(ctx context.Context, q string, args []any) ([]repository.Record, error) {
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var out []repository.Record
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec, err := DecodeRecord(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// BuildQuery arma el SELECT parametrizado. rng nil omite el filtro de fechas; los filtros de
// igualdad se expresan como contención JSONB (doc @> {...}).
func BuildQuery(collection, dateField string, rng *repository.DateRange, filters ...repository.Filter) (string, []any, error) {
	var (
		sb   strings.Builder
		args = []any{collection}
	)
	sb.WriteString("SELECT id, doc FROM records WHERE collection = $1")

	if rng != nil {
		if dateField == "" {
			return "", nil, fmt.Errorf("campo de fecha vacío")
		}
		args = append(args, dateField, rng.From.UTC().Format(entity.DayLayout), rng.UpperBound().Format(entity.DayLayout))
		sb.WriteString(" AND doc->>$2 >= $3 AND doc->>$2 < $4")
	}

	if len(filters) > 0 {
		contains := make(map[string]any, len(filters))
		for _, f := range filters {
			if f.Field == "" {
				return "", nil, fmt.Errorf("filtro sin campo")
			}
			contains[f.Field] = f.Value
		}
		b, err := json.Marshal(contains)
		if err != nil {
			return "", nil, fmt.Errorf("serializar filtros: %w", err)
		}
		args = append(args, string(b))
		sb.WriteString(" AND doc @> $" + strconv.Itoa(len(args)) + "::jsonb")
	}

	sb.WriteString(" ORDER BY id")
	return sb.String(), args, nil
}

// DecodeRecord convierte la fila en Record; el id de la fila prevalece si el documento no trae uno.
func DecodeRecord(id string, raw []byte) (repository.Record, error) {
	rec := repository.Record{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("documento %s malformado: %w", id, err)
		}
	}
	if rec.ID() == "" {
		rec["id"] = id
	}
	return rec, nil
}
