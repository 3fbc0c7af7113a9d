package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/liquidacion-api/internal/domain"
	"github.com/jhoicas/liquidacion-api/internal/domain/entity"
	"github.com/jhoicas/liquidacion-api/internal/domain/repository"
)

const isoLayout = "2006-01-02T15:04:05"

// RecordStore implementa repository.RecordStore sobre MongoDB.
// Las fechas pueden estar guardadas como texto ISO o como BSON Date; el filtro cubre ambas.
type RecordStore struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

var _ repository.RecordStore = (*RecordStore)(nil)

// NewRecordStore conecta y verifica con ping.
func NewRecordStore(ctx context.Context, uri, dbName string, timeout time.Duration) (*RecordStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("conectar a mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &RecordStore{client: client, db: client.Database(dbName), timeout: timeout}, nil
}

// Close cierra la conexión.
func (s *RecordStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// QueryByDateRange implementa repository.RecordStore.
func (s *RecordStore) QueryByDateRange(ctx context.Context, collection, dateField string, rng repository.DateRange, filters ...repository.Filter) ([]repository.Record, error) {
	docs, err := s.find(ctx, collection, DateRangeFilter(dateField, rng, filters...))
	if err != nil {
		return nil, domain.NewAdapterError("queryByDateRange", collection, err)
	}
	return docs, nil
}

// QueryByEquality implementa repository.RecordStore.
func (s *RecordStore) QueryByEquality(ctx context.Context, collection string, filters ...repository.Filter) ([]repository.Record, error) {
	docs, err := s.find(ctx, collection, EqualityFilter(filters...))
	if err != nil {
		return nil, domain.NewAdapterError("queryByEquality", collection, err)
	}
	return docs, nil
}

func (s *RecordStore) find(ctx context.Context, collection string, filter bson.D) ([]repository.Record, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	cur, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("leer cursor: %w", err)
	}
	out := make([]repository.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, ToRecord(d))
	}
	return out, nil
}

// ── Filtros ──────────────────────────────────────────────────────────────────

// EqualityFilter filtro {campo: valor, ...}; sin filtros, toda la colección.
func EqualityFilter(filters ...repository.Filter) bson.D {
	out := bson.D{}
	for _, f := range filters {
		out = append(out, bson.E{Key: f.Field, Value: f.Value})
	}
	return out
}

// DateRangeFilter from <= fecha < día siguiente a To, sea texto ISO o BSON Date.
func DateRangeFilter(dateField string, rng repository.DateRange, filters ...repository.Filter) bson.D {
	from := rng.From.UTC()
	upper := rng.UpperBound()
	out := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: dateField, Value: bson.D{
			{Key: "$gte", Value: from.Format(entity.DayLayout)},
			{Key: "$lt", Value: upper.Format(entity.DayLayout)},
		}}},
		bson.D{{Key: dateField, Value: bson.D{
			{Key: "$gte", Value: primitive.NewDateTimeFromTime(from)},
			{Key: "$lt", Value: primitive.NewDateTimeFromTime(upper)},
		}}},
	}}}
	return append(out, EqualityFilter(filters...)...)
}

// ── Conversión de documentos ─────────────────────────────────────────────────

// ToRecord convierte un documento BSON a Record: _id pasa a id (texto), las fechas a ISO
// y los tipos BSON a tipos Go planos.
func ToRecord(doc bson.M) repository.Record {
	rec := make(repository.Record, len(doc)+1)
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		rec[k] = plain(v)
	}
	if _, ok := rec["id"]; !ok {
		if id, ok := doc["_id"]; ok {
			rec["id"] = idString(id)
		}
	}
	return rec
}

func idString(v any) string {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case string:
		return t
	}
	return fmt.Sprint(v)
}

func plain(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC().Format(isoLayout)
	case time.Time:
		return t.UTC().Format(isoLayout)
	case primitive.Decimal128:
		return t.String()
	case primitive.M:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = plain(e)
		}
		return m
	case primitive.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = plain(e.Value)
		}
		return m
	case primitive.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	case primitive.Null, primitive.Undefined:
		return nil
	}
	return v
}
