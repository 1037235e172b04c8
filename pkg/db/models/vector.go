package models

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// VectorField persists a float32 vector on both supported backends: a native
// pgvector column on Postgres, a packed little-endian blob on SQLite.
type VectorField []float32

func (VectorField) GormDataType() string {
	return "vector"
}

func (VectorField) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return fmt.Sprintf("vector(%d)", EmbeddingDim)
	default:
		return "BLOB"
	}
}

func (v VectorField) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	if db.Dialector.Name() == "postgres" {
		return clause.Expr{SQL: "?", Vars: []any{pgvector.NewVector(v)}}
	}
	return clause.Expr{SQL: "?", Vars: []any{v.encode()}}
}

// Scan accepts either the pgvector text representation ("[1,2,3]") or the
// packed blob written on SQLite.
func (v *VectorField) Scan(src any) error {
	switch raw := src.(type) {
	case nil:
		*v = nil
		return nil
	case string:
		return v.scanText([]byte(raw))
	case []byte:
		if len(raw) > 0 && raw[0] == '[' {
			return v.scanText(raw)
		}
		return v.scanBlob(raw)
	default:
		return fmt.Errorf("unsupported vector source type %T", src)
	}
}

func (v *VectorField) scanText(raw []byte) error {
	var pv pgvector.Vector
	if err := pv.Scan(raw); err != nil {
		return err
	}
	*v = pv.Slice()
	return nil
}

func (v *VectorField) scanBlob(raw []byte) error {
	if len(raw)%4 != 0 {
		return fmt.Errorf("vector blob length %d is not a multiple of 4", len(raw))
	}
	out := make([]float32, len(raw)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	*v = out
	return nil
}

func (v VectorField) encode() []byte {
	raw := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(f))
	}
	return raw
}
