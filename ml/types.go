// types.go - Datentypen und Konstanten fuer Graph-Operationen
// Dieses Modul definiert grundlegende Typen wie DType und Combiner.
package ml

// DType represents the data type of tensor elements.
type DType int

const (
	DTypeOther DType = iota
	DTypeF32
	DTypeF16
	DTypeI32
	DTypeI64
)

func (d DType) String() string {
	switch d {
	case DTypeF32:
		return "f32"
	case DTypeF16:
		return "f16"
	case DTypeI32:
		return "i32"
	case DTypeI64:
		return "i64"
	default:
		return "other"
	}
}

// IsInteger reports whether values of this type are whole numbers.
func (d DType) IsInteger() bool {
	return d == DTypeI32 || d == DTypeI64
}

// Combiner selects how EmbeddingLookupSparse reduces the embeddings of one row.
type Combiner int

const (
	CombinerSum Combiner = iota
	CombinerMean
	CombinerSqrtN
)

func (c Combiner) String() string {
	switch c {
	case CombinerMean:
		return "mean"
	case CombinerSqrtN:
		return "sqrtn"
	default:
		return "sum"
	}
}
