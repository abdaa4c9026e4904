package codec

// Integer bounds used by the fixed-width integer codecs below to validate
// values before encoding. Adapted from the bounds table erigon-lib keeps in
// common/math/integer.go, rewritten here as the untyped constants the
// generic Integer codec actually needs (the erigon file's HexOrDecimal64
// JSON helper is Ethereum-RPC specific and has no home in this façade).
const (
	MaxInt8  = 1<<7 - 1
	MinInt8  = -1 << 7
	MaxInt16 = 1<<15 - 1
	MinInt16 = -1 << 15
	MaxInt32 = 1<<31 - 1
	MinInt32 = -1 << 31
	MaxInt64 = 1<<63 - 1
	MinInt64 = -1 << 63

	MaxUint8  = 1<<8 - 1
	MaxUint16 = 1<<16 - 1
	MaxUint32 = 1<<32 - 1
)
