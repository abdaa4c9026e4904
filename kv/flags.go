package kv

// EnvFlag mirrors the logical environment flag groups libmdbx exposes.
// Exact bit values are engine-defined; kv/mdbx maps them onto the
// corresponding mdbx-go constants. kv/memkv ignores the flags passed at
// open and acts on none of them, EnvReadOnly included.
type EnvFlag uint32

const (
	NoSubDir EnvFlag = 1 << iota
	EnvReadOnly
	WriteMap
	NoMetaSync
	NoSync
	MapAsync
	NoTLS
	NoLock
	NoReadAhead
	NoMemInit
)

// DBFlag mirrors the sub-database flag group.
type DBFlag uint32

const (
	ReverseKey DBFlag = 1 << iota
	DupSort
	IntegerKey
	DupFixed
	IntegerDup
	ReverseDup
	Create
)

// PutFlag mirrors the put-operation flag group.
type PutFlag uint32

const (
	NoOverwrite PutFlag = 1 << iota
	NoDupData
	Current
	Reserve
	Append
	AppendDup
)

func (f DBFlag) Has(bit DBFlag) bool   { return f&bit != 0 }
func (f EnvFlag) Has(bit EnvFlag) bool { return f&bit != 0 }
func (f PutFlag) Has(bit PutFlag) bool { return f&bit != 0 }
