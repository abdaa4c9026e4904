package mdbxkv

import (
	"github.com/erigontech/mdbxkv/kv"
	"github.com/erigontech/mdbxkv/mdbxkv/codec"
)

// PolyDatabase is a sub-database handle that defers codec choice to each
// call site instead of fixing (K, V) at open time, the polymorphic
// counterpart to Database[K, V]. It carries no type parameters
// and so is not registered with Environment.checkType: nothing stops a
// caller from decoding the same bytes under two different codecs across
// two calls, which is exactly the "casting to different codec types
// breaks type discipline and can corrupt reads" note the typed handle
// exists to prevent. Use PolyDatabase only where call-site flexibility is
// worth losing that guarantee — e.g. a generic table browser that doesn't
// know K/V until runtime.
type PolyDatabase struct {
	env  *Environment
	dbi  kv.RawDBI
	name string
}

// OpenPolyDatabase attaches to an existing sub-database without asserting
// any (K, V) identity on it. It returns (nil, nil) if name does not exist.
func OpenPolyDatabase(txn txnHandle, name string) (*PolyDatabase, error) {
	dbi, err := txn.rawTxn().OpenDBI(name, 0, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fromRaw("open_poly_database", err)
	}
	return &PolyDatabase{env: txn.environment(), dbi: dbi, name: name}, nil
}

// CreatePolyDatabase attaches to name, creating it if absent.
func CreatePolyDatabase(txn *RwTxn, name string, flags kv.DBFlag) (*PolyDatabase, error) {
	dbi, err := txn.raw.OpenDBI(name, flags|kv.Create, nil)
	if err != nil {
		return nil, fromRaw("create_poly_database", err)
	}
	return &PolyDatabase{env: txn.environment(), dbi: dbi, name: name}, nil
}

// AsPoly erases db's codec types, the "thin phantom" direction of the
// typed/polymorphic interconversion. The returned handle shares the
// same dbi; writes through either are visible through both.
func (db *Database[K, V]) AsPoly() *PolyDatabase {
	return &PolyDatabase{env: db.env, dbi: db.dbi, name: db.name}
}

// BindPoly is AsPoly's inverse: it re-attaches fixed codec types to a
// PolyDatabase, the unsafe direction since nothing checks the bytes
// already stored under poly's dbi actually decode under (K, V). Equivalent
// to heed's Database::remap_types applied to a PolyDatabase's identity.
func BindPoly[K, V any](poly *PolyDatabase, kc codec.Codec[K], vc codec.Codec[V]) *Database[K, V] {
	return &Database[K, V]{env: poly.env, dbi: poly.dbi, name: poly.name, kc: kc, vc: vc}
}

func (db *PolyDatabase) assertOwner(txn txnHandle) {
	assertOwnedBy(db.env, txn)
}

// PolyGet is Database.Get with the codecs supplied at the call site.
func PolyGet[K, V any](db *PolyDatabase, txn txnHandle, key K, kc codec.Encoder[K], vc codec.Decoder[V]) (val V, ok bool, err error) {
	db.assertOwner(txn)
	var zero V
	kb, err := kc.EncodeTo(key)
	if err != nil {
		return zero, false, err
	}
	raw, found, err := txn.rawTxn().Get(db.dbi, kb)
	if err != nil {
		return zero, false, fromRaw("poly_get", err)
	}
	if !found {
		return zero, false, nil
	}
	plain, err := db.env.open(raw)
	if err != nil {
		return zero, false, err
	}
	val, err = vc.Decode(plain)
	if err != nil {
		return zero, false, err
	}
	return val, true, nil
}

// PolyPut is Database.Put with the codecs supplied at the call site.
func PolyPut[K, V any](db *PolyDatabase, txn *RwTxn, key K, val V, kc codec.Encoder[K], vc codec.Encoder[V]) error {
	return PolyPutWithFlags(db, txn, key, val, 0, kc, vc)
}

// PolyPutWithFlags is PolyPut with direct access to the raw put-flag bits.
func PolyPutWithFlags[K, V any](db *PolyDatabase, txn *RwTxn, key K, val V, flags kv.PutFlag, kc codec.Encoder[K], vc codec.Encoder[V]) error {
	db.assertOwner(txn)
	kb, err := kc.EncodeTo(key)
	if err != nil {
		return err
	}
	vb, err := vc.EncodeTo(val)
	if err != nil {
		return err
	}
	sealed, err := db.env.seal(vb)
	if err != nil {
		return err
	}
	return fromRaw("poly_put", txn.raw.Put(db.dbi, kb, sealed, flags))
}

// PolyDelete is Database.Delete with the key codec supplied at the call
// site.
func PolyDelete[K any](db *PolyDatabase, txn *RwTxn, key K, kc codec.Encoder[K]) (bool, error) {
	db.assertOwner(txn)
	kb, err := kc.EncodeTo(key)
	if err != nil {
		return false, err
	}
	found, err := txn.raw.Delete(db.dbi, kb, nil)
	if err != nil {
		return false, fromRaw("poly_delete", err)
	}
	return found, nil
}

// Len returns the number of entries; unlike Database.Len it needs no
// codecs since it never touches keys or values.
func (db *PolyDatabase) Len(txn txnHandle) (uint64, error) {
	db.assertOwner(txn)
	stat, err := txn.rawTxn().DBIStat(db.dbi)
	if err != nil {
		return 0, fromRaw("poly_len", err)
	}
	return stat.Entries, nil
}

func (db *PolyDatabase) IsEmpty(txn txnHandle) (bool, error) {
	n, err := db.Len(txn)
	return n == 0, err
}

// Clear removes every entry without dropping the sub-database itself.
func (db *PolyDatabase) Clear(txn *RwTxn) error {
	db.assertOwner(txn)
	return fromRaw("poly_clear", txn.raw.DropDBI(db.dbi, false))
}
