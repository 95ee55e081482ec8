// Package effect defines the conventional descriptor variants carried inside
// command envelopes. The runtime core never inspects these shapes; they
// exist so interpreters can pattern-match on a closed set of variants
// instead of probing arbitrary keys, and so tests can compare descriptors
// structurally.
//
// Each variant belongs to an effect family named by Family(); the interp
// package routes descriptors to the interpreter registered for their family.
// Applications are free to define additional variants under the same
// Descriptor contract.
package effect

import "time"

// Family identifiers for the built-in descriptor variants.
const (
	FamilyHTTP    = "http"
	FamilyTimer   = "timer"
	FamilyStorage = "storage"
	FamilyModel   = "model"
)

// Descriptor is implemented by every effect variant. Family names the
// interpreter responsible for the effect.
type Descriptor interface {
	Family() string
}

// HTTP describes a network request. Data is the request payload; when JSON
// is set the interpreter serializes Data as a JSON body and parses the
// response body as JSON before handing it back raw.
type HTTP struct {
	Method string
	URL    string
	Data   any
	JSON   bool
}

// Family implements Descriptor.
func (HTTP) Family() string { return FamilyHTTP }

// Timer describes a delay. The raw result is the elapsed duration.
type Timer struct {
	Duration time.Duration
}

// Family implements Descriptor.
func (Timer) Family() string { return FamilyTimer }

// StorageOp enumerates the operations of the storage effect family.
type StorageOp string

// Storage operations.
const (
	StorageGet    StorageOp = "get"
	StoragePut    StorageOp = "put"
	StorageDelete StorageOp = "delete"
	StorageList   StorageOp = "list"
)

// Storage describes a keyed read or write against a storage interpreter.
// Value is only meaningful for put.
type Storage struct {
	Op    StorageOp
	Key   string
	Value any
}

// Family implements Descriptor.
func (Storage) Family() string { return FamilyStorage }

// ModelCall describes a single-turn language model completion. The raw
// result is the generated text; providers map Model/System/MaxTokens onto
// their native request parameters.
type ModelCall struct {
	Model     string
	System    string
	Prompt    string
	MaxTokens int64
}

// Family implements Descriptor.
func (ModelCall) Family() string { return FamilyModel }
